package lessons

import "math/rand/v2"

// Dice is the random number API of the build-track lesson.
type Dice struct {
	rng *rand.Rand
}

// NewDice seeds a generator. The same seed always yields the same draws.
func NewDice(seed uint64) *Dice {
	return &Dice{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Int returns a value in [1, limit]. A limit below 1 is treated as 1.
func (d *Dice) Int(limit int) int {
	if limit < 1 {
		limit = 1
	}
	return d.rng.IntN(limit) + 1
}

// Float returns a value in [1, 10).
func (d *Dice) Float() float32 {
	return 1 + 9*d.rng.Float32()
}

// AverageInt draws Int(limit) n times and returns the integer mean.
func (d *Dice) AverageInt(limit, n int) int {
	if n <= 0 {
		return 0
	}
	sum := 0
	for i := 0; i < n; i++ {
		sum += d.Int(limit)
	}
	return sum / n
}

// AverageFloat draws Float n times and returns the mean.
func (d *Dice) AverageFloat(n int) float32 {
	if n <= 0 {
		return 0
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += d.Float()
	}
	return sum / float32(n)
}
