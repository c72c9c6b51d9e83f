package course

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/primerlab/primer/pkg/lessons"
)

// RandomIterations is the number of draws averaged by the random-avg lesson.
const RandomIterations = 10000

func buildLessons() []Lesson {
	return []Lesson{
		{
			ID:       "random-avg",
			Title:    "Random number API",
			Track:    TrackBuild,
			Kind:     KindDemo,
			Order:    10,
			Summary:  "Average many draws from a small random number API.",
			Requires: []string{"add-numbers", "for-loop"},
			Run:      runRandomAverage,
		},
	}
}

// floatAverageTolerance is about ten standard errors of the mean of
// RandomIterations draws from [1, 10).
const floatAverageTolerance = 0.25

func runRandomAverage(w io.Writer) Outcome {
	return randomAverage(w, uint64(time.Now().UnixNano()))
}

func randomAverage(w io.Writer, seed uint64) Outcome {
	dice := lessons.NewDice(seed)

	intAvg := dice.AverageInt(10, RandomIterations)
	fmt.Fprintf(w, "getRand () avg: %d\n", intAvg)

	floatAvg := dice.AverageFloat(RandomIterations)
	fmt.Fprintf(w, "getSRand () avg: %g\n", floatAvg)

	expected := fmt.Sprintf("5 and 5.50 +/- %.2f", floatAverageTolerance)
	actual := fmt.Sprintf("%d and %.2f", intAvg, floatAvg)
	if intAvg == 5 && math.Abs(float64(floatAvg)-5.5) < floatAverageTolerance {
		return pass("both averages are close to the middle of their range", expected, actual)
	}
	return fail("averages drifted from the middle of their range", expected, actual)
}

// DefaultRegistry returns a registry holding every built-in lesson.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(pythonLessons()...)
	r.MustRegister(cLessons()...)
	r.MustRegister(buildLessons()...)
	if _, err := r.Curriculum(); err != nil {
		panic(fmt.Sprintf("built-in curriculum: %v", err))
	}
	return r
}
