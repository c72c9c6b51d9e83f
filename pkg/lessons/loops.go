package lessons

import "errors"

// ErrZeroStep is returned by Range when step is zero.
var ErrZeroStep = errors.New("range step cannot be zero")

// Range returns start, start+step, ... up to but excluding stop. A negative
// step counts down. An empty result is valid.
func Range(start, stop, step int) ([]int, error) {
	if step == 0 {
		return nil, ErrZeroStep
	}

	var out []int
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, i)
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, i)
		}
	}
	return out, nil
}

// RangeTo is Range(0, n, 1).
func RangeTo(n int) []int {
	out, _ := Range(0, n, 1)
	return out
}

// IndexWalk visits items by position rather than by value.
func IndexWalk(items []string) []string {
	out := make([]string, 0, len(items))
	for _, i := range RangeTo(len(items)) {
		out = append(out, items[i])
	}
	return out
}

// HalvingSequence returns every value of x, starting at start, for which
// x > 1 held before x was cut in half.
func HalvingSequence(start float32) []float32 {
	var out []float32
	x := start
	for x > 1.0 {
		out = append(out, x)
		x = x / 2.0
	}
	return out
}

// RunningSums returns sum(0..i) for each i in [0, n).
func RunningSums(n int) []int {
	out := make([]int, 0, n)
	sum := 0
	for i := 0; i < n; i++ {
		sum += i
		out = append(out, sum)
	}
	return out
}

// inOpenWindow is the loop condition used by the while and do-while demos.
func inOpenWindow(j int) bool {
	return j > 10 && j < 20
}

// WhileSteps returns the values of j a while loop guarded by 10 < j < 20
// visits. For j = 10 the body never runs.
func WhileSteps(j int) []int {
	var out []int
	for inOpenWindow(j) {
		out = append(out, j)
		j++
	}
	return out
}

// DoWhileSteps is WhileSteps with the condition checked after the body, so
// the first value is always visited.
func DoWhileSteps(j int) []int {
	var out []int
	for {
		out = append(out, j)
		j++
		if !inOpenWindow(j) {
			break
		}
	}
	return out
}

// BreakAt returns the iterations of 0..n-1 executed before hitting stop.
func BreakAt(n, stop int) []int {
	var out []int
	for i := 0; i < n; i++ {
		if i == stop {
			break
		}
		out = append(out, i)
	}
	return out
}

// SkipAt returns 0..n-1 without skip.
func SkipAt(n, skip int) []int {
	var out []int
	for i := 0; i < n; i++ {
		if i == skip {
			continue
		}
		out = append(out, i)
	}
	return out
}

// Branch identifies which arm of an if / else if / else chain ran.
type Branch int

const (
	BranchBelow Branch = iota // i < 5
	BranchEqual               // i == 5
	BranchAbove               // i > 5
)

// Classify evaluates the if-statements lesson's chain for i.
func Classify(i int) Branch {
	if i < 5 {
		return BranchBelow
	} else if i == 5 {
		return BranchEqual
	}
	return BranchAbove
}

// FibonacciUntil returns 0, 1 and then each following term for as long as
// the previous term was below limit. The last term is therefore the first
// one that reaches limit.
func FibonacciUntil(limit int) []int {
	n1, n2 := 0, 1
	out := []int{n1, n2}
	for n2 < limit {
		next := n1 + n2
		out = append(out, next)
		n1, n2 = n2, next
	}
	return out
}
