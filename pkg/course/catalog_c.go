package course

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/primerlab/primer/pkg/lessons"
)

func cLessons() []Lesson {
	lesson := func(order int, id, title, summary string, run RunFunc, requires ...string) Lesson {
		return Lesson{ID: id, Title: title, Track: TrackC, Kind: KindDemo, Order: order, Summary: summary, Requires: requires, Run: run}
	}

	return []Lesson{
		lesson(10, "data-types", "Data types", "Values of a byte, int32, float32 and float64 and their sizes.", runDataTypes),
		lesson(20, "while-loop", "While loops", "Halve a number while it is greater than 1.", runWhileLoop),
		lesson(21, "for-loop", "For loops", "Keep a running sum across iterations.", runForLoop, "while-loop"),
		lesson(22, "do-while", "Do-while loops", "A do-while body runs once even when the condition is false.", runDoWhile, "while-loop"),
		lesson(23, "break", "Break", "Leave a loop early.", runBreak, "for-loop"),
		lesson(24, "continue", "Continue", "Skip one iteration of a loop.", runContinue, "for-loop"),
		lesson(30, "if-chain", "If statements", "Single-line if, if-else and if-else if-else.", runIfChain),
		lesson(40, "add-numbers", "Adding two numbers", "A function that returns the sum of its arguments.", runAddNumbers),
		withPrograms(lesson(41, "call-by-value", "Call by value and by reference", "Changing a parameter versus writing through a pointer.", runCallByValue, "add-numbers"),
			Program{Name: "change_value", Write: func(w io.Writer) { writeChangeValue(w) }},
			Program{Name: "change_value_correct", Write: func(w io.Writer) { writeChangeValueCorrect(w) }},
		),
		lesson(50, "pointers", "Addresses and pointers", "Take an address, read and write through it.", runPointers, "call-by-value"),
		lesson(60, "swap", "Swap two numbers", "Exchange two values through pointers.", runSwap, "pointers"),
		lesson(61, "circle", "Circle area", "Area of a circle of radius 2.", runCircle),
		lesson(62, "fibonacci", "Fibonacci", "Fibonacci numbers up to 1000.", runFibonacci, "while-loop"),
		withPrograms(lesson(70, "arrays", "Static and dynamic arrays", "A fixed-size array next to a slice allocated at run time.", runArrays, "for-loop"),
			Program{Name: "static", Write: func(w io.Writer) { writeStaticArray(w) }},
			Program{Name: "dynamic", Write: func(w io.Writer) { writeDynamicArray(w) }},
		),
		lesson(71, "vector-add", "Vector addition", "Add two vectors element by element.", runVectorAdd, "arrays"),
	}
}

func withPrograms(l Lesson, programs ...Program) Lesson {
	l.Programs = programs
	return l
}

func runDataTypes(w io.Writer) Outcome {
	rows := lessons.DataTypeRows()
	rule := strings.Repeat("-", 74)

	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "%-20s %-20s %-20s %-20s \n", "Variable", "Data Type", "Value", "Size (B)")
	fmt.Fprintln(w, rule)
	for _, row := range rows {
		fmt.Fprintf(w, "%-20s %-20s %-20s %-20d \n", row.Variable, row.Type, row.Value, row.Size)
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Actual value of pi ( 29 decimal places ): %s\n\n", lessons.PiDigits)

	sizes := make([]uintptr, len(rows))
	for i, row := range rows {
		sizes[i] = row.Size
	}
	want := []uintptr{1, 4, 4, 8}
	if slices.Equal(sizes, want) {
		return pass("sizes are 1, 4, 4 and 8 bytes", fmt.Sprint(want), fmt.Sprint(sizes))
	}
	return fail("unexpected type sizes", fmt.Sprint(want), fmt.Sprint(sizes))
}

func runWhileLoop(w io.Writer) Outcome {
	values := lessons.HalvingSequence(1000.0)
	for _, x := range values {
		fmt.Fprintf(w, "x = %f\n", x)
	}

	last := values[len(values)-1]
	actual := fmt.Sprintf("%d values ending at %f", len(values), last)
	if len(values) == 10 && last == 1.953125 {
		return pass("the loop stopped once x dropped to 1 or below", "10 values ending at 1.953125", actual)
	}
	return fail("the loop ran an unexpected number of times", "10 values ending at 1.953125", actual)
}

func runForLoop(w io.Writer) Outcome {
	sums := lessons.RunningSums(10)
	for i, sum := range sums {
		fmt.Fprintf(w, "Iteration: %d, sum = %d\n", i, sum)
	}

	final := sums[len(sums)-1]
	if final == 45 {
		return pass("final sum is 45", "45", fmt.Sprint(final))
	}
	return fail("final sum should be 45", "45", fmt.Sprint(final))
}

func runDoWhile(w io.Writer) Outcome {
	whileRuns := lessons.WhileSteps(10)
	for _, j := range whileRuns {
		fmt.Fprintf(w, "while: j = %d\n", j)
	}

	doRuns := lessons.DoWhileSteps(10)
	for _, j := range doRuns {
		fmt.Fprintf(w, "do-while: j = %d\n", j)
	}

	const want = "while ran 0, do-while ran 10 ending at 19"
	actual := fmt.Sprintf("while ran %d, do-while ran %d", len(whileRuns), len(doRuns))
	if len(doRuns) > 0 {
		actual += fmt.Sprintf(" ending at %d", doRuns[len(doRuns)-1])
	}
	if actual == want {
		return pass("the do-while body ran once at 10 and the condition held until 20", want, actual)
	}
	return fail("unexpected loop counts", want, actual)
}

func runBreak(w io.Writer) Outcome {
	seen := lessons.BreakAt(10, 7)
	for _, i := range seen {
		fmt.Fprintf(w, "Loop iteration: %d\n", i)
	}

	want := []int{0, 1, 2, 3, 4, 5, 6}
	if slices.Equal(seen, want) {
		return pass("the loop stopped at 7", pyInts(want), pyInts(seen))
	}
	return fail("the loop should stop at 7", pyInts(want), pyInts(seen))
}

func runContinue(w io.Writer) Outcome {
	seen := lessons.SkipAt(10, 7)
	for _, i := range seen {
		fmt.Fprintf(w, "Loop iteration: %d\n", i)
	}

	if len(seen) == 9 && !slices.Contains(seen, 7) {
		return pass("7 was skipped", "0-9 without 7", pyInts(seen))
	}
	return fail("only 7 should be skipped", "0-9 without 7", pyInts(seen))
}

func runIfChain(w io.Writer) Outcome {
	i := 1

	if i > 0 {
		fmt.Fprintf(w, "i is equal to %d, which is indeed greater than 0\n\n", i)
	}

	if i == 0 {
		fmt.Fprint(w, "i is equal to 0\n\n")
	} else {
		fmt.Fprint(w, "Sorry, i is not equal to 0\n\n")
	}

	counts := make(map[lessons.Branch]int)
	for ; i < 10; i++ {
		branch := lessons.Classify(i)
		counts[branch]++
		switch branch {
		case lessons.BranchBelow:
			fmt.Fprintf(w, "i = %d (i < 5)\n", i)
		case lessons.BranchEqual:
			fmt.Fprintln(w, "i is equal to 5")
		default:
			fmt.Fprintf(w, "i = %d (i > 5)\n", i)
		}
	}

	actual := fmt.Sprintf("%d below, %d equal, %d above",
		counts[lessons.BranchBelow], counts[lessons.BranchEqual], counts[lessons.BranchAbove])
	if actual == "4 below, 1 equal, 4 above" {
		return pass("each branch ran the expected number of times", actual, actual)
	}
	return fail("unexpected branch counts", "4 below, 1 equal, 4 above", actual)
}

func runAddNumbers(w io.Writer) Outcome {
	sum := lessons.AddNumbers(3, 7)
	fmt.Fprintf(w, "The sum of num1 and num2 is %d\n", sum)

	if sum == 10 {
		return pass("3 + 7 = 10", "10", fmt.Sprint(sum))
	}
	return fail("3 + 7 should be 10", "10", fmt.Sprint(sum))
}

func runCallByValue(w io.Writer) Outcome {
	byValue := writeChangeValue(w)
	byRef := writeChangeValueCorrect(w)

	actual := fmt.Sprintf("by value %d, by reference %d", byValue, byRef)
	if byValue == 1 && byRef == 2 {
		return pass("only the pointer version changed the caller's variable", "by value 1, by reference 2", actual)
	}
	return fail("unexpected values after the calls", "by value 1, by reference 2", actual)
}

// writeChangeValue passes number by value and returns it after the call.
func writeChangeValue(w io.Writer) int {
	number := 1
	fmt.Fprintf(w, "\nBefore calling the function, number = %d\n", number)
	fmt.Fprintf(w, "Inside the function, the number's value is %d\n", lessons.ChangeNumber(number))
	fmt.Fprintf(w, "After calling the function, number = %d\n\n", number)
	return number
}

// writeChangeValueCorrect passes a pointer to number and returns it after
// the call.
func writeChangeValueCorrect(w io.Writer) int {
	number := 1
	fmt.Fprintf(w, "\nBefore calling the function, number = %d\n", number)
	lessons.ChangeNumberByRef(&number)
	fmt.Fprintf(w, "Inside the function, the number's value is %d\n", number)
	fmt.Fprintf(w, "After calling the function, number = %d\n\n", number)
	return number
}

func runPointers(w io.Writer) Outcome {
	var x float32 = 2.713
	px := &x

	fmt.Fprintf(w, "The value of x:   %f\n", x)
	fmt.Fprintf(w, "The address of x: %p\n", &x)
	fmt.Fprintf(w, "The value of p_x: %p\n", px)
	fmt.Fprintf(w, "The value stored at the memory address stored in p_x: %f\n", *px)

	*px = 3.141
	fmt.Fprintf(w, "\nThe value of x:   %f\n", x)

	if x == 3.141 {
		return pass("writing through p_x changed x", "3.141000", fmt.Sprintf("%f", x))
	}
	return fail("x should change when written through p_x", "3.141000", fmt.Sprintf("%f", x))
}

func runSwap(w io.Writer) Outcome {
	a, b := 2, 4
	fmt.Fprintf(w, "a = %d and b = %d\n", a, b)
	lessons.SwapNumbers(&a, &b)
	fmt.Fprintf(w, "a = %d and b = %d\n", a, b)

	actual := fmt.Sprintf("a = %d and b = %d", a, b)
	if a == 4 && b == 2 {
		return pass("the values were swapped", "a = 4 and b = 2", actual)
	}
	return fail("a and b should be swapped", "a = 4 and b = 2", actual)
}

func runCircle(w io.Writer) Outcome {
	var radius float32 = 2.0
	area := lessons.CircleArea(radius)
	fmt.Fprintf(w, "The area of a circle with radius %f is: %f\n", radius, area)

	actual := fmt.Sprintf("%f", area)
	if actual == "12.566368" {
		return pass("area matches pi*r*r", "12.566368", actual)
	}
	return fail("area should be 12.566368", "12.566368", actual)
}

func runFibonacci(w io.Writer) Outcome {
	terms := lessons.FibonacciUntil(1000)

	fmt.Fprintf(w, "%d, %d, ", terms[0], terms[1])
	for _, t := range terms[2:] {
		fmt.Fprintf(w, "%d\n", t)
	}
	fmt.Fprintln(w)

	last := terms[len(terms)-1]
	if last == 1597 && len(terms) == 18 {
		return pass("the sequence stopped after passing 1000", "18 terms ending at 1597", fmt.Sprintf("%d terms ending at %d", len(terms), last))
	}
	return fail("the sequence should stop after passing 1000", "18 terms ending at 1597", fmt.Sprintf("%d terms ending at %d", len(terms), last))
}

func runArrays(w io.Writer) Outcome {
	static := writeStaticArray(w)
	dynamic := writeDynamicArray(w)

	if slices.Equal(static[:], dynamic) {
		return pass("both arrays hold 0.25*i", "", "")
	}
	return fail("static and dynamic arrays differ", fmt.Sprint(static), fmt.Sprint(dynamic))
}

func writeStaticArray(w io.Writer) [lessons.QuarterStepCount]float32 {
	static := lessons.StaticQuarterSteps()
	for i, v := range static {
		fmt.Fprintf(w, "f_array[%d] = %f\n", i, v)
	}
	return static
}

func writeDynamicArray(w io.Writer) []float32 {
	dynamic := lessons.DynamicQuarterSteps(lessons.QuarterStepCount)
	for i, v := range dynamic {
		fmt.Fprintf(w, "f_array_dyn[%d] = %f\n", i, v)
	}
	return dynamic
}

func runVectorAdd(w io.Writer) Outcome {
	const n = 50
	a, b := lessons.VectorFixture(n)
	c, err := lessons.VectorAdd(a, b)
	if err != nil {
		return fail(err.Error(), "", "")
	}

	bad := 0
	for i, v := range c {
		fmt.Fprintf(w, "C[%d] = %d\n", i, v)
		if v != n {
			bad++
		}
	}

	if bad == 0 {
		return pass("every element of C is 50", "50", "50")
	}
	return fail("every element of C should be 50", "50", fmt.Sprintf("%d elements differ", bad))
}
