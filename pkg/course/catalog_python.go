package course

import (
	"fmt"
	"io"
	"slices"

	"github.com/primerlab/primer/pkg/lessons"
)

func pythonLessons() []Lesson {
	return []Lesson{
		{
			ID:      "needle",
			Title:   "Find the needle",
			Track:   TrackPython,
			Kind:    KindChallenge,
			Order:   10,
			Summary: "Walk a list and return the position of \"needle\".",
			Run:     runNeedle,
		},
		{
			ID:      "box",
			Title:   "Box size",
			Track:   TrackPython,
			Kind:    KindChallenge,
			Order:   20,
			Summary: "Surface area and volume of a box from its width, height and depth.",
			Run:     runBox,
		},
		{
			ID:       "cake",
			Title:    "The cake is a lie",
			Track:    TrackPython,
			Kind:     KindChallenge,
			Order:    30,
			Summary:  "Slice and join a list until it matches another.",
			Requires: []string{"needle"},
			Run:      runCake,
		},
		{
			ID:       "sheep",
			Title:    "Counting sheep",
			Track:    TrackPython,
			Kind:     KindChallenge,
			Order:    40,
			Summary:  "Add up a list of booleans.",
			Requires: []string{"needle"},
			Run:      runSheep,
		},
		{
			ID:      "sum-var",
			Title:   "Functions return values",
			Track:   TrackPython,
			Kind:    KindChallenge,
			Order:   50,
			Summary: "Call a function with and without keeping its result.",
			Run:     runSumVar,
		},
		{
			ID:      "range",
			Title:   "Looping over ranges",
			Track:   TrackPython,
			Kind:    KindDemo,
			Order:   60,
			Summary: "range() with start, stop and step, and indexing a list by position.",
			Run:     runRange,
		},
	}
}

func runNeedle(w io.Writer) Outcome {
	pos1, _ := lessons.FindNeedle(lessons.HaystackOne)
	pos2, _ := lessons.FindNeedle(lessons.HaystackTwo)

	fmt.Fprintln(w, "Found the needle in the 1st haystack at position", pos1)
	fmt.Fprintln(w, "Found the needle in the 2nd haystack at position", pos2)

	actual := fmt.Sprintf("%d and %d", pos1, pos2)
	if pos1 == 5 && pos2 == 1 {
		fmt.Fprintln(w, "Success!")
		return pass("Success!", "5 and 1", actual)
	}
	fmt.Fprintln(w, "Try again!")
	fmt.Fprintln(w, "You should find them at position 5 and position 1")
	return fail("You should find them at position 5 and position 1", "5 and 1", actual)
}

func runBox(w io.Writer) Outcome {
	box1 := lessons.GetSize(1, 1, 1).Slice()
	box2 := lessons.GetSize(4, 2, 6).Slice()

	fmt.Fprintln(w, "Area and volume of 1x1x1 box: ", pyInts(box1))
	fmt.Fprintln(w, "Area and volume of 4x2x6 box: ", pyInts(box2))

	actual := pyInts(box1) + " and " + pyInts(box2)
	if slices.Equal(box1, []int{6, 1}) && slices.Equal(box2, []int{88, 48}) {
		fmt.Fprintln(w, "Success!")
		return pass("Success!", "[6, 1] and [88, 48]", actual)
	}
	fmt.Fprintln(w, "Try again!")
	fmt.Fprintln(w, "You should get [6,1] and [88,48]")
	return fail("You should get [6,1] and [88,48]", "[6, 1] and [88, 48]", actual)
}

func runCake(w io.Writer) Outcome {
	testCake, err := lessons.BakeTestCake(lessons.RealCake)

	fmt.Fprintln(w, "real cake:", pyStrings(lessons.RealCake))
	fmt.Fprintln(w, "fake cake:", pyStrings(lessons.FakeCake))
	fmt.Fprintln(w, "test cake:", pyStrings(testCake))

	expected := pyStrings(lessons.FakeCake)
	if err == nil && slices.Equal(testCake, lessons.FakeCake) {
		fmt.Fprintln(w, "Success!")
		return pass("Success!", expected, pyStrings(testCake))
	}
	fmt.Fprintln(w, "Try again!")
	fmt.Fprintln(w, "Fake cake should equal test cake")
	return fail("Fake cake should equal test cake", expected, pyStrings(testCake))
}

func runSheep(w io.Writer) Outcome {
	count := lessons.CountSheep(lessons.Flock)

	fmt.Fprintln(w, "You counted this many sheep: ", count)

	actual := fmt.Sprint(count)
	if count == 17 {
		fmt.Fprintln(w, "There are 17 sheep! Success!")
		return pass("There are 17 sheep! Success!", "17", actual)
	}
	fmt.Fprintln(w, "Try again!")
	fmt.Fprintln(w, "The sheep count should be 17")
	return fail("The sheep count should be 17", "17", actual)
}

func runSumVar(w io.Writer) Outcome {
	// Example 8.1: the result is computed and dropped.
	lessons.SumVar(3, 5)

	// Example 8.2: the result is kept.
	test := lessons.SumVar(3, 5)
	fmt.Fprintln(w, test)

	if test == 8 {
		return pass("sum_var(3, 5) returned 8", "8", fmt.Sprint(test))
	}
	return fail("sum_var(3, 5) should return 8", "8", fmt.Sprint(test))
}

func runRange(w io.Writer) Outcome {
	type example struct {
		title             string
		start, stop, step int
		want              []int
	}
	examples := []example{
		{title: "Example 6.1: range(0,10,1)", start: 0, stop: 10, step: 1, want: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{title: "Example 6.2: range(0,10,2)", start: 0, stop: 10, step: 2, want: []int{0, 2, 4, 6, 8}},
		{title: "Example 6.3: range(4)", start: 0, stop: 4, step: 1, want: []int{0, 1, 2, 3}},
	}

	ok := true
	for i, ex := range examples {
		if i > 0 {
			fmt.Fprintln(w, " ")
		}
		fmt.Fprintln(w, ex.title)

		got, err := lessons.Range(ex.start, ex.stop, ex.step)
		if err != nil {
			ok = false
			continue
		}
		for _, v := range got {
			fmt.Fprintln(w, v)
		}
		ok = ok && slices.Equal(got, ex.want)
	}

	fmt.Fprintln(w, " ")
	fmt.Fprintln(w, "Example 6.4: range(length_x)")
	x := []string{"O", "L", "C", "F"}
	walked := lessons.IndexWalk(x)
	for _, v := range walked {
		fmt.Fprintln(w, v)
	}
	ok = ok && slices.Equal(walked, x)

	if ok {
		return pass("every range produced the expected sequence", "", "")
	}
	return fail("a range produced an unexpected sequence", "", "")
}
