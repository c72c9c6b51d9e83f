package challenge

import (
	"embed"
	"fmt"
	"sort"

	"github.com/primerlab/primer/pkg/course"
	"github.com/primerlab/primer/pkg/lessons"
)

//go:embed templates/*.star
var templatesFS embed.FS

// Case is one call made against a learner's solution.
type Case struct {
	Name   string
	Args   []interface{}
	Kwargs [][2]interface{}
	Want   interface{}
}

// Challenge describes what a learner script must define and how it is
// checked.
type Challenge struct {
	ID string

	// Entry is the function the script must define, or the global it must
	// assign when Global is set.
	Entry  string
	Global bool

	// Predeclared values are visible to the script as globals.
	Predeclared map[string]interface{}

	Cases []Case
}

// catalog is keyed by lesson ID; expected values come from the reference
// solutions in package lessons.
var catalog = map[string]*Challenge{
	"needle": {
		ID:    "needle",
		Entry: "find_needle",
		Cases: []Case{
			{Name: "first haystack", Args: []interface{}{lessons.HaystackOne}, Want: needleIndex(lessons.HaystackOne)},
			{Name: "second haystack", Args: []interface{}{lessons.HaystackTwo}, Want: needleIndex(lessons.HaystackTwo)},
			{Name: "needle first", Args: []interface{}{[]string{"needle", "hay"}}, Want: needleIndex([]string{"needle", "hay"})},
		},
	},
	"box": {
		ID:    "box",
		Entry: "get_size",
		Cases: []Case{
			{Name: "1x1x1", Kwargs: dims(1, 1, 1), Want: boxSize(1, 1, 1)},
			{Name: "4x2x6", Kwargs: dims(4, 2, 6), Want: boxSize(4, 2, 6)},
		},
	},
	"cake": {
		ID:          "cake",
		Entry:       "test_cake",
		Global:      true,
		Predeclared: map[string]interface{}{"real_cake": lessons.RealCake},
		Cases: []Case{
			{Name: "fake cake", Want: toInterfaces(lessons.FakeCake)},
		},
	},
	"sheep": {
		ID:    "sheep",
		Entry: "count_sheeps",
		Cases: []Case{
			{Name: "flock", Args: []interface{}{lessons.Flock}, Want: int64(lessons.CountSheep(lessons.Flock))},
			{Name: "no sheep", Args: []interface{}{[]bool{}}, Want: int64(0)},
		},
	},
	"sum-var": {
		ID:    "sum-var",
		Entry: "sum_var",
		Cases: []Case{
			{Name: "3 + 5", Args: []interface{}{3, 5}, Want: int64(lessons.SumVar(3, 5))},
			{Name: "-2 + 2", Args: []interface{}{-2, 2}, Want: int64(lessons.SumVar(-2, 2))},
		},
	},
}

func needleIndex(haystack []string) int64 {
	idx, _ := lessons.FindNeedle(haystack)
	return int64(idx)
}

func dims(w, h, d int) [][2]interface{} {
	return [][2]interface{}{{"w", w}, {"h", h}, {"d", d}}
}

func boxSize(w, h, d int) []interface{} {
	size := lessons.GetSize(w, h, d)
	return []interface{}{int64(size.Area), int64(size.Volume)}
}

func toInterfaces(items []string) []interface{} {
	out := make([]interface{}, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

// Lookup returns the challenge for a lesson ID.
func Lookup(id string) (*Challenge, error) {
	ch, ok := catalog[id]
	if !ok {
		return nil, course.NewNotFoundError("no challenge for lesson", nil).WithLesson(id)
	}
	return ch, nil
}

// IDs lists every challenge in alphabetical order.
func IDs() []string {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Starter returns the starter script a learner fills in.
func Starter(id string) ([]byte, error) {
	if _, err := Lookup(id); err != nil {
		return nil, err
	}
	data, err := templatesFS.ReadFile(fmt.Sprintf("templates/%s.star", id))
	if err != nil {
		return nil, course.NewInternalError("missing starter template", err).WithLesson(id)
	}
	return data, nil
}
