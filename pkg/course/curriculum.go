package course

import (
	"fmt"
	"strings"
)

// CurriculumNode is one lesson in the prerequisite graph.
type CurriculumNode struct {
	ID string `json:"id"`

	// Level is 0 for lessons without prerequisites, otherwise one more than
	// the deepest prerequisite.
	Level int `json:"level"`

	// Requires lists the lessons that come before this one.
	Requires []string `json:"requires"`

	// Unlocks lists the lessons that require this one.
	Unlocks []string `json:"unlocks"`
}

// Curriculum is the prerequisite graph of a registry.
type Curriculum struct {
	Nodes map[string]*CurriculumNode `json:"nodes"`

	// Levels groups lesson IDs by level, each level in course order.
	Levels [][]string `json:"levels"`

	lessons []*Lesson
}

// Curriculum builds the prerequisite graph of every registered lesson. It
// fails with an invalid error when a lesson requires an unknown lesson or
// the requirements form a cycle.
func (r *Registry) Curriculum() (*Curriculum, error) {
	return newCurriculumBuilder().build(r.List(""))
}

// Unlocked reports whether every prerequisite of id is in passed.
func (c *Curriculum) Unlocked(id string, passed map[string]bool) bool {
	node, ok := c.Nodes[id]
	if !ok {
		return false
	}
	for _, req := range node.Requires {
		if !passed[req] {
			return false
		}
	}
	return true
}

// ToDOT renders the graph for Graphviz, one cluster per track.
func (c *Curriculum) ToDOT() string {
	var sb strings.Builder

	sb.WriteString("digraph Curriculum {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box, style=rounded];\n\n")

	var track Track
	for _, l := range c.lessons {
		if l.Track != track {
			if track != "" {
				sb.WriteString("  }\n\n")
			}
			track = l.Track
			fmt.Fprintf(&sb, "  subgraph cluster_%s {\n", track)
			fmt.Fprintf(&sb, "    label=%q;\n", string(track))
			sb.WriteString("    style=dashed;\n")
		}
		fmt.Fprintf(&sb, "    %q [label=%q, fillcolor=%q, style=\"filled,rounded\"];\n",
			l.ID, l.ID+"\n"+l.Title, kindColor(l.Kind))
	}
	if track != "" {
		sb.WriteString("  }\n\n")
	}

	for _, l := range c.lessons {
		for _, req := range c.Nodes[l.ID].Requires {
			fmt.Fprintf(&sb, "  %q -> %q;\n", req, l.ID)
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func kindColor(kind Kind) string {
	if kind == KindChallenge {
		return "lightblue"
	}
	return "white"
}

type curriculumBuilder struct {
	lessons  []*Lesson
	byID     map[string]*Lesson
	unlocks  map[string][]string
	inDegree map[string]int
	levels   [][]string
}

func newCurriculumBuilder() *curriculumBuilder {
	return &curriculumBuilder{
		byID:     make(map[string]*Lesson),
		unlocks:  make(map[string][]string),
		inDegree: make(map[string]int),
	}
}

func (b *curriculumBuilder) build(lessons []*Lesson) (*Curriculum, error) {
	b.lessons = lessons
	for _, l := range lessons {
		b.byID[l.ID] = l
	}

	for _, l := range lessons {
		for _, req := range l.Requires {
			if _, ok := b.byID[req]; !ok {
				return nil, NewInvalidError(fmt.Sprintf("requires unknown lesson %s", req), nil).WithLesson(l.ID)
			}
			b.unlocks[req] = append(b.unlocks[req], l.ID)
			b.inDegree[l.ID]++
		}
	}

	if cycle := b.findCycle(); cycle != nil {
		return nil, NewInvalidError(fmt.Sprintf("circular prerequisite: %s", strings.Join(cycle, " -> ")), nil)
	}

	b.computeLevels()

	c := &Curriculum{
		Nodes:   make(map[string]*CurriculumNode, len(lessons)),
		Levels:  b.levels,
		lessons: lessons,
	}
	for level, ids := range b.levels {
		for _, id := range ids {
			requires := append([]string{}, b.byID[id].Requires...)
			unlocks := append([]string{}, b.unlocks[id]...)
			c.Nodes[id] = &CurriculumNode{ID: id, Level: level, Requires: requires, Unlocks: unlocks}
		}
	}
	return c, nil
}

// findCycle walks the unlock edges depth first and returns the first cycle
// it meets, closed on its starting lesson.
func (b *curriculumBuilder) findCycle() []string {
	visited := make(map[string]bool)
	onPath := make(map[string]bool)
	var path []string

	var visit func(id string) []string
	visit = func(id string) []string {
		visited[id] = true
		onPath[id] = true
		path = append(path, id)

		for _, next := range b.unlocks[id] {
			if onPath[next] {
				for i, p := range path {
					if p == next {
						return append(append([]string{}, path[i:]...), next)
					}
				}
			}
			if !visited[next] {
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}

		onPath[id] = false
		path = path[:len(path)-1]
		return nil
	}

	for _, l := range b.lessons {
		if !visited[l.ID] {
			if cycle := visit(l.ID); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// computeLevels is Kahn's algorithm: a lesson is placed once its last
// prerequisite has been, one level below its deepest prerequisite. Lessons
// keep their course order within a level.
func (b *curriculumBuilder) computeLevels() {
	remaining := make(map[string]int, len(b.inDegree))
	for id, n := range b.inDegree {
		remaining[id] = n
	}

	level := make(map[string]int, len(b.lessons))
	var visit func(id string)
	visit = func(id string) {
		for _, next := range b.unlocks[id] {
			level[next] = max(level[next], level[id]+1)
			remaining[next]--
			if remaining[next] == 0 {
				visit(next)
			}
		}
	}
	for _, l := range b.lessons {
		if b.inDegree[l.ID] == 0 {
			visit(l.ID)
		}
	}

	for _, l := range b.lessons {
		n := level[l.ID]
		for len(b.levels) <= n {
			b.levels = append(b.levels, nil)
		}
		b.levels[n] = append(b.levels[n], l.ID)
	}
}
