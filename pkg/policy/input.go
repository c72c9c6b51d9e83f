package policy

import (
	"time"

	"github.com/primerlab/primer/pkg/course"
	"github.com/primerlab/primer/pkg/stores"
)

// BuildInput joins every registered lesson, in course order, with its
// recorded progress.
func BuildInput(reg *course.Registry, progress []*stores.LessonProgress, now time.Time) *Input {
	byID := make(map[string]*stores.LessonProgress, len(progress))
	for _, p := range progress {
		byID[p.LessonID] = p
	}

	input := &Input{Now: now}
	for _, l := range reg.List("") {
		state := LessonState{
			ID:       l.ID,
			Title:    l.Title,
			Track:    string(l.Track),
			Kind:     string(l.Kind),
			Requires: append([]string{}, l.Requires...),
		}
		if p, ok := byID[l.ID]; ok {
			last := p.LastAttempt
			state.Attempts = p.Attempts
			state.Passes = p.Passes
			state.LastPassed = p.LastPassed
			state.LastAttempt = &last
		}
		input.Lessons = append(input.Lessons, state)
	}
	return input
}
