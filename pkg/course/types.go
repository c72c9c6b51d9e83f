package course

import (
	"io"
	"time"
)

// Track groups lessons by the course section they come from.
type Track string

const (
	TrackPython Track = "python"
	TrackC      Track = "c"
	TrackBuild  Track = "build"
)

// Kind distinguishes demonstrations from challenges a learner can solve.
type Kind string

const (
	// KindDemo lessons only narrate a construct.
	KindDemo Kind = "demo"

	// KindChallenge lessons also accept a learner script.
	KindChallenge Kind = "challenge"
)

// RunFunc prints a lesson's console narrative to w and performs its check.
type RunFunc func(w io.Writer) Outcome

// Lesson is one runnable exercise.
type Lesson struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Track   Track  `json:"track"`
	Kind    Kind   `json:"kind"`
	Order   int    `json:"order"`
	Summary string `json:"summary"`

	// Requires lists lessons to pass first. See Registry.Curriculum.
	Requires []string `json:"requires,omitempty"`

	// Programs splits the narrative into the standalone programs a
	// learner may build one at a time. Empty means Run is one program.
	Programs []Program `json:"programs,omitempty"`

	Run RunFunc `json:"-"`
}

// Program is one standalone program behind a lesson's narrative.
type Program struct {
	Name  string          `json:"name"`
	Write func(io.Writer) `json:"-"`
}

// Narratives returns the programs whose output a native build of the
// lesson is compared with.
func (l *Lesson) Narratives() []Program {
	if len(l.Programs) > 0 {
		return l.Programs
	}
	return []Program{{Name: l.ID, Write: func(w io.Writer) { l.Run(w) }}}
}

// Outcome is the result of a lesson's hardcoded check.
type Outcome struct {
	Passed   bool   `json:"passed"`
	Message  string `json:"message"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
}

// Report describes a single lesson run.
type Report struct {
	AttemptID string        `json:"attempt_id"`
	LessonID  string        `json:"lesson_id"`
	Title     string        `json:"title"`
	Track     Track         `json:"track"`
	Outcome   Outcome       `json:"outcome"`
	Duration  time.Duration `json:"duration"`
	StartedAt time.Time     `json:"started_at"`
}

// Passed is shorthand for r.Outcome.Passed.
func (r *Report) Passed() bool {
	return r.Outcome.Passed
}
