package policy

import "time"

// Severity ranks a piece of advice.
type Severity string

const (
	// SeverityInfo is a suggestion.
	SeverityInfo Severity = "info"

	// SeverityWarning points at something the learner should look at.
	SeverityWarning Severity = "warning"
)

// Policy is a Rego module whose package defines an `advice` set.
type Policy struct {
	// Name is the unique name of the policy.
	Name string `json:"name"`

	// Description provides a human-readable description.
	Description string `json:"description"`

	// Rego contains the module source.
	Rego string `json:"rego"`

	// Severity applies to advice that does not set its own.
	Severity Severity `json:"severity"`

	Enabled bool `json:"enabled"`

	// Source is the file the policy was read from; empty for built-ins.
	Source string `json:"source,omitempty"`
}

// Advice is one message produced by a policy.
type Advice struct {
	Policy   string   `json:"policy"`
	Lesson   string   `json:"lesson,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Input is the document policies see as `input`.
type Input struct {
	// Lessons are in course order.
	Lessons []LessonState `json:"lessons"`

	Now time.Time `json:"now"`
}

// LessonState joins a lesson with its attempt history.
type LessonState struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Track       string     `json:"track"`
	Kind        string     `json:"kind"`
	Requires    []string   `json:"requires"`
	Attempts    int        `json:"attempts"`
	Passes      int        `json:"passes"`
	LastPassed  bool       `json:"last_passed"`
	LastAttempt *time.Time `json:"last_attempt,omitempty"`
}
