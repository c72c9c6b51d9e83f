package stores

import (
	"context"
	"time"
)

// AttemptMode records how a lesson was checked.
type AttemptMode string

const (
	// AttemptModeReference runs primer's own solution.
	AttemptModeReference AttemptMode = "reference"

	// AttemptModeScript grades a learner's Starlark script.
	AttemptModeScript AttemptMode = "script"
)

// Attempt is one recorded lesson run. ScriptDigest is the BLAKE2b-256 hex
// digest of the graded source.
type Attempt struct {
	ID           string        `json:"id"`
	LessonID     string        `json:"lesson_id"`
	Track        string        `json:"track"`
	Mode         AttemptMode   `json:"mode"`
	Passed       bool          `json:"passed"`
	Message      string        `json:"message"`
	ScriptPath   *string       `json:"script_path,omitempty"`
	ScriptDigest *string       `json:"script_digest,omitempty"`
	Duration     time.Duration `json:"duration"`
	StartedAt    time.Time     `json:"started_at"`
}

// AttemptFilter narrows ListAttempts. Zero values match everything.
type AttemptFilter struct {
	LessonID string
	Mode     AttemptMode
	Limit    int
	Offset   int
}

// LessonProgress aggregates the attempts of one lesson.
type LessonProgress struct {
	LessonID    string    `json:"lesson_id"`
	Track       string    `json:"track"`
	Attempts    int       `json:"attempts"`
	Passes      int       `json:"passes"`
	LastAttempt time.Time `json:"last_attempt"`
	LastPassed  bool      `json:"last_passed"`
}

// Store is the attempt history interface used by the course runner.
type Store interface {
	RecordAttempt(ctx context.Context, attempt *Attempt) error
	GetAttempt(ctx context.Context, id string) (*Attempt, error)
	ListAttempts(ctx context.Context, filter AttemptFilter) ([]*Attempt, error)
	Progress(ctx context.Context) ([]*LessonProgress, error)
	HealthCheck(ctx context.Context) error
	Close() error
}
