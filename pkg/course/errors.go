package course

import (
	"errors"
	"fmt"
)

// ErrorClass classifies harness errors so the CLI can report them sensibly.
type ErrorClass string

const (
	// ErrorClassNotFound means the lesson or challenge does not exist.
	ErrorClassNotFound ErrorClass = "not_found"

	// ErrorClassInvalid means the caller supplied bad input (flags, fixtures,
	// config).
	ErrorClassInvalid ErrorClass = "invalid"

	// ErrorClassConflict means a lesson ID was registered twice.
	ErrorClassConflict ErrorClass = "conflict"

	// ErrorClassScript means a learner script failed to load or run.
	ErrorClassScript ErrorClass = "script"

	// ErrorClassInternal covers storage and other harness failures.
	ErrorClassInternal ErrorClass = "internal"
)

// LessonError is a classified error tied to a lesson.
type LessonError struct {
	Class   ErrorClass `json:"class"`
	Lesson  string     `json:"lesson,omitempty"`
	Message string     `json:"message"`
	Err     error      `json:"-"`
}

// Error implements the error interface.
func (e *LessonError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Class, e.Message)
	if e.Lesson != "" {
		msg = fmt.Sprintf("[%s] %s (lesson=%s)", e.Class, e.Message, e.Lesson)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *LessonError) Unwrap() error {
	return e.Err
}

// Is matches another LessonError of the same class.
func (e *LessonError) Is(target error) bool {
	t, ok := target.(*LessonError)
	if !ok {
		return false
	}
	return e.Class == t.Class
}

// ErrorClass returns the class as a string for metrics and span attributes.
func (e *LessonError) ErrorClass() string {
	return string(e.Class)
}

// WithLesson sets the lesson the error belongs to.
func (e *LessonError) WithLesson(id string) *LessonError {
	e.Lesson = id
	return e
}

func newError(class ErrorClass, message string, err error) *LessonError {
	return &LessonError{Class: class, Message: message, Err: err}
}

// NewNotFoundError creates a not_found error.
func NewNotFoundError(message string, err error) *LessonError {
	return newError(ErrorClassNotFound, message, err)
}

// NewInvalidError creates an invalid-input error.
func NewInvalidError(message string, err error) *LessonError {
	return newError(ErrorClassInvalid, message, err)
}

// NewConflictError creates a conflict error.
func NewConflictError(message string, err error) *LessonError {
	return newError(ErrorClassConflict, message, err)
}

// NewScriptError creates a script error.
func NewScriptError(message string, err error) *LessonError {
	return newError(ErrorClassScript, message, err)
}

// NewInternalError creates an internal error.
func NewInternalError(message string, err error) *LessonError {
	return newError(ErrorClassInternal, message, err)
}

func hasClass(err error, class ErrorClass) bool {
	var e *LessonError
	if errors.As(err, &e) {
		return e.Class == class
	}
	return false
}

// IsNotFound reports whether err is a not_found LessonError.
func IsNotFound(err error) bool { return hasClass(err, ErrorClassNotFound) }

// IsInvalid reports whether err is an invalid LessonError.
func IsInvalid(err error) bool { return hasClass(err, ErrorClassInvalid) }

// IsConflict reports whether err is a conflict LessonError.
func IsConflict(err error) bool { return hasClass(err, ErrorClassConflict) }

// IsScript reports whether err is a script LessonError.
func IsScript(err error) bool { return hasClass(err, ErrorClassScript) }

// ClassOf returns the class of err, or internal for unclassified errors.
func ClassOf(err error) ErrorClass {
	var e *LessonError
	if errors.As(err, &e) {
		return e.Class
	}
	return ErrorClassInternal
}
