package course

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds lessons by ID.
type Registry struct {
	mu      sync.RWMutex
	lessons map[string]*Lesson
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		lessons: make(map[string]*Lesson),
	}
}

// Register adds a lesson. IDs must be unique and every lesson needs a Run
// function.
func (r *Registry) Register(lesson Lesson) error {
	if lesson.ID == "" {
		return NewInvalidError("lesson id is required", nil)
	}
	if lesson.Run == nil {
		return NewInvalidError("lesson has no run function", nil).WithLesson(lesson.ID)
	}
	if lesson.Kind == "" {
		lesson.Kind = KindDemo
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.lessons[lesson.ID]; exists {
		return NewConflictError("lesson already registered", nil).WithLesson(lesson.ID)
	}
	r.lessons[lesson.ID] = &lesson
	return nil
}

// MustRegister is Register for static catalogs; it panics on error.
func (r *Registry) MustRegister(lessons ...Lesson) {
	for _, l := range lessons {
		if err := r.Register(l); err != nil {
			panic(fmt.Sprintf("register lesson: %v", err))
		}
	}
}

// Get returns the lesson with the given ID.
func (r *Registry) Get(id string) (*Lesson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lesson, ok := r.lessons[id]
	if !ok {
		return nil, NewNotFoundError("unknown lesson", nil).WithLesson(id)
	}
	return lesson, nil
}

// List returns the lessons of a track, or all lessons when track is empty,
// ordered by track then Order then ID.
func (r *Registry) List(track Track) []*Lesson {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Lesson, 0, len(r.lessons))
	for _, l := range r.lessons {
		if track == "" || l.Track == track {
			out = append(out, l)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Track != b.Track {
			return trackRank(a.Track) < trackRank(b.Track)
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
	return out
}

// Tracks returns the tracks that have at least one lesson, in course order.
func (r *Registry) Tracks() []Track {
	seen := make(map[Track]bool)
	var tracks []Track
	for _, l := range r.List("") {
		if !seen[l.Track] {
			seen[l.Track] = true
			tracks = append(tracks, l.Track)
		}
	}
	return tracks
}

// Len returns the number of registered lessons.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lessons)
}

func trackRank(t Track) int {
	switch t {
	case TrackPython:
		return 0
	case TrackC:
		return 1
	case TrackBuild:
		return 2
	default:
		return 3
	}
}
