package course

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/primerlab/primer/pkg/stores"
)

func TestDefaultLessonsPass(t *testing.T) {
	reg := DefaultRegistry()
	if reg.Len() != 22 {
		t.Errorf("default registry has %d lessons, want 22", reg.Len())
	}

	for _, lesson := range reg.List("") {
		t.Run(lesson.ID, func(t *testing.T) {
			var buf bytes.Buffer
			outcome := lesson.Run(&buf)
			if !outcome.Passed {
				t.Errorf("lesson failed: %+v\noutput:\n%s", outcome, buf.String())
			}
			if buf.Len() == 0 {
				t.Error("lesson printed nothing")
			}
		})
	}
}

func TestLessonOutput(t *testing.T) {
	tests := []struct {
		id    string
		wants []string
	}{
		{id: "needle", wants: []string{
			"Found the needle in the 1st haystack at position 5\n",
			"Found the needle in the 2nd haystack at position 1\n",
			"Success!\n",
		}},
		{id: "box", wants: []string{
			"Area and volume of 1x1x1 box:  [6, 1]\n",
			"Area and volume of 4x2x6 box:  [88, 48]\n",
		}},
		{id: "cake", wants: []string{
			"test cake: ['the cake', 'is', 'a lie', '!']\n",
		}},
		{id: "sheep", wants: []string{
			"You counted this many sheep:  17\n",
			"There are 17 sheep! Success!\n",
		}},
		{id: "sum-var", wants: []string{"8\n"}},
		{id: "range", wants: []string{
			"Example 6.2: range(0,10,2)\n0\n2\n4\n6\n8\n",
			"Example 6.3: range(4)\n0\n1\n2\n3\n",
			"Example 6.4: range(length_x)\nO\nL\nC\nF\n",
		}},
		{id: "do-while", wants: []string{"do-while: j = 10\n", "do-while: j = 19\n"}},
		{id: "break", wants: []string{"Loop iteration: 6\n"}},
		{id: "if-chain", wants: []string{"i is equal to 5\n", "i = 9 (i > 5)\n"}},
		{id: "call-by-value", wants: []string{"After calling the function, number = 1\n", "After calling the function, number = 2\n"}},
		{id: "swap", wants: []string{"a = 4 and b = 2\n"}},
		{id: "circle", wants: []string{"The area of a circle with radius 2.000000 is: 12.566368\n"}},
		{id: "fibonacci", wants: []string{"0, 1, 1\n", "987\n1597\n"}},
		{id: "arrays", wants: []string{"f_array[4] = 1.000000\n", "f_array_dyn[0] = 0.000000\n"}},
		{id: "vector-add", wants: []string{"C[0] = 50\n", "C[49] = 50\n"}},
		{id: "data-types", wants: []string{"double", "3.14159265358979323846264338327"}},
	}

	reg := DefaultRegistry()
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			lesson, err := reg.Get(tt.id)
			if err != nil {
				t.Fatalf("Get(%q) error = %v", tt.id, err)
			}
			var buf bytes.Buffer
			lesson.Run(&buf)
			for _, want := range tt.wants {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestRandomAverageAcrossSeeds(t *testing.T) {
	for seed := uint64(0); seed < 500; seed++ {
		if out := randomAverage(io.Discard, seed); !out.Passed {
			t.Fatalf("seed %d: %+v", seed, out)
		}
	}
}

func TestContinueSkipsSeven(t *testing.T) {
	lesson, err := DefaultRegistry().Get("continue")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	lesson.Run(&buf)
	if strings.Contains(buf.String(), "Loop iteration: 7\n") {
		t.Errorf("continue lesson printed 7:\n%s", buf.String())
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	noop := func(io.Writer) Outcome { return Outcome{Passed: true} }

	if err := reg.Register(Lesson{ID: "b", Track: TrackC, Order: 1, Run: noop}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Register(Lesson{ID: "a", Track: TrackC, Order: 2, Run: noop}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Register(Lesson{ID: "z", Track: TrackPython, Order: 9, Run: noop}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := reg.Register(Lesson{ID: "a", Run: noop}); !IsConflict(err) {
		t.Errorf("duplicate register: got %v, want conflict", err)
	}
	if err := reg.Register(Lesson{ID: "x"}); !IsInvalid(err) {
		t.Errorf("missing run func: got %v, want invalid", err)
	}
	if err := reg.Register(Lesson{Run: noop}); !IsInvalid(err) {
		t.Errorf("missing id: got %v, want invalid", err)
	}

	if _, err := reg.Get("missing"); !IsNotFound(err) {
		t.Errorf("Get(missing): got %v, want not found", err)
	}

	var ids []string
	for _, l := range reg.List("") {
		ids = append(ids, l.ID)
	}
	if got := strings.Join(ids, ","); got != "z,b,a" {
		t.Errorf("List order = %s, want z,b,a", got)
	}

	if got := reg.List(TrackC); len(got) != 2 {
		t.Errorf("List(c) returned %d lessons, want 2", len(got))
	}

	tracks := reg.Tracks()
	if len(tracks) != 2 || tracks[0] != TrackPython || tracks[1] != TrackC {
		t.Errorf("Tracks() = %v", tracks)
	}

	l, _ := reg.Get("a")
	if l.Kind != KindDemo {
		t.Errorf("default kind = %q, want demo", l.Kind)
	}
}

func TestLessonError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewInternalError("failed to record", cause).WithLesson("box")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if !errors.Is(err, &LessonError{Class: ErrorClassInternal}) {
		t.Error("errors.Is should match by class")
	}
	if got := err.Error(); got != "[internal] failed to record (lesson=box): disk full" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := fmt.Errorf("grading: %w", NewScriptError("syntax error", nil))
	if !IsScript(wrapped) || ClassOf(wrapped) != ErrorClassScript {
		t.Errorf("wrapped script error not recognised: %v", wrapped)
	}
	if ClassOf(errors.New("plain")) != ErrorClassInternal {
		t.Error("plain errors should classify as internal")
	}
}

func newTestRunner(t *testing.T, skip ...string) (*Runner, *stores.SQLiteStore) {
	t.Helper()

	store, err := stores.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return NewRunner(DefaultRegistry(), RunnerConfig{Store: store, Skip: skip}), store
}

func TestRunnerRecordsAttempt(t *testing.T) {
	runner, store := newTestRunner(t)
	ctx := context.Background()

	var buf bytes.Buffer
	report, err := runner.Run(ctx, "sheep", &buf)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !report.Passed() || report.LessonID != "sheep" || report.Track != TrackPython {
		t.Errorf("unexpected report: %+v", report)
	}

	attempt, err := store.GetAttempt(ctx, report.AttemptID)
	if err != nil {
		t.Fatalf("attempt not recorded: %v", err)
	}
	if attempt.Mode != stores.AttemptModeReference || !attempt.Passed {
		t.Errorf("unexpected attempt: %+v", attempt)
	}

	if _, err := runner.Run(ctx, "nope", &buf); !IsNotFound(err) {
		t.Errorf("Run(nope): got %v, want not found", err)
	}
}

func TestRunAll(t *testing.T) {
	runner, store := newTestRunner(t, "box")
	ctx := context.Background()

	var buf bytes.Buffer
	reports, err := runner.RunAll(ctx, TrackPython, &buf)
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	if len(reports) != 5 {
		t.Fatalf("got %d reports, want 5 (box skipped)", len(reports))
	}
	if passed, failed := Summary(reports); passed != 5 || failed != 0 {
		t.Errorf("Summary() = %d passed, %d failed", passed, failed)
	}
	if !strings.Contains(buf.String(), "=== needle: Find the needle ===") {
		t.Errorf("missing lesson header:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "=== box") {
		t.Error("skipped lesson was run")
	}

	progress, err := store.Progress(ctx)
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if len(progress) != 5 {
		t.Errorf("progress has %d lessons, want 5", len(progress))
	}
}

func TestRunAllCancelled(t *testing.T) {
	runner := NewRunner(DefaultRegistry(), RunnerConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports, err := runner.RunAll(ctx, "", io.Discard)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunAll() error = %v, want context.Canceled", err)
	}
	if len(reports) != 0 {
		t.Errorf("got %d reports after cancellation", len(reports))
	}
}
