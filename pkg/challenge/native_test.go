package challenge

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/primerlab/primer/pkg/course"
)

func TestCompareOutput(t *testing.T) {
	tests := []struct {
		name      string
		want, got string
		passed    int
		cases     int
	}{
		{
			name: "identical", want: "a = 2\nb = 4\n", got: "a = 2\nb = 4\n",
			passed: 2, cases: 2,
		},
		{
			name: "trailing whitespace and blank lines ignored", want: "x = 1 \n\n\n", got: "x = 1\n",
			passed: 1, cases: 1,
		},
		{
			name: "pointers are masked", want: "px: 0xc000012345\n", got: "px: 0x1ffe8\n",
			passed: 1, cases: 1,
		},
		{
			name: "missing line", want: "one\ntwo\n", got: "one\n",
			passed: 1, cases: 2,
		},
		{
			name: "extra line", want: "one\n", got: "one\ntwo\n",
			passed: 1, cases: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cases := compareOutput(tt.want, tt.got)
			if len(cases) != tt.cases {
				t.Fatalf("cases = %d, want %d: %+v", len(cases), tt.cases, cases)
			}
			passed := 0
			for _, c := range cases {
				if c.Passed {
					passed++
				}
			}
			if passed != tt.passed {
				t.Errorf("passed = %d, want %d: %+v", passed, tt.passed, cases)
			}
		})
	}
}

func TestGradeWASIRejectsOtherTracks(t *testing.T) {
	g := NewGrader(GraderConfig{})

	_, err := g.GradeWASI(context.Background(), "needle", "needle.wasm", nil)
	if !course.IsInvalid(err) {
		t.Errorf("python lesson should be invalid, got %v", err)
	}

	_, err = g.GradeWASI(context.Background(), "quicksort", "quicksort.wasm", nil)
	if !course.IsNotFound(err) {
		t.Errorf("unknown lesson should be not found, got %v", err)
	}
}

func TestGradeWASIBadModule(t *testing.T) {
	g := NewGrader(GraderConfig{Timeout: time.Second})

	_, err := g.GradeWASI(context.Background(), "add-numbers", "add.wasm", []byte("not wasm"))
	if !course.IsScript(err) {
		t.Errorf("expected script error, got %v", err)
	}
}

func TestGradePathDispatch(t *testing.T) {
	dir := t.TempDir()
	g := NewGrader(GraderConfig{})

	star := filepath.Join(dir, "sum.star")
	if err := os.WriteFile(star, []byte(solutions["sum-var"]), 0o644); err != nil {
		t.Fatal(err)
	}
	result, err := g.GradePath(context.Background(), "sum-var", star)
	if err != nil || !result.Passed {
		t.Fatalf("GradePath(.star) = %+v, %v", result, err)
	}

	wasm := filepath.Join(dir, "add.WASM")
	if err := os.WriteFile(wasm, []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = g.GradePath(context.Background(), "add-numbers", wasm)
	if !course.IsScript(err) || !strings.Contains(err.Error(), "program") {
		t.Errorf("GradePath(.wasm) error = %v, want a program script error", err)
	}
}
