package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/primerlab/primer/pkg/course"
)

// execute runs the root command in a fresh working directory and resets
// the global flags afterwards.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		configPath, verbose, jsonOutput, noHistory = "", false, false, false
	})

	var out bytes.Buffer
	cmd := newRootCommand("test", "none", "today")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func inTempDir(t *testing.T) string {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("PRIMER_DATA_DIR", "")
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestListCommand(t *testing.T) {
	inTempDir(t)

	out, err := execute(t, "list", "--track", "c")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(out, "fibonacci") {
		t.Errorf("list --track c output missing fibonacci:\n%s", out)
	}
	if strings.Contains(out, "needle") {
		t.Errorf("list --track c should not include python lessons:\n%s", out)
	}

	if _, err := execute(t, "list", "--track", "rust"); err == nil {
		t.Error("unknown track should fail")
	}

	out, err = execute(t, "list", "--dot")
	if err != nil {
		t.Fatalf("list --dot error = %v", err)
	}
	if !strings.HasPrefix(out, "digraph Curriculum {") || !strings.Contains(out, `"arrays" -> "vector-add";`) {
		t.Errorf("list --dot output:\n%s", out)
	}
}

func TestRunCommand(t *testing.T) {
	inTempDir(t)

	out, err := execute(t, "run", "needle", "--no-history")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(out, "Found the needle in the 1st haystack at position 5") {
		t.Errorf("run output:\n%s", out)
	}

	if _, err := execute(t, "run"); err == nil {
		t.Error("run without lessons should fail")
	}
	if _, err := execute(t, "run", "nope", "--no-history"); err == nil {
		t.Error("unknown lesson should fail")
	}
}

func TestRunRecordsProgress(t *testing.T) {
	dir := inTempDir(t)

	if _, err := execute(t, "init"); err != nil {
		t.Fatalf("init error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".primer", "primer.db")); err != nil {
		t.Fatalf("init did not create the database: %v", err)
	}

	if _, err := execute(t, "run", "--all", "--track", "python"); err != nil {
		t.Fatalf("run --all error = %v", err)
	}

	out, err := execute(t, "progress", "--json")
	if err != nil {
		t.Fatalf("progress error = %v", err)
	}

	var report progressReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("progress output is not JSON: %v\n%s", err, out)
	}
	attempted := 0
	for _, r := range report.Lessons {
		if r.Attempts > 0 {
			attempted++
			if r.Track != "python" || !r.LastPassed {
				t.Errorf("unexpected progress row %+v", r)
			}
		}
	}
	if attempted != 6 {
		t.Errorf("attempted lessons = %d, want 6", attempted)
	}

	next := false
	for _, a := range report.Advice {
		if a.Policy == "next-lesson" && a.Lesson == "data-types" {
			next = true
		}
	}
	if !next {
		t.Errorf("expected next-lesson advice for data-types, got %+v", report.Advice)
	}

	if _, err := execute(t, "progress", "--reset", "--lesson", "needle"); err != nil {
		t.Fatalf("progress --reset error = %v", err)
	}
	out, err = execute(t, "progress", "--json")
	if err != nil {
		t.Fatalf("progress error = %v", err)
	}
	report = progressReport{}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("progress output is not JSON: %v\n%s", err, out)
	}
	for _, r := range report.Lessons {
		if r.ID == "needle" && r.Attempts != 0 {
			t.Errorf("needle still has %d attempts after reset", r.Attempts)
		}
	}

	if _, err := execute(t, "progress", "--reset", "--lesson", "nope"); err == nil {
		t.Error("reset of an unknown lesson should fail")
	}
}

func TestChallengeCommands(t *testing.T) {
	dir := inTempDir(t)
	script := filepath.Join(dir, "sum.star")

	if _, err := execute(t, "challenge", "init", "sum-var", script); err != nil {
		t.Fatalf("challenge init error = %v", err)
	}
	if _, err := execute(t, "challenge", "init", "sum-var", script); err == nil {
		t.Error("second init without --force should fail")
	}

	out, err := execute(t, "challenge", "grade", "sum-var", script, "--no-history")
	if err == nil {
		t.Fatal("unfinished starter should fail grading")
	}
	if !strings.Contains(out, "Try again!") {
		t.Errorf("grade output:\n%s", out)
	}

	solution := "def sum_var(x, y):\n    z = x + y\n    return z\n"
	if err := os.WriteFile(script, []byte(solution), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, "challenge", "grade", "sum-var", script, "--no-history")
	if err != nil {
		t.Fatalf("grade error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Success!") {
		t.Errorf("grade output:\n%s", out)
	}
}

func TestValidateCommand(t *testing.T) {
	dir := inTempDir(t)

	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte("lessons:\n  disabled: [random-avg]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "validate", good)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "is valid") {
		t.Errorf("validate output:\n%s", out)
	}

	unknown := filepath.Join(dir, "unknown.yaml")
	if err := os.WriteFile(unknown, []byte("lessons:\n  disabled: [quicksort]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "validate", unknown); err == nil {
		t.Error("unknown disabled lesson should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("logging:\n  format: xml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "validate", bad); err == nil {
		t.Error("bad format should fail")
	}
}

func TestBadConfigIsInvalid(t *testing.T) {
	dir := inTempDir(t)

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("logging:\n  format: xml\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, args := range [][]string{
		{"run", "needle"},
		{"progress"},
		{"challenge", "init", "box"},
	} {
		_, err := execute(t, append([]string{"--config", bad}, args...)...)
		if !course.IsInvalid(err) {
			t.Errorf("%v with a bad config: error = %v, want invalid", args, err)
		}
	}
}

func TestFlushContextOutlivesCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	flushCtx, done := flushContext(ctx)
	defer done()

	if err := flushCtx.Err(); err != nil {
		t.Fatalf("flush context error = %v", err)
	}
	deadline, ok := flushCtx.Deadline()
	if !ok || time.Until(deadline) > shutdownTimeout {
		t.Errorf("deadline = %v, %v", deadline, ok)
	}
}
