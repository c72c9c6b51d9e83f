package challenge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/primerlab/primer/pkg/course"
	"github.com/primerlab/primer/pkg/telemetry"
	"github.com/primerlab/primer/pkg/wasi"
)

// WASMExt marks a solution compiled to wasm32-wasi.
const WASMExt = ".wasm"

var addressPattern = regexp.MustCompile(`0x[0-9a-fA-F]+`)

// GradePath grades a file by its extension: .wasm files run as WASI
// programs against a c lesson, anything else as a Starlark script.
func (g *Grader) GradePath(ctx context.Context, id, path string) (*Result, error) {
	if strings.EqualFold(filepath.Ext(path), WASMExt) {
		module, err := os.ReadFile(path)
		if err != nil {
			return nil, course.NewInvalidError("failed to read program", err).WithLesson(id)
		}
		return g.GradeWASI(ctx, id, path, module)
	}
	return g.GradeFile(ctx, id, path)
}

// GradeWASI runs a learner's build of a c lesson and compares its stdout,
// line by line, with the reference narrative. Pointer values are masked
// before comparing. For lessons made of several programs the build is
// compared with each program and the closest one is reported.
func (g *Grader) GradeWASI(ctx context.Context, id, name string, module []byte) (result *Result, err error) {
	lesson, err := g.registry.Get(id)
	if err != nil {
		return nil, err
	}
	if lesson.Track != course.TrackC {
		return nil, course.NewInvalidError(fmt.Sprintf("only %s lessons accept WASI programs", course.TrackC), nil).WithLesson(id)
	}

	ctx, span := g.tel.Tracer.StartChallengeSpan(ctx, id, name, Digest(module))
	logger := g.logger.WithLesson(id, string(lesson.Track)).WithField("program", name)
	timer := telemetry.NewTimer()
	defer func() { g.finish(span, logger, id, result, err) }()

	exec, err := g.wasm.Run(ctx, id, module)
	switch {
	case errors.Is(err, wasi.ErrTimeout):
		return nil, course.NewScriptError(fmt.Sprintf("program timed out after %s", g.timeout), err).WithLesson(id)
	case err != nil:
		return nil, course.NewScriptError("program failed to run", err).WithLesson(id)
	}

	program, cases := closestProgram(lesson.Narratives(), exec.Stdout)
	result = &Result{
		ChallengeID: id,
		ScriptPath:  name,
		Program:     program,
		Digest:      Digest(module),
		Passed:      true,
		Cases:       cases,
		Output:      exec.Stderr,
	}
	if exec.ExitCode != 0 {
		result.Cases = append(result.Cases, CaseResult{
			Name: "exit code",
			Want: "0",
			Got:  strconv.FormatUint(uint64(exec.ExitCode), 10),
		})
	}
	for _, c := range result.Cases {
		result.Passed = result.Passed && c.Passed
	}
	result.Duration = timer.Duration()
	return result, nil
}

// closestProgram compares stdout with every program and returns the one with
// the fewest failing lines, the first on ties.
func closestProgram(programs []course.Program, stdout string) (string, []CaseResult) {
	var (
		best      string
		bestCases []CaseResult
		bestFails = -1
	)
	for _, p := range programs {
		var want bytes.Buffer
		p.Write(&want)

		cases := compareOutput(want.String(), stdout)
		fails := 0
		for _, c := range cases {
			if !c.Passed {
				fails++
			}
		}
		if bestFails < 0 || fails < bestFails {
			best, bestCases, bestFails = p.Name, cases, fails
		}
	}
	return best, bestCases
}

// compareOutput yields one case per line of the longer output.
func compareOutput(want, got string) []CaseResult {
	wantLines := outputLines(want)
	gotLines := outputLines(got)

	n := max(len(wantLines), len(gotLines))
	cases := make([]CaseResult, 0, n)
	for i := range n {
		var w, g string
		if i < len(wantLines) {
			w = wantLines[i]
		}
		if i < len(gotLines) {
			g = gotLines[i]
		}
		cases = append(cases, CaseResult{
			Name:   fmt.Sprintf("line %d", i+1),
			Passed: i < len(wantLines) && i < len(gotLines) && w == g,
			Want:   strconv.Quote(w),
			Got:    strconv.Quote(g),
		})
	}
	return cases
}

func outputLines(s string) []string {
	s = addressPattern.ReplaceAllString(s, "0x?")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
