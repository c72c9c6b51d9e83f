package course

import (
	"strconv"
	"strings"
)

// pyStrings renders a string list the way Python's print shows it.
func pyStrings(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// pyInts renders an int list the way Python's print shows it.
func pyInts(items []int) string {
	parts := make([]string, len(items))
	for i, n := range items {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func pass(message, expected, actual string) Outcome {
	return Outcome{Passed: true, Message: message, Expected: expected, Actual: actual}
}

func fail(message, expected, actual string) Outcome {
	return Outcome{Passed: false, Message: message, Expected: expected, Actual: actual}
}
