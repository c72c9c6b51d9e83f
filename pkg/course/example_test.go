package course_test

import (
	"context"
	"fmt"
	"os"

	"github.com/primerlab/primer/pkg/course"
)

func Example() {
	runner := course.NewRunner(course.DefaultRegistry(), course.RunnerConfig{})

	report, err := runner.Run(context.Background(), "needle", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("passed:", report.Passed())

	// Output:
	// Found the needle in the 1st haystack at position 5
	// Found the needle in the 2nd haystack at position 1
	// Success!
	// passed: true
}
