package lessons

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrLengthMismatch is returned by VectorAdd for vectors of different length.
var ErrLengthMismatch = errors.New("vectors have different lengths")

// QuarterStepCount is the size of the fixed array in StaticQuarterSteps.
const QuarterStepCount = 5

// StaticQuarterSteps fills a fixed-size array with 0.25*i.
func StaticQuarterSteps() [QuarterStepCount]float32 {
	var steps [QuarterStepCount]float32
	for i := range steps {
		steps[i] = 0.25 * float32(i)
	}
	return steps
}

// DynamicQuarterSteps allocates n values of 0.25*i at run time.
func DynamicQuarterSteps(n int) []float32 {
	steps := make([]float32, n)
	for i := range steps {
		steps[i] = 0.25 * float32(i)
	}
	return steps
}

// VectorFixture builds the inputs of the vector addition lesson: a holds
// 1..n and b holds n-1 down to 0, so every a[i]+b[i] equals n.
func VectorFixture(n int) (a, b []int) {
	a = make([]int, n)
	b = make([]int, n)
	for i := 0; i < n; i++ {
		a[i] = i + 1
		b[i] = n - (i + 1)
	}
	return a, b
}

// VectorAdd returns the element-wise sum of a and b.
func VectorAdd(a, b []int) ([]int, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(a), len(b))
	}
	c := make([]int, len(a))
	for i := range a {
		c[i] = a[i] + b[i]
	}
	return c, nil
}

// PiDigits is pi to 29 decimal places, kept as text.
const PiDigits = "3.14159265358979323846264338327"

// DataTypeRow is one line of the data types table.
type DataTypeRow struct {
	Variable string
	Type     string
	Value    string
	Size     uintptr
}

// DataTypeRows reports the value and in-memory size of the lesson's sample
// variables. Rows are labelled with the C type each Go type stands in for.
func DataTypeRows() []DataTypeRow {
	var (
		a byte    = 'X'
		i int32   = 22
		x float32 = 3.14159265358979323846264338327
		y float64 = 3.14159265358979323846264338327
	)

	return []DataTypeRow{
		{Variable: "a", Type: "char", Value: string(rune(a)), Size: unsafe.Sizeof(a)},
		{Variable: "i", Type: "int", Value: fmt.Sprintf("%d", i), Size: unsafe.Sizeof(i)},
		{Variable: "x", Type: "float", Value: fmt.Sprintf("%.16f", x), Size: unsafe.Sizeof(x)},
		{Variable: "y", Type: "double", Value: fmt.Sprintf("%.16f", y), Size: unsafe.Sizeof(y)},
	}
}
