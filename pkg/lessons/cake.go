package lessons

import (
	"errors"
	"slices"
)

// ErrShortCake is returned when the input is too short to slice.
var ErrShortCake = errors.New("cake needs at least 6 layers")

var (
	// RealCake is the list the cake lesson slices.
	RealCake = []string{"portal", "the cake", "is", "not", "a lie", "!", "hl3"}

	// FakeCake is what the sliced cake must equal.
	FakeCake = []string{"the cake", "is", "a lie", "!"}
)

// BakeTestCake returns layers[1:3] followed by layers[4:6]. The input is not
// modified.
func BakeTestCake(layers []string) ([]string, error) {
	if len(layers) < 6 {
		return nil, ErrShortCake
	}
	return slices.Concat(layers[1:3], layers[4:6]), nil
}
