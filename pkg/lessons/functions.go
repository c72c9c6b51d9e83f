package lessons

// SumVar adds x and y into a local and returns it.
func SumVar(x, y int) int {
	z := x + y
	return z
}

// AddNumbers is the C-track version of SumVar.
func AddNumbers(i, j int) int {
	result := i + j
	return result
}

// ChangeNumber receives a copy of its argument, so the caller's variable is
// left untouched. It returns the value it saw after the assignment.
func ChangeNumber(i int) int {
	i = 2
	return i
}

// ChangeNumberByRef writes 2 through the pointer.
func ChangeNumberByRef(i *int) {
	*i = 2
}

// SwapNumbers exchanges the values behind a and b.
func SwapNumbers(a, b *int) {
	temp := *a
	*a = *b
	*b = temp
}

// Pi is the approximation the circle lesson uses.
const Pi float32 = 3.141592

// CircleArea returns Pi*r*r.
func CircleArea(r float32) float32 {
	return Pi * r * r
}
