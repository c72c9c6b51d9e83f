package lessons

// BoxSize is the surface area and volume of a rectangular box.
type BoxSize struct {
	Area   int `json:"area"`
	Volume int `json:"volume"`
}

// Slice returns the size in the [area, volume] order the lesson prints.
func (b BoxSize) Slice() []int {
	return []int{b.Area, b.Volume}
}

// GetSize computes the surface area and volume of a box of width w,
// height h and depth d.
func GetSize(w, h, d int) BoxSize {
	return BoxSize{
		Area:   2*d*w + 2*d*h + 2*w*h,
		Volume: w * h * d,
	}
}
