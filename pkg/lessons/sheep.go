package lessons

// Flock is the fixture the sheep lesson counts. It holds 17 sheep.
var Flock = []bool{
	true, true, true, false,
	true, true, true, true,
	true, false, true, false,
	true, false, false, true,
	true, true, true, true,
	false, false, true, true,
}

// CountSheep returns how many entries of flock are true.
func CountSheep(flock []bool) int {
	count := 0
	for i := 0; i < len(flock); i++ {
		if flock[i] {
			count++
		}
	}
	return count
}
