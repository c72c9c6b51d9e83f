package lessons

// Needle is the string FindNeedle searches for.
const Needle = "needle"

// Haystacks checked by the needle lesson.
var (
	HaystackOne = []string{
		"283497238987234", "a dog", "a cat",
		"some random junk", "a piece of hay",
		"needle", "something somebody lost a while ago",
	}

	HaystackTwo = []string{
		"Python is cooler than C++", "needle",
		"Fortran is also cool", "blah", "summit",
		"rhea", "andes", "titan",
	}
)

// FindNeedle scans haystack in order and returns the index of the first
// entry equal to Needle. It returns -1 and false when there is none.
func FindNeedle(haystack []string) (int, bool) {
	for i, entry := range haystack {
		if entry == Needle {
			return i, true
		}
	}
	return -1, false
}
