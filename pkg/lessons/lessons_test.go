package lessons

import (
	"errors"
	"slices"
	"testing"
)

func TestFindNeedle(t *testing.T) {
	tests := []struct {
		name      string
		haystack  []string
		wantIndex int
		wantFound bool
	}{
		{name: "first haystack", haystack: HaystackOne, wantIndex: 5, wantFound: true},
		{name: "second haystack", haystack: HaystackTwo, wantIndex: 1, wantFound: true},
		{name: "first match wins", haystack: []string{"hay", "needle", "needle"}, wantIndex: 1, wantFound: true},
		{name: "absent", haystack: []string{"hay", "straw"}, wantIndex: -1, wantFound: false},
		{name: "empty", haystack: nil, wantIndex: -1, wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, found := FindNeedle(tt.haystack)
			if idx != tt.wantIndex || found != tt.wantFound {
				t.Errorf("FindNeedle() = (%d, %v), want (%d, %v)", idx, found, tt.wantIndex, tt.wantFound)
			}
		})
	}
}

func TestGetSize(t *testing.T) {
	tests := []struct {
		w, h, d int
		want    []int
	}{
		{w: 1, h: 1, d: 1, want: []int{6, 1}},
		{w: 4, h: 2, d: 6, want: []int{88, 48}},
		{w: 0, h: 3, d: 3, want: []int{18, 0}},
	}

	for _, tt := range tests {
		got := GetSize(tt.w, tt.h, tt.d).Slice()
		if !slices.Equal(got, tt.want) {
			t.Errorf("GetSize(%d, %d, %d) = %v, want %v", tt.w, tt.h, tt.d, got, tt.want)
		}
	}
}

func TestBakeTestCake(t *testing.T) {
	got, err := BakeTestCake(RealCake)
	if err != nil {
		t.Fatalf("BakeTestCake() error = %v", err)
	}
	if !slices.Equal(got, FakeCake) {
		t.Errorf("BakeTestCake() = %q, want %q", got, FakeCake)
	}

	// The result must not alias the input.
	got[0] = "changed"
	if RealCake[1] != "the cake" {
		t.Errorf("BakeTestCake modified its input: %q", RealCake)
	}

	if _, err := BakeTestCake([]string{"a", "b"}); !errors.Is(err, ErrShortCake) {
		t.Errorf("expected ErrShortCake, got %v", err)
	}
}

func TestCountSheep(t *testing.T) {
	if got := CountSheep(Flock); got != 17 {
		t.Errorf("CountSheep(Flock) = %d, want 17", got)
	}
	if got := CountSheep(nil); got != 0 {
		t.Errorf("CountSheep(nil) = %d, want 0", got)
	}
	if len(Flock) != 24 {
		t.Errorf("flock has %d entries, want 24", len(Flock))
	}
}

func TestFunctions(t *testing.T) {
	if got := SumVar(3, 5); got != 8 {
		t.Errorf("SumVar(3, 5) = %d, want 8", got)
	}
	if got := AddNumbers(3, 7); got != 10 {
		t.Errorf("AddNumbers(3, 7) = %d, want 10", got)
	}

	number := 1
	if inside := ChangeNumber(number); inside != 2 {
		t.Errorf("ChangeNumber returned %d, want 2", inside)
	}
	if number != 1 {
		t.Errorf("call by value changed caller: number = %d", number)
	}
	ChangeNumberByRef(&number)
	if number != 2 {
		t.Errorf("call by reference: number = %d, want 2", number)
	}

	a, b := 2, 4
	SwapNumbers(&a, &b)
	if a != 4 || b != 2 {
		t.Errorf("SwapNumbers: a=%d b=%d, want a=4 b=2", a, b)
	}
}

func TestCircleArea(t *testing.T) {
	got := CircleArea(2.0)
	want := float32(12.566368)
	if diff := got - want; diff > 1e-5 || diff < -1e-5 {
		t.Errorf("CircleArea(2) = %f, want %f", got, want)
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		name              string
		start, stop, step int
		want              []int
	}{
		{name: "step one", start: 0, stop: 10, step: 1, want: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{name: "step two", start: 0, stop: 10, step: 2, want: []int{0, 2, 4, 6, 8}},
		{name: "countdown", start: 5, stop: 0, step: -2, want: []int{5, 3, 1}},
		{name: "empty", start: 3, stop: 3, step: 1, want: nil},
		{name: "wrong direction", start: 0, stop: 10, step: -1, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Range(tt.start, tt.stop, tt.step)
			if err != nil {
				t.Fatalf("Range() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Range() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := Range(0, 10, 0); !errors.Is(err, ErrZeroStep) {
		t.Errorf("expected ErrZeroStep, got %v", err)
	}

	if got := RangeTo(4); !slices.Equal(got, []int{0, 1, 2, 3}) {
		t.Errorf("RangeTo(4) = %v", got)
	}

	letters := []string{"O", "L", "C", "F"}
	if got := IndexWalk(letters); !slices.Equal(got, letters) {
		t.Errorf("IndexWalk() = %v", got)
	}
}

func TestControlFlow(t *testing.T) {
	halving := HalvingSequence(1000)
	if len(halving) != 10 {
		t.Fatalf("HalvingSequence(1000) has %d values, want 10", len(halving))
	}
	if halving[0] != 1000 || halving[9] != 1.953125 {
		t.Errorf("HalvingSequence(1000) = %v", halving)
	}

	sums := RunningSums(10)
	if sums[9] != 45 {
		t.Errorf("RunningSums(10)[9] = %d, want 45", sums[9])
	}

	if got := WhileSteps(10); len(got) != 0 {
		t.Errorf("WhileSteps(10) = %v, want no iterations", got)
	}
	if got := DoWhileSteps(10); !slices.Equal(got, []int{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}) {
		t.Errorf("DoWhileSteps(10) = %v, want 10 through 19", got)
	}
	if got := DoWhileSteps(25); !slices.Equal(got, []int{25}) {
		t.Errorf("DoWhileSteps(25) = %v, want [25]", got)
	}
	if got := WhileSteps(18); !slices.Equal(got, []int{18, 19}) {
		t.Errorf("WhileSteps(18) = %v", got)
	}

	if got := BreakAt(10, 7); !slices.Equal(got, []int{0, 1, 2, 3, 4, 5, 6}) {
		t.Errorf("BreakAt(10, 7) = %v", got)
	}
	if got := SkipAt(10, 7); !slices.Equal(got, []int{0, 1, 2, 3, 4, 5, 6, 8, 9}) {
		t.Errorf("SkipAt(10, 7) = %v", got)
	}

	branches := map[int]Branch{1: BranchBelow, 4: BranchBelow, 5: BranchEqual, 9: BranchAbove}
	for i, want := range branches {
		if got := Classify(i); got != want {
			t.Errorf("Classify(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestFibonacciUntil(t *testing.T) {
	got := FibonacciUntil(1000)
	if got[0] != 0 || got[1] != 1 {
		t.Fatalf("FibonacciUntil starts with %v", got[:2])
	}
	if last := got[len(got)-1]; last != 1597 {
		t.Errorf("last term = %d, want 1597", last)
	}
	for i := 2; i < len(got); i++ {
		if got[i] != got[i-1]+got[i-2] {
			t.Fatalf("term %d = %d is not the sum of the previous two", i, got[i])
		}
	}
}

func TestQuarterSteps(t *testing.T) {
	static := StaticQuarterSteps()
	dynamic := DynamicQuarterSteps(QuarterStepCount)
	if !slices.Equal(static[:], dynamic) {
		t.Errorf("static %v != dynamic %v", static, dynamic)
	}
	if static[4] != 1.0 {
		t.Errorf("static[4] = %f, want 1.0", static[4])
	}
}

func TestVectorAdd(t *testing.T) {
	a, b := VectorFixture(50)
	c, err := VectorAdd(a, b)
	if err != nil {
		t.Fatalf("VectorAdd() error = %v", err)
	}
	for i, v := range c {
		if v != 50 {
			t.Fatalf("c[%d] = %d, want 50", i, v)
		}
	}

	if _, err := VectorAdd([]int{1}, []int{1, 2}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestDataTypeRows(t *testing.T) {
	rows := DataTypeRows()
	want := map[string]uintptr{"a": 1, "i": 4, "x": 4, "y": 8}
	for _, row := range rows {
		if row.Size != want[row.Variable] {
			t.Errorf("%s: size %d, want %d", row.Variable, row.Size, want[row.Variable])
		}
	}
	if rows[0].Value != "X" {
		t.Errorf("char value = %q, want X", rows[0].Value)
	}

	var types []string
	for _, row := range rows {
		types = append(types, row.Type)
	}
	if !slices.Equal(types, []string{"char", "int", "float", "double"}) {
		t.Errorf("types = %v", types)
	}
	if rows[2].Value != "3.1415927410125732" || rows[3].Value != "3.1415926535897931" {
		t.Errorf("float values = %q, %q", rows[2].Value, rows[3].Value)
	}
}

func TestDice(t *testing.T) {
	d := NewDice(42)
	for i := 0; i < 1000; i++ {
		if v := d.Int(10); v < 1 || v > 10 {
			t.Fatalf("Int(10) = %d out of range", v)
		}
		if f := d.Float(); f < 1 || f >= 10 {
			t.Fatalf("Float() = %f out of range", f)
		}
	}

	if avg := NewDice(7).AverageInt(10, 10000); avg < 4 || avg > 6 {
		t.Errorf("AverageInt = %d, want about 5", avg)
	}
	if avg := NewDice(7).AverageFloat(10000); avg < 5 || avg > 6 {
		t.Errorf("AverageFloat = %f, want about 5.5", avg)
	}

	first := NewDice(3).AverageInt(6, 100)
	second := NewDice(3).AverageInt(6, 100)
	if first != second {
		t.Errorf("same seed gave different averages: %d vs %d", first, second)
	}
}
