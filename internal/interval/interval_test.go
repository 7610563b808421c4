package interval

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func assertInterval(t *testing.T, got Interval, wantMin, wantMax, tol float32) {
	t.Helper()
	if !almostEqual(got.Min, wantMin, tol) || !almostEqual(got.Max, wantMax, tol) {
		t.Errorf("got %#v, want [%v, %v] (+/- %v)", got, wantMin, wantMax, tol)
	}
}

func TestAdd(t *testing.T) {
	x := Interval{Min: 0.01, Max: 3.1}
	y := Interval{Min: -5, Max: 5}
	result := x.Add(y)
	if len(result) != 1 {
		t.Fatalf("expected singleton set, got %d elements", len(result))
	}
	assertInterval(t, result[0], -4.99, 8.1, 1e-3)
}

func TestMul(t *testing.T) {
	x := Interval{Min: 0.01, Max: 3.1}
	y := Interval{Min: -5, Max: 5}
	result := x.Mul(y)
	if len(result) != 1 {
		t.Fatalf("expected singleton set, got %d elements", len(result))
	}
	assertInterval(t, result[0], -15.5, 15.5, 1e-3)
}

func TestSubIsMonotone(t *testing.T) {
	// [0,1] - [0,1] must be [-1,1], not [0,0] (the source's bug).
	a := Interval{Min: 0, Max: 1}
	b := Interval{Min: 0, Max: 1}
	result := a.Sub(b)
	assertInterval(t, result[0], -1, 1, 1e-6)
}

func TestDivPositiveDivisor(t *testing.T) {
	a := Interval{Min: 2, Max: 4}
	b := Interval{Min: 2, Max: 4}
	result := a.Div(b)
	// reciprocal of [2,4] is [0.25, 0.5]; [2,4]*[0.25,0.5] = [0.5, 2]
	assertInterval(t, result[0], 0.5, 2, 1e-6)
}

func TestDivStraddlingZeroIsConservative(t *testing.T) {
	a := Interval{Min: 1, Max: 1}
	b := Interval{Min: -1, Max: 1}
	result := a.Div(b)
	if !math.IsInf(float64(result[0].Min), -1) || !math.IsInf(float64(result[0].Max), 1) {
		t.Errorf("expected [-inf, inf], got %#v", result[0])
	}
}

func TestPowNegativeBaseIsEmpty(t *testing.T) {
	base := Interval{Min: -4, Max: -1}
	power := Interval{Min: 2, Max: 2}
	result := base.Pow(power)
	if len(result) != 0 {
		t.Errorf("expected empty set for wholly-negative base, got %#v", result)
	}
}

func TestPowClampsStraddlingBase(t *testing.T) {
	base := Interval{Min: -2, Max: 3}
	power := Interval{Min: 2, Max: 2}
	result := base.Pow(power)
	// clamped to [0,3]^2 = [0,9]
	assertInterval(t, result[0], 0, 9, 1e-3)
}

func TestSplitAndMiddle(t *testing.T) {
	iv := Interval{Min: 0, Max: 10}
	halves := iv.Split()
	if halves[0].Min != 0 || halves[0].Max != 5 || halves[1].Min != 5 || halves[1].Max != 10 {
		t.Errorf("unexpected split: %#v", halves)
	}
	if iv.Middle() != 5 {
		t.Errorf("expected middle 5, got %v", iv.Middle())
	}
}

func TestClamp(t *testing.T) {
	iv := Interval{Min: -1, Max: 1}
	if got := iv.Clamp(5); got != 1 {
		t.Errorf("expected clamp to 1, got %v", got)
	}
	if got := iv.Clamp(-5); got != -1 {
		t.Errorf("expected clamp to -1, got %v", got)
	}
	if got := iv.Clamp(0.5); got != 0.5 {
		t.Errorf("expected 0.5 unchanged, got %v", got)
	}
}

func TestContainsZeroStrict(t *testing.T) {
	if (Interval{Min: 0, Max: 1}).ContainsZero() {
		t.Error("boundary zero should not count as containing zero")
	}
	if !(Interval{Min: -1, Max: 1}).ContainsZero() {
		t.Error("expected [-1,1] to contain zero")
	}
}
