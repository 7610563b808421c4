// Package interval implements sound enclosure arithmetic over the extended
// reals, the way a value-range-analysis lattice does it: every operation
// returns a set because division through a divisor straddling zero (and a
// negative-base exponentiation) can split or empty the result.
package interval

import "math"

// Interval is a closed real interval [Min, Max]. Either bound may be
// +/-Inf. Min must never exceed Max.
type Interval struct {
	Min float32
	Max float32
}

// Set is a (possibly empty, possibly multi-element) collection of
// intervals. Ops are defined to return a Set even when the common case is
// a single element, so callers must range over the result rather than
// assume one.
type Set []Interval

// New builds a degenerate interval [v, v].
func New(v float32) Interval { return Interval{Min: v, Max: v} }

// ContainsZero reports whether 0 lies strictly inside the interval.
// Equality at either endpoint does not count.
func (iv Interval) ContainsZero() bool {
	return iv.Min < 0 && iv.Max > 0
}

// Middle returns the interval's midpoint.
func (iv Interval) Middle() float32 {
	return (iv.Min + iv.Max) / 2
}

// Split halves the interval at its midpoint.
func (iv Interval) Split() [2]Interval {
	m := iv.Middle()
	return [2]Interval{
		{Min: iv.Min, Max: m},
		{Min: m, Max: iv.Max},
	}
}

// Clamp restricts v to lie within [Min, Max].
func (iv Interval) Clamp(v float32) float32 {
	if v < iv.Min {
		return iv.Min
	}
	if v > iv.Max {
		return iv.Max
	}
	return v
}

// Add computes the sound enclosure of a+b for a in iv, b in other.
func (iv Interval) Add(other Interval) Set {
	return Set{{Min: iv.Min + other.Min, Max: iv.Max + other.Max}}
}

// Sub computes the sound enclosure of a-b for a in iv, b in other.
//
// Subtraction is decreasing in its second argument, so the monotone
// enclosure is [a-d, b-c]: the new lower bound pairs iv's lower bound
// against other's *upper* bound, and vice versa. (A naive [a-c, b-d]
// form is unsound for general inputs.)
func (iv Interval) Sub(other Interval) Set {
	return Set{{Min: iv.Min - other.Max, Max: iv.Max - other.Min}}
}

// Mul computes the sound enclosure of a*b by evaluating all four corner
// products and taking the extremes.
func (iv Interval) Mul(other Interval) Set {
	c1 := iv.Min * other.Min
	c2 := iv.Min * other.Max
	c3 := iv.Max * other.Min
	c4 := iv.Max * other.Max
	return Set{{Min: minOf(c1, c2, c3, c4), Max: maxOf(c1, c2, c3, c4)}}
}

// Div computes the sound enclosure of a/b as iv * reciprocal(other).
//
// Reciprocal is decreasing over a positive (or negative) interval not
// straddling zero, so the sound reciprocal of [c,d] is [1/d, 1/c]: the
// new lower bound comes from the divisor's *upper* bound, not the lower
// one.
func (iv Interval) Div(other Interval) Set {
	return iv.Mul(Set{reciprocal(other)}[0])
}

func reciprocal(d Interval) Interval {
	switch {
	case d.Min == 0 && d.Max == 0:
		return Interval{Min: float32(math.Inf(-1)), Max: float32(math.Inf(1))}
	case d.Max == 0:
		return Interval{Min: float32(math.Inf(-1)), Max: 1 / d.Min}
	case d.Min == 0:
		return Interval{Min: 1 / d.Max, Max: float32(math.Inf(1))}
	case d.Min < 0 && d.Max > 0:
		return Interval{Min: float32(math.Inf(-1)), Max: float32(math.Inf(1))}
	default:
		return Interval{Min: 1 / d.Max, Max: 1 / d.Min}
	}
}

// Pow computes the sound enclosure of base^power for base in iv, power in
// other, under the policy:
//   - a wholly negative base (Max < 0) has no defined result: empty Set.
//   - a base straddling zero (Min < 0 <= Max) is clamped to its
//     non-negative sub-interval [0, Max] before evaluating.
//   - otherwise, the four corner evaluations base^power over
//     {Min,Max}x{p.Min,p.Max} bound the result.
func (iv Interval) Pow(power Interval) Set {
	if iv.Max < 0 {
		return Set{}
	}
	if iv.Min < 0 {
		return Interval{Min: 0, Max: iv.Max}.Pow(power)
	}
	c1 := powf(iv.Min, power.Min)
	c2 := powf(iv.Min, power.Max)
	c3 := powf(iv.Max, power.Min)
	c4 := powf(iv.Max, power.Max)
	return Set{{Min: minOf(c1, c2, c3, c4), Max: maxOf(c1, c2, c3, c4)}}
}

// powf wraps math.Pow, steering the handful of NaN-producing edge cases
// (0^0, inf-inf-shaped intermediate results) back to a real-valued
// endpoint rather than letting NaN escape.
func powf(base, power float32) float32 {
	r := float32(math.Pow(float64(base), float64(power)))
	if math.IsNaN(float64(r)) {
		if base == 0 {
			return 1
		}
		return float32(math.Inf(1))
	}
	return r
}

// ContainsZero reports whether any interval in the set straddles zero.
func (s Set) ContainsZero() bool {
	for _, iv := range s {
		if iv.ContainsZero() {
			return true
		}
	}
	return false
}

func minOf(vs ...float32) float32 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vs ...float32) float32 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
