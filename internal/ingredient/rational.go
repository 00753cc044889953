package ingredient

import (
	"fmt"
	"math"
)

// Rational is an exact numerator/denominator pair. The zero value is 0/1.
type Rational struct {
	Num int64
	Den int64
}

// NewRational returns num/den reduced to lowest terms with a positive
// denominator. A zero denominator yields 0/1.
func NewRational(num, den int64) Rational {
	if den == 0 {
		return Rational{0, 1}
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs64(num), den)
	return Rational{num / g, den / g}
}

// FromFloat converts f to an exact Rational. It reports false for NaN,
// infinities, and magnitudes too large to represent with int64 terms.
func FromFloat(f float64) (Rational, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Rational{0, 1}, false
	}
	if f == math.Trunc(f) {
		if f > math.MaxInt64 || f < math.MinInt64 {
			return Rational{0, 1}, false
		}
		return Rational{int64(f), 1}, true
	}
	// Double until the value is integral. Every finite float64 is an exact
	// binary fraction, so this terminates, and for the magnitudes seen in
	// recipe amounts it does so well before den can overflow.
	num := f
	var den int64 = 1
	for num != math.Trunc(num) {
		if den > math.MaxInt64/2 || math.Abs(num) > math.MaxInt64/2 {
			return Rational{0, 1}, false
		}
		num *= 2
		den *= 2
	}
	return NewRational(int64(num), den), true
}

// LimitDenominator returns the closest Rational to r whose denominator does
// not exceed max, computed from continued-fraction convergents. Ties between
// the two candidate bounds go to the smaller denominator.
func (r Rational) LimitDenominator(max int64) Rational {
	if max < 1 || r.Den <= max {
		return r
	}

	var p0, q0, p1, q1 int64 = 0, 1, 1, 0
	n, d := r.Num, r.Den
	for {
		a := n / d
		q2 := q0 + a*q1
		if q2 > max {
			break
		}
		p0, q0, p1, q1 = p1, q1, p0+a*p1, q2
		n, d = d, n-a*d
		if d == 0 {
			return NewRational(p1, q1)
		}
	}

	// Two candidates straddle the true value; pick the closer one.
	k := (max - q0) / q1
	lo := NewRational(p0+k*p1, q0+k*q1)
	hi := NewRational(p1, q1)

	switch cmpDistance(lo, hi, r) {
	case -1:
		return lo
	case 1:
		return hi
	default:
		if lo.Den < hi.Den {
			return lo
		}
		return hi
	}
}

// Float returns the value as a float64.
func (r Rational) Float() float64 {
	return float64(r.Num) / float64(r.Den)
}

// String renders the reduced fraction, omitting the denominator for whole
// numbers.
func (r Rational) String() string {
	if r.Den == 1 {
		return fmt.Sprintf("%d", r.Num)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// cmpDistance compares |a-x| against |b-x|: -1 if a is closer, 1 if b is
// closer, 0 on a tie. Comparison is done on cross-multiplied integers so no
// floating point is involved.
func cmpDistance(a, b, x Rational) int {
	// |a-x| ? |b-x|  <=>  |a.Num*x.Den - x.Num*a.Den| * b.Den*x.Den ? ...
	da := abs64(a.Num*x.Den-x.Num*a.Den) * b.Den
	db := abs64(b.Num*x.Den-x.Num*b.Den) * a.Den
	switch {
	case da < db:
		return -1
	case da > db:
		return 1
	default:
		return 0
	}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
