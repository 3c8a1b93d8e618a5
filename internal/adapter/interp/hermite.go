// Package interp interpolates sampled series on a strictly increasing axis.
package interp

import (
	"fmt"
	"math"
	"sort"
)

// Segment is one interval of a sampled series with its endpoint values and
// optional endpoint slopes.
type Segment struct {
	X0, X1 float64 // Interval boundaries (e.g., days from J2000).
	V0, V1 float64 // Values at X0 and X1.
	D0, D1 float64 // Slopes dV/dX at X0 and X1, used by Hermite only.
}

// normalize returns the position of x within seg scaled to [0, 1].
func normalize(seg Segment, x float64) (float64, error) {
	if seg.X1 <= seg.X0 {
		return 0, fmt.Errorf("invalid segment: X1 must be > X0")
	}

	// Check if point is within segment (with small tolerance for floating point).
	const epsilon = 1e-9
	if x < seg.X0-epsilon || x > seg.X1+epsilon {
		return 0, fmt.Errorf("x coordinate %.6f is outside segment [%.6f, %.6f]", x, seg.X0, seg.X1)
	}

	s := (x - seg.X0) / (seg.X1 - seg.X0)
	return math.Max(0, math.Min(1, s)), nil
}

// Linear interpolates between the endpoint values of seg.
func Linear(seg Segment, x float64) (float64, error) {
	s, err := normalize(seg, x)
	if err != nil {
		return 0, err
	}
	return (1-s)*seg.V0 + s*seg.V1, nil
}

// Hermite performs cubic Hermite interpolation using endpoint values and slopes.
// Formula:
//
//	f(x) ≈ h00(s)V0 + h10(s)hD0 + h01(s)V1 + h11(s)hD1
//
// where h = X1 - X0, s = (x - X0) / h and hij are the Hermite basis polynomials.
func Hermite(seg Segment, x float64) (float64, error) {
	s, err := normalize(seg, x)
	if err != nil {
		return 0, err
	}
	h := seg.X1 - seg.X0
	s2 := s * s
	s3 := s2 * s

	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	return h00*seg.V0 + h10*h*seg.D0 + h01*seg.V1 + h11*h*seg.D1, nil
}

// Samples is a sampled function of one variable.
type Samples struct {
	X      []float64 // Strictly increasing axis.
	Values []float64 // Values[i] corresponds to X[i].
	Slopes []float64 // Optional derivatives; Hermite is used when present.
}

// Validate checks if the samples are usable.
func (s *Samples) Validate() error {
	if len(s.X) < 2 {
		return fmt.Errorf("series must have at least 2 samples")
	}
	if len(s.Values) != len(s.X) {
		return fmt.Errorf("number of values (%d) must match X coordinates (%d)", len(s.Values), len(s.X))
	}
	if s.Slopes != nil && len(s.Slopes) != len(s.X) {
		return fmt.Errorf("number of slopes (%d) must match X coordinates (%d)", len(s.Slopes), len(s.X))
	}
	for i := 1; i < len(s.X); i++ {
		if s.X[i] <= s.X[i-1] {
			return fmt.Errorf("X coordinates must be strictly increasing")
		}
	}
	return nil
}

// Bracket returns i such that X[i] <= x <= X[i+1].
func (s *Samples) Bracket(x float64) (int, error) {
	n := len(s.X)
	if n < 2 {
		return -1, fmt.Errorf("series must have at least 2 samples")
	}
	if math.IsNaN(x) {
		return -1, fmt.Errorf("x coordinate is NaN")
	}
	if x < s.X[0] || x > s.X[n-1] {
		return -1, fmt.Errorf("x coordinate %.6f is outside series range [%.6f, %.6f]", x, s.X[0], s.X[n-1])
	}

	// Binary search for the first sample at or after x.
	i := sort.SearchFloat64s(s.X, x)
	if s.X[i] != x {
		i--
	}
	if i > n-2 {
		i = n - 2
	}
	return i, nil
}

// Segment returns the i-th interval of the series.
func (s *Samples) Segment(i int) Segment {
	seg := Segment{
		X0: s.X[i],
		X1: s.X[i+1],
		V0: s.Values[i],
		V1: s.Values[i+1],
	}
	if s.Slopes != nil {
		seg.D0 = s.Slopes[i]
		seg.D1 = s.Slopes[i+1]
	}
	return seg
}

// InterpolateAt evaluates the series at x, with Hermite interpolation when
// slopes are known and linear interpolation otherwise. Only the lengths are
// checked here; call Validate once before interpolating repeatedly.
func (s *Samples) InterpolateAt(x float64) (float64, error) {
	if len(s.Values) != len(s.X) || (s.Slopes != nil && len(s.Slopes) != len(s.X)) {
		return 0, fmt.Errorf("invalid series: %d X, %d values, %d slopes", len(s.X), len(s.Values), len(s.Slopes))
	}

	i, err := s.Bracket(x)
	if err != nil {
		return 0, err
	}

	seg := s.Segment(i)
	if s.Slopes != nil {
		return Hermite(seg, x)
	}
	return Linear(seg, x)
}
