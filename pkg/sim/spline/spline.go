// Package spline provides the monotone interpolant used for engine curves.
package spline

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// ErrInvalidCurve indicates the control points can't form an interpolant.
var ErrInvalidCurve = errors.New("invalid curve")

// Point is a control point of the curve.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Interpolant is an immutable monotone piecewise cubic through control
// points. Between samples it never overshoots the neighbouring values,
// so a non-negative curve stays non-negative. Outside the sampled domain
// it returns the boundary sample.
type Interpolant struct {
	xs, ys []float64
	fb     interp.FritschButland
}

// New creates the Interpolant from sample coordinates.
// xs must be strictly increasing and contain at least 2 samples.
func New(xs, ys []float64) (*Interpolant, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d x values, %d y values", ErrInvalidCurve, len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("%w: at least 2 points required", ErrInvalidCurve)
	}
	for n := range xs {
		if math.IsNaN(xs[n]) || math.IsInf(xs[n], 0) || math.IsNaN(ys[n]) || math.IsInf(ys[n], 0) {
			return nil, fmt.Errorf("%w: point %d is not finite", ErrInvalidCurve, n)
		}
		if n > 0 && xs[n] <= xs[n-1] {
			return nil, fmt.Errorf("%w: x not strictly increasing at point %d", ErrInvalidCurve, n)
		}
	}
	s := &Interpolant{
		xs: append([]float64(nil), xs...),
		ys: append([]float64(nil), ys...),
	}
	if err := s.fb.Fit(s.xs, s.ys); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCurve, err)
	}
	return s, nil
}

// FromPoints creates the Interpolant from control points.
func FromPoints(pts []Point) (*Interpolant, error) {
	xs, ys := make([]float64, len(pts)), make([]float64, len(pts))
	for n, pt := range pts {
		xs[n], ys[n] = pt.X, pt.Y
	}
	return New(xs, ys)
}

// Evaluate interpolates the curve at x.
func (s *Interpolant) Evaluate(x float64) float64 {
	last := len(s.xs) - 1
	switch {
	case math.IsNaN(x):
		return s.ys[0]
	case x <= s.xs[0]:
		return s.ys[0]
	case x >= s.xs[last]:
		return s.ys[last]
	}
	return s.fb.Predict(x)
}

// Domain returns the first and last x of the samples.
func (s *Interpolant) Domain() (float64, float64) {
	return s.xs[0], s.xs[len(s.xs)-1]
}

// Max returns the largest sampled y.
func (s *Interpolant) Max() float64 {
	max := s.ys[0]
	for _, y := range s.ys[1:] {
		if y > max {
			max = y
		}
	}
	return max
}
