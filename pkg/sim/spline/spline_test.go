package spline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var powerCurve = []Point{
	{X: 0, Y: 0},
	{X: 1000, Y: 20000},
	{X: 3000, Y: 70000},
	{X: 5000, Y: 105000},
	{X: 6000, Y: 110000},
	{X: 7000, Y: 95000},
}

func TestEvaluateControlPoints(t *testing.T) {
	s, err := FromPoints(powerCurve)
	require.NoError(t, err)
	for _, pt := range powerCurve {
		require.InDelta(t, pt.Y, s.Evaluate(pt.X), 1e-6)
	}
}

func TestEvaluateClampsOutsideDomain(t *testing.T) {
	s, err := FromPoints(powerCurve)
	require.NoError(t, err)
	require.Equal(t, 0.0, s.Evaluate(-500))
	require.Equal(t, 95000.0, s.Evaluate(9000))
	require.Equal(t, 95000.0, s.Evaluate(math.Inf(1)))
	require.Equal(t, 0.0, s.Evaluate(math.NaN()))
	lo, hi := s.Domain()
	require.Equal(t, 0.0, lo)
	require.Equal(t, 7000.0, hi)
	require.Equal(t, 110000.0, s.Max())
}

func TestEvaluateNoOvershoot(t *testing.T) {
	s, err := FromPoints(powerCurve)
	require.NoError(t, err)
	for n := 1; n < len(powerCurve); n++ {
		a, b := powerCurve[n-1], powerCurve[n]
		lo, hi := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
		for x := a.X; x <= b.X; x += (b.X - a.X) / 50 {
			y := s.Evaluate(x)
			require.True(t, y >= lo-1e-6 && y <= hi+1e-6, "x=%v y=%v outside [%v, %v]", x, y, lo, hi)
		}
	}
}

func TestEvaluateMonotoneSegments(t *testing.T) {
	s, err := New([]float64{0, 1, 2, 10}, []float64{0, 0, 5, 6})
	require.NoError(t, err)
	prev := s.Evaluate(0)
	for x := 0.0; x <= 10; x += 0.01 {
		y := s.Evaluate(x)
		require.True(t, y >= prev-1e-9, "not monotone at x=%v", x)
		require.True(t, y >= 0)
		prev = y
	}
}

func TestNewRejectsBadCurves(t *testing.T) {
	testCases := []struct {
		name string
		xs   []float64
		ys   []float64
	}{
		{name: "empty"},
		{name: "single", xs: []float64{1}, ys: []float64{1}},
		{name: "mismatch", xs: []float64{1, 2}, ys: []float64{1}},
		{name: "not increasing", xs: []float64{1, 3, 2}, ys: []float64{1, 1, 1}},
		{name: "duplicated x", xs: []float64{1, 1}, ys: []float64{1, 2}},
		{name: "nan", xs: []float64{1, 2}, ys: []float64{math.NaN(), 2}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.xs, tc.ys)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrInvalidCurve)
		})
	}
}
