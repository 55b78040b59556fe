package vehicle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGearboxShift(t *testing.T) {
	var gear int
	g := NewGearbox(DefaultParams().GearRatios, &gear)
	require.True(t, g.Neutral())
	require.Equal(t, 6, g.Gears())

	require.NoError(t, g.Shift(1))
	require.Equal(t, 1, gear)
	require.False(t, g.Neutral())
	require.Equal(t, 11.0, g.CurrentRatio())

	for _, bad := range []int{-1, 6, 100} {
		err := g.Shift(bad)
		require.ErrorIs(t, err, ErrInvalidGear)
		require.Equal(t, 1, g.Gear())
	}
	require.Equal(t, 0.0, g.Ratio(-1))
	require.Equal(t, 0.0, g.Ratio(6))
	require.Equal(t, 0.0, g.Ratio(0))
}

func TestWheelSpeedConversion(t *testing.T) {
	for _, speed := range []float64{0, 1, 13.5, 50} {
		rpm := WheelRPMFromSpeed(speed, 0.3)
		require.InDelta(t, speed, SpeedFromWheelRPM(rpm, 0.3), 1e-9)
	}
	// 2π·0.3 m per revolution.
	require.InDelta(t, 60, WheelRPMFromSpeed(0.6*3.141592653589793, 0.3), 1e-9)
}

func TestTargetRPM(t *testing.T) {
	gear := 1
	g := NewGearbox(DefaultParams().GearRatios, &gear)
	testCases := []struct {
		name   string
		speed  float64
		expect float64
	}{
		{name: "at rest", speed: 0, expect: 800},
		{name: "in range", speed: 10, expect: WheelRPMFromSpeed(10, 0.3) * 11},
		{name: "reverse", speed: -10, expect: WheelRPMFromSpeed(10, 0.3) * 11},
		{name: "past rev limit", speed: 100, expect: WheelRPMFromSpeed(100, 0.3) * 11},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.expect, g.TargetRPM(tc.speed, 0.3, 800), 1e-9)
		})
	}
	gear = 0
	require.Equal(t, 0.0, g.TargetRPM(10, 0.3, 800))
}
