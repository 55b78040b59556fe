package vehicle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const subStep = 1.0 / 60 / DefaultSubSteps

func newTestEngine(t *testing.T) (*Engine, *EngineParams, *EngineState) {
	p := DefaultParams()
	var s EngineState
	e, err := NewEngine(&p.Engine, &s)
	require.NoError(t, err)
	return e, &p.Engine, &s
}

func runEngine(e *Engine, seconds, target, load float64) {
	for n := 0; n < int(seconds/subStep); n++ {
		e.Update(subStep, target, load)
	}
}

func TestEngineStartSequence(t *testing.T) {
	e, p, _ := newTestEngine(t)
	require.Equal(t, EngineStopped, e.Status())
	e.Start()
	require.Equal(t, EngineStarting, e.Status())
	steps := 0
	for ; e.Status() != EngineRunning && steps < 100000; steps++ {
		require.Equal(t, 0.0, e.Update(subStep, 0, 0))
		require.Equal(t, 1.0, e.Throttle())
	}
	require.Equal(t, EngineRunning, e.Status())
	require.InDelta(t, p.IdleRPM/p.StarterRate/subStep, float64(steps), 2)
	require.Equal(t, p.IdleRPM, e.RPM())

	runEngine(e, 2, 0, 0)
	require.Equal(t, EngineRunning, e.Status())
	require.InDelta(t, p.IdleRPM, e.RPM(), 1)
}

func TestEngineStartIgnoredWhenRunning(t *testing.T) {
	e, _, s := newTestEngine(t)
	s.Started, s.RPM = true, 3000
	e.Start()
	require.Equal(t, EngineRunning, e.Status())
	require.Equal(t, 3000.0, e.RPM())
	e.Stop()
	require.Equal(t, EngineStopped, e.Status())
	runEngine(e, 3, 0, 0)
	require.Equal(t, 0.0, e.RPM())
}

func TestEngineDeadWhenStopped(t *testing.T) {
	e, _, s := newTestEngine(t)
	e.SetThrottle(1)
	s.RPM = 100
	require.Equal(t, 0.0, e.Update(subStep, 0, 0))
	require.Equal(t, 0.0, e.RPM())
	require.Equal(t, 0.0, e.Throttle())
}

func TestEngineIdleEnrichment(t *testing.T) {
	e, p, s := newTestEngine(t)
	s.Started, s.RPM = true, p.IdleRPM-100
	e.Update(subStep, 0, 0)
	require.Equal(t, p.IdleThrottle, e.Throttle())
	e.SetThrottle(0.5)
	e.Update(subStep, 0, 0)
	require.Equal(t, 0.5, e.Throttle())
}

func TestEngineRevLimiter(t *testing.T) {
	e, p, s := newTestEngine(t)
	s.Started, s.RPM = true, p.IdleRPM
	e.SetThrottle(1)
	e.SetBoost(true)
	for n := 0; n < 10*DefaultSubSteps*60; n++ {
		e.Update(subStep, 0, 0)
		require.True(t, e.RPM() >= 0 && e.RPM() <= p.MaxRPM)
	}
	require.InDelta(t, p.MaxRPM, e.RPM(), 50)
	s.RPM = p.MaxRPM
	e.Update(subStep, 0, 0)
	require.Equal(t, 0.0, e.Throttle())
}

func TestEngineRevLimiterWheelDriven(t *testing.T) {
	e, p, s := newTestEngine(t)
	s.Started, s.RPM = true, p.MaxRPM-500
	e.SetThrottle(1)
	torque := e.Update(subStep, p.MaxRPM+1000, 0)
	require.Equal(t, 0.0, e.Throttle())
	require.Less(t, torque, 0.0)
	require.LessOrEqual(t, e.RPM(), p.MaxRPM)

	s.RPM = p.MaxRPM - 500
	e.Update(subStep, p.MaxRPM-500, 0)
	require.Equal(t, 1.0, e.Throttle())
}

func TestEngineStall(t *testing.T) {
	e, p, s := newTestEngine(t)
	s.Started, s.RPM = true, p.IdleRPM
	runEngine(e, 1, 0, 500)
	require.Equal(t, EngineStopped, e.Status())
	require.Equal(t, 0.0, e.RPM())
}

func TestEngineTorque(t *testing.T) {
	e, p, s := newTestEngine(t)
	testCases := []struct {
		name     string
		rpm      float64
		throttle float64
		check    func(t *testing.T, torque float64)
	}{
		{
			name:     "at rest",
			throttle: 1,
			check: func(t *testing.T, torque float64) {
				require.Equal(t, 0.0, torque)
			},
		},
		{
			name:     "closed throttle brakes",
			rpm:      5000,
			throttle: 0,
			check: func(t *testing.T, torque float64) {
				require.Equal(t, -p.BrakeTorque, torque)
			},
		},
		{
			name:     "full throttle",
			rpm:      3000,
			throttle: 1,
			check: func(t *testing.T, torque float64) {
				require.InDelta(t, 70000/RPMToRadians(3000), torque, 1e-6)
			},
		},
		{
			name:     "part throttle brakes harder at high rpm",
			rpm:      6000,
			throttle: 0.1,
			check: func(t *testing.T, torque float64) {
				require.Less(t, torque, e.Torque(2000, 0.1))
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, e.Torque(tc.rpm, tc.throttle))
		})
	}

	base := e.Torque(3000, 1)
	s.Boost = true
	require.InDelta(t, base*p.BoostGain, e.Torque(3000, 1), 1e-6)
}

func TestEngineClutchLoad(t *testing.T) {
	e, p, s := newTestEngine(t)
	s.RPM = 2000
	require.Equal(t, 0.0, e.ClutchLoad(0))
	require.InDelta(t, p.ClutchStiffness*RPMToRadians(500), e.ClutchLoad(1500), 1e-9)
	require.Less(t, e.ClutchLoad(2500), 0.0)

	s.Started = true
	runEngine(e, 1, 3000, 0)
	require.InDelta(t, 3000, e.RPM(), 100)
}
