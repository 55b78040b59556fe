package vehicle

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/carsim/pkg/sim"
)

const frame = time.Second / 60

func newTestIntegrator(t *testing.T, modifiers ...func(*Params)) *Integrator {
	p := DefaultParams()
	for _, modify := range modifiers {
		modify(&p)
	}
	in, err := NewIntegrator(p)
	require.NoError(t, err)
	return in
}

func startEngine(t *testing.T, in *Integrator) int {
	in.Tick(frame, Command{Ignition: IgnitionStart})
	ticks := 1
	for ; in.Snapshot().EngineStatus != EngineRunning; ticks++ {
		require.Less(t, ticks, 60, "engine not started in 1s")
		in.Tick(frame, Command{})
	}
	return ticks
}

func requireSane(t *testing.T, p *Params, s Snapshot) {
	require.True(t, s.Steering >= -p.Steering.Max && s.Steering <= p.Steering.Max, "steering %v out of bound", s.Steering)
	require.True(t, s.RPM >= 0 && s.RPM <= p.Engine.MaxRPM, "rpm %v out of bound", s.RPM)
	require.True(t, s.Velocity.IsFinite(), "velocity %v", s.Velocity)
	require.True(t, sim.IsFinite(s.YawRate), "yaw rate %v", s.YawRate)
	require.True(t, s.Heading >= 0 && s.Heading < 2*math.Pi, "heading %v", s.Heading)
}

func TestZeroInputRest(t *testing.T) {
	in := newTestIntegrator(t)
	for n := 0; n < 600; n++ {
		s := in.Tick(frame, Command{})
		require.Equal(t, sim.Pos2D{}, s.Position)
		require.Equal(t, sim.Vec2D{}, s.Velocity)
		require.Equal(t, 0.0, s.Heading)
		require.Equal(t, 0.0, s.YawRate)
		require.Equal(t, 0.0, s.RPM)
		require.Equal(t, EngineStopped, s.EngineStatus)
	}
	require.Equal(t, 600*frame, in.Elapsed())
}

func TestStartSequence(t *testing.T) {
	in := newTestIntegrator(t)
	p := in.Params()
	ticks := startEngine(t, in)
	require.LessOrEqual(t, ticks, 25)
	require.InDelta(t, p.Engine.IdleRPM, in.Snapshot().RPM, 5)

	for n := 0; n < 120; n++ {
		s := in.Tick(frame, Command{})
		require.Equal(t, EngineRunning, s.EngineStatus)
		require.InDelta(t, p.Engine.IdleRPM, s.RPM, 5)
		require.Equal(t, 0.0, s.Speed)
	}

	s := in.Tick(frame, Command{Ignition: IgnitionStop})
	require.Equal(t, EngineStopped, s.EngineStatus)
	for n := 0; n < 120; n++ {
		s = in.Tick(frame, Command{})
	}
	require.Equal(t, 0.0, s.RPM)
}

func TestAutoStart(t *testing.T) {
	in := newTestIntegrator(t, func(p *Params) { p.Engine.AutoStart = true })
	require.Equal(t, EngineStarting, in.Snapshot().EngineStatus)
	for n := 0; n < 30; n++ {
		in.Tick(frame, Command{})
	}
	require.Equal(t, EngineRunning, in.Snapshot().EngineStatus)
}

func TestScenarioFullThrottleFirstGear(t *testing.T) {
	in := newTestIntegrator(t)
	p := in.Params()
	startEngine(t, in)
	idle := in.Snapshot().RPM

	cmd := Command{Throttle: true}.SelectGear(1)
	prev := in.Snapshot()
	for n := 0; n < 120; n++ {
		s := in.Tick(frame, cmd)
		requireSane(t, &p, s)
		require.Equal(t, 1, s.Gear)
		require.Greater(t, s.Speed, prev.Speed, "speed not increasing at tick %d", n)
		require.GreaterOrEqual(t, s.RPM, prev.RPM-1, "rpm dropped at tick %d", n)
		prev = s
	}
	assert.Greater(t, prev.Speed, 10.0)
	assert.Greater(t, prev.RPM, idle+2000)
	assert.Less(t, prev.RPM, p.Engine.MaxRPM)
	assert.Greater(t, prev.Position.X, 5.0)
	assert.InDelta(t, 0, prev.Position.Y, 1e-9)
	assert.InDelta(t, 0, prev.Heading, 1e-9)
	assert.Equal(t, 1.0, prev.Throttle)
}

func TestRevLimiterCapsSpeedInGear(t *testing.T) {
	in := newTestIntegrator(t)
	p := in.Params()
	startEngine(t, in)
	limit := SpeedFromWheelRPM(p.Engine.MaxRPM/p.GearRatios[1], p.WheelRadius)

	cmd := Command{Throttle: true}.SelectGear(1)
	var limited int
	for n := 0; n < 15*60; n++ {
		s := in.Tick(frame, cmd)
		requireSane(t, &p, s)
		require.LessOrEqual(t, s.Speed, limit+0.05, "speed past rev limit at tick %d", n)
		if s.Throttle < 1 {
			limited++
		}
	}
	s := in.Snapshot()
	assert.InDelta(t, limit, s.Speed, 0.5)
	assert.InDelta(t, p.Engine.MaxRPM, s.RPM, 100)
	assert.Less(t, s.Throttle, 1.0)
	assert.Greater(t, s.Throttle, 0.0)
	assert.Greater(t, limited, 10*60)
}

func TestBrakeStopsVehicle(t *testing.T) {
	in := newTestIntegrator(t)
	startEngine(t, in)
	for n := 0; n < 120; n++ {
		in.Tick(frame, Command{Throttle: true}.SelectGear(1))
	}
	fast := in.Snapshot().Speed
	require.Greater(t, fast, 5.0)
	// throttle is ignored while braking.
	for n := 0; n < 480; n++ {
		in.Tick(frame, Command{Throttle: true, Brake: true}.SelectGear(0))
	}
	require.Less(t, in.Snapshot().Speed, 0.1)
}

func TestSteerLeftTurnsLeft(t *testing.T) {
	for _, model := range []string{TireModelLinear, TireModelDrift} {
		t.Run(model, func(t *testing.T) {
			in := newTestIntegrator(t, func(p *Params) { p.Tire.Model = model })
			p := in.Params()
			startEngine(t, in)
			for n := 0; n < 60; n++ {
				in.Tick(frame, Command{Throttle: true}.SelectGear(1))
			}
			for n := 0; n < 30; n++ {
				requireSane(t, &p, in.Tick(frame, Command{Throttle: true, Steer: SteerLeft}))
			}
			s := in.Snapshot()
			require.Greater(t, s.Steering, 0.0)
			require.Greater(t, s.YawRate, 0.0)
			require.Greater(t, s.Position.Y, 0.0)
			require.True(t, s.Heading > 0 && s.Heading < math.Pi)
		})
	}
}

func TestSteeringReturnsToCenter(t *testing.T) {
	in := newTestIntegrator(t)
	p := in.Params()
	for n := 0; n < 60; n++ {
		in.Tick(frame, Command{Steer: SteerRight})
	}
	require.Equal(t, -p.Steering.Max, in.Snapshot().Steering)

	prev := in.Snapshot().Steering
	for n := 0; n < 60; n++ {
		s := in.Tick(frame, Command{})
		require.LessOrEqual(t, s.Steering, 0.0)
		require.GreaterOrEqual(t, s.Steering, prev)
		prev = s.Steering
	}
	require.Equal(t, 0.0, prev)
}

func TestDeterminism(t *testing.T) {
	run := func() []Snapshot {
		in := newTestIntegrator(t, func(p *Params) {
			p.Tire.Model = TireModelDrift
			p.Integrator.SubSteps = 200
		})
		rnd := rand.New(rand.NewSource(7))
		var out []Snapshot
		for n := 0; n < 300; n++ {
			out = append(out, in.Tick(frame, randomCommand(rnd)))
		}
		return out
	}
	require.Equal(t, run(), run())
}

func TestBoundsUnderRandomInput(t *testing.T) {
	for _, model := range []string{TireModelLinear, TireModelDrift} {
		t.Run(model, func(t *testing.T) {
			in := newTestIntegrator(t, func(p *Params) {
				p.Tire.Model = model
				p.Integrator.SubSteps = 200
			})
			p := in.Params()
			rnd := rand.New(rand.NewSource(42))
			for n := 0; n < 1200; n++ {
				dt := time.Duration(rnd.Int63n(int64(200 * time.Millisecond)))
				requireSane(t, &p, in.Tick(dt, randomCommand(rnd)))
			}
		})
	}
}

func randomCommand(rnd *rand.Rand) Command {
	cmd := Command{
		Throttle: rnd.Intn(3) > 0,
		Brake:    rnd.Intn(5) == 0,
		Steer:    rnd.Intn(3) - 1,
		Boost:    rnd.Intn(4) == 0,
	}
	if rnd.Intn(10) == 0 {
		cmd = cmd.SelectGear(rnd.Intn(8) - 1)
	}
	switch rnd.Intn(40) {
	case 0:
		cmd.Ignition = IgnitionStart
	case 1:
		cmd.Ignition = IgnitionStop
	}
	return cmd
}

func TestSubStepInvariance(t *testing.T) {
	script := func(n int) Command {
		cmd := Command{Throttle: true}.SelectGear(1)
		if n == 0 {
			cmd.Ignition = IgnitionStart
		}
		if n >= 40 && n < 70 {
			cmd.Steer = SteerLeft
		}
		return cmd
	}
	coarse := newTestIntegrator(t, func(p *Params) { p.Integrator.SubSteps = 500 })
	for n := 0; n < 120; n++ {
		coarse.Tick(frame, script(n))
	}
	fine := newTestIntegrator(t, func(p *Params) { p.Integrator.SubSteps = 1000 })
	for n := 0; n < 240; n++ {
		fine.Tick(frame/2, script(n/2))
	}
	a, b := coarse.Snapshot(), fine.Snapshot()
	require.Equal(t, a.Time, b.Time)
	require.Greater(t, a.Speed, 5.0)
	require.InEpsilon(t, a.Speed, b.Speed, 1e-2)
	require.InEpsilon(t, a.RPM, b.RPM, 1e-2)
	require.InDelta(t, a.Position.X, b.Position.X, 1e-2*math.Max(1, math.Abs(a.Position.X)))
	require.InDelta(t, a.Position.Y, b.Position.Y, 1e-2*math.Max(1, math.Abs(a.Position.Y)))
	require.InDelta(t, a.Heading, b.Heading, 1e-2)
	require.InDelta(t, a.Steering, b.Steering, 1e-3)
}

func TestClampDelta(t *testing.T) {
	in := newTestIntegrator(t)
	testCases := []struct {
		in, expect time.Duration
	}{
		{0, time.Millisecond},
		{-time.Second, time.Millisecond},
		{frame, frame},
		{time.Second, 100 * time.Millisecond},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expect, in.ClampDelta(tc.in))
	}
	in.Tick(time.Hour, Command{})
	require.Equal(t, 100*time.Millisecond, in.Elapsed())
}

func TestShiftAndReset(t *testing.T) {
	in := newTestIntegrator(t)
	require.Equal(t, 0, in.Snapshot().Gear)
	require.Equal(t, 3, in.Tick(frame, Command{}.SelectGear(3)).Gear)
	require.Equal(t, 3, in.Tick(frame, Command{}.SelectGear(42)).Gear)
	require.Equal(t, 3, in.Tick(frame, Command{}).Gear)

	startEngine(t, in)
	for n := 0; n < 30; n++ {
		in.Tick(frame, Command{Throttle: true}.SelectGear(1))
	}
	require.Greater(t, in.Snapshot().Speed, 0.0)
	in.Reset()
	require.Equal(t, State{}, in.State())
	require.Equal(t, Snapshot{}, in.Snapshot())
	require.Equal(t, time.Duration(0), in.Elapsed())
}
