package vehicle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestTire(t *testing.T, model string) TireModel {
	p := DefaultParams()
	p.Tire.Model = model
	m, err := NewTireModel(&p)
	require.NoError(t, err)
	return m
}

func TestTireModelSelect(t *testing.T) {
	require.IsType(t, &linearTire{}, newTestTire(t, TireModelLinear))
	require.IsType(t, &driftTire{}, newTestTire(t, TireModelDrift))
	p := DefaultParams()
	p.Tire.Model = "brush"
	_, err := NewTireModel(&p)
	require.ErrorIs(t, err, ErrUnknownTireModel)
}

func TestTireForcesAtRest(t *testing.T) {
	for _, model := range []string{TireModelLinear, TireModelDrift} {
		t.Run(model, func(t *testing.T) {
			m := newTestTire(t, model)
			f := m.Forces(TireInput{Steering: 0.3})
			require.Equal(t, AxleForces{}, f)
			f = m.Forces(TireInput{Steering: -0.3, Brake: true})
			require.Equal(t, AxleForces{}, f)
		})
	}
}

func TestTireSlipAngles(t *testing.T) {
	p := DefaultParams()
	b := newTireBase(&p)
	front, rear := b.SlipAngles(TireInput{VX: 10, Steering: 0.1})
	require.InDelta(t, 0.1, front, 1e-12)
	require.Equal(t, 0.0, rear)

	front, rear = b.SlipAngles(TireInput{VX: 10, VY: 1, YawRate: 0.5})
	require.InDelta(t, -math.Atan2(1+0.9*0.5, 10), front, 1e-12)
	require.InDelta(t, -math.Atan2(1-1.5*0.5, 10), rear, 1e-12)

	// lateral sliding at zero longitudinal speed stays finite.
	front, rear = b.SlipAngles(TireInput{VY: 2})
	require.InDelta(t, -math.Pi/2, front, 1e-6)
	require.InDelta(t, -math.Pi/2, rear, 1e-6)
}

func TestTireMu(t *testing.T) {
	p := DefaultParams()
	b := newTireBase(&p)
	require.Equal(t, p.Tire.MuStatic, b.Mu(0))
	require.Less(t, b.Mu(30), b.Mu(10))
	require.Equal(t, 0.0, b.Mu(1e6))
}

func TestTireLongitudinal(t *testing.T) {
	p := DefaultParams()
	m := newTestTire(t, TireModelLinear)
	f := m.Forces(TireInput{VX: 4})
	require.InDelta(t, -2*p.Tire.DragCoeff, f.FrontX, 1e-12)
	require.Equal(t, f.FrontX, f.RearX)
	braking := m.Forces(TireInput{VX: 4, Brake: true})
	require.InDelta(t, f.FrontX*p.Tire.BrakeGain, braking.FrontX, 1e-9)
	reverse := m.Forces(TireInput{VX: -4})
	require.InDelta(t, -f.FrontX, reverse.FrontX, 1e-12)
	require.Equal(t, 0.0, f.FrontY)
	require.Equal(t, 0.0, f.RearY)
}

func TestTireLateralSaturation(t *testing.T) {
	p := DefaultParams()
	front, _ := p.NormalLoads()
	in := TireInput{VX: 20, Steering: 0.5}
	mu := p.Tire.MuStatic - p.Tire.MuSpeedDecay*20

	linear := newTestTire(t, TireModelLinear).Forces(in)
	require.InDelta(t, mu*front*0.5*20, linear.FrontY, 1e-6)
	require.Greater(t, linear.FrontY, mu*front)

	drift := newTestTire(t, TireModelDrift).Forces(in)
	require.InDelta(t, p.Tire.KineticRatio*mu*front, drift.FrontY, 1e-6)
	require.Equal(t, 0.0, drift.RearY)

	// under the limit both models agree.
	small := TireInput{VX: 0.5, Steering: 0.01}
	require.Equal(t,
		newTestTire(t, TireModelLinear).Forces(small),
		newTestTire(t, TireModelDrift).Forces(small))
}
