package vehicle

import (
	"fmt"
	"math"
)

// TireInput is the body-frame motion seen by the tires.
type TireInput struct {
	VX, VY   float64
	YawRate  float64
	Steering float64
	Brake    bool
}

// Speed is the magnitude of the velocity.
func (in TireInput) Speed() float64 {
	return math.Hypot(in.VX, in.VY)
}

// AxleForces are the tire forces in body frame.
type AxleForces struct {
	FrontX, FrontY float64
	RearX, RearY   float64
}

// TireModel computes axle forces.
type TireModel interface {
	Forces(TireInput) AxleForces
}

// NewTireModel creates the TireModel selected by params.
func NewTireModel(params *Params) (TireModel, error) {
	base := newTireBase(params)
	switch params.Tire.Model {
	case TireModelLinear, "":
		return &linearTire{tireBase: base}, nil
	case TireModelDrift:
		return &driftTire{tireBase: base, kinetic: params.Tire.KineticRatio}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTireModel, params.Tire.Model)
}

type tireBase struct {
	tire                TireParams
	frontAxle, rearAxle float64
	frontLoad, rearLoad float64
}

func newTireBase(params *Params) tireBase {
	b := tireBase{
		tire:      params.Tire,
		frontAxle: params.FrontAxle,
		rearAxle:  params.RearAxle,
	}
	b.frontLoad, b.rearLoad = params.NormalLoads()
	return b
}

// SlipAngles computes the slip angles of front and rear axles.
func (b *tireBase) SlipAngles(in TireInput) (front, rear float64) {
	vx := in.VX
	if math.Abs(vx) < epsilon {
		vx = math.Copysign(epsilon, vx)
	}
	front = in.Steering - math.Atan2(in.VY+b.frontAxle*in.YawRate, vx)
	rear = -math.Atan2(in.VY-b.rearAxle*in.YawRate, vx)
	return
}

// Mu is the friction coefficient at speed.
func (b *tireBase) Mu(speed float64) float64 {
	return math.Max(0, b.tire.MuStatic-b.tire.MuSpeedDecay*speed)
}

func (b *tireBase) longitudinal(in TireInput) float64 {
	if in.VX == 0 {
		return 0
	}
	f := -math.Copysign(math.Sqrt(math.Abs(in.VX)), in.VX) * b.tire.DragCoeff
	if in.Brake {
		f *= b.tire.BrakeGain
	}
	return f
}

// linearTire scales lateral force with slip angle and speed
// without saturating.
type linearTire struct {
	tireBase
}

func (t *linearTire) Forces(in TireInput) AxleForces {
	speed := in.Speed()
	mu := t.Mu(speed)
	alphaF, alphaR := t.SlipAngles(in)
	fx := t.longitudinal(in)
	return AxleForces{
		FrontX: fx,
		FrontY: mu * t.frontLoad * alphaF * speed,
		RearX:  fx,
		RearY:  mu * t.rearLoad * alphaR * speed,
	}
}

// driftTire slides once the lateral force exceeds the friction limit.
type driftTire struct {
	tireBase
	kinetic float64
}

func (t *driftTire) Forces(in TireInput) AxleForces {
	speed := in.Speed()
	mu := t.Mu(speed)
	alphaF, alphaR := t.SlipAngles(in)
	fx := t.longitudinal(in)
	return AxleForces{
		FrontX: fx,
		FrontY: t.saturate(mu*t.frontLoad*alphaF*speed, mu*t.frontLoad),
		RearX:  fx,
		RearY:  t.saturate(mu*t.rearLoad*alphaR*speed, mu*t.rearLoad),
	}
}

func (t *driftTire) saturate(f, limit float64) float64 {
	if math.Abs(f) <= limit {
		return f
	}
	return math.Copysign(t.kinetic*limit, f)
}
