package vehicle

import (
	"math"

	"github.com/robotalks/carsim/pkg/sim"
)

// Dynamics is the bicycle model advancing State by one sub-step.
type Dynamics struct {
	params  *Params
	state   *State
	engine  *Engine
	gearbox *Gearbox
	tire    TireModel
}

// NewDynamics creates the model over state.
func NewDynamics(params *Params, state *State) (*Dynamics, error) {
	engine, err := NewEngine(&params.Engine, &state.Engine)
	if err != nil {
		return nil, err
	}
	tire, err := NewTireModel(params)
	if err != nil {
		return nil, err
	}
	return &Dynamics{
		params:  params,
		state:   state,
		engine:  engine,
		gearbox: NewGearbox(params.GearRatios, &state.Gear),
		tire:    tire,
	}, nil
}

// Engine returns the engine.
func (d *Dynamics) Engine() *Engine {
	return d.engine
}

// Gearbox returns the gearbox.
func (d *Dynamics) Gearbox() *Gearbox {
	return d.gearbox
}

// Step advances the state by dt seconds.
func (d *Dynamics) Step(dt float64, cmd *Command) {
	p, s := d.params, d.state
	heading := s.Heading
	v := s.Velocity.ToBody(heading)
	speed := s.Velocity.Len()

	// The wheels only hold the crankshaft above idle while it's running.
	minRPM := 0.0
	if s.Engine.Started {
		minRPM = p.Engine.MinRPM
	}
	target := d.gearbox.TargetRPM(speed, p.WheelRadius, minRPM)
	torque := d.engine.Update(dt, target, 0)
	var drive float64
	if d.engine.Status() == EngineRunning {
		drive = torque * d.gearbox.CurrentRatio() / p.WheelRadius
	}

	f := d.tire.Forces(TireInput{
		VX:       v.X,
		VY:       v.Y,
		YawRate:  s.YawRate,
		Steering: s.Steering,
		Brake:    cmd.Brake,
	})

	cos, sin := math.Cos(s.Steering), math.Sin(s.Steering)
	accel := sim.Vec2D{
		X: (drive*cos+f.FrontX*cos-f.FrontY*sin+f.RearX)/p.Mass + v.Y*s.YawRate,
		Y: (drive*sin+f.FrontX*sin+f.FrontY*cos+f.RearY)/p.Mass - v.X*s.YawRate,
	}
	yawAccel := (p.FrontAxle*((f.FrontX+drive)*sin+f.FrontY*cos) - p.RearAxle*f.RearY) / p.YawInertia

	s.Position.Move(s.Velocity, dt)
	s.Heading = heading.Turn(s.YawRate * dt)
	s.Velocity = s.Velocity.Add(accel.ToWorld(heading).Scale(dt))
	s.YawRate += yawAccel * dt

	d.steer(dt, cmd.Steer, speed)
}

func (d *Dynamics) steer(dt float64, dir int, speed float64) {
	p, s := &d.params.Steering, d.state
	damping := 1 + p.SpeedDamping*speed
	switch {
	case dir > 0:
		s.Steering += p.Rate / damping * dt
	case dir < 0:
		s.Steering -= p.Rate / damping * dt
	case s.Steering > 0:
		s.Steering = math.Max(0, s.Steering-p.ReturnRate/damping*dt)
	case s.Steering < 0:
		s.Steering = math.Min(0, s.Steering+p.ReturnRate/damping*dt)
	}
	s.Steering = math.Max(-p.Max, math.Min(p.Max, s.Steering))
}
