// Package vehicle simulates a ground vehicle with a bicycle model
// driven by an engine through a gearbox.
package vehicle

import (
	"time"

	"github.com/golang/glog"
)

// Integrator owns the vehicle state and advances it tick by tick, each
// tick subdivided into equal forward-Euler sub-steps.
type Integrator struct {
	params   Params
	state    State
	dynamics *Dynamics
	elapsed  time.Duration
	snapshot Snapshot
}

// NewIntegrator validates params and creates the Integrator with
// the vehicle at rest at origin, engine stopped, in neutral.
func NewIntegrator(params Params) (*Integrator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	in := &Integrator{params: params}
	in.params.GearRatios = append([]float64(nil), params.GearRatios...)
	in.params.Engine.PowerCurve = append(in.params.Engine.PowerCurve[:0:0], params.Engine.PowerCurve...)
	dynamics, err := NewDynamics(&in.params, &in.state)
	if err != nil {
		return nil, err
	}
	in.dynamics = dynamics
	in.Reset()
	return in, nil
}

// Params returns the validated params.
func (in *Integrator) Params() Params {
	return in.params
}

// State returns a copy of current state.
func (in *Integrator) State() State {
	return in.state
}

// Snapshot returns the result of last tick.
func (in *Integrator) Snapshot() Snapshot {
	return in.snapshot
}

// Elapsed is the total simulated time.
func (in *Integrator) Elapsed() time.Duration {
	return in.elapsed
}

// Reset restores the initial state.
func (in *Integrator) Reset() {
	in.state = State{}
	in.elapsed = 0
	if in.params.Engine.AutoStart {
		in.dynamics.Engine().Start()
	}
	in.snapshot = snapshotOf(in.elapsed, &in.state)
}

// ClampDelta limits the frame delta into the configured range.
func (in *Integrator) ClampDelta(dt time.Duration) time.Duration {
	switch {
	case dt < in.params.Integrator.MinDelta:
		return in.params.Integrator.MinDelta
	case dt > in.params.Integrator.MaxDelta:
		return in.params.Integrator.MaxDelta
	}
	return dt
}

// Tick applies cmd and advances the simulation by dt.
func (in *Integrator) Tick(dt time.Duration, cmd Command) Snapshot {
	dt = in.ClampDelta(dt)
	engine, gearbox := in.dynamics.Engine(), in.dynamics.Gearbox()
	if cmd.Gear != nil && *cmd.Gear != gearbox.Gear() {
		if err := gearbox.Shift(*cmd.Gear); err != nil {
			glog.Warningf("shift ignored: %v", err)
		}
	}
	switch cmd.Ignition {
	case IgnitionStart:
		engine.Start()
	case IgnitionStop:
		engine.Stop()
	}
	throttle := 0.0
	if cmd.Throttle && !cmd.Brake {
		throttle = 1
	}
	engine.SetThrottle(throttle)
	engine.SetBoost(cmd.Boost)

	steps := in.params.Integrator.SubSteps
	h := dt.Seconds() / float64(steps)
	var applied float64
	for n := 0; n < steps; n++ {
		in.dynamics.Step(h, &cmd)
		applied += engine.Throttle()
	}
	in.elapsed += dt
	in.snapshot = snapshotOf(in.elapsed, &in.state)
	// averaged over sub-steps, the rev limiter toggles within a tick.
	in.snapshot.Throttle = applied / float64(steps)
	if glog.V(4) {
		glog.Infof("tick %v: pos=(%.3f, %.3f) heading=%.3f speed=%.3f rpm=%.0f gear=%d",
			dt, in.snapshot.Position.X, in.snapshot.Position.Y, in.snapshot.Heading,
			in.snapshot.Speed, in.snapshot.RPM, in.snapshot.Gear)
	}
	return in.snapshot
}
