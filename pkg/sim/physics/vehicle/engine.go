package vehicle

import (
	"math"

	"github.com/golang/glog"

	"github.com/robotalks/carsim/pkg/sim/spline"
)

const epsilon = 1e-6

// RPMToRadians converts revolutions per minute to rad/s.
func RPMToRadians(rpm float64) float64 {
	return rpm * 2 * math.Pi / 60
}

// RadiansToRPM converts rad/s to revolutions per minute.
func RadiansToRPM(w float64) float64 {
	return w * 60 / (2 * math.Pi)
}

// Engine is the rotational model of the engine and its
// STOPPED -> STARTING -> RUNNING state machine.
type Engine struct {
	params *EngineParams
	curve  *spline.Interpolant
	state  *EngineState
}

// NewEngine creates an Engine mutating state.
func NewEngine(params *EngineParams, state *EngineState) (*Engine, error) {
	curve, err := spline.FromPoints(params.PowerCurve)
	if err != nil {
		return nil, err
	}
	return &Engine{params: params, curve: curve, state: state}, nil
}

// Start engages the starter. It's ignored unless the engine is stopped.
func (e *Engine) Start() {
	if e.state.Started || e.state.Starting {
		return
	}
	e.state.Starting, e.state.RPM = true, 0
	glog.V(2).Info("engine: starting")
}

// Stop switches the ignition off. The crankshaft spins down by itself.
func (e *Engine) Stop() {
	if !e.state.Started && !e.state.Starting {
		return
	}
	e.state.Started, e.state.Starting = false, false
	glog.V(2).Infof("engine: stopped at %.0f rpm", e.state.RPM)
}

// SetThrottle sets the requested throttle, clamped into [0, 1].
func (e *Engine) SetThrottle(t float64) {
	e.state.Throttle = math.Max(0, math.Min(1, t))
}

// SetBoost toggles the power boost.
func (e *Engine) SetBoost(on bool) {
	e.state.Boost = on
}

// RPM returns current RPM.
func (e *Engine) RPM() float64 {
	return e.state.RPM
}

// Throttle returns the throttle applied in last update.
func (e *Engine) Throttle() float64 {
	return e.state.Applied
}

// Status returns the state of the engine.
func (e *Engine) Status() EngineStatus {
	return e.state.Status()
}

// ClutchLoad is the torque the drivetrain applies to the crankshaft
// when it's coupled to wheels turning the engine at targetRPM.
// A non-positive targetRPM means decoupled.
func (e *Engine) ClutchLoad(targetRPM float64) float64 {
	if targetRPM <= 0 {
		return 0
	}
	return e.params.ClutchStiffness * (RPMToRadians(e.state.RPM) - RPMToRadians(targetRPM))
}

// Torque computes the torque produced at rpm with throttle, excluding
// internal friction.
func (e *Engine) Torque(rpm, throttle float64) float64 {
	p := e.params
	var torque float64
	if w := RPMToRadians(rpm); w >= epsilon {
		power := e.curve.Evaluate(rpm)
		if e.state.Boost {
			power *= p.BoostGain
		}
		torque = throttle * power / w
	}
	// low throttle at high rpm yields strong engine braking.
	exp := math.Max(epsilon, p.BrakeExponent*rpm/p.MaxRPM)
	return torque + p.BrakeTorque*math.Pow(throttle, exp) - p.BrakeTorque
}

// Update advances the engine by dt seconds. targetRPM is the speed the
// wheels impose through the drivetrain (non-positive when decoupled) and
// load is any extra load torque. It returns the net torque delivered.
// The rev limiter cuts throttle once the crankshaft or targetRPM
// reaches MaxRPM.
func (e *Engine) Update(dt, targetRPM, load float64) float64 {
	p, s := e.params, e.state
	throttle := s.Throttle

	if s.Starting {
		s.Applied = 1
		s.RPM += p.StarterRate * dt
		if s.RPM >= p.IdleRPM {
			s.RPM, s.Starting, s.Started = p.IdleRPM, false, true
			glog.V(2).Info("engine: running")
		}
		return 0
	}

	if s.Started && s.RPM < p.StallRPM {
		s.Started = false
		glog.V(2).Infof("engine: stalled at %.0f rpm", s.RPM)
	}
	if !s.Started {
		throttle = 0
		if s.RPM < p.StallRPM {
			s.RPM, s.Applied = 0, 0
			return 0
		}
	} else if s.RPM < p.IdleRPM {
		throttle = math.Max(throttle, p.IdleThrottle)
	}
	if s.RPM >= p.MaxRPM || targetRPM >= p.MaxRPM {
		throttle = 0
	}
	s.Applied = throttle

	raw := e.Torque(s.RPM, throttle)
	w := RPMToRadians(s.RPM)
	friction := p.Friction * w
	momentum := p.Inertia*w + (raw-friction-load-e.ClutchLoad(targetRPM))*dt
	s.RPM = math.Max(0, math.Min(p.MaxRPM, RadiansToRPM(momentum/p.Inertia)))
	return raw - friction
}
