package vehicle

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	fx "github.com/robotalks/carsim/pkg/framework"
	"github.com/robotalks/carsim/pkg/sim/spline"
)

// Gravity is the standard gravity (m/s^2).
const Gravity = 9.81

// Params is the immutable configuration of a vehicle. It's validated once
// by NewIntegrator and shared read-only by all components.
type Params struct {
	Mass        float64   `yaml:"mass"`         // kg
	YawInertia  float64   `yaml:"yaw_inertia"`  // kg*m^2
	FrontAxle   float64   `yaml:"front_axle"`   // m, from center of mass
	RearAxle    float64   `yaml:"rear_axle"`    // m, from center of mass
	WheelRadius float64   `yaml:"wheel_radius"` // m
	GearRatios  []float64 `yaml:"gear_ratios"`  // overall ratios, [0] is neutral

	Steering   SteeringParams   `yaml:"steering"`
	Tire       TireParams       `yaml:"tire"`
	Engine     EngineParams     `yaml:"engine"`
	Integrator IntegratorParams `yaml:"integrator"`
}

// SteeringParams configures the steering actuator.
type SteeringParams struct {
	Max          float64 `yaml:"max"`           // rad
	Rate         float64 `yaml:"rate"`          // rad/s toward the held direction
	ReturnRate   float64 `yaml:"return_rate"`   // rad/s back to center
	SpeedDamping float64 `yaml:"speed_damping"` // s/m, slows steering at speed
}

// TireParams configures the tire force model.
type TireParams struct {
	// Model selects the lateral force model: "linear" or "drift".
	Model        string  `yaml:"model"`
	MuStatic     float64 `yaml:"mu_static"`
	MuSpeedDecay float64 `yaml:"mu_speed_decay"` // per m/s
	DragCoeff    float64 `yaml:"drag_coeff"`     // N/sqrt(m/s) per axle
	BrakeGain    float64 `yaml:"brake_gain"`
	// KineticRatio scales the saturated force of the drift model.
	KineticRatio float64 `yaml:"kinetic_ratio"`
}

// EngineParams configures the engine.
type EngineParams struct {
	Inertia         float64        `yaml:"inertia"`          // kg*m^2
	Friction        float64        `yaml:"friction"`         // N*m per rad/s
	IdleRPM         float64        `yaml:"idle_rpm"`         // idle floor
	MinRPM          float64        `yaml:"min_rpm"`          // lowest RPM imposed by the wheels in gear
	MaxRPM          float64        `yaml:"max_rpm"`          // rev limit
	StallRPM        float64        `yaml:"stall_rpm"`        // below this a non-starting engine dies
	StarterRate     float64        `yaml:"starter_rate"`     // RPM/s while cranking
	IdleThrottle    float64        `yaml:"idle_throttle"`    // minimum throttle below idle
	BrakeTorque     float64        `yaml:"brake_torque"`     // N*m engine brake baseline
	BrakeExponent   float64        `yaml:"brake_exponent"`   // throttle exponent at MaxRPM
	ClutchStiffness float64        `yaml:"clutch_stiffness"` // N*m per rad/s of slip
	BoostGain       float64        `yaml:"boost_gain"`       // power multiplier while boosting
	AutoStart       bool           `yaml:"auto_start"`       // crank on creation
	PowerCurve      []spline.Point `yaml:"power_curve"`      // RPM -> W
}

// IntegratorParams configures the sub-stepping scheme.
type IntegratorParams struct {
	SubSteps int           `yaml:"sub_steps"`
	MinDelta time.Duration `yaml:"min_delta"`
	MaxDelta time.Duration `yaml:"max_delta"`
}

// Tire models.
const (
	TireModelLinear = "linear"
	TireModelDrift  = "drift"
)

// Defaults of the integrator.
const (
	DefaultSubSteps = 1000
	DefaultMinDelta = time.Millisecond
	DefaultMaxDelta = 100 * time.Millisecond
)

var (
	// ErrInvalidParams indicates the configuration is rejected.
	ErrInvalidParams = errors.New("invalid vehicle params")
	// ErrUnknownTireModel indicates Tire.Model is not recognized.
	ErrUnknownTireModel = errors.New("unknown tire model")
)

// DefaultParams returns the reference car.
func DefaultParams() Params {
	return Params{
		Mass:        1000,
		YawInertia:  140,
		FrontAxle:   0.9,
		RearAxle:    1.5,
		WheelRadius: 0.3,
		GearRatios:  []float64{0, 11, 7.5, 5.5, 4.3, 3.5},
		Steering: SteeringParams{
			Max:          math.Pi / 4,
			Rate:         2.5,
			ReturnRate:   3,
			SpeedDamping: 0.08,
		},
		Tire: TireParams{
			Model:        TireModelLinear,
			MuStatic:     1,
			MuSpeedDecay: 0.005,
			DragCoeff:    20,
			BrakeGain:    40,
			KineticRatio: 0.7,
		},
		Engine: EngineParams{
			Inertia:         0.2,
			Friction:        0.02,
			IdleRPM:         800,
			MinRPM:          800,
			MaxRPM:          7000,
			StallRPM:        300,
			StarterRate:     2000,
			IdleThrottle:    0.2,
			BrakeTorque:     30,
			BrakeExponent:   4,
			ClutchStiffness: 50,
			BoostGain:       1.5,
			PowerCurve: []spline.Point{
				{X: 0, Y: 0},
				{X: 1000, Y: 20000},
				{X: 2000, Y: 45000},
				{X: 3000, Y: 70000},
				{X: 4000, Y: 90000},
				{X: 5000, Y: 105000},
				{X: 6000, Y: 110000},
				{X: 7000, Y: 100000},
			},
		},
		Integrator: IntegratorParams{
			SubSteps: DefaultSubSteps,
			MinDelta: DefaultMinDelta,
			MaxDelta: DefaultMaxDelta,
		},
	}
}

// Wheelbase is the distance between the axles.
func (p *Params) Wheelbase() float64 {
	return p.FrontAxle + p.RearAxle
}

// NormalLoads returns the static normal load on front and rear axles.
func (p *Params) NormalLoads() (front, rear float64) {
	w := p.Mass * Gravity
	l := p.Wheelbase()
	return w * p.RearAxle / l, w * p.FrontAxle / l
}

// Validate checks the params and reports all violations at once.
func (p *Params) Validate() error {
	var errs fx.AggregatedError
	positive := func(name string, v float64) {
		errs.Check(v > 0 && !math.IsInf(v, 0), "%s must be positive, got %v", name, v)
	}
	nonNegative := func(name string, v float64) {
		errs.Check(v >= 0 && !math.IsInf(v, 0), "%s must not be negative, got %v", name, v)
	}
	positive("mass", p.Mass)
	positive("yaw_inertia", p.YawInertia)
	positive("front_axle", p.FrontAxle)
	positive("rear_axle", p.RearAxle)
	positive("wheel_radius", p.WheelRadius)

	errs.Check(len(p.GearRatios) >= 2, "gear_ratios needs neutral and at least one gear")
	for n, ratio := range p.GearRatios {
		if n == 0 {
			errs.Check(ratio == 0, "gear_ratios[0] is neutral and must be 0, got %v", ratio)
		} else {
			errs.Check(ratio != 0 && !math.IsNaN(ratio) && !math.IsInf(ratio, 0), "gear_ratios[%d] must be non-zero, got %v", n, ratio)
		}
	}

	positive("steering.max", p.Steering.Max)
	errs.Check(p.Steering.Max < math.Pi/2, "steering.max must be less than 90 degrees")
	positive("steering.rate", p.Steering.Rate)
	nonNegative("steering.return_rate", p.Steering.ReturnRate)
	nonNegative("steering.speed_damping", p.Steering.SpeedDamping)

	switch p.Tire.Model {
	case TireModelLinear, TireModelDrift:
	default:
		errs.Add(fmt.Errorf("%w: %q", ErrUnknownTireModel, p.Tire.Model))
	}
	nonNegative("tire.mu_static", p.Tire.MuStatic)
	nonNegative("tire.mu_speed_decay", p.Tire.MuSpeedDecay)
	nonNegative("tire.drag_coeff", p.Tire.DragCoeff)
	errs.Check(p.Tire.BrakeGain >= 1, "tire.brake_gain must be at least 1, got %v", p.Tire.BrakeGain)
	errs.Check(p.Tire.KineticRatio >= 0 && p.Tire.KineticRatio <= 1, "tire.kinetic_ratio must be within [0, 1], got %v", p.Tire.KineticRatio)

	e := &p.Engine
	positive("engine.inertia", e.Inertia)
	nonNegative("engine.friction", e.Friction)
	positive("engine.max_rpm", e.MaxRPM)
	nonNegative("engine.stall_rpm", e.StallRPM)
	errs.Check(e.StallRPM < e.IdleRPM, "engine.stall_rpm must be below engine.idle_rpm")
	errs.Check(e.IdleRPM < e.MaxRPM, "engine.idle_rpm must be below engine.max_rpm")
	errs.Check(e.MinRPM >= 0 && e.MinRPM <= e.MaxRPM, "engine.min_rpm must be within [0, max_rpm]")
	positive("engine.starter_rate", e.StarterRate)
	errs.Check(e.IdleThrottle > 0 && e.IdleThrottle <= 1, "engine.idle_throttle must be within (0, 1], got %v", e.IdleThrottle)
	nonNegative("engine.brake_torque", e.BrakeTorque)
	positive("engine.brake_exponent", e.BrakeExponent)
	nonNegative("engine.clutch_stiffness", e.ClutchStiffness)
	errs.Check(e.BoostGain >= 1, "engine.boost_gain must be at least 1, got %v", e.BoostGain)
	if len(e.PowerCurve) > 0 {
		if _, err := spline.FromPoints(e.PowerCurve); err != nil {
			errs.Add(fmt.Errorf("engine.power_curve: %w", err))
		}
		for n, pt := range e.PowerCurve {
			errs.Check(pt.Y >= 0, "engine.power_curve[%d] must not be negative", n)
		}
	} else {
		errs.Addf("engine.power_curve is required")
	}

	errs.Check(p.Integrator.SubSteps > 0, "integrator.sub_steps must be positive, got %d", p.Integrator.SubSteps)
	errs.Check(p.Integrator.MinDelta > 0, "integrator.min_delta must be positive")
	errs.Check(p.Integrator.MaxDelta >= p.Integrator.MinDelta, "integrator.max_delta must not be less than min_delta")

	if err := errs.Aggregate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

// DecodeParams reads YAML from r on top of the defaults.
// Fields absent from the document keep their default values.
func DecodeParams(r io.Reader) (Params, error) {
	p := DefaultParams()
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return p, err
	}
	if len(data) == 0 {
		return p, nil
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("decode vehicle params: %w", err)
	}
	return p, nil
}

// LoadParams loads params from a YAML file.
func LoadParams(fn string) (Params, error) {
	f, err := os.Open(fn)
	if err != nil {
		return DefaultParams(), err
	}
	defer f.Close()
	return DecodeParams(f)
}
