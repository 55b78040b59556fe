// Package scenario scripts driver input over time to run a vehicle
// without a frame loop.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	fx "github.com/robotalks/carsim/pkg/framework"
	"github.com/robotalks/carsim/pkg/sim/physics"
	"github.com/robotalks/carsim/pkg/sim/physics/vehicle"
)

// DefaultFrameDelta is used when FrameDelta is not specified.
const DefaultFrameDelta = time.Second / 60

// ErrInvalidScenario indicates the scenario is rejected.
var ErrInvalidScenario = errors.New("invalid scenario")

// Step changes the driver input at a point of time. Throttle, Brake,
// Steer and Boost are held until changed, Gear and Ignition apply once.
type Step struct {
	At       time.Duration `yaml:"at"`
	Throttle *bool         `yaml:"throttle,omitempty"`
	Brake    *bool         `yaml:"brake,omitempty"`
	Steer    *int          `yaml:"steer,omitempty"`
	Boost    *bool         `yaml:"boost,omitempty"`
	Gear     *int          `yaml:"gear,omitempty"`
	// Ignition is "on" or "off".
	Ignition string `yaml:"ignition,omitempty"`
}

// Scenario is a scripted drive.
type Scenario struct {
	Name       string        `yaml:"name"`
	Duration   time.Duration `yaml:"duration"`
	FrameDelta time.Duration `yaml:"frame_delta"`
	Steps      []Step        `yaml:"steps"`
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

// Default starts the engine, accelerates through two gears while
// turning left, then brakes to a stop in neutral.
func Default() *Scenario {
	return &Scenario{
		Name:       "default",
		Duration:   12 * time.Second,
		FrameDelta: DefaultFrameDelta,
		Steps: []Step{
			{At: 0, Ignition: "on"},
			{At: time.Second, Gear: intPtr(1), Throttle: boolPtr(true)},
			{At: 4 * time.Second, Gear: intPtr(2)},
			{At: 6 * time.Second, Steer: intPtr(vehicle.SteerLeft)},
			{At: 7 * time.Second, Steer: intPtr(vehicle.SteerNone)},
			{At: 8 * time.Second, Gear: intPtr(0), Throttle: boolPtr(false), Brake: boolPtr(true)},
		},
	}
}

// Decode reads a YAML scenario and validates it.
func Decode(r io.Reader) (*Scenario, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if s.FrameDelta == 0 {
		s.FrameDelta = DefaultFrameDelta
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load loads a scenario from a YAML file.
func Load(fn string) (*Scenario, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Validate checks the scenario and sorts the steps by time.
func (s *Scenario) Validate() error {
	var errs fx.AggregatedError
	errs.Check(s.Duration > 0, "duration must be positive")
	errs.Check(s.FrameDelta > 0, "frame_delta must be positive")
	for n, step := range s.Steps {
		errs.Check(step.At >= 0, "steps[%d].at must not be negative", n)
		if step.Steer != nil {
			errs.Check(*step.Steer >= vehicle.SteerRight && *step.Steer <= vehicle.SteerLeft,
				"steps[%d].steer must be -1, 0 or 1", n)
		}
		if step.Gear != nil {
			errs.Check(*step.Gear >= 0, "steps[%d].gear must not be negative", n)
		}
		switch step.Ignition {
		case "", "on", "off":
		default:
			errs.Addf("steps[%d].ignition must be on or off, got %q", n, step.Ignition)
		}
	}
	if err := errs.Aggregate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	sort.SliceStable(s.Steps, func(i, j int) bool { return s.Steps[i].At < s.Steps[j].At })
	return nil
}

// Frames is the number of ticks of a run, 0 without a valid frame delta.
func (s *Scenario) Frames() int {
	if s.FrameDelta <= 0 {
		return 0
	}
	return int((s.Duration + s.FrameDelta - 1) / s.FrameDelta)
}

func (step *Step) apply(held *vehicle.Command, cmd *vehicle.Command) {
	if step.Throttle != nil {
		held.Throttle = *step.Throttle
	}
	if step.Brake != nil {
		held.Brake = *step.Brake
	}
	if step.Steer != nil {
		held.Steer = *step.Steer
	}
	if step.Boost != nil {
		held.Boost = *step.Boost
	}
	if step.Gear != nil {
		gear := *step.Gear
		cmd.Gear = &gear
	}
	switch step.Ignition {
	case "on":
		cmd.Ignition = vehicle.IgnitionStart
	case "off":
		cmd.Ignition = vehicle.IgnitionStop
	}
}

// Run ticks v through the scenario at the fixed frame delta, calling
// fn with the snapshot of every frame. Steps take effect at the first
// frame starting at or after their time. A zero FrameDelta defaults to
// DefaultFrameDelta, and the scenario is validated before the first frame.
func (s *Scenario) Run(ctx context.Context, v physics.Vehicle, fn func(vehicle.Snapshot)) error {
	if s.FrameDelta == 0 {
		s.FrameDelta = DefaultFrameDelta
	}
	if err := s.Validate(); err != nil {
		return err
	}
	fc := physics.Fixed(ctx, time.Time{}, s.FrameDelta)
	var held vehicle.Command
	next, frames := 0, s.Frames()
	for n := 0; n < frames; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := time.Duration(n) * s.FrameDelta
		var cmd vehicle.Command
		for ; next < len(s.Steps) && s.Steps[next].At <= now; next++ {
			s.Steps[next].apply(&held, &cmd)
		}
		cmd.Throttle, cmd.Brake, cmd.Steer, cmd.Boost = held.Throttle, held.Brake, held.Steer, held.Boost
		snapshot := physics.Advance(fc.Next(), v, cmd)
		if fn != nil {
			fn(snapshot)
		}
	}
	return nil
}
