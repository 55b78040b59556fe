// Package car registers a simulated car as an L1 endpoint.
package car

import (
	"flag"
	"time"

	env "github.com/robotalks/carsim/pkg/l1/env/controller"
	"github.com/robotalks/carsim/pkg/sim/physics/vehicle"
)

// Config defines the configuration for the car.
type Config struct {
	// ParamsFile is a YAML file of vehicle.Params, empty for defaults.
	ParamsFile string
	// Overrides of the loaded params, zero values keep them.
	SubSteps  int
	MinDelta  time.Duration
	MaxDelta  time.Duration
	TireModel string
	AutoStart bool

	StatusEvery int
	// Width and Length (m) of the outline used for rendering.
	Width, Length float64
}

// Defaults
const (
	DefaultWidth  float64 = 1.8
	DefaultLength float64 = 4.2
)

var defaultConfig = Config{
	StatusEvery: DefaultStatusEvery,
	Width:       DefaultWidth,
	Length:      DefaultLength,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ParamsFile, "params", defaultConfig.ParamsFile, "Vehicle params YAML file.")
	flag.IntVar(&defaultConfig.SubSteps, "substeps", defaultConfig.SubSteps, "Integration sub-steps per frame, 0 keeps params.")
	flag.DurationVar(&defaultConfig.MinDelta, "min-delta", defaultConfig.MinDelta, "Minimum frame delta, 0 keeps params.")
	flag.DurationVar(&defaultConfig.MaxDelta, "max-delta", defaultConfig.MaxDelta, "Maximum frame delta, 0 keeps params.")
	flag.StringVar(&defaultConfig.TireModel, "tire-model", defaultConfig.TireModel, "Tire model: linear or drift.")
	flag.BoolVar(&defaultConfig.AutoStart, "auto-start", defaultConfig.AutoStart, "Start the engine on creation.")
	flag.IntVar(&defaultConfig.StatusEvery, "status-every", defaultConfig.StatusEvery, "Frames between status events, 0 disables.")
	flag.Float64Var(&defaultConfig.Width, "car-width", defaultConfig.Width, "Width (m) of the car.")
	flag.Float64Var(&defaultConfig.Length, "car-length", defaultConfig.Length, "Length (m) of the car.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Params loads the vehicle params and applies overrides.
func (c *Config) Params() (vehicle.Params, error) {
	params := vehicle.DefaultParams()
	if c.ParamsFile != "" {
		var err error
		if params, err = vehicle.LoadParams(c.ParamsFile); err != nil {
			return params, err
		}
	}
	if c.SubSteps > 0 {
		params.Integrator.SubSteps = c.SubSteps
	}
	if c.MinDelta > 0 {
		params.Integrator.MinDelta = c.MinDelta
	}
	if c.MaxDelta > 0 {
		params.Integrator.MaxDelta = c.MaxDelta
	}
	if c.TireModel != "" {
		params.Tire.Model = c.TireModel
	}
	if c.AutoStart {
		params.Engine.AutoStart = true
	}
	return params, nil
}

// NewVehicle creates the Integrator from the configured params.
func (c *Config) NewVehicle() (*vehicle.Integrator, error) {
	params, err := c.Params()
	if err != nil {
		return nil, err
	}
	return vehicle.NewIntegrator(params)
}

// NewController creates the Controller registered through e.
func (c *Config) NewController(e *env.Env) (*Controller, error) {
	v, err := c.NewVehicle()
	if err != nil {
		return nil, err
	}
	ctl := NewController(e.Config.Info.Ref, e, v)
	c.Apply(ctl)
	return ctl, nil
}

// Apply sets the non-physics options on ctl.
func (c *Config) Apply(ctl *Controller) {
	ctl.StatusEvery = c.StatusEvery
	// the car faces +X at zero heading.
	ctl.Outline.CX, ctl.Outline.CY = c.Length, c.Width
	ctl.Outline.X, ctl.Outline.Y = -ctl.Outline.CX/2, -ctl.Outline.CY/2
}
