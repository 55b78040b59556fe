package vehicle

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGear indicates the gear index is not in the ratio table.
var ErrInvalidGear = errors.New("invalid gear")

// Gearbox maps the selected gear to its overall ratio.
type Gearbox struct {
	ratios []float64
	gear   *int
}

// NewGearbox creates a Gearbox selecting into gear.
func NewGearbox(ratios []float64, gear *int) *Gearbox {
	return &Gearbox{ratios: ratios, gear: gear}
}

// Gears is the number of gears including neutral.
func (g *Gearbox) Gears() int {
	return len(g.ratios)
}

// Gear returns the selected gear.
func (g *Gearbox) Gear() int {
	return *g.gear
}

// Neutral reports whether no drive is engaged.
func (g *Gearbox) Neutral() bool {
	return g.Ratio(*g.gear) == 0
}

// Shift selects a gear.
func (g *Gearbox) Shift(gear int) error {
	if gear < 0 || gear >= len(g.ratios) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidGear, gear, len(g.ratios))
	}
	*g.gear = gear
	return nil
}

// Ratio returns the ratio of gear, 0 for neutral or unknown gears.
func (g *Gearbox) Ratio(gear int) float64 {
	if gear <= 0 || gear >= len(g.ratios) {
		return 0
	}
	return g.ratios[gear]
}

// CurrentRatio returns the ratio of the selected gear.
func (g *Gearbox) CurrentRatio() float64 {
	return g.Ratio(*g.gear)
}

// WheelRPMFromSpeed converts ground speed to wheel RPM.
func WheelRPMFromSpeed(speed, wheelRadius float64) float64 {
	return RadiansToRPM(speed / wheelRadius)
}

// SpeedFromWheelRPM converts wheel RPM to ground speed.
func SpeedFromWheelRPM(rpm, wheelRadius float64) float64 {
	return RPMToRadians(rpm) * wheelRadius
}

// TargetRPM is the engine RPM implied by speed in the selected gear,
// never below minRPM and not capped by the rev limit. It's 0 in neutral.
func (g *Gearbox) TargetRPM(speed, wheelRadius, minRPM float64) float64 {
	ratio := math.Abs(g.CurrentRatio())
	if ratio == 0 {
		return 0
	}
	rpm := WheelRPMFromSpeed(math.Abs(speed), wheelRadius) * ratio
	return math.Max(minRPM, rpm)
}
