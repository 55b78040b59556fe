package joystick

import (
	fx "github.com/robotalks/carsim/pkg/framework"
	"github.com/robotalks/carsim/pkg/joystick/device"
	l1msgs "github.com/robotalks/carsim/pkg/l1/msgs"
	"github.com/robotalks/carsim/pkg/sim/physics/vehicle"
)

// Mapping assigns axes and buttons to driver input. Axis values are
// in [-AxisMax, AxisMax], negative is left or up.
type Mapping struct {
	SteerAxes []int
	DriveAxes []int
	// Deadzone is the absolute axis value below which an axis is centered.
	Deadzone int

	BoostButton     int
	ShiftDownButton int
	ShiftUpButton   int
	NeutralButton   int
	ResetButton     int
	IgnitionButton  int
}

// DefaultMapping fits common XInput pads: left stick and D-pad drive,
// A boosts, bumpers shift, X selects neutral, Back resets and Start
// toggles the engine.
var DefaultMapping = Mapping{
	SteerAxes:       []int{0, 6},
	DriveAxes:       []int{1, 7},
	Deadzone:        device.AxisMax / 4,
	BoostButton:     0,
	NeutralButton:   2,
	ShiftDownButton: 4,
	ShiftUpButton:   5,
	ResetButton:     6,
	IgnitionButton:  7,
}

func containsAxis(axes []int, index int) bool {
	for _, n := range axes {
		if n == index {
			return true
		}
	}
	return false
}

// Input translates joystick events into vehicle commands. Drive input
// is sent only when it changes.
type Input struct {
	Mapping Mapping

	drive    l1msgs.VehicleDrive
	engineOn bool
}

// NewInput creates an Input with the mapping.
func NewInput(m Mapping) *Input {
	return &Input{Mapping: m}
}

func (in *Input) axis(value int) int {
	switch {
	case value <= -in.Mapping.Deadzone:
		return -1
	case value >= in.Mapping.Deadzone:
		return 1
	}
	return 0
}

// Handle returns the commands caused by ev.
func (in *Input) Handle(ev device.Event) []fx.Message {
	switch e := ev.(type) {
	case device.AxisEvent:
		return in.handleAxis(e)
	case device.ButtonEvent:
		// initial states of buttons are not actions.
		if e.IsInit() {
			return nil
		}
		return in.handleButton(e)
	}
	return nil
}

func (in *Input) handleAxis(ev device.AxisEvent) []fx.Message {
	drive := in.drive
	dir := in.axis(ev.Value())
	switch {
	case containsAxis(in.Mapping.SteerAxes, ev.Index()):
		// stick left steers left.
		drive.Steer = int32(-dir)
	case containsAxis(in.Mapping.DriveAxes, ev.Index()):
		drive.Throttle, drive.Brake = dir < 0, dir > 0
	default:
		return nil
	}
	return in.update(drive)
}

func (in *Input) handleButton(ev device.ButtonEvent) []fx.Message {
	index, pressed := ev.Index(), ev.Pressed()
	if index == in.Mapping.BoostButton {
		drive := in.drive
		drive.Boost = pressed
		return in.update(drive)
	}
	if !pressed {
		return nil
	}
	switch index {
	case in.Mapping.ShiftUpButton:
		return []fx.Message{&l1msgs.VehicleShift{Gear: 1, Relative: true}}
	case in.Mapping.ShiftDownButton:
		return []fx.Message{&l1msgs.VehicleShift{Gear: -1, Relative: true}}
	case in.Mapping.NeutralButton:
		return []fx.Message{&l1msgs.VehicleShift{Gear: 0}}
	case in.Mapping.IgnitionButton:
		in.engineOn = !in.engineOn
		return []fx.Message{&l1msgs.VehicleIgnition{On: in.engineOn}}
	case in.Mapping.ResetButton:
		in.drive, in.engineOn = l1msgs.VehicleDrive{}, false
		return []fx.Message{&l1msgs.VehicleReset{}}
	}
	return nil
}

func (in *Input) update(drive l1msgs.VehicleDrive) []fx.Message {
	if drive == in.drive {
		return nil
	}
	in.drive = drive
	msg := drive
	return []fx.Message{&msg}
}

// Release returns the command releasing all held input.
func (in *Input) Release() []fx.Message {
	return in.update(l1msgs.VehicleDrive{})
}

// SyncEngine aligns the ignition toggle with a status event.
func (in *Input) SyncEngine(status *l1msgs.VehicleStatus) {
	in.engineOn = status.Engine != vehicle.EngineStopped.String()
}
