package car

import (
	"fmt"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/carsim/pkg/framework"
	"github.com/robotalks/carsim/pkg/l1"
	"github.com/robotalks/carsim/pkg/l1/msgs"
	"github.com/robotalks/carsim/pkg/sim"
	"github.com/robotalks/carsim/pkg/sim/physics"
	"github.com/robotalks/carsim/pkg/sim/physics/vehicle"
)

// DefaultStatusEvery is the number of frames between status events.
const DefaultStatusEvery = 6

// Controller is the L1 controller of a simulated car. Driver input
// is held between commands and sampled once per frame.
type Controller struct {
	Ref       l1.Ref
	Registrar l1.Registrar
	Vehicle   physics.Vehicle
	Outline   sim.Rect
	// StatusEvery sends a VehicleStatus event every N frames, 0 disables.
	StatusEvery int

	sim.ObjectsChangeCaster

	input    msgs.VehicleDrive
	gear     *int
	ignition vehicle.Ignition

	lock     sync.RWMutex
	snapshot vehicle.Snapshot
	changes  int
	frames   int
}

// NewController creates the controller.
func NewController(ref l1.Ref, reg l1.Registrar, v physics.Vehicle) *Controller {
	return &Controller{
		Ref:         ref,
		Registrar:   reg,
		Vehicle:     v,
		StatusEvery: DefaultStatusEvery,
		snapshot:    v.Snapshot(),
		changes:     1, // send initial object change.
	}
}

// Name implements Named.
func (c *Controller) Name() string {
	return c.Ref.Name()
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvControl, fx.ControlFunc(c.HandleCommands))
	l.AddController(fx.PrLvSimulate, fx.ControlFunc(c.Simulate))
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(c.PostProc))
}

// OutlineRect implements Rectangular.
func (c *Controller) OutlineRect() sim.Rect {
	return c.Outline
}

// Position2D implements Positionable2D.
func (c *Controller) Position2D() sim.Pose2D {
	s := c.Snapshot()
	return s.Pose()
}

// Snapshot returns the snapshot of the last frame.
func (c *Controller) Snapshot() vehicle.Snapshot {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.snapshot
}

// Caps reports the capabilities of the vehicle.
func (c *Controller) Caps() *msgs.VehicleCaps {
	p := c.Vehicle.Params()
	return &msgs.VehicleCaps{
		Gears:       uint32(len(p.GearRatios) - 1),
		IdleRpm:     float32(p.Engine.IdleRPM),
		MaxRpm:      float32(p.Engine.MaxRPM),
		SteerMax:    float32(p.Steering.Max),
		WheelRadius: float32(p.WheelRadius),
		TireModel:   p.Tire.Model,
		SubSteps:    uint32(p.Integrator.SubSteps),
	}
}

// HandleCommands takes vehicle commands of this frame, both from
// registrars and posted directly to the loop.
func (c *Controller) HandleCommands(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		switch m := mctx.CurrentMessage().(type) {
		case *l1.CommandMsg:
			reply, ok := c.handle(m.Command.Msg())
			if !ok {
				return
			}
			mctx.MessageTaken()
			if err := m.Command.Done(reply); err != nil {
				glog.Warningf("%s reply %T: %v", c.Name(), m.Command.Msg(), err)
			}
		default:
			if reply, ok := c.handle(m); ok {
				mctx.MessageTaken()
				if err, ok := reply.(error); ok {
					glog.Warningf("%s %T: %v", c.Name(), m, err)
				}
			}
		}
	}))
	return nil
}

func (c *Controller) handle(msg fx.Message) (fx.Message, bool) {
	switch m := msg.(type) {
	case *msgs.VehicleCapsQuery:
		return c.Caps(), true
	case *msgs.VehicleDrive:
		c.input = *m
	case *msgs.VehicleShift:
		gear := int(m.Gear)
		if m.Relative {
			gear += c.targetGear()
		}
		if gears := len(c.Vehicle.Params().GearRatios); gear < 0 || gear >= gears {
			return msgs.NewCommandErr(fmt.Errorf("%w: %d", vehicle.ErrInvalidGear, gear)), true
		}
		c.gear = &gear
	case *msgs.VehicleIgnition:
		c.ignition = vehicle.IgnitionStop
		if m.On {
			c.ignition = vehicle.IgnitionStart
		}
	case *msgs.VehicleReset:
		c.reset()
	default:
		return nil, false
	}
	return msgs.NewCommandOK(), true
}

// targetGear is the pending gear if any, or the current one.
func (c *Controller) targetGear() int {
	if c.gear != nil {
		return *c.gear
	}
	return c.Snapshot().Gear
}

func (c *Controller) reset() {
	c.Vehicle.Reset()
	c.input = msgs.VehicleDrive{}
	c.gear, c.ignition = nil, vehicle.IgnitionNone
	c.lock.Lock()
	c.snapshot = c.Vehicle.Snapshot()
	c.lock.Unlock()
	c.changes++
}

// Command converts the held input and pending requests into a vehicle.Command.
func (c *Controller) Command() vehicle.Command {
	cmd := vehicle.Command{
		Throttle: c.input.Throttle,
		Brake:    c.input.Brake,
		Boost:    c.input.Boost,
		Gear:     c.gear,
		Ignition: c.ignition,
	}
	switch {
	case c.input.Steer > 0:
		cmd.Steer = vehicle.SteerLeft
	case c.input.Steer < 0:
		cmd.Steer = vehicle.SteerRight
	}
	return cmd
}

// Simulate advances the vehicle by the frame delta.
func (c *Controller) Simulate(cc fx.ControlContext) error {
	snapshot := physics.Advance(cc, c.Vehicle, c.Command())
	if cc.Delta() > 0 {
		// one-shot requests are consumed only by a real tick.
		c.gear, c.ignition = nil, vehicle.IgnitionNone
	}
	c.lock.Lock()
	if snapshot.Time != c.snapshot.Time {
		c.changes++
	}
	c.snapshot = snapshot
	c.lock.Unlock()
	return nil
}

// PostProc publishes changes and periodic status events.
func (c *Controller) PostProc(cc fx.ControlContext) error {
	c.NotifyChanges(cc)
	c.frames++
	if c.Registrar == nil || c.StatusEvery <= 0 || c.frames%c.StatusEvery != 0 {
		return nil
	}
	s := c.Snapshot()
	if err := c.Registrar.SendEvent(cc.Context(), StatusOf(&s)); err != nil {
		glog.Warningf("%s status: %v", c.Name(), err)
	}
	return nil
}

// NotifyChanges notifies object changes.
func (c *Controller) NotifyChanges(cc fx.ControlContext) error {
	c.lock.Lock()
	changes := c.changes
	c.changes = 0
	c.lock.Unlock()
	if changes > 0 {
		c.ObjectsChanged(cc, c)
	}
	return nil
}

// StatusOf converts a snapshot to the status event.
func StatusOf(s *vehicle.Snapshot) *msgs.VehicleStatus {
	return &msgs.VehicleStatus{
		TimeMs:   s.Time.Milliseconds(),
		X:        s.Position.X,
		Y:        s.Position.Y,
		Heading:  s.Heading,
		Speed:    s.Speed,
		Rpm:      s.RPM,
		Gear:     int32(s.Gear),
		Steering: s.Steering,
		YawRate:  s.YawRate,
		Throttle: s.Throttle,
		Engine:   s.EngineStatus.String(),
	}
}
