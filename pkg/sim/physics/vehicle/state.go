package vehicle

import (
	"time"

	"github.com/robotalks/carsim/pkg/sim"
)

// Ignition is the requested engine switch action.
type Ignition int

// Ignition actions.
const (
	IgnitionNone Ignition = iota
	IgnitionStart
	IgnitionStop
)

func (i Ignition) String() string {
	switch i {
	case IgnitionStart:
		return "start"
	case IgnitionStop:
		return "stop"
	}
	return "none"
}

// Steer directions.
const (
	SteerRight = -1
	SteerNone  = 0
	SteerLeft  = 1
)

// Command is the driver input sampled at the start of a tick.
type Command struct {
	Throttle bool
	Brake    bool
	// Steer is the held steering direction: SteerLeft, SteerRight or SteerNone.
	Steer int
	Boost bool
	// Gear requests a gear index when not nil.
	Gear     *int
	Ignition Ignition
}

// SelectGear returns a copy of the command requesting gear.
func (c Command) SelectGear(gear int) Command {
	c.Gear = &gear
	return c
}

// EngineState is the mutable state of the engine.
// Throttle is requested by the driver, Applied is what's left after
// idle enrichment and rev limiting.
type EngineState struct {
	RPM      float64
	Throttle float64
	Applied  float64
	Started  bool
	Starting bool
	Boost    bool
}

// Status derives the EngineStatus.
func (s EngineState) Status() EngineStatus {
	switch {
	case s.Starting:
		return EngineStarting
	case s.Started:
		return EngineRunning
	}
	return EngineStopped
}

// EngineStatus is the state of the engine state machine.
type EngineStatus int

// Engine status.
const (
	EngineStopped EngineStatus = iota
	EngineStarting
	EngineRunning
)

func (s EngineStatus) String() string {
	switch s {
	case EngineStarting:
		return "starting"
	case EngineRunning:
		return "running"
	}
	return "stopped"
}

// State is the mutable vehicle state.
type State struct {
	Position sim.Pos2D
	// Heading is wrapped into [0, 2π).
	Heading sim.Angle
	// Velocity is in world frame.
	Velocity sim.Vec2D
	YawRate  float64
	Steering float64
	Gear     int
	Engine   EngineState
}

// Snapshot is the immutable result of a tick, consumed by renderers.
type Snapshot struct {
	Time     time.Duration
	Position sim.Pos2D
	Heading  float64
	Speed    float64
	RPM      float64
	Gear     int

	Velocity     sim.Vec2D
	YawRate      float64
	Steering     float64
	// Throttle is the mean throttle applied during the tick.
	Throttle     float64
	EngineStatus EngineStatus
}

// Pose returns the 2D pose of the vehicle.
func (s *Snapshot) Pose() sim.Pose2D {
	return sim.Pose2D{Pos2D: s.Position, Orientation: sim.Angle(s.Heading)}
}

func snapshotOf(t time.Duration, s *State) Snapshot {
	return Snapshot{
		Time:         t,
		Position:     s.Position,
		Heading:      s.Heading.Radians(),
		Speed:        s.Velocity.Len(),
		RPM:          s.Engine.RPM,
		Gear:         s.Gear,
		Velocity:     s.Velocity,
		YawRate:      s.YawRate,
		Steering:     s.Steering,
		Throttle:     s.Engine.Applied,
		EngineStatus: s.Engine.Status(),
	}
}
