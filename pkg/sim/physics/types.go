package physics

import (
	"context"
	"time"

	fx "github.com/robotalks/carsim/pkg/framework"
	"github.com/robotalks/carsim/pkg/sim/physics/vehicle"
)

// Context provides the simulation context of a frame.
type Context interface {
	fx.TimeSource
	fx.FrameSource
	Context() context.Context
}

// Vehicle is a simulated vehicle advanced by frame deltas.
type Vehicle interface {
	Params() vehicle.Params
	Tick(time.Duration, vehicle.Command) vehicle.Snapshot
	Snapshot() vehicle.Snapshot
	Reset()
}

// Advance ticks v by the frame delta of ctx. A frame without delta, the
// first one of a loop, doesn't advance time and returns the last snapshot.
func Advance(ctx Context, v Vehicle, cmd vehicle.Command) vehicle.Snapshot {
	dt := ctx.Delta()
	if dt <= 0 {
		return v.Snapshot()
	}
	return v.Tick(dt, cmd)
}
