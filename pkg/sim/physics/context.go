package physics

import (
	"context"
	"time"
)

// FrameContext is a Context detached from a loop, used to drive a
// Vehicle at a fixed rate (scenario runs, replays).
type FrameContext struct {
	now   time.Time
	delta time.Duration
	ctx   context.Context
}

// Now creates a FrameContext at current time without delta.
func Now(ctx context.Context) *FrameContext {
	return &FrameContext{now: time.Now(), ctx: ctx}
}

// Fixed creates a FrameContext starting at start which advances by
// delta on each Next.
func Fixed(ctx context.Context, start time.Time, delta time.Duration) *FrameContext {
	return &FrameContext{now: start, delta: delta, ctx: ctx}
}

// Next moves to the next frame.
func (c *FrameContext) Next() *FrameContext {
	c.now = c.now.Add(c.delta)
	return c
}

// Time implements TimeSource.
func (c *FrameContext) Time() time.Time {
	return c.now
}

// Delta implements FrameSource.
func (c *FrameContext) Delta() time.Duration {
	return c.delta
}

// Context implements Context.
func (c *FrameContext) Context() context.Context {
	return c.ctx
}
