package sim

import (
	"math"

	fx "github.com/robotalks/carsim/pkg/framework"
)

// Size2D defines the rectangular size in 2D.
type Size2D struct {
	CX, CY float64
}

// Pos2D defines the position in 2D.
type Pos2D struct {
	X, Y float64
}

// Vec2D is a 2D vector, e.g. a velocity or a force.
type Vec2D struct {
	X, Y float64
}

// Rect defines a rectangle in 2D.
type Rect struct {
	Pos2D
	Size2D
}

// Pose2D defines the pose in 2D.
type Pose2D struct {
	Pos2D
	Orientation Angle
}

// Angle is the common representation of angle,
// supporting multiple units.
type Angle float64

// Rectangular object provides an rectangluar outline dimension.
type Rectangular interface {
	OutlineRect() Rect
}

// Positionable2D object maintains a 2D position.
type Positionable2D interface {
	Position2D() Pose2D
}

// Object represents an object in the world.
type Object interface {
	fx.Named
}

// ObjectsChangeListener listens for object changes.
type ObjectsChangeListener interface {
	ObjectsChanged(fx.ControlContext, ...Object)
	ObjectsRemoved(fx.ControlContext, ...Object)
}

// ObjectsChangeSubscriber subscribes objects change notifications.
type ObjectsChangeSubscriber interface {
	SubscribeObjectsChange(ObjectsChangeListener)
}

// Add is a helper to add Pos2D.
func (p Pos2D) Add(p1 Pos2D) Pos2D {
	return Pos2D{X: p.X + p1.X, Y: p.Y + p1.Y}
}

// OffsetBy performs Add in-place.
func (p *Pos2D) OffsetBy(p1 Pos2D) *Pos2D {
	p.X += p1.X
	p.Y += p1.Y
	return p
}

// Move offsets the position by v scaled by dt.
func (p *Pos2D) Move(v Vec2D, dt float64) *Pos2D {
	p.X += v.X * dt
	p.Y += v.Y * dt
	return p
}

// DistanceTo calculates the euclidean distance.
func (p Pos2D) DistanceTo(p1 Pos2D) float64 {
	return math.Hypot(p1.X-p.X, p1.Y-p.Y)
}

// Add adds two vectors.
func (v Vec2D) Add(v1 Vec2D) Vec2D {
	return Vec2D{X: v.X + v1.X, Y: v.Y + v1.Y}
}

// Scale multiplies the vector by s.
func (v Vec2D) Scale(s float64) Vec2D {
	return Vec2D{X: v.X * s, Y: v.Y * s}
}

// Len is the magnitude of the vector.
func (v Vec2D) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsFinite reports whether both components are neither NaN nor Inf.
func (v Vec2D) IsFinite() bool {
	return IsFinite(v.X) && IsFinite(v.Y)
}

// ToBody rotates a world-frame vector into the frame rotated by a.
func (v Vec2D) ToBody(a Angle) Vec2D {
	c, s := a.Cos(), a.Sin()
	return Vec2D{X: v.X*c + v.Y*s, Y: -v.X*s + v.Y*c}
}

// ToWorld rotates a vector from the frame rotated by a into world frame.
func (v Vec2D) ToWorld(a Angle) Vec2D {
	c, s := a.Cos(), a.Sin()
	return Vec2D{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

// IsFinite reports whether f is neither NaN nor Inf.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
