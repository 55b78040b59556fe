package see

import (
	"math"
	"strings"

	"github.com/robotalks/carsim/pkg/sim"
	"github.com/robotalks/carsim/pkg/sim/physics/vehicle"
)

// VisibleObject is an object which can be visualized.
type VisibleObject interface {
	sim.Object
	sim.Rectangular
	sim.Positionable2D
}

// SnapshotObject is a visible object backed by a simulated vehicle.
type SnapshotObject interface {
	VisibleObject
	Snapshot() vehicle.Snapshot
}

// Object is the data model used to represents an object.
type Object map[string]interface{}

// Rect is object rect area.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Pos is a position.
type Pos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ObjectMapper maps VisibleObject into Object data model.
type ObjectMapper interface {
	MapObject(VisibleObject) []Object
}

// MapObjectFunc is the func form of ObjectMapper.
type MapObjectFunc func(VisibleObject) []Object

// MapObject implements ObjectMapper.
func (f MapObjectFunc) MapObject(obj VisibleObject) []Object {
	return f(obj)
}

// Message is the message for see.
type Message struct {
	Action   string `json:"action"`
	Object   Object `json:"object,omitempty"`
	RemoveID string `json:"id,omitempty"`
}

// Actions
const (
	ActionReset  = "reset"
	ActionObject = "object"
	ActionRemove = "remove"
)

// Properties
const (
	PropID     = "id"
	PropType   = "type"
	PropRect   = "rect"
	PropOrigin = "origin"
	PropRadius = "radius"
	PropRotate = "rotate"
	PropStyle  = "style"
	PropStyles = "styles"
	PropSpeed  = "speed"
	PropRPM    = "rpm"
	PropGear   = "gear"
	PropEngine = "engine"
	PropSlip   = "slip"
)

// SlidingSpeed is the lateral speed (m/s) above which a car is styled
// as sliding.
const SlidingSpeed = 0.5

// Object types
const (
	TypeCar    = "car"
	TypeCorner = "corner"
)

// ObjectID converts object name to ID.
func ObjectID(name string) string {
	return strings.Replace(name, "/", ".", -1)
}

// NewObject creates Object.
func NewObject(typ, id string) Object {
	o := make(Object)
	o[PropID] = id
	o[PropType] = typ
	return o
}

// ObjectFrom constructs an object from VisibleObject.
func ObjectFrom(typ string, vo VisibleObject) Object {
	rc, po := vo.OutlineRect(), vo.Position2D()
	return NewObject(typ, ObjectID(vo.Name())).
		At(po.X, po.Y).
		Radius(math.Hypot(rc.CX, rc.CY)/2).
		Rotate(po.Orientation.Degrees())
}

// CarMapper maps vehicles to car objects with the outline relative to
// the origin and the engine gauges as properties. Styles are "car",
// "engine-<status>" and "sliding".
var CarMapper = MapObjectFunc(func(vo VisibleObject) []Object {
	rc := vo.OutlineRect()
	obj := ObjectFrom(TypeCar, vo).Rc(rc.X, rc.Y, rc.CX, rc.CY)
	styles := []string{TypeCar}
	if so, ok := vo.(SnapshotObject); ok {
		s := so.Snapshot()
		slip := s.Velocity.ToBody(sim.Angle(s.Heading)).Y
		obj.With(PropSpeed, s.Speed).
			With(PropRPM, s.RPM).
			With(PropGear, s.Gear).
			With(PropEngine, s.EngineStatus.String()).
			With(PropSlip, slip)
		styles = append(styles, "engine-"+s.EngineStatus.String())
		if math.Abs(slip) > SlidingSpeed {
			styles = append(styles, "sliding")
		}
	}
	return []Object{obj.With(PropStyles, styles)}
})

// Rc sets rect.
func (o Object) Rc(x, y, w, h float64) Object {
	o[PropRect] = &Rect{X: x, Y: y, W: w, H: h}
	return o
}

// At sets origin.
func (o Object) At(x, y float64) Object {
	o[PropOrigin] = &Pos{X: x, Y: y}
	return o
}

// Radius sets radius.
func (o Object) Radius(r float64) Object {
	o[PropRadius] = r
	return o
}

// Rotate sets rotate.
func (o Object) Rotate(deg float64) Object {
	o[PropRotate] = deg
	return o
}

// With sets a custom property.
func (o Object) With(key string, val interface{}) Object {
	o[key] = val
	return o
}
