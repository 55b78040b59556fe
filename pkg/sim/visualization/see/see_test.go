package see

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/carsim/pkg/sim"
	"github.com/robotalks/carsim/pkg/sim/physics/vehicle"
)

type testCar struct {
	name     string
	snapshot vehicle.Snapshot
}

func (c *testCar) Name() string { return c.name }

func (c *testCar) OutlineRect() sim.Rect {
	return sim.Rect{Pos2D: sim.Pos2D{X: -2, Y: -1}, Size2D: sim.Size2D{CX: 4, CY: 2}}
}

func (c *testCar) Position2D() sim.Pose2D { return c.snapshot.Pose() }

func (c *testCar) Snapshot() vehicle.Snapshot { return c.snapshot }

func TestCarMapper(t *testing.T) {
	car := &testCar{name: "car/a", snapshot: vehicle.Snapshot{
		Position: sim.Pos2D{X: 3, Y: 4},
		Speed:    5,
		RPM:      2500,
		Gear:     2,
	}}
	objs := CarMapper.MapObject(car)
	require.Len(t, objs, 1)
	obj := objs[0]
	assert.Equal(t, "car.a", obj[PropID])
	assert.Equal(t, TypeCar, obj[PropType])
	assert.Equal(t, &Pos{X: 3, Y: 4}, obj[PropOrigin])
	assert.Equal(t, &Rect{X: -2, Y: -1, W: 4, H: 2}, obj[PropRect])
	assert.Equal(t, 5.0, obj[PropSpeed])
	assert.Equal(t, 2, obj[PropGear])
	assert.Equal(t, "stopped", obj[PropEngine])
	assert.Equal(t, []string{"car", "engine-stopped"}, obj[PropStyles])

	// heading +Y while moving along +X slides to the right.
	car.snapshot.Heading = math.Pi / 2
	car.snapshot.Velocity = sim.Vec2D{X: 2}
	obj = CarMapper.MapObject(car)[0]
	assert.InDelta(t, -2.0, obj[PropSlip], 1e-9)
	assert.Contains(t, obj[PropStyles], "sliding")
}

func TestAdapterReport(t *testing.T) {
	var out bytes.Buffer
	conf := NewConfig()
	conf.Output = &out
	a := conf.NewAdapter()

	decode := func() []Message {
		var msgs []Message
		require.NoError(t, json.NewDecoder(&out).Decode(&msgs))
		return msgs
	}

	a.ObjectsChanged(nil, &testCar{name: "car/b"}, &testCar{name: "car/a"})
	require.NoError(t, a.ReportChanges(nil))
	msgs := decode()
	require.Len(t, msgs, 7)
	assert.Equal(t, ActionReset, msgs[0].Action)
	assert.Equal(t, "car.a", msgs[5].Object[PropID])
	assert.Equal(t, "car.b", msgs[6].Object[PropID])

	require.NoError(t, a.ReportChanges(nil))
	assert.Zero(t, out.Len(), "nothing changed")

	a.ObjectsChanged(nil, &testCar{name: "car/a"})
	a.ObjectsRemoved(nil, &testCar{name: "car/a"}, &testCar{name: "car/b"})
	require.NoError(t, a.ReportChanges(nil))
	msgs = decode()
	require.Len(t, msgs, 2)
	assert.Equal(t, Message{Action: ActionRemove, RemoveID: "car.a"}, msgs[0])
	assert.Equal(t, "car.b", msgs[1].RemoveID)
}
