package scenario

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/carsim/pkg/sim/physics/vehicle"
)

const testScenario = `
name: launch
duration: 2s
frame_delta: 20ms
steps:
  - at: 1s
    gear: 1
    throttle: true
  - at: 0s
    ignition: "on"
`

func testVehicle(t *testing.T) *vehicle.Integrator {
	params := vehicle.DefaultParams()
	params.Integrator.SubSteps = 50
	v, err := vehicle.NewIntegrator(params)
	require.NoError(t, err)
	return v
}

func TestDecode(t *testing.T) {
	s, err := Decode(strings.NewReader(testScenario))
	require.NoError(t, err)
	assert.Equal(t, "launch", s.Name)
	assert.Equal(t, 2*time.Second, s.Duration)
	assert.Equal(t, 20*time.Millisecond, s.FrameDelta)
	assert.Equal(t, 100, s.Frames())
	require.Len(t, s.Steps, 2)
	assert.Equal(t, "on", s.Steps[0].Ignition)
	require.NotNil(t, s.Steps[1].Gear)
	assert.Equal(t, 1, *s.Steps[1].Gear)
}

func TestDecodeInvalid(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"no duration", "steps: []"},
		{"steer", "duration: 1s\nsteps:\n  - steer: 2"},
		{"gear", "duration: 1s\nsteps:\n  - gear: -1"},
		{"ignition", "duration: 1s\nsteps:\n  - ignition: maybe"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(c.doc))
			require.ErrorIs(t, err, ErrInvalidScenario)
		})
	}
}

func TestRun(t *testing.T) {
	s, err := Decode(strings.NewReader(testScenario))
	require.NoError(t, err)
	v := testVehicle(t)
	var snapshots []vehicle.Snapshot
	require.NoError(t, s.Run(context.Background(), v, func(snapshot vehicle.Snapshot) {
		snapshots = append(snapshots, snapshot)
	}))
	require.Len(t, snapshots, s.Frames())
	assert.Equal(t, 20*time.Millisecond, snapshots[0].Time)
	assert.Equal(t, 0, snapshots[len(snapshots)/2-1].Gear)
	last := snapshots[len(snapshots)-1]
	assert.Equal(t, 2*time.Second, last.Time)
	assert.Equal(t, 1, last.Gear)
	assert.Equal(t, vehicle.EngineRunning, last.EngineStatus)
	assert.Greater(t, last.Speed, 0.0)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Default().Run(ctx, testVehicle(t), nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunWithoutDecode(t *testing.T) {
	s := &Scenario{
		Duration: time.Second,
		Steps: []Step{
			{At: 500 * time.Millisecond, Gear: intPtr(1), Throttle: boolPtr(true)},
			{At: 0, Ignition: "on"},
		},
	}
	assert.Equal(t, 0, s.Frames())
	var frames int
	require.NoError(t, s.Run(context.Background(), testVehicle(t), func(vehicle.Snapshot) {
		frames++
	}))
	assert.Equal(t, DefaultFrameDelta, s.FrameDelta)
	assert.Equal(t, s.Frames(), frames)
	assert.InDelta(t, 60, frames, 1)
	assert.Equal(t, "on", s.Steps[0].Ignition)
}

func TestRunInvalid(t *testing.T) {
	cases := []struct {
		name     string
		scenario Scenario
	}{
		{"negative frame delta", Scenario{Duration: time.Second, FrameDelta: -time.Millisecond}},
		{"no duration", Scenario{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var frames int
			err := c.scenario.Run(context.Background(), testVehicle(t), func(vehicle.Snapshot) {
				frames++
			})
			require.ErrorIs(t, err, ErrInvalidScenario)
			assert.Zero(t, frames)
		})
	}
}

func TestDefault(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	v := testVehicle(t)
	var maxSpeed float64
	require.NoError(t, s.Run(context.Background(), v, func(snapshot vehicle.Snapshot) {
		if snapshot.Speed > maxSpeed {
			maxSpeed = snapshot.Speed
		}
	}))
	last := v.Snapshot()
	assert.Greater(t, maxSpeed, 1.0)
	assert.Equal(t, 0, last.Gear)
	assert.Less(t, last.Speed, maxSpeed)
}
