package physics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/carsim/pkg/sim/physics/vehicle"
)

func TestAdvance(t *testing.T) {
	v, err := vehicle.NewIntegrator(vehicle.DefaultParams())
	require.NoError(t, err)
	var _ Vehicle = v

	s := Advance(Now(context.Background()), v, vehicle.Command{Steer: vehicle.SteerLeft})
	require.Equal(t, vehicle.Snapshot{}, s)

	frame := Fixed(context.Background(), time.Unix(0, 0), 20*time.Millisecond)
	for n := 0; n < 5; n++ {
		s = Advance(frame.Next(), v, vehicle.Command{Steer: vehicle.SteerLeft})
	}
	require.Equal(t, 100*time.Millisecond, s.Time)
	require.Greater(t, s.Steering, 0.0)
	require.Equal(t, time.Unix(0, 0).Add(100*time.Millisecond), frame.Time())
}
