package comm_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/carsim/pkg/framework"
	"github.com/robotalks/carsim/pkg/l1"
	"github.com/robotalks/carsim/pkg/l1/comm"
	"github.com/robotalks/carsim/pkg/l1/comm/stream"
	"github.com/robotalks/carsim/pkg/l1/msgs"
)

func waitResult(t *testing.T, f l1.CommandFuture) l1.Result {
	select {
	case res := <-f.ResultChan():
		return res
	case <-time.After(3 * time.Second):
		require.FailNow(t, "command timeout")
	}
	return l1.Result{}
}

func TestRegistrarAndConn(t *testing.T) {
	vehicleEnd, driverEnd := net.Pipe()
	ctx, cancel := context.WithCancel(context.Background())

	reg := comm.NewRegistrar(stream.New(vehicleEnd))
	vehicleLoop := fx.NewLoop().WithFrameRate(200)
	vehicleLoop.Add(reg, &comm.UnsupportedCommands{})
	vehicleLoop.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
			if cmd, ok := mctx.CurrentMessage().(*l1.CommandMsg); ok {
				if _, ok := cmd.Command.Msg().(*msgs.VehicleCapsQuery); ok {
					mctx.MessageTaken()
					cmd.Command.Done(&msgs.VehicleCaps{Gears: 6, TireModel: "linear"})
				}
			}
		}))
		return nil
	}))

	conn := comm.NewConn(stream.New(driverEnd))
	events := make(chan *msgs.VehicleStatus, 4)
	driverLoop := fx.NewLoop().WithFrameRate(200)
	driverLoop.Add(conn)
	driverLoop.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
			if status, ok := mctx.CurrentMessage().(*msgs.VehicleStatus); ok {
				mctx.MessageTaken()
				events <- status
			}
		}))
		return nil
	}))

	var wg sync.WaitGroup
	for _, loop := range []*fx.Loop{vehicleLoop, driverLoop} {
		wg.Add(1)
		go func(l *fx.Loop) {
			defer wg.Done()
			l.Run(ctx)
		}(loop)
	}
	defer func() {
		cancel()
		wg.Wait()
	}()

	res := waitResult(t, conn.DoCommand(&msgs.VehicleCapsQuery{}))
	require.NoError(t, res.Err)
	require.Equal(t, &msgs.VehicleCaps{Gears: 6, TireModel: "linear"}, res.Msg)

	res = waitResult(t, conn.DoCommand(&msgs.VehicleReset{}))
	var cmdErr *msgs.CommandErr
	require.ErrorAs(t, res.Err, &cmdErr)
	require.Equal(t, msgs.ErrUnsupportedCommand.Error(), cmdErr.Message)
	require.Zero(t, conn.Pending())

	require.NoError(t, reg.SendEvent(ctx, &msgs.VehicleStatus{Speed: 3, Gear: 1}))
	select {
	case status := <-events:
		require.Equal(t, 3.0, status.Speed)
		require.EqualValues(t, 1, status.Gear)
	case <-time.After(3 * time.Second):
		require.FailNow(t, "event not received")
	}
}

func TestConnRejectsNonCommand(t *testing.T) {
	_, driverEnd := net.Pipe()
	conn := comm.NewConn(stream.New(driverEnd))
	res := waitResult(t, conn.DoCommand(&msgs.VehicleStatus{}))
	require.Error(t, res.Err)
	require.Zero(t, conn.Pending())
}
