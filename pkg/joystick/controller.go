package joystick

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/sony/gobreaker"

	fx "github.com/robotalks/carsim/pkg/framework"
	"github.com/robotalks/carsim/pkg/joystick/device"
	"github.com/robotalks/carsim/pkg/joystick/msgs"
	"github.com/robotalks/carsim/pkg/l1"
	connenv "github.com/robotalks/carsim/pkg/l1/env/connector"
	env "github.com/robotalks/carsim/pkg/l1/env/controller"
	l1msgs "github.com/robotalks/carsim/pkg/l1/msgs"
)

const (
	// DeviceRetryInterval is the delay before opening a device again.
	DeviceRetryInterval = time.Second
	// CommandTimeout limits the wait for a vehicle to reply.
	CommandTimeout = time.Second
	// MaxCommandFailures opens the breaker after so many consecutive
	// commands failed, input is dropped until BreakerTimeout passes.
	MaxCommandFailures = 3
	// BreakerTimeout is how long the breaker stays open.
	BreakerTimeout = 2 * time.Second
)

// Controller is an L2 controller which drives a vehicle endpoint with
// a joystick. It registers itself so the vehicle to drive can be
// selected remotely with JoystickConnect.
type Controller struct {
	Env         *env.Env
	DeviceIndex int
	Verbose     bool
	Mapping     Mapping

	conn        *connection
	eventCh     chan device.Event
	device      device.Device
	deviceTimer <-chan time.Time

	status        msgs.JoystickStatus
	statusChanged bool
}

// NewController creates a Controller.
func NewController(e *env.Env) *Controller {
	return &Controller{
		Env:           e,
		DeviceIndex:   defaultConfig.DeviceIndex,
		Verbose:       defaultConfig.Verbose,
		Mapping:       DefaultMapping,
		statusChanged: true,
	}
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(c)
	loop.AddController(fx.PrLvControl, c)
	loop.AddController(fx.PrLvPostProc, fx.ControlFunc(c.notifyStatusChange))
}

func (c *Controller) openDevice() (device.Device, error) {
	if c.DeviceIndex >= 0 {
		return device.Open(c.DeviceIndex)
	}
	glog.V(1).Info("detecting joystick")
	return device.DetectAndOpen(0)
}

// Run implements Runnable.
func (c *Controller) Run(ctx context.Context) error {
	defer func() {
		if c.device != nil {
			c.device.Close()
		}
	}()
	loopCtl := fx.LoopCtlFrom(ctx)
	c.deviceTimer = time.After(DeviceRetryInterval)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.deviceTimer:
			c.deviceTimer = nil
			js, err := c.openDevice()
			if err != nil || js == nil {
				if err != nil {
					glog.V(1).Infof("open joystick: %v", err)
				}
				c.deviceTimer = time.After(DeviceRetryInterval)
				continue
			}
			info := js.Info()
			glog.Infof("joystick opened: %s", info)
			c.device, c.eventCh = js, make(chan device.Event, 1)
			go c.pollJoystick(c.device, c.eventCh)
			loopCtl.PostMessage(&statusMsg{device: &msgs.JoystickDevice{
				Index:   uint32(info.Index),
				Name:    info.Name,
				Axes:    uint32(info.Axes),
				Buttons: uint32(info.Buttons),
			}})
		case ev, ok := <-c.eventCh:
			if ok {
				loopCtl.PostMessage(&eventMsg{event: ev})
			} else {
				loopCtl.PostMessage(&eventMsg{release: true})
				c.device.Close()
				c.device, c.eventCh = nil, nil
				c.deviceTimer = time.After(DeviceRetryInterval)
				loopCtl.PostMessage(&statusMsg{removed: true})
			}
		}
		loopCtl.TriggerNext()
	}
}

// Control implements Controller.
func (c *Controller) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		switch msg := mctx.CurrentMessage().(type) {
		case *l1.CommandMsg:
			var reply fx.Message
			switch m := msg.Command.Msg().(type) {
			case *msgs.JoystickStatusQuery:
				status := c.status
				reply = &msgs.JoystickStatusReply{Status: &status}
			case *msgs.JoystickConnect:
				reply = c.connect(cc, m)
			default:
				return
			}
			mctx.MessageTaken()
			if err := msg.Command.Done(reply); err != nil {
				glog.Warningf("reply %T: %v", msg.Command.Msg(), err)
			}
		case *eventMsg:
			mctx.MessageTaken()
			if conn := c.conn; conn != nil {
				conn.loop.PostMessage(msg)
				conn.loop.TriggerNext()
			} else if !msg.release {
				glog.V(2).Info("joystick event dropped: not connected")
			}
		case *statusMsg:
			mctx.MessageTaken()
			c.applyStatus(msg)
		}
	}))
	return nil
}

func (c *Controller) applyStatus(msg *statusMsg) {
	switch {
	case msg.removed:
		c.status.Device = nil
	case msg.device != nil:
		c.status.Device = msg.device
	}
	switch {
	case msg.disconnected:
		c.status.Connection = nil
	case msg.conn != nil:
		c.status.Connection = msg.conn
	}
	c.statusChanged = true
}

func (c *Controller) notifyStatusChange(cc fx.ControlContext) error {
	changed := c.statusChanged
	c.statusChanged = false
	if changed && c.Env != nil {
		status := c.status
		if err := c.Env.SendEvent(cc.Context(), &status); err != nil {
			glog.Warningf("joystick status: %v", err)
		}
	}
	return nil
}

func (c *Controller) connect(cc fx.ControlContext, msg *msgs.JoystickConnect) fx.Message {
	if c.conn != nil {
		c.conn.close()
		c.conn = nil
		cc.PostMessage(&statusMsg{disconnected: true})
	}
	if msg.IsDisconnect() {
		return l1msgs.NewCommandOK()
	}
	conf := connenv.NewConfig()
	if conf.RegistryURL = msg.RegistryURL; conf.RegistryURL == "" {
		if c.Env == nil || len(c.Env.RegistryURLs) == 0 {
			return l1msgs.NewCommandErrFromMsg("registry url required")
		}
		conf.RegistryURL = c.Env.RegistryURLs[0]
	}
	if conf.Ref.Kind, conf.Ref.ID = msg.Kind, msg.ID; !conf.Ref.IsValid() {
		return l1msgs.NewCommandErr(fmt.Errorf("invalid vehicle %q", conf.Ref.Name()))
	}
	connector, err := conf.NewConnector()
	if err != nil {
		return l1msgs.NewCommandErr(err)
	}
	ctx, cancel := context.WithCancel(cc.Context())
	conn, err := connector.Connect(ctx, conf.Ref)
	if err != nil {
		cancel()
		return l1msgs.NewCommandErr(err)
	}
	c.conn = newConnection(ctx, cancel, conn, c.Mapping)
	go c.conn.run()
	cc.PostMessage(&statusMsg{conn: &msgs.JoystickConnect{
		RegistryURL: conf.RegistryURL,
		Kind:        conf.Ref.Kind,
		ID:          conf.Ref.ID,
	}})
	return l1msgs.NewCommandOK()
}

func (c *Controller) pollJoystick(dev device.Device, ch chan<- device.Event) {
	defer close(ch)
	for {
		ev, err := dev.ReadEvent()
		if err != nil {
			glog.Warningf("joystick read: %v", err)
			return
		}
		if c.Verbose {
			var prefix string
			if ev.IsInit() {
				prefix = "[INIT] "
			}
			switch evt := ev.(type) {
			case device.AxisEvent:
				glog.Infof("%saxis %d: %d", prefix, evt.Index(), evt.Value())
			case device.ButtonEvent:
				glog.Infof("%sbutton %d: %v", prefix, evt.Index(), evt.Pressed())
			}
		}
		ch <- ev
	}
}

type statusMsg struct {
	device       *msgs.JoystickDevice
	removed      bool
	conn         *msgs.JoystickConnect
	disconnected bool
}

func (m *statusMsg) NewMessage() fx.Message { return &statusMsg{} }

type eventMsg struct {
	event   device.Event
	release bool
}

func (m *eventMsg) NewMessage() fx.Message { return &eventMsg{} }

type capsMsg struct {
	caps *l1msgs.VehicleCaps
}

func (m *capsMsg) NewMessage() fx.Message { return &capsMsg{} }

// connection drives one vehicle in its own loop.
type connection struct {
	ctx     context.Context
	cancel  func()
	conn    l1.Conn
	loop    *fx.Loop
	input   *Input
	caps    *l1msgs.VehicleCaps
	breaker *gobreaker.TwoStepCircuitBreaker
}

func newBreaker() *gobreaker.TwoStepCircuitBreaker {
	return gobreaker.NewTwoStepCircuitBreaker(gobreaker.Settings{
		Name:    "vehicle",
		Timeout: BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= MaxCommandFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			glog.Infof("%s breaker: %v -> %v", name, from, to)
		},
	})
}

func newConnection(ctx context.Context, cancel func(), conn l1.Conn, m Mapping) *connection {
	c := &connection{ctx: ctx, cancel: cancel, conn: conn, input: NewInput(m), breaker: newBreaker()}
	c.loop = fx.NewLoop()
	if adder, ok := conn.(fx.LoopAdder); ok {
		c.loop.Add(adder)
	}
	c.loop.AddRunnable(c)
	c.loop.AddController(fx.PrLvControl, c)
	return c
}

func (c *connection) run() {
	c.loop.Run(c.ctx)
}

func (c *connection) close() {
	c.cancel()
}

func (c *connection) send(cmds []fx.Message) {
	for _, cmd := range cmds {
		done, err := c.breaker.Allow()
		if err != nil {
			glog.V(2).Infof("%T dropped: %v", cmd, err)
			continue
		}
		f := c.conn.DoCommand(cmd)
		go c.wait(cmd, f, done)
	}
}

func (c *connection) wait(cmd fx.Message, f l1.CommandFuture, done func(bool)) {
	ctx, cancel := context.WithTimeout(c.ctx, CommandTimeout)
	defer cancel()
	_, err := l1.Wait(ctx, f)
	if c.ctx.Err() != nil {
		done(true)
		return
	}
	// a rejected command still proves the vehicle is reachable.
	var cmdErr *l1msgs.CommandErr
	done(err == nil || errors.As(err, &cmdErr))
	if err != nil {
		glog.Warningf("%T: %v", cmd, err)
	}
}

// Run implements Runnable to query VehicleCaps, which also tells the
// vehicle is reachable.
func (c *connection) Run(ctx context.Context) error {
	for {
		msg, err := l1.Wait(ctx, c.conn.DoCommand(&l1msgs.VehicleCapsQuery{}))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			glog.Warningf("VehicleCapsQuery: %v", err)
		} else if caps, ok := msg.(*l1msgs.VehicleCaps); ok {
			loopCtl := fx.LoopCtlFrom(ctx)
			loopCtl.PostMessage(&capsMsg{caps: caps})
			loopCtl.TriggerNext()
			return nil
		} else {
			glog.Warningf("VehicleCapsQuery: unexpected reply %T", msg)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(DeviceRetryInterval):
		}
	}
}

// Control implements Controller.
func (c *connection) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		switch msg := mctx.CurrentMessage().(type) {
		case *eventMsg:
			mctx.MessageTaken()
			switch {
			case msg.release:
				c.send(c.input.Release())
			case c.caps == nil:
				glog.V(2).Info("VehicleCaps not available")
			default:
				c.send(c.input.Handle(msg.event))
			}
		case *capsMsg:
			mctx.MessageTaken()
			glog.Infof("VehicleCaps: %s", msg.caps.String())
			c.caps = msg.caps
		case *l1msgs.VehicleStatus:
			mctx.MessageTaken()
			c.input.SyncEngine(msg)
		}
	}))
	return nil
}
