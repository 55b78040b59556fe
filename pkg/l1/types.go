package l1

import (
	"context"

	fx "github.com/robotalks/carsim/pkg/framework"
)

// Registrar publishes an endpoint to a registry so that drivers
// can find it. Received commands are posted to the frame loop as
// CommandMsg.
type Registrar interface {
	// SendEvent sends an event to connected drivers.
	SendEvent(context.Context, fx.Message) error
}

// Command is a received command waiting for a reply.
type Command interface {
	Msg() fx.Message
	Done(fx.Message) error
}

// CommandMsg wraps a Command as a Message.
type CommandMsg struct {
	Command Command
}

// NewMessage implements Message.
func (m *CommandMsg) NewMessage() fx.Message { return &CommandMsg{} }

// Ref identifies an endpoint in the registry, a simulated vehicle or
// a driver device.
type Ref struct {
	// Kind is the endpoint kind, e.g. "car" or "joystick".
	Kind string
	// ID is unique among endpoints of the same kind.
	ID string
}

// Name is the registry name.
func (r Ref) Name() string {
	return r.Kind + "/" + r.ID
}

// IsValid indicates both parts are present.
func (r Ref) IsValid() bool {
	return r.Kind != "" && r.ID != ""
}

// Meta is published alongside a registered endpoint.
type Meta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// Info describes a discovered endpoint.
type Info struct {
	Ref  Ref
	Meta Meta
}

// Connector is used by drivers to reach a registered endpoint.
type Connector interface {
	// Discover enumerates registered endpoints.
	Discover(context.Context) ([]Info, error)
	// Connect connects to the specified endpoint.
	Connect(context.Context, Ref) (Conn, error)
}

// Conn is the driver side connection to an endpoint.
type Conn interface {
	// DoCommand sends a command and returns the pending reply.
	DoCommand(fx.Message) CommandFuture
}

// Result is the reply of a command.
type Result struct {
	Msg fx.Message
	Err error
}

// CommandFuture is the pending reply of a sent command.
type CommandFuture interface {
	ResultChan() <-chan Result
}

// Wait blocks until the reply arrives or ctx is done.
func Wait(ctx context.Context, f CommandFuture) (fx.Message, error) {
	select {
	case r := <-f.ResultChan():
		return r.Msg, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
