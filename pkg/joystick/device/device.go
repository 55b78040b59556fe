// Package device reads joystick input from the operating system.
package device

import (
	"fmt"
	"io"
)

// Info describes an opened device.
type Info struct {
	Index   int
	Name    string
	Axes    int
	Buttons int
}

func (i Info) String() string {
	return fmt.Sprintf("js%d %q (%d axes, %d buttons)", i.Index, i.Name, i.Axes, i.Buttons)
}

// Device is an opened joystick.
type Device interface {
	io.Closer
	Info() Info
	// ReadEvent blocks until the next event.
	ReadEvent() (Event, error)
}
