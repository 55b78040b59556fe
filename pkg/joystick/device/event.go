package device

import (
	"encoding/binary"
	"fmt"
)

// EventSize is the size of a js_event read from the device.
const EventSize = 8

const (
	evINIT uint8 = 0x80
	evBTN  uint8 = 0x01
	evAXIS uint8 = 0x02
)

// AxisMax is the absolute value of a fully deflected axis.
const AxisMax = 32767

// Event is an input change. Init events report the state at open.
type Event interface {
	IsInit() bool
	// Index is the axis or button number.
	Index() int
}

// AxisEvent carries the axis position in [-AxisMax, AxisMax].
type AxisEvent interface {
	Event
	Value() int
}

// ButtonEvent carries the button state.
type ButtonEvent interface {
	Event
	Pressed() bool
}

type event struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

func (e *event) IsInit() bool {
	return e.Type&evINIT != 0
}

func (e *event) Index() int {
	return int(e.Number)
}

type axisEvent struct {
	event
}

func (e *axisEvent) Value() int {
	return int(e.event.Value)
}

type buttonEvent struct {
	event
}

func (e *buttonEvent) Pressed() bool {
	return e.Value != 0
}

// ParseEvent decodes a js_event.
func ParseEvent(buf []byte) (Event, error) {
	if len(buf) < EventSize {
		return nil, fmt.Errorf("short event: %d bytes", len(buf))
	}
	ev := event{
		Time:   binary.LittleEndian.Uint32(buf[0:4]),
		Value:  int16(binary.LittleEndian.Uint16(buf[4:6])),
		Type:   buf[6],
		Number: buf[7],
	}
	switch ev.Type &^ evINIT {
	case evBTN:
		return &buttonEvent{event: ev}, nil
	case evAXIS:
		return &axisEvent{event: ev}, nil
	}
	return &ev, nil
}

// NewAxisEvent creates an AxisEvent, used to inject input.
func NewAxisEvent(index, value int) AxisEvent {
	return &axisEvent{event: event{Type: evAXIS, Number: uint8(index), Value: int16(value)}}
}

// NewButtonEvent creates a ButtonEvent, used to inject input.
func NewButtonEvent(index int, pressed bool) ButtonEvent {
	ev := &buttonEvent{event: event{Type: evBTN, Number: uint8(index)}}
	if pressed {
		ev.event.Value = 1
	}
	return ev
}
