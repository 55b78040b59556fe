package msgs

import (
	"errors"

	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/carsim/pkg/framework"
)

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
}

// NewCommandOK creates a CommandOK.
func NewCommandOK() *CommandOK {
	return &CommandOK{}
}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandOK) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandOK) Reset() { *m = CommandOK{} }

// String implements proto.Message.
func (m *CommandOK) String() string { return proto.CompactTextString(m) }

// CommandErr is the generic message representing command error.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return NewCommandErrFromMsg(err.Error())
}

// NewCommandErrFromMsg creates a CommandErr.
func NewCommandErrFromMsg(message string) *CommandErr {
	return &CommandErr{Message: message}
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandErr) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandErr) Reset() { *m = CommandErr{} }

// String implements proto.Message.
func (m *CommandErr) String() string { return proto.CompactTextString(m) }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// VehicleCapsQuery command.
type VehicleCapsQuery struct {
}

// NewMessage implements Message.
func (m *VehicleCapsQuery) NewMessage() fx.Message { return &VehicleCapsQuery{} }

// TypeID implements SerializableMessage.
func (m *VehicleCapsQuery) TypeID() uint32 { return VehicleCapsQueryTypeID }

// Serializable implements SerializableMessage.
func (m *VehicleCapsQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *VehicleCapsQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *VehicleCapsQuery) Reset() { *m = VehicleCapsQuery{} }

// String implements proto.Message.
func (m *VehicleCapsQuery) String() string { return proto.CompactTextString(m) }

// VehicleCaps response.
type VehicleCaps struct {
	Gears       uint32  `protobuf:"varint,1,opt,name=gears,proto3" json:"gears,omitempty"`
	IdleRpm     float32 `protobuf:"fixed32,2,opt,name=idle_rpm,json=idleRpm,proto3" json:"idle_rpm,omitempty"`
	MaxRpm      float32 `protobuf:"fixed32,3,opt,name=max_rpm,json=maxRpm,proto3" json:"max_rpm,omitempty"`
	SteerMax    float32 `protobuf:"fixed32,4,opt,name=steer_max,json=steerMax,proto3" json:"steer_max,omitempty"`
	WheelRadius float32 `protobuf:"fixed32,5,opt,name=wheel_radius,json=wheelRadius,proto3" json:"wheel_radius,omitempty"`
	TireModel   string  `protobuf:"bytes,6,opt,name=tire_model,json=tireModel,proto3" json:"tire_model,omitempty"`
	SubSteps    uint32  `protobuf:"varint,7,opt,name=sub_steps,json=subSteps,proto3" json:"sub_steps,omitempty"`
}

// NewMessage implements Message.
func (m *VehicleCaps) NewMessage() fx.Message { return &VehicleCaps{} }

// TypeID implements SerializableMessage.
func (m *VehicleCaps) TypeID() uint32 { return VehicleCapsTypeID }

// Serializable implements SerializableMessage.
func (m *VehicleCaps) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *VehicleCaps) ProtoMessage() {}

// Reset implements proto.Message.
func (m *VehicleCaps) Reset() { *m = VehicleCaps{} }

// String implements proto.Message.
func (m *VehicleCaps) String() string { return proto.CompactTextString(m) }

// VehicleDrive command sets the held driver input.
// Steer is -1 (right), 0 or 1 (left).
type VehicleDrive struct {
	Throttle bool  `protobuf:"varint,1,opt,name=throttle,proto3" json:"throttle,omitempty"`
	Brake    bool  `protobuf:"varint,2,opt,name=brake,proto3" json:"brake,omitempty"`
	Steer    int32 `protobuf:"zigzag32,3,opt,name=steer,proto3" json:"steer,omitempty"`
	Boost    bool  `protobuf:"varint,4,opt,name=boost,proto3" json:"boost,omitempty"`
}

// NewMessage implements Message.
func (m *VehicleDrive) NewMessage() fx.Message { return &VehicleDrive{} }

// TypeID implements SerializableMessage.
func (m *VehicleDrive) TypeID() uint32 { return VehicleDriveTypeID }

// Serializable implements SerializableMessage.
func (m *VehicleDrive) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *VehicleDrive) ProtoMessage() {}

// Reset implements proto.Message.
func (m *VehicleDrive) Reset() { *m = VehicleDrive{} }

// String implements proto.Message.
func (m *VehicleDrive) String() string { return proto.CompactTextString(m) }

// VehicleShift command selects a gear. When Relative is set,
// Gear is added to the current gear.
type VehicleShift struct {
	Gear     int32 `protobuf:"zigzag32,1,opt,name=gear,proto3" json:"gear,omitempty"`
	Relative bool  `protobuf:"varint,2,opt,name=relative,proto3" json:"relative,omitempty"`
}

// NewMessage implements Message.
func (m *VehicleShift) NewMessage() fx.Message { return &VehicleShift{} }

// TypeID implements SerializableMessage.
func (m *VehicleShift) TypeID() uint32 { return VehicleShiftTypeID }

// Serializable implements SerializableMessage.
func (m *VehicleShift) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *VehicleShift) ProtoMessage() {}

// Reset implements proto.Message.
func (m *VehicleShift) Reset() { *m = VehicleShift{} }

// String implements proto.Message.
func (m *VehicleShift) String() string { return proto.CompactTextString(m) }

// VehicleIgnition command starts or stops the engine.
type VehicleIgnition struct {
	On bool `protobuf:"varint,1,opt,name=on,proto3" json:"on,omitempty"`
}

// NewMessage implements Message.
func (m *VehicleIgnition) NewMessage() fx.Message { return &VehicleIgnition{} }

// TypeID implements SerializableMessage.
func (m *VehicleIgnition) TypeID() uint32 { return VehicleIgnitionTypeID }

// Serializable implements SerializableMessage.
func (m *VehicleIgnition) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *VehicleIgnition) ProtoMessage() {}

// Reset implements proto.Message.
func (m *VehicleIgnition) Reset() { *m = VehicleIgnition{} }

// String implements proto.Message.
func (m *VehicleIgnition) String() string { return proto.CompactTextString(m) }

// VehicleReset command puts the vehicle back to origin at rest.
type VehicleReset struct {
}

// NewMessage implements Message.
func (m *VehicleReset) NewMessage() fx.Message { return &VehicleReset{} }

// TypeID implements SerializableMessage.
func (m *VehicleReset) TypeID() uint32 { return VehicleResetTypeID }

// Serializable implements SerializableMessage.
func (m *VehicleReset) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *VehicleReset) ProtoMessage() {}

// Reset implements proto.Message.
func (m *VehicleReset) Reset() { *m = VehicleReset{} }

// String implements proto.Message.
func (m *VehicleReset) String() string { return proto.CompactTextString(m) }

// VehicleStatus is an Event message carrying the latest snapshot.
type VehicleStatus struct {
	TimeMs   int64   `protobuf:"varint,1,opt,name=time_ms,json=timeMs,proto3" json:"time_ms,omitempty"`
	X        float64 `protobuf:"fixed64,2,opt,name=x,proto3" json:"x,omitempty"`
	Y        float64 `protobuf:"fixed64,3,opt,name=y,proto3" json:"y,omitempty"`
	Heading  float64 `protobuf:"fixed64,4,opt,name=heading,proto3" json:"heading,omitempty"`
	Speed    float64 `protobuf:"fixed64,5,opt,name=speed,proto3" json:"speed,omitempty"`
	Rpm      float64 `protobuf:"fixed64,6,opt,name=rpm,proto3" json:"rpm,omitempty"`
	Gear     int32   `protobuf:"zigzag32,7,opt,name=gear,proto3" json:"gear,omitempty"`
	Steering float64 `protobuf:"fixed64,8,opt,name=steering,proto3" json:"steering,omitempty"`
	YawRate  float64 `protobuf:"fixed64,9,opt,name=yaw_rate,json=yawRate,proto3" json:"yaw_rate,omitempty"`
	Throttle float64 `protobuf:"fixed64,10,opt,name=throttle,proto3" json:"throttle,omitempty"`
	Engine   string  `protobuf:"bytes,11,opt,name=engine,proto3" json:"engine,omitempty"`
}

// NewMessage implements Message.
func (m *VehicleStatus) NewMessage() fx.Message { return &VehicleStatus{} }

// TypeID implements SerializableMessage.
func (m *VehicleStatus) TypeID() uint32 { return VehicleStatusEventTypeID }

// Serializable implements SerializableMessage.
func (m *VehicleStatus) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *VehicleStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *VehicleStatus) Reset() { *m = VehicleStatus{} }

// String implements proto.Message.
func (m *VehicleStatus) String() string { return proto.CompactTextString(m) }

// TypeID Groups
const (
	GroupCommand uint32 = 0x00000000
	GroupVehicle uint32 = 0x00030000
	GroupCustom  uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	CommandOKTypeID          uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID         uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	VehicleCapsQueryTypeID   uint32 = GroupVehicle | 0x0000
	VehicleCapsTypeID        uint32 = VehicleCapsQueryTypeID | TypeIDMaskReply
	VehicleDriveTypeID       uint32 = GroupVehicle | 0x0001
	VehicleShiftTypeID       uint32 = GroupVehicle | 0x0002
	VehicleIgnitionTypeID    uint32 = GroupVehicle | 0x0003
	VehicleResetTypeID       uint32 = GroupVehicle | 0x0004
	VehicleStatusEventTypeID uint32 = GroupVehicle | TypeIDKindEvent | 0x0000
)

var (
	// ErrUnknownCommand indicates the command is unknown.
	ErrUnknownCommand = errors.New("unknown command")
)
