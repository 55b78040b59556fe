package msgs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/carsim/pkg/framework"
)

func TestTypedKinds(t *testing.T) {
	testCases := []struct {
		msg     SerializableMessage
		command bool
		reply   bool
	}{
		{msg: &VehicleDrive{}, command: true},
		{msg: &VehicleShift{}, command: true},
		{msg: &VehicleCapsQuery{}, command: true},
		{msg: &VehicleCaps{}, command: true, reply: true},
		{msg: NewCommandOK(), command: true, reply: true},
		{msg: NewCommandErrFromMsg("x"), command: true, reply: true},
		{msg: &VehicleStatus{}},
	}
	for _, tc := range testCases {
		typed, err := TypedFrom(tc.msg)
		require.NoError(t, err)
		assert.Equal(t, tc.command, typed.IsCommand(), "%T", tc.msg)
		assert.Equal(t, !tc.command, typed.IsEvent(), "%T", tc.msg)
		assert.Equal(t, tc.reply, typed.IsReply(), "%T", tc.msg)
	}
}

func TestTypedEncodeDecode(t *testing.T) {
	orig := &VehicleStatus{
		TimeMs:   1500,
		X:        12.5,
		Y:        -3.25,
		Heading:  1.5,
		Speed:    13.75,
		Rpm:      5123.5,
		Gear:     2,
		Steering: -0.2,
		Engine:   "running",
	}
	typed, err := TypedFrom(orig)
	require.NoError(t, err)
	typed.Sequence = 7
	data, err := typed.Encode()
	require.NoError(t, err)

	decoded, err := DecodeTyped(data)
	require.NoError(t, err)
	require.Equal(t, VehicleStatusEventTypeID, decoded.TypeId)
	require.EqualValues(t, 7, decoded.Sequence)
	msg, err := decoded.Decode()
	require.NoError(t, err)
	require.Equal(t, orig, msg)

	// negative values survive the zigzag encoding.
	shift, err := TypedFrom(&VehicleShift{Gear: -1, Relative: true})
	require.NoError(t, err)
	msg, err = shift.Decode()
	require.NoError(t, err)
	require.Equal(t, &VehicleShift{Gear: -1, Relative: true}, msg)
}

func TestTypedDecodeErrors(t *testing.T) {
	_, err := (&Typed{TypeId: GroupCustom | 0x12}).Decode()
	var unknown *ErrUnknownType
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, GroupCustom|0x12, unknown.TypeID)

	_, err = (&Typed{TypeId: VehicleDriveTypeID, Message: []byte{0xff}}).Decode()
	require.Error(t, err)

	_, err = TypedFrom(&notSerializable{})
	require.ErrorIs(t, err, ErrNotSerializable)
}

type notSerializable struct{}

func (m *notSerializable) NewMessage() fx.Message { return &notSerializable{} }
