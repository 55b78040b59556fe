// Package comm carries L1 messages between an endpoint and its drivers
// over packet transports (MQTT topics, websocket frames, byte streams).
package comm

// PacketReader receives one whole packet per call.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter sends pkt as one packet. It must be safe to call
// from multiple goroutines when used by a Pipe.
type PacketWriter interface {
	WritePacket(pkt []byte) error
}

// PacketReadWriter is a bidirectional packet transport.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}
