package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Frame is the length-prefixed envelope spec.md §6 describes for UDP/TCP
// transport: a 4-byte big-endian body length, a 1-byte message type, then
// the body. pkg/server's HTTP transport does not need this framing (HTTP
// already length-delimits bodies), but it is kept as the literal
// implementation of the external wire format for anything that talks
// FastPay over a raw datagram or stream socket.
type Frame struct {
	Type MessageType
	Body []byte
}

// WriteFrame writes f to w in the spec's length-prefixed layout.
func WriteFrame(w io.Writer, f Frame) error {
	var header [5]byte
	binary.BigEndian.PutUint32(header[0:4], uint32(len(f.Body)))
	header[4] = byte(f.Type)
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(f.Body)
	return err
}

// ReadFrame reads one Frame from r.
func ReadFrame(r io.Reader) (Frame, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Frame{}, err
	}
	length := binary.BigEndian.Uint32(header[0:4])
	if length > 64<<20 {
		return Frame{}, fmt.Errorf("frame body too large: %d bytes", length)
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return Frame{}, err
	}
	return Frame{Type: MessageType(header[4]), Body: body}, nil
}
