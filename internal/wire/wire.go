// Package wire implements the length-delimited frame codec every
// multiplexed stream uses, the Go equivalent of mpc-net's
// tokio_util::codec::LengthDelimitedCodec (big-endian, u32 length field),
// wrapping a yamux.Stream instead of async_smux's MuxStream.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxFrameLength bounds a single frame to 64MiB, generous for the
// largest message this module ever sends (a king round's full n-share
// vector of field or group elements) while still bounding a malicious
// peer's ability to make a reader allocate unbounded memory from a
// forged length prefix.
const MaxFrameLength = 64 << 20

// Codec reads and writes length-delimited frames over rw: each frame is
// a 4-byte big-endian length prefix followed by that many payload bytes.
type Codec struct {
	rw io.ReadWriter
}

// NewCodec wraps rw (typically a yamux.Stream) in the frame codec.
func NewCodec(rw io.ReadWriter) *Codec {
	return &Codec{rw: rw}
}

// WriteFrame writes payload as one length-prefixed frame.
func (c *Codec) WriteFrame(payload []byte) error {
	if len(payload) > MaxFrameLength {
		return fmt.Errorf("wire: frame of %d bytes exceeds max %d", len(payload), MaxFrameLength)
	}
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := c.rw.Write(header[:]); err != nil {
		return fmt.Errorf("wire: writing frame header: %w", err)
	}
	if len(payload) == 0 {
		return nil
	}
	if _, err := c.rw.Write(payload); err != nil {
		return fmt.Errorf("wire: writing frame payload: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame and returns its payload.
func (c *Codec) ReadFrame() ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(c.rw, header[:]); err != nil {
		return nil, fmt.Errorf("wire: reading frame header: %w", err)
	}
	length := binary.BigEndian.Uint32(header[:])
	if length > MaxFrameLength {
		return nil, fmt.Errorf("wire: frame of %d bytes exceeds max %d", length, MaxFrameLength)
	}
	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(c.rw, payload); err != nil {
			return nil, fmt.Errorf("wire: reading frame payload: %w", err)
		}
	}
	return payload, nil
}
