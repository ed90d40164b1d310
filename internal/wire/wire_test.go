package wire_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/luxfi/distprove/internal/wire"
)

func TestWriteReadFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	c := wire.NewCodec(&buf)

	frames := [][]byte{
		[]byte("hello"),
		{},
		bytes.Repeat([]byte{0xAB}, 4096),
	}
	for _, f := range frames {
		require.NoError(t, c.WriteFrame(f))
	}
	for _, want := range frames {
		got, err := c.ReadFrame()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	c := wire.NewCodec(&buf)
	_, err := c.ReadFrame()
	assert.Error(t, err)
}

func TestWriteFrameRejectsOversizedPayload(t *testing.T) {
	var buf bytes.Buffer
	c := wire.NewCodec(&buf)
	err := c.WriteFrame(make([]byte, wire.MaxFrameLength+1))
	assert.Error(t, err)
}
