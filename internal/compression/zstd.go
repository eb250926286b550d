// Package compression wraps zstd for transparent blob compression in the
// storage backend. Disabled by default so the on-disk document format stays
// plain JSON.
package compression

import (
	"github.com/klauspost/compress/zstd"
)

// Payloads below this size skip compression; the frame overhead dominates.
const minPayload = 128

// Codec compresses bytes on the way to disk and restores them on the way
// back. A disabled codec passes bytes through unchanged.
type Codec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	enabled bool
}

// New creates a codec for the given level (1 fastest, 2 default, 3 best).
// Level <= 0 returns a disabled passthrough codec.
func New(level int) (*Codec, error) {
	if level <= 0 {
		return &Codec{}, nil
	}

	var encoderLevel zstd.EncoderLevel
	switch level {
	case 1:
		encoderLevel = zstd.SpeedFastest
	case 3:
		encoderLevel = zstd.SpeedBetterCompression
	default:
		encoderLevel = zstd.SpeedDefault
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(encoderLevel),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, err
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}

	return &Codec{encoder: encoder, decoder: decoder, enabled: true}, nil
}

// Encode compresses data. Small payloads and payloads that grow under
// compression are returned unchanged.
func (c *Codec) Encode(data []byte) []byte {
	if !c.enabled || len(data) < minPayload {
		return data
	}

	compressed := c.encoder.EncodeAll(data, make([]byte, 0, len(data)))
	if len(compressed) >= len(data) {
		return data
	}
	return compressed
}

// Decode restores compressed data. Bytes that are not a zstd frame are
// returned unchanged, so stores with mixed raw and compressed entries stay
// readable.
func (c *Codec) Decode(data []byte) []byte {
	if !c.enabled {
		return data
	}

	decompressed, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return data
	}
	return decompressed
}

// Close releases the underlying zstd resources.
func (c *Codec) Close() {
	if c.encoder != nil {
		c.encoder.Close()
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
}
