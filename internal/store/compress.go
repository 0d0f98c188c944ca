package store

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// blobMinSize is the smallest blob worth compressing.
const blobMinSize = 64

// blobCodec compresses file contents stored in the commit store.
type blobCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newBlobCodec() (*blobCodec, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("creating encoder: %w", err)
	}

	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
	)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("creating decoder: %w", err)
	}

	return &blobCodec{enc: enc, dec: dec}, nil
}

// encode returns the stored form of content and whether it was compressed.
func (c *blobCodec) encode(content []byte) ([]byte, bool) {
	if len(content) < blobMinSize {
		return content, false
	}
	out := c.enc.EncodeAll(content, make([]byte, 0, len(content)/2))
	if len(out) >= len(content) {
		return content, false
	}
	return out, true
}

func (c *blobCodec) decode(data []byte, compressed bool) ([]byte, error) {
	if !compressed {
		return data, nil
	}
	return c.dec.DecodeAll(data, nil)
}

func (c *blobCodec) close() {
	c.enc.Close()
	c.dec.Close()
}
