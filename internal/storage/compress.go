package storage

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Shared codecs, built on first use. EncodeAll and DecodeAll are safe for
// concurrent use.
var (
	encoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	})
	decoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil)
	})
)

func compress(data []byte) ([]byte, error) {
	enc, err := encoder()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot create snapshot encoder: %w", err)
	}
	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

func decompress(blob []byte) ([]byte, error) {
	dec, err := decoder()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot create snapshot decoder: %w", err)
	}
	data, err := dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot decompress snapshot: %w", err)
	}
	return data, nil
}
