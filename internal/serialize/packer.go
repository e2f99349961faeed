// Package serialize packs values into compact byte strings: MessagePack
// encoded, then ZStandard compressed. Predicate tokens are built on it.
package serialize

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrEmpty is returned by Unpack for empty input.
var ErrEmpty = errors.New("serialize: empty input")

// Packer encodes and compresses values. Create once and reuse: the zstd
// state is the expensive part.
// A Packer is safe for concurrent use.
type Packer struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewPacker creates a Packer. Unpack refuses input that decompresses to more
// than maxSize bytes (0 keeps the zstd default limit).
// Caller must call Close() when done to release resources.
func NewPacker(maxSize uint64) (*Packer, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBestCompression),
		zstd.WithEncoderCRC(false),
	)
	if err != nil {
		return nil, fmt.Errorf("serialize: zstd encoder: %w", err)
	}

	var opts []zstd.DOption
	if maxSize > 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(maxSize))
	}
	dec, err := zstd.NewReader(nil, opts...)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("serialize: zstd decoder: %w", err)
	}
	return &Packer{enc: enc, dec: dec}, nil
}

// Pack encodes v as MessagePack and compresses the result.
func (p *Packer) Pack(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serialize: encode: %w", err)
	}
	return p.enc.EncodeAll(data, make([]byte, 0, len(data))), nil
}

// Unpack reverses Pack into v, which must be a pointer.
func (p *Packer) Unpack(packed []byte, v any) error {
	if len(packed) == 0 {
		return ErrEmpty
	}
	data, err := p.dec.DecodeAll(packed, nil)
	if err != nil {
		return fmt.Errorf("serialize: decompress: %w", err)
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("serialize: decode: %w", err)
	}
	return nil
}

// Close releases the zstd state.
func (p *Packer) Close() error {
	p.dec.Close()
	return p.enc.Close()
}
