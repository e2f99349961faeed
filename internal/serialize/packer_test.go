package serialize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type node struct {
	Attribute string  `msgpack:"a,omitempty"`
	Filter    string  `msgpack:"f,omitempty"`
	Children  []*node `msgpack:"c,omitempty"`
}

func newPacker(t *testing.T, maxSize uint64) *Packer {
	t.Helper()
	p, err := NewPacker(maxSize)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestPackRoundTrip(t *testing.T) {
	p := newPacker(t, 0)

	in := node{Children: []*node{{Attribute: "name", Filter: "Smith*"}, {Attribute: "age", Filter: "18-65"}}}
	packed, err := p.Pack(in)
	require.NoError(t, err)

	var out node
	require.NoError(t, p.Unpack(packed, &out))
	assert.Equal(t, in, out)
}

func TestPackCompresses(t *testing.T) {
	p := newPacker(t, 0)

	in := node{Filter: strings.Repeat("ACTIVE|", 200)}
	raw, err := msgpack.Marshal(in)
	require.NoError(t, err)

	packed, err := p.Pack(in)
	require.NoError(t, err)
	assert.Less(t, len(packed), len(raw))
}

func TestUnpackErrors(t *testing.T) {
	p := newPacker(t, 0)
	var out node

	assert.ErrorIs(t, p.Unpack(nil, &out), ErrEmpty)
	assert.Error(t, p.Unpack([]byte("not zstd"), &out))

	// 0xc1 is never used in MessagePack
	assert.Error(t, p.Unpack(p.enc.EncodeAll([]byte{0xc1}, nil), &out))
}

func TestUnpackSizeLimit(t *testing.T) {
	small := newPacker(t, 64)

	packed, err := small.Pack(node{Filter: strings.Repeat("x", 4096)})
	require.NoError(t, err)

	var out node
	assert.Error(t, small.Unpack(packed, &out))
}
