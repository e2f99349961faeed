package filter

import (
	"encoding/base64"
	"fmt"

	"github.com/hugr-lab/listing/internal/serialize"
)

const (
	// MaxTokenDepth bounds the nesting of decoded predicate trees.
	MaxTokenDepth = 64

	// maxTokenSize bounds the decompressed size of a token.
	maxTokenSize = 1 << 20
)

// wirePredicate is the MessagePack form of a Predicate.
type wirePredicate struct {
	Attribute   string           `msgpack:"a,omitempty"`
	Filter      string           `msgpack:"f,omitempty"`
	Values      []string         `msgpack:"v,omitempty"`
	In          bool             `msgpack:"i,omitempty"`
	Disjunctive bool             `msgpack:"o,omitempty"`
	Negated     bool             `msgpack:"n,omitempty"`
	Children    []*wirePredicate `msgpack:"c,omitempty"`
}

// Codec converts predicate trees to compact URL-safe tokens and back:
// MessagePack, ZStandard compressed, base64url without padding.
// Tokens let HTTP clients pass custom trees in a query parameter.
//
// A Codec is safe for concurrent use. Call Close when done.
type Codec struct {
	packer *serialize.Packer
}

// NewCodec creates a predicate token codec.
func NewCodec() (*Codec, error) {
	p, err := serialize.NewPacker(maxTokenSize)
	if err != nil {
		return nil, err
	}
	return &Codec{packer: p}, nil
}

// Close releases the codec resources.
func (c *Codec) Close() error {
	return c.packer.Close()
}

// Encode returns the token of p.
func (c *Codec) Encode(p *Predicate) (string, error) {
	if p == nil {
		return "", fmt.Errorf("filter: cannot encode nil predicate")
	}
	packed, err := c.packer.Pack(toWire(p))
	if err != nil {
		return "", fmt.Errorf("filter: encode predicate: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(packed), nil
}

// Decode parses a token produced by Encode.
// Returns ErrInvalidToken (wrapped) for malformed or too deeply nested input.
func (c *Codec) Decode(token string) (*Predicate, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	var w wirePredicate
	if err := c.packer.Unpack(compressed, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return fromWire(&w, 0)
}

func toWire(p *Predicate) *wirePredicate {
	w := &wirePredicate{
		Attribute:   p.attribute,
		Filter:      p.filter,
		Values:      p.values,
		In:          p.in,
		Disjunctive: p.disjunctive,
		Negated:     p.negated,
	}
	for _, c := range p.children {
		w.Children = append(w.Children, toWire(c))
	}
	return w
}

func fromWire(w *wirePredicate, depth int) (*Predicate, error) {
	if depth > MaxTokenDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrInvalidToken, MaxTokenDepth)
	}
	if len(w.Children) > 0 && (w.Attribute != "" || w.Filter != "" || w.In) {
		return nil, fmt.Errorf("%w: node is both leaf and composite", ErrInvalidToken)
	}

	p := &Predicate{
		attribute:   w.Attribute,
		filter:      w.Filter,
		values:      w.Values,
		in:          w.In,
		disjunctive: w.Disjunctive,
		negated:     w.Negated,
	}
	for _, cw := range w.Children {
		if cw == nil {
			continue
		}
		child, err := fromWire(cw, depth+1)
		if err != nil {
			return nil, err
		}
		p.children = append(p.children, child)
	}
	return p, nil
}
