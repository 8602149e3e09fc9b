package protocol

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/voxboxor/voxboxor/internal/protocol/schema"
)

// A Codec encodes and decodes the packets described by one registry.
// Templates for every registered key are resolved once by NewCodec;
// a Codec is read-only afterwards and safe for concurrent use.
type Codec struct {
	reg       *schema.Registry
	templates map[schema.Key]*Template
}

// NewCodec resolves every key of reg. A key that fails to resolve is a
// schema design error and is returned before any packet is served.
func NewCodec(reg *schema.Registry) (*Codec, error) {
	c := &Codec{
		reg:       reg,
		templates: make(map[schema.Key]*Template),
	}
	for _, key := range reg.Keys() {
		t, err := resolve(reg, key)
		if err != nil {
			return nil, err
		}
		c.templates[key] = t
	}
	return c, nil
}

// MustNewCodec is like NewCodec but panics if a key fails to resolve.
func MustNewCodec(reg *schema.Registry) *Codec {
	c, err := NewCodec(reg)
	if err != nil {
		panic(err)
	}
	return c
}

var std = MustNewCodec(schema.Default)

// Default returns the Codec of schema.Default.
func Default() *Codec { return std }

// Registry returns the registry c was built from.
func (c *Codec) Registry() *schema.Registry { return c.reg }

// Resolve returns the template of a known packet kind.
func (c *Codec) Resolve(kind Kind) (*Template, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return c.ResolveKey(kind.Key())
}

// ResolveKey returns the template of key.
func (c *Codec) ResolveKey(key schema.Key) (*Template, error) {
	if !key.Origin.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOrigin, key.Origin)
	}
	if t, ok := c.templates[key]; ok {
		return t, nil
	}
	return resolve(c.reg, key)
}

// Resolve returns the default codec's template for (origin, purpose),
// e.g. ("server", "connected").
func Resolve(origin, purpose string) (*Template, error) {
	o, err := schema.ParseOrigin(origin)
	if err != nil {
		return nil, err
	}
	return std.ResolveKey(schema.Key{Origin: o, Purpose: purpose})
}

// resolve composes the sections of key: basic, an optional reliable
// header, then exactly one of original or control.
func resolve(reg *schema.Registry, key schema.Key) (*Template, error) {
	b := newTemplateBuilder(key)

	basic, ok, err := reg.Fields(schema.Basic, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Debug().Str("key", key.String()).Msg("protocol.resolve no basic header")
		return nil, &NoBasicHeaderError{Key: key}
	}
	b.add(schema.Basic, basic)

	reliable, ok, err := reg.Fields(schema.Reliable, key)
	if err != nil {
		return nil, err
	}
	if ok {
		b.add(schema.Reliable, reliable)
	}

	original, hasOriginal, err := reg.Fields(schema.Original, key)
	if err != nil {
		return nil, err
	}
	control, hasControl, err := reg.Fields(schema.Control, key)
	if err != nil {
		return nil, err
	}
	switch {
	case hasOriginal && hasControl:
		log.Error().Str("key", key.String()).Msg("protocol.resolve conflicting body definition")
		return nil, &BodyDefinitionError{Key: key, Conflicting: true}
	case hasOriginal:
		b.add(schema.Original, original)
	case hasControl:
		b.add(schema.Control, control)
	default:
		log.Error().Str("key", key.String()).Msg("protocol.resolve missing body definition")
		return nil, &BodyDefinitionError{Key: key}
	}

	return b.build()
}
