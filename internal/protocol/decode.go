package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/voxboxor/voxboxor/internal/protocol/schema"
)

// Decode decodes b as a packet of kind.
func (c *Codec) Decode(kind Kind, b []byte) (*Packet, error) {
	t, err := c.Resolve(kind)
	if err != nil {
		return nil, err
	}
	return t.Decode(b)
}

// DecodeKey decodes b as a packet of an arbitrary registry key.
func (c *Codec) DecodeKey(key schema.Key, b []byte) (*Packet, error) {
	t, err := c.ResolveKey(key)
	if err != nil {
		return nil, err
	}
	return t.Decode(b)
}

// Decode decodes b with the default codec's template for (origin, purpose).
func Decode(origin, purpose string, b []byte) (*Packet, error) {
	t, err := Resolve(origin, purpose)
	if err != nil {
		return nil, err
	}
	return t.Decode(b)
}

// Decode unpacks b in template order. The length is checked before any
// field is read. Field contents are not validated.
func (t *Template) Decode(b []byte) (*Packet, error) {
	if len(b) != t.size {
		log.Debug().
			Str("key", t.key.String()).
			Int("expected", t.size).
			Int("actual", len(b)).
			Msg("protocol.Decode length mismatch")
		return nil, &LengthMismatchError{Key: t.key, Expected: t.size, Actual: len(b)}
	}
	values := make([]uint32, len(t.fields))
	off := 0
	for i, f := range t.fields {
		switch f.Width {
		case schema.U8:
			values[i] = uint32(b[off])
		case schema.U16:
			values[i] = uint32(binary.BigEndian.Uint16(b[off:]))
		case schema.U32:
			values[i] = binary.BigEndian.Uint32(b[off:])
		}
		off += f.Width.Size()
	}
	return &Packet{tmpl: t, values: values}, nil
}

// Classify finds the kind of a packet sent from origin. A kind matches
// when the length fits its template and every defaulted field outside the
// basic header (the type and controltype discriminators) holds its
// default.
func (c *Codec) Classify(origin schema.Origin, b []byte) (Kind, *Packet, error) {
	if !origin.Valid() {
		return 0, nil, fmt.Errorf("%w: %s", ErrInvalidOrigin, origin)
	}
	for _, kind := range Kinds() {
		if kind.Origin() != origin {
			continue
		}
		t, err := c.Resolve(kind)
		if err != nil || t.size != len(b) {
			continue
		}
		pkt, err := t.Decode(b)
		if err != nil {
			continue
		}
		if pkt.matchesDefaults(schema.Basic) {
			return kind, pkt, nil
		}
	}
	return 0, nil, fmt.Errorf("%w: %d byte packet from %s", ErrUnknownKind, len(b), origin)
}
