package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/voxboxor/voxboxor/internal/protocol/schema"
)

// Values maps field names to caller supplied values for the fields of a
// template that have no default.
type Values map[string]any

// Encode encodes a packet of kind using values for its required fields.
func (c *Codec) Encode(kind Kind, values Values) ([]byte, error) {
	return c.AppendEncode(nil, kind, values)
}

// AppendEncode is like Encode but appends the packet to dst.
// dst is returned unchanged on error.
func (c *Codec) AppendEncode(dst []byte, kind Kind, values Values) ([]byte, error) {
	t, err := c.Resolve(kind)
	if err != nil {
		return dst, err
	}
	return t.AppendEncode(dst, values)
}

// EncodeKey encodes a packet for an arbitrary registry key.
func (c *Codec) EncodeKey(key schema.Key, values Values) ([]byte, error) {
	t, err := c.ResolveKey(key)
	if err != nil {
		return nil, err
	}
	return t.AppendEncode(nil, values)
}

// Encode encodes a packet of the default codec for (origin, purpose).
func Encode(origin, purpose string, values Values) ([]byte, error) {
	t, err := Resolve(origin, purpose)
	if err != nil {
		return nil, err
	}
	return t.AppendEncode(nil, values)
}

// AppendEncode fills every field of t without a default from values and
// appends the big-endian packet to dst. Every missing field is reported
// at once, ahead of any bad value; no partial packet is ever produced.
func (t *Template) AppendEncode(dst []byte, values Values) ([]byte, error) {
	filled := make([]uint32, len(t.fields))
	var (
		missing []string
		badErr  error
	)
	for i, f := range t.fields {
		if v, ok := f.Default.Get(); ok {
			filled[i] = v
			continue
		}
		raw, ok := values[f.Name]
		if !ok || raw == nil {
			missing = append(missing, f.Name)
			continue
		}
		v, err := coerceField(f, raw)
		if err != nil {
			if badErr == nil {
				badErr = err
			}
			continue
		}
		filled[i] = v
	}
	if len(missing) > 0 {
		log.Debug().
			Str("key", t.key.String()).
			Strs("missing", missing).
			Msg("protocol.Encode missing required fields")
		return dst, &MissingFieldsError{Key: t.key, Names: missing}
	}
	if badErr != nil {
		log.Debug().Err(badErr).Str("key", t.key.String()).Msg("protocol.Encode bad value")
		return dst, badErr
	}
	return t.pack(dst, filled)
}

func (t *Template) pack(dst []byte, values []uint32) ([]byte, error) {
	if len(values) != len(t.fields) {
		return dst, &SchemaConfigError{
			Key:    t.key,
			Reason: fmt.Sprintf("len(values)=%d, len(fields)=%d", len(values), len(t.fields)),
		}
	}
	out := dst
	if cap(out)-len(out) < t.size {
		out = make([]byte, len(dst), len(dst)+t.size)
		copy(out, dst)
	}
	for i, f := range t.fields {
		switch f.Width {
		case schema.U8:
			out = append(out, uint8(values[i]))
		case schema.U16:
			out = binary.BigEndian.AppendUint16(out, uint16(values[i]))
		case schema.U32:
			out = binary.BigEndian.AppendUint32(out, values[i])
		}
	}
	return out, nil
}
