package protocol

import (
	"reflect"

	"github.com/rs/zerolog/log"

	"github.com/voxboxor/voxboxor/internal/protocol/schema"
)

// Coerce converts raw to the wire value of the first field called name
// anywhere in reg, scanning sections in declaration order.
//
// The scan is schema wide: if two sections ever define name with
// different widths the first one wins. The encoder does not use Coerce,
// it coerces against the field of the template being encoded.
func Coerce(reg *schema.Registry, name string, raw any) (uint32, error) {
	var (
		found bool
		spec  schema.FieldSpec
	)
	reg.Walk(func(s schema.Section, k schema.Key, fields []schema.FieldSpec) bool {
		for _, f := range fields {
			if f.Name == name {
				log.Trace().
					Str("field", name).
					Str("section", s.String()).
					Str("key", k.String()).
					Str("width", f.Width.String()).
					Msg("protocol.Coerce")
				spec, found = f, true
				return false
			}
		}
		return true
	})
	if !found {
		return 0, &UnknownFieldError{Name: name}
	}
	return coerceField(spec, raw)
}

// coerceField converts raw to the width of f. u8 keeps the low byte of
// an integer and accepts a one byte []byte or string; u16 and u32 reject
// values that do not fit.
func coerceField(f schema.FieldSpec, raw any) (uint32, error) {
	fail := func(err error) (uint32, error) {
		return 0, &ValueError{Name: f.Name, Width: f.Width, Value: raw, Err: err}
	}

	switch v := raw.(type) {
	case []byte:
		if f.Width != schema.U8 || len(v) != 1 {
			return fail(ErrUnsupportedValue)
		}
		return uint32(v[0]), nil
	case string:
		if f.Width != schema.U8 || len(v) != 1 {
			return fail(ErrUnsupportedValue)
		}
		return uint32(v[0]), nil
	}

	n, ok, neg := integer(raw)
	if !ok {
		return fail(ErrUnsupportedValue)
	}
	if neg {
		return fail(ErrValueRange)
	}
	if f.Width == schema.U8 {
		return uint32(n & 0xff), nil
	}
	if n > uint64(f.Width.Max()) {
		return fail(ErrValueRange)
	}
	return uint32(n), nil
}

// integer returns raw as a uint64 for any Go integer kind, including
// named types such as schema.PeerID.
func integer(raw any) (n uint64, ok, neg bool) {
	if raw == nil {
		return 0, false, false
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i < 0 {
			return 0, true, true
		}
		return uint64(i), true, false
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), true, false
	default:
		return 0, false, false
	}
}
