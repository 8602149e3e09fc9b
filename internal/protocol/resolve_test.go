package protocol

import (
	"errors"
	"testing"

	"github.com/voxboxor/voxboxor/internal/protocol/schema"
	"github.com/voxboxor/voxboxor/internal/testutil/testlog"
)

func TestResolveKnownLayouts(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		origin, purpose string
		format          string
		size            int
		bounds          []Bound
	}{
		{
			"client", "connect", "u32 u16 u8 u8 u16 u8", 11,
			[]Bound{{schema.Basic, 3}, {schema.Reliable, 2}, {schema.Original, 1}},
		},
		{
			"server", "connected", "u32 u16 u8 u8 u16 u8 u8 u16", 14,
			[]Bound{{schema.Basic, 3}, {schema.Reliable, 2}, {schema.Control, 3}},
		},
		{
			"client", "disconnect", "u32 u16 u8 u8 u8", 9,
			[]Bound{{schema.Basic, 3}, {schema.Control, 2}},
		},
	}
	for _, tc := range cases {
		tmpl, err := Resolve(tc.origin, tc.purpose)
		if err != nil {
			t.Fatalf("resolve %s %s: %v", tc.origin, tc.purpose, err)
		}
		if tmpl.Format() != tc.format {
			t.Fatalf("%s: expected format %q, got %q", tmpl.Key(), tc.format, tmpl.Format())
		}
		if tmpl.Size() != tc.size {
			t.Fatalf("%s: expected size %d, got %d", tmpl.Key(), tc.size, tmpl.Size())
		}
		bounds := tmpl.Bounds()
		if len(bounds) != len(tc.bounds) {
			t.Fatalf("%s: expected bounds %v, got %v", tmpl.Key(), tc.bounds, bounds)
		}
		total := 0
		for i := range bounds {
			if bounds[i] != tc.bounds[i] {
				t.Fatalf("%s: expected bounds %v, got %v", tmpl.Key(), tc.bounds, bounds)
			}
			total += bounds[i].Count
		}
		if total != tmpl.Len() || len(tmpl.Names()) != tmpl.Len() || len(tmpl.Widths()) != tmpl.Len() {
			t.Fatalf("%s: parallel lengths differ", tmpl.Key())
		}
	}
}

func TestResolveInvalidOrigin(t *testing.T) {
	testlog.Start(t)
	_, err := Resolve("proxy", "connect")
	if !errors.Is(err, ErrInvalidOrigin) {
		t.Fatalf("expected ErrInvalidOrigin, got %v", err)
	}
	_, err = Default().ResolveKey(schema.Key{Purpose: "connect"})
	if !errors.Is(err, ErrInvalidOrigin) {
		t.Fatalf("expected ErrInvalidOrigin for zero origin, got %v", err)
	}
}

func TestResolveNoBasicHeader(t *testing.T) {
	testlog.Start(t)
	_, err := Resolve("server", "connect")
	var nb *NoBasicHeaderError
	if !errors.As(err, &nb) {
		t.Fatalf("expected NoBasicHeaderError, got %v", err)
	}
	if nb.Key.String() != "s_connect" {
		t.Fatalf("unexpected key: %s", nb.Key)
	}
}

func TestResolveUnknownKind(t *testing.T) {
	testlog.Start(t)
	if _, err := Default().Resolve(Kind(99)); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if _, err := ParseKind("server", "disconnect"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if k, err := ParseKind("client", "disconnect"); err != nil || k != KindDisconnect {
		t.Fatalf("parse kind: %v %v", k, err)
	}
}

func bodyRegistry(original, control bool) *schema.Registry {
	key := schema.Key{Origin: schema.Server, Purpose: "x"}
	defs := []schema.Definition{{
		Section:  schema.Basic,
		Wildcard: &schema.Layout{Names: []string{"protocol_id"}, Widths: []schema.Width{schema.U32}},
		Packets:  []schema.Packet{{Key: key, Defaults: []schema.Value{schema.Fixed(schema.ProtocolID)}}},
	}}
	if original {
		defs = append(defs, schema.Definition{
			Section:  schema.Original,
			Wildcard: &schema.Layout{Names: []string{"type"}, Widths: []schema.Width{schema.U8}},
			Packets:  []schema.Packet{{Key: key, Defaults: []schema.Value{schema.Fixed(1)}}},
		})
	}
	if control {
		defs = append(defs, schema.Definition{
			Section:  schema.Control,
			Wildcard: &schema.Layout{Names: []string{"type"}, Widths: []schema.Width{schema.U8}},
			Packets:  []schema.Packet{{Key: key, Defaults: []schema.Value{schema.Fixed(0)}}},
		})
	}
	return schema.MustNewRegistry(defs...)
}

func TestResolveBodyDefinitionErrors(t *testing.T) {
	testlog.Start(t)
	_, err := NewCodec(bodyRegistry(true, true))
	var be *BodyDefinitionError
	if !errors.As(err, &be) || !be.Conflicting {
		t.Fatalf("expected conflicting BodyDefinitionError, got %v", err)
	}
	if !errors.Is(err, ErrConflictingBody) {
		t.Fatalf("expected ErrConflictingBody in chain")
	}

	_, err = NewCodec(bodyRegistry(false, false))
	if !errors.Is(err, ErrMissingBody) {
		t.Fatalf("expected ErrMissingBody, got %v", err)
	}

	if _, err := NewCodec(bodyRegistry(false, true)); err != nil {
		t.Fatalf("control only codec: %v", err)
	}
}

func TestMustNewCodecPanicsOnSchemaError(t *testing.T) {
	testlog.Start(t)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	MustNewCodec(bodyRegistry(false, false))
}

func TestTemplateIsNotSharedWithRegistry(t *testing.T) {
	testlog.Start(t)
	tmpl, err := Default().Resolve(KindConnected)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	fields := tmpl.Fields()
	fields[0].Name = "mutated"
	if tmpl.Names()[0] != "protocol_id" {
		t.Fatalf("template mutated through Fields copy")
	}
	f, ok := tmpl.Field("peer_id_new", schema.Control)
	if !ok || !f.Required() || f.Width != schema.U16 {
		t.Fatalf("unexpected peer_id_new record: %+v %v", f, ok)
	}
	if tmpl.SectionOf(7) != schema.Control || tmpl.SectionOf(3) != schema.Reliable || tmpl.SectionOf(0) != schema.Basic {
		t.Fatalf("unexpected section index")
	}
}

func TestCoerceSchemaWide(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		raw  any
		want uint32
	}{
		{"protocol_id", uint32(schema.ProtocolID), schema.ProtocolID},
		{"sender_peer_id", 2, 2},
		{"peer_id_new", schema.PeerID(300), 300},
		{"channel", 0x1ff, 0xff},
		{"type", []byte{3}, 3},
		{"controltype", "\x01", 1},
	}
	for _, tc := range cases {
		got, err := Coerce(schema.Default, tc.name, tc.raw)
		if err != nil {
			t.Fatalf("coerce %s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("coerce %s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestCoerceUnknownField(t *testing.T) {
	testlog.Start(t)
	_, err := Coerce(schema.Default, "payload", 1)
	var uf *UnknownFieldError
	if !errors.As(err, &uf) || uf.Name != "payload" {
		t.Fatalf("expected UnknownFieldError, got %v", err)
	}
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField in chain")
	}
}

func TestCoerceRejectsMultiByteForU8(t *testing.T) {
	testlog.Start(t)
	_, err := Coerce(schema.Default, "type", []byte{1, 2})
	if !errors.Is(err, ErrUnsupportedValue) {
		t.Fatalf("expected ErrUnsupportedValue, got %v", err)
	}
	_, err = Coerce(schema.Default, "seqnum", "ab")
	if !errors.Is(err, ErrUnsupportedValue) {
		t.Fatalf("expected ErrUnsupportedValue for string seqnum, got %v", err)
	}
}
