package schema

import (
	"errors"
	"testing"

	"github.com/voxboxor/voxboxor/internal/testutil/testlog"
)

func TestDefaultRegistryKeysInDeclarationOrder(t *testing.T) {
	testlog.Start(t)
	keys := Default.Keys()
	want := []Key{ClientConnect, ServerConnected, ClientDisconnect}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key[%d]: expected %s, got %s", i, want[i], keys[i])
		}
	}
}

func TestLookupFallsBackToWildcard(t *testing.T) {
	testlog.Start(t)
	names, err := Default.Names(Basic, ClientDisconnect)
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if len(names) != 3 || names[1] != "sender_peer_id" {
		t.Fatalf("unexpected basic names: %v", names)
	}
	widths, err := Default.Widths(Reliable, Key{Client, "unknown"})
	if err != nil {
		t.Fatalf("widths: %v", err)
	}
	if len(widths) != 2 || widths[0] != U8 || widths[1] != U16 {
		t.Fatalf("unexpected reliable widths: %v", widths)
	}
}

func TestLookupDefaultsNeverFallBack(t *testing.T) {
	testlog.Start(t)
	_, err := Default.Defaults(Reliable, ClientDisconnect)
	var missing *MissingAspectError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingAspectError, got %v", err)
	}
	if missing.Aspect != AspectDefaults || missing.Section != Reliable || missing.Key != ClientDisconnect {
		t.Fatalf("unexpected error detail: %+v", missing)
	}
	if !errors.Is(err, ErrMissingAspect) {
		t.Fatalf("expected ErrMissingAspect in chain")
	}
}

func TestLookupControlHasNoWildcard(t *testing.T) {
	testlog.Start(t)
	_, err := Default.Names(Control, ClientConnect)
	if !errors.Is(err, ErrMissingAspect) {
		t.Fatalf("expected ErrMissingAspect, got %v", err)
	}
	names, err := Default.Names(Control, ServerConnected)
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if names[2] != "peer_id_new" {
		t.Fatalf("unexpected control names: %v", names)
	}
}

func TestFieldsMarksRequired(t *testing.T) {
	testlog.Start(t)
	fields, ok, err := Default.Fields(Basic, ClientDisconnect)
	if err != nil || !ok {
		t.Fatalf("fields: ok=%v err=%v", ok, err)
	}
	if !fields[1].Required() {
		t.Fatalf("expected sender_peer_id to be required")
	}
	if v, ok := fields[0].Default.Get(); !ok || v != ProtocolID {
		t.Fatalf("unexpected protocol_id default: %v", fields[0].Default)
	}

	_, ok, err = Default.Fields(Original, ServerConnected)
	if err != nil || ok {
		t.Fatalf("expected no original section for s_connected: ok=%v err=%v", ok, err)
	}
}

func TestNewRegistryRejectsMismatchedLayout(t *testing.T) {
	testlog.Start(t)
	_, err := NewRegistry(Definition{
		Section:  Basic,
		Wildcard: &Layout{Names: []string{"a", "b"}, Widths: []Width{U8}},
	})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Key != nil {
		t.Fatalf("expected wildcard error, got key %s", cfgErr.Key)
	}
}

func TestNewRegistryRejectsBadPackets(t *testing.T) {
	testlog.Start(t)
	key := Key{Client, "x"}
	cases := []struct {
		name string
		def  Definition
	}{
		{
			name: "unresolved wildcard",
			def: Definition{Section: Control, Packets: []Packet{
				{Key: key, Defaults: []Value{Fixed(0)}},
			}},
		},
		{
			name: "defaults arity",
			def: Definition{Section: Original, Wildcard: &Layout{Names: []string{"type"}, Widths: []Width{U8}}, Packets: []Packet{
				{Key: key, Defaults: []Value{Fixed(0), Fixed(1)}},
			}},
		},
		{
			name: "default overflows width",
			def: Definition{Section: Original, Wildcard: &Layout{Names: []string{"type"}, Widths: []Width{U8}}, Packets: []Packet{
				{Key: key, Defaults: []Value{Fixed(256)}},
			}},
		},
		{
			name: "duplicate name in section",
			def: Definition{Section: Control, Packets: []Packet{
				{Key: key, Layout: &Layout{Names: []string{"type", "type"}, Widths: []Width{U8, U8}}, Defaults: []Value{Fixed(0), Fixed(0)}},
			}},
		},
		{
			name: "invalid origin",
			def: Definition{Section: Original, Wildcard: &Layout{Names: []string{"type"}, Widths: []Width{U8}}, Packets: []Packet{
				{Key: Key{Purpose: "x"}, Defaults: []Value{Fixed(0)}},
			}},
		},
		{
			name: "layout without defaults",
			def: Definition{Section: Control, Packets: []Packet{
				{Key: key, Layout: &Layout{Names: []string{"type"}, Widths: []Width{U8}}},
			}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRegistry(tc.def)
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestMustNewRegistryPanicsOnBadTable(t *testing.T) {
	testlog.Start(t)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	MustNewRegistry(
		Definition{Section: Basic},
		Definition{Section: Basic},
	)
}

func TestWalkVisitsResolvedSections(t *testing.T) {
	testlog.Start(t)
	var visited []string
	Default.Walk(func(s Section, k Key, fields []FieldSpec) bool {
		visited = append(visited, s.String()+"/"+k.String())
		if len(fields) == 0 {
			t.Fatalf("%s/%s resolved to no fields", s, k)
		}
		return true
	})
	if len(visited) != 8 {
		t.Fatalf("expected 8 packet sections, got %d: %v", len(visited), visited)
	}
	if visited[0] != "basic/c_connect" || visited[7] != "control/c_disconnect" {
		t.Fatalf("unexpected walk order: %v", visited)
	}
}

func TestParseOriginAndSection(t *testing.T) {
	testlog.Start(t)
	if o, err := ParseOrigin("server"); err != nil || o != Server {
		t.Fatalf("parse server: %v %v", o, err)
	}
	for _, raw := range []string{"peer", "Server", " client ", "CLIENT", ""} {
		if _, err := ParseOrigin(raw); !errors.Is(err, ErrInvalidOrigin) {
			t.Fatalf("%q: expected ErrInvalidOrigin, got %v", raw, err)
		}
	}
	if s, err := ParseSection("control"); err != nil || s != Control {
		t.Fatalf("parse control: %v %v", s, err)
	}
	if _, err := ParseSection("payload"); !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
	if ClientConnect.String() != "c_connect" {
		t.Fatalf("unexpected key string: %s", ClientConnect)
	}
}
