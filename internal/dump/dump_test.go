package dump

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/voxboxor/voxboxor/internal/protocol"
	"github.com/voxboxor/voxboxor/internal/testutil/testlog"
)

func connectedPacket(t *testing.T) *protocol.Packet {
	t.Helper()
	codec := protocol.Default()
	b, err := codec.EncodeConnected(42)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	pkt, err := codec.Decode(protocol.KindConnected, b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return pkt
}

func TestParseFormat(t *testing.T) {
	testlog.Start(t)
	for raw, want := range map[string]Format{"": FormatText, "TEXT": FormatText, " yaml ": FormatYAML, "cbor": FormatCBOR} {
		got, err := ParseFormat(raw)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q): expected %s, got %s (%v)", raw, want, got, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestPacketViewQualifiesRepeatedNames(t *testing.T) {
	testlog.Start(t)
	view := Packet(connectedPacket(t))
	if view.Key != "s_connected" || view.Size != 14 || len(view.Fields) != 8 {
		t.Fatalf("unexpected view: %+v", view)
	}
	types := 0
	for _, f := range view.Fields {
		if f.Name == "type" {
			types++
		}
	}
	if types != 2 {
		t.Fatalf("expected type in two sections, got %d", types)
	}
	last := view.Fields[7]
	if last.Section != "control" || last.Name != "peer_id_new" || *last.Value != 42 {
		t.Fatalf("unexpected last field: %+v", last)
	}
}

func TestWriteTextPacket(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	if err := Write(&buf, FormatText, Packet(connectedPacket(t))); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "s_connected (14 bytes)\n") {
		t.Fatalf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "0x4f457403") || !strings.Contains(out, "peer_id_new") {
		t.Fatalf("missing fields in %q", out)
	}
}

func TestWriteYAMLLayouts(t *testing.T) {
	testlog.Start(t)
	layouts, err := Layouts(protocol.Default())
	if err != nil {
		t.Fatalf("layouts: %v", err)
	}
	if len(layouts) != 3 {
		t.Fatalf("expected 3 layouts, got %d", len(layouts))
	}
	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, layouts); err != nil {
		t.Fatalf("write: %v", err)
	}
	var back []LayoutView
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	if back[0].Key != "c_connect" || back[0].Format != "u32 u16 u8 u8 u16 u8" {
		t.Fatalf("unexpected first layout: %+v", back[0])
	}
	if back[2].Fields[1].Default != "REQ" {
		t.Fatalf("expected disconnect sender to be required, got %+v", back[2].Fields[1])
	}
}

func TestWriteCBORIsDeterministic(t *testing.T) {
	testlog.Start(t)
	view := Packet(connectedPacket(t))
	var a, b bytes.Buffer
	if err := Write(&a, FormatCBOR, view); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := Write(&b, FormatCBOR, view); err != nil {
		t.Fatalf("write b: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("cbor output differs")
	}
	var back PacketView
	if err := cbor.Unmarshal(a.Bytes(), &back); err != nil {
		t.Fatalf("cbor unmarshal: %v", err)
	}
	if back.Key != view.Key || len(back.Fields) != len(view.Fields) {
		t.Fatalf("unexpected decoded view: %+v", back)
	}
}

func TestWriteTextRejectsOtherTypes(t *testing.T) {
	testlog.Start(t)
	if err := Write(&bytes.Buffer{}, FormatText, 42); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if err := Write(&bytes.Buffer{}, Format("xml"), PacketView{}); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
