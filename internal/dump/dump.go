// Package dump renders packets and templates for humans and tools.
package dump

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/voxboxor/voxboxor/internal/protocol"
)

type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

var ErrUnknownFormat = errors.New("dump: unknown format")

func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatYAML, FormatCBOR:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
	}
}

// Core deterministic encoding: the same view always yields the same bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("dump: CBOR encoder initialization failed: " + err.Error())
	}
}

// FieldView is one field of a packet or template.
type FieldView struct {
	Section string  `json:"section" yaml:"section"`
	Name    string  `json:"name" yaml:"name"`
	Width   string  `json:"width" yaml:"width"`
	Default string  `json:"default,omitempty" yaml:"default,omitempty"`
	Value   *uint32 `json:"value,omitempty" yaml:"value,omitempty"`
}

type PacketView struct {
	Key    string      `json:"key" yaml:"key"`
	Size   int         `json:"size" yaml:"size"`
	Fields []FieldView `json:"fields" yaml:"fields"`
}

type BoundView struct {
	Section string `json:"section" yaml:"section"`
	Count   int    `json:"count" yaml:"count"`
}

type LayoutView struct {
	Key    string      `json:"key" yaml:"key"`
	Format string      `json:"format" yaml:"format"`
	Size   int         `json:"size" yaml:"size"`
	Bounds []BoundView `json:"bounds" yaml:"bounds"`
	Fields []FieldView `json:"fields" yaml:"fields"`
}

func Packet(p *protocol.Packet) PacketView {
	fields := p.Fields()
	view := PacketView{
		Key:    p.Key().String(),
		Size:   p.Template().Size(),
		Fields: make([]FieldView, len(fields)),
	}
	for i, f := range fields {
		v := f.Value
		view.Fields[i] = FieldView{
			Section: f.Section.String(),
			Name:    f.Name,
			Width:   f.Width.String(),
			Value:   &v,
		}
	}
	return view
}

func Layout(t *protocol.Template) LayoutView {
	view := LayoutView{
		Key:    t.Key().String(),
		Format: t.Format(),
		Size:   t.Size(),
	}
	for _, b := range t.Bounds() {
		view.Bounds = append(view.Bounds, BoundView{Section: b.Section.String(), Count: b.Count})
	}
	for i, f := range t.Fields() {
		view.Fields = append(view.Fields, FieldView{
			Section: t.SectionOf(i).String(),
			Name:    f.Name,
			Width:   f.Width.String(),
			Default: f.Default.String(),
		})
	}
	return view
}

// Layouts resolves every key of c's registry in declaration order.
func Layouts(c *protocol.Codec) ([]LayoutView, error) {
	keys := c.Registry().Keys()
	out := make([]LayoutView, 0, len(keys))
	for _, key := range keys {
		t, err := c.ResolveKey(key)
		if err != nil {
			return nil, err
		}
		out = append(out, Layout(t))
	}
	return out, nil
}

// Write renders v, a view or slice of views, to w.
func Write(w io.Writer, f Format, v any) error {
	switch f {
	case FormatText, "":
		return writeText(w, v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatCBOR:
		b, err := encMode.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}
