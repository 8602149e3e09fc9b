package protocol

import (
	"github.com/voxboxor/voxboxor/internal/protocol/schema"
)

// A Packet is a decoded packet: values paired 1:1 with the fields of its
// template. Names repeat across sections, so every lookup is qualified by
// section.
type Packet struct {
	tmpl   *Template
	values []uint32
}

// DecodedField is one field of a Packet in wire order.
type DecodedField struct {
	Section schema.Section
	Name    string
	Width   schema.Width
	Value   uint32
}

// Template returns the template p was decoded with.
func (p *Packet) Template() *Template { return p.tmpl }

// Key returns the packet key of p.
func (p *Packet) Key() schema.Key { return p.tmpl.key }

// Len returns the number of fields in p.
func (p *Packet) Len() int { return len(p.values) }

// Get returns the value of name within section.
// Unqualified lookup is not supported: "type" exists in several sections.
func (p *Packet) Get(name string, section schema.Section) (uint32, error) {
	i, ok := p.tmpl.lookup(name, section)
	if !ok {
		return 0, &FieldNotFoundError{Name: name, Section: section}
	}
	return p.values[i], nil
}

// PeerID returns a u16 field of section as a schema.PeerID.
func (p *Packet) PeerID(name string, section schema.Section) (schema.PeerID, error) {
	v, err := p.Get(name, section)
	if err != nil {
		return 0, err
	}
	return schema.PeerID(v), nil
}

// Values returns a copy of the ordered values.
func (p *Packet) Values() []uint32 {
	return append([]uint32(nil), p.values...)
}

// Fields returns every field of p in wire order.
func (p *Packet) Fields() []DecodedField {
	out := make([]DecodedField, len(p.values))
	for i, f := range p.tmpl.fields {
		out[i] = DecodedField{
			Section: p.tmpl.SectionOf(i),
			Name:    f.Name,
			Width:   f.Width,
			Value:   p.values[i],
		}
	}
	return out
}

// Section returns the fields of section s, or false if p does not carry it.
func (p *Packet) Section(s schema.Section) ([]DecodedField, bool) {
	if !p.tmpl.HasSection(s) {
		return nil, false
	}
	var out []DecodedField
	for _, f := range p.Fields() {
		if f.Section == s {
			out = append(out, f)
		}
	}
	return out, true
}

// matchesDefaults reports whether every defaulted field outside the
// skipped section holds its default.
func (p *Packet) matchesDefaults(skip schema.Section) bool {
	for i, f := range p.tmpl.fields {
		if p.tmpl.SectionOf(i) == skip {
			continue
		}
		if v, ok := f.Default.Get(); ok && p.values[i] != v {
			return false
		}
	}
	return true
}
