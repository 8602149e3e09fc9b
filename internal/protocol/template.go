package protocol

import (
	"fmt"
	"strings"

	"github.com/voxboxor/voxboxor/internal/protocol/schema"
)

// Bound is one entry of a template's section-boundary index.
type Bound struct {
	Section schema.Section
	Count   int
}

type fieldRef struct {
	section schema.Section
	name    string
}

// A Template is the resolved wire layout of one packet key.
// Templates are immutable and safe for concurrent use.
type Template struct {
	key    schema.Key
	fields []schema.FieldSpec
	bounds []Bound
	starts []int // first field index of bounds[i]
	index  map[fieldRef]int
	size   int
}

// Key returns the packet key t was resolved for.
func (t *Template) Key() schema.Key { return t.key }

// Len returns the number of fields in t.
func (t *Template) Len() int { return len(t.fields) }

// Size returns the encoded size of t in bytes.
func (t *Template) Size() int { return t.size }

// Fields returns a copy of the ordered field records.
func (t *Template) Fields() []schema.FieldSpec {
	return append([]schema.FieldSpec(nil), t.fields...)
}

// Bounds returns a copy of the section-boundary index.
func (t *Template) Bounds() []Bound {
	return append([]Bound(nil), t.bounds...)
}

// Names returns the ordered field names. Names repeat across sections.
func (t *Template) Names() []string {
	names := make([]string, len(t.fields))
	for i, f := range t.fields {
		names[i] = f.Name
	}
	return names
}

// Widths returns the ordered format descriptor.
func (t *Template) Widths() []schema.Width {
	widths := make([]schema.Width, len(t.fields))
	for i, f := range t.fields {
		widths[i] = f.Width
	}
	return widths
}

// Format renders the format descriptor, e.g. "u32 u16 u8".
func (t *Template) Format() string {
	parts := make([]string, len(t.fields))
	for i, f := range t.fields {
		parts[i] = f.Width.String()
	}
	return strings.Join(parts, " ")
}

// HasSection reports whether t carries section s.
func (t *Template) HasSection(s schema.Section) bool {
	for _, b := range t.bounds {
		if b.Section == s {
			return true
		}
	}
	return false
}

// SectionOf returns the section of field i.
func (t *Template) SectionOf(i int) schema.Section {
	for j := len(t.starts) - 1; j >= 0; j-- {
		if i >= t.starts[j] {
			return t.bounds[j].Section
		}
	}
	return schema.Basic
}

// lookup finds the first field called name within section s.
func (t *Template) lookup(name string, s schema.Section) (int, bool) {
	i, ok := t.index[fieldRef{s, name}]
	return i, ok
}

// Field returns the record of name within section s.
func (t *Template) Field(name string, s schema.Section) (schema.FieldSpec, bool) {
	i, ok := t.lookup(name, s)
	if !ok {
		return schema.FieldSpec{}, false
	}
	return t.fields[i], true
}

// templateBuilder concatenates sections into a new Template. Registry
// slices are copied so no template shares mutable state with the schema.
type templateBuilder struct {
	t *Template
}

func newTemplateBuilder(key schema.Key) *templateBuilder {
	return &templateBuilder{t: &Template{key: key, index: make(map[fieldRef]int)}}
}

func (b *templateBuilder) add(s schema.Section, fields []schema.FieldSpec) {
	t := b.t
	t.starts = append(t.starts, len(t.fields))
	t.bounds = append(t.bounds, Bound{Section: s, Count: len(fields)})
	for _, f := range fields {
		ref := fieldRef{s, f.Name}
		if _, dup := t.index[ref]; !dup {
			t.index[ref] = len(t.fields)
		}
		t.fields = append(t.fields, f)
		t.size += f.Width.Size()
	}
}

func (b *templateBuilder) build() (*Template, error) {
	t := b.t
	total := 0
	for _, bd := range t.bounds {
		total += bd.Count
	}
	if total != len(t.fields) {
		return nil, &SchemaConfigError{
			Key:    t.key,
			Reason: fmt.Sprintf("section counts sum to %d but template has %d fields", total, len(t.fields)),
		}
	}
	for _, f := range t.fields {
		if !f.Width.Valid() {
			return nil, &SchemaConfigError{
				Key:    t.key,
				Reason: fmt.Sprintf("field %q has invalid width %s", f.Name, f.Width),
			}
		}
	}
	return t, nil
}
