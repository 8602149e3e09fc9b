package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Definition declares one section: the wildcard layout shared by every
// packet and the packet specific parts.
type Definition struct {
	Section  Section
	Wildcard *Layout
	Packets  []Packet
}

// Packet is the key specific part of a section definition.
// A nil Layout falls back to the wildcard. Defaults are always packet
// specific; a packet without Defaults does not carry the section.
type Packet struct {
	Key      Key
	Layout   *Layout
	Defaults []Value
}

type sectionDef struct {
	section  Section
	wildcard *Layout
	order    []Key
	packets  map[Key]Packet
}

// A Registry is the validated, read-only packet table.
// It is safe for concurrent use once built.
type Registry struct {
	defs  []*sectionDef
	bySec map[Section]*sectionDef
	keys  []Key
}

// NewRegistry validates defs and builds a Registry from them.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{bySec: make(map[Section]*sectionDef, len(defs))}
	for _, def := range defs {
		if !def.Section.Valid() {
			return nil, &ConfigError{Section: def.Section, Reason: "unknown section"}
		}
		if _, dup := r.bySec[def.Section]; dup {
			return nil, &ConfigError{Section: def.Section, Reason: "section defined twice"}
		}
		if def.Wildcard != nil {
			if err := checkLayout(*def.Wildcard); err != nil {
				return nil, &ConfigError{Section: def.Section, Reason: err.Error()}
			}
		}

		sd := &sectionDef{
			section:  def.Section,
			wildcard: cloneLayout(def.Wildcard),
			packets:  make(map[Key]Packet, len(def.Packets)),
		}
		for _, p := range def.Packets {
			key := p.Key
			if err := checkPacket(sd, p); err != nil {
				return nil, &ConfigError{Section: def.Section, Key: &key, Reason: err.Error()}
			}
			sd.order = append(sd.order, key)
			sd.packets[key] = Packet{
				Key:      key,
				Layout:   cloneLayout(p.Layout),
				Defaults: append([]Value(nil), p.Defaults...),
			}
			if def.Section == Basic {
				r.keys = append(r.keys, key)
			}
		}

		r.defs = append(r.defs, sd)
		r.bySec[def.Section] = sd
	}
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on a bad definition.
// Use it for tables built at process start.
func MustNewRegistry(defs ...Definition) *Registry {
	r, err := NewRegistry(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

func checkLayout(l Layout) error {
	if len(l.Names) != len(l.Widths) {
		return fmt.Errorf("length %d != %d for names <- widths", len(l.Names), len(l.Widths))
	}
	seen := make(map[string]struct{}, len(l.Names))
	for i, name := range l.Names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("field %d has no name", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("field name %q repeated within section", name)
		}
		seen[name] = struct{}{}
		if !l.Widths[i].Valid() {
			return fmt.Errorf("field %q has invalid width %s", name, l.Widths[i])
		}
	}
	return nil
}

func checkPacket(sd *sectionDef, p Packet) error {
	if !p.Key.Origin.Valid() {
		return ErrInvalidOrigin
	}
	if strings.TrimSpace(p.Key.Purpose) == "" {
		return errors.New("empty purpose")
	}
	if _, dup := sd.packets[p.Key]; dup {
		return errors.New("key defined twice")
	}
	layout := p.Layout
	if layout == nil {
		layout = sd.wildcard
	}
	if layout == nil {
		return errors.New("unresolved wildcard: no layout for key and no wildcard")
	}
	if err := checkLayout(*layout); err != nil {
		return err
	}
	if p.Defaults == nil {
		return errors.New("layout without defaults")
	}
	if len(p.Defaults) != layout.Len() {
		return fmt.Errorf("length %d != %d for names <- defaults", layout.Len(), len(p.Defaults))
	}
	for i, d := range p.Defaults {
		if v, ok := d.Get(); ok && v > layout.Widths[i].Max() {
			return fmt.Errorf("default %d of %q overflows %s", v, layout.Names[i], layout.Widths[i])
		}
	}
	return nil
}

func cloneLayout(l *Layout) *Layout {
	if l == nil {
		return nil
	}
	return &Layout{
		Names:  append([]string(nil), l.Names...),
		Widths: append([]Width(nil), l.Widths...),
	}
}

func (r *Registry) layout(s Section, k Key, a Aspect) (*Layout, error) {
	sd := r.bySec[s]
	if sd == nil {
		return nil, &MissingAspectError{Section: s, Key: k, Aspect: a}
	}
	if p, ok := sd.packets[k]; ok && p.Layout != nil {
		return p.Layout, nil
	}
	if sd.wildcard != nil {
		return sd.wildcard, nil
	}
	return nil, &MissingAspectError{Section: s, Key: k, Aspect: a}
}

// Names returns the field names of section s for k, falling back to the
// wildcard.
func (r *Registry) Names(s Section, k Key) ([]string, error) {
	l, err := r.layout(s, k, AspectNames)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), l.Names...), nil
}

// Widths returns the field widths of section s for k, falling back to the
// wildcard.
func (r *Registry) Widths(s Section, k Key) ([]Width, error) {
	l, err := r.layout(s, k, AspectWidths)
	if err != nil {
		return nil, err
	}
	return append([]Width(nil), l.Widths...), nil
}

// Defaults returns the default tuple of section s for k.
// Defaults never fall back to the wildcard.
func (r *Registry) Defaults(s Section, k Key) ([]Value, error) {
	if sd := r.bySec[s]; sd != nil {
		if p, ok := sd.packets[k]; ok {
			return append([]Value(nil), p.Defaults...), nil
		}
	}
	return nil, &MissingAspectError{Section: s, Key: k, Aspect: AspectDefaults}
}

// HasDefaults reports whether k carries section s.
func (r *Registry) HasDefaults(s Section, k Key) bool {
	sd := r.bySec[s]
	if sd == nil {
		return false
	}
	_, ok := sd.packets[k]
	return ok
}

// Fields returns the resolved field records of section s for k.
// ok is false when k does not carry s.
func (r *Registry) Fields(s Section, k Key) (fields []FieldSpec, ok bool, err error) {
	if !r.HasDefaults(s, k) {
		return nil, false, nil
	}
	l, err := r.layout(s, k, AspectNames)
	if err != nil {
		return nil, false, err
	}
	defaults := r.bySec[s].packets[k].Defaults
	return buildFields(*l, defaults), true, nil
}

func buildFields(l Layout, defaults []Value) []FieldSpec {
	fields := make([]FieldSpec, len(l.Names))
	for i := range l.Names {
		fields[i] = FieldSpec{Name: l.Names[i], Width: l.Widths[i], Default: defaults[i]}
	}
	return fields
}

// Keys returns every key that has a basic header, in declaration order.
func (r *Registry) Keys() []Key {
	return append([]Key(nil), r.keys...)
}

// Walk calls fn for every packet specific section in declaration order,
// with its wildcard resolved. Walk stops when fn returns false.
func (r *Registry) Walk(fn func(s Section, k Key, fields []FieldSpec) bool) {
	for _, sd := range r.defs {
		for _, k := range sd.order {
			p := sd.packets[k]
			l := p.Layout
			if l == nil {
				l = sd.wildcard
			}
			if !fn(sd.section, k, buildFields(*l, p.Defaults)) {
				return
			}
		}
	}
}
