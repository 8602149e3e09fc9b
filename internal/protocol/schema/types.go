package schema

import (
	"fmt"
	"strings"
)

// Width is the fixed wire width of one field.
type Width uint8

const (
	U8 Width = iota + 1
	U16
	U32
)

// Size returns the number of bytes a field of width w occupies.
func (w Width) Size() int {
	switch w {
	case U8:
		return 1
	case U16:
		return 2
	case U32:
		return 4
	default:
		return 0
	}
}

// Max returns the largest value representable in w.
func (w Width) Max() uint32 {
	switch w {
	case U8:
		return 0xff
	case U16:
		return 0xffff
	case U32:
		return 0xffffffff
	default:
		return 0
	}
}

// Valid reports whether w is one of U8, U16 or U32.
func (w Width) Valid() bool { return w.Size() != 0 }

func (w Width) String() string {
	switch w {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	default:
		return fmt.Sprintf("Width(%d)", uint8(w))
	}
}

// Section is one structural block of a packet.
type Section uint8

const (
	Basic Section = iota
	Reliable
	Original
	Control
)

var sectionNames = [...]string{
	Basic:    "basic",
	Reliable: "reliable",
	Original: "original",
	Control:  "control",
}

// Sections lists every section in wire order.
func Sections() []Section {
	return []Section{Basic, Reliable, Original, Control}
}

func (s Section) String() string {
	if int(s) < len(sectionNames) {
		return sectionNames[s]
	}
	return fmt.Sprintf("Section(%d)", uint8(s))
}

// Valid reports whether s is a known section.
func (s Section) Valid() bool { return int(s) < len(sectionNames) }

// ParseSection maps a section name such as "control" to its Section.
func ParseSection(name string) (Section, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range sectionNames {
		if n == name {
			return Section(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSection, name)
}

// Origin is the side of the connection a packet is sent from.
type Origin uint8

const (
	Client Origin = iota + 1
	Server
)

// Valid reports whether o is Client or Server.
func (o Origin) Valid() bool { return o == Client || o == Server }

// Prefix returns the one letter prefix of o used in legacy packet keys.
func (o Origin) Prefix() string {
	switch o {
	case Client:
		return "c"
	case Server:
		return "s"
	default:
		return "?"
	}
}

func (o Origin) String() string {
	switch o {
	case Client:
		return "client"
	case Server:
		return "server"
	default:
		return fmt.Sprintf("Origin(%d)", uint8(o))
	}
}

// ParseOrigin accepts exactly "client" or "server".
func ParseOrigin(s string) (Origin, error) {
	switch s {
	case "client":
		return Client, nil
	case "server":
		return Server, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidOrigin, s)
	}
}

// Key selects one packet shape.
type Key struct {
	Origin  Origin
	Purpose string
}

// String renders k in the "c_connect" form.
func (k Key) String() string {
	return k.Origin.Prefix() + "_" + k.Purpose
}

// Value is the default of one field. The zero Value means the field
// has no default and must be supplied when encoding.
type Value struct {
	v   uint32
	set bool
}

// Required marks a field that must be supplied by the caller.
var Required Value

// Fixed returns a Value holding v.
func Fixed(v uint32) Value { return Value{v: v, set: true} }

// Get returns the default and whether one is set.
func (v Value) Get() (uint32, bool) { return v.v, v.set }

func (v Value) String() string {
	if !v.set {
		return "REQ"
	}
	return fmt.Sprint(v.v)
}

// FieldSpec describes one field of a resolved section.
type FieldSpec struct {
	Name    string
	Width   Width
	Default Value
}

// Required reports whether f has no default.
func (f FieldSpec) Required() bool {
	_, ok := f.Default.Get()
	return !ok
}

// Layout is the wire shape of a section: parallel names and widths.
type Layout struct {
	Names  []string
	Widths []Width
}

// Len returns the field count of l.
func (l Layout) Len() int { return len(l.Names) }
