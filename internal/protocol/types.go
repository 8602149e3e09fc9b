package protocol

import (
	"fmt"

	"github.com/voxboxor/voxboxor/internal/protocol/schema"
)

// Kind is one of the known packet shapes.
type Kind uint8

const (
	KindConnect Kind = iota + 1
	KindConnected
	KindDisconnect
)

var kindKeys = [...]schema.Key{
	KindConnect:    schema.ClientConnect,
	KindConnected:  schema.ServerConnected,
	KindDisconnect: schema.ClientDisconnect,
}

// Kinds lists every known Kind.
func Kinds() []Kind {
	return []Kind{KindConnect, KindConnected, KindDisconnect}
}

// Valid reports whether k is a known Kind.
func (k Kind) Valid() bool { return k >= KindConnect && int(k) < len(kindKeys) }

// Key returns the schema key of k.
func (k Kind) Key() schema.Key {
	if !k.Valid() {
		return schema.Key{}
	}
	return kindKeys[k]
}

// Origin returns the side that sends packets of kind k.
func (k Kind) Origin() schema.Origin { return k.Key().Origin }

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindKeys[k].String()
}

// KindOf maps a schema key to its Kind.
func KindOf(key schema.Key) (Kind, error) {
	for _, k := range Kinds() {
		if kindKeys[k] == key {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownKind, key)
}

// ParseKind maps an (origin, purpose) pair such as ("client", "connect")
// to its Kind.
func ParseKind(origin, purpose string) (Kind, error) {
	o, err := schema.ParseOrigin(origin)
	if err != nil {
		return 0, err
	}
	return KindOf(schema.Key{Origin: o, Purpose: purpose})
}
