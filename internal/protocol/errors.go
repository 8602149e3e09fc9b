package protocol

import (
	"errors"
	"fmt"
	"strings"

	"github.com/voxboxor/voxboxor/internal/protocol/schema"
)

var (
	ErrInvalidOrigin         = schema.ErrInvalidOrigin
	ErrSchemaConfig          = schema.ErrConfig
	ErrUnknownKind           = errors.New("protocol: unknown packet kind")
	ErrNoBasicHeader         = errors.New("protocol: no basic header")
	ErrMissingBody           = errors.New("protocol: missing body definition")
	ErrConflictingBody       = errors.New("protocol: conflicting body definition")
	ErrMissingRequiredFields = errors.New("protocol: missing required fields")
	ErrPacketLength          = errors.New("protocol: packet length mismatch")
	ErrUnknownField          = errors.New("protocol: unknown field name")
	ErrFieldNotFound         = errors.New("protocol: field not found")
	ErrValueRange            = errors.New("protocol: value out of range")
	ErrUnsupportedValue      = errors.New("protocol: unsupported value type")
)

// NoBasicHeaderError reports a key without a basic section.
type NoBasicHeaderError struct {
	Key schema.Key
}

func (e *NoBasicHeaderError) Error() string {
	return fmt.Sprintf("protocol: there is no basic header for %s", e.Key)
}

func (e *NoBasicHeaderError) Unwrap() error { return ErrNoBasicHeader }

// BodyDefinitionError reports a key that carries both or neither of the
// original and control sections.
type BodyDefinitionError struct {
	Key         schema.Key
	Conflicting bool
}

func (e *BodyDefinitionError) Error() string {
	if e.Conflicting {
		return fmt.Sprintf("protocol: %s defines both an original and a control section", e.Key)
	}
	return fmt.Sprintf("protocol: %s defines neither an original nor a control section", e.Key)
}

func (e *BodyDefinitionError) Unwrap() error {
	if e.Conflicting {
		return ErrConflictingBody
	}
	return ErrMissingBody
}

// MissingFieldsError lists every required field the caller did not supply.
type MissingFieldsError struct {
	Key   schema.Key
	Names []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("protocol: constructing a %s packet requires values for: %s",
		e.Key, strings.Join(e.Names, ", "))
}

func (e *MissingFieldsError) Unwrap() error { return ErrMissingRequiredFields }

// LengthMismatchError reports a packet whose size differs from its template.
type LengthMismatchError struct {
	Key      schema.Key
	Expected int
	Actual   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("protocol: %s packet length %d, expected %d", e.Key, e.Actual, e.Expected)
}

func (e *LengthMismatchError) Unwrap() error { return ErrPacketLength }

// UnknownFieldError reports a name no section of the schema defines.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("protocol: no section defines field %q", e.Name)
}

func (e *UnknownFieldError) Unwrap() error { return ErrUnknownField }

// FieldNotFoundError reports a name missing from one section of a packet,
// even when another section of the same packet has it.
type FieldNotFoundError struct {
	Name    string
	Section schema.Section
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("protocol: there is no %s in %s", e.Name, e.Section)
}

func (e *FieldNotFoundError) Unwrap() error { return ErrFieldNotFound }

// ValueError reports a supplied value that cannot be coerced to its field.
type ValueError struct {
	Name  string
	Width schema.Width
	Value any
	Err   error // ErrValueRange or ErrUnsupportedValue
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%v: %s (%s) = %#v", e.Err, e.Name, e.Width, e.Value)
}

func (e *ValueError) Unwrap() error { return e.Err }

// SchemaConfigError reports a template that breaks the parallel-length
// invariant. It can only come from a broken registry.
type SchemaConfigError struct {
	Key    schema.Key
	Reason string
}

func (e *SchemaConfigError) Error() string {
	return fmt.Sprintf("protocol: the packet definitions are bad for %s: %s", e.Key, e.Reason)
}

func (e *SchemaConfigError) Unwrap() error { return ErrSchemaConfig }
