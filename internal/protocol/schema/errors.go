package schema

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidOrigin  = errors.New("schema: origin must be client or server")
	ErrUnknownSection = errors.New("schema: unknown section")
	ErrMissingAspect  = errors.New("schema: missing aspect")
	ErrConfig         = errors.New("schema: bad packet definition")
)

// Aspect is one part of a section definition.
type Aspect uint8

const (
	AspectNames Aspect = iota
	AspectWidths
	AspectDefaults
)

func (a Aspect) String() string {
	switch a {
	case AspectNames:
		return "names"
	case AspectWidths:
		return "widths"
	case AspectDefaults:
		return "defaults"
	default:
		return fmt.Sprintf("Aspect(%d)", uint8(a))
	}
}

// MissingAspectError reports that neither key nor the wildcard define aspect.
type MissingAspectError struct {
	Section Section
	Key     Key
	Aspect  Aspect
}

func (e *MissingAspectError) Error() string {
	return fmt.Sprintf("schema: there is no %s for section=%s key=%s", e.Aspect, e.Section, e.Key)
}

func (e *MissingAspectError) Unwrap() error { return ErrMissingAspect }

// ConfigError reports a definition that violates the registry invariants.
// It is a programming error in the packet table, not a request error.
type ConfigError struct {
	Section Section
	Key     *Key // nil for the wildcard
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.Key == nil {
		return fmt.Sprintf("schema: section=%s wildcard: %s", e.Section, e.Reason)
	}
	return fmt.Sprintf("schema: section=%s key=%s: %s", e.Section, e.Key, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }
