package metamodel

import (
	"fmt"
	"strings"
)

// AccessType tells whether persistent state is read through fields or
// through getter methods.
type AccessType uint8

// Access types. AccessUnknown is the zero value and means that no access
// type could be determined.
const (
	AccessUnknown AccessType = iota
	AccessField
	AccessProperty
)

// String returns the annotation value of the access type.
func (a AccessType) String() string {
	switch a {
	case AccessField:
		return "FIELD"
	case AccessProperty:
		return "PROPERTY"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a AccessType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AccessType) UnmarshalText(text []byte) error {
	v, err := ParseAccessType(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAccessType parses an access type annotation value. The empty
// string parses to AccessUnknown.
func ParseAccessType(s string) (AccessType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return AccessUnknown, nil
	case "FIELD":
		return AccessField, nil
	case "PROPERTY":
		return AccessProperty, nil
	default:
		return AccessUnknown, fmt.Errorf("metamodel: unknown access type %q", s)
	}
}

// InheritanceType is the mapping strategy of an entity hierarchy.
type InheritanceType uint8

// Inheritance strategies. SingleTable is the default.
const (
	SingleTable InheritanceType = iota
	Joined
	TablePerClass
)

// String returns the annotation value of the strategy.
func (t InheritanceType) String() string {
	switch t {
	case Joined:
		return "JOINED"
	case TablePerClass:
		return "TABLE_PER_CLASS"
	default:
		return "SINGLE_TABLE"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t InheritanceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *InheritanceType) UnmarshalText(text []byte) error {
	v, err := ParseInheritanceType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseInheritanceType parses an inheritance strategy. The empty string
// parses to SingleTable.
func ParseInheritanceType(s string) (InheritanceType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "SINGLE_TABLE":
		return SingleTable, nil
	case "JOINED":
		return Joined, nil
	case "TABLE_PER_CLASS":
		return TablePerClass, nil
	default:
		return SingleTable, fmt.Errorf("metamodel: unknown inheritance type %q", s)
	}
}

// OptimisticLockStyle is the optimistic locking style of a hierarchy.
type OptimisticLockStyle uint8

// Optimistic lock styles. LockVersion is the default.
const (
	LockVersion OptimisticLockStyle = iota
	LockNone
	LockDirty
	LockAll
)

// String returns the annotation value of the style.
func (s OptimisticLockStyle) String() string {
	switch s {
	case LockNone:
		return "NONE"
	case LockDirty:
		return "DIRTY"
	case LockAll:
		return "ALL"
	default:
		return "VERSION"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s OptimisticLockStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *OptimisticLockStyle) UnmarshalText(text []byte) error {
	v, err := ParseOptimisticLockStyle(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseOptimisticLockStyle parses an optimistic locking type. The empty
// string parses to LockVersion.
func ParseOptimisticLockStyle(s string) (OptimisticLockStyle, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "VERSION":
		return LockVersion, nil
	case "NONE":
		return LockNone, nil
	case "DIRTY":
		return LockDirty, nil
	case "ALL":
		return LockAll, nil
	default:
		return LockVersion, fmt.Errorf("metamodel: unknown optimistic lock style %q", s)
	}
}
