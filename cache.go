package metamodel

import (
	"fmt"
	"strings"
)

// SharedCacheMode controls which entity hierarchies are stored in the
// second-level cache.
type SharedCacheMode uint8

// Shared cache modes. CacheUnspecified behaves like CacheEnableSelective.
const (
	CacheUnspecified SharedCacheMode = iota
	CacheEnableSelective
	CacheDisableSelective
	CacheAll
	CacheNone
)

// String returns the configuration value of the mode.
func (m SharedCacheMode) String() string {
	switch m {
	case CacheEnableSelective:
		return "ENABLE_SELECTIVE"
	case CacheDisableSelective:
		return "DISABLE_SELECTIVE"
	case CacheAll:
		return "ALL"
	case CacheNone:
		return "NONE"
	default:
		return "UNSPECIFIED"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m SharedCacheMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *SharedCacheMode) UnmarshalText(text []byte) error {
	v, err := ParseSharedCacheMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseSharedCacheMode parses a shared cache mode.
func ParseSharedCacheMode(s string) (SharedCacheMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "UNSPECIFIED":
		return CacheUnspecified, nil
	case "ENABLE_SELECTIVE":
		return CacheEnableSelective, nil
	case "DISABLE_SELECTIVE":
		return CacheDisableSelective, nil
	case "ALL":
		return CacheAll, nil
	case "NONE":
		return CacheNone, nil
	default:
		return CacheUnspecified, fmt.Errorf("metamodel: unknown shared cache mode %q", s)
	}
}

// CacheAccessType is the concurrency strategy of a cache region.
type CacheAccessType uint8

// Cache access types.
const (
	CacheAccessUnknown CacheAccessType = iota
	ReadOnly
	ReadWrite
	NonstrictReadWrite
	Transactional
)

// String returns the configuration value of the access type.
func (a CacheAccessType) String() string {
	switch a {
	case ReadOnly:
		return "READ_ONLY"
	case ReadWrite:
		return "READ_WRITE"
	case NonstrictReadWrite:
		return "NONSTRICT_READ_WRITE"
	case Transactional:
		return "TRANSACTIONAL"
	default:
		return "NONE"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a CacheAccessType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *CacheAccessType) UnmarshalText(text []byte) error {
	v, err := ParseCacheAccessType(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseCacheAccessType parses a cache access type. Both the region access
// names (read-only) and the concurrency strategy names (READ_ONLY) are
// accepted.
func ParseCacheAccessType(s string) (CacheAccessType, error) {
	switch strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_") {
	case "", "NONE":
		return CacheAccessUnknown, nil
	case "READ_ONLY":
		return ReadOnly, nil
	case "READ_WRITE":
		return ReadWrite, nil
	case "NONSTRICT_READ_WRITE":
		return NonstrictReadWrite, nil
	case "TRANSACTIONAL":
		return Transactional, nil
	default:
		return CacheAccessUnknown, fmt.Errorf("metamodel: unknown cache access type %q", s)
	}
}
