package metamodel

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the categorization failures. Every typed error below
// matches exactly one of them with errors.Is.
var (
	// ErrMultipleNatures is returned when the annotations of a member imply
	// more than one attribute nature.
	ErrMultipleNatures = errors.New("metamodel: multiple attribute natures")

	// ErrAccessPlacement is returned when @Access(FIELD) is placed on a
	// method or @Access(PROPERTY) on a field.
	ErrAccessPlacement = errors.New("metamodel: access type placement")

	// ErrMultipleCallbacks is returned when a class declares more than one
	// method for the same lifecycle callback.
	ErrMultipleCallbacks = errors.New("metamodel: multiple callback methods")

	// ErrIDMapping is returned when no identifier attribute was found for a
	// hierarchy.
	ErrIDMapping = errors.New("metamodel: unable to determine id attribute(s)")

	// ErrUnexpectedNature is returned when an id or natural-id attribute has
	// a nature other than basic, embedded or to-one.
	ErrUnexpectedNature = errors.New("metamodel: unexpected attribute nature")

	// ErrHierarchyLookup is returned when a class cannot be matched to any
	// entity hierarchy.
	ErrHierarchyLookup = errors.New("metamodel: hierarchy lookup failed")

	// ErrAccessType is returned in strict mode when the default access type
	// of a hierarchy cannot be determined.
	ErrAccessType = errors.New("metamodel: access type cannot be determined")

	// ErrInvalidModel is returned for structural problems of the class model
	// such as duplicate classes or attributes.
	ErrInvalidModel = errors.New("metamodel: invalid class model")

	// ErrInvalidConfig is returned when an option carries an invalid value.
	ErrInvalidConfig = errors.New("metamodel: invalid configuration")
)

// MultipleNaturesError reports a member whose annotations imply
// conflicting attribute natures.
type MultipleNaturesError struct {
	Member  string   // Declaring class and member name.
	Natures []string // Conflicting natures, sorted.
}

// Error returns the error string.
func (e *MultipleNaturesError) Error() string {
	return fmt.Sprintf("metamodel: multiple attribute natures found for %s: %s", e.Member, strings.Join(e.Natures, ", "))
}

// Is reports whether the target matches ErrMultipleNatures.
func (e *MultipleNaturesError) Is(target error) bool {
	return target == ErrMultipleNatures
}

// NewMultipleNaturesError returns a new MultipleNaturesError.
func NewMultipleNaturesError(member string, natures []string) *MultipleNaturesError {
	return &MultipleNaturesError{Member: member, Natures: natures}
}

// AccessPlacementError reports an attribute-level @Access annotation placed
// on the wrong kind of member.
type AccessPlacementError struct {
	Member string
	Access AccessType
}

// Error returns the error string.
func (e *AccessPlacementError) Error() string {
	target := "field"
	if e.Access == AccessField {
		target = "method"
	}
	return fmt.Sprintf("metamodel: @Access(%s) placed on %s %s", e.Access, target, e.Member)
}

// Is reports whether the target matches ErrAccessPlacement.
func (e *AccessPlacementError) Is(target error) bool {
	return target == ErrAccessPlacement
}

// NewAccessPlacementError returns a new AccessPlacementError.
func NewAccessPlacementError(member string, access AccessType) *AccessPlacementError {
	return &AccessPlacementError{Member: member, Access: access}
}

// MultipleCallbacksError reports a class with more than one method for
// the same lifecycle callback.
type MultipleCallbacksError struct {
	Class    string
	Callback string
	Methods  []string
}

// Error returns the error string.
func (e *MultipleCallbacksError) Error() string {
	return fmt.Sprintf("metamodel: multiple @%s methods on %s: %s", e.Callback, e.Class, strings.Join(e.Methods, ", "))
}

// Is reports whether the target matches ErrMultipleCallbacks.
func (e *MultipleCallbacksError) Is(target error) bool {
	return target == ErrMultipleCallbacks
}

// NewMultipleCallbacksError returns a new MultipleCallbacksError.
func NewMultipleCallbacksError(class, callback string, methods ...string) *MultipleCallbacksError {
	return &MultipleCallbacksError{Class: class, Callback: callback, Methods: methods}
}

// IDMappingError reports a hierarchy without identifier attributes.
type IDMappingError struct {
	Hierarchy string // Root entity class name.
}

// Error returns the error string.
func (e *IDMappingError) Error() string {
	return fmt.Sprintf("metamodel: unable to determine id attribute(s) for hierarchy %s", e.Hierarchy)
}

// Is reports whether the target matches ErrIDMapping.
func (e *IDMappingError) Is(target error) bool {
	return target == ErrIDMapping
}

// NewIDMappingError returns a new IDMappingError.
func NewIDMappingError(hierarchy string) *IDMappingError {
	return &IDMappingError{Hierarchy: hierarchy}
}

// UnexpectedNatureError reports an id or natural-id attribute whose nature
// cannot form a key mapping.
type UnexpectedNatureError struct {
	Hierarchy string
	Attribute string
	Nature    string
	NaturalID bool
}

// Error returns the error string.
func (e *UnexpectedNatureError) Error() string {
	kind := "id"
	if e.NaturalID {
		kind = "natural-id"
	}
	return fmt.Sprintf("metamodel: unexpected attribute nature %s for %s attribute %q of hierarchy %s", e.Nature, kind, e.Attribute, e.Hierarchy)
}

// Is reports whether the target matches ErrUnexpectedNature.
func (e *UnexpectedNatureError) Is(target error) bool {
	return target == ErrUnexpectedNature
}

// NewUnexpectedNatureError returns a new UnexpectedNatureError.
func NewUnexpectedNatureError(hierarchy, attribute, nature string, naturalID bool) *UnexpectedNatureError {
	return &UnexpectedNatureError{Hierarchy: hierarchy, Attribute: attribute, Nature: nature, NaturalID: naturalID}
}

// HierarchyLookupError reports a class that belongs to no known hierarchy.
type HierarchyLookupError struct {
	Class string
}

// Error returns the error string.
func (e *HierarchyLookupError) Error() string {
	return fmt.Sprintf("metamodel: unable to find entity hierarchy for %s", e.Class)
}

// Is reports whether the target matches ErrHierarchyLookup.
func (e *HierarchyLookupError) Is(target error) bool {
	return target == ErrHierarchyLookup
}

// NewHierarchyLookupError returns a new HierarchyLookupError.
func NewHierarchyLookupError(class string) *HierarchyLookupError {
	return &HierarchyLookupError{Class: class}
}

// AccessTypeError reports a root entity whose default access type cannot
// be determined.
type AccessTypeError struct {
	Class string
}

// Error returns the error string.
func (e *AccessTypeError) Error() string {
	return fmt.Sprintf("metamodel: unable to determine default access type for hierarchy rooted at %s", e.Class)
}

// Is reports whether the target matches ErrAccessType.
func (e *AccessTypeError) Is(target error) bool {
	return target == ErrAccessType
}

// NewAccessTypeError returns a new AccessTypeError.
func NewAccessTypeError(class string) *AccessTypeError {
	return &AccessTypeError{Class: class}
}

// ModelError reports a structural problem of the class model.
type ModelError struct {
	Class   string
	Member  string
	Message string
	Cause   error
}

// Error returns the error string.
func (e *ModelError) Error() string {
	var b strings.Builder
	b.WriteString("metamodel: invalid class model")
	if e.Class != "" {
		b.WriteString(" on class ")
		b.WriteString(e.Class)
	}
	if e.Member != "" {
		b.WriteString(" member ")
		b.WriteString(e.Member)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ModelError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrInvalidModel.
func (e *ModelError) Is(target error) bool {
	return target == ErrInvalidModel
}

// NewModelError returns a new ModelError.
func NewModelError(class, member, message string, cause error) *ModelError {
	return &ModelError{Class: class, Member: member, Message: message, Cause: cause}
}

// ConfigError represents an invalid option value.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("metamodel: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("metamodel: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// IsMultipleNatures reports whether err is a MultipleNaturesError.
func IsMultipleNatures(err error) bool {
	var e *MultipleNaturesError
	return errors.As(err, &e)
}

// IsAccessPlacement reports whether err is an AccessPlacementError.
func IsAccessPlacement(err error) bool {
	var e *AccessPlacementError
	return errors.As(err, &e)
}

// IsMultipleCallbacks reports whether err is a MultipleCallbacksError.
func IsMultipleCallbacks(err error) bool {
	var e *MultipleCallbacksError
	return errors.As(err, &e)
}

// IsIDMapping reports whether err is an IDMappingError.
func IsIDMapping(err error) bool {
	var e *IDMappingError
	return errors.As(err, &e)
}

// IsHierarchyLookup reports whether err is a HierarchyLookupError.
func IsHierarchyLookup(err error) bool {
	var e *HierarchyLookupError
	return errors.As(err, &e)
}

// IsModelError reports whether err is a ModelError.
func IsModelError(err error) bool {
	var e *ModelError
	return errors.As(err, &e)
}

// AggregateError represents multiple errors collected during an operation.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "metamodel: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("metamodel: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
