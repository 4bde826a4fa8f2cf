package categorize

import (
	"github.com/syssam/metamodel"
	"github.com/syssam/metamodel/compiler/load"
	"github.com/syssam/metamodel/schema"
)

// ClassModel is the class model a pass categorizes. *load.Registry
// implements it; a model that also has a Mappings() []*load.Mappings
// method contributes its mapping documents.
type ClassModel interface {
	// Class returns the class with the given name.
	Class(name string) (*load.ClassDetails, bool)
	// DirectSubtypes returns the classes directly extending name.
	DirectSubtypes(name string) []*load.ClassDetails
	// Classes returns all classes of the model.
	Classes() []*load.ClassDetails
}

// AttributeMetadata is a persistent attribute with its nature.
type AttributeMetadata struct {
	name   string
	nature AttributeNature
	member *load.Member
}

// Name returns the attribute name.
func (a *AttributeMetadata) Name() string { return a.name }

// Nature returns the attribute nature.
func (a *AttributeMetadata) Nature() AttributeNature { return a.nature }

// Member returns the field or getter backing the attribute.
func (a *AttributeMetadata) Member() *load.Member { return a.member }

// String implements fmt.Stringer.
func (a *AttributeMetadata) String() string {
	return a.name + " (" + a.nature.String() + ")"
}

// ManagedType is implemented by the metadata of every categorized class.
type ManagedType interface {
	// Class returns the underlying class.
	Class() *load.ClassDetails
	// ClassName returns the fully qualified class name.
	ClassName() string
	// AccessType returns the access type the attributes were resolved with.
	AccessType() metamodel.AccessType
	// Attributes returns the attributes declared by the class.
	Attributes() []*AttributeMetadata
	// FindAttribute returns the attribute with the given name, or nil.
	FindAttribute(name string) *AttributeMetadata
}

// ManagedTypeMetadata is a class with its resolved attributes.
type ManagedTypeMetadata struct {
	class      *load.ClassDetails
	access     metamodel.AccessType
	attributes []*AttributeMetadata
	byName     map[string]*AttributeMetadata
}

// NewManagedTypeMetadata resolves the attributes of a class. A class-level
// @Access overrides the given default access type.
func NewManagedTypeMetadata(c *load.ClassDetails, defaultAccess metamodel.AccessType, model ClassModel, cfg *Config) (*ManagedTypeMetadata, error) {
	access, err := classAccess(c, defaultAccess)
	if err != nil {
		return nil, err
	}
	members, err := ResolveMembers(c, access)
	if err != nil {
		return nil, err
	}
	t := &ManagedTypeMetadata{
		class:      c,
		access:     access,
		attributes: make([]*AttributeMetadata, 0, len(members)),
		byName:     make(map[string]*AttributeMetadata, len(members)),
	}
	for _, m := range members {
		nature, err := DetermineNature(m, model, cfg.logger())
		if err != nil {
			return nil, err
		}
		a := &AttributeMetadata{name: m.AttributeName(), nature: nature, member: m}
		if _, ok := t.byName[a.name]; ok {
			return nil, metamodel.NewModelError(c.Name, m.Name, "duplicate attribute "+a.name, nil)
		}
		t.byName[a.name] = a
		t.attributes = append(t.attributes, a)
	}
	return t, nil
}

// Class returns the underlying class.
func (t *ManagedTypeMetadata) Class() *load.ClassDetails { return t.class }

// ClassName returns the fully qualified class name.
func (t *ManagedTypeMetadata) ClassName() string { return t.class.Name }

// AccessType returns the access type the attributes were resolved with.
func (t *ManagedTypeMetadata) AccessType() metamodel.AccessType { return t.access }

// Attributes returns the attributes declared by the class, in resolution
// order.
func (t *ManagedTypeMetadata) Attributes() []*AttributeMetadata {
	return append([]*AttributeMetadata(nil), t.attributes...)
}

// NumberOfAttributes returns the number of declared attributes.
func (t *ManagedTypeMetadata) NumberOfAttributes() int { return len(t.attributes) }

// FindAttribute returns the declared attribute with the given name, or nil.
func (t *ManagedTypeMetadata) FindAttribute(name string) *AttributeMetadata {
	return t.byName[name]
}

// classAccess returns the class-level @Access value, or def when absent.
func classAccess(c *load.ClassDetails, def metamodel.AccessType) (metamodel.AccessType, error) {
	a := c.Annotation(schema.Access)
	if a == nil {
		return def, nil
	}
	access, err := metamodel.ParseAccessType(a.String("value", ""))
	if err != nil {
		return def, metamodel.NewModelError(c.Name, "", "invalid @Access value", err)
	}
	if access == metamodel.AccessUnknown {
		return def, nil
	}
	return access, nil
}
