package categorize

import (
	"github.com/syssam/metamodel"
	"github.com/syssam/metamodel/compiler/load"
	"github.com/syssam/metamodel/schema"
)

// TypeKind tells entities and mapped superclasses apart.
type TypeKind uint8

// Identifiable type kinds.
const (
	EntityType TypeKind = iota
	MappedSuperclassType
)

// String returns the kind name.
func (k TypeKind) String() string {
	if k == MappedSuperclassType {
		return "MAPPED_SUPERCLASS"
	}
	return "ENTITY"
}

// MarshalText implements encoding.TextMarshaler.
func (k TypeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IdentifiableTypeMetadata is an entity or mapped superclass of a
// hierarchy, linked to its super type and sub types.
type IdentifiableTypeMetadata struct {
	*ManagedTypeMetadata

	kind       TypeKind
	entityName string
	hierarchy  *EntityHierarchy
	super      *IdentifiableTypeMetadata
	subs       []*IdentifiableTypeMetadata
	callbacks  *JpaEventListener
	listeners  []*JpaEventListener
}

// Kind returns whether the type is an entity or a mapped superclass.
func (t *IdentifiableTypeMetadata) Kind() TypeKind { return t.kind }

// IsEntity reports whether the type is an entity.
func (t *IdentifiableTypeMetadata) IsEntity() bool { return t.kind == EntityType }

// IsMappedSuperclass reports whether the type is a mapped superclass.
func (t *IdentifiableTypeMetadata) IsMappedSuperclass() bool {
	return t.kind == MappedSuperclassType
}

// EntityName returns the @Entity name, or the unqualified class name when
// none is given. It is empty for mapped superclasses.
func (t *IdentifiableTypeMetadata) EntityName() string { return t.entityName }

// Hierarchy returns the hierarchy the type belongs to.
func (t *IdentifiableTypeMetadata) Hierarchy() *EntityHierarchy { return t.hierarchy }

// SuperType returns the super type, or nil for the absolute root.
func (t *IdentifiableTypeMetadata) SuperType() *IdentifiableTypeMetadata { return t.super }

// SubTypes returns the direct sub types.
func (t *IdentifiableTypeMetadata) SubTypes() []*IdentifiableTypeMetadata {
	return append([]*IdentifiableTypeMetadata(nil), t.subs...)
}

// NumberOfSubTypes returns the number of direct sub types.
func (t *IdentifiableTypeMetadata) NumberOfSubTypes() int { return len(t.subs) }

// IsAbsoluteRoot reports whether the type has no super type.
func (t *IdentifiableTypeMetadata) IsAbsoluteRoot() bool { return t.super == nil }

// IsRoot reports whether the type is the root entity of its hierarchy.
func (t *IdentifiableTypeMetadata) IsRoot() bool {
	return t.hierarchy != nil && t.hierarchy.root == t
}

// CallbackListener returns the lifecycle callbacks declared by the class
// itself, or nil.
func (t *IdentifiableTypeMetadata) CallbackListener() *JpaEventListener {
	if t.callbacks == nil || t.callbacks.Empty() {
		return nil
	}
	return t.callbacks
}

// Listeners returns the complete listener chain of the type.
func (t *IdentifiableTypeMetadata) Listeners() []*JpaEventListener {
	return append([]*JpaEventListener(nil), t.listeners...)
}

// FindAttribute returns the attribute with the given name declared by the
// type or one of its super types.
func (t *IdentifiableTypeMetadata) FindAttribute(name string) *AttributeMetadata {
	for c := t; c != nil; c = c.super {
		if a := c.ManagedTypeMetadata.FindAttribute(name); a != nil {
			return a
		}
	}
	return nil
}

// AllAttributes returns the attributes of the super types followed by the
// attributes of the type.
func (t *IdentifiableTypeMetadata) AllAttributes() []*AttributeMetadata {
	if t.super == nil {
		return t.Attributes()
	}
	return append(t.super.AllAttributes(), t.attributes...)
}

// isIdentifiable reports whether the class is an entity or a mapped
// superclass.
func isIdentifiable(c *load.ClassDetails) bool {
	return c.HasAnnotation(schema.Entity) || c.HasAnnotation(schema.MappedSuperclass)
}

// superclass returns the superclass of c inside the model.
func superclass(model ClassModel, c *load.ClassDetails) *load.ClassDetails {
	if c == nil || c.Superclass == "" {
		return nil
	}
	s, ok := model.Class(c.Superclass)
	if !ok {
		return nil
	}
	return s
}

// typeWalker creates the identifiable types of one hierarchy.
type typeWalker struct {
	pass   *pass
	access metamodel.AccessType
	seen   map[string]bool
}

func (w *typeWalker) newType(c *load.ClassDetails, super *IdentifiableTypeMetadata) (*IdentifiableTypeMetadata, error) {
	if w.seen[c.Name] {
		return nil, metamodel.NewModelError(c.Name, "", "class visited twice while walking the hierarchy", nil)
	}
	w.seen[c.Name] = true
	managed, err := NewManagedTypeMetadata(c, w.access, w.pass.model, w.pass.cfg)
	if err != nil {
		return nil, err
	}
	t := &IdentifiableTypeMetadata{
		ManagedTypeMetadata: managed,
		kind:                MappedSuperclassType,
		super:               super,
	}
	if a := c.Annotation(schema.Entity); a != nil {
		t.kind = EntityType
		t.entityName = a.String("name", c.SimpleName())
	}
	if t.callbacks, err = CollectListener(c, CallbackStyle); err != nil {
		return nil, err
	}
	if t.listeners, err = buildListenerChain(c, t.callbacks, super, w.pass.defaults, w.pass.model); err != nil {
		return nil, err
	}
	if super != nil {
		super.subs = append(super.subs, t)
	}
	return t, nil
}

// walkDown attaches the identifiable subclasses of class to parent.
// Classes that are neither entities nor mapped superclasses are skipped,
// their own subclasses are attached to parent. Entity subclasses that are
// roots of their own hierarchy are left out.
func (w *typeWalker) walkDown(parent *IdentifiableTypeMetadata, class string) error {
	for _, sub := range w.pass.model.DirectSubtypes(class) {
		if !isIdentifiable(sub) {
			if err := w.walkDown(parent, sub.Name); err != nil {
				return err
			}
			continue
		}
		if sub.HasAnnotation(schema.Entity) && IsRoot(w.pass.model, sub) {
			continue
		}
		t, err := w.newType(sub, parent)
		if err != nil {
			return err
		}
		if err := w.walkDown(t, sub.Name); err != nil {
			return err
		}
	}
	return nil
}

// ancestorChain returns the identifiable classes above the root entity,
// topmost first: its mapped superclasses and the abstract entities it
// extends.
func ancestorChain(model ClassModel, root *load.ClassDetails) []*load.ClassDetails {
	var chain []*load.ClassDetails
	seen := map[string]bool{root.Name: true}
	for c := superclass(model, root); c != nil && !seen[c.Name]; c = superclass(model, c) {
		seen[c.Name] = true
		if isIdentifiable(c) {
			chain = append([]*load.ClassDetails{c}, chain...)
		}
	}
	return chain
}
