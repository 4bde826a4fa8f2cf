package categorize

import (
	"github.com/syssam/metamodel"
	"github.com/syssam/metamodel/compiler/load"
	"github.com/syssam/metamodel/schema"
)

// pass is the state shared by the hierarchies of one categorization pass.
type pass struct {
	model    ClassModel
	cfg      *Config
	defaults []*JpaEventListener
}

func newPass(model ClassModel, cfg *Config) (*pass, error) {
	p := &pass{model: model, cfg: cfg}
	for _, el := range cfg.defaultListeners() {
		l, err := listenerFromMapping(el, model)
		if err != nil {
			return nil, err
		}
		l.Default = true
		p.defaults = append(p.defaults, l)
	}
	return p, nil
}

// EntityHierarchyBuilder discovers the root entities of a class model and
// builds one EntityHierarchy per root.
type EntityHierarchyBuilder struct {
	pass *pass
}

// NewEntityHierarchyBuilder returns a builder over the given model.
func NewEntityHierarchyBuilder(model ClassModel, opts ...Option) (*EntityHierarchyBuilder, error) {
	cfg, err := newConfig(model, opts...)
	if err != nil {
		return nil, err
	}
	p, err := newPass(model, cfg)
	if err != nil {
		return nil, err
	}
	return &EntityHierarchyBuilder{pass: p}, nil
}

// IsRoot reports whether the class is a root entity: an entity none of
// whose ancestors is a concrete entity. Abstract entity ancestors do not
// disqualify a class.
func IsRoot(model ClassModel, c *load.ClassDetails) bool {
	if c == nil || !c.HasAnnotation(schema.Entity) {
		return false
	}
	seen := map[string]bool{c.Name: true}
	for s := superclass(model, c); s != nil && !seen[s.Name]; s = superclass(model, s) {
		seen[s.Name] = true
		if s.HasAnnotation(schema.Entity) && !s.Abstract {
			return false
		}
	}
	return true
}

// IsRoot reports whether the class is a root entity of the model.
func (b *EntityHierarchyBuilder) IsRoot(c *load.ClassDetails) bool {
	return IsRoot(b.pass.model, c)
}

// RootEntities returns the root entities in model order.
func (b *EntityHierarchyBuilder) RootEntities() []*load.ClassDetails {
	var roots []*load.ClassDetails
	for _, c := range b.pass.model.Classes() {
		if IsRoot(b.pass.model, c) {
			roots = append(roots, c)
		}
	}
	return roots
}

// DefaultAccessType determines the default access type of the hierarchy
// rooted at root. Starting at the root entity and walking up, the first
// @Id or @EmbeddedId member without its own @Access decides: a method
// means PROPERTY, a field means FIELD. Methods are checked before fields
// on each class. When no such member exists, the persistence-unit default
// of the mapping documents applies; without one the result is
// AccessUnknown, or an AccessTypeError in strict mode.
func (b *EntityHierarchyBuilder) DefaultAccessType(root *load.ClassDetails) (metamodel.AccessType, error) {
	seen := make(map[string]bool)
	for c := root; c != nil && !seen[c.Name]; c = superclass(b.pass.model, c) {
		seen[c.Name] = true
		for _, m := range c.Methods {
			if isImplicitIDMember(m) {
				return metamodel.AccessProperty, nil
			}
		}
		for _, f := range c.Fields {
			if isImplicitIDMember(f) {
				return metamodel.AccessField, nil
			}
		}
	}
	if access := b.pass.cfg.defaultAccess(); access != metamodel.AccessUnknown {
		return access, nil
	}
	if b.pass.cfg.StrictAccessType {
		return metamodel.AccessUnknown, metamodel.NewAccessTypeError(root.Name)
	}
	return metamodel.AccessUnknown, nil
}

func isImplicitIDMember(m *load.Member) bool {
	if m.Static || m.HasAnnotation(schema.Access) {
		return false
	}
	return m.HasAnnotation(schema.ID) || m.HasAnnotation(schema.EmbeddedID)
}

// BuildHierarchy builds the hierarchy of a single root entity.
func (b *EntityHierarchyBuilder) BuildHierarchy(root *load.ClassDetails) (*EntityHierarchy, error) {
	if !b.IsRoot(root) {
		return nil, metamodel.NewModelError(root.Name, "", "class is not a root entity", nil)
	}
	access, err := b.DefaultAccessType(root)
	if err != nil {
		return nil, err
	}
	return newEntityHierarchy(b.pass, root, access)
}

// Build builds the hierarchies of all root entities, in model order.
func (b *EntityHierarchyBuilder) Build() ([]*EntityHierarchy, error) {
	var hs []*EntityHierarchy
	for _, root := range b.RootEntities() {
		h, err := b.BuildHierarchy(root)
		if err != nil {
			return nil, err
		}
		hs = append(hs, h)
	}
	return hs, nil
}
