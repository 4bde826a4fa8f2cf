package categorize

import (
	"github.com/syssam/metamodel"
	"github.com/syssam/metamodel/compiler/load"
	"github.com/syssam/metamodel/schema"
)

// ResolveMembers returns the persistent members of a class for the given
// class-level access type. Members carrying their own @Access come first,
// then the members selected by the class-level access type, each group in
// declaration order (fields before methods). An unknown access type
// selects fields.
func ResolveMembers(c *load.ClassDetails, access metamodel.AccessType) ([]*load.Member, error) {
	transient := make(map[*load.Member]bool)
	for _, m := range c.Members() {
		if m.Transient || m.HasAnnotation(schema.Transient) {
			transient[m] = true
		}
	}
	var (
		members  []*load.Member
		resolved = make(map[string]*load.Member)
	)
	for _, m := range c.Members() {
		if m.Static || !m.HasAnnotation(schema.Access) {
			continue
		}
		explicit, err := metamodel.ParseAccessType(m.Annotation(schema.Access).String("value", ""))
		if err != nil {
			return nil, metamodel.NewModelError(c.Name, m.Name, "invalid @Access value", err)
		}
		switch {
		case explicit == metamodel.AccessField && m.IsMethod(),
			explicit == metamodel.AccessProperty && m.IsField():
			return nil, metamodel.NewAccessPlacementError(m.String(), explicit)
		case explicit == metamodel.AccessProperty && !m.IsGetter():
			return nil, metamodel.NewModelError(c.Name, m.Name, "@Access(PROPERTY) placed on a method that is not a getter", nil)
		}
		if transient[m] {
			continue
		}
		name := m.AttributeName()
		if prev, ok := resolved[name]; ok {
			return nil, metamodel.NewModelError(c.Name, m.Name, "attribute "+name+" already defined by "+prev.String(), nil)
		}
		resolved[name] = m
		members = append(members, m)
	}
	candidates := c.Fields
	if access == metamodel.AccessProperty {
		candidates = c.Methods
	}
	for _, m := range candidates {
		if m.Static || transient[m] || m.HasAnnotation(schema.Access) {
			continue
		}
		if m.IsMethod() && !m.IsGetter() {
			continue
		}
		name := m.AttributeName()
		if _, ok := resolved[name]; ok {
			continue
		}
		resolved[name] = m
		members = append(members, m)
	}
	return members, nil
}
