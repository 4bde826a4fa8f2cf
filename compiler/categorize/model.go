package categorize

import (
	"maps"
	"slices"

	"github.com/syssam/metamodel"
	"github.com/syssam/metamodel/compiler/load"
	"github.com/syssam/metamodel/schema"
)

// DomainModel is the result of a categorization pass.
type DomainModel struct {
	hierarchies        []*EntityHierarchy
	mappedSuperclasses map[string]*IdentifiableTypeMetadata
	embeddables        map[string]*ManagedTypeMetadata
	registrations      *Registrations
	entities           map[string]*IdentifiableTypeMetadata
}

// Process categorizes a class model. It collects the global registrations
// of every class and mapping document, builds one hierarchy per root
// entity and gathers the mapped superclasses and embeddables. The pass
// stops at the first error.
func Process(model ClassModel, opts ...Option) (*DomainModel, error) {
	cfg, err := newConfig(model, opts...)
	if err != nil {
		return nil, err
	}
	log := cfg.logger()
	regs := NewGlobalRegistrations(log)
	for _, c := range model.Classes() {
		if err := regs.CollectClass(c); err != nil {
			return nil, err
		}
	}
	for _, m := range cfg.Mappings {
		if err := regs.CollectMappings(m); err != nil {
			return nil, err
		}
	}
	p, err := newPass(model, cfg)
	if err != nil {
		return nil, err
	}
	hs, err := (&EntityHierarchyBuilder{pass: p}).Build()
	if err != nil {
		return nil, err
	}
	dm := &DomainModel{
		hierarchies:        hs,
		mappedSuperclasses: make(map[string]*IdentifiableTypeMetadata),
		embeddables:        make(map[string]*ManagedTypeMetadata),
		registrations:      regs.Freeze(),
		entities:           make(map[string]*IdentifiableTypeMetadata),
	}
	for _, h := range hs {
		for _, t := range h.types {
			switch {
			case t.IsMappedSuperclass():
				if _, ok := dm.mappedSuperclasses[t.ClassName()]; !ok {
					dm.mappedSuperclasses[t.ClassName()] = t
				}
			case t.IsEntity():
				if _, ok := dm.entities[t.EntityName()]; !ok || t.IsRoot() {
					dm.entities[t.EntityName()] = t
				}
			}
		}
	}
	if err := dm.collectEmbeddables(p); err != nil {
		return nil, err
	}
	for _, c := range model.Classes() {
		if !c.HasAnnotation(schema.Entity) {
			continue
		}
		if _, err := dm.FindHierarchy(c.Name); err != nil {
			return nil, err
		}
	}
	log.Debug("categorized domain model",
		"hierarchies", len(dm.hierarchies),
		"mapped_superclasses", len(dm.mappedSuperclasses),
		"embeddables", len(dm.embeddables),
	)
	return dm, nil
}

// collectEmbeddables resolves the embeddables reachable from EMBEDDED
// attributes, depth first, then the remaining @Embeddable classes. An
// embeddable uses its own @Access, else the access type of the first type
// embedding it, else FIELD.
func (dm *DomainModel) collectEmbeddables(p *pass) error {
	var visit func(c *load.ClassDetails, access metamodel.AccessType) error
	embedded := func(attrs []*AttributeMetadata, access metamodel.AccessType) error {
		for _, a := range attrs {
			if a.Nature() != Embedded {
				continue
			}
			if c, ok := p.model.Class(a.Member().Type); ok {
				if err := visit(c, access); err != nil {
					return err
				}
			}
		}
		return nil
	}
	visit = func(c *load.ClassDetails, access metamodel.AccessType) error {
		if _, ok := dm.embeddables[c.Name]; ok {
			return nil
		}
		if access == metamodel.AccessUnknown {
			access = metamodel.AccessField
		}
		t, err := NewManagedTypeMetadata(c, access, p.model, p.cfg)
		if err != nil {
			return err
		}
		dm.embeddables[c.Name] = t
		return embedded(t.attributes, t.access)
	}
	for _, h := range dm.hierarchies {
		for _, t := range h.types {
			if err := embedded(t.attributes, t.access); err != nil {
				return err
			}
		}
	}
	for _, c := range p.model.Classes() {
		if c.HasAnnotation(schema.Embeddable) {
			if err := visit(c, metamodel.AccessField); err != nil {
				return err
			}
		}
	}
	return nil
}

// Hierarchies returns the entity hierarchies in root discovery order.
func (dm *DomainModel) Hierarchies() []*EntityHierarchy {
	return slices.Clone(dm.hierarchies)
}

// MappedSuperclasses returns the mapped superclasses keyed by class name.
// A mapped superclass shared by several hierarchies is reported with the
// metadata of the first one.
func (dm *DomainModel) MappedSuperclasses() map[string]*IdentifiableTypeMetadata {
	return maps.Clone(dm.mappedSuperclasses)
}

// Embeddables returns the embeddables keyed by class name.
func (dm *DomainModel) Embeddables() map[string]*ManagedTypeMetadata {
	return maps.Clone(dm.embeddables)
}

// Registrations returns the frozen global registrations.
func (dm *DomainModel) Registrations() *Registrations { return dm.registrations }

// FindHierarchy returns the hierarchy the class belongs to. Root entities,
// their subclasses and the types above a root are matched. An abstract
// entity extended by other roots resolves to the hierarchy it is the root
// of.
func (dm *DomainModel) FindHierarchy(className string) (*EntityHierarchy, error) {
	var found *EntityHierarchy
	for _, h := range dm.hierarchies {
		if !h.Contains(className) {
			continue
		}
		if h.root.ClassName() == className {
			return h, nil
		}
		if found == nil {
			found = h
		}
	}
	if found == nil {
		return nil, metamodel.NewHierarchyLookupError(className)
	}
	return found, nil
}

// EntityType returns the entity with the given entity name.
func (dm *DomainModel) EntityType(entityName string) (*IdentifiableTypeMetadata, bool) {
	t, ok := dm.entities[entityName]
	return t, ok
}

// EntityTypes returns every entity sorted by entity name.
func (dm *DomainModel) EntityTypes() []*IdentifiableTypeMetadata {
	ts := make([]*IdentifiableTypeMetadata, 0, len(dm.entities))
	for _, name := range slices.Sorted(maps.Keys(dm.entities)) {
		ts = append(ts, dm.entities[name])
	}
	return ts
}

// ManagedType returns the categorized type of a class: an entity, a mapped
// superclass or an embeddable.
func (dm *DomainModel) ManagedType(className string) (ManagedType, bool) {
	if h, err := dm.FindHierarchy(className); err == nil {
		t, _ := h.Type(className)
		return t, true
	}
	if t, ok := dm.embeddables[className]; ok {
		return t, true
	}
	return nil, false
}
