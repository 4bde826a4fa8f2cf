package categorize

import (
	"log/slog"

	"github.com/syssam/metamodel"
	"github.com/syssam/metamodel/compiler/load"
	"github.com/syssam/metamodel/schema"
)

// HierarchyMetadataCollector gathers the hierarchy-wide settings while the
// types of a hierarchy are visited from the absolute root downwards, in
// pre-order. Types above the root entity and the root entity itself
// contribute. Once the root entity was visited, the collector only watches
// for misplaced @Inheritance annotations.
//
// Because the walk is top-down and the annotation slots are set-if-absent,
// the occurrence closest to the absolute root wins.
type HierarchyMetadataCollector struct {
	root       string
	belowRoot  bool
	log        *slog.Logger
	visitOrder []*IdentifiableTypeMetadata

	inheritance       Slot[*schema.Annotation]
	optimisticLocking Slot[*schema.Annotation]
	cache             Slot[*schema.Annotation]
	naturalIDCache    Slot[*schema.Annotation]
	idClass           Slot[*schema.Annotation]

	ids        OneOrMany[*AttributeMetadata]
	naturalIDs OneOrMany[*AttributeMetadata]
	version    *AttributeMetadata
	tenantID   *AttributeMetadata

	idMapping        keyResult
	naturalIDMapping keyResult
}

type keyResult struct {
	done    bool
	mapping KeyMapping
	err     error
}

// NewHierarchyMetadataCollector returns a collector for the hierarchy of
// the given root entity class.
func NewHierarchyMetadataCollector(root *load.ClassDetails, logger *slog.Logger) *HierarchyMetadataCollector {
	if logger == nil {
		logger = discard
	}
	return &HierarchyMetadataCollector{root: root.Name, log: logger}
}

// Visit records a type. Types must be visited top-down.
func (c *HierarchyMetadataCollector) Visit(t *IdentifiableTypeMetadata) {
	c.visitOrder = append(c.visitOrder, t)
	class := t.Class()
	if c.belowRoot {
		if t.IsEntity() && class.HasAnnotation(schema.Inheritance) {
			c.log.Debug("ignoring @Inheritance on non-root entity", "class", class.Name, "root", c.root)
		}
		return
	}
	if class.Name == c.root {
		c.belowRoot = true
	}
	if a := class.Annotation(schema.Inheritance); a != nil {
		c.inheritance.SetIfAbsent(a)
	}
	if a := class.Annotation(schema.OptimisticLocking); a != nil {
		c.optimisticLocking.SetIfAbsent(a)
	}
	if a := class.Annotation(schema.Cache); a != nil {
		c.cache.SetIfAbsent(a)
	}
	if a := class.Annotation(schema.NaturalIDCache); a != nil {
		c.naturalIDCache.SetIfAbsent(a)
	}
	if a := class.Annotation(schema.IDClass); a != nil {
		c.idClass.SetIfAbsent(a)
	}
	for _, attr := range t.Attributes() {
		m := attr.Member()
		if m.HasAnnotation(schema.ID) || m.HasAnnotation(schema.EmbeddedID) {
			c.ids.Push(attr)
		}
		if m.HasAnnotation(schema.NaturalID) {
			c.naturalIDs.Push(attr)
		}
		if c.version == nil && m.HasAnnotation(schema.Version) {
			c.version = attr
		}
		if c.tenantID == nil && m.HasAnnotation(schema.TenantID) {
			c.tenantID = attr
		}
	}
}

// Visited returns the visited types in visit order.
func (c *HierarchyMetadataCollector) Visited() []*IdentifiableTypeMetadata {
	return append([]*IdentifiableTypeMetadata(nil), c.visitOrder...)
}

// Inheritance returns the @Inheritance closest to the absolute root.
func (c *HierarchyMetadataCollector) Inheritance() *schema.Annotation {
	a, _ := c.inheritance.Get()
	return a
}

// OptimisticLocking returns the @OptimisticLocking closest to the absolute
// root.
func (c *HierarchyMetadataCollector) OptimisticLocking() *schema.Annotation {
	a, _ := c.optimisticLocking.Get()
	return a
}

// Cache returns the @Cache closest to the absolute root.
func (c *HierarchyMetadataCollector) Cache() *schema.Annotation {
	a, _ := c.cache.Get()
	return a
}

// NaturalIDCache returns the @NaturalIdCache closest to the absolute root.
func (c *HierarchyMetadataCollector) NaturalIDCache() *schema.Annotation {
	a, _ := c.naturalIDCache.Get()
	return a
}

// IDClass returns the @IdClass closest to the absolute root.
func (c *HierarchyMetadataCollector) IDClass() *schema.Annotation {
	a, _ := c.idClass.Get()
	return a
}

// VersionAttribute returns the first @Version attribute, or nil.
func (c *HierarchyMetadataCollector) VersionAttribute() *AttributeMetadata { return c.version }

// TenantIDAttribute returns the first @TenantId attribute, or nil.
func (c *HierarchyMetadataCollector) TenantIDAttribute() *AttributeMetadata { return c.tenantID }

// IDMapping returns the identifier mapping. It is computed on the first
// call and cached.
func (c *HierarchyMetadataCollector) IDMapping() (KeyMapping, error) {
	if !c.idMapping.done {
		c.idMapping.mapping, c.idMapping.err = c.buildIDMapping()
		c.idMapping.done = true
	}
	return c.idMapping.mapping, c.idMapping.err
}

// NaturalIDMapping returns the natural identifier mapping, or nil when the
// hierarchy has no natural id. It is computed on the first call and
// cached.
func (c *HierarchyMetadataCollector) NaturalIDMapping() (KeyMapping, error) {
	if !c.naturalIDMapping.done {
		c.naturalIDMapping.mapping, c.naturalIDMapping.err = c.buildNaturalIDMapping()
		c.naturalIDMapping.done = true
	}
	return c.naturalIDMapping.mapping, c.naturalIDMapping.err
}

func (c *HierarchyMetadataCollector) idClassName() string {
	if a := c.IDClass(); a != nil {
		return a.String("value", "")
	}
	return ""
}

func (c *HierarchyMetadataCollector) buildIDMapping() (KeyMapping, error) {
	if c.ids.Len() == 0 {
		return nil, metamodel.NewIDMappingError(c.root)
	}
	attr, ok := c.ids.Single()
	if !ok {
		return &NonAggregatedKeyMapping{IDAttributes: c.ids.All(), IDClass: c.idClassName()}, nil
	}
	switch attr.Nature() {
	case Basic:
		return &BasicKeyMapping{Attribute: attr}, nil
	case Embedded:
		return &AggregatedKeyMapping{Attribute: attr}, nil
	case ToOne:
		return &NonAggregatedKeyMapping{IDAttributes: []*AttributeMetadata{attr}, IDClass: c.idClassName()}, nil
	default:
		return nil, metamodel.NewUnexpectedNatureError(c.root, attr.Name(), attr.Nature().String(), false)
	}
}

// buildNaturalIDMapping mirrors buildIDMapping, except that a single
// to-one natural id is a basic key.
func (c *HierarchyMetadataCollector) buildNaturalIDMapping() (KeyMapping, error) {
	if c.naturalIDs.Len() == 0 {
		return nil, nil
	}
	attr, ok := c.naturalIDs.Single()
	if !ok {
		return &NonAggregatedKeyMapping{IDAttributes: c.naturalIDs.All()}, nil
	}
	switch attr.Nature() {
	case Basic, ToOne:
		return &BasicKeyMapping{Attribute: attr}, nil
	case Embedded:
		return &AggregatedKeyMapping{Attribute: attr}, nil
	default:
		return nil, metamodel.NewUnexpectedNatureError(c.root, attr.Name(), attr.Nature().String(), true)
	}
}
