package categorize

import (
	"fmt"
	"strings"

	"github.com/syssam/metamodel"
	"github.com/syssam/metamodel/compiler/load"
	"github.com/syssam/metamodel/schema"
)

// NaturalIDRegionSuffix is appended to the entity region name to form the
// default natural-id cache region name.
const NaturalIDRegionSuffix = "##NaturalId"

// CacheRegion describes the second-level cache region of a hierarchy.
type CacheRegion struct {
	Enabled             bool                      `json:"enabled" yaml:"enabled"`
	RegionName          string                    `json:"region_name,omitempty" yaml:"regionName,omitempty"`
	AccessType          metamodel.CacheAccessType `json:"access_type" yaml:"accessType"`
	CacheLazyProperties bool                      `json:"cache_lazy_properties" yaml:"cacheLazyProperties"`
}

// NaturalIDCacheRegion describes the natural-id cache region of a
// hierarchy.
type NaturalIDCacheRegion struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	RegionName string `json:"region_name,omitempty" yaml:"regionName,omitempty"`
}

// EntityHierarchy is the categorized metadata of one inheritance hierarchy.
type EntityHierarchy struct {
	absoluteRoot *IdentifiableTypeMetadata
	root         *IdentifiableTypeMetadata
	types        []*IdentifiableTypeMetadata
	byClass      map[string]*IdentifiableTypeMetadata

	inheritance      metamodel.InheritanceType
	access           metamodel.AccessType
	lockStyle        metamodel.OptimisticLockStyle
	idMapping        KeyMapping
	naturalIDMapping KeyMapping
	version          *AttributeMetadata
	tenantID         *AttributeMetadata
	cacheRegion      CacheRegion
	naturalIDRegion  NaturalIDCacheRegion
}

// newEntityHierarchy builds the hierarchy of a root entity: it creates the
// mapped superclasses and abstract entities above the root, the root and every identifiable
// subclass, visits them top-down with a HierarchyMetadataCollector and
// derives the hierarchy settings.
func newEntityHierarchy(p *pass, root *load.ClassDetails, access metamodel.AccessType) (*EntityHierarchy, error) {
	h := &EntityHierarchy{
		access:  access,
		byClass: make(map[string]*IdentifiableTypeMetadata),
	}
	w := &typeWalker{pass: p, access: access, seen: make(map[string]bool)}
	var parent *IdentifiableTypeMetadata
	for _, c := range ancestorChain(p.model, root) {
		t, err := w.newType(c, parent)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			h.absoluteRoot = t
		}
		parent = t
	}
	rootType, err := w.newType(root, parent)
	if err != nil {
		return nil, err
	}
	h.root = rootType
	if h.absoluteRoot == nil {
		h.absoluteRoot = rootType
	}
	if err := w.walkDown(rootType, root.Name); err != nil {
		return nil, err
	}

	collector := NewHierarchyMetadataCollector(root, p.cfg.logger())
	var visit func(*IdentifiableTypeMetadata)
	visit = func(t *IdentifiableTypeMetadata) {
		t.hierarchy = h
		h.types = append(h.types, t)
		h.byClass[t.ClassName()] = t
		collector.Visit(t)
		for _, sub := range t.subs {
			visit(sub)
		}
	}
	visit(h.absoluteRoot)

	if h.idMapping, err = collector.IDMapping(); err != nil {
		return nil, err
	}
	if h.naturalIDMapping, err = collector.NaturalIDMapping(); err != nil {
		return nil, err
	}
	h.version = collector.VersionAttribute()
	h.tenantID = collector.TenantIDAttribute()
	if a := collector.Inheritance(); a != nil {
		if h.inheritance, err = metamodel.ParseInheritanceType(a.String("strategy", "")); err != nil {
			return nil, metamodel.NewModelError(root.Name, "", "invalid @Inheritance strategy", err)
		}
	}
	if a := collector.OptimisticLocking(); a != nil {
		if h.lockStyle, err = metamodel.ParseOptimisticLockStyle(a.String("type", "")); err != nil {
			return nil, metamodel.NewModelError(root.Name, "", "invalid @OptimisticLocking type", err)
		}
	}
	if err := h.resolveCaching(p, collector.Cache(), collector.NaturalIDCache()); err != nil {
		return nil, err
	}
	return h, nil
}

// resolveCaching derives the cache regions from the shared cache mode, the
// @Cacheable of the root entity (or its nearest ancestor) and @Cache.
func (h *EntityHierarchy) resolveCaching(p *pass, cache, naturalIDCache *schema.Annotation) error {
	var cacheable *bool
	seen := make(map[string]bool)
	for c := h.root.Class(); c != nil && !seen[c.Name]; c = superclass(p.model, c) {
		seen[c.Name] = true
		if a := c.Annotation(schema.Cacheable); a != nil {
			v := a.Bool("value", true)
			cacheable = &v
			break
		}
	}
	var enabled bool
	switch p.cfg.SharedCacheMode {
	case metamodel.CacheAll:
		enabled = true
	case metamodel.CacheNone:
		enabled = false
	case metamodel.CacheDisableSelective:
		enabled = cacheable == nil || *cacheable
	default:
		if cacheable != nil {
			enabled = *cacheable
		} else {
			enabled = cache != nil
		}
	}
	region := CacheRegion{
		Enabled:             enabled,
		RegionName:          h.root.ClassName(),
		AccessType:          p.cfg.DefaultCacheAccessType,
		CacheLazyProperties: true,
	}
	if cache != nil {
		region.RegionName = cache.String("region", region.RegionName)
		if usage := cache.String("usage", ""); usage != "" {
			access, err := metamodel.ParseCacheAccessType(usage)
			if err != nil {
				return metamodel.NewModelError(h.root.ClassName(), "", "invalid @Cache usage", err)
			}
			region.AccessType = access
		}
		region.CacheLazyProperties = strings.EqualFold(cache.String("include", "all"), "all")
	}
	h.cacheRegion = region
	h.naturalIDRegion = NaturalIDCacheRegion{
		Enabled:    enabled && naturalIDCache != nil,
		RegionName: region.RegionName + NaturalIDRegionSuffix,
	}
	if naturalIDCache != nil {
		h.naturalIDRegion.RegionName = naturalIDCache.String("region", h.naturalIDRegion.RegionName)
	}
	return nil
}

// AbsoluteRoot returns the topmost type: the topmost mapped superclass
// above the root entity, or the root entity itself.
func (h *EntityHierarchy) AbsoluteRoot() *IdentifiableTypeMetadata { return h.absoluteRoot }

// Root returns the root entity type.
func (h *EntityHierarchy) Root() *IdentifiableTypeMetadata { return h.root }

// Types returns every type of the hierarchy, top-down in pre-order.
func (h *EntityHierarchy) Types() []*IdentifiableTypeMetadata {
	return append([]*IdentifiableTypeMetadata(nil), h.types...)
}

// Type returns the type of the given class.
func (h *EntityHierarchy) Type(className string) (*IdentifiableTypeMetadata, bool) {
	t, ok := h.byClass[className]
	return t, ok
}

// Contains reports whether the class belongs to the hierarchy.
func (h *EntityHierarchy) Contains(className string) bool {
	_, ok := h.byClass[className]
	return ok
}

// InheritanceType returns the inheritance strategy.
func (h *EntityHierarchy) InheritanceType() metamodel.InheritanceType { return h.inheritance }

// AccessType returns the default access type, AccessUnknown when it could
// not be determined.
func (h *EntityHierarchy) AccessType() metamodel.AccessType { return h.access }

// OptimisticLockStyle returns the optimistic locking style.
func (h *EntityHierarchy) OptimisticLockStyle() metamodel.OptimisticLockStyle { return h.lockStyle }

// IDMapping returns the identifier mapping.
func (h *EntityHierarchy) IDMapping() KeyMapping { return h.idMapping }

// NaturalIDMapping returns the natural identifier mapping, or nil.
func (h *EntityHierarchy) NaturalIDMapping() KeyMapping { return h.naturalIDMapping }

// VersionAttribute returns the version attribute, or nil.
func (h *EntityHierarchy) VersionAttribute() *AttributeMetadata { return h.version }

// TenantIDAttribute returns the tenant-id attribute, or nil.
func (h *EntityHierarchy) TenantIDAttribute() *AttributeMetadata { return h.tenantID }

// CacheRegion returns the entity cache region.
func (h *EntityHierarchy) CacheRegion() CacheRegion { return h.cacheRegion }

// NaturalIDCacheRegion returns the natural-id cache region.
func (h *EntityHierarchy) NaturalIDCacheRegion() NaturalIDCacheRegion { return h.naturalIDRegion }

// String implements fmt.Stringer.
func (h *EntityHierarchy) String() string {
	return fmt.Sprintf("EntityHierarchy(%s)", h.root.ClassName())
}
