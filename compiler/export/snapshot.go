package export

import (
	"time"

	"github.com/google/uuid"

	"github.com/syssam/metamodel"
	"github.com/syssam/metamodel/compiler/categorize"
)

// Snapshot is a serializable view of a categorized domain model.
type Snapshot struct {
	ID            string                    `json:"id" yaml:"id"`
	CreatedAt     time.Time                 `json:"created_at" yaml:"createdAt"`
	Hierarchies   []*Hierarchy              `json:"hierarchies" yaml:"hierarchies"`
	Embeddables   []*Type                   `json:"embeddables,omitempty" yaml:"embeddables,omitempty"`
	Registrations *categorize.Registrations `json:"registrations,omitempty" yaml:"registrations,omitempty"`
}

// Hierarchy is the snapshot of an entity hierarchy.
type Hierarchy struct {
	Root                string   `json:"root" yaml:"root"`
	AbsoluteRoot        string   `json:"absolute_root" yaml:"absoluteRoot"`
	Inheritance         string   `json:"inheritance" yaml:"inheritance"`
	Access              string   `json:"access" yaml:"access"`
	OptimisticLock      string   `json:"optimistic_lock" yaml:"optimisticLock"`
	IDKind              string   `json:"id_kind" yaml:"idKind"`
	IDAttributes        []string `json:"id_attributes" yaml:"idAttributes"`
	NaturalIDAttributes []string `json:"natural_id_attributes,omitempty" yaml:"naturalIdAttributes,omitempty"`
	Version             string   `json:"version,omitempty" yaml:"version,omitempty"`
	TenantID            string   `json:"tenant_id,omitempty" yaml:"tenantId,omitempty"`
	Cache               *Cache   `json:"cache,omitempty" yaml:"cache,omitempty"`
	Types               []*Type  `json:"types" yaml:"types"`
}

// Cache is the snapshot of the cache regions of a hierarchy.
type Cache struct {
	Region          string `json:"region" yaml:"region"`
	AccessType      string `json:"access_type" yaml:"accessType"`
	LazyProperties  bool   `json:"lazy_properties,omitempty" yaml:"lazyProperties,omitempty"`
	NaturalIDRegion string `json:"natural_id_region,omitempty" yaml:"naturalIdRegion,omitempty"`
}

// Type kinds of a snapshot.
const (
	KindEntity           = "ENTITY"
	KindMappedSuperclass = "MAPPED_SUPERCLASS"
	KindEmbeddable       = "EMBEDDABLE"
)

// Type is the snapshot of a managed type.
type Type struct {
	Class      string       `json:"class" yaml:"class"`
	Kind       string       `json:"kind" yaml:"kind"`
	Entity     string       `json:"entity,omitempty" yaml:"entity,omitempty"`
	Super      string       `json:"super,omitempty" yaml:"super,omitempty"`
	Access     string       `json:"access" yaml:"access"`
	Attributes []*Attribute `json:"attributes" yaml:"attributes"`
	Listeners  []string     `json:"listeners,omitempty" yaml:"listeners,omitempty"`
}

// Attribute is the snapshot of an attribute.
type Attribute struct {
	Name        string `json:"name" yaml:"name"`
	Nature      string `json:"nature" yaml:"nature"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	ElementType string `json:"element_type,omitempty" yaml:"elementType,omitempty"`
}

// Option configures a snapshot.
type Option func(*options) error

type options struct {
	id  string
	now func() time.Time
}

// WithID sets the snapshot id. It must be a UUID.
func WithID(id string) Option {
	return func(o *options) error {
		u, err := uuid.Parse(id)
		if err != nil {
			return metamodel.NewConfigError("ID", id, err.Error())
		}
		o.id = u.String()
		return nil
	}
}

// WithClock sets the clock the creation time is read from.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return metamodel.NewConfigError("Clock", nil, "clock cannot be nil")
		}
		o.now = now
		return nil
	}
}

// NewSnapshot builds the snapshot of a domain model. The snapshot gets a
// random UUID and the current UTC time unless options say otherwise.
func NewSnapshot(dm *categorize.DomainModel, opts ...Option) (*Snapshot, error) {
	o := &options{now: time.Now}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	s := &Snapshot{
		ID:            o.id,
		CreatedAt:     o.now().UTC().Truncate(time.Millisecond),
		Registrations: dm.Registrations(),
	}
	for _, h := range dm.Hierarchies() {
		s.Hierarchies = append(s.Hierarchies, newHierarchy(h))
	}
	es := dm.Embeddables()
	for _, c := range sortedKeys(es) {
		s.Embeddables = append(s.Embeddables, newType(es[c]))
	}
	return s, nil
}

func newHierarchy(h *categorize.EntityHierarchy) *Hierarchy {
	out := &Hierarchy{
		Root:           h.Root().ClassName(),
		AbsoluteRoot:   h.AbsoluteRoot().ClassName(),
		Inheritance:    h.InheritanceType().String(),
		Access:         h.AccessType().String(),
		OptimisticLock: h.OptimisticLockStyle().String(),
		IDKind:         h.IDMapping().Kind().String(),
		IDAttributes:   attributeNames(h.IDMapping()),
	}
	if m := h.NaturalIDMapping(); m != nil {
		out.NaturalIDAttributes = attributeNames(m)
	}
	if v := h.VersionAttribute(); v != nil {
		out.Version = v.Name()
	}
	if t := h.TenantIDAttribute(); t != nil {
		out.TenantID = t.Name()
	}
	if r := h.CacheRegion(); r.Enabled {
		out.Cache = &Cache{
			Region:         r.RegionName,
			AccessType:     r.AccessType.String(),
			LazyProperties: r.CacheLazyProperties,
		}
		if n := h.NaturalIDCacheRegion(); n.Enabled {
			out.Cache.NaturalIDRegion = n.RegionName
		}
	}
	for _, t := range h.Types() {
		out.Types = append(out.Types, newType(t))
	}
	return out
}

func attributeNames(m categorize.KeyMapping) []string {
	var names []string
	for _, a := range m.Attributes() {
		names = append(names, a.Name())
	}
	return names
}

func newType(t categorize.ManagedType) *Type {
	out := &Type{
		Class:  t.ClassName(),
		Kind:   KindEmbeddable,
		Access: t.AccessType().String(),
	}
	if it, ok := t.(*categorize.IdentifiableTypeMetadata); ok {
		out.Kind = KindMappedSuperclass
		if it.IsEntity() {
			out.Kind = KindEntity
			out.Entity = it.EntityName()
		}
		if super := it.SuperType(); super != nil {
			out.Super = super.ClassName()
		}
		for _, l := range it.Listeners() {
			out.Listeners = append(out.Listeners, l.String())
		}
	}
	for _, a := range t.Attributes() {
		m := a.Member()
		out.Attributes = append(out.Attributes, &Attribute{
			Name:        a.Name(),
			Nature:      a.Nature().String(),
			Type:        m.Type,
			ElementType: m.ElementType,
		})
	}
	return out
}
