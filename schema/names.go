package schema

import "github.com/syssam/metamodel"

// Type-level annotations.
const (
	Entity                     = "Entity"
	MappedSuperclass           = "MappedSuperclass"
	Embeddable                 = "Embeddable"
	Access                     = "Access"
	Inheritance                = "Inheritance"
	OptimisticLocking          = "OptimisticLocking"
	Cache                      = "Cache"
	NaturalIDCache             = "NaturalIdCache"
	IDClass                    = "IdClass"
	Cacheable                  = "Cacheable"
	EntityListeners            = "EntityListeners"
	ExcludeSuperclassListeners = "ExcludeSuperclassListeners"
	ExcludeDefaultListeners    = "ExcludeDefaultListeners"
	Imported                   = "Imported"
	Converter                  = "Converter"
)

// Attribute natures and their implicit markers.
const (
	ID                     = "Id"
	EmbeddedID             = "EmbeddedId"
	Basic                  = "Basic"
	Embedded               = "Embedded"
	Any                    = "Any"
	ManyToAny              = "ManyToAny"
	OneToOne               = "OneToOne"
	ManyToOne              = "ManyToOne"
	OneToMany              = "OneToMany"
	ManyToMany             = "ManyToMany"
	ElementCollection      = "ElementCollection"
	Temporal               = "Temporal"
	Lob                    = "Lob"
	Enumerated             = "Enumerated"
	Convert                = "Convert"
	Version                = "Version"
	GeneratedValue         = "GeneratedValue"
	Type                   = "Type"
	JavaType               = "JavaType"
	JdbcType               = "JdbcType"
	JdbcTypeCode           = "JdbcTypeCode"
	EmbeddableInstantiator = "EmbeddableInstantiator"
	CompositeType          = "CompositeType"
	AnyDiscriminator       = "AnyDiscriminator"
	AnyDiscriminatorValue  = "AnyDiscriminatorValue"
	AnyDiscriminatorValues = "AnyDiscriminatorValues"
	AnyKeyJavaType         = "AnyKeyJavaType"
	AnyKeyJavaClass        = "AnyKeyJavaClass"
	AnyKeyJdbcType         = "AnyKeyJdbcType"
	AnyKeyJdbcTypeCode     = "AnyKeyJdbcTypeCode"
	Transient              = "Transient"
	NaturalID              = "NaturalId"
	TenantID               = "TenantId"
)

// Lifecycle callbacks.
const (
	PrePersist  = "PrePersist"
	PostPersist = "PostPersist"
	PreRemove   = "PreRemove"
	PostRemove  = "PostRemove"
	PreUpdate   = "PreUpdate"
	PostUpdate  = "PostUpdate"
	PostLoad    = "PostLoad"
)

// Global registrations. Each repeatable annotation has a container
// carrying a "value" list.
const (
	JavaTypeRegistration                = "JavaTypeRegistration"
	JavaTypeRegistrations               = "JavaTypeRegistrations"
	JdbcTypeRegistration                = "JdbcTypeRegistration"
	JdbcTypeRegistrations               = "JdbcTypeRegistrations"
	ConverterRegistration               = "ConverterRegistration"
	ConverterRegistrations              = "ConverterRegistrations"
	TypeRegistration                    = "TypeRegistration"
	TypeRegistrations                   = "TypeRegistrations"
	CompositeTypeRegistration           = "CompositeTypeRegistration"
	CompositeTypeRegistrations          = "CompositeTypeRegistrations"
	CollectionTypeRegistration          = "CollectionTypeRegistration"
	CollectionTypeRegistrations         = "CollectionTypeRegistrations"
	EmbeddableInstantiatorRegistration  = "EmbeddableInstantiatorRegistration"
	EmbeddableInstantiatorRegistrations = "EmbeddableInstantiatorRegistrations"
	FilterDef                           = "FilterDef"
	FilterDefs                          = "FilterDefs"
	SequenceGenerator                   = "SequenceGenerator"
	SequenceGenerators                  = "SequenceGenerators"
	TableGenerator                      = "TableGenerator"
	TableGenerators                     = "TableGenerators"
	GenericGenerator                    = "GenericGenerator"
	GenericGenerators                   = "GenericGenerators"
	NamedQuery                          = "NamedQuery"
	NamedQueries                        = "NamedQueries"
	NamedNativeQuery                    = "NamedNativeQuery"
	NamedNativeQueries                  = "NamedNativeQueries"
)

// Marker returns an annotation usage without attributes.
func Marker(name string) *Annotation {
	return &Annotation{Name: name}
}

// EntityNamed returns an @Entity usage with an explicit entity name.
func EntityNamed(name string) *Annotation {
	return New(Entity, "name", name)
}

// AccessOf returns an @Access usage.
func AccessOf(t metamodel.AccessType) *Annotation {
	return New(Access, "value", t.String())
}

// InheritanceOf returns an @Inheritance usage.
func InheritanceOf(t metamodel.InheritanceType) *Annotation {
	return New(Inheritance, "strategy", t.String())
}

// OptimisticLockingOf returns an @OptimisticLocking usage.
func OptimisticLockingOf(s metamodel.OptimisticLockStyle) *Annotation {
	return New(OptimisticLocking, "type", s.String())
}

// CacheOf returns a @Cache usage with the given concurrency strategy and
// an optional region.
func CacheOf(usage metamodel.CacheAccessType, region string) *Annotation {
	a := New(Cache, "usage", usage.String())
	if region != "" {
		a.Set("region", region)
	}
	return a
}

// CacheableOf returns a @Cacheable usage.
func CacheableOf(v bool) *Annotation {
	return New(Cacheable, "value", v)
}

// IDClassOf returns an @IdClass usage.
func IDClassOf(class string) *Annotation {
	return New(IDClass, "value", class)
}

// EntityListenersOf returns an @EntityListeners usage.
func EntityListenersOf(classes ...string) *Annotation {
	return New(EntityListeners, "value", classes)
}

// FilterDefOf returns a @FilterDef usage.
func FilterDefOf(name, condition string) *Annotation {
	return New(FilterDef, "name", name, "defaultCondition", condition)
}
