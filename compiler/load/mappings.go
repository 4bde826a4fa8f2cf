package load

import "github.com/syssam/metamodel"

// Mappings is a mapping document: the descriptor-file counterpart of the
// global annotations, with persistence-unit defaults.
type Mappings struct {
	Defaults                *PersistenceUnitDefaults              `json:"persistence_unit_defaults,omitempty" yaml:"persistenceUnitDefaults,omitempty"`
	JavaTypes               []*JavaTypeRegistration               `json:"java_types,omitempty" yaml:"javaTypes,omitempty"`
	JdbcTypes               []*JdbcTypeRegistration               `json:"jdbc_types,omitempty" yaml:"jdbcTypes,omitempty"`
	ConverterRegistrations  []*ConverterRegistration              `json:"converter_registrations,omitempty" yaml:"converterRegistrations,omitempty"`
	UserTypes               []*UserTypeRegistration               `json:"user_types,omitempty" yaml:"userTypes,omitempty"`
	CompositeUserTypes      []*CompositeUserTypeRegistration      `json:"composite_user_types,omitempty" yaml:"compositeUserTypes,omitempty"`
	CollectionUserTypes     []*CollectionUserTypeRegistration     `json:"collection_user_types,omitempty" yaml:"collectionUserTypes,omitempty"`
	EmbeddableInstantiators []*EmbeddableInstantiatorRegistration `json:"embeddable_instantiators,omitempty" yaml:"embeddableInstantiators,omitempty"`
	FilterDefs              []*FilterDef                          `json:"filter_defs,omitempty" yaml:"filterDefs,omitempty"`
	SequenceGenerators      []*SequenceGenerator                  `json:"sequence_generators,omitempty" yaml:"sequenceGenerators,omitempty"`
	TableGenerators         []*TableGenerator                     `json:"table_generators,omitempty" yaml:"tableGenerators,omitempty"`
	GenericGenerators       []*GenericGenerator                   `json:"generic_generators,omitempty" yaml:"genericGenerators,omitempty"`
	Converters              []*Converter                          `json:"converters,omitempty" yaml:"converters,omitempty"`
	NamedQueries            []*NamedQuery                         `json:"named_queries,omitempty" yaml:"namedQueries,omitempty"`
	NamedNativeQueries      []*NamedQuery                         `json:"named_native_queries,omitempty" yaml:"namedNativeQueries,omitempty"`

	Source string `json:"-" yaml:"-"`
}

// PersistenceUnitDefaults apply to every class of the persistence unit.
type PersistenceUnitDefaults struct {
	Access          metamodel.AccessType `json:"access,omitempty" yaml:"access,omitempty"`
	Catalog         string               `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Schema          string               `json:"schema,omitempty" yaml:"schema,omitempty"`
	CascadePersist  bool                 `json:"cascade_persist,omitempty" yaml:"cascadePersist,omitempty"`
	EntityListeners []*EntityListener    `json:"entity_listeners,omitempty" yaml:"entityListeners,omitempty"`
}

// EntityListener is a listener class declared in a mapping document.
// Callbacks maps callback names (PrePersist, PostLoad, ...) to method
// names; when empty the callbacks are read from the annotated class.
type EntityListener struct {
	Class     string            `json:"class" yaml:"class"`
	Callbacks map[string]string `json:"callbacks,omitempty" yaml:"callbacks,omitempty"`
}

// JavaTypeRegistration registers a java type descriptor for a domain type.
type JavaTypeRegistration struct {
	JavaType   string `json:"java_type" yaml:"javaType"`
	Descriptor string `json:"descriptor" yaml:"descriptor"`
}

// JdbcTypeRegistration registers a jdbc type descriptor for a type code.
type JdbcTypeRegistration struct {
	Code       int    `json:"code,omitempty" yaml:"code,omitempty"`
	Descriptor string `json:"descriptor" yaml:"descriptor"`
}

// ConverterRegistration registers an attribute converter.
type ConverterRegistration struct {
	Converter  string `json:"converter" yaml:"converter"`
	DomainType string `json:"domain_type,omitempty" yaml:"domainType,omitempty"`
	AutoApply  bool   `json:"auto_apply,omitempty" yaml:"autoApply,omitempty"`
}

// UserTypeRegistration registers a user type for a basic class.
type UserTypeRegistration struct {
	Class    string `json:"class" yaml:"class"`
	UserType string `json:"user_type" yaml:"userType"`
}

// CompositeUserTypeRegistration registers a composite user type for an
// embeddable class.
type CompositeUserTypeRegistration struct {
	EmbeddableClass string `json:"embeddable_class" yaml:"embeddableClass"`
	UserType        string `json:"user_type" yaml:"userType"`
}

// CollectionUserTypeRegistration registers a collection semantics type
// for a collection classification (BAG, LIST, SET, MAP, ...).
type CollectionUserTypeRegistration struct {
	Classification string            `json:"classification" yaml:"classification"`
	UserType       string            `json:"user_type" yaml:"userType"`
	Parameters     map[string]string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// EmbeddableInstantiatorRegistration registers an instantiator for an
// embeddable class.
type EmbeddableInstantiatorRegistration struct {
	EmbeddableClass string `json:"embeddable_class" yaml:"embeddableClass"`
	Instantiator    string `json:"instantiator" yaml:"instantiator"`
}

// FilterDef is a named filter definition.
type FilterDef struct {
	Name             string            `json:"name" yaml:"name"`
	DefaultCondition string            `json:"default_condition,omitempty" yaml:"defaultCondition,omitempty"`
	Parameters       map[string]string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	AutoEnabled      bool              `json:"auto_enabled,omitempty" yaml:"autoEnabled,omitempty"`
	ApplyToLoadByKey bool              `json:"apply_to_load_by_key,omitempty" yaml:"applyToLoadByKey,omitempty"`
}

// SequenceGenerator is a named sequence-based identifier generator.
type SequenceGenerator struct {
	Name           string `json:"name" yaml:"name"`
	SequenceName   string `json:"sequence_name,omitempty" yaml:"sequenceName,omitempty"`
	Catalog        string `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Schema         string `json:"schema,omitempty" yaml:"schema,omitempty"`
	InitialValue   int    `json:"initial_value,omitempty" yaml:"initialValue,omitempty"`
	AllocationSize int    `json:"allocation_size,omitempty" yaml:"allocationSize,omitempty"`
}

// TableGenerator is a named table-based identifier generator.
type TableGenerator struct {
	Name            string `json:"name" yaml:"name"`
	Table           string `json:"table,omitempty" yaml:"table,omitempty"`
	Catalog         string `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Schema          string `json:"schema,omitempty" yaml:"schema,omitempty"`
	PkColumnName    string `json:"pk_column_name,omitempty" yaml:"pkColumnName,omitempty"`
	ValueColumnName string `json:"value_column_name,omitempty" yaml:"valueColumnName,omitempty"`
	PkColumnValue   string `json:"pk_column_value,omitempty" yaml:"pkColumnValue,omitempty"`
	InitialValue    int    `json:"initial_value,omitempty" yaml:"initialValue,omitempty"`
	AllocationSize  int    `json:"allocation_size,omitempty" yaml:"allocationSize,omitempty"`
}

// GenericGenerator is a named generator backed by a strategy class.
type GenericGenerator struct {
	Name       string            `json:"name" yaml:"name"`
	Strategy   string            `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Converter is an attribute converter class.
type Converter struct {
	Class     string `json:"class" yaml:"class"`
	AutoApply bool   `json:"auto_apply,omitempty" yaml:"autoApply,omitempty"`
}

// NamedQuery is a named JPQL or native query.
type NamedQuery struct {
	Name        string `json:"name" yaml:"name"`
	Query       string `json:"query" yaml:"query"`
	ResultClass string `json:"result_class,omitempty" yaml:"resultClass,omitempty"`
	Native      bool   `json:"native,omitempty" yaml:"native,omitempty"`
}
