package categorize

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/syssam/metamodel/compiler/load"
	"github.com/syssam/metamodel/schema"
)

// Registrations is the frozen result of GlobalRegistrations. Named
// registrations are sorted by name.
type Registrations struct {
	JavaTypes               []*load.JavaTypeRegistration               `json:"java_types,omitempty" yaml:"javaTypes,omitempty"`
	JdbcTypes               []*load.JdbcTypeRegistration               `json:"jdbc_types,omitempty" yaml:"jdbcTypes,omitempty"`
	ConverterRegistrations  []*load.ConverterRegistration              `json:"converter_registrations,omitempty" yaml:"converterRegistrations,omitempty"`
	UserTypes               []*load.UserTypeRegistration               `json:"user_types,omitempty" yaml:"userTypes,omitempty"`
	CompositeUserTypes      []*load.CompositeUserTypeRegistration      `json:"composite_user_types,omitempty" yaml:"compositeUserTypes,omitempty"`
	CollectionUserTypes     []*load.CollectionUserTypeRegistration     `json:"collection_user_types,omitempty" yaml:"collectionUserTypes,omitempty"`
	EmbeddableInstantiators []*load.EmbeddableInstantiatorRegistration `json:"embeddable_instantiators,omitempty" yaml:"embeddableInstantiators,omitempty"`
	FilterDefs              []*load.FilterDef                          `json:"filter_defs,omitempty" yaml:"filterDefs,omitempty"`
	Imports                 map[string]string                          `json:"imports,omitempty" yaml:"imports,omitempty"`
	EntityListeners         []*load.EntityListener                     `json:"entity_listeners,omitempty" yaml:"entityListeners,omitempty"`
	SequenceGenerators      []*load.SequenceGenerator                  `json:"sequence_generators,omitempty" yaml:"sequenceGenerators,omitempty"`
	TableGenerators         []*load.TableGenerator                     `json:"table_generators,omitempty" yaml:"tableGenerators,omitempty"`
	GenericGenerators       []*load.GenericGenerator                   `json:"generic_generators,omitempty" yaml:"genericGenerators,omitempty"`
	Converters              []*load.Converter                          `json:"converters,omitempty" yaml:"converters,omitempty"`
	NamedQueries            []*load.NamedQuery                         `json:"named_queries,omitempty" yaml:"namedQueries,omitempty"`
}

// FilterDef returns the filter definition with the given name.
func (r *Registrations) FilterDef(name string) (*load.FilterDef, bool) {
	for _, f := range r.FilterDefs {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// NamedQuery returns the named query with the given name.
func (r *Registrations) NamedQuery(name string) (*load.NamedQuery, bool) {
	for _, q := range r.NamedQueries {
		if q.Name == name {
			return q, true
		}
	}
	return nil, false
}

// GlobalRegistrations accumulates the declarations that apply to the whole
// model rather than to one hierarchy. It is owned by a single pass and
// frozen into Registrations at its end.
type GlobalRegistrations struct {
	log *slog.Logger

	javaTypes               []*load.JavaTypeRegistration
	jdbcTypes               []*load.JdbcTypeRegistration
	converterRegistrations  []*load.ConverterRegistration
	userTypes               []*load.UserTypeRegistration
	compositeUserTypes      []*load.CompositeUserTypeRegistration
	collectionUserTypes     []*load.CollectionUserTypeRegistration
	embeddableInstantiators []*load.EmbeddableInstantiatorRegistration
	entityListeners         []*load.EntityListener

	filterDefs         map[string]*load.FilterDef
	imports            map[string]string
	sequenceGenerators map[string]*load.SequenceGenerator
	tableGenerators    map[string]*load.TableGenerator
	genericGenerators  map[string]*load.GenericGenerator
	converters         map[string]*load.Converter
	namedQueries       map[string]*load.NamedQuery
}

// NewGlobalRegistrations returns an empty accumulator.
func NewGlobalRegistrations(logger *slog.Logger) *GlobalRegistrations {
	if logger == nil {
		logger = discard
	}
	return &GlobalRegistrations{
		log:                logger,
		filterDefs:         make(map[string]*load.FilterDef),
		imports:            make(map[string]string),
		sequenceGenerators: make(map[string]*load.SequenceGenerator),
		tableGenerators:    make(map[string]*load.TableGenerator),
		genericGenerators:  make(map[string]*load.GenericGenerator),
		converters:         make(map[string]*load.Converter),
		namedQueries:       make(map[string]*load.NamedQuery),
	}
}

// CollectClass collects the global annotations of a class and of its
// members.
func (g *GlobalRegistrations) CollectClass(c *load.ClassDetails) error {
	as := c.Annotations
	for _, a := range as.Repeated(schema.JavaTypeRegistration, schema.JavaTypeRegistrations) {
		g.AddJavaType(&load.JavaTypeRegistration{
			JavaType:   a.String("javaType", ""),
			Descriptor: a.String("descriptorClass", ""),
		})
	}
	for _, a := range as.Repeated(schema.JdbcTypeRegistration, schema.JdbcTypeRegistrations) {
		g.AddJdbcType(&load.JdbcTypeRegistration{
			Code:       a.Int("registrationCode", 0),
			Descriptor: a.String("value", ""),
		})
	}
	for _, a := range as.Repeated(schema.ConverterRegistration, schema.ConverterRegistrations) {
		g.AddConverterRegistration(&load.ConverterRegistration{
			Converter:  a.String("converter", ""),
			DomainType: a.String("domainType", ""),
			AutoApply:  a.Bool("autoApply", true),
		})
	}
	for _, a := range as.Repeated(schema.TypeRegistration, schema.TypeRegistrations) {
		g.AddUserType(&load.UserTypeRegistration{
			Class:    a.String("basicClass", ""),
			UserType: a.String("userType", ""),
		})
	}
	for _, a := range as.Repeated(schema.CompositeTypeRegistration, schema.CompositeTypeRegistrations) {
		g.AddCompositeUserType(&load.CompositeUserTypeRegistration{
			EmbeddableClass: a.String("embeddableClass", ""),
			UserType:        a.String("userType", ""),
		})
	}
	for _, a := range as.Repeated(schema.CollectionTypeRegistration, schema.CollectionTypeRegistrations) {
		g.AddCollectionUserType(&load.CollectionUserTypeRegistration{
			Classification: a.String("classification", ""),
			UserType:       a.String("type", ""),
			Parameters:     parameters(a),
		})
	}
	for _, a := range as.Repeated(schema.EmbeddableInstantiatorRegistration, schema.EmbeddableInstantiatorRegistrations) {
		g.AddEmbeddableInstantiator(&load.EmbeddableInstantiatorRegistration{
			EmbeddableClass: a.String("embeddableClass", ""),
			Instantiator:    a.String("instantiator", ""),
		})
	}
	for _, a := range as.Repeated(schema.FilterDef, schema.FilterDefs) {
		if err := g.AddFilterDef(&load.FilterDef{
			Name:             a.String("name", ""),
			DefaultCondition: a.String("defaultCondition", ""),
			Parameters:       parameters(a),
			AutoEnabled:      a.Bool("autoEnabled", false),
			ApplyToLoadByKey: a.Bool("applyToLoadByKey", false),
		}); err != nil {
			return fmt.Errorf("class %s: %w", c.Name, err)
		}
	}
	if a := as.Get(schema.Imported); a != nil {
		g.AddImport(a.String("rename", c.SimpleName()), c.Name)
	}
	if a := as.Get(schema.Converter); a != nil {
		g.AddConverter(&load.Converter{Class: c.Name, AutoApply: a.Bool("autoApply", false)})
	}
	for _, a := range as.Repeated(schema.NamedQuery, schema.NamedQueries) {
		g.AddNamedQuery(&load.NamedQuery{
			Name:        a.String("name", ""),
			Query:       a.String("query", ""),
			ResultClass: a.String("resultClass", ""),
		})
	}
	for _, a := range as.Repeated(schema.NamedNativeQuery, schema.NamedNativeQueries) {
		g.AddNamedQuery(&load.NamedQuery{
			Name:        a.String("name", ""),
			Query:       a.String("query", ""),
			ResultClass: a.String("resultClass", ""),
			Native:      true,
		})
	}
	g.collectGenerators(as)
	for _, m := range c.Members() {
		g.collectGenerators(m.Annotations)
	}
	return nil
}

func (g *GlobalRegistrations) collectGenerators(as schema.Annotations) {
	for _, a := range as.Repeated(schema.SequenceGenerator, schema.SequenceGenerators) {
		g.AddSequenceGenerator(&load.SequenceGenerator{
			Name:           a.String("name", ""),
			SequenceName:   a.String("sequenceName", ""),
			Catalog:        a.String("catalog", ""),
			Schema:         a.String("schema", ""),
			InitialValue:   a.Int("initialValue", 1),
			AllocationSize: a.Int("allocationSize", 50),
		})
	}
	for _, a := range as.Repeated(schema.TableGenerator, schema.TableGenerators) {
		g.AddTableGenerator(&load.TableGenerator{
			Name:            a.String("name", ""),
			Table:           a.String("table", ""),
			Catalog:         a.String("catalog", ""),
			Schema:          a.String("schema", ""),
			PkColumnName:    a.String("pkColumnName", ""),
			ValueColumnName: a.String("valueColumnName", ""),
			PkColumnValue:   a.String("pkColumnValue", ""),
			InitialValue:    a.Int("initialValue", 0),
			AllocationSize:  a.Int("allocationSize", 50),
		})
	}
	for _, a := range as.Repeated(schema.GenericGenerator, schema.GenericGenerators) {
		g.AddGenericGenerator(&load.GenericGenerator{
			Name:       a.String("name", ""),
			Strategy:   a.String("strategy", ""),
			Parameters: parameters(a),
		})
	}
}

// parameters reads a "parameters" attribute given either as a map or as a
// list of {name, value} maps.
func parameters(a *schema.Annotation) map[string]string {
	v, ok := a.Value("parameters")
	if !ok {
		return nil
	}
	out := make(map[string]string)
	switch v := v.(type) {
	case map[string]any:
		for k, e := range v {
			out[k] = fmt.Sprint(e)
		}
	case map[string]string:
		maps.Copy(out, v)
	default:
		for _, p := range a.Maps("parameters", "Parameter") {
			value := p.String("value", "")
			if value == "" {
				value = p.String("type", "")
			}
			out[p.String("name", "")] = value
		}
	}
	return out
}

// CollectMappings collects the registrations of a mapping document.
func (g *GlobalRegistrations) CollectMappings(m *load.Mappings) error {
	for _, r := range m.JavaTypes {
		g.AddJavaType(r)
	}
	for _, r := range m.JdbcTypes {
		g.AddJdbcType(r)
	}
	for _, r := range m.ConverterRegistrations {
		g.AddConverterRegistration(r)
	}
	for _, r := range m.UserTypes {
		g.AddUserType(r)
	}
	for _, r := range m.CompositeUserTypes {
		g.AddCompositeUserType(r)
	}
	for _, r := range m.CollectionUserTypes {
		g.AddCollectionUserType(r)
	}
	for _, r := range m.EmbeddableInstantiators {
		g.AddEmbeddableInstantiator(r)
	}
	for _, f := range m.FilterDefs {
		if err := g.AddFilterDef(f); err != nil {
			return fmt.Errorf("mappings %s: %w", m.Source, err)
		}
	}
	for _, s := range m.SequenceGenerators {
		g.AddSequenceGenerator(s)
	}
	for _, t := range m.TableGenerators {
		g.AddTableGenerator(t)
	}
	for _, gg := range m.GenericGenerators {
		g.AddGenericGenerator(gg)
	}
	for _, c := range m.Converters {
		g.AddConverter(c)
	}
	for _, q := range m.NamedQueries {
		g.AddNamedQuery(q)
	}
	for _, q := range m.NamedNativeQueries {
		nq := *q
		nq.Native = true
		g.AddNamedQuery(&nq)
	}
	if m.Defaults != nil {
		g.entityListeners = append(g.entityListeners, m.Defaults.EntityListeners...)
	}
	return nil
}

// AddJavaType adds a java type registration.
func (g *GlobalRegistrations) AddJavaType(r *load.JavaTypeRegistration) {
	g.javaTypes = append(g.javaTypes, r)
}

// AddJdbcType adds a jdbc type registration.
func (g *GlobalRegistrations) AddJdbcType(r *load.JdbcTypeRegistration) {
	g.jdbcTypes = append(g.jdbcTypes, r)
}

// AddConverterRegistration adds a converter registration.
func (g *GlobalRegistrations) AddConverterRegistration(r *load.ConverterRegistration) {
	g.converterRegistrations = append(g.converterRegistrations, r)
}

// AddUserType adds a user type registration.
func (g *GlobalRegistrations) AddUserType(r *load.UserTypeRegistration) {
	g.userTypes = append(g.userTypes, r)
}

// AddCompositeUserType adds a composite user type registration.
func (g *GlobalRegistrations) AddCompositeUserType(r *load.CompositeUserTypeRegistration) {
	g.compositeUserTypes = append(g.compositeUserTypes, r)
}

// AddCollectionUserType adds a collection type registration.
func (g *GlobalRegistrations) AddCollectionUserType(r *load.CollectionUserTypeRegistration) {
	g.collectionUserTypes = append(g.collectionUserTypes, r)
}

// AddEmbeddableInstantiator adds an embeddable instantiator registration.
func (g *GlobalRegistrations) AddEmbeddableInstantiator(r *load.EmbeddableInstantiatorRegistration) {
	g.embeddableInstantiators = append(g.embeddableInstantiators, r)
}

// AddFilterDef adds a filter definition. A later definition with the same
// name replaces the earlier one.
func (g *GlobalRegistrations) AddFilterDef(f *load.FilterDef) error {
	if f.Name == "" {
		return fmt.Errorf("categorize: filter definition without name")
	}
	if _, ok := g.filterDefs[f.Name]; ok {
		g.log.Info("overwriting filter definition", "name", f.Name)
	}
	g.filterDefs[f.Name] = f
	return nil
}

// AddImport registers an import rename.
func (g *GlobalRegistrations) AddImport(rename, className string) {
	g.imports[rename] = className
}

// AddSequenceGenerator adds a sequence generator, replacing one with the
// same name.
func (g *GlobalRegistrations) AddSequenceGenerator(s *load.SequenceGenerator) {
	g.sequenceGenerators[s.Name] = s
}

// AddTableGenerator adds a table generator, replacing one with the same
// name.
func (g *GlobalRegistrations) AddTableGenerator(t *load.TableGenerator) {
	g.tableGenerators[t.Name] = t
}

// AddGenericGenerator adds a generic generator, replacing one with the
// same name.
func (g *GlobalRegistrations) AddGenericGenerator(gg *load.GenericGenerator) {
	g.genericGenerators[gg.Name] = gg
}

// AddConverter adds an attribute converter class.
func (g *GlobalRegistrations) AddConverter(c *load.Converter) {
	g.converters[c.Class] = c
}

// AddNamedQuery adds a named query, replacing one with the same name.
func (g *GlobalRegistrations) AddNamedQuery(q *load.NamedQuery) {
	g.namedQueries[q.Name] = q
}

// Freeze returns the collected registrations. The result does not change
// when more registrations are added afterwards.
func (g *GlobalRegistrations) Freeze() *Registrations {
	r := &Registrations{
		JavaTypes:               slices.Clone(g.javaTypes),
		JdbcTypes:               slices.Clone(g.jdbcTypes),
		ConverterRegistrations:  slices.Clone(g.converterRegistrations),
		UserTypes:               slices.Clone(g.userTypes),
		CompositeUserTypes:      slices.Clone(g.compositeUserTypes),
		CollectionUserTypes:     slices.Clone(g.collectionUserTypes),
		EmbeddableInstantiators: slices.Clone(g.embeddableInstantiators),
		EntityListeners:         slices.Clone(g.entityListeners),
		FilterDefs:              sortedValues(g.filterDefs),
		SequenceGenerators:      sortedValues(g.sequenceGenerators),
		TableGenerators:         sortedValues(g.tableGenerators),
		GenericGenerators:       sortedValues(g.genericGenerators),
		Converters:              sortedValues(g.converters),
		NamedQueries:            sortedValues(g.namedQueries),
	}
	if len(g.imports) > 0 {
		r.Imports = maps.Clone(g.imports)
	}
	return r
}

func sortedValues[V any](m map[string]V) []V {
	if len(m) == 0 {
		return nil
	}
	vs := make([]V, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		vs = append(vs, m[k])
	}
	return vs
}
