package categorize

import (
	"log/slog"
	"sort"

	"github.com/syssam/metamodel"
	"github.com/syssam/metamodel/compiler/load"
	"github.com/syssam/metamodel/schema"
)

// AttributeNature is the semantic category of a persistent attribute.
type AttributeNature uint8

// Attribute natures.
const (
	Basic AttributeNature = iota
	Embedded
	Any
	ToOne
	Plural
)

// String returns the nature name.
func (n AttributeNature) String() string {
	switch n {
	case Embedded:
		return "EMBEDDED"
	case Any:
		return "ANY"
	case ToOne:
		return "TO_ONE"
	case Plural:
		return "PLURAL"
	default:
		return "BASIC"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (n AttributeNature) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// Natures implied by explicit annotations, in lookup order.
var explicitNatures = []struct {
	annotation string
	nature     AttributeNature
}{
	{schema.Basic, Basic},
	{schema.Embedded, Embedded},
	{schema.EmbeddedID, Embedded},
	{schema.Any, Any},
	{schema.OneToOne, ToOne},
	{schema.ManyToOne, ToOne},
	{schema.OneToMany, Plural},
	{schema.ManyToMany, Plural},
	{schema.ElementCollection, Plural},
	{schema.ManyToAny, Plural},
}

// Natures implied by annotations that usually come with one nature. They
// are ignored on plural attributes, where they describe the elements.
var implicitNatures = []struct {
	annotation string
	nature     AttributeNature
}{
	{schema.Temporal, Basic},
	{schema.Lob, Basic},
	{schema.Enumerated, Basic},
	{schema.Convert, Basic},
	{schema.Version, Basic},
	{schema.GeneratedValue, Basic},
	{schema.Type, Basic},
	{schema.JavaType, Basic},
	{schema.JdbcType, Basic},
	{schema.JdbcTypeCode, Basic},
	{schema.EmbeddableInstantiator, Embedded},
	{schema.CompositeType, Embedded},
	{schema.AnyDiscriminator, Any},
	{schema.AnyDiscriminatorValue, Any},
	{schema.AnyDiscriminatorValues, Any},
	{schema.AnyKeyJavaType, Any},
	{schema.AnyKeyJavaClass, Any},
	{schema.AnyKeyJdbcType, Any},
	{schema.AnyKeyJdbcTypeCode, Any},
}

// DetermineNature classifies a persistent member. Members typed with an
// @Embeddable class of the model are embedded. The model and logger may
// be nil.
func DetermineNature(m *load.Member, model ClassModel, logger *slog.Logger) (AttributeNature, error) {
	found := make(map[AttributeNature]struct{})
	for _, e := range explicitNatures {
		if m.HasAnnotation(e.annotation) {
			found[e.nature] = struct{}{}
		}
	}
	if isEmbeddableType(m.Type, model) {
		found[Embedded] = struct{}{}
	}
	if _, plural := found[Plural]; !plural {
		for _, e := range implicitNatures {
			if m.HasAnnotation(e.annotation) {
				found[e.nature] = struct{}{}
			}
		}
	}
	switch len(found) {
	case 0:
		if logger != nil {
			logger.Debug("implicitly categorizing attribute as BASIC", "member", m.String())
		}
		return Basic, nil
	case 1:
		for n := range found {
			return n, nil
		}
	}
	names := make([]string, 0, len(found))
	for n := range found {
		names = append(names, n.String())
	}
	sort.Strings(names)
	return Basic, metamodel.NewMultipleNaturesError(m.String(), names)
}

func isEmbeddableType(typ string, model ClassModel) bool {
	if typ == "" || model == nil {
		return false
	}
	c, ok := model.Class(typ)
	return ok && c.HasAnnotation(schema.Embeddable)
}
