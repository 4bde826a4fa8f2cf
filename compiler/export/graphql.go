package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// scalars maps basic attribute types to GraphQL scalars. Unknown types
// map to String.
var scalars = map[string]string{
	"int":        "Int",
	"Integer":    "Int",
	"long":       "Int",
	"Long":       "Int",
	"short":      "Int",
	"Short":      "Int",
	"byte":       "Int",
	"Byte":       "Int",
	"BigInteger": "Int",
	"float":      "Float",
	"Float":      "Float",
	"double":     "Float",
	"Double":     "Float",
	"BigDecimal": "Float",
	"boolean":    "Boolean",
	"Boolean":    "Boolean",
}

func scalar(typ string) string {
	if i := strings.LastIndexByte(typ, '.'); i >= 0 {
		typ = typ[i+1:]
	}
	if s, ok := scalars[typ]; ok {
		return s
	}
	return "String"
}

// graphQLName returns the GraphQL type name: the entity name of entities,
// the simple class name otherwise.
func graphQLName(t *Type) string {
	if t.Entity != "" {
		return t.Entity
	}
	name := t.Class
	if i := strings.LastIndexAny(name, ".$"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// schemaBuilder turns a snapshot into a GraphQL schema document.
type schemaBuilder struct {
	names   map[string]string // class name to GraphQL name
	byClass map[string]*Type
	ids     map[string]map[string]bool // class name to identifier attributes
}

func encodeGraphQL(w io.Writer, s *Snapshot) error {
	b := &schemaBuilder{
		names:   make(map[string]string),
		byClass: make(map[string]*Type),
		ids:     make(map[string]map[string]bool),
	}
	var types []*Type
	add := func(t *Type, ids map[string]bool) error {
		if _, ok := b.byClass[t.Class]; ok {
			return nil
		}
		name := graphQLName(t)
		for class, other := range b.names {
			if other == name {
				return fmt.Errorf("metamodel: graphql type %s generated for both %s and %s", name, class, t.Class)
			}
		}
		b.names[t.Class] = name
		b.byClass[t.Class] = t
		b.ids[t.Class] = ids
		types = append(types, t)
		return nil
	}
	for _, h := range s.Hierarchies {
		ids := make(map[string]bool)
		for _, a := range h.IDAttributes {
			ids[a] = true
		}
		for _, t := range h.Types {
			if err := add(t, ids); err != nil {
				return err
			}
		}
	}
	for _, t := range s.Embeddables {
		if err := add(t, nil); err != nil {
			return err
		}
	}
	doc := &ast.SchemaDocument{}
	for _, t := range types {
		doc.Definitions = append(doc.Definitions, b.definition(t))
	}
	formatter.NewFormatter(w).FormatSchemaDocument(doc)
	return nil
}

// definition renders a type with the attributes of its super types, which
// GraphQL requires for every implemented interface.
func (b *schemaBuilder) definition(t *Type) *ast.Definition {
	def := &ast.Definition{
		Kind:        ast.Object,
		Name:        b.names[t.Class],
		Description: fmt.Sprintf("%s %s", strings.ToLower(strings.ReplaceAll(t.Kind, "_", " ")), t.Class),
	}
	if t.Kind == KindMappedSuperclass {
		def.Kind = ast.Interface
	}
	var chain []*Type
	for c := t; c != nil; c = b.byClass[c.Super] {
		chain = append([]*Type{c}, chain...)
		if c.Super == "" {
			break
		}
	}
	for _, c := range chain {
		if c != t && c.Kind == KindMappedSuperclass {
			def.Interfaces = append(def.Interfaces, b.names[c.Class])
		}
		for _, a := range c.Attributes {
			def.Fields = append(def.Fields, &ast.FieldDefinition{
				Name: a.Name,
				Type: b.fieldType(a, b.ids[t.Class][a.Name]),
			})
		}
	}
	return def
}

func (b *schemaBuilder) fieldType(a *Attribute, id bool) *ast.Type {
	switch a.Nature {
	case "BASIC":
		if id {
			return ast.NonNullNamedType("ID", nil)
		}
		return ast.NamedType(scalar(a.Type), nil)
	case "EMBEDDED", "TO_ONE":
		if name, ok := b.names[a.Type]; ok {
			return ast.NamedType(name, nil)
		}
		return ast.NamedType("String", nil)
	case "PLURAL":
		elem := scalar(a.ElementType)
		if name, ok := b.names[a.ElementType]; ok {
			elem = name
		}
		return ast.ListType(ast.NamedType(elem, nil), nil)
	default:
		return ast.NamedType("String", nil)
	}
}
