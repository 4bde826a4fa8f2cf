package schema

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Annotation is a single annotation usage on a class or member.
type Annotation struct {
	Name  string         `json:"name" yaml:"name"`
	Attrs map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// New returns an annotation usage with the given attribute key/value
// pairs. It panics on an odd number of kv arguments or a non-string key.
func New(name string, kv ...any) *Annotation {
	if len(kv)%2 != 0 {
		panic(fmt.Sprintf("schema: odd number of attribute arguments for %s", name))
	}
	a := &Annotation{Name: name}
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("schema: attribute key %v of %s is not a string", kv[i], name))
		}
		a.Set(k, kv[i+1])
	}
	return a
}

// Set sets an attribute value and returns the annotation.
func (a *Annotation) Set(key string, v any) *Annotation {
	if a.Attrs == nil {
		a.Attrs = make(map[string]any)
	}
	a.Attrs[key] = v
	return a
}

// Has reports whether the attribute is present.
func (a *Annotation) Has(key string) bool {
	if a == nil {
		return false
	}
	_, ok := a.Attrs[key]
	return ok
}

// Value returns the raw attribute value.
func (a *Annotation) Value(key string) (any, bool) {
	if a == nil {
		return nil, false
	}
	v, ok := a.Attrs[key]
	return v, ok
}

// String returns a string attribute, or def if it is absent or empty.
func (a *Annotation) String(key, def string) string {
	v, ok := a.Value(key)
	if !ok || v == nil {
		return def
	}
	var s string
	switch v := v.(type) {
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	if s == "" {
		return def
	}
	return s
}

// Bool returns a boolean attribute, or def if it is absent.
func (a *Annotation) Bool(key string, def bool) bool {
	v, ok := a.Value(key)
	if !ok {
		return def
	}
	switch v := v.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	default:
		return def
	}
}

// Int returns an integer attribute, or def if it is absent.
func (a *Annotation) Int(key string, def int) int {
	v, ok := a.Value(key)
	if !ok {
		return def
	}
	switch v := v.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return def
		}
		return n
	default:
		return def
	}
}

// Strings returns a list attribute. A scalar value is returned as a list of
// one element.
func (a *Annotation) Strings(key string) []string {
	v, ok := a.Value(key)
	if !ok || v == nil {
		return nil
	}
	switch v := v.(type) {
	case []string:
		return v
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			out = append(out, fmt.Sprint(e))
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

// Maps returns a list-of-maps attribute as nested annotations named after
// the given element name. It is used to unpack repeatable containers such
// as FilterDefs or NamedQueries.
func (a *Annotation) Maps(key, elem string) []*Annotation {
	v, ok := a.Value(key)
	if !ok || v == nil {
		return nil
	}
	var out []*Annotation
	add := func(m map[string]any) {
		out = append(out, &Annotation{Name: elem, Attrs: m})
	}
	switch v := v.(type) {
	case []*Annotation:
		for _, e := range v {
			out = append(out, &Annotation{Name: elem, Attrs: e.Attrs})
		}
	case []map[string]any:
		for _, m := range v {
			add(m)
		}
	case []any:
		for _, e := range v {
			switch e := e.(type) {
			case map[string]any:
				add(e)
			case *Annotation:
				out = append(out, &Annotation{Name: elem, Attrs: e.Attrs})
			}
		}
	case map[string]any:
		add(v)
	}
	return out
}

// UnmarshalYAML accepts both the mapping form and a plain scalar holding
// the annotation name.
func (a *Annotation) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		a.Name = node.Value
		return nil
	}
	type plain Annotation
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*a = Annotation(p)
	return nil
}

// UnmarshalJSON accepts both the object form and a string holding the
// annotation name.
func (a *Annotation) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		a.Name = name
		return nil
	}
	type plain Annotation
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Annotation(p)
	return nil
}

// Annotations is an ordered list of annotation usages.
type Annotations []*Annotation

// Get returns the first usage with the given name, or nil.
func (as Annotations) Get(name string) *Annotation {
	for _, a := range as {
		if a != nil && a.Name == name {
			return a
		}
	}
	return nil
}

// Has reports whether an annotation with the given name is present.
func (as Annotations) Has(name string) bool {
	return as.Get(name) != nil
}

// All returns every usage with the given name, in declaration order.
func (as Annotations) All(name string) []*Annotation {
	var out []*Annotation
	for _, a := range as {
		if a != nil && a.Name == name {
			out = append(out, a)
		}
	}
	return out
}

// Repeated returns the usages of a repeatable annotation, whether declared
// directly or through its container.
func (as Annotations) Repeated(name, container string) []*Annotation {
	out := as.All(name)
	for _, c := range as.All(container) {
		out = append(out, c.Maps("value", name)...)
	}
	return out
}

// Names returns the annotation names in declaration order.
func (as Annotations) Names() []string {
	names := make([]string, 0, len(as))
	for _, a := range as {
		if a != nil {
			names = append(names, a.Name)
		}
	}
	return names
}
