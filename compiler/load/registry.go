package load

import (
	"fmt"

	"github.com/syssam/metamodel"
)

// Registry holds the classes and mapping documents of a class model. It
// is populated once and read by a single categorization pass.
type Registry struct {
	classes  map[string]*ClassDetails
	order    []string
	subtypes map[string][]string
	mappings []*Mappings
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		classes:  make(map[string]*ClassDetails),
		subtypes: make(map[string][]string),
	}
}

// Add registers classes. Adding a class name twice is an error.
func (r *Registry) Add(classes ...*ClassDetails) error {
	for _, c := range classes {
		if c == nil || c.Name == "" {
			return metamodel.NewModelError("", "", "class without name", nil)
		}
		if prev, ok := r.classes[c.Name]; ok {
			return metamodel.NewModelError(c.Name, "", fmt.Sprintf("class already registered from %q", prev.Pos), nil)
		}
		c.bind()
		r.classes[c.Name] = c
		r.order = append(r.order, c.Name)
		if c.Superclass != "" {
			r.subtypes[c.Superclass] = append(r.subtypes[c.Superclass], c.Name)
		}
	}
	return nil
}

// MustAdd is like Add but panics on error.
func (r *Registry) MustAdd(classes ...*ClassDetails) *Registry {
	if err := r.Add(classes...); err != nil {
		panic(err)
	}
	return r
}

// AddMappings registers mapping documents.
func (r *Registry) AddMappings(ms ...*Mappings) {
	for _, m := range ms {
		if m != nil {
			r.mappings = append(r.mappings, m)
		}
	}
}

// Class returns the class with the given name.
func (r *Registry) Class(name string) (*ClassDetails, bool) {
	c, ok := r.classes[name]
	return c, ok
}

// Superclass returns the registered superclass of c. Superclasses outside
// the model (the implicit Object root, library classes) are reported as
// absent.
func (r *Registry) Superclass(c *ClassDetails) (*ClassDetails, bool) {
	if c == nil || c.Superclass == "" {
		return nil, false
	}
	return r.Class(c.Superclass)
}

// DirectSubtypes returns the classes directly extending name, in
// registration order.
func (r *Registry) DirectSubtypes(name string) []*ClassDetails {
	names := r.subtypes[name]
	subs := make([]*ClassDetails, 0, len(names))
	for _, n := range names {
		subs = append(subs, r.classes[n])
	}
	return subs
}

// Classes returns all classes in registration order.
func (r *Registry) Classes() []*ClassDetails {
	all := make([]*ClassDetails, 0, len(r.order))
	for _, n := range r.order {
		all = append(all, r.classes[n])
	}
	return all
}

// Mappings returns the registered mapping documents.
func (r *Registry) Mappings() []*Mappings {
	return r.mappings
}

// Len returns the number of classes.
func (r *Registry) Len() int {
	return len(r.order)
}

// Validate reports superclass cycles.
func (r *Registry) Validate() error {
	for _, name := range r.order {
		seen := map[string]bool{name: true}
		for c, ok := r.Superclass(r.classes[name]); ok; c, ok = r.Superclass(c) {
			if seen[c.Name] {
				return metamodel.NewModelError(name, "", fmt.Sprintf("superclass cycle through %s", c.Name), nil)
			}
			seen[c.Name] = true
		}
	}
	return nil
}
