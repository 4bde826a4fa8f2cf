package load

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/syssam/metamodel/schema"
)

// MemberKind tells fields and methods apart.
type MemberKind uint8

// Member kinds.
const (
	FieldMember MemberKind = iota
	MethodMember
)

// String returns the member kind name.
func (k MemberKind) String() string {
	if k == MethodMember {
		return "method"
	}
	return "field"
}

// Member is a field or method of a loaded class.
type Member struct {
	Name        string             `json:"name" yaml:"name"`
	Type        string             `json:"type,omitempty" yaml:"type,omitempty"`
	ElementType string             `json:"element_type,omitempty" yaml:"elementType,omitempty"`
	Params      []string           `json:"params,omitempty" yaml:"params,omitempty"`
	Static      bool               `json:"static,omitempty" yaml:"static,omitempty"`
	Transient   bool               `json:"transient,omitempty" yaml:"transient,omitempty"`
	Annotations schema.Annotations `json:"annotations,omitempty" yaml:"annotations,omitempty"`

	Kind      MemberKind `json:"-" yaml:"-"`
	Declaring string     `json:"-" yaml:"-"` // Declaring class name.
	Position  int        `json:"-" yaml:"-"` // Index in the declaring field or method list.
}

// IsField reports whether the member is a field.
func (m *Member) IsField() bool { return m.Kind == FieldMember }

// IsMethod reports whether the member is a method.
func (m *Member) IsMethod() bool { return m.Kind == MethodMember }

// IsGetter reports whether the member is a JavaBean getter: a method
// without parameters named getX or isX.
func (m *Member) IsGetter() bool {
	if !m.IsMethod() || len(m.Params) > 0 {
		return false
	}
	_, ok := getterSuffix(m.Name)
	return ok
}

// AttributeName returns the persistent attribute name of the member: the
// decapitalized property name for getters, the member name otherwise.
func (m *Member) AttributeName() string {
	if !m.IsGetter() {
		return m.Name
	}
	suffix, _ := getterSuffix(m.Name)
	return decapitalize(suffix)
}

// Annotation returns the first usage of the named annotation, or nil.
func (m *Member) Annotation(name string) *schema.Annotation {
	return m.Annotations.Get(name)
}

// HasAnnotation reports whether the member carries the named annotation.
func (m *Member) HasAnnotation(name string) bool {
	return m.Annotations.Has(name)
}

// String returns the member in Class#name form.
func (m *Member) String() string {
	if m.Declaring == "" {
		return m.Name
	}
	return m.Declaring + "#" + m.Name
}

func getterSuffix(name string) (string, bool) {
	for _, prefix := range []string{"get", "is"} {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok || rest == "" {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(rest); unicode.IsUpper(r) {
			return rest, true
		}
	}
	return "", false
}

// decapitalize follows the JavaBeans rule: the first letter is lowered
// unless the first two letters are both upper case (URL stays URL).
func decapitalize(s string) string {
	if s == "" {
		return s
	}
	r, n := utf8.DecodeRuneInString(s)
	if len(s) > n {
		if r2, _ := utf8.DecodeRuneInString(s[n:]); unicode.IsUpper(r) && unicode.IsUpper(r2) {
			return s
		}
	}
	return string(unicode.ToLower(r)) + s[n:]
}

// ClassDetails is a class of the loaded model.
type ClassDetails struct {
	Name        string             `json:"name" yaml:"name"`
	Superclass  string             `json:"superclass,omitempty" yaml:"superclass,omitempty"`
	Abstract    bool               `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Annotations schema.Annotations `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Fields      []*Member          `json:"fields,omitempty" yaml:"fields,omitempty"`
	Methods     []*Member          `json:"methods,omitempty" yaml:"methods,omitempty"`

	Pos string `json:"-" yaml:"-"` // Source file the class was loaded from.
}

// NewClass returns an empty class with the given fully qualified name.
func NewClass(name string) *ClassDetails {
	return &ClassDetails{Name: name}
}

// Extends sets the superclass name.
func (c *ClassDetails) Extends(super string) *ClassDetails {
	c.Superclass = super
	return c
}

// AsAbstract marks the class abstract.
func (c *ClassDetails) AsAbstract() *ClassDetails {
	c.Abstract = true
	return c
}

// Annotate appends class-level annotation usages.
func (c *ClassDetails) Annotate(as ...*schema.Annotation) *ClassDetails {
	c.Annotations = append(c.Annotations, as...)
	return c
}

// Field appends a field.
func (c *ClassDetails) Field(name, typ string, as ...*schema.Annotation) *ClassDetails {
	return c.AddField(&Member{Name: name, Type: typ, Annotations: as})
}

// Getter appends a parameterless method.
func (c *ClassDetails) Getter(name, typ string, as ...*schema.Annotation) *ClassDetails {
	return c.AddMethod(&Member{Name: name, Type: typ, Annotations: as})
}

// Callback appends a void method with the given parameter types, as used
// for lifecycle callbacks.
func (c *ClassDetails) Callback(name string, params []string, as ...*schema.Annotation) *ClassDetails {
	return c.AddMethod(&Member{Name: name, Type: "void", Params: params, Annotations: as})
}

// AddField appends a field member.
func (c *ClassDetails) AddField(m *Member) *ClassDetails {
	c.Fields = append(c.Fields, m)
	c.bind()
	return c
}

// AddMethod appends a method member.
func (c *ClassDetails) AddMethod(m *Member) *ClassDetails {
	c.Methods = append(c.Methods, m)
	c.bind()
	return c
}

// Annotation returns the first usage of the named class-level annotation,
// or nil.
func (c *ClassDetails) Annotation(name string) *schema.Annotation {
	return c.Annotations.Get(name)
}

// HasAnnotation reports whether the class carries the named annotation.
func (c *ClassDetails) HasAnnotation(name string) bool {
	return c.Annotations.Has(name)
}

// SimpleName returns the unqualified class name.
func (c *ClassDetails) SimpleName() string {
	return Unqualify(c.Name)
}

// Members returns the fields followed by the methods.
func (c *ClassDetails) Members() []*Member {
	all := make([]*Member, 0, len(c.Fields)+len(c.Methods))
	all = append(all, c.Fields...)
	return append(all, c.Methods...)
}

// String implements fmt.Stringer.
func (c *ClassDetails) String() string {
	if c.Pos != "" {
		return fmt.Sprintf("%s (%s)", c.Name, c.Pos)
	}
	return c.Name
}

// bind sets the derived member fields.
func (c *ClassDetails) bind() {
	for i, f := range c.Fields {
		f.Kind, f.Declaring, f.Position = FieldMember, c.Name, i
	}
	for i, m := range c.Methods {
		m.Kind, m.Declaring, m.Position = MethodMember, c.Name, i
	}
}

// Unqualify strips the package qualifier of a class name.
func Unqualify(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
