package criteria

import (
	"fmt"

	"github.com/syssam/metamodel/compiler/categorize"
)

// JoinType is the type of a join.
type JoinType uint8

// Join types.
const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
)

// String returns the join keyword.
func (t JoinType) String() string {
	return [...]string{"join", "left join", "right join"}[t]
}

// From is a node that paths and joins start from: a Root or a Join.
type From interface {
	Expression
	// Get returns the path to an attribute.
	Get(attr string) *Path
	// Join joins an attribute.
	Join(attr string, typ JoinType) *Join
	// Fetch fetch-joins an attribute.
	Fetch(attr string, typ JoinType) *Join
	// Joins returns the joins made from the node.
	Joins() []*Join
	// Err returns the path resolution error of the node, if any.
	Err() error

	from() *fromBase
}

// fromBase is the state shared by roots and joins.
type fromBase struct {
	b     *Builder
	alias string
	joins []*Join
	// Resolved type, when the builder is bound to a metamodel.
	target categorize.ManagedType
	path   string
	err    error
}

func (f *fromBase) from() *fromBase { return f }

// Joins returns the joins made from the node.
func (f *fromBase) Joins() []*Join { return append([]*Join(nil), f.joins...) }

// Err returns the path resolution error of the node.
func (f *fromBase) Err() error { return f.err }

// Root is an entity in a from clause.
type Root struct {
	expression
	fromBase
	Entity string
	// Correlated is the outer root a subquery root stands for.
	Correlated *Root
}

// Kind implements Node.
func (*Root) Kind() Kind { return KindRoot }

// As sets the identification variable.
func (r *Root) As(alias string) *Root {
	r.alias = alias
	return r
}

// Alias returns the identification variable, empty until assigned.
func (r *Root) Alias() string {
	if r.Correlated != nil {
		return r.Correlated.Alias()
	}
	return r.alias
}

// Get returns the path to an attribute of the entity.
func (r *Root) Get(attr string) *Path { return newPath(r, &r.fromBase, attr) }

// Join joins an attribute of the entity.
func (r *Root) Join(attr string, typ JoinType) *Join { return newJoin(r, &r.fromBase, attr, typ, false) }

// Fetch fetch-joins an attribute of the entity.
func (r *Root) Fetch(attr string, typ JoinType) *Join { return newJoin(r, &r.fromBase, attr, typ, true) }

// Join is a joined attribute.
type Join struct {
	expression
	fromBase
	Parent    From
	Attribute string
	Type      JoinType
	IsFetch   bool
	On        Predicate
}

// Kind implements Node.
func (*Join) Kind() Kind { return KindJoin }

// As sets the identification variable.
func (j *Join) As(alias string) *Join {
	j.alias = alias
	return j
}

// Alias returns the identification variable, empty until assigned.
func (j *Join) Alias() string { return j.alias }

// Where sets the join condition. Several predicates are combined with and.
func (j *Join) Where(ps ...Predicate) *Join {
	j.On = j.b.conjunction(ps)
	return j
}

// Get returns the path to an attribute of the joined type.
func (j *Join) Get(attr string) *Path { return newPath(j, &j.fromBase, attr) }

// Join joins an attribute of the joined type.
func (j *Join) Join(attr string, typ JoinType) *Join { return newJoin(j, &j.fromBase, attr, typ, false) }

// Fetch fetch-joins an attribute of the joined type.
func (j *Join) Fetch(attr string, typ JoinType) *Join { return newJoin(j, &j.fromBase, attr, typ, true) }

// Path is an attribute reached from a From or another Path.
type Path struct {
	expression
	Parent    Expression // *Root, *Join, *Treat or *Path.
	Attribute string

	b      *Builder
	attr   *categorize.AttributeMetadata
	target categorize.ManagedType
	path   string
	err    error
}

// Kind implements Node.
func (*Path) Kind() Kind { return KindPath }

// Get returns the path to a nested attribute.
func (p *Path) Get(attr string) *Path {
	q := &Path{Parent: p, Attribute: attr, b: p.b, path: p.path + "." + attr}
	switch {
	case p.err != nil:
		q.err = p.err
	case p.b.model == nil:
	case p.target == nil:
		q.err = newPathError(q.path, fmt.Sprintf("attribute %q cannot be dereferenced", p.Attribute))
	default:
		q.resolve(p.target)
	}
	return q
}

// Attr returns the resolved attribute, nil when the builder is not bound
// to a metamodel or resolution failed.
func (p *Path) Attr() *categorize.AttributeMetadata { return p.attr }

// Err returns the path resolution error, if any.
func (p *Path) Err() error { return p.err }

func newPath(parent Expression, f *fromBase, attr string) *Path {
	p := &Path{Parent: parent, Attribute: attr, b: f.b, path: f.path + "." + attr}
	switch {
	case f.err != nil:
		p.err = f.err
	case f.b.model == nil:
	case f.target == nil:
		p.err = newPathError(p.path, "source type is not a managed type")
	default:
		p.resolve(f.target)
	}
	return p
}

func (p *Path) resolve(owner categorize.ManagedType) {
	a := owner.FindAttribute(p.Attribute)
	if a == nil {
		p.err = newPathError(p.path, fmt.Sprintf("unknown attribute %q of %s", p.Attribute, owner.ClassName()))
		return
	}
	p.attr = a
	p.target = p.b.targetOf(a)
}

func newJoin(parent From, f *fromBase, attr string, typ JoinType, fetch bool) *Join {
	j := &Join{
		Parent:    parent,
		Attribute: attr,
		Type:      typ,
		IsFetch:   fetch,
		fromBase:  fromBase{b: f.b, path: f.path + "." + attr},
	}
	f.joins = append(f.joins, j)
	switch {
	case f.err != nil:
		j.err = f.err
	case f.b.model == nil:
	case f.target == nil:
		j.err = newPathError(j.path, "source type is not a managed type")
	default:
		a := f.target.FindAttribute(attr)
		switch {
		case a == nil:
			j.err = newPathError(j.path, fmt.Sprintf("unknown attribute %q of %s", attr, f.target.ClassName()))
		case a.Nature() == categorize.Basic:
			j.err = newPathError(j.path, fmt.Sprintf("basic attribute %q cannot be joined", attr))
		default:
			j.target = f.b.targetOf(a)
		}
	}
	return j
}

// Treat downcasts a From to a subtype.
type Treat struct {
	expression
	X    From
	Type string // Entity name of the subtype.

	b      *Builder
	target categorize.ManagedType
	err    error
}

// Kind implements Node.
func (*Treat) Kind() Kind { return KindTreat }

// Get returns the path to an attribute of the subtype.
func (t *Treat) Get(attr string) *Path {
	path := t.X.from().path + "." + attr
	p := &Path{Parent: t, Attribute: attr, b: t.b, path: path}
	switch {
	case t.err != nil:
		p.err = t.err
	case t.b.model != nil:
		p.resolve(t.target)
	}
	return p
}

// Err returns the resolution error, if any.
func (t *Treat) Err() error { return t.err }

// targetOf returns the managed type an attribute leads to, or nil.
func (b *Builder) targetOf(a *categorize.AttributeMetadata) categorize.ManagedType {
	m := a.Member()
	typ := m.Type
	if a.Nature() == categorize.Plural {
		typ = m.ElementType
	}
	if a.Nature() == categorize.Basic || a.Nature() == categorize.Any || typ == "" {
		return nil
	}
	t, ok := b.model.ManagedType(typ)
	if !ok {
		return nil
	}
	return t
}

