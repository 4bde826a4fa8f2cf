package criteria

// querySpec is the state shared by queries and subqueries.
type querySpec struct {
	b         *Builder
	distinct  bool
	selection Selection
	roots     []*Root
	where     Predicate
	groupBy   []Expression
	having    Predicate
}

// Roots returns the roots of the from clause.
func (q *querySpec) Roots() []*Root { return append([]*Root(nil), q.roots...) }

// Selection returns the selected item, nil when none was set.
func (q *querySpec) Selection() Selection { return q.selection }

// Restriction returns the where predicate, nil when none was set.
func (q *querySpec) Restriction() Predicate { return q.where }

// GroupList returns the group-by expressions.
func (q *querySpec) GroupList() []Expression { return append([]Expression(nil), q.groupBy...) }

// GroupRestriction returns the having predicate.
func (q *querySpec) GroupRestriction() Predicate { return q.having }

// IsDistinct reports whether duplicates are eliminated.
func (q *querySpec) IsDistinct() bool { return q.distinct }

// Query is a select query.
type Query struct {
	node
	querySpec
	orderBy []*Order
	tuple   bool
}

// Kind implements Node.
func (*Query) Kind() Kind { return KindQuery }

// Select sets the selected item.
func (q *Query) Select(s Selection) *Query {
	q.selection = s
	return q
}

// Multiselect selects several items: a tuple for tuple queries, an array
// otherwise.
func (q *Query) Multiselect(items ...Selection) *Query {
	shape := CompoundArray
	if q.tuple {
		shape = CompoundTuple
	}
	q.selection = &Compound{Shape: shape, Items: items}
	return q
}

// Distinct sets whether duplicates are eliminated.
func (q *Query) Distinct(distinct bool) *Query {
	q.distinct = distinct
	return q
}

// From adds an entity to the from clause and returns its root.
func (q *Query) From(entity string) *Root {
	r := q.b.root(entity)
	q.roots = append(q.roots, r)
	return r
}

// Where sets the restriction. Several predicates are combined with and;
// no predicate clears it.
func (q *Query) Where(ps ...Predicate) *Query {
	q.where = q.b.conjunction(ps)
	return q
}

// GroupBy sets the group-by expressions.
func (q *Query) GroupBy(xs ...Expression) *Query {
	q.groupBy = xs
	return q
}

// Having sets the group restriction.
func (q *Query) Having(ps ...Predicate) *Query {
	q.having = q.b.conjunction(ps)
	return q
}

// OrderBy sets the order-by items, replacing previous ones.
func (q *Query) OrderBy(os ...*Order) *Query {
	q.orderBy = os
	return q
}

// OrderList returns the order-by items.
func (q *Query) OrderList() []*Order { return append([]*Order(nil), q.orderBy...) }

// IsTuple reports whether the query was created by CreateTupleQuery.
func (q *Query) IsTuple() bool { return q.tuple }

// Subquery returns a new subquery of q.
func (q *Query) Subquery() *Subquery {
	return &Subquery{querySpec: querySpec{b: q.b}}
}

// Parameters returns the parameters of the query in walk order.
func (q *Query) Parameters() []*Parameter { return Parameters(q) }

// Err returns the path resolution errors of the query.
func (q *Query) Err() error { return Err(q) }

// Render renders the query to JPQL.
func (q *Query) Render() (string, error) { return q.b.render(q) }

// String renders the query, ignoring errors.
func (q *Query) String() string {
	s, _ := Render(q)
	return s
}

// Subquery is a query nested in another one.
type Subquery struct {
	expression
	querySpec
	correlations []*Root
}

// Kind implements Node.
func (*Subquery) Kind() Kind { return KindSubquery }

// Select sets the selected expression.
func (s *Subquery) Select(x Expression) *Subquery {
	s.selection = x
	return s
}

// Distinct sets whether duplicates are eliminated.
func (s *Subquery) Distinct(distinct bool) *Subquery {
	s.distinct = distinct
	return s
}

// From adds an entity to the from clause and returns its root.
func (s *Subquery) From(entity string) *Root {
	r := s.b.root(entity)
	s.roots = append(s.roots, r)
	return r
}

// Correlate makes a root of the enclosing query available to the
// subquery. Joins made from the returned root belong to the subquery.
func (s *Subquery) Correlate(parent *Root) *Root {
	r := &Root{
		Entity:     parent.Entity,
		Correlated: parent,
		fromBase: fromBase{
			b:      s.b,
			path:   parent.path,
			target: parent.target,
			err:    parent.err,
		},
	}
	s.correlations = append(s.correlations, r)
	return r
}

// Correlations returns the correlated roots.
func (s *Subquery) Correlations() []*Root { return append([]*Root(nil), s.correlations...) }

// Where sets the restriction. Several predicates are combined with and.
func (s *Subquery) Where(ps ...Predicate) *Subquery {
	s.where = s.b.conjunction(ps)
	return s
}

// GroupBy sets the group-by expressions.
func (s *Subquery) GroupBy(xs ...Expression) *Subquery {
	s.groupBy = xs
	return s
}

// Having sets the group restriction.
func (s *Subquery) Having(ps ...Predicate) *Subquery {
	s.having = s.b.conjunction(ps)
	return s
}

// Assignment is an attribute assignment of a bulk update.
type Assignment struct {
	Path  *Path
	Value Expression
}

// Update is a bulk update.
type Update struct {
	node
	b     *Builder
	root  *Root
	sets  []Assignment
	where Predicate
}

// Kind implements Node.
func (*Update) Kind() Kind { return KindUpdate }

// Root returns the updated entity.
func (u *Update) Root() *Root { return u.root }

// Set assigns a value to an attribute. Plain values become literals.
func (u *Update) Set(path *Path, value any) *Update {
	u.sets = append(u.sets, Assignment{Path: path, Value: u.b.operand(value)})
	return u
}

// SetAttribute assigns a value to an attribute of the root.
func (u *Update) SetAttribute(attr string, value any) *Update {
	return u.Set(u.root.Get(attr), value)
}

// Assignments returns the assignments in order.
func (u *Update) Assignments() []Assignment { return append([]Assignment(nil), u.sets...) }

// Where sets the restriction.
func (u *Update) Where(ps ...Predicate) *Update {
	u.where = u.b.conjunction(ps)
	return u
}

// Subquery returns a new subquery.
func (u *Update) Subquery() *Subquery { return &Subquery{querySpec: querySpec{b: u.b}} }

// Render renders the update to JPQL.
func (u *Update) Render() (string, error) { return u.b.render(u) }

// Delete is a bulk delete.
type Delete struct {
	node
	b     *Builder
	root  *Root
	where Predicate
}

// Kind implements Node.
func (*Delete) Kind() Kind { return KindDelete }

// Root returns the deleted entity.
func (d *Delete) Root() *Root { return d.root }

// Where sets the restriction.
func (d *Delete) Where(ps ...Predicate) *Delete {
	d.where = d.b.conjunction(ps)
	return d
}

// Subquery returns a new subquery.
func (d *Delete) Subquery() *Subquery { return &Subquery{querySpec: querySpec{b: d.b}} }

// Render renders the delete to JPQL.
func (d *Delete) Render() (string, error) { return d.b.render(d) }
