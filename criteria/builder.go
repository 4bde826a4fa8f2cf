package criteria

import (
	"fmt"
	"log/slog"

	"github.com/syssam/metamodel"
	"github.com/syssam/metamodel/compiler/categorize"
)

// Metamodel resolves entity names and classes to categorized types.
// *categorize.DomainModel implements it.
type Metamodel interface {
	EntityType(entityName string) (*categorize.IdentifiableTypeMetadata, bool)
	ManagedType(className string) (categorize.ManagedType, bool)
}

var _ Metamodel = (*categorize.DomainModel)(nil)

// Option configures a Builder.
type Option func(*Builder) error

// WithMetamodel binds the builder to a categorized model. Roots, paths and
// joins are then resolved against it.
func WithMetamodel(m Metamodel) Option {
	return func(b *Builder) error {
		if m == nil {
			return metamodel.NewConfigError("Metamodel", nil, "metamodel cannot be nil")
		}
		b.model = m
		return nil
	}
}

// WithLogger sets the logger receiving the rendered statements.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) error {
		if l == nil {
			return metamodel.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		b.log = l
		return nil
	}
}

// Builder creates queries and the expressions they are made of. A Builder
// and the trees it creates are not safe for concurrent modification.
type Builder struct {
	model  Metamodel
	log    *slog.Logger
	params int
}

// NewBuilder returns a new Builder.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// operand converts a plain Go value to a literal. Expressions are returned
// unchanged.
func (b *Builder) operand(v any) Expression {
	switch v := v.(type) {
	case Expression:
		return v
	default:
		return &Literal{Value: v}
	}
}

func (b *Builder) operands(vs []any) []Expression {
	es := make([]Expression, 0, len(vs))
	for _, v := range vs {
		es = append(es, b.operand(v))
	}
	return es
}

// conjunction combines predicates with and. Nil predicates are skipped and
// a single predicate is returned as is.
func (b *Builder) conjunction(ps []Predicate) Predicate {
	var nonNil []Predicate
	for _, p := range ps {
		if p != nil {
			nonNil = append(nonNil, p)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return &Junction{Op: OpAnd, Preds: nonNil}
	}
}

// root creates a root for an entity name, resolving it when the builder is
// bound to a metamodel.
func (b *Builder) root(entity string) *Root {
	r := &Root{Entity: entity, fromBase: fromBase{b: b, path: entity}}
	if b.model == nil {
		return r
	}
	t, ok := b.model.EntityType(entity)
	if !ok {
		r.err = newPathError(entity, "unknown entity")
		return r
	}
	r.target = t
	return r
}

// CreateQuery returns a new select query.
func (b *Builder) CreateQuery() *Query {
	return &Query{querySpec: querySpec{b: b}}
}

// CreateTupleQuery returns a new select query whose multiselect produces
// tuples.
func (b *Builder) CreateTupleQuery() *Query {
	return &Query{querySpec: querySpec{b: b}, tuple: true}
}

// CreateUpdate returns a bulk update of an entity.
func (b *Builder) CreateUpdate(entity string) *Update {
	return &Update{b: b, root: b.root(entity)}
}

// CreateDelete returns a bulk delete of an entity.
func (b *Builder) CreateDelete(entity string) *Delete {
	return &Delete{b: b, root: b.root(entity)}
}

// Tuple selects several items as a tuple.
func (b *Builder) Tuple(items ...Selection) *Compound {
	return &Compound{Shape: CompoundTuple, Items: items}
}

// Array selects several items as an array.
func (b *Builder) Array(items ...Selection) *Compound {
	return &Compound{Shape: CompoundArray, Items: items}
}

// Construct selects several items passed to the constructor of a class.
func (b *Builder) Construct(class string, items ...Selection) *Compound {
	return &Compound{Shape: CompoundConstruct, Class: class, Items: items}
}

// Asc orders by x ascending.
func (b *Builder) Asc(x Expression) *Order { return &Order{X: x} }

// Desc orders by x descending.
func (b *Builder) Desc(x Expression) *Order { return &Order{X: x, Descending: true} }

// And combines predicates with and.
func (b *Builder) And(ps ...Predicate) *Junction { return &Junction{Op: OpAnd, Preds: ps} }

// Or combines predicates with or.
func (b *Builder) Or(ps ...Predicate) *Junction { return &Junction{Op: OpOr, Preds: ps} }

// Conjunction returns an empty conjunction, which is always true.
func (b *Builder) Conjunction() *Junction { return &Junction{Op: OpAnd} }

// Disjunction returns an empty disjunction, which is always false.
func (b *Builder) Disjunction() *Junction { return &Junction{Op: OpOr} }

// Not negates a boolean expression.
func (b *Builder) Not(x Expression) Predicate {
	if p, ok := x.(Predicate); ok {
		return &Not{X: p}
	}
	return &BooleanTest{X: x, Value: false}
}

// Wrap turns a boolean expression into a predicate.
func (b *Builder) Wrap(x Expression) Predicate {
	if p, ok := x.(Predicate); ok {
		return p
	}
	return &BooleanTest{X: x, Value: true}
}

// IsTrue tests x for true.
func (b *Builder) IsTrue(x Expression) *BooleanTest { return &BooleanTest{X: x, Value: true} }

// IsFalse tests x for false.
func (b *Builder) IsFalse(x Expression) *BooleanTest { return &BooleanTest{X: x, Value: false} }

// IsNull tests x for null.
func (b *Builder) IsNull(x Expression) *NullCheck { return &NullCheck{X: x} }

// IsNotNull tests x for not null.
func (b *Builder) IsNotNull(x Expression) *NullCheck { return &NullCheck{X: x, Negated: true} }

func (b *Builder) compare(op ComparisonOp, x Expression, y any) *Comparison {
	return &Comparison{Op: op, X: x, Y: b.operand(y)}
}

// Equal tests x = y.
func (b *Builder) Equal(x Expression, y any) *Comparison { return b.compare(OpEqual, x, y) }

// NotEqual tests x <> y.
func (b *Builder) NotEqual(x Expression, y any) *Comparison { return b.compare(OpNotEqual, x, y) }

// GreaterThan tests x > y.
func (b *Builder) GreaterThan(x Expression, y any) *Comparison {
	return b.compare(OpGreaterThan, x, y)
}

// GreaterThanOrEqualTo tests x >= y.
func (b *Builder) GreaterThanOrEqualTo(x Expression, y any) *Comparison {
	return b.compare(OpGreaterThanOrEqual, x, y)
}

// LessThan tests x < y.
func (b *Builder) LessThan(x Expression, y any) *Comparison { return b.compare(OpLessThan, x, y) }

// LessThanOrEqualTo tests x <= y.
func (b *Builder) LessThanOrEqualTo(x Expression, y any) *Comparison {
	return b.compare(OpLessThanOrEqual, x, y)
}

// Between tests lower <= x <= upper.
func (b *Builder) Between(x Expression, lower, upper any) *Between {
	return &Between{X: x, Lower: b.operand(lower), Upper: b.operand(upper)}
}

// In tests x against a list of values. More values can be added with
// In.Value. A single subquery value tests membership in its result.
func (b *Builder) In(x Expression, values ...any) *In {
	return &In{X: x, Values: b.operands(values), b: b}
}

// Like matches x against a pattern.
func (b *Builder) Like(x Expression, pattern any) *Like {
	return &Like{X: x, Pattern: b.operand(pattern)}
}

// LikeEscape matches x against a pattern with an escape character.
func (b *Builder) LikeEscape(x Expression, pattern, escape any) *Like {
	return &Like{X: x, Pattern: b.operand(pattern), Escape: b.operand(escape)}
}

// NotLike is the negation of Like.
func (b *Builder) NotLike(x Expression, pattern any) *Like {
	return &Like{X: x, Pattern: b.operand(pattern), Negated: true}
}

// Parameter returns a named parameter. An empty name is replaced by a
// generated one, unique within the builder.
func (b *Builder) Parameter(name string) *Parameter {
	if name == "" {
		name = fmt.Sprintf("param%d", b.params)
		b.params++
	}
	return &Parameter{Name: name}
}

// Literal returns a literal.
func (b *Builder) Literal(v any) *Literal { return &Literal{Value: v} }

// NullLiteral returns the null literal.
func (b *Builder) NullLiteral() *Literal { return &Literal{} }

func (b *Builder) aggregate(f AggregateFunc, x Expression, distinct bool) *Aggregate {
	return &Aggregate{Func: f, X: x, Distinct: distinct}
}

// Avg returns the average of x.
func (b *Builder) Avg(x Expression) *Aggregate { return b.aggregate(AggAvg, x, false) }

// Sum returns the sum of x.
func (b *Builder) Sum(x Expression) *Aggregate { return b.aggregate(AggSum, x, false) }

// Max returns the greatest numeric value of x.
func (b *Builder) Max(x Expression) *Aggregate { return b.aggregate(AggMax, x, false) }

// Min returns the smallest numeric value of x.
func (b *Builder) Min(x Expression) *Aggregate { return b.aggregate(AggMin, x, false) }

// Greatest returns the greatest value of x.
func (b *Builder) Greatest(x Expression) *Aggregate { return b.aggregate(AggMax, x, false) }

// Least returns the smallest value of x.
func (b *Builder) Least(x Expression) *Aggregate { return b.aggregate(AggMin, x, false) }

// Count counts x.
func (b *Builder) Count(x Expression) *Aggregate { return b.aggregate(AggCount, x, false) }

// CountDistinct counts the distinct values of x.
func (b *Builder) CountDistinct(x Expression) *Aggregate { return b.aggregate(AggCount, x, true) }

// Function calls a database function by name.
func (b *Builder) Function(name string, args ...any) *Function {
	return &Function{Name: name, Args: b.operands(args), Custom: true}
}

func (b *Builder) function(name string, args ...any) *Function {
	return &Function{Name: name, Args: b.operands(args)}
}

// Abs returns the absolute value of x.
func (b *Builder) Abs(x Expression) *Function { return b.function("abs", x) }

// Sqrt returns the square root of x.
func (b *Builder) Sqrt(x Expression) *Function { return b.function("sqrt", x) }

// Neg returns -x.
func (b *Builder) Neg(x Expression) *Negation { return &Negation{X: x} }

func (b *Builder) arithmetic(op ArithmeticOp, x, y any) *Arithmetic {
	return &Arithmetic{Op: op, X: b.operand(x), Y: b.operand(y)}
}

// Add returns x + y.
func (b *Builder) Add(x, y any) *Arithmetic { return b.arithmetic(OpAdd, x, y) }

// Diff returns x - y.
func (b *Builder) Diff(x, y any) *Arithmetic { return b.arithmetic(OpSubtract, x, y) }

// Prod returns x * y.
func (b *Builder) Prod(x, y any) *Arithmetic { return b.arithmetic(OpMultiply, x, y) }

// Quot returns x / y.
func (b *Builder) Quot(x, y any) *Arithmetic { return b.arithmetic(OpDivide, x, y) }

// Mod returns the remainder of x / y.
func (b *Builder) Mod(x, y any) *Function { return b.function("mod", x, y) }

// CurrentDate returns the current date.
func (b *Builder) CurrentDate() *Function { return b.function("current_date") }

// CurrentTime returns the current time.
func (b *Builder) CurrentTime() *Function { return b.function("current_time") }

// CurrentTimestamp returns the current timestamp.
func (b *Builder) CurrentTimestamp() *Function { return b.function("current_timestamp") }

// Substring returns the substring of x starting at the 1-based position
// from, optionally limited to a length.
func (b *Builder) Substring(x Expression, from any, length ...any) *Function {
	args := append([]any{x, from}, length...)
	return b.function("substring", args...)
}

// Trim removes leading and trailing blanks from x.
func (b *Builder) Trim(x Expression) *Trim { return &Trim{Spec: TrimBoth, X: x} }

// TrimChar removes a character from one or both ends of x. A nil char
// trims blanks.
func (b *Builder) TrimChar(spec TrimSpec, char any, x Expression) *Trim {
	t := &Trim{Spec: spec, X: x}
	if char != nil {
		t.Char = b.operand(char)
	}
	return t
}

// Lower converts x to lowercase.
func (b *Builder) Lower(x Expression) *Function { return b.function("lower", x) }

// Upper converts x to uppercase.
func (b *Builder) Upper(x Expression) *Function { return b.function("upper", x) }

// Length returns the length of x.
func (b *Builder) Length(x Expression) *Function { return b.function("length", x) }

// Locate returns the 1-based position of pattern in x, 0 when absent,
// optionally starting the search at from.
func (b *Builder) Locate(x Expression, pattern any, from ...any) *Function {
	args := append([]any{pattern, x}, from...)
	return b.function("locate", args...)
}

// Concat concatenates x and y.
func (b *Builder) Concat(x, y any) *Function { return b.function("concat", x, y) }

func (b *Builder) cast(x Expression, typ string) *Cast { return &Cast{X: x, Type: typ} }

// ToLong casts x to a long.
func (b *Builder) ToLong(x Expression) *Cast { return b.cast(x, "Long") }

// ToInteger casts x to an integer.
func (b *Builder) ToInteger(x Expression) *Cast { return b.cast(x, "Integer") }

// ToFloat casts x to a float.
func (b *Builder) ToFloat(x Expression) *Cast { return b.cast(x, "Float") }

// ToDouble casts x to a double.
func (b *Builder) ToDouble(x Expression) *Cast { return b.cast(x, "Double") }

// ToBigDecimal casts x to a big decimal.
func (b *Builder) ToBigDecimal(x Expression) *Cast { return b.cast(x, "BigDecimal") }

// ToBigInteger casts x to a big integer.
func (b *Builder) ToBigInteger(x Expression) *Cast { return b.cast(x, "BigInteger") }

// ToString casts x to a string.
func (b *Builder) ToString(x Expression) *Cast { return b.cast(x, "String") }

// Exists tests that a subquery returns rows.
func (b *Builder) Exists(sub *Subquery) *Exists { return &Exists{Sub: sub} }

// NotExists tests that a subquery returns no rows.
func (b *Builder) NotExists(sub *Subquery) *Exists { return &Exists{Sub: sub, Negated: true} }

// All is the all quantifier over a subquery.
func (b *Builder) All(sub *Subquery) *Quantified { return &Quantified{Quantifier: QuantAll, Sub: sub} }

// Some is the some quantifier over a subquery.
func (b *Builder) Some(sub *Subquery) *Quantified { return &Quantified{Quantifier: QuantSome, Sub: sub} }

// Any is the any quantifier over a subquery.
func (b *Builder) Any(sub *Subquery) *Quantified { return &Quantified{Quantifier: QuantAny, Sub: sub} }

// Coalesce returns the first non-null argument.
func (b *Builder) Coalesce(args ...any) *Coalesce {
	return &Coalesce{Args: b.operands(args), b: b}
}

// NullIf returns null when x equals y, x otherwise.
func (b *Builder) NullIf(x Expression, y any) *NullIf {
	return &NullIf{X: x, Y: b.operand(y)}
}

// SelectCase starts a searched case.
func (b *Builder) SelectCase() *Case { return &Case{b: b} }

// SelectCaseOf starts a simple case over an operand.
func (b *Builder) SelectCaseOf(operand Expression) *Case { return &Case{Operand: operand, b: b} }

// Treat downcasts a root or join to a subtype entity.
func (b *Builder) Treat(x From, entity string) *Treat {
	t := &Treat{X: x, Type: entity, b: b}
	if b.model == nil {
		return t
	}
	if err := x.Err(); err != nil {
		t.err = err
		return t
	}
	sub, ok := b.model.EntityType(entity)
	if !ok {
		t.err = newPathError(x.from().path, fmt.Sprintf("unknown entity %q", entity))
		return t
	}
	if !isSubtype(sub, x.from().target) {
		t.err = newPathError(x.from().path, fmt.Sprintf("%s is not a subtype of the treated type", entity))
		return t
	}
	t.target = sub
	return t
}

// isSubtype reports whether t is super or one of its subtypes.
func isSubtype(t *categorize.IdentifiableTypeMetadata, super categorize.ManagedType) bool {
	for ; t != nil; t = t.SuperType() {
		if categorize.ManagedType(t) == super {
			return true
		}
	}
	return false
}

// Size returns the number of elements of a collection.
func (b *Builder) Size(collection Expression) *Function { return b.function("size", collection) }

// IsEmpty tests that a collection is empty.
func (b *Builder) IsEmpty(collection Expression) *EmptyCheck {
	return &EmptyCheck{Collection: collection}
}

// IsNotEmpty tests that a collection is not empty.
func (b *Builder) IsNotEmpty(collection Expression) *EmptyCheck {
	return &EmptyCheck{Collection: collection, Negated: true}
}

// IsMember tests that elem belongs to a collection.
func (b *Builder) IsMember(elem any, collection Expression) *MemberOf {
	return &MemberOf{Element: b.operand(elem), Collection: collection}
}

// IsNotMember tests that elem does not belong to a collection.
func (b *Builder) IsNotMember(elem any, collection Expression) *MemberOf {
	return &MemberOf{Element: b.operand(elem), Collection: collection, Negated: true}
}
