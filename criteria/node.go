package criteria

import "fmt"

// Kind identifies the concrete type of a Node.
type Kind uint8

// Node kinds.
const (
	KindLiteral Kind = iota
	KindParameter
	KindPath
	KindRoot
	KindJoin
	KindTreat
	KindArithmetic
	KindNegation
	KindFunction
	KindTrim
	KindCast
	KindAggregate
	KindCoalesce
	KindNullIf
	KindComparison
	KindBetween
	KindIn
	KindLike
	KindNullCheck
	KindEmptyCheck
	KindMemberOf
	KindJunction
	KindNot
	KindBooleanTest
	KindExists
	KindSubquery
	KindQuantified
	KindCase
	KindCompound
	KindOrder
	KindQuery
	KindUpdate
	KindDelete
)

var kindNames = [...]string{
	KindLiteral:     "Literal",
	KindParameter:   "Parameter",
	KindPath:        "Path",
	KindRoot:        "Root",
	KindJoin:        "Join",
	KindTreat:       "Treat",
	KindArithmetic:  "Arithmetic",
	KindNegation:    "Negation",
	KindFunction:    "Function",
	KindTrim:        "Trim",
	KindCast:        "Cast",
	KindAggregate:   "Aggregate",
	KindCoalesce:    "Coalesce",
	KindNullIf:      "NullIf",
	KindComparison:  "Comparison",
	KindBetween:     "Between",
	KindIn:          "In",
	KindLike:        "Like",
	KindNullCheck:   "NullCheck",
	KindEmptyCheck:  "EmptyCheck",
	KindMemberOf:    "MemberOf",
	KindJunction:    "Junction",
	KindNot:         "Not",
	KindBooleanTest: "BooleanTest",
	KindExists:      "Exists",
	KindSubquery:    "Subquery",
	KindQuantified:  "Quantified",
	KindCase:        "Case",
	KindCompound:    "Compound",
	KindOrder:       "Order",
	KindQuery:       "Query",
	KindUpdate:      "Update",
	KindDelete:      "Delete",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Node is a node of a criteria tree. The set of node types is closed: it
// is one of the pointer types declared in this package.
type Node interface {
	Kind() Kind
	isNode()
}

// Selection is a node that can appear in a select clause.
type Selection interface {
	Node
	isSelection()
}

// Expression is a node producing a value.
type Expression interface {
	Selection
	isExpression()
}

// Predicate is an expression producing a boolean.
type Predicate interface {
	Expression
	isPredicate()
}

type (
	node       struct{}
	expression struct{ node }
	predicate  struct{ expression }
)

func (node) isNode()             {}
func (expression) isSelection()  {}
func (expression) isExpression() {}
func (predicate) isPredicate()   {}

// Literal is a constant value.
type Literal struct {
	expression
	Value any
}

// Kind implements Node.
func (*Literal) Kind() Kind { return KindLiteral }

// Parameter is a query parameter. Unnamed parameters are named when the
// query is rendered.
type Parameter struct {
	expression
	Name string
}

// Kind implements Node.
func (*Parameter) Kind() Kind { return KindParameter }

// ArithmeticOp is a binary arithmetic operator.
type ArithmeticOp uint8

// Arithmetic operators.
const (
	OpAdd ArithmeticOp = iota
	OpSubtract
	OpMultiply
	OpDivide
)

// String returns the operator symbol.
func (op ArithmeticOp) String() string {
	return [...]string{"+", "-", "*", "/"}[op]
}

// Arithmetic is a binary arithmetic expression.
type Arithmetic struct {
	expression
	Op   ArithmeticOp
	X, Y Expression
}

// Kind implements Node.
func (*Arithmetic) Kind() Kind { return KindArithmetic }

// Negation is the unary minus.
type Negation struct {
	expression
	X Expression
}

// Kind implements Node.
func (*Negation) Kind() Kind { return KindNegation }

// Function is a function call. Standard functions are rendered by name,
// custom ones through the function(...) escape.
type Function struct {
	expression
	Name   string
	Args   []Expression
	Custom bool
}

// Kind implements Node.
func (*Function) Kind() Kind { return KindFunction }

// TrimSpec selects the side trimmed by Trim.
type TrimSpec uint8

// Trim specifications.
const (
	TrimBoth TrimSpec = iota
	TrimLeading
	TrimTrailing
)

// String returns the trim specification keyword.
func (s TrimSpec) String() string {
	return [...]string{"both", "leading", "trailing"}[s]
}

// Trim removes a character from one or both ends of a string.
type Trim struct {
	expression
	Spec TrimSpec
	Char Expression // Nil trims blanks.
	X    Expression
}

// Kind implements Node.
func (*Trim) Kind() Kind { return KindTrim }

// Cast converts an expression to another type.
type Cast struct {
	expression
	X    Expression
	Type string
}

// Kind implements Node.
func (*Cast) Kind() Kind { return KindCast }

// AggregateFunc is an aggregate function.
type AggregateFunc uint8

// Aggregate functions.
const (
	AggCount AggregateFunc = iota
	AggSum
	AggAvg
	AggMin
	AggMax
)

// String returns the function name.
func (f AggregateFunc) String() string {
	return [...]string{"count", "sum", "avg", "min", "max"}[f]
}

// Aggregate is an aggregate function call.
type Aggregate struct {
	expression
	Func     AggregateFunc
	X        Expression
	Distinct bool
}

// Kind implements Node.
func (*Aggregate) Kind() Kind { return KindAggregate }

// Coalesce returns its first non-null argument.
type Coalesce struct {
	expression
	Args []Expression
	b    *Builder
}

// Kind implements Node.
func (*Coalesce) Kind() Kind { return KindCoalesce }

// Value appends an argument. Plain values become literals.
func (c *Coalesce) Value(v any) *Coalesce {
	c.Args = append(c.Args, c.b.operand(v))
	return c
}

// NullIf returns null when both arguments are equal, X otherwise.
type NullIf struct {
	expression
	X, Y Expression
}

// Kind implements Node.
func (*NullIf) Kind() Kind { return KindNullIf }

// ComparisonOp is a comparison operator.
type ComparisonOp uint8

// Comparison operators.
const (
	OpEqual ComparisonOp = iota
	OpNotEqual
	OpGreaterThan
	OpGreaterThanOrEqual
	OpLessThan
	OpLessThanOrEqual
)

// String returns the operator symbol.
func (op ComparisonOp) String() string {
	return [...]string{"=", "<>", ">", ">=", "<", "<="}[op]
}

// Negate returns the complementary operator.
func (op ComparisonOp) Negate() ComparisonOp {
	return [...]ComparisonOp{
		OpEqual:              OpNotEqual,
		OpNotEqual:           OpEqual,
		OpGreaterThan:        OpLessThanOrEqual,
		OpGreaterThanOrEqual: OpLessThan,
		OpLessThan:           OpGreaterThanOrEqual,
		OpLessThanOrEqual:    OpGreaterThan,
	}[op]
}

// Comparison compares two expressions.
type Comparison struct {
	predicate
	Op   ComparisonOp
	X, Y Expression
}

// Kind implements Node.
func (*Comparison) Kind() Kind { return KindComparison }

// Between tests that X lies within [Lower, Upper].
type Between struct {
	predicate
	X, Lower, Upper Expression
	Negated         bool
}

// Kind implements Node.
func (*Between) Kind() Kind { return KindBetween }

// In tests that X is one of Values, or a member of the result of a
// subquery.
type In struct {
	predicate
	X       Expression
	Values  []Expression
	Negated bool
	b       *Builder
}

// Kind implements Node.
func (*In) Kind() Kind { return KindIn }

// Value appends a candidate. Plain values become literals.
func (in *In) Value(v any) *In {
	in.Values = append(in.Values, in.b.operand(v))
	return in
}

// Like matches X against a pattern.
type Like struct {
	predicate
	X, Pattern Expression
	Escape     Expression // Optional.
	Negated    bool
}

// Kind implements Node.
func (*Like) Kind() Kind { return KindLike }

// NullCheck tests X for null.
type NullCheck struct {
	predicate
	X       Expression
	Negated bool
}

// Kind implements Node.
func (*NullCheck) Kind() Kind { return KindNullCheck }

// EmptyCheck tests a collection path for emptiness.
type EmptyCheck struct {
	predicate
	Collection Expression
	Negated    bool
}

// Kind implements Node.
func (*EmptyCheck) Kind() Kind { return KindEmptyCheck }

// MemberOf tests that Element belongs to a collection path.
type MemberOf struct {
	predicate
	Element    Expression
	Collection Expression
	Negated    bool
}

// Kind implements Node.
func (*MemberOf) Kind() Kind { return KindMemberOf }

// JunctionOp is the operator of a junction.
type JunctionOp uint8

// Junction operators.
const (
	OpAnd JunctionOp = iota
	OpOr
)

// String returns the operator keyword.
func (op JunctionOp) String() string {
	if op == OpOr {
		return "or"
	}
	return "and"
}

// Junction combines predicates. An empty conjunction is always true and
// an empty disjunction always false.
type Junction struct {
	predicate
	Op    JunctionOp
	Preds []Predicate
}

// Kind implements Node.
func (*Junction) Kind() Kind { return KindJunction }

// Not negates a predicate.
type Not struct {
	predicate
	X Predicate
}

// Kind implements Node.
func (*Not) Kind() Kind { return KindNot }

// BooleanTest compares a boolean expression to true or false.
type BooleanTest struct {
	predicate
	X     Expression
	Value bool
}

// Kind implements Node.
func (*BooleanTest) Kind() Kind { return KindBooleanTest }

// Exists tests that a subquery returns rows.
type Exists struct {
	predicate
	Sub     *Subquery
	Negated bool
}

// Kind implements Node.
func (*Exists) Kind() Kind { return KindExists }

// Quantifier is the quantifier of a subquery comparison.
type Quantifier uint8

// Quantifiers.
const (
	QuantAll Quantifier = iota
	QuantSome
	QuantAny
)

// String returns the quantifier keyword.
func (q Quantifier) String() string {
	return [...]string{"all", "some", "any"}[q]
}

// Quantified is an all, some or any subquery expression.
type Quantified struct {
	expression
	Quantifier Quantifier
	Sub        *Subquery
}

// Kind implements Node.
func (*Quantified) Kind() Kind { return KindQuantified }

// When is a branch of a Case.
type When struct {
	Cond   Expression // A predicate, or a value for simple cases.
	Result Expression
}

// Case is a searched case, or a simple case when Operand is set.
type Case struct {
	expression
	Operand Expression
	Whens   []When
	Else    Expression
	b       *Builder
}

// Kind implements Node.
func (*Case) Kind() Kind { return KindCase }

// When appends a branch. Plain values become literals.
func (c *Case) When(cond, result any) *Case {
	c.Whens = append(c.Whens, When{Cond: c.b.operand(cond), Result: c.b.operand(result)})
	return c
}

// Otherwise sets the else branch.
func (c *Case) Otherwise(result any) *Case {
	c.Else = c.b.operand(result)
	return c
}

// CompoundKind tells the shapes of a compound selection apart.
type CompoundKind uint8

// Compound selection shapes.
const (
	CompoundTuple CompoundKind = iota
	CompoundArray
	CompoundConstruct
)

// Compound selects several items at once, optionally passed to a
// constructor.
type Compound struct {
	node
	Shape CompoundKind
	Class string // Constructed class for CompoundConstruct.
	Items []Selection
}

// Kind implements Node.
func (*Compound) Kind() Kind { return KindCompound }

func (*Compound) isSelection() {}

// Order is an order-by item.
type Order struct {
	node
	X          Expression
	Descending bool
}

// Kind implements Node.
func (*Order) Kind() Kind { return KindOrder }

// Reverse returns the item with the opposite direction.
func (o *Order) Reverse() *Order {
	return &Order{X: o.X, Descending: !o.Descending}
}
