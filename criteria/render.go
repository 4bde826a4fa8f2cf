package criteria

import (
	"fmt"
	"strconv"
	"strings"
)

// Render renders a query, update, delete or standalone expression to
// JPQL. Resolution errors recorded in the tree are returned instead.
// Identification variables left unset are generated, from clause first.
func Render(n Node) (string, error) {
	if err := Err(n); err != nil {
		return "", err
	}
	r := &renderer{aliases: make(map[Node]string)}
	r.assignAliases(n)
	r.node(n)
	if r.err != nil {
		return "", r.err
	}
	return r.String(), nil
}

func (b *Builder) render(n Node) (string, error) {
	s, err := Render(n)
	if err != nil {
		b.log.Debug("criteria rendering failed", "kind", n.Kind(), "error", err)
		return "", err
	}
	b.log.Debug("rendered criteria query", "kind", n.Kind(), "jpql", s)
	return s, nil
}

type renderer struct {
	strings.Builder
	aliases map[Node]string
	next    int
	err     error
}

func (r *renderer) assignAliases(n Node) {
	Walk(n, func(n Node) bool {
		switch n := n.(type) {
		case *Root:
			if n.Correlated == nil {
				r.alias(n, n.alias)
			}
		case *Join:
			r.alias(n, n.alias)
		}
		return true
	})
}

func (r *renderer) alias(n Node, explicit string) {
	if _, ok := r.aliases[n]; ok {
		return
	}
	if explicit == "" {
		explicit = "generatedAlias" + strconv.Itoa(r.next)
		r.next++
	}
	r.aliases[n] = explicit
}

// aliasOf returns the identification variable of a root or join.
func (r *renderer) aliasOf(n Node) string {
	if root, ok := n.(*Root); ok && root.Correlated != nil {
		return r.aliasOf(root.Correlated)
	}
	if a, ok := r.aliases[n]; ok {
		return a
	}
	// A root or join of an enclosing tree that was not rendered.
	switch n := n.(type) {
	case *Root:
		if n.alias != "" {
			return n.alias
		}
	case *Join:
		if n.alias != "" {
			return n.alias
		}
	}
	r.fail("unaliased %s outside the rendered tree", n.Kind())
	return ""
}

func (r *renderer) fail(format string, args ...any) {
	if r.err == nil {
		r.err = &QueryError{Message: fmt.Sprintf(format, args...)}
	}
}

func (r *renderer) list(xs []Expression) {
	for i, x := range xs {
		if i > 0 {
			r.WriteString(", ")
		}
		r.node(x)
	}
}

func (r *renderer) node(n Node) {
	switch n := n.(type) {
	case *Literal:
		r.literal(n.Value)
	case *Parameter:
		r.WriteString(":" + n.Name)
	case *Root:
		r.WriteString(r.aliasOf(n))
	case *Join:
		r.WriteString(r.aliasOf(n))
	case *Path:
		r.node(n.Parent)
		r.WriteString("." + n.Attribute)
	case *Treat:
		fmt.Fprintf(r, "treat(%s as %s)", r.aliasOf(n.X), n.Type)
	case *Arithmetic:
		r.WriteByte('(')
		r.node(n.X)
		fmt.Fprintf(r, " %s ", n.Op)
		r.node(n.Y)
		r.WriteByte(')')
	case *Negation:
		r.WriteByte('-')
		r.node(n.X)
	case *Function:
		switch {
		case n.Custom:
			fmt.Fprintf(r, "function('%s'", n.Name)
			for _, a := range n.Args {
				r.WriteString(", ")
				r.node(a)
			}
			r.WriteByte(')')
		case len(n.Args) == 0:
			r.WriteString(n.Name)
		default:
			r.WriteString(n.Name + "(")
			r.list(n.Args)
			r.WriteByte(')')
		}
	case *Trim:
		fmt.Fprintf(r, "trim(%s ", n.Spec)
		if n.Char != nil {
			r.node(n.Char)
			r.WriteByte(' ')
		}
		r.WriteString("from ")
		r.node(n.X)
		r.WriteByte(')')
	case *Cast:
		r.WriteString("cast(")
		r.node(n.X)
		fmt.Fprintf(r, " as %s)", n.Type)
	case *Aggregate:
		r.WriteString(n.Func.String() + "(")
		if n.Distinct {
			r.WriteString("distinct ")
		}
		r.node(n.X)
		r.WriteByte(')')
	case *Coalesce:
		r.WriteString("coalesce(")
		r.list(n.Args)
		r.WriteByte(')')
	case *NullIf:
		r.WriteString("nullif(")
		r.list([]Expression{n.X, n.Y})
		r.WriteByte(')')
	case *Comparison:
		r.node(n.X)
		fmt.Fprintf(r, " %s ", n.Op)
		r.node(n.Y)
	case *Between:
		r.node(n.X)
		r.WriteString(negated(n.Negated) + " between ")
		r.node(n.Lower)
		r.WriteString(" and ")
		r.node(n.Upper)
	case *In:
		r.in(n)
	case *Like:
		r.node(n.X)
		r.WriteString(negated(n.Negated) + " like ")
		r.node(n.Pattern)
		if n.Escape != nil {
			r.WriteString(" escape ")
			r.node(n.Escape)
		}
	case *NullCheck:
		r.node(n.X)
		r.WriteString(" is" + negated(n.Negated) + " null")
	case *EmptyCheck:
		r.node(n.Collection)
		r.WriteString(" is" + negated(n.Negated) + " empty")
	case *MemberOf:
		r.node(n.Element)
		r.WriteString(negated(n.Negated) + " member of ")
		r.node(n.Collection)
	case *Junction:
		r.junction(n)
	case *Not:
		r.WriteString("not (")
		r.node(n.X)
		r.WriteByte(')')
	case *BooleanTest:
		r.node(n.X)
		r.WriteString(" = " + strconv.FormatBool(n.Value))
	case *Exists:
		if n.Negated {
			r.WriteString("not ")
		}
		r.WriteString("exists ")
		r.node(n.Sub)
	case *Quantified:
		r.WriteString(n.Quantifier.String() + " ")
		r.node(n.Sub)
	case *Case:
		r.caseExpr(n)
	case *Compound:
		r.compound(n)
	case *Order:
		r.node(n.X)
		if n.Descending {
			r.WriteString(" desc")
		} else {
			r.WriteString(" asc")
		}
	case *Query:
		r.query(&n.querySpec, nil)
		if len(n.orderBy) > 0 {
			r.WriteString(" order by ")
			for i, o := range n.orderBy {
				if i > 0 {
					r.WriteString(", ")
				}
				r.node(o)
			}
		}
	case *Subquery:
		r.WriteByte('(')
		r.query(&n.querySpec, n.correlations)
		r.WriteByte(')')
	case *Update:
		fmt.Fprintf(r, "update %s %s", n.root.Entity, r.aliasOf(n.root))
		if len(n.sets) == 0 {
			r.fail("update of %s assigns no attribute", n.root.Entity)
		}
		for i, s := range n.sets {
			if i == 0 {
				r.WriteString(" set ")
			} else {
				r.WriteString(", ")
			}
			r.node(s.Path)
			r.WriteString(" = ")
			r.node(s.Value)
		}
		r.where(n.where)
	case *Delete:
		fmt.Fprintf(r, "delete from %s %s", n.root.Entity, r.aliasOf(n.root))
		r.where(n.where)
	default:
		r.fail("unexpected node %T", n)
	}
}

func negated(b bool) string {
	if b {
		return " not"
	}
	return ""
}

func (r *renderer) literal(v any) {
	switch v := v.(type) {
	case nil:
		r.WriteString("null")
	case string:
		r.WriteString("'" + strings.ReplaceAll(v, "'", "''") + "'")
	case bool:
		r.WriteString(strconv.FormatBool(v))
	case float32:
		r.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	case float64:
		r.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	default:
		fmt.Fprint(r, v)
	}
}

func (r *renderer) in(n *In) {
	if len(n.Values) == 0 {
		// Nothing is in the empty list.
		if n.Negated {
			r.WriteString("1=1")
		} else {
			r.WriteString("0=1")
		}
		return
	}
	r.node(n.X)
	r.WriteString(negated(n.Negated) + " in ")
	if len(n.Values) == 1 {
		if sub, ok := n.Values[0].(*Subquery); ok {
			r.node(sub)
			return
		}
	}
	r.WriteByte('(')
	r.list(n.Values)
	r.WriteByte(')')
}

func (r *renderer) junction(n *Junction) {
	switch len(n.Preds) {
	case 0:
		if n.Op == OpAnd {
			r.WriteString("1=1")
		} else {
			r.WriteString("0=1")
		}
		return
	case 1:
		r.node(n.Preds[0])
		return
	}
	for i, p := range n.Preds {
		if i > 0 {
			fmt.Fprintf(r, " %s ", n.Op)
		}
		if j, ok := p.(*Junction); ok && len(j.Preds) > 1 {
			r.WriteByte('(')
			r.node(j)
			r.WriteByte(')')
			continue
		}
		r.node(p)
	}
}

func (r *renderer) caseExpr(n *Case) {
	r.WriteString("case")
	if n.Operand != nil {
		r.WriteByte(' ')
		r.node(n.Operand)
	}
	if len(n.Whens) == 0 {
		r.fail("case without when branches")
	}
	for _, w := range n.Whens {
		r.WriteString(" when ")
		r.node(w.Cond)
		r.WriteString(" then ")
		r.node(w.Result)
	}
	if n.Else != nil {
		r.WriteString(" else ")
		r.node(n.Else)
	}
	r.WriteString(" end")
}

func (r *renderer) compound(n *Compound) {
	if n.Shape == CompoundConstruct {
		fmt.Fprintf(r, "new %s(", n.Class)
	}
	for i, it := range n.Items {
		if i > 0 {
			r.WriteString(", ")
		}
		r.node(it)
	}
	if n.Shape == CompoundConstruct {
		r.WriteByte(')')
	}
}

func (r *renderer) query(q *querySpec, correlations []*Root) {
	r.WriteString("select ")
	if q.distinct {
		r.WriteString("distinct ")
	}
	switch {
	case q.selection != nil:
		r.node(q.selection)
	case len(q.roots) == 1:
		r.node(q.roots[0])
	default:
		r.fail("no selection for a query with %d roots", len(q.roots))
	}
	if len(q.roots) == 0 && len(correlations) == 0 {
		r.fail("query without roots")
	}
	r.WriteString(" from ")
	first := true
	sep := func() {
		if !first {
			r.WriteString(", ")
		}
		first = false
	}
	for _, root := range q.roots {
		sep()
		fmt.Fprintf(r, "%s %s", root.Entity, r.aliasOf(root))
		r.joins(root.joins)
	}
	for _, c := range correlations {
		// Joins of a correlated root are collection members of the outer
		// identification variable.
		for _, j := range c.joins {
			sep()
			fmt.Fprintf(r, "%s.%s %s", r.aliasOf(c), j.Attribute, r.aliasOf(j))
			r.joins(j.joins)
		}
	}
	r.where(q.where)
	if len(q.groupBy) > 0 {
		r.WriteString(" group by ")
		r.list(q.groupBy)
	}
	if q.having != nil {
		r.WriteString(" having ")
		r.node(q.having)
	}
}

func (r *renderer) joins(js []*Join) {
	for _, j := range js {
		fmt.Fprintf(r, " %s ", j.Type)
		if j.IsFetch {
			r.WriteString("fetch ")
		}
		fmt.Fprintf(r, "%s.%s %s", r.aliasOf(j.Parent), j.Attribute, r.aliasOf(j))
		if j.On != nil {
			r.WriteString(" on ")
			r.node(j.On)
		}
		r.joins(j.joins)
	}
}

func (r *renderer) where(p Predicate) {
	if p != nil {
		r.WriteString(" where ")
		r.node(p)
	}
}
