package criteria

import (
	"fmt"

	"github.com/syssam/metamodel"
)

// Children returns the direct children of a node, nil children omitted.
// Roots and joins reach the joins made from them; paths and treats do not
// descend into the root or join they start from. Query children start
// with the from clause.
func Children(n Node) []Node {
	var cs []Node
	add := func(ns ...Node) {
		for _, c := range ns {
			if !isNil(c) {
				cs = append(cs, c)
			}
		}
	}
	switch n := n.(type) {
	case *Literal, *Parameter, *Treat:
	case *Path:
		if p, ok := n.Parent.(*Path); ok {
			add(p)
		}
	case *Root:
		for _, j := range n.joins {
			add(j)
		}
	case *Join:
		for _, j := range n.joins {
			add(j)
		}
		add(n.On)
	case *Arithmetic:
		add(n.X, n.Y)
	case *Negation:
		add(n.X)
	case *Function:
		for _, a := range n.Args {
			add(a)
		}
	case *Trim:
		add(n.Char, n.X)
	case *Cast:
		add(n.X)
	case *Aggregate:
		add(n.X)
	case *Coalesce:
		for _, a := range n.Args {
			add(a)
		}
	case *NullIf:
		add(n.X, n.Y)
	case *Comparison:
		add(n.X, n.Y)
	case *Between:
		add(n.X, n.Lower, n.Upper)
	case *In:
		add(n.X)
		for _, v := range n.Values {
			add(v)
		}
	case *Like:
		add(n.X, n.Pattern, n.Escape)
	case *NullCheck:
		add(n.X)
	case *EmptyCheck:
		add(n.Collection)
	case *MemberOf:
		add(n.Element, n.Collection)
	case *Junction:
		for _, p := range n.Preds {
			add(p)
		}
	case *Not:
		add(n.X)
	case *BooleanTest:
		add(n.X)
	case *Exists:
		add(n.Sub)
	case *Quantified:
		add(n.Sub)
	case *Case:
		add(n.Operand)
		for _, w := range n.Whens {
			add(w.Cond, w.Result)
		}
		add(n.Else)
	case *Compound:
		for _, it := range n.Items {
			add(it)
		}
	case *Order:
		add(n.X)
	case *Query:
		add(specChildren(&n.querySpec, nil)...)
		for _, o := range n.orderBy {
			add(o)
		}
	case *Subquery:
		add(specChildren(&n.querySpec, n.correlations)...)
	case *Update:
		add(n.root)
		for _, s := range n.sets {
			add(s.Path, s.Value)
		}
		add(n.where)
	case *Delete:
		add(n.root, n.where)
	default:
		panic(fmt.Sprintf("criteria: unexpected node type %T", n))
	}
	return cs
}

func specChildren(q *querySpec, correlations []*Root) []Node {
	var ns []Node
	for _, r := range q.roots {
		ns = append(ns, r)
	}
	for _, r := range correlations {
		ns = append(ns, r)
	}
	ns = append(ns, q.selection, q.where)
	for _, g := range q.groupBy {
		ns = append(ns, g)
	}
	return append(ns, q.having)
}

// isNil reports whether a node is nil, including typed nil pointers
// stored in an interface.
func isNil(n Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case *Subquery:
		return n == nil
	case *Junction:
		return n == nil
	case *Path:
		return n == nil
	}
	return false
}

// Walk traverses the tree rooted at n in pre-order. Children of a node are
// skipped when fn returns false for it.
func Walk(n Node, fn func(Node) bool) {
	if isNil(n) || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Parameters returns the distinct parameters of a tree in walk order.
func Parameters(n Node) []*Parameter {
	var (
		ps   []*Parameter
		seen = make(map[*Parameter]bool)
	)
	Walk(n, func(n Node) bool {
		if p, ok := n.(*Parameter); ok && !seen[p] {
			seen[p] = true
			ps = append(ps, p)
		}
		return true
	})
	return ps
}

// Err returns the distinct resolution errors recorded on the roots, joins,
// paths and treats of a tree, nil when there are none.
func Err(n Node) error {
	var (
		errs []error
		seen = make(map[error]bool)
	)
	Walk(n, func(n Node) bool {
		var err error
		switch n := n.(type) {
		case *Root:
			err = n.err
		case *Join:
			err = n.err
		case *Path:
			err = n.err
		case *Treat:
			err = n.err
		}
		if err != nil && !seen[err] {
			seen[err] = true
			errs = append(errs, err)
		}
		return true
	})
	return metamodel.NewAggregateError(errs...)
}
