// Package criteria builds typed query trees and renders them to JPQL.
//
// A tree is made of the node types declared in this package; the set is
// closed and every node reports its Kind. Walk, Children and Parameters
// traverse any tree without a per-node visitor.
//
//	b, err := criteria.NewBuilder(criteria.WithMetamodel(model))
//	if err != nil {
//		return err
//	}
//	q := b.CreateQuery()
//	a := q.From("Animal").As("a")
//	k := a.Join("keeper", criteria.LeftJoin).As("k")
//	q.Select(a.Get("name")).Where(b.Equal(k.Get("name"), b.Parameter("keeper")))
//	jpql, err := q.Render()
//
// When the builder is bound to a categorized model, roots are looked up by
// entity name and every path or join is checked against the attributes of
// its source type, super types included. A failed lookup is recorded on the
// node, propagated to the paths built from it and reported by Err and
// Render.
package criteria
