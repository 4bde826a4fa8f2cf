package criteria

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(ns []Node) []Kind {
	var ks []Kind
	for _, n := range ns {
		ks = append(ks, n.Kind())
	}
	return ks
}

func TestChildren(t *testing.T) {
	b := newBuilder(t)
	q := b.CreateQuery()
	a := q.From("Animal")
	name := a.Get("name")
	tests := []struct {
		name string
		node Node
		want []Kind
	}{
		{"literal is a leaf", b.Literal(1), nil},
		{"path stops at its root", name, nil},
		{"nested path", name.Get("first"), []Kind{KindPath}},
		{"comparison", b.Equal(name, 1), []Kind{KindPath, KindLiteral}},
		{"trim without char", b.Trim(name), []Kind{KindPath}},
		{"like without escape", b.Like(name, "a%"), []Kind{KindPath, KindLiteral}},
		{
			"case",
			b.SelectCaseOf(name).When("a", 1).Otherwise(b.Parameter("p")),
			[]Kind{KindPath, KindLiteral, KindLiteral, KindParameter},
		},
		{"exists", b.Exists(q.Subquery()), []Kind{KindSubquery}},
		{"compound", b.Tuple(name, b.Count(a)), []Kind{KindPath, KindAggregate}},
		{"order", b.Desc(name), []Kind{KindPath}},
		{"empty junction", b.Or(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kinds(Children(tt.node)))
		})
	}

	t.Run("query starts with the from clause", func(t *testing.T) {
		q := b.CreateQuery()
		r := q.From("Animal")
		r.Join("keeper", InnerJoin)
		q.Select(r.Get("name")).Where(b.IsNull(r.Get("keeper"))).OrderBy(b.Asc(r.Get("name")))
		assert.Equal(t, []Kind{KindRoot, KindPath, KindNullCheck, KindOrder}, kinds(Children(q)))
		assert.Equal(t, []Kind{KindJoin}, kinds(Children(r)))
	})

	t.Run("join reaches its joins and condition", func(t *testing.T) {
		j := b.CreateQuery().From("Animal").Join("keeper", InnerJoin)
		j.Join("address", InnerJoin)
		j.Where(b.Conjunction())
		assert.Equal(t, []Kind{KindJoin, KindJunction}, kinds(Children(j)))
	})

	t.Run("update and delete", func(t *testing.T) {
		u := b.CreateUpdate("Animal")
		u.SetAttribute("name", "x")
		assert.Equal(t, []Kind{KindRoot, KindPath, KindLiteral}, kinds(Children(u)))
		d := b.CreateDelete("Animal").Where(b.Disjunction())
		assert.Equal(t, []Kind{KindRoot, KindJunction}, kinds(Children(d)))
	})
}

func TestWalk(t *testing.T) {
	b := newBuilder(t)
	q := b.CreateQuery()
	a := q.From("Animal")
	sub := q.Subquery()
	d := sub.From("Dog")
	sub.Select(d.Get("id")).Where(b.Equal(d.Get("owner"), b.Parameter("owner")))
	q.Where(b.In(a.Get("id"), sub), b.Equal(a.Get("name"), b.Parameter("name")))

	t.Run("pre-order", func(t *testing.T) {
		var visited []Kind
		Walk(q, func(n Node) bool {
			visited = append(visited, n.Kind())
			return true
		})
		assert.Equal(t, []Kind{
			KindQuery, KindRoot, KindJunction,
			KindIn, KindPath, KindSubquery, KindRoot, KindPath, KindComparison, KindPath, KindParameter,
			KindComparison, KindPath, KindParameter,
		}, visited)
	})

	t.Run("pruned subtree", func(t *testing.T) {
		var visited []Kind
		Walk(q, func(n Node) bool {
			visited = append(visited, n.Kind())
			return n.Kind() != KindSubquery
		})
		var params int
		for _, k := range visited {
			if k == KindParameter {
				params++
			}
		}
		assert.Equal(t, 1, params)
		require.Contains(t, visited, KindSubquery)
		assert.NotContains(t, visited[slices.Index(visited, KindSubquery)+1:], KindRoot)
	})

	t.Run("parameters", func(t *testing.T) {
		ps := Parameters(q)
		require.Len(t, ps, 2)
		assert.Equal(t, "owner", ps[0].Name)
		assert.Equal(t, "name", ps[1].Name)
	})

	t.Run("nil node", func(t *testing.T) {
		var called bool
		Walk(nil, func(Node) bool {
			called = true
			return true
		})
		assert.False(t, called)
		assert.NoError(t, Err(nil))
	})
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Comparison", KindComparison.String())
	assert.Equal(t, "Delete", KindDelete.String())
	assert.Equal(t, "Kind(200)", Kind(200).String())
	assert.Equal(t, OpLessThanOrEqual, OpGreaterThan.Negate())
	assert.Equal(t, "left join", LeftJoin.String())
}
