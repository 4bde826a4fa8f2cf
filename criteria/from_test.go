package criteria

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/metamodel"
	"github.com/syssam/metamodel/compiler/categorize"
	"github.com/syssam/metamodel/compiler/load"
)

func zooBuilder(t *testing.T) *Builder {
	t.Helper()
	model, err := load.Load(filepath.Join("..", "compiler", "load", "testdata", "zoo"))
	require.NoError(t, err)
	dm, err := categorize.Process(model)
	require.NoError(t, err)
	return newBuilder(t, WithMetamodel(dm))
}

func TestMetamodelResolution(t *testing.T) {
	b := zooBuilder(t)

	t.Run("attributes resolve through super types", func(t *testing.T) {
		q := b.CreateQuery()
		d := q.From("Dog").As("d")
		id := d.Get("id")
		require.NoError(t, id.Err())
		require.NotNil(t, id.Attr())
		assert.Equal(t, categorize.Basic, id.Attr().Nature())
		assert.NoError(t, d.Get("breed").Err())
		assert.NoError(t, q.Err())
	})

	t.Run("paths follow to-one and embedded attributes", func(t *testing.T) {
		q := b.CreateQuery()
		a := q.From("Animal").As("a")
		street := a.Get("keeper").Get("address").Get("street")
		require.NoError(t, street.Err())
		q.Select(street)
		s, err := q.Render()
		require.NoError(t, err)
		assert.Equal(t, "select a.keeper.address.street from Animal a", s)
	})

	t.Run("joins resolve their target", func(t *testing.T) {
		q := b.CreateQuery()
		a := q.From("Animal").As("a")
		k := a.Join("keeper", LeftJoin).As("k")
		require.NoError(t, k.Err())
		ad := k.Join("address", InnerJoin).As("ad")
		require.NoError(t, ad.Err())
		tags := a.Join("tags", InnerJoin).As("t")
		require.NoError(t, tags.Err())
		q.Select(ad.Get("city")).Where(b.Equal(tags, "good"))
		s, err := q.Render()
		require.NoError(t, err)
		assert.Equal(t, "select ad.city from Animal a left join a.keeper k join k.address ad join a.tags t where t = 'good'", s)
	})

	t.Run("treat to a subtype", func(t *testing.T) {
		q := b.CreateQuery()
		a := q.From("Animal").As("a")
		breed := b.Treat(a, "Dog").Get("breed")
		require.NoError(t, breed.Err())
		assert.Equal(t, "breed", breed.Attr().Name())
	})
}

func TestMetamodelResolutionErrors(t *testing.T) {
	b := zooBuilder(t)
	tests := []struct {
		name  string
		build func(q *Query) Node
		path  string
	}{
		{
			name:  "unknown entity",
			build: func(q *Query) Node { return q.From("Cat") },
			path:  "Cat",
		},
		{
			name: "class name is not an entity name",
			build: func(q *Query) Node {
				return q.From("Keeper")
			},
			path: "Keeper",
		},
		{
			name:  "unknown attribute",
			build: func(q *Query) Node { return q.From("Animal").Get("wings") },
			path:  "Animal.wings",
		},
		{
			name:  "subtype attribute on the super type",
			build: func(q *Query) Node { return q.From("Animal").Get("breed") },
			path:  "Animal.breed",
		},
		{
			name:  "basic attribute dereferenced",
			build: func(q *Query) Node { return q.From("Animal").Get("name").Get("length") },
			path:  "Animal.name.length",
		},
		{
			name:  "basic attribute joined",
			build: func(q *Query) Node { return q.From("Animal").Join("name", InnerJoin) },
			path:  "Animal.name",
		},
		{
			name:  "path from an element collection join",
			build: func(q *Query) Node { return q.From("Animal").Join("tags", InnerJoin).Get("value") },
			path:  "Animal.tags.value",
		},
		{
			name:  "treat to an unrelated entity",
			build: func(q *Query) Node { return b.Treat(q.From("Animal"), "ZooKeeper") },
			path:  "Animal",
		},
		{
			name:  "treat to an unknown entity",
			build: func(q *Query) Node { return b.Treat(q.From("Animal"), "Cat").Get("x") },
			path:  "Animal",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := b.CreateQuery()
			n := tt.build(q)
			err := Err(n)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPath)
			var pe *PathError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.path, pe.Path)

			if _, ok := n.(*Root); ok {
				_, err = q.Render()
				assert.True(t, IsPathError(err))
			}
		})
	}
}

func TestErrorsPropagate(t *testing.T) {
	b := zooBuilder(t)
	q := b.CreateQuery()
	c := q.From("Cat")
	name := c.Get("name").Get("first")
	j := c.Join("owner", InnerJoin)
	assert.Same(t, c.Err(), name.Err())
	assert.Same(t, c.Err(), j.Err())
	q.Where(b.Equal(name, "x"), b.IsNull(q.From("Animal").Get("wings")))
	err := q.Err()
	var agg *metamodel.AggregateError
	require.ErrorAs(t, err, &agg)
	assert.Len(t, agg.Errors, 2)
	_, err = q.Render()
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestUnboundBuilderSkipsResolution(t *testing.T) {
	b := newBuilder(t)
	q := b.CreateQuery()
	r := q.From("Anything")
	p := r.Get("a").Get("b")
	j := r.Join("c", InnerJoin)
	assert.NoError(t, p.Err())
	assert.NoError(t, j.Err())
	assert.Nil(t, p.Attr())
	assert.NoError(t, q.Err())
}
