package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/syssam/metamodel"
	"github.com/syssam/metamodel/schema"
)

func TestNew(t *testing.T) {
	t.Run("Attributes", func(t *testing.T) {
		a := schema.New(schema.Cache, "usage", "READ_WRITE", "region", "pets")
		assert.Equal(t, schema.Cache, a.Name)
		assert.Equal(t, "READ_WRITE", a.String("usage", ""))
		assert.Equal(t, "pets", a.String("region", ""))
		assert.Equal(t, "fallback", a.String("include", "fallback"))
	})

	t.Run("OddArguments", func(t *testing.T) {
		assert.Panics(t, func() { schema.New(schema.Cache, "usage") })
	})

	t.Run("NonStringKey", func(t *testing.T) {
		assert.Panics(t, func() { schema.New(schema.Cache, 1, "x") })
	})
}

func TestAnnotationAccessors(t *testing.T) {
	a := schema.New("Test",
		"flag", true,
		"flagText", "false",
		"count", 3,
		"countFloat", float64(7),
		"one", "A",
		"many", []any{"A", "B"},
	)

	t.Run("Bool", func(t *testing.T) {
		assert.True(t, a.Bool("flag", false))
		assert.False(t, a.Bool("flagText", true))
		assert.True(t, a.Bool("missing", true))
	})

	t.Run("Int", func(t *testing.T) {
		assert.Equal(t, 3, a.Int("count", 0))
		assert.Equal(t, 7, a.Int("countFloat", 0))
		assert.Equal(t, 42, a.Int("missing", 42))
	})

	t.Run("Strings", func(t *testing.T) {
		assert.Equal(t, []string{"A"}, a.Strings("one"))
		assert.Equal(t, []string{"A", "B"}, a.Strings("many"))
		assert.Nil(t, a.Strings("missing"))
	})

	t.Run("NilAnnotation", func(t *testing.T) {
		var nilAnn *schema.Annotation
		assert.False(t, nilAnn.Has("x"))
		assert.Equal(t, "d", nilAnn.String("x", "d"))
	})
}

func TestAnnotations(t *testing.T) {
	as := schema.Annotations{
		schema.Marker(schema.Entity),
		schema.FilterDefOf("active", "active = true"),
		schema.New(schema.FilterDefs, "value", []any{
			map[string]any{"name": "tenant", "defaultCondition": "tenant_id = :tenant"},
			map[string]any{"name": "deleted"},
		}),
	}

	assert.True(t, as.Has(schema.Entity))
	assert.False(t, as.Has(schema.MappedSuperclass))
	assert.Nil(t, as.Get(schema.Embeddable))
	assert.Equal(t, []string{schema.Entity, schema.FilterDef, schema.FilterDefs}, as.Names())

	defs := as.Repeated(schema.FilterDef, schema.FilterDefs)
	require.Len(t, defs, 3)
	assert.Equal(t, "active", defs[0].String("name", ""))
	assert.Equal(t, "tenant", defs[1].String("name", ""))
	assert.Equal(t, schema.FilterDef, defs[2].Name)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		ann  *schema.Annotation
		key  string
		want string
	}{
		{"Access", schema.AccessOf(metamodel.AccessProperty), "value", "PROPERTY"},
		{"Inheritance", schema.InheritanceOf(metamodel.Joined), "strategy", "JOINED"},
		{"OptimisticLocking", schema.OptimisticLockingOf(metamodel.LockDirty), "type", "DIRTY"},
		{"Cache", schema.CacheOf(metamodel.ReadWrite, "r"), "usage", "READ_WRITE"},
		{"IdClass", schema.IDClassOf("OrderKey"), "value", "OrderKey"},
		{"Entity", schema.EntityNamed("Pet"), "name", "Pet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ann.String(tt.key, ""))
		})
	}
	assert.False(t, schema.CacheableOf(false).Bool("value", true))
	assert.Equal(t, []string{"A", "B"}, schema.EntityListenersOf("A", "B").Strings("value"))
}

func TestUnmarshal(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		var as schema.Annotations
		err := yaml.Unmarshal([]byte(`
- Entity
- name: Cache
  attrs:
    usage: read-write
    region: pets
`), &as)
		require.NoError(t, err)
		require.Len(t, as, 2)
		assert.Equal(t, schema.Entity, as[0].Name)
		assert.Equal(t, "pets", as.Get(schema.Cache).String("region", ""))
	})

	t.Run("JSON", func(t *testing.T) {
		var as schema.Annotations
		err := json.Unmarshal([]byte(`["Id", {"name": "Access", "attrs": {"value": "FIELD"}}]`), &as)
		require.NoError(t, err)
		require.Len(t, as, 2)
		assert.Equal(t, schema.ID, as[0].Name)
		assert.Equal(t, "FIELD", as.Get(schema.Access).String("value", ""))
	})
}
