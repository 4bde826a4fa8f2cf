package categorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/metamodel"
	"github.com/syssam/metamodel/compiler/load"
	"github.com/syssam/metamodel/schema"
)

func names(ms []*load.Member) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.AttributeName()
	}
	return out
}

func TestResolveMembers(t *testing.T) {
	fieldAccess := schema.AccessOf(metamodel.AccessField)
	propertyAccess := schema.AccessOf(metamodel.AccessProperty)
	tests := []struct {
		name   string
		class  *load.ClassDetails
		access metamodel.AccessType
		want   []string
	}{
		{
			name: "field access selects fields",
			class: load.NewClass("test.A").
				Field("id", "long").
				Field("name", "String").
				Getter("getName", "String"),
			access: metamodel.AccessField,
			want:   []string{"id", "name"},
		},
		{
			name: "property access selects getters",
			class: load.NewClass("test.A").
				Field("ignored", "String").
				Getter("getId", "long").
				Getter("getName", "String").
				Getter("isActive", "boolean").
				Callback("doWork", nil).
				Callback("getWithArg", []string{"int"}),
			access: metamodel.AccessProperty,
			want:   []string{"id", "name", "active"},
		},
		{
			name: "unknown access selects fields",
			class: load.NewClass("test.A").
				Field("id", "long").
				Getter("getOther", "String"),
			access: metamodel.AccessUnknown,
			want:   []string{"id"},
		},
		{
			name: "attribute level overrides come first",
			class: load.NewClass("test.A").
				Field("a", "String").
				Field("b", "String").
				Getter("getC", "String", propertyAccess),
			access: metamodel.AccessField,
			want:   []string{"c", "a", "b"},
		},
		{
			name: "override wins over class level member of the same name",
			class: load.NewClass("test.A").
				Field("name", "String", fieldAccess).
				Getter("getName", "String").
				Getter("getAge", "int"),
			access: metamodel.AccessProperty,
			want:   []string{"name", "age"},
		},
		{
			name: "transient members are skipped",
			class: load.NewClass("test.A").
				Field("id", "long").
				Field("cache", "Map", schema.Marker(schema.Transient)).
				AddField(&load.Member{Name: "buffer", Type: "byte[]", Transient: true}).
				AddField(&load.Member{Name: "counter", Type: "int", Static: true}),
			access: metamodel.AccessField,
			want:   []string{"id"},
		},
		{
			name: "transient override is skipped",
			class: load.NewClass("test.A").
				Field("id", "long").
				Getter("getTmp", "String", propertyAccess, schema.Marker(schema.Transient)),
			access: metamodel.AccessField,
			want:   []string{"id"},
		},
		{
			name:   "empty class",
			class:  load.NewClass("test.A"),
			access: metamodel.AccessField,
			want:   []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms, err := ResolveMembers(tt.class, tt.access)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(ms))
		})
	}
}

func TestResolveMembersErrors(t *testing.T) {
	t.Run("field access on a getter", func(t *testing.T) {
		c := load.NewClass("test.A").
			Field("id", "long").
			Getter("getName", "String", schema.AccessOf(metamodel.AccessField))
		_, err := ResolveMembers(c, metamodel.AccessField)
		require.Error(t, err)
		assert.True(t, metamodel.IsAccessPlacement(err))
		var ap *metamodel.AccessPlacementError
		require.ErrorAs(t, err, &ap)
		assert.Equal(t, "test.A#getName", ap.Member)
		assert.Equal(t, metamodel.AccessField, ap.Access)
	})

	t.Run("property access on a field", func(t *testing.T) {
		c := load.NewClass("test.A").
			Field("name", "String", schema.AccessOf(metamodel.AccessProperty))
		_, err := ResolveMembers(c, metamodel.AccessField)
		assert.ErrorIs(t, err, metamodel.ErrAccessPlacement)
	})

	t.Run("placement is checked before transience", func(t *testing.T) {
		c := load.NewClass("test.A").
			Getter("getName", "String", schema.AccessOf(metamodel.AccessField), schema.Marker(schema.Transient))
		_, err := ResolveMembers(c, metamodel.AccessField)
		assert.ErrorIs(t, err, metamodel.ErrAccessPlacement)
	})

	t.Run("property access on a non getter", func(t *testing.T) {
		c := load.NewClass("test.A").
			Callback("compute", nil, schema.AccessOf(metamodel.AccessProperty))
		_, err := ResolveMembers(c, metamodel.AccessField)
		assert.True(t, metamodel.IsModelError(err))
	})

	t.Run("duplicate attribute overrides", func(t *testing.T) {
		c := load.NewClass("test.A").
			Field("name", "String", schema.AccessOf(metamodel.AccessField)).
			Getter("getName", "String", schema.AccessOf(metamodel.AccessProperty))
		_, err := ResolveMembers(c, metamodel.AccessField)
		require.Error(t, err)
		assert.ErrorIs(t, err, metamodel.ErrInvalidModel)
		assert.Contains(t, err.Error(), "attribute name already defined")
	})

	t.Run("invalid access value", func(t *testing.T) {
		c := load.NewClass("test.A").
			Field("name", "String", schema.New(schema.Access, "value", "SIDEWAYS"))
		_, err := ResolveMembers(c, metamodel.AccessField)
		assert.ErrorIs(t, err, metamodel.ErrInvalidModel)
	})
}
