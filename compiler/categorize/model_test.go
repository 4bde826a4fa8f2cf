package categorize

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/metamodel"
	"github.com/syssam/metamodel/compiler/load"
	"github.com/syssam/metamodel/schema"
)

func TestProcessZoo(t *testing.T) {
	model, err := load.Load(filepath.Join("..", "load", "testdata", "zoo"))
	require.NoError(t, err)
	dm, err := Process(model)
	require.NoError(t, err)

	hs := dm.Hierarchies()
	require.Len(t, hs, 2)
	animals, keepers := hs[0], hs[1]

	t.Run("animal hierarchy", func(t *testing.T) {
		assert.Equal(t, "zoo.Animal", animals.Root().ClassName())
		assert.Equal(t, "zoo.Base", animals.AbsoluteRoot().ClassName())
		assert.Equal(t, []string{"zoo.Base", "zoo.Animal", "zoo.Dog"}, classNames(animals.Types()))
		assert.Equal(t, metamodel.Joined, animals.InheritanceType())
		assert.Equal(t, metamodel.AccessField, animals.AccessType())
		assert.Equal(t, BasicKey, animals.IDMapping().Kind())
		require.NotNil(t, animals.VersionAttribute())
		assert.Equal(t, "version", animals.VersionAttribute().Name())
		assert.Equal(t, CacheRegion{
			Enabled:             true,
			RegionName:          "zoo.Animal",
			AccessType:          metamodel.ReadWrite,
			CacheLazyProperties: true,
		}, animals.CacheRegion())

		root := animals.Root()
		for name, nature := range map[string]AttributeNature{
			"name":   Basic,
			"keeper": ToOne,
			"tags":   Plural,
			"id":     Basic,
		} {
			a := root.FindAttribute(name)
			require.NotNil(t, a, name)
			assert.Equal(t, nature, a.Nature(), name)
		}

		var chain []string
		for _, l := range root.Listeners() {
			chain = append(chain, l.String())
		}
		assert.Equal(t, []string{"LISTENER(zoo.AuditListener)", "CALLBACK(zoo.Animal)"}, chain)
	})

	t.Run("keeper hierarchy", func(t *testing.T) {
		root := keepers.Root()
		assert.Same(t, root, keepers.AbsoluteRoot())
		assert.Equal(t, "ZooKeeper", root.EntityName())
		assert.Equal(t, []string{"id", "address"}, attrNames(root.Attributes()))
		assert.Equal(t, Embedded, root.FindAttribute("address").Nature())
		assert.False(t, keepers.CacheRegion().Enabled)
	})

	t.Run("entity lookup", func(t *testing.T) {
		keeper, ok := dm.EntityType("ZooKeeper")
		require.True(t, ok)
		assert.Equal(t, "zoo.Keeper", keeper.ClassName())
		_, ok = dm.EntityType("Keeper")
		assert.False(t, ok)
		var entityNames []string
		for _, e := range dm.EntityTypes() {
			entityNames = append(entityNames, e.EntityName())
		}
		assert.Equal(t, []string{"Animal", "Dog", "ZooKeeper"}, entityNames)
	})

	t.Run("mapped superclasses and embeddables", func(t *testing.T) {
		ms := dm.MappedSuperclasses()
		require.Len(t, ms, 1)
		assert.Same(t, animals.AbsoluteRoot(), ms["zoo.Base"])

		es := dm.Embeddables()
		require.Len(t, es, 1)
		address := es["zoo.Address"]
		require.NotNil(t, address)
		assert.Equal(t, metamodel.AccessField, address.AccessType())
		assert.Equal(t, []string{"street", "city"}, attrNames(address.Attributes()))
	})

	t.Run("find hierarchy", func(t *testing.T) {
		for class, want := range map[string]*EntityHierarchy{
			"zoo.Base":   animals,
			"zoo.Dog":    animals,
			"zoo.Keeper": keepers,
		} {
			h, err := dm.FindHierarchy(class)
			require.NoError(t, err)
			assert.Same(t, want, h, class)
		}
		_, err := dm.FindHierarchy("zoo.Address")
		require.Error(t, err)
		assert.True(t, metamodel.IsHierarchyLookup(err))
		assert.Contains(t, err.Error(), "zoo.Address")
	})

	t.Run("managed type", func(t *testing.T) {
		mt, ok := dm.ManagedType("zoo.Address")
		require.True(t, ok)
		assert.Equal(t, "zoo.Address", mt.ClassName())
		mt, ok = dm.ManagedType("zoo.Dog")
		require.True(t, ok)
		assert.NotNil(t, mt.FindAttribute("breed"))
		_, ok = dm.ManagedType("zoo.Unknown")
		assert.False(t, ok)
	})

	t.Run("registrations", func(t *testing.T) {
		regs := dm.Registrations()
		f, ok := regs.FilterDef("alive")
		require.True(t, ok)
		assert.Equal(t, "deceased = false", f.DefaultCondition)
		require.Len(t, regs.SequenceGenerators, 1)
		assert.Equal(t, 50, regs.SequenceGenerators[0].AllocationSize)
		q, ok := regs.NamedQuery("Animal.byName")
		require.True(t, ok)
		assert.False(t, q.Native)
		require.Len(t, regs.EntityListeners, 1)
		assert.Equal(t, "zoo.AuditListener", regs.EntityListeners[0].Class)
	})
}

func TestProcessEmbeddables(t *testing.T) {
	embeddable := schema.Marker(schema.Embeddable)
	model := load.NewRegistry().MustAdd(
		load.NewClass("app.Geo").Annotate(embeddable).Field("lat", "double").Field("lng", "double"),
		load.NewClass("app.Address").Annotate(embeddable).Getter("getStreet", "String").Getter("getGeo", "app.Geo"),
		load.NewClass("app.Unused").Annotate(embeddable).Field("x", "int"),
		load.NewClass("app.Store").Annotate(entity).
			Getter("getId", "long", id).
			Getter("getAddress", "app.Address"),
		load.NewClass("app.Other").Annotate(entity, schema.AccessOf(metamodel.AccessField)).
			Field("id", "long", id).
			Field("raw", "app.Geo", schema.Marker(schema.Embedded)),
	)
	dm, err := Process(model)
	require.NoError(t, err)
	es := dm.Embeddables()
	require.Len(t, es, 3)
	assert.Equal(t, metamodel.AccessProperty, es["app.Address"].AccessType())
	assert.Equal(t, []string{"street", "geo"}, attrNames(es["app.Address"].Attributes()))
	assert.Equal(t, metamodel.AccessProperty, es["app.Geo"].AccessType())
	assert.Empty(t, es["app.Geo"].Attributes())
	assert.Equal(t, metamodel.AccessField, es["app.Unused"].AccessType())
}

func TestProcessErrors(t *testing.T) {
	t.Run("invalid option", func(t *testing.T) {
		_, err := Process(load.NewRegistry(), WithLogger(nil))
		assert.ErrorIs(t, err, metamodel.ErrInvalidConfig)
	})

	t.Run("conflicting natures abort the pass", func(t *testing.T) {
		model := load.NewRegistry().MustAdd(
			load.NewClass("app.Root").Annotate(entity).
				Field("id", "long", id).
				Field("owner", "app.Person", schema.Marker(schema.Basic), schema.Marker(schema.ManyToOne)),
		)
		_, err := Process(model)
		assert.True(t, metamodel.IsMultipleNatures(err))
	})

	t.Run("unnamed filter definition", func(t *testing.T) {
		model := load.NewRegistry().MustAdd(
			load.NewClass("app.Root").Annotate(entity, schema.Marker(schema.FilterDef)).Field("id", "long", id),
		)
		_, err := Process(model)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.Root")
	})

	t.Run("entity outside every hierarchy", func(t *testing.T) {
		model := load.NewRegistry().MustAdd(
			load.NewClass("app.Root").Annotate(entity).Field("id", "long", id),
			load.NewClass("app.Child").Extends("app.Root").Annotate(entity),
		)
		dm, err := Process(model)
		require.NoError(t, err)
		_, err = dm.FindHierarchy("app.Child")
		require.NoError(t, err)
		_, err = dm.FindHierarchy("app.Nowhere")
		assert.ErrorIs(t, err, metamodel.ErrHierarchyLookup)
	})
}

func TestProcessLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	model := load.NewRegistry().MustAdd(
		load.NewClass("app.Root").Annotate(entity).Field("id", "long", id).Field("name", "String"),
	)
	_, err := Process(model, WithLogger(logger))
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "implicitly categorizing attribute as BASIC")
	assert.Contains(t, out, "member=app.Root#name")
	assert.Contains(t, out, "categorized domain model")
	assert.Contains(t, out, "hierarchies=1")
}
