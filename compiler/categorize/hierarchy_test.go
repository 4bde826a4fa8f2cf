package categorize

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/metamodel"
	"github.com/syssam/metamodel/compiler/load"
	"github.com/syssam/metamodel/schema"
)

var (
	entity = schema.Marker(schema.Entity)
	mapped = schema.Marker(schema.MappedSuperclass)
	id     = schema.Marker(schema.ID)
)

func buildAll(t *testing.T, opts []Option, classes ...*load.ClassDetails) []*EntityHierarchy {
	t.Helper()
	b, err := NewEntityHierarchyBuilder(load.NewRegistry().MustAdd(classes...), opts...)
	require.NoError(t, err)
	hs, err := b.Build()
	require.NoError(t, err)
	return hs
}

func buildOne(t *testing.T, opts []Option, classes ...*load.ClassDetails) *EntityHierarchy {
	t.Helper()
	hs := buildAll(t, opts, classes...)
	require.Len(t, hs, 1)
	return hs[0]
}

func buildErr(opts []Option, classes ...*load.ClassDetails) error {
	b, err := NewEntityHierarchyBuilder(load.NewRegistry().MustAdd(classes...), opts...)
	if err != nil {
		return err
	}
	_, err = b.Build()
	return err
}

func attrNames(as []*AttributeMetadata) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.Name()
	}
	return out
}

func classNames(ts []*IdentifiableTypeMetadata) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ClassName()
	}
	return out
}

func TestAnimalRoundTrip(t *testing.T) {
	h := buildOne(t, nil,
		load.NewClass("zoo.Animal").
			Annotate(entity).
			Field("id", "long", id).
			Field("name", "String"),
	)
	root := h.Root()
	assert.Same(t, root, h.AbsoluteRoot())
	assert.True(t, root.IsRoot())
	assert.True(t, root.IsAbsoluteRoot())
	assert.True(t, root.IsEntity())
	assert.Equal(t, "Animal", root.EntityName())
	assert.Same(t, h, root.Hierarchy())

	require.Equal(t, []string{"id", "name"}, attrNames(root.Attributes()))
	assert.Equal(t, Basic, root.FindAttribute("id").Nature())
	assert.Equal(t, Basic, root.FindAttribute("name").Nature())

	mapping, ok := h.IDMapping().(*BasicKeyMapping)
	require.True(t, ok, "expected basic key mapping, got %T", h.IDMapping())
	assert.Same(t, root.FindAttribute("id"), mapping.Attribute)
	assert.Equal(t, BasicKey, mapping.Kind())

	assert.Equal(t, metamodel.AccessField, h.AccessType())
	assert.Equal(t, metamodel.SingleTable, h.InheritanceType())
	assert.Equal(t, metamodel.LockVersion, h.OptimisticLockStyle())
	assert.Nil(t, h.NaturalIDMapping())
	assert.Nil(t, h.VersionAttribute())
	assert.Nil(t, h.TenantIDAttribute())
	assert.Equal(t, "EntityHierarchy(zoo.Animal)", h.String())
}

func TestIsRoot(t *testing.T) {
	model := load.NewRegistry().MustAdd(
		load.NewClass("zoo.Animal").AsAbstract().Annotate(entity).Field("id", "long", id),
		load.NewClass("zoo.Dog").Extends("zoo.Animal").Annotate(entity).Field("name", "string"),
		load.NewClass("zoo.Puppy").Extends("zoo.Dog").Annotate(entity),
		load.NewClass("zoo.Toy").Field("id", "long"),
		load.NewClass("zoo.External").Extends("other.Base").Annotate(entity).Field("id", "long", id),
	)
	b, err := NewEntityHierarchyBuilder(model)
	require.NoError(t, err)

	for name, want := range map[string]bool{
		"zoo.Animal":   true,
		"zoo.Dog":      true,
		"zoo.Puppy":    false,
		"zoo.Toy":      false,
		"zoo.External": true,
	} {
		t.Run(name, func(t *testing.T) {
			c, ok := model.Class(name)
			require.True(t, ok)
			assert.Equal(t, want, b.IsRoot(c))
		})
	}

	roots := b.RootEntities()
	var got []string
	for _, r := range roots {
		got = append(got, r.Name)
	}
	assert.Equal(t, []string{"zoo.Animal", "zoo.Dog", "zoo.External"}, got)

	t.Run("abstract entity ancestor heads the hierarchy", func(t *testing.T) {
		hs, err := b.Build()
		require.NoError(t, err)
		require.Len(t, hs, 3)
		assert.Equal(t, []string{"zoo.Animal"}, classNames(hs[0].Types()))
		assert.Equal(t, []string{"zoo.Animal", "zoo.Dog", "zoo.Puppy"}, classNames(hs[1].Types()))
		assert.Equal(t, "zoo.Animal", hs[1].Root().SuperType().ClassName())
		assert.True(t, hs[1].AbsoluteRoot().IsEntity())
	})

	t.Run("non root cannot be built", func(t *testing.T) {
		puppy, _ := model.Class("zoo.Puppy")
		_, err := b.BuildHierarchy(puppy)
		assert.ErrorIs(t, err, metamodel.ErrInvalidModel)
	})
}

func TestAbstractEntityAncestorID(t *testing.T) {
	model := load.NewRegistry().MustAdd(
		load.NewClass("zoo.Animal").AsAbstract().Annotate(entity).Field("id", "long", id),
		load.NewClass("zoo.Dog").Extends("zoo.Animal").Annotate(entity).Field("name", "string"),
	)
	b, err := NewEntityHierarchyBuilder(model)
	require.NoError(t, err)
	dog, ok := model.Class("zoo.Dog")
	require.True(t, ok)

	h, err := b.BuildHierarchy(dog)
	require.NoError(t, err)
	assert.Equal(t, "zoo.Animal", h.AbsoluteRoot().ClassName())
	assert.Equal(t, "zoo.Dog", h.Root().ClassName())
	assert.Equal(t, metamodel.AccessField, h.AccessType())
	m, ok := h.IDMapping().(*BasicKeyMapping)
	require.True(t, ok, "got %T", h.IDMapping())
	assert.Equal(t, "id", m.Attribute.Name())
	assert.Equal(t, "zoo.Animal", m.Attribute.Member().Declaring)

	dm, err := Process(model)
	require.NoError(t, err)
	require.Len(t, dm.Hierarchies(), 2)
	for _, name := range []string{"zoo.Animal", "zoo.Dog"} {
		t.Run(name, func(t *testing.T) {
			h, err := dm.FindHierarchy(name)
			require.NoError(t, err)
			assert.Equal(t, name, h.Root().ClassName())
			mt, ok := dm.ManagedType(name)
			require.True(t, ok)
			assert.True(t, mt.(*IdentifiableTypeMetadata).IsRoot())
		})
	}
	animal, ok := dm.EntityType("Animal")
	require.True(t, ok)
	assert.True(t, animal.IsRoot())
	assert.Equal(t, []string{"zoo.Animal"}, classNames(animal.Hierarchy().Types()))
}

func TestAbsoluteRoot(t *testing.T) {
	h := buildOne(t, nil,
		load.NewClass("shop.Base").AsAbstract().Annotate(mapped).Field("id", "long", id),
		load.NewClass("shop.Audited").Extends("shop.Base").Annotate(mapped).Field("created", "Instant"),
		load.NewClass("shop.Order").Extends("shop.Audited").Annotate(entity).Field("total", "BigDecimal"),
		load.NewClass("shop.RushOrder").Extends("shop.Order").Annotate(entity).Field("deadline", "Instant"),
	)
	abs, root := h.AbsoluteRoot(), h.Root()
	assert.NotSame(t, abs, root)
	assert.Equal(t, "shop.Base", abs.ClassName())
	assert.True(t, abs.IsMappedSuperclass())
	assert.True(t, abs.IsAbsoluteRoot())
	assert.Empty(t, abs.EntityName())
	assert.False(t, abs.IsRoot())
	assert.Equal(t, "shop.Order", root.ClassName())
	assert.Equal(t, "shop.Audited", root.SuperType().ClassName())
	assert.Equal(t, []string{"shop.Base", "shop.Audited", "shop.Order", "shop.RushOrder"}, classNames(h.Types()))

	rush, ok := h.Type("shop.RushOrder")
	require.True(t, ok)
	assert.Same(t, root, rush.SuperType())
	assert.Equal(t, 1, root.NumberOfSubTypes())
	assert.Equal(t, []string{"id", "created", "total", "deadline"}, attrNames(rush.AllAttributes()))
	assert.NotNil(t, rush.FindAttribute("id"))
	assert.Nil(t, rush.ManagedTypeMetadata.FindAttribute("id"))
	assert.True(t, h.Contains("shop.Base"))
	assert.False(t, h.Contains("shop.Other"))

	mapping, ok := h.IDMapping().(*BasicKeyMapping)
	require.True(t, ok)
	assert.Equal(t, "shop.Base", mapping.Attribute.Member().Declaring)
}

func TestIntermediateClasses(t *testing.T) {
	h := buildOne(t, nil,
		load.NewClass("app.Root").Annotate(entity).Field("id", "long", id),
		load.NewClass("app.Helper").Extends("app.Root").Field("scratch", "String"),
		load.NewClass("app.Leaf").Extends("app.Helper").Annotate(entity).Field("color", "String"),
		load.NewClass("app.Other").Extends("app.Root").Annotate(entity),
	)
	root := h.Root()
	assert.Equal(t, []string{"app.Leaf", "app.Other"}, classNames(root.SubTypes()))
	leaf, ok := h.Type("app.Leaf")
	require.True(t, ok)
	assert.Same(t, root, leaf.SuperType())
	assert.False(t, h.Contains("app.Helper"))
}

func TestIDMapping(t *testing.T) {
	t.Run("two ids are non aggregated in order", func(t *testing.T) {
		h := buildOne(t, nil,
			load.NewClass("app.Line").
				Annotate(entity, schema.IDClassOf("app.LineKey")).
				Field("order", "long", id).
				Field("note", "String").
				Field("line", "int", id),
		)
		mapping, ok := h.IDMapping().(*NonAggregatedKeyMapping)
		require.True(t, ok, "got %T", h.IDMapping())
		assert.Equal(t, []string{"order", "line"}, attrNames(mapping.Attributes()))
		assert.Equal(t, "app.LineKey", mapping.IDClass)
		assert.Equal(t, NonAggregatedKey, mapping.Kind())
	})

	t.Run("ids across mapped superclass and root", func(t *testing.T) {
		h := buildOne(t, nil,
			load.NewClass("app.Base").Annotate(mapped).Field("tenant", "String", id),
			load.NewClass("app.Item").Extends("app.Base").Annotate(entity).Field("code", "String", id),
		)
		assert.Equal(t, []string{"tenant", "code"}, attrNames(h.IDMapping().Attributes()))
	})

	t.Run("ids below the root are ignored", func(t *testing.T) {
		h := buildOne(t, nil,
			load.NewClass("app.Root").Annotate(entity).Field("id", "long", id),
			load.NewClass("app.Sub").Extends("app.Root").Annotate(entity).Field("other", "long", id),
		)
		_, ok := h.IDMapping().(*BasicKeyMapping)
		assert.True(t, ok)
	})

	t.Run("embedded id is aggregated", func(t *testing.T) {
		h := buildOne(t, nil,
			load.NewClass("app.Key").Annotate(schema.Marker(schema.Embeddable)).Field("a", "int").Field("b", "int"),
			load.NewClass("app.Row").Annotate(entity).Field("key", "app.Key", schema.Marker(schema.EmbeddedID)),
		)
		mapping, ok := h.IDMapping().(*AggregatedKeyMapping)
		require.True(t, ok)
		assert.Equal(t, "key", mapping.Attribute.Name())
		assert.Equal(t, AggregatedKey, mapping.Kind())
	})

	t.Run("plural id fails", func(t *testing.T) {
		err := buildErr(nil,
			load.NewClass("app.Bag").Annotate(entity).Field("ids", "java.util.List", id, schema.Marker(schema.ElementCollection)),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, metamodel.ErrUnexpectedNature)
		var ue *metamodel.UnexpectedNatureError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, "PLURAL", ue.Nature)
		assert.Equal(t, "app.Bag", ue.Hierarchy)
		assert.False(t, ue.NaturalID)
	})

	t.Run("zero ids fail", func(t *testing.T) {
		err := buildErr(nil,
			load.NewClass("app.Base").Annotate(mapped).Field("created", "Instant"),
			load.NewClass("app.Ghost").Extends("app.Base").Annotate(entity).Field("name", "String"),
		)
		require.Error(t, err)
		assert.True(t, metamodel.IsIDMapping(err))
		assert.Contains(t, err.Error(), "unable to determine id attribute(s)")
		assert.Contains(t, err.Error(), "app.Ghost")
	})
}

func TestToOneIDMapping(t *testing.T) {
	hs := buildAll(t, nil,
		load.NewClass("app.Person").Annotate(entity).Field("id", "long", id),
		load.NewClass("app.Passport").
			Annotate(entity, schema.IDClassOf("app.PassportKey")).
			Field("owner", "app.Person", id, schema.Marker(schema.OneToOne)),
	)
	require.Len(t, hs, 2)
	mapping, ok := hs[1].IDMapping().(*NonAggregatedKeyMapping)
	require.True(t, ok, "got %T", hs[1].IDMapping())
	assert.Equal(t, []string{"owner"}, attrNames(mapping.IDAttributes))
	assert.Equal(t, ToOne, mapping.IDAttributes[0].Nature())
	assert.Equal(t, "app.PassportKey", mapping.IDClass)
}

func TestNaturalIDMapping(t *testing.T) {
	natural := schema.Marker(schema.NaturalID)
	tests := []struct {
		name  string
		class *load.ClassDetails
		kind  KeyMappingKind
		attrs []string
	}{
		{
			name:  "basic",
			class: load.NewClass("app.User").Annotate(entity).Field("id", "long", id).Field("email", "String", natural),
			kind:  BasicKey,
			attrs: []string{"email"},
		},
		{
			name: "to one is basic",
			class: load.NewClass("app.User").Annotate(entity).Field("id", "long", id).
				Field("account", "app.Account", natural, schema.Marker(schema.ManyToOne)),
			kind:  BasicKey,
			attrs: []string{"account"},
		},
		{
			name: "embedded is aggregated",
			class: load.NewClass("app.User").Annotate(entity).Field("id", "long", id).
				Field("handle", "app.Handle", natural, schema.Marker(schema.Embedded)),
			kind:  AggregatedKey,
			attrs: []string{"handle"},
		},
		{
			name: "several are non aggregated",
			class: load.NewClass("app.User").Annotate(entity).Field("id", "long", id).
				Field("country", "String", natural).
				Field("ssn", "String", natural),
			kind:  NonAggregatedKey,
			attrs: []string{"country", "ssn"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := buildOne(t, nil, tt.class)
			require.NotNil(t, h.NaturalIDMapping())
			assert.Equal(t, tt.kind, h.NaturalIDMapping().Kind())
			assert.Equal(t, tt.attrs, attrNames(h.NaturalIDMapping().Attributes()))
		})
	}

	t.Run("plural natural id fails", func(t *testing.T) {
		err := buildErr(nil,
			load.NewClass("app.User").Annotate(entity).Field("id", "long", id).
				Field("aliases", "java.util.Set", natural, schema.Marker(schema.ElementCollection)),
		)
		var ue *metamodel.UnexpectedNatureError
		require.ErrorAs(t, err, &ue)
		assert.True(t, ue.NaturalID)
		assert.Contains(t, err.Error(), "natural-id")
	})
}

func TestClosestToAbsoluteRootWins(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := buildOne(t, []Option{WithLogger(logger)},
		load.NewClass("app.Base").
			Annotate(mapped, schema.InheritanceOf(metamodel.Joined), schema.OptimisticLockingOf(metamodel.LockDirty)).
			Field("id", "long", id).
			Field("version", "int", schema.Marker(schema.Version)).
			Field("tenant", "String", schema.Marker(schema.TenantID)),
		load.NewClass("app.Root").
			Extends("app.Base").
			Annotate(entity, schema.InheritanceOf(metamodel.TablePerClass), schema.OptimisticLockingOf(metamodel.LockAll)).
			Field("revision", "int", schema.Marker(schema.Version)).
			Field("zone", "String", schema.Marker(schema.TenantID)),
		load.NewClass("app.Leaf").
			Extends("app.Root").
			Annotate(entity, schema.InheritanceOf(metamodel.SingleTable)),
	)
	assert.Equal(t, metamodel.Joined, h.InheritanceType())
	assert.Equal(t, metamodel.LockDirty, h.OptimisticLockStyle())
	require.NotNil(t, h.VersionAttribute())
	assert.Equal(t, "version", h.VersionAttribute().Name())
	require.NotNil(t, h.TenantIDAttribute())
	assert.Equal(t, "tenant", h.TenantIDAttribute().Name())
	assert.Contains(t, buf.String(), "ignoring @Inheritance on non-root entity")
	assert.Contains(t, buf.String(), "class=app.Leaf")
}

func TestInvalidHierarchyAnnotations(t *testing.T) {
	t.Run("inheritance strategy", func(t *testing.T) {
		err := buildErr(nil,
			load.NewClass("app.Root").Annotate(entity, schema.New(schema.Inheritance, "strategy", "SIDEWAYS")).Field("id", "long", id),
		)
		assert.ErrorIs(t, err, metamodel.ErrInvalidModel)
	})
	t.Run("lock style", func(t *testing.T) {
		err := buildErr(nil,
			load.NewClass("app.Root").Annotate(entity, schema.New(schema.OptimisticLocking, "type", "MAYBE")).Field("id", "long", id),
		)
		assert.ErrorIs(t, err, metamodel.ErrInvalidModel)
	})
	t.Run("cache usage", func(t *testing.T) {
		err := buildErr(nil,
			load.NewClass("app.Root").Annotate(entity, schema.New(schema.Cache, "usage", "SOMETIMES")).Field("id", "long", id),
		)
		assert.ErrorIs(t, err, metamodel.ErrInvalidModel)
	})
}

func TestDefaultAccessType(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		classes []*load.ClassDetails
		want    metamodel.AccessType
		attrs   []string
	}{
		{
			name: "id field",
			classes: []*load.ClassDetails{
				load.NewClass("app.Root").Annotate(entity).Field("id", "long", id).Getter("getName", "String"),
			},
			want:  metamodel.AccessField,
			attrs: []string{"id"},
		},
		{
			name: "id getter",
			classes: []*load.ClassDetails{
				load.NewClass("app.Root").Annotate(entity).Field("cached", "String").Getter("getId", "long", id).Getter("getName", "String"),
			},
			want:  metamodel.AccessProperty,
			attrs: []string{"id", "name"},
		},
		{
			name: "id on mapped superclass",
			classes: []*load.ClassDetails{
				load.NewClass("app.Base").Annotate(mapped).Getter("getId", "long", id),
				load.NewClass("app.Root").Extends("app.Base").Annotate(entity).Getter("getName", "String"),
			},
			want:  metamodel.AccessProperty,
			attrs: []string{"name"},
		},
		{
			name: "explicit access on id is not considered",
			classes: []*load.ClassDetails{
				load.NewClass("app.Root").Annotate(entity).
					Field("name", "String").
					Getter("getId", "long", id, schema.AccessOf(metamodel.AccessProperty)),
			},
			want:  metamodel.AccessUnknown,
			attrs: []string{"id", "name"},
		},
		{
			name: "persistence unit default",
			opts: []Option{WithMappings(&load.Mappings{Defaults: &load.PersistenceUnitDefaults{Access: metamodel.AccessProperty}})},
			classes: []*load.ClassDetails{
				load.NewClass("app.Root").Annotate(entity).
					Field("name", "String").
					Getter("getCode", "String").
					Getter("getId", "long", id, schema.AccessOf(metamodel.AccessProperty)),
			},
			want:  metamodel.AccessProperty,
			attrs: []string{"id", "code"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := buildOne(t, tt.opts, tt.classes...)
			assert.Equal(t, tt.want, h.AccessType())
			assert.Equal(t, tt.attrs, attrNames(h.Root().Attributes()))
		})
	}

	t.Run("strict access type", func(t *testing.T) {
		err := buildErr([]Option{WithStrictAccessType()},
			load.NewClass("app.Root").Annotate(entity).Field("name", "String"),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, metamodel.ErrAccessType)
		assert.Contains(t, err.Error(), "app.Root")
	})

	t.Run("class level access overrides the hierarchy default", func(t *testing.T) {
		h := buildOne(t, nil,
			load.NewClass("app.Base").Annotate(mapped, schema.AccessOf(metamodel.AccessProperty)).Getter("getCreated", "Instant"),
			load.NewClass("app.Root").Extends("app.Base").Annotate(entity).Field("id", "long", id),
		)
		assert.Equal(t, metamodel.AccessField, h.AccessType())
		assert.Equal(t, metamodel.AccessProperty, h.AbsoluteRoot().AccessType())
		assert.Equal(t, []string{"created"}, attrNames(h.AbsoluteRoot().Attributes()))
	})
}

func TestCallbacks(t *testing.T) {
	t.Run("collects one method per event", func(t *testing.T) {
		h := buildOne(t, nil,
			load.NewClass("app.Root").Annotate(entity).
				Field("id", "long", id).
				Callback("beforeSave", nil, schema.Marker(schema.PrePersist)).
				Callback("afterLoad", nil, schema.Marker(schema.PostLoad)),
		)
		l := h.Root().CallbackListener()
		require.NotNil(t, l)
		assert.Equal(t, CallbackStyle, l.Style)
		m, ok := l.Method(PrePersist)
		assert.True(t, ok)
		assert.Equal(t, "beforeSave", m)
		_, ok = l.Method(PreRemove)
		assert.False(t, ok)
		assert.Equal(t, map[CallbackType]string{PrePersist: "beforeSave", PostLoad: "afterLoad"}, l.Methods())
	})

	t.Run("two pre persist methods", func(t *testing.T) {
		err := buildErr(nil,
			load.NewClass("app.Root").Annotate(entity).
				Field("id", "long", id).
				Callback("first", nil, schema.Marker(schema.PrePersist)).
				Callback("second", nil, schema.Marker(schema.PrePersist)),
		)
		require.Error(t, err)
		assert.True(t, metamodel.IsMultipleCallbacks(err))
		var mc *metamodel.MultipleCallbacksError
		require.ErrorAs(t, err, &mc)
		assert.Equal(t, []string{"first", "second"}, mc.Methods)
		assert.Contains(t, err.Error(), "multiple @PrePersist methods")
		assert.Contains(t, err.Error(), "first")
		assert.Contains(t, err.Error(), "second")
	})

	t.Run("callback with parameters", func(t *testing.T) {
		err := buildErr(nil,
			load.NewClass("app.Root").Annotate(entity).
				Field("id", "long", id).
				Callback("onSave", []string{"Object"}, schema.Marker(schema.PrePersist)),
		)
		assert.ErrorIs(t, err, metamodel.ErrInvalidModel)
	})

	t.Run("static callback", func(t *testing.T) {
		c := load.NewClass("app.Root").Annotate(entity).Field("id", "long", id)
		c.AddMethod(&load.Member{Name: "onSave", Type: "void", Static: true, Annotations: schema.Annotations{schema.Marker(schema.PrePersist)}})
		assert.ErrorIs(t, buildErr(nil, c), metamodel.ErrInvalidModel)
	})
}

func TestListenerChain(t *testing.T) {
	prePersist := schema.Marker(schema.PrePersist)
	hs := buildAll(t,
		[]Option{WithDefaultListeners(&load.EntityListener{Class: "app.Audit", Callbacks: map[string]string{"PostLoad": "loaded"}})},
		load.NewClass("app.BaseListener").Callback("onPersist", []string{"Object"}, prePersist),
		load.NewClass("app.RootListener").Callback("onRemove", []string{"Object"}, schema.Marker(schema.PreRemove)),
		load.NewClass("app.Base").
			Annotate(mapped, schema.EntityListenersOf("app.BaseListener")).
			Field("id", "long", id).
			Callback("onBase", nil, schema.Marker(schema.PreUpdate)),
		load.NewClass("app.Root").
			Extends("app.Base").
			Annotate(entity, schema.EntityListenersOf("app.RootListener")).
			Callback("onRoot", nil, prePersist),
		load.NewClass("app.Leaf").
			Extends("app.Root").
			Annotate(entity, schema.Marker(schema.ExcludeSuperclassListeners)).
			Callback("onLeaf", nil, prePersist),
		load.NewClass("app.Quiet").
			Extends("app.Root").
			Annotate(entity, schema.Marker(schema.ExcludeDefaultListeners)),
	)
	require.Len(t, hs, 1)
	h := hs[0]
	chain := func(class string) []string {
		t.Helper()
		ty, ok := h.Type(class)
		require.True(t, ok)
		var out []string
		for _, l := range ty.Listeners() {
			out = append(out, l.String())
		}
		return out
	}
	assert.Equal(t, []string{"LISTENER(app.BaseListener)", "CALLBACK(app.Base)", "LISTENER(app.Audit)"}, chain("app.Base"))
	assert.Equal(t, []string{"LISTENER(app.BaseListener)", "CALLBACK(app.Base)", "LISTENER(app.Audit)", "LISTENER(app.RootListener)", "CALLBACK(app.Root)"}, chain("app.Root"))
	assert.Equal(t, []string{"LISTENER(app.Audit)", "CALLBACK(app.Leaf)"}, chain("app.Leaf"))
	assert.Equal(t, []string{"LISTENER(app.BaseListener)", "CALLBACK(app.Base)", "LISTENER(app.RootListener)", "CALLBACK(app.Root)"}, chain("app.Quiet"))

	audit := h.AbsoluteRoot().Listeners()[2]
	assert.True(t, audit.Default)
	m, ok := audit.Method(PostLoad)
	assert.True(t, ok)
	assert.Equal(t, "loaded", m)

	t.Run("unknown listener class", func(t *testing.T) {
		err := buildErr(nil,
			load.NewClass("app.Root").Annotate(entity, schema.EntityListenersOf("app.Missing")).Field("id", "long", id),
		)
		assert.ErrorIs(t, err, metamodel.ErrInvalidModel)
	})

	t.Run("unknown default listener callback", func(t *testing.T) {
		err := buildErr(
			[]Option{WithDefaultListeners(&load.EntityListener{Class: "app.Audit", Callbacks: map[string]string{"PreFlight": "x"}})},
			load.NewClass("app.Root").Annotate(entity).Field("id", "long", id),
		)
		assert.ErrorIs(t, err, metamodel.ErrInvalidModel)
	})
}

func TestCacheRegions(t *testing.T) {
	root := func(as ...*schema.Annotation) *load.ClassDetails {
		return load.NewClass("app.Root").Annotate(append([]*schema.Annotation{entity}, as...)...).Field("id", "long", id)
	}
	readWrite := schema.CacheOf(metamodel.ReadWrite, "")
	tests := []struct {
		name   string
		mode   metamodel.SharedCacheMode
		class  *load.ClassDetails
		want   CacheRegion
		wantNI NaturalIDCacheRegion
	}{
		{
			name:   "selective with cache",
			class:  root(readWrite),
			want:   CacheRegion{Enabled: true, RegionName: "app.Root", AccessType: metamodel.ReadWrite, CacheLazyProperties: true},
			wantNI: NaturalIDCacheRegion{RegionName: "app.Root##NaturalId"},
		},
		{
			name:   "selective without cache",
			class:  root(),
			want:   CacheRegion{RegionName: "app.Root", AccessType: metamodel.ReadOnly, CacheLazyProperties: true},
			wantNI: NaturalIDCacheRegion{RegionName: "app.Root##NaturalId"},
		},
		{
			name:   "cacheable uses implicit access type",
			mode:   metamodel.CacheEnableSelective,
			class:  root(schema.CacheableOf(true)),
			want:   CacheRegion{Enabled: true, RegionName: "app.Root", AccessType: metamodel.ReadOnly, CacheLazyProperties: true},
			wantNI: NaturalIDCacheRegion{RegionName: "app.Root##NaturalId"},
		},
		{
			name:   "cacheable false wins over cache",
			mode:   metamodel.CacheEnableSelective,
			class:  root(readWrite, schema.CacheableOf(false)),
			want:   CacheRegion{RegionName: "app.Root", AccessType: metamodel.ReadWrite, CacheLazyProperties: true},
			wantNI: NaturalIDCacheRegion{RegionName: "app.Root##NaturalId"},
		},
		{
			name:   "all",
			mode:   metamodel.CacheAll,
			class:  root(),
			want:   CacheRegion{Enabled: true, RegionName: "app.Root", AccessType: metamodel.ReadOnly, CacheLazyProperties: true},
			wantNI: NaturalIDCacheRegion{RegionName: "app.Root##NaturalId"},
		},
		{
			name:   "none",
			mode:   metamodel.CacheNone,
			class:  root(readWrite, schema.CacheableOf(true)),
			want:   CacheRegion{RegionName: "app.Root", AccessType: metamodel.ReadWrite, CacheLazyProperties: true},
			wantNI: NaturalIDCacheRegion{RegionName: "app.Root##NaturalId"},
		},
		{
			name:   "disable selective",
			mode:   metamodel.CacheDisableSelective,
			class:  root(),
			want:   CacheRegion{Enabled: true, RegionName: "app.Root", AccessType: metamodel.ReadOnly, CacheLazyProperties: true},
			wantNI: NaturalIDCacheRegion{RegionName: "app.Root##NaturalId"},
		},
		{
			name:   "disable selective with cacheable false",
			mode:   metamodel.CacheDisableSelective,
			class:  root(schema.CacheableOf(false)),
			want:   CacheRegion{RegionName: "app.Root", AccessType: metamodel.ReadOnly, CacheLazyProperties: true},
			wantNI: NaturalIDCacheRegion{RegionName: "app.Root##NaturalId"},
		},
		{
			name:   "explicit region and non lazy include",
			class:  root(schema.CacheOf(metamodel.Transactional, "pets").Set("include", "non-lazy")),
			want:   CacheRegion{Enabled: true, RegionName: "pets", AccessType: metamodel.Transactional},
			wantNI: NaturalIDCacheRegion{RegionName: "pets##NaturalId"},
		},
		{
			name:   "natural id cache",
			class:  root(readWrite, schema.Marker(schema.NaturalIDCache)),
			want:   CacheRegion{Enabled: true, RegionName: "app.Root", AccessType: metamodel.ReadWrite, CacheLazyProperties: true},
			wantNI: NaturalIDCacheRegion{Enabled: true, RegionName: "app.Root##NaturalId"},
		},
		{
			name:   "natural id cache region",
			class:  root(readWrite, schema.New(schema.NaturalIDCache, "region", "keys")),
			want:   CacheRegion{Enabled: true, RegionName: "app.Root", AccessType: metamodel.ReadWrite, CacheLazyProperties: true},
			wantNI: NaturalIDCacheRegion{Enabled: true, RegionName: "keys"},
		},
		{
			name:   "natural id cache needs entity caching",
			class:  root(schema.Marker(schema.NaturalIDCache)),
			want:   CacheRegion{RegionName: "app.Root", AccessType: metamodel.ReadOnly, CacheLazyProperties: true},
			wantNI: NaturalIDCacheRegion{RegionName: "app.Root##NaturalId"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := buildOne(t, []Option{
				WithSharedCacheMode(tt.mode),
				WithDefaultCacheAccessType(metamodel.ReadOnly),
			}, tt.class)
			assert.Equal(t, tt.want, h.CacheRegion())
			assert.Equal(t, tt.wantNI, h.NaturalIDCacheRegion())
		})
	}

	t.Run("cacheable on an ancestor", func(t *testing.T) {
		h := buildOne(t, nil,
			load.NewClass("app.Base").Annotate(mapped, schema.CacheableOf(true)).Field("id", "long", id),
			load.NewClass("app.Root").Extends("app.Base").Annotate(entity),
		)
		assert.True(t, h.CacheRegion().Enabled)
	})

	t.Run("cache on mapped superclass wins", func(t *testing.T) {
		h := buildOne(t, nil,
			load.NewClass("app.Base").Annotate(mapped, schema.CacheOf(metamodel.ReadOnly, "base")).Field("id", "long", id),
			load.NewClass("app.Root").Extends("app.Base").Annotate(entity, schema.CacheOf(metamodel.ReadWrite, "root")),
		)
		assert.Equal(t, "base", h.CacheRegion().RegionName)
		assert.Equal(t, metamodel.ReadOnly, h.CacheRegion().AccessType)
	})
}

func TestConfigOptions(t *testing.T) {
	model := load.NewRegistry()
	tests := []struct {
		name string
		opt  Option
	}{
		{"nil logger", WithLogger(nil)},
		{"shared cache mode", WithSharedCacheMode(metamodel.SharedCacheMode(42))},
		{"cache access type", WithDefaultCacheAccessType(metamodel.CacheAccessType(42))},
		{"nil listener", WithDefaultListeners(nil)},
		{"unnamed listener", WithDefaultListeners(&load.EntityListener{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEntityHierarchyBuilder(model, tt.opt)
			require.Error(t, err)
			assert.ErrorIs(t, err, metamodel.ErrInvalidConfig)
		})
	}

	t.Run("mappings of the model come first", func(t *testing.T) {
		model := load.NewRegistry()
		model.AddMappings(&load.Mappings{Defaults: &load.PersistenceUnitDefaults{Access: metamodel.AccessField}})
		cfg, err := newConfig(model, WithMappings(nil, &load.Mappings{Defaults: &load.PersistenceUnitDefaults{Access: metamodel.AccessProperty}}))
		require.NoError(t, err)
		require.Len(t, cfg.Mappings, 2)
		assert.Equal(t, metamodel.AccessProperty, cfg.defaultAccess())
	})
}
