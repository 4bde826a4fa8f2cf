// Package schema describes annotation usages of a class model.
//
// An annotation usage is a name plus an attribute map, so class models can
// be declared in Go or decoded from YAML and JSON class descriptors:
//
//	schema.New(schema.Entity, "name", "Pet")
//	schema.Access(metamodel.AccessField)
//	schema.Inheritance(metamodel.Joined)
//
// In YAML, an annotation without attributes may be written as a plain
// string:
//
//	annotations:
//	  - Entity
//	  - name: Cache
//	    attrs: {usage: read-write, region: pets}
//
// Attribute conventions follow the persistence annotations they mirror:
// the single unnamed attribute is stored under "value", repeatable
// containers (FilterDefs, NamedQueries, ...) carry a "value" list of
// attribute maps.
package schema
