// Package metamodel categorizes an annotated class model into entity
// hierarchies and builds criteria queries against the result.
//
// The root package holds the enumerations and errors shared by the
// subpackages:
//
//   - [schema]: annotation usages attached to classes and members
//   - compiler/load: the class model provider (YAML/JSON class descriptors)
//   - compiler/categorize: hierarchy categorization
//   - compiler/gen: static metamodel source generation
//   - compiler/export: snapshots of a categorized model
//   - criteria: criteria-query builder and JPQL rendering
//
// # Quick Start
//
//	reg, err := load.Load("model/")
//	if err != nil {
//	    return err
//	}
//	dm, err := categorize.Process(reg, categorize.WithSharedCacheMode(metamodel.CacheEnableSelective))
//	if err != nil {
//	    return err
//	}
//	for _, h := range dm.Hierarchies() {
//	    fmt.Println(h.Root().ClassName(), h.InheritanceType())
//	}
package metamodel
