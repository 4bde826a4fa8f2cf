// Package categorize turns a loaded class model into a categorized domain
// model: one EntityHierarchy per root entity, with resolved attribute
// natures, identifier and natural-id key mappings, version and tenant-id
// attributes, lifecycle listener chains and cache regions, plus the
// mapped superclasses, embeddables and global registrations of the model.
//
// A pass is single-threaded and stops at the first error:
//
//	model, err := load.Load("./model")
//	if err != nil {
//		return err
//	}
//	dm, err := categorize.Process(model,
//		categorize.WithSharedCacheMode(metamodel.CacheEnableSelective),
//		categorize.WithLogger(logger),
//	)
//	if err != nil {
//		return err
//	}
//	for _, h := range dm.Hierarchies() {
//		fmt.Println(h.Root().EntityName(), h.IDMapping().Kind())
//	}
//
// Hierarchy-wide annotations (Inheritance, OptimisticLocking, Cache,
// NaturalIdCache, IdClass) are taken from the type closest to the absolute
// root: types are visited from the topmost mapped superclass downwards and
// the first occurrence is kept.
package categorize
