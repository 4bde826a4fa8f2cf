package gen

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/metamodel/compiler/categorize"
)

// HierarchiesFile is the name of the file indexing the hierarchies.
const HierarchiesFile = "hierarchies.go"

// Generator writes the static metamodel of a categorized domain model: one
// file per entity, mapped superclass and embeddable, and an index of the
// entity hierarchies.
type Generator struct {
	model *categorize.DomainModel
	cfg   *Config
}

// NewGenerator creates a new Generator. WithTarget is required.
//
// Example:
//
//	g, err := gen.NewGenerator(model, gen.WithTarget("internal/zoometa"))
//	if err != nil {
//		return err
//	}
//	err = g.Generate(ctx)
func NewGenerator(model *categorize.DomainModel, opts ...Option) (*Generator, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Generator{model: model, cfg: cfg}, nil
}

// Config returns the resolved configuration.
func (g *Generator) Config() *Config { return g.cfg }

// fileTask is a single file of the run.
type fileTask struct {
	name string
	file *jen.File
}

// Generate renders and writes every file in parallel, bounded by the
// configured number of workers. It returns the written file names, sorted.
func (g *Generator) Generate(ctx context.Context) ([]string, error) {
	tasks, err := g.tasks()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(g.cfg.Target, 0o755); err != nil {
		return nil, NewGenerationError(g.cfg.Target, "create output directory", err)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)
	for _, t := range tasks {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return g.writeFile(t)
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tasks))
	for _, t := range tasks {
		names = append(names, t.name)
	}
	slices.Sort(names)
	return names, nil
}

// types returns every managed type to generate: the types of each
// hierarchy, shared ancestors once, then the embeddables sorted by class
// name.
func (g *Generator) types() []categorize.ManagedType {
	var (
		ts   []categorize.ManagedType
		seen = make(map[string]bool)
	)
	for _, h := range g.model.Hierarchies() {
		for _, t := range h.Types() {
			if seen[t.ClassName()] {
				continue
			}
			seen[t.ClassName()] = true
			if mt, ok := g.model.ManagedType(t.ClassName()); ok {
				ts = append(ts, mt)
			}
		}
	}
	es := g.model.Embeddables()
	for _, name := range slices.Sorted(maps.Keys(es)) {
		ts = append(ts, es[name])
	}
	return ts
}

// tasks builds the files of the run and checks that no two declarations
// share an identifier.
func (g *Generator) tasks() ([]fileTask, error) {
	ns := make(namespace)
	for _, ident := range []string{"Hierarchies", "Inheritance", "IDAttributes"} {
		if err := ns.claim(ident, HierarchiesFile); err != nil {
			return nil, err
		}
	}
	var tasks []fileTask
	files := make(map[string]string)
	for _, t := range g.types() {
		ident := typeIdent(t)
		f, err := g.typeFile(ns, t, ident)
		if err != nil {
			return nil, err
		}
		name := fileName(ident)
		if prev, ok := files[name]; ok || name == HierarchiesFile {
			return nil, &NameConflictError{Ident: name, First: prev, Second: t.ClassName()}
		}
		files[name] = t.ClassName()
		tasks = append(tasks, fileTask{name: name, file: f})
	}
	return append(tasks, fileTask{name: HierarchiesFile, file: g.hierarchiesFile()}), nil
}

func (g *Generator) newFile() *jen.File {
	f := jen.NewFile(g.cfg.Package)
	if g.cfg.Header != "" {
		f.HeaderComment(g.cfg.Header)
	}
	return f
}

// typeFile renders the constants of a managed type.
func (g *Generator) typeFile(ns namespace, t categorize.ManagedType, ident string) (*jen.File, error) {
	owner := t.ClassName()
	consts := []jen.Code{
		jen.Comment(fmt.Sprintf("%sClassName is the class name of the %s.", ident, kindText(t))),
		jen.Id(ident + "ClassName").Op("=").Lit(t.ClassName()),
	}
	claims := []string{ident + "ClassName", ident + "Attributes", ident + "Natures"}
	if it, ok := t.(*categorize.IdentifiableTypeMetadata); ok {
		if it.IsEntity() {
			consts = append(consts,
				jen.Comment(ident+"EntityName is the name the entity is queried by."),
				jen.Id(ident+"EntityName").Op("=").Lit(it.EntityName()),
			)
			claims = append(claims, ident+"EntityName")
		}
		if super := it.SuperType(); super != nil {
			consts = append(consts,
				jen.Comment(ident+"SuperClass is the class name of the super type."),
				jen.Id(ident+"SuperClass").Op("=").Lit(super.ClassName()),
			)
			claims = append(claims, ident+"SuperClass")
		}
	}
	for _, c := range claims {
		if err := ns.claim(c, owner); err != nil {
			return nil, err
		}
	}

	attrs := t.Attributes()
	var (
		attrDefs []jen.Code
		list     []jen.Code
		natures  = jen.Dict{}
	)
	for _, a := range attrs {
		id := attrIdent(ident, a)
		if err := ns.claim(id, owner+"#"+a.Name()); err != nil {
			return nil, err
		}
		attrDefs = append(attrDefs,
			jen.Comment(fmt.Sprintf("%s names the %s attribute %s.", id, natureText(a.Nature()), a.Name())),
			jen.Id(id).Op("=").Lit(a.Name()),
		)
		list = append(list, jen.Id(id))
		natures[jen.Id(id)] = jen.Lit(a.Nature().String())
	}

	f := g.newFile()
	f.Commentf("Static metamodel of the %s %s.", kindText(t), t.ClassName())
	f.Const().Defs(consts...)
	if len(attrDefs) > 0 {
		f.Const().Defs(attrDefs...)
	}
	f.Commentf("%sAttributes lists the attribute names in declaration order.", ident)
	f.Var().Id(ident + "Attributes").Op("=").Index().String().Values(list...)
	f.Commentf("%sNatures maps each attribute name to its nature.", ident)
	f.Var().Id(ident + "Natures").Op("=").Map(jen.String()).String().Values(natures)
	return f, nil
}

// hierarchiesFile renders the index of the entity hierarchies, keyed by
// the class name of each root entity.
func (g *Generator) hierarchiesFile() *jen.File {
	classes, inheritance, ids := jen.Dict{}, jen.Dict{}, jen.Dict{}
	for _, h := range g.model.Hierarchies() {
		root := jen.Lit(h.Root().ClassName())
		var members []jen.Code
		for _, t := range h.Types() {
			members = append(members, jen.Lit(t.ClassName()))
		}
		classes[root] = jen.Values(members...)
		inheritance[root] = jen.Lit(h.InheritanceType().String())
		var keys []jen.Code
		if m := h.IDMapping(); m != nil {
			for _, a := range m.Attributes() {
				keys = append(keys, jen.Lit(a.Name()))
			}
		}
		ids[root] = jen.Values(keys...)
	}
	f := g.newFile()
	f.Comment("Hierarchies maps each root entity to the classes of its hierarchy,")
	f.Comment("absolute root first.")
	f.Var().Id("Hierarchies").Op("=").Map(jen.String()).Index().String().Values(classes)
	f.Comment("Inheritance maps each root entity to its inheritance strategy.")
	f.Var().Id("Inheritance").Op("=").Map(jen.String()).String().Values(inheritance)
	f.Comment("IDAttributes maps each root entity to its identifier attributes.")
	f.Var().Id("IDAttributes").Op("=").Map(jen.String()).Index().String().Values(ids)
	return f
}
