package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/metamodel/criteria"
)

// queryFlags describes a criteria query on the command line.
type queryFlags struct {
	entity   string
	alias    string
	selects  []string
	where    []string
	null     []string
	order    []string
	distinct bool
	count    bool
}

func (a *app) queryCommand() *cobra.Command {
	q := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "query [paths...]",
		Short: "Render a criteria query against a model",
		Long: `Query builds a criteria query over an entity of the model, resolving every
attribute path against the categorized types, and prints its JPQL text.

Paths are dot separated attribute names, as in keeper.name. A --where of
the form path=value compares with a literal; a bare path compares with a
named parameter of the same name.`,
		Example: `  metamodel query -e Animal --where name --order -name ./model
  metamodel query -e Dog -s breed --where keeper.id=42 --distinct ./model`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := a.paths(args)
			if err != nil {
				return err
			}
			dm, err := a.process(paths)
			if err != nil {
				return err
			}
			b, err := criteria.NewBuilder(criteria.WithMetamodel(dm), criteria.WithLogger(a.log))
			if err != nil {
				return err
			}
			query, err := q.build(b)
			if err != nil {
				return err
			}
			jpql, err := query.Render()
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", jpql)
			for _, p := range query.Parameters() {
				printf(cmd, "  :%s\n", p.Name)
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&q.entity, "entity", "e", "", "entity name to select from")
	fs.StringVar(&q.alias, "alias", "", "alias of the entity (default: generated)")
	fs.StringSliceVarP(&q.selects, "select", "s", nil, "attribute paths to select (default: the entity)")
	fs.StringArrayVar(&q.where, "where", nil, "restriction: path or path=value")
	fs.StringArrayVar(&q.null, "null", nil, "restriction: path is null")
	fs.StringArrayVar(&q.order, "order", nil, "ordering path, prefixed with - for descending")
	fs.BoolVar(&q.distinct, "distinct", false, "select distinct results")
	fs.BoolVar(&q.count, "count", false, "select the number of results")
	cobra.CheckErr(cmd.MarkFlagRequired("entity"))
	return cmd
}

func (q *queryFlags) build(b *criteria.Builder) (*criteria.Query, error) {
	query := b.CreateQuery().Distinct(q.distinct)
	root := query.From(q.entity)
	if q.alias != "" {
		root.As(q.alias)
	}
	switch {
	case q.count:
		query.Select(b.Count(root))
	case len(q.selects) == 1:
		query.Select(resolve(root, q.selects[0]))
	case len(q.selects) > 1:
		items := make([]criteria.Selection, 0, len(q.selects))
		for _, s := range q.selects {
			items = append(items, resolve(root, s))
		}
		query.Multiselect(items...)
	}
	var preds []criteria.Predicate
	for _, w := range q.where {
		path, value, literal := strings.Cut(w, "=")
		x := resolve(root, path)
		if !literal {
			name := path[strings.LastIndexByte(path, '.')+1:]
			preds = append(preds, b.Equal(x, b.Parameter(name)))
			continue
		}
		preds = append(preds, b.Equal(x, b.Literal(parseValue(value))))
	}
	for _, n := range q.null {
		preds = append(preds, b.IsNull(resolve(root, n)))
	}
	if len(preds) > 0 {
		query.Where(preds...)
	}
	var orders []*criteria.Order
	for _, o := range q.order {
		if path, ok := strings.CutPrefix(o, "-"); ok {
			orders = append(orders, b.Desc(resolve(root, path)))
		} else {
			orders = append(orders, b.Asc(resolve(root, o)))
		}
	}
	if len(orders) > 0 {
		query.OrderBy(orders...)
	}
	if err := query.Err(); err != nil {
		return nil, fmt.Errorf("metamodel: query on %s: %w", q.entity, err)
	}
	return query, nil
}

// resolve walks a dot separated attribute path from root.
func resolve(root *criteria.Root, path string) *criteria.Path {
	names := strings.Split(path, ".")
	p := root.Get(names[0])
	for _, n := range names[1:] {
		p = p.Get(n)
	}
	return p
}

// parseValue types a literal: integers, floats and booleans keep their
// type, anything else is a string.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if v, err := strconv.ParseBool(s); err == nil {
		return v
	}
	return s
}
