package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/metamodel/compiler/export"
)

func (a *app) categorizeCommand() *cobra.Command {
	var attributes bool
	cmd := &cobra.Command{
		Use:   "categorize [paths...]",
		Short: "Print the entity hierarchies and embeddables of a model",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := a.paths(args)
			if err != nil {
				return err
			}
			dm, err := a.process(paths)
			if err != nil {
				return err
			}
			s, err := export.NewSnapshot(dm)
			if err != nil {
				return err
			}
			printSummary(cmd, s, attributes)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&attributes, "attributes", "a", false, "list the attributes of every type")
	return cmd
}

func printSummary(cmd *cobra.Command, s *export.Snapshot, attributes bool) {
	for _, h := range s.Hierarchies {
		printf(cmd, "hierarchy %s\n", h.Root)
		printf(cmd, "  inheritance=%s access=%s lock=%s id=%s(%s)",
			h.Inheritance, h.Access, h.OptimisticLock, h.IDKind, strings.Join(h.IDAttributes, ","))
		if len(h.NaturalIDAttributes) > 0 {
			printf(cmd, " natural-id=%s", strings.Join(h.NaturalIDAttributes, ","))
		}
		if h.Version != "" {
			printf(cmd, " version=%s", h.Version)
		}
		if h.TenantID != "" {
			printf(cmd, " tenant-id=%s", h.TenantID)
		}
		if h.Cache != nil {
			printf(cmd, " cache=%s(%s)", h.Cache.Region, h.Cache.AccessType)
		}
		printf(cmd, "\n")
		for _, t := range h.Types {
			printType(cmd, t, attributes)
		}
	}
	for _, t := range s.Embeddables {
		printType(cmd, t, attributes)
	}
}

func printType(cmd *cobra.Command, t *export.Type, attributes bool) {
	printf(cmd, "  %s %s", t.Kind, t.Class)
	if t.Entity != "" {
		printf(cmd, " as %s", t.Entity)
	}
	printf(cmd, "\n")
	if !attributes {
		return
	}
	for _, attr := range t.Attributes {
		typ := attr.Type
		if attr.ElementType != "" {
			typ += "<" + attr.ElementType + ">"
		}
		printf(cmd, "    %s %s %s\n", attr.Name, attr.Nature, typ)
	}
}
