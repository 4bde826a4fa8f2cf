package main

import (
	"github.com/spf13/cobra"

	"github.com/syssam/metamodel/compiler/gen"
)

func (a *app) generateCommand() *cobra.Command {
	var watchModel bool
	cmd := &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Generate the Go static metamodel of a model",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := a.paths(args)
			if err != nil {
				return err
			}
			run := func() error { return a.generate(cmd, paths) }
			if watchModel {
				return watch(cmd.Context(), a.log, paths, run)
			}
			return run()
		},
	}
	fs := cmd.Flags()
	fs.StringP("target", "t", "metamodel", "output directory")
	fs.StringP("package", "p", "", "package name (default: base name of the target)")
	fs.String("header", gen.DefaultHeader, "header comment of generated files")
	fs.Int("workers", 0, "files written in parallel (default: GOMAXPROCS)")
	fs.BoolVarP(&watchModel, "watch", "w", false, "regenerate when the model changes")
	cobra.CheckErr(bindFlags(a.v, "generate", fs, "target", "package", "header", "workers"))
	return cmd
}

func (a *app) generate(cmd *cobra.Command, paths []string) error {
	dm, err := a.process(paths)
	if err != nil {
		return err
	}
	c := a.cfg.Generate
	opts := []gen.Option{gen.WithTarget(c.Target), gen.WithLogger(a.log)}
	if c.Package != "" {
		opts = append(opts, gen.WithPackage(c.Package))
	}
	if c.Header != "" {
		opts = append(opts, gen.WithHeader(c.Header))
	}
	if c.Workers > 0 {
		opts = append(opts, gen.WithWorkers(c.Workers))
	}
	g, err := gen.NewGenerator(dm, opts...)
	if err != nil {
		return err
	}
	files, err := g.Generate(cmd.Context())
	if err != nil {
		return err
	}
	a.log.Info("generated metamodel", "target", c.Target, "files", len(files))
	return nil
}
