package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/metamodel/compiler/export"
)

func (a *app) exportCommand() *cobra.Command {
	var watchModel bool
	cmd := &cobra.Command{
		Use:   "export [paths...]",
		Short: "Export a snapshot of the categorized model",
		Long: `Export writes a snapshot of the categorized model as JSON, YAML or
MessagePack, or a GraphQL schema describing its types. The output defaults
to standard output; MessagePack needs an output file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := a.paths(args)
			if err != nil {
				return err
			}
			run := func() error { return a.export(cmd, paths) }
			if watchModel {
				return watch(cmd.Context(), a.log, paths, run)
			}
			return run()
		},
	}
	fs := cmd.Flags()
	fs.StringP("format", "f", "json", "output format: json, yaml, msgpack or graphql")
	fs.StringP("output", "o", "-", "output file, - for standard output")
	fs.BoolVarP(&watchModel, "watch", "w", false, "export again when the model changes")
	cobra.CheckErr(bindFlags(a.v, "export", fs, "format", "output"))
	return cmd
}

func (a *app) export(cmd *cobra.Command, paths []string) error {
	c := a.cfg.Export
	f, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	stdout := c.Output == "" || c.Output == "-"
	if f == export.MsgPack && stdout {
		return fmt.Errorf("metamodel: %s output needs --output", f)
	}
	dm, err := a.process(paths)
	if err != nil {
		return err
	}
	s, err := export.NewSnapshot(dm)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.Encode(&buf, s, f); err != nil {
		return err
	}
	if stdout {
		_, err = buf.WriteTo(cmd.OutOrStdout())
		return err
	}
	if err := os.WriteFile(c.Output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("metamodel: write snapshot: %w", err)
	}
	a.log.Info("exported snapshot", "id", s.ID, "format", string(f), "file", c.Output)
	return nil
}
