package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/metamodel/compiler/categorize"
	"github.com/syssam/metamodel/compiler/load"
)

// errNoPaths is returned when neither arguments nor the configuration name
// a class model document.
var errNoPaths = errors.New("metamodel: no model paths; pass them as arguments or set paths in metamodel.yaml")

// app holds the state shared by the commands of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *Config
	log        *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{v: newViper()}
	root := &cobra.Command{
		Use:   "metamodel",
		Short: "Categorize domain models and generate their static metamodel",
		Long: `metamodel loads class descriptors from YAML or JSON documents, sorts the
classes into entity hierarchies, mapped superclasses and embeddables, and
builds on the categorized model: it generates Go metamodel sources, exports
snapshots and renders criteria queries.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	fs := root.PersistentFlags()
	fs.StringVar(&a.configFile, "config", "", "config file (default ./metamodel.yaml)")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.String("shared-cache-mode", "", "shared cache mode: enable-selective, disable-selective, all or none")
	fs.String("default-cache-access", "", "default cache access type: read-only, read-write, nonstrict-read-write or transactional")
	fs.Bool("strict-access", false, "reject conflicting access types instead of warning")
	cobra.CheckErr(bindFlags(a.v, "", fs, "log-level", "shared-cache-mode", "default-cache-access", "strict-access"))

	root.AddCommand(
		a.categorizeCommand(),
		a.generateCommand(),
		a.exportCommand(),
		a.queryCommand(),
	)
	return root
}

// setup loads the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(a.v, a.configFile)
	if err != nil {
		return err
	}
	level, err := cfg.level()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if f := a.v.ConfigFileUsed(); f != "" {
		a.log.Debug("loaded config", "file", f)
	}
	return nil
}

// paths returns the model paths: the arguments, or the configured ones.
func (a *app) paths(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(a.cfg.Paths) > 0 {
		return a.cfg.Paths, nil
	}
	return nil, errNoPaths
}

// process loads and categorizes the class model at paths.
func (a *app) process(paths []string) (*categorize.DomainModel, error) {
	model, err := load.Load(paths...)
	if err != nil {
		return nil, err
	}
	opts, err := a.cfg.categorizeOptions(a.log)
	if err != nil {
		return nil, err
	}
	dm, err := categorize.Process(model, opts...)
	if err != nil {
		return nil, err
	}
	a.log.Info("categorized model",
		"classes", model.Len(),
		"hierarchies", len(dm.Hierarchies()),
		"embeddables", len(dm.Embeddables()),
	)
	return dm, nil
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
