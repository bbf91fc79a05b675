// Package cli implements the submerge command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"submerge/internal/config"
	"submerge/internal/errors"
	"submerge/internal/logging"
	"submerge/internal/pipeline"
	"submerge/internal/ports/adapters/openrouter"
	"submerge/internal/store"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := newRootCommand()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFlag string
	ctx := &commandContext{configFlag: &configFlag}

	root := &cobra.Command{
		Use:           "submerge",
		Short:         "Clean and merge subtitle cues",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Config file path")

	root.AddCommand(newProcessCommand(ctx))
	root.AddCommand(newServeCommand(ctx))
	root.AddCommand(newWatchCommand(ctx))
	root.AddCommand(newPresetsCommand(ctx))
	root.AddCommand(newConfigCommand(ctx))

	return root
}

// commandContext lazily loads the pieces subcommands share: the config file,
// a logger, and the preset store.
type commandContext struct {
	configFlag *string

	cfg     *config.Config
	cfgPath string
}

func (c *commandContext) ensureConfig() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	path := ""
	if c.configFlag != nil {
		path = *c.configFlag
	}
	cfg, resolved, _, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	c.cfg = &cfg
	c.cfgPath = resolved
	return cfg, nil
}

// daemonLogger builds the logger serve and watch run with, honoring the
// config file's [logging] section.
func (c *commandContext) daemonLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Config{
		Format: cfg.Logging.Format,
		Level:  logging.ParseLevel(cfg.Logging.Level),
	}), nil
}

// toolLogger is for interactive commands: console format on stderr, warnings
// and up only, so stdout stays clean for command output.
func (c *commandContext) toolLogger() *slog.Logger {
	return logging.New(logging.Config{Format: "console", Level: slog.LevelWarn})
}

func (c *commandContext) openStore(logger *slog.Logger) (*store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Storage.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return store.Open(cfg.Storage.Dir, logger)
}

// analyzerDeps builds pipeline dependencies for the configured analyzer
// backend. The openrouter key comes from the environment only.
func analyzerDeps(cfg config.Config, logger *slog.Logger) (pipeline.Deps, error) {
	if cfg.Analyzer.Backend != "openrouter" {
		return pipeline.DefaultDeps(logger), nil
	}
	if err := openrouter.ValidateBaseURL(cfg.Analyzer.BaseURL, cfg.Analyzer.AllowedHosts); err != nil {
		return pipeline.Deps{}, errors.Wrap(err, errors.KindConfig, "analyzer")
	}
	key := os.Getenv("OPENROUTER_API_KEY")
	if key == "" {
		return pipeline.Deps{}, errors.Config("OPENROUTER_API_KEY is required for the openrouter analyzer")
	}
	return pipeline.Deps{
		Analyzer: openrouter.New(key, cfg.Analyzer.Model, cfg.Analyzer.BaseURL),
		Logger:   logger,
	}, nil
}
