package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"submerge/internal/errors"
	"submerge/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Process subtitle files as they appear in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.daemonLogger()
			if err != nil {
				return err
			}

			dir := cfg.Watch.Dir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return errors.Config("no watch directory: pass one or set watch.dir in the config file")
			}

			deps, err := analyzerDeps(cfg, logger)
			if err != nil {
				return err
			}
			w, err := watch.New(watch.Config{
				Dir:      dir,
				Suffix:   cfg.Watch.OutputSuffix,
				Debounce: time.Duration(cfg.Watch.DebounceMs) * time.Millisecond,
				Options:  cfg.Merge.Options(),
			}, deps, logger)
			if err != nil {
				return err
			}
			defer w.Close()

			sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return w.Run(sigCtx)
		},
	}

	return cmd
}
