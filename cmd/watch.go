package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grovetools/sprint/cli"
	"github.com/grovetools/sprint/logging"
	"github.com/grovetools/sprint/watch"
)

// NewWatchCmd creates the watch subcommand.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [command ...]",
		Short: "Rerun a command whenever watched files change",
		Long: `watch monitors the given paths for content changes and reruns the command
after edits settle. A running instance is terminated (then force-killed after
the grace period) before the next run starts.

With no command, watch only reports detected changes.

Paths listed in the ignore file (.gitignore by default) are skipped unless
explicitly allow-listed with --allow.`,
		Args: cobra.ArbitraryArgs,
	}

	cmd.Flags().StringArrayP("watch-path", "w", nil, "File or directory to watch (repeatable; default .)")
	cmd.Flags().StringArrayP("allow", "a", nil, "Path that bypasses ignore rules (repeatable)")
	cmd.Flags().DurationP("debounce", "d", 0, "Quiet period after the last change before rerunning")
	cmd.Flags().Duration("grace", 0, "How long a terminated command gets before being force-killed")
	cmd.Flags().String("ignore-file", "", "Ignore-pattern file read at startup")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts := cli.GetOptions(cmd)
		handler := cli.NewErrorHandler(opts.Verbose)

		cfg, err := cli.LoadConfig(cmd)
		if err != nil {
			handler.Handle(err)
			return exitCodeError{1}
		}
		// Install config defaults before the first logger is created; loggers
		// are cached per component and won't pick the level up later.
		logging.SetDefaults(cfg.Logging)
		logger := cli.GetLogger(cmd, "watch")

		paths, _ := cmd.Flags().GetStringArray("watch-path")
		allow, _ := cmd.Flags().GetStringArray("allow")
		debounce, _ := cmd.Flags().GetDuration("debounce")
		grace, _ := cmd.Flags().GetDuration("grace")
		ignoreFile, _ := cmd.Flags().GetString("ignore-file")
		shellFlag, _ := cmd.Flags().GetString("shell")

		if debounce <= 0 {
			debounce = cfg.Watch.DebounceDuration()
		}
		if grace <= 0 {
			grace = cfg.Watch.GraceDuration()
		}
		if ignoreFile == "" {
			ignoreFile = cfg.Watch.IgnoreFileOrDefault()
		}
		shellInvocation := cfg.ShellOrDefault()
		if shellFlag != "" {
			shellInvocation = shellFlag
		}

		session, err := watch.New(watch.Options{
			Paths:      paths,
			AllowList:  allow,
			Command:    strings.Join(args, " "),
			Shell:      shellInvocation,
			Debounce:   debounce,
			Grace:      grace,
			IgnoreFile: ignoreFile,
			Logger:     logger,
		})
		if err != nil {
			handler.Handle(err)
			return exitCodeError{1}
		}

		if session.Supervising() {
			logger.WithField("debounce", debounce.String()).Info("watching, rerunning on change")
		} else {
			logger.Info("watching, reporting changes only")
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			sig := <-sigCh
			logger.WithField("signal", sig.String()).Info("shutting down")
			cancel()
		}()

		if err := session.Run(ctx); err != nil {
			handler.Handle(err)
			return exitCodeError{1}
		}
		return nil
	}

	return cmd
}
