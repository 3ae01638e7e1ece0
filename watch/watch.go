// Package watch implements the watch-mode supervision engine: it turns raw
// filesystem notifications into debounced, content-validated rerun
// decisions, and coordinates killing an in-flight child command before
// restarting it.
//
// Raw OS events flow through PathFilter (drop irrelevant paths), Classifier
// (drop non-content changes), and Debouncer (collapse bursts); each emitted
// trigger either reruns the configured command under the Supervisor or, with
// no command configured, logs a change report.
package watch

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/sprint/config"
	sprinterrors "github.com/grovetools/sprint/errors"
	"github.com/grovetools/sprint/logging"
)

// Options configures a watch session.
type Options struct {
	// Paths are the files or directories to watch. Defaults to ".".
	Paths []string

	// AllowList paths bypass ignore rules.
	AllowList []string

	// Command is the command line rerun on each trigger. Empty selects
	// report-only mode.
	Command string

	// Shell is the shell invocation the command is passed to. Defaults to
	// "sh -c"; set to "none" to run the command directly.
	Shell string

	// Debounce is the quiet period after the last change before a rerun.
	Debounce time.Duration

	// Grace is how long a terminated command gets before being force-killed.
	Grace time.Duration

	// IgnoreFile names the ignore-pattern file, relative to WorkDir.
	IgnoreFile string

	// WorkDir is the root the ignore file is read from and matched against.
	// Defaults to the current working directory.
	WorkDir string

	// Logger overrides the default component logger.
	Logger *logrus.Entry
}

// New builds a Session from the options. The ignore file and allow-list are
// read once here; nothing about the session's configuration changes after
// this point.
func New(opts Options) (*Session, error) {
	if len(opts.Paths) == 0 {
		opts.Paths = []string{"."}
	}
	if opts.Shell == "" {
		opts.Shell = config.DefaultShell
	}
	if opts.Debounce <= 0 {
		opts.Debounce = config.DefaultDebounce
	}
	if opts.Grace <= 0 {
		opts.Grace = config.DefaultGrace
	}
	if opts.IgnoreFile == "" {
		opts.IgnoreFile = config.DefaultIgnore
	}
	if opts.WorkDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, sprinterrors.WatchInit(err)
		}
		opts.WorkDir = cwd
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger("watch")
	}

	roots := make([]WatchPath, 0, len(opts.Paths))
	for _, p := range opts.Paths {
		root, err := NewWatchPath(p)
		if err != nil {
			return nil, sprinterrors.WatchPathInvalid(p, err)
		}
		roots = append(roots, root)
	}

	oracle := NewIgnoreOracle(opts.WorkDir, opts.IgnoreFile, logger)

	filter, err := NewPathFilter(roots, opts.AllowList, oracle)
	if err != nil {
		return nil, sprinterrors.WatchInit(err)
	}

	source, err := NewSource(filter.IgnoredDir, logger)
	if err != nil {
		return nil, sprinterrors.WatchInit(err)
	}
	for _, root := range roots {
		if err := source.Add(root.Path); err != nil {
			source.Close()
			return nil, sprinterrors.WatchPathInvalid(root.Path, err)
		}
	}

	var supervisor *Supervisor
	if opts.Command != "" {
		shellInvocation := opts.Shell
		if shellInvocation == "none" {
			shellInvocation = ""
		}
		supervisor, err = NewSupervisor(shellInvocation, opts.Command, opts.Grace, logger)
		if err != nil {
			source.Close()
			return nil, err
		}
	}

	return &Session{
		source:     source,
		classifier: NewClassifier(filter),
		debouncer:  NewDebouncer(opts.Debounce),
		supervisor: supervisor,
		logger:     logger,
	}, nil
}
