// Package cmd wires the sprint CLI: the root command runs shell commands
// with fenced output, the watch subcommand reruns a command on file changes.
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grovetools/sprint/cli"
	"github.com/grovetools/sprint/config"
	sprinterrors "github.com/grovetools/sprint/errors"
	"github.com/grovetools/sprint/logging"
	"github.com/grovetools/sprint/shell"
	"github.com/grovetools/sprint/version"
)

// exitCodeError carries a process exit code through cobra's error return.
type exitCodeError struct {
	code int
}

func (e exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// ExitCode maps an error returned by Execute to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if e, ok := err.(exitCodeError); ok {
		return e.code
	}
	return 1
}

// NewRootCmd creates the sprint root command.
func NewRootCmd() *cobra.Command {
	cmd := cli.NewStandardCommand(
		"sprint [command ...]",
		"Run shell commands with fenced output, or watch files and rerun on change",
	)
	cmd.Long = `sprint runs the given commands through a shell, echoing each one inside a
markdown-style code fence and stopping at the first failure. With no
arguments it reads commands interactively from stdin.

Use "sprint watch" to rerun a command whenever watched files change.`
	cmd.Args = cobra.ArbitraryArgs

	cmd.PersistentFlags().StringP("shell", "s", "", `Shell invocation, e.g. "sh -c" (use "none" to run commands directly)`)
	cmd.Flags().StringP("fence", "f", "", "Fence string printed around output")
	cmd.Flags().StringP("info", "i", "", "Info string printed after the opening fence")
	cmd.Flags().StringP("prompt", "p", "", "Prompt string echoed before each command")
	cmd.Flags().Bool("dry-run", false, "Echo commands without running them")

	cli.SetVersionTemplate(cmd, version.GetInfo())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts := cli.GetOptions(cmd)
		handler := cli.NewErrorHandler(opts.Verbose)

		cfg, err := cli.LoadConfig(cmd)
		if err != nil {
			handler.Handle(err)
			return exitCodeError{1}
		}
		logging.SetDefaults(cfg.Logging)

		sh := buildShell(cmd, cfg, opts)

		if len(args) == 0 {
			return runInteractive(sh, handler)
		}
		return runCommands(sh, args, handler)
	}

	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// buildShell assembles the runner from defaults, config file, and flags, in
// increasing precedence.
func buildShell(cmd *cobra.Command, cfg *config.Config, opts cli.CommandOptions) *shell.Shell {
	sh := shell.New()
	sh.Shell = cfg.ShellOrDefault()
	sh.Fence = cfg.FenceOrDefault()
	sh.Info = cfg.InfoOrDefault()
	sh.Prompt = cfg.PromptOrDefault()

	if v, _ := cmd.Flags().GetString("shell"); v != "" {
		sh.Shell = v
	}
	if sh.Shell == "none" {
		sh.Shell = ""
	}
	if v, _ := cmd.Flags().GetString("fence"); v != "" {
		sh.Fence = v
	}
	if v, _ := cmd.Flags().GetString("info"); v != "" {
		sh.Info = v
	}
	if v, _ := cmd.Flags().GetString("prompt"); v != "" {
		sh.Prompt = v
	}
	if v, _ := cmd.Flags().GetBool("dry-run"); v {
		sh.DryRun = true
	}

	sh.SetPrinter(shell.NewStdoutPrinter(opts.NoColor))
	return sh
}

// runCommands runs each argument as one command. The process exits with the
// code of the last command that ran.
func runCommands(sh *shell.Shell, args []string, handler *cli.ErrorHandler) error {
	commands := make([]shell.Command, 0, len(args))
	for _, arg := range args {
		commands = append(commands, shell.NewCommand(arg))
	}

	results, err := sh.Run(commands)
	if err != nil {
		// The fence banner already reported command failures; anything else
		// (spawn or parse errors) still needs a diagnostic.
		code := sprinterrors.GetCode(err)
		if code != sprinterrors.ErrCodeCommandFailed && code != sprinterrors.ErrCodeCommandSignaled {
			handler.Handle(err)
		}
	}

	if sh.DryRun || len(results) == 0 {
		return nil
	}
	last := results[len(results)-1]
	if last.Code == nil {
		return exitCodeError{1}
	}
	if *last.Code != 0 {
		return exitCodeError{*last.Code}
	}
	return nil
}

// runInteractive reads command lines from stdin until EOF. A command exiting
// with an unaccepted code ends the session with that code.
func runInteractive(sh *shell.Shell, handler *cli.ErrorHandler) error {
	printer := sh.Printer()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		printer.Print(printer.Dim(sh.Prompt))
		if !scanner.Scan() {
			// EOF (Ctrl+D) ends the session cleanly.
			printer.Println("")
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		result, err := sh.Exec(shell.NewCommand(line))
		if err != nil {
			handler.Handle(err)
			continue
		}
		if result.Code == nil {
			return exitCodeError{1}
		}
		if !result.Accepted() {
			return exitCodeError{*result.Code}
		}
	}
}
