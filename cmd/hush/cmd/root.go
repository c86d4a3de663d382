package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/hush/internal/version"
)

// Exit codes
const (
	ExitSuccess     = 0 // No violations (or below fail-level threshold)
	ExitViolations  = 1 // Violations found at or above fail-level
	ExitConfigError = 2 // Config error, or a file whose violations could not be decided
	ExitNoInput     = 3 // Missing or empty violations input
)

// NewApp creates the CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "hush",
		Usage:   "Filter static-analysis violations through suppression rules",
		Version: version.Version(),
		Description: `hush reads the violations a checker reported, loads the files they
point at and drops every violation a configured suppression rule covers:
comment tags, suppression annotations, tree queries, attribute filters and
severity gates.

Examples:
  hush filter violations.json
  checker --json | hush filter -
  hush filter --format sarif --output results.sarif violations.json
  hush tags src/main/java/com/example/Quiet.java`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: debug, info, warn, error",
				Value:   "warn",
				Sources: cli.EnvVars("HUSH_LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			filterCommand(),
			tagsCommand(),
			versionCommand(),
		},
		// Errors are printed by main so the exit code survives.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

// Execute runs the CLI application
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}

// exitError carries an exit code with an optional message.
func exitError(code int, err error) error {
	if err == nil {
		return cli.Exit("", code)
	}
	return cli.Exit("Error: "+err.Error(), code)
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return ExitConfigError
}
