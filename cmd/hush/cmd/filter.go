package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wharflab/hush/internal/config"
	"github.com/wharflab/hush/internal/linter"
	"github.com/wharflab/hush/internal/reporter"
	"github.com/wharflab/hush/internal/rules"
	"github.com/wharflab/hush/internal/suppress"
	"github.com/wharflab/hush/internal/version"
)

func filterCommand() *cli.Command {
	return &cli.Command{
		Name:      "filter",
		Usage:     "Drop suppressed violations from a checker report",
		ArgsUsage: "VIOLATIONS.json | -",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover from the working directory)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, sarif, github-actions",
				Sources: cli.EnvVars("HUSH_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path: stdout, stderr, or file path",
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable colored output",
				Sources: cli.EnvVars("NO_COLOR"),
			},
			&cli.BoolFlag{
				Name:  "hide-source",
				Usage: "Hide source code snippets",
			},
			&cli.BoolFlag{
				Name:  "show-suppressed",
				Usage: "List suppressed violations in text output",
			},
			&cli.StringFlag{
				Name:  "fail-level",
				Usage: "Minimum severity to cause non-zero exit: error, warning, info, style, none",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Files processed in parallel (0 = GOMAXPROCS)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Glob pattern of files whose violations are dropped (can be repeated)",
			},
			&cli.StringFlag{
				Name:  "suppressions",
				Usage: "Path to a suppressions file (TOML or YAML)",
			},
		},
		Action: runFilter,
	}
}

func runFilter(ctx context.Context, cmd *cli.Command) error {
	log := newLogger(cmd)

	if cmd.Args().Len() != 1 {
		return exitError(ExitNoInput, errors.New("expected one violations file (or - for stdin)"))
	}
	violations, err := linter.ReadViolationsFile(cmd.Args().First())
	if err != nil {
		if errors.Is(err, linter.ErrNoInput) || errors.Is(err, os.ErrNotExist) {
			return exitError(ExitNoInput, err)
		}
		return exitError(ExitConfigError, err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return exitError(ExitConfigError, err)
	}
	if cfg.ConfigFile != "" {
		log.WithField("file", cfg.ConfigFile).Debug("loaded config")
	}

	engine, err := config.BuildEngine(cfg, log)
	if err != nil {
		return exitError(ExitConfigError, err)
	}

	stop := startProgress(countFiles(violations))
	res, err := linter.Run(ctx, linter.Input{
		Violations: violations,
		Config:     cfg,
		Engine:     engine,
		Logger:     log,
	})
	stop()
	if err != nil {
		return exitError(ExitConfigError, err)
	}

	if err := writeReport(cmd, res, activeSets(engine)); err != nil {
		return exitError(ExitConfigError, err)
	}

	if len(res.Errors) > 0 {
		return exitError(ExitConfigError, nil)
	}
	if code := determineExitCode(res.Violations, cfg.Output.FailLevel); code != ExitSuccess {
		return exitError(code, nil)
	}
	return nil
}

// loadConfig resolves the config file and applies flag overrides on top of
// the file and environment.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	configPath := cmd.String("config")
	if configPath == "" {
		configPath = config.Discover(".")
	}
	return config.LoadWithOverrides(configPath, flagOverrides(cmd))
}

func flagOverrides(cmd *cli.Command) map[string]any {
	output := map[string]any{}
	if cmd.IsSet("format") {
		output["format"] = cmd.String("format")
	}
	if cmd.IsSet("output") {
		output["path"] = cmd.String("output")
	}
	if cmd.Bool("hide-source") {
		output["show-source"] = false
	}
	if cmd.IsSet("show-suppressed") {
		output["show-suppressed"] = cmd.Bool("show-suppressed")
	}
	if cmd.IsSet("fail-level") {
		output["fail-level"] = cmd.String("fail-level")
	}

	processing := map[string]any{}
	if cmd.IsSet("workers") {
		processing["workers"] = cmd.Int("workers")
	}
	if cmd.IsSet("exclude") {
		processing["exclude"] = cmd.StringSlice("exclude")
	}

	overrides := map[string]any{}
	if len(output) > 0 {
		overrides["output"] = output
	}
	if len(processing) > 0 {
		overrides["processing"] = processing
	}
	if cmd.IsSet("suppressions") {
		overrides["suppressions-file"] = map[string]any{"path": cmd.String("suppressions")}
	}
	return overrides
}

func writeReport(cmd *cli.Command, res *linter.Result, sets int) error {
	out := res.Config.Output
	format, err := reporter.ParseFormat(out.Format)
	if err != nil {
		return err
	}

	writer, closeWriter, err := reporter.GetWriter(out.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeWriter(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output: %v\n", err)
		}
	}()

	opts := reporter.Options{
		Format:         format,
		Writer:         writer,
		ShowSource:     out.ShowSource,
		ShowSuppressed: out.ShowSuppressed,
		ToolName:       "hush",
		ToolVersion:    version.RawVersion(),
		ToolURI:        "https://github.com/wharflab/hush",
	}
	if cmd.Bool("no-color") || !isConsole(out.Path) {
		noColor := false
		opts.Color = &noColor
	}

	rep, err := reporter.New(opts)
	if err != nil {
		return fmt.Errorf("failed to create reporter: %w", err)
	}
	return rep.Report(res.Violations, res.Sources, reporter.ReportMetadata{
		FilesScanned: res.Files,
		RuleSets:     sets,
		Suppressed:   res.Suppressed,
		FileErrors:   len(res.Errors),
	})
}

// activeSets counts the rule sets that have at least one rule.
func activeSets(e *suppress.Engine) int {
	n := 0
	for _, s := range e.Sets() {
		if s.Len() > 0 {
			n++
		}
	}
	return n
}

func isConsole(path string) bool {
	switch path {
	case "", "stdout", "stderr":
		return true
	}
	return false
}

// determineExitCode returns the exit code for the surviving violations.
func determineExitCode(violations []rules.Violation, failLevel string) int {
	if failLevel == "none" {
		return ExitSuccess
	}
	threshold, err := rules.ParseSeverity(failLevel)
	if err != nil {
		logrus.Errorf("invalid fail-level %q", failLevel)
		return ExitConfigError
	}
	for _, v := range violations {
		if v.Severity.IsAtLeast(threshold) {
			return ExitViolations
		}
	}
	return ExitSuccess
}
