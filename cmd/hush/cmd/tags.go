package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v3"

	"github.com/wharflab/hush/internal/config"
	"github.com/wharflab/hush/internal/discovery"
	"github.com/wharflab/hush/internal/fileval"
	"github.com/wharflab/hush/internal/sourcemap"
	"github.com/wharflab/hush/internal/syntax"
	"github.com/wharflab/hush/internal/tags"
)

func tagsCommand() *cli.Command {
	return &cli.Command{
		Name:      "tags",
		Usage:     "List the suppression tags found in source files",
		ArgsUsage: "FILE|DIR|GLOB...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover from the working directory)",
			},
			&cli.StringFlag{
				Name:  "rule",
				Usage: "Only list tags of the named comment rule",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output tags as JSON",
			},
		},
		Action: runTags,
	}
}

// tagRow is one listed tag.
type tagRow struct {
	File      string `json:"file"`
	Rule      string `json:"rule"`
	Kind      string `json:"kind"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	FirstLine int    `json:"firstLine"`
	// LastLine is -1 for regions that run to the end of file.
	LastLine int    `json:"lastLine"`
	Checks   string `json:"checks,omitempty"`
	Message  string `json:"message,omitempty"`
	ID       string `json:"id,omitempty"`
	Text     string `json:"text"`
}

func runTags(ctx context.Context, cmd *cli.Command) error {
	log := newLogger(cmd)

	if cmd.Args().Len() == 0 {
		return exitError(ExitNoInput, errors.New("no files specified"))
	}

	configPath := cmd.String("config")
	if configPath == "" {
		configPath = config.Discover(".")
	}
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return exitError(ExitConfigError, err)
	}

	engines, err := tagEngines(cfg, cmd.String("rule"))
	if err != nil {
		return exitError(ExitConfigError, err)
	}

	files, err := discovery.Discover(cmd.Args().Slice(), discovery.Options{Exclude: cfg.Processing.Exclude})
	if err != nil {
		return exitError(ExitConfigError, err)
	}
	if len(files) == 0 {
		return exitError(ExitNoInput, errors.New("no source files found"))
	}

	var rows []tagRow
	failed := false
	for _, path := range files {
		found, err := scanFile(ctx, path, cfg.Processing.MaxFileSize, engines)
		if err != nil {
			log.WithField("file", path).WithError(err).Warn("cannot scan file")
			failed = true
			continue
		}
		rows = append(rows, found...)
	}

	w := cmd.Root().Writer
	if cmd.Bool("json") {
		if rows == nil {
			rows = []tagRow{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return exitError(ExitConfigError, err)
		}
	} else {
		printTagTable(w, rows)
	}

	if failed {
		return exitError(ExitConfigError, nil)
	}
	return nil
}

// tagEngines compiles the configured comment rules. Without any, the default
// paired hush:off / hush:on vocabulary is listed.
func tagEngines(cfg *config.Config, only string) ([]*tags.Engine, error) {
	blocks := cfg.Suppress.Comment
	if len(blocks) == 0 {
		blocks = []config.CommentRuleConfig{{Name: "default"}}
	}

	var out []*tags.Engine
	for i, c := range blocks {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("%s[%d]", config.SetComment, i+1)
		}
		if only != "" && name != only {
			continue
		}
		tc, err := config.CommentConfig(name, c)
		if err != nil {
			return nil, err
		}
		e, err := tags.New(tc)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if only != "" && len(out) == 0 {
		return nil, fmt.Errorf("no comment rule named %q", only)
	}
	return out, nil
}

func scanFile(ctx context.Context, path string, maxSize int64, engines []*tags.Engine) ([]tagRow, error) {
	if err := fileval.ValidateFile(path, maxSize); err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tree *syntax.Tree
	if _, ok := syntax.LanguageForPath(path); ok {
		if tree, err = syntax.ParseFile(ctx, path, src); err != nil {
			return nil, err
		}
	}
	text := sourcemap.New(src)

	var rows []tagRow
	for _, e := range engines {
		found, err := e.Scan(tree, text)
		if err != nil {
			return nil, err
		}
		for _, t := range found {
			rows = append(rows, newTagRow(path, e.Config().Name, t))
		}
	}
	return rows, nil
}

func newTagRow(path, rule string, t tags.Tag) tagRow {
	row := tagRow{
		File:      path,
		Rule:      rule,
		Kind:      t.Kind.String(),
		Line:      t.Line,
		Column:    t.Column,
		FirstLine: t.FirstLine,
		LastLine:  t.LastLine,
		Text:      t.Text,
	}
	if t.LastLine == tags.Unbounded {
		row.LastLine = -1
	}
	if t.Check != nil {
		row.Checks = t.Check.String()
	}
	if t.Message != nil {
		row.Message = t.Message.String()
	}
	if t.ID != nil {
		row.ID = t.ID.String()
	}
	return row
}

func printTagTable(w io.Writer, rows []tagRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No suppression tags found.")
		return
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("FILE", "LINE", "RULE", "KIND", "SCOPE", "CHECKS").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range rows {
		t.Row(
			r.File,
			fmt.Sprintf("%d:%d", r.Line, r.Column+1),
			r.Rule,
			r.Kind,
			scopeText(r),
			r.Checks,
		)
	}
	fmt.Fprintln(w, t.Render())
}

func scopeText(r tagRow) string {
	if r.Kind == tags.On.String() {
		return "-"
	}
	last := "EOF"
	if r.LastLine >= 0 {
		last = strconv.Itoa(r.LastLine)
	}
	return fmt.Sprintf("%d-%s", r.FirstLine, last)
}
