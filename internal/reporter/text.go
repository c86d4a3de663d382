package reporter

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/wharflab/hush/internal/rules"
)

var (
	// termenv respects NO_COLOR, CLICOLOR_FORCE and terminal detection.
	useColors = termenv.EnvColorProfile() != termenv.Ascii

	ruleCodeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	moduleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	fileLocStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	lineNumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	markerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	suppressedStyle = lipgloss.NewStyle().
			Faint(true)

	summaryStyle = lipgloss.NewStyle().
			Bold(true)

	severityStyles = map[rules.Severity]lipgloss.Style{
		rules.SeverityError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		rules.SeverityWarning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		rules.SeverityInfo:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		rules.SeverityStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245")),
	}
)

// TextOptions configures the text reporter output.
type TextOptions struct {
	// Color enables/disables colored output. Default: auto-detect.
	Color *bool

	// SyntaxHighlight enables syntax highlighting in snippets. The lexer is
	// chosen from the file name.
	SyntaxHighlight bool

	// ShowSource shows source code snippets.
	ShowSource bool

	// ShowSuppressed lists suppressed violations after the kept ones.
	ShowSuppressed bool

	// ChromaStyle is the Chroma style name for syntax highlighting.
	// Default: "monokai" for dark terminals, "github" for light.
	ChromaStyle string
}

// TextReporter formats violations as styled text output.
type TextReporter struct {
	opts      TextOptions
	color     bool
	formatter chroma.Formatter
	style     *chroma.Style
	lexers    map[string]chroma.Lexer
}

// NewTextReporter creates a new text reporter with the given options.
func NewTextReporter(opts TextOptions) *TextReporter {
	r := &TextReporter{opts: opts, color: useColors, lexers: make(map[string]chroma.Lexer)}
	if opts.Color != nil {
		r.color = *opts.Color
	}
	if !r.color || !opts.SyntaxHighlight {
		return r
	}

	styleName := opts.ChromaStyle
	if styleName == "" {
		styleName = "github"
		if lipgloss.HasDarkBackground() {
			styleName = "monokai"
		}
	}
	if r.style = styles.Get(styleName); r.style == nil {
		r.style = styles.Fallback
	}
	if r.formatter = formatters.Get("terminal256"); r.formatter == nil {
		r.formatter = formatters.Fallback
	}
	return r
}

// lexer returns the cached lexer for file, nil when highlighting is off.
func (r *TextReporter) lexer(file string) chroma.Lexer {
	if r.formatter == nil {
		return nil
	}
	if l, ok := r.lexers[file]; ok {
		return l
	}
	l := lexers.Match(file)
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)
	r.lexers[file] = l
	return l
}

func (r *TextReporter) render(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// Print writes violations to the writer in file and line order.
func (r *TextReporter) Print(w io.Writer, violations []rules.Violation, sources map[string][]byte) error {
	for _, v := range SortViolations(violations) {
		if err := r.printViolation(w, v, sources[v.Location.File]); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextReporter) printViolation(w io.Writer, v rules.Violation, source []byte) error {
	sevStyle, ok := severityStyles[v.Severity]
	if !ok {
		sevStyle = severityStyles[rules.SeverityWarning]
	}

	header := fmt.Sprintf("\n%s %s",
		r.render(sevStyle, strings.ToUpper(v.Severity.String())+":"),
		r.render(ruleCodeStyle, v.RuleCode))
	if v.HasModuleID() {
		header += " " + r.render(moduleStyle, "["+v.ModuleID+"]")
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, r.render(messageStyle, v.Message)); err != nil {
		return err
	}

	if !r.opts.ShowSource || v.Location.IsFileLevel() || len(source) == 0 {
		_, err := fmt.Fprintln(w, r.render(fileLocStyle, formatPosition(v)))
		return err
	}
	return r.printSource(w, v, source)
}

// formatPosition renders file:line:col with a 1-based column.
func formatPosition(v rules.Violation) string {
	if v.Location.IsFileLevel() {
		return v.Location.File
	}
	return fmt.Sprintf("%s:%d:%d", v.Location.File, v.Line(), v.Column()+1)
}

func (r *TextReporter) printSource(w io.Writer, v rules.Violation, source []byte) error {
	lines := strings.Split(string(source), "\n")
	loc := v.Location

	start, end := loc.Start.Line, loc.End.Line
	if loc.IsPointLocation() || end < start {
		end = start
	}
	if start < 1 || start > len(lines) {
		_, err := fmt.Fprintln(w, r.render(fileLocStyle, formatPosition(v)))
		return err
	}
	end = min(end, len(lines))

	// Two lines of context around a range, three around a point.
	pad := 2
	if end == start {
		pad = 3
	}
	first, last := max(1, start-pad), min(len(lines), end+pad)

	separator := r.render(separatorStyle, strings.Repeat("─", 20))
	if !r.color {
		separator = strings.Repeat("-", 20)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n%s\n", r.render(fileLocStyle, formatPosition(v)), separator)

	lexer := r.lexer(loc.File)
	for i := first; i <= last; i++ {
		content := strings.TrimSuffix(lines[i-1], "\r")
		if lexer != nil {
			content = r.highlight(lexer, content)
		}
		gutter := fmt.Sprintf(" %3d |", i)
		if r.color {
			gutter = fmt.Sprintf(" %3d │", i)
		}
		marker := "   "
		if i >= start && i <= end {
			marker = r.render(markerStyle, ">>>")
		}
		fmt.Fprintf(&b, "%s %s %s\n", r.render(lineNumStyle, gutter), marker, content)
	}
	b.WriteString(separator + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *TextReporter) highlight(lexer chroma.Lexer, line string) string {
	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}
	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, iterator); err != nil {
		return line
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// PrintSuppressed lists suppressed violations with the rule that dropped
// each one.
func (r *TextReporter) PrintSuppressed(w io.Writer, suppressed []rules.SuppressedViolation) error {
	if len(suppressed) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\n"+r.render(summaryStyle, "Suppressed:")); err != nil {
		return err
	}
	for _, s := range SortSuppressed(suppressed) {
		line := fmt.Sprintf("  %s %s (%s by %s)", formatPosition(s.Violation), s.RuleCode, s.RuleSet, s.Rule)
		if _, err := fmt.Fprintln(w, r.render(suppressedStyle, line)); err != nil {
			return err
		}
	}
	return nil
}

// PrintSummary writes the closing count line.
func (r *TextReporter) PrintSummary(w io.Writer, kept int, metadata ReportMetadata) error {
	if kept == 0 && len(metadata.Suppressed) == 0 && metadata.FileErrors == 0 {
		return nil
	}
	summary := fmt.Sprintf("\n%d %s in %d %s",
		kept, pluralize(kept, "violation", "violations"),
		metadata.FilesScanned, pluralize(metadata.FilesScanned, "file", "files"))
	if n := len(metadata.Suppressed); n > 0 {
		summary += fmt.Sprintf(", %d suppressed", n)
	}
	if metadata.FileErrors > 0 {
		summary += fmt.Sprintf(", %d %s not decided", metadata.FileErrors, pluralize(metadata.FileErrors, "file", "files"))
	}
	_, err := fmt.Fprintln(w, r.render(summaryStyle, summary))
	return err
}

// PrintTextPlain writes violations without any styling (for non-TTY output).
func PrintTextPlain(w io.Writer, violations []rules.Violation, sources map[string][]byte) error {
	noColor := false
	return NewTextReporter(TextOptions{Color: &noColor, ShowSource: true}).Print(w, violations, sources)
}

func pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
