package diagnostics

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"vex/colors"
	"vex/internal/source"
)

const (
	STR_MULTIPLIER = "%*d | "
	LINE_POS       = "%s--> %s:%d:%d\n"
)

// SourceCache holds the lines of every file a diagnostic may quote.
// Files are registered up front; nothing is read from disk here.
type SourceCache struct {
	files map[string][]string
}

func NewSourceCache() *SourceCache {
	return &SourceCache{
		files: make(map[string][]string),
	}
}

func (sc *SourceCache) Add(file *source.File) {
	if file == nil {
		return
	}
	sc.files[file.Path] = file.Lines()
}

// GetLine retrieves a 1-based line from a registered file
func (sc *SourceCache) GetLine(filepath string, line int) (string, error) {
	lines, ok := sc.files[filepath]
	if !ok {
		return "", fmt.Errorf("no source registered for %s", filepath)
	}
	if line > 0 && line <= len(lines) {
		return lines[line-1], nil
	}
	return "", fmt.Errorf("line %d out of range", line)
}

// Emitter renders diagnostics in the rustc style
type Emitter struct {
	cache        *SourceCache
	writer       io.Writer
	lineNumWidth int
}

func NewEmitter(w io.Writer, cache *SourceCache) *Emitter {
	if cache == nil {
		cache = NewSourceCache()
	}
	return &Emitter{
		cache:  cache,
		writer: w,
	}
}

func (e *Emitter) Emit(diag *Diagnostic) {
	e.lineNumWidth = e.gutterWidth(diag)

	e.printHeader(diag)

	primary := diag.primary()
	if primary != nil {
		e.printLocation(diag.FilePath, primary.Location)
	}

	// Labels are grouped by line so a primary and a secondary on the same
	// line share one quoted source line.
	byLine := map[int][]Label{}
	for _, label := range diag.Labels {
		if label.Location == nil || label.Location.Start == nil {
			continue
		}
		byLine[label.Location.Start.Line] = append(byLine[label.Location.Start.Line], label)
	}
	lines := make([]int, 0, len(byLine))
	for line := range byLine {
		lines = append(lines, line)
	}
	sort.Ints(lines)

	for i, line := range lines {
		if i > 0 && line-lines[i-1] > 1 {
			colors.GREY.Fprint(e.writer, strings.Repeat(" ", e.lineNumWidth))
			colors.GREY.Fprintln(e.writer, "...")
		}
		if i == 0 || lines[i-1] != line-1 {
			e.printContextLine(diag.FilePath, line-1)
		}
		e.printSourceLine(diag.FilePath, line, byLine[line], diag.Severity)
	}
	if len(lines) > 0 {
		e.printSeparator()
	}

	for _, note := range diag.Notes {
		e.printNote(note)
	}

	if diag.Help != "" {
		e.printHelp(diag.Help)
	}

	fmt.Fprintln(e.writer)
}

func (e *Emitter) gutterWidth(diag *Diagnostic) int {
	maxLine := 0
	for _, label := range diag.Labels {
		if label.Location == nil || label.Location.Start == nil {
			continue
		}
		if label.Location.Start.Line > maxLine {
			maxLine = label.Location.Start.Line
		}
	}
	if maxLine == 0 {
		return 1
	}
	return len(fmt.Sprintf("%d", maxLine))
}

func (e *Emitter) printHeader(diag *Diagnostic) {
	color := e.headerColor(diag.Severity)

	color.Fprint(e.writer, diag.Severity.String())
	if diag.Code != "" {
		fmt.Fprintf(e.writer, "[%s]", diag.Code)
	}
	fmt.Fprint(e.writer, ": ")
	color.Fprintln(e.writer, diag.Message)
}

func (e *Emitter) printLocation(filepath string, loc *source.Location) {
	if loc == nil || loc.Start == nil {
		return
	}
	colors.BLUE.Fprintf(e.writer, LINE_POS, strings.Repeat(" ", e.lineNumWidth), filepath, loc.Start.Line, loc.Start.Column)
	e.printSeparator()
}

func (e *Emitter) printSeparator() {
	fmt.Fprint(e.writer, strings.Repeat(" ", e.lineNumWidth))
	colors.GREY.Fprintln(e.writer, " |")
}

// printContextLine shows the previous line in grey when it has content
func (e *Emitter) printContextLine(filepath string, line int) {
	if line < 1 {
		return
	}
	text, err := e.cache.GetLine(filepath, line)
	if err != nil || strings.TrimSpace(text) == "" {
		return
	}
	colors.GREY.Fprintf(e.writer, STR_MULTIPLIER, e.lineNumWidth, line)
	colors.GREY.Fprintln(e.writer, text)
}

func (e *Emitter) printSourceLine(filepath string, line int, labels []Label, severity Severity) {
	text, err := e.cache.GetLine(filepath, line)
	if err != nil {
		return
	}
	colors.GREY.Fprintf(e.writer, STR_MULTIPLIER, e.lineNumWidth, line)
	fmt.Fprintln(e.writer, text)

	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Location.Start.Column < labels[j].Location.Start.Column
	})

	for _, label := range labels {
		start := label.Location.Start
		end := label.Location.End
		length := 1
		if end != nil && end.Line == start.Line && end.Column > start.Column {
			length = end.Column - start.Column
		} else if end != nil && end.Line > start.Line {
			// Spans running past this line are underlined to its end.
			length = len(text) - (start.Column - 1)
			if length <= 0 {
				length = 1
			}
		}

		color, char := colors.BLUE, "-"
		if label.Style == Primary {
			color = e.getSeverityColor(severity)
			char = "~"
			if length == 1 {
				char = "^"
			}
		}

		fmt.Fprint(e.writer, strings.Repeat(" ", e.lineNumWidth))
		colors.GREY.Fprint(e.writer, " | ")
		fmt.Fprint(e.writer, strings.Repeat(" ", start.Column-1))
		color.Fprint(e.writer, strings.Repeat(char, length))
		if label.Message != "" {
			color.Fprintf(e.writer, " %s", label.Message)
		}
		fmt.Fprintln(e.writer)
	}
}

func (e *Emitter) printNote(note Note) {
	fmt.Fprint(e.writer, strings.Repeat(" ", e.lineNumWidth+1))
	colors.CYAN.Fprint(e.writer, "= note: ")
	fmt.Fprintln(e.writer, note.Message)
}

func (e *Emitter) printHelp(help string) {
	fmt.Fprint(e.writer, strings.Repeat(" ", e.lineNumWidth+1))
	colors.GREEN.Fprint(e.writer, "= help: ")
	fmt.Fprintln(e.writer, help)
}

func (e *Emitter) headerColor(severity Severity) colors.COLOR {
	switch severity {
	case Warning:
		return colors.BOLD_YELLOW
	case Info:
		return colors.BOLD_CYAN
	case Hint:
		return colors.BOLD_PURPLE
	default:
		return colors.BOLD_RED
	}
}

// getSeverityColor returns the underline color for a given severity
func (e *Emitter) getSeverityColor(severity Severity) colors.COLOR {
	switch severity {
	case Warning:
		return colors.YELLOW
	case Info:
		return colors.BLUE
	case Hint:
		return colors.PURPLE
	default:
		return colors.RED
	}
}
