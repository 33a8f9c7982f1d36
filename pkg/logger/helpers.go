package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Icons and symbols for different log types
const (
	IconSuccess = "✅"
	IconError   = "❌"
	IconWarning = "⚠️"
	IconInfo    = "ℹ️"
	IconConfig  = "⚙️"
	IconTarget  = "🎯"
	IconRadar   = "📡"
	IconFile    = "📄"
	IconRefresh = "🔄"
	IconCheck   = "✓"
	IconCross   = "✗"
	IconDot     = "•"
	IconArrow   = "→"
)

var (
	sectionColor    = color.New(color.FgCyan, color.Bold)
	sectionRule     = color.New(color.FgCyan)
	subSectionColor = color.New(color.FgHiBlack)
	keyColor        = color.New(color.FgCyan)
)

// Success logs a success message with a green checkmark
func Success(args ...interface{}) {
	message := fmt.Sprint(args...)
	defaultLogger.Info(IconSuccess + " " + message)
}

// Successf logs a formatted success message
func Successf(format string, args ...interface{}) {
	Success(fmt.Sprintf(format, args...))
}

// Progress logs a progress message with a refresh icon
func Progress(args ...interface{}) {
	message := fmt.Sprint(args...)
	defaultLogger.Info(IconRefresh + " " + message)
}

// Progressf logs a formatted progress message
func Progressf(format string, args ...interface{}) {
	Progress(fmt.Sprintf(format, args...))
}

func printRule(c *color.Color, rule, title string, titleColor *color.Color) {
	w := Output()
	if colorEnabled() {
		fmt.Fprintln(w, c.Sprint(rule))
		fmt.Fprintln(w, titleColor.Sprint(title))
		fmt.Fprintln(w, c.Sprint(rule))
		return
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, rule)
}

// LogSection creates a visual section separator
func LogSection(title string) {
	printRule(sectionRule, strings.Repeat("=", 50), title, sectionColor)
}

// LogSubSection creates a visual subsection separator
func LogSubSection(title string) {
	printRule(subSectionColor, strings.Repeat("-", 40), title, subSectionColor)
}

// LogList logs a list of items with bullets
func LogList(title string, items []string) {
	Info(title)
	w := Output()
	for _, item := range items {
		fmt.Fprintf(w, "  %s %s\n", IconDot, item)
	}
}

// LogKeyValue logs a key-value pair with nice formatting
func LogKeyValue(key string, value interface{}) {
	w := Output()
	if colorEnabled() {
		fmt.Fprintf(w, "%s %v\n", keyColor.Sprint(key+":"), value)
		return
	}
	fmt.Fprintf(w, "%s: %v\n", key, value)
}

// Table represents a simple table for logging
type Table struct {
	headers []string
	rows    [][]string
	colors  map[int]func(cell string) *color.Color
}

// NewTable creates a new table
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		rows:    [][]string{},
		colors:  make(map[int]func(string) *color.Color),
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(values ...string) {
	t.rows = append(t.rows, values)
}

// ColorColumn colors the cells of a column by their content. Cells are padded
// before coloring so alignment is kept.
func (t *Table) ColorColumn(col int, fn func(cell string) *color.Color) {
	t.colors[col] = fn
}

// Print prints the table to the default output
func (t *Table) Print() {
	t.Fprint(Output())
}

// Fprint prints the table to w
func (t *Table) Fprint(w io.Writer) {
	if len(t.headers) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}

	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	// Print headers
	for i, h := range t.headers {
		fmt.Fprintf(w, "%-*s  ", widths[i], h)
	}
	fmt.Fprintln(w)

	// Print separator
	for i := range t.headers {
		fmt.Fprint(w, strings.Repeat("-", widths[i])+"  ")
	}
	fmt.Fprintln(w)

	// Print rows
	colored := colorEnabled()
	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				continue
			}
			padded := fmt.Sprintf("%-*s", widths[i], cell)
			if fn, ok := t.colors[i]; ok && colored {
				if c := fn(cell); c != nil {
					padded = c.Sprint(padded)
				}
			}
			fmt.Fprint(w, padded+"  ")
		}
		fmt.Fprintln(w)
	}
}
