// Package formatter renders namespace subtrees as text: ASCII trees, tables,
// Mermaid flowcharts, YAML, JSON, TOML, Markdown and HTML.
package formatter

import (
	"image/color"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	runewidth "github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

var (
	defaultHeaderFG   = lipgloss.Color("12")
	defaultHeaderBG   = lipgloss.Color("236")
	defaultKeyColor   = lipgloss.Color("14")
	defaultTypeColor  = lipgloss.Color("248")
	defaultSeparator  = lipgloss.Color("240")
	defaultContainerC = lipgloss.Color("244")

	headerStyle    lipgloss.Style
	keyStyle       lipgloss.Style
	typeStyle      lipgloss.Style
	containerStyle lipgloss.Style
	separatorStyle lipgloss.Style
)

// Colors controls the rendered colors. Nil fields fall back to defaults
// (ANSI 256 codes).
type Colors struct {
	HeaderFG       color.Color
	HeaderBG       color.Color
	KeyColor       color.Color
	TypeColor      color.Color
	ContainerColor color.Color
	SeparatorColor color.Color
}

func pick(c, fallback color.Color) color.Color {
	if c == nil {
		return fallback
	}
	return c
}

func applyTheme(c Colors) {
	headerStyle = lipgloss.NewStyle().Bold(true).
		Foreground(pick(c.HeaderFG, defaultHeaderFG)).
		Background(pick(c.HeaderBG, defaultHeaderBG))
	keyStyle = lipgloss.NewStyle().Foreground(pick(c.KeyColor, defaultKeyColor))
	typeStyle = lipgloss.NewStyle().Foreground(pick(c.TypeColor, defaultTypeColor))
	containerStyle = lipgloss.NewStyle().Italic(true).Foreground(pick(c.ContainerColor, defaultContainerC))
	separatorStyle = lipgloss.NewStyle().Foreground(pick(c.SeparatorColor, defaultSeparator))
}

// SetTheme overrides the global styles.
func SetTheme(c Colors) {
	applyTheme(c)
}

//nolint:gochecknoinits // initialize default theme for package consumers
func init() {
	applyTheme(Colors{})
}

// TerminalWidth returns the width of stdout, or 120 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 120
	}
	return width
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// RenderRows renders header and rows as an aligned table. Columns size to
// their content; when maxWidth > 0 the last column is truncated to fit.
func RenderRows(header []string, rows [][]string, noColor bool, maxWidth int) string {
	const sep = "  "
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	if maxWidth > 0 && len(widths) > 0 {
		used := 0
		for _, w := range widths[:len(widths)-1] {
			used += w + len(sep)
		}
		last := len(widths) - 1
		if room := maxWidth - used; room > 3 && widths[last] > room {
			widths[last] = room
		}
	}

	var b strings.Builder
	cells := make([]string, len(header))
	for i, h := range header {
		cell := runewidth.FillRight(h, widths[i])
		if !noColor {
			cell = headerStyle.Render(cell)
		}
		cells[i] = cell
	}
	b.WriteString(strings.TrimRight(strings.Join(cells, sep), " ") + "\n")

	total := 0
	for _, w := range widths {
		total += w
	}
	total += len(sep) * (len(widths) - 1)
	line := strings.Repeat("─", total)
	if !noColor {
		line = separatorStyle.Render(line)
	}
	b.WriteString(line + "\n")

	for _, row := range rows {
		for i := range cells {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			cell := runewidth.FillRight(runewidth.Truncate(val, widths[i], "..."), widths[i])
			if !noColor && i == 0 {
				cell = keyStyle.Render(cell)
			}
			cells[i] = cell
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, sep), " ") + "\n")
	}
	return b.String()
}
