package formatter

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// FormatMarkdown renders a snapshot as a nested bullet list under an
// optional title heading.
func FormatMarkdown(view NodeView, title string) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}
	writeMarkdown(&b, view, 0)
	return b.String()
}

func writeMarkdown(b *strings.Builder, v NodeView, depth int) {
	fmt.Fprintf(b, "%s- `%s` *%s*", strings.Repeat("  ", depth), v.Path, v.Type)
	if v.ChildCount > len(v.Children) {
		fmt.Fprintf(b, " (%d children not shown)", v.ChildCount-len(v.Children))
	}
	b.WriteString("\n")
	for _, c := range v.Children {
		writeMarkdown(b, c, depth+1)
	}
}

// FormatHTML renders the Markdown outline of a snapshot as an HTML fragment.
func FormatHTML(view NodeView, title string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML([]byte(FormatMarkdown(view, title)), p, renderer))
}
