package cmd

import (
	"fmt"

	"github.com/oakwood-commons/objtree/internal/formatter"
	"github.com/oakwood-commons/objtree/internal/limiter"
	"github.com/oakwood-commons/objtree/internal/navigator"
	"github.com/oakwood-commons/objtree/internal/object"
	"github.com/oakwood-commons/objtree/pkg/settings"
)

type renderOptions struct {
	output           string
	noColor          bool
	treeDepth        int
	showRefs         bool
	hideTypes        bool
	mermaidDirection string
	title            string
	width            int
	limit            limiter.Config
}

// render formats the subtree at node in the requested output format.
func render(node *object.Object, opts renderOptions) (string, error) {
	switch opts.output {
	case settings.OutputTree:
		return formatter.FormatAsTree(node, formatter.TreeOptions{
			MaxDepth:  opts.treeDepth,
			HideTypes: opts.hideTypes,
			ShowRefs:  opts.showRefs,
			NoColor:   opts.noColor,
		}), nil
	case settings.OutputTable:
		return formatter.RenderRows(navigator.RowHeader, limiter.Apply(opts.limit, navigator.NodeToRows(node)), opts.noColor, opts.width), nil
	case settings.OutputMermaid:
		return formatter.FormatAsMermaid(node, formatter.MermaidOptions{
			Direction: opts.mermaidDirection,
			MaxDepth:  opts.treeDepth,
			HideTypes: opts.hideTypes,
		}), nil
	case settings.OutputYAML:
		return formatter.FormatYAML(formatter.Describe(node, opts.treeDepth), formatter.YAMLFormatOptions{})
	case settings.OutputJSON:
		return formatter.FormatJSON(formatter.Describe(node, opts.treeDepth))
	case settings.OutputTOML:
		return formatter.FormatTOML(formatter.Describe(node, opts.treeDepth))
	case settings.OutputMarkdown:
		return formatter.FormatMarkdown(formatter.Describe(node, opts.treeDepth), opts.title), nil
	case settings.OutputHTML:
		return formatter.FormatHTML(formatter.Describe(node, opts.treeDepth), opts.title), nil
	default:
		return "", usageError(fmt.Errorf("unknown output format %q", opts.output))
	}
}
