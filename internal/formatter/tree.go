package formatter

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/objtree/internal/container"
	"github.com/oakwood-commons/objtree/internal/navigator"
	"github.com/oakwood-commons/objtree/internal/object"
)

// TreeOptions controls tree output formatting.
type TreeOptions struct {
	// MaxDepth limits tree depth below the root (0 = unlimited).
	MaxDepth int
	// HideTypes drops the "<type>" suffix.
	HideTypes bool
	// ShowRefs appends the reference count.
	ShowRefs bool
	// NoColor disables styling.
	NoColor bool
}

// FormatAsTree renders root and its descendants as an ASCII tree. The root is
// labelled with its canonical path, every other node with its name.
func FormatAsTree(root *object.Object, opts TreeOptions) string {
	tree := treeprint.NewWithRoot(nodeLabel(navigator.CanonicalPath(root), root, opts))
	buildTree(tree, root, opts, 0)
	return tree.String()
}

func buildTree(branch treeprint.Tree, obj *object.Object, opts TreeOptions, depth int) {
	children := obj.Children()
	if len(children) == 0 {
		return
	}
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		branch.AddNode(fmt.Sprintf("... (%d more)", len(children)))
		return
	}
	for _, c := range children {
		label := nodeLabel(c.Name(), c, opts)
		if c.ChildCount() == 0 {
			branch.AddNode(label)
			continue
		}
		buildTree(branch.AddBranch(label), c, opts, depth+1)
	}
}

func nodeLabel(name string, obj *object.Object, opts TreeOptions) string {
	var b strings.Builder
	if opts.NoColor {
		b.WriteString(name)
	} else {
		b.WriteString(keyStyle.Render(name))
	}
	if !opts.HideTypes {
		kind := "<" + obj.TypeName() + ">"
		if !opts.NoColor {
			if obj.TypeName() == container.TypeName {
				kind = containerStyle.Render(kind)
			} else {
				kind = typeStyle.Render(kind)
			}
		}
		b.WriteString(" " + kind)
	}
	if opts.ShowRefs {
		fmt.Fprintf(&b, " refs=%d", obj.RefCount())
	}
	return b.String()
}
