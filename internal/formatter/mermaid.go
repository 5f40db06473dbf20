package formatter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oakwood-commons/objtree/internal/navigator"
	"github.com/oakwood-commons/objtree/internal/object"
)

// MermaidOptions controls Mermaid diagram output formatting.
type MermaidOptions struct {
	// Direction sets the diagram direction: TD (top-down), LR (left-right),
	// BT (bottom-top), RL (right-left). Default is TD.
	Direction string
	// MaxDepth limits tree depth (0 = unlimited).
	MaxDepth int
	// HideTypes drops the type from node labels.
	HideTypes bool
}

// ValidMermaidDirections lists the accepted directions.
var ValidMermaidDirections = []string{"TD", "LR", "BT", "RL"}

// ValidateMermaidDirection returns an error for an unknown direction.
func ValidateMermaidDirection(dir string) error {
	if dir == "" {
		return nil
	}
	for _, d := range ValidMermaidDirections {
		if strings.EqualFold(dir, d) {
			return nil
		}
	}
	return fmt.Errorf("invalid mermaid direction %q: valid values are %s", dir, strings.Join(ValidMermaidDirections, ", "))
}

type mermaidBuilder struct {
	lines []string
	ids   map[string]int
	opts  MermaidOptions
}

// FormatAsMermaid renders root and its descendants as a Mermaid flowchart.
// Node ids derive from canonical paths, so the same namespace always yields
// the same diagram.
func FormatAsMermaid(root *object.Object, opts MermaidOptions) string {
	if opts.Direction == "" {
		opts.Direction = "TD"
	}
	b := &mermaidBuilder{
		lines: []string{fmt.Sprintf("graph %s", strings.ToUpper(opts.Direction))},
		ids:   make(map[string]int),
		opts:  opts,
	}
	path := navigator.CanonicalPath(root)
	rootID := b.id(path)
	b.addNode(rootID, path, root)
	b.build(rootID, path, root, 0)
	return strings.Join(b.lines, "\n") + "\n"
}

func (b *mermaidBuilder) build(parentID, parentPath string, obj *object.Object, depth int) {
	children := obj.Children()
	if len(children) == 0 {
		return
	}
	if b.opts.MaxDepth > 0 && depth >= b.opts.MaxDepth {
		id := b.id(parentPath + "/...")
		b.lines = append(b.lines, fmt.Sprintf("    %s[%q]", id, "..."))
		b.addEdge(parentID, id)
		return
	}
	for _, c := range children {
		path := childPath(parentPath, c.Name())
		id := b.id(path)
		b.addNode(id, c.Name(), c)
		b.addEdge(parentID, id)
		b.build(id, path, c, depth+1)
	}
}

// id sanitizes path into a Mermaid id, suffixing collisions such as
// "/a-b" and "/a_b".
func (b *mermaidBuilder) id(path string) string {
	base := "n" + SanitizeMermaidID(path)
	n := b.ids[base]
	b.ids[base] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, n)
}

func (b *mermaidBuilder) addNode(id, label string, obj *object.Object) {
	if !b.opts.HideTypes {
		label += " <" + obj.TypeName() + ">"
	}
	label = strings.ReplaceAll(label, `"`, "'")
	b.lines = append(b.lines, fmt.Sprintf("    %s[%q]", id, label))
}

func (b *mermaidBuilder) addEdge(fromID, toID string) {
	b.lines = append(b.lines, fmt.Sprintf("    %s --> %s", fromID, toID))
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// SanitizeMermaidID creates a valid Mermaid node ID from a string.
func SanitizeMermaidID(s string) string {
	return nonAlphanumeric.ReplaceAllString(s, "_")
}
