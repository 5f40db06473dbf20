package formatter

import (
	"github.com/oakwood-commons/objtree/internal/navigator"
	"github.com/oakwood-commons/objtree/internal/object"
)

// NodeView is a plain snapshot of a subtree for the structured encoders.
type NodeView struct {
	Name       string     `yaml:"name" json:"name" toml:"name"`
	Path       string     `yaml:"path" json:"path" toml:"path"`
	Type       string     `yaml:"type" json:"type" toml:"type"`
	Refs       int32      `yaml:"refs" json:"refs" toml:"refs"`
	ChildCount int        `yaml:"child_count" json:"child_count" toml:"child_count"`
	Children   []NodeView `yaml:"children,omitempty" json:"children,omitempty" toml:"children,omitempty"`
}

// Describe snapshots root and its descendants down to maxDepth levels below
// it (0 = unlimited). ChildCount is always the real count.
func Describe(root *object.Object, maxDepth int) NodeView {
	return describe(root, navigator.CanonicalPath(root), maxDepth, 0)
}

func describe(obj *object.Object, path string, maxDepth, depth int) NodeView {
	children := obj.Children()
	v := NodeView{
		Name:       obj.Name(),
		Path:       path,
		Type:       obj.TypeName(),
		Refs:       obj.RefCount(),
		ChildCount: len(children),
	}
	if maxDepth > 0 && depth >= maxDepth {
		return v
	}
	for _, c := range children {
		v.Children = append(v.Children, describe(c, childPath(path, c.Name()), maxDepth, depth+1))
	}
	return v
}

func childPath(parent, name string) string {
	if parent == navigator.Separator {
		return parent + name
	}
	return parent + navigator.Separator + name
}
