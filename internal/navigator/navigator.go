package navigator

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/oakwood-commons/objtree/internal/object"
)

// SortOrder defines how children are ordered when rendered as rows.
type SortOrder string

const (
	SortNone       SortOrder = "none"
	SortAscending  SortOrder = "ascending"
	SortDescending SortOrder = "descending"
)

var currentSortOrder = SortNone

// SetSortOrder updates the global sort order for row rendering and returns the previous value.
func SetSortOrder(order SortOrder) SortOrder {
	prev := currentSortOrder
	switch order {
	case SortAscending, SortDescending, SortNone:
		currentSortOrder = order
	default:
		currentSortOrder = SortNone
	}
	return prev
}

// ParseSortOrder accepts the long and short spellings used on the command line.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "asc", "ascending":
		return SortAscending, nil
	case "desc", "descending":
		return SortDescending, nil
	default:
		return SortNone, fmt.Errorf("invalid sort order %q: valid values are ascending, descending, none", s)
	}
}

// ErrNotFound is matched by every *NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError reports the first component that did not resolve.
type NotFoundError struct {
	// Path is the path being resolved.
	Path string
	// Prefix is the canonical path of the last node reached.
	Prefix string
	// Name is the component that was missing.
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no child %q under %s", e.Path, e.Name, e.Prefix)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NodeAtPath resolves path without creating anything. Absolute paths start at
// the root of from's tree, relative paths at from itself.
func NodeAtPath(from *object.Object, path string) (*object.Object, error) {
	cur := from
	if IsAbsolute(path) {
		cur = Root(from)
	}
	for _, seg := range ParsePath(path) {
		switch s := seg.(type) {
		case Current:
		case Up:
			parent := cur.Parent()
			if parent == nil {
				return nil, fmt.Errorf("%w: %q climbs above the root", ErrInvalidPath, path)
			}
			cur = parent
		case Child:
			child, ok := cur.ResolveChild(s.Name)
			if !ok {
				return nil, &NotFoundError{Path: path, Prefix: CanonicalPath(cur), Name: s.Name}
			}
			cur = child
		}
	}
	return cur, nil
}

// Root returns the topmost ancestor of obj.
func Root(obj *object.Object) *object.Object {
	for {
		parent := obj.Parent()
		if parent == nil {
			return obj
		}
		obj = parent
	}
}

// CanonicalPath returns the absolute path of obj from its topmost ancestor.
func CanonicalPath(obj *object.Object) string {
	var names []string
	for cur := obj; ; {
		parent := cur.Parent()
		if parent == nil {
			break
		}
		names = append(names, cur.Name())
		cur = parent
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return Join(names...)
}

// WalkFunc is called for each node; returning false skips its children.
type WalkFunc func(obj *object.Object, depth int) bool

// Walk visits root and its descendants depth first in child order.
func Walk(root *object.Object, fn WalkFunc) {
	walk(root, 0, fn)
}

func walk(obj *object.Object, depth int, fn WalkFunc) {
	if !fn(obj, depth) {
		return
	}
	for _, child := range obj.Children() {
		walk(child, depth+1, fn)
	}
}

// RowHeader names the columns produced by NodeToRows.
var RowHeader = []string{"NAME", "TYPE", "REFS", "CHILDREN"}

// NodeToRows converts the children of node into table rows, honoring the
// current sort order. A childless node yields a single row for itself.
func NodeToRows(node *object.Object) [][]string {
	children := node.Children()
	if len(children) == 0 {
		return [][]string{nodeRow(".", node)}
	}
	switch currentSortOrder {
	case SortAscending:
		sort.SliceStable(children, func(i, j int) bool { return children[i].Name() < children[j].Name() })
	case SortDescending:
		sort.SliceStable(children, func(i, j int) bool { return children[i].Name() > children[j].Name() })
	case SortNone:
		// insertion order
	}
	rows := make([][]string, 0, len(children))
	for _, c := range children {
		rows = append(rows, nodeRow(c.Name(), c))
	}
	return rows
}

func nodeRow(name string, obj *object.Object) []string {
	return []string{
		name,
		obj.TypeName(),
		strconv.Itoa(int(obj.RefCount())),
		strconv.Itoa(obj.ChildCount()),
	}
}
