package navigator

import (
	"errors"
	"fmt"
	"strings"
)

// Separator delimits path components.
const Separator = "/"

// Segment is one parsed hop of a path.
type Segment interface{ segment() }

// Child names a child of the current node.
type Child struct {
	Name string
}

// Current is ".", the node itself.
type Current struct{}

// Up is "..", the parent of the current node.
type Up struct{}

func (Child) segment()   {}
func (Current) segment() {}
func (Up) segment()      {}

// ErrInvalidPath is wrapped by every path validation error.
var ErrInvalidPath = errors.New("invalid path")

// IsAbsolute reports whether path starts at the root.
func IsAbsolute(path string) bool {
	return strings.HasPrefix(path, Separator)
}

// Split returns the non-empty components of path. "/" and "" have none.
func Split(path string) []string {
	raw := strings.Split(path, Separator)
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// ParsePath parses path into segments. "." and ".." become Current and Up;
// everything else is a Child.
func ParsePath(path string) []Segment {
	parts := Split(path)
	segs := make([]Segment, 0, len(parts))
	for _, p := range parts {
		switch p {
		case ".":
			segs = append(segs, Current{})
		case "..":
			segs = append(segs, Up{})
		default:
			segs = append(segs, Child{Name: p})
		}
	}
	return segs
}

// Validate checks that path is an absolute path naming only children, which
// is what the container builder accepts. Use it on any path that did not
// originate in trusted code.
func Validate(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	if !IsAbsolute(path) {
		return fmt.Errorf("%w: %q must begin with %q", ErrInvalidPath, path, Separator)
	}
	for _, seg := range ParsePath(path) {
		if _, ok := seg.(Child); !ok {
			return fmt.Errorf("%w: %q must not contain '.' or '..' components", ErrInvalidPath, path)
		}
	}
	return nil
}

// Join joins components into an absolute path.
func Join(parts ...string) string {
	return Separator + strings.Join(parts, Separator)
}

// Dir splits an absolute path into its parent path and final component.
// For "/" both the parent and the name are "/" and "".
func Dir(path string) (string, string) {
	parts := Split(path)
	if len(parts) == 0 {
		return Separator, ""
	}
	return Join(parts[:len(parts)-1]...), parts[len(parts)-1]
}
