package navigator

import "github.com/oakwood-commons/objtree/internal/object"

// Navigator is the interface for non-creating path resolution.
type Navigator interface {
	NodeAtPath(from *object.Object, path string) (*object.Object, error)
}

// DefaultNavigator returns the built-in navigator.
func DefaultNavigator() Navigator {
	return defaultNavigator{}
}

type defaultNavigator struct{}

func (defaultNavigator) NodeAtPath(from *object.Object, path string) (*object.Object, error) {
	return NodeAtPath(from, path)
}
