// Package container defines the container type, a placeholder node that only
// occupies a position in the namespace, and the builder that walks a path
// from a root creating missing containers along the way.
package container

import (
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/objtree/internal/object"
)

// TypeName is the registered name of the container type.
const TypeName = "container"

// TypeRegistrar registers type descriptors.
type TypeRegistrar interface {
	Register(info object.TypeInfo) *object.Type
}

// Instantiator creates objects by type name. The caller owns one reference
// to the returned object.
type Instantiator interface {
	NewInstance(typeName string) *object.Object
}

// Register declares the container type with the base object type as parent.
// It must run once per registry, before any path is built.
func Register(reg TypeRegistrar) *object.Type {
	return reg.Register(object.TypeInfo{
		Name:   TypeName,
		Parent: object.TypeObject,
	})
}

// NewChild creates a container and adds it to parent under name. The creation
// reference is dropped once the link holds its own, so the returned object is
// borrowed from parent. A taken name panics.
func NewChild(types Instantiator, parent *object.Object, name string) *object.Object {
	child := types.NewInstance(TypeName)
	parent.AddChild(name, child)
	child.Unref()
	return child
}

// Builder resolves absolute paths, creating containers for every missing
// component.
type Builder struct {
	types Instantiator
	log   logr.Logger
}

// NewBuilder returns a builder creating containers through types.
func NewBuilder(types Instantiator, lgr logr.Logger) *Builder {
	return &Builder{types: types, log: lgr}
}

// Get walks path from root and returns the node it names. Components that do
// not resolve to an existing child are filled with new containers; existing
// nodes of any type are reused as they are. The path must begin with '/';
// anything else is a programming error and panics. Empty components from
// doubled or trailing slashes are skipped, so "/" returns root itself.
func (b *Builder) Get(root *object.Object, path string) *object.Object {
	parts := strings.Split(path, "/")
	if path == "" || parts[0] != "" {
		panic(object.Violation("container-get", "path %q must begin with '/'", path))
	}

	obj := root
	for i, name := range parts[1:] {
		if name == "" {
			continue
		}
		child, ok := obj.ResolveChild(name)
		if !ok {
			child = NewChild(b.types, obj, name)
			b.log.V(1).Info("created container", "path", strings.Join(parts[:i+2], "/"), "name", name)
		}
		obj = child
	}
	return obj
}

// Get is Builder.Get without logging.
func Get(types Instantiator, root *object.Object, path string) *object.Object {
	return NewBuilder(types, logr.Discard()).Get(root, path)
}
