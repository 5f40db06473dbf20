// Package core provides the embeddable namespace API: a type registry, a root
// container and the path operations that grow and query the tree below it.
package core

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/objtree/internal/config"
	"github.com/oakwood-commons/objtree/internal/container"
	"github.com/oakwood-commons/objtree/internal/navigator"
	"github.com/oakwood-commons/objtree/internal/object"
	"github.com/oakwood-commons/objtree/pkg/logger"
)

var (
	// ErrExists is returned when a path is already occupied.
	ErrExists = errors.New("already exists")
	// ErrRoot is returned for operations that cannot apply to the root.
	ErrRoot = errors.New("operation not permitted on the root")
	// ErrUnknownType is returned when a type name is not registered or is abstract.
	ErrUnknownType = errors.New("unknown type")
)

// Namespace owns one object tree. It is safe for concurrent use.
type Namespace struct {
	mu      sync.Mutex
	reg     *object.Registry
	root    *object.Object
	builder *container.Builder
	log     logr.Logger
	types   []object.TypeInfo
}

// Option configures a Namespace.
type Option func(*Namespace)

// WithLogger sets the logger. The default discards everything.
func WithLogger(lgr logr.Logger) Option {
	return func(n *Namespace) {
		n.log = lgr
	}
}

// WithTypes registers additional types after the container type, in order.
func WithTypes(types ...object.TypeInfo) Option {
	return func(n *Namespace) {
		n.types = append(n.types, types...)
	}
}

// New creates a namespace whose root is a container.
func New(opts ...Option) *Namespace {
	n := &Namespace{log: logr.Discard()}
	for _, opt := range opts {
		opt(n)
	}
	n.reg = object.NewRegistry(n.log)
	container.Register(n.reg)
	for _, ti := range n.types {
		n.reg.Register(ti)
	}
	n.root = n.reg.NewInstance(container.TypeName)
	n.builder = container.NewBuilder(n.reg, n.log)
	return n
}

// Registry returns the type registry.
func (n *Namespace) Registry() *object.Registry { return n.reg }

// Root returns the root container.
func (n *Namespace) Root() *object.Object { return n.root }

// Get returns the node at path, creating containers for missing components.
// The path must be absolute and name only children; a relative path or a
// "." or ".." component panics.
func (n *Namespace) Get(path string) *object.Object {
	if err := navigator.Validate(path); err != nil {
		panic(object.Violation("namespace-get", "%v", err))
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.builder.Get(n.root, path)
}

// Lookup returns the node at path without creating anything.
func (n *Namespace) Lookup(path string) (*object.Object, error) {
	return navigator.NodeAtPath(n.root, path)
}

// Add creates an object of typeName at path. Missing parents become
// containers. The returned object is borrowed from its parent.
func (n *Namespace) Add(path, typeName string) (*object.Object, error) {
	if err := navigator.Validate(path); err != nil {
		return nil, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.add(path, typeName)
}

func (n *Namespace) add(path, typeName string) (*object.Object, error) {
	dir, name := navigator.Dir(path)
	if name == "" {
		return nil, fmt.Errorf("add %s: %w", path, ErrRoot)
	}
	if err := n.checkInstantiable(typeName); err != nil {
		return nil, fmt.Errorf("add %s: %w", path, err)
	}
	parent := n.builder.Get(n.root, dir)
	if existing, ok := parent.ResolveChild(name); ok {
		return existing, fmt.Errorf("add %s: %w (%s)", path, ErrExists, existing.TypeName())
	}
	obj := n.reg.NewInstance(typeName)
	parent.AddChild(name, obj)
	obj.Unref()
	n.log.V(1).Info("added object", logger.PathKey, path, logger.TypeKey, typeName)
	return obj, nil
}

func (n *Namespace) checkInstantiable(typeName string) error {
	t, ok := n.reg.Lookup(typeName)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownType, typeName)
	}
	if t.Abstract() {
		return fmt.Errorf("%w %q: type is abstract", ErrUnknownType, typeName)
	}
	return nil
}

// Remove detaches the node at path and drops the tree's reference to it.
func (n *Namespace) Remove(path string) error {
	if err := navigator.Validate(path); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	obj, err := navigator.NodeAtPath(n.root, path)
	if err != nil {
		return err
	}
	if obj == n.root {
		return fmt.Errorf("remove %s: %w", path, ErrRoot)
	}
	obj.Unparent()
	n.log.V(1).Info("removed object", logger.PathKey, path)
	return nil
}

// Apply registers the manifest's types, places its objects, then ensures its
// paths. Objects go first so that paths may extend below them. Applying the
// same manifest twice is a no-op. An object already present with a different
// type, or a type redeclared with a different parent, is an error. Work done
// before a failure is kept.
func (n *Namespace) Apply(m *config.Manifest) error {
	if err := m.Validate(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, td := range m.Types {
		if err := n.registerDecl(td); err != nil {
			return err
		}
	}
	for _, od := range m.Objects {
		obj, err := n.add(od.Path, od.Type)
		if errors.Is(err, ErrExists) && obj.TypeName() == od.Type {
			continue
		}
		if err != nil {
			return err
		}
	}
	for _, p := range m.Paths {
		n.builder.Get(n.root, p)
	}
	n.log.V(1).Info("applied manifest", "name", m.Name, "types", len(m.Types), "objects", len(m.Objects), "paths", len(m.Paths))
	return nil
}

func (n *Namespace) registerDecl(td config.TypeDecl) error {
	parent := td.Parent
	if parent == "" {
		parent = object.TypeObject
	}
	if existing, ok := n.reg.Lookup(td.Name); ok {
		if existing.Parent() == nil || existing.Parent().Name() != parent || existing.Abstract() != td.Abstract {
			return fmt.Errorf("type %q: %w with a different definition", td.Name, ErrExists)
		}
		return nil
	}
	if _, ok := n.reg.Lookup(parent); !ok {
		return fmt.Errorf("type %q: parent %w %q", td.Name, ErrUnknownType, parent)
	}
	n.reg.Register(object.TypeInfo{Name: td.Name, Parent: parent, Abstract: td.Abstract})
	return nil
}
