// Package object implements the object system the namespace is built on:
// a registry of named types with single inheritance, reference-counted
// objects, and child properties that link objects into a tree.
//
// Programmer errors (duplicate registrations, duplicate child names,
// instantiating an unknown type, releasing a dead object) panic with a
// *ContractViolation. Nothing in this package returns an error for them.
package object

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"
)

// TypeObject is the name of the universal base type. Every registered type
// descends from it.
const TypeObject = "object"

// TypeInfo describes a type to register.
type TypeInfo struct {
	// Name must be unique within a registry.
	Name string
	// Parent names an already registered type. Empty means TypeObject.
	Parent string
	// Abstract types can be inherited from but not instantiated.
	Abstract bool
	// InstanceInit runs on every new instance, base type first.
	InstanceInit func(obj *Object)
	// InstanceFinalize runs when the last reference is dropped, most derived
	// type first.
	InstanceFinalize func(obj *Object)
}

// Type is a registered type.
type Type struct {
	info   TypeInfo
	parent *Type
}

// Name returns the registered type name.
func (t *Type) Name() string { return t.info.Name }

// Parent returns the parent type, nil for the base type.
func (t *Type) Parent() *Type { return t.parent }

// Abstract reports whether the type can be instantiated.
func (t *Type) Abstract() bool { return t.info.Abstract }

// IsA reports whether t is the named type or descends from it.
func (t *Type) IsA(name string) bool {
	for cur := t; cur != nil; cur = cur.parent {
		if cur.info.Name == name {
			return true
		}
	}
	return false
}

// Ancestors returns the type chain starting with t and ending with the base type.
func (t *Type) Ancestors() []string {
	var out []string
	for cur := t; cur != nil; cur = cur.parent {
		out = append(out, cur.info.Name)
	}
	return out
}

// Registry holds the registered types and creates instances of them.
type Registry struct {
	mu     sync.RWMutex
	types  map[string]*Type
	nextID atomic.Uint64
	log    logr.Logger
}

// NewRegistry returns a registry holding only the base type.
func NewRegistry(lgr logr.Logger) *Registry {
	r := &Registry{
		types: make(map[string]*Type),
		log:   lgr,
	}
	r.types[TypeObject] = &Type{info: TypeInfo{Name: TypeObject}}
	return r
}

// Register adds a type. It panics if the name is empty or taken, or if the
// parent is not registered.
func (r *Registry) Register(info TypeInfo) *Type {
	if info.Name == "" {
		panic(violation("register", "type name must not be empty"))
	}
	if info.Parent == "" {
		info.Parent = TypeObject
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[info.Name]; exists {
		panic(violation("register", "type %q already registered", info.Name))
	}
	parent, ok := r.types[info.Parent]
	if !ok {
		panic(violation("register", "parent type %q of %q is not registered", info.Parent, info.Name))
	}
	t := &Type{info: info, parent: parent}
	r.types[info.Name] = t
	r.log.V(1).Info("registered type", "type", info.Name, "parent", info.Parent)
	return t
}

// Lookup returns the named type.
func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Types returns all registered types sorted by name.
func (r *Registry) Types() []*Type {
	r.mu.RLock()
	out := make([]*Type, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].info.Name < out[j].info.Name })
	return out
}

// NewInstance creates an object of the named type holding one reference for
// the caller. Unknown and abstract types panic.
func (r *Registry) NewInstance(typeName string) *Object {
	t, ok := r.Lookup(typeName)
	if !ok {
		panic(violation("new", "type %q is not registered", typeName))
	}
	if t.info.Abstract {
		panic(violation("new", "type %q is abstract", typeName))
	}

	obj := &Object{
		id:       r.nextID.Add(1),
		typ:      t,
		children: make(map[string]*Object),
	}
	obj.refs.Store(1)

	chain := make([]*Type, 0, 4)
	for cur := t; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		if fn := chain[i].info.InstanceInit; fn != nil {
			fn(obj)
		}
	}
	return obj
}

// ContractViolation is the panic value for misuse of the object system.
type ContractViolation struct {
	Op  string
	Msg string
}

func (v *ContractViolation) Error() string {
	return fmt.Sprintf("object: %s: %s", v.Op, v.Msg)
}

// Violation builds a ContractViolation for callers outside this package that
// enforce their own preconditions.
func Violation(op, format string, args ...any) *ContractViolation {
	return violation(op, format, args...)
}

func violation(op, format string, args ...any) *ContractViolation {
	return &ContractViolation{Op: op, Msg: fmt.Sprintf(format, args...)}
}
