package object

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// NamedChildLookup is implemented by nodes that can resolve a single path
// component to a child without creating anything.
type NamedChildLookup interface {
	ResolveChild(name string) (*Object, bool)
}

var _ NamedChildLookup = (*Object)(nil)

// Object is a node of the namespace. The zero value is not usable; objects are
// created by Registry.NewInstance.
type Object struct {
	id   uint64
	typ  *Type
	refs atomic.Int32

	// mu guards parent, name and the child table.
	mu       sync.RWMutex
	parent   *Object
	name     string
	children map[string]*Object
	order    []string
}

// ID returns the registry-unique object id.
func (o *Object) ID() uint64 { return o.id }

// Type returns the object's type.
func (o *Object) Type() *Type { return o.typ }

// TypeName returns the name of the object's type.
func (o *Object) TypeName() string { return o.typ.info.Name }

// IsA reports whether the object's type is or descends from typeName.
func (o *Object) IsA(typeName string) bool { return o.typ.IsA(typeName) }

// RefCount returns the current number of references.
func (o *Object) RefCount() int32 { return o.refs.Load() }

// Parent returns the object holding o as a child, or nil.
func (o *Object) Parent() *Object {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.parent
}

// Name returns the child name under the parent, empty when detached.
func (o *Object) Name() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.name
}

func (o *Object) String() string {
	return fmt.Sprintf("%s#%d", o.typ.info.Name, o.id)
}

// Ref takes an additional reference.
func (o *Object) Ref() *Object {
	for {
		n := o.refs.Load()
		if n <= 0 {
			panic(violation("ref", "%s has no live references", o))
		}
		if o.refs.CompareAndSwap(n, n+1) {
			return o
		}
	}
}

// Unref drops a reference. Dropping the last one finalizes the object and
// releases its children.
func (o *Object) Unref() {
	for {
		n := o.refs.Load()
		if n <= 0 {
			panic(violation("unref", "%s released more often than referenced", o))
		}
		if !o.refs.CompareAndSwap(n, n-1) {
			continue
		}
		if n == 1 {
			o.finalize()
		}
		return
	}
}

func (o *Object) finalize() {
	for cur := o.typ; cur != nil; cur = cur.parent {
		if fn := cur.info.InstanceFinalize; fn != nil {
			fn(o)
		}
	}

	o.mu.Lock()
	children := make([]*Object, 0, len(o.order))
	for _, name := range o.order {
		children = append(children, o.children[name])
	}
	o.children = make(map[string]*Object)
	o.order = nil
	o.mu.Unlock()

	for _, child := range children {
		child.detach()
		child.Unref()
	}
}

// AddChild registers child under name and takes a reference to it for the
// link. It panics if name is taken, if child already has a parent, or if the
// link would create a cycle.
func (o *Object) AddChild(name string, child *Object) {
	if name == "" {
		panic(violation("add-child", "child name must not be empty"))
	}
	for a := o; a != nil; a = a.Parent() {
		if a == child {
			panic(violation("add-child", "adding %s under %q would create a cycle", child, name))
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.children[name]; exists {
		panic(violation("add-child", "%s already has a child named %q", o, name))
	}

	child.mu.Lock()
	if child.parent != nil {
		child.mu.Unlock()
		panic(violation("add-child", "%s already has a parent", child))
	}
	if child.refs.Load() <= 0 {
		child.mu.Unlock()
		panic(violation("add-child", "%s has no live references", child))
	}
	child.parent = o
	child.name = name
	child.mu.Unlock()

	child.refs.Add(1)
	o.children[name] = child
	o.order = append(o.order, name)
}

// ResolveChild returns the child registered under name.
func (o *Object) ResolveChild(name string) (*Object, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	child, ok := o.children[name]
	return child, ok
}

// DeleteChild removes the named child link and drops the link's reference.
func (o *Object) DeleteChild(name string) bool {
	o.mu.Lock()
	child, ok := o.children[name]
	if !ok {
		o.mu.Unlock()
		return false
	}
	delete(o.children, name)
	for i, n := range o.order {
		if n == name {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	o.mu.Unlock()

	child.detach()
	child.Unref()
	return true
}

// Unparent removes o from its parent. It is a no-op for detached objects.
func (o *Object) Unparent() {
	o.mu.RLock()
	parent, name := o.parent, o.name
	o.mu.RUnlock()
	if parent != nil {
		parent.DeleteChild(name)
	}
}

// Children returns the children in insertion order.
func (o *Object) Children() []*Object {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]*Object, 0, len(o.order))
	for _, name := range o.order {
		out = append(out, o.children[name])
	}
	return out
}

// ChildCount returns the number of children.
func (o *Object) ChildCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.order)
}

func (o *Object) detach() {
	o.mu.Lock()
	o.parent = nil
	o.name = ""
	o.mu.Unlock()
}
