package container

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/objtree/internal/object"
)

// countingRegistry counts instances created through it.
type countingRegistry struct {
	*object.Registry
	created int
}

func (c *countingRegistry) NewInstance(typeName string) *object.Object {
	c.created++
	return c.Registry.NewInstance(typeName)
}

func setup(t *testing.T) (*countingRegistry, *object.Object) {
	t.Helper()
	reg := &countingRegistry{Registry: object.NewRegistry(logr.Discard())}
	Register(reg)
	reg.Register(object.TypeInfo{Name: "device"})
	root := reg.Registry.NewInstance(TypeName)
	return reg, root
}

func childNames(obj *object.Object) []string {
	var names []string
	for _, c := range obj.Children() {
		names = append(names, c.Name())
	}
	return names
}

func TestRegisterDeclaresContainerType(t *testing.T) {
	reg := object.NewRegistry(logr.Discard())
	ty := Register(reg)
	assert.Equal(t, TypeName, ty.Name())
	assert.Equal(t, object.TypeObject, ty.Parent().Name())

	assert.Panics(t, func() { Register(reg) })
}

func TestNewChild(t *testing.T) {
	reg, root := setup(t)
	child := NewChild(reg, root, "peripheral")

	assert.Equal(t, TypeName, child.TypeName())
	assert.Equal(t, "peripheral", child.Name())
	assert.Same(t, root, child.Parent())
	assert.EqualValues(t, 1, child.RefCount(), "only the parent link holds the child")

	got, ok := root.ResolveChild("peripheral")
	require.True(t, ok)
	assert.Same(t, child, got)
}

func TestNewChildDuplicateNamePanics(t *testing.T) {
	reg, root := setup(t)
	first := NewChild(reg, root, "a")

	assert.Panics(t, func() { NewChild(reg, root, "a") })
	got, _ := root.ResolveChild("a")
	assert.Same(t, first, got, "existing child must not be overwritten")
	assert.Equal(t, []string{"a"}, childNames(root))
}

func TestGetRootPath(t *testing.T) {
	reg, root := setup(t)
	assert.Same(t, root, Get(reg, root, "/"))
	assert.Equal(t, 0, root.ChildCount())
	assert.Equal(t, 0, reg.created)
}

func TestGetBuildsChain(t *testing.T) {
	reg, root := setup(t)
	c := Get(reg, root, "/a/b/c")

	require.Equal(t, []string{"a"}, childNames(root))
	a, _ := root.ResolveChild("a")
	require.Equal(t, []string{"b"}, childNames(a))
	b, _ := a.ResolveChild("b")
	require.Equal(t, []string{"c"}, childNames(b))
	got, _ := b.ResolveChild("c")

	assert.Same(t, got, c)
	assert.Empty(t, childNames(c))
	for _, n := range []*object.Object{a, b, c} {
		assert.Equal(t, TypeName, n.TypeName())
		assert.EqualValues(t, 1, n.RefCount())
	}
	assert.Equal(t, 3, reg.created)
}

func TestGetIsIdempotent(t *testing.T) {
	reg, root := setup(t)
	for _, path := range []string{"/a", "/a/b/c", "/x/y"} {
		first := Get(reg, root, path)
		created := reg.created
		second := Get(reg, root, path)
		assert.Same(t, first, second, path)
		assert.Equal(t, created, reg.created, "second resolution of %s created nodes", path)
	}
}

func TestGetReusesExistingObject(t *testing.T) {
	reg, root := setup(t)
	dev := reg.Registry.NewInstance("device")
	root.AddChild("x", dev)
	dev.Unref()

	got := Get(reg, root, "/x")
	assert.Same(t, dev, got)
	assert.Equal(t, "device", got.TypeName())
	assert.Equal(t, 0, reg.created)
}

func TestGetExtendsExistingPrefix(t *testing.T) {
	reg, root := setup(t)
	dev := reg.Registry.NewInstance("device")
	root.AddChild("a", dev)
	dev.Unref()

	b := Get(reg, root, "/a/b")
	assert.Equal(t, 1, reg.created)
	assert.Equal(t, TypeName, b.TypeName())
	assert.Same(t, dev, b.Parent())

	a, _ := root.ResolveChild("a")
	assert.Same(t, dev, a)
	assert.Equal(t, "device", a.TypeName())
	assert.Equal(t, []string{"a"}, childNames(root))
}

func TestGetSkipsEmptyComponents(t *testing.T) {
	reg, root := setup(t)
	ab := Get(reg, root, "/a/b")
	assert.Same(t, ab, Get(reg, root, "/a//b"))
	assert.Same(t, ab, Get(reg, root, "/a/b/"))
	assert.Equal(t, 2, reg.created)
}

func TestGetMalformedPathPanics(t *testing.T) {
	reg, root := setup(t)
	for _, path := range []string{"", "a/b", "relative"} {
		path := path
		t.Run(path, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				v, ok := r.(*object.ContractViolation)
				require.True(t, ok)
				assert.Equal(t, "container-get", v.Op)
			}()
			Get(reg, root, path)
		})
	}
	assert.Equal(t, 0, reg.created)
}

func TestBuilderLogsCreatedContainers(t *testing.T) {
	reg, root := setup(t)
	var lines []string
	lgr := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})

	NewBuilder(reg, lgr).Get(root, "/machine/peripheral")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"path"="/machine"`)
	assert.Contains(t, lines[1], `"path"="/machine/peripheral"`)

	lines = nil
	NewBuilder(reg, lgr).Get(root, "/machine/peripheral")
	assert.Empty(t, lines)
}
