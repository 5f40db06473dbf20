package cel

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/objtree/internal/container"
	"github.com/oakwood-commons/objtree/internal/object"
)

func namespace(t *testing.T) (*object.Object, *object.Object) {
	t.Helper()
	reg := object.NewRegistry(logr.Discard())
	container.Register(reg)
	reg.Register(object.TypeInfo{Name: "device", Abstract: true})
	reg.Register(object.TypeInfo{Name: "serial", Parent: "device"})

	root := reg.NewInstance(container.TypeName)
	peripheral := container.Get(reg, root, "/machine/peripheral")
	serial := reg.NewInstance("serial")
	peripheral.AddChild("serial0", serial)
	serial.Unref()
	return root, serial
}

func TestNodeVars(t *testing.T) {
	_, serial := namespace(t)
	vars := NodeVars(serial)
	assert.Equal(t, "serial0", vars["name"])
	assert.Equal(t, "/machine/peripheral/serial0", vars["path"])
	assert.Equal(t, "serial", vars["type"])
	assert.Equal(t, []interface{}{"serial", "device", "object"}, vars["types"])
	assert.Equal(t, int64(1), vars["refs"])
	assert.Equal(t, int64(0), vars["children"])
	assert.Equal(t, int64(3), vars["depth"])
	assert.Equal(t, false, vars["container"])
}

func TestMatch(t *testing.T) {
	root, serial := namespace(t)
	e, err := NewEvaluator()
	require.NoError(t, err)

	tests := []struct {
		expr string
		node *object.Object
		want bool
	}{
		{`_.type == "serial"`, serial, true},
		{`"device" in _.types`, serial, true},
		{`_.container`, serial, false},
		{`_.container && _.depth == 0`, root, true},
		{`_.path.startsWith("/machine/")`, serial, true},
		{`_.children > 0`, root, true},
		{`_.name.upperAscii() == "SERIAL0"`, serial, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := e.Match(tt.expr, tt.node)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchErrors(t *testing.T) {
	_, serial := namespace(t)
	e, err := NewEvaluator()
	require.NoError(t, err)

	_, err = e.Match(`_.name +`, serial)
	assert.ErrorContains(t, err, "parse error")

	_, err = e.Match(`_.name`, serial)
	assert.ErrorContains(t, err, "want bool")

	_, err = e.Match(`_.missing == 1`, serial)
	assert.ErrorContains(t, err, "unknown node field(s) missing")
}

func TestReferencedFields(t *testing.T) {
	e, err := NewEvaluator()
	require.NoError(t, err)

	fields, err := ReferencedFields(e.env, `_.type == "serial" && _.types.exists(t, t == "device") || size(_.path) > _.depth`)
	require.NoError(t, err)
	assert.Equal(t, []string{"depth", "path", "type", "types"}, fields)

	fields, err = ReferencedFields(e.env, `[_.name, {"k": _.refs}]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "refs"}, fields)

	_, err = ReferencedFields(e.env, `_.(`)
	assert.Error(t, err)
}

func TestCompiledFilterReuse(t *testing.T) {
	root, serial := namespace(t)
	e, err := NewEvaluator()
	require.NoError(t, err)

	f, err := e.Compile(`_.container`)
	require.NoError(t, err)
	ok, err := f.Match(root)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.Match(serial)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEvaluate(t *testing.T) {
	e, err := NewEvaluator()
	require.NoError(t, err)

	out, err := e.Evaluate(`_.items.map(x, x * 2)`, map[string]interface{}{"items": []interface{}{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(2), int64(4)}, out)

	out, err = e.Evaluate(`{"a": _.n}`, map[string]interface{}{"n": "v"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": "v"}, out)
}
