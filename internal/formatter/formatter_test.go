package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/go-logr/logr"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/objtree/internal/container"
	"github.com/oakwood-commons/objtree/internal/object"
)

func sampleTree(t *testing.T) *object.Object {
	t.Helper()
	reg := object.NewRegistry(logr.Discard())
	container.Register(reg)
	reg.Register(object.TypeInfo{Name: "serial"})
	root := reg.NewInstance(container.TypeName)
	machine := container.Get(reg, root, "/machine")
	dev := reg.NewInstance("serial")
	machine.AddChild("uart0", dev)
	dev.Unref()
	container.Get(reg, root, "/machine/peripheral/anon")
	container.Get(reg, root, "/objects")
	return root
}

func TestRenderRowsPlain(t *testing.T) {
	out := RenderRows([]string{"NAME", "TYPE"}, [][]string{{"a", "container"}, {"longer", "serial"}}, true, 0)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "NAME    TYPE", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "──"))
	assert.Equal(t, "a       container", lines[2])
	assert.Equal(t, "longer  serial", lines[3])
}

func TestRenderRowsTruncatesToWidth(t *testing.T) {
	out := RenderRows([]string{"NAME"}, [][]string{{strings.Repeat("x", 50)}}, true, 10)
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 10, line)
	}
}

func TestSetThemeStylesOutput(t *testing.T) {
	SetTheme(Colors{KeyColor: lipgloss.Color("1")})
	t.Cleanup(func() { SetTheme(Colors{}) })

	out := RenderRows([]string{"NAME"}, [][]string{{"a"}}, false, 0)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, FormatAsTree(sampleTree(t), TreeOptions{}), "\x1b[")
}

func TestFormatAsTree(t *testing.T) {
	out := FormatAsTree(sampleTree(t), TreeOptions{NoColor: true})
	assert.True(t, strings.HasPrefix(out, "/ <container>\n"), out)
	assert.Contains(t, out, "├── machine <container>")
	assert.Contains(t, out, "uart0 <serial>")
	assert.Contains(t, out, "└── anon <container>")
	assert.Contains(t, out, "└── objects <container>")
	assert.Less(t, strings.Index(out, "machine"), strings.Index(out, "objects"), "insertion order")
}

func TestFormatAsTreeDepthAndRefs(t *testing.T) {
	out := FormatAsTree(sampleTree(t), TreeOptions{NoColor: true, MaxDepth: 1, HideTypes: true, ShowRefs: true})
	assert.Contains(t, out, "machine refs=1")
	assert.Contains(t, out, "... (2 more)")
	assert.NotContains(t, out, "uart0")
	assert.NotContains(t, out, "<container>")
}

func TestFormatAsMermaid(t *testing.T) {
	out := FormatAsMermaid(sampleTree(t), MermaidOptions{Direction: "lr"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "graph LR", lines[0])
	assert.Contains(t, out, `n_["/ <container>"]`)
	assert.Contains(t, out, `n_machine_uart0["uart0 <serial>"]`)
	assert.Contains(t, out, "n_ --> n_machine")
	assert.Contains(t, out, "n_machine --> n_machine_uart0")

	again := FormatAsMermaid(sampleTree(t), MermaidOptions{Direction: "lr"})
	assert.Equal(t, out, again)
}

func TestMermaidIDCollisions(t *testing.T) {
	b := &mermaidBuilder{ids: map[string]int{}}
	assert.Equal(t, "n_a_b", b.id("/a-b"))
	assert.Equal(t, "n_a_b_1", b.id("/a_b"))
}

func TestValidateMermaidDirection(t *testing.T) {
	assert.NoError(t, ValidateMermaidDirection(""))
	assert.NoError(t, ValidateMermaidDirection("bt"))
	assert.Error(t, ValidateMermaidDirection("up"))
}

func TestDescribe(t *testing.T) {
	view := Describe(sampleTree(t), 0)
	assert.Equal(t, "/", view.Path)
	require.Len(t, view.Children, 2)
	machine := view.Children[0]
	assert.Equal(t, "/machine", machine.Path)
	assert.Equal(t, 2, machine.ChildCount)
	assert.Equal(t, "/machine/uart0", machine.Children[0].Path)
	assert.Equal(t, "serial", machine.Children[0].Type)

	shallow := Describe(sampleTree(t), 1)
	assert.Empty(t, shallow.Children[0].Children)
	assert.Equal(t, 2, shallow.Children[0].ChildCount)
}

func TestStructuredEncoders(t *testing.T) {
	view := Describe(sampleTree(t), 0)

	y, err := FormatYAML(view, YAMLFormatOptions{})
	require.NoError(t, err)
	var fromYAML NodeView
	require.NoError(t, yaml.Unmarshal([]byte(y), &fromYAML))
	assert.Equal(t, view, fromYAML)

	j, err := FormatJSON(view)
	require.NoError(t, err)
	var fromJSON NodeView
	require.NoError(t, json.Unmarshal([]byte(j), &fromJSON))
	assert.Equal(t, view, fromJSON)

	tm, err := FormatTOML(view)
	require.NoError(t, err)
	var fromTOML NodeView
	require.NoError(t, toml.Unmarshal([]byte(tm), &fromTOML))
	assert.Equal(t, view, fromTOML)
}

func TestFormatMarkdownAndHTML(t *testing.T) {
	view := Describe(sampleTree(t), 1)
	md := FormatMarkdown(view, "demo")
	assert.True(t, strings.HasPrefix(md, "# demo\n\n- `/` *container*\n"), md)
	assert.Contains(t, md, "  - `/machine` *container* (2 children not shown)")

	out := FormatHTML(view, "demo")
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<code>/machine</code>")
	assert.Contains(t, out, "<em>container</em>")
}
