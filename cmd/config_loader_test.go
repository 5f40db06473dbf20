package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMergedConfigDefaults(t *testing.T) {
	cfg, err := loadMergedConfig("")
	require.NoError(t, err)
	assert.Equal(t, "tree", cfg.Output)
	assert.Equal(t, "none", cfg.Sort)
	assert.Equal(t, "TD", cfg.Mermaid.Direction)
}

func TestLoadMergedConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.yaml", "sort: asc\nmermaid:\n  direction: LR\n")
	cfg, err := loadMergedConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "asc", cfg.Sort)
	assert.Equal(t, "LR", cfg.Mermaid.Direction)
	assert.Equal(t, "tree", cfg.Output, "unset keys keep defaults")

	empty := writeFile(t, dir, "empty.yaml", "# nothing here\n")
	_, err = loadMergedConfig(empty)
	assert.NoError(t, err)
}

func TestLoadMergedConfigRejectsUnknownKeys(t *testing.T) {
	p := writeFile(t, t.TempDir(), "config.yaml", "theme: dark\n")
	_, err := loadMergedConfig(p)
	assert.Error(t, err)
}

func TestResolveConfigPath(t *testing.T) {
	assert.Equal(t, "/explicit.yaml", resolveConfigPath("/explicit.yaml"))

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	assert.Empty(t, resolveConfigPath(""))

	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "objtree"), 0o755))
	want := writeFile(t, filepath.Join(xdg, "objtree"), "config.yaml", "output: json\n")
	assert.Equal(t, want, resolveConfigPath(""))
}

func TestApplyConfigRespectsChangedFlags(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--sort", "desc"}))

	cfg, err := loadMergedConfig("")
	require.NoError(t, err)
	cfg.Sort = "asc"
	cfg.Tree.Depth = 3

	o := &options{sortOrder: "desc"}
	applyConfig(cmd.Flags(), cfg, o)
	assert.Equal(t, "desc", o.sortOrder)
	assert.Equal(t, 3, o.treeDepth)

	applyConfig(pflag.NewFlagSet("empty", pflag.ContinueOnError), cfg, o)
	assert.Equal(t, "asc", o.sortOrder)
}
