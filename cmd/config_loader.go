package cmd

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/objtree/internal/config"
	"github.com/oakwood-commons/objtree/pkg/settings"
)

//go:embed default_config.yaml
var defaultConfigYAML []byte

// resolveConfigPath returns the explicit configFile if set, otherwise the XDG path
// ($XDG_CONFIG_HOME/objtree/config.yaml) or ~/.config/objtree/config.yaml if present.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	candidate := ""
	if xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// loadMergedConfig decodes the embedded defaults, then the file at cfgPath
// (if any) over them. Keys absent from the file keep their defaults.
func loadMergedConfig(cfgPath string) (config.CLIConfig, error) {
	var cfg config.CLIConfig
	if err := decodeConfig(defaultConfigYAML, &cfg); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}
	if cfgPath == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return cfg, err
	}
	if err := decodeConfig(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", cfgPath, err)
	}
	return cfg, nil
}

func decodeConfig(data []byte, cfg *config.CLIConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyConfig fills every option whose flag was not set on the command line
// from cfg.
func applyConfig(fs *pflag.FlagSet, cfg config.CLIConfig, o *options) {
	unset := func(name string) bool {
		f := fs.Lookup(name)
		return f == nil || !f.Changed
	}
	if unset("output") && cfg.Output != "" {
		o.output = cfg.Output
	}
	if unset("sort") && cfg.Sort != "" {
		o.sortOrder = cfg.Sort
	}
	if unset("no-color") {
		o.noColor = cfg.NoColor
	}
	if unset("tree-depth") {
		o.treeDepth = cfg.Tree.Depth
	}
	if unset("show-refs") {
		o.showRefs = cfg.Tree.ShowRefs
	}
	if unset("hide-types") {
		o.hideTypes = cfg.Tree.HideTypes
	}
	if unset("mermaid-direction") && cfg.Mermaid.Direction != "" {
		o.mermaidDirection = cfg.Mermaid.Direction
	}
}
