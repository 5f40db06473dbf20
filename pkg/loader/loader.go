// Package loader decodes namespace manifests from YAML, JSON, or TOML.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/objtree/internal/config"
)

// Format names a manifest encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ErrEmpty is returned for blank input.
var ErrEmpty = errors.New("empty manifest")

var (
	// TOML section headers: [server], [[types]], ["table name"], [a.b]
	tomlSectionPattern = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	// TOML key = value (YAML uses key: value)
	tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// DetectFormat guesses the encoding of data. JSON starts with '{'; TOML has
// section headers or mostly key = value lines; anything else is YAML.
func DetectFormat(data []byte) Format {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		return FormatJSON
	}
	if isLikelyTOML(trimmed) {
		return FormatTOML
	}
	return FormatYAML
}

func isLikelyTOML(input string) bool {
	sectionCount, keyValueCount, nonEmptyCount := 0, 0, 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++
		if tomlSectionPattern.MatchString(line) {
			sectionCount++
		}
		if tomlKeyValuePattern.MatchString(line) {
			keyValueCount++
		}
	}
	if sectionCount > 0 {
		return true
	}
	return nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2
}

// FormatForPath maps a file extension to a format.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	case ".toml":
		return FormatTOML, true
	default:
		return "", false
	}
}

// LoadManifest decodes data in the detected format and validates the result.
func LoadManifest(data []byte) (*config.Manifest, error) {
	return LoadManifestWithLogger(data, logr.Discard())
}

// LoadManifestWithLogger is LoadManifest recording the detected format.
func LoadManifestWithLogger(data []byte, lgr logr.Logger) (*config.Manifest, error) {
	format := DetectFormat(data)
	lgr.V(1).Info("detected manifest format", "format", string(format))
	return Decode(data, format)
}

// LoadManifestFile reads path and decodes it using the extension, falling
// back to content detection for unknown extensions.
func LoadManifestFile(path string, lgr logr.Logger) (*config.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format, ok := FormatForPath(path)
	if !ok {
		lgr.V(1).Info("unknown manifest extension, detecting format", "manifest", path)
		m, err := LoadManifestWithLogger(data, lgr)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return m, nil
	}
	lgr.V(1).Info("loading manifest", "manifest", path, "format", string(format))
	m, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Decode decodes data as format. Unknown fields are rejected.
func Decode(data []byte, format Format) (*config.Manifest, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, ErrEmpty
	}

	var m config.Manifest
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode json manifest: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode toml manifest: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml manifest: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", format)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &m, nil
}
