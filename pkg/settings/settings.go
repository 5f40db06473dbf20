// Package settings provides build metadata, runtime configuration, and
// context helpers used across the objtree CLI and library packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "objtree"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Output formats understood by the CLI.
const (
	OutputTree     = "tree"
	OutputTable    = "table"
	OutputMermaid  = "mermaid"
	OutputYAML     = "yaml"
	OutputJSON     = "json"
	OutputTOML     = "toml"
	OutputMarkdown = "markdown"
	OutputHTML     = "html"
)

// OutputFormats lists every valid output format in help order.
var OutputFormats = []string{
	OutputTree, OutputTable, OutputMermaid, OutputYAML,
	OutputJSON, OutputTOML, OutputMarkdown, OutputHTML,
}

// Run holds configuration settings for a single execution of the application.
type Run struct {
	MinLogLevel  int8
	ManifestPath string
	Output       string
	IsQuiet      bool
	NoColor      bool
	ExitOnError  bool
}

// NewCliParams returns the defaults for a CLI run: info logging, tree output,
// color enabled, and exit on the first error.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Output:      OutputTree,
		IsQuiet:     false,
		NoColor:     false,
		ExitOnError: true,
	}
}

// IsValidOutput reports whether format is one of OutputFormats.
func IsValidOutput(format string) bool {
	for _, f := range OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}
