package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	rdebug "runtime/debug"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/objtree/internal/cel"
	"github.com/oakwood-commons/objtree/internal/limiter"
	"github.com/oakwood-commons/objtree/internal/navigator"
	"github.com/oakwood-commons/objtree/internal/object"
	"github.com/oakwood-commons/objtree/pkg/core"
	"github.com/oakwood-commons/objtree/pkg/loader"
	"github.com/oakwood-commons/objtree/pkg/logger"
	"github.com/oakwood-commons/objtree/pkg/settings"
)

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

func usageError(err error) error {
	return &ExitError{Code: 2, Err: err}
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

// buildNamespace creates a namespace, applies the manifest at manifestPath
// when set, then ensures every extra path.
func buildNamespace(manifestPath string, paths []string, lgr logr.Logger) (*core.Namespace, error) {
	ns := core.New(core.WithLogger(lgr))
	if manifestPath != "" {
		m, err := loader.LoadManifestFile(manifestPath, lgr)
		if err != nil {
			return nil, err
		}
		if err := ns.Apply(m); err != nil {
			return nil, fmt.Errorf("apply %s: %w", manifestPath, err)
		}
		lgr.V(1).Info("manifest applied", logger.ManifestKey, manifestPath)
	}
	for _, p := range paths {
		ns.Get(p)
	}
	return ns, nil
}

func manifestTitle(manifestPath string) string {
	if manifestPath == "" {
		return settings.CliBinaryName
	}
	return filepath.Base(manifestPath)
}

// printFiltered writes the canonical path of every node under root matching
// expr, one per line, in walk order, windowed by window.
func printFiltered(w io.Writer, root *object.Object, expr string, window limiter.Config) error {
	ev, err := cel.NewEvaluator()
	if err != nil {
		return err
	}
	f, err := ev.Compile(expr)
	if err != nil {
		return usageError(fmt.Errorf("invalid --filter: %w", err))
	}
	var matchErr error
	var lines []string
	navigator.Walk(root, func(obj *object.Object, _ int) bool {
		if matchErr != nil {
			return false
		}
		ok, err := f.Match(obj)
		if err != nil {
			matchErr = fmt.Errorf("filter %s: %w", navigator.CanonicalPath(obj), err)
			return false
		}
		if ok {
			lines = append(lines, navigator.CanonicalPath(obj))
		}
		return true
	})
	if matchErr != nil {
		return matchErr
	}
	lines = limiter.Apply(window, lines)
	if len(lines) == 0 {
		return nil
	}
	_, err = io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

func buildVersionData() map[string]interface{} {
	version := settings.VersionInformation.BuildVersion
	commit := settings.VersionInformation.Commit
	goVersion := runtime.Version()

	if info, ok := rdebug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" && version == "v0.0.0-nightly" {
			version = info.Main.Version
		}
		if commit == "unknown" {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" && len(s.Value) >= 7 {
					commit = s.Value[:7]
					break
				}
			}
		}
		if info.GoVersion != "" {
			goVersion = info.GoVersion
		}
	}

	return map[string]interface{}{
		"Name":      settings.CliBinaryName,
		"Version":   version,
		"GitCommit": commit,
		"BuildTime": settings.VersionInformation.BuildTime,
		"GoVersion": goVersion,
		"BuildOS":   runtime.GOOS,
		"BuildArch": runtime.GOARCH,
	}
}

func versionString() string {
	data := buildVersionData()
	return fmt.Sprintf("%s %s (go %s)", data["Name"], data["Version"], data["GoVersion"])
}
