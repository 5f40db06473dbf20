package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/objtree/internal/formatter"
	"github.com/oakwood-commons/objtree/internal/limiter"
	"github.com/oakwood-commons/objtree/internal/navigator"
	"github.com/oakwood-commons/objtree/pkg/logger"
	"github.com/oakwood-commons/objtree/pkg/settings"
)

// options holds the flag values of one command tree.
type options struct {
	paths            []string
	lookup           string
	output           string
	filter           string
	sortOrder        string
	treeDepth        int
	showRefs         bool
	hideTypes        bool
	mermaidDirection string
	noColor          bool
	debug            bool
	configFile       string
	limit            limiter.Config
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   settings.CliBinaryName + " [manifest]",
		Short: "Build and inspect a hierarchical object namespace",
		Long: `objtree builds an object namespace from a manifest (YAML, JSON or TOML),
creating container objects for every missing path component, and renders the
resulting tree.

Without a manifest the namespace holds only the root container; use --path
to grow it.`,
		Example: "\n  objtree board.yaml\n  objtree board.yaml -o table -l /machine\n  objtree -p /machine/peripheral -p /objects -o json\n  objtree board.yaml --filter '_.type == \"serial\"'\n",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var level int8
			if o.debug {
				level = -1
			}
			lgr := logger.Get(level)
			lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
			ctx := logger.WithLogger(contextOf(cmd), lgr)

			run := settings.NewCliParams()
			run.MinLogLevel = level
			cmd.SetContext(settings.IntoContext(ctx, run))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, o)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	fs := cmd.Flags()
	fs.StringArrayVarP(&o.paths, "path", "p", nil, "ensure an absolute container path exists (repeatable)")
	fs.StringVarP(&o.lookup, "lookup", "l", navigator.Separator, "render only the subtree at this path (never creates)")
	fs.StringVarP(&o.output, "output", "o", settings.OutputTree, "output format: "+strings.Join(settings.OutputFormats, "|"))
	fs.StringVar(&o.filter, "filter", "", "CEL expression over '_' (name, path, type, types, refs, children, depth, container); prints matching paths")
	fs.StringVar(&o.sortOrder, "sort", "", "table row order: ascending|asc|descending|desc|none (default from config or none)")
	fs.IntVar(&o.treeDepth, "tree-depth", 0, "limit tree, mermaid and structured output depth (0 = unlimited)")
	fs.BoolVar(&o.showRefs, "show-refs", false, "show reference counts in tree output")
	fs.BoolVar(&o.hideTypes, "hide-types", false, "omit type names from tree and mermaid labels")
	fs.StringVar(&o.mermaidDirection, "mermaid-direction", "TD", "Mermaid diagram direction: TD, LR, BT, RL")
	fs.IntVar(&o.limit.Limit, "limit", 0, "limit table rows and filter matches to N records")
	fs.IntVar(&o.limit.Offset, "offset", 0, "skip the first N table rows or filter matches")
	fs.IntVar(&o.limit.Tail, "tail", 0, "show the last N table rows or filter matches (mutually exclusive with --limit; ignores --offset)")

	pfs := cmd.PersistentFlags()
	pfs.BoolVar(&o.noColor, "no-color", false, "disable color output")
	pfs.BoolVar(&o.debug, "debug", false, "enable debug logging on stderr")
	pfs.StringVar(&o.configFile, "config-file", "", "path to a YAML config file")

	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.AddCommand(newTypesCmd(o), newVersionCmd())
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runRoot(cmd *cobra.Command, args []string, o *options) error {
	cfg, err := loadMergedConfig(resolveConfigPath(o.configFile))
	if err != nil {
		return err
	}
	applyConfig(cmd.Flags(), cfg, o)
	if err := o.validate(); err != nil {
		return usageError(err)
	}

	run := settings.FromContextOrDefault(contextOf(cmd))
	run.Output = o.output
	run.NoColor = o.noColor || !isTerminalWriter(cmd.OutOrStdout())
	if len(args) == 1 {
		run.ManifestPath = args[0]
	}

	order, err := navigator.ParseSortOrder(o.sortOrder)
	if err != nil {
		return usageError(err)
	}
	prev := navigator.SetSortOrder(order)
	defer navigator.SetSortOrder(prev)

	lgr := logger.FromContext(contextOf(cmd))
	ns, err := buildNamespace(run.ManifestPath, o.paths, *lgr)
	if err != nil {
		return err
	}
	node, err := ns.Lookup(o.lookup)
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}

	if o.filter != "" {
		return printFiltered(cmd.OutOrStdout(), node, o.filter, o.limit)
	}
	out, err := render(node, renderOptions{
		output:           run.Output,
		noColor:          run.NoColor,
		treeDepth:        o.treeDepth,
		showRefs:         o.showRefs,
		hideTypes:        o.hideTypes,
		mermaidDirection: o.mermaidDirection,
		title:            manifestTitle(run.ManifestPath),
		width:            formatter.TerminalWidth(),
		limit:            o.limit,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}

func (o *options) validate() error {
	if !settings.IsValidOutput(o.output) {
		return fmt.Errorf("invalid --output %q: valid values are %s", o.output, strings.Join(settings.OutputFormats, ", "))
	}
	if o.treeDepth < 0 {
		return fmt.Errorf("invalid --tree-depth %d: must not be negative", o.treeDepth)
	}
	if err := o.limit.Validate(); err != nil {
		return err
	}
	if err := formatter.ValidateMermaidDirection(o.mermaidDirection); err != nil {
		return err
	}
	for _, p := range o.paths {
		if err := navigator.Validate(p); err != nil {
			return fmt.Errorf("invalid --path: %w", err)
		}
	}
	if !navigator.IsAbsolute(o.lookup) {
		return fmt.Errorf("invalid --lookup %q: must begin with %q", o.lookup, navigator.Separator)
	}
	return nil
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && formatter.IsTerminal(f)
}
