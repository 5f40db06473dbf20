package cmd

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/objtree/internal/formatter"
	"github.com/oakwood-commons/objtree/pkg/logger"
)

var typesHeader = []string{"TYPE", "PARENT", "ABSTRACT", "ANCESTRY"}

func newTypesCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "types [manifest]",
		Short: "List registered object types",
		Long:  "List every type registered after applying the manifest, sorted by name, with its parent and full ancestry.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manifestPath := ""
			if len(args) == 1 {
				manifestPath = args[0]
			}
			lgr := logger.FromContext(contextOf(cmd))
			ns, err := buildNamespace(manifestPath, nil, *lgr)
			if err != nil {
				return err
			}

			var rows [][]string
			for _, t := range ns.Registry().Types() {
				parent := "-"
				if t.Parent() != nil {
					parent = t.Parent().Name()
				}
				abstract := "no"
				if t.Abstract() {
					abstract = "yes"
				}
				rows = append(rows, []string{t.Name(), parent, abstract, strings.Join(t.Ancestors(), " > ")})
			}
			noColor := o.noColor || !isTerminalWriter(cmd.OutOrStdout())
			_, err = io.WriteString(cmd.OutOrStdout(), formatter.RenderRows(typesHeader, rows, noColor, 0))
			return err
		},
	}
}
