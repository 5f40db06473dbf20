package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data := buildVersionData()
			w := cmd.OutOrStdout()
			for _, key := range []string{"Name", "Version", "GitCommit", "BuildTime", "GoVersion", "BuildOS", "BuildArch"} {
				if _, err := fmt.Fprintf(w, "%-10s %v\n", key+":", data[key]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
