package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the netcollector release version.
const Version = "0.2.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the netcollector version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "netcollector v%s\n", Version)
			return nil
		},
	}
}
