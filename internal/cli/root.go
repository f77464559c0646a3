// Package cli implements the netcollector command-line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

const (
	exitSuccess    = 0
	exitUserError  = 1
	exitRunFailure = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configPath string
}

var flags rootFlags

// NewRootCmd creates the top-level "netcollector" command with global
// flags and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "netcollector",
		Short: "Collect network, SSH key and filesystem inventory into SQLite",
		Long: "Netcollector scans configured sources (nmap network ranges, SSH key\n" +
			"directories, filesystem trees) and persists what it finds as a\n" +
			"hierarchical inventory in a SQLite database. Runs are idempotent:\n" +
			"re-collecting the same sources updates records in place.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default: netcollector.yaml discovery chain)")

	root.AddCommand(newCollectCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitUserError)
	}
}
