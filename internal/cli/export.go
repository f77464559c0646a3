package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"netcollector/internal/codec"
	"netcollector/internal/repository/sqlite"
)

func newExportCmd() *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump the collected inventory as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			exporter, err := codec.ForFormat(format)
			if err != nil {
				return err
			}

			store, err := sqlite.New(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("open database %s: %w", cfg.Database.Path, err)
			}
			defer store.Close()

			inv, err := store.LoadInventory(cmd.Context())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			return exporter.Export(inv, w)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "export format (json or yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}
