package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"netcollector/internal/collector"
	"netcollector/internal/collector/fswalk"
	"netcollector/internal/collector/network"
	"netcollector/internal/collector/sshkeys"
	"netcollector/internal/config"
	"netcollector/internal/repository/sqlite"
)

func newCollectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collect",
		Short: "Run all enabled collectors once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}
			if path != "" {
				log.Printf("using config %s", path)
			} else {
				log.Printf("no config file found, using defaults")
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			store, err := sqlite.New(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("open database %s: %w", cfg.Database.Path, err)
			}
			defer store.Close()

			runner := collector.NewRunner(store)
			if err := registerCollectors(runner, cfg); err != nil {
				return err
			}

			summary := runner.Run(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), summary)

			if !summary.OK() {
				os.Exit(exitRunFailure)
			}
			return nil
		},
	}
}

// loadConfig honors the --config flag before the discovery chain.
func loadConfig() (*config.Config, string, error) {
	if flags.configPath != "" {
		return config.LoadFromPath(flags.configPath)
	}
	return config.Load()
}

// registerCollectors wires one collector per enabled config section.
func registerCollectors(runner *collector.Runner, cfg *config.Config) error {
	if net := cfg.Collectors.Network; net.Enabled {
		opts := []network.Option{
			network.WithPortRange(net.PortRange),
			network.WithTimeout(net.Timeout.Duration()),
			network.WithServiceDetection(net.ServiceDetectionEnabled()),
		}
		if err := runner.Register(network.New(net.Targets, opts...)); err != nil {
			return err
		}
	}

	if keys := cfg.Collectors.SSHKeys; keys.Enabled {
		if err := runner.Register(sshkeys.New(keys.Dirs)); err != nil {
			return err
		}
	}

	if fs := cfg.Collectors.Filesystem; fs.Enabled {
		if err := runner.Register(fswalk.New(fs.Roots)); err != nil {
			return err
		}
	}

	return nil
}
