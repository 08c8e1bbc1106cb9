package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tm/config"
)

func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Encode(a.cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			path := a.configPath
			if path == "" {
				if path, err = config.GlobalPath(); err != nil {
					path = "none (" + err.Error() + ")"
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# config file: %s (environment overrides applied)\n%s", path, data)
			return nil
		},
	}
}
