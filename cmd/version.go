package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vm75/nginx-manager/internal/build"
	"github.com/vm75/nginx-manager/internal/config"
)

// NewVersionCmd returns the "version" subcommand.
func NewVersionCmd(cfg *config.AppConfig) *cobra.Command {
	var (
		remote bool
		flags  *clientFlags
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "nginx-manager %s\n", build.String())
			if !remote {
				return nil
			}
			info, err := flags.client().Version(cmd.Context())
			if err != nil {
				return fmt.Errorf("querying server: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "server %s (commit %s, built %s)\n", info.Version, info.Commit, info.BuildDate)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "Also query the running server")
	flags = addClientFlags(cmd, cfg)
	return cmd
}
