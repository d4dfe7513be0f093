package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vm75/nginx-manager/internal/config"
	"github.com/vm75/nginx-manager/internal/models"
)

var errNginxFailed = errors.New("nginx reported a failure")

// NewNginxCmd returns the "nginx" command group that runs nginx on a
// running server.
func NewNginxCmd(cfg *config.AppConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nginx",
		Short: "Test or reload nginx through a running server",
	}
	flags := addClientFlags(cmd, cfg)

	cmd.AddCommand(
		&cobra.Command{
			Use:   "test",
			Short: "Run nginx -t",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				result, err := flags.client().TestConfig(cmd.Context())
				if err != nil {
					return err
				}
				return reportCommand(cmd, result)
			},
		},
		&cobra.Command{
			Use:   "reload",
			Short: "Run nginx -s reload",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				result, err := flags.client().Reload(cmd.Context())
				if err != nil {
					return err
				}
				return reportCommand(cmd, result)
			},
		},
	)
	return cmd
}

func reportCommand(cmd *cobra.Command, result models.CommandResult) error {
	fmt.Fprint(cmd.OutOrStdout(), result.Output)
	if !result.Success {
		return errNginxFailed
	}
	return nil
}
