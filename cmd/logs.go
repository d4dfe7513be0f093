package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vm75/nginx-manager/internal/config"
	"github.com/vm75/nginx-manager/internal/models"
)

// NewLogsCmd returns the "logs" command group that prints the end of the
// nginx access and error logs of a running server.
func NewLogsCmd(cfg *config.AppConfig) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the last lines of the nginx logs",
	}
	flags := addClientFlags(cmd, cfg)
	cmd.PersistentFlags().IntVarP(&lines, "lines", "n", 0, "number of lines (server default when 0)")

	for _, kind := range []string{models.LogAccess, models.LogError} {
		cmd.AddCommand(&cobra.Command{
			Use:   kind,
			Short: fmt.Sprintf("Show the nginx %s log", kind),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				content, err := flags.client().TailLog(cmd.Context(), kind, lines)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), content)
				return nil
			},
		})
	}
	return cmd
}
