package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vm75/nginx-manager/internal/config"
)

// NewRootCmd assembles the command tree around cfg.
func NewRootCmd(cfg *config.AppConfig) *cobra.Command {
	root := &cobra.Command{
		Use:           "nginx-manager",
		Short:         "Browser-based nginx configuration editor",
		Long:          "Serve a web UI for editing the nginx configuration tree, or drive a running instance from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		NewWebCmd(cfg),
		NewPreviewCmd(cfg),
		NewFilesCmd(cfg),
		NewNginxCmd(cfg),
		NewAuditCmd(cfg),
		NewLogsCmd(cfg),
		NewCertsCmd(cfg),
		NewManifestCmd(),
		NewVersionCmd(cfg),
		NewUpdateCmd(),
	)
	return root
}

// Execute loads configuration from the environment and runs the root command.
func Execute() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := NewRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
