package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vm75/nginx-manager/internal/buildconfig"
)

// NewManifestCmd returns the "manifest" command group for the frontend
// build manifest.
func NewManifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Inspect the frontend build manifest",
	}

	var (
		manifestPath string
		format       string
	)
	printCmd := &cobra.Command{
		Use:   "print",
		Short: "Print a manifest as YAML or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, _, err := loadManifest(manifestPath)
			if err != nil {
				return err
			}

			var out []byte
			switch format {
			case "yaml":
				out, err = m.YAML()
			case "json":
				out, err = json.MarshalIndent(m, "", "  ")
				out = append(out, '\n')
			default:
				return fmt.Errorf("unknown format %q (want yaml or json)", format)
			}
			if err != nil {
				return fmt.Errorf("rendering manifest: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	printCmd.Flags().StringVar(&manifestPath, "manifest", "", "Manifest YAML file (default: built-in manifest)")
	printCmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or json")

	validateCmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a manifest for errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := buildconfig.Load(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(printCmd, validateCmd)
	return cmd
}
