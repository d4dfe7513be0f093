package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vm75/nginx-manager/internal/config"
	"github.com/vm75/nginx-manager/internal/models"
)

// NewCertsCmd returns the "certs" command that lists the TLS certificates in
// the config tree of a running server.
func NewCertsCmd(cfg *config.AppConfig) *cobra.Command {
	var flags *clientFlags

	cmd := &cobra.Command{
		Use:   "certs",
		Short: "List certificates under the ssl directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			certs, err := flags.client().ListCertificates(cmd.Context())
			if err != nil {
				return err
			}
			printCertificates(cmd.OutOrStdout(), certs)
			return nil
		},
	}
	flags = addClientFlags(cmd, cfg)
	return cmd
}

func printCertificates(w io.Writer, certs []models.CertificateInfo) {
	if len(certs) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DOMAIN\tEXPIRES\tDAYS LEFT\tCERT\tKEY")
	for _, c := range certs {
		key := c.KeyFile
		if key == "" {
			key = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", c.Domain, c.NotAfter, c.DaysLeft, c.CertFile, key)
	}
	_ = tw.Flush()
}
