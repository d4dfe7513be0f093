package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vm75/nginx-manager/internal/config"
	"github.com/vm75/nginx-manager/internal/models"
)

// NewAuditCmd returns the "audit" command that prints the change history of
// a running server.
func NewAuditCmd(cfg *config.AppConfig) *cobra.Command {
	var (
		eventType  string
		limit      int
		notifLimit int
		flags      *clientFlags
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent config changes and nginx commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := flags.client().ListAudit(cmd.Context(), eventType, limit)
			if err != nil {
				return err
			}
			printAudit(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	flags = addClientFlags(cmd, cfg)
	cmd.Flags().StringVar(&eventType, "type", "", `only events whose type starts with this, e.g. "nginx."`)
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of entries (server default when 0)")

	notifications := &cobra.Command{
		Use:   "notifications",
		Short: "Show recent failure alert deliveries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := flags.client().ListNotifications(cmd.Context(), notifLimit)
			if err != nil {
				return err
			}
			printNotifications(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	notifications.Flags().IntVar(&notifLimit, "limit", 0, "maximum number of entries (server default when 0)")
	cmd.AddCommand(notifications)
	return cmd
}

func printAudit(w io.Writer, entries []models.AuditEntry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		keys := make([]string, 0, len(e.Payload))
		for k := range e.Payload {
			if k != "output" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+"="+e.Payload[k])
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.CreatedAt.Local().Format(time.DateTime), e.Type, strings.Join(pairs, " "))
	}
	_ = tw.Flush()
}

func printNotifications(w io.Writer, entries []models.NotificationLogEntry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		status := e.Status
		if e.ErrorMsg != "" {
			status += ": " + e.ErrorMsg
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.CreatedAt.Local().Format(time.DateTime), e.EventType, e.Subject, status)
	}
	_ = tw.Flush()
}
