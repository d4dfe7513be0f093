package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vm75/nginx-manager/internal/config"
	"github.com/vm75/nginx-manager/internal/models"
)

// NewFilesCmd returns the "files" command group that edits the config tree
// of a running server.
func NewFilesCmd(cfg *config.AppConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Browse and edit the nginx configuration of a running server",
	}
	flags := addClientFlags(cmd, cfg)

	cmd.AddCommand(
		&cobra.Command{
			Use:   "ls [dir]",
			Short: "List a directory",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				dir := "/"
				if len(args) == 1 {
					dir = args[0]
				}
				files, err := flags.client().ListFiles(cmd.Context(), dir)
				if err != nil {
					return err
				}
				printFiles(cmd.OutOrStdout(), files)
				return nil
			},
		},
		&cobra.Command{
			Use:   "cat PATH",
			Short: "Print a file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				content, err := flags.client().ReadFile(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = io.WriteString(cmd.OutOrStdout(), content)
				return err
			},
		},
		&cobra.Command{
			Use:   "put PATH [FILE|-]",
			Short: "Replace a file's content from FILE or stdin",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				var (
					data []byte
					err  error
				)
				if len(args) == 1 || args[1] == "-" {
					data, err = io.ReadAll(cmd.InOrStdin())
				} else {
					data, err = os.ReadFile(args[1])
				}
				if err != nil {
					return fmt.Errorf("reading content: %w", err)
				}
				return flags.client().WriteFile(cmd.Context(), args[0], string(data))
			},
		},
		&cobra.Command{
			Use:   "rm PATH",
			Short: "Delete a file, symlink or directory",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return flags.client().DeleteFile(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "mkdir PATH",
			Short: "Create a directory and its parents",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return flags.client().CreateFile(cmd.Context(), args[0], true)
			},
		},
		&cobra.Command{
			Use:   "touch PATH",
			Short: "Create an empty file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return flags.client().CreateFile(cmd.Context(), args[0], false)
			},
		},
		&cobra.Command{
			Use:   "mv SRC TARGET",
			Short: "Move SRC into directory TARGET, or rename it to TARGET",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return flags.client().MoveFile(cmd.Context(), args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "rename OLD NEW",
			Short: "Rename a file or directory",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return flags.client().RenameFile(cmd.Context(), args[0], args[1])
			},
		},
		&cobra.Command{
			Use:     "ln TARGET LINK",
			Short:   "Create LINK pointing at TARGET",
			Example: "  nginx-manager files ln /sites-available/app.conf /sites-enabled/app.conf",
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return flags.client().CreateSymlink(cmd.Context(), args[0], args[1])
			},
		},
	)
	return cmd
}

func printFiles(w io.Writer, files []models.FileInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range files {
		name := f.Name
		switch {
		case f.IsSymlink:
			name += " -> " + f.LinkTarget
		case f.IsDir:
			name += "/"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", f.Size, f.ModTime, name)
	}
	_ = tw.Flush()
}
