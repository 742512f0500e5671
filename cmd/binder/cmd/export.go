package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cardbinder/cardbinder/pkg/export"
)

// newExportCommand builds the snapshot export commands.
func newExportCommand(a AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Manage collection snapshot exports",
	}

	var name, format string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Generate a snapshot of the resolved collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			userID, err := a.UserID(ctx)
			if err != nil {
				return err
			}
			adapter, err := a.Catalog(ctx)
			if err != nil {
				return err
			}

			resolution, err := a.Reconciler().ResolveCollection(ctx, userID, adapter)
			if err != nil {
				return err
			}

			snapshot, url, err := a.Exports().Generate(ctx, userID, name, export.Format(format), resolution.ResolvedCards)
			if err != nil {
				return err
			}
			return a.Print(struct {
				Snapshot    *export.Snapshot `json:"snapshot"`
				DownloadURL string           `json:"downloadUrl,omitempty"`
			}{Snapshot: snapshot, DownloadURL: url})
		},
	}
	createCmd.Flags().StringVar(&name, "name", "collection snapshot", "display name of the export")
	createCmd.Flags().StringVar(&format, "format", string(export.FormatPDF), "artifact format: pdf or image")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your exports, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			userID, err := a.UserID(ctx)
			if err != nil {
				return err
			}
			snapshots, err := a.Exports().List(ctx, userID)
			if err != nil {
				return err
			}
			return a.Print(snapshots)
		},
	}

	urlCmd := &cobra.Command{
		Use:   "url <export-id>",
		Short: "Mint a fresh signed download URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			userID, err := a.UserID(ctx)
			if err != nil {
				return err
			}
			url, err := a.Exports().DownloadURL(ctx, userID, args[0])
			if err != nil {
				return err
			}
			a.Printf("%s\n", url)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <export-id>",
		Short: "Delete an export and its stored artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			userID, err := a.UserID(ctx)
			if err != nil {
				return err
			}
			if err := a.Exports().Delete(ctx, userID, args[0]); err != nil {
				return err
			}
			a.Printf("deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(createCmd, listCmd, urlCmd, deleteCmd)
	return cmd
}
