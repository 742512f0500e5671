package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cardbinder/cardbinder/pkg/stats"
)

// newCollectionCommand builds the collection tracking commands.
func newCollectionCommand(a AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collection",
		Aliases: []string{"col"},
		Short:   "Track your card collection",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Resolve the collection against the active provider",
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
			return a.Print(resolution)
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <card-id>",
		Short: "Add a card to the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			userID, err := a.UserID(ctx)
			if err != nil {
				return err
			}
			if err := a.Reconciler().AddCard(ctx, userID, args[0]); err != nil {
				return err
			}
			a.Printf("added %s\n", args[0])
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <card-id>",
		Short: "Remove a card from the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			userID, err := a.UserID(ctx)
			if err != nil {
				return err
			}
			if err := a.Reconciler().RemoveCard(ctx, userID, args[0]); err != nil {
				return err
			}
			a.Printf("removed %s\n", args[0])
			return nil
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Per-set completion and collection valuation",
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

			sets, err := adapter.ListSets(ctx)
			if err != nil {
				a.Logger().Warn().Err(err).Msg("set catalog unavailable, completion totals omitted")
				sets = nil
			}

			return a.Print(struct {
				Progress   []stats.SetProgress `json:"progress"`
				Valuation  stats.Valuation     `json:"valuation"`
				Unresolved []string            `json:"unresolvedIds"`
			}{
				Progress:   stats.Progress(resolution.ResolvedCards, sets),
				Valuation:  stats.Valuate(resolution.ResolvedCards),
				Unresolved: resolution.UnresolvedIDs,
			})
		},
	}

	cmd.AddCommand(showCmd, addCmd, removeCmd, statsCmd)
	return cmd
}
