package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

// newCardsCommand builds the card search commands.
func newCardsCommand(a AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Search and inspect cards",
	}

	searchCmd := &cobra.Command{
		Use:   "search <name>",
		Short: "Search cards by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			adapter, err := a.Catalog(ctx)
			if err != nil {
				return err
			}

			cards, err := adapter.SearchCardsByName(ctx, strings.Join(args, " "))
			if err != nil {
				a.Logger().Error().Err(err).Msg("card search failed")
				a.Printf("search failed against the active provider\n")
				return nil
			}
			return a.Print(cards)
		},
	}

	suggestCmd := &cobra.Command{
		Use:   "suggest <prefix>",
		Short: "Typeahead suggestions for a card name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			adapter, err := a.Catalog(ctx)
			if err != nil {
				return err
			}

			suggestions, err := adapter.CardSuggestions(ctx, args[0])
			if err != nil {
				return err
			}
			return a.Print(suggestions)
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <card-id>",
		Short: "Show one card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			adapter, err := a.Catalog(ctx)
			if err != nil {
				return err
			}

			card, err := adapter.CardByID(ctx, args[0])
			if err != nil {
				return err
			}
			return a.Print(card)
		},
	}

	cmd.AddCommand(searchCmd, suggestCmd, getCmd)
	return cmd
}
