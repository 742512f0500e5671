package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cardbinder/cardbinder/pkg/stats"
)

// newSetsCommand builds the sets browsing commands.
func newSetsCommand(a AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sets",
		Short: "Browse card sets",
	}

	var bySeries bool
	var query string
	var daily int

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all sets, newest first",
		Example: `  binder sets list
  binder sets list --series
  binder sets list --series --query sword
  binder sets list --daily 3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			adapter, err := a.Catalog(ctx)
			if err != nil {
				return err
			}

			sets, err := adapter.ListSets(ctx)
			if err != nil {
				a.Logger().Error().Err(err).Msg("failed to load sets")
				a.Printf("failed to load sets from the active provider\n")
				return nil
			}

			if daily > 0 {
				return a.Print(stats.SetsOfTheDay(sets, time.Now(), daily))
			}
			if bySeries {
				return a.Print(stats.GroupFilteredSetsBySeries(sets, query))
			}
			return a.Print(stats.FilterSetsByName(sets, query))
		},
	}
	listCmd.Flags().BoolVar(&bySeries, "series", false, "group sets by series")
	listCmd.Flags().StringVar(&query, "query", "", "filter sets by name")
	listCmd.Flags().IntVar(&daily, "daily", 0, "show the date-seeded daily picks instead")

	getCmd := &cobra.Command{
		Use:   "get <set-id>",
		Short: "Show one set with its card list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			adapter, err := a.Catalog(ctx)
			if err != nil {
				return err
			}

			set, err := adapter.SetByID(ctx, args[0])
			if err != nil {
				return err
			}
			return a.Print(set)
		},
	}

	cmd.AddCommand(listCmd, getCmd)
	return cmd
}
