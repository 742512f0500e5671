package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cardbinder/cardbinder/pkg/catalog"
	"github.com/cardbinder/cardbinder/pkg/idmap"
)

// newProviderCommand builds the provider selection and ID-mapping commands.
func newProviderCommand(a AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Inspect or switch the active catalog provider",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the active provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _, err := a.Selector().Active(cmd.Context())
			if err != nil {
				return err
			}
			return a.Print(struct {
				Active catalog.ProviderID `json:"active"`
			}{Active: id})
		},
	}

	switchCmd := &cobra.Command{
		Use:       "switch <provider>",
		Short:     "Switch the active provider (ptcg or tcgdex)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(catalog.ProviderIDPTCG), string(catalog.ProviderIDTCGdex)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.Selector().SwitchTo(ctx, catalog.ProviderID(args[0])); err != nil {
				return err
			}
			a.Printf("active provider: %s\n", args[0])
			return nil
		},
	}

	var setID, number, name string
	mapCmd := &cobra.Command{
		Use:   "map <ptcg-id> <tcgdex-id>",
		Short: "Record an identifier mapping between the two providers",
		Long: `Record that two provider-native card IDs refer to the same physical
card. Mappings keep collections resolvable across provider switches;
unmapped IDs fall back to identity.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m := idmap.Mapping{
				PTCGID:     args[0],
				TCGdexID:   args[1],
				SetID:      setID,
				CardNumber: number,
				CardName:   name,
			}
			if err := a.Normalizer().RecordMapping(ctx, m); err != nil {
				return err
			}
			a.Printf("mapped %s <-> %s\n", args[0], args[1])
			return nil
		},
	}
	mapCmd.Flags().StringVar(&setID, "set", "", "set ID the card belongs to")
	mapCmd.Flags().StringVar(&number, "number", "", "printed card number")
	mapCmd.Flags().StringVar(&name, "name", "", "card name")

	cmd.AddCommand(showCmd, switchCmd, mapCmd)
	return cmd
}
