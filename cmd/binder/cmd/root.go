// Package cmd builds the binder command tree. Commands depend on the app
// through the AppContext interface, which keeps them testable against fakes.
package cmd

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cardbinder/cardbinder/cmd/binder/app"
	"github.com/cardbinder/cardbinder/pkg/catalog"
	"github.com/cardbinder/cardbinder/pkg/collection"
	"github.com/cardbinder/cardbinder/pkg/export"
	"github.com/cardbinder/cardbinder/pkg/idmap"
	"github.com/cardbinder/cardbinder/pkg/registry"
)

// AppContext is what commands need from the assembled application.
type AppContext interface {
	Catalog(ctx context.Context) (catalog.Service, error)
	Selector() *registry.Selector
	Normalizer() *idmap.Normalizer
	Reconciler() *collection.Reconciler
	Exports() *export.Manager
	UserID(ctx context.Context) (string, error)
	Logger() *zerolog.Logger
	Print(v any) error
	Printf(format string, args ...any)
}

// Execute builds the root command and runs it.
func Execute(ctx context.Context, a *app.App, args []string) error {
	rootCmd := &cobra.Command{
		Use:   "binder",
		Short: "Trading card catalog browser and collection tracker",
		Long: `Binder browses trading card sets and cards across two upstream catalog
providers, tracks a personal collection against them, and exports
collection snapshots.

The active provider can be switched at any time; the collection itself is
provider-independent and survives switches.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if user, _ := cmd.Flags().GetString("user"); user != "" {
				a.Config().UserID = user
			}
			if a.Config().Verbose {
				a.EnableVerbose()
			}
		},
	}

	rootCmd.PersistentFlags().String("user", "", "user whose collection to operate on")
	rootCmd.PersistentFlags().BoolVar(&a.Config().Verbose, "verbose", a.Config().Verbose, "enable debug logging")

	rootCmd.AddCommand(newSetsCommand(a))
	rootCmd.AddCommand(newCardsCommand(a))
	rootCmd.AddCommand(newCollectionCommand(a))
	rootCmd.AddCommand(newProviderCommand(a))
	rootCmd.AddCommand(newExportCommand(a))

	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
