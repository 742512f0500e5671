// Package app wires the cardbinder components together for the CLI: config,
// logging, storage, the provider selector, and the collection services.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/cardbinder/cardbinder/internal/providers/registry"
	"github.com/cardbinder/cardbinder/internal/storage/blob"
	"github.com/cardbinder/cardbinder/internal/storage/memory"
	"github.com/cardbinder/cardbinder/internal/storage/postgres"
	"github.com/cardbinder/cardbinder/pkg/catalog"
	"github.com/cardbinder/cardbinder/pkg/collection"
	"github.com/cardbinder/cardbinder/pkg/errors"
	"github.com/cardbinder/cardbinder/pkg/export"
	"github.com/cardbinder/cardbinder/pkg/identity"
	"github.com/cardbinder/cardbinder/pkg/idmap"
	"github.com/cardbinder/cardbinder/pkg/logging"
	selector "github.com/cardbinder/cardbinder/pkg/registry"
)

// App carries the assembled application components.
type App struct {
	config     *Config
	logger     *zerolog.Logger
	identity   identity.Resolver
	selector   *selector.Selector
	normalizer *idmap.Normalizer
	reconciler *collection.Reconciler
	exports    *export.Manager
	out        io.Writer

	pool interface{ Close() }
}

// New loads configuration and assembles the application.
func New(ctx context.Context) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	logger := setupLogger(config)
	logging.SetDefault(*logger)

	a := &App{
		config: config,
		logger: logger,
		out:    os.Stdout,
	}
	// Read the user through config at call time, not capture time, so the
	// root command's --user flag applies after assembly.
	a.identity = identity.Func(func(context.Context) string { return a.config.UserID })

	var (
		owned collection.OwnedCardStore
		maps  idmap.MappingStore
		exps  export.Store
		prefs selector.PreferenceStore
	)
	if config.DatabaseDSN != "" {
		pool, err := postgres.NewPool(ctx, config.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		store := postgres.New(pool)
		a.pool = pool
		owned, maps, exps, prefs = store, store, store, store
	} else {
		logger.Debug().Msg("no database configured, using in-memory stores")
		owned = memory.NewOwnedCardStore()
		maps = memory.NewMappingStore()
		exps = memory.NewExportStore()
		prefs = memory.NewPreferenceStore()
	}

	a.selector = selector.New(prefs, a.adapterFactory())
	a.normalizer = idmap.New(maps)
	a.reconciler = collection.New(owned, a.normalizer)

	blobs := blob.New(config.BlobDir, config.BlobBaseURL, []byte(config.BlobSecret))
	a.exports = export.NewManager(exps, blobs, export.ManifestRenderer{})

	return a, nil
}

// adapterFactory builds catalog adapters from the provider registry with
// config-supplied credentials and endpoint overrides.
func (a *App) adapterFactory() selector.AdapterFactory {
	return func(id catalog.ProviderID) (catalog.Service, error) {
		cfg := registry.Config{}
		switch id {
		case catalog.ProviderIDPTCG:
			cfg.APIKey = a.config.PTCGAPIKey
			cfg.BaseURL = a.config.PTCGBaseURL
		case catalog.ProviderIDTCGdex:
			cfg.BaseURL = a.config.TCGdexBaseURL
		}
		return registry.New(id, cfg)
	}
}

// Config returns the loaded configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// Selector returns the provider selector.
func (a *App) Selector() *selector.Selector { return a.selector }

// Normalizer returns the identifier normalizer.
func (a *App) Normalizer() *idmap.Normalizer { return a.normalizer }

// Reconciler returns the collection reconciler.
func (a *App) Reconciler() *collection.Reconciler { return a.reconciler }

// Exports returns the export manager.
func (a *App) Exports() *export.Manager { return a.exports }

// UserID resolves the current user, failing when none is configured.
func (a *App) UserID(ctx context.Context) (string, error) {
	userID := a.identity.CurrentUserID(ctx)
	if userID == "" {
		return "", &errors.ValidationError{Field: "user", Message: "no user configured (set --user or the user config key)"}
	}
	return userID, nil
}

// Catalog returns the active provider's adapter.
func (a *App) Catalog(ctx context.Context) (catalog.Service, error) {
	_, adapter, err := a.selector.Active(ctx)
	return adapter, err
}

// Print renders a value as indented JSON on stdout.
func (a *App) Print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Printf writes formatted text on stdout.
func (a *App) Printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// EnableVerbose lowers the logger to debug level. The root command calls it
// once flags are parsed, since flag values land after New has already fixed
// the level.
func (a *App) EnableVerbose() {
	logger := a.logger.Level(zerolog.DebugLevel)
	a.logger = &logger
	logging.SetDefault(logger)
}

// Close releases held resources.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// setupLogger builds the logger from config.
func setupLogger(config *Config) *zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(config.LogLevel); err == nil {
		level = parsed
	}
	if config.Verbose {
		level = zerolog.DebugLevel
	}
	if config.Quiet {
		level = zerolog.ErrorLevel
	}

	var logger zerolog.Logger
	if config.LogFormat == "json" {
		logger = logging.New(os.Stderr).Level(level)
	} else {
		logger = logging.NewConsole().Level(level)
	}
	return &logger
}
