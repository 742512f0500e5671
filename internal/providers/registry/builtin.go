package registry

import (
	"github.com/cardbinder/cardbinder/internal/providers/ptcg"
	"github.com/cardbinder/cardbinder/internal/providers/tcgdex"
	"github.com/cardbinder/cardbinder/pkg/catalog"
)

func init() {
	Register(catalog.ProviderIDPTCG, func(cfg Config) catalog.Service {
		opts := []ptcg.Option{}
		if cfg.BaseURL != "" {
			opts = append(opts, ptcg.WithBaseURL(cfg.BaseURL))
		}
		return ptcg.New(cfg.APIKey, opts...)
	})

	Register(catalog.ProviderIDTCGdex, func(cfg Config) catalog.Service {
		opts := []tcgdex.Option{}
		if cfg.BaseURL != "" {
			opts = append(opts, tcgdex.WithBaseURL(cfg.BaseURL))
		}
		return tcgdex.New(opts...)
	})
}
