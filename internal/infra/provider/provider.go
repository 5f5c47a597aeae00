// Package provider assembles the configured geocoding backends and picks one
// per request.
package provider

import (
	"log/slog"
	"strings"

	"addrsvc/config"
	"addrsvc/internal/domain/constants"
	"addrsvc/internal/domain/service"
	"addrsvc/internal/infra/observability"
	"addrsvc/internal/infra/provider/dadata"
	"addrsvc/internal/infra/provider/google"
)

// Selector holds every configured backend and implements
// service.ProviderSelector: an explicit override wins, then the geography
// hint, then the configured default.
type Selector struct {
	providers       map[string]service.SearchProvider
	defaultProvider string
}

// NewSelector builds the backends that have configuration and wraps each in
// the response cache.
func NewSelector(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Selector {
	selector := &Selector{
		providers: make(map[string]service.SearchProvider),
	}

	var cacheCfg *config.CacheConfig
	if cfg.Providers != nil {
		cacheCfg = cfg.Providers.Cache
		selector.defaultProvider = cfg.Providers.Default
	}

	if cfg.Dadata != nil && cfg.Dadata.APIKey != "" {
		client := dadata.New(cfg.Dadata, metrics, logger)
		selector.providers[constants.DadataProvider] = NewCachedProvider(client, cacheCfg, metrics, logger)
	}
	if cfg.Google != nil && cfg.Google.APIKey != "" {
		client := google.New(cfg.Google, metrics, logger)
		selector.providers[constants.GoogleProvider] = NewCachedProvider(client, cacheCfg, metrics, logger)
	}

	return selector
}

// ForRequest picks the provider for one request. Returns nil when nothing is
// configured for it.
func (s *Selector) ForRequest(override, geo string) service.SearchProvider {
	if override != "" {
		return s.providers[override]
	}

	// Russian addresses live in the FIAS address space, which only DaData
	// serves.
	if strings.EqualFold(geo, "ru") {
		if p, ok := s.providers[constants.DadataProvider]; ok {
			return p
		}
	}

	if s.defaultProvider != "" {
		return s.providers[s.defaultProvider]
	}

	return nil
}
