package impl

import (
	"context"
	"log/slog"

	"addrsvc/internal/addresskey"
	"addrsvc/internal/domain/entity"
	domainerrors "addrsvc/internal/domain/errors"
	"addrsvc/internal/domain/service"
	"addrsvc/internal/errors"
	"addrsvc/internal/usecase"
)

// providerPlugin is the free-text fallback: it delegates to whichever
// provider is configured for the caller's geography and takes the first
// normalized result. Multi-candidate disambiguation is deliberately not
// attempted.
type providerPlugin struct {
	providers service.ProviderSelector
	writer    *addressWriter
	logger    *slog.Logger
	params    *usecase.SearchParams
}

func (p *providerPlugin) Name() string { return "provider" }

func (p *providerPlugin) IsEnabled(query string, params *usecase.SearchParams) bool {
	if query == "" || hasIdentifierShape(query) {
		return false
	}

	return p.providers.ForRequest(params.Provider, params.Geo) != nil
}

func (p *providerPlugin) Prepare(params *usecase.SearchParams) searchPlugin {
	cloned := *p
	cloned.params = params

	return &cloned
}

func (p *providerPlugin) Search(ctx context.Context, query string) (*entity.Address, error) {
	provider := p.providers.ForRequest(p.params.Provider, p.params.Geo)

	raw, err := provider.Get(ctx, service.SearchQuery{
		Query:   query,
		Geo:     p.params.Geo,
		Context: p.params.Context,
		Helpers: p.params.Helpers,
	})
	if err != nil {
		p.logger.Error("provider search failed",
			slog.String("provider", provider.ProviderName()),
			slog.Any("error", err),
		)

		return nil, errors.Wrap(domainerrors.ErrProviderUnavailable, "provider search failed")
	}
	if len(raw) == 0 {
		return nil, nil
	}

	normalized := provider.Normalize(raw)
	if len(normalized) == 0 || normalized[0] == nil {
		return nil, nil
	}

	// Use the first result for now.
	result := normalized[0]

	return p.writer.createOrUpdate(ctx, addressInput{
		Address: result.Value,
		Key:     addresskey.Generate(result),
		Meta: entity.AddressMeta{
			Provider: entity.ProviderInfo{
				Name:    provider.ProviderName(),
				RawData: raw[0],
			},
			Value:             result.Value,
			UnrestrictedValue: result.UnrestrictedValue,
			Data:              result.Data,
		},
	}, query, p.params.Helpers, p.params.Provenance)
}
