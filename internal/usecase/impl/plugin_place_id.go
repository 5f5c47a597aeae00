package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"addrsvc/internal/addresskey"
	"addrsvc/internal/domain/entity"
	domainerrors "addrsvc/internal/domain/errors"
	"addrsvc/internal/domain/service"
	"addrsvc/internal/errors"
	"addrsvc/internal/usecase"
)

// placeIDPlugin serves `googlePlaceId:<id>` queries for providers with a
// place-id address space. Same acceptance rule as the FIAS plugin: the
// normalized result must carry the identifier it was asked for.
type placeIDPlugin struct {
	providers service.ProviderSelector
	writer    *addressWriter
	logger    *slog.Logger
	params    *usecase.SearchParams
}

func (p *placeIDPlugin) Name() string { return "placeId" }

func (p *placeIDPlugin) IsEnabled(query string, params *usecase.SearchParams) bool {
	if !strings.HasPrefix(query, placeIDPrefix) {
		return false
	}
	if strings.TrimPrefix(query, placeIDPrefix) == "" {
		return false
	}

	provider := p.providers.ForRequest(params.Provider, params.Geo)

	return provider != nil && provider.SupportsPlaceID()
}

func (p *placeIDPlugin) Prepare(params *usecase.SearchParams) searchPlugin {
	cloned := *p
	cloned.params = params

	return &cloned
}

func (p *placeIDPlugin) Search(ctx context.Context, query string) (*entity.Address, error) {
	placeID := strings.TrimPrefix(query, placeIDPrefix)
	provider := p.providers.ForRequest(p.params.Provider, p.params.Geo)

	raw, err := provider.GetByPlaceID(ctx, placeID)
	if err != nil {
		p.logger.Error("place id lookup failed",
			slog.String("provider", provider.ProviderName()),
			slog.Any("error", err),
		)

		return nil, errors.Wrap(domainerrors.ErrProviderUnavailable, "place id lookup failed")
	}

	normalized := provider.Normalize([]json.RawMessage{raw})
	if len(normalized) == 0 || normalized[0] == nil {
		return nil, nil
	}

	result := normalized[0]
	if result.Data.PlaceID != placeID {
		p.logger.Debug("place id lookup resolved to a different place",
			slog.String("requested", placeID),
			slog.String("resolved", result.Data.PlaceID),
		)

		return nil, nil
	}

	return p.writer.createOrUpdate(ctx, addressInput{
		Address: result.Value,
		Key:     addresskey.Generate(result),
		Meta: entity.AddressMeta{
			Provider: entity.ProviderInfo{
				Name:    provider.ProviderName(),
				RawData: raw,
			},
			Value:             result.Value,
			UnrestrictedValue: result.UnrestrictedValue,
			Data:              result.Data,
		},
	}, query, p.params.Helpers, p.params.Provenance)
}
