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

	"github.com/google/uuid"
)

// fiasIDPlugin serves `fiasId:<uuid>` queries through the provider's
// by-identifier endpoint. A result is only accepted when it resolves to the
// requested building: anything whose house_fias_id differs is discarded as a
// granularity mismatch, not an error.
type fiasIDPlugin struct {
	providers service.ProviderSelector
	writer    *addressWriter
	logger    *slog.Logger
	params    *usecase.SearchParams
}

func (p *fiasIDPlugin) Name() string { return "fiasId" }

func (p *fiasIDPlugin) IsEnabled(query string, params *usecase.SearchParams) bool {
	if !strings.HasPrefix(query, fiasIDPrefix) {
		return false
	}
	if _, err := uuid.Parse(strings.TrimPrefix(query, fiasIDPrefix)); err != nil {
		return false
	}

	provider := p.providers.ForRequest(params.Provider, params.Geo)

	return provider != nil && provider.SupportsFiasID()
}

func (p *fiasIDPlugin) Prepare(params *usecase.SearchParams) searchPlugin {
	cloned := *p
	cloned.params = params

	return &cloned
}

func (p *fiasIDPlugin) Search(ctx context.Context, query string) (*entity.Address, error) {
	fiasID := strings.TrimPrefix(query, fiasIDPrefix)
	provider := p.providers.ForRequest(p.params.Provider, p.params.Geo)

	raw, err := provider.GetAddressByFiasID(ctx, fiasID)
	if err != nil {
		p.logger.Error("fias id lookup failed",
			slog.String("provider", provider.ProviderName()),
			slog.Any("error", err),
		)

		return nil, errors.Wrap(domainerrors.ErrProviderUnavailable, "fias id lookup failed")
	}

	normalized := provider.Normalize([]json.RawMessage{raw})
	if len(normalized) == 0 || normalized[0] == nil {
		return nil, nil
	}

	result := normalized[0]
	if result.Data.HouseFiasID != fiasID {
		p.logger.Debug("fias id lookup resolved to a different object",
			slog.String("requested", fiasID),
			slog.String("resolved", result.Data.HouseFiasID),
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
