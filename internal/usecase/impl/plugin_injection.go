package impl

import (
	"context"
	"log/slog"
	"strings"

	"addrsvc/internal/addresskey"
	"addrsvc/internal/domain/constants"
	"addrsvc/internal/domain/entity"
	"addrsvc/internal/domain/repository"
	"addrsvc/internal/errors"
	"addrsvc/internal/usecase"

	"github.com/google/uuid"
)

// injectionPlugin serves `injectionId:<uuid>` queries against bulk-imported
// raw rows. There is no provider payload to record, so meta carries the
// injections provenance and the normalized components only.
type injectionPlugin struct {
	injections repository.AddressInjectionRepository
	writer     *addressWriter
	logger     *slog.Logger
	params     *usecase.SearchParams
}

func (p *injectionPlugin) Name() string { return "injection" }

func (p *injectionPlugin) IsEnabled(query string, _ *usecase.SearchParams) bool {
	if !strings.HasPrefix(query, injectionIDPrefix) {
		return false
	}
	_, err := uuid.Parse(strings.TrimPrefix(query, injectionIDPrefix))

	return err == nil
}

func (p *injectionPlugin) Prepare(params *usecase.SearchParams) searchPlugin {
	cloned := *p
	cloned.params = params

	return &cloned
}

func (p *injectionPlugin) Search(ctx context.Context, query string) (*entity.Address, error) {
	id, err := uuid.Parse(strings.TrimPrefix(query, injectionIDPrefix))
	if err != nil {
		return nil, nil
	}

	injection, err := p.injections.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInjectionNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to load address injection")
	}

	result := normalizeInjection(injection)

	return p.writer.createOrUpdate(ctx, addressInput{
		Address: result.Value,
		Key:     addresskey.Generate(result),
		Meta: entity.AddressMeta{
			Provider: entity.ProviderInfo{Name: constants.InjectionsProvider},
			Value:    result.Value,
			Data:     result.Data,
		},
	}, query, p.params.Helpers, p.params.Provenance)
}

// normalizeInjection maps an imported raw row onto the common normalized
// shape. The display value is assembled from whatever components the import
// carried.
func normalizeInjection(injection *entity.AddressInjection) *entity.NormalizedResult {
	data := entity.AddressData{
		Country:    injection.Country,
		Region:     injection.Region,
		Area:       injection.Area,
		City:       injection.City,
		Settlement: injection.Settlement,
		Street:     injection.Street,
		House:      injection.House,
		Block:      injection.Block,
	}

	components := []string{
		injection.Country,
		injection.Region,
		injection.Area,
		injection.City,
		injection.Settlement,
		injection.Street,
		injection.House,
		injection.Block,
	}
	parts := make([]string, 0, len(components))
	for _, c := range components {
		if strings.TrimSpace(c) != "" {
			parts = append(parts, strings.TrimSpace(c))
		}
	}

	return &entity.NormalizedResult{
		Value: strings.Join(parts, ", "),
		Data:  data,
	}
}
