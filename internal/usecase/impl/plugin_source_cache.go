package impl

import (
	"context"
	"log/slog"

	"addrsvc/internal/domain/entity"
	"addrsvc/internal/domain/repository"
	"addrsvc/internal/errors"
	"addrsvc/internal/usecase"
)

// sourceCachePlugin answers queries that were resolved before. It runs ahead
// of every provider-backed strategy: a hit on the source index makes the
// whole resolution free.
type sourceCachePlugin struct {
	addresses repository.AddressRepository
	sources   repository.AddressSourceRepository
	logger    *slog.Logger
	params    *usecase.SearchParams
}

func (p *sourceCachePlugin) Name() string { return "sourceCache" }

func (p *sourceCachePlugin) IsEnabled(query string, _ *usecase.SearchParams) bool {
	return query != ""
}

func (p *sourceCachePlugin) Prepare(params *usecase.SearchParams) searchPlugin {
	cloned := *p
	cloned.params = params

	return &cloned
}

func (p *sourceCachePlugin) Search(ctx context.Context, query string) (*entity.Address, error) {
	src := sourceCacheKey(query, p.params.Helpers)

	source, err := p.sources.FindBySource(ctx, src)
	if err != nil {
		if errors.Is(err, repository.ErrSourceNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to look up source index")
	}

	address, err := p.addresses.FindByID(ctx, source.AddressID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			// The owning address was soft-deleted; the index entry no
			// longer answers anything.
			p.logger.Debug("source index entry points to a deleted address",
				slog.String("source", src),
			)

			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to load address for source")
	}

	return address, nil
}
