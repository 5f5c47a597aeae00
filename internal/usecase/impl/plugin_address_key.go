package impl

import (
	"context"
	"log/slog"
	"strings"

	"addrsvc/internal/domain/entity"
	"addrsvc/internal/domain/repository"
	"addrsvc/internal/errors"
	"addrsvc/internal/usecase"

	"github.com/google/uuid"
)

// addressKeyPlugin serves `key:<id>` queries with a direct point lookup of an
// already-persisted address. No provider is consulted and nothing is written.
type addressKeyPlugin struct {
	addresses repository.AddressRepository
	logger    *slog.Logger
	params    *usecase.SearchParams
}

func (p *addressKeyPlugin) Name() string { return "addressKey" }

func (p *addressKeyPlugin) IsEnabled(query string, _ *usecase.SearchParams) bool {
	return strings.HasPrefix(query, addressKeyPrefix) &&
		strings.TrimPrefix(query, addressKeyPrefix) != ""
}

func (p *addressKeyPlugin) Prepare(params *usecase.SearchParams) searchPlugin {
	cloned := *p
	cloned.params = params

	return &cloned
}

func (p *addressKeyPlugin) Search(ctx context.Context, query string) (*entity.Address, error) {
	id, err := uuid.Parse(strings.TrimPrefix(query, addressKeyPrefix))
	if err != nil {
		// A non-uuid identifier cannot name a persisted address.
		return nil, nil
	}

	address, err := p.addresses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to find address by id")
	}

	return address, nil
}
