package impl

import (
	"context"
	"log/slog"

	deliverycontext "addrsvc/internal/delivery/context"
	"addrsvc/internal/domain/entity"
	"addrsvc/internal/domain/repository"
	"addrsvc/internal/domain/service"
	"addrsvc/internal/errors"
	"addrsvc/internal/infra/observability"

	"github.com/google/uuid"
)

// addressInput is the assembled payload a plugin hands to the writer.
type addressInput struct {
	Address string
	Key     string
	Meta    entity.AddressMeta
}

// addressWriter is the dedup/cache boundary shared by every plugin that may
// persist a provider result. For a fixed canonical key, repeated resolution
// attempts converge onto one address row and accumulate provenance.
type addressWriter struct {
	addresses repository.AddressRepository
	sources   repository.AddressSourceRepository
	tx        repository.TransactionManager
	publisher service.EventPublisher
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// createOrUpdate looks up the canonical key and either appends the raw query
// as a new source of the existing address or creates the address together
// with its initial source. A uniqueness violation on the key during create
// means a concurrent request won the race; the loser re-reads and appends.
func (w *addressWriter) createOrUpdate(ctx context.Context, in addressInput, rawQuery string, helpers map[string]string, prov entity.Provenance) (*entity.Address, error) {
	src := sourceCacheKey(rawQuery, helpers)

	existing, err := w.addresses.FindByKey(ctx, in.Key)
	switch {
	case err == nil:
		// Known physical address reached via a new raw string. Meta is
		// kept as-is: a later provider hit never overwrites it.
		return w.appendSource(ctx, existing, src, prov)
	case !errors.Is(err, repository.ErrAddressNotFound):
		return nil, errors.Wrap(err, "failed to look up address by key")
	}

	address := &entity.Address{
		ID:      uuid.New(),
		Address: in.Address,
		Key:     in.Key,
		Meta:    in.Meta,
	}
	source := &entity.AddressSource{
		ID:        uuid.New(),
		Source:    src,
		AddressID: address.ID,
		Dv:        prov.Dv,
		Sender:    prov.Sender,
	}

	err = w.tx.Execute(ctx, func(f repository.RepositoryFactory) error {
		if err := f.NewAddressRepository().Create(ctx, address); err != nil {
			return err
		}

		return f.NewAddressSourceRepository().Create(ctx, source)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateAddressKey) {
			winner, findErr := w.addresses.FindByKey(ctx, in.Key)
			if findErr != nil {
				return nil, errors.Wrap(findErr, "failed to re-read address after key collision")
			}

			return w.appendSource(ctx, winner, src, prov)
		}

		return nil, errors.Wrap(err, "failed to create address with source")
	}

	address.Sources = []entity.AddressSource{*source}
	w.metrics.ObserveAddressCreated()
	w.publishCreated(ctx, address, src)

	return address, nil
}

// appendSource records the raw string against an existing address unless the
// string is already mapped. Source mappings are append-only: a source seen
// before is never repointed, even when it belongs to another address.
func (w *addressWriter) appendSource(ctx context.Context, address *entity.Address, src string, prov entity.Provenance) (*entity.Address, error) {
	_, err := w.sources.FindBySource(ctx, src)
	if err == nil {
		return address, nil
	}
	if !errors.Is(err, repository.ErrSourceNotFound) {
		return nil, errors.Wrap(err, "failed to look up address source")
	}

	source := &entity.AddressSource{
		ID:        uuid.New(),
		Source:    src,
		AddressID: address.ID,
		Dv:        prov.Dv,
		Sender:    prov.Sender,
	}
	if err := w.sources.Create(ctx, source); err != nil {
		return nil, errors.Wrap(err, "failed to append address source")
	}

	address.Sources = append(address.Sources, *source)

	return address, nil
}

func (w *addressWriter) publishCreated(ctx context.Context, address *entity.Address, src string) {
	if w.publisher == nil {
		return
	}

	event := &service.AddressCreatedEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		AddressID: address.ID.String(),
		Key:       address.Key,
		Address:   address.Address,
		Provider:  address.Meta.Provider.Name,
		Source:    src,
	}
	if err := w.publisher.PublishAddressCreated(ctx, event); err != nil {
		// Audit events are best effort; a publish failure must not fail
		// the resolution.
		w.logger.Warn("failed to publish address-created event",
			slog.String("addressId", event.AddressID),
			slog.Any("error", err),
		)
	}
}
