// Package impl contains the concrete implementations of the usecases.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"addrsvc/internal/domain/entity"
	"addrsvc/internal/domain/repository"
	"addrsvc/internal/domain/service"
	"addrsvc/internal/infra/observability"
	"addrsvc/internal/usecase"
)

// searchPlugin is one resolution strategy. IsEnabled must be pure and
// side-effect free; Prepare binds the per-request context and returns the
// bound instance so shared plugins stay safe under concurrent requests.
type searchPlugin interface {
	Name() string
	IsEnabled(query string, params *usecase.SearchParams) bool
	Prepare(params *usecase.SearchParams) searchPlugin
	Search(ctx context.Context, query string) (*entity.Address, error)
}

// searchService dispatches a query across the fixed, ordered plugin chain.
type searchService struct {
	plugins []searchPlugin
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewSearchService wires the resolution pipeline. The plugin order is a
// deliberate constant: identifier-shaped and cache-hit lookups are cheap and
// exact, so they run before anything that talks to an external provider.
func NewSearchService(
	addresses repository.AddressRepository,
	sources repository.AddressSourceRepository,
	injections repository.AddressInjectionRepository,
	txManager repository.TransactionManager,
	providers service.ProviderSelector,
	publisher service.EventPublisher,
	metrics *observability.Metrics,
	logger *slog.Logger,
) usecase.SearchUsecase {
	writer := &addressWriter{
		addresses: addresses,
		sources:   sources,
		tx:        txManager,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}

	return &searchService{
		plugins: []searchPlugin{
			&addressKeyPlugin{addresses: addresses, logger: logger},
			&sourceCachePlugin{addresses: addresses, sources: sources, logger: logger},
			&fiasIDPlugin{providers: providers, writer: writer, logger: logger},
			&placeIDPlugin{providers: providers, writer: writer, logger: logger},
			&injectionPlugin{injections: injections, writer: writer, logger: logger},
			&providerPlugin{providers: providers, writer: writer, logger: logger},
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Resolve runs plugins in declared order and returns the first hit. An
// eligible plugin that finds nothing hands over to the next strategy;
// identifier-shaped queries still terminate on a miss because the free-text
// catch-all refuses them. No eligible plugin producing a result means no
// match.
func (s *searchService) Resolve(ctx context.Context, query string, params *usecase.SearchParams) (*entity.Address, error) {
	query = strings.TrimSpace(query)
	if params == nil {
		params = &usecase.SearchParams{}
	}

	start := time.Now()
	defer func() {
		s.metrics.ObserveResolveDuration(time.Since(start))
	}()

	for _, plugin := range s.plugins {
		if !plugin.IsEnabled(query, params) {
			continue
		}

		address, err := plugin.Prepare(params).Search(ctx, query)
		if err != nil {
			s.metrics.ObserveResolution(plugin.Name(), "error")

			return nil, err
		}
		if address != nil {
			s.metrics.ObserveResolution(plugin.Name(), "hit")
			s.logger.Debug("address resolved",
				slog.String("plugin", plugin.Name()),
				slog.String("addressId", address.ID.String()),
			)

			return address, nil
		}

		s.metrics.ObserveResolution(plugin.Name(), "miss")
	}

	return nil, nil
}
