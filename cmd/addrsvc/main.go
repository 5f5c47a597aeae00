package main

import (
	"context"
	"log/slog"
	"os"

	"addrsvc/config"
	"addrsvc/internal/delivery"
	"addrsvc/internal/delivery/http"
	"addrsvc/internal/delivery/http/middleware"
	"addrsvc/internal/delivery/http/router/handler"
	"addrsvc/internal/domain/service"
	logs "addrsvc/internal/infra/log"
	"addrsvc/internal/infra/observability"
	"addrsvc/internal/infra/persistence/postgres"
	"addrsvc/internal/infra/provider"
	"addrsvc/internal/infra/pubsub"
	"addrsvc/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		observability.NewMetrics,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewAddressRepository,
			postgres.NewAddressSourceRepository,
			postgres.NewInjectionRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		pubsub.Module,
		fx.Provide(
			newProviderSelector,
		),
	)
}

// newProviderSelector builds the configured geocoding backends.
func newProviderSelector(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) service.ProviderSelector {
	return provider.NewSelector(cfg, metrics, logger)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewSearchService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAddressHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
