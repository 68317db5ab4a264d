package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"itinero/config"
	"itinero/internal/delivery"
	"itinero/internal/delivery/http"
	"itinero/internal/delivery/http/middleware"
	"itinero/internal/delivery/http/router/handler"
	"itinero/internal/domain/service"
	"itinero/internal/infra/auth"
	"itinero/internal/infra/enrichment/openai"
	"itinero/internal/infra/geocoding"
	"itinero/internal/infra/geocoding/nominatim"
	logs "itinero/internal/infra/log"
	"itinero/internal/infra/persistence/postgres"
	"itinero/internal/infra/qrcode"
	"itinero/internal/infra/routing/osrm"
	"itinero/internal/usecase/impl"

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
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewRouteRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewJWTService,
			newGeocoder,
			newRoutePlanner,
			newNarrator,
			newQRCodeService,
		),
	)
}

func newRoutePlanner(cfg *config.Config, logger *slog.Logger) service.RoutePlanner {
	return osrm.New(cfg.Routing, logger)
}

func newNarrator(cfg *config.Config, logger *slog.Logger) service.Narrator {
	return openai.New(cfg.Enrichment, logger)
}

// newGeocoder builds the Nominatim gateway wrapped in the TTL cache.
func newGeocoder(cfg *config.Config, logger *slog.Logger) service.Geocoder {
	base := nominatim.New(cfg.Geocoding, logger)

	var ttl time.Duration
	if cfg.Geocoding != nil {
		ttl = cfg.Geocoding.CacheTTL
	}

	return geocoding.WithCache(base, ttl)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	return qrcode.NewQRCodeService(cfg.QRCode)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewEnrichmentService,
			impl.NewTripService,
			impl.NewItineraryService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewGeocodingHandler,
			handler.NewTripHandler,
			handler.NewItineraryHandler,
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
