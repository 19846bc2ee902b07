package fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/peggalex/rchkChampionships/internal/api"
	"github.com/peggalex/rchkChampionships/internal/config"
	"github.com/peggalex/rchkChampionships/internal/database"
	"github.com/peggalex/rchkChampionships/internal/logger"
	"github.com/peggalex/rchkChampionships/internal/metrics"
	"github.com/peggalex/rchkChampionships/internal/refdata"
	"github.com/peggalex/rchkChampionships/internal/repository"
	"github.com/peggalex/rchkChampionships/internal/server"
	"github.com/peggalex/rchkChampionships/internal/service"
)

func ProvideFetchClient(cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) *api.Client {
	return api.NewClient(cfg.RiotAPIKey, logger,
		api.WithRetryPolicy(cfg.MaxRetries, cfg.RetryDelay),
		api.WithMetrics(m),
	)
}

func ProvideReferenceCache(riot *api.RiotClient, cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) *refdata.Cache {
	return refdata.NewCache(riot, cfg.VersionRefreshTTL, m, logger)
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	metrics.Module,
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewPersonRepository),
	fx.Provide(repository.NewMatchRepository),
	// api client
	fx.Provide(ProvideFetchClient),
	fx.Provide(
		api.NewRiotClient,
		fx.Annotate(func(c *api.RiotClient) *api.RiotClient { return c }, fx.As(new(service.MatchSource)), fx.As(new(server.RateLimitSource))),
	),
	fx.Provide(
		ProvideReferenceCache,
		fx.Annotate(func(c *refdata.Cache) *refdata.Cache { return c }, fx.As(new(service.Resolver)), fx.As(new(server.VersionSource))),
	),
	// svc
	fx.Provide(service.NewIngestService),
	fx.Provide(service.NewBatchService),
	fx.Provide(service.NewMatchService),
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewPersonService),
	// server
	fx.Provide(server.NewTrackerServer),
)
