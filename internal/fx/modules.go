package fx

import (
	"distance-tracker/internal/config"
	"distance-tracker/internal/database"
	"distance-tracker/internal/feed"
	"distance-tracker/internal/imaging"
	"distance-tracker/internal/logger"
	"distance-tracker/internal/reconcile"
	"distance-tracker/internal/repository"
	"distance-tracker/internal/server"
	"distance-tracker/internal/service"
	"distance-tracker/internal/storage"

	"go.uber.org/fx"
)

func ProvideNormalizer(cfg *config.Config) *imaging.Normalizer {
	return imaging.NewNormalizer(cfg.ProofMaxDimension, cfg.ProofMaxBytes)
}

func AsPersonStore(r *repository.PersonRepository) service.PersonStore { return r }

func AsLedgerStore(r *repository.LedgerRepository) service.LedgerStore { return r }

func AsRefSource(r *repository.LedgerRepository) reconcile.RefSource { return r }

func AsObjectStore(c *storage.BucketClient) storage.ObjectStore { return c }

func AsImageNormalizer(n *imaging.Normalizer) service.ImageNormalizer { return n }

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewPersonRepository),
	fx.Provide(repository.NewLedgerRepository),
	fx.Provide(AsPersonStore),
	fx.Provide(AsLedgerStore),
	fx.Provide(AsRefSource),
	// object store and image pipeline
	fx.Provide(storage.NewBucketClient),
	fx.Provide(AsObjectStore),
	fx.Provide(ProvideNormalizer),
	fx.Provide(AsImageNormalizer),
	// change feed
	fx.Provide(feed.NewNotifier),
	// svc
	fx.Provide(service.NewAuthService),
	fx.Provide(service.NewTeamService),
	fx.Provide(service.NewLedgerService),
	fx.Provide(service.NewProofService),
	fx.Provide(service.NewLeaderboardService),
	fx.Provide(service.NewAdminPolicy),
	fx.Provide(reconcile.NewReconciler),
	// server
	fx.Provide(server.New),
)
