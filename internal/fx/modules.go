package fx

import (
	"fmt"

	"scorebook/internal/config"
	"scorebook/internal/database"
	"scorebook/internal/fetch"
	"scorebook/internal/logger"
	"scorebook/internal/server"
	"scorebook/internal/service"
	"scorebook/internal/store"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// ProvideStore selects the storage strategy once at startup: the SQLite
// store in normal operation, the seeded in-memory store in demo mode.
func ProvideStore(cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	if cfg.DemoMode {
		log.Info().Msg("running with in-memory demo store")
		return store.NewDemoStore(log), nil
	}

	db, err := database.New(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store.NewSQLStore(db, log), nil
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(ProvideStore),
	// fetch client
	fx.Provide(fetch.NewClient),
	// svc
	fx.Provide(service.NewImportService),
	fx.Provide(service.NewRecomputeService),
	fx.Provide(service.NewLeaderboardService),
	// server
	fx.Provide(server.New),
)
