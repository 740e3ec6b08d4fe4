package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/metacore-io/metacore/internal/catalog"
	"github.com/metacore-io/metacore/internal/config"
	"github.com/metacore-io/metacore/internal/lifecycle"
	"github.com/metacore-io/metacore/internal/logger"
	"github.com/metacore-io/metacore/internal/schema"
	"github.com/metacore-io/metacore/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("metacored")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := log.WithContext(context.Background())

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if cfg.Storage.DB.MigrateOnStart {
		if err := db.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("error running system table migrations")
		}
	}

	repo := store.NewCatalogRepository(db, log)
	sync := schema.NewSynchronizer(log)

	env, err := catalog.NewEnvironment(ctx, db, repo, sync, cfg.Engine, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading catalog environment")
	}

	hooks := lifecycle.NewHookRegistry()
	env.BindAutomations(hooks)

	if _, err := lifecycle.NewEngine(db, env, sync, cfg.Engine,
		hooks, lifecycle.Collaborators{}, log); err != nil {
		log.Fatal().Err(err).Msg("error building record engine")
	}

	log.Info().
		Str("tenant", env.Tenant()).
		Str("environment_id", env.ID().String()).
		Uint64("catalog_version", env.Snapshot().Version()).
		Int("type_count", len(env.Snapshot().Types())).
		Msg("persistence core ready")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("shutting down")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
