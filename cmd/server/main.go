package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kabaddi-live/scoring-service/internal/config"
	"github.com/kabaddi-live/scoring-service/internal/engine"
	"github.com/kabaddi-live/scoring-service/internal/handler"
	"github.com/kabaddi-live/scoring-service/internal/logger"
	"github.com/kabaddi-live/scoring-service/internal/repository"
	"github.com/kabaddi-live/scoring-service/internal/repository/postgres"
	"github.com/kabaddi-live/scoring-service/internal/rules"
	"github.com/kabaddi-live/scoring-service/internal/service"
)

func main() {
	// Load application config
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := repository.New(ctx, cfg, &appLogger)
	if err != nil {
		log.Fatalf("❌ Postgres connection failed: %v", err)
	}
	defer repo.Close()

	if err := postgres.Migrate(repo.Pool()); err != nil {
		log.Fatalf("❌ Migrations failed: %v", err)
	}

	pool := repo.Pool()
	teams := postgres.NewTeamRepository(pool)
	matches := postgres.NewMatchRepository(pool)
	players := postgres.NewPlayerRepository(pool)
	events := postgres.NewEventRepository(pool)
	txManager := postgres.NewTxManager(pool)
	pinger := postgres.NewPinger(pool)

	ruleCfg := rules.Config{SuperTackleThreshold: cfg.Match.SuperTackleThreshold}
	rotation := engine.RotationPolicy(cfg.Match.RotationPolicy)

	teamSvc := service.NewTeamService(teams, players, appLogger)
	matchSvc := service.NewMatchService(matches, players, events, txManager, ruleCfg, rotation, appLogger)
	shootoutSvc := service.NewShootoutService(matches, players, rand.New(rand.NewSource(time.Now().UnixNano())), appLogger)

	if cfg.Logger.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	handler.Register(r, pinger, teamSvc, matchSvc, shootoutSvc)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r}
	go func() {
		appLogger.Info().Str("addr", cfg.Server.Addr).Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	appLogger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
