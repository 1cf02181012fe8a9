// Command homeworks serves the shared household chore tracker API.
//
// @title                       homeworks API
// @version                     1.0
// @description                 Shared household chore tracker.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kuroneko-hornet/homeworks/internal/api"
	"github.com/kuroneko-hornet/homeworks/internal/core/service"
	"github.com/kuroneko-hornet/homeworks/internal/core/session"
	"github.com/kuroneko-hornet/homeworks/internal/infrastructure/queue"
	"github.com/kuroneko-hornet/homeworks/internal/pkg/config"
	"github.com/kuroneko-hornet/homeworks/pkg/logger"
)

const sessionSweepInterval = time.Minute

func main() {
	// A missing .env file is fine; real deployments set the environment.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Pretty()})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("homeworks stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close(log)

	broker := queue.NewBroker(logger.Component("broker"))

	taxonomySvc := service.NewTaxonomyService(st.taxonomy, broker, logger.Component("taxonomy"))
	historySvc := service.NewHistoryService(st.history, broker, logger.Component("history"))
	profileSvc := service.NewProfileService(st.profiles, broker, logger.Component("profile"))
	authSvc := service.NewAuthService(st.identities, st.revoker, broker, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))

	sessions := session.NewManager(session.Deps{
		History:  historySvc,
		Choices:  taxonomySvc,
		Profiles: profileSvc,
		Palette:  cfg.Palette(),
		Location: cfg.Location(),
		Log:      logger.Component("session"),
	})
	unwatch := sessions.Watch(broker)
	defer unwatch()

	e := api.NewRouter(api.Deps{
		Auth:           authSvc,
		Profiles:       profileSvc,
		Taxonomy:       taxonomySvc,
		History:        historySvc,
		Sessions:       sessions,
		Events:         broker,
		Palette:        cfg.Palette(),
		Location:       cfg.Location(),
		Readiness:      st.readiness,
		OriginPatterns: cfg.FeedOrigins,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return broker.Run(gctx) })
	g.Go(func() error { return sessions.Run(gctx, sessionSweepInterval) })
	g.Go(func() error {
		log.Info().
			Str("addr", srv.Addr).
			Str("backend", cfg.StoreBackend).
			Str("env", cfg.Env).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
