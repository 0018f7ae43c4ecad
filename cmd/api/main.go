// @title           Tutor API
// @version         1.0
// @description     Accounts, lesson progress sync and the AI chat proxy of the coding tutor.
// @BasePath        /
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

	"github.com/rs/zerolog"

	"github.com/codetutor/tutor-api/internal/api"
	"github.com/codetutor/tutor-api/internal/core/service"
	"github.com/codetutor/tutor-api/internal/infrastructure/llm"
	"github.com/codetutor/tutor-api/internal/pkg/config"
	"github.com/codetutor/tutor-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "tutor-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := openStore(ctx, cfg, logger.Component("store"))
	if err != nil {
		return err
	}
	defer store.close()

	fed, err := openFederation(ctx, cfg, logger.Component("oauth"))
	if err != nil {
		return err
	}
	defer fed.close()

	sessions := service.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL)
	accounts := service.NewAccountService(store.accounts, sessions, logger.Component("accounts"))
	progress := service.NewProgressService(store.progress, logger.Component("progress"))
	arcade := service.NewArcadeService(store.arcade, logger.Component("arcade"))

	completer := llm.NewClient(llm.Config{
		Endpoint: cfg.AI.Endpoint,
		Referer:  cfg.AI.Referer,
		Timeout:  cfg.AI.Timeout,
	})
	chat := service.NewChatService(completer, service.ChatConfig{
		ServerKey:    cfg.AI.ServerKey,
		DefaultModel: cfg.AI.DefaultModel,
	}, logger.Component("chat"))

	e := api.NewRouter(api.Deps{
		Accounts:      accounts,
		Progress:      progress,
		Arcade:        arcade,
		Chat:          chat,
		OAuthProvider: fed.provider,
		OAuthStates:   fed.states,
		FrontendURL:   cfg.OAuth.FrontendURL,
		Readiness:     readiness(store, fed),
		CORSOrigins:   cfg.CORSOrigins,
		Log:           logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", store.name).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
