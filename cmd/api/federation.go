package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/codetutor/tutor-api/internal/api/handler"
	"github.com/codetutor/tutor-api/internal/core/ports"
	redisstore "github.com/codetutor/tutor-api/internal/infrastructure/db/redis"
	"github.com/codetutor/tutor-api/internal/infrastructure/oauth"
	"github.com/codetutor/tutor-api/internal/pkg/config"
)

// federation holds the Google sign-in wiring. Redis only backs the OAuth
// state, so it is dialled only when sign-in is configured.
type federation struct {
	provider ports.IdentityProvider
	states   ports.StateStore
	pinger   handler.Pinger
	close    func()
}

func openFederation(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*federation, error) {
	if !cfg.OAuth.GoogleEnabled() {
		log.Info().Msg("google sign-in disabled: GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_REDIRECT_URL not all set")
		return &federation{close: func() {}}, nil
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return nil, err
	}

	return &federation{
		provider: oauth.NewGoogle(oauth.GoogleConfig{
			ClientID:     cfg.OAuth.GoogleClientID,
			ClientSecret: cfg.OAuth.GoogleClientSecret,
			RedirectURL:  cfg.OAuth.GoogleRedirectURL,
		}),
		states: redisstore.NewStateStore(rdb, cfg.OAuth.StateTTL),
		pinger: redisstore.NewPinger(rdb),
		close: func() {
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("redis close")
			}
		},
	}, nil
}

// readiness lists the dependencies /health/ready pings.
func readiness(st *store, fed *federation) map[string]handler.Pinger {
	deps := map[string]handler.Pinger{st.name: st.pinger}
	if fed.pinger != nil {
		deps["redis"] = fed.pinger
	}
	return deps
}
