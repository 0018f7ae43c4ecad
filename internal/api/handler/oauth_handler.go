package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/codetutor/tutor-api/internal/api/metrics"
	"github.com/codetutor/tutor-api/internal/core/ports"
)

// OAuthHandler runs the authorization-code login flow against one identity
// provider and hands the resulting bearer token to the web client.
type OAuthHandler struct {
	provider    ports.IdentityProvider
	states      ports.StateStore
	accounts    ports.AccountService
	frontendURL string
	log         zerolog.Logger
}

func NewOAuthHandler(
	provider ports.IdentityProvider,
	states ports.StateStore,
	accounts ports.AccountService,
	frontendURL string,
	log zerolog.Logger,
) *OAuthHandler {
	return &OAuthHandler{
		provider:    provider,
		states:      states,
		accounts:    accounts,
		frontendURL: frontendURL,
		log:         log,
	}
}

// Login redirects the browser to the provider's consent page.
//
// @Summary      Start federated login
// @Tags         auth
// @Success      307  {string}  string  "redirect"
// @Failure      500  {object}  errorBody
// @Router       /auth/google/login [get]
func (h *OAuthHandler) Login(c echo.Context) error {
	state, err := h.states.Issue(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusTemporaryRedirect, h.provider.AuthCodeURL(state))
}

// Callback completes the flow and redirects to the web client with a token.
//
// @Summary      Federated login callback
// @Tags         auth
// @Param        state  query  string  true  "Opaque state issued by /login"
// @Param        code   query  string  true  "Authorization code"
// @Success      307  {string}  string  "redirect"
// @Failure      400  {object}  errorBody
// @Failure      401  {object}  errorBody
// @Router       /auth/google/callback [get]
func (h *OAuthHandler) Callback(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.states.Consume(ctx, c.QueryParam("state")); err != nil {
		return err
	}
	if denied := c.QueryParam("error"); denied != "" {
		metrics.LoginsTotal.WithLabelValues(h.provider.Name(), "failure").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "authorization denied: "+denied)
	}
	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing authorization code")
	}

	identity, err := h.provider.Exchange(ctx, code)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(h.provider.Name(), "failure").Inc()
		return err
	}

	session, err := h.accounts.FederatedLogin(ctx, identity)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(h.provider.Name(), "failure").Inc()
		return err
	}
	if session.Created {
		metrics.RegistrationsTotal.WithLabelValues(h.provider.Name()).Inc()
	}
	metrics.LoginsTotal.WithLabelValues(h.provider.Name(), "success").Inc()
	h.log.Info().
		Str("account_id", session.Account.ID).
		Str("provider", h.provider.Name()).
		Bool("created", session.Created).
		Msg("federated login")

	target, err := tokenRedirect(h.frontendURL, session.Token)
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusTemporaryRedirect, target)
}

func tokenRedirect(frontendURL, token string) (string, error) {
	u, err := url.Parse(frontendURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
