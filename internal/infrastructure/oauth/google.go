// Package oauth implements federated sign-in providers.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/codetutor/tutor-api/internal/core/domain"
)

const (
	providerGoogle     = "google"
	defaultUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Endpoint and UserInfoURL default to Google's production URLs.
	Endpoint    oauth2.Endpoint
	UserInfoURL string
}

// Google is a ports.IdentityProvider for Google accounts.
type Google struct {
	oauth       *oauth2.Config
	userInfoURL string
}

func NewGoogle(cfg GoogleConfig) *Google {
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = endpoints.Google
	}
	userInfo := cfg.UserInfoURL
	if userInfo == "" {
		userInfo = defaultUserInfoURL
	}
	return &Google{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: userInfo,
	}
}

func (g *Google) Name() string {
	return providerGoogle
}

func (g *Google) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type googleUserInfo struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// Exchange redeems the authorization code and reads the user's verified
// e-mail from the userinfo endpoint.
func (g *Google) Exchange(ctx context.Context, code string) (domain.FederatedIdentity, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return domain.FederatedIdentity{}, fmt.Errorf("%w: google code exchange: %v", domain.ErrUnauthenticated, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return domain.FederatedIdentity{}, fmt.Errorf("build userinfo request: %w", err)
	}

	res, err := g.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return domain.FederatedIdentity{}, fmt.Errorf("google userinfo: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return domain.FederatedIdentity{}, fmt.Errorf("google userinfo status %d: %s", res.StatusCode, body)
	}

	var info googleUserInfo
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return domain.FederatedIdentity{}, fmt.Errorf("decode google userinfo: %w", err)
	}

	return domain.FederatedIdentity{
		Provider:      providerGoogle,
		Subject:       info.Subject,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
	}, nil
}
