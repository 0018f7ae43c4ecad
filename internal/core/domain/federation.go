package domain

import "errors"

var ErrOAuthState = errors.New("invalid or expired oauth state")

// FederatedIdentity is what an external identity provider vouches for.
type FederatedIdentity struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
}
