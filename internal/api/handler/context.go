package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codetutor/tutor-api/internal/api/middleware"
	"github.com/codetutor/tutor-api/internal/core/domain"
)

// currentAccount returns the account injected by the auth middleware. Routes
// behind RequireAccount always have one; a nil here means the route was
// mounted without it.
func currentAccount(c echo.Context) (*domain.Account, error) {
	account := middleware.AccountFrom(c)
	if account == nil {
		return nil, domain.ErrUnauthenticated
	}
	return account, nil
}

func invalidPayload() error {
	return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
}
