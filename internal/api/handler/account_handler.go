package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codetutor/tutor-api/internal/core/ports"
)

type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Me returns the profile of the authenticated learner.
//
// @Summary      Current profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  errorBody
// @Router       /users/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account.Profile())
}

// UpdateMe edits the optional profile fields.
//
// @Summary      Update profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.Profile
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      422   {object}  errorBody
// @Router       /users/me [patch]
func (h *AccountHandler) UpdateMe(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.accounts.UpdateProfile(c.Request().Context(), account, req.toPatch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated.Profile())
}

// Vault stores the learner's own chat provider key.
//
// @Summary      Store provider key
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      vaultRequest  true  "Provider key"
// @Success      200   {object}  statusResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /vault [post]
func (h *AccountHandler) Vault(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req vaultRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}

	if err := h.accounts.UpdateVault(c.Request().Context(), account, req.APIKey); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "updated"})
}
