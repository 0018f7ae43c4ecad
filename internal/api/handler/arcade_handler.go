package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codetutor/tutor-api/internal/core/ports"
)

type ArcadeHandler struct {
	arcade ports.ArcadeService
}

func NewArcadeHandler(arcade ports.ArcadeService) *ArcadeHandler {
	return &ArcadeHandler{arcade: arcade}
}

// RecordScore submits a score; only the best one per mode is kept.
//
// @Summary      Submit arcade score
// @Tags         arcade
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      arcadeScoreRequest  true  "Score"
// @Success      200   {object}  domain.ArcadeScore
// @Failure      401   {object}  errorBody
// @Failure      422   {object}  errorBody
// @Router       /arcade/scores [post]
func (h *ArcadeHandler) RecordScore(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req arcadeScoreRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	best, err := h.arcade.RecordScore(c.Request().Context(), account, req.Mode, *req.Score)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, best)
}

// ListScores returns the best score of every mode played.
//
// @Summary      List arcade scores
// @Tags         arcade
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.ArcadeScore
// @Failure      401  {object}  errorBody
// @Router       /arcade/scores [get]
func (h *ArcadeHandler) ListScores(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	scores, err := h.arcade.ListScores(c.Request().Context(), account)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, scores)
}
