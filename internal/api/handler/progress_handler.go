package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/codetutor/tutor-api/internal/api/metrics"
	"github.com/codetutor/tutor-api/internal/core/ports"
)

type ProgressHandler struct {
	progress ports.ProgressService
	log      zerolog.Logger
}

func NewProgressHandler(progress ports.ProgressService, log zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{progress: progress, log: log}
}

// Push merges a batch of lesson states into the ledger.
// A completed lesson never goes back to started.
//
// @Summary      Push lesson progress
// @Tags         sync
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []progressItem  true  "Lesson states"
// @Success      200   {object}  statusResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      422   {object}  errorBody
// @Router       /sync/push [post]
func (h *ProgressHandler) Push(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req pushRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req.Items); err != nil {
		return invalidPayload()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.progress.Push(c.Request().Context(), account, req.toUpdates())
	if err != nil {
		return err
	}

	metrics.SyncItemsTotal.WithLabelValues("inserted").Add(float64(res.Inserted))
	metrics.SyncItemsTotal.WithLabelValues("completed").Add(float64(res.Completed))
	metrics.SyncItemsTotal.WithLabelValues("unchanged").Add(float64(res.Unchanged))
	h.log.Debug().
		Str("account_id", account.ID).
		Int("items", len(req.Items)).
		Int("inserted", res.Inserted).
		Int("completed", res.Completed).
		Msg("progress pushed")

	return c.JSON(http.StatusOK, statusResponse{Status: "synced"})
}

// Pull returns every lesson record of the learner, ordered by lesson id.
//
// @Summary      Pull lesson progress
// @Tags         sync
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Progress
// @Failure      401  {object}  errorBody
// @Router       /sync/pull [get]
func (h *ProgressHandler) Pull(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	records, err := h.progress.Pull(c.Request().Context(), account)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}
