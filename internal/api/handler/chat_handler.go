package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/codetutor/tutor-api/internal/api/metrics"
	"github.com/codetutor/tutor-api/internal/api/middleware"
	"github.com/codetutor/tutor-api/internal/core/domain"
	"github.com/codetutor/tutor-api/internal/core/ports"
)

type ChatHandler struct {
	chat ports.ChatService
}

func NewChatHandler(chat ports.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Chat relays a conversation to the AI provider. Anonymous callers can only
// use the server key; signed-in callers fall back to their vault key.
//
// @Summary      Chat with the tutor
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      chatRequest  true  "Conversation"
// @Success      200   {object}  chatResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      422   {object}  errorBody
// @Failure      500   {object}  errorBody
// @Router       /api/ai/chat [post]
func (h *ChatHandler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	start := time.Now()
	reply, err := h.chat.Chat(c.Request().Context(), middleware.AccountFrom(c), ports.ChatInput{
		Model:    req.Model,
		Messages: req.messages(),
	})
	metrics.ChatRequestsTotal.WithLabelValues(chatResult(err)).Inc()
	if err != nil {
		if !errors.Is(err, domain.ErrNoCredential) && !errors.Is(err, domain.ErrValidation) {
			metrics.ChatDuration.Observe(time.Since(start).Seconds())
		}
		return err
	}
	metrics.ChatDuration.Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, chatResponse{Response: reply})
}

func chatResult(err error) string {
	var upstream *domain.UpstreamError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNoCredential):
		return "no_credential"
	case errors.As(err, &upstream):
		return "upstream_error"
	default:
		return "error"
	}
}
