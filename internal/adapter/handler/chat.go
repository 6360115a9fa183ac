package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/video-chat/errors"
	chatdto "github.com/johnquangdev/video-chat/internal/adapter/dto/chat"
	"github.com/johnquangdev/video-chat/internal/usecase/chat"
)

// Chat handles conversational endpoints
type Chat struct {
	service chat.Service
	logger  *zap.Logger
}

// NewChat creates a chat handler
func NewChat(service chat.Service, logger *zap.Logger) *Chat {
	return &Chat{service: service, logger: logger}
}

// Ask answers a question about a processed video.
// POST /v1/chat
func (h *Chat) Ask(c echo.Context) error {
	var req chatdto.AskRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload().WithDetail("validation", err.Error()))
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	answer, err := h.service.Ask(c.Request().Context(), sessionID, req.VideoID, req.Question)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, chatdto.AskResponse{
		SessionID: sessionID,
		Answer:    answer,
	})
}

// History lists a session's turns in append order.
// GET /v1/chat/sessions/:id/history
func (h *Chat) History(c echo.Context) error {
	sessionID := c.Param("id")
	if sessionID == "" {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	turns, err := h.service.History(c.Request().Context(), sessionID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := chatdto.HistoryResponse{
		SessionID: sessionID,
		Turns:     make([]chatdto.TurnResponse, 0, len(turns)),
	}
	for _, turn := range turns {
		resp.Turns = append(resp.Turns, chatdto.TurnResponse{
			Role:      turn.Role,
			Text:      turn.Text,
			CreatedAt: turn.CreatedAt,
		})
	}
	return HandleSuccess(h.logger, c, resp)
}

// Clear drops a session's history.
// DELETE /v1/chat/sessions/:id
func (h *Chat) Clear(c echo.Context) error {
	sessionID := c.Param("id")
	if sessionID == "" {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	if err := h.service.ClearSession(c.Request().Context(), sessionID); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{"session_id": sessionID})
}
