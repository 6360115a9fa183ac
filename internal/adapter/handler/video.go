package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/video-chat/errors"
	videodto "github.com/johnquangdev/video-chat/internal/adapter/dto/video"
	"github.com/johnquangdev/video-chat/internal/usecase/transcript"
)

// Video handles video processing endpoints
type Video struct {
	service transcript.Service
	logger  *zap.Logger
}

// NewVideo creates a video handler
func NewVideo(service transcript.Service, logger *zap.Logger) *Video {
	return &Video{service: service, logger: logger}
}

// Process fetches, merges and indexes a video's transcript.
// POST /v1/videos/process
func (h *Video) Process(c echo.Context) error {
	var req videodto.ProcessRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload().WithDetail("validation", err.Error()))
	}

	result, err := h.service.Process(c.Request().Context(), req.URL)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, videodto.ProcessResponse{
		VideoID:  result.VideoID,
		Location: result.Location,
	})
}
