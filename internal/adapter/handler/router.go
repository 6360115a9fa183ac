package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/video-chat/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg          *config.Config
	videoHandler *Video
	chatHandler  *Chat
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, videoHandler *Video, chatHandler *Chat) *Router {
	return &Router{
		cfg:          cfg,
		videoHandler: videoHandler,
		chatHandler:  chatHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	v1 := e.Group("/v1")

	rt.setupVideoRoutes(v1)
	rt.setupChatRoutes(v1)
}

func (rt *Router) setupVideoRoutes(g *echo.Group) {
	videoGroup := g.Group("/videos")
	videoGroup.POST("/process", rt.videoHandler.Process)
}

func (rt *Router) setupChatRoutes(g *echo.Group) {
	chatGroup := g.Group("/chat")
	chatGroup.POST("", rt.chatHandler.Ask)
	chatGroup.GET("/sessions/:id/history", rt.chatHandler.History)
	chatGroup.DELETE("/sessions/:id", rt.chatHandler.Clear)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}
