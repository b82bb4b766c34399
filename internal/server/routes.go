package server

import (
	"github.com/labstack/echo/v4"

	"github.com/seladavis/forgebot/internal/metrics"
)

const (
	webhookRatePerSecond = 5
	webhookBurst         = 10
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler(s.registry)))
	s.echo.GET("/version", s.handleVersion)

	// Outgoing webhook from the chat platform
	s.echo.POST("/", s.handleWebhook, newRateLimiter(webhookRatePerSecond, webhookBurst))
}
