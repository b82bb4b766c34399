package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/seladavis/forgebot/internal/config"
	"github.com/seladavis/forgebot/internal/game"
	"github.com/seladavis/forgebot/internal/metrics"
)

// redisPinger is the slice of the Redis client needed for readiness checks.
type redisPinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo     *echo.Echo
	config   *config.Config
	game     *game.Service
	clock    clockwork.Clock
	registry *prometheus.Registry
	metrics  *metrics.GameMetrics
	redis    redisPinger

	startTime time.Time
	blacklist map[string]struct{}
	admins    map[string]struct{}
}

func NewServer(cfg *config.Config, gameSvc *game.Service, redisClient redisPinger, registry *prometheus.Registry, gameMetrics *metrics.GameMetrics, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	blacklist := make(map[string]struct{}, len(cfg.ChannelBlacklist))
	for _, name := range cfg.ChannelBlacklist {
		// Entries may be written with a leading '#', channel_name arrives without one.
		blacklist[strings.TrimPrefix(strings.TrimSpace(name), "#")] = struct{}{}
	}

	admins := make(map[string]struct{}, len(cfg.AdminUsers))
	for _, name := range cfg.AdminUsers {
		admins[strings.TrimSpace(name)] = struct{}{}
	}

	srv := &Server{
		echo:      e,
		config:    cfg,
		game:      gameSvc,
		clock:     clock,
		registry:  registry,
		metrics:   gameMetrics,
		redis:     redisClient,
		startTime: clock.Now(),
		blacklist: blacklist,
		admins:    admins,
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
