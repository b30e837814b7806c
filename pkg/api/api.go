package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/omondijeff/pension-pilot-mail-service/pkg/config"
	"github.com/omondijeff/pension-pilot-mail-service/pkg/metrics"
	"github.com/omondijeff/pension-pilot-mail-service/pkg/system"
)

// APIController is implemented by every package exposing HTTP routes.
type APIController interface {
	BasePath() string
	Register(rg *gin.RouterGroup) error
	Handlers() []gin.HandlerFunc
}

// Server wraps the gin engine with the middleware stack every route shares.
type Server struct {
	gin    *gin.Engine
	config config.Config
}

// NewServer builds the HTTP server: request logging and panic recovery via
// zap, CORS restricted to the configured front-end origins, the health
// endpoint and Prometheus metrics.
func NewServer(log *zap.Logger, cfg config.Config, debug bool) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(log, time.RFC3339, true),
		ginzap.RecoveryWithZap(log, true),
		system.RequestLogger(log.Sugar()),
	)

	engine.Use(
		cors.New(cors.Config{
			AllowOrigins: cfg.Frontend.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}),
	)

	if len(cfg.Server.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.Server.TrustedProxies)
	}

	s := &Server{
		gin:    engine,
		config: cfg,
	}

	engine.GET("health", s.getHealth)
	engine.GET("metrics", gin.WrapH(metrics.MetricsHandler()))

	return s
}

// RegisterAll mounts the given controllers on the engine.
func (s *Server) RegisterAll(controllers []APIController) error {
	for _, c := range controllers {
		rg := s.gin.Group(c.BasePath(), c.Handlers()...)
		if err := c.Register(rg); err != nil {
			return err
		}
	}
	return nil
}

// Listen blocks serving HTTP on the configured address.
func (s *Server) Listen() error {
	return s.gin.Run(s.config.Server.ListenAddress)
}

// Engine exposes the underlying gin engine, for tests.
func (s *Server) Engine() *gin.Engine {
	return s.gin
}

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
