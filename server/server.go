package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contact-intake/config"
	"contact-intake/logger"
	"contact-intake/metrics"
	"contact-intake/service"
)

const Version = "1.0.0"

type Server struct {
	router  *gin.Engine
	config  *config.Config
	contact *service.ContactService
	metrics *metrics.Metrics
	server  *http.Server
}

func NewServer(cfg *config.Config, contact *service.ContactService, m *metrics.Metrics) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(requestLogger(m), recovery())

	s := &Server{
		router:  router,
		config:  cfg,
		contact: contact,
		metrics: m,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	// /api/contact is the path the landing pages already post to.
	for _, path := range []string{"/contact", "/api/contact"} {
		g := s.router.Group(path, noStoreHeaders())
		g.POST("", s.submitContact)
		g.OPTIONS("", s.contactPreflight)
	}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	addr := s.config.Addr()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	log := logger.L()
	log.Info("server starting",
		zap.String("addr", addr),
		zap.String("environment", s.config.App.Env),
		logger.Provider(s.config.Mail.Provider),
	)
	if s.config.Credential() == "" {
		log.Warn("email provider credential not set, submissions will not be delivered",
			zap.String("credential_env", s.config.Mail.CredentialEnv))
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
