// Package api is the HTTP layer: request binding and validation, error
// mapping, and the observability and liveness endpoints. All prediction
// logic lives in pkg/prediction.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Controller registers its routes on the shared router.
type Controller interface {
	RegisterRoutes(r *gin.Engine)
}

// Server is the API server: listener address plus controllers.
type Server struct {
	addr        string
	logger      zerolog.Logger
	controllers []Controller
	srv         *http.Server
}

// NewServer creates a server listening on addr.
func NewServer(addr string, logger zerolog.Logger) *Server {
	return &Server{addr: addr, logger: logger}
}

// AddController adds one or more controllers.
func (s *Server) AddController(c ...Controller) {
	s.controllers = append(s.controllers, c...)
}

// Start builds the router, serves until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
	}))
	r.Use(RequestLogger(s.logger))
	r.Use(PrometheusMetrics)
	for _, c := range s.controllers {
		c.RegisterRoutes(r)
	}

	s.srv = &http.Server{
		Addr:         s.addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
