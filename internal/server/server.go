package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cookbook-app/backend/internal/api"
	"github.com/cookbook-app/backend/internal/middleware"
)

// Server wraps the HTTP listener around the API router.
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New builds the router, registers all routes and prepares the listener.
func New(addr string, deps api.Dependencies) *Server {
	router := gin.Default()
	router.Use(middleware.CORS())

	api.SetupAPI(router, deps)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
