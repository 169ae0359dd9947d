package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Yijia-Z/dalle2-app/internal/logging"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// NewRouter wires the routes. Bearer auth guards /api/v1 only when secret
// is non-empty.
func NewRouter(h *Handler, logger logging.Logger, secret []byte) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))

	router.GET("/health", h.Health)

	api := router.Group("/api/v1")
	if len(secret) > 0 {
		api.Use(AuthMiddleware(secret))
	}
	{
		api.POST("/images/generations", h.Generate)
		api.POST("/images/variations", h.Variations)
		api.POST("/images/edits", h.Edits)

		api.GET("/history", h.ListHistory)
		api.GET("/history/:id", h.GetRecord)
		api.DELETE("/history/:id", h.DeleteRecord)
		api.POST("/history/delete", h.DeleteRecords)

		api.GET("/blobs/:key", h.Blob)
		api.GET("/cost", h.Cost)
	}

	return router
}

type Server struct {
	address string
	handler http.Handler
	logger  logging.Logger
}

func NewServer(address string, handler http.Handler, l logging.Logger) *Server {
	return &Server{
		address: address,
		handler: handler,
		logger:  l.With("module", "http_server"),
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
