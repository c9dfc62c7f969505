package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ataka-storefront/internal/storage"
)

// readyKey is read (never written) by the readiness probe.
const readyKey = "readyz"

// Server owns the storefront HTTP listener.
type Server struct {
	http   *http.Server
	logger *zap.Logger
}

// New builds a Server with every storefront route mounted.
func New(addr string, logger *zap.Logger, deps Deps, corsOrigins []string) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	router, err := buildRouter(logger, deps, corsOrigins)
	if err != nil {
		return nil, err
	}
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}, nil
}

// Run serves until ctx is cancelled or the listener fails, then drains
// in-flight requests for at most shutdownTimeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	listenErr := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err, ok := <-listenErr:
		if ok {
			runErr = err
		}
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(drainCtx); err != nil {
		return errors.Join(runErr, err)
	}
	s.logger.Info("server stopped")
	return runErr
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readyHandler reports ready once a read against the session storage
// backend succeeds.
func readyHandler(kv storage.KV, backend string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if kv == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "no storage configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if _, _, err := kv.Get(ctx, readyKey); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "storage": backend, "reason": "storage not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "storage": backend})
	}
}
