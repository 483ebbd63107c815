package http

import (
	"context"
	"errors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"log/slog"
	"net/http"
	"time"
	"tmichat/internal/app/adapters/http/handlers"
	"tmichat/internal/app/adapters/http/middlewares"
	"tmichat/internal/app/infrastructure/config"
	"tmichat/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

type Router struct {
	router      *gin.Engine
	handlers    *handlers.Handlers
	middlewares *middlewares.Middlewares

	log logger.Logger
	cfg config.HTTP
}

func NewRouter(log logger.Logger, cfg config.HTTP, source handlers.Source) *Router {
	log = logger.NewPrefixedLogger(log, "http")

	r := &Router{
		router:      gin.New(),
		handlers:    handlers.New(log, source),
		middlewares: middlewares.New(),
		log:         log,
		cfg:         cfg,
	}
	r.router.Use(gin.Recovery())

	pprofGroup := r.router.Group("/", r.middlewares.BasicAuth(cfg.AuthToken))
	pprof.Register(pprofGroup)

	r.router.GET("/metrics", r.middlewares.BasicAuth(cfg.AuthToken), gin.WrapH(promhttp.Handler()))

	api := r.router.Group("/", r.middlewares.Auth(cfg.AuthToken))
	api.GET("/status", r.handlers.StatusHandler)
	api.GET("/channels/:channel/roomstate", r.handlers.RoomStateHandler)

	return r
}

func (r *Router) Handler() http.Handler {
	return r.router
}

// Run serves until ctx is done, then shuts the server down.
func (r *Router) Run(ctx context.Context) error {
	srv := r.newServer(r.cfg.Addr, r.router)

	errCh := make(chan error, 1)
	go func() {
		r.log.Info("HTTP server started", slog.String("addr", r.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		r.log.Error("HTTP server failed", err)
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		r.log.Error("HTTP server shutdown failed", err)
		return err
	}
	return nil
}

func (r *Router) newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
}
