package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"trackcatalog/cache"
	"trackcatalog/config"
	"trackcatalog/core/catalog"
	"trackcatalog/db"
	"trackcatalog/logger"
	"trackcatalog/repository"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

// middleware is applied outermost first. AccessLogMiddleware sits outside
// RecoveryMiddleware so a recovered panic is logged with its 500.
var middleware = []mux.MiddlewareFunc{
	RequestIDMiddleware,
	AccessLogMiddleware,
	RecoveryMiddleware,
	CORSMiddleware,
}

// withMiddleware wraps h in the same chain router.Use applies. mux skips
// that chain for its NotFound and MethodNotAllowed handlers.
func withMiddleware(h http.Handler) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}

// NewRouter builds the HTTP routes. health may be nil.
func NewRouter(trackGroups *TrackGroupHandler, health Pinger) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware...)

	v1 := router.PathPrefix("/v1").Subrouter()
	// OPTIONS is routed so CORSMiddleware can answer preflights.
	v1.HandleFunc("/trackGroups", trackGroups.List).Methods(http.MethodGet, http.MethodOptions)
	v1.HandleFunc("/trackGroups", trackGroups.Create).Methods(http.MethodPost)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := health(ctx); err != nil {
				logger.Warn("Health check failed", logger.ErrorField(err))
				writeError(w, r, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	router.NotFoundHandler = withMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not found")
	}))
	router.MethodNotAllowedHandler = withMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}))
	return router
}

// NewCatalogService wires the repository and, when Redis is configured,
// the listing cache with its GORM invalidation hooks. The returned cleanup
// closes the Redis client.
func NewCatalogService(ctx context.Context, cfg *config.Config, gdb *gorm.DB) (*catalog.Service, func(), error) {
	tieBreak, err := repository.ParseTieBreak(cfg.TrackGroupTieBreak)
	if err != nil {
		return nil, nil, err
	}
	repo := repository.NewGormTrackGroupRepository(gdb, tieBreak)

	listingCache, cleanup, err := cache.Attach(ctx, cfg, gdb)
	if err != nil {
		return nil, nil, err
	}
	if listingCache == nil {
		logger.Info("Listing cache disabled, REDIS_HOST is empty")
		return catalog.NewService(repo, nil), cleanup, nil
	}
	logger.Info("Listing cache enabled",
		logger.String("redis", net.JoinHostPort(cfg.RedisHost, cfg.RedisPort)),
		logger.Duration("ttl", cfg.ListingCacheTTL),
	)
	return catalog.NewService(repo, listingCache), cleanup, nil
}

// Start connects to the database and serves until SIGINT or SIGTERM.
func Start(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.ConnectMySQL(cfg)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	if err := db.AutoMigrate(ctx, gdb); err != nil {
		return err
	}

	service, cleanup, err := NewCatalogService(ctx, cfg, gdb)
	if err != nil {
		return err
	}
	defer cleanup()

	router := NewRouter(NewTrackGroupHandler(service), func(ctx context.Context) error {
		return db.Ping(ctx, gdb)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting",
			logger.String("addr", srv.Addr),
			logger.String("listing", cfg.APIDomain+"/v1/trackGroups"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
