package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"conroom/config"
	"conroom/shared/constant"
	"conroom/transport/http/middleware"
	"conroom/transport/http/response"
	"conroom/transport/http/router"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const readHeaderTimeout = 10 * time.Second

type HTTP struct {
	Config     *config.Config
	Router     router.Router
	Middleware middleware.AppMiddleware

	state    atomic.Int32
	server   *http.Server
	mu       sync.Mutex
	cleanups []func(ctx context.Context)
}

func New(cfg *config.Config, r router.Router, m middleware.AppMiddleware) *HTTP {
	return &HTTP{
		Config:     cfg,
		Router:     r,
		Middleware: m,
	}
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

// OnShutdown registers fn to run once the server stopped accepting requests.
// Hooks run in reverse registration order.
func (h *HTTP) OnShutdown(fn func(ctx context.Context)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.cleanups = append(h.cleanups, fn)
}

// Serve blocks until SIGINT or SIGTERM and the shutdown sequence finished.
func (h *HTTP) Serve() {
	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	done := h.setupGracefulShutdown()

	log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}

	<-done
}

// Handler builds the routed handler without starting a listener.
func (h *HTTP) Handler() http.Handler {
	mux := chi.NewRouter()

	mux.Use(chiMiddleware.RealIP)
	mux.Use(chiMiddleware.Recoverer)
	mux.Use(h.shutdownGuard)

	if corsCfg := h.Config.App.CORS; corsCfg.Enable {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsCfg.AllowedOrigins,
			AllowedMethods:   corsCfg.AllowedMethods,
			AllowedHeaders:   corsCfg.AllowedHeaders,
			AllowCredentials: corsCfg.AllowCredentials,
			MaxAge:           corsCfg.MaxAgeSeconds,
		}))
	}

	if h.Middleware != nil {
		mux.Use(h.Middleware.Tracing)
		mux.Use(h.Middleware.RateLimit())
	}

	h.Router.SetupRoutes(mux)

	h.state.Store(int32(ServerStateReady))

	return mux
}

func (h *HTTP) shutdownGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.State() != ServerStateReady {
			response.WithPreparingShutdown(w)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *HTTP) setupGracefulShutdown() <-chan struct{} {
	serverStateCh := make(chan os.Signal, 1)
	done := make(chan struct{})

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer close(done)

		<-serverStateCh
		h.shutdown()
	}()

	return done
}

func (h *HTTP) shutdown() {
	shutdownConfig := h.Config.Server.Shutdown

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")
	} else {
		log.Info().Msg("Received SIGTERM.")
		log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

		h.state.Store(int32(ServerStateInGracePeriod))

		time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)
	}

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.state.Store(int32(ServerStateInCleanupPeriod))

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownConfig.CleanupPeriodSeconds)*time.Second+readHeaderTimeout)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down HTTP server cleanly")
	}

	h.mu.Lock()
	cleanups := h.cleanups
	h.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i](ctx)
	}

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}
