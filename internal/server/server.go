// Package server runs an http handler until the context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/middleware"
	"github.com/Alturino/storefront/internal/otel"
)

const shutdownTimeout = 15 * time.Second

// NewRouter returns a router carrying the middlewares every service uses and the /metrics endpoint.
func NewRouter(appName string) *mux.Router {
	router := mux.NewRouter()
	router.Use(otelmux.Middleware(appName))
	router.Use(middleware.Logging)
	router.Use(middleware.RecoverPanic)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return router
}

// Run serves handler on cfg.Host:cfg.Port and blocks until c is done, then shuts the server down
// and flushes the otel providers.
func Run(
	c context.Context,
	appName string,
	cfg config.Application,
	handler http.Handler,
	shutdownFuncs []otel.ShutdownFunc,
) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main Run").
		Str(log.KeyAppName, appName).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	server := http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		BaseContext: func(net.Listener) context.Context {
			return logger.With().Reset().Timestamp().Caller().Str(log.KeyAppName, appName).Logger().WithContext(c)
		},
		Handler:      handler,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	serveErr := make(chan error, 1)
	go func() {
		logger := logger.With().Str(log.KeyProcess, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("encounter error=%w while running server", err)
			logger.Error().Err(err).Msg(err.Error())
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	var runErr error
	select {
	case <-c.Done():
		logger.Info().Msg("received interuption signal shutting down")
	case runErr = <-serveErr:
	}

	logger = logger.With().Str(log.KeyProcess, "shutting down server").Logger()
	sc, cancel := context.WithTimeout(context.WithoutCancel(c), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(sc); err != nil {
		err = fmt.Errorf("failed shutting down server with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		runErr = errors.Join(runErr, err)
	}
	logger.Info().Msg("shutdown server")

	logger = logger.With().Str(log.KeyProcess, "shutting down otel").Logger()
	logger.Info().Msg("shutting down otel")
	if err := otel.ShutdownOtel(sc, shutdownFuncs); err != nil {
		err = fmt.Errorf("failed shutting down otel with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		runErr = errors.Join(runErr, err)
	}
	logger.Info().Msg("shutdown otel")

	return runErr
}
