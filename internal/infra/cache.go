package infra

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
)

var (
	cacheOnce sync.Once
	cache     *redis.Client
)

// NewCacheClient returns the process wide redis client. Cart sessions and the redis broker share it.
func NewCacheClient(c context.Context, cfg config.Cache) *redis.Client {
	c, span := otel.Tracer.Start(c, "main NewCacheClient")
	defer span.End()

	cacheOnce.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "main NewCacheClient").
			Str("addr", cfg.Addr()).
			Logger()

		logger = logger.With().Str(log.KeyProcess, "initializing redis client").Logger()
		logger.Info().Msg("initializing redis client")
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Addr(),
			Password:     cfg.Password,
			DB:           cfg.Database,
			PoolSize:     cfg.PoolSize,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})

		instruments := []struct {
			name string
			fn   func(redis.UniversalClient, ...redisotel.Option) error
		}{
			{name: "tracing", fn: func(rdb redis.UniversalClient, opts ...redisotel.Option) error {
				tracingOpts := make([]redisotel.TracingOption, len(opts))
				for i, opt := range opts {
					tracingOpts[i] = opt
				}
				return redisotel.InstrumentTracing(rdb, tracingOpts...)
			}},
			{name: "metrics", fn: func(rdb redis.UniversalClient, opts ...redisotel.Option) error {
				metricsOpts := make([]redisotel.MetricsOption, len(opts))
				for i, opt := range opts {
					metricsOpts[i] = opt
				}
				return redisotel.InstrumentMetrics(rdb, metricsOpts...)
			}},
		}
		for _, instrument := range instruments {
			if err := instrument.fn(client, redisotel.WithAttributes(semconv.DBSystemRedis)); err != nil {
				err = fmt.Errorf("failed instrumenting redis %s with error=%w", instrument.name, err)
				otel.RecordError(err, span)
				logger.Fatal().Err(err).Msg(err.Error())
			}
		}
		logger.Info().Msg("initialized redis client")

		logger = logger.With().Str(log.KeyProcess, "pinging redis").Logger()
		if err := client.Ping(c).Err(); err != nil {
			err = fmt.Errorf("failed pinging redis with error=%w", err)
			otel.RecordError(err, span)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("pinged redis")

		cache = client
	})
	return cache
}
