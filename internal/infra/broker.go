package infra

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/broker"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/log"
)

const (
	BrokerKindRedis = "redis"
	BrokerKindAmqp  = "amqp"
)

// NewBroker picks the transport named by cfg.Broker.Kind. The redis broker shares the cache client.
func NewBroker(c context.Context, cfg *config.Config) (broker.Broker, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main NewBroker").
		Str(log.KeyProcess, "initializing broker").
		Str("kind", cfg.Broker.Kind).
		Logger()

	logger.Info().Msg("initializing broker")
	switch cfg.Broker.Kind {
	case BrokerKindRedis, "":
		b := broker.NewRedisBroker(NewCacheClient(c, cfg.Cache))
		logger.Info().Msg("initialized broker")
		return b, nil
	case BrokerKindAmqp:
		b, err := broker.NewAmqpBroker(cfg.Broker.Url)
		if err != nil {
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		logger.Info().Msg("initialized broker")
		return b, nil
	default:
		err := fmt.Errorf("failed initializing broker kind=%s with error=%w", cfg.Broker.Kind, errors.ErrUnknownBroker)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
}
