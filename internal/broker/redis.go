package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
)

type RedisBroker struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client, now: time.Now}
}

func (b *RedisBroker) Publish(c context.Context, topic string, payload any) error {
	c, span := otel.Tracer.Start(c, "RedisBroker Publish")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisBroker Publish").
		Str(log.KeyTopic, topic).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "encoding message").Logger()
	logger.Trace().Msg("encoding message")
	body, err := encode(c, topic, payload, b.now())
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("encoded message")

	logger = logger.With().Str(log.KeyProcess, "publishing message").Logger()
	logger.Trace().Msg("publishing message")
	err = b.client.Publish(c, topic, body).Err()
	if err != nil {
		err = fmt.Errorf("failed publishing to topic=%s with error=%w", topic, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("published message")

	return nil
}

func (b *RedisBroker) Subscribe(c context.Context, topic string, handler Handler) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisBroker Subscribe").
		Str(log.KeyTopic, topic).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "subscribing").Logger()
	logger.Info().Msg("subscribing")
	sub := b.client.Subscribe(c, topic)
	defer sub.Close()
	if _, err := sub.Receive(c); err != nil {
		err = fmt.Errorf("failed subscribing to topic=%s with error=%w", topic, err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("subscribed")

	messages := sub.Channel()
	for {
		select {
		case <-c.Done():
			logger.Info().Msg("context done stop consuming")
			return nil
		case raw, ok := <-messages:
			if !ok {
				logger.Info().Msg("subscription channel closed")
				return nil
			}
			msg, err := decode([]byte(raw.Payload))
			if err != nil {
				logger.Error().Err(err).Msg(err.Error())
				continue
			}
			hc := handlerContext(logger.WithContext(c), msg)
			if err := handler(hc, msg); err != nil {
				// pub/sub has no redelivery so a failed message is only logged
				err = fmt.Errorf("failed handling message of topic=%s with error=%w", topic, err)
				logger.Error().Err(err).Msg(err.Error())
			}
		}
	}
}

// Close is a no-op. The redis client is owned by whoever created it.
func (b *RedisBroker) Close() error {
	return nil
}
