package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
)

// AmqpBroker maps every topic to a durable queue of the same name on the default exchange.
type AmqpBroker struct {
	conn *amqp.Connection

	// amqp channels are not safe for concurrent publishing
	mu      sync.Mutex
	channel *amqp.Channel

	now func() time.Time
}

func NewAmqpBroker(url string) (*AmqpBroker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed connecting to amqp with error=%w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed opening amqp channel with error=%w", err)
	}
	return &AmqpBroker{conn: conn, channel: ch, now: time.Now}, nil
}

func declareQueue(ch *amqp.Channel, topic string) error {
	_, err := ch.QueueDeclare(topic, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed declaring queue=%s with error=%w", topic, err)
	}
	return nil
}

func (b *AmqpBroker) Publish(c context.Context, topic string, payload any) error {
	c, span := otel.Tracer.Start(c, "AmqpBroker Publish")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AmqpBroker Publish").
		Str(log.KeyTopic, topic).
		Logger()

	now := b.now()
	body, err := encode(c, topic, payload, now)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	logger = logger.With().Str(log.KeyProcess, "declaring queue").Logger()
	logger.Trace().Msg("declaring queue")
	if err = declareQueue(b.channel, topic); err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("declared queue")

	logger = logger.With().Str(log.KeyProcess, "publishing message").Logger()
	logger.Trace().Msg("publishing message")
	err = b.channel.Publish("", topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
	})
	if err != nil {
		err = fmt.Errorf("failed publishing to topic=%s with error=%w", topic, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("published message")

	return nil
}

// Subscribe consumes on its own channel. A message whose handler fails is nacked without requeue
// so a poison message cannot loop forever.
func (b *AmqpBroker) Subscribe(c context.Context, topic string, handler Handler) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AmqpBroker Subscribe").
		Str(log.KeyTopic, topic).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "opening consumer channel").Logger()
	logger.Info().Msg("opening consumer channel")
	ch, err := b.conn.Channel()
	if err != nil {
		err = fmt.Errorf("failed opening consumer channel with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer ch.Close()
	if err = declareQueue(ch, topic); err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	deliveries, err := ch.Consume(topic, "", false, false, false, false, nil)
	if err != nil {
		err = fmt.Errorf("failed registering consumer on queue=%s with error=%w", topic, err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("consuming")

	for {
		select {
		case <-c.Done():
			logger.Info().Msg("context done stop consuming")
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				err = errors.New("amqp delivery channel closed")
				logger.Error().Err(err).Msg(err.Error())
				return err
			}
			msg, err := decode(delivery.Body)
			if err != nil {
				logger.Error().Err(err).Msg(err.Error())
				if nackErr := delivery.Nack(false, false); nackErr != nil {
					logger.Error().Err(nackErr).Msgf("failed nacking message with error=%s", nackErr.Error())
				}
				continue
			}
			hc := handlerContext(logger.WithContext(c), msg)
			if err := handler(hc, msg); err != nil {
				err = fmt.Errorf("failed handling message of topic=%s with error=%w", topic, err)
				logger.Error().Err(err).Msg(err.Error())
				if nackErr := delivery.Nack(false, false); nackErr != nil {
					logger.Error().Err(nackErr).Msgf("failed nacking message with error=%s", nackErr.Error())
				}
				continue
			}
			if ackErr := delivery.Ack(false); ackErr != nil {
				logger.Error().Err(ackErr).Msgf("failed acking message with error=%s", ackErr.Error())
			}
		}
	}
}

func (b *AmqpBroker) Close() error {
	var errs error
	if b.channel != nil {
		if err := b.channel.Close(); err != nil {
			errs = errors.Join(errs, fmt.Errorf("failed closing amqp channel with error=%w", err))
		}
	}
	if b.conn != nil {
		if err := b.conn.Close(); err != nil {
			errs = errors.Join(errs, fmt.Errorf("failed closing amqp connection with error=%w", err))
		}
	}
	return errs
}
