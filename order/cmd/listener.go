package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/broker"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/log"
)

type event struct {
	c       context.Context
	topic   string
	payload any
}

// EventWorker decouples checkout from the broker: Publish only enqueues and the worker goroutine
// forwards events in order. When the queue is full the event is dropped and logged.
type EventWorker struct {
	publisher broker.Publisher
	queue     chan event
}

func NewEventWorker(publisher broker.Publisher, size int) *EventWorker {
	return &EventWorker{publisher: publisher, queue: make(chan event, size)}
}

func (wrk *EventWorker) Publish(c context.Context, topic string, payload any) error {
	select {
	case wrk.queue <- event{c: context.WithoutCancel(c), topic: topic, payload: payload}:
		return nil
	default:
		return fmt.Errorf("failed enqueueing event of topic=%s with error=queue is full", topic)
	}
}

// StartWorker forwards queued events until c is done, then drains what is left.
func (wrk *EventWorker) StartWorker(c context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "EventWorker StartWorker").
		Str(log.KeyAppName, constants.AppOrderService).
		Logger()

	logger.Info().Msg("start event worker")
	for {
		select {
		case <-c.Done():
			logger.Info().Int("pending", len(wrk.queue)).Msg("draining event queue")
			for {
				select {
				case e := <-wrk.queue:
					wrk.forward(e)
				default:
					logger.Info().Msg("stopped event worker")
					return
				}
			}
		case e := <-wrk.queue:
			wrk.forward(e)
		}
	}
}

func (wrk *EventWorker) forward(e event) {
	logger := zerolog.Ctx(e.c).With().Str(log.KeyTopic, e.topic).Logger()
	if err := wrk.publisher.Publish(e.c, e.topic, e.payload); err != nil {
		err = fmt.Errorf("failed forwarding event with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
	}
}
