// Package broker carries domain events between services over redis pub/sub or amqp queues.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Alturino/storefront/internal/log"
)

// Message is the envelope written on the wire. Payload is the json encoded event.
type Message struct {
	Topic       string          `json:"topic"`
	RequestID   string          `json:"requestId"`
	PublishedAt time.Time       `json:"publishedAt"`
	Payload     json.RawMessage `json:"payload"`
}

type Handler func(c context.Context, msg Message) error

type Publisher interface {
	Publish(c context.Context, topic string, payload any) error
}

type Subscriber interface {
	// Subscribe blocks, invoking handler for every message on topic until c is done.
	Subscribe(c context.Context, topic string, handler Handler) error
}

type Broker interface {
	Publisher
	Subscriber
	Close() error
}

func encode(c context.Context, topic string, payload any, now time.Time) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed marshaling payload for topic=%s with error=%w", topic, err)
	}
	body, err := json.Marshal(Message{
		Topic:       topic,
		RequestID:   log.RequestIDFromContext(c),
		PublishedAt: now.UTC(),
		Payload:     raw,
	})
	if err != nil {
		return nil, fmt.Errorf("failed marshaling message for topic=%s with error=%w", topic, err)
	}
	return body, nil
}

func decode(body []byte) (Message, error) {
	msg := Message{}
	if err := json.Unmarshal(body, &msg); err != nil {
		return Message{}, fmt.Errorf("failed unmarshaling message with error=%w", err)
	}
	return msg, nil
}

// Decode unmarshals the payload of msg into v.
func (m Message) Decode(v any) error {
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("failed decoding payload of topic=%s with error=%w", m.Topic, err)
	}
	return nil
}

// handlerContext rebuilds the request scoped context a handler runs in so logs keep the request id
// of the publisher.
func handlerContext(c context.Context, msg Message) context.Context {
	if msg.RequestID != "" {
		c = log.AttachRequestIDToContext(c, msg.RequestID)
	}
	return c
}
