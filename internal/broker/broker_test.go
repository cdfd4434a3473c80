package broker

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/Alturino/storefront/internal/log"
)

type leadCreated struct {
	LeadID string `json:"leadId"`
	Email  string `json:"email"`
}

func TestEncodeCarriesRequestID(t *testing.T) {
	c := log.AttachRequestIDToContext(context.Background(), "req-1")
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	body, err := encode(c, "lead.created", leadCreated{LeadID: "l-1", Email: "a@b.c"}, now)
	require.NoError(t, err)

	msg, err := decode(body)
	require.NoError(t, err)
	assert.Equal(t, "lead.created", msg.Topic)
	assert.Equal(t, "req-1", msg.RequestID)
	assert.True(t, now.Equal(msg.PublishedAt))

	payload := leadCreated{}
	require.NoError(t, msg.Decode(&payload))
	assert.Equal(t, leadCreated{LeadID: "l-1", Email: "a@b.c"}, payload)

	assert.Equal(t, "req-1", log.RequestIDFromContext(handlerContext(context.Background(), msg)))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := decode([]byte("not json"))
	assert.Error(t, err)
}

func TestRedisBrokerRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	c, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	redisContainer, err := testRedis.Run(c, "redis:7.4.2-alpine3.21")
	require.NoError(t, err, "failed running redis container")
	defer func() {
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	connStr, err := redisContainer.ConnectionString(c)
	require.NoError(t, err)
	opt, err := redis.ParseURL(connStr)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	defer client.Close()

	b := NewRedisBroker(client)
	received := make(chan Message, 1)
	subCtx, stop := context.WithCancel(c)
	done := make(chan error, 1)
	go func() {
		done <- b.Subscribe(subCtx, "order.created", func(c context.Context, msg Message) error {
			received <- msg
			return nil
		})
	}()

	require.Eventually(t, func() bool {
		subs, err := client.PubSubNumSub(c, "order.created").Result()
		return err == nil && subs["order.created"] == 1
	}, 10*time.Second, 50*time.Millisecond)

	pc := log.AttachRequestIDToContext(c, "req-2")
	require.NoError(t, b.Publish(pc, "order.created", map[string]string{"orderNumber": "ORD-1-001"}))

	select {
	case msg := <-received:
		payload := map[string]string{}
		require.NoError(t, msg.Decode(&payload))
		assert.Equal(t, "ORD-1-001", payload["orderNumber"])
		assert.Equal(t, "req-2", msg.RequestID)
	case <-time.After(10 * time.Second):
		t.Fatal("message not received")
	}

	stop()
	assert.NoError(t, <-done)
}
