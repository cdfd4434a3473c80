package store

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	c := context.Background()

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

	key := SessionKey(KindQuotation, "session-1")
	repo := NewRedisRepository[snapshot](client, key, time.Hour)

	_, err = repo.Load(c)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Save(c, snapshot{Items: []string{"lamp", "vase"}}))
	actual, err := repo.Load(c)
	require.NoError(t, err)
	assert.Equal(t, []string{"lamp", "vase"}, actual.Items)

	ttl, err := client.TTL(c, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	require.NoError(t, repo.Delete(c))
	_, err = repo.Load(c)
	assert.ErrorIs(t, err, ErrNotFound)
}
