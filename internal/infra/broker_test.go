package infra

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/errors"
)

func TestNewBrokerRejectsUnknownKind(t *testing.T) {
	_, err := NewBroker(context.Background(), &config.Config{Broker: config.Broker{Kind: "kafka"}})
	assert.ErrorIs(t, err, errors.ErrUnknownBroker)
}
