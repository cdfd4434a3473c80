package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/mock"

	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/testutil"
)

var (
	brassLamp  = uuid.MustParse("5b1f0c2a-7e3d-4f6a-9c8b-000000000001")
	clayVase   = uuid.MustParse("5b1f0c2a-7e3d-4f6a-9c8b-000000000002")
	carvedDoor = uuid.MustParse("5b1f0c2a-7e3d-4f6a-9c8b-000000000003")
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(c context.Context, topic string, payload any) error {
	args := m.Called(c, topic, payload)
	return args.Error(0)
}

type fixedNumbers struct {
	next int
}

func (f *fixedNumbers) Next() string {
	f.next++
	return "ORD-1740823200000-" + []string{"001", "002", "003", "004", "005"}[(f.next-1)%5]
}

func setup(t *testing.T) (*pgxpool.Pool, *repository.Queries, *mockPublisher, *OrderService) {
	pool := testutil.StartPostgres(t, filepath.Join("seed", "products.seed.sql"))
	queries := repository.New(pool)
	publisher := &mockPublisher{}
	return pool, queries, publisher, NewOrderService(pool, queries, publisher, &fixedNumbers{})
}
