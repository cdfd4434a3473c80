package state

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/cart/pkg/store"
)

type failingRepository[T any] struct {
	loadErr error
	saveErr error
}

func (f failingRepository[T]) Load(c context.Context) (T, error) {
	var zero T
	return zero, f.loadErr
}

func (f failingRepository[T]) Save(c context.Context, value T) error {
	return f.saveErr
}

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func TestCartContainerPersistsEveryChange(t *testing.T) {
	c := testContext()
	repo := store.NewMemoryRepository[[]CartItem]()
	clock := func() time.Time { return t0 }

	container := NewCartContainer(c, repo, clock)
	assert.False(t, container.State().IsLoading)

	container.AddItem(c, vase, 2)
	container.AddItem(c, lamp, 1)
	cart := container.UpdateQuantity(c, CartItemID(vase.ID, t0), 4)

	assert.Equal(t, 5, cart.TotalItems)
	assert.Equal(t, 3, repo.Saves())

	stored, err := repo.Load(c)
	require.NoError(t, err)
	assert.Equal(t, cart.Items, stored)

	reloaded := NewCartContainer(c, repo, clock)
	assert.Equal(t, cart.Items, reloaded.State().Items)
	assert.True(t, cart.TotalPrice.Equal(reloaded.State().TotalPrice))
	assert.Equal(t, 4, reloaded.ItemQuantity(vase.ID))
}

func TestCartContainerSurvivesStorageFailures(t *testing.T) {
	c := testContext()
	repo := failingRepository[[]CartItem]{loadErr: errors.New("corrupted"), saveErr: errors.New("disk full")}

	container := NewCartContainer(c, repo, nil)
	assert.Empty(t, container.State().Items)

	cart := container.AddItem(c, rug, 1)
	assert.Equal(t, 1, cart.TotalItems)
	cart = container.Clear(c)
	assert.Empty(t, cart.Items)
}

func TestCartContainerWithCorruptedFile(t *testing.T) {
	c := testContext()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cart.json"), []byte("{not json"), 0o644))

	repo := store.NewFileRepository[[]CartItem](dir, "cart")
	container := NewCartContainer(c, repo, func() time.Time { return t0 })
	assert.Empty(t, container.State().Items)

	container.AddItem(c, vase, 1)
	stored, err := repo.Load(c)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, vase.ID, stored[0].Product.ID)
}

func TestQuotationContainer(t *testing.T) {
	c := testContext()
	repo := store.NewMemoryRepository[Quotation]()

	container := NewQuotationContainer(c, repo)
	container.AddItem(c, vase, 2)
	container.AddItem(c, vase, 1)
	container.UpdateRequirements(c, vase.ID, "engraved")
	container.ToggleSidebar(c)

	reloaded := NewQuotationContainer(c, repo)
	q := reloaded.State()
	require.Len(t, q.Items, 1)
	assert.Equal(t, 3, q.Items[0].Quantity)
	assert.Equal(t, "engraved", q.Items[0].CustomRequirements)
	assert.True(t, q.IsOpen)

	q = reloaded.UpdateQuantity(c, vase.ID, -1)
	assert.Empty(t, q.Items)
	assert.Equal(t, 0, q.TotalItems())
}
