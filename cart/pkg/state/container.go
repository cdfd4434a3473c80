package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/pkg/store"
	"github.com/Alturino/storefront/internal/log"
)

// CartContainer owns one visitor's cart. Every command runs the reducer under the lock and then
// saves the items. Storage failures are logged and never surface to the caller.
type CartContainer struct {
	mu    sync.Mutex
	repo  store.Repository[[]CartItem]
	now   func() time.Time
	state Cart
}

func NewCartContainer(c context.Context, repo store.Repository[[]CartItem], now func() time.Time) *CartContainer {
	if now == nil {
		now = time.Now
	}
	container := &CartContainer{repo: repo, now: now, state: NewCart()}

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartContainer load").Logger()
	logger.Trace().Msg("loading cart")
	items, err := repo.Load(c)
	switch {
	case errors.Is(err, store.ErrNotFound):
		logger.Trace().Msg("no stored cart")
		items = nil
	case err != nil:
		logger.Warn().Err(err).Msgf("failed loading cart, starting empty with error=%s", err.Error())
		items = nil
	}
	container.state = ReduceCart(container.state, LoadCart{Items: items})
	logger.Trace().Int("items", len(container.state.Items)).Msg("loaded cart")

	return container
}

func (cc *CartContainer) State() Cart {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.state
}

func (cc *CartContainer) AddItem(c context.Context, product Product, quantity int) Cart {
	return cc.dispatch(c, AddItem{Product: product, Quantity: quantity, AddedAt: cc.now()})
}

func (cc *CartContainer) RemoveItem(c context.Context, itemID string) Cart {
	return cc.dispatch(c, RemoveItem{ItemID: itemID})
}

func (cc *CartContainer) UpdateQuantity(c context.Context, itemID string, quantity int) Cart {
	return cc.dispatch(c, UpdateQuantity{ItemID: itemID, Quantity: quantity})
}

func (cc *CartContainer) Clear(c context.Context) Cart {
	return cc.dispatch(c, ClearCart{})
}

func (cc *CartContainer) ItemQuantity(productID string) int {
	return cc.State().ItemQuantity(productID)
}

func (cc *CartContainer) dispatch(c context.Context, action CartAction) Cart {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	cc.state = ReduceCart(cc.state, action)
	if !cc.state.IsLoading {
		if err := cc.repo.Save(c, cc.state.Items); err != nil {
			zerolog.Ctx(c).Error().
				Err(err).
				Str(log.KeyTag, "CartContainer save").
				Msgf("failed saving cart with error=%s", err.Error())
		}
	}
	return cc.state
}

// QuotationContainer is the quotation counterpart of CartContainer.
type QuotationContainer struct {
	mu    sync.Mutex
	repo  store.Repository[Quotation]
	state Quotation
}

func NewQuotationContainer(c context.Context, repo store.Repository[Quotation]) *QuotationContainer {
	container := &QuotationContainer{repo: repo, state: NewQuotation()}

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "QuotationContainer load").Logger()
	stored, err := repo.Load(c)
	switch {
	case errors.Is(err, store.ErrNotFound):
		logger.Trace().Msg("no stored quotation")
	case err != nil:
		logger.Warn().Err(err).Msgf("failed loading quotation, starting empty with error=%s", err.Error())
	default:
		container.state = ReduceQuotation(container.state, LoadQuotation{Items: stored.Items})
		container.state = ReduceQuotation(container.state, SetSidebarOpen{Open: stored.IsOpen})
	}
	return container
}

func (qc *QuotationContainer) State() Quotation {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	return qc.state
}

func (qc *QuotationContainer) AddItem(c context.Context, product Product, quantity int) Quotation {
	return qc.dispatch(c, AddQuoteItem{Product: product, Quantity: quantity})
}

func (qc *QuotationContainer) RemoveItem(c context.Context, productID string) Quotation {
	return qc.dispatch(c, RemoveQuoteItem{ProductID: productID})
}

func (qc *QuotationContainer) UpdateQuantity(c context.Context, productID string, quantity int) Quotation {
	return qc.dispatch(c, UpdateQuoteQuantity{ProductID: productID, Quantity: quantity})
}

func (qc *QuotationContainer) UpdateRequirements(c context.Context, productID string, requirements string) Quotation {
	return qc.dispatch(c, UpdateRequirements{ProductID: productID, Requirements: requirements})
}

func (qc *QuotationContainer) Clear(c context.Context) Quotation {
	return qc.dispatch(c, ClearQuotation{})
}

func (qc *QuotationContainer) ToggleSidebar(c context.Context) Quotation {
	return qc.dispatch(c, ToggleSidebar{})
}

func (qc *QuotationContainer) SetSidebarOpen(c context.Context, open bool) Quotation {
	return qc.dispatch(c, SetSidebarOpen{Open: open})
}

func (qc *QuotationContainer) dispatch(c context.Context, action QuotationAction) Quotation {
	qc.mu.Lock()
	defer qc.mu.Unlock()

	qc.state = ReduceQuotation(qc.state, action)
	if err := qc.repo.Save(c, qc.state); err != nil {
		zerolog.Ctx(c).Error().
			Err(err).
			Str(log.KeyTag, "QuotationContainer save").
			Msgf("failed saving quotation with error=%s", err.Error())
	}
	return qc.state
}
