package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/cart/internal/otel"
	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/cart/pkg/response"
	"github.com/Alturino/storefront/cart/pkg/state"
	"github.com/Alturino/storefront/cart/pkg/store"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/format"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/validate"
)

const DefaultSessionTTL = 30 * 24 * time.Hour

// ProductFinder resolves the catalog snapshot copied into a line.
type ProductFinder interface {
	FindProductsByIds(c context.Context, ids []uuid.UUID) ([]repository.ProductWithTags, error)
}

// CartService keeps one cart and one quotation per visitor session in redis. Every call loads the
// session into a state container, dispatches one action and saves the result.
type CartService struct {
	products ProductFinder
	cache    redis.Cmdable
	ttl      time.Duration
	now      func() time.Time
}

func NewCartService(products ProductFinder, cache redis.Cmdable, ttl time.Duration) *CartService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &CartService{products: products, cache: cache, ttl: ttl, now: time.Now}
}

func (s *CartService) FindCart(c context.Context, sessionID string) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService FindCart")
	defer span.End()

	container, err := s.cart(c, sessionID)
	if err != nil {
		inOtel.RecordError(err, span)
		return response.Cart{}, err
	}
	return mapCart(sessionID, container.State()), nil
}

// AddCartItem adds the product's current catalog snapshot. Quotation only products are rejected.
func (s *CartService) AddCartItem(c context.Context, sessionID string, param request.AddItem) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService AddCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddCartItem").
		Str(log.KeySessionID, sessionID).
		Str(log.KeyProductID, param.ProductID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating request").Logger()
	if err := validateRequest(c, param); err != nil {
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	c = logger.WithContext(c)
	product, price, err := s.findProduct(c, param.ProductID)
	if err != nil {
		inOtel.RecordError(err, span)
		return response.Cart{}, err
	}
	if price == nil {
		err = fmt.Errorf("failed adding %s only available on quotation with error=%w", product.Name, inErrors.ErrInvalidRequest)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	product.Price = *price

	container, err := s.cart(c, sessionID)
	if err != nil {
		inOtel.RecordError(err, span)
		return response.Cart{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "adding item").Logger()
	cart := container.AddItem(c, product, param.Quantity)
	logger.Info().Int("totalItems", cart.TotalItems).Msg("added item")
	return mapCart(sessionID, cart), nil
}

func (s *CartService) UpdateCartItem(
	c context.Context,
	sessionID string,
	itemID string,
	param request.UpdateQuantity,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateCartItem")
	defer span.End()

	if err := validateRequest(c, param); err != nil {
		inOtel.RecordError(err, span)
		return response.Cart{}, err
	}
	container, err := s.cart(c, sessionID)
	if err != nil {
		inOtel.RecordError(err, span)
		return response.Cart{}, err
	}
	return mapCart(sessionID, container.UpdateQuantity(c, itemID, param.Quantity)), nil
}

func (s *CartService) RemoveCartItem(c context.Context, sessionID string, itemID string) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveCartItem")
	defer span.End()

	container, err := s.cart(c, sessionID)
	if err != nil {
		inOtel.RecordError(err, span)
		return response.Cart{}, err
	}
	return mapCart(sessionID, container.RemoveItem(c, itemID)), nil
}

func (s *CartService) ClearCart(c context.Context, sessionID string) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService ClearCart")
	defer span.End()

	container, err := s.cart(c, sessionID)
	if err != nil {
		inOtel.RecordError(err, span)
		return response.Cart{}, err
	}
	return mapCart(sessionID, container.Clear(c)), nil
}

func (s *CartService) FindQuotation(c context.Context, sessionID string) (response.Quotation, error) {
	c, span := otel.Tracer.Start(c, "CartService FindQuotation")
	defer span.End()

	container, err := s.quotation(c, sessionID)
	if err != nil {
		inOtel.RecordError(err, span)
		return response.Quotation{}, err
	}
	return mapQuotation(sessionID, container.State()), nil
}

// AddQuoteItem accepts any catalog product; unpriced products are snapshotted with a zero price.
func (s *CartService) AddQuoteItem(c context.Context, sessionID string, param request.AddItem) (response.Quotation, error) {
	c, span := otel.Tracer.Start(c, "CartService AddQuoteItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddQuoteItem").
		Str(log.KeySessionID, sessionID).
		Str(log.KeyProductID, param.ProductID.String()).
		Logger()

	if err := validateRequest(c, param); err != nil {
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Quotation{}, err
	}

	c = logger.WithContext(c)
	product, price, err := s.findProduct(c, param.ProductID)
	if err != nil {
		inOtel.RecordError(err, span)
		return response.Quotation{}, err
	}
	if price != nil {
		product.Price = *price
	}

	container, err := s.quotation(c, sessionID)
	if err != nil {
		inOtel.RecordError(err, span)
		return response.Quotation{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "adding quote item").Logger()
	quotation := container.AddItem(c, product, param.Quantity)
	logger.Info().Int("totalItems", quotation.TotalItems()).Msg("added quote item")
	return mapQuotation(sessionID, quotation), nil
}

func (s *CartService) UpdateQuoteItem(
	c context.Context,
	sessionID string,
	productID string,
	param request.UpdateQuantity,
) (response.Quotation, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateQuoteItem")
	defer span.End()

	if err := validateRequest(c, param); err != nil {
		inOtel.RecordError(err, span)
		return response.Quotation{}, err
	}
	container, err := s.quotation(c, sessionID)
	if err != nil {
		inOtel.RecordError(err, span)
		return response.Quotation{}, err
	}
	return mapQuotation(sessionID, container.UpdateQuantity(c, productID, param.Quantity)), nil
}

func (s *CartService) UpdateRequirements(
	c context.Context,
	sessionID string,
	productID string,
	param request.UpdateRequirements,
) (response.Quotation, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateRequirements")
	defer span.End()

	if err := validateRequest(c, param); err != nil {
		inOtel.RecordError(err, span)
		return response.Quotation{}, err
	}
	container, err := s.quotation(c, sessionID)
	if err != nil {
		inOtel.RecordError(err, span)
		return response.Quotation{}, err
	}
	return mapQuotation(sessionID, container.UpdateRequirements(c, productID, param.CustomRequirements)), nil
}

func (s *CartService) RemoveQuoteItem(c context.Context, sessionID string, productID string) (response.Quotation, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveQuoteItem")
	defer span.End()

	container, err := s.quotation(c, sessionID)
	if err != nil {
		inOtel.RecordError(err, span)
		return response.Quotation{}, err
	}
	return mapQuotation(sessionID, container.RemoveItem(c, productID)), nil
}

func (s *CartService) ClearQuotation(c context.Context, sessionID string) (response.Quotation, error) {
	c, span := otel.Tracer.Start(c, "CartService ClearQuotation")
	defer span.End()

	container, err := s.quotation(c, sessionID)
	if err != nil {
		inOtel.RecordError(err, span)
		return response.Quotation{}, err
	}
	return mapQuotation(sessionID, container.Clear(c)), nil
}

func (s *CartService) ToggleQuotation(c context.Context, sessionID string) (response.Quotation, error) {
	c, span := otel.Tracer.Start(c, "CartService ToggleQuotation")
	defer span.End()

	container, err := s.quotation(c, sessionID)
	if err != nil {
		inOtel.RecordError(err, span)
		return response.Quotation{}, err
	}
	return mapQuotation(sessionID, container.ToggleSidebar(c)), nil
}

func (s *CartService) SetQuotationOpen(c context.Context, sessionID string, param request.SetOpen) (response.Quotation, error) {
	c, span := otel.Tracer.Start(c, "CartService SetQuotationOpen")
	defer span.End()

	container, err := s.quotation(c, sessionID)
	if err != nil {
		inOtel.RecordError(err, span)
		return response.Quotation{}, err
	}
	return mapQuotation(sessionID, container.SetSidebarOpen(c, param.Open)), nil
}

func (s *CartService) cart(c context.Context, sessionID string) (*state.CartContainer, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	c = zerolog.Ctx(c).With().Str(log.KeySessionID, sessionID).Logger().WithContext(c)
	repo := store.NewRedisRepository[[]state.CartItem](s.cache, store.SessionKey(store.KindCart, sessionID), s.ttl)
	return state.NewCartContainer(c, repo, s.now), nil
}

func (s *CartService) quotation(c context.Context, sessionID string) (*state.QuotationContainer, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	c = zerolog.Ctx(c).With().Str(log.KeySessionID, sessionID).Logger().WithContext(c)
	repo := store.NewRedisRepository[state.Quotation](s.cache, store.SessionKey(store.KindQuotation, sessionID), s.ttl)
	return state.NewQuotationContainer(c, repo), nil
}

func (s *CartService) findProduct(c context.Context, id uuid.UUID) (state.Product, *decimal.Decimal, error) {
	logger := zerolog.Ctx(c).With().Str(log.KeyProcess, "finding product").Logger()
	logger.Trace().Msg("finding product")
	products, err := s.products.FindProductsByIds(c, []uuid.UUID{id})
	if err != nil {
		err = fmt.Errorf("failed finding product with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return state.Product{}, nil, err
	}
	if len(products) == 0 {
		err = fmt.Errorf("failed finding product=%s with error=%w", id, inErrors.ErrProductNotFound)
		logger.Info().Err(err).Msg(err.Error())
		return state.Product{}, nil, err
	}
	p := products[0]
	logger.Trace().Msg("found product")
	return state.Product{
		ID:          p.ID.String(),
		Name:        p.Name,
		Slug:        p.Slug,
		Image:       p.Image,
		Description: p.Description,
	}, repository.NullableDecimalFromNumeric(p.Price), nil
}

func validateSession(sessionID string) error {
	if _, err := uuid.Parse(sessionID); err != nil {
		return fmt.Errorf("failed validating sessionId=%s with error=%w", sessionID, inErrors.ErrInvalidRequest)
	}
	return nil
}

func validateRequest(c context.Context, param any) error {
	if err := validate.New().StructCtx(c, param); err != nil {
		field, tag, _ := validate.FirstFailed(err)
		return fmt.Errorf("failed validating %s on %s with error=%w", field, tag, inErrors.ErrInvalidRequest)
	}
	return nil
}

func mapCart(sessionID string, cart state.Cart) response.Cart {
	total := cart.TotalPrice
	return response.Cart{
		SessionID:      sessionID,
		Items:          cart.Items,
		TotalItems:     cart.TotalItems,
		TotalPrice:     total,
		FormattedTotal: format.FormatPrice(&total, constants.DefaultCurrencySymbol),
	}
}

func mapQuotation(sessionID string, quotation state.Quotation) response.Quotation {
	return response.Quotation{
		SessionID:  sessionID,
		Items:      quotation.Items,
		TotalItems: quotation.TotalItems(),
		IsOpen:     quotation.IsOpen,
	}
}
