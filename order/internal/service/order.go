package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/broker"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/metric"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/validate"
	"github.com/Alturino/storefront/order/internal/otel"
	"github.com/Alturino/storefront/order/pkg/normalize"
	"github.com/Alturino/storefront/order/pkg/request"
	"github.com/Alturino/storefront/order/pkg/response"
)

type OrderService struct {
	pool      *pgxpool.Pool
	queries   *repository.Queries
	publisher broker.Publisher
	numbers   normalize.NumberGenerator
	now       func() time.Time
}

func NewOrderService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	publisher broker.Publisher,
	numbers normalize.NumberGenerator,
) *OrderService {
	return &OrderService{
		pool:      pool,
		queries:   queries,
		publisher: publisher,
		numbers:   numbers,
		now:       time.Now,
	}
}

// Checkout validates the request, prices every line from the catalog, normalizes the order and
// persists it with its items while reserving stock, all in one transaction.
func (s *OrderService) Checkout(c context.Context, param request.Checkout) (response.Checkout, error) {
	c, span := otel.Tracer.Start(c, "OrderService Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService Checkout").
		Str(log.KeyPaymentMethod, param.PaymentMethod).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating request").Logger()
	logger.Trace().Msg("validating request")
	if err := validate.New().StructCtx(c, param); err != nil {
		field, tag, _ := validate.FirstFailed(err)
		err = &normalize.ValidationError{Field: field, Message: fmt.Sprintf("failed on %s", tag)}
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger.Trace().Msg("validated request")

	logger = logger.With().Str(log.KeyProcess, "finding products").Logger()
	logger.Trace().Msg("finding products")
	ids := make([]uuid.UUID, 0, len(param.Items))
	for _, item := range param.Items {
		ids = append(ids, item.Product)
	}
	products, err := s.queries.FindProductsByIds(c, ids)
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	productById := make(map[uuid.UUID]repository.ProductWithTags, len(products))
	for _, p := range products {
		productById[p.ID] = p
	}
	logger.Trace().Int("found", len(products)).Msg("found products")

	logger = logger.With().Str(log.KeyProcess, "normalizing order").Logger()
	logger.Trace().Msg("normalizing order")
	order := normalize.Order{
		Customer: normalize.Customer{
			Name:  param.CustomerInfo.FullName,
			Email: param.CustomerInfo.Email,
			Phone: param.CustomerInfo.Phone,
		},
		Items: make([]normalize.Item, 0, len(param.Items)),
		Pricing: normalize.Pricing{
			ShippingCost:   param.Pricing.ShippingCost,
			TaxAmount:      param.Pricing.TaxAmount,
			DiscountAmount: param.Pricing.DiscountAmount,
		},
	}
	for i, item := range param.Items {
		product, ok := productById[item.Product]
		if !ok {
			err = fmt.Errorf("failed finding product=%s with error=%w", item.Product, inErrors.ErrProductNotFound)
			inOtel.RecordError(err, span)
			logger.Info().Err(err).Msg(err.Error())
			return response.Checkout{}, err
		}
		price := repository.NullableDecimalFromNumeric(product.Price)
		if price == nil {
			err = &normalize.ValidationError{
				Field:   fmt.Sprintf("items[%d].product", i),
				Message: fmt.Sprintf("%s is only available on quotation", product.Name),
			}
			inOtel.RecordError(err, span)
			logger.Info().Err(err).Msg(err.Error())
			return response.Checkout{}, err
		}
		order.Items = append(order.Items, normalize.Item{
			ProductID:   product.ID,
			Name:        product.Name,
			Price:       *price,
			Image:       product.Image,
			Description: product.Description,
			Quantity:    item.Quantity,
			UnitPrice:   *price,
		})
	}
	order, err = normalize.Normalize(order, normalize.OperationCreate, s.numbers)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger = logger.With().Str(log.KeyOrderNumber, order.OrderNumber).Logger()
	logger.Trace().Msg("normalized order")

	logger = logger.With().Str(log.KeyProcess, "encoding addresses").Logger()
	shipping, err := json.Marshal(param.ShippingAddress)
	if err != nil {
		err = fmt.Errorf("failed encoding shipping address with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	billing := shipping
	if !param.BillingAddress.SameAsShipping {
		billing, err = json.Marshal(param.BillingAddress.Address())
		if err != nil {
			err = fmt.Errorf("failed encoding billing address with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Checkout{}, err
		}
	}

	c = logger.WithContext(c)
	inserted, err := s.insertOrder(c, order, param, shipping, billing)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger = logger.With().Str(log.KeyOrderID, inserted.ID.String()).Logger()
	metric.OrdersCreated.WithLabelValues(param.PaymentMethod).Inc()

	logger = logger.With().Str(log.KeyProcess, "publishing order created").Logger()
	logger.Trace().Msg("publishing order created")
	err = s.publisher.Publish(c, constants.TopicOrderCreated, request.OrderCreated{
		OrderID:       inserted.ID,
		OrderNumber:   inserted.OrderNumber,
		CustomerName:  inserted.CustomerName,
		CustomerEmail: inserted.CustomerEmail,
		PaymentMethod: inserted.PaymentMethod,
		TotalAmount:   order.Pricing.Total,
		CreatedAt:     s.now(),
	})
	if err != nil {
		err = fmt.Errorf("failed publishing order created with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
	} else {
		logger.Trace().Msg("published order created")
	}

	res := response.Checkout{
		Success:     true,
		OrderID:     inserted.ID,
		OrderNumber: inserted.OrderNumber,
		Message:     response.MessageOrderCreated,
	}
	if param.PaymentMethod != request.PaymentMethodCod {
		res.Message = response.MessageRedirectPayment
		res.RequiresPayment = true
		res.PaymentMethod = param.PaymentMethod
	}
	logger.Info().Msg("checkout completed")

	return res, nil
}

func (s *OrderService) insertOrder(
	c context.Context,
	order normalize.Order,
	param request.Checkout,
	shipping []byte,
	billing []byte,
) (repository.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService insertOrder")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "OrderService insertOrder").Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Trace().Msg("initializing transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.Order{}, err
	}
	defer func() {
		if err := tx.Rollback(c); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			err = fmt.Errorf("failed rolling back transaction with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()
	queries := s.queries.WithTx(tx)
	logger.Trace().Msg("initialized transaction")

	logger = logger.With().Str(log.KeyProcess, "inserting order").Logger()
	logger.Trace().Msg("inserting order")
	inserted, err := queries.InsertOrder(c, repository.InsertOrderParams{
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		CustomerPhone:   order.Customer.Phone,
		ShippingAddress: shipping,
		BillingAddress:  billing,
		Subtotal:        repository.NumericFromDecimal(order.Pricing.Subtotal),
		ShippingCost:    repository.NumericFromDecimal(order.Pricing.ShippingCost),
		TaxAmount:       repository.NumericFromDecimal(order.Pricing.TaxAmount),
		DiscountAmount:  repository.NumericFromDecimal(order.Pricing.DiscountAmount),
		TotalAmount:     repository.NumericFromDecimal(order.Pricing.Total),
		Currency:        order.Pricing.Currency,
		PaymentMethod:   param.PaymentMethod,
		PaymentStatus:   order.PaymentStatus,
		Status:          order.Status,
		CustomerNotes:   param.CustomerNotes,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.Order{}, err
	}
	logger.Trace().Msg("inserted order")

	for _, item := range order.Items {
		logger := logger.With().
			Str(log.KeyProcess, "inserting order item").
			Str(log.KeyProductID, item.ProductID.String()).
			Logger()

		logger.Trace().Msg("reserving stock")
		affected, err := queries.DecrementProductStock(c, item.ProductID, int32(item.Quantity))
		if err != nil {
			err = fmt.Errorf("failed reserving stock with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return repository.Order{}, err
		}
		if affected == 0 {
			err = fmt.Errorf("failed reserving %d of product=%s with error=%w", item.Quantity, item.Name, inErrors.ErrOutOfStock)
			inOtel.RecordError(err, span)
			logger.Info().Err(err).Msg(err.Error())
			return repository.Order{}, err
		}
		logger.Trace().Msg("reserved stock")

		logger.Trace().Msg("inserting order item")
		_, err = queries.InsertOrderItem(c, repository.InsertOrderItemParams{
			OrderID:            inserted.ID,
			ProductID:          item.ProductID,
			ProductName:        item.Name,
			ProductPrice:       repository.NumericFromDecimal(item.Price),
			ProductImage:       item.Image,
			ProductDescription: item.Description,
			Quantity:           int32(item.Quantity),
			UnitPrice:          repository.NumericFromDecimal(item.UnitPrice),
			TotalPrice:         repository.NumericFromDecimal(item.TotalPrice),
		})
		if err != nil {
			err = fmt.Errorf("failed inserting order item with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return repository.Order{}, err
		}
		logger.Trace().Msg("inserted order item")
	}

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Trace().Msg("committing transaction")
	if err = tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.Order{}, err
	}
	logger.Trace().Msg("committed transaction")

	return inserted, nil
}

func (s *OrderService) FindOrderById(c context.Context, orderId uuid.UUID) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrderById").
		Str(log.KeyOrderID, orderId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding order by id").Logger()
	logger.Trace().Msg("finding order by id")
	order, err := s.queries.FindOrderById(c, orderId)
	if errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed finding order by id=%s with error=%w", orderId, inErrors.ErrOrderNotFound)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	if err != nil {
		err = fmt.Errorf("failed finding order by id=%s with error=%w", orderId, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Trace().Msg("found order by id")

	logger = logger.With().Str(log.KeyProcess, "finding order items").Logger()
	logger.Trace().Msg("finding order items")
	items, err := s.queries.FindOrderItemsByOrderId(c, orderId)
	if err != nil {
		err = fmt.Errorf("failed finding order items of order=%s with error=%w", orderId, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Trace().Msg("found order items")

	return mapOrder(order, items), nil
}

func (s *OrderService) FindOrders(c context.Context, param request.FindOrders) (response.Orders, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrders").
		Int("page", param.Page).
		Int("limit", param.Limit).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating request").Logger()
	if err := validate.New().StructCtx(c, param); err != nil {
		field, tag, _ := validate.FirstFailed(err)
		err = &normalize.ValidationError{Field: field, Message: fmt.Sprintf("failed on %s", tag)}
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Orders{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "finding orders").Logger()
	logger.Trace().Msg("finding orders")
	orders, err := s.queries.FindOrders(c, int32(param.Limit), int32((param.Page-1)*param.Limit))
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Orders{}, err
	}
	total, err := s.queries.CountOrders(c)
	if err != nil {
		err = fmt.Errorf("failed counting orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Orders{}, err
	}
	logger.Trace().Int64("total", total).Msg("found orders")

	res := response.Orders{
		Orders:      make([]response.Order, 0, len(orders)),
		TotalOrders: total,
		TotalPages:  int((total + int64(param.Limit) - 1) / int64(param.Limit)),
		CurrentPage: param.Page,
	}
	for _, o := range orders {
		res.Orders = append(res.Orders, mapOrder(o, nil))
	}
	return res, nil
}

// UpdateOrder applies a staff edit and re-runs normalization over the stored items so the stored
// totals stay consistent with the lines.
func (s *OrderService) UpdateOrder(
	c context.Context,
	orderId uuid.UUID,
	param request.UpdateOrder,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService UpdateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService UpdateOrder").
		Str(log.KeyOrderID, orderId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating request").Logger()
	if err := validate.New().StructCtx(c, param); err != nil {
		field, tag, _ := validate.FirstFailed(err)
		err = &normalize.ValidationError{Field: field, Message: fmt.Sprintf("failed on %s", tag)}
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	c = logger.WithContext(c)
	current, err := s.FindOrderById(c, orderId)
	if err != nil {
		inOtel.RecordError(err, span)
		return response.Order{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "normalizing order").Logger()
	logger.Trace().Msg("normalizing order")
	order := normalize.Order{
		OrderNumber: current.OrderNumber,
		Customer: normalize.Customer{
			Name:  current.CustomerInfo.CustomerName,
			Email: current.CustomerInfo.CustomerEmail,
			Phone: current.CustomerInfo.CustomerPhone,
		},
		Pricing: normalize.Pricing{
			ShippingCost:   current.Pricing.ShippingCost,
			TaxAmount:      current.Pricing.TaxAmount,
			DiscountAmount: current.Pricing.DiscountAmount,
			Currency:       current.Pricing.Currency,
		},
		Status:        firstNonEmpty(param.Status, current.Status),
		PaymentStatus: firstNonEmpty(param.PaymentStatus, current.PaymentStatus),
	}
	for _, item := range current.Items {
		order.Items = append(order.Items, normalize.Item{
			ProductID: item.Product,
			Quantity:  int(item.Quantity),
			UnitPrice: item.UnitPrice,
		})
	}
	order, err = normalize.Normalize(order, normalize.OperationUpdate, s.numbers)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Trace().Msg("normalized order")

	logger = logger.With().Str(log.KeyProcess, "updating order").Logger()
	logger.Trace().Msg("updating order")
	_, err = s.queries.UpdateOrder(c, repository.UpdateOrderParams{
		ID:            orderId,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		TransactionID: firstNonEmpty(param.TransactionID, current.PaymentInfo.TransactionID),
		InternalNotes: firstNonEmpty(param.InternalNotes, current.InternalNotes),
		Subtotal:      repository.NumericFromDecimal(order.Pricing.Subtotal),
		TotalAmount:   repository.NumericFromDecimal(order.Pricing.Total),
	})
	if err != nil {
		err = fmt.Errorf("failed updating order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Str("status", order.Status).Msg("updated order")

	return s.FindOrderById(c, orderId)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func mapOrder(o repository.Order, items []repository.OrderItem) response.Order {
	res := response.Order{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		CustomerInfo: response.CustomerInfo{
			CustomerName:  o.CustomerName,
			CustomerEmail: o.CustomerEmail,
			CustomerPhone: o.CustomerPhone,
		},
		ShippingAddress: json.RawMessage(o.ShippingAddress),
		BillingAddress:  json.RawMessage(o.BillingAddress),
		Items:           make([]response.OrderItem, 0, len(items)),
		Pricing: response.Pricing{
			Subtotal:       repository.DecimalFromNumeric(o.Subtotal),
			ShippingCost:   repository.DecimalFromNumeric(o.ShippingCost),
			TaxAmount:      repository.DecimalFromNumeric(o.TaxAmount),
			DiscountAmount: repository.DecimalFromNumeric(o.DiscountAmount),
			TotalAmount:    repository.DecimalFromNumeric(o.TotalAmount),
			Currency:       o.Currency,
		},
		PaymentInfo: response.PaymentInfo{
			PaymentMethod: o.PaymentMethod,
			TransactionID: o.TransactionID,
		},
		PaymentStatus: o.PaymentStatus,
		Status:        o.Status,
		CustomerNotes: o.CustomerNotes,
		InternalNotes: o.InternalNotes,
		CreatedAt:     o.CreatedAt.Time,
		UpdatedAt:     o.UpdatedAt.Time,
	}
	for _, i := range items {
		res.Items = append(res.Items, response.OrderItem{
			ID:      i.ID,
			Product: i.ProductID,
			ProductSnapshot: response.ProductSnapshot{
				Name:        i.ProductName,
				Price:       repository.DecimalFromNumeric(i.ProductPrice),
				Image:       i.ProductImage,
				Description: i.ProductDescription,
			},
			Quantity:   i.Quantity,
			UnitPrice:  repository.DecimalFromNumeric(i.UnitPrice),
			TotalPrice: repository.DecimalFromNumeric(i.TotalPrice),
		})
	}
	return res
}

