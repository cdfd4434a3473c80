package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/middleware"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/order/internal/otel"
	"github.com/Alturino/storefront/order/internal/service"
	"github.com/Alturino/storefront/order/pkg/normalize"
	"github.com/Alturino/storefront/order/pkg/request"
	"github.com/Alturino/storefront/order/pkg/response"
)

const defaultPageSize = 20

type OrderController struct {
	service *service.OrderService
}

func AttachOrderController(mux *mux.Router, service *service.OrderService, secretKey string) {
	controller := OrderController{service: service}

	mux.HandleFunc("/checkout", controller.Checkout).Methods(http.MethodPost)

	router := mux.PathPrefix("/orders").Subrouter()
	router.HandleFunc("/{orderId}", controller.FindOrderById).Methods(http.MethodGet)

	staff := router.NewRoute().Subrouter()
	staff.Use(middleware.Auth(secretKey))
	staff.HandleFunc("", controller.FindOrders).Methods(http.MethodGet)
	staff.HandleFunc("/{orderId}/status", controller.UpdateOrder).Methods(http.MethodPatch)
}

func (ctrl *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController Checkout").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param := request.Checkout{}
	if err := json.NewDecoder(r.Body).Decode(&param); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteJson(c, w, http.StatusBadRequest, response.CheckoutFailed{
			Error:   response.ErrorProcessOrder,
			Message: "Invalid request body",
		})
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "checking out").Logger()
	c = logger.WithContext(c)
	res, err := ctrl.service.Checkout(c, param)
	if err != nil {
		inOtel.RecordError(err, span)
		var validationErr *normalize.ValidationError
		switch {
		case errors.As(err, &validationErr):
			inHttp.WriteJson(c, w, http.StatusBadRequest, response.CheckoutFailed{
				Error:   response.ErrorProcessOrder,
				Message: validationErr.Error(),
			})
		case errors.Is(err, inErrors.ErrProductNotFound):
			inHttp.WriteJson(c, w, http.StatusBadRequest, response.CheckoutFailed{
				Error:   response.ErrorProcessOrder,
				Message: inErrors.ErrProductNotFound.Error(),
			})
		case errors.Is(err, inErrors.ErrOutOfStock):
			inHttp.WriteJson(c, w, http.StatusConflict, response.CheckoutFailed{
				Error:   response.ErrorProcessOrder,
				Message: inErrors.ErrOutOfStock.Error(),
			})
		default:
			logger.Error().Err(err).Msg(err.Error())
			inHttp.WriteJson(c, w, http.StatusInternalServerError, response.CheckoutFailed{
				Error:   response.ErrorProcessOrder,
				Message: inHttp.MessageInternalErr,
			})
		}
		return
	}
	logger.Info().Str(log.KeyOrderNumber, res.OrderNumber).Msg("checked out")

	inHttp.WriteJson(c, w, http.StatusOK, res)
}

func (ctrl *OrderController) FindOrderById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController FindOrderById").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating orderId").Logger()
	orderId, err := uuid.Parse(mux.Vars(r)["orderId"])
	if err != nil {
		err = fmt.Errorf("failed validating orderId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, "invalid order id")
		return
	}

	logger = logger.With().Str(log.KeyProcess, "finding order").Logger()
	c = logger.WithContext(c)
	order, err := ctrl.service.FindOrderById(c, orderId)
	if errors.Is(err, inErrors.ErrOrderNotFound) {
		inHttp.WriteFailed(c, w, http.StatusNotFound, fmt.Sprintf("order with id=%s not found", orderId))
		return
	}
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusInternalServerError, inHttp.MessageInternalErr)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		inHttp.KeyStatus:     inHttp.StatusSuccess,
		inHttp.KeyStatusCode: http.StatusOK,
		inHttp.KeyMessage:    "found order",
		inHttp.KeyData:       map[string]interface{}{"order": order.Public()},
	})
}

func (ctrl *OrderController) FindOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController FindOrders").
		Str(log.KeyProcess, "finding orders").
		Logger()

	param := request.FindOrders{Page: 1, Limit: defaultPageSize}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		param.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		param.Limit = limit
	}

	c = logger.WithContext(c)
	orders, err := ctrl.service.FindOrders(c, param)
	var validationErr *normalize.ValidationError
	if errors.As(err, &validationErr) {
		inHttp.WriteFailed(c, w, http.StatusBadRequest, validationErr.Error())
		return
	}
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusInternalServerError, inHttp.MessageInternalErr)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		inHttp.KeyStatus:     inHttp.StatusSuccess,
		inHttp.KeyStatusCode: http.StatusOK,
		inHttp.KeyMessage:    "found orders",
		inHttp.KeyData:       orders,
	})
}

func (ctrl *OrderController) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController UpdateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController UpdateOrder").
		Logger()

	orderId, err := uuid.Parse(mux.Vars(r)["orderId"])
	if err != nil {
		err = fmt.Errorf("failed validating orderId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, "invalid order id")
		return
	}

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	param := request.UpdateOrder{}
	if err = json.NewDecoder(r.Body).Decode(&param); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, "invalid request body")
		return
	}

	logger = logger.With().Str(log.KeyProcess, "updating order").Logger()
	c = logger.WithContext(c)
	order, err := ctrl.service.UpdateOrder(c, orderId, param)
	var validationErr *normalize.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &validationErr):
		inHttp.WriteFailed(c, w, http.StatusBadRequest, validationErr.Error())
		return
	case errors.Is(err, inErrors.ErrOrderNotFound):
		inHttp.WriteFailed(c, w, http.StatusNotFound, fmt.Sprintf("order with id=%s not found", orderId))
		return
	default:
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusInternalServerError, inHttp.MessageInternalErr)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		inHttp.KeyStatus:     inHttp.StatusSuccess,
		inHttp.KeyStatusCode: http.StatusOK,
		inHttp.KeyMessage:    "updated order",
		inHttp.KeyData:       map[string]interface{}{"order": order},
	})
}
