package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/storefront/cart/internal/otel"
	"github.com/Alturino/storefront/cart/internal/service"
	"github.com/Alturino/storefront/cart/pkg/request"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
)

const (
	pathSessionID = "sessionId"
	pathItemID    = "itemId"
	pathProductID = "productId"
)

type CartController struct {
	service *service.CartService
}

func AttachCartController(mux *mux.Router, service *service.CartService) {
	controller := CartController{service: service}

	carts := mux.PathPrefix("/carts/{sessionId}").Subrouter()
	carts.HandleFunc("", controller.FindCart).Methods(http.MethodGet)
	carts.HandleFunc("", controller.ClearCart).Methods(http.MethodDelete)
	carts.HandleFunc("/items", controller.AddCartItem).Methods(http.MethodPost)
	carts.HandleFunc("/items/{itemId}", controller.UpdateCartItem).Methods(http.MethodPatch)
	carts.HandleFunc("/items/{itemId}", controller.RemoveCartItem).Methods(http.MethodDelete)

	quotations := mux.PathPrefix("/quotations/{sessionId}").Subrouter()
	quotations.HandleFunc("", controller.FindQuotation).Methods(http.MethodGet)
	quotations.HandleFunc("", controller.ClearQuotation).Methods(http.MethodDelete)
	quotations.HandleFunc("/items", controller.AddQuoteItem).Methods(http.MethodPost)
	quotations.HandleFunc("/items/{productId}", controller.UpdateQuoteItem).Methods(http.MethodPatch)
	quotations.HandleFunc("/items/{productId}", controller.RemoveQuoteItem).Methods(http.MethodDelete)
	quotations.HandleFunc("/items/{productId}/requirements", controller.UpdateRequirements).Methods(http.MethodPut)
	quotations.HandleFunc("/toggle", controller.ToggleQuotation).Methods(http.MethodPost)
	quotations.HandleFunc("/open", controller.SetQuotationOpen).Methods(http.MethodPut)
}

func (ctrl *CartController) FindCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController FindCart")
	defer span.End()

	cart, err := ctrl.service.FindCart(c, mux.Vars(r)[pathSessionID])
	ctrl.write(c, w, "found cart", "cart", cart, err)
}

func (ctrl *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()

	cart, err := ctrl.service.ClearCart(c, mux.Vars(r)[pathSessionID])
	ctrl.write(c, w, "cleared cart", "cart", cart, err)
}

func (ctrl *CartController) AddCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddCartItem")
	defer span.End()

	param := request.AddItem{}
	if !decode(c, w, r, &param) {
		return
	}
	cart, err := ctrl.service.AddCartItem(c, mux.Vars(r)[pathSessionID], param)
	ctrl.write(c, w, "added cart item", "cart", cart, err)
}

func (ctrl *CartController) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateCartItem")
	defer span.End()

	param := request.UpdateQuantity{}
	if !decode(c, w, r, &param) {
		return
	}
	vars := mux.Vars(r)
	cart, err := ctrl.service.UpdateCartItem(c, vars[pathSessionID], vars[pathItemID], param)
	ctrl.write(c, w, "updated cart item", "cart", cart, err)
}

func (ctrl *CartController) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveCartItem")
	defer span.End()

	vars := mux.Vars(r)
	cart, err := ctrl.service.RemoveCartItem(c, vars[pathSessionID], vars[pathItemID])
	ctrl.write(c, w, "removed cart item", "cart", cart, err)
}

func (ctrl *CartController) FindQuotation(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController FindQuotation")
	defer span.End()

	quotation, err := ctrl.service.FindQuotation(c, mux.Vars(r)[pathSessionID])
	ctrl.write(c, w, "found quotation", "quotation", quotation, err)
}

func (ctrl *CartController) ClearQuotation(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ClearQuotation")
	defer span.End()

	quotation, err := ctrl.service.ClearQuotation(c, mux.Vars(r)[pathSessionID])
	ctrl.write(c, w, "cleared quotation", "quotation", quotation, err)
}

func (ctrl *CartController) AddQuoteItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddQuoteItem")
	defer span.End()

	param := request.AddItem{}
	if !decode(c, w, r, &param) {
		return
	}
	quotation, err := ctrl.service.AddQuoteItem(c, mux.Vars(r)[pathSessionID], param)
	ctrl.write(c, w, "added quote item", "quotation", quotation, err)
}

func (ctrl *CartController) UpdateQuoteItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateQuoteItem")
	defer span.End()

	param := request.UpdateQuantity{}
	if !decode(c, w, r, &param) {
		return
	}
	vars := mux.Vars(r)
	quotation, err := ctrl.service.UpdateQuoteItem(c, vars[pathSessionID], vars[pathProductID], param)
	ctrl.write(c, w, "updated quote item", "quotation", quotation, err)
}

func (ctrl *CartController) RemoveQuoteItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveQuoteItem")
	defer span.End()

	vars := mux.Vars(r)
	quotation, err := ctrl.service.RemoveQuoteItem(c, vars[pathSessionID], vars[pathProductID])
	ctrl.write(c, w, "removed quote item", "quotation", quotation, err)
}

func (ctrl *CartController) UpdateRequirements(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateRequirements")
	defer span.End()

	param := request.UpdateRequirements{}
	if !decode(c, w, r, &param) {
		return
	}
	vars := mux.Vars(r)
	quotation, err := ctrl.service.UpdateRequirements(c, vars[pathSessionID], vars[pathProductID], param)
	ctrl.write(c, w, "updated requirements", "quotation", quotation, err)
}

func (ctrl *CartController) ToggleQuotation(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ToggleQuotation")
	defer span.End()

	quotation, err := ctrl.service.ToggleQuotation(c, mux.Vars(r)[pathSessionID])
	ctrl.write(c, w, "toggled quotation", "quotation", quotation, err)
}

func (ctrl *CartController) SetQuotationOpen(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController SetQuotationOpen")
	defer span.End()

	param := request.SetOpen{}
	if !decode(c, w, r, &param) {
		return
	}
	quotation, err := ctrl.service.SetQuotationOpen(c, mux.Vars(r)[pathSessionID], param)
	ctrl.write(c, w, "set quotation open", "quotation", quotation, err)
}

func decode(c context.Context, w http.ResponseWriter, r *http.Request, param any) bool {
	logger := zerolog.Ctx(c).With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	if err := json.NewDecoder(r.Body).Decode(param); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, "invalid request body")
		return false
	}
	logger.Trace().Msg("decoded request body")
	return true
}

func (ctrl *CartController) write(c context.Context, w http.ResponseWriter, message string, key string, data any, err error) {
	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartController write").Logger()

	switch {
	case err == nil:
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			inHttp.KeyStatus:     inHttp.StatusSuccess,
			inHttp.KeyStatusCode: http.StatusOK,
			inHttp.KeyMessage:    message,
			inHttp.KeyData:       map[string]interface{}{key: data},
		})
	case errors.Is(err, inErrors.ErrInvalidRequest):
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
	case errors.Is(err, inErrors.ErrProductNotFound):
		inHttp.WriteFailed(c, w, http.StatusNotFound, inErrors.ErrProductNotFound.Error())
	default:
		inOtel.RecordError(err, trace.SpanFromContext(c))
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusInternalServerError, inHttp.MessageInternalErr)
	}
}
