package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/catalog/internal/otel"
	"github.com/Alturino/storefront/catalog/internal/service"
	"github.com/Alturino/storefront/catalog/pkg/filter"
	"github.com/Alturino/storefront/catalog/pkg/request"
	"github.com/Alturino/storefront/catalog/pkg/response"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/middleware"
	inOtel "github.com/Alturino/storefront/internal/otel"
)

type CatalogController struct {
	service *service.CatalogService
}

func AttachCatalogController(mux *mux.Router, service *service.CatalogService, secretKey string) {
	controller := CatalogController{service: service}

	mux.HandleFunc("/shop", controller.Shop).Methods(http.MethodGet)

	router := mux.PathPrefix("/products").Subrouter()
	router.HandleFunc("/{slug}", controller.FindProductBySlug).Methods(http.MethodGet)

	staff := mux.NewRoute().Subrouter()
	staff.Use(middleware.Auth(secretKey))
	staff.HandleFunc("/products", controller.CreateProduct).Methods(http.MethodPost)
	staff.HandleFunc("/categories", controller.CreateCategory).Methods(http.MethodPost)
}

func (ctrl *CatalogController) Shop(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController Shop")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController Shop").
		Str(log.KeyProcess, "parsing query parameters").
		Logger()

	params := filter.ParseParams(r.URL.Query())
	logger.Trace().Interface(log.KeyFilter, params).Msg("parsed query parameters")

	logger = logger.With().Str(log.KeyProcess, "querying catalog").Logger()
	c = logger.WithContext(c)
	res, err := ctrl.service.Shop(c, params)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJson(c, w, http.StatusInternalServerError, response.Failed{Error: response.ErrorFetchProducts})
		return
	}

	inHttp.WriteJson(c, w, http.StatusOK, res)
}

func (ctrl *CatalogController) FindProductBySlug(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController FindProductBySlug")
	defer span.End()

	slug := mux.Vars(r)["slug"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController FindProductBySlug").
		Str(log.KeyProductSlug, slug).
		Str(log.KeyProcess, "finding product").
		Logger()

	c = logger.WithContext(c)
	product, err := ctrl.service.FindProductBySlug(c, slug)
	if errors.Is(err, inErrors.ErrProductNotFound) {
		inHttp.WriteFailed(c, w, http.StatusNotFound, fmt.Sprintf("product with slug=%s not found", slug))
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
		inHttp.KeyMessage:    "found product",
		inHttp.KeyData:       map[string]interface{}{"product": product},
	})
}

func (ctrl *CatalogController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController CreateProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController CreateProduct").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param := request.CreateProduct{}
	if err := json.NewDecoder(r.Body).Decode(&param); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, "invalid request body")
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "creating product").Logger()
	c = logger.WithContext(c)
	product, err := ctrl.service.CreateProduct(c, param)
	if errors.Is(err, inErrors.ErrInvalidRequest) {
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
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
		inHttp.KeyStatusCode: http.StatusCreated,
		inHttp.KeyMessage:    "created product",
		inHttp.KeyData:       map[string]interface{}{"product": product},
	})
}

func (ctrl *CatalogController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController CreateCategory")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController CreateCategory").
		Logger()

	param := request.CreateCategory{}
	if err := json.NewDecoder(r.Body).Decode(&param); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, "invalid request body")
		return
	}

	c = logger.WithContext(c)
	category, err := ctrl.service.CreateCategory(c, param)
	if errors.Is(err, inErrors.ErrInvalidRequest) {
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
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
		inHttp.KeyStatusCode: http.StatusCreated,
		inHttp.KeyMessage:    "created category",
		inHttp.KeyData:       map[string]interface{}{"category": category},
	})
}
