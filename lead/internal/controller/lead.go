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

	"github.com/Alturino/storefront/internal"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/middleware"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/lead/internal/otel"
	"github.com/Alturino/storefront/lead/internal/service"
	"github.com/Alturino/storefront/lead/pkg/request"
	"github.com/Alturino/storefront/lead/pkg/response"
)

const defaultPageSize = 20

type LeadController struct {
	service *service.LeadService
}

func AttachLeadController(mux *mux.Router, service *service.LeadService, secretKey string) {
	controller := LeadController{service: service}

	router := mux.PathPrefix("/leads").Subrouter()
	router.HandleFunc("", controller.SubmitLead).Methods(http.MethodPost)

	staff := router.NewRoute().Subrouter()
	staff.Use(middleware.Auth(secretKey))
	staff.HandleFunc("", controller.FindLeads).
		Methods(http.MethodGet).
		HeadersRegexp(constants.HeaderAuthorization, ".+")
	staff.HandleFunc("/{leadId}", controller.FindLeadById).Methods(http.MethodGet)
	staff.HandleFunc("/{leadId}", controller.UpdateLead).Methods(http.MethodPatch)
	staff.HandleFunc("/{leadId}/quotation.pdf", controller.QuotationPdf).Methods(http.MethodGet)

	router.HandleFunc("", controller.UsePost).Methods(http.MethodGet)
}

func (ctrl *LeadController) SubmitLead(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "LeadController SubmitLead")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LeadController SubmitLead").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param := request.SubmitLead{}
	if err := json.NewDecoder(r.Body).Decode(&param); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteJson(c, w, http.StatusBadRequest, response.Failed{Error: response.ErrorInvalidBody})
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "submitting lead").Logger()
	c = logger.WithContext(c)
	res, err := ctrl.service.SubmitLead(c, param)
	var requestErr *service.RequestError
	switch {
	case err == nil:
	case errors.As(err, &requestErr):
		inHttp.WriteJson(c, w, http.StatusBadRequest, response.Failed{Error: requestErr.Message})
		return
	default:
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJson(c, w, http.StatusInternalServerError, response.Failed{Error: response.ErrorSubmitLead})
		return
	}
	logger.Info().Str(log.KeyLeadID, res.LeadID.String()).Msg("submitted lead")

	inHttp.WriteJson(c, w, http.StatusCreated, res)
}

func (ctrl *LeadController) UsePost(w http.ResponseWriter, r *http.Request) {
	inHttp.WriteJson(r.Context(), w, http.StatusMethodNotAllowed, response.Message{Message: response.MessageUsePost})
}

func (ctrl *LeadController) FindLeads(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "LeadController FindLeads")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LeadController FindLeads").
		Str(log.KeyProcess, "finding leads").
		Logger()

	query := r.URL.Query()
	param := request.FindLeads{Status: query.Get("status"), Page: 1, Limit: defaultPageSize}
	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		param.Page = page
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil {
		param.Limit = limit
	}

	c = logger.WithContext(c)
	leads, err := ctrl.service.FindLeads(c, param)
	var requestErr *service.RequestError
	if errors.As(err, &requestErr) {
		inHttp.WriteFailed(c, w, http.StatusBadRequest, requestErr.Message)
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
		inHttp.KeyMessage:    "found leads",
		inHttp.KeyData:       leads,
	})
}

func (ctrl *LeadController) FindLeadById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "LeadController FindLeadById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LeadController FindLeadById").
		Logger()

	leadId, ok := parseLeadId(w, r)
	if !ok {
		return
	}

	logger = logger.With().Str(log.KeyProcess, "finding lead").Logger()
	c = logger.WithContext(c)
	lead, err := ctrl.service.FindLeadById(c, leadId)
	if errors.Is(err, inErrors.ErrLeadNotFound) {
		inHttp.WriteFailed(c, w, http.StatusNotFound, fmt.Sprintf("lead with id=%s not found", leadId))
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
		inHttp.KeyMessage:    "found lead",
		inHttp.KeyData:       map[string]interface{}{"lead": lead},
	})
}

func (ctrl *LeadController) UpdateLead(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "LeadController UpdateLead")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LeadController UpdateLead").
		Logger()

	leadId, ok := parseLeadId(w, r)
	if !ok {
		return
	}

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	param := request.UpdateLead{}
	if err := json.NewDecoder(r.Body).Decode(&param); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, "invalid request body")
		return
	}

	logger = logger.With().Str(log.KeyProcess, "getting author").Logger()
	author, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		inOtel.RecordError(err, span)
		inHttp.WriteFailed(c, w, http.StatusUnauthorized, inErrors.ErrTokenInvalid.Error())
		return
	}

	logger = logger.With().Str(log.KeyProcess, "updating lead").Logger()
	c = logger.WithContext(c)
	lead, err := ctrl.service.UpdateLead(c, leadId, param, author.String())
	var requestErr *service.RequestError
	switch {
	case err == nil:
	case errors.As(err, &requestErr):
		inHttp.WriteFailed(c, w, http.StatusBadRequest, requestErr.Message)
		return
	case errors.Is(err, inErrors.ErrLeadNotFound):
		inHttp.WriteFailed(c, w, http.StatusNotFound, fmt.Sprintf("lead with id=%s not found", leadId))
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
		inHttp.KeyMessage:    "updated lead",
		inHttp.KeyData:       map[string]interface{}{"lead": lead},
	})
}

func (ctrl *LeadController) QuotationPdf(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "LeadController QuotationPdf")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LeadController QuotationPdf").
		Str(log.KeyProcess, "rendering quotation").
		Logger()

	leadId, ok := parseLeadId(w, r)
	if !ok {
		return
	}

	c = logger.WithContext(c)
	out, err := ctrl.service.QuotationPdf(c, leadId)
	if errors.Is(err, inErrors.ErrLeadNotFound) {
		inHttp.WriteFailed(c, w, http.StatusNotFound, fmt.Sprintf("lead with id=%s not found", leadId))
		return
	}
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusInternalServerError, inHttp.MessageInternalErr)
		return
	}

	w.Header().Set(inHttp.HeaderContentType, inHttp.HeaderValuePdf)
	w.Header().Set(inHttp.HeaderDisposition, fmt.Sprintf(`inline; filename="quotation-%s.pdf"`, leadId))
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(out); err != nil {
		logger.Error().Err(err).Msgf("failed writing pdf with error=%s", err.Error())
	}
}

func parseLeadId(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	leadId, err := uuid.Parse(mux.Vars(r)["leadId"])
	if err != nil {
		inHttp.WriteFailed(r.Context(), w, http.StatusBadRequest, "invalid lead id")
		return uuid.Nil, false
	}
	return leadId, true
}
