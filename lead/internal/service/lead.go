package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/broker"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/metric"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/validate"
	"github.com/Alturino/storefront/lead/internal/otel"
	"github.com/Alturino/storefront/lead/internal/pdf"
	"github.com/Alturino/storefront/lead/pkg/request"
	"github.com/Alturino/storefront/lead/pkg/response"
)

// RequestError is a client mistake whose message is returned to the caller as is.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

type LeadStore interface {
	CreateLead(
		c context.Context,
		arg repository.InsertLeadParams,
		products []repository.InsertLeadProductParams,
	) (repository.LeadDetail, error)
	FindLeadDetail(c context.Context, id uuid.UUID) (repository.LeadDetail, error)
	FindLeads(c context.Context, status string, limit int32, offset int32) ([]repository.Lead, error)
	CountLeads(c context.Context, status string) (int64, error)
	ModifyLead(c context.Context, arg repository.UpdateLeadParams, note string, author string) (repository.Lead, error)
}

type LeadService struct {
	store     LeadStore
	publisher broker.Publisher
	pdf       *pdf.Generator
	now       func() time.Time
}

func NewLeadService(store LeadStore, publisher broker.Publisher) *LeadService {
	return &LeadService{store: store, publisher: publisher, pdf: pdf.NewGenerator(), now: time.Now}
}

// SubmitLead records a quote request. Nothing is stored when a check fails, and a failed
// notification never fails the submission.
func (s *LeadService) SubmitLead(c context.Context, param request.SubmitLead) (response.Submitted, error) {
	c, span := otel.Tracer.Start(c, "LeadService SubmitLead")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LeadService SubmitLead").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating request").Logger()
	logger.Trace().Msg("validating request")
	if err := checkLead(c, param); err != nil {
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Submitted{}, err
	}
	logger.Trace().Msg("validated request")

	logger = logger.With().Str(log.KeyProcess, "encoding lead").Logger()
	address := request.Address{}
	if param.Address != nil {
		address = *param.Address
	}
	if address.Country == "" {
		address.Country = constants.DefaultCountry
	}
	project := request.ProjectDetails{}
	if param.ProjectDetails != nil {
		project = *param.ProjectDetails
	}
	addressJson, err := json.Marshal(address)
	if err != nil {
		err = fmt.Errorf("failed encoding address with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Submitted{}, err
	}
	projectJson, err := json.Marshal(project)
	if err != nil {
		err = fmt.Errorf("failed encoding project details with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Submitted{}, err
	}
	products := make([]repository.InsertLeadProductParams, 0, len(param.Products))
	for _, item := range param.Products {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = request.DefaultQuantity
		}
		products = append(products, repository.InsertLeadProductParams{
			ProductID:          item.Product,
			Quantity:           int32(quantity),
			CustomRequirements: item.CustomRequirements,
		})
	}

	logger = logger.With().Str(log.KeyProcess, "inserting lead").Logger()
	logger.Trace().Msg("inserting lead")
	c = logger.WithContext(c)
	lead, err := s.store.CreateLead(c, repository.InsertLeadParams{
		CustomerName:           strings.TrimSpace(param.CustomerName),
		Email:                  strings.TrimSpace(param.Email),
		Phone:                  strings.TrimSpace(param.Phone),
		Company:                param.Company,
		Address:                addressJson,
		ProjectDetails:         projectJson,
		AdditionalRequirements: param.AdditionalRequirements,
		HearAboutUs:            param.HearAboutUs,
		Status:                 request.StatusNew,
		Priority:               request.PriorityMedium,
	}, products)
	if errors.Is(err, inErrors.ErrProductNotFound) {
		err = &RequestError{Message: fmt.Sprintf(response.ErrorInvalidField, "products")}
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Submitted{}, err
	}
	if err != nil {
		err = fmt.Errorf("failed inserting lead with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Submitted{}, err
	}
	logger = logger.With().Str(log.KeyLeadID, lead.ID.String()).Logger()
	logger.Info().Msg("inserted lead")
	metric.LeadsCreated.Inc()

	logger = logger.With().Str(log.KeyProcess, "publishing lead created").Logger()
	logger.Trace().Msg("publishing lead created")
	err = s.publisher.Publish(c, constants.TopicLeadCreated, request.LeadCreated{
		LeadID:       lead.ID,
		CustomerName: lead.CustomerName,
		Email:        lead.Email,
		Phone:        lead.Phone,
		Company:      lead.Company,
		ProductCount: len(lead.Products),
		ProjectType:  project.ProjectType,
		Budget:       project.Budget,
		Timeline:     project.Timeline,
		CreatedAt:    s.now(),
	})
	if err != nil {
		err = fmt.Errorf("failed publishing lead created with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
	} else {
		logger.Trace().Msg("published lead created")
	}

	return response.Submitted{Success: true, LeadID: lead.ID, Message: response.MessageLeadSubmitted}, nil
}

// checkLead reports the first missing required field in a fixed order, then an empty product
// list, then any other rule.
func checkLead(c context.Context, param request.SubmitLead) error {
	required := []struct {
		name  string
		value string
	}{
		{"customerName", param.CustomerName},
		{"email", param.Email},
		{"phone", param.Phone},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return &RequestError{Message: fmt.Sprintf(response.ErrorMissingField, field.name)}
		}
	}
	if param.Products == nil {
		return &RequestError{Message: fmt.Sprintf(response.ErrorMissingField, "products")}
	}
	if len(param.Products) == 0 {
		return &RequestError{Message: response.ErrorMissingProducts}
	}
	if err := validate.New().StructCtx(c, param); err != nil {
		field, _, _ := validate.FirstFailed(err)
		return &RequestError{Message: fmt.Sprintf(response.ErrorInvalidField, field)}
	}
	return nil
}

func (s *LeadService) FindLeadById(c context.Context, id uuid.UUID) (response.Lead, error) {
	c, span := otel.Tracer.Start(c, "LeadService FindLeadById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LeadService FindLeadById").
		Str(log.KeyLeadID, id.String()).
		Str(log.KeyProcess, "finding lead").
		Logger()

	detail, err := s.findLead(c, id)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Lead{}, err
	}
	res := mapLead(detail.Lead)
	res.Products = make([]response.LeadProduct, 0, len(detail.Products))
	for _, p := range detail.Products {
		res.Products = append(res.Products, response.LeadProduct{
			Product:            p.ProductID,
			ProductName:        p.ProductName,
			Quantity:           p.Quantity,
			CustomRequirements: p.CustomRequirements,
		})
	}
	res.Notes = make([]response.Note, 0, len(detail.Notes))
	for _, n := range detail.Notes {
		res.Notes = append(res.Notes, response.Note{Note: n.Note, Author: n.Author, Date: n.CreatedAt.Time})
	}
	logger.Trace().Msg("found lead")
	return res, nil
}

func (s *LeadService) FindLeads(c context.Context, param request.FindLeads) (response.Leads, error) {
	c, span := otel.Tracer.Start(c, "LeadService FindLeads")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LeadService FindLeads").
		Str("status", param.Status).
		Int("page", param.Page).
		Logger()

	if err := validate.New().StructCtx(c, param); err != nil {
		field, _, _ := validate.FirstFailed(err)
		err = &RequestError{Message: fmt.Sprintf(response.ErrorInvalidField, strings.ToLower(field))}
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Leads{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "finding leads").Logger()
	leads, err := s.store.FindLeads(c, param.Status, int32(param.Limit), int32((param.Page-1)*param.Limit))
	if err != nil {
		err = fmt.Errorf("failed finding leads with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Leads{}, err
	}
	total, err := s.store.CountLeads(c, param.Status)
	if err != nil {
		err = fmt.Errorf("failed counting leads with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Leads{}, err
	}
	logger.Trace().Int64("total", total).Msg("found leads")

	res := response.Leads{
		Leads:      make([]response.Lead, 0, len(leads)),
		TotalLeads: total,
		TotalPages: int((total + int64(param.Limit) - 1) / int64(param.Limit)),
		Page:       param.Page,
	}
	for _, lead := range leads {
		res.Leads = append(res.Leads, mapLead(lead))
	}
	return res, nil
}

// UpdateLead applies the staff changes and appends the note authored by author.
func (s *LeadService) UpdateLead(c context.Context, id uuid.UUID, param request.UpdateLead, author string) (response.Lead, error) {
	c, span := otel.Tracer.Start(c, "LeadService UpdateLead")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LeadService UpdateLead").
		Str(log.KeyLeadID, id.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating request").Logger()
	if err := validate.New().StructCtx(c, param); err != nil {
		field, _, _ := validate.FirstFailed(err)
		err = &RequestError{Message: fmt.Sprintf(response.ErrorInvalidField, field)}
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Lead{}, err
	}

	arg := repository.UpdateLeadParams{ID: id, Status: param.Status, Priority: param.Priority}
	if param.QuotedAmount != nil {
		arg.QuotedAmount = repository.NumericFromDecimal(*param.QuotedAmount)
	}
	if param.FollowUpDate != nil {
		arg.FollowUpDate = pgtype.Timestamptz{Time: *param.FollowUpDate, Valid: true}
	}

	logger = logger.With().Str(log.KeyProcess, "updating lead").Logger()
	logger.Trace().Msg("updating lead")
	lead, err := s.store.ModifyLead(c, arg, strings.TrimSpace(param.Note), author)
	if errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed updating lead=%s with error=%w", id, inErrors.ErrLeadNotFound)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Lead{}, err
	}
	if err != nil {
		err = fmt.Errorf("failed updating lead with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Lead{}, err
	}
	logger.Info().Str("status", lead.Status).Str("priority", lead.Priority).Msg("updated lead")
	return mapLead(lead), nil
}

// QuotationPdf renders the lead as a PDF for staff.
func (s *LeadService) QuotationPdf(c context.Context, id uuid.UUID) ([]byte, error) {
	c, span := otel.Tracer.Start(c, "LeadService QuotationPdf")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LeadService QuotationPdf").
		Str(log.KeyLeadID, id.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding lead").Logger()
	detail, err := s.findLead(c, id)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return nil, err
	}

	logger = logger.With().Str(log.KeyProcess, "rendering pdf").Logger()
	logger.Trace().Msg("rendering pdf")
	address := request.Address{}
	if err := decodeStored(detail.Address, &address); err != nil {
		logger.Warn().Err(err).Str("column", "address").Msg("failed decoding stored address, rendering it blank")
	}
	project := request.ProjectDetails{}
	if err := decodeStored(detail.ProjectDetails, &project); err != nil {
		logger.Warn().Err(err).Str("column", "project_details").Msg("failed decoding stored project details, rendering them blank")
	}

	quotation := pdf.Quotation{
		Reference:              detail.ID.String(),
		CreatedAt:              detail.CreatedAt.Time,
		Status:                 detail.Status,
		Priority:               detail.Priority,
		CustomerName:           detail.CustomerName,
		Email:                  detail.Email,
		Phone:                  detail.Phone,
		Company:                detail.Company,
		Address:                nonEmpty(address.Street, address.City, address.State, address.PostalCode, address.Country),
		ProjectType:            project.ProjectType,
		Budget:                 project.Budget,
		Timeline:               project.Timeline,
		AdditionalRequirements: detail.AdditionalRequirements,
		QuotedAmount:           repository.NullableDecimalFromNumeric(detail.QuotedAmount),
	}
	for _, p := range detail.Products {
		quotation.Items = append(quotation.Items, pdf.Item{
			Name:         p.ProductName,
			Quantity:     p.Quantity,
			Requirements: p.CustomRequirements,
		})
	}
	out, err := s.pdf.Generate(quotation)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Int("bytes", len(out)).Msg("rendered pdf")
	return out, nil
}

// decodeStored unmarshals a jsonb column. A NULL column leaves dst untouched.
func decodeStored(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed unmarshalling stored json with error=%w", err)
	}
	return nil
}

func (s *LeadService) findLead(c context.Context, id uuid.UUID) (repository.LeadDetail, error) {
	detail, err := s.store.FindLeadDetail(c, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.LeadDetail{}, fmt.Errorf("failed finding lead=%s with error=%w", id, inErrors.ErrLeadNotFound)
	}
	if err != nil {
		return repository.LeadDetail{}, fmt.Errorf("failed finding lead=%s with error=%w", id, err)
	}
	return detail, nil
}

func nonEmpty(values ...string) []string {
	out := []string{}
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func mapLead(lead repository.Lead) response.Lead {
	res := response.Lead{
		ID:                     lead.ID,
		CustomerName:           lead.CustomerName,
		Email:                  lead.Email,
		Phone:                  lead.Phone,
		Company:                lead.Company,
		Address:                json.RawMessage(lead.Address),
		ProjectDetails:         json.RawMessage(lead.ProjectDetails),
		AdditionalRequirements: lead.AdditionalRequirements,
		HearAboutUs:            lead.HearAboutUs,
		Status:                 lead.Status,
		Priority:               lead.Priority,
		QuotedAmount:           repository.NullableDecimalFromNumeric(lead.QuotedAmount),
		CreatedAt:              lead.CreatedAt.Time,
		UpdatedAt:              lead.UpdatedAt.Time,
	}
	if lead.FollowUpDate.Valid {
		t := lead.FollowUpDate.Time
		res.FollowUpDate = &t
	}
	return res
}
