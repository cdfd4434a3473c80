package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/testutil"
	"github.com/Alturino/storefront/lead/pkg/request"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateLead(
	c context.Context,
	arg repository.InsertLeadParams,
	products []repository.InsertLeadProductParams,
) (repository.LeadDetail, error) {
	args := m.Called(c, arg, products)
	return args.Get(0).(repository.LeadDetail), args.Error(1)
}

func (m *mockStore) FindLeadDetail(c context.Context, id uuid.UUID) (repository.LeadDetail, error) {
	args := m.Called(c, id)
	return args.Get(0).(repository.LeadDetail), args.Error(1)
}

func (m *mockStore) FindLeads(c context.Context, status string, limit int32, offset int32) ([]repository.Lead, error) {
	args := m.Called(c, status, limit, offset)
	return args.Get(0).([]repository.Lead), args.Error(1)
}

func (m *mockStore) CountLeads(c context.Context, status string) (int64, error) {
	args := m.Called(c, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) ModifyLead(
	c context.Context,
	arg repository.UpdateLeadParams,
	note string,
	author string,
) (repository.Lead, error) {
	args := m.Called(c, arg, note, author)
	return args.Get(0).(repository.Lead), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(c context.Context, topic string, payload any) error {
	args := m.Called(c, topic, payload)
	return args.Error(0)
}

var doorID = uuid.MustParse("5b1f0c2a-7e3d-4f6a-9c8b-000000000003")

func validLead() request.SubmitLead {
	return request.SubmitLead{
		CustomerName: "Asha Rao",
		Email:        "asha@example.com",
		Phone:        "+91 98450 00000",
		Products:     []request.LeadProduct{{Product: doorID}},
	}
}

func TestSubmitLeadRejects(t *testing.T) {
	c := testutil.Context(t)

	tests := []struct {
		name     string
		mutate   func(*request.SubmitLead)
		expected string
	}{
		{name: "missing customer name", mutate: func(l *request.SubmitLead) { l.CustomerName = "" }, expected: "Missing required field: customerName"},
		{name: "missing email", mutate: func(l *request.SubmitLead) { l.Email = "  " }, expected: "Missing required field: email"},
		{name: "missing phone", mutate: func(l *request.SubmitLead) { l.Phone = "" }, expected: "Missing required field: phone"},
		{name: "missing phone and products reports phone first", mutate: func(l *request.SubmitLead) { l.Phone = ""; l.Products = nil }, expected: "Missing required field: phone"},
		{name: "missing products", mutate: func(l *request.SubmitLead) { l.Products = nil }, expected: "Missing required field: products"},
		{name: "empty products", mutate: func(l *request.SubmitLead) { l.Products = []request.LeadProduct{} }, expected: "At least one product is required"},
		{name: "malformed email", mutate: func(l *request.SubmitLead) { l.Email = "asha" }, expected: "Invalid field: email"},
		{name: "negative quantity", mutate: func(l *request.SubmitLead) { l.Products[0].Quantity = -2 }, expected: "Invalid field: products[0].quantity"},
		{name: "missing product id", mutate: func(l *request.SubmitLead) { l.Products[0].Product = uuid.Nil }, expected: "Invalid field: products[0].product"},
		{name: "unknown project type", mutate: func(l *request.SubmitLead) {
			l.ProjectDetails = &request.ProjectDetails{ProjectType: "castle"}
		}, expected: "Invalid field: projectDetails.projectType"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := &mockStore{}
			publisher := &mockPublisher{}
			svc := NewLeadService(store, publisher)
			param := validLead()
			test.mutate(&param)

			_, err := svc.SubmitLead(c, param)

			var requestErr *RequestError
			require.ErrorAs(t, err, &requestErr)
			assert.Equal(t, test.expected, requestErr.Message)
			store.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything, mock.Anything)
			publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitLeadDefaults(t *testing.T) {
	c := testutil.Context(t)
	leadID := uuid.New()
	store := &mockStore{}
	publisher := &mockPublisher{}
	svc := NewLeadService(store, publisher)

	store.On("CreateLead", mock.Anything, mock.MatchedBy(func(arg repository.InsertLeadParams) bool {
		return arg.Status == "new" &&
			arg.Priority == "medium" &&
			string(arg.Address) == `{"street":"","city":"","state":"","postalCode":"","country":"India"}`
	}), []repository.InsertLeadProductParams{
		{ProductID: doorID, Quantity: 1},
	}).Return(repository.LeadDetail{
		Lead:     repository.Lead{ID: leadID, CustomerName: "Asha Rao"},
		Products: []repository.LeadProduct{{ProductID: doorID, Quantity: 1}},
	}, nil).Once()
	publisher.On("Publish", mock.Anything, constants.TopicLeadCreated, mock.MatchedBy(func(e request.LeadCreated) bool {
		return e.LeadID == leadID && e.ProductCount == 1
	})).Return(errors.New("broker down")).Once()

	res, err := svc.SubmitLead(c, validLead())
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, leadID, res.LeadID)
	assert.Equal(t, "Quote request submitted successfully", res.Message)
	store.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestSubmitLeadStoreFailures(t *testing.T) {
	c := testutil.Context(t)

	t.Run("unknown product is a client error", func(t *testing.T) {
		store := &mockStore{}
		store.On("CreateLead", mock.Anything, mock.Anything, mock.Anything).
			Return(repository.LeadDetail{}, inErrors.ErrProductNotFound)
		svc := NewLeadService(store, &mockPublisher{})

		_, err := svc.SubmitLead(c, validLead())
		var requestErr *RequestError
		require.ErrorAs(t, err, &requestErr)
		assert.Equal(t, "Invalid field: products", requestErr.Message)
	})

	t.Run("database failure is not a client error", func(t *testing.T) {
		store := &mockStore{}
		store.On("CreateLead", mock.Anything, mock.Anything, mock.Anything).
			Return(repository.LeadDetail{}, errors.New("connection reset"))
		svc := NewLeadService(store, &mockPublisher{})

		_, err := svc.SubmitLead(c, validLead())
		require.Error(t, err)
		var requestErr *RequestError
		assert.False(t, errors.As(err, &requestErr))
	})
}

func TestFindLeads(t *testing.T) {
	c := testutil.Context(t)
	store := &mockStore{}
	svc := NewLeadService(store, &mockPublisher{})

	store.On("FindLeads", mock.Anything, "quoted", int32(10), int32(10)).
		Return([]repository.Lead{{ID: uuid.New(), Status: "quoted"}}, nil)
	store.On("CountLeads", mock.Anything, "quoted").Return(int64(11), nil)

	res, err := svc.FindLeads(c, request.FindLeads{Status: "quoted", Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalPages)
	assert.Len(t, res.Leads, 1)

	_, err = svc.FindLeads(c, request.FindLeads{Status: "closed", Page: 1, Limit: 10})
	var requestErr *RequestError
	require.ErrorAs(t, err, &requestErr)
	assert.Equal(t, "Invalid field: status", requestErr.Message)
}

func TestUpdateLeadNotFound(t *testing.T) {
	c := testutil.Context(t)
	store := &mockStore{}
	svc := NewLeadService(store, &mockPublisher{})
	id := uuid.New()

	store.On("ModifyLead", mock.Anything, mock.Anything, "called back", "staff").Return(repository.Lead{}, pgx.ErrNoRows)

	_, err := svc.UpdateLead(c, id, request.UpdateLead{Status: "quoted", Note: " called back "}, "staff")
	require.ErrorIs(t, err, inErrors.ErrLeadNotFound)

	_, err = svc.UpdateLead(c, id, request.UpdateLead{Priority: "critical"}, "staff")
	var requestErr *RequestError
	require.ErrorAs(t, err, &requestErr)
}

func TestQuotationPdfLogsCorruptStoredJson(t *testing.T) {
	buf := &bytes.Buffer{}
	c := zerolog.New(buf).Level(zerolog.TraceLevel).WithContext(context.Background())
	store := &mockStore{}
	svc := NewLeadService(store, &mockPublisher{})
	id := uuid.New()

	store.On("FindLeadDetail", mock.Anything, id).Return(repository.LeadDetail{
		Lead: repository.Lead{
			ID:             id,
			CustomerName:   "Asha Rao",
			Address:        []byte(`{"city":`),
			ProjectDetails: []byte(`{"projectType":"home-decoration"}`),
			Status:         "new",
			Priority:       "medium",
		},
	}, nil)

	out, err := svc.QuotationPdf(c, id)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(out[:5]))

	logged := buf.String()
	assert.Contains(t, logged, `"level":"warn"`)
	assert.Contains(t, logged, "failed decoding stored address")
	assert.Contains(t, logged, id.String())
	assert.NotContains(t, logged, "failed decoding stored project details")
}

func TestDecodeStored(t *testing.T) {
	address := request.Address{City: "Jaipur"}
	require.NoError(t, decodeStored(nil, &address))
	assert.Equal(t, "Jaipur", address.City)

	require.NoError(t, decodeStored([]byte(`{"city":"Udaipur"}`), &address))
	assert.Equal(t, "Udaipur", address.City)

	assert.Error(t, decodeStored([]byte(`not json`), &address))
}

func TestLeadLifecycle(t *testing.T) {
	c := testutil.Context(t)
	pool := testutil.StartPostgres(t, testutil.RootDir()+"/order/internal/service/seed/products.seed.sql")
	store := repository.NewStore(pool)
	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, constants.TopicLeadCreated, mock.Anything).Return(nil)
	svc := NewLeadService(store, publisher)

	param := validLead()
	param.Products = append(param.Products, request.LeadProduct{
		Product:            uuid.MustParse("5b1f0c2a-7e3d-4f6a-9c8b-000000000001"),
		Quantity:           4,
		CustomRequirements: "antique finish",
	})
	param.ProjectDetails = &request.ProjectDetails{ProjectType: "hospitality", Budget: "50k-100k"}
	submitted, err := svc.SubmitLead(c, param)
	require.NoError(t, err)

	lead, err := svc.FindLeadById(c, submitted.LeadID)
	require.NoError(t, err)
	assert.Equal(t, "new", lead.Status)
	assert.Equal(t, "medium", lead.Priority)
	require.Len(t, lead.Products, 2)
	assert.Equal(t, "Brass Lamp", lead.Products[0].ProductName)
	assert.EqualValues(t, 4, lead.Products[0].Quantity)
	assert.EqualValues(t, 1, lead.Products[1].Quantity)
	assert.JSONEq(t, `{"street":"","city":"","state":"","postalCode":"","country":"India"}`, string(lead.Address))

	followUp := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	updated, err := svc.UpdateLead(c, submitted.LeadID, request.UpdateLead{
		Status:       "quoted",
		FollowUpDate: &followUp,
		Note:         "sent estimate",
	}, "staff@example.com")
	require.NoError(t, err)
	assert.Equal(t, "quoted", updated.Status)
	assert.Equal(t, "medium", updated.Priority)
	require.NotNil(t, updated.FollowUpDate)
	assert.True(t, followUp.Equal(*updated.FollowUpDate))

	lead, err = svc.FindLeadById(c, submitted.LeadID)
	require.NoError(t, err)
	require.Len(t, lead.Notes, 1)
	assert.Equal(t, "staff@example.com", lead.Notes[0].Author)

	out, err := svc.QuotationPdf(c, submitted.LeadID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(out[:5]))

	before, err := store.CountLeads(c, "")
	require.NoError(t, err)
	bad := validLead()
	bad.Products[0].Product = uuid.New()
	_, err = svc.SubmitLead(c, bad)
	var requestErr *RequestError
	require.ErrorAs(t, err, &requestErr)
	after, err := store.CountLeads(c, "")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = svc.FindLeadById(c, uuid.New())
	require.ErrorIs(t, err, inErrors.ErrLeadNotFound)
}
