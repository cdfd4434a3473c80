package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/testutil"
	"github.com/Alturino/storefront/order/internal/service"
	"github.com/Alturino/storefront/order/pkg/response"
)

const secretKey = "order-test-secret"

type discardPublisher struct{}

func (discardPublisher) Publish(context.Context, string, any) error { return nil }

type sequence struct{ n int }

func (s *sequence) Next() string {
	s.n++
	return "ORD-1740823200000-00" + string(rune('0'+s.n))
}

func checkoutBody(paymentMethod string, items string) string {
	return `{
		"customerInfo": {"fullName": "Asha Rao", "email": "asha@example.com", "phone": "+91 98765 43210"},
		"shippingAddress": {"fullName": "Asha Rao", "addressLine1": "12 MG Road", "city": "Pune", "state": "MH", "postalCode": "411001", "country": "India"},
		"billingAddress": {"sameAsShipping": true},
		"items": ` + items + `,
		"pricing": {"shippingCost": "20", "taxAmount": "10", "discountAmount": "0"},
		"paymentMethod": "` + paymentMethod + `"
	}`
}

func newRouter(t *testing.T) *mux.Router {
	c := testutil.Context(t)
	pool := testutil.StartPostgres(t, filepath.Join(testutil.RootDir(), "order", "internal", "service", "seed", "products.seed.sql"))
	svc := service.NewOrderService(pool, repository.New(pool), discardPublisher{}, &sequence{})

	router := mux.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(c))
		})
	})
	AttachOrderController(router, svc, secretKey)
	return router
}

func TestOrderFlow(t *testing.T) {
	router := newRouter(t)
	token, err := internal.IssueToken(testutil.Context(t), secretKey, uuid.New(), time.Now())
	require.NoError(t, err)
	bearer := "Bearer " + token

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(
		checkoutBody("razorpay", `[{"product":"5b1f0c2a-7e3d-4f6a-9c8b-000000000001","quantity":1}]`),
	)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := response.Checkout{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.True(t, created.RequiresPayment)
	assert.Equal(t, "razorpay", created.PaymentMethod)
	assert.Equal(t, "ORD-1740823200000-001", created.OrderNumber)

	t.Run("checkout rejections", func(t *testing.T) {
		tests := []struct {
			name     string
			body     string
			expected int
		}{
			{name: "malformed body", body: `{`, expected: http.StatusBadRequest},
			{name: "unknown payment method", body: checkoutBody("cheque", `[{"product":"5b1f0c2a-7e3d-4f6a-9c8b-000000000001","quantity":1}]`), expected: http.StatusBadRequest},
			{name: "oversized quantity", body: checkoutBody("cod", `[{"product":"5b1f0c2a-7e3d-4f6a-9c8b-000000000001","quantity":4294967301}]`), expected: http.StatusBadRequest},
			{name: "empty items", body: checkoutBody("cod", `[]`), expected: http.StatusBadRequest},
			{name: "quote only product", body: checkoutBody("cod", `[{"product":"5b1f0c2a-7e3d-4f6a-9c8b-000000000003","quantity":1}]`), expected: http.StatusBadRequest},
			{name: "insufficient stock", body: checkoutBody("cod", `[{"product":"5b1f0c2a-7e3d-4f6a-9c8b-000000000002","quantity":5}]`), expected: http.StatusConflict},
		}
		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(test.body)))

				assert.Equal(t, test.expected, rec.Code, rec.Body.String())
				assert.Contains(t, rec.Body.String(), `"success":false`)
			})
		}
	})

	t.Run("public confirmation view", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+created.OrderID.String(), nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), created.OrderNumber)

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("staff listing requires a token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		req := httptest.NewRequest(http.MethodGet, "/orders?page=1&limit=10", nil)
		req.Header.Set("Authorization", bearer)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), created.OrderNumber)
	})

	t.Run("staff status update", func(t *testing.T) {
		tests := []struct {
			name     string
			orderId  string
			body     string
			expected int
		}{
			{name: "unknown status", orderId: created.OrderID.String(), body: `{"status":"lost"}`, expected: http.StatusBadRequest},
			{name: "unknown order", orderId: uuid.NewString(), body: `{"status":"shipped"}`, expected: http.StatusNotFound},
			{name: "paid and processing", orderId: created.OrderID.String(), body: `{"status":"processing","paymentStatus":"paid","transactionId":"pay_123","internalNotes":"call before shipping"}`, expected: http.StatusOK},
		}
		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				req := httptest.NewRequest(http.MethodPatch, "/orders/"+test.orderId+"/status", strings.NewReader(test.body))
				req.Header.Set("Authorization", bearer)
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, req)

				assert.Equal(t, test.expected, rec.Code, rec.Body.String())
			})
		}

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+created.OrderID.String(), nil))
		assert.Contains(t, rec.Body.String(), `"status":"processing"`)
		assert.Contains(t, rec.Body.String(), `"paymentStatus":"paid"`)
		assert.NotContains(t, rec.Body.String(), "pay_123")
		assert.NotContains(t, rec.Body.String(), "call before shipping")

		req := httptest.NewRequest(http.MethodGet, "/orders?page=1&limit=10", nil)
		req.Header.Set("Authorization", bearer)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Contains(t, rec.Body.String(), "pay_123")
		assert.Contains(t, rec.Body.String(), "call before shipping")
	})
}
