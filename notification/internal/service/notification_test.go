package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/broker"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/testutil"
	leadRequest "github.com/Alturino/storefront/lead/pkg/request"
	"github.com/Alturino/storefront/notification/internal/mail"
	orderRequest "github.com/Alturino/storefront/order/pkg/request"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(c context.Context, email mail.Email) error {
	args := m.Called(c, email)
	return args.Error(0)
}

func message(t *testing.T, topic string, payload any) broker.Message {
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return broker.Message{Topic: topic, PublishedAt: time.Now(), Payload: raw}
}

func TestHandleLeadCreated(t *testing.T) {
	c := testutil.Context(t)
	event := leadRequest.LeadCreated{
		LeadID:       uuid.New(),
		CustomerName: "Asha Rao",
		Email:        "asha@example.com",
		Phone:        "+91 98450 00000",
		ProductCount: 2,
		ProjectType:  "hospitality",
		CreatedAt:    time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	t.Run("emails the admin", func(t *testing.T) {
		sender := &mockSender{}
		sender.On("Send", mock.Anything, mock.MatchedBy(func(e mail.Email) bool {
			return e.To == "admin@example.com" &&
				e.Subject == "New quote request from Asha Rao" &&
				assert.Contains(t, e.Body, "Products: 2") &&
				assert.Contains(t, e.Body, "Project type: hospitality") &&
				assert.NotContains(t, e.Body, "Budget")
		})).Return(nil).Once()
		svc := NewNotificationService(sender, "admin@example.com")

		err := svc.HandleLeadCreated(c, message(t, constants.TopicLeadCreated, event))

		require.NoError(t, err)
		sender.AssertExpectations(t)
	})

	t.Run("returns sender failure", func(t *testing.T) {
		sender := &mockSender{}
		sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("quota exceeded")).Once()
		svc := NewNotificationService(sender, "admin@example.com")

		err := svc.HandleLeadCreated(c, message(t, constants.TopicLeadCreated, event))

		assert.ErrorContains(t, err, "quota exceeded")
	})

	t.Run("rejects malformed payload without sending", func(t *testing.T) {
		sender := &mockSender{}
		svc := NewNotificationService(sender, "admin@example.com")

		err := svc.HandleLeadCreated(c, broker.Message{Topic: constants.TopicLeadCreated, Payload: []byte(`"lead"`)})

		assert.Error(t, err)
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

func TestHandleOrderCreated(t *testing.T) {
	c := testutil.Context(t)
	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.MatchedBy(func(e mail.Email) bool {
		return e.To == "asha@example.com" &&
			e.Subject == "Order ORD-1740823200000-042 received" &&
			assert.Contains(t, e.Body, "Total: ₹1,23,456.5")
	})).Return(nil).Once()
	svc := NewNotificationService(sender, "admin@example.com")

	err := svc.HandleOrderCreated(c, message(t, constants.TopicOrderCreated, orderRequest.OrderCreated{
		OrderID:       uuid.New(),
		OrderNumber:   "ORD-1740823200000-042",
		CustomerName:  "Asha Rao",
		CustomerEmail: "asha@example.com",
		PaymentMethod: "cod",
		TotalAmount:   decimal.RequireFromString("123456.50"),
	}))

	require.NoError(t, err)
	sender.AssertExpectations(t)
}
