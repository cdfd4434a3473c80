package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/broker"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/format"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/metric"
	inOtel "github.com/Alturino/storefront/internal/otel"
	leadRequest "github.com/Alturino/storefront/lead/pkg/request"
	"github.com/Alturino/storefront/notification/internal/mail"
	"github.com/Alturino/storefront/notification/internal/otel"
	orderRequest "github.com/Alturino/storefront/order/pkg/request"
)

type NotificationService struct {
	sender     mail.Sender
	adminEmail string
}

func NewNotificationService(sender mail.Sender, adminEmail string) *NotificationService {
	return &NotificationService{sender: sender, adminEmail: adminEmail}
}

// HandleLeadCreated emails the shop admin about a new quote request.
func (s *NotificationService) HandleLeadCreated(c context.Context, msg broker.Message) (err error) {
	c, span := otel.Tracer.Start(c, "NotificationService HandleLeadCreated")
	defer span.End()
	defer func() { countNotification(msg.Topic, err) }()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationService HandleLeadCreated").
		Str(log.KeyTopic, msg.Topic).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding event").Logger()
	event := leadRequest.LeadCreated{}
	if err = msg.Decode(&event); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger = logger.With().
		Str(log.KeyLeadID, event.LeadID.String()).
		Str(log.KeyProcess, "sending lead notification").
		Logger()
	logger.Trace().Msg("sending lead notification")
	c = logger.WithContext(c)
	err = s.sender.Send(c, mail.Email{
		To:      s.adminEmail,
		Subject: fmt.Sprintf("New quote request from %s", event.CustomerName),
		Body:    leadBody(event),
	})
	if err != nil {
		err = fmt.Errorf("failed sending lead notification with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("sent lead notification")
	return nil
}

// HandleOrderCreated acknowledges a placed order and sends the customer a confirmation.
func (s *NotificationService) HandleOrderCreated(c context.Context, msg broker.Message) (err error) {
	c, span := otel.Tracer.Start(c, "NotificationService HandleOrderCreated")
	defer span.End()
	defer func() { countNotification(msg.Topic, err) }()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationService HandleOrderCreated").
		Str(log.KeyTopic, msg.Topic).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding event").Logger()
	event := orderRequest.OrderCreated{}
	if err = msg.Decode(&event); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	total := format.FormatPrice(&event.TotalAmount, constants.DefaultCurrencySymbol)
	logger = logger.With().
		Str(log.KeyOrderNumber, event.OrderNumber).
		Str(log.KeyPaymentMethod, event.PaymentMethod).
		Str("total", total).
		Str(log.KeyProcess, "sending order confirmation").
		Logger()
	logger.Info().Msg("received order")

	c = logger.WithContext(c)
	err = s.sender.Send(c, mail.Email{
		ToName:  event.CustomerName,
		To:      event.CustomerEmail,
		Subject: fmt.Sprintf("Order %s received", event.OrderNumber),
		Body: fmt.Sprintf(
			"Hi %s,\n\nThank you for your order %s.\nTotal: %s\nPayment method: %s\n",
			event.CustomerName,
			event.OrderNumber,
			total,
			event.PaymentMethod,
		),
	})
	if err != nil {
		err = fmt.Errorf("failed sending order confirmation with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("sent order confirmation")
	return nil
}

func leadBody(event leadRequest.LeadCreated) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "Lead: %s\n", event.LeadID)
	fmt.Fprintf(&b, "Customer: %s\n", event.CustomerName)
	fmt.Fprintf(&b, "Email: %s\n", event.Email)
	fmt.Fprintf(&b, "Phone: %s\n", event.Phone)
	if event.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", event.Company)
	}
	fmt.Fprintf(&b, "Products: %d\n", event.ProductCount)
	if event.ProjectType != "" {
		fmt.Fprintf(&b, "Project type: %s\n", event.ProjectType)
	}
	if event.Budget != "" {
		fmt.Fprintf(&b, "Budget: %s\n", event.Budget)
	}
	if event.Timeline != "" {
		fmt.Fprintf(&b, "Timeline: %s\n", event.Timeline)
	}
	fmt.Fprintf(&b, "Submitted: %s\n", event.CreatedAt.Format("02 Jan 2006 15:04 MST"))
	return b.String()
}

func countNotification(topic string, err error) {
	outcome := metric.OutcomeSuccess
	if err != nil {
		outcome = metric.OutcomeFailed
	}
	metric.NotificationsSent.WithLabelValues(topic, outcome).Inc()
}
