// Package mail delivers notification emails through SendGrid, or only logs them when no api key is
// configured.
package mail

import (
	"context"
	"fmt"
	"html"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/log"
)

type Email struct {
	ToName  string
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(c context.Context, email Email) error
}

// NewSender returns a SendGrid sender when cfg carries an api key and a LogSender otherwise.
func NewSender(cfg config.Mail) Sender {
	if cfg.SendgridApiKey == "" {
		return LogSender{}
	}
	// sendgrid sends through rest.DefaultClient
	rest.DefaultClient = &rest.Client{HTTPClient: otelhttp.DefaultClient}
	return &SendgridSender{
		client: sendgrid.NewSendClient(cfg.SendgridApiKey),
		from:   sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
	}
}

type SendgridSender struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func (s *SendgridSender) Send(c context.Context, email Email) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SendgridSender Send").
		Str("to", email.To).
		Str("subject", email.Subject).
		Logger()

	if email.To == "" {
		err := fmt.Errorf("failed sending mail with error=recipient is empty")
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	message := sgmail.NewSingleEmail(
		s.from,
		email.Subject,
		sgmail.NewEmail(email.ToName, email.To),
		email.Body,
		fmt.Sprintf("<pre>%s</pre>", html.EscapeString(email.Body)),
	)

	logger.Trace().Msg("sending mail")
	res, err := s.client.SendWithContext(c, message)
	if err != nil {
		err = fmt.Errorf("failed sending mail with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		err = fmt.Errorf("failed sending mail with status=%d body=%s", res.StatusCode, res.Body)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Int("status", res.StatusCode).Msg("sent mail")
	return nil
}

// LogSender writes the email to the context logger instead of delivering it.
type LogSender struct{}

func (LogSender) Send(c context.Context, email Email) error {
	zerolog.Ctx(c).Info().
		Str(log.KeyTag, "LogSender Send").
		Str("to", email.To).
		Str("subject", email.Subject).
		Str("body", email.Body).
		Msg("mail delivery disabled, logged mail instead")
	return nil
}
