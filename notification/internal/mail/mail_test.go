package mail

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/config"
)

func TestNewSender(t *testing.T) {
	assert.IsType(t, LogSender{}, NewSender(config.Mail{}))
	assert.IsType(t, &SendgridSender{}, NewSender(config.Mail{SendgridApiKey: "SG.key", FromEmail: "shop@example.com"}))
}

func TestLogSender(t *testing.T) {
	buf := &bytes.Buffer{}
	c := zerolog.New(buf).WithContext(context.Background())

	err := LogSender{}.Send(c, Email{To: "admin@example.com", Subject: "New quote request", Body: "Asha Rao"})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"to":"admin@example.com"`)
	assert.Contains(t, buf.String(), `"subject":"New quote request"`)
}

func TestSendgridSenderRejectsEmptyRecipient(t *testing.T) {
	sender := NewSender(config.Mail{SendgridApiKey: "SG.key", FromEmail: "shop@example.com"})

	err := sender.Send(context.Background(), Email{Subject: "x"})

	assert.Error(t, err)
}
