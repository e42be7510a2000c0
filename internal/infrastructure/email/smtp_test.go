package email

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"fastighet/internal/shared/config"
	"fastighet/internal/shared/logger"
)

type recordingSender struct {
	messages []*gomail.Message
	err      error
}

func (r *recordingSender) DialAndSend(m ...*gomail.Message) error {
	r.messages = append(r.messages, m...)
	return r.err
}

func newTestService(rec *recordingSender) *SMTPEmailService {
	return &SMTPEmailService{
		config: SMTPConfig{FromAddress: "noreply@fastighet.local", FromName: "Fastighet"},
		dialer: rec,
	}
}

func TestSMTPEmailService_SendEmail(t *testing.T) {
	rec := &recordingSender{}
	svc := newTestService(rec)

	require.NoError(t, svc.SendEmail("anna@example.com", "Ticket #7 updated", "plain", "<p>html</p>"))
	require.Len(t, rec.messages, 1)

	msg := rec.messages[0]
	assert.Equal(t, []string{"anna@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Ticket #7 updated"}, msg.GetHeader("Subject"))
	assert.Contains(t, msg.GetHeader("From")[0], "noreply@fastighet.local")

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "text/html")
}

func TestSMTPEmailService_Errors(t *testing.T) {
	t.Run("missing recipient", func(t *testing.T) {
		rec := &recordingSender{}
		assert.Error(t, newTestService(rec).SendEmail("", "s", "b", ""))
		assert.Empty(t, rec.messages)
	})

	t.Run("dial failure", func(t *testing.T) {
		rec := &recordingSender{err: errors.New("connection refused")}
		err := newTestService(rec).SendEmail("a@example.com", "s", "b", "")
		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestNewEmailService_DisabledWithoutHost(t *testing.T) {
	svc := NewEmailService(config.EmailConfig{}, logger.NewDiscard())

	_, ok := svc.(*DisabledEmailService)
	require.True(t, ok)
	assert.ErrorIs(t, svc.SendEmail("a@example.com", "s", "b", ""), ErrEmailServiceNotConfigured)

	_, ok = NewEmailService(config.EmailConfig{SMTPHost: "smtp.local", SMTPPort: 25}, logger.NewDiscard()).(*SMTPEmailService)
	assert.True(t, ok)
}
