package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"onversed_backend/internal/email"
	"onversed_backend/internal/models"
	"onversed_backend/internal/sms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type recordingMailer struct {
	sent []*email.Email
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, e *email.Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, e)
	return nil
}

type recordingSMS struct {
	sent []*sms.Message
}

func (m *recordingSMS) Send(ctx context.Context, msg *sms.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

func newTestWorker(mailer email.Provider, smsProvider sms.Provider) *OutboxWorker {
	return NewOutboxWorker(nil, nil, email.NewTemplateManager(), mailer, smsProvider, OutboxConfig{
		FromEmail: "hello@onversed.com",
		FromName:  "Onversed",
	}, nil)
}

func TestBackoffDoublesUpToCap(t *testing.T) {
	assert.Equal(t, 30*time.Second, Backoff(0))
	assert.Equal(t, 30*time.Second, Backoff(1))
	assert.Equal(t, time.Minute, Backoff(2))
	assert.Equal(t, 2*time.Minute, Backoff(3))
	assert.Equal(t, time.Hour, Backoff(20))
}

func TestDeliverEmailRendersTemplate(t *testing.T) {
	mailer := &recordingMailer{}
	w := newTestWorker(mailer, &recordingSMS{})

	err := w.deliver(context.Background(), &models.OutboxMessage{
		Channel:   models.ChannelEmail,
		Recipient: "ana@acme.com",
		Subject:   email.Subject(email.TemplateCode),
		Template:  email.TemplateCode,
		Payload:   datatypes.JSON(`{"code":"654321","full_name":"Ana Lopez"}`),
	})
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	sent := mailer.sent[0]
	assert.Equal(t, []string{"ana@acme.com"}, sent.To)
	assert.Equal(t, "hello@onversed.com", sent.From)
	assert.Contains(t, sent.HTMLBody, "654321")
	assert.Contains(t, sent.HTMLBody, "Ana Lopez")
}

func TestDeliverSMS(t *testing.T) {
	smsProvider := &recordingSMS{}
	w := newTestWorker(&recordingMailer{}, smsProvider)

	err := w.deliver(context.Background(), &models.OutboxMessage{
		Channel:   models.ChannelSMS,
		Recipient: "+34600000000",
		Payload:   datatypes.JSON(`{"body":"Your code is 111222"}`),
	})
	require.NoError(t, err)

	require.Len(t, smsProvider.sent, 1)
	assert.Equal(t, "+34600000000", smsProvider.sent[0].To)
	assert.Equal(t, "Your code is 111222", smsProvider.sent[0].Body)
}

func TestDeliverPropagatesProviderError(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	w := newTestWorker(mailer, &recordingSMS{})

	err := w.deliver(context.Background(), &models.OutboxMessage{
		Channel:   models.ChannelEmail,
		Recipient: "ana@acme.com",
		Template:  email.TemplateWelcome,
		Payload:   datatypes.JSON(`{"full_name":"Ana"}`),
	})
	assert.EqualError(t, err, "smtp down")
}

func TestDeliverRejectsUnknownChannel(t *testing.T) {
	w := newTestWorker(&recordingMailer{}, &recordingSMS{})

	err := w.deliver(context.Background(), &models.OutboxMessage{Channel: "pigeon"})
	assert.Error(t, err)
}
