package app

import (
	"context"
	"sync"

	"onversed_backend/internal/email"
	"onversed_backend/internal/logger"
	"onversed_backend/internal/sms"
)

// RecordingEmailProvider используется для тестов и локальной разработки
// без SMTP: письма только логируются и сохраняются.
type RecordingEmailProvider struct {
	mu   sync.Mutex
	sent []email.Email
}

func (m *RecordingEmailProvider) Send(ctx context.Context, e *email.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, *e)
	logger.CtxDebug(ctx, "Email recorded", "to", e.To, "subject", e.Subject)
	return nil
}

// Sent - копия отправленных писем
func (m *RecordingEmailProvider) Sent() []email.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]email.Email(nil), m.sent...)
}

// RecordingSMSProvider - то же для SMS
type RecordingSMSProvider struct {
	mu   sync.Mutex
	sent []sms.Message
}

func (m *RecordingSMSProvider) Send(ctx context.Context, msg *sms.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, *msg)
	logger.CtxDebug(ctx, "SMS recorded", "to", msg.To)
	return nil
}

func (m *RecordingSMSProvider) Sent() []sms.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sms.Message(nil), m.sent...)
}
