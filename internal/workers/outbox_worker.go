package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"onversed_backend/internal/email"
	"onversed_backend/internal/logger"
	"onversed_backend/internal/models"
	"onversed_backend/internal/repositories"
	"onversed_backend/internal/sms"

	"gorm.io/gorm"
)

const (
	outboxWorkerName = "outbox"

	retryBase = 30 * time.Second
	retryCap  = time.Hour
)

// Renderer - шаблонизатор писем
type Renderer interface {
	Render(templateName string, data email.TemplateData) (string, error)
}

type OutboxConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	FromEmail    string
	FromName     string
}

// OutboxWorker отправляет уведомления, записанные сервисами в outbox
type OutboxWorker struct {
	db         *gorm.DB
	outboxRepo repositories.OutboxRepository
	renderer   Renderer
	mailer     email.Provider
	sms        sms.Provider
	cfg        OutboxConfig
	wakeups    <-chan struct{}
	now        func() time.Time
}

func NewOutboxWorker(
	db *gorm.DB,
	outboxRepo repositories.OutboxRepository,
	renderer Renderer,
	mailer email.Provider,
	smsProvider sms.Provider,
	cfg OutboxConfig,
	wakeups <-chan struct{},
) *OutboxWorker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &OutboxWorker{
		db:         db,
		outboxRepo: outboxRepo,
		renderer:   renderer,
		mailer:     mailer,
		sms:        smsProvider,
		cfg:        cfg,
		wakeups:    wakeups,
		now:        time.Now,
	}
}

// Run блокирует до отмены ctx. Пачка обрабатывается по тикеру или по сигналу
// от NotificationService.
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	logger.Info("Outbox worker started", "interval", w.cfg.PollInterval.String(), "batch", w.cfg.BatchSize)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Outbox worker stopped")
			return nil
		case <-ticker.C:
		case <-w.wakeups:
		}

		// выгребаем, пока пачки полные
		for {
			n, err := w.ProcessBatch(ctx)
			logger.WorkerLog(outboxWorkerName, "process_batch", err, "processed", n)
			if err != nil || n < w.cfg.BatchSize || ctx.Err() != nil {
				break
			}
		}
	}
}

// ProcessBatch захватывает до BatchSize готовых строк и отправляет их.
// Строки остаются заблокированными до коммита, другой экземпляр их пропустит.
func (w *OutboxWorker) ProcessBatch(ctx context.Context) (int, error) {
	tx := w.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}
	defer tx.Rollback()

	msgs, err := w.outboxRepo.ClaimPending(tx, w.now(), w.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	for i := range msgs {
		msg := &msgs[i]
		if err := w.settle(tx, msg, w.deliver(ctx, msg)); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return len(msgs), nil
}

// settle записывает итог попытки отправки
func (w *OutboxWorker) settle(tx *gorm.DB, msg *models.OutboxMessage, sendErr error) error {
	if sendErr == nil {
		return w.outboxRepo.MarkSent(tx, msg.ID, w.now())
	}

	attempts := msg.Attempts + 1
	if attempts >= w.cfg.MaxAttempts {
		logger.Error("Outbox message failed permanently",
			"outbox_id", msg.ID, "channel", msg.Channel, "attempts", attempts, "error", sendErr.Error())
		return w.outboxRepo.MarkFailed(tx, msg.ID, attempts, sendErr.Error())
	}

	next := w.now().Add(Backoff(attempts))
	logger.Warn("Outbox message will be retried",
		"outbox_id", msg.ID, "channel", msg.Channel, "attempts", attempts, "next_attempt_at", next, "error", sendErr.Error())
	return w.outboxRepo.MarkRetry(tx, msg.ID, attempts, next, sendErr.Error())
}

// deliver рендерит и отправляет одно сообщение
func (w *OutboxWorker) deliver(ctx context.Context, msg *models.OutboxMessage) error {
	switch msg.Channel {
	case models.ChannelEmail:
		var data email.TemplateData
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &data); err != nil {
				return fmt.Errorf("invalid email payload: %w", err)
			}
		}
		body, err := w.renderer.Render(msg.Template, data)
		if err != nil {
			return err
		}
		return w.mailer.Send(ctx, &email.Email{
			From:     w.cfg.FromEmail,
			FromName: w.cfg.FromName,
			To:       []string{msg.Recipient},
			Subject:  msg.Subject,
			HTMLBody: body,
		})

	case models.ChannelSMS:
		var payload struct {
			Body string `json:"body"`
		}
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("invalid sms payload: %w", err)
		}
		return w.sms.Send(ctx, &sms.Message{To: msg.Recipient, Body: payload.Body})

	default:
		return fmt.Errorf("unknown channel %q", msg.Channel)
	}
}

// Backoff - задержка перед попыткой attempts+1: 30s, 1m, 2m ... не больше часа
func Backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := retryBase
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= retryCap {
			return retryCap
		}
	}
	return d
}
