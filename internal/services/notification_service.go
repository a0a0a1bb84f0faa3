package services

import (
	"context"
	"encoding/json"
	"time"

	"onversed_backend/internal/email"
	"onversed_backend/internal/logger"
	"onversed_backend/internal/models"
	"onversed_backend/internal/repositories"
	"onversed_backend/internal/sms"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationService пишет письма и SMS в outbox в транзакции вызывающего.
// Отправку выполняет OutboxWorker, поэтому бизнес-операция не зависит от
// доступности почтового и SMS-провайдеров.
type NotificationService interface {
	EnqueueEmail(ctx context.Context, db *gorm.DB, to, templateName string, data email.TemplateData) error
	EnqueueSMS(ctx context.Context, db *gorm.DB, to, body string) error

	// EnqueueCode ставит в очередь код подтверждения по нужному каналу
	EnqueueCode(ctx context.Context, db *gorm.DB, user *models.User, code string, channel models.Channel) error

	// Nudge будит воркер после коммита транзакции
	Nudge()
	// Wakeups - канал для OutboxWorker
	Wakeups() <-chan struct{}
}

type notificationService struct {
	outboxRepo repositories.OutboxRepository
	wake       chan struct{}
}

func NewNotificationService(outboxRepo repositories.OutboxRepository) NotificationService {
	return &notificationService{
		outboxRepo: outboxRepo,
		wake:       make(chan struct{}, 1),
	}
}

func (s *notificationService) EnqueueEmail(ctx context.Context, db *gorm.DB, to, templateName string, data email.TemplateData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	msg := &models.OutboxMessage{
		Channel:       models.ChannelEmail,
		Recipient:     to,
		Subject:       email.Subject(templateName),
		Template:      templateName,
		Payload:       datatypes.JSON(payload),
		Status:        models.OutboxStatusPending,
		NextAttemptAt: time.Now(),
	}
	if err := s.outboxRepo.Create(db, msg); err != nil {
		return err
	}

	logger.CtxDebug(ctx, "Email enqueued", "template", templateName, "outbox_id", msg.ID)
	return nil
}

func (s *notificationService) EnqueueSMS(ctx context.Context, db *gorm.DB, to, body string) error {
	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return err
	}

	msg := &models.OutboxMessage{
		Channel:       models.ChannelSMS,
		Recipient:     to,
		Payload:       datatypes.JSON(payload),
		Status:        models.OutboxStatusPending,
		NextAttemptAt: time.Now(),
	}
	if err := s.outboxRepo.Create(db, msg); err != nil {
		return err
	}

	logger.CtxDebug(ctx, "SMS enqueued", "outbox_id", msg.ID)
	return nil
}

func (s *notificationService) EnqueueCode(ctx context.Context, db *gorm.DB, user *models.User, code string, channel models.Channel) error {
	if channel == models.ChannelSMS {
		return s.EnqueueSMS(ctx, db, user.Phone(), sms.CodeBody(code))
	}
	return s.EnqueueEmail(ctx, db, user.Email, email.TemplateCode, email.TemplateData{
		"code":      code,
		"full_name": displayName(user),
	})
}

func (s *notificationService) Nudge() {
	select {
	case s.wake <- struct{}{}:
	default:
		// воркер уже разбужен
	}
}

func (s *notificationService) Wakeups() <-chan struct{} {
	return s.wake
}

// displayName - имя из профиля или email
func displayName(user *models.User) string {
	if profile, err := user.CurrentProfile(); err == nil && profile.FullName() != "" {
		return profile.FullName()
	}
	return user.Email
}
