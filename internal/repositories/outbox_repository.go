package repositories

import (
	"time"

	"onversed_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OutboxRepository interface {
	Create(db *gorm.DB, msg *models.OutboxMessage) error

	// ClaimPending блокирует готовые к отправке строки (FOR UPDATE SKIP LOCKED).
	// Вызывать внутри транзакции.
	ClaimPending(db *gorm.DB, now time.Time, limit int) ([]models.OutboxMessage, error)

	MarkSent(db *gorm.DB, id string, at time.Time) error
	MarkRetry(db *gorm.DB, id string, attempts int, next time.Time, lastErr string) error
	MarkFailed(db *gorm.DB, id string, attempts int, lastErr string) error

	CountByRecipient(db *gorm.DB, recipient string) (int64, error)
}

type outboxRepository struct{}

func NewOutboxRepository() OutboxRepository {
	return &outboxRepository{}
}

func (r *outboxRepository) Create(db *gorm.DB, msg *models.OutboxMessage) error {
	return db.Create(msg).Error
}

func (r *outboxRepository) ClaimPending(db *gorm.DB, now time.Time, limit int) ([]models.OutboxMessage, error) {
	var msgs []models.OutboxMessage
	err := db.
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ? AND next_attempt_at <= ?", models.OutboxStatusPending, now).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

func (r *outboxRepository) MarkSent(db *gorm.DB, id string, at time.Time) error {
	return db.Model(&models.OutboxMessage{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     models.OutboxStatusSent,
		"sent_at":    at,
		"last_error": "",
	}).Error
}

func (r *outboxRepository) MarkRetry(db *gorm.DB, id string, attempts int, next time.Time, lastErr string) error {
	return db.Model(&models.OutboxMessage{}).Where("id = ?", id).Updates(map[string]interface{}{
		"attempts":        attempts,
		"next_attempt_at": next,
		"last_error":      lastErr,
	}).Error
}

func (r *outboxRepository) MarkFailed(db *gorm.DB, id string, attempts int, lastErr string) error {
	return db.Model(&models.OutboxMessage{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     models.OutboxStatusFailed,
		"attempts":   attempts,
		"last_error": lastErr,
	}).Error
}

func (r *outboxRepository) CountByRecipient(db *gorm.DB, recipient string) (int64, error) {
	var count int64
	err := db.Model(&models.OutboxMessage{}).Where("recipient = ?", recipient).Count(&count).Error
	return count, err
}
