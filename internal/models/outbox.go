package models

import (
	"time"

	"gorm.io/datatypes"
)

// OutboxMessage - уведомление, записанное в той же транзакции, что и бизнес-данные.
// Отправляет OutboxWorker.
type OutboxMessage struct {
	BaseModel
	Channel       Channel        `gorm:"type:varchar(10);not null"`
	Recipient     string         `gorm:"not null"`
	Subject       string         `gorm:"type:varchar(255)"`
	Template      string         `gorm:"type:varchar(50)"`
	Payload       datatypes.JSON `gorm:"type:jsonb"`
	Status        OutboxStatus   `gorm:"type:varchar(20);not null;default:'pending';index:idx_outbox_status_next"`
	Attempts      int            `gorm:"default:0"`
	NextAttemptAt time.Time      `gorm:"not null;index:idx_outbox_status_next"`
	LastError     string         `gorm:"type:text"`
	SentAt        *time.Time
}
