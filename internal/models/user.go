package models

import (
	"errors"
	"time"
)

// ErrUserHasNoProfile - у пользователя нет ни одного профиля
var ErrUserHasNoProfile = errors.New("user has no profile")

type User struct {
	BaseModelWithDeleted
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"column:password;not null" json:"-"`
	MobilePhone  *string `gorm:"uniqueIndex" json:"mobile_phone"`
	Lang         string  `gorm:"default:'en'" json:"lang"`
	IsSocial     bool    `gorm:"default:false" json:"is_social"`
	IsActive     bool    `gorm:"default:false" json:"is_active"`
	IsConfirmed  bool    `gorm:"default:false" json:"is_confirmed"`

	// Relations
	Profiles []Profile `gorm:"foreignKey:UserID" json:"profiles,omitempty"`
}

// CurrentProfile возвращает единственный рабочий профиль пользователя.
// Мультипрофильность не поддерживается: берется первый профиль.
func (u *User) CurrentProfile() (*Profile, error) {
	if u == nil || len(u.Profiles) == 0 {
		return nil, ErrUserHasNoProfile
	}
	return &u.Profiles[0], nil
}

// Phone возвращает телефон или пустую строку
func (u *User) Phone() string {
	if u.MobilePhone == nil {
		return ""
	}
	return *u.MobilePhone
}

func (u *User) HasMobilePhone() bool {
	return u.Phone() != ""
}

// ProfileIDs - id всех профилей (для claims)
func (u *User) ProfileIDs() []string {
	ids := make([]string, 0, len(u.Profiles))
	for _, p := range u.Profiles {
		ids = append(ids, p.ID)
	}
	return ids
}

// Token - единственная активная пара токенов пользователя
type Token struct {
	BaseModel
	UserID           string `gorm:"type:uuid;uniqueIndex;not null"`
	Token            string `gorm:"type:text;not null;index"`
	TokenType        string `gorm:"type:varchar(20);default:'Bearer'"`
	ExpiresIn        string `gorm:"type:varchar(20)"`
	RefreshTokenHash string `gorm:"type:varchar(64);index"`
	RefreshExpiresAt time.Time

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// CodeVerification - одноразовый код подтверждения по каналу
type CodeVerification struct {
	BaseModel
	Code    string `gorm:"type:varchar(6);not null;uniqueIndex:idx_code_verifications_code_channel"`
	IsSMS   bool   `gorm:"column:is_sms;default:false;uniqueIndex:idx_code_verifications_code_channel;uniqueIndex:idx_code_verifications_user_channel"`
	IsEmail bool   `gorm:"column:is_email;default:false;uniqueIndex:idx_code_verifications_code_channel;uniqueIndex:idx_code_verifications_user_channel"`
	UserID  string `gorm:"type:uuid;not null;uniqueIndex:idx_code_verifications_user_channel"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Channel возвращает канал доставки кода
func (c *CodeVerification) Channel() Channel {
	if c.IsSMS {
		return ChannelSMS
	}
	return ChannelEmail
}
