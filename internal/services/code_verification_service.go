package services

import (
	"context"
	"errors"

	"onversed_backend/internal/auth"
	"onversed_backend/internal/logger"
	"onversed_backend/internal/models"
	"onversed_backend/internal/repositories"
	"onversed_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type CodeVerificationService interface {
	// Issue выпускает 6-значный код; у пользователя один живой код на канал
	Issue(ctx context.Context, db *gorm.DB, user *models.User, channel models.Channel) (string, error)

	// Consume находит код по (code, канал), удаляет его и возвращает владельца
	Consume(ctx context.Context, db *gorm.DB, code string, channel models.Channel) (*models.User, error)

	// Revoke удаляет код без учета канала; любые ошибки дают false
	Revoke(ctx context.Context, db *gorm.DB, code string) bool
}

type codeVerificationService struct {
	codeRepo repositories.CodeVerificationRepository
	userRepo repositories.UserRepository
}

func NewCodeVerificationService(codeRepo repositories.CodeVerificationRepository, userRepo repositories.UserRepository) CodeVerificationService {
	return &codeVerificationService{
		codeRepo: codeRepo,
		userRepo: userRepo,
	}
}

func (s *codeVerificationService) Issue(ctx context.Context, db *gorm.DB, user *models.User, channel models.Channel) (string, error) {
	code, err := auth.GenerateCode()
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	// Такой же код в этом канале у другого пользователя снимается
	if err := s.codeRepo.DeleteByCodeAndChannel(db, code, channel); err != nil {
		return "", apperrors.InternalError(err)
	}

	cv := &models.CodeVerification{
		Code:    code,
		IsSMS:   channel == models.ChannelSMS,
		IsEmail: channel == models.ChannelEmail,
		UserID:  user.ID,
	}
	if err := s.codeRepo.Upsert(db, cv); err != nil {
		return "", apperrors.InternalError(err)
	}

	logger.CtxDebug(ctx, "Verification code issued", "user_id", user.ID, "channel", channel)
	return code, nil
}

func (s *codeVerificationService) Consume(ctx context.Context, db *gorm.DB, code string, channel models.Channel) (*models.User, error) {
	cv, err := s.codeRepo.FindByCodeAndChannel(db, code, channel)
	if err != nil {
		return nil, handleCodeError(err)
	}

	user, err := s.userRepo.FindByID(db, cv.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrCodeNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.codeRepo.Delete(db, cv.ID); err != nil {
		return nil, handleCodeError(err)
	}

	return user, nil
}

func (s *codeVerificationService) Revoke(ctx context.Context, db *gorm.DB, code string) bool {
	cv, err := s.codeRepo.FindByCode(db, code)
	if err != nil {
		return false
	}
	if err := s.codeRepo.Delete(db, cv.ID); err != nil {
		logger.CtxWithError(ctx, "Failed to revoke verification code", err)
		return false
	}
	return true
}

func handleCodeError(err error) error {
	if errors.Is(err, repositories.ErrCodeNotFound) {
		return apperrors.ErrCodeNotFound
	}
	return apperrors.InternalError(err)
}

// issueCode выпускает код и ставит его доставку в outbox в транзакции tx
func issueCode(ctx context.Context, tx *gorm.DB, codes CodeVerificationService, notifications NotificationService, user *models.User, channel models.Channel) error {
	code, err := codes.Issue(ctx, tx, user, channel)
	if err != nil {
		return err
	}
	return notifications.EnqueueCode(ctx, tx, user, code, channel)
}
