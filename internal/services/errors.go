package services

import (
	"context"
	"errors"

	"onversed_backend/internal/logger"
	"onversed_backend/internal/models"
	"onversed_backend/internal/repositories"
	"onversed_backend/pkg/apperrors"
)

// txError - итог неудачной многошаговой операции. Клиентские AppError (4xx)
// пробрасываются как есть, остальное логируется и скрывается за тегом.
func txError(ctx context.Context, err error, domain string, tag apperrors.Tag) error {
	if appErr, ok := apperrors.AsAppError(err); ok && appErr.HTTPCode < 500 {
		return appErr
	}
	logger.CtxWithError(ctx, "Transaction failed", err, "domain", domain, "tag", tag)
	return apperrors.TransactionFailed(err, domain, tag)
}

// handleUserError переводит ошибки репозитория пользователей
func handleUserError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrNotFound(err, "user")
	case errors.Is(err, repositories.ErrUserAlreadyExists):
		return apperrors.ErrUserAlreadyExists
	case errors.Is(err, repositories.ErrCompanyAlreadyExists):
		return apperrors.ErrCompanyAlreadyExists
	case errors.Is(err, repositories.ErrCompanyNotFound):
		return apperrors.ErrNotFound(err, "company")
	case errors.Is(err, repositories.ErrRoleNotFound):
		return apperrors.ErrNotFound(err, "role")
	case errors.Is(err, repositories.ErrProfileNotFound):
		return apperrors.ErrNotFound(err, "profile")
	case errors.Is(err, repositories.ErrProfileAlreadyExists):
		return apperrors.ErrConflict(err, "profile", "Profile already exists")
	default:
		return apperrors.InternalError(err)
	}
}

// currentProfile - профиль вызывающего или 403
func currentProfile(user *models.User) (*models.Profile, error) {
	profile, err := user.CurrentProfile()
	if err != nil {
		return nil, apperrors.ErrNoProfile
	}
	return profile, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
