package services

import (
	"context"
	"errors"
	"time"

	"onversed_backend/internal/auth"
	"onversed_backend/internal/logger"
	"onversed_backend/internal/models"
	"onversed_backend/internal/repositories"
	"onversed_backend/internal/services/dto"
	"onversed_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// TokenConfig - параметры выпуска токенов (из секции jwt)
type TokenConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// ExpiresIn - строка TTL как в конфиге, сохраняется в Token.expires_in
	ExpiresIn string
}

type TokenService interface {
	// IssueToken выпускает пару токенов; у пользователя всегда ровно одна строка Token
	IssueToken(ctx context.Context, db *gorm.DB, user *models.User) (*dto.UserTokens, error)

	// Refresh обменивает refresh-токен на новую пару (с ротацией)
	Refresh(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.UserTokens, error)

	// Revoke удаляет токены пользователя (logout, удаление аккаунта)
	Revoke(ctx context.Context, db *gorm.DB, userID string) error

	// Parse проверяет подпись и срок access-токена
	Parse(accessToken string) (*auth.Claims, error)
}

type tokenService struct {
	cfg       TokenConfig
	tokenRepo repositories.TokenRepository
	userRepo  repositories.UserRepository
	now       func() time.Time
}

func NewTokenService(cfg TokenConfig, tokenRepo repositories.TokenRepository, userRepo repositories.UserRepository) TokenService {
	return &tokenService{
		cfg:       cfg,
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

func (s *tokenService) IssueToken(ctx context.Context, db *gorm.DB, user *models.User) (*dto.UserTokens, error) {
	claims := auth.Claims{
		Email:       user.Email,
		Profiles:    user.ProfileIDs(),
		MobilePhone: user.Phone(),
		Roles:       []string{},
	}
	if profile, err := user.CurrentProfile(); err == nil {
		claims.Roles = profile.RoleNames()
	}

	accessToken, err := auth.NewAccessToken(s.cfg.Secret, s.cfg.Issuer, s.cfg.AccessTTL, user.ID, claims)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken, err := auth.NewRefreshToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// ON CONFLICT (user_id) DO UPDATE: повторный выпуск заменяет строку
	token := &models.Token{
		UserID:           user.ID,
		Token:            accessToken,
		TokenType:        "Bearer",
		ExpiresIn:        s.cfg.ExpiresIn,
		RefreshTokenHash: auth.HashToken(refreshToken),
		RefreshExpiresAt: s.now().Add(s.cfg.RefreshTTL),
	}
	if err := s.tokenRepo.Upsert(db, token); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxDebug(ctx, "Token issued", "user_id", user.ID)

	return &dto.UserTokens{
		AccessToken:    accessToken,
		RefreshToken:   refreshToken,
		IsConfirmed:    user.IsConfirmed,
		MobilePhone:    user.Phone(),
		HasMobilePhone: user.HasMobilePhone(),
	}, nil
}

func (s *tokenService) Refresh(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.UserTokens, error) {
	token, err := s.tokenRepo.FindByRefreshHash(db, auth.HashToken(refreshToken))
	if err != nil {
		// не важно, не найден или ошибка БД - токен невалиден
		if !errors.Is(err, repositories.ErrTokenNotFound) {
			logger.CtxWithError(ctx, "Refresh token lookup failed", err)
		}
		return nil, apperrors.ErrInvalidToken
	}

	if s.now().After(token.RefreshExpiresAt) {
		if err := s.tokenRepo.DeleteByUserID(db, token.UserID); err != nil {
			logger.CtxWithError(ctx, "Failed to delete expired token", err, "user_id", token.UserID)
		}
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(db, token.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}

	return s.IssueToken(ctx, db, user)
}

func (s *tokenService) Revoke(ctx context.Context, db *gorm.DB, userID string) error {
	if err := s.tokenRepo.DeleteByUserID(db, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *tokenService) Parse(accessToken string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(s.cfg.Secret, accessToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken.WithError(err)
	}
	return claims, nil
}
