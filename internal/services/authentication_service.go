package services

import (
	"context"
	"errors"
	"strings"

	"onversed_backend/internal/auth"
	"onversed_backend/internal/email"
	"onversed_backend/internal/logger"
	"onversed_backend/internal/models"
	"onversed_backend/internal/repositories"
	"onversed_backend/internal/services/dto"
	"onversed_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// AuthConfig - параметры входа и восстановления
type AuthConfig struct {
	// StrictMobileCode: код из SMS должен принадлежать владельцу телефона
	StrictMobileCode bool
	FrontendURL      string
}

type AuthenticationService interface {
	// Authenticate проверяет access-токен и возвращает пользователя с профилем
	Authenticate(ctx context.Context, db *gorm.DB, accessToken string) (*models.User, *models.Profile, error)

	LoginByEmail(ctx context.Context, db *gorm.DB, req *dto.LoginEmailRequest) (*dto.UserTokens, error)
	LoginByMobilePhone(ctx context.Context, db *gorm.DB, phone string) error
	LoginByMobileCode(ctx context.Context, db *gorm.DB, phone, code string) (*dto.UserTokens, error)
	RefreshToken(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.UserTokens, error)

	RecoverPassword(ctx context.Context, db *gorm.DB, email string) error
	ChangePassword(ctx context.Context, db *gorm.DB, code, password string) error

	EmailConfirmation(ctx context.Context, db *gorm.DB, code string) (*dto.UserTokens, error)
	ResendEmailConfirmation(ctx context.Context, db *gorm.DB, email string) error
	SmsConfirmation(ctx context.Context, db *gorm.DB, code string) (*dto.UserTokens, error)
	ResendSmsConfirmation(ctx context.Context, db *gorm.DB, phone string) error
}

type authenticationService struct {
	cfg                 AuthConfig
	userRepo            repositories.UserRepository
	profileRepo         repositories.ProfileRepository
	tokenRepo           repositories.TokenRepository
	tokenService        TokenService
	codeService         CodeVerificationService
	notificationService NotificationService
}

func NewAuthenticationService(
	cfg AuthConfig,
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	tokenRepo repositories.TokenRepository,
	tokenService TokenService,
	codeService CodeVerificationService,
	notificationService NotificationService,
) AuthenticationService {
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return &authenticationService{
		cfg:                 cfg,
		userRepo:            userRepo,
		profileRepo:         profileRepo,
		tokenRepo:           tokenRepo,
		tokenService:        tokenService,
		codeService:         codeService,
		notificationService: notificationService,
	}
}

// ---------------- Guard ----------------

func (s *authenticationService) Authenticate(ctx context.Context, db *gorm.DB, accessToken string) (*models.User, *models.Profile, error) {
	claims, err := s.tokenService.Parse(accessToken)
	if err != nil {
		return nil, nil, err
	}

	// токен должен быть последним выпущенным для пользователя
	token, err := s.tokenRepo.FindByToken(db, accessToken)
	if err != nil {
		if !errors.Is(err, repositories.ErrTokenNotFound) {
			return nil, nil, apperrors.InternalError(err)
		}
		return nil, nil, apperrors.ErrInvalidToken
	}
	if token.User == nil || token.UserID != claims.UserID() {
		return nil, nil, apperrors.ErrInvalidToken
	}

	user := token.User
	if !user.IsActive {
		return nil, nil, apperrors.ErrUserInactive
	}

	profile, err := user.CurrentProfile()
	if err != nil {
		profile = nil
	}
	return user, profile, nil
}

// ---------------- Login ----------------

func (s *authenticationService) LoginByEmail(ctx context.Context, db *gorm.DB, req *dto.LoginEmailRequest) (*dto.UserTokens, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	profile, _ := user.CurrentProfile()
	if profile != nil && profile.IsGenerated {
		// первый вход приглашенного сотрудника активирует аккаунт при любом пароле
		if err := s.activateGenerated(ctx, db, user, profile); err != nil {
			return nil, err
		}
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if !user.IsActive {
		// аккаунт не подтвержден: новый код на почту и пустые токены
		if err := issueCode(ctx, tx, s.codeService, s.notificationService, user, models.ChannelEmail); err != nil {
			return nil, txError(ctx, err, "auth", apperrors.TagNotCreate)
		}
		if err := tx.Commit().Error; err != nil {
			return nil, txError(ctx, err, "auth", apperrors.TagNotCreate)
		}
		s.notificationService.Nudge()
		return emptyTokens(user), nil
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	tokens, err := s.tokenService.IssueToken(ctx, tx, user)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, txError(ctx, err, "auth", apperrors.TagNotCreate)
	}

	logger.CtxInfo(ctx, "User logged in", "user_id", user.ID)
	return tokens, nil
}

// activateGenerated фиксирует активацию отдельной транзакцией до проверки пароля
func (s *authenticationService) activateGenerated(ctx context.Context, db *gorm.DB, user *models.User, profile *models.Profile) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.userRepo.UpdateFields(tx, user.ID, map[string]interface{}{"is_active": true}); err != nil {
		return txError(ctx, err, "auth", apperrors.TagNotUpdate)
	}
	if err := s.profileRepo.UpdateFields(tx, profile.ID, map[string]interface{}{"is_generated": false}); err != nil {
		return txError(ctx, err, "auth", apperrors.TagNotUpdate)
	}
	if err := tx.Commit().Error; err != nil {
		return txError(ctx, err, "auth", apperrors.TagNotUpdate)
	}

	user.IsActive = true
	profile.IsGenerated = false
	logger.CtxInfo(ctx, "Generated profile activated", "user_id", user.ID, "profile_id", profile.ID)
	return nil
}

func (s *authenticationService) LoginByMobilePhone(ctx context.Context, db *gorm.DB, phone string) error {
	user, err := s.userRepo.FindByMobilePhone(db, phone)
	if err != nil || !user.IsConfirmed {
		if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.InternalError(err)
		}
		return apperrors.ErrMobilePhone
	}

	return s.sendCode(ctx, db, user, models.ChannelSMS)
}

func (s *authenticationService) LoginByMobileCode(ctx context.Context, db *gorm.DB, phone, code string) (*dto.UserTokens, error) {
	user, err := s.userRepo.FindByMobilePhone(db, phone)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrMobilePhone
		}
		return nil, apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	owner, err := s.codeService.Consume(ctx, tx, code, models.ChannelSMS)
	if err != nil {
		return nil, err
	}
	if owner.ID != user.ID {
		if s.cfg.StrictMobileCode {
			return nil, apperrors.ErrInvalidCredentials
		}
		logger.CtxWarn(ctx, "SMS code belongs to another user",
			"phone_user_id", user.ID,
			"code_user_id", owner.ID,
		)
	}

	tokens, err := s.tokenService.IssueToken(ctx, tx, user)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, txError(ctx, err, "auth", apperrors.TagNotCreate)
	}
	return tokens, nil
}

func (s *authenticationService) RefreshToken(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.UserTokens, error) {
	return s.tokenService.Refresh(ctx, db, refreshToken)
}

// ---------------- Recovery ----------------

func (s *authenticationService) RecoverPassword(ctx context.Context, db *gorm.DB, emailAddr string) error {
	user, err := s.userRepo.FindByEmail(db, emailAddr)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotValid
		}
		return apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	code, err := s.codeService.Issue(ctx, tx, user, models.ChannelEmail)
	if err != nil {
		return err
	}

	data := email.TemplateData{
		"full_name": displayName(user),
		"url":       s.cfg.FrontendURL + "/oauth/change-password/" + code,
	}
	if err := s.notificationService.EnqueueEmail(ctx, tx, user.Email, email.TemplateResetPassword, data); err != nil {
		return txError(ctx, err, "auth", apperrors.TagNotCreate)
	}

	if err := tx.Commit().Error; err != nil {
		return txError(ctx, err, "auth", apperrors.TagNotCreate)
	}
	s.notificationService.Nudge()
	return nil
}

func (s *authenticationService) ChangePassword(ctx context.Context, db *gorm.DB, code, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.codeService.Consume(ctx, tx, code, models.ChannelEmail)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdateFields(tx, user.ID, map[string]interface{}{"password": hash}); err != nil {
		return txError(ctx, err, "auth", apperrors.TagNotUpdate)
	}

	if err := tx.Commit().Error; err != nil {
		return txError(ctx, err, "auth", apperrors.TagNotUpdate)
	}
	logger.CtxInfo(ctx, "Password changed by code", "user_id", user.ID)
	return nil
}

// ---------------- Confirmation ----------------

func (s *authenticationService) EmailConfirmation(ctx context.Context, db *gorm.DB, code string) (*dto.UserTokens, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.codeService.Consume(ctx, tx, code, models.ChannelEmail)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFields(tx, user.ID, map[string]interface{}{"is_active": true}); err != nil {
		return nil, txError(ctx, err, "auth", apperrors.TagNotUpdate)
	}
	user.IsActive = true

	data := email.TemplateData{"full_name": displayName(user)}
	if err := s.notificationService.EnqueueEmail(ctx, tx, user.Email, email.TemplateWelcome, data); err != nil {
		return nil, txError(ctx, err, "auth", apperrors.TagNotUpdate)
	}

	tokens, err := s.tokenService.IssueToken(ctx, tx, user)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, txError(ctx, err, "auth", apperrors.TagNotUpdate)
	}
	s.notificationService.Nudge()
	return tokens, nil
}

func (s *authenticationService) ResendEmailConfirmation(ctx context.Context, db *gorm.DB, emailAddr string) error {
	user, err := s.userRepo.FindByEmail(db, emailAddr)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotValid
		}
		return apperrors.InternalError(err)
	}
	return s.sendCode(ctx, db, user, models.ChannelEmail)
}

func (s *authenticationService) SmsConfirmation(ctx context.Context, db *gorm.DB, code string) (*dto.UserTokens, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.codeService.Consume(ctx, tx, code, models.ChannelSMS)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFields(tx, user.ID, map[string]interface{}{"is_confirmed": true}); err != nil {
		return nil, txError(ctx, err, "auth", apperrors.TagNotUpdate)
	}
	user.IsConfirmed = true

	tokens, err := s.tokenService.IssueToken(ctx, tx, user)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, txError(ctx, err, "auth", apperrors.TagNotUpdate)
	}
	return tokens, nil
}

func (s *authenticationService) ResendSmsConfirmation(ctx context.Context, db *gorm.DB, phone string) error {
	user, err := s.userRepo.FindByMobilePhone(db, phone)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrMobilePhone
		}
		return apperrors.InternalError(err)
	}
	return s.sendCode(ctx, db, user, models.ChannelSMS)
}

// ---------------- Helpers ----------------

// sendCode выпускает код и ставит уведомление в очередь в отдельной транзакции
func (s *authenticationService) sendCode(ctx context.Context, db *gorm.DB, user *models.User, channel models.Channel) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := issueCode(ctx, tx, s.codeService, s.notificationService, user, channel); err != nil {
		return txError(ctx, err, "code_verification", apperrors.TagNotCreate)
	}
	if err := tx.Commit().Error; err != nil {
		return txError(ctx, err, "code_verification", apperrors.TagNotCreate)
	}
	s.notificationService.Nudge()
	return nil
}

func emptyTokens(user *models.User) *dto.UserTokens {
	return &dto.UserTokens{
		IsConfirmed:    user.IsConfirmed,
		MobilePhone:    user.Phone(),
		HasMobilePhone: user.HasMobilePhone(),
	}
}
