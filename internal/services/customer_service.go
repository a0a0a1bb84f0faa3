package services

import (
	"context"

	"onversed_backend/internal/auth"
	"onversed_backend/internal/logger"
	"onversed_backend/internal/models"
	"onversed_backend/internal/repositories"
	"onversed_backend/internal/services/dto"
	"onversed_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type CustomerService interface {
	// CreateCustomer регистрирует клиента: компания, пользователь, профиль,
	// коды подтверждения и письма в одной транзакции
	CreateCustomer(ctx context.Context, db *gorm.DB, req *dto.CreateCustomerRequest) (*dto.UserTokens, error)

	// RemoveCustomer удаляет аккаунт после проверки пароля
	RemoveCustomer(ctx context.Context, db *gorm.DB, user *models.User, password string) error
}

type customerService struct {
	userRepo            repositories.UserRepository
	companyRepo         repositories.CompanyRepository
	profileRepo         repositories.ProfileRepository
	codeService         CodeVerificationService
	tokenService        TokenService
	notificationService NotificationService
}

func NewCustomerService(
	userRepo repositories.UserRepository,
	companyRepo repositories.CompanyRepository,
	profileRepo repositories.ProfileRepository,
	codeService CodeVerificationService,
	tokenService TokenService,
	notificationService NotificationService,
) CustomerService {
	return &customerService{
		userRepo:            userRepo,
		companyRepo:         companyRepo,
		profileRepo:         profileRepo,
		codeService:         codeService,
		tokenService:        tokenService,
		notificationService: notificationService,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, db *gorm.DB, req *dto.CreateCustomerRequest) (*dto.UserTokens, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	tokens, err := s.createCustomer(ctx, tx, req)
	if err != nil {
		return nil, txError(ctx, err, "customer", apperrors.TagNotCreate)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, txError(ctx, err, "customer", apperrors.TagNotCreate)
	}

	s.notificationService.Nudge()
	logger.CtxInfo(ctx, "Customer created", "email", req.Email, "company", req.CompanyName)

	return tokens, nil
}

func (s *customerService) createCustomer(ctx context.Context, tx *gorm.DB, req *dto.CreateCustomerRequest) (*dto.UserTokens, error) {
	// 1. Компания
	exists, err := s.companyRepo.ExistsByName(tx, req.CompanyName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrCompanyAlreadyExists
	}

	company := &models.Company{Name: req.CompanyName, IsActive: true}
	if err := s.companyRepo.Create(tx, company); err != nil {
		return nil, handleUserError(err)
	}

	// 2. Пользователь
	exists, err = s.userRepo.ExistsByEmailOrPhone(tx, req.Email, req.MobilePhone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrUserAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		MobilePhone:  optionalString(req.MobilePhone),
		Lang:         req.Lang,
		IsActive:     false,
		IsConfirmed:  false,
	}
	if user.Lang == "" {
		user.Lang = "en"
	}
	if err := s.userRepo.Create(tx, user); err != nil {
		return nil, handleUserError(err)
	}

	// 3. Профиль клиента
	profile := &models.Profile{
		UserID:     user.ID,
		CompanyID:  company.ID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		JobTitle:   req.JobTitle,
		IsCustomer: true,
	}
	if err := s.profileRepo.Create(tx, profile); err != nil {
		return nil, handleUserError(err)
	}
	profile.Company = company
	user.Profiles = []models.Profile{*profile}

	// 4. Коды подтверждения и уведомления (через outbox)
	if err := issueCode(ctx, tx, s.codeService, s.notificationService, user, models.ChannelEmail); err != nil {
		return nil, err
	}
	if user.HasMobilePhone() {
		if err := issueCode(ctx, tx, s.codeService, s.notificationService, user, models.ChannelSMS); err != nil {
			return nil, err
		}
	}

	return s.tokenService.IssueToken(ctx, tx, user)
}

func (s *customerService) RemoveCustomer(ctx context.Context, db *gorm.DB, user *models.User, password string) error {
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.userRepo.SoftDelete(tx, user.ID); err != nil {
		return txError(ctx, handleUserError(err), "customer", apperrors.TagNotRemove)
	}
	if err := s.tokenService.Revoke(ctx, tx, user.ID); err != nil {
		return txError(ctx, err, "customer", apperrors.TagNotRemove)
	}

	if err := tx.Commit().Error; err != nil {
		return txError(ctx, err, "customer", apperrors.TagNotRemove)
	}

	logger.CtxInfo(ctx, "Customer removed", "user_id", user.ID)
	return nil
}
