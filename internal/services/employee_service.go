package services

import (
	"context"
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

type EmployeeService interface {
	// CreateEmployee создает сотрудника в компании вызывающего клиента
	// со сгенерированным паролем и отправляет приглашение
	CreateEmployee(ctx context.Context, db *gorm.DB, caller *models.User, req *dto.CreateEmployeeRequest) error

	// RemoveEmployee удаляет сотрудника своей компании (без пароля)
	RemoveEmployee(ctx context.Context, db *gorm.DB, caller *models.User, userID string) error
}

type employeeService struct {
	userRepo            repositories.UserRepository
	companyRepo         repositories.CompanyRepository
	profileRepo         repositories.ProfileRepository
	roleRepo            repositories.RoleRepository
	tokenService        TokenService
	notificationService NotificationService
	signInURL           string
}

func NewEmployeeService(
	userRepo repositories.UserRepository,
	companyRepo repositories.CompanyRepository,
	profileRepo repositories.ProfileRepository,
	roleRepo repositories.RoleRepository,
	tokenService TokenService,
	notificationService NotificationService,
	frontendURL string,
) EmployeeService {
	return &employeeService{
		userRepo:            userRepo,
		companyRepo:         companyRepo,
		profileRepo:         profileRepo,
		roleRepo:            roleRepo,
		tokenService:        tokenService,
		notificationService: notificationService,
		signInURL:           strings.TrimRight(frontendURL, "/") + "/oauth/sign-in",
	}
}

func (s *employeeService) CreateEmployee(ctx context.Context, db *gorm.DB, caller *models.User, req *dto.CreateEmployeeRequest) error {
	callerProfile, err := currentProfile(caller)
	if err != nil {
		return err
	}

	password, err := auth.GeneratePassword(auth.EmployeePasswordLength)
	if err != nil {
		return apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.createEmployee(ctx, tx, callerProfile, req, password); err != nil {
		return txError(ctx, err, "employee", apperrors.TagNotCreate)
	}

	if err := tx.Commit().Error; err != nil {
		return txError(ctx, err, "employee", apperrors.TagNotCreate)
	}

	s.notificationService.Nudge()
	logger.CtxInfo(ctx, "Employee created", "email", req.Email, "company_id", req.CompanyID)
	return nil
}

func (s *employeeService) createEmployee(ctx context.Context, tx *gorm.DB, callerProfile *models.Profile, req *dto.CreateEmployeeRequest, password string) error {
	company, err := s.companyRepo.FindByID(tx, req.CompanyID)
	if err != nil {
		return handleUserError(err)
	}
	// приглашать можно только в свою компанию
	if company.ID != callerProfile.CompanyID {
		return apperrors.ErrOtherCompany
	}

	exists, err := s.userRepo.ExistsByEmailOrPhone(tx, req.Email, req.MobilePhone)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.ErrUserAlreadyExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		MobilePhone:  optionalString(req.MobilePhone),
		Lang:         "en",
		IsActive:     true,
	}
	if err := s.userRepo.Create(tx, user); err != nil {
		return handleUserError(err)
	}

	role, err := s.roleRepo.FindByID(tx, req.Role)
	if err != nil {
		return handleUserError(err)
	}

	profile := &models.Profile{
		UserID:      user.ID,
		CompanyID:   company.ID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		JobTitle:    req.JobTitle,
		IsCustomer:  false,
		IsGenerated: true,
		Roles:       []models.Role{*role},
	}
	if err := s.profileRepo.Create(tx, profile); err != nil {
		return handleUserError(err)
	}

	data := email.TemplateData{
		"full_name":    profile.FullName(),
		"company_name": company.Name,
	}
	if err := s.notificationService.EnqueueEmail(ctx, tx, user.Email, email.TemplateEmployeeInvite, data); err != nil {
		return err
	}

	data = email.TemplateData{
		"full_name":    profile.FullName(),
		"company_name": company.Name,
		"password":     password,
		"url":          s.signInURL,
	}
	return s.notificationService.EnqueueEmail(ctx, tx, user.Email, email.TemplateWelcomeTeam, data)
}

func (s *employeeService) RemoveEmployee(ctx context.Context, db *gorm.DB, caller *models.User, userID string) error {
	callerProfile, err := currentProfile(caller)
	if err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	target, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return handleUserError(err)
	}
	targetProfile, err := target.CurrentProfile()
	if err != nil || targetProfile.CompanyID != callerProfile.CompanyID {
		return apperrors.ErrOtherCompany
	}

	if err := s.userRepo.SoftDelete(tx, target.ID); err != nil {
		return txError(ctx, handleUserError(err), "employee", apperrors.TagNotRemove)
	}
	if err := s.tokenService.Revoke(ctx, tx, target.ID); err != nil {
		return txError(ctx, err, "employee", apperrors.TagNotRemove)
	}

	if err := tx.Commit().Error; err != nil {
		return txError(ctx, err, "employee", apperrors.TagNotRemove)
	}

	logger.CtxInfo(ctx, "Employee removed", "user_id", target.ID)
	return nil
}
