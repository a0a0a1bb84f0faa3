package services

import (
	"context"
	"strings"

	"onversed_backend/internal/auth"
	"onversed_backend/internal/logger"
	"onversed_backend/internal/models"
	"onversed_backend/internal/repositories"
	"onversed_backend/internal/services/dto"
	"onversed_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	Me(ctx context.Context, user *models.User, profile *models.Profile) *dto.MeResponse
	CheckPassword(ctx context.Context, user *models.User, password string) bool
	UpdatePassword(ctx context.Context, db *gorm.DB, user *models.User, req *dto.UpdatePasswordRequest) error

	// UpdateEmail / UpdateMobilePhone требуют код подтверждения и текущее значение
	UpdateEmail(ctx context.Context, db *gorm.DB, user *models.User, req *dto.UpdateEmailRequest) error
	UpdateMobilePhone(ctx context.Context, db *gorm.DB, user *models.User, req *dto.UpdateMobilePhoneRequest) error

	Logout(ctx context.Context, db *gorm.DB, user *models.User) error
}

type userService struct {
	userRepo     repositories.UserRepository
	codeService  CodeVerificationService
	tokenService TokenService
}

func NewUserService(userRepo repositories.UserRepository, codeService CodeVerificationService, tokenService TokenService) UserService {
	return &userService{
		userRepo:     userRepo,
		codeService:  codeService,
		tokenService: tokenService,
	}
}

func (s *userService) Me(ctx context.Context, user *models.User, profile *models.Profile) *dto.MeResponse {
	resp := &dto.MeResponse{
		ID:          user.ID,
		Email:       user.Email,
		MobilePhone: user.Phone(),
		IsActive:    user.IsActive,
		IsConfirmed: user.IsConfirmed,
		Roles:       []string{},
	}
	if profile == nil {
		return resp
	}

	resp.ProfileID = profile.ID
	resp.CompanyID = profile.CompanyID
	resp.FirstName = profile.FirstName
	resp.LastName = profile.LastName
	resp.JobTitle = profile.JobTitle
	resp.IsCustomer = profile.IsCustomer
	resp.AvatarURL = profile.AvatarURL
	resp.Roles = auth.ProfileRoles(profile)
	if profile.Company != nil {
		resp.CompanyName = profile.Company.Name
	}
	return resp
}

func (s *userService) CheckPassword(ctx context.Context, user *models.User, password string) bool {
	return auth.CheckPasswordHash(password, user.PasswordHash)
}

func (s *userService) UpdatePassword(ctx context.Context, db *gorm.DB, user *models.User, req *dto.UpdatePasswordRequest) error {
	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperrors.ErrCurrentValueMismatch
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{"password": hash}); err != nil {
		return handleUserError(err)
	}

	logger.CtxInfo(ctx, "Password updated", "user_id", user.ID)
	return nil
}

func (s *userService) UpdateEmail(ctx context.Context, db *gorm.DB, user *models.User, req *dto.UpdateEmailRequest) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if !s.codeService.Revoke(ctx, tx, req.Code) {
		return apperrors.ErrCodeNotFound
	}
	if !strings.EqualFold(req.CurrentEmail, user.Email) {
		return apperrors.ErrCurrentValueMismatch
	}

	taken, err := s.userRepo.ExistsByEmailExcept(tx, req.NewEmail, user.ID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if taken {
		return apperrors.ErrUserAlreadyExists
	}

	if err := s.userRepo.UpdateFields(tx, user.ID, map[string]interface{}{"email": req.NewEmail}); err != nil {
		return txError(ctx, handleUserError(err), "user", apperrors.TagNotUpdate)
	}
	if err := tx.Commit().Error; err != nil {
		return txError(ctx, err, "user", apperrors.TagNotUpdate)
	}

	logger.CtxInfo(ctx, "Email updated", "user_id", user.ID)
	return nil
}

func (s *userService) UpdateMobilePhone(ctx context.Context, db *gorm.DB, user *models.User, req *dto.UpdateMobilePhoneRequest) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if !s.codeService.Revoke(ctx, tx, req.Code) {
		return apperrors.ErrCodeNotFound
	}
	if req.CurrentMobilePhone != user.Phone() {
		return apperrors.ErrCurrentValueMismatch
	}

	taken, err := s.userRepo.ExistsByPhoneExcept(tx, req.NewMobilePhone, user.ID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if taken {
		return apperrors.ErrUserAlreadyExists
	}

	fields := map[string]interface{}{
		"mobile_phone": req.NewMobilePhone,
		"is_confirmed": true,
	}
	if err := s.userRepo.UpdateFields(tx, user.ID, fields); err != nil {
		return txError(ctx, handleUserError(err), "user", apperrors.TagNotUpdate)
	}
	if err := tx.Commit().Error; err != nil {
		return txError(ctx, err, "user", apperrors.TagNotUpdate)
	}

	logger.CtxInfo(ctx, "Mobile phone updated", "user_id", user.ID)
	return nil
}

func (s *userService) Logout(ctx context.Context, db *gorm.DB, user *models.User) error {
	return s.tokenService.Revoke(ctx, db, user.ID)
}
