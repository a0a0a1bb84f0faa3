package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"onversed_backend/internal/auth"
	"onversed_backend/internal/imageprocessor"
	"onversed_backend/internal/logger"
	"onversed_backend/internal/models"
	"onversed_backend/internal/repositories"
	"onversed_backend/internal/services/dto"
	"onversed_backend/internal/storage"
	"onversed_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProfileService interface {
	// GetTeams - не-клиентские профили компании вызывающего
	GetTeams(ctx context.Context, db *gorm.DB, caller *models.Profile) ([]dto.TeamMember, error)
	UpdateCustomerProfile(ctx context.Context, db *gorm.DB, caller *models.Profile, req *dto.UpdateCustomerProfileRequest) error

	// UpdateEmployeeProfile правит сотрудника своей компании, найденного по email
	UpdateEmployeeProfile(ctx context.Context, db *gorm.DB, caller *models.Profile, req *dto.UpdateEmployeeProfileRequest) error

	// UploadAvatar уменьшает картинку до 512px и кладет в контейнер avatars
	UploadAvatar(ctx context.Context, db *gorm.DB, caller *models.Profile, file dto.FileUpload) (*dto.AvatarResponse, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
	userRepo    repositories.UserRepository
	roleRepo    repositories.RoleRepository
	store       storage.AssetStore
	processor   *imageprocessor.Processor
	maxSize     int64
}

func NewProfileService(
	profileRepo repositories.ProfileRepository,
	userRepo repositories.UserRepository,
	roleRepo repositories.RoleRepository,
	store storage.AssetStore,
	processor *imageprocessor.Processor,
	uploadCfg UploadConfig,
) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		store:       store,
		processor:   processor,
		maxSize:     uploadCfg.MaxSize,
	}
}

func (s *profileService) GetTeams(ctx context.Context, db *gorm.DB, caller *models.Profile) ([]dto.TeamMember, error) {
	profiles, err := s.profileRepo.FindTeam(db, caller.CompanyID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	team := make([]dto.TeamMember, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		if p.User == nil {
			continue
		}
		member := dto.TeamMember{
			ID:          p.User.ID,
			ProfileID:   p.ID,
			Roles:       auth.ProfileRoles(p),
			Email:       p.User.Email,
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			JobTitle:    p.JobTitle,
			IsActive:    p.User.IsActive,
			MobilePhone: p.User.Phone(),
		}
		if p.Company != nil {
			member.Company = p.Company.Name
		}
		team = append(team, member)
	}
	return team, nil
}

func (s *profileService) UpdateCustomerProfile(ctx context.Context, db *gorm.DB, caller *models.Profile, req *dto.UpdateCustomerProfileRequest) error {
	err := s.profileRepo.UpdateFields(db, caller.ID, map[string]interface{}{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"job_title":  req.JobTitle,
	})
	if err != nil {
		return handleUserError(err)
	}
	return nil
}

func (s *profileService) UpdateEmployeeProfile(ctx context.Context, db *gorm.DB, caller *models.Profile, req *dto.UpdateEmployeeProfileRequest) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	// 1. Сотрудник своей компании
	target, err := s.profileRepo.FindByEmailInCompany(tx, caller.CompanyID, req.Email)
	if err != nil {
		return txError(ctx, handleUserError(err), "profile", apperrors.TagNotUpdate)
	}

	// 2. Роль
	if req.Role != "" {
		role, err := s.roleRepo.FindByID(tx, req.Role)
		if err != nil {
			return txError(ctx, handleUserError(err), "profile", apperrors.TagNotUpdate)
		}
		if err := s.profileRepo.ReplaceRoles(tx, target, []models.Role{*role}); err != nil {
			return txError(ctx, err, "profile", apperrors.TagNotUpdate)
		}
	}

	// 3. Профиль
	err = s.profileRepo.UpdateFields(tx, target.ID, map[string]interface{}{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"job_title":  req.JobTitle,
	})
	if err != nil {
		return txError(ctx, handleUserError(err), "profile", apperrors.TagNotUpdate)
	}

	// 4. Телефон пользователя
	if req.MobilePhone != "" && req.MobilePhone != target.User.Phone() {
		exists, err := s.userRepo.ExistsByPhoneExcept(tx, req.MobilePhone, target.UserID)
		if err != nil {
			return txError(ctx, err, "profile", apperrors.TagNotUpdate)
		}
		if exists {
			return apperrors.ErrUserAlreadyExists
		}
		if err := s.userRepo.UpdateFields(tx, target.UserID, map[string]interface{}{"mobile_phone": req.MobilePhone}); err != nil {
			return txError(ctx, handleUserError(err), "profile", apperrors.TagNotUpdate)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return txError(ctx, err, "profile", apperrors.TagNotUpdate)
	}

	logger.CtxInfo(ctx, "Employee profile updated", "profile_id", target.ID)
	return nil
}

func (s *profileService) UploadAvatar(ctx context.Context, db *gorm.DB, caller *models.Profile, file dto.FileUpload) (*dto.AvatarResponse, error) {
	if s.maxSize > 0 && file.Size > s.maxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	reader, err := file.Open()
	if err != nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("failed to open file %s", file.Filename))
	}
	defer reader.Close()

	img, err := s.processor.Fit(reader, imageprocessor.AvatarMaxSide)
	if err != nil {
		return nil, apperrors.ErrInvalidFileType.WithDetails(map[string]string{"image": err.Error()})
	}

	name := storage.ObjectName(avatarFilename(file.Filename, img.ContentType))
	if _, err := s.store.Upload(ctx, storage.AvatarsContainer, name, img.Data, img.ContentType); err != nil {
		return nil, apperrors.InternalError(err)
	}
	url := s.store.URL(storage.AvatarsContainer, name)

	err = s.profileRepo.UpdateFields(db, caller.ID, map[string]interface{}{
		"avatar_url": url,
		"avatar_id":  name,
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, storage.AvatarsContainer, name); delErr != nil {
			logger.CtxWithError(ctx, "Failed to delete orphaned avatar", delErr, "name", name)
		}
		return nil, handleUserError(err)
	}

	// прежний аватар больше не нужен
	if caller.AvatarID != "" && caller.AvatarID != name {
		if err := s.store.Delete(ctx, storage.AvatarsContainer, caller.AvatarID); err != nil {
			logger.CtxWithError(ctx, "Failed to delete previous avatar", err, "name", caller.AvatarID)
		}
	}

	logger.CtxInfo(ctx, "Avatar uploaded", "profile_id", caller.ID, "width", img.Width, "height", img.Height)
	return &dto.AvatarResponse{AvatarURL: url}, nil
}

// avatarFilename подгоняет расширение под формат после перекодирования
func avatarFilename(filename, contentType string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	if contentType == "image/png" {
		return base + ".png"
	}
	return base + ".jpg"
}
