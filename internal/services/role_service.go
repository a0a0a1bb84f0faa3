package services

import (
	"context"
	"errors"
	"strings"

	"onversed_backend/internal/logger"
	"onversed_backend/internal/models"
	"onversed_backend/internal/repositories"
	"onversed_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type RoleService interface {
	GetRoles(ctx context.Context, db *gorm.DB) ([]models.Role, error)
	CreateRole(ctx context.Context, db *gorm.DB, name string) (*models.Role, error)
}

type roleService struct {
	roleRepo repositories.RoleRepository
}

func NewRoleService(roleRepo repositories.RoleRepository) RoleService {
	return &roleService{roleRepo: roleRepo}
}

func (s *roleService) GetRoles(ctx context.Context, db *gorm.DB) ([]models.Role, error) {
	roles, err := s.roleRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return roles, nil
}

func (s *roleService) CreateRole(ctx context.Context, db *gorm.DB, name string) (*models.Role, error) {
	role := &models.Role{Name: strings.TrimSpace(name)}
	if err := s.roleRepo.Create(db, role); err != nil {
		if errors.Is(err, repositories.ErrRoleAlreadyExists) {
			return nil, apperrors.ErrRoleAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Role created", "role_id", role.ID, "name", role.Name)
	return role, nil
}
