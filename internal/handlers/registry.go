package handlers

import (
	"onversed_backend/internal/services"
	"onversed_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	HealthHandler     *HealthHandler
	AuthHandler       *AuthHandler
	UserHandler       *UserHandler
	ProfileHandler    *ProfileHandler
	RoleHandler       *RoleHandler
	ItemHandler       *ItemHandler
	CollectionHandler *CollectionHandler
	ActivityHandler   *ActivityHandler
	TableValueHandler *TableValueHandler
}

// NewAppHandlers: authLimiter - rate limit для маршрутов, отправляющих коды
func NewAppHandlers(svc *services.ServiceContainer, v *validator.Validator, authLimiter gin.HandlerFunc) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		HealthHandler:     NewHealthHandler(base),
		AuthHandler:       NewAuthHandler(base, svc.AuthService, svc.CustomerService, authLimiter),
		UserHandler:       NewUserHandler(base, svc.UserService, svc.CustomerService, svc.EmployeeService),
		ProfileHandler:    NewProfileHandler(base, svc.ProfileService),
		RoleHandler:       NewRoleHandler(base, svc.RoleService),
		ItemHandler:       NewItemHandler(base, svc.ItemService),
		CollectionHandler: NewCollectionHandler(base, svc.CollectionService),
		ActivityHandler:   NewActivityHandler(base, svc.ActivityService),
		TableValueHandler: NewTableValueHandler(base, svc.TableValueService),
	}
}
