package handlers

import (
	"net/http"

	"onversed_backend/internal/auth"
	"onversed_backend/internal/middleware"
	"onversed_backend/internal/services"
	"onversed_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	*BaseHandler
	roleService services.RoleService
}

func NewRoleHandler(base *BaseHandler, roleService services.RoleService) *RoleHandler {
	return &RoleHandler{
		BaseHandler: base,
		roleService: roleService,
	}
}

func (h *RoleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	roles := rg.Group("/roles")
	{
		roles.GET("", h.GetRoles)
		roles.POST("", middleware.RequireRoles(auth.RoleCustomer), h.CreateRole)
	}
}

func (h *RoleHandler) GetRoles(c *gin.Context) {
	roles, err := h.roleService.GetRoles(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, roles)
}

func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req dto.CreateRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), h.GetDB(c), req.Name)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, role)
}
