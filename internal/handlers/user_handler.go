package handlers

import (
	"net/http"

	"onversed_backend/internal/auth"
	"onversed_backend/internal/middleware"
	"onversed_backend/internal/services"
	"onversed_backend/internal/services/dto"
	"onversed_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService     services.UserService
	customerService services.CustomerService
	employeeService services.EmployeeService
}

func NewUserHandler(
	base *BaseHandler,
	userService services.UserService,
	customerService services.CustomerService,
	employeeService services.EmployeeService,
) *UserHandler {
	return &UserHandler{
		BaseHandler:     base,
		userService:     userService,
		customerService: customerService,
		employeeService: employeeService,
	}
}

// RegisterRoutes: rg уже защищена AuthGuard
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("/me", h.Me)
		users.DELETE("/me", h.RemoveCustomer)
		users.POST("/logout", h.Logout)
		users.POST("/check-password", h.CheckPassword)
		users.PUT("/password", h.UpdatePassword)
		users.PUT("/email", h.UpdateEmail)
		users.PUT("/mobile-phone", h.UpdateMobilePhone)

		employees := users.Group("/employees", middleware.RequireRoles(auth.RoleCustomer))
		employees.POST("", h.CreateEmployee)
		employees.DELETE("/:id", h.RemoveEmployee)
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.userService.Me(c.Request.Context(), user, middleware.GetProfile(c)))
}

func (h *UserHandler) Logout(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	if err := h.userService.Logout(c.Request.Context(), h.GetDB(c), user); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondSuccess(c)
}

func (h *UserHandler) CheckPassword(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.PasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Success: h.userService.CheckPassword(c.Request.Context(), user, req.Password),
	})
}

func (h *UserHandler) UpdatePassword(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.UpdatePasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.userService.UpdatePassword(c.Request.Context(), h.GetDB(c), user, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondSuccess(c)
}

func (h *UserHandler) UpdateEmail(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateEmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.userService.UpdateEmail(c.Request.Context(), h.GetDB(c), user, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondSuccess(c)
}

func (h *UserHandler) UpdateMobilePhone(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateMobilePhoneRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.userService.UpdateMobilePhone(c.Request.Context(), h.GetDB(c), user, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondSuccess(c)
}

func (h *UserHandler) RemoveCustomer(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.PasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.customerService.RemoveCustomer(c.Request.Context(), h.GetDB(c), user, req.Password); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondSuccess(c)
}

func (h *UserHandler) CreateEmployee(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.CreateEmployeeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.employeeService.CreateEmployee(c.Request.Context(), h.GetDB(c), user, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{Success: true})
}

func (h *UserHandler) RemoveEmployee(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	userID := c.Param("id")
	if err := validateUUIDParam(userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if userID == user.ID {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Use DELETE /users/me to remove your own account"))
		return
	}

	if err := h.employeeService.RemoveEmployee(c.Request.Context(), h.GetDB(c), user, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondSuccess(c)
}
