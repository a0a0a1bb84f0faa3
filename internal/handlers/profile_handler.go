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

// avatarPart - имя файловой части для аватара и обложки коллекции
const avatarPart = "image"

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	profiles := rg.Group("/profiles")
	{
		profiles.GET("/teams", h.GetTeams)
		profiles.PUT("/customer", middleware.RequireRoles(auth.RoleCustomer), h.UpdateCustomerProfile)
		profiles.PUT("/employee", middleware.RequireRoles(auth.RoleCustomer), h.UpdateEmployeeProfile)
		profiles.POST("/avatar", h.UploadAvatar)
	}
}

func (h *ProfileHandler) GetTeams(c *gin.Context) {
	profile, ok := h.CurrentProfile(c)
	if !ok {
		return
	}

	team, err := h.profileService.GetTeams(c.Request.Context(), h.GetDB(c), profile)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}

func (h *ProfileHandler) UpdateCustomerProfile(c *gin.Context) {
	profile, ok := h.CurrentProfile(c)
	if !ok {
		return
	}

	var req dto.UpdateCustomerProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.profileService.UpdateCustomerProfile(c.Request.Context(), h.GetDB(c), profile, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondSuccess(c)
}

func (h *ProfileHandler) UpdateEmployeeProfile(c *gin.Context) {
	profile, ok := h.CurrentProfile(c)
	if !ok {
		return
	}

	var req dto.UpdateEmployeeProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.profileService.UpdateEmployeeProfile(c.Request.Context(), h.GetDB(c), profile, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondSuccess(c)
}

func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	profile, ok := h.CurrentProfile(c)
	if !ok {
		return
	}

	fh, err := c.FormFile(avatarPart)
	if err != nil {
		h.HandleServiceError(c, apperrors.ValidationError(map[string]string{avatarPart: string(apperrors.TagRequired)}))
		return
	}

	resp, err := h.profileService.UploadAvatar(c.Request.Context(), h.GetDB(c), profile, fileUpload(avatarPart, fh))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
