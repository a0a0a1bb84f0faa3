package handlers

import (
	"net/http"

	"onversed_backend/internal/services"
	"onversed_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService     services.AuthenticationService
	customerService services.CustomerService
	limiter         gin.HandlerFunc
}

// NewAuthHandler: limiter вешается на маршруты, которые отправляют коды и письма
func NewAuthHandler(base *BaseHandler, authService services.AuthenticationService, customerService services.CustomerService, limiter gin.HandlerFunc) *AuthHandler {
	if limiter == nil {
		limiter = func(c *gin.Context) { c.Next() }
	}
	return &AuthHandler{
		BaseHandler:     base,
		authService:     authService,
		customerService: customerService,
		limiter:         limiter,
	}
}

// RegisterRoutes регистрирует маршруты /api/v1/auth
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/signup", h.limiter, h.SignUp)
		auth.POST("/login/email", h.limiter, h.LoginByEmail)
		auth.POST("/login/mobile-phone", h.limiter, h.LoginByMobilePhone)
		auth.POST("/login/mobile-code", h.limiter, h.LoginByMobileCode)
		auth.POST("/refresh", h.RefreshToken)
		auth.POST("/recover-password", h.limiter, h.RecoverPassword)
		auth.POST("/change-password", h.limiter, h.ChangePassword)
		auth.POST("/email-confirmation", h.EmailConfirmation)
		auth.POST("/email-confirmation/resend", h.limiter, h.ResendEmailConfirmation)
		auth.POST("/sms-confirmation", h.SmsConfirmation)
		auth.POST("/sms-confirmation/resend", h.limiter, h.ResendSmsConfirmation)
	}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	tokens, err := h.customerService.CreateCustomer(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tokens)
}

func (h *AuthHandler) LoginByEmail(c *gin.Context) {
	var req dto.LoginEmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	tokens, err := h.authService.LoginByEmail(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) LoginByMobilePhone(c *gin.Context) {
	var req dto.LoginMobilePhoneRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.LoginByMobilePhone(c.Request.Context(), h.GetDB(c), req.MobilePhone); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondSuccess(c)
}

func (h *AuthHandler) LoginByMobileCode(c *gin.Context) {
	var req dto.LoginMobileCodeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	tokens, err := h.authService.LoginByMobileCode(c.Request.Context(), h.GetDB(c), req.MobilePhone, req.Code)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	tokens, err := h.authService.RefreshToken(c.Request.Context(), h.GetDB(c), req.RefreshToken)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) RecoverPassword(c *gin.Context) {
	var req dto.RecoverPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.RecoverPassword(c.Request.Context(), h.GetDB(c), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondSuccess(c)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), h.GetDB(c), req.Code, req.Password); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondSuccess(c)
}

func (h *AuthHandler) EmailConfirmation(c *gin.Context) {
	var req dto.CodeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	tokens, err := h.authService.EmailConfirmation(c.Request.Context(), h.GetDB(c), req.Code)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) ResendEmailConfirmation(c *gin.Context) {
	var req dto.ResendEmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ResendEmailConfirmation(c.Request.Context(), h.GetDB(c), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondSuccess(c)
}

func (h *AuthHandler) SmsConfirmation(c *gin.Context) {
	var req dto.CodeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	tokens, err := h.authService.SmsConfirmation(c.Request.Context(), h.GetDB(c), req.Code)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) ResendSmsConfirmation(c *gin.Context) {
	var req dto.ResendSmsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ResendSmsConfirmation(c.Request.Context(), h.GetDB(c), req.MobilePhone); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondSuccess(c)
}
