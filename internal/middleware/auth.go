package middleware

import (
	"context"
	"strings"

	"onversed_backend/internal/auth"
	"onversed_backend/internal/logger"
	"onversed_backend/internal/models"
	"onversed_backend/pkg/apperrors"
	"onversed_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Authenticator - проверка access-токена (AuthenticationService)
type Authenticator interface {
	Authenticate(ctx context.Context, db *gorm.DB, accessToken string) (*models.User, *models.Profile, error)
}

// AuthGuard проверяет Bearer-токен и кладет пользователя и профиль в контекст.
// Должен идти после DBMiddleware.
func AuthGuard(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		db, ok := c.Get(string(contextkeys.DBContextKey))
		if !ok {
			apperrors.HandleError(c, apperrors.InternalError(nil))
			return
		}

		user, profile, err := authenticator.Authenticate(c.Request.Context(), db.(*gorm.DB), tokenStr)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		ctx := logger.WithUserID(c.Request.Context(), user.ID)
		if profile != nil {
			ctx = logger.WithCompanyID(ctx, profile.CompanyID)
		}
		ctx = context.WithValue(ctx, contextkeys.UserContextKey, user)
		ctx = context.WithValue(ctx, contextkeys.ProfileContextKey, profile)
		c.Request = c.Request.WithContext(ctx)

		c.Set(string(contextkeys.UserContextKey), user)
		c.Set(string(contextkeys.ProfileContextKey), profile)
		c.Next()
	}
}

// RequireRoles пропускает профиль хотя бы с одной из ролей (включая CUSTOMER и STAFF)
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := GetProfile(c)
		if profile == nil {
			apperrors.HandleError(c, apperrors.ErrNoProfile)
			return
		}
		if !auth.HasRole(profile, roles...) {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// GetUser - пользователь, установленный AuthGuard
func GetUser(c *gin.Context) *models.User {
	v, exists := c.Get(string(contextkeys.UserContextKey))
	if !exists {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// GetProfile - профиль текущего пользователя, может быть nil
func GetProfile(c *gin.Context) *models.Profile {
	v, exists := c.Get(string(contextkeys.ProfileContextKey))
	if !exists {
		return nil
	}
	profile, _ := v.(*models.Profile)
	return profile
}
