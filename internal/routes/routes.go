package routes

import (
	"onversed_backend/internal/handlers"
	"onversed_backend/internal/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes регистрирует все HTTP маршруты.
// authGuard защищает все, кроме /auth, /health и swagger.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	authGuard gin.HandlerFunc,
) {
	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.HealthHandler.RegisterRoutes(api)
		appHandlers.AuthHandler.RegisterRoutes(api)
	}

	protected := api.Group("", authGuard)
	{
		appHandlers.UserHandler.RegisterRoutes(protected)
		appHandlers.ProfileHandler.RegisterRoutes(protected)
		appHandlers.RoleHandler.RegisterRoutes(protected)
		appHandlers.ItemHandler.RegisterRoutes(protected)
		appHandlers.CollectionHandler.RegisterRoutes(protected)
		appHandlers.ActivityHandler.RegisterRoutes(protected)
		appHandlers.TableValueHandler.RegisterRoutes(protected)
	}

	logger.Info("HTTP routes registered", "routes", len(ginRouter.Routes()))
}
