package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/kyc-backend/internal/config"
	"github.com/ignatzorin/kyc-backend/internal/http/handlers"
	"github.com/ignatzorin/kyc-backend/internal/http/middleware"
	"github.com/ignatzorin/kyc-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	kycHandler *handlers.KYCHandler,
	authHandler *handlers.AuthHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	// Регистрация и логин ограничены по частоте
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)

	api.POST("/register", authRateLimit, kycHandler.Register)

	authGroup := api.Group("/auth")
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	// Выпуск токенов и просмотр профиля требуют авторизации
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/tokens", kycHandler.GenerateToken)
		protected.GET("/users/:id", middleware.UUIDValidator("id"), kycHandler.GetUser)
	}

	// Верификация публична: доступ контролируется одноразовым токеном
	api.POST("/verify", kycHandler.Verify)
	api.GET("/verify/ws", wsHandler.Handle)

	return r
}
