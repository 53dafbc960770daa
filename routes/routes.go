package routes

import (
	"net/http"

	"github.com/Govind-619/CoinSphere/config"
	"github.com/Govind-619/CoinSphere/controllers"
	"github.com/Govind-619/CoinSphere/services"
	"github.com/Govind-619/CoinSphere/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(svc *services.Services, cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())
	router.Use(utils.RateLimitMiddleware(utils.NewIPRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)))

	// Session store holds the OAuth state between redirect and callback
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		MaxAge:   60 * 10,
		Path:     "/",
		Secure:   cfg.Env == "production",
		HttpOnly: true,
	})
	router.Use(sessions.Sessions("coinsphere", store))

	authCtl := controllers.NewAuthController(svc.Auth, config.NewGoogleOAuthConfig(cfg))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth routes (for OAuth)
	auth := router.Group("/auth")
	{
		auth.GET("/google/login", authCtl.GoogleLogin)
		auth.GET("/google/callback", authCtl.GoogleCallback)
	}

	// API version group
	api := router.Group("/" + utils.APIVersion)
	{
		initUserRoutes(api, svc, authCtl)
		initAdminRoutes(api, svc, authCtl)
	}

	return router
}
