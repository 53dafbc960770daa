package middleware

import (
	"strings"

	"github.com/Govind-619/CoinSphere/models"
	"github.com/Govind-619/CoinSphere/services"
	"github.com/Govind-619/CoinSphere/utils"
	"github.com/gin-gonic/gin"
)

const (
	callerKey = "caller"
	userKey   = "user"
	adminKey  = "admin"
	tokenKey  = "token"
)

// bearerToken extracts the token from an "Authorization: Bearer <token>" header
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || tokenString == "" {
		return "", false
	}
	return tokenString, true
}

// AuthMiddleware resolves the bearer token to a user and stores the Caller for the handlers
func AuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			utils.LogError("Missing or malformed Authorization header")
			utils.Unauthorized(c, "Please login for access")
			c.Abort()
			return
		}

		user, err := auth.AuthenticateUser(c.Request.Context(), tokenString)
		if err != nil {
			utils.RespondAppError(c, err)
			c.Abort()
			return
		}

		c.Set(userKey, *user)
		c.Set(tokenKey, tokenString)
		c.Set(callerKey, services.Caller{
			UserID:    user.ID,
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		utils.LogDebug("User %d authenticated", user.ID)
		c.Next()
	}
}

// AdminAuthMiddleware resolves an admin bearer token and stores the admin for the handlers
func AdminAuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			utils.LogError("Missing or malformed admin Authorization header")
			utils.Unauthorized(c, "Please login for access")
			c.Abort()
			return
		}

		admin, err := auth.AuthenticateAdmin(c.Request.Context(), tokenString)
		if err != nil {
			utils.RespondAppError(c, err)
			c.Abort()
			return
		}

		c.Set(adminKey, *admin)
		c.Set(tokenKey, tokenString)
		utils.LogDebug("Admin %d authenticated", admin.ID)
		c.Next()
	}
}

// GetCaller returns the Caller stored by AuthMiddleware
func GetCaller(c *gin.Context) (services.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return services.Caller{}, false
	}
	caller, ok := v.(services.Caller)
	return caller, ok
}

// GetUser returns the user stored by AuthMiddleware
func GetUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

// GetAdmin returns the admin stored by AdminAuthMiddleware
func GetAdmin(c *gin.Context) (models.Admin, bool) {
	v, ok := c.Get(adminKey)
	if !ok {
		return models.Admin{}, false
	}
	admin, ok := v.(models.Admin)
	return admin, ok
}

// GetToken returns the raw bearer token of the request
func GetToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
