package controllers

import (
	"github.com/Govind-619/CoinSphere/middleware"
	"github.com/Govind-619/CoinSphere/services"
	"github.com/Govind-619/CoinSphere/utils"
	"github.com/gin-gonic/gin"
)

// respondError writes a service error as {success:false, error}
func respondError(c *gin.Context, err error) {
	utils.RespondAppError(c, err)
}

// callerFrom returns the authenticated Caller or writes a 401
func callerFrom(c *gin.Context) (services.Caller, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		utils.LogError("Caller not found in context")
		utils.Unauthorized(c, "Please login for access")
		return services.Caller{}, false
	}
	return caller, true
}

// adminIDFrom returns the authenticated admin's id or writes a 401
func adminIDFrom(c *gin.Context) (uint, bool) {
	admin, ok := middleware.GetAdmin(c)
	if !ok {
		utils.LogError("Admin not found in context")
		utils.Unauthorized(c, "Please login for access")
		return 0, false
	}
	return admin.ID, true
}
