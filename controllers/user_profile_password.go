package controllers

import (
	"github.com/Govind-619/CoinSphere/services"
	"github.com/Govind-619/CoinSphere/utils"
	"github.com/gin-gonic/gin"
)

// ChangePasswordRequest represents the password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ProfileController serves account settings of the signed-in user
type ProfileController struct {
	auth *services.AuthService
}

func NewProfileController(auth *services.AuthService) *ProfileController {
	return &ProfileController{auth: auth}
}

// ChangePassword handles password changes
func (ctl *ProfileController) ChangePassword(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid password change request for user %d: %v", caller.UserID, err)
		utils.BadRequest(c, "Invalid request format")
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		utils.BadRequest(c, "New password and confirm password do not match")
		return
	}

	if err := ctl.auth.ChangePassword(c.Request.Context(), caller, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, "Password changed successfully", gin.H{
		"redirect": gin.H{
			"url":     "/login",
			"message": "Please login again with your new password",
		},
	})
}
