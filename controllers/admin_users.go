package controllers

import (
	"fmt"
	"strconv"

	"github.com/Govind-619/CoinSphere/services"
	"github.com/Govind-619/CoinSphere/utils"
	"github.com/gin-gonic/gin"
)

// AdminUserController lets admins look up and block accounts
type AdminUserController struct {
	auth    *services.AuthService
	wallets *services.WalletService
}

func NewAdminUserController(auth *services.AuthService, wallets *services.WalletService) *AdminUserController {
	return &AdminUserController{auth: auth, wallets: wallets}
}

// GetUsers handles user listing with search, pagination, and sorting
func (ctl *AdminUserController) GetUsers(c *gin.Context) {
	p := utils.NewPagination(c)
	search := c.Query("search")
	sortBy := c.DefaultQuery("sort_by", "created_at")
	order := c.DefaultQuery("order", "desc")
	utils.LogDebug("Listing users - Page: %d, Limit: %d, SortBy: %s, Order: %s", p.Page, p.Limit, sortBy, order)

	users, err := ctl.auth.ListUsers(c.Request.Context(), search, sortBy, order, p)
	if err != nil {
		respondError(c, err)
		return
	}

	// Create clean response without sensitive data
	cleanUsers := make([]gin.H, len(users))
	for i, user := range users {
		cleanUsers[i] = gin.H{
			"id":          user.ID,
			"username":    user.Username,
			"email":       user.Email,
			"first_name":  user.FirstName,
			"last_name":   user.LastName,
			"is_blocked":  user.IsBlocked,
			"is_verified": user.IsVerified,
			"created_at":  user.CreatedAt,
			"last_login":  user.LastLoginAt,
		}
		if wallet, err := ctl.wallets.GetWallet(c.Request.Context(), services.Caller{UserID: user.ID}); err == nil {
			cleanUsers[i]["wallet"] = gin.H{
				"id":                wallet.ID,
				"username":          wallet.Username,
				"balance":           wallet.Balance,
				"is_miner_approved": wallet.IsMinerApproved,
			}
		}
	}

	utils.LogInfo("Successfully retrieved %d users", len(users))
	utils.SuccessWithPagination(c, "Users retrieved successfully", cleanUsers, p)
}

// BlockUser handles blocking/unblocking a user
func (ctl *AdminUserController) BlockUser(c *gin.Context) {
	adminID, ok := adminIDFrom(c)
	if !ok {
		return
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || userID == 0 {
		utils.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := ctl.auth.ToggleBlock(c.Request.Context(), adminID, uint(userID))
	if err != nil {
		respondError(c, err)
		return
	}

	action := "blocked"
	if !user.IsBlocked {
		action = "unblocked"
	}
	utils.Success(c, fmt.Sprintf("User %s successfully", action), gin.H{
		"user": gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"username":   user.Username,
			"is_blocked": user.IsBlocked,
		},
	})
}
