package routes

import (
	"github.com/Govind-619/CoinSphere/controllers"
	"github.com/Govind-619/CoinSphere/middleware"
	"github.com/Govind-619/CoinSphere/services"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup, svc *services.Services, authCtl *controllers.AuthController) {
	ledgerCtl := controllers.NewAdminLedgerController(svc.Approvals, svc.Mining, svc.Reports)
	userCtl := controllers.NewAdminUserController(svc.Auth, svc.Wallets)

	admin := router.Group("/admin")
	{
		// Public admin routes
		admin.POST("/login", authCtl.AdminLogin)

		// Protected admin routes
		protected := admin.Group("")
		protected.Use(middleware.AdminAuthMiddleware(svc.Auth))
		{
			protected.POST("/logout", authCtl.Logout)

			// Large transaction approvals
			protected.GET("/approvals", ledgerCtl.ListApprovals)
			protected.POST("/approvals/:id/approve", ledgerCtl.ApproveApproval)
			protected.POST("/approvals/:id/reject", ledgerCtl.RejectApproval)

			// Miner requests
			protected.GET("/miner-requests", ledgerCtl.ListMinerRequests)
			protected.POST("/miner-requests/:id/approve", ledgerCtl.ApproveMinerRequest)
			protected.POST("/miner-requests/:id/reject", ledgerCtl.RejectMinerRequest)

			// User management
			protected.GET("/users", userCtl.GetUsers)
			protected.PATCH("/users/:id/block", userCtl.BlockUser)

			// Ledger export
			protected.GET("/transactions/export", ledgerCtl.ExportTransactions)
		}
	}
}
