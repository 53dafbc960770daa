package routes

import (
	"github.com/Govind-619/CoinSphere/controllers"
	"github.com/Govind-619/CoinSphere/middleware"
	"github.com/Govind-619/CoinSphere/services"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes all user-related routes
func initUserRoutes(router *gin.RouterGroup, svc *services.Services, authCtl *controllers.AuthController) {
	// Public routes
	router.POST("/register", authCtl.Register)
	router.POST("/login", authCtl.Login)

	walletCtl := controllers.NewWalletController(svc.Wallets, svc.Transfers, svc.Approvals, svc.Reports)
	miningCtl := controllers.NewMiningController(svc.Mining)
	topupCtl := controllers.NewTopupController(svc.Topups)
	profileCtl := controllers.NewProfileController(svc.Auth)

	// Protected routes
	user := router.Group("/user")
	user.Use(middleware.AuthMiddleware(svc.Auth))
	{
		user.POST("/logout", authCtl.Logout)
		user.PUT("/password", profileCtl.ChangePassword)

		// Wallet
		user.POST("/wallet", walletCtl.CreateWallet)
		user.GET("/wallet", walletCtl.GetWallet)
		user.GET("/wallet/transactions", walletCtl.GetTransactions)
		user.GET("/wallet/search", walletCtl.SearchWallets)
		user.GET("/wallet/statement", walletCtl.DownloadStatement)
		user.POST("/wallet/transfer", walletCtl.Transfer)
		user.GET("/wallet/approvals/:id", walletCtl.GetApproval)

		// Wallet top-up
		user.POST("/wallet/topup", topupCtl.InitiateTopup)
		user.POST("/wallet/topup/verify", topupCtl.VerifyTopup)

		// Mining
		user.POST("/mining/units", miningCtl.RecordUnit)
		user.GET("/mining/session", miningCtl.GetSession)
		user.POST("/mining/request", miningCtl.RequestMinerAccess)
	}
}
