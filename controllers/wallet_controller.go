package controllers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/Govind-619/CoinSphere/services"
	"github.com/Govind-619/CoinSphere/utils"
	"github.com/gin-gonic/gin"
)

// maxTransferAmount keeps float64 request amounts exactly representable as integers
const maxTransferAmount = 1 << 53

// WalletController serves the caller's wallet, transfers and approvals
type WalletController struct {
	wallets   *services.WalletService
	transfers *services.TransferService
	approvals *services.ApprovalService
	reports   *services.ReportService
}

func NewWalletController(wallets *services.WalletService, transfers *services.TransferService,
	approvals *services.ApprovalService, reports *services.ReportService) *WalletController {
	return &WalletController{wallets: wallets, transfers: transfers, approvals: approvals, reports: reports}
}

// CreateWalletRequest represents the create wallet request body
type CreateWalletRequest struct {
	Username string `json:"username" binding:"required"`
}

// TransferRequest represents the transfer request body
type TransferRequest struct {
	RecipientUsername string  `json:"recipientUsername" binding:"required"`
	Amount            float64 `json:"amount"`
	ApprovalID        string  `json:"approvalId"`
}

// CreateWallet opens a wallet for the caller
func (ctl *WalletController) CreateWallet(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid create wallet request for user %d: %v", caller.UserID, err)
		utils.BadRequest(c, "Username is required")
		return
	}

	wallet, err := ctl.wallets.CreateWallet(c.Request.Context(), caller, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "Wallet created successfully", gin.H{"wallet": wallet})
}

// GetWallet returns the caller's wallet
func (ctl *WalletController) GetWallet(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	wallet, err := ctl.wallets.GetWallet(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, "Wallet retrieved successfully", gin.H{"wallet": wallet})
}

// GetTransactions returns a page of the caller's ledger entries
func (ctl *WalletController) GetTransactions(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	p := utils.NewPagination(c)
	records, err := ctl.wallets.History(c.Request.Context(), caller, p)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, "Transactions retrieved successfully", records, p)
}

// SearchWallets looks up recipients by handle
func (ctl *WalletController) SearchWallets(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	wallets, err := ctl.wallets.SearchWallets(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]gin.H, 0, len(wallets))
	for _, w := range wallets {
		results = append(results, gin.H{"id": w.ID, "username": w.Username})
	}
	utils.Success(c, "Wallets retrieved successfully", gin.H{"wallets": results})
}

// Transfer sends tokens to another wallet, or opens an approval request for large amounts
func (ctl *WalletController) Transfer(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid transfer request for user %d: %v", caller.UserID, err)
		utils.BadRequest(c, "Invalid request parameters")
		return
	}
	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount <= 0 ||
		req.Amount != math.Trunc(req.Amount) || req.Amount > maxTransferAmount {
		utils.BadRequest(c, "Amount must be a positive whole number")
		return
	}

	result, err := ctl.transfers.Transfer(c.Request.Context(), caller, services.TransferInput{
		RecipientHandle: req.RecipientUsername,
		Amount:          int64(req.Amount),
		ApprovalID:      req.ApprovalID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Status == services.TransferStatusApprovalRequired {
		c.JSON(http.StatusOK, gin.H{
			"requiresApproval": true,
			"approvalId":       result.ApprovalID,
			"message":          utils.MsgApprovalNeeded,
		})
		return
	}

	recipient, _ := utils.NormalizeHandle(req.RecipientUsername)
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       fmt.Sprintf("Successfully sent %d %s to %s", int64(req.Amount), utils.TokenSymbol, recipient),
		"newBalance":    result.NewBalance,
		"transactionId": result.TransactionID,
	})
}

// GetApproval returns one of the caller's approval requests
func (ctl *WalletController) GetApproval(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	approval, err := ctl.approvals.GetApprovalForCaller(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, "Approval retrieved successfully", gin.H{"approval": approval})
}

// DownloadStatement returns the caller's wallet statement as a PDF
func (ctl *WalletController) DownloadStatement(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	pdf, err := ctl.reports.StatementPDF(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=wallet_statement.pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
