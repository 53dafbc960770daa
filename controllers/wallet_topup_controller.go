package controllers

import (
	"fmt"

	"github.com/Govind-619/CoinSphere/services"
	"github.com/Govind-619/CoinSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TopupController buys tokens through the payment gateway
type TopupController struct {
	topups *services.TopupService
}

func NewTopupController(topups *services.TopupService) *TopupController {
	return &TopupController{topups: topups}
}

// TopupRequest represents the top-up request body; amount is in rupees
type TopupRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// VerifyTopupRequest carries the checkout callback fields
type VerifyTopupRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// InitiateTopup creates a payment order for the requested rupee amount
func (ctl *TopupController) InitiateTopup(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req TopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid top-up request for user %d: %v", caller.UserID, err)
		utils.BadRequest(c, "Invalid request. Amount is required and must be positive")
		return
	}

	order, err := ctl.topups.InitiateTopup(c.Request.Context(), caller, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, "Wallet topup order created successfully", gin.H{
		"razorpay_order_id": order.OrderID,
		"key":               order.Key,
		"amount_paise":      order.AmountPaise,
		"amount_display":    "₹" + decimal.New(order.AmountPaise, -2).StringFixed(2),
		"tokens":            order.Tokens,
		"payment_type":      "wallet_topup",
	})
}

// VerifyTopup verifies the payment and credits the tokens
func (ctl *TopupController) VerifyTopup(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req VerifyTopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid top-up verification for user %d: %v", caller.UserID, err)
		utils.BadRequest(c, "Invalid request")
		return
	}

	record, balance, err := ctl.topups.VerifyTopup(c.Request.Context(), caller,
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, "Tokens added to wallet successfully!", gin.H{
		"tokens_added":     record.Amount,
		"wallet_balance":   balance,
		"transaction_id":   record.ID,
		"transaction_date": record.CreatedAt.Format("2006-01-02 15:04:05"),
		"reference":        record.Reference,
		"summary":          fmt.Sprintf("%d %s credited", record.Amount, utils.TokenSymbol),
	})
}
