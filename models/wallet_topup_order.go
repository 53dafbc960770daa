package models

import (
	"time"
)

type WalletTopupOrder struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index" json:"user_id"`
	WalletID        string    `gorm:"size:36" json:"wallet_id"`
	RazorpayOrderID string    `json:"razorpay_order_id" gorm:"uniqueIndex"`
	AmountPaise     int64     `json:"amount_paise"`
	Tokens          int64     `json:"tokens"`
	Status          string    `json:"status"` // pending, completed, failed
	PaymentID       string    `json:"payment_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Top-up order status constants
const (
	TopupStatusPending   = "pending"
	TopupStatusCompleted = "completed"
	TopupStatusFailed    = "failed"
)
