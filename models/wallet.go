package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet represents a user's token balance. Counters only ever grow and are informational;
// Balance is the only spendable figure.
type Wallet struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	UserID          uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Username        string    `gorm:"uniqueIndex;not null;size:32" json:"username"`
	Balance         int64     `gorm:"not null;default:0;check:balance >= 0" json:"balance"`
	TotalSent       int64     `gorm:"not null;default:0" json:"total_sent"`
	TotalReceived   int64     `gorm:"not null;default:0" json:"total_received"`
	TotalMined      int64     `gorm:"not null;default:0" json:"total_mined"`
	IsMinerApproved bool      `gorm:"not null;default:false" json:"is_miner_approved"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	assignID(&w.ID)
	return nil
}

// WalletTransaction is an append-only ledger entry. At least one of FromWalletID and ToWalletID is set.
type WalletTransaction struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	FromWalletID    *string   `gorm:"index;size:36" json:"from_wallet_id"`
	ToWalletID      *string   `gorm:"index;size:36" json:"to_wallet_id"`
	Amount          int64     `gorm:"not null;check:amount > 0" json:"amount"`
	TransactionType string    `gorm:"not null;size:32" json:"transaction_type"`
	Status          string    `gorm:"not null;size:16" json:"status"`
	Description     string    `json:"description"`
	Reference       string    `gorm:"size:128" json:"reference,omitempty"`
	IPAddress       string    `gorm:"size:64" json:"ip_address,omitempty"`
	DeviceInfo      string    `json:"device_info,omitempty"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}

func (t *WalletTransaction) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// TransactionType constants
const (
	TransactionTypeTransfer        = "transfer"
	TransactionTypeMining          = "mining"
	TransactionTypeDeposit         = "deposit"
	TransactionTypeExchange        = "exchange"
	TransactionTypeCampaignPayment = "campaign_payment"
)

// TransactionStatus constants
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)
