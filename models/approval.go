package models

import (
	"time"

	"gorm.io/gorm"
)

// LargeTransactionApproval gates a transfer at or above the large-transaction threshold.
// TransactionID is filled in when an approved request is spent, which makes it single-use.
type LargeTransactionApproval struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	FromWalletID  string     `gorm:"index;not null;size:36" json:"from_wallet_id"`
	ToWalletID    string     `gorm:"not null;size:36" json:"to_wallet_id"`
	Amount        int64      `gorm:"not null" json:"amount"`
	OTPCode       string     `gorm:"size:6" json:"-"`
	OTPExpiresAt  time.Time  `gorm:"not null" json:"otp_expires_at"`
	Status        string     `gorm:"index;not null;size:16" json:"status"`
	ApprovedBy    *uint      `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	TransactionID *string    `gorm:"size:36" json:"transaction_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (a *LargeTransactionApproval) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}

// Approval status constants
const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
	ApprovalStatusExpired  = "expired"
)
