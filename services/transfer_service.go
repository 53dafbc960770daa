package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Govind-619/CoinSphere/dao"
	"github.com/Govind-619/CoinSphere/models"
	"github.com/Govind-619/CoinSphere/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transfer outcomes
const (
	TransferStatusCompleted        = "completed"
	TransferStatusApprovalRequired = "approval_required"
)

// TransferInput is a validated transfer request
type TransferInput struct {
	RecipientHandle string
	Amount          int64
	ApprovalID      string
}

// TransferResult describes what a transfer call did
type TransferResult struct {
	Status        string `json:"status"`
	ApprovalID    string `json:"approval_id,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	NewBalance    int64  `json:"new_balance"`
}

// TransferService moves tokens between wallets
type TransferService struct {
	db        *gorm.DB
	approvals *ApprovalService
	threshold int64
}

func NewTransferService(db *gorm.DB, approvals *ApprovalService, threshold int64) *TransferService {
	return &TransferService{db: db, approvals: approvals, threshold: threshold}
}

// Transfer sends in.Amount from the caller's wallet to the wallet named by in.RecipientHandle.
// Amounts at or above the threshold need an approved, unexpired approval id; without one a pending
// approval is created and nothing moves. Debit, credit, approval consumption and the ledger entry
// commit together or not at all.
func (s *TransferService) Transfer(ctx context.Context, caller Caller, in TransferInput) (*TransferResult, error) {
	if in.Amount <= 0 {
		return nil, validationError("Amount must be a positive whole number")
	}

	db := s.db.WithContext(ctx)
	wallets := dao.NewWalletDAO(db)

	sender, err := wallets.GetByUserID(caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Sender wallet not found")
		}
		return nil, err
	}
	if sender.Balance < in.Amount {
		return nil, insufficientFundsError()
	}

	recipient, err := s.findRecipient(wallets, in.RecipientHandle)
	if err != nil {
		return nil, err
	}
	if sender.ID == recipient.ID {
		return nil, validationError("Cannot send to yourself")
	}

	if in.Amount >= s.threshold && in.ApprovalID == "" {
		approval, err := s.approvals.CreateApproval(ctx, sender, recipient, in.Amount)
		if err != nil {
			return nil, err
		}
		return &TransferResult{
			Status:     TransferStatusApprovalRequired,
			ApprovalID: approval.ID,
			NewBalance: sender.Balance,
		}, nil
	}

	transactionID := uuid.NewString()
	var newBalance int64
	err = db.Transaction(func(tx *gorm.DB) error {
		if in.ApprovalID != "" {
			if err := s.approvals.consume(tx, in.ApprovalID, sender, recipient, in.Amount, transactionID); err != nil {
				return err
			}
		}

		txWallets := dao.NewWalletDAO(tx)
		if err := txWallets.Debit(sender.ID, in.Amount); err != nil {
			if errors.Is(err, dao.ErrInsufficientBalance) {
				return insufficientFundsError()
			}
			return err
		}
		if err := txWallets.Credit(recipient.ID, in.Amount, "total_received"); err != nil {
			return fmt.Errorf("credit recipient %s: %w", recipient.ID, err)
		}

		record := &models.WalletTransaction{
			ID:              transactionID,
			FromWalletID:    &sender.ID,
			ToWalletID:      &recipient.ID,
			Amount:          in.Amount,
			TransactionType: models.TransactionTypeTransfer,
			Status:          models.TransactionStatusCompleted,
			Description:     fmt.Sprintf("Transfer to %s", recipient.Username),
			Reference:       in.ApprovalID,
			IPAddress:       caller.IPAddress,
			DeviceInfo:      caller.UserAgent,
		}
		if err := dao.NewTransactionDAO(tx).Append(record); err != nil {
			return err
		}

		updated, err := txWallets.GetByID(sender.ID)
		if err != nil {
			return err
		}
		newBalance = updated.Balance
		return nil
	})
	if err != nil {
		if !utils.IsAppError(err) {
			utils.LogError("Transfer %s -> %s of %d failed: %v", sender.ID, recipient.ID, in.Amount, err)
		}
		return nil, err
	}

	utils.LogAudit(models.TransactionTypeTransfer, sender.ID, recipient.ID, in.Amount, transactionID)
	return &TransferResult{
		Status:        TransferStatusCompleted,
		TransactionID: transactionID,
		NewBalance:    newBalance,
	}, nil
}

func (s *TransferService) findRecipient(wallets *dao.WalletDAO, handle string) (*models.Wallet, error) {
	normalized, ok := utils.NormalizeHandle(handle)
	if !ok {
		return nil, notFoundError("Recipient wallet not found")
	}
	recipient, err := wallets.GetByHandle(normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Recipient wallet not found")
		}
		return nil, err
	}
	return recipient, nil
}
