package dao

import (
	"time"

	"github.com/Govind-619/CoinSphere/models"
	"gorm.io/gorm"
)

// ApprovalDAO handles large-transaction approval requests
type ApprovalDAO struct {
	db *gorm.DB
}

func NewApprovalDAO(db *gorm.DB) *ApprovalDAO {
	return &ApprovalDAO{db: db}
}

func (d *ApprovalDAO) Create(approval *models.LargeTransactionApproval) error {
	return d.db.Create(approval).Error
}

func (d *ApprovalDAO) GetByID(id string) (*models.LargeTransactionApproval, error) {
	var approval models.LargeTransactionApproval
	if err := d.db.Where("id = ?", id).First(&approval).Error; err != nil {
		return nil, err
	}
	return &approval, nil
}

// ListByStatus returns requests in the given status, oldest first, with the total count
func (d *ApprovalDAO) ListByStatus(status string, offset, limit int) ([]models.LargeTransactionApproval, int64, error) {
	var (
		approvals []models.LargeTransactionApproval
		total     int64
	)
	query := d.db.Model(&models.LargeTransactionApproval{}).Where("status = ?", status)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at ASC").Offset(offset).Limit(limit).Find(&approvals).Error
	return approvals, total, err
}

// Resolve moves a pending request to approved or rejected. ErrGuardFailed means it was no longer pending.
func (d *ApprovalDAO) Resolve(id, status string, adminID uint, at time.Time) error {
	result := d.db.Model(&models.LargeTransactionApproval{}).
		Where("id = ? AND status = ?", id, models.ApprovalStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"approved_by": adminID,
			"approved_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGuardFailed
	}
	return nil
}

// ExpirePending marks every pending request whose code expired before now, returning how many changed
func (d *ApprovalDAO) ExpirePending(now time.Time) (int64, error) {
	result := d.db.Model(&models.LargeTransactionApproval{}).
		Where("status = ? AND otp_expires_at <= ?", models.ApprovalStatusPending, now).
		Update("status", models.ApprovalStatusExpired)
	return result.RowsAffected, result.Error
}

// Consume binds an approved, unexpired, unspent request to a transaction. The request must match the
// transfer's sender, recipient and amount. ErrGuardFailed means any of those conditions did not hold.
func (d *ApprovalDAO) Consume(id, fromWalletID, toWalletID string, amount int64, transactionID string, now time.Time) error {
	result := d.db.Model(&models.LargeTransactionApproval{}).
		Where("id = ? AND status = ? AND transaction_id IS NULL AND otp_expires_at > ?",
			id, models.ApprovalStatusApproved, now).
		Where("from_wallet_id = ? AND to_wallet_id = ? AND amount = ?", fromWalletID, toWalletID, amount).
		Update("transaction_id", transactionID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGuardFailed
	}
	return nil
}
