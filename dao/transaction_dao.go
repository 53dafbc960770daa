package dao

import (
	"time"

	"github.com/Govind-619/CoinSphere/models"
	"gorm.io/gorm"
)

// TransactionDAO is the append-only ledger. It has no update or delete methods.
type TransactionDAO struct {
	db *gorm.DB
}

func NewTransactionDAO(db *gorm.DB) *TransactionDAO {
	return &TransactionDAO{db: db}
}

// Append writes a new ledger entry
func (d *TransactionDAO) Append(record *models.WalletTransaction) error {
	return d.db.Create(record).Error
}

// ListForWallet returns entries where the wallet is on either side, newest first, with the total count
func (d *TransactionDAO) ListForWallet(walletID string, offset, limit int) ([]models.WalletTransaction, int64, error) {
	var (
		records []models.WalletTransaction
		total   int64
	)
	query := d.db.Model(&models.WalletTransaction{}).
		Where("from_wallet_id = ? OR to_wallet_id = ?", walletID, walletID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&records).Error
	return records, total, err
}

// ListBetween returns every entry created in [from, to), oldest first
func (d *TransactionDAO) ListBetween(from, to time.Time) ([]models.WalletTransaction, error) {
	var records []models.WalletTransaction
	err := d.db.Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

// CountForWallet returns how many entries reference the wallet on either side
func (d *TransactionDAO) CountForWallet(walletID string) (int64, error) {
	var total int64
	err := d.db.Model(&models.WalletTransaction{}).
		Where("from_wallet_id = ? OR to_wallet_id = ?", walletID, walletID).
		Count(&total).Error
	return total, err
}
