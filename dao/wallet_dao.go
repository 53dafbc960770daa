package dao

import (
	"github.com/Govind-619/CoinSphere/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletDAO handles wallet rows. Build it on a transaction handle to take part in that transaction.
type WalletDAO struct {
	db *gorm.DB
}

func NewWalletDAO(db *gorm.DB) *WalletDAO {
	return &WalletDAO{db: db}
}

// Create inserts a new wallet with a zero balance
func (d *WalletDAO) Create(wallet *models.Wallet) error {
	return d.db.Create(wallet).Error
}

// GetByID retrieves a wallet by its id
func (d *WalletDAO) GetByID(id string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := d.db.Where("id = ?", id).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// GetByUserID retrieves the wallet owned by a user
func (d *WalletDAO) GetByUserID(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := d.db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// GetByUserIDForUpdate retrieves the user's wallet and locks its row until the transaction ends.
// d must be built on a transaction.
func (d *WalletDAO) GetByUserIDForUpdate(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := d.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// GetByHandle retrieves a wallet by its normalised @handle
func (d *WalletDAO) GetByHandle(handle string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := d.db.Where("username = ?", handle).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Search returns wallets whose handle contains the fragment
func (d *WalletDAO) Search(fragment string, limit int) ([]models.Wallet, error) {
	var wallets []models.Wallet
	err := d.db.Where("username LIKE ?", "%"+fragment+"%").
		Order("username ASC").
		Limit(limit).
		Find(&wallets).Error
	return wallets, err
}

// Debit subtracts amount from the wallet and adds it to total_sent, but only while the balance covers it.
func (d *WalletDAO) Debit(id string, amount int64) error {
	result := d.db.Model(&models.Wallet{}).
		Where("id = ? AND balance >= ?", id, amount).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance - ?", amount),
			"total_sent": gorm.Expr("total_sent + ?", amount),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// Credit adds amount to the balance and to the given counter column (total_received or total_mined)
func (d *WalletDAO) Credit(id string, amount int64, counter string) error {
	if counter != "total_received" && counter != "total_mined" {
		counter = "total_received"
	}
	result := d.db.Model(&models.Wallet{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"balance": gorm.Expr("balance + ?", amount),
			counter:   gorm.Expr(counter+" + ?", amount),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetMinerApproved flips the miner capability of the user's wallet
func (d *WalletDAO) SetMinerApproved(userID uint, approved bool) error {
	return d.db.Model(&models.Wallet{}).
		Where("user_id = ?", userID).
		Update("is_miner_approved", approved).Error
}
