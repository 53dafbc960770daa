package dao

import (
	"github.com/Govind-619/CoinSphere/models"
	"gorm.io/gorm"
)

// TopupDAO handles Razorpay top-up orders
type TopupDAO struct {
	db *gorm.DB
}

func NewTopupDAO(db *gorm.DB) *TopupDAO {
	return &TopupDAO{db: db}
}

func (d *TopupDAO) Create(order *models.WalletTopupOrder) error {
	return d.db.Create(order).Error
}

// GetForUser retrieves a user's order by its Razorpay order id
func (d *TopupDAO) GetForUser(userID uint, razorpayOrderID string) (*models.WalletTopupOrder, error) {
	var order models.WalletTopupOrder
	err := d.db.Where("razorpay_order_id = ? AND user_id = ?", razorpayOrderID, userID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Complete marks a pending order as paid. ErrGuardFailed means it was not pending any more.
func (d *TopupDAO) Complete(id uint, paymentID string) error {
	result := d.db.Model(&models.WalletTopupOrder{}).
		Where("id = ? AND status = ?", id, models.TopupStatusPending).
		Updates(map[string]interface{}{
			"status":     models.TopupStatusCompleted,
			"payment_id": paymentID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGuardFailed
	}
	return nil
}
