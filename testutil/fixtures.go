package testutil

import (
	"fmt"
	"testing"

	"github.com/Govind-619/CoinSphere/models"
	"github.com/Govind-619/CoinSphere/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestPassword satisfies the password rules and is used for every fixture account
const TestPassword = "Secret@123"

// CreateUser inserts a user named name with TestPassword
func CreateUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(TestPassword)
	require.NoError(t, err)

	user := &models.User{
		Username:   name,
		Email:      fmt.Sprintf("%s@example.com", name),
		Password:   hash,
		IsVerified: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateWallet inserts a user and a wallet @name holding balance
func CreateWallet(t *testing.T, db *gorm.DB, name string, balance int64) *models.Wallet {
	t.Helper()
	user := CreateUser(t, db, name)
	wallet := &models.Wallet{UserID: user.ID, Username: "@" + name, Balance: balance}
	require.NoError(t, db.Create(wallet).Error)
	return wallet
}

// CreateAdmin inserts an active admin with TestPassword
func CreateAdmin(t *testing.T, db *gorm.DB, email string) *models.Admin {
	t.Helper()
	hash, err := utils.HashPassword(TestPassword)
	require.NoError(t, err)

	admin := &models.Admin{Email: email, Password: hash, IsActive: true}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

// Reload reads the wallet back from the database
func Reload(t *testing.T, db *gorm.DB, wallet *models.Wallet) *models.Wallet {
	t.Helper()
	var fresh models.Wallet
	require.NoError(t, db.Where("id = ?", wallet.ID).First(&fresh).Error)
	return &fresh
}

// CountTransactions counts every ledger entry
func CountTransactions(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.WalletTransaction{}).Count(&n).Error)
	return n
}
