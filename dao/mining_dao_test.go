package dao

import (
	"testing"
	"time"

	"github.com/Govind-619/CoinSphere/models"
	"github.com/Govind-619/CoinSphere/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMiningSession_OneActivePerUser(t *testing.T) {
	db := testutil.NewDB(t)
	wallet := testutil.CreateWallet(t, db, "miner", 0)
	other := testutil.CreateWallet(t, db, "other", 0)
	mining := NewMiningDAO(db)
	now := time.Now()

	first := &models.MiningSession{UserID: wallet.UserID, WalletID: wallet.ID, IsActive: true, SessionStart: now}
	require.NoError(t, mining.CreateSession(first))

	second := &models.MiningSession{UserID: wallet.UserID, WalletID: wallet.ID, IsActive: true, SessionStart: now}
	assert.Error(t, mining.CreateSession(second))

	require.NoError(t, mining.CreateSession(&models.MiningSession{
		UserID: other.UserID, WalletID: other.ID, IsActive: true, SessionStart: now,
	}))

	// closing the session frees the slot
	require.NoError(t, db.Model(first).Updates(map[string]interface{}{"is_active": false, "session_end": now}).Error)
	third := &models.MiningSession{UserID: wallet.UserID, WalletID: wallet.ID, IsActive: true, SessionStart: now}
	require.NoError(t, mining.CreateSession(third))

	active, err := mining.ActiveSession(wallet.UserID)
	require.NoError(t, err)
	assert.Equal(t, third.ID, active.ID)

	var count int64
	require.NoError(t, db.Model(&models.MiningSession{}).Where("user_id = ?", wallet.UserID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestMiningDAO_AdvanceSessionIsCompareAndSet(t *testing.T) {
	db := testutil.NewDB(t)
	wallet := testutil.CreateWallet(t, db, "miner", 0)
	mining := NewMiningDAO(db)

	session := &models.MiningSession{UserID: wallet.UserID, WalletID: wallet.ID, IsActive: true, SessionStart: time.Now()}
	require.NoError(t, mining.CreateSession(session))

	require.NoError(t, mining.AdvanceSession(session.ID, 0, 1, 0))
	assert.ErrorIs(t, mining.AdvanceSession(session.ID, 0, 1, 0), ErrGuardFailed)

	fresh, err := mining.ActiveSession(wallet.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh.UnitsCompleted)
}

func TestWalletDAO_GetByUserIDForUpdate(t *testing.T) {
	db := testutil.NewDB(t)
	wallet := testutil.CreateWallet(t, db, "alice", 12)

	err := db.Transaction(func(tx *gorm.DB) error {
		locked, err := NewWalletDAO(tx).GetByUserIDForUpdate(wallet.UserID)
		if err != nil {
			return err
		}
		assert.Equal(t, wallet.ID, locked.ID)
		assert.Equal(t, int64(12), locked.Balance)
		return nil
	})
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := NewWalletDAO(tx).GetByUserIDForUpdate(wallet.UserID + 100)
		return err
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
