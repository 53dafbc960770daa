package dao

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Govind-619/CoinSphere/models"
	"github.com/Govind-619/CoinSphere/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestWalletDAO_DebitIsGuarded(t *testing.T) {
	db := testutil.NewDB(t)
	wallet := testutil.CreateWallet(t, db, "alice", 30)
	wallets := NewWalletDAO(db)

	require.NoError(t, wallets.Debit(wallet.ID, 30))
	assert.ErrorIs(t, wallets.Debit(wallet.ID, 1), ErrInsufficientBalance)

	fresh := testutil.Reload(t, db, wallet)
	assert.Equal(t, int64(0), fresh.Balance)
	assert.Equal(t, int64(30), fresh.TotalSent)
}

func TestWalletDAO_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	db := testutil.NewFileDB(t, 4)
	wallet := testutil.CreateWallet(t, db, "alice", 100)
	wallets := NewWalletDAO(db)

	const workers = 8
	var (
		wg        sync.WaitGroup
		start     = make(chan struct{})
		succeeded int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := wallets.Debit(wallet.ID, 30)
			if err == nil {
				atomic.AddInt32(&succeeded, 1)
				return
			}
			assert.ErrorIs(t, err, ErrInsufficientBalance)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(3), atomic.LoadInt32(&succeeded))
	fresh := testutil.Reload(t, db, wallet)
	assert.Equal(t, int64(10), fresh.Balance)
	assert.Equal(t, int64(90), fresh.TotalSent)
}

func TestWalletDAO_CreditCounters(t *testing.T) {
	db := testutil.NewDB(t)
	wallet := testutil.CreateWallet(t, db, "alice", 0)
	wallets := NewWalletDAO(db)

	require.NoError(t, wallets.Credit(wallet.ID, 5, "total_received"))
	require.NoError(t, wallets.Credit(wallet.ID, 2, "total_mined"))
	assert.ErrorIs(t, wallets.Credit("missing", 1, "total_received"), gorm.ErrRecordNotFound)

	fresh := testutil.Reload(t, db, wallet)
	assert.Equal(t, int64(7), fresh.Balance)
	assert.Equal(t, int64(5), fresh.TotalReceived)
	assert.Equal(t, int64(2), fresh.TotalMined)
}

func TestApprovalDAO_ConsumeOnce(t *testing.T) {
	db := testutil.NewDB(t)
	approvals := NewApprovalDAO(db)
	now := time.Now()

	approval := &models.LargeTransactionApproval{
		FromWalletID: "w-from",
		ToWalletID:   "w-to",
		Amount:       100000,
		OTPCode:      "123456",
		OTPExpiresAt: now.Add(10 * time.Minute),
		Status:       models.ApprovalStatusPending,
	}
	require.NoError(t, approvals.Create(approval))

	assert.ErrorIs(t, approvals.Consume(approval.ID, "w-from", "w-to", 100000, "tx-0", now), ErrGuardFailed)

	require.NoError(t, approvals.Resolve(approval.ID, models.ApprovalStatusApproved, 1, now))
	assert.ErrorIs(t, approvals.Resolve(approval.ID, models.ApprovalStatusRejected, 1, now), ErrGuardFailed)

	assert.ErrorIs(t, approvals.Consume(approval.ID, "w-from", "w-to", 99999, "tx-1", now), ErrGuardFailed)
	assert.ErrorIs(t, approvals.Consume(approval.ID, "w-from", "w-to", 100000, "tx-1", now.Add(time.Hour)), ErrGuardFailed)
	require.NoError(t, approvals.Consume(approval.ID, "w-from", "w-to", 100000, "tx-1", now))
	assert.ErrorIs(t, approvals.Consume(approval.ID, "w-from", "w-to", 100000, "tx-2", now), ErrGuardFailed)

	stored, err := approvals.GetByID(approval.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.TransactionID)
	assert.Equal(t, "tx-1", *stored.TransactionID)
}
