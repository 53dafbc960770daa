package services

import (
	"testing"
	"time"

	"github.com/Govind-619/CoinSphere/models"
	"github.com/Govind-619/CoinSphere/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingApproval(t *testing.T, env *testEnv) (*models.LargeTransactionApproval, *models.Wallet) {
	t.Helper()
	alice := testutil.CreateWallet(t, env.db, "alice", 500000)
	bob := testutil.CreateWallet(t, env.db, "bob", 0)
	approval, err := env.svc.Approvals.CreateApproval(background, alice, bob, 250000)
	require.NoError(t, err)
	return approval, alice
}

func TestCreateApproval_IssuesCode(t *testing.T) {
	env := newTestEnv(t)
	approval, _ := newPendingApproval(t, env)

	assert.Equal(t, models.ApprovalStatusPending, approval.Status)
	assert.Len(t, approval.OTPCode, 6)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), approval.OTPExpiresAt, time.Minute)

	require.Len(t, env.mailer.codes, 1)
	sent := env.mailer.codes[0]
	assert.Equal(t, "alice@example.com", sent.to)
	assert.Equal(t, approval.OTPCode, sent.code)
	assert.Equal(t, int64(250000), sent.amount)
	assert.Equal(t, "@bob", sent.recipient)
}

func TestResolve_WrongCodeLeavesRequestPending(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.CreateAdmin(t, env.db, "admin@example.com")
	approval, _ := newPendingApproval(t, env)

	wrong := "000000"
	if approval.OTPCode == wrong {
		wrong = "111111"
	}
	_, err := env.svc.Approvals.Resolve(background, admin.ID, approval.ID, true, wrong)
	requireKind(t, err, ErrApproval)

	_, err = env.svc.Approvals.Resolve(background, admin.ID, approval.ID, true, "")
	requireKind(t, err, ErrApproval)

	fresh, err := env.svc.Approvals.GetApproval(background, approval.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusPending, fresh.Status)
	assert.Nil(t, fresh.ApprovedBy)
}

func TestResolve_ApproveRecordsAdmin(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.CreateAdmin(t, env.db, "admin@example.com")
	approval, _ := newPendingApproval(t, env)

	resolved, err := env.svc.Approvals.Resolve(background, admin.ID, approval.ID, true, approval.OTPCode)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusApproved, resolved.Status)
	require.NotNil(t, resolved.ApprovedBy)
	assert.Equal(t, admin.ID, *resolved.ApprovedBy)
	assert.NotNil(t, resolved.ApprovedAt)

	_, err = env.svc.Approvals.Resolve(background, admin.ID, approval.ID, true, approval.OTPCode)
	requireKind(t, err, ErrConflict)
}

func TestResolve_RejectNeedsNoCode(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.CreateAdmin(t, env.db, "admin@example.com")
	approval, alice := newPendingApproval(t, env)

	resolved, err := env.svc.Approvals.Resolve(background, admin.ID, approval.ID, false, "")
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusRejected, resolved.Status)

	_, err = env.svc.Transfers.Transfer(background, callerOf(alice),
		TransferInput{RecipientHandle: "bob", Amount: 250000, ApprovalID: approval.ID})
	requireKind(t, err, ErrApproval)
}

func TestResolve_ExpiredRequest(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.CreateAdmin(t, env.db, "admin@example.com")
	approval, _ := newPendingApproval(t, env)

	env.svc.Approvals.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err := env.svc.Approvals.Resolve(background, admin.ID, approval.ID, true, approval.OTPCode)
	requireKind(t, err, ErrApproval)

	fresh, err := env.svc.Approvals.GetApproval(background, approval.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusExpired, fresh.Status)
}

func TestResolve_UnknownRequest(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Approvals.Resolve(background, 1, "missing", false, "")
	requireKind(t, err, ErrNotFound)
}

func TestExpireStale(t *testing.T) {
	env := newTestEnv(t)
	approval, alice := newPendingApproval(t, env)
	carol := testutil.CreateWallet(t, env.db, "carol", 0)
	_, err := env.svc.Approvals.CreateApproval(background, alice, carol, 100000)
	require.NoError(t, err)

	n, err := env.svc.Approvals.ExpireStale(background)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	env.svc.Approvals.now = func() time.Time { return time.Now().Add(time.Hour) }
	n, err = env.svc.Approvals.ExpireStale(background)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	fresh, err := env.svc.Approvals.GetApproval(background, approval.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusExpired, fresh.Status)

	p := testPagination()
	pending, err := env.svc.Approvals.ListPending(background, p)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestGetApprovalForCaller_OnlySender(t *testing.T) {
	env := newTestEnv(t)
	approval, alice := newPendingApproval(t, env)
	bob, err := env.svc.Wallets.SearchWallets(background, "bob", 1)
	require.NoError(t, err)
	require.Len(t, bob, 1)

	got, err := env.svc.Approvals.GetApprovalForCaller(background, callerOf(alice), approval.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.ID, got.ID)

	_, err = env.svc.Approvals.GetApprovalForCaller(background, callerOf(&bob[0]), approval.ID)
	requireKind(t, err, ErrNotFound)
}
