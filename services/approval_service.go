package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Govind-619/CoinSphere/dao"
	"github.com/Govind-619/CoinSphere/models"
	"github.com/Govind-619/CoinSphere/utils"
	"gorm.io/gorm"
)

// ApprovalService issues and resolves large-transaction approvals
type ApprovalService struct {
	db     *gorm.DB
	mailer utils.Mailer
	ttl    time.Duration
	now    func() time.Time
}

func NewApprovalService(db *gorm.DB, mailer utils.Mailer, ttl time.Duration) *ApprovalService {
	if mailer == nil {
		mailer = utils.LogMailer{}
	}
	return &ApprovalService{db: db, mailer: mailer, ttl: ttl, now: time.Now}
}

// CreateApproval persists a pending request with a fresh one-time code and notifies the sender and admins.
// Notification failures are logged and do not fail the call.
func (s *ApprovalService) CreateApproval(ctx context.Context, from, to *models.Wallet, amount int64) (*models.LargeTransactionApproval, error) {
	code, err := utils.GenerateOTP()
	if err != nil {
		return nil, fmt.Errorf("generate approval code: %w", err)
	}

	approval := &models.LargeTransactionApproval{
		FromWalletID: from.ID,
		ToWalletID:   to.ID,
		Amount:       amount,
		OTPCode:      code,
		OTPExpiresAt: s.now().Add(s.ttl),
		Status:       models.ApprovalStatusPending,
	}
	db := s.db.WithContext(ctx)
	if err := dao.NewApprovalDAO(db).Create(approval); err != nil {
		utils.LogError("Failed to create approval for wallet %s: %v", from.ID, err)
		return nil, err
	}
	utils.LogInfo("Approval %s created: %s -> %s amount %d", approval.ID, from.ID, to.ID, amount)

	s.notify(dao.NewUserDAO(db), approval, from, to)
	return approval, nil
}

func (s *ApprovalService) notify(users *dao.UserDAO, approval *models.LargeTransactionApproval, from, to *models.Wallet) {
	if sender, err := users.GetByID(from.UserID); err != nil {
		utils.LogError("Approval %s: sender lookup failed: %v", approval.ID, err)
	} else if err := s.mailer.SendApprovalCode(sender.Email, approval.OTPCode, approval.Amount, to.Username, approval.OTPExpiresAt); err != nil {
		utils.LogError("Approval %s: failed to email code: %v", approval.ID, err)
	}

	admins, err := users.ActiveAdminEmails()
	if err != nil {
		utils.LogError("Approval %s: admin lookup failed: %v", approval.ID, err)
		return
	}
	body := fmt.Sprintf("<p>%s wants to send <b>%d %s</b> to %s.</p><p>Approval id: %s</p>",
		from.Username, approval.Amount, utils.TokenSymbol, to.Username, approval.ID)
	if err := s.mailer.SendAdminNotice(admins, "Large transaction awaiting approval", body); err != nil {
		utils.LogError("Approval %s: failed to notify admins: %v", approval.ID, err)
	}
}

// GetApproval returns the request with the given id
func (s *ApprovalService) GetApproval(ctx context.Context, id string) (*models.LargeTransactionApproval, error) {
	approval, err := dao.NewApprovalDAO(s.db.WithContext(ctx)).GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Approval request not found")
		}
		return nil, err
	}
	return approval, nil
}

// GetApprovalForCaller returns the request only when the caller owns its source wallet
func (s *ApprovalService) GetApprovalForCaller(ctx context.Context, caller Caller, id string) (*models.LargeTransactionApproval, error) {
	approval, err := s.GetApproval(ctx, id)
	if err != nil {
		return nil, err
	}
	wallet, err := dao.NewWalletDAO(s.db.WithContext(ctx)).GetByUserID(caller.UserID)
	if err != nil || wallet.ID != approval.FromWalletID {
		return nil, notFoundError("Approval request not found")
	}
	return approval, nil
}

// ListPending returns a page of pending requests, oldest first
func (s *ApprovalService) ListPending(ctx context.Context, p *utils.Pagination) ([]models.LargeTransactionApproval, error) {
	approvals, total, err := dao.NewApprovalDAO(s.db.WithContext(ctx)).
		ListByStatus(models.ApprovalStatusPending, p.Offset, p.Limit)
	if err != nil {
		return nil, err
	}
	p.SetTotal(total)
	return approvals, nil
}

// Resolve approves or rejects a pending request on behalf of an admin. Approving requires the code
// that was emailed to the sender.
func (s *ApprovalService) Resolve(ctx context.Context, adminID uint, id string, approve bool, otp string) (*models.LargeTransactionApproval, error) {
	now := s.now()
	expired := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		approvals := dao.NewApprovalDAO(tx)
		approval, err := approvals.GetByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("Approval request not found")
			}
			return err
		}
		if approval.Status != models.ApprovalStatusPending {
			return conflictError(fmt.Sprintf("Approval request is already %s", approval.Status))
		}
		if !now.Before(approval.OTPExpiresAt) {
			expired = true
			_, err := approvals.ExpirePending(now)
			return err
		}

		status := models.ApprovalStatusRejected
		if approve {
			if otp == "" || otp != approval.OTPCode {
				return approvalError("Invalid approval code")
			}
			status = models.ApprovalStatusApproved
		}

		if err := approvals.Resolve(id, status, adminID, now); err != nil {
			if errors.Is(err, dao.ErrGuardFailed) {
				return conflictError("Approval request was resolved concurrently")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, approvalError("Approval request has expired")
	}

	utils.LogInfo("Approval %s resolved by admin %d (approve=%t)", id, adminID, approve)
	return s.GetApproval(ctx, id)
}

// ExpireStale marks every pending request whose code has expired
func (s *ApprovalService) ExpireStale(ctx context.Context) (int64, error) {
	n, err := dao.NewApprovalDAO(s.db.WithContext(ctx)).ExpirePending(s.now())
	if err != nil {
		utils.LogError("Failed to expire stale approvals: %v", err)
		return 0, err
	}
	if n > 0 {
		utils.LogInfo("Expired %d stale approval requests", n)
	}
	return n, nil
}

// RunExpiry calls ExpireStale every interval until ctx is cancelled
func (s *ApprovalService) RunExpiry(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ExpireStale(ctx)
		}
	}
}

// consume spends an approved request on a transfer. tx must be the transfer's transaction.
func (s *ApprovalService) consume(tx *gorm.DB, approvalID string, from, to *models.Wallet, amount int64, transactionID string) error {
	err := dao.NewApprovalDAO(tx).Consume(approvalID, from.ID, to.ID, amount, transactionID, s.now())
	if errors.Is(err, dao.ErrGuardFailed) {
		return approvalError("Transaction not approved or approval expired")
	}
	return err
}
