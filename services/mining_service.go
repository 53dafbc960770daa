package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Govind-619/CoinSphere/config"
	"github.com/Govind-619/CoinSphere/dao"
	"github.com/Govind-619/CoinSphere/models"
	"github.com/Govind-619/CoinSphere/utils"
	"gorm.io/gorm"
)

// watch-time cross-check allowance for youtube tasks
const (
	watchTimeToleranceSeconds = 5
	watchTimeToleranceRatio   = 0.2
)

var taskNames = map[string]string{
	models.TaskTypeSignup:      "Website Sign-up",
	models.TaskTypeFreeBitcoin: "FreeBitcoin Roll",
	models.TaskTypeYouTube:     "YouTube Watch",
}

// UnitInput is one completed mining task
type UnitInput struct {
	TaskType  string
	StartedAt *time.Time
	Details   map[string]interface{}
}

// UnitResult reports the session after a unit was accepted
type UnitResult struct {
	SessionID      string `json:"session_id"`
	UnitsCompleted int64  `json:"units_completed"`
	TokensEarned   int64  `json:"tokens_earned"`
	TokensAwarded  int64  `json:"tokens_awarded"`
	NewBalance     int64  `json:"new_balance"`
}

// TokensAwarded returns how many whole tokens crossing from prev to prev+n completed units earns
func TokensAwarded(prev, n, tasksPerToken int64) int64 {
	return (prev+n)/tasksPerToken - prev/tasksPerToken
}

// MiningService accrues tokens for completed work units
type MiningService struct {
	db  *gorm.DB
	cfg config.LedgerConfig
	now func() time.Time
}

func NewMiningService(db *gorm.DB, cfg config.LedgerConfig) *MiningService {
	return &MiningService{db: db, cfg: cfg, now: time.Now}
}

// RecordUnit accepts one completed task for the caller and credits a token each time the session
// crosses a multiple of TasksPerToken.
func (s *MiningService) RecordUnit(ctx context.Context, caller Caller, in UnitInput) (*UnitResult, error) {
	name, ok := taskNames[in.TaskType]
	if !ok {
		return nil, validationError("Invalid task type")
	}

	now := s.now()
	elapsed, err := s.checkTiming(in, name, now)
	if err != nil {
		utils.LogInfo("Task rejected: %s by user %d: %v", in.TaskType, caller.UserID, err)
		return nil, err
	}

	details := map[string]interface{}{}
	for k, v := range in.Details {
		details[k] = v
	}
	details["elapsedSeconds"] = elapsed
	details["startedAt"] = in.StartedAt.UTC().Format(time.RFC3339)
	details["completedAt"] = now.UTC().Format(time.RFC3339)
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return nil, validationError("Invalid task details")
	}

	result := &UnitResult{}
	var walletID, rewardID string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wallets := dao.NewWalletDAO(tx)
		mining := dao.NewMiningDAO(tx)

		// The wallet lock serializes a user's submissions: session creation and the
		// once-only and cooldown checks below all run under it.
		wallet, err := wallets.GetByUserIDForUpdate(caller.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notApprovedError("Not approved as miner")
			}
			return err
		}
		if !wallet.IsMinerApproved {
			return notApprovedError("Not approved as miner")
		}

		session, err := s.activeSession(mining, wallet)
		if err != nil {
			return err
		}

		if err := s.checkEligibility(mining, caller.UserID, in.TaskType, now); err != nil {
			return err
		}

		prev := session.UnitsCompleted
		next := prev + 1
		awarded := TokensAwarded(prev, 1, s.cfg.TasksPerToken)

		if err := mining.AdvanceSession(session.ID, prev, next, next/s.cfg.TasksPerToken); err != nil {
			if errors.Is(err, dao.ErrGuardFailed) {
				return conflictError("Mining session was updated concurrently, please retry")
			}
			return err
		}

		if err := mining.AppendTaskLog(&models.MiningTaskLog{
			UserID:        caller.UserID,
			WalletID:      wallet.ID,
			SessionID:     session.ID,
			TaskType:      in.TaskType,
			TaskDetails:   string(detailsJSON),
			TokensAwarded: awarded,
			CompletedAt:   now,
		}); err != nil {
			return err
		}

		if awarded > 0 {
			if err := wallets.Credit(wallet.ID, awarded, "total_mined"); err != nil {
				return err
			}
			record := &models.WalletTransaction{
				ToWalletID:      &wallet.ID,
				Amount:          awarded,
				TransactionType: models.TransactionTypeMining,
				Status:          models.TransactionStatusCompleted,
				Description:     fmt.Sprintf("Mining reward for %d completed tasks", s.cfg.TasksPerToken),
				Reference:       session.ID,
				IPAddress:       caller.IPAddress,
				DeviceInfo:      caller.UserAgent,
			}
			if err := dao.NewTransactionDAO(tx).Append(record); err != nil {
				return err
			}
			rewardID = record.ID
		}

		updated, err := wallets.GetByID(wallet.ID)
		if err != nil {
			return err
		}

		walletID = wallet.ID
		result.SessionID = session.ID
		result.UnitsCompleted = next
		result.TokensEarned = next / s.cfg.TasksPerToken
		result.TokensAwarded = awarded
		result.NewBalance = updated.Balance
		return nil
	})
	if err != nil {
		if !utils.IsAppError(err) {
			utils.LogError("Failed to record %s task for user %d: %v", in.TaskType, caller.UserID, err)
		}
		return nil, err
	}

	utils.LogInfo("Task %s accepted for user %d: units=%d awarded=%d", in.TaskType, caller.UserID, result.UnitsCompleted, result.TokensAwarded)
	if result.TokensAwarded > 0 {
		utils.LogAudit(models.TransactionTypeMining, "", walletID, result.TokensAwarded, rewardID)
	}
	return result, nil
}

// checkTiming rejects tasks finished faster than their minimum duration. It returns the elapsed seconds.
func (s *MiningService) checkTiming(in UnitInput, name string, now time.Time) (int64, error) {
	if in.StartedAt == nil || in.StartedAt.IsZero() {
		return 0, validationError(fmt.Sprintf("Please start the %s task properly before completing it.", name))
	}

	minSeconds := int64(s.cfg.MinTaskSeconds[in.TaskType])
	if minSeconds == 0 {
		minSeconds = 5
	}
	elapsed := int64(now.Sub(*in.StartedAt) / time.Second)
	if elapsed < minSeconds {
		return elapsed, validationError(fmt.Sprintf(
			"Task completed too quickly! %s requires at least %d seconds. You only spent %d seconds.",
			name, minSeconds, elapsed))
	}

	if in.TaskType == models.TaskTypeYouTube {
		if watched, ok := in.Details["watchTime"].(float64); ok && watched > 0 {
			allowed := watchTimeToleranceSeconds + float64(elapsed)*watchTimeToleranceRatio
			if watched < float64(minSeconds) || math.Abs(watched-float64(elapsed)) > allowed {
				return elapsed, validationError(fmt.Sprintf(
					"Watch time verification failed. Please watch the video for at least %d seconds without pausing.",
					minSeconds))
			}
		}
	}
	return elapsed, nil
}

// checkEligibility enforces once-only signup and the cooldown on repeatable tasks
func (s *MiningService) checkEligibility(mining *dao.MiningDAO, userID uint, taskType string, now time.Time) error {
	if taskType == models.TaskTypeSignup {
		count, err := mining.CountTasks(userID, taskType)
		if err != nil {
			return err
		}
		if count > 0 {
			return conflictError("Signup task already completed")
		}
		return nil
	}

	last, err := mining.LastTask(userID, taskType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	next := last.CompletedAt.Add(s.cfg.TaskCooldown)
	if now.Before(next) {
		return rateLimitError(fmt.Sprintf("You can only do this task once per %s. Next available: %s",
			s.cfg.TaskCooldown, next.UTC().Format(time.RFC3339)))
	}
	return nil
}

func (s *MiningService) activeSession(mining *dao.MiningDAO, wallet *models.Wallet) (*models.MiningSession, error) {
	session, err := mining.ActiveSession(wallet.UserID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	session = &models.MiningSession{
		UserID:       wallet.UserID,
		WalletID:     wallet.ID,
		IsActive:     true,
		SessionStart: s.now(),
	}
	if err := mining.CreateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession returns the caller's active mining session
func (s *MiningService) GetSession(ctx context.Context, caller Caller) (*models.MiningSession, error) {
	session, err := dao.NewMiningDAO(s.db.WithContext(ctx)).ActiveSession(caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("No active mining session")
		}
		return nil, err
	}
	return session, nil
}

// RequestMinerAccess files a request for the miner capability. Only one request may be pending.
func (s *MiningService) RequestMinerAccess(ctx context.Context, caller Caller) (*models.MinerRequest, error) {
	req := &models.MinerRequest{UserID: caller.UserID, Status: models.MinerRequestPending}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wallet, err := dao.NewWalletDAO(tx).GetByUserID(caller.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("Create a wallet before requesting miner access")
			}
			return err
		}
		if wallet.IsMinerApproved {
			return conflictError("Already approved as miner")
		}

		mining := dao.NewMiningDAO(tx)
		pending, err := mining.CountPendingMinerRequests(caller.UserID)
		if err != nil {
			return err
		}
		if pending > 0 {
			return conflictError("A miner request is already pending")
		}
		return mining.CreateMinerRequest(req)
	})
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Miner request %s filed by user %d", req.ID, caller.UserID)
	return req, nil
}

// ListMinerRequests returns a page of miner requests in status, or all of them when status is empty
func (s *MiningService) ListMinerRequests(ctx context.Context, status string, p *utils.Pagination) ([]models.MinerRequest, error) {
	reqs, total, err := dao.NewMiningDAO(s.db.WithContext(ctx)).ListMinerRequests(status, p.Offset, p.Limit)
	if err != nil {
		return nil, err
	}
	p.SetTotal(total)
	return reqs, nil
}

// ResolveMinerRequest approves or rejects a pending request. Approval grants the miner capability.
func (s *MiningService) ResolveMinerRequest(ctx context.Context, adminID uint, id string, approve bool, notes string) (*models.MinerRequest, error) {
	status := models.MinerRequestRejected
	if approve {
		status = models.MinerRequestApproved
	}

	var req *models.MinerRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mining := dao.NewMiningDAO(tx)
		var err error
		req, err = mining.GetMinerRequest(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("Miner request not found")
			}
			return err
		}
		if err := mining.ResolveMinerRequest(id, status, notes, adminID, s.now()); err != nil {
			if errors.Is(err, dao.ErrGuardFailed) {
				return conflictError(fmt.Sprintf("Miner request is already %s", req.Status))
			}
			return err
		}
		if approve {
			if err := dao.NewWalletDAO(tx).SetMinerApproved(req.UserID, true); err != nil {
				return err
			}
		}
		req, err = mining.GetMinerRequest(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Miner request %s %s by admin %d", id, status, adminID)
	return req, nil
}
