package dao

import (
	"time"

	"github.com/Govind-619/CoinSphere/models"
	"gorm.io/gorm"
)

// MiningDAO handles mining sessions, task logs and miner requests
type MiningDAO struct {
	db *gorm.DB
}

func NewMiningDAO(db *gorm.DB) *MiningDAO {
	return &MiningDAO{db: db}
}

// ActiveSession returns the user's active session
func (d *MiningDAO) ActiveSession(userID uint) (*models.MiningSession, error) {
	var session models.MiningSession
	err := d.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("session_start DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (d *MiningDAO) CreateSession(session *models.MiningSession) error {
	return d.db.Create(session).Error
}

// AdvanceSession sets the session counters only if units_completed still equals prevUnits
func (d *MiningDAO) AdvanceSession(id string, prevUnits, units, tokens int64) error {
	result := d.db.Model(&models.MiningSession{}).
		Where("id = ? AND units_completed = ?", id, prevUnits).
		Updates(map[string]interface{}{
			"units_completed": units,
			"tokens_earned":   tokens,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGuardFailed
	}
	return nil
}

func (d *MiningDAO) AppendTaskLog(entry *models.MiningTaskLog) error {
	return d.db.Create(entry).Error
}

// CountTasks counts the user's logged tasks of a type
func (d *MiningDAO) CountTasks(userID uint, taskType string) (int64, error) {
	var count int64
	err := d.db.Model(&models.MiningTaskLog{}).
		Where("user_id = ? AND task_type = ?", userID, taskType).
		Count(&count).Error
	return count, err
}

// LastTask returns the user's most recent task of a type
func (d *MiningDAO) LastTask(userID uint, taskType string) (*models.MiningTaskLog, error) {
	var entry models.MiningTaskLog
	err := d.db.Where("user_id = ? AND task_type = ?", userID, taskType).
		Order("completed_at DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (d *MiningDAO) CreateMinerRequest(req *models.MinerRequest) error {
	return d.db.Create(req).Error
}

func (d *MiningDAO) GetMinerRequest(id string) (*models.MinerRequest, error) {
	var req models.MinerRequest
	if err := d.db.Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// CountPendingMinerRequests counts a user's requests still waiting for review
func (d *MiningDAO) CountPendingMinerRequests(userID uint) (int64, error) {
	var count int64
	err := d.db.Model(&models.MinerRequest{}).
		Where("user_id = ? AND status = ?", userID, models.MinerRequestPending).
		Count(&count).Error
	return count, err
}

// ListMinerRequests returns requests in a status (all when empty), oldest first
func (d *MiningDAO) ListMinerRequests(status string, offset, limit int) ([]models.MinerRequest, int64, error) {
	var (
		reqs  []models.MinerRequest
		total int64
	)
	query := d.db.Model(&models.MinerRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at ASC").Offset(offset).Limit(limit).Find(&reqs).Error
	return reqs, total, err
}

// ResolveMinerRequest moves a pending request to status. ErrGuardFailed means it was already reviewed.
func (d *MiningDAO) ResolveMinerRequest(id, status, notes string, adminID uint, at time.Time) error {
	result := d.db.Model(&models.MinerRequest{}).
		Where("id = ? AND status = ?", id, models.MinerRequestPending).
		Updates(map[string]interface{}{
			"status":      status,
			"admin_notes": notes,
			"reviewed_by": adminID,
			"reviewed_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGuardFailed
	}
	return nil
}
