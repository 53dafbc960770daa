package models

import (
	"time"

	"gorm.io/gorm"
)

// MiningSession accumulates completed work units for a user. TokensEarned always equals
// UnitsCompleted / tasks-per-token (integer division). A user has at most one active session.
type MiningSession struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	UserID         uint       `gorm:"index;not null;uniqueIndex:idx_mining_sessions_active_user,where:is_active = true" json:"user_id"`
	WalletID       string     `gorm:"not null;size:36" json:"wallet_id"`
	UnitsCompleted int64      `gorm:"not null;default:0" json:"units_completed"`
	TokensEarned   int64      `gorm:"not null;default:0" json:"tokens_earned"`
	IsActive       bool       `gorm:"index;not null;default:true" json:"is_active"`
	SessionStart   time.Time  `json:"session_start"`
	SessionEnd     *time.Time `json:"session_end,omitempty"`
}

func (s *MiningSession) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// MiningTaskLog records every accepted unit; it backs the once-only and cooldown checks.
type MiningTaskLog struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	UserID        uint      `gorm:"index:idx_task_user_type;not null" json:"user_id"`
	WalletID      string    `gorm:"not null;size:36" json:"wallet_id"`
	SessionID     string    `gorm:"size:36" json:"session_id"`
	TaskType      string    `gorm:"index:idx_task_user_type;not null;size:32" json:"task_type"`
	TaskDetails   string    `gorm:"type:text" json:"task_details"`
	TokensAwarded int64     `gorm:"not null;default:0" json:"tokens_awarded"`
	CompletedAt   time.Time `gorm:"index" json:"completed_at"`
}

func (l *MiningTaskLog) BeforeCreate(tx *gorm.DB) error {
	assignID(&l.ID)
	return nil
}

// MinerRequest is a user's application for the miner capability.
type MinerRequest struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	UserID     uint       `gorm:"index;not null" json:"user_id"`
	Status     string     `gorm:"index;not null;size:16" json:"status"`
	AdminNotes string     `json:"admin_notes,omitempty"`
	ReviewedBy *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (r *MinerRequest) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}

// Task types accepted by the mining service
const (
	TaskTypeSignup      = "signup"
	TaskTypeFreeBitcoin = "freebitcoin"
	TaskTypeYouTube     = "youtube"
)

// Miner request status constants
const (
	MinerRequestPending  = "pending"
	MinerRequestApproved = "approved"
	MinerRequestRejected = "rejected"
)
