package controllers

import (
	"net/http"
	"time"

	"github.com/Govind-619/CoinSphere/services"
	"github.com/Govind-619/CoinSphere/utils"
	"github.com/gin-gonic/gin"
)

// MiningController serves task submission and miner access requests
type MiningController struct {
	mining *services.MiningService
}

func NewMiningController(mining *services.MiningService) *MiningController {
	return &MiningController{mining: mining}
}

// RecordUnitRequest represents a completed task submission
type RecordUnitRequest struct {
	TaskType  string                 `json:"taskType" binding:"required"`
	StartedAt *time.Time             `json:"startedAt"`
	Details   map[string]interface{} `json:"details"`
}

// RecordUnit accepts one completed mining task
func (ctl *MiningController) RecordUnit(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req RecordUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid task submission from user %d: %v", caller.UserID, err)
		utils.BadRequest(c, "Invalid task type")
		return
	}

	result, err := ctl.mining.RecordUnit(c.Request.Context(), caller, services.UnitInput{
		TaskType:  req.TaskType,
		StartedAt: req.StartedAt,
		Details:   req.Details,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"tasksCompleted": result.UnitsCompleted,
		"tokensEarned":   result.TokensEarned,
		"tokensAwarded":  result.TokensAwarded,
		"newBalance":     result.NewBalance,
	})
}

// GetSession returns the caller's active mining session
func (ctl *MiningController) GetSession(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	session, err := ctl.mining.GetSession(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, "Mining session retrieved successfully", gin.H{"session": session})
}

// RequestMinerAccess files a miner access request for the caller
func (ctl *MiningController) RequestMinerAccess(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	req, err := ctl.mining.RequestMinerAccess(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, "Miner request submitted", gin.H{"request": req})
}
