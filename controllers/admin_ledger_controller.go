package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Govind-619/CoinSphere/services"
	"github.com/Govind-619/CoinSphere/utils"
	"github.com/gin-gonic/gin"
)

// AdminLedgerController lets admins resolve approvals and miner requests and export the ledger
type AdminLedgerController struct {
	approvals *services.ApprovalService
	mining    *services.MiningService
	reports   *services.ReportService
}

func NewAdminLedgerController(approvals *services.ApprovalService, mining *services.MiningService,
	reports *services.ReportService) *AdminLedgerController {
	return &AdminLedgerController{approvals: approvals, mining: mining, reports: reports}
}

// ApproveRequest carries the code the sender received by email
type ApproveRequest struct {
	OTP string `json:"otp" binding:"required"`
}

// MinerReviewRequest carries optional review notes
type MinerReviewRequest struct {
	Notes string `json:"notes"`
}

// ListApprovals returns pending large-transaction approvals
func (ctl *AdminLedgerController) ListApprovals(c *gin.Context) {
	p := utils.NewPagination(c)
	approvals, err := ctl.approvals.ListPending(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, "Pending approvals retrieved successfully", approvals, p)
}

// ApproveApproval approves a pending request after checking its code
func (ctl *AdminLedgerController) ApproveApproval(c *gin.Context) {
	adminID, ok := adminIDFrom(c)
	if !ok {
		return
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Approval code is required")
		return
	}

	approval, err := ctl.approvals.Resolve(c.Request.Context(), adminID, c.Param("id"), true, req.OTP)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, "Transaction approved", gin.H{"approval": approval})
}

// RejectApproval rejects a pending request
func (ctl *AdminLedgerController) RejectApproval(c *gin.Context) {
	adminID, ok := adminIDFrom(c)
	if !ok {
		return
	}

	approval, err := ctl.approvals.Resolve(c.Request.Context(), adminID, c.Param("id"), false, "")
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, "Transaction rejected", gin.H{"approval": approval})
}

// ListMinerRequests returns miner requests, filtered by ?status=
func (ctl *AdminLedgerController) ListMinerRequests(c *gin.Context) {
	p := utils.NewPagination(c)
	reqs, err := ctl.mining.ListMinerRequests(c.Request.Context(), c.Query("status"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, "Miner requests retrieved successfully", reqs, p)
}

// ApproveMinerRequest grants the miner capability
func (ctl *AdminLedgerController) ApproveMinerRequest(c *gin.Context) {
	ctl.reviewMinerRequest(c, true)
}

// RejectMinerRequest declines a miner request
func (ctl *AdminLedgerController) RejectMinerRequest(c *gin.Context) {
	ctl.reviewMinerRequest(c, false)
}

func (ctl *AdminLedgerController) reviewMinerRequest(c *gin.Context, approve bool) {
	adminID, ok := adminIDFrom(c)
	if !ok {
		return
	}

	var req MinerReviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequest(c, "Invalid request")
			return
		}
	}

	result, err := ctl.mining.ResolveMinerRequest(c.Request.Context(), adminID, c.Param("id"), approve, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, fmt.Sprintf("Miner request %s", result.Status), gin.H{"request": result})
}

// ExportTransactions downloads the ledger between ?from= and ?to= (YYYY-MM-DD) as XLSX.
// Defaults to the last 30 days.
func (ctl *AdminLedgerController) ExportTransactions(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	var err error
	if v := c.Query("from"); v != "" {
		if from, err = time.Parse("2006-01-02", v); err != nil {
			utils.BadRequest(c, "Invalid 'from' date, expected YYYY-MM-DD")
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = time.Parse("2006-01-02", v); err != nil {
			utils.BadRequest(c, "Invalid 'to' date, expected YYYY-MM-DD")
			return
		}
		to = to.AddDate(0, 0, 1)
	}

	file, err := ctl.reports.LedgerXLSX(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=ledger_%s_%s.xlsx",
		from.Format("20060102"), to.Format("20060102")))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", file)
}
