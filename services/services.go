package services

import (
	"github.com/Govind-619/CoinSphere/config"
	"github.com/Govind-619/CoinSphere/utils"
	"gorm.io/gorm"
)

// Services bundles every service the HTTP layer and the background workers use
type Services struct {
	Auth      *AuthService
	Wallets   *WalletService
	Approvals *ApprovalService
	Transfers *TransferService
	Mining    *MiningService
	Topups    *TopupService
	Reports   *ReportService
}

// New wires the services on one database handle
func New(db *gorm.DB, cfg *config.Config, mailer utils.Mailer, gateway PaymentGateway) *Services {
	wallets := NewWalletService(db)
	approvals := NewApprovalService(db, mailer, cfg.Ledger.ApprovalTTL)
	return &Services{
		Auth:      NewAuthService(db, cfg.JWTSecret),
		Wallets:   wallets,
		Approvals: approvals,
		Transfers: NewTransferService(db, approvals, cfg.Ledger.LargeTransactionThreshold),
		Mining:    NewMiningService(db, cfg.Ledger),
		Topups:    NewTopupService(db, gateway, cfg.TopupTokensPerRupee),
		Reports:   NewReportService(db, wallets),
	}
}
