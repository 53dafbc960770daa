package services

import (
	"context"
	"errors"

	"github.com/Govind-619/CoinSphere/dao"
	"github.com/Govind-619/CoinSphere/models"
	"github.com/Govind-619/CoinSphere/utils"
	"gorm.io/gorm"
)

// WalletService exposes the caller's wallet and its history
type WalletService struct {
	db *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{db: db}
}

// CreateWallet opens a wallet for the caller under a normalised @handle
func (s *WalletService) CreateWallet(ctx context.Context, caller Caller, handle string) (*models.Wallet, error) {
	normalized, ok := utils.NormalizeHandle(handle)
	if !ok {
		return nil, validationError("Username must be at least 3 characters (letters, numbers, underscore)")
	}

	var wallet *models.Wallet
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wallets := dao.NewWalletDAO(tx)

		if _, err := wallets.GetByUserID(caller.UserID); err == nil {
			return conflictError("Wallet already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if _, err := wallets.GetByHandle(normalized); err == nil {
			return conflictError("Username is already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		wallet = &models.Wallet{UserID: caller.UserID, Username: normalized}
		return wallets.Create(wallet)
	})
	if err != nil {
		if !utils.IsAppError(err) {
			utils.LogError("Failed to create wallet for user %d: %v", caller.UserID, err)
		}
		return nil, err
	}

	utils.LogInfo("Wallet %s created for user %d as %s", wallet.ID, caller.UserID, wallet.Username)
	return wallet, nil
}

// GetWallet returns the caller's wallet
func (s *WalletService) GetWallet(ctx context.Context, caller Caller) (*models.Wallet, error) {
	return s.walletFor(dao.NewWalletDAO(s.db.WithContext(ctx)), caller.UserID)
}

func (s *WalletService) walletFor(wallets *dao.WalletDAO, userID uint) (*models.Wallet, error) {
	wallet, err := wallets.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Wallet not found")
		}
		return nil, err
	}
	return wallet, nil
}

// SearchWallets finds wallets whose handle contains the query, for recipient lookup
func (s *WalletService) SearchWallets(ctx context.Context, query string, limit int) ([]models.Wallet, error) {
	fragment := utils.CleanHandle(query)
	if fragment == "" {
		return []models.Wallet{}, nil
	}
	if limit <= 0 || limit > utils.MaxPaginationLimit {
		limit = utils.DefaultPaginationLimit
	}
	return dao.NewWalletDAO(s.db.WithContext(ctx)).Search(fragment, limit)
}

// History returns a page of the caller's ledger entries, newest first
func (s *WalletService) History(ctx context.Context, caller Caller, p *utils.Pagination) ([]models.WalletTransaction, error) {
	db := s.db.WithContext(ctx)
	wallet, err := s.walletFor(dao.NewWalletDAO(db), caller.UserID)
	if err != nil {
		return nil, err
	}

	records, total, err := dao.NewTransactionDAO(db).ListForWallet(wallet.ID, p.Offset, p.Limit)
	if err != nil {
		utils.LogError("Failed to list transactions for wallet %s: %v", wallet.ID, err)
		return nil, err
	}
	p.SetTotal(total)
	return records, nil
}
