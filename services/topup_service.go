package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Govind-619/CoinSphere/dao"
	"github.com/Govind-619/CoinSphere/models"
	"github.com/Govind-619/CoinSphere/utils"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentGateway creates payment orders and checks the signatures the checkout returns
type PaymentGateway interface {
	CreateOrder(amountPaise int64, receipt string) (string, error)
	VerifySignature(orderID, paymentID, signature string) bool
	PublicKey() string
}

// RazorpayGateway is the Razorpay implementation of PaymentGateway
type RazorpayGateway struct {
	client *razorpay.Client
	key    string
	secret string
}

func NewRazorpayGateway(key, secret string) *RazorpayGateway {
	return &RazorpayGateway{
		client: razorpay.NewClient(key, secret),
		key:    key,
		secret: secret,
	}
}

// CreateOrder creates an auto-captured INR order and returns its id
func (g *RazorpayGateway) CreateOrder(amountPaise int64, receipt string) (string, error) {
	orderData := map[string]interface{}{
		"amount":          amountPaise,
		"currency":        "INR",
		"receipt":         receipt,
		"payment_capture": 1,
	}
	utils.LogDebug("Creating Razorpay order with data: %+v", orderData)

	rzOrder, err := g.client.Order.Create(orderData, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%v", rzOrder["id"]), nil
}

// VerifySignature checks the HMAC-SHA256 of "orderID|paymentID" under the key secret
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifyPaymentSignature(g.secret, orderID, paymentID, signature)
}

func (g *RazorpayGateway) PublicKey() string {
	return g.key
}

// VerifyPaymentSignature reports whether signature is the hex HMAC-SHA256 of "orderID|paymentID"
func VerifyPaymentSignature(secret, orderID, paymentID, signature string) bool {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// TopupOrder is what the client needs to open the checkout
type TopupOrder struct {
	OrderID     string `json:"razorpay_order_id"`
	Key         string `json:"key"`
	AmountPaise int64  `json:"amount_paise"`
	Tokens      int64  `json:"tokens"`
}

// TopupService buys tokens with rupees through the payment gateway
type TopupService struct {
	db             *gorm.DB
	gateway        PaymentGateway
	tokensPerRupee decimal.Decimal
}

// NewTopupService parses tokensPerRupee as a decimal; an invalid or non-positive rate falls back to 1
func NewTopupService(db *gorm.DB, gateway PaymentGateway, tokensPerRupee string) *TopupService {
	rate, err := decimal.NewFromString(tokensPerRupee)
	if err != nil || !rate.IsPositive() {
		utils.LogError("Invalid top-up rate %q, using 1 token per rupee", tokensPerRupee)
		rate = decimal.NewFromInt(1)
	}
	return &TopupService{db: db, gateway: gateway, tokensPerRupee: rate}
}

// TokensFor converts a rupee amount into whole tokens, rounding down
func (s *TopupService) TokensFor(rupees decimal.Decimal) int64 {
	return rupees.Mul(s.tokensPerRupee).Floor().IntPart()
}

// InitiateTopup creates a gateway order for rupees and records it as pending
func (s *TopupService) InitiateTopup(ctx context.Context, caller Caller, rupees decimal.Decimal) (*TopupOrder, error) {
	paise := rupees.Mul(decimal.NewFromInt(100))
	if !rupees.IsPositive() || !paise.Equal(paise.Truncate(0)) {
		return nil, validationError("Amount must be a positive rupee value with at most two decimals")
	}
	tokens := s.TokensFor(rupees)
	if tokens <= 0 {
		return nil, validationError("Amount is too small to buy a token")
	}

	db := s.db.WithContext(ctx)
	wallet, err := dao.NewWalletDAO(db).GetByUserID(caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Wallet not found")
		}
		return nil, err
	}

	receipt := "wallet_topup_" + strconv.FormatUint(uint64(caller.UserID), 10) + "_" + time.Now().Format("20060102150405")
	orderID, err := s.gateway.CreateOrder(paise.IntPart(), receipt)
	if err != nil {
		utils.LogError("Failed to create payment order for user %d: %v", caller.UserID, err)
		return nil, utils.ServiceUnavailableError("Payment provider unavailable", err)
	}

	order := &models.WalletTopupOrder{
		UserID:          caller.UserID,
		WalletID:        wallet.ID,
		RazorpayOrderID: orderID,
		AmountPaise:     paise.IntPart(),
		Tokens:          tokens,
		Status:          models.TopupStatusPending,
	}
	if err := dao.NewTopupDAO(db).Create(order); err != nil {
		utils.LogError("Failed to record top-up order %s: %v", orderID, err)
		return nil, err
	}

	utils.LogInfo("Top-up order %s created for user %d: %d paise -> %d tokens", orderID, caller.UserID, order.AmountPaise, tokens)
	return &TopupOrder{
		OrderID:     orderID,
		Key:         s.gateway.PublicKey(),
		AmountPaise: order.AmountPaise,
		Tokens:      tokens,
	}, nil
}

// VerifyTopup checks the payment signature and credits the order's tokens exactly once
func (s *TopupService) VerifyTopup(ctx context.Context, caller Caller, orderID, paymentID, signature string) (*models.WalletTransaction, int64, error) {
	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		utils.LogError("Payment verification failed for order %s", orderID)
		return nil, 0, validationError("Payment verification failed")
	}

	var (
		record     *models.WalletTransaction
		newBalance int64
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		topups := dao.NewTopupDAO(tx)
		order, err := topups.GetForUser(caller.UserID, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("Top-up order not found")
			}
			return err
		}
		if err := topups.Complete(order.ID, paymentID); err != nil {
			if errors.Is(err, dao.ErrGuardFailed) {
				return conflictError("Top-up order already processed")
			}
			return err
		}

		wallets := dao.NewWalletDAO(tx)
		if err := wallets.Credit(order.WalletID, order.Tokens, "total_received"); err != nil {
			return err
		}
		record = &models.WalletTransaction{
			ToWalletID:      &order.WalletID,
			Amount:          order.Tokens,
			TransactionType: models.TransactionTypeDeposit,
			Status:          models.TransactionStatusCompleted,
			Description:     "Wallet top-up via Razorpay",
			Reference:       "TOPUP-" + paymentID,
			IPAddress:       caller.IPAddress,
			DeviceInfo:      caller.UserAgent,
		}
		if err := dao.NewTransactionDAO(tx).Append(record); err != nil {
			return err
		}
		wallet, err := wallets.GetByID(order.WalletID)
		if err != nil {
			return err
		}
		newBalance = wallet.Balance
		return nil
	})
	if err != nil {
		if !utils.IsAppError(err) {
			utils.LogError("Failed to complete top-up %s: %v", orderID, err)
		}
		return nil, 0, err
	}

	utils.LogAudit(models.TransactionTypeDeposit, "", *record.ToWalletID, record.Amount, record.ID)
	return record, newBalance, nil
}
