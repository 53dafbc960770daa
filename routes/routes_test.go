package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Govind-619/CoinSphere/config"
	"github.com/Govind-619/CoinSphere/models"
	"github.com/Govind-619/CoinSphere/services"
	"github.com/Govind-619/CoinSphere/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiHarness struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func newHarness(t *testing.T) *apiHarness {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:           "test-secret",
		Env:                 "test",
		Ledger:              config.DefaultLedgerConfig(),
		TopupTokensPerRupee: "1",
		SessionSecret:       "test-session-secret",
		RateLimitPerSecond:  1000,
		RateLimitBurst:      1000,
	}
	svc := services.New(db, cfg, nil, services.NewRazorpayGateway("rzp_test_key", "rzp_test_secret"))
	return &apiHarness{t: t, db: db, router: SetupRouter(svc, cfg)}
}

func (h *apiHarness) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	h.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var payload map[string]interface{}
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &payload), w.Body.String())
	}
	return w, payload
}

func (h *apiHarness) login(name string) string {
	h.t.Helper()
	w, body := h.do(http.MethodPost, "/v1/login", "", gin.H{"email": name + "@example.com", "password": testutil.TestPassword})
	require.Equal(h.t, http.StatusOK, w.Code, body)
	return body["data"].(map[string]interface{})["token"].(string)
}

func (h *apiHarness) adminLogin(email string) string {
	h.t.Helper()
	w, body := h.do(http.MethodPost, "/v1/admin/login", "", gin.H{"email": email, "password": testutil.TestPassword})
	require.Equal(h.t, http.StatusOK, w.Code, body)
	return body["data"].(map[string]interface{})["token"].(string)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	h := newHarness(t)

	w, body := h.do(http.MethodGet, "/v1/user/wallet", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, body["success"])

	w, _ = h.do(http.MethodGet, "/v1/user/wallet", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	testutil.CreateUser(t, h.db, "alice")
	userToken := h.login("alice")
	w, _ = h.do(http.MethodGet, "/v1/admin/approvals", userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = h.do(http.MethodPost, "/v1/user/logout", userToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = h.do(http.MethodGet, "/v1/user/wallet", userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterCreateWalletAndTransfer(t *testing.T) {
	h := newHarness(t)
	testutil.CreateWallet(t, h.db, "bob", 0)

	w, body := h.do(http.MethodPost, "/v1/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": testutil.TestPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, body)
	token := h.login("alice")

	w, body = h.do(http.MethodPost, "/v1/user/wallet", token, gin.H{"username": "Alice"})
	require.Equal(t, http.StatusCreated, w.Code, body)
	wallet := body["data"].(map[string]interface{})["wallet"].(map[string]interface{})
	assert.Equal(t, "@alice", wallet["username"])

	w, _ = h.do(http.MethodPost, "/v1/user/wallet", token, gin.H{"username": "again"})
	assert.Equal(t, http.StatusConflict, w.Code)

	require.NoError(t, h.db.Model(&models.Wallet{}).Where("username = ?", "@alice").Update("balance", 500).Error)

	w, body = h.do(http.MethodPost, "/v1/user/wallet/transfer", token, gin.H{"recipientUsername": "bob", "amount": 50})
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Successfully sent 50 CSP to @bob", body["message"])
	assert.Equal(t, float64(450), body["newBalance"])
	assert.NotEmpty(t, body["transactionId"])

	w, body = h.do(http.MethodPost, "/v1/user/wallet/transfer", token, gin.H{"recipientUsername": "bob", "amount": 1000})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Insufficient balance", body["error"])

	for _, amount := range []interface{}{0, -3, 1.5} {
		w, _ = h.do(http.MethodPost, "/v1/user/wallet/transfer", token, gin.H{"recipientUsername": "bob", "amount": amount})
		assert.Equal(t, http.StatusBadRequest, w.Code, "amount %v", amount)
	}

	w, _ = h.do(http.MethodPost, "/v1/user/wallet/transfer", token, gin.H{"recipientUsername": "nobody", "amount": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = h.do(http.MethodGet, "/v1/user/wallet/transactions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 1)

	w, body = h.do(http.MethodGet, "/v1/user/wallet/search?q=bo", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"].(map[string]interface{})["wallets"], 1)

	w, _ = h.do(http.MethodGet, "/v1/user/wallet/statement", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}

func TestLargeTransferApprovalOverHTTP(t *testing.T) {
	h := newHarness(t)
	testutil.CreateAdmin(t, h.db, "admin@example.com")
	testutil.CreateWallet(t, h.db, "alice", 250000)
	bob := testutil.CreateWallet(t, h.db, "bob", 0)
	token := h.login("alice")
	adminToken := h.adminLogin("admin@example.com")

	transfer := gin.H{"recipientUsername": "@bob", "amount": 100000}
	w, body := h.do(http.MethodPost, "/v1/user/wallet/transfer", token, transfer)
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, true, body["requiresApproval"])
	approvalID := body["approvalId"].(string)
	require.NotEmpty(t, approvalID)

	w, body = h.do(http.MethodGet, "/v1/user/wallet/approvals/"+approvalID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	approval := body["data"].(map[string]interface{})["approval"].(map[string]interface{})
	assert.Equal(t, "pending", approval["status"])
	assert.NotContains(t, approval, "otp_code")

	w, body = h.do(http.MethodGet, "/v1/admin/approvals", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 1)

	w, _ = h.do(http.MethodPost, "/v1/admin/approvals/"+approvalID+"/approve", adminToken, gin.H{"otp": "999999x"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var stored models.LargeTransactionApproval
	require.NoError(t, h.db.Where("id = ?", approvalID).First(&stored).Error)
	w, body = h.do(http.MethodPost, "/v1/admin/approvals/"+approvalID+"/approve", adminToken, gin.H{"otp": stored.OTPCode})
	require.Equal(t, http.StatusOK, w.Code, body)

	transfer["approvalId"] = approvalID
	w, body = h.do(http.MethodPost, "/v1/user/wallet/transfer", token, transfer)
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, float64(150000), body["newBalance"])

	w, _ = h.do(http.MethodPost, "/v1/user/wallet/transfer", token, transfer)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, int64(100000), testutil.Reload(t, h.db, bob).Balance)

	w, _ = h.do(http.MethodGet, "/v1/admin/transactions/export", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiningOverHTTP(t *testing.T) {
	h := newHarness(t)
	testutil.CreateAdmin(t, h.db, "admin@example.com")
	miner := testutil.CreateWallet(t, h.db, "miner", 0)
	token := h.login("miner")
	adminToken := h.adminLogin("admin@example.com")

	started := time.Now().Add(-10 * time.Second)
	unit := gin.H{"taskType": "signup", "startedAt": started.Format(time.RFC3339Nano)}

	w, _ := h.do(http.MethodPost, "/v1/user/mining/units", token, unit)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body := h.do(http.MethodPost, "/v1/user/mining/request", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, body)
	requestID := body["data"].(map[string]interface{})["request"].(map[string]interface{})["id"].(string)

	w, body = h.do(http.MethodPost, "/v1/admin/miner-requests/"+requestID+"/approve", adminToken, gin.H{"notes": "ok"})
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.True(t, testutil.Reload(t, h.db, miner).IsMinerApproved)

	w, body = h.do(http.MethodPost, "/v1/user/mining/units", token, unit)
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["tasksCompleted"])
	assert.Equal(t, float64(0), body["tokensEarned"])
	assert.Equal(t, float64(0), body["newBalance"])

	w, _ = h.do(http.MethodPost, "/v1/user/mining/units", token, unit)
	assert.Equal(t, http.StatusConflict, w.Code)

	fast := gin.H{"taskType": "youtube", "startedAt": time.Now().Format(time.RFC3339Nano)}
	w, body = h.do(http.MethodPost, "/v1/user/mining/units", token, fast)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "too quickly")

	w, _ = h.do(http.MethodPost, "/v1/user/mining/units", token, gin.H{"taskType": "captcha", "startedAt": started})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = h.do(http.MethodGet, "/v1/user/mining/session", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	session := body["data"].(map[string]interface{})["session"].(map[string]interface{})
	assert.Equal(t, float64(1), session["units_completed"])
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	w, body := h.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestAdminBlocksUser(t *testing.T) {
	h := newHarness(t)
	testutil.CreateAdmin(t, h.db, "admin@example.com")
	user := testutil.CreateWallet(t, h.db, "alice", 10)
	token := h.login("alice")
	adminToken := h.adminLogin("admin@example.com")

	w, body := h.do(http.MethodGet, "/v1/admin/users?search=alice", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, body)
	users := body["data"].([]interface{})
	require.Len(t, users, 1)
	wallet := users[0].(map[string]interface{})["wallet"].(map[string]interface{})
	assert.Equal(t, float64(10), wallet["balance"])

	path := fmt.Sprintf("/v1/admin/users/%d/block", user.UserID)
	w, _ = h.do(http.MethodPatch, path, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = h.do(http.MethodGet, "/v1/user/wallet", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = h.do(http.MethodPatch, "/v1/admin/users/abc/block", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
