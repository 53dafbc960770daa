package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Govind-619/CoinSphere/config"
	"github.com/Govind-619/CoinSphere/models"
	"github.com/Govind-619/CoinSphere/testutil"
	"github.com/Govind-619/CoinSphere/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type sentCode struct {
	to        string
	code      string
	amount    int64
	recipient string
}

// recordingMailer keeps every approval code it is asked to send
type recordingMailer struct {
	mu      sync.Mutex
	codes   []sentCode
	notices []string
}

func (m *recordingMailer) SendApprovalCode(to, code string, amount int64, recipient string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes = append(m.codes, sentCode{to: to, code: code, amount: amount, recipient: recipient})
	return nil
}

func (m *recordingMailer) SendAdminNotice(to []string, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, subject)
	return nil
}

func (m *recordingMailer) lastCode(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.codes)
	return m.codes[len(m.codes)-1].code
}

type fakeGateway struct {
	orderID  string
	validSig string
	err      error
	created  int
}

func (g *fakeGateway) CreateOrder(amountPaise int64, receipt string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.created++
	return g.orderID, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == g.validSig
}

func (g *fakeGateway) PublicKey() string { return "rzp_test_key" }

type testEnv struct {
	db      *gorm.DB
	svc     *Services
	mailer  *recordingMailer
	gateway *fakeGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:           testSecret,
		Ledger:              config.DefaultLedgerConfig(),
		TopupTokensPerRupee: "2",
	}
	env := &testEnv{
		db:      db,
		mailer:  &recordingMailer{},
		gateway: &fakeGateway{orderID: "order_test_1", validSig: "good-signature"},
	}
	env.svc = New(db, cfg, env.mailer, env.gateway)
	return env
}

func callerOf(w *models.Wallet) Caller {
	return Caller{UserID: w.UserID, IPAddress: "127.0.0.1", UserAgent: "go-test"}
}

func requireKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, errors.Is(err, kind), "expected %v, got %v", kind, err)
}

// fixedClock returns a settable clock for the services that keep a now field
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *fixedClock { return &fixedClock{t: t} }

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

var background = context.Background()

func testPagination() *utils.Pagination {
	return &utils.Pagination{Page: 1, Limit: utils.DefaultPaginationLimit}
}
