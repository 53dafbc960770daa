package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLedgerConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultLedgerConfig().Validate())
}

func TestLoadConfig_LedgerFromEnv(t *testing.T) {
	t.Setenv("TASKS_PER_TOKEN", "500")
	t.Setenv("APPROVAL_TTL", "5m")
	t.Setenv("LARGE_TRANSACTION_THRESHOLD", "2500")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(500), cfg.Ledger.TasksPerToken)
	assert.Equal(t, 5*time.Minute, cfg.Ledger.ApprovalTTL)
	assert.Equal(t, int64(2500), cfg.Ledger.LargeTransactionThreshold)
	assert.Equal(t, time.Hour, cfg.Ledger.TaskCooldown)
}

func TestLoadConfig_RejectsNonPositiveLedgerSettings(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"TASKS_PER_TOKEN", "0"},
		{"TASKS_PER_TOKEN", "-1000"},
		{"LARGE_TRANSACTION_THRESHOLD", "0"},
		{"LARGE_TRANSACTION_THRESHOLD", "-5"},
		{"APPROVAL_TTL", "0s"},
		{"APPROVAL_TTL", "-15m"},
		{"APPROVAL_SWEEP_INTERVAL", "0s"},
		{"TASK_COOLDOWN", "0s"},
		{"MIN_TASK_SECONDS_YOUTUBE", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			cfg, err := LoadConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "invalid ledger config")
		})
	}
}

func TestLoadConfig_IgnoresUnparsableLedgerValues(t *testing.T) {
	t.Setenv("TASKS_PER_TOKEN", "many")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(1000), cfg.Ledger.TasksPerToken)
}
