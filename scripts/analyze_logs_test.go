package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAuditLine(t *testing.T) {
	entry, ok := ParseAuditLine("AUDIT: 2026/10/18 10:00:00 kind=transfer from=w1 to=w2 amount=50 tx=t1")
	require.True(t, ok)
	assert.Equal(t, AuditEntry{Kind: "transfer", From: "w1", To: "w2", Amount: 50, TxID: "t1"}, entry)

	entry, ok = ParseAuditLine("AUDIT: 2026/10/18 10:00:00 kind=mining from=- to=w3 amount=1 tx=t2")
	require.True(t, ok)
	assert.Empty(t, entry.From)

	_, ok = ParseAuditLine("not an audit line")
	assert.False(t, ok)

	_, ok = ParseAuditLine("kind=transfer from=a to=b amount=abc tx=t")
	assert.False(t, ok)
}

func TestAnalyzeAuditLogAggregates(t *testing.T) {
	log := strings.Join([]string{
		"AUDIT: 2026/10/18 10:00:00 kind=transfer from=w1 to=w2 amount=50 tx=t1",
		"AUDIT: 2026/10/18 10:01:00 kind=transfer from=w1 to=w3 amount=25 tx=t2",
		"AUDIT: 2026/10/18 10:02:00 kind=mining from=- to=w1 amount=1 tx=t3",
	}, "\n")

	stats := newLogStats()
	analyzeAuditLog(strings.NewReader(log), stats)

	assert.Equal(t, 2, stats.EntriesByKind["transfer"])
	assert.Equal(t, int64(75), stats.VolumeByKind["transfer"])
	assert.Equal(t, 1, stats.EntriesByKind["mining"])
	assert.Equal(t, 3, stats.WalletActivity["w1"])

	var out bytes.Buffer
	printReport(&out, stats)
	assert.Contains(t, out.String(), "transfer: 2 entries, 75 tokens")
	assert.Contains(t, out.String(), "w1: 3 entries")
}
