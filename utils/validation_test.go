package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHandle(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Alice", "@alice", true},
		{"@Bob_99", "@bob_99", true},
		{"  c.a-r!l ", "@carl", true},
		{"ab", "", false},
		{"@@!", "", false},
		{"abcdefghijklmnopqrstuvwxyz", "@abcdefghijklmnopqrst", true},
	}
	for _, tc := range cases {
		got, ok := NormalizeHandle(tc.in)
		assert.Equal(t, tc.wantOK, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestCleanHandleKeepsShortFragments(t *testing.T) {
	assert.Equal(t, "al", CleanHandle("@Al"))
	assert.Equal(t, "", CleanHandle("@"))
}

func TestValidatePassword(t *testing.T) {
	ok, _ := ValidatePassword("Secret@123")
	assert.True(t, ok)

	ok, msg := ValidatePassword("short")
	assert.False(t, ok)
	assert.Contains(t, msg, "8 characters")

	ok, _ = ValidatePassword("nouppercase1!")
	assert.False(t, ok)
}
