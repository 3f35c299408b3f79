package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-session-secret"

func TestSessionTokenRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	token := MintSessionToken(testSecret, now)

	expires, err := ValidateSessionToken(testSecret, token, 8*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(8*time.Hour).Unix(), expires.Unix())

	// Still valid just before the cutoff.
	_, err = ValidateSessionToken(testSecret, token, 8*time.Hour, now.Add(8*time.Hour-time.Second))
	require.NoError(t, err)
}

func TestSessionTokenExpiry(t *testing.T) {
	now := time.Now()
	token := MintSessionToken(testSecret, now)

	// A token older than the max age is rejected even though the
	// signature is valid.
	_, err := ValidateSessionToken(testSecret, token, 8*time.Hour, now.Add(8*time.Hour+time.Minute))
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSessionTokenTamperedSignature(t *testing.T) {
	now := time.Now()
	token := MintSessionToken(testSecret, now)

	parts := strings.SplitN(token, ":", 2)
	require.Len(t, parts, 2)

	flipped := "0"
	if parts[1][0] == '0' {
		flipped = "1"
	}
	tampered := parts[0] + ":" + flipped + parts[1][1:]

	// Rejected regardless of age.
	_, err := ValidateSessionToken(testSecret, tampered, 8*time.Hour, now)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	now := time.Now()
	token := MintSessionToken(testSecret, now)

	_, err := ValidateSessionToken("another-secret", token, 8*time.Hour, now)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestSessionTokenMalformed(t *testing.T) {
	now := time.Now()

	cases := []string{
		"",
		"no-separator",
		":signature-only",
		"1710000000:",
		"not-a-number:deadbeef",
	}

	for _, token := range cases {
		_, err := ValidateSessionToken(testSecret, token, 8*time.Hour, now)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}

func TestSessionTokenFutureTimestamp(t *testing.T) {
	now := time.Now()
	token := MintSessionToken(testSecret, now.Add(2*time.Hour))

	_, err := ValidateSessionToken(testSecret, token, 8*time.Hour, now)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
