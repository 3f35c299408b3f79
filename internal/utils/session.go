package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Admin session tokens are stateless: "timestamp:signature" where the
// signature is HMAC-SHA256 over "admin:"+timestamp. Expiry is purely
// time-based; there is no revocation list.

var (
	ErrTokenMalformed = errors.New("malformed session token")
	ErrTokenExpired   = errors.New("session token expired")
	ErrTokenSignature = errors.New("invalid session token signature")
)

// MintSessionToken creates a new admin session token valid from now.
func MintSessionToken(secret string, now time.Time) string {
	ts := strconv.FormatInt(now.Unix(), 10)
	return ts + ":" + signSession(secret, ts)
}

// ValidateSessionToken checks format, age and signature. The signature check
// runs even for expired tokens so both failures report consistently, and the
// comparison is constant-time.
func ValidateSessionToken(secret, token string, maxAge time.Duration, now time.Time) (time.Time, error) {
	parts := strings.SplitN(token, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return time.Time{}, ErrTokenMalformed
	}

	ts, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, ErrTokenMalformed
	}

	expected := signSession(secret, parts[0])
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return time.Time{}, ErrTokenSignature
	}

	issued := time.Unix(ts, 0)
	expires := issued.Add(maxAge)
	if now.After(expires) || issued.After(now.Add(time.Minute)) {
		return time.Time{}, ErrTokenExpired
	}

	return expires, nil
}

func signSession(secret, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "admin:%s", timestamp)
	return hex.EncodeToString(mac.Sum(nil))
}
