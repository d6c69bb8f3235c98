package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignedURLSigner mints and verifies self-contained download tokens
// for payment slips. A token carries the slip ID, an expiry, and the
// stored file path, bound together by an HMAC so none of them can be
// altered. Tokens never touch the database.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewSignedURLSigner builds a signer. A non-positive ttl defaults to
// 24 hours.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl}
}

// Token layout: slipID.expiryUnix.base64url(path).hexHMAC

// Generate mints a token for the given slip and stored path.
func (s *SignedURLSigner) Generate(slipID, relPath string) (string, time.Time, error) {
	if slipID == "" || relPath == "" {
		return "", time.Time{}, fmt.Errorf("slipID and relPath required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}

	expiresAt := time.Now().Add(s.ttl)
	exp := strconv.FormatInt(expiresAt.Unix(), 10)
	path := base64.RawURLEncoding.EncodeToString([]byte(relPath))

	token := strings.Join([]string{slipID, exp, path, s.sign(slipID, exp, path)}, ".")
	return token, expiresAt, nil
}

// Parse verifies a token and returns what it carries. With
// allowExpired the expiry check is skipped so admins can recover the
// path behind a stale link.
func (s *SignedURLSigner) Parse(token string, allowExpired bool) (slipID, relPath string, expiresAt time.Time, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", "", time.Time{}, fmt.Errorf("invalid token format")
	}
	slipID, exp, path, sig := parts[0], parts[1], parts[2], parts[3]

	if !hmac.Equal([]byte(s.sign(slipID, exp, path)), []byte(sig)) {
		return "", "", time.Time{}, fmt.Errorf("invalid token signature")
	}

	rawPath, err := base64.RawURLEncoding.DecodeString(path)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("decode path: %w", err)
	}
	expUnix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("invalid timestamp")
	}
	expiresAt = time.Unix(expUnix, 0)

	if !allowExpired && time.Now().After(expiresAt) {
		return "", "", time.Time{}, fmt.Errorf("token expired")
	}
	return slipID, string(rawPath), expiresAt, nil
}

func (s *SignedURLSigner) sign(slipID, exp, encodedPath string) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%s|%s", slipID, exp, encodedPath)
	return hex.EncodeToString(mac.Sum(nil))
}
