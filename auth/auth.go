// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken  = errors.New("invalid token format")
	ErrBadSignature  = errors.New("token signature mismatch")
	ErrSecretInvalid = errors.New("secret does not match")
)

// HashCost is the bcrypt work factor for new credential hashes.
var HashCost = bcrypt.DefaultCost

// GenerateSessionToken creates a random secure token for a session
func GenerateSessionToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// SignToken appends an HMAC-SHA256 signature to token: "<token>.<sig>".
func SignToken(token, secret string) string {
	return token + "." + signature(token, secret)
}

// VerifyToken checks a signed token and returns the token part
func VerifyToken(signed, secret string) (string, error) {
	token, sig, ok := strings.Cut(signed, ".")
	if !ok || token == "" || sig == "" {
		return "", ErrInvalidToken
	}
	expected := signature(token, secret)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrBadSignature
	}
	return token, nil
}

func signature(token, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(token))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding so the value is cookie-safe
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// HashSecret returns the bcrypt hash of a plaintext secret
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), HashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hash), nil
}

// CompareSecret checks secret against a bcrypt hash in constant time
func CompareSecret(hash, secret string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		return ErrSecretInvalid
	}
	return nil
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// CompareDummy spends the same work as CompareSecret against a fixed hash.
// Used when the account does not exist so lookups of unknown emails take
// as long as wrong passwords.
func CompareDummy(secret string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("ballotbox-dummy-secret"), HashCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(secret))
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
