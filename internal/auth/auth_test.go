package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	s := NewTokenService(testSecret, "career-engine", 0)
	userID := uuid.New()

	token, err := s.Issue(userID)
	require.NoError(t, err)

	got, err := s.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenDefaultExpiry(t *testing.T) {
	s := NewTokenService(testSecret, "career-engine", 0)
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }

	token, err := s.Issue(uuid.New())
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(23 * time.Hour) }
	_, err = s.Validate(token)
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(25 * time.Hour) }
	_, err = s.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
	assert.Contains(t, err.Error(), "expired")
}

func TestTokenRejectsTampering(t *testing.T) {
	s := NewTokenService(testSecret, "career-engine", time.Hour)
	token, err := s.Issue(uuid.New())
	require.NoError(t, err)

	other := NewTokenService("another-secret-of-enough-length", "career-engine", time.Hour)
	_, err = other.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer := NewTokenService(testSecret, "someone-else", time.Hour)
	_, err = wrongIssuer.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	_, err = s.Validate(parts[0] + "." + parts[1] + ".AAAA")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Validate("")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsNoneAlgorithm(t *testing.T) {
	s := NewTokenService(testSecret, "career-engine", time.Hour)
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:           uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "career-engine"},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	require.NoError(t, h.Verify("secret123", hash))
	require.ErrorIs(t, h.Verify("wrong", hash), ErrInvalidCredentials)
}

func TestHasherCostFallback(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(99).cost)
	assert.Equal(t, 12, NewHasher(12).cost)
}

func TestHasherReject(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	require.ErrorIs(t, h.Reject("secret123"), ErrInvalidCredentials)
	require.NotEmpty(t, h.dummy)
	assert.Equal(t, bcrypt.MinCost, mustCost(t, h.dummy))

	// The dummy hash is built once and reused
	first := h.dummy
	require.ErrorIs(t, h.Reject(""), ErrInvalidCredentials)
	assert.Equal(t, first, h.dummy)
}

func mustCost(t *testing.T, hash []byte) int {
	t.Helper()
	cost, err := bcrypt.Cost(hash)
	require.NoError(t, err)
	return cost
}
