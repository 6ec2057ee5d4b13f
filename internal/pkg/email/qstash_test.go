package email

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zachm/hooprun/internal/pkg/apperrors"
)

func signQStash(t *testing.T, key string, body []byte, issuer string) string {
	t.Helper()

	sum := sha256.Sum256(body)
	claims := jwt.MapClaims{
		"iss":  issuer,
		"body": base64.URLEncoding.EncodeToString(sum[:]),
		"exp":  time.Now().Add(5 * time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func TestVerifyQStashSignature(t *testing.T) {
	body := []byte(`{"to":["a@x.test"],"subject":"hi"}`)

	sig := signQStash(t, "current-key", body, "Upstash")
	assert.NoError(t, VerifyQStashSignature(sig, body, "current-key", "next-key"))

	// A job signed with the rotated-in key still verifies
	sig = signQStash(t, "next-key", body, "Upstash")
	assert.NoError(t, VerifyQStashSignature(sig, body, "current-key", "next-key"))
}

func TestVerifyQStashSignatureRejects(t *testing.T) {
	body := []byte(`{"subject":"hi"}`)

	sig := signQStash(t, "someone-elses-key", body, "Upstash")
	assert.ErrorIs(t, VerifyQStashSignature(sig, body, "current-key", "next-key"), apperrors.ErrTokenInvalid)

	sig = signQStash(t, "current-key", body, "NotUpstash")
	assert.ErrorIs(t, VerifyQStashSignature(sig, body, "current-key"), apperrors.ErrTokenInvalid)

	// Valid signature over a different payload
	sig = signQStash(t, "current-key", []byte(`{"subject":"tampered"}`), "Upstash")
	assert.ErrorIs(t, VerifyQStashSignature(sig, body, "current-key"), apperrors.ErrTokenInvalid)

	assert.ErrorIs(t, VerifyQStashSignature("not-a-jwt", body, "current-key"), apperrors.ErrTokenInvalid)
	assert.ErrorIs(t, VerifyQStashSignature(signQStash(t, "current-key", body, "Upstash"), body), apperrors.ErrTokenInvalid)
}
