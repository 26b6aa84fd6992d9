package inapas

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePKCE(t *testing.T) {
	verifier, challenge := generatePKCE()

	// The verifier is the hex encoding of 32 random bytes.
	assert.Len(t, verifier, 64)
	_, err := hex.DecodeString(verifier)
	require.NoError(t, err)

	// S256: challenge is the unpadded base64url SHA-256 of the verifier.
	digest := sha256.Sum256([]byte(verifier))
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(digest[:]), challenge)
	assert.False(t, strings.ContainsAny(challenge, "=+/"))
}

func TestGeneratePKCEUnique(t *testing.T) {
	firstVerifier, firstChallenge := generatePKCE()
	secondVerifier, secondChallenge := generatePKCE()

	assert.NotEqual(t, firstVerifier, secondVerifier)
	assert.NotEqual(t, firstChallenge, secondChallenge)
}

func TestRandomState(t *testing.T) {
	state := randomState()

	// SHA-256 hex digest is always 64 characters.
	assert.Len(t, state, 64)
	_, err := hex.DecodeString(state)
	require.NoError(t, err)

	assert.NotEqual(t, state, randomState())
}
