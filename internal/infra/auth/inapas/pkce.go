package inapas

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// randomState generates the anti-CSRF state value: a SHA-256 hex digest of
// 16 cryptographically random bytes, giving a fixed-length opaque string
// backed by 128 bits of entropy.
func randomState() string {
	seed := make([]byte, 16)
	rand.Read(seed)

	digest := sha256.Sum256(seed)

	return hex.EncodeToString(digest[:])
}

// generatePKCE returns a code verifier and its S256 challenge per RFC 7636.
// The verifier is a 32-random-byte hex string; the challenge is the SHA-256
// digest of the verifier, base64url-encoded without padding.
func generatePKCE() (codeVerifier, codeChallenge string) {
	seed := make([]byte, 32)
	rand.Read(seed)

	codeVerifier = hex.EncodeToString(seed)

	digest := sha256.Sum256([]byte(codeVerifier))
	codeChallenge = base64.RawURLEncoding.EncodeToString(digest[:])

	return codeVerifier, codeChallenge
}
