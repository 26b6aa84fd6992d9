package inapas

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"time"

	domainerrors "niaga/internal/domain/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// assertionTTL is the lifetime of one client assertion. INAPAS rejects
// assertions presented after exp, so each token request signs a fresh one.
const assertionTTL = 60 * time.Second

// assertionSigner builds RFC 7523 private-key-JWT client assertions for the
// token endpoint. Assertions are never cached: jti and timestamps are
// regenerated on every call.
type assertionSigner struct {
	clientID      string
	tokenEndpoint string
	keyID         string
	key           *ecdsa.PrivateKey

	// now is swappable for tests.
	now func() time.Time
}

func newAssertionSigner(clientID, tokenEndpoint, keyID, signingKey string) (*assertionSigner, error) {
	key, err := parseECPrivateKey(signingKey)
	if err != nil {
		return nil, errors.Wrap(err, "import signing key")
	}

	return &assertionSigner{
		clientID:      clientID,
		tokenEndpoint: tokenEndpoint,
		keyID:         keyID,
		key:           key,
		now:           time.Now,
	}, nil
}

// sign produces a compact ES512 JWT with iss = sub = client id, aud = token
// endpoint and a unique jti as replay defense.
func (s *assertionSigner) sign() (string, error) {
	jti := make([]byte, 16)
	rand.Read(jti)

	now := s.now()
	claims := jwt.MapClaims{
		"iss": s.clientID,
		"sub": s.clientID,
		"aud": s.tokenEndpoint,
		"iat": now.Unix(),
		"exp": now.Add(assertionTTL).Unix(),
		"jti": hex.EncodeToString(jti),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES512, claims)
	token.Header["kid"] = s.keyID

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrSigningFailed, err.Error())
	}

	return signed, nil
}
