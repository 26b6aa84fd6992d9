package inapas

import (
	"crypto/elliptic"
	"encoding/json"
	"testing"

	domainerrors "niaga/internal/domain/errors"
	"niaga/internal/domain/service"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encryptPayload produces a compact JWE the way the provider does, encrypted
// to the given PEM key.
func encryptPayload(t *testing.T, pemKey string, payload []byte) string {
	t.Helper()

	key, err := parseECPrivateKey(pemKey)
	require.NoError(t, err)

	encrypter, err := jose.NewEncrypter(
		jose.A256GCM,
		jose.Recipient{Algorithm: jose.ECDH_ES_A256KW, Key: &key.PublicKey},
		nil,
	)
	require.NoError(t, err)

	jwe, err := encrypter.Encrypt(payload)
	require.NoError(t, err)

	compact, err := jwe.CompactSerialize()
	require.NoError(t, err)

	return compact
}

// wrapInIDToken embeds the claims in a signed outer JWT. The decryptor never
// verifies the outer signature, so any signing key works here.
func wrapInIDToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("outer-transport-key"))
	require.NoError(t, err)

	return signed
}

func TestDecryptIdentity(t *testing.T) {
	_, pemKey := newTestKey(t, elliptic.P256())

	decryptor, err := newIdentityDecryptor(pemKey)
	require.NoError(t, err)

	identity := service.Identity{
		Email:       "budi@example.co.id",
		Name:        "Budi Santoso",
		NIK:         "3173051201900001",
		Phone:       "+628123456789",
		DateOfBirth: "1990-01-12",
		InapasID:    "ipas-7f3a2b",
	}
	payload, err := json.Marshal(identity)
	require.NoError(t, err)

	idToken := wrapInIDToken(t, jwt.MapClaims{
		"iss":            "https://sso.inapas.example",
		"sub":            identity.InapasID,
		"encrypted_data": encryptPayload(t, pemKey, payload),
	})

	got, err := decryptor.decrypt(idToken)

	require.NoError(t, err)
	assert.Equal(t, &identity, got)
}

func TestDecryptIdentityMissingPayload(t *testing.T) {
	_, pemKey := newTestKey(t, elliptic.P256())

	decryptor, err := newIdentityDecryptor(pemKey)
	require.NoError(t, err)

	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{name: "no claim", claims: jwt.MapClaims{"sub": "ipas-7f3a2b"}},
		{name: "empty claim", claims: jwt.MapClaims{"encrypted_data": ""}},
		{name: "non-string claim", claims: jwt.MapClaims{"encrypted_data": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decryptor.decrypt(wrapInIDToken(t, tt.claims))

			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrMissingEncryptedPayload))
		})
	}
}

func TestDecryptIdentityFailures(t *testing.T) {
	_, pemKey := newTestKey(t, elliptic.P256())
	_, wrongPemKey := newTestKey(t, elliptic.P256())

	decryptor, err := newIdentityDecryptor(pemKey)
	require.NoError(t, err)

	t.Run("malformed outer token", func(t *testing.T) {
		_, err := decryptor.decrypt("not-a-jwt")

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrDecryptionFailed))
	})

	t.Run("payload is not a JWE", func(t *testing.T) {
		idToken := wrapInIDToken(t, jwt.MapClaims{"encrypted_data": "garbage"})

		_, err := decryptor.decrypt(idToken)

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrDecryptionFailed))
	})

	t.Run("encrypted to a different key", func(t *testing.T) {
		payload, marshalErr := json.Marshal(service.Identity{Email: "budi@example.co.id"})
		require.NoError(t, marshalErr)

		idToken := wrapInIDToken(t, jwt.MapClaims{
			"encrypted_data": encryptPayload(t, wrongPemKey, payload),
		})

		_, err := decryptor.decrypt(idToken)

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrDecryptionFailed))
	})

	t.Run("plaintext is not json", func(t *testing.T) {
		idToken := wrapInIDToken(t, jwt.MapClaims{
			"encrypted_data": encryptPayload(t, pemKey, []byte("plain text, not json")),
		})

		_, err := decryptor.decrypt(idToken)

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrDecryptionFailed))
	})
}
