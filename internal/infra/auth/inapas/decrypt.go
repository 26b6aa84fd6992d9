package inapas

import (
	"crypto/ecdsa"
	"encoding/json"

	domainerrors "niaga/internal/domain/errors"
	"niaga/internal/domain/service"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// encryptedDataClaim is the claim of the outer ID token that carries the
// compact JWE with the user's verified identity.
const encryptedDataClaim = "encrypted_data"

// keyAlgorithms and contentEncryptions restrict which JWE algorithms are
// accepted when parsing the encrypted payload.
var (
	keyAlgorithms      = []jose.KeyAlgorithm{jose.ECDH_ES_A256KW}
	contentEncryptions = []jose.ContentEncryption{jose.A128CBC_HS256, jose.A256GCM, jose.A256CBC_HS512}
)

// identityDecryptor recovers the verified claim set from an INAPAS ID token.
//
// The outer JWT's signature is deliberately not verified: it is transport
// for the embedded JWE, and the real claims are protected by the encryption
// itself. See the provider integration notes before changing this.
type identityDecryptor struct {
	key *ecdsa.PrivateKey
}

func newIdentityDecryptor(encryptionKey string) (*identityDecryptor, error) {
	key, err := parseECPrivateKey(encryptionKey)
	if err != nil {
		return nil, errors.Wrap(err, "import encryption key")
	}

	return &identityDecryptor{key: key}, nil
}

// decrypt extracts the encrypted_data claim from the ID token, decrypts it
// and parses the plaintext as the identity claim set. It never returns
// partial claims: any failure past the claim extraction is a DecryptionError.
func (d *identityDecryptor) decrypt(idToken string) (*service.Identity, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(idToken, claims); err != nil {
		return nil, errors.Wrap(domainerrors.ErrDecryptionFailed, err.Error())
	}

	payload, ok := claims[encryptedDataClaim].(string)
	if !ok || payload == "" {
		return nil, domainerrors.ErrMissingEncryptedPayload.WrapMessage("id token has no encrypted_data claim")
	}

	jwe, err := jose.ParseEncrypted(payload, keyAlgorithms, contentEncryptions)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrDecryptionFailed, err.Error())
	}

	plaintext, err := jwe.Decrypt(d.key)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrDecryptionFailed, err.Error())
	}

	var identity service.Identity
	if err := json.Unmarshal(plaintext, &identity); err != nil {
		return nil, errors.Wrap(domainerrors.ErrDecryptionFailed, err.Error())
	}

	return &identity, nil
}
