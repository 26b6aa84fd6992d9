package inapas

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"strings"

	domainerrors "niaga/internal/domain/errors"

	"github.com/pkg/errors"
)

const pemHeaderPrefix = "-----BEGIN "

// parseECPrivateKey loads a PKCS8 PEM private key from a config value.
// Deployment tooling often cannot carry multi-line PEM in environment
// variables, so a value not beginning with the PEM header is treated as
// base64-wrapped PEM and decoded first.
func parseECPrivateKey(raw string) (*ecdsa.PrivateKey, error) {
	material := strings.TrimSpace(raw)
	if material == "" {
		return nil, domainerrors.ErrKeyImport.WrapMessage("private key is empty")
	}

	if !strings.HasPrefix(material, pemHeaderPrefix) {
		decoded, err := base64.StdEncoding.DecodeString(material)
		if err != nil {
			return nil, domainerrors.ErrKeyImport.WrapMessage("private key is neither PEM nor base64")
		}
		material = string(decoded)
	}

	block, _ := pem.Decode([]byte(material))
	if block == nil {
		return nil, domainerrors.ErrKeyImport.WrapMessage("no PEM block found in private key")
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrKeyImport, err.Error())
	}

	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, domainerrors.ErrKeyImport.WrapMessage("private key is not an EC key")
	}

	return key, nil
}
