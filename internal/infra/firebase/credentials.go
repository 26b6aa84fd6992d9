package firebase

import (
	"encoding/base64"

	"niaga/config"

	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// ResolveCredentials picks the signing-credential supply mechanism from
// configuration: inline JSON, base64-encoded JSON, or a file path. Every
// Firebase-family client (Admin SDK, Firestore) must resolve through here so
// minting and profile storage always run under the same identity.
func ResolveCredentials(cfg *config.FirebaseConfig) (option.ClientOption, error) {
	switch {
	case cfg.CredentialsJSON != "":
		return option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)), nil

	case cfg.CredentialsBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(cfg.CredentialsBase64)
		if err != nil {
			return nil, errors.Wrap(err, "decode base64 firebase credentials")
		}

		return option.WithCredentialsJSON(decoded), nil

	case cfg.CredentialsPath != "":
		return option.WithCredentialsFile(cfg.CredentialsPath), nil

	default:
		return nil, errors.New("no firebase credentials configured")
	}
}
