package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const defaultPath = "."

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Inapas configuration for the federated identity provider integration
	Inapas *InapasConfig `json:"inapas" yaml:"inapas"`

	// Firebase configuration for custom-token minting and the profile store
	Firebase *FirebaseConfig `json:"firebase" yaml:"firebase"`

	// PubSub configuration for login event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`
}

// InapasConfig defines the OIDC relying-party settings for INAPAS.
type InapasConfig struct {
	// OAuth2 client identifier registered with INAPAS
	ClientID string `json:"clientId" yaml:"clientId"`

	// Redirect URI registered for the authorization code callback
	RedirectURI string `json:"redirectUri" yaml:"redirectUri"`

	// Base URL of the INAPAS SSO deployment, e.g. https://sso.inapas.id
	AuthBaseURL string `json:"authBaseUrl" yaml:"authBaseUrl"`

	// Key id published for the client's signing key
	SigningKeyID string `json:"signingKeyId" yaml:"signingKeyId"`

	// ES512 private key for client assertions, PKCS8 PEM.
	// A value not beginning with "-----BEGIN " is treated as base64 and
	// decoded before use.
	SigningKey string `json:"signingKey" yaml:"signingKey"`

	// ECDH-ES+A256KW private key for ID token payload decryption,
	// same encoding convention as SigningKey.
	EncryptionKey string `json:"encryptionKey" yaml:"encryptionKey"`
}

// FirebaseConfig defines Firebase credentials for token minting and Firestore.
// Exactly one of the credential fields should be set: inline JSON, base64
// encoded JSON, or a file path.
type FirebaseConfig struct {
	ProjectID         string `json:"projectId" yaml:"projectId"`
	CredentialsJSON   string `json:"credentialsJson" yaml:"credentialsJson"`
	CredentialsBase64 string `json:"credentialsBase64" yaml:"credentialsBase64"`
	CredentialsPath   string `json:"credentialsPath" yaml:"credentialsPath"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: INAPAS_SIGNINGKEYID -> inapas.signingKeyId (not inapas.signingkeyid)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate fails fast on missing required sections and fields so a broken
// deployment dies with a readable error instead of panicking mid-wiring.
func (cfg *Config) validate() error {
	if cfg.Inapas == nil {
		return errors.New("inapas configuration is required")
	}

	inapasFields := map[string]string{
		"inapas.clientId":      cfg.Inapas.ClientID,
		"inapas.redirectUri":   cfg.Inapas.RedirectURI,
		"inapas.authBaseUrl":   cfg.Inapas.AuthBaseURL,
		"inapas.signingKeyId":  cfg.Inapas.SigningKeyID,
		"inapas.signingKey":    cfg.Inapas.SigningKey,
		"inapas.encryptionKey": cfg.Inapas.EncryptionKey,
	}
	for key, value := range inapasFields {
		if value == "" {
			return errors.Errorf("%s is required", key)
		}
	}

	if cfg.Firebase == nil {
		return errors.New("firebase configuration is required")
	}
	if cfg.Firebase.ProjectID == "" {
		return errors.New("firebase.projectId is required")
	}
	if cfg.Firebase.CredentialsJSON == "" && cfg.Firebase.CredentialsBase64 == "" && cfg.Firebase.CredentialsPath == "" {
		return errors.New("one of firebase.credentialsJson, firebase.credentialsBase64 or firebase.credentialsPath is required")
	}

	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
