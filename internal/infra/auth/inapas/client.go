// Package inapas implements the relying-party side of the INAPAS
// OpenID-Connect integration: authorization URL construction with PKCE,
// token exchange authenticated by ES512 private-key JWT, and decryption of
// the encrypted identity payload embedded in the ID token.
package inapas

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"niaga/config"
	"niaga/internal/domain/entity"
	domainerrors "niaga/internal/domain/errors"
	"niaga/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	authPath  = "/sso/oauth2/auth"
	tokenPath = "/sso/oauth2/token"

	// Fixed scope set: OpenID + offline access + identity assertion plus the
	// individual claim permissions the marketplace needs.
	scopes = "openid offline act:identify nik name dob email phone inapas_id"

	clientAssertionType = "urn:ietf:params:oauth:client-assertion-type:jwt-bearer"

	// requestTimeout bounds token-endpoint calls so a stalled provider
	// cannot hang a login attempt indefinitely.
	requestTimeout = 30 * time.Second
)

// Client handles the INAPAS OAuth infrastructure operations.
type Client struct {
	clientID      string
	redirectURI   string
	authEndpoint  string
	tokenEndpoint string

	signer    *assertionSigner
	decryptor *identityDecryptor
	attempts  *attemptStore

	httpClient *http.Client
}

// NewClient creates a new INAPAS client from configuration. Key material is
// imported eagerly so malformed keys fail at startup, not mid-login.
func NewClient(cfg *config.Config) (service.IdentityProvider, error) {
	inapas := cfg.Inapas
	base := strings.TrimSuffix(inapas.AuthBaseURL, "/")
	tokenEndpoint := base + tokenPath

	signer, err := newAssertionSigner(inapas.ClientID, tokenEndpoint, inapas.SigningKeyID, inapas.SigningKey)
	if err != nil {
		return nil, errors.Wrap(err, "build assertion signer")
	}

	decryptor, err := newIdentityDecryptor(inapas.EncryptionKey)
	if err != nil {
		return nil, errors.Wrap(err, "build identity decryptor")
	}

	return &Client{
		clientID:      inapas.ClientID,
		redirectURI:   inapas.RedirectURI,
		authEndpoint:  base + authPath,
		tokenEndpoint: tokenEndpoint,
		signer:        signer,
		decryptor:     decryptor,
		attempts:      newAttemptStore(),
		httpClient:    &http.Client{Timeout: requestTimeout},
	}, nil
}

// BuildAuthorizationURL constructs the authorization URL with a fresh state
// and PKCE challenge, recording both as the pending login attempt.
func (c *Client) BuildAuthorizationURL() (string, error) {
	state := randomState()
	codeVerifier, codeChallenge := generatePKCE()

	c.attempts.Begin(state, codeVerifier)

	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("redirect_uri", c.redirectURI)
	params.Set("response_type", "code")
	params.Set("state", state)
	params.Set("code_challenge_method", "S256")
	params.Set("code_challenge", codeChallenge)
	params.Set("scope", scopes)

	return c.authEndpoint + "?" + params.Encode(), nil
}

// ConsumeAttempt validates the callback state and returns the single-use
// code verifier of the pending attempt.
func (c *Client) ConsumeAttempt(state string) (string, error) {
	return c.attempts.Consume(state)
}

// ExchangeCode exchanges an authorization code for a token set.
func (c *Client) ExchangeCode(ctx context.Context, code, codeVerifier string) (*entity.TokenSet, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", c.redirectURI)
	data.Set("code_verifier", codeVerifier)
	data.Set("scope", scopes)

	return c.doTokenRequest(ctx, data)
}

// Refresh exchanges a refresh token for a new token set.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*entity.TokenSet, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)

	return c.doTokenRequest(ctx, data)
}

// DecryptIdentity recovers the verified claim set from the ID token.
func (c *Client) DecryptIdentity(idToken string) (*service.Identity, error) {
	return c.decryptor.decrypt(idToken)
}

// Provider returns the identity provider type.
func (c *Client) Provider() entity.ProviderType {
	return entity.ProviderTypeInapas
}

// doTokenRequest posts a form to the token endpoint with a freshly signed
// client assertion attached. Callers must not retry 4xx responses; those
// indicate a client or configuration error.
func (c *Client) doTokenRequest(ctx context.Context, data url.Values) (*entity.TokenSet, error) {
	assertion, err := c.signer.sign()
	if err != nil {
		return nil, errors.Wrap(err, "sign client assertion")
	}

	data.Set("client_id", c.clientID)
	data.Set("client_assertion_type", clientAssertionType)
	data.Set("client_assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenEndpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to call token endpoint")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, c.tokenError(resp)
	}

	var tokenResponse struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		IDToken      string `json:"id_token"`
		ExpiresIn    int64  `json:"expires_in"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return nil, errors.Wrap(err, "failed to decode token response")
	}

	return &entity.TokenSet{
		AccessToken:  tokenResponse.AccessToken,
		RefreshToken: tokenResponse.RefreshToken,
		IDToken:      tokenResponse.IDToken,
		ExpiresAt:    time.Now().UnixMilli() + tokenResponse.ExpiresIn*1000,
	}, nil
}

// tokenError surfaces the provider's error_description when present, else a
// generic message.
func (c *Client) tokenError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var oauthErr struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}

	description := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &oauthErr); err == nil && oauthErr.ErrorDescription != "" {
		description = oauthErr.ErrorDescription
	}
	if description == "" {
		description = http.StatusText(resp.StatusCode)
	}

	return errors.Wrapf(domainerrors.ErrTokenExchange.WithDetails(description),
		"token endpoint returned status %d", resp.StatusCode)
}
