package impl

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"niaga/internal/domain/entity"
	domainerrors "niaga/internal/domain/errors"
	"niaga/internal/domain/repository"
	"niaga/internal/domain/service"
	"niaga/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	profiles map[string]*entity.UserProfile

	upserts    []*entity.UserProfile
	savedUID   string
	savedToken *entity.TokenSet

	findErr   error
	upsertErr error
	saveErr   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{profiles: map[string]*entity.UserProfile{}}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*entity.UserProfile, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	profile, ok := r.profiles[id]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}

	return profile, nil
}

func (r *fakeUserRepo) Upsert(_ context.Context, profile *entity.UserProfile) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserts = append(r.upserts, profile)
	r.profiles[profile.ID] = profile

	return nil
}

func (r *fakeUserRepo) SaveTokens(_ context.Context, id string, tokens *entity.TokenSet) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.savedUID = id
	r.savedToken = tokens

	return nil
}

type fakeProvider struct {
	verifier    string
	consumeErr  error
	tokens      *entity.TokenSet
	exchangeErr error
	refreshed   *entity.TokenSet
	refreshErr  error
	identity    *service.Identity
	decryptErr  error

	gotState    string
	gotCode     string
	gotVerifier string
	gotRefresh  string
}

func (p *fakeProvider) BuildAuthorizationURL() (string, error) {
	return "https://sso.inapas.example/sso/oauth2/auth?state=abc", nil
}

func (p *fakeProvider) ConsumeAttempt(state string) (string, error) {
	p.gotState = state
	if p.consumeErr != nil {
		return "", p.consumeErr
	}

	return p.verifier, nil
}

func (p *fakeProvider) ExchangeCode(_ context.Context, code, codeVerifier string) (*entity.TokenSet, error) {
	p.gotCode = code
	p.gotVerifier = codeVerifier
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}

	return p.tokens, nil
}

func (p *fakeProvider) Refresh(_ context.Context, refreshToken string) (*entity.TokenSet, error) {
	p.gotRefresh = refreshToken
	if p.refreshErr != nil {
		return nil, p.refreshErr
	}

	return p.refreshed, nil
}

func (p *fakeProvider) DecryptIdentity(string) (*service.Identity, error) {
	if p.decryptErr != nil {
		return nil, p.decryptErr
	}

	return p.identity, nil
}

func (p *fakeProvider) Provider() entity.ProviderType {
	return entity.ProviderTypeInapas
}

type fakeMinter struct {
	token   string
	mintErr error

	gotUID   string
	gotEmail string
	gotName  string
	calls    int
}

func (m *fakeMinter) MintCustomToken(_ context.Context, uid, email, displayName string) (string, error) {
	m.calls++
	m.gotUID = uid
	m.gotEmail = email
	m.gotName = displayName
	if m.mintErr != nil {
		return "", m.mintErr
	}

	return m.token, nil
}

type fakePublisher struct {
	events     []*service.LoginEvent
	publishErr error
}

func (p *fakePublisher) PublishLoginEvent(_ context.Context, event *service.LoginEvent) error {
	if p.publishErr != nil {
		return p.publishErr
	}
	p.events = append(p.events, event)

	return nil
}

func (p *fakePublisher) Close() error {
	return nil
}

type testHarness struct {
	svc       usecase.IdentityUsecase
	repo      *fakeUserRepo
	provider  *fakeProvider
	minter    *fakeMinter
	publisher *fakePublisher
	now       time.Time
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	h := &testHarness{
		repo: newFakeUserRepo(),
		provider: &fakeProvider{
			verifier: "verifier-1",
			tokens: &entity.TokenSet{
				AccessToken:  "at-1",
				RefreshToken: "rt-1",
				IDToken:      "idt-1",
				ExpiresAt:    time.Now().UnixMilli() + 3600*1000,
			},
			identity: &service.Identity{
				Email:       "budi@example.co.id",
				Name:        "Budi Santoso",
				NIK:         "3173051201900001",
				Phone:       "+628123456789",
				DateOfBirth: "1990-01-12",
				InapasID:    "ipas-7f3a2b",
			},
		},
		minter:    &fakeMinter{token: "custom-token-1"},
		publisher: &fakePublisher{},
		now:       time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC),
	}

	svc := NewIdentityService(IdentityServiceParams{
		UserRepo:  h.repo,
		Provider:  h.provider,
		Minter:    h.minter,
		Publisher: h.publisher,
		Logger:    slog.New(slog.DiscardHandler),
	})

	impl, ok := svc.(*identityService)
	require.True(t, ok)
	impl.now = func() time.Time { return h.now }

	h.svc = svc

	return h
}

func callbackInput() *usecase.CallbackInput {
	return &usecase.CallbackInput{Code: "auth-code", State: "state-1"}
}

func TestHandleCallbackNewUser(t *testing.T) {
	h := newTestHarness(t)

	output, err := h.svc.HandleCallback(context.Background(), callbackInput())
	require.NoError(t, err)

	assert.Equal(t, "custom-token-1", output.CustomToken)
	assert.True(t, output.NewUser)

	// The flow passed each stage's output to the next.
	assert.Equal(t, "state-1", h.provider.gotState)
	assert.Equal(t, "auth-code", h.provider.gotCode)
	assert.Equal(t, "verifier-1", h.provider.gotVerifier)
	assert.Equal(t, "inapas_ipas-7f3a2b", h.minter.gotUID)
	assert.Equal(t, "budi@example.co.id", h.minter.gotEmail)
	assert.Equal(t, "Budi Santoso", h.minter.gotName)

	user := output.User
	assert.Equal(t, "inapas_ipas-7f3a2b", user.ID)
	assert.Equal(t, "Budi", user.FirstName)
	assert.Equal(t, "Santoso", user.LastName)
	assert.Equal(t, "3173051201900001", user.NIK)
	assert.Equal(t, "1990-01-12", user.DateOfBirth)
	assert.True(t, user.EmailVerified)
	assert.Equal(t, entity.AccountTypeConsumer, user.AccountType)
	assert.Equal(t, h.now, user.LastLogin)
	require.NotNil(t, user.InapasTokens)
	assert.Equal(t, "at-1", user.InapasTokens.AccessToken)

	require.Len(t, h.repo.upserts, 1)
	require.Len(t, h.publisher.events, 1)
	assert.Equal(t, "inapas_ipas-7f3a2b", h.publisher.events[0].UserID)
	assert.True(t, h.publisher.events[0].NewUser)
}

func TestHandleCallbackExistingUserKeepsAccountType(t *testing.T) {
	h := newTestHarness(t)
	h.repo.profiles["inapas_ipas-7f3a2b"] = &entity.UserProfile{
		ID:          "inapas_ipas-7f3a2b",
		AccountType: entity.AccountTypeMerchant,
	}

	output, err := h.svc.HandleCallback(context.Background(), callbackInput())
	require.NoError(t, err)

	assert.False(t, output.NewUser)
	assert.Equal(t, entity.AccountTypeMerchant, output.User.AccountType)
}

func TestHandleCallbackNIKFallback(t *testing.T) {
	h := newTestHarness(t)
	h.provider.identity.InapasID = ""

	output, err := h.svc.HandleCallback(context.Background(), callbackInput())
	require.NoError(t, err)

	assert.Equal(t, "inapas_3173051201900001", output.User.ID)
}

func TestHandleCallbackNoSubject(t *testing.T) {
	h := newTestHarness(t)
	h.provider.identity.InapasID = ""
	h.provider.identity.NIK = ""

	_, err := h.svc.HandleCallback(context.Background(), callbackInput())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	assert.Zero(t, h.minter.calls)
	assert.Empty(t, h.repo.upserts)
}

func TestHandleCallbackConsumeFailureAborts(t *testing.T) {
	h := newTestHarness(t)
	h.provider.consumeErr = domainerrors.ErrStateMismatch

	_, err := h.svc.HandleCallback(context.Background(), callbackInput())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrStateMismatch))
	assert.Empty(t, h.provider.gotCode)
	assert.Empty(t, h.repo.upserts)
}

func TestHandleCallbackDecryptFailureWritesNothing(t *testing.T) {
	h := newTestHarness(t)
	h.provider.decryptErr = domainerrors.ErrDecryptionFailed

	_, err := h.svc.HandleCallback(context.Background(), callbackInput())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrDecryptionFailed))
	assert.Zero(t, h.minter.calls)
	assert.Empty(t, h.repo.upserts)
	assert.Empty(t, h.publisher.events)
}

func TestHandleCallbackPublishFailureDoesNotFailLogin(t *testing.T) {
	h := newTestHarness(t)
	h.publisher.publishErr = errors.New("broker unavailable")

	output, err := h.svc.HandleCallback(context.Background(), callbackInput())

	require.NoError(t, err)
	assert.Equal(t, "custom-token-1", output.CustomToken)
}

func TestGetValidAccessToken(t *testing.T) {
	const uid = "inapas_ipas-7f3a2b"

	t.Run("unknown user", func(t *testing.T) {
		h := newTestHarness(t)

		_, err := h.svc.GetValidAccessToken(context.Background(), uid)

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
	})

	t.Run("no stored tokens", func(t *testing.T) {
		h := newTestHarness(t)
		h.repo.profiles[uid] = &entity.UserProfile{ID: uid}

		_, err := h.svc.GetValidAccessToken(context.Background(), uid)

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrNoTokens))
	})

	t.Run("fresh token returned as-is", func(t *testing.T) {
		h := newTestHarness(t)
		h.repo.profiles[uid] = &entity.UserProfile{
			ID: uid,
			InapasTokens: &entity.TokenSet{
				AccessToken:  "at-live",
				RefreshToken: "rt-live",
				ExpiresAt:    h.now.Add(time.Hour).UnixMilli(),
			},
		}

		token, err := h.svc.GetValidAccessToken(context.Background(), uid)

		require.NoError(t, err)
		assert.Equal(t, "at-live", token)
		assert.Empty(t, h.provider.gotRefresh)
	})

	t.Run("inside refresh window", func(t *testing.T) {
		h := newTestHarness(t)
		h.repo.profiles[uid] = &entity.UserProfile{
			ID: uid,
			InapasTokens: &entity.TokenSet{
				AccessToken:  "at-stale",
				RefreshToken: "rt-live",
				ExpiresAt:    h.now.Add(2 * time.Minute).UnixMilli(),
			},
		}
		h.provider.refreshed = &entity.TokenSet{
			AccessToken:  "at-refreshed",
			RefreshToken: "rt-rotated",
			ExpiresAt:    h.now.Add(time.Hour).UnixMilli(),
		}

		token, err := h.svc.GetValidAccessToken(context.Background(), uid)

		require.NoError(t, err)
		assert.Equal(t, "at-refreshed", token)
		assert.Equal(t, "rt-live", h.provider.gotRefresh)

		// The rotated set was persisted before returning.
		assert.Equal(t, uid, h.repo.savedUID)
		require.NotNil(t, h.repo.savedToken)
		assert.Equal(t, "rt-rotated", h.repo.savedToken.RefreshToken)
	})

	t.Run("expired without refresh token", func(t *testing.T) {
		h := newTestHarness(t)
		h.repo.profiles[uid] = &entity.UserProfile{
			ID: uid,
			InapasTokens: &entity.TokenSet{
				AccessToken: "at-stale",
				ExpiresAt:   h.now.Add(-time.Minute).UnixMilli(),
			},
		}

		_, err := h.svc.GetValidAccessToken(context.Background(), uid)

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrNoTokens))
	})

	t.Run("refresh failure surfaces", func(t *testing.T) {
		h := newTestHarness(t)
		h.repo.profiles[uid] = &entity.UserProfile{
			ID: uid,
			InapasTokens: &entity.TokenSet{
				AccessToken:  "at-stale",
				RefreshToken: "rt-live",
				ExpiresAt:    h.now.Add(time.Minute).UnixMilli(),
			},
		}
		h.provider.refreshErr = domainerrors.ErrTokenExchange

		_, err := h.svc.GetValidAccessToken(context.Background(), uid)

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrTokenExchange))
	})
}
