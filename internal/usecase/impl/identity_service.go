// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "niaga/internal/delivery/context"
	"niaga/internal/domain/entity"
	domainerrors "niaga/internal/domain/errors"
	"niaga/internal/domain/repository"
	"niaga/internal/domain/service"
	"niaga/internal/usecase"
	"niaga/internal/util"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// uidPrefix namespaces locally-minted session subjects so federated ids can
// never collide with accounts from other sign-in methods.
const uidPrefix = "inapas_"

// identityService implements the IdentityUsecase interface.
type identityService struct {
	userRepo  repository.UserProfileRepository
	provider  service.IdentityProvider
	minter    service.TokenMinter
	publisher service.EventPublisher
	logger    *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// IdentityServiceParams holds dependencies for identityService, injected by Fx.
type IdentityServiceParams struct {
	fx.In

	UserRepo  repository.UserProfileRepository
	Provider  service.IdentityProvider
	Minter    service.TokenMinter
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewIdentityService is the constructor for identityService. It receives all
// dependencies as interfaces.
func NewIdentityService(params IdentityServiceParams) usecase.IdentityUsecase {
	return &identityService{
		userRepo:  params.UserRepo,
		provider:  params.Provider,
		minter:    params.Minter,
		publisher: params.Publisher,
		logger:    params.Logger,
		now:       time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *identityService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// BeginLogin starts a fresh login attempt.
func (srv *identityService) BeginLogin(ctx context.Context) (*usecase.BeginLoginOutput, error) {
	authURL, err := srv.provider.BuildAuthorizationURL()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build authorization url")
	}

	srv.log(ctx).Debug("Started login attempt")

	return &usecase.BeginLoginOutput{AuthURL: authURL}, nil
}

// HandleCallback runs the strictly sequential callback flow: each stage's
// output is required input to the next, and any failure aborts the attempt
// before the profile write.
func (srv *identityService) HandleCallback(ctx context.Context, input *usecase.CallbackInput) (*usecase.CallbackOutput, error) {
	srv.log(ctx).Info("Handling INAPAS callback")

	// 1. Validate state and consume the single-use code verifier.
	codeVerifier, err := srv.provider.ConsumeAttempt(input.State)
	if err != nil {
		srv.log(ctx).Warn("Callback rejected", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to consume login attempt")
	}

	// 2. Exchange the authorization code.
	tokens, err := srv.provider.ExchangeCode(ctx, input.Code, codeVerifier)
	if err != nil {
		return nil, errors.Wrap(err, "failed to exchange authorization code")
	}

	// 3. Decrypt the embedded identity payload.
	identity, err := srv.provider.DecryptIdentity(tokens.IDToken)
	if err != nil {
		srv.log(ctx).Error("Identity decryption failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to decrypt identity")
	}

	uid, err := localUserID(identity)
	if err != nil {
		return nil, err
	}

	// 4. Mint the custom session token for the frontend to exchange.
	customToken, err := srv.minter.MintCustomToken(ctx, uid, identity.Email, identity.Name)
	if err != nil {
		srv.log(ctx).Error("Custom token minting failed", slog.String("uid", uid), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to mint custom token")
	}

	// 5. Upsert the profile, merging the verified claims.
	user, newUser, err := srv.upsertProfile(ctx, uid, identity, tokens)
	if err != nil {
		return nil, err
	}

	srv.publishLoginEvent(ctx, user, newUser)

	srv.log(ctx).Info("INAPAS login completed", slog.String("uid", uid), slog.Bool("new_user", newUser))

	return &usecase.CallbackOutput{
		CustomToken: customToken,
		User:        user,
		NewUser:     newUser,
	}, nil
}

// localUserID derives the namespaced session subject, preferring the
// federated id and falling back to the national id.
func localUserID(identity *service.Identity) (string, error) {
	subject := identity.InapasID
	if subject == "" {
		subject = identity.NIK
	}
	if subject == "" {
		return "", domainerrors.ErrValidationFailed.WrapMessage("decrypted identity carries no subject identifier")
	}

	return uidPrefix + subject, nil
}

func (srv *identityService) upsertProfile(ctx context.Context, uid string, identity *service.Identity, tokens *entity.TokenSet) (*entity.UserProfile, bool, error) {
	existing, err := srv.userRepo.FindByID(ctx, uid)
	newUser := false
	if err != nil {
		if !errors.Is(err, repository.ErrProfileNotFound) {
			return nil, false, errors.Wrap(err, "failed to load existing profile")
		}
		newUser = true
	}

	firstName, lastName := util.SplitFullName(identity.Name)

	profile := &entity.UserProfile{
		ID:            uid,
		Email:         identity.Email,
		FirstName:     firstName,
		LastName:      lastName,
		NIK:           identity.NIK,
		Phone:         identity.Phone,
		DateOfBirth:   identity.DateOfBirth,
		InapasID:      identity.InapasID,
		EmailVerified: true,
		LastLogin:     srv.now(),
		InapasTokens:  tokens,
	}

	// Classification is sticky: only brand-new accounts get the default.
	if existing == nil || existing.AccountType == "" {
		profile.AccountType = entity.AccountTypeConsumer
	} else {
		profile.AccountType = existing.AccountType
	}

	if err := srv.userRepo.Upsert(ctx, profile); err != nil {
		return nil, false, errors.Wrap(err, "failed to upsert user profile")
	}

	return profile, newUser, nil
}

// publishLoginEvent is fire-and-forget: a publishing failure must never fail
// a login that already succeeded.
func (srv *identityService) publishLoginEvent(ctx context.Context, user *entity.UserProfile, newUser bool) {
	event := &service.LoginEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		UserID:    user.ID,
		Provider:  string(srv.provider.Provider()),
		Email:     user.Email,
		NewUser:   newUser,
		LoginAt:   srv.now().UTC().Format(time.RFC3339),
	}

	if err := srv.publisher.PublishLoginEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish login event", slog.String("user_id", user.ID), slog.Any("error", err))
	}
}

// GetValidAccessToken returns the stored access token, refreshing it first
// when it expires within the safety window. This is the only re-entry point
// for keeping a session alive outside the initial login.
func (srv *identityService) GetValidAccessToken(ctx context.Context, userID string) (string, error) {
	profile, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return "", errors.Wrap(domainerrors.ErrUserNotFound, "no profile for access token request")
		}

		return "", errors.Wrap(err, "failed to load profile")
	}

	tokens := profile.InapasTokens
	if tokens == nil || tokens.AccessToken == "" {
		return "", errors.Wrap(domainerrors.ErrNoTokens, "profile has no stored token set")
	}

	if !tokens.ExpiresWithin(srv.now(), entity.RefreshWindow) {
		return tokens.AccessToken, nil
	}

	// Inside the safety window: an expired set without a usable refresh
	// token forces re-authentication.
	if tokens.RefreshToken == "" {
		return "", errors.Wrap(domainerrors.ErrNoTokens, "token set expired without refresh token")
	}

	srv.log(ctx).Debug("Refreshing access token", slog.String("user_id", userID))

	refreshed, err := srv.provider.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		return "", errors.Wrap(err, "failed to refresh token set")
	}

	if err := srv.userRepo.SaveTokens(ctx, userID, refreshed); err != nil {
		return "", errors.Wrap(err, "failed to persist refreshed token set")
	}

	return refreshed.AccessToken, nil
}
