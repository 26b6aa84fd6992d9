package handler

import (
	"log/slog"
	"net/http"

	"niaga/internal/delivery/http/response"
	"niaga/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// TokenHandler exposes the custom-token minting bridge for trusted
// first-party frontends that already hold a verified subject.
type TokenHandler struct {
	minter service.TokenMinter
	logger *slog.Logger
}

// NewTokenHandler is the constructor for TokenHandler, injected by Fx.
func NewTokenHandler(minter service.TokenMinter, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		minter: minter,
		logger: logger,
	}
}

// CreateTokenRequest is the body of the custom-token endpoint.
type CreateTokenRequest struct {
	UID         string `json:"uid" validate:"required,min=3,max=128,uid_charset"`
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName" validate:"omitempty,min=1,max=128"`
}

// CreateCustomToken mints a session custom token for the given subject.
func (h *TokenHandler) CreateCustomToken(c echo.Context) error {
	var input CreateTokenRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid token request body")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	token, err := h.minter.MintCustomToken(c.Request().Context(), input.UID, input.Email, input.DisplayName)
	if err != nil {
		h.logger.Error("Custom token minting failed", slog.String("uid", input.UID), slog.Any("error", err))

		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"token": token,
	}, "Custom token created successfully")
}
