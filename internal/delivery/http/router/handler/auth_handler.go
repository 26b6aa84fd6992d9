// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"niaga/internal/delivery/http/response"
	domainerrors "niaga/internal/domain/errors"
	"niaga/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for the federated login handlers.
type AuthHandler struct {
	uc     usecase.IdentityUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.IdentityUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		logger: logger,
	}
}

// Login initiates the INAPAS Sign-In flow.
func (h *AuthHandler) Login(c echo.Context) error {
	output, err := h.uc.BeginLogin(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	// Browsers get sent straight to the provider; API clients get the URL.
	if c.QueryParam("redirect") == "true" {
		return c.Redirect(http.StatusTemporaryRedirect, output.AuthURL)
	}

	return response.Success(c, http.StatusOK, output, "Authorization URL generated successfully")
}

// Callback handles the INAPAS authorization-code callback.
func (h *AuthHandler) Callback(c echo.Context) error {
	// The provider reports user denial and its own failures through the
	// error query parameter instead of a code.
	if providerErr := c.QueryParam("error"); providerErr != "" {
		details := c.QueryParam("error_description")
		if details == "" {
			details = providerErr
		}

		return domainerrors.ErrProviderDenied.WithDetails(details)
	}

	input := &usecase.CallbackInput{
		Code:  c.QueryParam("code"),
		State: c.QueryParam("state"),
	}
	if input.Code == "" || input.State == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Callback requires both code and state")
	}

	output, err := h.uc.HandleCallback(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// RefreshRequest is the body of the token refresh endpoint.
type RefreshRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// Refresh returns a live provider access token for the user, refreshing the
// stored set first when it is about to expire.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var input RefreshRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	accessToken, err := h.uc.GetValidAccessToken(c.Request().Context(), input.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"access_token": accessToken,
	}, "Token refreshed successfully")
}
