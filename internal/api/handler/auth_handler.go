package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
	"github.com/kuroneko-hornet/homeworks/internal/core/ports"
)

// SessionDropper forgets server-side session state on sign-out.
type SessionDropper interface {
	Drop(sessionID string)
}

type AuthHandler struct {
	authService ports.AuthService
	profiles    ports.ProfileService
	sessions    SessionDropper
}

func NewAuthHandler(authService ports.AuthService, profiles ports.ProfileService, sessions SessionDropper) *AuthHandler {
	return &AuthHandler{authService: authService, profiles: profiles, sessions: sessions}
}

// Register creates a new identity.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Credentials"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{User: user, NeedsProfile: true})
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	needsProfile, err := h.needsProfile(c.Request().Context(), user.UID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user, NeedsProfile: needsProfile})
}

// Logout revokes the current session token.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401   {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return err
	}
	if h.sessions != nil {
		h.sessions.Drop(claims.SessionID)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) needsProfile(ctx context.Context, uid string) (bool, error) {
	if h.profiles == nil {
		return false, nil
	}
	_, err := h.profiles.Get(ctx, uid)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, domain.ErrProfileNotFound):
		return true, nil
	default:
		return false, err
	}
}
