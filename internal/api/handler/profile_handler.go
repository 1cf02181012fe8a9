package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kuroneko-hornet/homeworks/internal/core/ports"
	"github.com/kuroneko-hornet/homeworks/internal/core/session"
)

// SessionLookup finds the live session of a token, if one was opened.
type SessionLookup interface {
	Get(sessionID string) (*session.Session, bool)
}

type ProfileHandler struct {
	profiles ports.ProfileService
	sessions SessionLookup
}

func NewProfileHandler(profiles ports.ProfileService, sessions SessionLookup) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, sessions: sessions}
}

// Get returns the caller's profile, or 404 for a first-time user.
//
// @Summary      Get profile
// @Tags         profile
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  domain.UserProfile
// @Failure      404  {object}  map[string]string
// @Router       /v1/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	p, err := h.profiles.Get(c.Request().Context(), claims.UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Put registers or renames the caller. Past records keep the old name.
//
// @Summary      Set display name
// @Tags         profile
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      profileRequest  true  "Display name"
// @Success      200   {object}  domain.UserProfile
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/profile [put]
func (h *ProfileHandler) Put(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.profiles.Set(c.Request().Context(), claims.UID, req.DisplayName)
	if err != nil {
		return err
	}

	if h.sessions != nil {
		if s, ok := h.sessions.Get(claims.SessionID); ok {
			s.SetProfile(p)
		}
	}
	return c.JSON(http.StatusOK, p)
}
