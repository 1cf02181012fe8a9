package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kuroneko-hornet/homeworks/internal/core/ports"
	"github.com/kuroneko-hornet/homeworks/internal/core/session"
)

// SessionOpener returns the live session for a token, creating it on first use.
type SessionOpener interface {
	Open(ctx context.Context, claims ports.Claims) (*session.Session, error)
}

// SessionHandler drives the interactive home screen: week paging and the
// chore picker. Every endpoint answers with the full session view.
type SessionHandler struct {
	sessions SessionOpener
	log      zerolog.Logger
}

func NewSessionHandler(sessions SessionOpener, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, log: log}
}

func (h *SessionHandler) open(c echo.Context) (*session.Session, error) {
	claims, err := ctxClaims(c)
	if err != nil {
		return nil, err
	}
	return h.sessions.Open(c.Request().Context(), claims)
}

// viewOrError renders v on success. On failure the error handler answers
// and the session keeps its previous state.
func viewOrError(c echo.Context, v session.View, err error) error {
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// Get returns the current view.
//
// @Summary      Session view
// @Tags         session
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  session.View
// @Failure      503  {object}  map[string]string
// @Router       /v1/session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	s, err := h.open(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.View())
}

// Reload re-fetches the taxonomy choices and the current window.
//
// @Summary      Reload session lists
// @Tags         session
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  session.View
// @Router       /v1/session/reload [post]
func (h *SessionHandler) Reload(c echo.Context) error {
	s, err := h.open(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := s.ReloadChoices(ctx); err != nil {
		return err
	}
	v, err := s.Refresh(ctx)
	return viewOrError(c, v, err)
}

// Prev pages the window one week back.
//
// @Summary      Previous week
// @Tags         session
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  session.View
// @Router       /v1/session/window/prev [post]
func (h *SessionHandler) Prev(c echo.Context) error {
	s, err := h.open(c)
	if err != nil {
		return err
	}
	v, err := s.PageBackward(c.Request().Context())
	return viewOrError(c, v, err)
}

// Next pages the window one week forward.
//
// @Summary      Next week
// @Tags         session
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  session.View
// @Router       /v1/session/window/next [post]
func (h *SessionHandler) Next(c echo.Context) error {
	s, err := h.open(c)
	if err != nil {
		return err
	}
	v, err := s.PageForward(c.Request().Context())
	return viewOrError(c, v, err)
}

// Today jumps back to the 7 days ending today.
//
// @Summary      Current week
// @Tags         session
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  session.View
// @Router       /v1/session/window/today [post]
func (h *SessionHandler) Today(c echo.Context) error {
	s, err := h.open(c)
	if err != nil {
		return err
	}
	v, err := s.ResetWindow(c.Request().Context())
	return viewOrError(c, v, err)
}

// ChooseMain picks the main category.
//
// @Summary      Choose main category
// @Tags         session
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      choiceRequest  true  "Main category"
// @Success      200   {object}  session.View
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/session/selection/main [post]
func (h *SessionHandler) ChooseMain(c echo.Context) error {
	return h.choose(c, (*session.Session).ChooseMain)
}

// ChooseSub picks the subcategory of the chosen main category.
//
// @Summary      Choose subcategory
// @Tags         session
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      choiceRequest  true  "Subcategory"
// @Success      200   {object}  session.View
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/session/selection/sub [post]
func (h *SessionHandler) ChooseSub(c echo.Context) error {
	return h.choose(c, (*session.Session).ChooseSub)
}

func (h *SessionHandler) choose(c echo.Context, pick func(*session.Session, string) (session.View, error)) error {
	var req choiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := h.open(c)
	if err != nil {
		return err
	}
	v, err := pick(s, req.Name)
	return viewOrError(c, v, err)
}

// Back clears the main category.
//
// @Summary      Back to main categories
// @Tags         session
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  session.View
// @Failure      409  {object}  map[string]string
// @Router       /v1/session/selection/back [post]
func (h *SessionHandler) Back(c echo.Context) error {
	s, err := h.open(c)
	if err != nil {
		return err
	}
	v, err := s.Back()
	return viewOrError(c, v, err)
}

// Reselect clears the subcategory only.
//
// @Summary      Reselect subcategory
// @Tags         session
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  session.View
// @Failure      409  {object}  map[string]string
// @Router       /v1/session/selection/reselect [post]
func (h *SessionHandler) Reselect(c echo.Context) error {
	s, err := h.open(c)
	if err != nil {
		return err
	}
	v, err := s.Reselect()
	return viewOrError(c, v, err)
}

// Confirm records the selected chore and resets the picker.
//
// @Summary      Confirm chore
// @Tags         session
// @Security     BearerAuth
// @Produce      json
// @Success      201  {object}  confirmResponse
// @Failure      409  {object}  map[string]string
// @Failure      428  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /v1/session/selection/confirm [post]
func (h *SessionHandler) Confirm(c echo.Context) error {
	s, err := h.open(c)
	if err != nil {
		return err
	}

	v, rec, err := s.Confirm(c.Request().Context())
	if rec == nil {
		return err
	}
	if err != nil {
		// The record is stored; only the follow-up window fetch failed.
		h.log.Warn().Err(err).Str("session", s.ID()).Msg("refresh after confirm failed")
	}
	return c.JSON(http.StatusCreated, confirmResponse{Record: rec, View: v})
}
