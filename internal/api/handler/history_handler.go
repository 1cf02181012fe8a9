package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
	"github.com/kuroneko-hornet/homeworks/internal/core/ports"
	"github.com/kuroneko-hornet/homeworks/internal/core/session"
)

// HistoryHandler exposes the history store without per-user session state.
type HistoryHandler struct {
	history ports.HistoryService
	palette domain.Palette
	loc     *time.Location
	now     func() time.Time
}

func NewHistoryHandler(history ports.HistoryService, palette domain.Palette, loc *time.Location) *HistoryHandler {
	if loc == nil {
		loc = time.Local
	}
	return &HistoryHandler{history: history, palette: palette, loc: loc, now: time.Now}
}

// List returns one week of records grouped by day. Without start the week
// ends today.
//
// @Summary      List a week of history
// @Tags         history
// @Security     BearerAuth
// @Produce      json
// @Param        start  query     string  false  "First day, YYYY-MM-DD"
// @Success      200    {object}  historyResponse
// @Failure      422    {object}  map[string]string
// @Failure      503    {object}  map[string]string
// @Router       /v1/history [get]
func (h *HistoryHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	w := domain.NewWindow(h.now().In(h.loc))
	if start := c.QueryParam("start"); start != "" {
		day, err := domain.ParseDay(start, h.loc)
		if err != nil {
			return err
		}
		w = domain.WindowAt(day)
	}

	recs, err := h.history.Range(c.Request().Context(), w)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, historyResponse{
		Window: session.NewWindowView(w),
		Prev:   domain.DayKey(w.Prev().Start()),
		Next:   domain.DayKey(w.Next().Start()),
		Days:   session.BuildDays(recs, claims.UID, h.palette, h.loc),
	})
}

// Create records a chore for the caller under their current display name.
//
// @Summary      Record a chore
// @Tags         history
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      recordRequest  true  "Chore"
// @Success      201   {object}  domain.CompletionRecord
// @Failure      400   {object}  map[string]string
// @Failure      428   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /v1/history [post]
func (h *HistoryHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}

	var req recordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	rec, err := h.history.Record(c.Request().Context(),
		domain.ChoreTitle(req.MainCategory, req.SubCategory), profile.DisplayName, claims.UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rec)
}

// Delete removes a record. Ownership is not checked here: the screen only
// offers deletion on the caller's own records (the "mine" flag).
//
// @Summary      Delete a record
// @Tags         history
// @Security     BearerAuth
// @Param        id   path  string  true  "Record ID"
// @Success      204
// @Failure      503  {object}  map[string]string
// @Router       /v1/history/{id} [delete]
func (h *HistoryHandler) Delete(c echo.Context) error {
	if err := h.history.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
