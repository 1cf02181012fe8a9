package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
	"github.com/kuroneko-hornet/homeworks/internal/core/ports"
	"github.com/kuroneko-hornet/homeworks/internal/core/session"
)

func TestProfileHandler_Get(t *testing.T) {
	e := newEcho()
	profiles := &stubProfileService{profiles: map[string]domain.UserProfile{"u1": {UID: "u1", DisplayName: "Alice"}}}
	handler := NewProfileHandler(profiles, nil)

	c, rec := newJSONContext(e, http.MethodGet, "/v1/profile", "")
	withClaims(c, "u1", nil)
	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["display_name"] != "Alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	c, _ = newJSONContext(e, http.MethodGet, "/v1/profile", "")
	withClaims(c, "u2", nil)
	if err := handler.Get(c); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestProfileHandler_Put_UpdatesLiveSession(t *testing.T) {
	e := newEcho()
	profiles := &stubProfileService{}
	history := &stubHistoryService{}
	manager := session.NewManager(session.Deps{
		History:  history,
		Choices:  &stubTaxonomyService{},
		Profiles: profiles,
		Log:      zerolog.Nop(),
	})
	s, err := manager.Open(t.Context(), ports.Claims{UID: "u1", SessionID: "sid-u1"})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if s.HasProfile() {
		t.Fatalf("expected first-time user")
	}
	handler := NewProfileHandler(profiles, manager)

	c, rec := newJSONContext(e, http.MethodPut, "/v1/profile", `{"display_name":"Alice"}`)
	withClaims(c, "u1", nil)
	if err := handler.Put(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if v := s.View(); v.Profile == nil || v.Profile.DisplayName != "Alice" {
		t.Fatalf("expected live session to pick up the new name, got %+v", v.Profile)
	}
}

func TestProfileHandler_Put_Invalid(t *testing.T) {
	e := newEcho()
	handler := NewProfileHandler(&stubProfileService{}, nil)

	c, _ := newJSONContext(e, http.MethodPut, "/v1/profile", `{"display_name":""}`)
	withClaims(c, "u1", nil)
	expectStatus(t, handler.Put(c), http.StatusBadRequest)

	c, _ = newJSONContext(e, http.MethodPut, "/v1/profile", `{"display_name":"   "}`)
	withClaims(c, "u1", nil)
	if err := handler.Put(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
