package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/kuroneko-hornet/homeworks/internal/api/middleware"
	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
	"github.com/kuroneko-hornet/homeworks/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Service stubs
// ---------------------------------------------------------------------------

type stubAuthService struct {
	registerFn func(ctx context.Context, email, password string) (*domain.Identity, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.Identity, error)
	logoutFn   func(ctx context.Context, claims ports.Claims) error
}

func (s *stubAuthService) Register(ctx context.Context, email, password string) (*domain.Identity, error) {
	return s.registerFn(ctx, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.Identity, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, claims ports.Claims) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx, claims)
}

func (s *stubAuthService) Authenticate(context.Context, string) (ports.Claims, error) {
	return ports.Claims{}, domain.ErrUnauthenticated
}

func (s *stubAuthService) Subscribe(string, func(domain.ChangeEvent)) func() {
	return func() {}
}

type stubProfileService struct {
	profiles map[string]domain.UserProfile
	err      error
}

func (s *stubProfileService) Get(_ context.Context, uid string) (*domain.UserProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.profiles[uid]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (s *stubProfileService) Set(_ context.Context, uid, displayName string) (*domain.UserProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, domain.ErrValidation
	}
	if s.profiles == nil {
		s.profiles = make(map[string]domain.UserProfile)
	}
	p := domain.UserProfile{UID: uid, DisplayName: displayName}
	s.profiles[uid] = p
	return &p, nil
}

type stubTaxonomyService struct {
	cats      []domain.Category
	err       error
	deletedID string
}

func (s *stubTaxonomyService) List(context.Context) ([]domain.Category, error) {
	return s.cats, s.err
}

func (s *stubTaxonomyService) Create(_ context.Context, main, subs string) (*domain.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	if strings.TrimSpace(main) == "" {
		return nil, domain.ErrValidation
	}
	c := domain.Category{ID: "c1", MainCategory: main, SubCategories: domain.SplitSubCategories(subs)}
	s.cats = append(s.cats, c)
	return &c, nil
}

func (s *stubTaxonomyService) Update(_ context.Context, id, main, subs string) (*domain.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.cats {
		if s.cats[i].ID == id {
			s.cats[i].MainCategory = main
			s.cats[i].SubCategories = domain.SplitSubCategories(subs)
			c := s.cats[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubTaxonomyService) Delete(_ context.Context, id string) error {
	s.deletedID = id
	return s.err
}

func (s *stubTaxonomyService) Choices(context.Context) (domain.Choices, error) {
	return domain.BuildChoices(s.cats), s.err
}

type stubHistoryService struct {
	records   []domain.CompletionRecord
	err       error
	lastRange domain.Window
	deletedID string
}

func (s *stubHistoryService) Record(_ context.Context, title, assignedTo, uid string) (*domain.CompletionRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	rec := domain.CompletionRecord{ID: "r1", Title: title, AssignedTo: assignedTo, AssignedToUID: uid}
	s.records = append(s.records, rec)
	return &rec, nil
}

func (s *stubHistoryService) Range(_ context.Context, w domain.Window) ([]domain.CompletionRecord, error) {
	s.lastRange = w
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.CompletionRecord
	for _, r := range s.records {
		if w.Contains(r.CompletedAt) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubHistoryService) Delete(_ context.Context, id string) error {
	s.deletedID = id
	return s.err
}

// ---------------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------------

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// withClaims mimics the Auth and RequireProfile middleware.
func withClaims(c echo.Context, uid string, profile *domain.UserProfile) {
	c.Set(middleware.ClaimsKey, ports.Claims{UID: uid, SessionID: "sid-" + uid})
	c.Set(middleware.UIDKey, uid)
	if profile != nil {
		c.Set(middleware.ProfileKey, profile)
	}
}

func expectStatus(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTP %d error, got %v", code, err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d (%v)", code, he.Code, he.Message)
	}
}
