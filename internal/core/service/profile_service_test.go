package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
)

func TestProfileService_GetMissing(t *testing.T) {
	svc := NewProfileService(newStubProfileRepo(), nil, discardLogger)

	if _, err := svc.Get(context.Background(), "u1"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if _, err := svc.Get(context.Background(), ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestProfileService_Set(t *testing.T) {
	repo := newStubProfileRepo()
	bus := newStubBus()
	svc := NewProfileService(repo, bus, discardLogger)

	p, err := svc.Set(context.Background(), "u1", "  Alice ")
	if err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if p.DisplayName != "Alice" {
		t.Fatalf("expected trimmed name, got %q", p.DisplayName)
	}

	got, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.DisplayName != "Alice" {
		t.Fatalf("expected Alice, got %q", got.DisplayName)
	}

	if len(bus.published) != 1 || bus.published[0].Type != domain.EventProfileChanged || bus.published[0].UID != "u1" {
		t.Fatalf("unexpected events: %+v", bus.published)
	}
}

func TestProfileService_Set_Validation(t *testing.T) {
	repo := newStubProfileRepo()
	svc := NewProfileService(repo, nil, discardLogger)

	if _, err := svc.Set(context.Background(), "u1", "   "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.Set(context.Background(), "", "Alice"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no store calls, got %d", repo.calls)
	}
}

func TestProfileService_StoreFailure(t *testing.T) {
	repo := newStubProfileRepo()
	repo.failErr = domain.ErrRead
	svc := NewProfileService(repo, nil, discardLogger)

	if _, err := svc.Get(context.Background(), "u1"); !errors.Is(err, domain.ErrRead) {
		t.Fatalf("expected ErrRead, got %v", err)
	}
}
