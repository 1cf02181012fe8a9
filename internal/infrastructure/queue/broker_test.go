package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
)

func collect(t *testing.T, ch <-chan domain.ChangeEvent, n int) []domain.ChangeEvent {
	t.Helper()
	out := make([]domain.ChangeEvent, 0, n)
	timeout := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case ev := <-ch:
			out = append(out, ev)
		case <-timeout:
			t.Fatalf("timed out after %d of %d events", len(out), n)
		}
	}
	return out
}

func TestBroker_DeliversInOrder(t *testing.T) {
	b := NewBroker(zerolog.Nop())
	defer b.Close()

	got := make(chan domain.ChangeEvent, 10)
	b.Subscribe(nil, func(ev domain.ChangeEvent) { got <- ev })

	for _, id := range []string{"1", "2", "3"} {
		b.Publish(domain.ChangeEvent{Type: domain.EventHistoryCreated, EntityID: id})
	}

	evs := collect(t, got, 3)
	for i, want := range []string{"1", "2", "3"} {
		if evs[i].EntityID != want {
			t.Fatalf("event %d: expected %s, got %s", i, want, evs[i].EntityID)
		}
	}
}

func TestBroker_Filter(t *testing.T) {
	b := NewBroker(zerolog.Nop())
	defer b.Close()

	auth := make(chan domain.ChangeEvent, 10)
	b.Subscribe(func(ev domain.ChangeEvent) bool { return ev.IsAuth() }, func(ev domain.ChangeEvent) { auth <- ev })

	b.Publish(domain.ChangeEvent{Type: domain.EventHistoryCreated})
	b.Publish(domain.ChangeEvent{Type: domain.EventSignedIn, UID: "u1"})

	evs := collect(t, auth, 1)
	if evs[0].Type != domain.EventSignedIn {
		t.Fatalf("expected signed_in, got %s", evs[0].Type)
	}
	select {
	case ev := <-auth:
		t.Fatalf("unexpected extra event %s", ev.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroker_Unsubscribe(t *testing.T) {
	b := NewBroker(zerolog.Nop())
	defer b.Close()

	got := make(chan domain.ChangeEvent, 10)
	unsubscribe := b.Subscribe(nil, func(ev domain.ChangeEvent) { got <- ev })

	b.Publish(domain.ChangeEvent{Type: domain.EventTaxonomyChanged})
	collect(t, got, 1)

	unsubscribe()
	unsubscribe()
	b.Publish(domain.ChangeEvent{Type: domain.EventTaxonomyChanged})

	select {
	case ev := <-got:
		t.Fatalf("unexpected delivery after unsubscribe: %s", ev.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroker_UnsubscribeFromCallback(t *testing.T) {
	b := NewBroker(zerolog.Nop())
	defer b.Close()

	var (
		mu    sync.Mutex
		calls int
	)
	done := make(chan struct{})
	var unsubscribe func()
	unsubscribe = b.Subscribe(nil, func(domain.ChangeEvent) {
		mu.Lock()
		calls++
		mu.Unlock()
		unsubscribe()
		close(done)
	})

	b.Publish(domain.ChangeEvent{Type: domain.EventProfileChanged})
	<-done
	b.Publish(domain.ChangeEvent{Type: domain.EventProfileChanged})
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("expected exactly one call, got %d", calls)
	}
}

func TestBroker_PanickingSubscriberKeepsRunning(t *testing.T) {
	b := NewBroker(zerolog.Nop())
	defer b.Close()

	got := make(chan domain.ChangeEvent, 10)
	b.Subscribe(nil, func(ev domain.ChangeEvent) {
		if ev.EntityID == "boom" {
			panic("boom")
		}
		got <- ev
	})

	b.Publish(domain.ChangeEvent{Type: domain.EventHistoryDeleted, EntityID: "boom"})
	b.Publish(domain.ChangeEvent{Type: domain.EventHistoryDeleted, EntityID: "ok"})

	if evs := collect(t, got, 1); evs[0].EntityID != "ok" {
		t.Fatalf("expected ok, got %s", evs[0].EntityID)
	}
}

func TestBroker_RunClosesOnCancel(t *testing.T) {
	b := NewBroker(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- b.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}

	called := false
	b.Subscribe(nil, func(domain.ChangeEvent) { called = true })
	b.Publish(domain.ChangeEvent{Type: domain.EventSignedOut})
	time.Sleep(20 * time.Millisecond)
	if called {
		t.Fatalf("subscriptions after close must not receive events")
	}
}
