package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
	"github.com/kuroneko-hornet/homeworks/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Event bus stub: delivers synchronously and records everything published.
// ---------------------------------------------------------------------------

type stubBus struct {
	mu        sync.Mutex
	published []domain.ChangeEvent
	subs      map[int]stubSub
	next      int
}

type stubSub struct {
	filter ports.EventFilter
	fn     func(domain.ChangeEvent)
}

func newStubBus() *stubBus {
	return &stubBus{subs: make(map[int]stubSub)}
}

func (b *stubBus) Publish(ev domain.ChangeEvent) {
	b.mu.Lock()
	b.published = append(b.published, ev)
	subs := make([]stubSub, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		if s.filter == nil || s.filter(ev) {
			s.fn(ev)
		}
	}
}

func (b *stubBus) Subscribe(filter ports.EventFilter, fn func(domain.ChangeEvent)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = stubSub{filter: filter, fn: fn}
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

func (b *stubBus) types() []domain.EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.EventType, 0, len(b.published))
	for _, ev := range b.published {
		out = append(out, ev.Type)
	}
	return out
}

// ---------------------------------------------------------------------------
// Repository stubs
// ---------------------------------------------------------------------------

type stubTaxonomyRepo struct {
	cats    map[string]domain.Category
	order   []string
	calls   int
	nextID  int
	failErr error // if set, every call returns this error
}

func newStubTaxonomyRepo() *stubTaxonomyRepo {
	return &stubTaxonomyRepo{cats: make(map[string]domain.Category)}
}

func (r *stubTaxonomyRepo) List(context.Context) ([]domain.Category, error) {
	r.calls++
	if r.failErr != nil {
		return nil, r.failErr
	}
	out := make([]domain.Category, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.cats[id])
	}
	return out, nil
}

func (r *stubTaxonomyRepo) Create(_ context.Context, c *domain.Category) error {
	r.calls++
	if r.failErr != nil {
		return r.failErr
	}
	r.nextID++
	c.ID = fmt.Sprintf("cat-%d", r.nextID)
	r.cats[c.ID] = *c
	r.order = append(r.order, c.ID)
	return nil
}

func (r *stubTaxonomyRepo) Update(_ context.Context, c *domain.Category) error {
	r.calls++
	if r.failErr != nil {
		return r.failErr
	}
	if _, ok := r.cats[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.cats[c.ID] = *c
	return nil
}

func (r *stubTaxonomyRepo) Delete(_ context.Context, id string) error {
	r.calls++
	if r.failErr != nil {
		return r.failErr
	}
	if _, ok := r.cats[id]; !ok {
		return nil
	}
	delete(r.cats, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type stubHistoryRepo struct {
	records   []domain.CompletionRecord
	now       time.Time
	calls     int
	insertErr error
	queryErr  error
	deleteErr error
	lastStart time.Time
	lastEnd   time.Time
}

func (r *stubHistoryRepo) Insert(_ context.Context, rec *domain.CompletionRecord) error {
	r.calls++
	if r.insertErr != nil {
		return r.insertErr
	}
	rec.ID = fmt.Sprintf("rec-%d", len(r.records)+1)
	rec.CompletedAt = r.now
	r.records = append(r.records, *rec)
	return nil
}

func (r *stubHistoryRepo) QueryRange(_ context.Context, start, end time.Time) ([]domain.CompletionRecord, error) {
	r.calls++
	r.lastStart, r.lastEnd = start, end
	if r.queryErr != nil {
		return nil, r.queryErr
	}
	var out []domain.CompletionRecord
	for _, rec := range r.records {
		if !rec.CompletedAt.Before(start) && rec.CompletedAt.Before(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *stubHistoryRepo) DeleteByID(_ context.Context, id string) error {
	r.calls++
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for i, rec := range r.records {
		if rec.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			break
		}
	}
	return nil
}

type stubProfileRepo struct {
	profiles map[string]domain.UserProfile
	calls    int
	failErr  error
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: make(map[string]domain.UserProfile)}
}

func (r *stubProfileRepo) Get(_ context.Context, uid string) (*domain.UserProfile, error) {
	r.calls++
	if r.failErr != nil {
		return nil, r.failErr
	}
	p, ok := r.profiles[uid]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (r *stubProfileRepo) Upsert(_ context.Context, uid, displayName string) (*domain.UserProfile, error) {
	r.calls++
	if r.failErr != nil {
		return nil, r.failErr
	}
	p := r.profiles[uid]
	p.UID = uid
	p.DisplayName = displayName
	r.profiles[uid] = p
	return &p, nil
}

type stubIdentityRepo struct {
	byEmail map[string]*domain.Identity
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{byEmail: make(map[string]*domain.Identity)}
}

func (r *stubIdentityRepo) Create(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	if _, exists := r.byEmail[identity.Email]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *identity
	clone.UID = "uid-" + identity.Email
	r.byEmail[clone.Email] = &clone
	out := clone
	return &out, nil
}

func (r *stubIdentityRepo) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

type stubRevoker struct {
	revoked map[string]time.Duration
	err     error
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Duration)}
}

func (r *stubRevoker) Revoke(_ context.Context, sessionID string, ttl time.Duration) error {
	if r.err != nil {
		return r.err
	}
	r.revoked[sessionID] = ttl
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[sessionID]
	return ok, nil
}
