// Package session holds the per-user interactive state behind the screens:
// the history week window, the chore picker and the signed-in profile.
//
// Each list (history, taxonomy choices) is fetched with a sequence number.
// A result whose sequence was superseded while in flight is dropped, so a
// late reply never overwrites a newer window.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kuroneko-hornet/homeworks/internal/api/metrics"
	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
)

// HistorySource is the part of the history service a session uses.
type HistorySource interface {
	Range(ctx context.Context, w domain.Window) ([]domain.CompletionRecord, error)
	Record(ctx context.Context, title, assignedTo, assignedToUID string) (*domain.CompletionRecord, error)
}

// ChoiceSource supplies the picker options.
type ChoiceSource interface {
	Choices(ctx context.Context) (domain.Choices, error)
}

// ProfileSource looks up the signed-in user's profile.
type ProfileSource interface {
	Get(ctx context.Context, uid string) (*domain.UserProfile, error)
}

// Deps is shared by every session of a Manager.
type Deps struct {
	History  HistorySource
	Choices  ChoiceSource
	Profiles ProfileSource
	Palette  domain.Palette
	Location *time.Location
	Now      func() time.Time
	Log      zerolog.Logger
}

func (d Deps) now() time.Time {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	if d.Location != nil {
		return now().In(d.Location)
	}
	return now()
}

// Session is one user session. All methods are safe for concurrent use.
type Session struct {
	id   string
	uid  string
	deps Deps

	// expiresAt is the token expiry; zero never expires.
	expiresAt time.Time

	mu           sync.Mutex
	window       domain.Window
	historySeq   uint64
	records      []domain.CompletionRecord
	loadedWindow domain.Window
	loaded       bool
	choicesSeq   uint64
	choices      domain.Choices
	selection    domain.Selection
	profile      *domain.UserProfile

	obsMu     sync.Mutex
	notifyMu  sync.Mutex
	observers map[uint64]func(View)
	nextObs   uint64
}

// New returns a session whose window covers the 7 days ending today.
// Nothing is fetched until Refresh or ReloadChoices is called.
func New(id, uid string, deps Deps) *Session {
	return &Session{
		id:        id,
		uid:       uid,
		deps:      deps,
		window:    domain.NewWindow(deps.now()),
		observers: make(map[uint64]func(View)),
	}
}

func (s *Session) ID() string  { return s.id }
func (s *Session) UID() string { return s.uid }

// Expired reports whether the token behind the session has run out at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.expiresAt.IsZero() && !now.Before(s.expiresAt)
}

// Window returns the current display window.
func (s *Session) Window() domain.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window
}

// Loaded reports whether any history fetch has completed.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// View snapshots the current state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	v := View{
		SessionID: s.id,
		UID:       s.uid,
		Window:    NewWindowView(s.window),
		Days:      BuildDays(s.records, s.uid, s.deps.Palette, s.deps.Location),
		Selection: newSelectionView(s.selection, s.choices),
		Choices:   s.choices,
	}
	if s.loaded {
		v.LoadedWindow = s.loadedWindow.Label()
	}
	if s.profile != nil {
		p := *s.profile
		v.Profile = &p
	}
	return v
}

// Subscribe registers fn to receive a View after every state change.
// Calls are serialized per session.
func (s *Session) Subscribe(fn func(View)) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			delete(s.observers, id)
			s.obsMu.Unlock()
		})
	}
}

func (s *Session) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.obsMu.Lock()
	fns := make([]func(View), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()
	if len(fns) == 0 {
		return
	}

	v := s.View()
	for _, fn := range fns {
		fn(v)
	}
}

// ── History window ────────────────────────────────────────────────────────────

// Refresh fetches the current window. A result superseded by a later window
// change or refresh is discarded and Refresh returns the current view with no
// error. On failure the previously loaded records stay in place.
func (s *Session) Refresh(ctx context.Context) (View, error) {
	s.mu.Lock()
	s.historySeq++
	seq := s.historySeq
	w := s.window
	s.mu.Unlock()

	start := time.Now()
	recs, err := s.deps.History.Range(ctx, w)
	metrics.FetchDuration.WithLabelValues("history").Observe(time.Since(start).Seconds())

	s.mu.Lock()
	if seq != s.historySeq {
		v := s.viewLocked()
		s.mu.Unlock()
		metrics.StaleFetchesTotal.WithLabelValues("history").Inc()
		s.deps.Log.Debug().
			Str("session", s.id).
			Str("window", w.Label()).
			Msg("stale history fetch discarded")
		return v, nil
	}
	if err != nil {
		v := s.viewLocked()
		s.mu.Unlock()
		return v, err
	}
	s.records = recs
	s.loadedWindow = w
	s.loaded = true
	v := s.viewLocked()
	s.mu.Unlock()

	s.notify()
	return v, nil
}

// PageBackward moves the window 7 days into the past and re-fetches.
func (s *Session) PageBackward(ctx context.Context) (View, error) {
	return s.moveWindow(ctx, domain.Window.Prev)
}

// PageForward moves the window 7 days forward and re-fetches.
func (s *Session) PageForward(ctx context.Context) (View, error) {
	return s.moveWindow(ctx, domain.Window.Next)
}

// ResetWindow returns to the 7 days ending today and re-fetches.
func (s *Session) ResetWindow(ctx context.Context) (View, error) {
	today := domain.NewWindow(s.deps.now())
	return s.moveWindow(ctx, func(domain.Window) domain.Window { return today })
}

func (s *Session) moveWindow(ctx context.Context, move func(domain.Window) domain.Window) (View, error) {
	s.mu.Lock()
	s.window = move(s.window)
	s.mu.Unlock()

	s.notify()
	return s.Refresh(ctx)
}

// ── Taxonomy choices ──────────────────────────────────────────────────────────

// ReloadChoices refreshes the picker options, with the same discard rule as
// Refresh. A selection that no longer matches the taxonomy is cleared.
func (s *Session) ReloadChoices(ctx context.Context) (View, error) {
	s.mu.Lock()
	s.choicesSeq++
	seq := s.choicesSeq
	s.mu.Unlock()

	start := time.Now()
	choices, err := s.deps.Choices.Choices(ctx)
	metrics.FetchDuration.WithLabelValues("taxonomy").Observe(time.Since(start).Seconds())

	s.mu.Lock()
	if seq != s.choicesSeq {
		v := s.viewLocked()
		s.mu.Unlock()
		metrics.StaleFetchesTotal.WithLabelValues("taxonomy").Inc()
		s.deps.Log.Debug().Str("session", s.id).Msg("stale taxonomy fetch discarded")
		return v, nil
	}
	if err != nil {
		v := s.viewLocked()
		s.mu.Unlock()
		return v, err
	}
	s.choices = choices
	if !choices.Has(s.selection.Main, s.selection.Sub) {
		s.selection.Reset()
	}
	v := s.viewLocked()
	s.mu.Unlock()

	s.notify()
	return v, nil
}

// ── Profile ───────────────────────────────────────────────────────────────────

// LoadProfile fetches the profile. A missing profile is not an error; it
// leaves the session in the first-time-user state.
func (s *Session) LoadProfile(ctx context.Context) error {
	p, err := s.deps.Profiles.Get(ctx, s.uid)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return err
	}
	s.SetProfile(p)
	return nil
}

// SetProfile replaces the cached profile; nil marks a first-time user.
func (s *Session) SetProfile(p *domain.UserProfile) {
	s.mu.Lock()
	if p == nil {
		s.profile = nil
	} else {
		cp := *p
		s.profile = &cp
	}
	s.mu.Unlock()
	s.notify()
}

// HasProfile reports whether the user completed registration.
func (s *Session) HasProfile() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile != nil
}

// ── Selection flow ────────────────────────────────────────────────────────────

func (s *Session) ChooseMain(name string) (View, error) {
	return s.updateSelection(func(sel *domain.Selection, ch domain.Choices) error {
		return sel.ChooseMain(name, ch)
	})
}

func (s *Session) ChooseSub(name string) (View, error) {
	return s.updateSelection(func(sel *domain.Selection, ch domain.Choices) error {
		return sel.ChooseSub(name, ch)
	})
}

func (s *Session) Back() (View, error) {
	return s.updateSelection(func(sel *domain.Selection, _ domain.Choices) error {
		return sel.Back()
	})
}

func (s *Session) Reselect() (View, error) {
	return s.updateSelection(func(sel *domain.Selection, _ domain.Choices) error {
		return sel.Reselect()
	})
}

func (s *Session) updateSelection(apply func(*domain.Selection, domain.Choices) error) (View, error) {
	s.mu.Lock()
	next := s.selection
	if err := apply(&next, s.choices); err != nil {
		v := s.viewLocked()
		s.mu.Unlock()
		return v, err
	}
	s.selection = next
	v := s.viewLocked()
	s.mu.Unlock()

	s.notify()
	return v, nil
}

// Confirm records the selected chore for the signed-in user, resets the
// picker and re-fetches the window. Without a profile or a complete
// selection nothing is written and the state is left as is. A failed write
// also leaves the selection in place so the user can retry.
func (s *Session) Confirm(ctx context.Context) (View, *domain.CompletionRecord, error) {
	s.mu.Lock()
	if s.profile == nil {
		v := s.viewLocked()
		s.mu.Unlock()
		return v, nil, domain.ErrProfileRequired
	}
	title, err := s.selection.Title()
	if err != nil {
		v := s.viewLocked()
		s.mu.Unlock()
		return v, nil, err
	}
	chosen := s.selection
	name := s.profile.DisplayName
	s.mu.Unlock()

	rec, err := s.deps.History.Record(ctx, title, name, s.uid)
	if err != nil {
		return s.View(), nil, err
	}

	s.mu.Lock()
	if s.selection == chosen {
		s.selection.Reset()
	}
	s.mu.Unlock()

	v, err := s.Refresh(ctx)
	return v, rec, err
}
