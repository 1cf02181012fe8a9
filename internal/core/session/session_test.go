package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubHistory struct {
	mu        sync.Mutex
	records   []domain.CompletionRecord
	now       time.Time
	rangeErr  error
	recordErr error
	ranges    int

	// gates blocks Range for a window label until the channel is closed.
	gates   map[string]chan struct{}
	entered chan string
}

func (h *stubHistory) Range(ctx context.Context, w domain.Window) ([]domain.CompletionRecord, error) {
	h.mu.Lock()
	h.ranges++
	gate := h.gates[w.Label()]
	entered := h.entered
	h.mu.Unlock()

	if gate != nil {
		if entered != nil {
			entered <- w.Label()
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rangeErr != nil {
		return nil, h.rangeErr
	}
	var out []domain.CompletionRecord
	for _, r := range h.records {
		if w.Contains(r.CompletedAt) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (h *stubHistory) Record(_ context.Context, title, assignedTo, uid string) (*domain.CompletionRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.recordErr != nil {
		return nil, h.recordErr
	}
	rec := domain.CompletionRecord{
		ID:            title + "#" + uid,
		Title:         title,
		AssignedTo:    assignedTo,
		AssignedToUID: uid,
		CompletedAt:   h.now,
	}
	h.records = append(h.records, rec)
	return &rec, nil
}

type stubChoices struct {
	choices domain.Choices
	err     error
}

func (c *stubChoices) Choices(context.Context) (domain.Choices, error) {
	return c.choices, c.err
}

type stubProfiles struct {
	profiles map[string]domain.UserProfile
	err      error
}

func (p *stubProfiles) Get(_ context.Context, uid string) (*domain.UserProfile, error) {
	if p.err != nil {
		return nil, p.err
	}
	prof, ok := p.profiles[uid]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &prof, nil
}

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	history  *stubHistory
	choices  *stubChoices
	profiles *stubProfiles
	deps     Deps
}

func newFixture() *fixture {
	f := &fixture{
		history: &stubHistory{now: fixedNow},
		choices: &stubChoices{choices: domain.BuildChoices([]domain.Category{
			{MainCategory: "掃除", SubCategories: []string{"リビング", "キッチン"}},
			{MainCategory: "料理", SubCategories: []string{"夕食"}},
		})},
		profiles: &stubProfiles{profiles: map[string]domain.UserProfile{
			"u1": {UID: "u1", DisplayName: "Alice"},
		}},
	}
	f.deps = Deps{
		History:  f.history,
		Choices:  f.choices,
		Profiles: f.profiles,
		Palette:  domain.Palette{"Alice": "bg-blue-600"},
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
		Log:      zerolog.Nop(),
	}
	return f
}

func (f *fixture) open(t *testing.T, uid string) *Session {
	t.Helper()
	s := New("sid-"+uid, uid, f.deps)
	if err := s.LoadProfile(context.Background()); err != nil {
		t.Fatalf("LoadProfile returned error: %v", err)
	}
	if _, err := s.ReloadChoices(context.Background()); err != nil {
		t.Fatalf("ReloadChoices returned error: %v", err)
	}
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	return s
}

// ---------------------------------------------------------------------------
// Window
// ---------------------------------------------------------------------------

func TestSession_InitialWindowEndsToday(t *testing.T) {
	f := newFixture()
	s := New("sid", "u1", f.deps)

	if got, want := s.Window().Label(), "2024/05/04 - 2024/05/10"; got != want {
		t.Fatalf("expected window %q, got %q", want, got)
	}
	if s.Loaded() {
		t.Fatalf("expected nothing loaded before the first refresh")
	}
	if f.history.ranges != 0 {
		t.Fatalf("New must not fetch")
	}
}

func TestSession_PagingFetchesEachWindow(t *testing.T) {
	f := newFixture()
	f.history.records = []domain.CompletionRecord{
		{ID: "this-week", AssignedToUID: "u1", AssignedTo: "Alice", CompletedAt: fixedNow.Add(-time.Hour)},
		{ID: "last-week", AssignedToUID: "u2", AssignedTo: "Bob", CompletedAt: fixedNow.AddDate(0, 0, -8)},
	}
	s := f.open(t, "u1")

	v := s.View()
	if len(v.Days) != 1 || v.Days[0].Records[0].ID != "this-week" {
		t.Fatalf("unexpected current week: %+v", v.Days)
	}
	if !v.Days[0].Records[0].Mine || v.Days[0].Records[0].Color != "bg-blue-600" {
		t.Fatalf("expected own record in Alice's color, got %+v", v.Days[0].Records[0])
	}

	v, err := s.PageBackward(context.Background())
	if err != nil {
		t.Fatalf("PageBackward returned error: %v", err)
	}
	if v.Window.Label != "2024/04/27 - 2024/05/03" || v.LoadedWindow != v.Window.Label {
		t.Fatalf("unexpected window after paging back: %+v", v.Window)
	}
	if len(v.Days) != 1 || v.Days[0].Records[0].ID != "last-week" {
		t.Fatalf("unexpected previous week: %+v", v.Days)
	}
	rec := v.Days[0].Records[0]
	if rec.Mine || rec.Color != domain.DefaultColor {
		t.Fatalf("expected foreign record in default color, got %+v", rec)
	}

	if _, err := s.PageForward(context.Background()); err != nil {
		t.Fatalf("PageForward returned error: %v", err)
	}
	if _, err := s.PageForward(context.Background()); err != nil {
		t.Fatalf("PageForward returned error: %v", err)
	}
	v, err = s.ResetWindow(context.Background())
	if err != nil {
		t.Fatalf("ResetWindow returned error: %v", err)
	}
	if v.Window.Label != "2024/05/04 - 2024/05/10" {
		t.Fatalf("expected reset to the current week, got %q", v.Window.Label)
	}
}

func TestSession_RefreshFailureKeepsPreviousRecords(t *testing.T) {
	f := newFixture()
	f.history.records = []domain.CompletionRecord{{ID: "r1", CompletedAt: fixedNow}}
	s := f.open(t, "u1")

	f.history.rangeErr = domain.ErrRead
	v, err := s.PageBackward(context.Background())
	if !errors.Is(err, domain.ErrRead) {
		t.Fatalf("expected ErrRead, got %v", err)
	}
	if v.Window.Label == v.LoadedWindow {
		t.Fatalf("expected loaded window to lag the display window after a failure")
	}
	if len(v.Days) != 1 || v.Days[0].Records[0].ID != "r1" {
		t.Fatalf("expected previous records to stay, got %+v", v.Days)
	}
}

func TestSession_StaleFetchIsDiscarded(t *testing.T) {
	f := newFixture()
	current := domain.NewWindow(fixedNow)
	f.history.records = []domain.CompletionRecord{
		{ID: "current", CompletedAt: fixedNow},
		{ID: "previous", CompletedAt: current.Prev().Start()},
	}
	gate := make(chan struct{})
	f.history.gates = map[string]chan struct{}{current.Label(): gate}
	f.history.entered = make(chan string, 1)

	s := New("sid", "u1", f.deps)

	done := make(chan View, 1)
	go func() {
		v, err := s.Refresh(context.Background())
		if err != nil {
			t.Errorf("slow Refresh returned error: %v", err)
		}
		done <- v
	}()
	<-f.history.entered

	v, err := s.PageBackward(context.Background())
	if err != nil {
		t.Fatalf("PageBackward returned error: %v", err)
	}
	if v.LoadedWindow != current.Prev().Label() {
		t.Fatalf("expected previous week loaded, got %q", v.LoadedWindow)
	}

	close(gate)
	<-done

	v = s.View()
	if v.LoadedWindow != current.Prev().Label() {
		t.Fatalf("late reply overwrote the newer window: loaded %q", v.LoadedWindow)
	}
	if len(v.Days) != 1 || v.Days[0].Records[0].ID != "previous" {
		t.Fatalf("expected previous week records, got %+v", v.Days)
	}
}

// ---------------------------------------------------------------------------
// Selection and confirm
// ---------------------------------------------------------------------------

func TestSession_SelectionOptions(t *testing.T) {
	f := newFixture()
	s := f.open(t, "u1")

	v := s.View()
	if v.Selection.State != domain.SelectionIdle || len(v.Selection.Options) != 2 {
		t.Fatalf("unexpected idle selection: %+v", v.Selection)
	}

	v, err := s.ChooseMain("掃除")
	if err != nil {
		t.Fatalf("ChooseMain returned error: %v", err)
	}
	if v.Selection.State != domain.SelectionMainChosen || len(v.Selection.Options) != 2 || v.Selection.Options[0] != "リビング" {
		t.Fatalf("unexpected selection: %+v", v.Selection)
	}

	v, err = s.ChooseSub("キッチン")
	if err != nil {
		t.Fatalf("ChooseSub returned error: %v", err)
	}
	if v.Selection.Title != "掃除/キッチン" {
		t.Fatalf("expected title 掃除/キッチン, got %q", v.Selection.Title)
	}

	if _, err := s.ChooseSub("リビング"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if v, _ = s.Reselect(); v.Selection.State != domain.SelectionMainChosen {
		t.Fatalf("expected MainChosen after reselect, got %s", v.Selection.State)
	}
	if v, _ = s.Back(); v.Selection.State != domain.SelectionIdle {
		t.Fatalf("expected Idle after back, got %s", v.Selection.State)
	}
}

func TestSession_ConfirmRecordsAndRefreshes(t *testing.T) {
	f := newFixture()
	s := f.open(t, "u1")

	_, _ = s.ChooseMain("掃除")
	_, _ = s.ChooseSub("リビング")

	v, rec, err := s.Confirm(context.Background())
	if err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}
	if rec == nil || rec.Title != "掃除/リビング" || rec.AssignedTo != "Alice" || rec.AssignedToUID != "u1" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if v.Selection.State != domain.SelectionIdle {
		t.Fatalf("expected selection reset, got %s", v.Selection.State)
	}
	if len(v.Days) != 1 || v.Days[0].Records[0].Title != "掃除/リビング" {
		t.Fatalf("expected new record in the refreshed window, got %+v", v.Days)
	}
}

func TestSession_ConfirmWithoutProfile(t *testing.T) {
	f := newFixture()
	s := f.open(t, "newcomer")
	if s.HasProfile() {
		t.Fatalf("expected first-time user without profile")
	}

	_, _ = s.ChooseMain("掃除")
	_, _ = s.ChooseSub("リビング")

	v, rec, err := s.Confirm(context.Background())
	if !errors.Is(err, domain.ErrProfileRequired) {
		t.Fatalf("expected ErrProfileRequired, got %v", err)
	}
	if rec != nil {
		t.Fatalf("expected no record")
	}
	if v.Selection.State != domain.SelectionSubChosen {
		t.Fatalf("expected selection to stay SubChosen, got %s", v.Selection.State)
	}
	if len(f.history.records) != 0 {
		t.Fatalf("expected nothing written")
	}
}

func TestSession_ConfirmIncompleteSelection(t *testing.T) {
	f := newFixture()
	s := f.open(t, "u1")
	_, _ = s.ChooseMain("料理")

	if _, _, err := s.Confirm(context.Background()); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if len(f.history.records) != 0 {
		t.Fatalf("expected nothing written")
	}
}

func TestSession_ConfirmWriteFailureKeepsSelection(t *testing.T) {
	f := newFixture()
	s := f.open(t, "u1")
	_, _ = s.ChooseMain("料理")
	_, _ = s.ChooseSub("夕食")

	f.history.recordErr = domain.ErrWrite
	v, _, err := s.Confirm(context.Background())
	if !errors.Is(err, domain.ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}
	if v.Selection.State != domain.SelectionSubChosen || v.Selection.Title != "料理/夕食" {
		t.Fatalf("expected selection kept for retry, got %+v", v.Selection)
	}
}

func TestSession_ReloadChoicesClearsStaleSelection(t *testing.T) {
	f := newFixture()
	s := f.open(t, "u1")
	_, _ = s.ChooseMain("料理")

	f.choices.choices = domain.BuildChoices([]domain.Category{{MainCategory: "掃除", SubCategories: []string{"リビング"}}})
	v, err := s.ReloadChoices(context.Background())
	if err != nil {
		t.Fatalf("ReloadChoices returned error: %v", err)
	}
	if v.Selection.State != domain.SelectionIdle {
		t.Fatalf("expected selection cleared, got %+v", v.Selection)
	}
}

// ---------------------------------------------------------------------------
// Profile and observers
// ---------------------------------------------------------------------------

func TestSession_LoadProfileFailure(t *testing.T) {
	f := newFixture()
	f.profiles.err = domain.ErrRead
	s := New("sid", "u1", f.deps)

	if err := s.LoadProfile(context.Background()); !errors.Is(err, domain.ErrRead) {
		t.Fatalf("expected ErrRead, got %v", err)
	}
}

func TestSession_Subscribe(t *testing.T) {
	f := newFixture()
	s := f.open(t, "u1")

	var views []View
	unsubscribe := s.Subscribe(func(v View) { views = append(views, v) })

	_, _ = s.ChooseMain("掃除")
	if len(views) != 1 || views[0].Selection.Main != "掃除" {
		t.Fatalf("expected one view with the chosen main, got %+v", views)
	}

	unsubscribe()
	unsubscribe()
	_, _ = s.Back()
	if len(views) != 1 {
		t.Fatalf("expected no delivery after unsubscribe, got %d", len(views))
	}
}

func TestSession_SetProfileCopies(t *testing.T) {
	f := newFixture()
	s := New("sid", "u9", f.deps)

	p := &domain.UserProfile{UID: "u9", DisplayName: "Carol"}
	s.SetProfile(p)
	p.DisplayName = "changed"

	if got := s.View().Profile.DisplayName; got != "Carol" {
		t.Fatalf("expected Carol, got %q", got)
	}
}
