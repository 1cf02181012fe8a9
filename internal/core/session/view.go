package session

import (
	"time"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
)

// View is an immutable snapshot of a session for rendering.
type View struct {
	SessionID string              `json:"session_id"`
	UID       string              `json:"uid"`
	Profile   *domain.UserProfile `json:"profile"`
	Window    WindowView          `json:"window"`
	// LoadedWindow is the label of the window Days was fetched for. It lags
	// Window when the latest fetch failed.
	LoadedWindow string         `json:"loaded_window"`
	Days         []DayView      `json:"days"`
	Selection    SelectionView  `json:"selection"`
	Choices      domain.Choices `json:"choices"`
}

type WindowView struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  []string  `json:"days"`
}

type DayView struct {
	Day     string       `json:"day"`
	Records []RecordView `json:"records"`
}

// RecordView decorates a record for display. Mine drives whether the screen
// offers deletion.
type RecordView struct {
	domain.CompletionRecord
	Mine  bool   `json:"mine"`
	Color string `json:"color"`
}

type SelectionView struct {
	State domain.SelectionState `json:"state"`
	Main  string                `json:"main,omitempty"`
	Sub   string                `json:"sub,omitempty"`
	Title string                `json:"title,omitempty"`
	// Options lists what can be picked next: main names while idle, the
	// chosen main's subcategories afterwards.
	Options []string `json:"options"`
}

// NewWindowView describes w with day keys in w's location.
func NewWindowView(w domain.Window) WindowView {
	days := w.Days()
	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = domain.DayKey(d)
	}
	return WindowView{Label: w.Label(), Start: w.Start(), End: w.End(), Days: keys}
}

// BuildDays groups records by local day and annotates each one for uid.
func BuildDays(records []domain.CompletionRecord, uid string, palette domain.Palette, loc *time.Location) []DayView {
	groups := domain.SortedDays(domain.GroupByDay(records, loc))
	out := make([]DayView, 0, len(groups))
	for _, g := range groups {
		dv := DayView{Day: g.Day, Records: make([]RecordView, 0, len(g.Records))}
		for _, r := range g.Records {
			dv.Records = append(dv.Records, RecordView{
				CompletionRecord: r,
				Mine:             r.OwnedBy(uid),
				Color:            palette.ColorFor(r.AssignedTo),
			})
		}
		out = append(out, dv)
	}
	return out
}

func newSelectionView(sel domain.Selection, choices domain.Choices) SelectionView {
	v := SelectionView{State: sel.State(), Main: sel.Main, Sub: sel.Sub}
	switch v.State {
	case domain.SelectionIdle:
		v.Options = append([]string(nil), choices.Names...)
	case domain.SelectionMainChosen:
		v.Options = append([]string(nil), choices.Subs[sel.Main]...)
	case domain.SelectionSubChosen:
		v.Title, _ = sel.Title()
	}
	if v.Options == nil {
		v.Options = []string{}
	}
	return v
}
