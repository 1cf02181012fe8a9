package domain

import (
	"fmt"
	"time"
)

// WindowDays is the width of the history window.
const WindowDays = 7

const (
	dayKeyLayout = "2006-01-02"
	labelLayout  = "2006/01/02"
)

// Window is a 7-day history range anchored at a local midnight. The zero
// value is not useful; use NewWindow or WindowAt.
type Window struct {
	start time.Time
}

// NewWindow returns the 7 days ending on the day of now, inclusive.
func NewWindow(now time.Time) Window {
	return Window{start: StartOfDay(now).AddDate(0, 0, -(WindowDays - 1))}
}

// WindowAt returns the window starting on the day of day.
func WindowAt(day time.Time) Window {
	return Window{start: StartOfDay(day)}
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Start is the inclusive lower bound.
func (w Window) Start() time.Time { return w.start }

// End is the exclusive upper bound: Start plus 7 calendar days.
func (w Window) End() time.Time { return w.start.AddDate(0, 0, WindowDays) }

// Days returns the start of each day in the window.
func (w Window) Days() []time.Time {
	days := make([]time.Time, WindowDays)
	for i := range days {
		days[i] = w.start.AddDate(0, 0, i)
	}
	return days
}

// Prev pages one week into the past. There is no lower bound.
func (w Window) Prev() Window { return Window{start: w.start.AddDate(0, 0, -WindowDays)} }

// Next pages one week forward. There is no upper bound.
func (w Window) Next() Window { return Window{start: w.start.AddDate(0, 0, WindowDays)} }

// Contains reports whether t falls in [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.start) && t.Before(w.End())
}

// Label renders "yyyy/MM/dd - yyyy/MM/dd" covering the first and last day.
func (w Window) Label() string {
	last := w.start.AddDate(0, 0, WindowDays-1)
	return fmt.Sprintf("%s - %s", w.start.Format(labelLayout), last.Format(labelLayout))
}

// Equal reports whether both windows start at the same instant.
func (w Window) Equal(o Window) bool { return w.start.Equal(o.start) }

// DayKey is the local calendar date of t as YYYY-MM-DD.
func DayKey(t time.Time) string { return t.Format(dayKeyLayout) }

// ParseDay parses a YYYY-MM-DD value as midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dayKeyLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day must be YYYY-MM-DD", ErrValidation)
	}
	return t, nil
}
