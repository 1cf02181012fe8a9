package domain

import (
	"sort"
	"time"
)

// DayGroup is one non-empty day bucket.
type DayGroup struct {
	Day     string             `json:"day"`
	Records []CompletionRecord `json:"records"`
}

// GroupByDay buckets records by the calendar date of CompletedAt in loc.
// Records keep their input order inside a bucket and days without records
// get no bucket. A nil loc uses each timestamp's own location.
func GroupByDay(records []CompletionRecord, loc *time.Location) map[string][]CompletionRecord {
	groups := make(map[string][]CompletionRecord)
	for _, r := range records {
		t := r.CompletedAt
		if loc != nil {
			t = t.In(loc)
		}
		key := DayKey(t)
		groups[key] = append(groups[key], r)
	}
	return groups
}

// SortedDays returns the buckets in ascending day order.
func SortedDays(groups map[string][]CompletionRecord) []DayGroup {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]DayGroup, 0, len(keys))
	for _, k := range keys {
		out = append(out, DayGroup{Day: k, Records: groups[k]})
	}
	return out
}
