package store

import (
	"strings"
	"time"

	"coach-insights-go/internal/types"
)

// Window selects the time slice of the record set a view operates on.
type Window int

const (
	AllTime Window = iota
	Today
	ThisWeek
	ThisMonth
)

func (w Window) String() string {
	switch w {
	case Today:
		return "today"
	case ThisWeek:
		return "this-week"
	case ThisMonth:
		return "this-month"
	}
	return "all-time"
}

// ParseWindow maps a query value onto a Window. Unknown values fall back to
// AllTime.
func ParseWindow(s string) Window {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return Today
	case "this-week", "this_week", "this week", "week":
		return ThisWeek
	case "this-month", "this_month", "this month", "month":
		return ThisMonth
	}
	return AllTime
}

// dateLayouts covers the formats a sheet export emits for the date column.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseDate attempts each known layout in the local timezone.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RecordStore holds the full record set for a session. Records are
// replaced wholesale on refresh, never mutated.
type RecordStore struct {
	records []types.CallRecord
}

func New(records []types.CallRecord) *RecordStore {
	return &RecordStore{records: records}
}

func (s *RecordStore) All() []types.CallRecord {
	return s.records
}

func (s *RecordStore) Len() int {
	return len(s.records)
}

// Window returns the records falling inside w relative to now.
func (s *RecordStore) Window(w Window, now time.Time) []types.CallRecord {
	return FilterByWindow(s.records, w, now)
}

// FilterByWindow returns the records whose date falls on or after the
// window's start. Records with unparseable dates match only AllTime; if no
// date in the whole set parses, filtering degrades to identity rather than
// hiding everything behind a bad column.
func FilterByWindow(records []types.CallRecord, w Window, now time.Time) []types.CallRecord {
	if w == AllTime {
		return records
	}
	start := windowStart(w, now)

	var out []types.CallRecord
	parsedAny := false
	for _, rec := range records {
		t, ok := ParseDate(rec.Date)
		if !ok {
			continue
		}
		parsedAny = true
		if !t.Before(start) {
			out = append(out, rec)
		}
	}
	if !parsedAny && len(records) > 0 {
		return records
	}
	return out
}

// windowStart computes the local-midnight boundary for a scoped window.
// Weeks start on Monday.
func windowStart(w Window, now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch w {
	case Today:
		return midnight
	case ThisWeek:
		offset := (int(midnight.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
		return midnight.AddDate(0, 0, -offset)
	case ThisMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	return time.Time{}
}

// Agents lists distinct agent names in first-seen order, skipping blanks.
func Agents(records []types.CallRecord) []string {
	seen := map[string]bool{}
	var out []string
	for _, rec := range records {
		name := strings.TrimSpace(rec.AgentName)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// ForAgent returns the records belonging to one agent.
func ForAgent(records []types.CallRecord, agent string) []types.CallRecord {
	var out []types.CallRecord
	for _, rec := range records {
		if rec.AgentName == agent {
			out = append(out, rec)
		}
	}
	return out
}
