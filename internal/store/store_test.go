package store

import (
	"testing"
	"time"

	"coach-insights-go/internal/types"
)

// Wednesday afternoon, local time. Monday of this week is March 17.
var testNow = time.Date(2025, 3, 19, 15, 0, 0, 0, time.Local)

func dated(dates ...string) []types.CallRecord {
	out := make([]types.CallRecord, len(dates))
	for i, d := range dates {
		out[i] = types.CallRecord{AgentName: "a", Filename: "call", Date: d}
	}
	return out
}

func TestFilterByWindow_Today(t *testing.T) {
	records := dated(
		"2025-03-19 00:00:00", // local midnight, included
		"2025-03-19 08:30:00",
		"2025-03-18 23:59:59", // yesterday, excluded
	)

	got := FilterByWindow(records, Today, testNow)

	if len(got) != 2 {
		t.Fatalf("Today filter returned %d records, want 2", len(got))
	}
}

func TestFilterByWindow_ThisWeekStartsMonday(t *testing.T) {
	records := dated(
		"2025-03-17 00:00:01", // Monday just after midnight, included
		"2025-03-16 23:59:59", // prior Sunday, excluded
		"2025-03-19 09:00:00",
	)

	got := FilterByWindow(records, ThisWeek, testNow)

	if len(got) != 2 {
		t.Fatalf("ThisWeek filter returned %d records, want 2", len(got))
	}
	for _, rec := range got {
		if rec.Date == "2025-03-16 23:59:59" {
			t.Errorf("Sunday record leaked into ThisWeek window")
		}
	}
}

func TestFilterByWindow_ThisWeekWhenTodayIsMonday(t *testing.T) {
	monday := time.Date(2025, 3, 17, 10, 0, 0, 0, time.Local)
	records := dated("2025-03-17 00:00:01", "2025-03-16 23:59:59")

	got := FilterByWindow(records, ThisWeek, monday)

	if len(got) != 1 || got[0].Date != "2025-03-17 00:00:01" {
		t.Fatalf("Monday-as-now filter = %+v, want only the Monday record", got)
	}
}

func TestFilterByWindow_ThisMonth(t *testing.T) {
	records := dated("2025-03-01", "2025-02-28", "2025-03-19")

	got := FilterByWindow(records, ThisMonth, testNow)

	if len(got) != 2 {
		t.Fatalf("ThisMonth filter returned %d records, want 2", len(got))
	}
}

func TestFilterByWindow_AllTimeIsIdentity(t *testing.T) {
	records := dated("2025-03-19", "garbage", "")

	got := FilterByWindow(records, AllTime, testNow)

	if len(got) != len(records) {
		t.Fatalf("AllTime returned %d records, want %d", len(got), len(records))
	}
}

func TestFilterByWindow_UnparseableDateExcludedFromScopedWindows(t *testing.T) {
	records := dated("2025-03-19 09:00:00", "not a date")

	got := FilterByWindow(records, Today, testNow)

	if len(got) != 1 {
		t.Fatalf("scoped filter returned %d records, want 1", len(got))
	}
}

func TestFilterByWindow_WhollyUnparseableColumnDegradesToIdentity(t *testing.T) {
	records := dated("not a date", "also bad", "")

	got := FilterByWindow(records, ThisWeek, testNow)

	if len(got) != len(records) {
		t.Fatalf("unusable date column: got %d records, want all %d", len(got), len(records))
	}
}

func TestFilterByWindow_DoesNotMutateInput(t *testing.T) {
	records := dated("2025-03-19", "2025-01-01")

	FilterByWindow(records, ThisMonth, testNow)

	if records[0].Date != "2025-03-19" || records[1].Date != "2025-01-01" {
		t.Fatalf("input records mutated: %+v", records)
	}
}

func TestParseWindow(t *testing.T) {
	cases := []struct {
		in   string
		want Window
	}{
		{"today", Today},
		{"Today", Today},
		{"this-week", ThisWeek},
		{"this_week", ThisWeek},
		{"this week", ThisWeek},
		{"this-month", ThisMonth},
		{"all-time", AllTime},
		{"", AllTime},
		{"last-year", AllTime},
		{"bogus", AllTime},
	}
	for _, tc := range cases {
		if got := ParseWindow(tc.in); got != tc.want {
			t.Errorf("ParseWindow(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestAgents_FirstSeenOrderDistinct(t *testing.T) {
	records := []types.CallRecord{
		{AgentName: "Bea"},
		{AgentName: "Alex"},
		{AgentName: "Bea"},
		{AgentName: ""},
		{AgentName: "Cal"},
	}

	got := Agents(records)

	want := []string{"Bea", "Alex", "Cal"}
	if len(got) != len(want) {
		t.Fatalf("Agents = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Agents[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSearchTranscripts(t *testing.T) {
	records := []types.CallRecord{
		{AgentName: "Alex", Filename: "a.wav", Transcript: "We discussed the REFUND policy at length."},
		{AgentName: "Bea", Filename: "b.wav", Transcript: "Pricing only."},
	}

	got := SearchTranscripts(records, "refund")

	if len(got) != 1 {
		t.Fatalf("SearchTranscripts returned %d matches, want 1", len(got))
	}
	if got[0].Filename != "a.wav" {
		t.Errorf("match filename = %q, want a.wav", got[0].Filename)
	}
	if SearchTranscripts(records, "") != nil {
		t.Errorf("empty keyword should return no matches")
	}
}
