package store

import (
	"strings"

	"coach-insights-go/internal/types"
)

const excerptLen = 300

// SearchMatch is one transcript hit for the call-search view.
type SearchMatch struct {
	AgentName string `json:"agent_name"`
	Filename  string `json:"filename"`
	Date      string `json:"date"`
	Summary   string `json:"summary,omitempty"`
	Outcome   string `json:"outcome,omitempty"`
	Excerpt   string `json:"excerpt"`
}

// SearchTranscripts finds calls whose transcript mentions the keyword,
// case-insensitively.
func SearchTranscripts(records []types.CallRecord, keyword string) []SearchMatch {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}
	var out []SearchMatch
	for _, rec := range records {
		if !strings.Contains(strings.ToLower(rec.Transcript), keyword) {
			continue
		}
		excerpt := rec.Transcript
		if len(excerpt) > excerptLen {
			excerpt = excerpt[:excerptLen] + "..."
		}
		out = append(out, SearchMatch{
			AgentName: rec.AgentName,
			Filename:  rec.Filename,
			Date:      rec.Date,
			Summary:   rec.Feedback.Summary,
			Outcome:   rec.Feedback.CallOutcome,
			Excerpt:   excerpt,
		})
	}
	return out
}
