package feedback

import (
	"encoding/json"
	"strings"

	"coach-insights-go/internal/types"
)

// Parse converts one raw feedback_json field into a FeedbackPayload. The
// upstream generator is best-effort: the string may be absent, wrapped in a
// Markdown code fence, truncated, or not JSON at all. Every failure mode
// degrades to the empty payload; Parse never returns an error.
func Parse(raw string) types.FeedbackPayload {
	clean := strings.TrimSpace(raw)
	if clean == "" || isNotAValue(clean) {
		return types.FeedbackPayload{}
	}
	clean = stripFence(clean)

	var p types.FeedbackPayload
	if err := json.Unmarshal([]byte(clean), &p); err != nil {
		return types.FeedbackPayload{}
	}
	normalizeOffsets(&p)
	return p
}

// isNotAValue catches the placeholder strings spreadsheet exports emit for
// blank cells.
func isNotAValue(s string) bool {
	switch strings.ToLower(s) {
	case "nan", "null", "none", "n/a":
		return true
	}
	return false
}

// stripFence removes a single surrounding ``` or ```json code fence.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	parts := strings.SplitN(s, "```", 3)
	if len(parts) < 2 {
		return s
	}
	inner := parts[1]
	inner = strings.TrimPrefix(inner, "json")
	return strings.TrimSpace(inner)
}

// normalizeOffsets converts every event's display timestamp into integer
// seconds once, at the boundary, so consumers never re-parse the string.
func normalizeOffsets(p *types.FeedbackPayload) {
	for i := range p.ActiveListeningFailures {
		p.ActiveListeningFailures[i].OffsetSeconds = ClockSeconds(p.ActiveListeningFailures[i].Timestamp)
	}
	for i := range p.MissedProbingOpportunities {
		p.MissedProbingOpportunities[i].OffsetSeconds = ClockSeconds(p.MissedProbingOpportunities[i].Timestamp)
	}
	for i := range p.EmotionalCuesMissed {
		p.EmotionalCuesMissed[i].OffsetSeconds = ClockSeconds(p.EmotionalCuesMissed[i].Timestamp)
	}
	for i := range p.ObjectionHandlingAnalysis {
		p.ObjectionHandlingAnalysis[i].OffsetSeconds = ClockSeconds(p.ObjectionHandlingAnalysis[i].Timestamp)
	}
	for i := range p.ExceptionalMoments {
		p.ExceptionalMoments[i].OffsetSeconds = ClockSeconds(p.ExceptionalMoments[i].Timestamp)
	}
}
