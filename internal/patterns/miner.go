package patterns

import (
	"sort"

	"coach-insights-go/internal/aggregate"
	"coach-insights-go/internal/types"
)

// KeyCount is one ranked pattern: the phrasing/key and how often it recurs.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Rank counts occurrences of each key and returns the topN descending by
// count. Ties keep first-seen order; topN <= 0 returns everything. Empty
// keys are skipped.
func Rank(keys []string, topN int) []KeyCount {
	counts := map[string]int{}
	var order []string
	for _, k := range keys {
		if k == "" {
			continue
		}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}

	ranked := make([]KeyCount, 0, len(order))
	for _, k := range order {
		ranked = append(ranked, KeyCount{Key: k, Count: counts[k]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// RankEvents ranks pattern events by their detail text, e.g. the most
// common "what was missed" phrasing or the most common missed emotion.
func RankEvents(events []aggregate.PatternEvent, topN int) []KeyCount {
	keys := make([]string, 0, len(events))
	for _, e := range events {
		keys = append(keys, e.Detail)
	}
	return Rank(keys, topN)
}

// RankRemarks ranks strength/weakness phrasings for the coaching views.
func RankRemarks(remarks []string, topN int) []KeyCount {
	return Rank(remarks, topN)
}

// SharedMoments groups one call's shareworthy exceptional moments for the
// team feed.
type SharedMoments struct {
	Agent    string                    `json:"agent"`
	Filename string                    `json:"filename"`
	Date     string                    `json:"date"`
	Outcome  string                    `json:"outcome,omitempty"`
	Moments  []types.ExceptionalMoment `json:"moments"`
}

// ShareworthyFeed collects every call with at least one moment explicitly
// flagged shareworthy. Well-formed moments without the flag stay out.
func ShareworthyFeed(records []types.CallRecord) []SharedMoments {
	var feed []SharedMoments
	for _, rec := range records {
		var moments []types.ExceptionalMoment
		for _, m := range rec.Feedback.ExceptionalMoments {
			if m.Shareworthy {
				moments = append(moments, m)
			}
		}
		if len(moments) == 0 {
			continue
		}
		feed = append(feed, SharedMoments{
			Agent:    rec.AgentName,
			Filename: rec.Filename,
			Date:     rec.Date,
			Outcome:  rec.Feedback.CallOutcome,
			Moments:  moments,
		})
	}
	return feed
}

// Skill-spotlight categories tracked for champion ranking.
var spotlightCategories = []string{
	"objection_handling",
	"empathy",
	"active_listening",
	"probing",
}

// ChampionsByCategory ranks agents within each spotlight category by how
// many shareworthy moments they produced, top 3 per category. Agents tie
// in first-seen record order.
func ChampionsByCategory(records []types.CallRecord) map[string][]KeyCount {
	tracked := map[string]bool{}
	for _, c := range spotlightCategories {
		tracked[c] = true
	}

	byCategory := map[string][]string{}
	for _, rec := range records {
		for _, m := range rec.Feedback.ExceptionalMoments {
			if !m.Shareworthy || !tracked[m.Category] {
				continue
			}
			byCategory[m.Category] = append(byCategory[m.Category], rec.AgentName)
		}
	}

	out := make(map[string][]KeyCount, len(spotlightCategories))
	for _, c := range spotlightCategories {
		out[c] = Rank(byCategory[c], 3)
	}
	return out
}
