package aggregate

import (
	"fmt"
	"sort"

	"coach-insights-go/internal/store"
	"coach-insights-go/internal/types"
)

// Tier thresholds on average overall score.
const (
	tierTopMin        = 7
	tierDevelopingMin = 5
)

// Team-wide failure-rate thresholds that trigger a training recommendation,
// as a proportion of total calls in the window.
const (
	listeningRateThreshold = 0.30
	probingRateThreshold   = 0.40
	discountRateThreshold  = 0.20
)

// Per-agent counts that mark a focus area in the needs-support tier.
const (
	focusListeningMin = 3
	focusProbingMin   = 3
	focusDiscountMin  = 2
)

// AgentPerformance is the executive-summary view of one agent: failure
// counts for triage plus the average overall score that drives tiering.
type AgentPerformance struct {
	Agent            string   `json:"agent"`
	TotalCalls       int      `json:"total_calls"`
	ListeningFails   int      `json:"listening_fails"`
	ProbingFails     int      `json:"probing_fails"`
	EmotionalFails   int      `json:"emotional_fails"`
	ObjectionCount   int      `json:"objection_count"`
	DiscountCount    int      `json:"discount_count"`
	ExceptionalCount int      `json:"exceptional_count"`
	AvgScore         float64  `json:"avg_score"`
	FocusAreas       []string `json:"focus_areas,omitempty"`
}

// LeaderboardRow is one agent's line on the team leaderboard.
type LeaderboardRow struct {
	Agent     string  `json:"agent"`
	Calls     int     `json:"calls"`
	Closed    int     `json:"closed"`
	Lost      int     `json:"lost"`
	CloseRate float64 `json:"close_rate"`
	AvgScore  float64 `json:"avg_score"`
}

// AgentCount ranks an agent by one failure metric.
type AgentCount struct {
	Agent string `json:"agent"`
	Count int    `json:"count"`
}

// Tiers buckets agents by average overall score: top (>=7), developing
// (>=5), needs-support (<5). Within a tier agents keep input order.
type Tiers struct {
	Top          []AgentPerformance `json:"top"`
	Developing   []AgentPerformance `json:"developing"`
	NeedsSupport []AgentPerformance `json:"needs_support"`
}

// TeamAggregate is the whole-team reduction over a record window.
type TeamAggregate struct {
	TotalCalls      int                `json:"total_calls"`
	Outcomes        OutcomeCounts      `json:"outcomes"`
	CloseRate       float64            `json:"close_rate"`
	AvgScore        float64            `json:"avg_score"`
	Leaderboard     []LeaderboardRow   `json:"leaderboard"`
	Performance     []AgentPerformance `json:"performance"`
	Tiers           Tiers              `json:"tiers"`
	TopListening    []AgentCount       `json:"top_listening_fails"`
	TopProbing      []AgentCount       `json:"top_probing_fails"`
	TopDiscount     []AgentCount       `json:"top_discount_jumps"`
	TrainingActions []string           `json:"training_actions"`
}

// ForTeam reduces a record window into team-wide analytics. Agents appear
// in first-seen record order everywhere order is unspecified.
func ForTeam(records []types.CallRecord) TeamAggregate {
	team := TeamAggregate{TotalCalls: len(records)}

	var teamScores []float64
	for _, rec := range records {
		fb := rec.Feedback
		if fb.Empty() {
			continue
		}
		tallyOutcome(&team.Outcomes, fb.CallOutcome)
		if v := fb.CallScore.Overall(); v > 0 {
			teamScores = append(teamScores, v)
		}
	}
	team.CloseRate = closeRate(team.Outcomes.Closed, team.Outcomes.Lost)
	team.AvgScore = mean(teamScores)

	for _, agent := range store.Agents(records) {
		perf := AgentPerformance{Agent: agent}
		row := LeaderboardRow{Agent: agent}
		var scores []float64

		for _, rec := range records {
			if rec.AgentName != agent {
				continue
			}
			perf.TotalCalls++
			row.Calls++
			fb := rec.Feedback
			if fb.Empty() {
				continue
			}
			switch fb.CallOutcome {
			case types.OutcomeClosed:
				row.Closed++
			case types.OutcomeLost:
				row.Lost++
			}
			perf.ListeningFails += len(fb.ActiveListeningFailures)
			perf.ProbingFails += len(fb.MissedProbingOpportunities)
			perf.EmotionalFails += len(fb.EmotionalCuesMissed)
			perf.ObjectionCount += len(fb.ObjectionHandlingAnalysis)
			for _, obj := range fb.ObjectionHandlingAnalysis {
				if obj.WentStraightToDiscount {
					perf.DiscountCount++
				}
			}
			for _, m := range fb.ExceptionalMoments {
				if m.Shareworthy {
					perf.ExceptionalCount++
				}
			}
			if v := fb.CallScore.Overall(); v > 0 {
				scores = append(scores, v)
			}
		}

		perf.AvgScore = mean(scores)
		perf.FocusAreas = focusAreas(perf)
		row.AvgScore = perf.AvgScore
		row.CloseRate = closeRate(row.Closed, row.Lost)

		team.Performance = append(team.Performance, perf)
		team.Leaderboard = append(team.Leaderboard, row)
	}

	sort.SliceStable(team.Leaderboard, func(i, j int) bool {
		return team.Leaderboard[i].CloseRate > team.Leaderboard[j].CloseRate
	})

	for _, perf := range team.Performance {
		switch {
		case perf.AvgScore >= tierTopMin:
			team.Tiers.Top = append(team.Tiers.Top, perf)
		case perf.AvgScore >= tierDevelopingMin:
			team.Tiers.Developing = append(team.Tiers.Developing, perf)
		default:
			team.Tiers.NeedsSupport = append(team.Tiers.NeedsSupport, perf)
		}
	}

	team.TopListening = topAgents(team.Performance, func(p AgentPerformance) int { return p.ListeningFails })
	team.TopProbing = topAgents(team.Performance, func(p AgentPerformance) int { return p.ProbingFails })
	team.TopDiscount = topAgents(team.Performance, func(p AgentPerformance) int { return p.DiscountCount })

	team.TrainingActions = trainingActions(team)
	return team
}

// topAgents ranks agents descending by one metric for the triage columns,
// keeping at most three and dropping zero counts.
func topAgents(perf []AgentPerformance, metric func(AgentPerformance) int) []AgentCount {
	var ranked []AgentCount
	for _, p := range perf {
		if c := metric(p); c > 0 {
			ranked = append(ranked, AgentCount{Agent: p.Agent, Count: c})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	return ranked
}

// trainingActions derives team-level recommendations: a failure type that
// crosses its rate threshold across all calls flags a workshop, and every
// needs-support agent gets a 1-on-1 action.
func trainingActions(team TeamAggregate) []string {
	var actions []string
	total := float64(team.TotalCalls)

	var listening, probing, discount int
	for _, p := range team.Performance {
		listening += p.ListeningFails
		probing += p.ProbingFails
		discount += p.DiscountCount
	}

	if float64(listening) > total*listeningRateThreshold {
		actions = append(actions, "Team training needed: active listening workshop - over 30% of calls show listening failures")
	}
	if float64(probing) > total*probingRateThreshold {
		actions = append(actions, "Team training needed: SPIN selling refresher - agents stopping at surface answers")
	}
	if float64(discount) > total*discountRateThreshold {
		actions = append(actions, "Urgent: value-based selling training - too many reps jumping to discounts")
	}
	for _, p := range team.Tiers.NeedsSupport {
		actions = append(actions, fmt.Sprintf("1-on-1 coaching: %s needs immediate support (score: %.1f)", p.Agent, p.AvgScore))
	}
	return actions
}

// focusAreas names the skills a struggling agent should work on first.
func focusAreas(p AgentPerformance) []string {
	var areas []string
	if p.ListeningFails > focusListeningMin {
		areas = append(areas, "active listening")
	}
	if p.ProbingFails > focusProbingMin {
		areas = append(areas, "probing")
	}
	if p.DiscountCount > focusDiscountMin {
		areas = append(areas, "discounting")
	}
	return areas
}
