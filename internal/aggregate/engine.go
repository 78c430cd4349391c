package aggregate

import (
	"coach-insights-go/internal/types"
)

// SkillKeys enumerates every skill the engine scores. Order is fixed so
// aggregates serialize predictably.
var SkillKeys = []string{
	types.SkillOverall,
	types.SkillActiveListening,
	types.SkillProbingDepth,
	types.SkillEmotionalIntelligence,
	types.SkillValueBasedSelling,
	types.SkillSpinEffectiveness,
	types.SkillSandlerEffectiveness,
	types.SkillObjectionHandling,
}

type OutcomeCounts struct {
	Closed   int `json:"closed"`
	Lost     int `json:"lost"`
	FollowUp int `json:"follow_up"`
}

// PatternEvent is one qualitative finding tagged with its source call so a
// coach can trace it back to the recording.
type PatternEvent struct {
	Detail   string `json:"detail"`
	Date     string `json:"date"`
	Filename string `json:"filename"`
}

// ObjectionEvent is one objection occurrence with its handling outcome.
type ObjectionEvent struct {
	Objection      string  `json:"objection"`
	Effectiveness  float64 `json:"effectiveness"`
	WentToDiscount bool    `json:"went_to_discount"`
	Date           string  `json:"date"`
	Filename       string  `json:"filename"`
}

// SpinGaps counts calls MISSING each SPIN question stage.
type SpinGaps struct {
	Situation   int `json:"situation"`
	Problem     int `json:"problem"`
	Implication int `json:"implication"`
	NeedPayoff  int `json:"need_payoff"`
}

// SandlerGaps counts calls missing each Sandler behavior.
type SandlerGaps struct {
	UpfrontContract  int `json:"upfront_contract"`
	PainDepthSurface int `json:"pain_depth_surface"`
	BudgetQualified  int `json:"budget_qualified"`
	DecisionProcess  int `json:"decision_process"`
}

// AgentAggregate is the full reduction of one agent's calls. It is rebuilt
// from scratch on every call, never updated incrementally.
type AgentAggregate struct {
	Agent                string               `json:"agent"`
	TotalCalls           int                  `json:"total_calls"`
	Outcomes             OutcomeCounts        `json:"outcomes"`
	CloseRate            float64              `json:"close_rate"`
	Scores               map[string][]float64 `json:"scores"`
	AvgScores            map[string]float64   `json:"avg_scores"`
	CommonStrengths      []string             `json:"common_strengths"`
	CommonWeaknesses     []string             `json:"common_weaknesses"`
	ListeningPatterns    []PatternEvent       `json:"listening_patterns"`
	ProbingPatterns      []PatternEvent       `json:"probing_patterns"`
	EmotionalCuePatterns []PatternEvent       `json:"emotional_cue_patterns"`
	ObjectionPatterns    []ObjectionEvent     `json:"objection_patterns"`
	SpinGaps             SpinGaps             `json:"spin_gaps"`
	SandlerGaps          SandlerGaps          `json:"sandler_gaps"`
}

// probingPatternDetail labels every missed probing opportunity; the
// upstream events carry quotes but the pattern itself is always the same.
const probingPatternDetail = "Stopped at surface level"

// ForAgent reduces the record set to one agent's aggregate. Records with
// empty feedback count toward TotalCalls but contribute nothing else.
func ForAgent(records []types.CallRecord, agent string) AgentAggregate {
	agg := AgentAggregate{
		Agent:     agent,
		Scores:    make(map[string][]float64, len(SkillKeys)),
		AvgScores: make(map[string]float64, len(SkillKeys)),
	}
	for _, key := range SkillKeys {
		agg.Scores[key] = []float64{}
	}

	for _, rec := range records {
		if rec.AgentName != agent {
			continue
		}
		agg.TotalCalls++
		fb := rec.Feedback
		if fb.Empty() {
			continue
		}

		tallyOutcome(&agg.Outcomes, fb.CallOutcome)

		// A score of exactly 0 means the skill was not rated; only
		// positive scores enter the lists.
		for _, key := range SkillKeys {
			if v := fb.CallScore.Get(key); v > 0 {
				agg.Scores[key] = append(agg.Scores[key], v)
			}
		}

		for _, r := range fb.WhatWentWell {
			agg.CommonStrengths = append(agg.CommonStrengths, string(r))
		}
		for _, r := range fb.OpportunitiesToImprove {
			agg.CommonWeaknesses = append(agg.CommonWeaknesses, string(r))
		}

		for _, fail := range fb.ActiveListeningFailures {
			agg.ListeningPatterns = append(agg.ListeningPatterns, PatternEvent{
				Detail:   fail.WhatWasMissed,
				Date:     rec.Date,
				Filename: rec.Filename,
			})
		}
		for range fb.MissedProbingOpportunities {
			agg.ProbingPatterns = append(agg.ProbingPatterns, PatternEvent{
				Detail:   probingPatternDetail,
				Date:     rec.Date,
				Filename: rec.Filename,
			})
		}
		for _, cue := range fb.EmotionalCuesMissed {
			agg.EmotionalCuePatterns = append(agg.EmotionalCuePatterns, PatternEvent{
				Detail:   cue.CustomerEmotion,
				Date:     rec.Date,
				Filename: rec.Filename,
			})
		}
		for _, obj := range fb.ObjectionHandlingAnalysis {
			agg.ObjectionPatterns = append(agg.ObjectionPatterns, ObjectionEvent{
				Objection:      obj.Objection,
				Effectiveness:  obj.EffectivenessRating,
				WentToDiscount: obj.WentStraightToDiscount,
				Date:           rec.Date,
				Filename:       rec.Filename,
			})
		}

		countSpinGaps(&agg.SpinGaps, fb.SpinAnalysis)
		countSandlerGaps(&agg.SandlerGaps, fb.SandlerAnalysis)
	}

	for _, key := range SkillKeys {
		agg.AvgScores[key] = mean(agg.Scores[key])
	}
	agg.CloseRate = closeRate(agg.Outcomes.Closed, agg.Outcomes.Lost)
	return agg
}

// tallyOutcome buckets a call outcome. Both follow-up flavors share one
// counter; unrecognized or absent outcomes increment nothing.
func tallyOutcome(c *OutcomeCounts, outcome string) {
	switch outcome {
	case types.OutcomeClosed:
		c.Closed++
	case types.OutcomeLost:
		c.Lost++
	case types.OutcomeFollowUpScheduled, types.OutcomeNeedsCallback:
		c.FollowUp++
	}
}

// countSpinGaps increments a gap for every stage whose questions-used flag
// is false or absent.
func countSpinGaps(g *SpinGaps, spin types.SpinAnalysis) {
	if !spin.SituationQuestionsUsed {
		g.Situation++
	}
	if !spin.ProblemQuestionsUsed {
		g.Problem++
	}
	if !spin.ImplicationQuestionsUsed {
		g.Implication++
	}
	if !spin.NeedPayoffQuestionsUsed {
		g.NeedPayoff++
	}
}

func countSandlerGaps(g *SandlerGaps, sandler types.SandlerAnalysis) {
	if !sandler.UpfrontContractEstablished {
		g.UpfrontContract++
	}
	if sandler.PainDepth == "surface" {
		g.PainDepthSurface++
	}
	if !sandler.BudgetQualified {
		g.BudgetQualified++
	}
	if !sandler.DecisionProcessIdentified {
		g.DecisionProcess++
	}
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// closeRate is the closed percentage of decided calls. Follow-ups are
// undecided and stay out of the denominator.
func closeRate(closed, lost int) float64 {
	decided := closed + lost
	if decided == 0 {
		return 0
	}
	return float64(closed) / float64(decided) * 100
}
