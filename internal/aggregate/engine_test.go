package aggregate

import (
	"math"
	"testing"

	"coach-insights-go/internal/types"
)

func call(agent, outcome string, overall float64) types.CallRecord {
	rec := types.CallRecord{AgentName: agent, Filename: agent + ".wav", Date: "2025-03-19"}
	rec.Feedback = types.FeedbackPayload{CallOutcome: outcome}
	if overall != 0 {
		rec.Feedback.CallScore = types.ScoreCard{"overall_score": overall}
	}
	return rec
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestForAgent_CloseRateAndAverages(t *testing.T) {
	records := []types.CallRecord{
		call("Alex", "closed", 8),
		call("Alex", "lost", 4),
		call("Bea", "closed", 9), // other agent, ignored
	}

	agg := ForAgent(records, "Alex")

	if agg.TotalCalls != 2 {
		t.Errorf("TotalCalls = %d, want 2", agg.TotalCalls)
	}
	if agg.Outcomes != (OutcomeCounts{Closed: 1, Lost: 1, FollowUp: 0}) {
		t.Errorf("Outcomes = %+v, want {1 1 0}", agg.Outcomes)
	}
	if !almostEqual(agg.CloseRate, 50.0) {
		t.Errorf("CloseRate = %v, want 50.0", agg.CloseRate)
	}
	if !almostEqual(agg.AvgScores[types.SkillOverall], 6.0) {
		t.Errorf("avg overall = %v, want 6.0", agg.AvgScores[types.SkillOverall])
	}
}

func TestForAgent_ZeroRecordsZeroAggregate(t *testing.T) {
	agg := ForAgent(nil, "Nobody")

	if agg.TotalCalls != 0 {
		t.Errorf("TotalCalls = %d, want 0", agg.TotalCalls)
	}
	if agg.CloseRate != 0 {
		t.Errorf("CloseRate = %v, want 0", agg.CloseRate)
	}
	for _, key := range SkillKeys {
		if len(agg.Scores[key]) != 0 {
			t.Errorf("Scores[%s] = %v, want empty", key, agg.Scores[key])
		}
		if agg.AvgScores[key] != 0 {
			t.Errorf("AvgScores[%s] = %v, want 0", key, agg.AvgScores[key])
		}
	}
}

func TestForAgent_ZeroScoreMeansNotRated(t *testing.T) {
	records := []types.CallRecord{
		call("Alex", "closed", 0),
		call("Alex", "lost", 0),
		call("Alex", "closed", 8),
	}

	agg := ForAgent(records, "Alex")

	if len(agg.Scores[types.SkillOverall]) != 1 {
		t.Fatalf("overall score list = %v, want exactly one entry", agg.Scores[types.SkillOverall])
	}
	if !almostEqual(agg.AvgScores[types.SkillOverall], 8.0) {
		t.Errorf("avg over [0 0 8] = %v, want 8.0", agg.AvgScores[types.SkillOverall])
	}
}

func TestForAgent_FollowUpsDoNotMoveCloseRate(t *testing.T) {
	records := []types.CallRecord{
		call("Alex", "closed", 7),
		call("Alex", "lost", 5),
	}
	base := ForAgent(records, "Alex")

	records = append(records,
		call("Alex", "follow-up-scheduled", 6),
		call("Alex", "needs-callback", 6),
		call("Alex", "follow-up-scheduled", 6),
	)
	withFollowUps := ForAgent(records, "Alex")

	if !almostEqual(base.CloseRate, withFollowUps.CloseRate) {
		t.Errorf("close rate moved from %v to %v after follow-ups", base.CloseRate, withFollowUps.CloseRate)
	}
	if withFollowUps.Outcomes.FollowUp != 3 {
		t.Errorf("FollowUp = %d, want 3", withFollowUps.Outcomes.FollowUp)
	}
}

func TestForAgent_UnknownOutcomeCountsNothing(t *testing.T) {
	records := []types.CallRecord{
		call("Alex", "escalated", 5),
		call("Alex", "", 5),
	}

	agg := ForAgent(records, "Alex")

	if agg.Outcomes != (OutcomeCounts{}) {
		t.Errorf("Outcomes = %+v, want all zero", agg.Outcomes)
	}
}

func TestForAgent_SpinGapsCountMissingStages(t *testing.T) {
	withSpin := func(situation, problem, implication, needPayoff bool) types.CallRecord {
		rec := call("Alex", "closed", 6)
		rec.Feedback.SpinAnalysis = types.SpinAnalysis{
			SituationQuestionsUsed:   situation,
			ProblemQuestionsUsed:     problem,
			ImplicationQuestionsUsed: implication,
			NeedPayoffQuestionsUsed:  needPayoff,
		}
		return rec
	}
	records := []types.CallRecord{
		withSpin(false, true, true, true),
		withSpin(false, true, false, true),
		withSpin(false, true, false, true),
		withSpin(true, true, true, true),
		withSpin(true, true, true, true),
	}

	agg := ForAgent(records, "Alex")

	if agg.SpinGaps.Situation != 3 {
		t.Errorf("spin_gaps.situation = %d, want 3", agg.SpinGaps.Situation)
	}
	if agg.SpinGaps.Problem != 0 {
		t.Errorf("spin_gaps.problem = %d, want 0", agg.SpinGaps.Problem)
	}
	if agg.SpinGaps.Implication != 2 {
		t.Errorf("spin_gaps.implication = %d, want 2", agg.SpinGaps.Implication)
	}
	if agg.SpinGaps.Situation > agg.TotalCalls {
		t.Errorf("gap counter %d exceeds total calls %d", agg.SpinGaps.Situation, agg.TotalCalls)
	}
}

func TestForAgent_SandlerGaps(t *testing.T) {
	withSandler := func(contract bool, painDepth string, budget, decision bool) types.CallRecord {
		rec := call("Alex", "closed", 6)
		rec.Feedback.SandlerAnalysis = types.SandlerAnalysis{
			UpfrontContractEstablished: contract,
			PainDepth:                  painDepth,
			BudgetQualified:            budget,
			DecisionProcessIdentified:  decision,
		}
		return rec
	}
	records := []types.CallRecord{
		withSandler(false, "surface", false, true),
		withSandler(true, "deep", true, true),
		withSandler(true, "surface", true, false),
	}

	agg := ForAgent(records, "Alex")

	want := SandlerGaps{UpfrontContract: 1, PainDepthSurface: 2, BudgetQualified: 1, DecisionProcess: 1}
	if agg.SandlerGaps != want {
		t.Errorf("SandlerGaps = %+v, want %+v", agg.SandlerGaps, want)
	}
}

func TestForAgent_EmptyFeedbackSkipsGapCounters(t *testing.T) {
	records := []types.CallRecord{
		{AgentName: "Alex", Filename: "a.wav", Date: "2025-03-19"}, // no feedback at all
		call("Alex", "closed", 7),
	}

	agg := ForAgent(records, "Alex")

	if agg.TotalCalls != 2 {
		t.Errorf("TotalCalls = %d, want 2", agg.TotalCalls)
	}
	// only the call with feedback can register gaps
	if agg.SpinGaps.Situation != 1 {
		t.Errorf("spin_gaps.situation = %d, want 1", agg.SpinGaps.Situation)
	}
}

func TestForAgent_PatternsCarrySourceCall(t *testing.T) {
	rec := call("Alex", "lost", 4)
	rec.Date = "2025-03-18"
	rec.Filename = "call-042.wav"
	rec.Feedback.ActiveListeningFailures = []types.ListeningFailure{
		{Timestamp: "02:15", WhatWasMissed: "budget concern"},
	}
	rec.Feedback.MissedProbingOpportunities = []types.ProbingMiss{{Timestamp: "04:00"}}
	rec.Feedback.EmotionalCuesMissed = []types.EmotionalCue{{CustomerEmotion: "frustration"}}
	rec.Feedback.ObjectionHandlingAnalysis = []types.ObjectionReview{
		{Objection: "too expensive", EffectivenessRating: 3, WentStraightToDiscount: true},
	}

	agg := ForAgent([]types.CallRecord{rec}, "Alex")

	if len(agg.ListeningPatterns) != 1 {
		t.Fatalf("ListeningPatterns len = %d, want 1", len(agg.ListeningPatterns))
	}
	lp := agg.ListeningPatterns[0]
	if lp.Detail != "budget concern" || lp.Date != "2025-03-18" || lp.Filename != "call-042.wav" {
		t.Errorf("listening pattern = %+v, missing source tagging", lp)
	}
	if agg.ProbingPatterns[0].Detail != "Stopped at surface level" {
		t.Errorf("probing detail = %q", agg.ProbingPatterns[0].Detail)
	}
	if agg.EmotionalCuePatterns[0].Detail != "frustration" {
		t.Errorf("emotional detail = %q", agg.EmotionalCuePatterns[0].Detail)
	}
	obj := agg.ObjectionPatterns[0]
	if obj.Objection != "too expensive" || !obj.WentToDiscount || obj.Effectiveness != 3 {
		t.Errorf("objection pattern = %+v", obj)
	}
}

func TestForAgent_StrengthsAndWeaknessesAccumulate(t *testing.T) {
	a := call("Alex", "closed", 8)
	a.Feedback.WhatWentWell = []types.Remark{"Good rapport"}
	a.Feedback.OpportunitiesToImprove = []types.Remark{"Ask for budget earlier"}
	b := call("Alex", "lost", 5)
	b.Feedback.WhatWentWell = []types.Remark{"Good rapport"}

	agg := ForAgent([]types.CallRecord{a, b}, "Alex")

	if len(agg.CommonStrengths) != 2 {
		t.Errorf("CommonStrengths = %v, want 2 entries", agg.CommonStrengths)
	}
	if len(agg.CommonWeaknesses) != 1 {
		t.Errorf("CommonWeaknesses = %v, want 1 entry", agg.CommonWeaknesses)
	}
}

func TestForAgent_OverallAliasRecognized(t *testing.T) {
	rec := call("Alex", "closed", 0)
	rec.Feedback.CallScore = types.ScoreCard{"overall": 7}

	agg := ForAgent([]types.CallRecord{rec}, "Alex")

	if !almostEqual(agg.AvgScores[types.SkillOverall], 7.0) {
		t.Errorf("avg overall via alias = %v, want 7.0", agg.AvgScores[types.SkillOverall])
	}
}
