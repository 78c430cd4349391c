package types

import "encoding/json"

// CallRecord is one analyzed sales call as loaded from the record sheet.
// Records are immutable once loaded; a refresh replaces the whole set.
type CallRecord struct {
	AgentName    string          `json:"agent_name"`
	Date         string          `json:"date"`
	Filename     string          `json:"filename"`
	Transcript   string          `json:"transcript,omitempty"`
	Disposition  string          `json:"disposition,omitempty"`
	CallDuration float64         `json:"call_duration,omitempty"`
	AudioURL     string          `json:"audio_url,omitempty"`
	Feedback     FeedbackPayload `json:"feedback"`
}

// FeedbackPayload is the normalized coaching feedback for one call. Every
// field is optional; a payload that failed to parse is the zero value and
// contributes nothing to any aggregate.
type FeedbackPayload struct {
	Summary                    string              `json:"summary,omitempty"`
	CustomerIntent             string              `json:"customer_intent,omitempty"`
	CallOutcome                string              `json:"call_outcome,omitempty"`
	CloseReason                string              `json:"close_reason,omitempty"`
	CallScore                  ScoreCard           `json:"call_score,omitempty"`
	WhatWentWell               []Remark            `json:"what_went_well,omitempty"`
	OpportunitiesToImprove     []Remark            `json:"opportunities_to_improve,omitempty"`
	ActiveListeningFailures    []ListeningFailure  `json:"active_listening_failures,omitempty"`
	MissedProbingOpportunities []ProbingMiss       `json:"missed_probing_opportunities,omitempty"`
	EmotionalCuesMissed        []EmotionalCue      `json:"emotional_cues_missed,omitempty"`
	ObjectionHandlingAnalysis  []ObjectionReview   `json:"objection_handling_analysis,omitempty"`
	ExceptionalMoments         []ExceptionalMoment `json:"exceptional_moments,omitempty"`
	SamplePhrases              map[string][]Remark `json:"sample_phrases,omitempty"`
	SpinAnalysis               SpinAnalysis        `json:"spin_analysis,omitempty"`
	SandlerAnalysis            SandlerAnalysis     `json:"sandler_analysis,omitempty"`
}

// Empty reports whether the payload carries no feedback at all. Absent
// feedback and feedback that failed to parse both look like this.
func (p FeedbackPayload) Empty() bool {
	return p.Summary == "" &&
		p.CustomerIntent == "" &&
		p.CallOutcome == "" &&
		p.CloseReason == "" &&
		len(p.CallScore) == 0 &&
		len(p.WhatWentWell) == 0 &&
		len(p.OpportunitiesToImprove) == 0 &&
		len(p.ActiveListeningFailures) == 0 &&
		len(p.MissedProbingOpportunities) == 0 &&
		len(p.EmotionalCuesMissed) == 0 &&
		len(p.ObjectionHandlingAnalysis) == 0 &&
		len(p.ExceptionalMoments) == 0 &&
		len(p.SamplePhrases) == 0 &&
		p.SpinAnalysis == (SpinAnalysis{}) &&
		p.SandlerAnalysis == (SandlerAnalysis{})
}

// Recognized call outcomes. Anything else increments no outcome counter.
const (
	OutcomeClosed            = "closed"
	OutcomeLost              = "lost"
	OutcomeFollowUpScheduled = "follow-up-scheduled"
	OutcomeNeedsCallback     = "needs-callback"
)

// ScoreCard maps skill name to a 0-10 score.
type ScoreCard map[string]float64

// Skill keys the aggregation engine recognizes. "overall" and
// "overall_score" are aliases for the same skill.
const (
	SkillOverall               = "overall"
	SkillActiveListening       = "active_listening"
	SkillProbingDepth          = "probing_depth"
	SkillEmotionalIntelligence = "emotional_intelligence"
	SkillValueBasedSelling     = "value_based_selling"
	SkillSpinEffectiveness     = "spin_effectiveness"
	SkillSandlerEffectiveness  = "sandler_effectiveness"
	SkillObjectionHandling     = "objection_handling"
)

// Get returns the score for a skill, resolving the overall/overall_score
// alias. Missing skills read as 0.
func (s ScoreCard) Get(key string) float64 {
	if v, ok := s[key]; ok {
		return v
	}
	if key == SkillOverall {
		return s["overall_score"]
	}
	return 0
}

// Overall returns the overall call score under either key spelling.
func (s ScoreCard) Overall() float64 {
	return s.Get(SkillOverall)
}

// Remark is a free-text feedback item. The upstream generator sometimes
// emits these as plain strings and sometimes as objects with a "text"
// field, so decoding accepts either and never fails.
type Remark string

func (r *Remark) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = Remark(s)
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(b, &obj); err == nil {
		if t, ok := obj["text"].(string); ok {
			*r = Remark(t)
			return nil
		}
	}
	*r = Remark(string(b))
	return nil
}

// ListeningFailure is one active-listening coaching moment.
type ListeningFailure struct {
	Timestamp           string `json:"timestamp,omitempty"`
	OffsetSeconds       int    `json:"offset_seconds,omitempty"`
	CustomerSaid        string `json:"customer_said,omitempty"`
	RepResponse         string `json:"rep_response,omitempty"`
	WhatRepAttempted    string `json:"what_rep_attempted,omitempty"`
	WhatWorked          string `json:"what_worked,omitempty"`
	WhatWasMissed       string `json:"what_was_missed,omitempty"`
	WhyItMatters        string `json:"why_it_matters,omitempty"`
	BetterResponse      string `json:"better_response,omitempty"`
	FrameworkConnection string `json:"framework_connection,omitempty"`
}

// ProbingMiss is one missed chance to dig below a surface answer.
type ProbingMiss struct {
	Timestamp            string `json:"timestamp,omitempty"`
	OffsetSeconds        int    `json:"offset_seconds,omitempty"`
	SurfaceAnswer        string `json:"surface_answer,omitempty"`
	WhatRepDidInstead    string `json:"what_rep_did_instead,omitempty"`
	WhyStoppingHurts     string `json:"why_stopping_hurts,omitempty"`
	ShouldHaveAsked      string `json:"should_have_asked,omitempty"`
	WhyThisQuestionWorks string `json:"why_this_question_works,omitempty"`
	FrameworkConnection  string `json:"framework_connection,omitempty"`
}

// EmotionalCue is one customer emotion the rep under- or un-acknowledged.
type EmotionalCue struct {
	Timestamp              string `json:"timestamp,omitempty"`
	OffsetSeconds          int    `json:"offset_seconds,omitempty"`
	CustomerEmotion        string `json:"customer_emotion,omitempty"`
	Signal                 string `json:"signal,omitempty"`
	RepAcknowledgmentLevel string `json:"rep_acknowledgment_level,omitempty"`
	RepAttempted           string `json:"rep_attempted,omitempty"`
	WhatWorked             string `json:"what_worked,omitempty"`
	RepMissedIt            string `json:"rep_missed_it,omitempty"`
	WhyItMatters           string `json:"why_it_matters,omitempty"`
	EmpathyResponse        string `json:"empathy_response,omitempty"`
	FrameworkConnection    string `json:"framework_connection,omitempty"`
}

// ApproachStep is one step of a recommended objection response.
type ApproachStep struct {
	Step    Remark `json:"step,omitempty"`
	Action  string `json:"action,omitempty"`
	Example string `json:"example,omitempty"`
	Why     string `json:"why,omitempty"`
}

// ObjectionReview is the analysis of how one customer objection was handled.
type ObjectionReview struct {
	Timestamp                   string         `json:"timestamp,omitempty"`
	OffsetSeconds               int            `json:"offset_seconds,omitempty"`
	Objection                   string         `json:"objection,omitempty"`
	RealObjection               string         `json:"real_objection,omitempty"`
	RepResponse                 string         `json:"rep_response,omitempty"`
	RepAttempted                string         `json:"rep_attempted,omitempty"`
	WhatWorked                  string         `json:"what_worked,omitempty"`
	CriticalFailures            []Remark       `json:"critical_failures,omitempty"`
	EffectivenessRating         float64        `json:"effectiveness_rating,omitempty"`
	WentStraightToDiscount      bool           `json:"went_straight_to_discount,omitempty"`
	ValueEstablished            bool           `json:"value_established,omitempty"`
	StepByStepBetterApproach    []ApproachStep `json:"step_by_step_better_approach,omitempty"`
	SandlerTechniqueRecommended string         `json:"sandler_technique_recommended,omitempty"`
	WhyThisTechnique            string         `json:"why_this_technique,omitempty"`
	FrameworkConnections        string         `json:"framework_connections,omitempty"`
}

// ExceptionalMoment is a call highlight. Only moments flagged shareworthy
// feed the team-wide sharing views.
type ExceptionalMoment struct {
	Timestamp       string `json:"timestamp,omitempty"`
	OffsetSeconds   int    `json:"offset_seconds,omitempty"`
	Category        string `json:"category,omitempty"`
	Shareworthy     bool   `json:"shareworthy,omitempty"`
	CustomerQuote   string `json:"customer_quote,omitempty"`
	RepQuote        string `json:"rep_quote,omitempty"`
	WhatHappened    string `json:"what_happened,omitempty"`
	WhyExceptional  string `json:"why_exceptional,omitempty"`
	CoachingInsight string `json:"coaching_insight,omitempty"`
}

// SpinAnalysis tracks which SPIN question stages the rep used on a call.
type SpinAnalysis struct {
	SituationQuestionsUsed   bool `json:"situation_questions_used,omitempty"`
	ProblemQuestionsUsed     bool `json:"problem_questions_used,omitempty"`
	ImplicationQuestionsUsed bool `json:"implication_questions_used,omitempty"`
	NeedPayoffQuestionsUsed  bool `json:"need_payoff_questions_used,omitempty"`
}

// SandlerAnalysis tracks Sandler methodology adherence on a call.
type SandlerAnalysis struct {
	UpfrontContractEstablished bool   `json:"upfront_contract_established,omitempty"`
	PainDepth                  string `json:"pain_depth,omitempty"`
	BudgetQualified            bool   `json:"budget_qualified,omitempty"`
	DecisionProcessIdentified  bool   `json:"decision_process_identified,omitempty"`
}
