package model

import "time"

// Grade is the letter grade assigned to a property.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Verdict is the investment call that accompanies a grade.
type Verdict string

const (
	VerdictStrongBuy   Verdict = "STRONG BUY"
	VerdictBuy         Verdict = "BUY"
	VerdictWatch       Verdict = "WATCH"
	VerdictSpeculative Verdict = "SPECULATIVE"
	VerdictPass        Verdict = "PASS"
)

// UnderwritingResult is the terminal output of one pipeline run.
// Create-once, never mutated. If KillSwitch is true the grade is F and the
// verdict is PASS regardless of the score.
type UnderwritingResult struct {
	FinalScore float64 `json:"final_score"`
	Grade      Grade   `json:"grade"`
	Verdict    Verdict `json:"verdict"`
	KillSwitch bool    `json:"kill_switch"`
	Penalty    float64 `json:"penalty"`
}

// Analysis is the full audit payload for one run: the result plus every
// intermediate the engine derived from the input. Given identical input and
// rate environment the payload is numerically identical, which is what makes
// persisted runs reproducible.
type Analysis struct {
	Input           PropertyInput      `json:"input"`
	RateEnvironment RateEnvironment    `json:"rate_environment"`
	Numbers         DerivedNumbers     `json:"numbers"`
	Metrics         MetricScores       `json:"metrics"`
	Weights         Weights            `json:"weights"`
	Flags           []RiskFlag         `json:"flags"`
	Result          UnderwritingResult `json:"result"`
	Strengths       []string           `json:"strengths"`
	Risks           []string           `json:"risks"`
}

// AnalysisRecord is a persisted analysis run.
type AnalysisRecord struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	Analysis  Analysis  `json:"analysis"`
	CreatedAt time.Time `json:"created_at"`
}

// User tracks usage metering and the paid flag for one email address.
type User struct {
	Email        string    `json:"email"`
	AnalysesUsed int       `json:"analyses_used"`
	Paid         bool      `json:"paid"`
	UpdatedAt    time.Time `json:"updated_at"`
}
