// Package model defines the data types exchanged between the underwriting
// engine, the store, and the report renderer.
package model

// RateEnvironment selects which fixed weight table the scorer uses.
type RateEnvironment string

const (
	RateEnvHigh   RateEnvironment = "HIGH"
	RateEnvNormal RateEnvironment = "NORMAL"
)

// ParseRateEnvironment normalizes a user-supplied rate environment string.
// Anything other than "HIGH" (case-insensitive) maps to NORMAL.
func ParseRateEnvironment(s string) RateEnvironment {
	switch s {
	case "HIGH", "high", "High":
		return RateEnvHigh
	default:
		return RateEnvNormal
	}
}

// PropertyInput holds the deal economics for a single analysis run. It is
// constructed once and never mutated. The engine does not validate ranges;
// out-of-range values propagate through the arithmetic (garbage in,
// non-crashing garbage out).
type PropertyInput struct {
	Address            string  `json:"address"`
	Price              float64 `json:"price"`
	DownPaymentPct     float64 `json:"down_payment_pct"`
	InterestRatePct    float64 `json:"interest_rate_pct"`
	TermYears          int     `json:"term_years"`
	MonthlyRent        float64 `json:"monthly_rent"`
	MonthlyExpenses    float64 `json:"monthly_expenses"`
	VacancyRate        float64 `json:"vacancy_rate"`
	ReplacementCost    float64 `json:"replacement_cost"`
	DaysOnMarket       int     `json:"days_on_market"`
	JobDiversityIndex  float64 `json:"job_diversity_index"`
	RentRegulationRisk bool    `json:"rent_regulation_risk"`
}

// DerivedNumbers holds the financial metrics computed from a PropertyInput
// plus the fixed stress assumptions. Never persisted independently of the
// run that produced it.
type DerivedNumbers struct {
	LoanAmount    float64 `json:"loan_amount"`
	LoanPayment   float64 `json:"loan_payment"`
	NOIYear       float64 `json:"noi_year"`
	CapRate       float64 `json:"cap_rate"`
	CashFlowMonth float64 `json:"cash_flow_month"`
	CoCReturn     float64 `json:"coc_return"`
	DSCRStress    float64 `json:"dscr_stress"`
}

// Metric names used as keys in MetricScores and Weights.
const (
	MetricCashflow    = "cashflow"
	MetricDownside    = "downside"
	MetricLocation    = "location"
	MetricYield       = "yield"
	MetricLiquidity   = "liquidity"
	MetricOptionality = "optionality"
	MetricAIRisk      = "ai_risk"
)

// MetricNames lists the seven metric names in canonical order. Iterating
// this slice instead of the maps keeps scoring and output deterministic.
var MetricNames = []string{
	MetricCashflow,
	MetricDownside,
	MetricLocation,
	MetricYield,
	MetricLiquidity,
	MetricOptionality,
	MetricAIRisk,
}

// MetricScores maps metric name to a sub-score clamped to [0,1].
type MetricScores map[string]float64

// Weights maps metric name to its weight. The weights for a regime sum to 1.0.
type Weights map[string]float64

// RiskFlagKind tags a risk flag so the penalty aggregator can switch on the
// kind rather than matching message text.
type RiskFlagKind string

const (
	FlagAggressiveYield     RiskFlagKind = "aggressive_yield"
	FlagOptimisticVacancy   RiskFlagKind = "optimistic_vacancy"
	FlagUnderstatedExpenses RiskFlagKind = "understated_expenses"
	FlagLowCapRate          RiskFlagKind = "low_cap_rate"
	FlagRegulatoryRisk      RiskFlagKind = "regulatory_risk"
)

// RiskFlag is one heuristic finding. Flags are emitted in rule-evaluation
// order, which fixes the truncation order of the narrative risk list.
type RiskFlag struct {
	Kind    RiskFlagKind `json:"kind"`
	Message string       `json:"message"`
}
