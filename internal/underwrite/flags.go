package underwrite

import (
	"math"

	"github.com/aire-labs/aire/internal/model"
)

// Risk flag thresholds. Fixed heuristics, not fitted parameters.
const (
	grossYieldAggressive = 0.14  // annual rent / price above this looks overstated
	vacancyOptimistic    = 0.05  // assumed vacancy below this looks optimistic
	expenseRatioFloor    = 0.20  // expenses below this share of rent look understated
	capRateThin          = 0.045 // cap rate below this leaves little yield margin
)

// PenaltyCeiling caps the total multiplicative score penalty.
const PenaltyCeiling = 0.35

// penaltyByKind assigns each flag kind its fixed score penalty. One flag
// contributes to exactly one kind.
var penaltyByKind = map[model.RiskFlagKind]float64{
	model.FlagAggressiveYield:     0.06,
	model.FlagOptimisticVacancy:   0.08,
	model.FlagUnderstatedExpenses: 0.06,
	model.FlagLowCapRate:          0.06,
	model.FlagRegulatoryRisk:      0.20,
}

// DetectFlags runs the heuristic red-flag rules against the raw input and
// derived numbers. Rules are independent and non-exclusive; the returned
// slice preserves rule-evaluation order, which fixes how the narrative
// truncates the risk list downstream.
func DetectFlags(p model.PropertyInput, n model.DerivedNumbers) []model.RiskFlag {
	var flags []model.RiskFlag

	grossYield := p.MonthlyRent * 12 / math.Max(p.Price, 1)
	if grossYield > grossYieldAggressive {
		flags = append(flags, model.RiskFlag{
			Kind:    model.FlagAggressiveYield,
			Message: "Rent-to-price ratio looks aggressive vs market norms",
		})
	}
	if p.VacancyRate < vacancyOptimistic {
		flags = append(flags, model.RiskFlag{
			Kind:    model.FlagOptimisticVacancy,
			Message: "Vacancy assumption looks optimistic",
		})
	}
	if p.MonthlyExpenses < p.MonthlyRent*expenseRatioFloor {
		flags = append(flags, model.RiskFlag{
			Kind:    model.FlagUnderstatedExpenses,
			Message: "Expenses look understated vs rent",
		})
	}
	if n.CapRate < capRateThin {
		flags = append(flags, model.RiskFlag{
			Kind:    model.FlagLowCapRate,
			Message: "Low cap rate leaves thin yield margin",
		})
	}
	if p.RentRegulationRisk {
		flags = append(flags, model.RiskFlag{
			Kind:    model.FlagRegulatoryRisk,
			Message: "Regulatory pressure risk (rent regulation exposure)",
		})
	}

	return flags
}

// PenaltyFor converts flags into a total multiplicative penalty, clamped to
// [0, PenaltyCeiling]. A flag with an unknown kind contributes 0.
func PenaltyFor(flags []model.RiskFlag) float64 {
	var total float64
	for _, f := range flags {
		total += penaltyByKind[f.Kind]
	}
	return math.Min(total, PenaltyCeiling)
}
