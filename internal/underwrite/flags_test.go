package underwrite

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aire-labs/aire/internal/model"
)

func TestDetectFlags_None(t *testing.T) {
	p := model.PropertyInput{
		Price:           400_000,
		MonthlyRent:     3000, // gross yield 0.09
		MonthlyExpenses: 1100, // 36% of rent
		VacancyRate:     0.08,
	}
	n := model.DerivedNumbers{CapRate: 0.06}

	assert.Empty(t, DetectFlags(p, n))
}

func TestDetectFlags_OrderPreserved(t *testing.T) {
	// Fires rules 1, 2, 3, and 5; rule 4 (low cap) is arithmetically
	// incompatible with 1+2+3 holding at the same time.
	p := model.PropertyInput{
		Price:              100_000,
		MonthlyRent:        1250, // gross yield 0.15 > 0.14
		MonthlyExpenses:    200,  // < 20% of rent
		VacancyRate:        0.04, // < 0.05
		RentRegulationRisk: true,
	}
	n := model.DerivedNumbers{CapRate: 0.12}

	flags := DetectFlags(p, n)
	kinds := make([]model.RiskFlagKind, 0, len(flags))
	for _, f := range flags {
		kinds = append(kinds, f.Kind)
	}
	assert.Equal(t, []model.RiskFlagKind{
		model.FlagAggressiveYield,
		model.FlagOptimisticVacancy,
		model.FlagUnderstatedExpenses,
		model.FlagRegulatoryRisk,
	}, kinds)
}

func TestDetectFlags_LowCapBeforeRegulatory(t *testing.T) {
	p := model.PropertyInput{
		Price:              500_000,
		MonthlyRent:        2000,
		MonthlyExpenses:    900,
		VacancyRate:        0.08,
		RentRegulationRisk: true,
	}
	n := model.DerivedNumbers{CapRate: 0.03}

	flags := DetectFlags(p, n)
	kinds := make([]model.RiskFlagKind, 0, len(flags))
	for _, f := range flags {
		kinds = append(kinds, f.Kind)
	}
	assert.Equal(t, []model.RiskFlagKind{
		model.FlagLowCapRate,
		model.FlagRegulatoryRisk,
	}, kinds)
}

func TestPenaltyFor_Empty(t *testing.T) {
	assert.Equal(t, 0.0, PenaltyFor(nil))
}

func TestPenaltyFor_SingleKinds(t *testing.T) {
	cases := []struct {
		kind model.RiskFlagKind
		want float64
	}{
		{model.FlagAggressiveYield, 0.06},
		{model.FlagOptimisticVacancy, 0.08},
		{model.FlagUnderstatedExpenses, 0.06},
		{model.FlagLowCapRate, 0.06},
		{model.FlagRegulatoryRisk, 0.20},
	}
	for _, tc := range cases {
		got := PenaltyFor([]model.RiskFlag{{Kind: tc.kind}})
		assert.InDelta(t, tc.want, got, 1e-9, "kind %s", tc.kind)
	}
}

func TestPenaltyFor_ClampedAtCeiling(t *testing.T) {
	// 0.06 + 0.08 + 0.06 + 0.20 = 0.40, clamped to 0.35.
	flags := []model.RiskFlag{
		{Kind: model.FlagAggressiveYield},
		{Kind: model.FlagOptimisticVacancy},
		{Kind: model.FlagUnderstatedExpenses},
		{Kind: model.FlagRegulatoryRisk},
	}
	assert.InDelta(t, PenaltyCeiling, PenaltyFor(flags), 1e-9)
}

func TestPenaltyFor_UnknownKindContributesZero(t *testing.T) {
	flags := []model.RiskFlag{{Kind: model.RiskFlagKind("mystery")}}
	assert.Equal(t, 0.0, PenaltyFor(flags))
}
