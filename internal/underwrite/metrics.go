package underwrite

import (
	"math"

	"github.com/aire-labs/aire/internal/model"
)

// BuildNumbers derives the financial profile of a property from its raw
// economics plus the rent-stress assumption.
//
// Every denominator is floored at 1 via math.Max. That is a divide-by-zero
// guard, not a financial assumption: sub-$1 prices, down payments, or loan
// payments produce distorted but non-crashing ratios. Callers owning input
// hygiene get exact ratios; callers passing garbage get garbage back.
func BuildNumbers(p model.PropertyInput, rentStress float64) model.DerivedNumbers {
	loanAmount := p.Price * (1 - p.DownPaymentPct/100)
	loanPayment := AmortizedPayment(loanAmount, p.InterestRatePct, p.TermYears)

	effectiveRent := p.MonthlyRent * (1 - p.VacancyRate)
	noiMonth := effectiveRent - p.MonthlyExpenses
	noiYear := noiMonth * 12
	capRate := noiYear / math.Max(p.Price, 1)

	cashFlowMonth := noiMonth - loanPayment
	cashInvested := p.Price * (p.DownPaymentPct / 100)
	cocReturn := (cashFlowMonth * 12) / math.Max(cashInvested, 1)

	// Stress path: rent shocked down, vacancy still applied. Feeds only the
	// kill switch and the cashflow sub-score.
	stressedRent := p.MonthlyRent * (1 - rentStress) * (1 - p.VacancyRate)
	stressedNOIMonth := stressedRent - p.MonthlyExpenses
	dscrStress := stressedNOIMonth / math.Max(loanPayment, 1)

	return model.DerivedNumbers{
		LoanAmount:    loanAmount,
		LoanPayment:   loanPayment,
		NOIYear:       noiYear,
		CapRate:       capRate,
		CashFlowMonth: cashFlowMonth,
		CoCReturn:     cocReturn,
		DSCRStress:    dscrStress,
	}
}

// Linear-clamp cap targets for the metric sub-scores.
const (
	dscrFullScore     = 1.50 // DSCR at which cashflow scores 1.0
	downsideBuffer    = 1.20 // replacement/price ratio at which downside scores 1.0
	capRateFullScore  = 0.10 // cap rate at which yield scores 1.0
	liquidityZeroDays = 180  // days on market at which liquidity scores 0
	optionalityScore  = 0.60 // fixed
	aiRiskScore       = 1.0  // fixed weight slot; AI risk enters via the penalty path only
)

// scoreMetrics maps the raw numbers into [0,1] sub-scores, one fixed
// linear-clamp rule per metric.
func scoreMetrics(p model.PropertyInput, n model.DerivedNumbers) model.MetricScores {
	return model.MetricScores{
		model.MetricCashflow:    clamp01(n.DSCRStress / dscrFullScore),
		model.MetricDownside:    clamp01((p.ReplacementCost / math.Max(p.Price, 1)) / downsideBuffer),
		model.MetricLocation:    clamp01(p.JobDiversityIndex),
		model.MetricYield:       clamp01(n.CapRate / capRateFullScore),
		model.MetricLiquidity:   clamp01(1 - float64(p.DaysOnMarket)/liquidityZeroDays),
		model.MetricOptionality: optionalityScore,
		model.MetricAIRisk:      aiRiskScore,
	}
}

// DisplayDSCR scales the stressed DSCR for user-driven sensitivity display.
// It is cosmetic: the scaled value never feeds back into the kill switch,
// scoring, or penalties.
func DisplayDSCR(n model.DerivedNumbers, extraStress float64) float64 {
	return n.DSCRStress * (1 - extraStress)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}
