package underwrite

import "math"

// AmortizedPayment returns the monthly payment for a fixed-rate loan using
// the standard amortization formula. When the monthly rate works out to zero
// or below, the payment degrades to straight-line principal/periods, which
// keeps the formula's denominator away from zero. Extreme inputs can
// overflow; that is accepted, not guarded.
func AmortizedPayment(principal, annualRatePct float64, termYears int) float64 {
	periods := float64(termYears * 12)
	monthlyRate := annualRatePct / 100 / 12
	if monthlyRate <= 0 {
		return principal / periods
	}
	growth := math.Pow(1+monthlyRate, periods)
	return principal * monthlyRate * growth / (growth - 1)
}
