package underwrite

import "github.com/aire-labs/aire/internal/model"

// Narrative presentation caps. Display brevity only; the full flag list is
// always part of the audit payload.
const (
	maxStrengths = 3
	maxRisks     = 4
)

// Strength probe thresholds.
const (
	strongDSCR   = 1.25
	healthyCap   = 0.07
	fastExitDays = 45
)

// narrative derives the human-readable strengths and risks from the numbers
// already computed. No new scoring logic lives here; probes run in fixed
// order and each appends one fixed sentence.
func narrative(p model.PropertyInput, n model.DerivedNumbers, flags []model.RiskFlag) (strengths, risks []string) {
	if n.DSCRStress >= strongDSCR {
		strengths = append(strengths, "Strong stress-tested cash flow (DSCR at or above 1.25 with rents shocked down).")
	}
	if n.CapRate >= healthyCap {
		strengths = append(strengths, "Healthy unlevered yield (cap rate at or above 7%).")
	}
	if p.ReplacementCost >= p.Price {
		strengths = append(strengths, "Downside buffer: priced at or below replacement cost.")
	}
	if p.DaysOnMarket <= fastExitDays {
		strengths = append(strengths, "Healthy liquidity profile (fast exit).")
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "Neutral strength profile: upside depends on execution and pricing discipline.")
	}

	for _, f := range flags {
		risks = append(risks, f.Message)
	}
	if len(risks) == 0 {
		risks = append(risks, "No major risk flags detected; verify rents and expenses with comps.")
	}

	if len(strengths) > maxStrengths {
		strengths = strengths[:maxStrengths]
	}
	if len(risks) > maxRisks {
		risks = risks[:maxRisks]
	}
	return strengths, risks
}
