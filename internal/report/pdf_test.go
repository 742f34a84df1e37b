package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aire-labs/aire/internal/model"
)

func memoAnalysis() *model.Analysis {
	return &model.Analysis{
		Input: model.PropertyInput{
			Address:           "12 Oak St, Columbus OH",
			Price:             320000,
			MonthlyRent:       2600,
			MonthlyExpenses:   650,
			VacancyRate:       0.07,
			ReplacementCost:   355000,
			DaysOnMarket:      38,
			JobDiversityIndex: 0.72,
		},
		RateEnvironment: model.RateEnvNormal,
		Numbers: model.DerivedNumbers{
			LoanPayment: 1746.4,
			DSCRStress:  1.4,
		},
		Result: model.UnderwritingResult{
			FinalScore: 80.3,
			Grade:      model.GradeB,
			Verdict:    model.VerdictBuy,
		},
		Strengths: []string{
			"Strong stress-tested cash flow (DSCR >= 1.25).",
			"Downside buffer: priced at/below replacement cost.",
		},
		Risks: []string{
			"Expenses might be understated",
		},
	}
}

func TestRender(t *testing.T) {
	out, err := Render(memoAnalysis())
	require.NoError(t, err)

	assert.True(t, len(out) > 500, "rendered memo should not be trivially small")
	assert.Equal(t, "%PDF", string(out[:4]), "output must start with the PDF magic")
}

func TestRender_EmptyNarrative(t *testing.T) {
	a := memoAnalysis()
	a.Strengths = nil
	a.Risks = nil

	out, err := Render(a)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}
