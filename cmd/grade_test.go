package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aire-labs/aire/internal/model"
	"github.com/aire-labs/aire/internal/underwrite"
)

func TestFormatAnalysis(t *testing.T) {
	engine := underwrite.NewEngine(underwrite.DefaultConfig())
	a := engine.Analyze(model.PropertyInput{
		Address:           "123 Main St, Springfield",
		Price:             400000,
		DownPaymentPct:    50,
		InterestRatePct:   7.25,
		TermYears:         30,
		MonthlyRent:       3000,
		MonthlyExpenses:   300,
		VacancyRate:       0.08,
		ReplacementCost:   450000,
		DaysOnMarket:      45,
		JobDiversityIndex: 0.74,
	}, model.RateEnvHigh)

	var buf bytes.Buffer
	formatAnalysis(&buf, a, 0)

	out := buf.String()
	assert.Contains(t, out, "123 Main St, Springfield")
	assert.Contains(t, out, "Grade:")
	assert.Contains(t, out, "B (BUY)")
	assert.Contains(t, out, "Kill switch:")
	assert.Contains(t, out, "Strengths:")
	assert.Contains(t, out, "Risks:")
}

func TestFormatAnalysis_ExtraStressScalesDisplayOnly(t *testing.T) {
	engine := underwrite.NewEngine(underwrite.DefaultConfig())
	p := model.PropertyInput{
		Price:           400000,
		DownPaymentPct:  50,
		InterestRatePct: 7.25,
		TermYears:       30,
		MonthlyRent:     3000,
		MonthlyExpenses: 300,
	}

	plain := engine.Analyze(p, model.RateEnvHigh)
	var withStress bytes.Buffer
	formatAnalysis(&withStress, plain, 0.10)
	var without bytes.Buffer
	formatAnalysis(&without, plain, 0)

	// Extra stress changes the printed DSCR but nothing the grade depends on.
	assert.NotEqual(t, withStress.String(), without.String())
	assert.Contains(t, withStress.String(), string(plain.Result.Grade))
}
