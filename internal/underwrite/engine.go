package underwrite

import (
	"math"

	"go.uber.org/zap"

	"github.com/aire-labs/aire/internal/model"
)

// Engine runs the single-pass underwriting pipeline. It holds only immutable
// configuration, so one Engine is safe for concurrent use across properties.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine with the given config.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Analyze runs the full pipeline over one property and returns the audit
// payload. The result is a deterministic function of the input and the rate
// environment: identical inputs produce identical numbers.
func (e *Engine) Analyze(p model.PropertyInput, env model.RateEnvironment) *model.Analysis {
	numbers := BuildNumbers(p, e.cfg.RentStress)
	killed := killSwitch(p, numbers)
	metrics := scoreMetrics(p, numbers)
	flags := DetectFlags(p, numbers)
	penalty := PenaltyFor(flags)
	weights := e.cfg.WeightsFor(env)

	baseScore := combine(metrics, weights)
	finalScore := math.Max(baseScore*(1-penalty), 0)
	grade, verdict := gradeFor(finalScore, killed)

	strengths, risks := narrative(p, numbers, flags)

	zap.L().Info("underwrite: analysis complete",
		zap.String("address", p.Address),
		zap.String("rate_env", string(env)),
		zap.Float64("score", finalScore),
		zap.String("grade", string(grade)),
		zap.Bool("kill_switch", killed),
		zap.Int("flags", len(flags)),
	)

	return &model.Analysis{
		Input:           p,
		RateEnvironment: env,
		Numbers:         numbers,
		Metrics:         metrics,
		Weights:         weights,
		Flags:           flags,
		Result: model.UnderwritingResult{
			FinalScore: finalScore,
			Grade:      grade,
			Verdict:    verdict,
			KillSwitch: killed,
			Penalty:    penalty,
		},
		Strengths: strengths,
		Risks:     risks,
	}
}

// Kill switch thresholds.
const (
	dscrKillFloor   = 1.0 // stressed DSCR below this kills the deal
	staleMarketDays = 180 // days on market above this kills the deal
)

// killSwitch is the hard-stop gate: stressed income below debt service,
// rent regulation exposure, or a stale listing each force the worst grade
// regardless of the weighted score. Irreversible within a run; the admin
// override lives at the account layer, outside this pipeline.
func killSwitch(p model.PropertyInput, n model.DerivedNumbers) bool {
	if n.DSCRStress < dscrKillFloor {
		return true
	}
	if p.RentRegulationRisk {
		return true
	}
	if p.DaysOnMarket > staleMarketDays {
		return true
	}
	return false
}

// combine produces the 0-100 base score from sub-scores and weights.
// Iterates MetricNames so float summation order is fixed.
func combine(metrics model.MetricScores, weights model.Weights) float64 {
	var total float64
	for _, name := range model.MetricNames {
		total += metrics[name] * weights[name]
	}
	return total * 100
}

// gradeFor maps a final score onto the grade ladder, first match wins.
// A killed run bypasses the ladder entirely.
func gradeFor(score float64, killed bool) (model.Grade, model.Verdict) {
	if killed {
		return model.GradeF, model.VerdictPass
	}
	switch {
	case score >= 90:
		return model.GradeA, model.VerdictStrongBuy
	case score >= 80:
		return model.GradeB, model.VerdictBuy
	case score >= 70:
		return model.GradeC, model.VerdictWatch
	case score >= 60:
		return model.GradeD, model.VerdictSpeculative
	default:
		return model.GradeF, model.VerdictPass
	}
}
