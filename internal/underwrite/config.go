// Package underwrite implements the deterministic property underwriting
// pipeline: amortization, financial metrics, kill switch, normalized
// scoring, risk flags, penalties, grading, and narrative generation.
package underwrite

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/aire-labs/aire/internal/model"
)

// Config holds the fixed scoring assumptions for the engine. It is an
// immutable value passed in at construction, never ambient state, so two
// engines with different regimes or stress assumptions can run side by side.
type Config struct {
	// RentStress is the fraction of rent removed in the stress path (0.20
	// means rents shocked down 20%).
	RentStress float64 `yaml:"rent_stress"`

	// Weights holds one weight table per rate environment. Each table must
	// sum to 1.0 across the seven metric names.
	Weights map[model.RateEnvironment]model.Weights `yaml:"weights"`
}

// DefaultConfig returns the stock configuration: -20% rent stress and the
// two fixed weight tables.
func DefaultConfig() Config {
	return Config{
		RentStress: 0.20,
		Weights: map[model.RateEnvironment]model.Weights{
			model.RateEnvHigh: {
				model.MetricCashflow:    0.30,
				model.MetricDownside:    0.25,
				model.MetricLocation:    0.15,
				model.MetricYield:       0.10,
				model.MetricLiquidity:   0.10,
				model.MetricOptionality: 0.05,
				model.MetricAIRisk:      0.05,
			},
			model.RateEnvNormal: {
				model.MetricCashflow:    0.25,
				model.MetricDownside:    0.20,
				model.MetricLocation:    0.15,
				model.MetricYield:       0.15,
				model.MetricLiquidity:   0.10,
				model.MetricOptionality: 0.10,
				model.MetricAIRisk:      0.05,
			},
		},
	}
}

// WeightsFor returns the weight table for the given rate environment,
// falling back to NORMAL for unknown regimes.
func (c Config) WeightsFor(env model.RateEnvironment) model.Weights {
	if w, ok := c.Weights[env]; ok {
		return w
	}
	return c.Weights[model.RateEnvNormal]
}

// ValidateConfig checks that a Config is internally consistent: stress in
// [0,1), both regimes present, every metric present, each table summing to
// 1.0 within 1e-9.
func ValidateConfig(c Config) error {
	var errs []string

	if c.RentStress < 0 || c.RentStress >= 1 {
		errs = append(errs, fmt.Sprintf("rent_stress must be in [0,1), got %.3f", c.RentStress))
	}

	for _, env := range []model.RateEnvironment{model.RateEnvHigh, model.RateEnvNormal} {
		table, ok := c.Weights[env]
		if !ok {
			errs = append(errs, fmt.Sprintf("missing weight table for %s", env))
			continue
		}
		var sum float64
		for _, name := range model.MetricNames {
			w, ok := table[name]
			if !ok {
				errs = append(errs, fmt.Sprintf("%s: missing weight for %s", env, name))
				continue
			}
			if w < 0 {
				errs = append(errs, fmt.Sprintf("%s: weight for %s must be >= 0", env, name))
			}
			sum += w
		}
		if math.Abs(sum-1.0) > 1e-9 {
			errs = append(errs, fmt.Sprintf("%s: weights must sum to 1.0, got %.12f", env, sum))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("underwrite: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LoadConfigFile reads a Config from a YAML file and validates it. Fields
// omitted from the file keep their defaults.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, eris.Wrapf(err, "underwrite: read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, eris.Wrapf(err, "underwrite: parse config %s", path)
	}
	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
