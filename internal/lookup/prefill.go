// Package lookup merges property data providers into input suggestions.
package lookup

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aire-labs/aire/pkg/attom"
	"github.com/aire-labs/aire/pkg/estated"
)

// Suggestion holds provider-sourced prefill values for an analysis input.
// Zero means the providers had nothing usable for that field.
type Suggestion struct {
	Price       float64 `json:"price,omitempty"`
	PriceSource string  `json:"price_source,omitempty"`
}

// Prefiller queries the configured providers for a given address. Either
// client may be nil when its credential is not configured.
type Prefiller struct {
	estated estated.Client
	attom   attom.Client
}

// NewPrefiller creates a Prefiller. Nil clients are skipped at query time.
func NewPrefiller(est estated.Client, att attom.Client) *Prefiller {
	return &Prefiller{estated: est, attom: att}
}

// Prefill queries providers in precedence order (Estated first, ATTOM as
// fallback) and merges their answers. Provider failures are logged and
// treated as missing data rather than errors; an error is returned only
// when no provider is configured at all.
func (p *Prefiller) Prefill(ctx context.Context, address string) (*Suggestion, error) {
	if p.estated == nil && p.attom == nil {
		return nil, eris.New("lookup: no data providers configured")
	}

	s := &Suggestion{}

	if p.estated != nil {
		rec, err := p.estated.Property(ctx, address)
		if err != nil {
			zap.L().Warn("estated lookup failed", zap.String("address", address), zap.Error(err))
		} else if v := rec.Valuation.Best(); v > 0 {
			s.Price = v
			s.PriceSource = "estated"
		}
	}

	if p.attom != nil && s.Price == 0 {
		resp, err := p.attom.BasicProfile(ctx, address)
		if err != nil {
			zap.L().Warn("attom lookup failed", zap.String("address", address), zap.Error(err))
		} else if v := resp.BestValue(); v > 0 {
			s.Price = v
			s.PriceSource = "attom"
		}
	}

	return s, nil
}
