package lookup

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aire-labs/aire/pkg/attom"
	"github.com/aire-labs/aire/pkg/estated"
)

type fakeEstated struct {
	rec *estated.PropertyRecord
	err error
}

func (f *fakeEstated) Property(ctx context.Context, combinedAddress string) (*estated.PropertyRecord, error) {
	return f.rec, f.err
}

type fakeAttom struct {
	resp *attom.BasicProfileResponse
	err  error
}

func (f *fakeAttom) BasicProfile(ctx context.Context, address string) (*attom.BasicProfileResponse, error) {
	return f.resp, f.err
}

func TestPrefill_EstatedWins(t *testing.T) {
	p := NewPrefiller(
		&fakeEstated{rec: &estated.PropertyRecord{Valuation: estated.Valuation{MarketValue: 315000}}},
		&fakeAttom{resp: &attom.BasicProfileResponse{Properties: []attom.Property{{Sale: attom.Sale{Amount: 305000}}}}},
	)

	s, err := p.Prefill(context.Background(), "12 Oak St")
	require.NoError(t, err)
	assert.InDelta(t, 315000, s.Price, 1e-9)
	assert.Equal(t, "estated", s.PriceSource)
}

func TestPrefill_AttomFallback(t *testing.T) {
	p := NewPrefiller(
		&fakeEstated{err: eris.New("timeout")},
		&fakeAttom{resp: &attom.BasicProfileResponse{Properties: []attom.Property{{Sale: attom.Sale{Amount: 305000}}}}},
	)

	s, err := p.Prefill(context.Background(), "12 Oak St")
	require.NoError(t, err)
	assert.InDelta(t, 305000, s.Price, 1e-9)
	assert.Equal(t, "attom", s.PriceSource)
}

func TestPrefill_AllProvidersFail(t *testing.T) {
	p := NewPrefiller(&fakeEstated{err: eris.New("down")}, &fakeAttom{err: eris.New("down")})

	s, err := p.Prefill(context.Background(), "12 Oak St")
	require.NoError(t, err)
	assert.Zero(t, s.Price)
	assert.Empty(t, s.PriceSource)
}

func TestPrefill_NoProvidersConfigured(t *testing.T) {
	p := NewPrefiller(nil, nil)

	_, err := p.Prefill(context.Background(), "12 Oak St")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data providers")
}
