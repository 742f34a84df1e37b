package underwrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmortizedPayment_ZeroRate(t *testing.T) {
	// Zero rate degrades to straight-line principal over the term.
	got := AmortizedPayment(360_000, 0, 30)
	assert.InDelta(t, 1000.0, got, 1e-9)
}

func TestAmortizedPayment_NegativeRate(t *testing.T) {
	// Negative rates also take the straight-line path (no division by zero).
	got := AmortizedPayment(120_000, -2, 10)
	assert.InDelta(t, 1000.0, got, 1e-9)
}

func TestAmortizedPayment_StandardLoan(t *testing.T) {
	// $320k at 7.25% over 30 years: the canonical fixture used throughout
	// the engine tests.
	got := AmortizedPayment(320_000, 7.25, 30)
	assert.InDelta(t, 2183.0, got, 1.5)
}

func TestAmortizedPayment_LinearInPrincipal(t *testing.T) {
	full := AmortizedPayment(320_000, 7.25, 30)
	half := AmortizedPayment(160_000, 7.25, 30)
	assert.InDelta(t, full/2, half, 1e-6)
}

func TestAmortizedPayment_ZeroPrincipal(t *testing.T) {
	assert.Equal(t, 0.0, AmortizedPayment(0, 7.25, 30))
}
