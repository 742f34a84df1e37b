// Package account meters free usage per email and handles paid unlocks.
package account

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aire-labs/aire/internal/model"
	"github.com/aire-labs/aire/internal/store"
)

// ErrQuotaExhausted is returned by Charge when a free-tier user has used up
// their included analyses. Callers match it with errors.Is.
var ErrQuotaExhausted = errors.New("account: free analyses exhausted")

// Service wraps a store with quota and unlock logic.
type Service struct {
	store        store.Store
	freeAnalyses int
	adminCode    string
}

// NewService creates an account service. freeAnalyses is the number of runs
// included before the paid flag is required.
func NewService(st store.Store, freeAnalyses int, adminCode string) *Service {
	return &Service{store: st, freeAnalyses: freeAnalyses, adminCode: adminCode}
}

// Lookup returns the user record for an email, creating it on first contact.
func (s *Service) Lookup(ctx context.Context, email string) (*model.User, error) {
	u, err := s.store.GetOrCreateUser(ctx, email)
	if err != nil {
		return nil, eris.Wrapf(err, "account: lookup %s", email)
	}
	return u, nil
}

// Charge consumes one analysis from the user's quota. Paid users are never
// metered. Returns ErrQuotaExhausted without consuming anything when the
// free allowance is spent.
func (s *Service) Charge(ctx context.Context, email string) error {
	u, err := s.Lookup(ctx, email)
	if err != nil {
		return err
	}
	if u.Paid {
		return nil
	}
	if u.AnalysesUsed >= s.freeAnalyses {
		return ErrQuotaExhausted
	}
	if err := s.store.IncrementUsage(ctx, email); err != nil {
		return eris.Wrapf(err, "account: charge %s", email)
	}
	zap.L().Debug("charged analysis",
		zap.String("email", email),
		zap.Int("used", u.AnalysesUsed+1),
		zap.Int("free_allowance", s.freeAnalyses))
	return nil
}

// Unlock marks a user as paid when the supplied code matches the configured
// admin unlock code.
func (s *Service) Unlock(ctx context.Context, email, code string) error {
	if s.adminCode == "" || code != s.adminCode {
		return eris.New("account: invalid unlock code")
	}
	if _, err := s.Lookup(ctx, email); err != nil {
		return err
	}
	if err := s.store.SetPaid(ctx, email, true); err != nil {
		return eris.Wrapf(err, "account: unlock %s", email)
	}
	zap.L().Info("account unlocked", zap.String("email", email))
	return nil
}
