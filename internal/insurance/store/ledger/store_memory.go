package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"insurer/internal/insurance/models"
	"insurer/pkg/calendar"
	"insurer/pkg/platform/sentinel"
)

// InMemory is the policy ledger: append-only, kept in sale order.
// Stored policies are never handed out directly; readers get clones.
type InMemory struct {
	mu       sync.RWMutex
	policies []*models.Policy
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

// CreateIfPeriodAvailable appends policy unless another policy for the same
// insured object overlaps its period. The check and the append happen under
// one lock, so two concurrent sales cannot both pass the check.
func (s *InMemory) CreateIfPeriodAvailable(_ context.Context, policy *models.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.policies {
		if existing.InsuredObject != policy.InsuredObject {
			continue
		}
		if existing.Overlaps(policy.ValidFrom, policy.ValidTill) {
			return fmt.Errorf("policy %s overlaps %s..%s: %w",
				policy.InsuredObject,
				existing.ValidFrom.Format(calendar.Layout),
				existing.ValidTill.Format(calendar.Layout),
				sentinel.ErrConflict)
		}
	}
	s.policies = append(s.policies, policy.Clone())
	return nil
}

// FindCovering returns the first policy, in sale order, for insuredObject
// whose period contains date.
func (s *InMemory) FindCovering(_ context.Context, insuredObject string, date time.Time) (*models.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p := s.findCoveringLocked(insuredObject, date); p != nil {
		return p.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) findCoveringLocked(insuredObject string, date time.Time) *models.Policy {
	for _, p := range s.policies {
		if p.InsuredObject == insuredObject && p.Covers(date) {
			return p
		}
	}
	return nil
}

// Execute locates the policy covering date and runs mutate on it under the
// write lock. Returns a clone of the result.
func (s *InMemory) Execute(
	_ context.Context,
	insuredObject string,
	date time.Time,
	mutate func(*models.Policy),
) (*models.Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findCoveringLocked(insuredObject, date)
	if p == nil {
		return nil, sentinel.ErrNotFound
	}
	mutate(p)
	return p.Clone(), nil
}

// List returns every policy in sale order.
func (s *InMemory) List(_ context.Context) ([]*models.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Policy, len(s.policies))
	for i, p := range s.policies {
		out[i] = p.Clone()
	}
	return out, nil
}

// ListByObject returns the policies for one insured object in sale order.
func (s *InMemory) ListByObject(_ context.Context, insuredObject string) ([]*models.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Policy
	for _, p := range s.policies {
		if p.InsuredObject == insuredObject {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

