package catalog

import (
	"context"
	"fmt"
	"sync"

	"insurer/internal/insurance/models"
	"insurer/pkg/platform/sentinel"
)

// InMemory is the risk catalog. Names are unique (exact match) and entries
// are never removed, so insertion order is stable.
type InMemory struct {
	mu     sync.RWMutex
	risks  []models.Risk
	byName map[string]int
}

func NewInMemory() *InMemory {
	return &InMemory{byName: make(map[string]int)}
}

// CreateIfNameAvailable appends risk unless its name is taken.
func (s *InMemory) CreateIfNameAvailable(_ context.Context, risk models.Risk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[risk.Name]; exists {
		return fmt.Errorf("risk %q: %w", risk.Name, sentinel.ErrAlreadyUsed)
	}
	s.byName[risk.Name] = len(s.risks)
	s.risks = append(s.risks, risk)
	return nil
}

func (s *InMemory) FindByName(_ context.Context, name string) (models.Risk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i, ok := s.byName[name]; ok {
		return s.risks[i], nil
	}
	return models.Risk{}, fmt.Errorf("risk %q: %w", name, sentinel.ErrNotFound)
}

// List returns a copy of the catalog in insertion order.
func (s *InMemory) List(_ context.Context) ([]models.Risk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Risk, len(s.risks))
	copy(out, s.risks)
	return out, nil
}

// ContainsAll reports whether every risk in selected names a catalog entry.
// Prices are not compared.
func (s *InMemory) ContainsAll(_ context.Context, selected []models.Risk) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range selected {
		if _, ok := s.byName[r.Name]; !ok {
			return false, nil
		}
	}
	return true, nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.risks), nil
}
