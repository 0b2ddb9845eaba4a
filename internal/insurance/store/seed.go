package store

import (
	"context"
	"fmt"

	"insurer/internal/insurance/models"
	catalogstore "insurer/internal/insurance/store/catalog"
)

// DefaultRisks is the catalog a fresh company starts with when nothing is configured.
func DefaultRisks() []models.Risk {
	return []models.Risk{
		models.MustRisk("Fire", 3),
		models.MustRisk("Steam leakage", 4),
		models.MustRisk("Natural disaster", 2),
	}
}

// SeedCatalog loads risks into the catalog in order. Any duplicate name fails the seed.
func SeedCatalog(ctx context.Context, cs *catalogstore.InMemory, risks []models.Risk) error {
	for _, r := range risks {
		if err := cs.CreateIfNameAvailable(ctx, r); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}
	return nil
}
