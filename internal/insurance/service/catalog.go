package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"insurer/internal/insurance/models"
	dErrors "insurer/pkg/domain-errors"
	"insurer/pkg/platform/sentinel"
)

// AddAvailableRisk adds risk to the catalog. Names are unique and compared
// exactly; a collision leaves the catalog unchanged.
func (c *Company) AddAvailableRisk(ctx context.Context, risk models.Risk) error {
	ctx, span := c.startSpan(ctx, opAddAvailableRisk, attribute.String("insurance.risk", risk.Name))
	defer span.End()

	risk, err := models.NewRisk(risk.Name, risk.YearlyPrice)
	if err != nil {
		return c.reject(ctx, opAddAvailableRisk, err)
	}
	if err := c.catalog.CreateIfNameAvailable(ctx, risk); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			err = dErrors.Wrap(models.ErrDuplicateRisk, dErrors.CodeConflict, "risk name already exists: "+risk.Name)
		} else {
			err = internalErr(err, "failed to add risk")
		}
		return c.reject(ctx, opAddAvailableRisk, err, "risk", risk.Name)
	}

	if c.metrics != nil {
		c.metrics.IncrementRiskCatalogued()
	}
	c.logger.InfoContext(ctx, "risk added to catalog",
		"company", c.name,
		"risk", risk.Name,
		"yearly_price", risk.YearlyPrice.String(),
	)
	return nil
}

// ListAvailableRisks returns a snapshot of the catalog. The slice is the
// caller's to modify.
func (c *Company) ListAvailableRisks(ctx context.Context) ([]models.Risk, error) {
	risks, err := c.catalog.List(ctx)
	if err != nil {
		return nil, internalErr(err, "failed to list risks")
	}
	return risks, nil
}

// RisksAreSellable reports whether every selected risk names a catalog entry.
// Only names are compared; prices in selected may differ from the catalog's.
func (c *Company) RisksAreSellable(ctx context.Context, selected []models.Risk) (bool, error) {
	ok, err := c.catalog.ContainsAll(ctx, selected)
	if err != nil {
		return false, internalErr(err, "failed to check risks against catalog")
	}
	return ok, nil
}

func (c *Company) isInCatalog(ctx context.Context, name string) (bool, error) {
	_, err := c.catalog.FindByName(ctx, name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return false, nil
	default:
		return false, internalErr(err, "failed to look up risk")
	}
}
