package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"insurer/internal/insurance/models"
	dErrors "insurer/pkg/domain-errors"
	"insurer/pkg/calendar"
	"insurer/pkg/platform/sentinel"
	"insurer/pkg/requestcontext"
)

// SellPolicy issues a policy for objectName covering validMonths calendar
// months from validFrom (inclusive end: validFrom + validMonths - 1 day).
//
// Checks run in order: start date not in the past, at least one month,
// every selected risk in the catalog, no same-object policy overlapping the
// period. A rejected sale leaves the ledger unchanged.
func (c *Company) SellPolicy(
	ctx context.Context,
	objectName string,
	validFrom time.Time,
	validMonths int,
	selectedRisks []models.Risk,
) (*models.Policy, error) {
	start := time.Now()
	ctx, span := c.startSpan(ctx, opSellPolicy,
		attribute.String("insurance.object", objectName),
		attribute.Int("insurance.valid_months", validMonths),
		attribute.Int("insurance.risks", len(selectedRisks)),
	)
	defer span.End()

	now := requestcontext.Now(ctx)
	today := calendar.Day(now)
	validFrom = calendar.Day(validFrom)
	logAttrs := []any{"object", objectName, "valid_from", validFrom.Format(calendar.Layout), "valid_months", validMonths}

	if validFrom.Before(today) {
		return nil, c.reject(ctx, opSellPolicy, errStartInPast(), logAttrs...)
	}
	if validMonths <= 0 {
		return nil, c.reject(ctx, opSellPolicy,
			dErrors.Wrap(models.ErrInvalidPolicy, dErrors.CodeValidation, "minimum number of months must be 1"),
			logAttrs...)
	}
	for _, r := range selectedRisks {
		if _, err := models.NewRisk(r.Name, r.YearlyPrice); err != nil {
			return nil, c.reject(ctx, opSellPolicy, err, logAttrs...)
		}
	}
	sellable, err := c.RisksAreSellable(ctx, selectedRisks)
	if err != nil {
		return nil, c.reject(ctx, opSellPolicy, err, logAttrs...)
	}
	if !sellable {
		return nil, c.reject(ctx, opSellPolicy, c.errRisksNotInCatalog(ctx), logAttrs...)
	}

	validTill := calendar.AddDays(calendar.AddMonths(validFrom, validMonths), -1)
	policy, err := models.NewPolicy(uuid.New(), objectName, validFrom, validTill, selectedRisks, now)
	if err != nil {
		return nil, c.reject(ctx, opSellPolicy, toValidation(err), logAttrs...)
	}

	if err := c.ledger.CreateIfPeriodAvailable(ctx, policy); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			err = dErrors.Wrap(models.ErrInvalidPolicy, dErrors.CodeConflict,
				"a policy has already been issued for the insured object in the given period: "+objectName)
		} else {
			err = internalErr(err, "failed to record policy")
		}
		return nil, c.reject(ctx, opSellPolicy, err, logAttrs...)
	}

	premium := policy.Premium()
	span.SetAttributes(
		attribute.String("insurance.policy_id", policy.ID.String()),
		attribute.String("insurance.premium", premium.String()),
	)
	if c.metrics != nil {
		c.metrics.IncrementPolicySold(premium)
		c.metrics.ObserveSellPolicy(start)
	}
	c.logger.InfoContext(ctx, "policy sold",
		"company", c.name,
		"policy_id", policy.ID,
		"object", policy.InsuredObject,
		"valid_from", policy.ValidFrom.Format(calendar.Layout),
		"valid_till", policy.ValidTill.Format(calendar.Layout),
		"risks", len(selectedRisks),
		"premium", premium.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return policy, nil
}

// GetPolicy returns the first policy, in sale order, for objectName whose
// period contains effectiveDate (both ends inclusive).
func (c *Company) GetPolicy(ctx context.Context, objectName string, effectiveDate time.Time) (*models.Policy, error) {
	ctx, span := c.startSpan(ctx, opGetPolicy, attribute.String("insurance.object", objectName))
	defer span.End()

	policy, err := c.ledger.FindCovering(ctx, objectName, calendar.Day(effectiveDate))
	if err != nil {
		return nil, c.reject(ctx, opGetPolicy, c.translateLookup(err, objectName, effectiveDate),
			"object", objectName)
	}
	return policy, nil
}

// AddRisk attaches risk to the policy covering objectName on effectiveDate.
// Cover for the new risk starts on effectiveDate, so the policy premium grows
// by (ValidTill - effectiveDate).days * price / 365.
//
// Returns the updated policy.
func (c *Company) AddRisk(ctx context.Context, objectName string, risk models.Risk, effectiveDate time.Time) (*models.Policy, error) {
	ctx, span := c.startSpan(ctx, opAddRisk,
		attribute.String("insurance.object", objectName),
		attribute.String("insurance.risk", risk.Name),
	)
	defer span.End()

	now := requestcontext.Now(ctx)
	effectiveDate = calendar.Day(effectiveDate)
	logAttrs := []any{"object", objectName, "risk", risk.Name, "effective_date", effectiveDate.Format(calendar.Layout)}

	insured, err := c.isInCatalog(ctx, risk.Name)
	if err != nil {
		return nil, c.reject(ctx, opAddRisk, err, logAttrs...)
	}
	if !insured {
		return nil, c.reject(ctx, opAddRisk,
			dErrors.Wrap(models.ErrRiskNotInsured, dErrors.CodeValidation,
				"this risk is not insured: "+risk.Name+". select from available risks"),
			logAttrs...)
	}
	if effectiveDate.Before(calendar.Day(now)) {
		return nil, c.reject(ctx, opAddRisk, errStartInPast(), logAttrs...)
	}
	if _, err := models.NewRisk(risk.Name, risk.YearlyPrice); err != nil {
		return nil, c.reject(ctx, opAddRisk, err, logAttrs...)
	}

	var increment decimal.Decimal
	policy, err := c.ledger.Execute(ctx, objectName, effectiveDate, func(p *models.Policy) {
		increment = p.ApplyRiskAddition(risk, effectiveDate, now)
	})
	if err != nil {
		return nil, c.reject(ctx, opAddRisk, c.translateLookup(err, objectName, effectiveDate), logAttrs...)
	}

	span.SetAttributes(attribute.String("insurance.premium_increment", increment.String()))
	if c.metrics != nil {
		c.metrics.IncrementRiskAdded(increment)
	}
	c.logger.InfoContext(ctx, "risk added to policy",
		"company", c.name,
		"policy_id", policy.ID,
		"object", objectName,
		"risk", risk.Name,
		"effective_date", effectiveDate.Format(calendar.Layout),
		"premium_increment", increment.String(),
		"premium", policy.Premium().String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return policy, nil
}

// ListPolicies returns every policy in sale order.
func (c *Company) ListPolicies(ctx context.Context) ([]*models.Policy, error) {
	policies, err := c.ledger.List(ctx)
	if err != nil {
		return nil, internalErr(err, "failed to list policies")
	}
	return policies, nil
}

// ListPoliciesFor returns the policies sold for objectName in sale order,
// including expired and future ones.
func (c *Company) ListPoliciesFor(ctx context.Context, objectName string) ([]*models.Policy, error) {
	policies, err := c.ledger.ListByObject(ctx, objectName)
	if err != nil {
		return nil, internalErr(err, "failed to list policies")
	}
	return policies, nil
}

func (c *Company) translateLookup(err error, objectName string, date time.Time) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return models.NewPolicyNotFound(objectName, date)
	default:
		return internalErr(err, "failed to look up policy")
	}
}

func (c *Company) errRisksNotInCatalog(ctx context.Context) error {
	msg := "risks can be selected from available risks only"
	if risks, err := c.catalog.List(ctx); err == nil {
		names := make([]string, len(risks))
		for i, r := range risks {
			names[i] = r.Name
		}
		msg += ": " + strings.Join(names, ", ")
	}
	return dErrors.Wrap(models.ErrInvalidPolicy, dErrors.CodeValidation, msg)
}

func errStartInPast() error {
	return dErrors.Wrap(models.ErrInvalidDate, dErrors.CodeValidation, "start date cannot be earlier than current date")
}

// toValidation re-codes a model invariant violation as caller input error,
// keeping the error kind reachable.
func toValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
	}
	return err
}
