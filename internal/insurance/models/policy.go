package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"insurer/internal/insurance/premium"
	"insurer/pkg/calendar"
)

// Policy is a time-bounded contract covering one insured object against a set of risks.
//
// Invariants:
//   - InsuredObject is non-empty
//   - ValidTill is strictly after ValidFrom; both are calendar days, both inclusive
//   - At least one risk is insured
//   - Core fields never change after construction; the risk list only grows
//
// The premium is derived, never stored: every risk contributes
// premium.ForSpan(max(risk.StartDate, ValidFrom), ValidTill, risk.YearlyPrice).
// A risk attached at issuance starts with the policy; a risk added later
// starts on its effective date, so the premium cannot drift from the risk list.
type Policy struct {
	ID            uuid.UUID `json:"id"`
	InsuredObject string    `json:"insured_object"`
	ValidFrom     time.Time `json:"valid_from"`
	ValidTill     time.Time `json:"valid_till"`
	IssuedAt      time.Time `json:"issued_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	risks []Risk
}

// NewPolicy validates and builds a policy. Risks without a start date, or
// starting before validFrom, are attached from validFrom.
func NewPolicy(id uuid.UUID, insuredObject string, validFrom, validTill time.Time, risks []Risk, now time.Time) (*Policy, error) {
	if insuredObject == "" {
		return nil, invalidPolicy("name of insured object cannot be empty")
	}
	validFrom, validTill = calendar.Day(validFrom), calendar.Day(validTill)
	if !validTill.After(validFrom) {
		return nil, invalidPolicy("end date must be after start date")
	}
	if len(risks) == 0 {
		return nil, invalidPolicy("a minimum of one risk must be selected")
	}

	attached := make([]Risk, len(risks))
	for i, r := range risks {
		attached[i] = r.WithStartDate(calendar.Max(calendar.Day(r.StartDate), validFrom))
	}
	return &Policy{
		ID:            id,
		InsuredObject: insuredObject,
		ValidFrom:     validFrom,
		ValidTill:     validTill,
		IssuedAt:      now,
		UpdatedAt:     now,
		risks:         attached,
	}, nil
}

// Risks returns a copy of the insured risks in attachment order.
func (p *Policy) Risks() []Risk {
	out := make([]Risk, len(p.risks))
	copy(out, p.risks)
	return out
}

// Premium is the sum of each insured risk's pro-rata contribution.
func (p *Policy) Premium() decimal.Decimal {
	contributions := make([]decimal.Decimal, len(p.risks))
	for i, r := range p.risks {
		contributions[i] = p.riskPremium(r)
	}
	return premium.Sum(contributions...)
}

func (p *Policy) riskPremium(r Risk) decimal.Decimal {
	return premium.ForSpan(calendar.Max(r.StartDate, p.ValidFrom), p.ValidTill, r.YearlyPrice)
}

// Covers reports whether date falls within [ValidFrom, ValidTill].
func (p *Policy) Covers(date time.Time) bool {
	return calendar.Within(date, p.ValidFrom, p.ValidTill)
}

// Overlaps reports whether [start, end] conflicts with this policy's period.
// Only periods entirely before or entirely after are free.
func (p *Policy) Overlaps(start, end time.Time) bool {
	return !(calendar.Before(end, p.ValidFrom) || calendar.Before(p.ValidTill, start))
}

// IsActive reports whether the policy covers the given day. Expiry is never
// stored; callers evaluate it against their own date.
func (p *Policy) IsActive(on time.Time) bool {
	return p.Covers(on)
}

// ApplyRiskAddition attaches risk with cover starting on from and returns the
// premium increment it adds. from must fall within the policy period; the
// ledger only hands out policies covering it.
func (p *Policy) ApplyRiskAddition(risk Risk, from, now time.Time) decimal.Decimal {
	attached := risk.WithStartDate(calendar.Day(from))
	p.risks = append(p.risks, attached)
	p.UpdatedAt = now
	return p.riskPremium(attached)
}

// Clone returns a deep copy, so stores can hand out policies without
// exposing their own risk slices.
func (p *Policy) Clone() *Policy {
	if p == nil {
		return nil
	}
	c := *p
	c.risks = p.Risks()
	return &c
}
