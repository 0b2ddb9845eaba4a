package handler

import (
	"time"

	"insurer/internal/insurance/models"
	"insurer/pkg/calendar"
)

// RiskResponse is a risk as returned by the API. StartDate is set only for
// risks attached to a policy.
type RiskResponse struct {
	Name        string `json:"name"`
	YearlyPrice string `json:"yearly_price"`
	StartDate   string `json:"start_date,omitempty"`
}

type RiskListResponse struct {
	Risks []RiskResponse `json:"risks"`
}

// PolicyResponse is a policy as returned by the API. Premium is rounded to
// cents for presentation; the domain keeps the exact amount.
type PolicyResponse struct {
	ID            string         `json:"id"`
	InsuredObject string         `json:"insured_object"`
	ValidFrom     string         `json:"valid_from"`
	ValidTill     string         `json:"valid_till"`
	Premium       string         `json:"premium"`
	Active        bool           `json:"active"`
	Risks         []RiskResponse `json:"risks"`
	IssuedAt      time.Time      `json:"issued_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type PolicyListResponse struct {
	Policies []*PolicyResponse `json:"policies"`
}

func FromRisk(r models.Risk) RiskResponse {
	resp := RiskResponse{
		Name:        r.Name,
		YearlyPrice: r.YearlyPrice.String(),
	}
	if !r.StartDate.IsZero() {
		resp.StartDate = r.StartDate.Format(calendar.Layout)
	}
	return resp
}

func FromRisks(risks []models.Risk) []RiskResponse {
	out := make([]RiskResponse, len(risks))
	for i, r := range risks {
		out[i] = FromRisk(r)
	}
	return out
}

// FromPolicy converts a domain policy to an HTTP response. Active is
// evaluated against today.
func FromPolicy(p *models.Policy, today time.Time) *PolicyResponse {
	return &PolicyResponse{
		ID:            p.ID.String(),
		InsuredObject: p.InsuredObject,
		ValidFrom:     p.ValidFrom.Format(calendar.Layout),
		ValidTill:     p.ValidTill.Format(calendar.Layout),
		Premium:       p.Premium().StringFixed(2),
		Active:        p.IsActive(today),
		Risks:         FromRisks(p.Risks()),
		IssuedAt:      p.IssuedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
