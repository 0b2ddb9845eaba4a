package handler

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"insurer/internal/insurance/models"
	dErrors "insurer/pkg/domain-errors"
	"insurer/pkg/calendar"
)

const (
	maxNameLength  = 200
	maxRisksPerBuy = 50
)

// RiskRequest names a risk and its yearly price. Prices may be sent as JSON
// numbers or strings.
type RiskRequest struct {
	Name        string          `json:"name"`
	YearlyPrice decimal.Decimal `json:"yearly_price"`
}

// Validate trims and bounds the risk name. Price rules belong to the domain.
func (r *RiskRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(r.Name) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "name must be at most 200 characters")
	}
	return nil
}

func (r *RiskRequest) ToRisk() models.Risk {
	return models.Risk{Name: r.Name, YearlyPrice: r.YearlyPrice}
}

// SellPolicyRequest is the HTTP request body for POST /policies.
type SellPolicyRequest struct {
	InsuredObject string        `json:"insured_object"`
	ValidFrom     string        `json:"valid_from"`
	ValidMonths   int           `json:"valid_months"`
	Risks         []RiskRequest `json:"risks"`

	// Parsed values (populated by Validate)
	parsedValidFrom time.Time
}

// Validate validates and parses the request.
func (r *SellPolicyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	// Size validation (fail fast)
	if len(r.InsuredObject) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "insured_object must be at most 200 characters")
	}
	if len(r.Risks) > maxRisksPerBuy {
		return dErrors.New(dErrors.CodeValidation, "at most 50 risks can be selected")
	}

	r.InsuredObject = strings.TrimSpace(r.InsuredObject)
	if r.InsuredObject == "" {
		return dErrors.New(dErrors.CodeValidation, "insured_object is required")
	}
	validFrom, err := parseDate("valid_from", r.ValidFrom)
	if err != nil {
		return err
	}
	r.parsedValidFrom = validFrom

	for i := range r.Risks {
		if err := r.Risks[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (r *SellPolicyRequest) ParsedValidFrom() time.Time {
	return r.parsedValidFrom
}

// SelectedRisks converts the request risks to domain values.
func (r *SellPolicyRequest) SelectedRisks() []models.Risk {
	out := make([]models.Risk, len(r.Risks))
	for i := range r.Risks {
		out[i] = r.Risks[i].ToRisk()
	}
	return out
}

// AddRiskRequest is the HTTP request body for POST /policies/{object}/risks.
type AddRiskRequest struct {
	Risk          RiskRequest `json:"risk"`
	EffectiveDate string      `json:"effective_date"`

	parsedEffectiveDate time.Time
}

func (r *AddRiskRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := r.Risk.Validate(); err != nil {
		return err
	}
	effective, err := parseDate("effective_date", r.EffectiveDate)
	if err != nil {
		return err
	}
	r.parsedEffectiveDate = effective
	return nil
}

func (r *AddRiskRequest) ParsedEffectiveDate() time.Time {
	return r.parsedEffectiveDate
}

func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, field+" is required")
	}
	d, err := calendar.Parse(raw)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, field+" must be formatted as YYYY-MM-DD")
	}
	return d, nil
}
