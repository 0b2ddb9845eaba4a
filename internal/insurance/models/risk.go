package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Risk is a named peril with a yearly price.
//
// Invariants:
//   - Name is non-empty; it is the catalog key and is compared exactly,
//     whitespace included
//   - YearlyPrice is strictly positive
//
// StartDate is only meaningful once the risk is attached to a policy: it is
// the day cover for this risk begins. The zero value means "from policy start".
type Risk struct {
	Name        string          `json:"name"`
	YearlyPrice decimal.Decimal `json:"yearly_price"`
	StartDate   time.Time       `json:"start_date,omitzero"`
}

// NewRisk validates and returns a catalog risk.
func NewRisk(name string, yearlyPrice decimal.Decimal) (Risk, error) {
	if name == "" {
		return Risk{}, invalidRisk("name cannot be empty")
	}
	if !yearlyPrice.IsPositive() {
		return Risk{}, invalidRisk("price must be greater than 0")
	}
	return Risk{Name: name, YearlyPrice: yearlyPrice}, nil
}

// MustRisk is NewRisk for static tables; it panics on invalid input.
func MustRisk(name string, yearlyPrice int64) Risk {
	r, err := NewRisk(name, decimal.NewFromInt(yearlyPrice))
	if err != nil {
		panic(err)
	}
	return r
}

// WithStartDate returns a copy of r whose cover begins on start.
func (r Risk) WithStartDate(start time.Time) Risk {
	r.StartDate = start
	return r
}
