package models

import (
	"errors"
	"fmt"
	"time"

	dErrors "insurer/pkg/domain-errors"
	"insurer/pkg/calendar"
)

// Error kinds. Every failure returned by this module matches exactly one of
// these with errors.Is; the wrapping dErrors.Error carries the transport code.
var (
	ErrInvalidRisk    = errors.New("invalid risk")
	ErrInvalidPolicy  = errors.New("invalid policy")
	ErrInvalidDate    = errors.New("invalid date")
	ErrDuplicateRisk  = errors.New("duplicate risk")
	ErrRiskNotInsured = errors.New("risk not insured")
	ErrPolicyNotFound = errors.New("policy not found")
)

// PolicyNotFoundError reports a ledger miss for an object on a date.
type PolicyNotFoundError struct {
	ObjectName string
	Date       time.Time
}

func (e *PolicyNotFoundError) Error() string {
	return fmt.Sprintf("policy not found: %s | %s", e.ObjectName, e.Date.Format(calendar.Layout))
}

func (e *PolicyNotFoundError) Is(target error) bool {
	return target == ErrPolicyNotFound
}

// NewPolicyNotFound returns a coded not-found error for objectName on date.
func NewPolicyNotFound(objectName string, date time.Time) error {
	nf := &PolicyNotFoundError{ObjectName: objectName, Date: calendar.Day(date)}
	return dErrors.Wrap(nf, dErrors.CodeNotFound, nf.Error())
}

func invalidRisk(message string) error {
	return dErrors.Wrap(ErrInvalidRisk, dErrors.CodeValidation, message)
}

func invalidPolicy(message string) error {
	return dErrors.Wrap(ErrInvalidPolicy, dErrors.CodeInvariantViolation, message)
}
