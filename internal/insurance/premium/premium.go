// Package premium prices insurance cover pro-rata by day.
//
// A risk with yearly price P covering [start, end] costs
// (end - start).days * (P / 365). There is no leap-year adjustment and no
// rounding: amounts stay exact decimals until a host chooses to present them.
package premium

import (
	"time"

	"github.com/shopspring/decimal"

	"insurer/pkg/calendar"
)

// DaysInYear is the fixed day-count basis for the daily rate.
const DaysInYear = 365

var daysInYear = decimal.NewFromInt(DaysInYear)

// DailyRate returns P / 365.
func DailyRate(yearlyPrice decimal.Decimal) decimal.Decimal {
	return yearlyPrice.Div(daysInYear)
}

// ForSpan returns the premium for cover from start to end at yearlyPrice.
// Spans where end does not follow start cost nothing.
func ForSpan(start, end time.Time, yearlyPrice decimal.Decimal) decimal.Decimal {
	days := calendar.DaysBetween(start, end)
	if days <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(days).Mul(DailyRate(yearlyPrice))
}

// Sum adds amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
