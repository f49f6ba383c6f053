package booking

import (
	"fmt"
	"math"
)

const (
	placeholderDuration = "-"
	currencySymbol      = "₹"
)

// Summary is the derived duration and cost of a Draft.
type Summary struct {
	DurationHours float64 `json:"duration_hours"`
	Cost          float64 `json:"cost"`
	HasDuration   bool    `json:"has_duration"`
}

// ComputeSummary derives the booking duration and cost. It never fails: a missing,
// unparsable or non-positive window yields a zero summary.
func ComputeSummary(d Draft) Summary {
	start, end, ok := d.Window()
	if !ok {
		return Summary{}
	}

	hours := end.Sub(start).Hours()
	return Summary{
		DurationHours: RoundTo(hours, 1),
		Cost:          RoundTo(hours*d.HourlyRate, 2),
		HasDuration:   true,
	}
}

// DurationText renders the duration for display, "-" when there is none.
func (s Summary) DurationText() string {
	if !s.HasDuration {
		return placeholderDuration
	}
	return fmt.Sprintf("%.1f hours", s.DurationHours)
}

// CostText renders the cost in rupees with two decimals.
func (s Summary) CostText() string {
	if !s.HasDuration {
		return FormatRupees(0)
	}
	return FormatRupees(s.Cost)
}

func FormatRupees(amount float64) string {
	return fmt.Sprintf("%s%.2f", currencySymbol, amount)
}

// RoundTo rounds half away from zero to the given number of decimal places.
func RoundTo(value float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(value*p) / p
}
