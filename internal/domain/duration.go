package domain

import "fmt"

// PeriodDuration is the length of a collection period in whole months.
// Only the four enumerated values are valid; construct via
// ParsePeriodDuration.
type PeriodDuration int

const (
	Monthly    PeriodDuration = 1
	Quarterly  PeriodDuration = 3
	HalfYearly PeriodDuration = 6
	Yearly     PeriodDuration = 12
)

// ParsePeriodDuration validates a raw month count against the closed set
// {1, 3, 6, 12}.
func ParsePeriodDuration(months int) (PeriodDuration, error) {
	switch d := PeriodDuration(months); d {
	case Monthly, Quarterly, HalfYearly, Yearly:
		return d, nil
	default:
		return 0, fmt.Errorf("invalid period duration: %d months", months)
	}
}

// Months returns the duration as a plain month count.
func (d PeriodDuration) Months() int { return int(d) }

func (d PeriodDuration) String() string {
	switch d {
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case HalfYearly:
		return "half-yearly"
	case Yearly:
		return "yearly"
	default:
		return fmt.Sprintf("PeriodDuration(%d)", int(d))
	}
}
