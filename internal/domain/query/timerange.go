package query

// TimeRange restricts a listing to a named trailing period. The string
// tokens are the remote API's values and must round-trip unchanged through
// Export.
type TimeRange string

// Recognized time-range periods.
const (
	PeriodOneHour    TimeRange = "PERIOD_ONE_HOUR"
	PeriodSixHours   TimeRange = "PERIOD_SIX_HOURS"
	PeriodOneDay     TimeRange = "PERIOD_ONE_DAY"
	PeriodOneWeek    TimeRange = "PERIOD_ONE_WEEK"
	PeriodThirtyDays TimeRange = "PERIOD_THIRTY_DAYS"
)

// IsValid reports whether the value is one of the recognized periods.
func (t TimeRange) IsValid() bool {
	switch t {
	case PeriodOneHour, PeriodSixHours, PeriodOneDay, PeriodOneWeek, PeriodThirtyDays:
		return true
	default:
		return false
	}
}

// String returns the wire token.
func (t TimeRange) String() string {
	return string(t)
}
