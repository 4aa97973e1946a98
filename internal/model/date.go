package model

import "time"

const dateLayout = "2006-01-02"

// Date is a calendar day in the community's timezone, formatted as
// YYYY-MM-DD. All per-day bookkeeping is keyed by this value.
type Date string

func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// ParseDate validates an externally supplied calendar day. Only the
// canonical zero-padded form is accepted.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", err
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return string(d)
}

// CycleWindow is the rolling 3-day window the daily cycle operates on.
// Entries older than TwoDaysAgo are always purged.
type CycleWindow struct {
	Today      Date
	Yesterday  Date
	TwoDaysAgo Date
}

func WindowAt(t time.Time) CycleWindow {
	return CycleWindow{
		Today:      DateOf(t),
		Yesterday:  DateOf(t.AddDate(0, 0, -1)),
		TwoDaysAgo: DateOf(t.AddDate(0, 0, -2)),
	}
}
