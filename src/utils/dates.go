package utils

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	ShortDashDateTimeLayout,
	ShortDashDateLayout,
	ShortSlashDateLayout,
}

// ParseDate accepts the layouts an HTML form or a JSON client sends.
// A blank value yields the zero time.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", value)
}

// PeriodKey truncates t to the given period label: date, month or year.
func PeriodKey(t time.Time, period string) string {
	switch period {
	case PeriodYear:
		return t.Format(YearLayout)
	case PeriodMonth:
		return t.Format(MonthLayout)
	default:
		return t.Format(ShortDashDateLayout)
	}
}

// NormalizePeriod maps unknown period names to date.
func NormalizePeriod(period string) string {
	switch period {
	case PeriodMonth, PeriodYear:
		return period
	default:
		return PeriodDate
	}
}
