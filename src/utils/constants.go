package utils

const ShortSlashDateLayout = "2006/01/02"
const ShortDashDateLayout = "2006-01-02"
const ShortDashDateTimeLayout = "2006-01-02T15:04"
const MonthLayout = "2006-01"
const YearLayout = "2006"

const (
	PeriodDate  = "date"
	PeriodMonth = "month"
	PeriodYear  = "year"
)
