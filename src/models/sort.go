package models

type SortField string

const (
	SortByDate        SortField = "date"
	SortByDescription SortField = "description"
	SortByCategory    SortField = "category"
	SortByAmount      SortField = "amount"
)

type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

type Sort struct {
	Field SortField
	Order SortOrder
}

// ParseSort maps the sortBy/sortOrder query values onto a Sort.
// Unknown fields fall back to date, unknown orders to descending.
func ParseSort(sortBy, sortOrder string) Sort {
	s := Sort{Field: SortByDate, Order: Descending}
	switch SortField(sortBy) {
	case SortByDescription, SortByCategory, SortByAmount:
		s.Field = SortField(sortBy)
	}
	switch sortOrder {
	case "asc", "ascending", "1":
		s.Order = Ascending
	}
	return s
}

func (s Sort) Desc() bool {
	return s.Order != Ascending
}

// Column returns the SQL column for the sort field.
func (s Sort) Column() string {
	switch s.Field {
	case SortByDescription:
		return "description"
	case SortByCategory:
		return "category"
	case SortByAmount:
		return "amount"
	default:
		return "date"
	}
}
