package models

// WeightEntry is a single body-weight measurement.
// Entries are append/delete only; there is no edit.
type WeightEntry struct {
	ID string `json:"-"`

	// Date is the measurement date in Unix milliseconds.
	Date int64 `json:"date"`

	// Weight is in the unit chosen in UserSettings.MeasurementUnit.
	Weight float64 `json:"weight"`
}

// SortDirection orders weight entries by date.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)
