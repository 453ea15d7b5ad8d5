package api

type WeightEntry struct {
	Id     string  `json:"id"`
	Date   int64   `json:"date"`
	Weight float64 `json:"weight"`
}

type Progress struct {
	Total     float64 `json:"total"`
	Direction string  `json:"direction"`
	// Summary reads like "2.0 lost".
	Summary string `json:"summary"`
}

type ChartPoint struct {
	Label  string  `json:"label"`
	Date   int64   `json:"date"`
	Weight float64 `json:"weight"`
}

type AddEntryRequest struct {
	// Date defaults to now when zero.
	Date int64 `json:"date,omitempty"`
	// Weight is the value as entered; it must parse as a positive number.
	Weight string `json:"weight"`
}

type AddEntryResponse struct {
	Entry *WeightEntry `json:"entry"`
}

type DeleteEntryRequest struct {
	Id string `json:"id"`
}

type DeleteEntryResponse struct{}

type ListEntriesRequest struct {
	// Sort is "asc" or "desc" (default).
	Sort string `json:"sort,omitempty"`
}

type ListEntriesResponse struct {
	Entries []*WeightEntry `json:"entries"`
}

type GetProgressRequest struct {
	// Range is week, month (default), year or all.
	Range string `json:"range,omitempty"`
}

type GetProgressResponse struct {
	// Progress is nil with fewer than two entries.
	Progress *Progress     `json:"progress,omitempty"`
	Points   []*ChartPoint `json:"points"`
}
