// Package calculator derives weight progress and daily macro targets.
package calculator

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/mealbook/internal/models"
)

// Direction of weight change.
const (
	DirectionLost   = "lost"
	DirectionGained = "gained"
)

// Progress is the change between the first and last weight entry.
type Progress struct {
	// Total is |last - first| rounded to one decimal.
	Total     float64
	Direction string
}

// String formats the progress as e.g. "2.0 lost".
func (p Progress) String() string {
	return fmt.Sprintf("%.1f %s", p.Total, p.Direction)
}

// WeightProgress compares the earliest and latest entries by date.
// It returns nil with fewer than two entries. No change counts as lost.
func WeightProgress(entries []models.WeightEntry) *Progress {
	if len(entries) < 2 {
		return nil
	}

	sorted := SortEntries(entries, models.SortAscending)
	diff := sorted[len(sorted)-1].Weight - sorted[0].Weight

	direction := DirectionGained
	if diff <= 0 {
		direction = DirectionLost
	}
	return &Progress{
		Total:     math.Round(math.Abs(diff)*10) / 10,
		Direction: direction,
	}
}

// SortEntries returns a copy of entries ordered by date.
func SortEntries(entries []models.WeightEntry, dir models.SortDirection) []models.WeightEntry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b models.WeightEntry) int {
		if dir == models.SortDescending {
			a, b = b, a
		}
		switch {
		case a.Date < b.Date:
			return -1
		case a.Date > b.Date:
			return 1
		}
		return 0
	})
	return sorted
}

// TimeRange selects how far back the chart reaches.
type TimeRange string

const (
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
	RangeYear  TimeRange = "year"
	RangeAll   TimeRange = "all"
)

// ParseTimeRange maps a name to a TimeRange. Empty means month.
func ParseTimeRange(name string) (TimeRange, error) {
	switch r := TimeRange(strings.ToLower(strings.TrimSpace(name))); r {
	case "":
		return RangeMonth, nil
	case RangeWeek, RangeMonth, RangeYear, RangeAll:
		return r, nil
	}
	return "", fmt.Errorf("unknown time range %q: %w", name, models.ErrValidation)
}

// Since returns the earliest instant included by r, or the zero time for RangeAll.
func (r TimeRange) Since(now time.Time) time.Time {
	switch r {
	case RangeWeek:
		return now.AddDate(0, 0, -7)
	case RangeMonth:
		return now.AddDate(0, -1, 0)
	case RangeYear:
		return now.AddDate(-1, 0, 0)
	}
	return time.Time{}
}

// ChartPoint is one point of the weight chart.
type ChartPoint struct {
	Label  string  `json:"label"`
	Date   int64   `json:"date"`
	Weight float64 `json:"weight"`
}

// ChartPoints returns ascending points within r, labelled like "Jan 2" in loc.
func ChartPoints(entries []models.WeightEntry, r TimeRange, now time.Time, loc *time.Location) []ChartPoint {
	if loc == nil {
		loc = time.Local
	}
	since := r.Since(now)

	points := []ChartPoint{}
	for _, e := range SortEntries(entries, models.SortAscending) {
		at := time.UnixMilli(e.Date)
		if r != RangeAll && at.Before(since) {
			continue
		}
		points = append(points, ChartPoint{
			Label:  at.In(loc).Format("Jan 2"),
			Date:   e.Date,
			Weight: e.Weight,
		})
	}
	return points
}

// ParseWeight parses a weight as entered by the user.
func ParseWeight(s string) (float64, error) {
	w, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return 0, fmt.Errorf("invalid weight %q: %w", s, models.ErrValidation)
	}
	return w, nil
}
