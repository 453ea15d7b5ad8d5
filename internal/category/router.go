// Package category groups meals into the fixed daily slots.
package category

import (
	"fmt"
	"slices"
	"time"

	"github.com/mmynk/mealbook/internal/models"
)

// ordered is the display order of the daily slots.
var ordered = []models.Category{
	models.CategoryBreakfast,
	models.CategoryLunch,
	models.CategoryDinner,
	models.CategorySnack1,
	models.CategorySnack2,
}

// Categories returns the fixed labels in display order.
func Categories() []models.Category {
	return slices.Clone(ordered)
}

// IsKnown reports whether label is one of the fixed labels.
func IsKnown(label models.Category) bool {
	return slices.Contains(ordered, label)
}

// Group holds the meals of one slot.
type Group struct {
	Category models.Category
	Meals    []models.Meal
}

// Grouping is the result of Route.
type Grouping struct {
	// Groups has one entry per fixed label, in display order, even when empty.
	Groups []Group

	// Unclassified counts meals whose category matched no label.
	// Those meals appear in no group.
	Unclassified int
}

// Route partitions meals by category. Each group is sorted ascending by
// timestamp; meals with equal timestamps keep their input order.
func Route(meals []models.Meal) Grouping {
	index := make(map[models.Category]int, len(ordered))
	out := Grouping{Groups: make([]Group, len(ordered))}
	for i, c := range ordered {
		index[c] = i
		out.Groups[i] = Group{Category: c, Meals: []models.Meal{}}
	}

	for _, meal := range meals {
		i, ok := index[meal.Category]
		if !ok {
			out.Unclassified++
			continue
		}
		out.Groups[i].Meals = append(out.Groups[i].Meals, meal)
	}

	for i := range out.Groups {
		slices.SortStableFunc(out.Groups[i].Meals, func(a, b models.Meal) int {
			switch {
			case a.Timestamp < b.Timestamp:
				return -1
			case a.Timestamp > b.Timestamp:
				return 1
			}
			return 0
		})
	}
	return out
}

// DefaultName is the name given to a meal created without one,
// e.g. "Lunch - 12:30 PM".
func DefaultName(c models.Category, timestamp int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return fmt.Sprintf("%s - %s", c, time.UnixMilli(timestamp).In(loc).Format("3:04 PM"))
}
