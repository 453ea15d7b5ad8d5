// Package editor holds the client-side meal editing flow: a mutable draft of
// food items and the modal state machine that turns it into a saved meal.
package editor

import (
	"slices"

	"github.com/mmynk/mealbook/internal/models"
)

// Draft is an ordered, mutable list of food items. Every operation is total:
// out-of-range indexes are ignored because they can only come from
// enumerating the list itself.
type Draft struct {
	items []models.FoodItem
}

// NewDraft returns a draft holding a copy of items.
func NewDraft(items []models.FoodItem) *Draft {
	return &Draft{items: slices.Clone(items)}
}

// Append adds a blank item at the end and returns its index.
func (d *Draft) Append() int {
	d.items = append(d.items, models.FoodItem{})
	return len(d.items) - 1
}

// Update sets one field of the item at index.
func (d *Draft) Update(index int, field models.FoodField, value string) {
	if index < 0 || index >= len(d.items) {
		return
	}
	item := &d.items[index]
	switch field {
	case models.FoodFieldName:
		item.Name = value
	case models.FoodFieldQuantity:
		item.Quantity = value
	case models.FoodFieldNotes:
		item.Notes = value
	}
}

// Remove deletes the item at index, preserving the order of the rest.
func (d *Draft) Remove(index int) {
	if index < 0 || index >= len(d.items) {
		return
	}
	d.items = slices.Delete(d.items, index, index+1)
}

// Replace swaps the whole list, e.g. with an extraction result.
func (d *Draft) Replace(items []models.FoodItem) {
	d.items = slices.Clone(items)
}

// Items returns a copy of the current list.
func (d *Draft) Items() []models.FoodItem {
	return slices.Clone(d.items)
}

// Len returns the number of items.
func (d *Draft) Len() int {
	return len(d.items)
}
