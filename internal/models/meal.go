package models

// Category is one of the five fixed daily meal slots used for display grouping.
type Category string

const (
	CategoryBreakfast Category = "Breakfast"
	CategoryLunch     Category = "Lunch"
	CategoryDinner    Category = "Dinner"
	CategorySnack1    Category = "Snack 1"
	CategorySnack2    Category = "Snack 2"
)

// FoodItem is a single food entry on a meal.
// No uniqueness constraint applies; order within a meal is preserved as
// entered or extracted.
type FoodItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Notes    string `json:"notes"`
}

// FoodField names one editable field of a FoodItem.
type FoodField string

const (
	FoodFieldName     FoodField = "name"
	FoodFieldQuantity FoodField = "quantity"
	FoodFieldNotes    FoodField = "notes"
)

// Meal is a persisted meal record.
type Meal struct {
	// ID is the document identifier (UUID format), assigned by the store.
	ID string `json:"-"`

	// Name is the display name, e.g. "Lunch - 12:30 PM".
	Name string `json:"name"`

	// Foods are the food items in display order.
	Foods []FoodItem `json:"foods"`

	// Image is an optional data URL ("data:image/jpeg;base64,...").
	// Empty means no photo.
	Image string `json:"image,omitempty"`

	// Timestamp is when the meal was eaten, in Unix milliseconds.
	// Immutable after creation.
	Timestamp int64 `json:"timestamp"`

	// Category is the daily slot label. Immutable after creation.
	Category Category `json:"category"`
}

// MealPatch carries the fields of a partial meal update.
// Nil fields are left untouched.
type MealPatch struct {
	Name  *string
	Foods []FoodItem

	// SetFoods distinguishes "replace with an empty list" from "leave alone".
	SetFoods bool

	// Image replaces the photo. A pointer to "" clears it.
	Image *string
}

// Empty reports whether the patch changes nothing.
func (p MealPatch) Empty() bool {
	return p.Name == nil && !p.SetFoods && p.Image == nil
}
