package api

type FoodItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Notes    string `json:"notes"`
}

type Meal struct {
	Id    string      `json:"id"`
	Name  string      `json:"name"`
	Foods []*FoodItem `json:"foods"`
	// Image is a data URL, empty when the meal has no photo.
	Image     string `json:"image,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Category  string `json:"category"`
}

type MealGroup struct {
	Category string  `json:"category"`
	Meals    []*Meal `json:"meals"`
}

type AnalyzeImageRequest struct {
	// Image is an uploaded image as a data URL.
	Image string `json:"image"`
}

type AnalyzeImageResponse struct {
	// Image is the normalized JPEG data URL to store with the meal.
	Image  string      `json:"image"`
	Width  int32       `json:"width"`
	Height int32       `json:"height"`
	Foods  []*FoodItem `json:"foods"`
}

type CreateMealRequest struct {
	// Name defaults to "<Category> - h:mm AM" when empty.
	Name  string      `json:"name,omitempty"`
	Foods []*FoodItem `json:"foods"`
	Image string      `json:"image,omitempty"`
	// Timestamp defaults to now when zero.
	Timestamp int64  `json:"timestamp,omitempty"`
	Category  string `json:"category"`
}

type CreateMealResponse struct {
	Meal *Meal `json:"meal"`
}

type UpdateMealRequest struct {
	Id   string  `json:"id"`
	Name *string `json:"name,omitempty"`
	// Foods replaces the food list when UpdateFoods is set.
	Foods       []*FoodItem `json:"foods,omitempty"`
	UpdateFoods bool        `json:"updateFoods,omitempty"`
	// Image replaces the photo; an empty string removes it.
	Image *string `json:"image,omitempty"`
}

type UpdateMealResponse struct {
	Meal *Meal `json:"meal"`
}

type GetMealRequest struct {
	Id string `json:"id"`
}

type GetMealResponse struct {
	Meal *Meal `json:"meal"`
}

type DeleteMealRequest struct {
	Id string `json:"id"`
}

type DeleteMealResponse struct{}

type ListMealsRequest struct {
	// Start and End bound the meal timestamp (Unix ms, inclusive).
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

type ListMealsResponse struct {
	Meals []*Meal `json:"meals"`
}

type GetDayRequest struct {
	// Date is "2006-01-02" in the server's time zone; empty means today.
	Date string `json:"date,omitempty"`
}

type GetDayResponse struct {
	Date   string       `json:"date"`
	Groups []*MealGroup `json:"groups"`
	// Unclassified counts meals of the day whose category is unknown.
	Unclassified int32 `json:"unclassified"`
}
