package models

// SettingsID is the fixed document key of the settings singleton.
const SettingsID = "user"

// UserSettings holds macro targets and preferences.
// Values are kept as entered (strings); numeric interpretation happens in
// the calculator. The document is always written as a whole (last write wins).
type UserSettings struct {
	Height             string `json:"height"`
	Weight             string `json:"weight"`
	CalorieGoal        string `json:"calorieGoal"`
	DietaryPreferences string `json:"dietaryPreferences"`
	MeasurementUnit    string `json:"measurementUnit"`

	MealsPerDay    string `json:"mealsPerDay"`
	ProteinPerMeal string `json:"proteinPerMeal"`
	FatPerMeal     string `json:"fatPerMeal"`
	CarbsPerMeal   string `json:"carbsPerMeal"`

	SnacksPerDay    string `json:"snacksPerDay"`
	ProteinPerSnack string `json:"proteinPerSnack"`
	FatPerSnack     string `json:"fatPerSnack"`
	CarbsPerSnack   string `json:"carbsPerSnack"`
}

// DefaultSettings returns the settings used when none have been saved.
func DefaultSettings() UserSettings {
	return UserSettings{
		DietaryPreferences: "none",
		MeasurementUnit:    "metric",
		MealsPerDay:        "3",
		SnacksPerDay:       "2",
	}
}

// DietaryPreferences lists the accepted dietary preference values.
var DietaryPreferences = []string{"none", "vegetarian", "vegan", "pescatarian", "keto", "paleo", "kosher"}

// MeasurementUnits lists the accepted measurement units.
var MeasurementUnits = []string{"metric", "imperial"}
