package api

type Settings struct {
	Height             string `json:"height"`
	Weight             string `json:"weight"`
	CalorieGoal        string `json:"calorieGoal"`
	DietaryPreferences string `json:"dietaryPreferences"`
	MeasurementUnit    string `json:"measurementUnit"`
	MealsPerDay        string `json:"mealsPerDay"`
	ProteinPerMeal     string `json:"proteinPerMeal"`
	FatPerMeal         string `json:"fatPerMeal"`
	CarbsPerMeal       string `json:"carbsPerMeal"`
	SnacksPerDay       string `json:"snacksPerDay"`
	ProteinPerSnack    string `json:"proteinPerSnack"`
	FatPerSnack        string `json:"fatPerSnack"`
	CarbsPerSnack      string `json:"carbsPerSnack"`
}

// Targets are the daily macro totals in grams and kcal.
type Targets struct {
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Calories float64 `json:"calories"`
}

type GetSettingsRequest struct{}

type GetSettingsResponse struct {
	Settings *Settings `json:"settings"`
	// Targets is nil when the saved targets are not numeric.
	Targets *Targets `json:"targets,omitempty"`
}

type SaveSettingsRequest struct {
	Settings *Settings `json:"settings"`
}

type SaveSettingsResponse struct {
	Settings *Settings `json:"settings"`
	Targets  *Targets  `json:"targets"`
}
