package service

import (
	"github.com/mmynk/mealbook/internal/calculator"
	"github.com/mmynk/mealbook/internal/models"
	"github.com/mmynk/mealbook/pkg/api"
)

func foodsFromAPI(in []*api.FoodItem) []models.FoodItem {
	out := make([]models.FoodItem, 0, len(in))
	for _, f := range in {
		if f == nil {
			continue
		}
		out = append(out, models.FoodItem{Name: f.Name, Quantity: f.Quantity, Notes: f.Notes})
	}
	return out
}

func foodsToAPI(in []models.FoodItem) []*api.FoodItem {
	out := make([]*api.FoodItem, len(in))
	for i, f := range in {
		out[i] = &api.FoodItem{Name: f.Name, Quantity: f.Quantity, Notes: f.Notes}
	}
	return out
}

func mealToAPI(m *models.Meal) *api.Meal {
	return &api.Meal{
		Id:        m.ID,
		Name:      m.Name,
		Foods:     foodsToAPI(m.Foods),
		Image:     m.Image,
		Timestamp: m.Timestamp,
		Category:  string(m.Category),
	}
}

func mealsToAPI(in []models.Meal) []*api.Meal {
	out := make([]*api.Meal, len(in))
	for i := range in {
		out[i] = mealToAPI(&in[i])
	}
	return out
}

func weightToAPI(e *models.WeightEntry) *api.WeightEntry {
	return &api.WeightEntry{Id: e.ID, Date: e.Date, Weight: e.Weight}
}

func settingsFromAPI(s *api.Settings) models.UserSettings {
	return models.UserSettings{
		Height:             s.Height,
		Weight:             s.Weight,
		CalorieGoal:        s.CalorieGoal,
		DietaryPreferences: s.DietaryPreferences,
		MeasurementUnit:    s.MeasurementUnit,
		MealsPerDay:        s.MealsPerDay,
		ProteinPerMeal:     s.ProteinPerMeal,
		FatPerMeal:         s.FatPerMeal,
		CarbsPerMeal:       s.CarbsPerMeal,
		SnacksPerDay:       s.SnacksPerDay,
		ProteinPerSnack:    s.ProteinPerSnack,
		FatPerSnack:        s.FatPerSnack,
		CarbsPerSnack:      s.CarbsPerSnack,
	}
}

func settingsToAPI(s *models.UserSettings) *api.Settings {
	return &api.Settings{
		Height:             s.Height,
		Weight:             s.Weight,
		CalorieGoal:        s.CalorieGoal,
		DietaryPreferences: s.DietaryPreferences,
		MeasurementUnit:    s.MeasurementUnit,
		MealsPerDay:        s.MealsPerDay,
		ProteinPerMeal:     s.ProteinPerMeal,
		FatPerMeal:         s.FatPerMeal,
		CarbsPerMeal:       s.CarbsPerMeal,
		SnacksPerDay:       s.SnacksPerDay,
		ProteinPerSnack:    s.ProteinPerSnack,
		FatPerSnack:        s.FatPerSnack,
		CarbsPerSnack:      s.CarbsPerSnack,
	}
}

func targetsToAPI(t calculator.Targets) *api.Targets {
	return &api.Targets{
		Protein:  t.Daily.Protein,
		Fat:      t.Daily.Fat,
		Carbs:    t.Daily.Carbs,
		Calories: t.Calories,
	}
}
