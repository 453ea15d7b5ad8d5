package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mmynk/mealbook/internal/models"
)

// CreateMeal persists a new meal and sets meal.ID.
func (s *SQLiteStore) CreateMeal(ctx context.Context, meal *models.Meal) error {
	if meal.Foods == nil {
		meal.Foods = []models.FoodItem{}
	}
	id, err := s.meals.Insert(ctx, meal)
	if err != nil {
		return persistErr("create meal", err)
	}
	meal.ID = id
	return nil
}

// GetMeal retrieves a meal by ID.
func (s *SQLiteStore) GetMeal(ctx context.Context, id string) (*models.Meal, error) {
	meal := &models.Meal{}
	if err := s.meals.Get(ctx, id, meal); err != nil {
		return nil, persistErr("get meal", err)
	}
	meal.ID = id
	return meal, nil
}

// UpdateMeal merges name, foods and image into the stored meal.
// An image set to "" removes the photo.
func (s *SQLiteStore) UpdateMeal(ctx context.Context, id string, patch models.MealPatch) (*models.Meal, error) {
	if !patch.Empty() {
		if err := s.meals.Merge(ctx, id, mealPatchDoc(patch)); err != nil {
			return nil, persistErr("update meal", err)
		}
	}
	return s.GetMeal(ctx, id)
}

func mealPatchDoc(patch models.MealPatch) map[string]any {
	doc := map[string]any{}
	if patch.Name != nil {
		doc["name"] = *patch.Name
	}
	if patch.SetFoods {
		foods := patch.Foods
		if foods == nil {
			foods = []models.FoodItem{}
		}
		doc["foods"] = foods
	}
	if patch.Image != nil {
		if *patch.Image == "" {
			doc["image"] = nil
		} else {
			doc["image"] = *patch.Image
		}
	}
	return doc
}

// DeleteMeal removes a meal by ID.
func (s *SQLiteStore) DeleteMeal(ctx context.Context, id string) error {
	if err := s.meals.Delete(ctx, id); err != nil {
		return persistErr("delete meal", err)
	}
	return nil
}

// ListMeals returns meals in [start, end] ordered by timestamp.
func (s *SQLiteStore) ListMeals(ctx context.Context, start, end int64) ([]models.Meal, error) {
	meals := []models.Meal{}
	err := s.meals.Range(ctx, "timestamp", start, end, Ascending, func(id string, body []byte) error {
		var meal models.Meal
		if err := json.Unmarshal(body, &meal); err != nil {
			return fmt.Errorf("failed to decode meal %s: %w", id, err)
		}
		meal.ID = id
		meals = append(meals, meal)
		return nil
	})
	if err != nil {
		return nil, persistErr("list meals", err)
	}
	return meals, nil
}
