// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/mealbook/internal/models"
)

var (
	// ErrNotFound is returned when an operation targets a missing document.
	ErrNotFound = errors.New("not found")

	// ErrPersistence wraps any other storage I/O failure.
	ErrPersistence = errors.New("persistence failure")
)

// MealStore persists meals.
type MealStore interface {
	// CreateMeal persists a new meal in a single write.
	// The meal.ID field will be populated by the store.
	CreateMeal(ctx context.Context, meal *models.Meal) error

	// GetMeal retrieves a meal by its ID.
	GetMeal(ctx context.Context, id string) (*models.Meal, error)

	// UpdateMeal merges the patch fields into an existing meal and returns
	// the result. Timestamp and category cannot change.
	UpdateMeal(ctx context.Context, id string, patch models.MealPatch) (*models.Meal, error)

	// DeleteMeal removes a meal. A missing ID returns ErrNotFound and
	// changes nothing.
	DeleteMeal(ctx context.Context, id string) error

	// ListMeals returns meals with start <= timestamp <= end (Unix ms),
	// ascending by timestamp.
	ListMeals(ctx context.Context, start, end int64) ([]models.Meal, error)
}

// WeightStore persists body-weight entries.
type WeightStore interface {
	AddWeight(ctx context.Context, entry *models.WeightEntry) error
	DeleteWeight(ctx context.Context, id string) error
	ListWeights(ctx context.Context, dir models.SortDirection) ([]models.WeightEntry, error)
}

// SettingsStore persists the settings singleton.
type SettingsStore interface {
	// GetSettings returns the saved settings, or the defaults when none exist.
	GetSettings(ctx context.Context) (*models.UserSettings, error)

	// SaveSettings overwrites the whole settings document.
	SaveSettings(ctx context.Context, settings *models.UserSettings) error
}

// Store combines every store the service layer needs.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	MealStore
	WeightStore
	SettingsStore

	// Close releases any resources held by the store.
	Close() error
}
