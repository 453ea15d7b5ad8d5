package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mmynk/mealbook/internal/models"
)

// AddWeight persists a new weight entry and sets entry.ID.
func (s *SQLiteStore) AddWeight(ctx context.Context, entry *models.WeightEntry) error {
	id, err := s.weights.Insert(ctx, entry)
	if err != nil {
		return persistErr("add weight entry", err)
	}
	entry.ID = id
	return nil
}

// DeleteWeight removes a weight entry by ID.
func (s *SQLiteStore) DeleteWeight(ctx context.Context, id string) error {
	if err := s.weights.Delete(ctx, id); err != nil {
		return persistErr("delete weight entry", err)
	}
	return nil
}

// ListWeights returns every weight entry sorted by date.
func (s *SQLiteStore) ListWeights(ctx context.Context, dir models.SortDirection) ([]models.WeightEntry, error) {
	order := Ascending
	if dir == models.SortDescending {
		order = Descending
	}

	entries := []models.WeightEntry{}
	err := s.weights.Range(ctx, "date", math.MinInt64, math.MaxInt64, order, func(id string, body []byte) error {
		var entry models.WeightEntry
		if err := json.Unmarshal(body, &entry); err != nil {
			return fmt.Errorf("failed to decode weight entry %s: %w", id, err)
		}
		entry.ID = id
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, persistErr("list weight entries", err)
	}
	return entries, nil
}
