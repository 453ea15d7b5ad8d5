// Package extractor turns a meal photo into a draft list of food items by
// asking a vision-capable model for "Name|||Quantity" lines.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mmynk/mealbook/internal/ai"
	"github.com/mmynk/mealbook/internal/models"
)

const (
	// Prompt is the fixed instruction sent with every image.
	Prompt = "Analyze the given food image and identify the items along with their approximate quantities. " +
		"Format each entry as 'Food Name|||Quantity' without any leading dashes or special characters. " +
		"For example: 'Grilled chicken|||3 pieces'."

	// Delimiter separates the name from the quantity on each reply line.
	Delimiter = "|||"

	// DefaultQuantity is used when a line carries no quantity.
	DefaultQuantity = "1 serving"

	// MaxTokens bounds the reply length.
	MaxTokens = 500
)

// ErrExtraction is returned when the model call fails or returns nothing.
var ErrExtraction = errors.New("food extraction failed")

// Extractor requests food items for an image from an ai.Completer.
type Extractor struct {
	completer ai.Completer
	model     string
}

// New creates an Extractor. An empty model uses the completer's default.
func New(completer ai.Completer, model string) *Extractor {
	return &Extractor{completer: completer, model: model}
}

// Extract sends imageURL (usually a normalized JPEG data URL) to the model
// and parses the reply. It makes exactly one call and does not retry.
func (e *Extractor) Extract(ctx context.Context, imageURL string) ([]models.FoodItem, error) {
	reply, err := e.completer.Complete(ctx, ai.Request{
		Model: e.model,
		Messages: []ai.Message{{
			Role:     ai.RoleUser,
			Text:     Prompt,
			ImageURL: imageURL,
		}},
		MaxTokens: MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	foods := ParseReply(reply)
	if len(foods) == 0 {
		return nil, fmt.Errorf("%w: reply contained no food items", ErrExtraction)
	}
	return foods, nil
}

// ParseReply parses "Name|||Quantity" lines. Blank lines are skipped, both
// parts are trimmed and a missing or empty quantity becomes DefaultQuantity.
// Fields after the quantity are ignored. An empty name is kept so the user
// can correct it.
func ParseReply(reply string) []models.FoodItem {
	var foods []models.FoodItem
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, Delimiter)
		var quantity string
		if len(parts) > 1 {
			quantity = strings.TrimSpace(parts[1])
		}
		if quantity == "" {
			quantity = DefaultQuantity
		}
		foods = append(foods, models.FoodItem{
			Name:     strings.TrimSpace(parts[0]),
			Quantity: quantity,
		})
	}
	return foods
}
