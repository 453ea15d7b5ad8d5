// Package assistant generates recipes that fit the user's per-meal macro
// targets and continues the conversation about them.
//
// The server keeps no conversation state: the caller sends the full history
// with every turn.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mmynk/mealbook/internal/ai"
	"github.com/mmynk/mealbook/internal/models"
)

// StartTemperature raises variety for the first recipe.
const StartTemperature = 1.2

// ErrCompletion is returned when the model call fails.
var ErrCompletion = errors.New("recipe assistant unavailable")

// MealType is the meal a conversation is about.
type MealType string

const (
	Breakfast MealType = "Breakfast"
	Lunch     MealType = "Lunch"
	Dinner    MealType = "Dinner"
)

// ParseMealType accepts a meal type name in any case.
func ParseMealType(name string) (MealType, error) {
	for _, mt := range []MealType{Breakfast, Lunch, Dinner} {
		if strings.EqualFold(strings.TrimSpace(name), string(mt)) {
			return mt, nil
		}
	}
	return "", fmt.Errorf("unknown meal type %q: %w", name, models.ErrValidation)
}

// Recipe is a generated recipe.
type Recipe struct {
	// Content is the markdown reply.
	Content string

	// Name is the first level-one heading, or "" when there is none.
	Name string
}

// Assistant talks to an ai.Completer.
type Assistant struct {
	completer ai.Completer
	model     string
}

// New creates an Assistant. An empty model uses the completer's default.
func New(completer ai.Completer, model string) *Assistant {
	return &Assistant{completer: completer, model: model}
}

// StartRecipe asks for a new recipe matching the per-meal targets in
// settings that differs from the previous recipe names.
func (a *Assistant) StartRecipe(ctx context.Context, mt MealType, settings models.UserSettings, previous []string) (*Recipe, error) {
	if !hasMealTargets(settings) {
		return nil, fmt.Errorf("set up your meal plan first: %w", models.ErrValidation)
	}

	content, err := a.complete(ctx, ai.Request{
		Model: a.model,
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Text: startSystemPrompt(mt)},
			{Role: ai.RoleUser, Text: initialPrompt(mt, settings, previous)},
		},
		Temperature: StartTemperature,
	})
	if err != nil {
		return nil, err
	}
	return &Recipe{Content: content, Name: ExtractRecipeName(content)}, nil
}

// Reply continues a conversation. history is sent as-is, followed by message.
func (a *Assistant) Reply(ctx context.Context, mt MealType, history []models.ChatMessage, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("empty message: %w", models.ErrValidation)
	}

	msgs := make([]ai.Message, 0, len(history)+2)
	msgs = append(msgs, ai.Message{Role: ai.RoleSystem, Text: followUpSystemPrompt(mt)})
	for _, m := range history {
		role := ai.RoleUser
		if m.Role == models.RoleAssistant {
			role = ai.RoleAssistant
		}
		msgs = append(msgs, ai.Message{Role: role, Text: m.Content})
	}
	msgs = append(msgs, ai.Message{Role: ai.RoleUser, Text: message})

	return a.complete(ctx, ai.Request{Model: a.model, Messages: msgs})
}

func (a *Assistant) complete(ctx context.Context, req ai.Request) (string, error) {
	content, err := a.completer.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCompletion, err)
	}
	return content, nil
}

var headingPattern = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t]*$`)

// ExtractRecipeName returns the text of the first "# " heading.
func ExtractRecipeName(content string) string {
	m := headingPattern.FindStringSubmatch(strings.ReplaceAll(content, "\r\n", "\n"))
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func hasMealTargets(s models.UserSettings) bool {
	return strings.TrimSpace(s.ProteinPerMeal) != "" ||
		strings.TrimSpace(s.FatPerMeal) != "" ||
		strings.TrimSpace(s.CarbsPerMeal) != ""
}
