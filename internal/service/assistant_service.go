package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/mealbook/internal/assistant"
	"github.com/mmynk/mealbook/internal/models"
	"github.com/mmynk/mealbook/internal/storage"
	"github.com/mmynk/mealbook/pkg/api"
)

// RecipeAssistant generates and discusses recipes.
type RecipeAssistant interface {
	StartRecipe(ctx context.Context, mt assistant.MealType, settings models.UserSettings, previous []string) (*assistant.Recipe, error)
	Reply(ctx context.Context, mt assistant.MealType, history []models.ChatMessage, message string) (string, error)
}

// AssistantService implements the Connect AssistantService.
// It is stateless: clients send the full conversation with each message.
type AssistantService struct {
	assistant RecipeAssistant
	settings  storage.SettingsStore
}

// NewAssistantService creates an AssistantService.
func NewAssistantService(a RecipeAssistant, settings storage.SettingsStore) *AssistantService {
	return &AssistantService{assistant: a, settings: settings}
}

// StartRecipe generates a recipe for the meal type from the saved targets.
func (s *AssistantService) StartRecipe(ctx context.Context, req *connect.Request[api.StartRecipeRequest]) (*connect.Response[api.StartRecipeResponse], error) {
	slog.Info("StartRecipe request received", "meal_type", req.Msg.MealType, "previous", len(req.Msg.PreviousRecipes))

	mt, err := assistant.ParseMealType(req.Msg.MealType)
	if err != nil {
		return nil, toConnectError(err)
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		slog.Error("StartRecipe failed to load settings", "error", err)
		return nil, toConnectError(err)
	}

	recipe, err := s.assistant.StartRecipe(ctx, mt, *settings, req.Msg.PreviousRecipes)
	if err != nil {
		slog.Error("StartRecipe failed", "meal_type", mt, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Recipe generated", "meal_type", mt, "recipe", recipe.Name)
	return connect.NewResponse(&api.StartRecipeResponse{
		Content:    recipe.Content,
		RecipeName: recipe.Name,
	}), nil
}

// SendMessage continues a recipe conversation.
func (s *AssistantService) SendMessage(ctx context.Context, req *connect.Request[api.SendMessageRequest]) (*connect.Response[api.SendMessageResponse], error) {
	slog.Info("SendMessage request received", "meal_type", req.Msg.MealType, "history", len(req.Msg.History))

	mt, err := assistant.ParseMealType(req.Msg.MealType)
	if err != nil {
		return nil, toConnectError(err)
	}

	history := make([]models.ChatMessage, 0, len(req.Msg.History))
	for i, m := range req.Msg.History {
		if m == nil {
			continue
		}
		role := models.ChatRole(m.Role)
		if role != models.RoleUser && role != models.RoleAssistant {
			return nil, invalidArgument("history[%d]: unknown role %q", i, m.Role)
		}
		history = append(history, models.ChatMessage{Role: role, Content: m.Content})
	}

	reply, err := s.assistant.Reply(ctx, mt, history, req.Msg.Message)
	if err != nil {
		slog.Error("SendMessage failed", "meal_type", mt, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.SendMessageResponse{Reply: reply}), nil
}
