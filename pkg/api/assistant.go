package api

type ChatMessage struct {
	// Role is "user" or "assistant".
	Role    string `json:"role"`
	Content string `json:"content"`
}

type StartRecipeRequest struct {
	// MealType is Breakfast, Lunch or Dinner.
	MealType        string   `json:"mealType"`
	PreviousRecipes []string `json:"previousRecipes,omitempty"`
}

type StartRecipeResponse struct {
	Content    string `json:"content"`
	RecipeName string `json:"recipeName"`
}

type SendMessageRequest struct {
	MealType string         `json:"mealType"`
	History  []*ChatMessage `json:"history"`
	Message  string         `json:"message"`
}

type SendMessageResponse struct {
	Reply string `json:"reply"`
}
