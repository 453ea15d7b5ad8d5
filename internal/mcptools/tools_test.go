package mcptools

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/mealbook/internal/imaging"
	"github.com/mmynk/mealbook/internal/models"
	"github.com/mmynk/mealbook/internal/service"
	"github.com/mmynk/mealbook/internal/storage/sqlite"
	"github.com/mmynk/mealbook/pkg/api"
)

type noExtractor struct{}

func (noExtractor) Extract(context.Context, string) ([]models.FoodItem, error) {
	return nil, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "mcp.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	meals := service.NewMealService(store, noExtractor{}, imaging.NewNormalizer(0), time.UTC)
	return NewServer(meals, time.UTC)
}

func call(t *testing.T, s *Server, name string, args map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]any{"name": name, "arguments": args})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(body)))
	return rec
}

// resultText returns the text of the single content item in a tool result.
func resultText(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	return result.Content[0].Text
}

func TestLogMealThenQuery(t *testing.T) {
	s := newTestServer(t)

	rec := call(t, s, ToolLogMeal, map[string]any{
		"category":  "Dinner",
		"foods":     []map[string]string{{"name": "Soup", "quantity": "1 bowl"}},
		"timestamp": "2024-03-02T19:15:00Z",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var meal api.Meal
	require.NoError(t, json.Unmarshal([]byte(resultText(t, rec)), &meal))
	assert.Equal(t, "Dinner - 7:15 PM", meal.Name)
	require.Len(t, meal.Foods, 1)

	rec = call(t, s, ToolGetDay, map[string]any{"date": "2024-03-02"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var day api.GetDayResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, rec)), &day))
	require.Len(t, day.Groups, 5)
	assert.Len(t, day.Groups[2].Meals, 1)

	rec = call(t, s, ToolListMeals, map[string]any{"start_date": "2024-03-01", "end_date": "2024-03-02"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list api.ListMealsResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, rec)), &list))
	assert.Len(t, list.Meals, 1)

	rec = call(t, s, ToolListMeals, map[string]any{"start_date": "2024-03-03"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, rec)), &list))
	assert.Empty(t, list.Meals)
}

func TestToolErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		wantCode int
	}{
		{"unknown tool", "delete_everything", nil, http.StatusNotFound},
		{"bad date", ToolListMeals, map[string]any{"start_date": "March 1"}, http.StatusBadRequest},
		{"bad timestamp", ToolLogMeal, map[string]any{"category": "Lunch", "timestamp": "noon"}, http.StatusBadRequest},
		{"unknown category", ToolLogMeal, map[string]any{"category": "Brunch"}, http.StatusBadRequest},
		{"wrong argument type", ToolGetDay, map[string]any{"date": 20240302}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(t, s, tt.tool, tt.args)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestCall_WrapsJSON(t *testing.T) {
	s := newTestServer(t)

	result, err := s.Call(context.Background(), &protocol.CallToolRequest{
		Name:      ToolGetDay,
		Arguments: map[string]any{"date": "2024-01-01"},
	})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(protocol.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, `"date":"2024-01-01"`)
}

func TestServeHTTP_RejectsGet(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mcp", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
