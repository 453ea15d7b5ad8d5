// Package mcptools exposes meal operations as MCP tools over a single
// tools/call style HTTP endpoint.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"github.com/mmynk/mealbook/pkg/api"
	"github.com/mmynk/mealbook/pkg/api/apiconnect"
)

// Tool names.
const (
	ToolListMeals = "list_meals"
	ToolGetDay    = "get_day"
	ToolLogMeal   = "log_meal"
)

const dateLayout = "2006-01-02"

// ErrUnknownTool is returned for tool names the server does not provide.
var ErrUnknownTool = errors.New("unknown tool")

// ErrInvalidParams is returned when tool arguments do not decode or are
// out of range.
var ErrInvalidParams = errors.New("invalid parameters")

type ListMealsParams struct {
	StartDate string `json:"start_date" description:"First day to include (YYYY-MM-DD)"`
	EndDate   string `json:"end_date,omitempty" description:"Last day to include (YYYY-MM-DD), defaults to start_date"`
}

type GetDayParams struct {
	Date string `json:"date,omitempty" description:"Day to show (YYYY-MM-DD), defaults to today"`
}

type LogMealParams struct {
	Category  string          `json:"category" description:"Breakfast, Lunch, Dinner, Snack 1 or Snack 2"`
	Name      string          `json:"name,omitempty" description:"Meal name, generated from category and time when empty"`
	Foods     []*api.FoodItem `json:"foods" description:"Foods eaten with name, quantity and notes"`
	Timestamp string          `json:"timestamp,omitempty" description:"RFC 3339 time the meal was eaten, defaults to now"`
}

type handlerFunc func(context.Context, *protocol.CallToolRequest) (any, error)

// Server dispatches tool calls to the meal service.
type Server struct {
	meals apiconnect.MealServiceHandler
	loc   *time.Location
	tools map[string]handlerFunc
}

// NewServer creates a Server. loc sets the day boundaries of date arguments.
func NewServer(meals apiconnect.MealServiceHandler, loc *time.Location) *Server {
	if loc == nil {
		loc = time.Local
	}
	s := &Server{meals: meals, loc: loc}
	s.tools = map[string]handlerFunc{
		ToolListMeals: s.listMeals,
		ToolGetDay:    s.getDay,
		ToolLogMeal:   s.logMeal,
	}
	return s
}

// ServeHTTP decodes a CallToolRequest and writes its CallToolResult.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	slog.Info("Tool call received", "tool", req.Name)
	result, err := s.Call(r.Context(), &req)
	if err != nil {
		slog.Error("Tool call failed", "tool", req.Name, "error", err)
		http.Error(w, err.Error(), statusOf(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("Failed to encode tool result", "tool", req.Name, "error", err)
	}
}

// Call runs one tool and wraps its JSON output as text content.
func (s *Server) Call(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	handler, ok := s.tools[req.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, req.Name)
	}

	out, err := handler(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{Type: "text", Text: string(data)},
		},
	}, nil
}

func (s *Server) listMeals(ctx context.Context, req *protocol.CallToolRequest) (any, error) {
	var params ListMealsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.EndDate == "" {
		params.EndDate = params.StartDate
	}

	start, err := s.parseDate("start_date", params.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := s.parseDate("end_date", params.EndDate)
	if err != nil {
		return nil, err
	}

	res, err := s.meals.ListMeals(ctx, connect.NewRequest(&api.ListMealsRequest{
		Start: start.UnixMilli(),
		End:   end.AddDate(0, 0, 1).UnixMilli() - 1,
	}))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func (s *Server) getDay(ctx context.Context, req *protocol.CallToolRequest) (any, error) {
	var params GetDayParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	res, err := s.meals.GetDay(ctx, connect.NewRequest(&api.GetDayRequest{Date: params.Date}))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func (s *Server) logMeal(ctx context.Context, req *protocol.CallToolRequest) (any, error) {
	var params LogMealParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	var ts int64
	if params.Timestamp != "" {
		t, err := time.Parse(time.RFC3339, params.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("%w: timestamp: %v", ErrInvalidParams, err)
		}
		ts = t.UnixMilli()
	}

	res, err := s.meals.CreateMeal(ctx, connect.NewRequest(&api.CreateMealRequest{
		Name:      params.Name,
		Foods:     params.Foods,
		Timestamp: ts,
		Category:  params.Category,
	}))
	if err != nil {
		return nil, err
	}
	return res.Msg.Meal, nil
}

func (s *Server) parseDate(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, value, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrInvalidParams, field)
	}
	return t, nil
}

// extractParams decodes the request arguments into target.
func extractParams(req *protocol.CallToolRequest, target any) error {
	data, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrUnknownTool):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidParams):
		return http.StatusBadRequest
	}
	switch connect.CodeOf(err) {
	case connect.CodeInvalidArgument:
		return http.StatusBadRequest
	case connect.CodeNotFound:
		return http.StatusNotFound
	case connect.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
