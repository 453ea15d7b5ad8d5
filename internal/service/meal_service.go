package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/mealbook/internal/category"
	"github.com/mmynk/mealbook/internal/imaging"
	"github.com/mmynk/mealbook/internal/models"
	"github.com/mmynk/mealbook/internal/storage"
	"github.com/mmynk/mealbook/pkg/api"
)

// dateLayout is the day format used by GetDay.
const dateLayout = "2006-01-02"

// FoodExtractor proposes food items for a normalized image.
type FoodExtractor interface {
	Extract(ctx context.Context, imageURL string) ([]models.FoodItem, error)
}

// Counter is the subset of a Prometheus counter used by MealService.
type Counter interface {
	Add(float64)
}

// MealService implements the Connect MealService.
type MealService struct {
	store        storage.MealStore
	extractor    FoodExtractor
	normalizer   *imaging.Normalizer
	loc          *time.Location
	unclassified Counter
	now          func() time.Time
}

// MealOption configures a MealService.
type MealOption func(*MealService)

// WithUnclassifiedCounter counts meals dropped from day grouping.
func WithUnclassifiedCounter(c Counter) MealOption {
	return func(s *MealService) { s.unclassified = c }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) MealOption {
	return func(s *MealService) { s.now = now }
}

// NewMealService creates a MealService. loc sets day boundaries and the
// clock shown in generated meal names.
func NewMealService(store storage.MealStore, extractor FoodExtractor, normalizer *imaging.Normalizer, loc *time.Location, opts ...MealOption) *MealService {
	if loc == nil {
		loc = time.Local
	}
	s := &MealService{
		store:      store,
		extractor:  extractor,
		normalizer: normalizer,
		loc:        loc,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeImage normalizes an uploaded image and asks the AI model for its
// food items. Extraction failures return Unavailable; the client keeps any
// foods it already has.
func (s *MealService) AnalyzeImage(ctx context.Context, req *connect.Request[api.AnalyzeImageRequest]) (*connect.Response[api.AnalyzeImageResponse], error) {
	slog.Info("AnalyzeImage request received", "image_bytes", len(req.Msg.Image))

	if req.Msg.Image == "" {
		return nil, invalidArgument("image is required")
	}

	img, err := s.normalizer.NormalizeDataURL(req.Msg.Image)
	if err != nil {
		slog.Error("AnalyzeImage normalize failed", "error", err)
		return nil, toConnectError(err)
	}
	dataURL := img.DataURL()

	foods, err := s.extractor.Extract(ctx, dataURL)
	if err != nil {
		slog.Error("AnalyzeImage extraction failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Image analyzed", "width", img.Width, "height", img.Height, "foods", len(foods))
	return connect.NewResponse(&api.AnalyzeImageResponse{
		Image:  dataURL,
		Width:  int32(img.Width),
		Height: int32(img.Height),
		Foods:  foodsToAPI(foods),
	}), nil
}

// CreateMeal persists a new meal. The name defaults to
// "<Category> - h:mm AM" and the timestamp to now.
func (s *MealService) CreateMeal(ctx context.Context, req *connect.Request[api.CreateMealRequest]) (*connect.Response[api.CreateMealResponse], error) {
	msg := req.Msg
	slog.Info("CreateMeal request received", "category", msg.Category, "foods", len(msg.Foods))

	c := models.Category(msg.Category)
	if !category.IsKnown(c) {
		return nil, invalidArgument("unknown category %q", msg.Category)
	}

	meal := &models.Meal{
		Name:      msg.Name,
		Foods:     foodsFromAPI(msg.Foods),
		Timestamp: msg.Timestamp,
		Category:  c,
	}
	if meal.Timestamp == 0 {
		meal.Timestamp = s.now().UnixMilli()
	}
	if meal.Name == "" {
		meal.Name = category.DefaultName(c, meal.Timestamp, s.loc)
	}
	if msg.Image != "" {
		image, err := s.normalizer.Ensure(msg.Image)
		if err != nil {
			slog.Error("CreateMeal image rejected", "error", err)
			return nil, toConnectError(err)
		}
		meal.Image = image
	}

	if err := s.store.CreateMeal(ctx, meal); err != nil {
		slog.Error("CreateMeal failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Meal created", "meal_id", meal.ID, "name", meal.Name)
	return connect.NewResponse(&api.CreateMealResponse{Meal: mealToAPI(meal)}), nil
}

// UpdateMeal changes the name, foods and/or image of a meal.
func (s *MealService) UpdateMeal(ctx context.Context, req *connect.Request[api.UpdateMealRequest]) (*connect.Response[api.UpdateMealResponse], error) {
	msg := req.Msg
	slog.Info("UpdateMeal request received", "meal_id", msg.Id)

	if msg.Id == "" {
		return nil, invalidArgument("meal id is required")
	}

	patch := models.MealPatch{Name: msg.Name}
	if msg.UpdateFoods {
		patch.Foods = foodsFromAPI(msg.Foods)
		patch.SetFoods = true
	}
	if msg.Image != nil {
		image := *msg.Image
		if image != "" {
			var err error
			if image, err = s.normalizer.Ensure(image); err != nil {
				slog.Error("UpdateMeal image rejected", "meal_id", msg.Id, "error", err)
				return nil, toConnectError(err)
			}
		}
		patch.Image = &image
	}

	meal, err := s.store.UpdateMeal(ctx, msg.Id, patch)
	if err != nil {
		slog.Error("UpdateMeal failed", "meal_id", msg.Id, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Meal updated", "meal_id", meal.ID, "foods", len(meal.Foods))
	return connect.NewResponse(&api.UpdateMealResponse{Meal: mealToAPI(meal)}), nil
}

// GetMeal returns one meal by ID.
func (s *MealService) GetMeal(ctx context.Context, req *connect.Request[api.GetMealRequest]) (*connect.Response[api.GetMealResponse], error) {
	slog.Info("GetMeal request received", "meal_id", req.Msg.Id)

	if req.Msg.Id == "" {
		return nil, invalidArgument("meal id is required")
	}

	meal, err := s.store.GetMeal(ctx, req.Msg.Id)
	if err != nil {
		slog.Error("GetMeal failed", "meal_id", req.Msg.Id, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetMealResponse{Meal: mealToAPI(meal)}), nil
}

// DeleteMeal removes a meal. A missing ID returns NotFound.
func (s *MealService) DeleteMeal(ctx context.Context, req *connect.Request[api.DeleteMealRequest]) (*connect.Response[api.DeleteMealResponse], error) {
	slog.Info("DeleteMeal request received", "meal_id", req.Msg.Id)

	if req.Msg.Id == "" {
		return nil, invalidArgument("meal id is required")
	}

	if err := s.store.DeleteMeal(ctx, req.Msg.Id); err != nil {
		slog.Error("DeleteMeal failed", "meal_id", req.Msg.Id, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Meal deleted", "meal_id", req.Msg.Id)
	return connect.NewResponse(&api.DeleteMealResponse{}), nil
}

// ListMeals returns meals in an inclusive timestamp range, ascending.
// The calendar view uses it.
func (s *MealService) ListMeals(ctx context.Context, req *connect.Request[api.ListMealsRequest]) (*connect.Response[api.ListMealsResponse], error) {
	slog.Info("ListMeals request received", "start", req.Msg.Start, "end", req.Msg.End)

	if req.Msg.End < req.Msg.Start {
		return nil, invalidArgument("end %d is before start %d", req.Msg.End, req.Msg.Start)
	}

	meals, err := s.store.ListMeals(ctx, req.Msg.Start, req.Msg.End)
	if err != nil {
		slog.Error("ListMeals failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Meals listed", "count", len(meals))
	return connect.NewResponse(&api.ListMealsResponse{Meals: mealsToAPI(meals)}), nil
}

// GetDay returns one day's meals grouped by category for the dashboard.
func (s *MealService) GetDay(ctx context.Context, req *connect.Request[api.GetDayRequest]) (*connect.Response[api.GetDayResponse], error) {
	slog.Info("GetDay request received", "date", req.Msg.Date)

	day, err := s.parseDay(req.Msg.Date)
	if err != nil {
		return nil, invalidArgument("invalid date %q, want YYYY-MM-DD", req.Msg.Date)
	}
	start := day.UnixMilli()
	end := day.AddDate(0, 0, 1).UnixMilli() - 1

	meals, err := s.store.ListMeals(ctx, start, end)
	if err != nil {
		slog.Error("GetDay failed", "date", req.Msg.Date, "error", err)
		return nil, toConnectError(err)
	}

	grouping := category.Route(meals)
	if grouping.Unclassified > 0 {
		slog.Warn("Meals with unknown category left out of day view",
			"date", day.Format(dateLayout),
			"count", grouping.Unclassified,
		)
		if s.unclassified != nil {
			s.unclassified.Add(float64(grouping.Unclassified))
		}
	}

	groups := make([]*api.MealGroup, len(grouping.Groups))
	for i, g := range grouping.Groups {
		groups[i] = &api.MealGroup{Category: string(g.Category), Meals: mealsToAPI(g.Meals)}
	}

	return connect.NewResponse(&api.GetDayResponse{
		Date:         day.Format(dateLayout),
		Groups:       groups,
		Unclassified: int32(grouping.Unclassified),
	}), nil
}

// parseDay returns local midnight of date, or of today when date is empty.
func (s *MealService) parseDay(date string) (time.Time, error) {
	if date == "" {
		now := s.now().In(s.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc), nil
	}
	return time.ParseInLocation(dateLayout, date, s.loc)
}
