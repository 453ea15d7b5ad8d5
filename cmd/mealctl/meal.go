package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/mealbook/internal/category"
	"github.com/mmynk/mealbook/internal/editor"
	"github.com/mmynk/mealbook/internal/extractor"
	"github.com/mmynk/mealbook/internal/imaging"
	"github.com/mmynk/mealbook/internal/models"
	"github.com/mmynk/mealbook/pkg/api"
	"github.com/mmynk/mealbook/pkg/api/apiconnect"
)

const dateLayout = "2006-01-02"

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Log, edit and browse meals",
}

var (
	mealCategory    string
	mealImage       string
	mealFoods       []string
	mealRemoveFoods []int
	mealNoAnalyze   bool
	mealClearImage  bool
	mealAt          string
	calendarDays    int
)

var mealLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a meal, optionally from a photo",
	Long: `Log a meal. With --image the photo is resized and sent for analysis;
the suggested foods are combined with any --food flags. If analysis fails
the meal is still saved with the foods given on the command line.

Foods are written "name:quantity[:notes]"; a missing quantity is "1 serving".
--at logs the meal on another day: "YYYY-MM-DD" keeps the current time of
day, "YYYY-MM-DD HH:MM" sets both.

Examples:
  mealctl meal log --category Lunch --image lunch.jpg
  mealctl meal log --category Dinner --at "2024-03-03 19:15" --food "Pasta:1 plate"
  mealctl meal log --category Breakfast --food "Oatmeal:1 bowl" --food "Coffee"`,
	RunE: runMealLog,
}

var mealEditCmd = &cobra.Command{
	Use:   "edit <meal-id>",
	Short: "Change the foods or photo of a meal",
	Long: `Edit an existing meal. --food appends foods, --remove drops foods by
their 1-based position, --image replaces the photo and --clear-image
removes it.

Examples:
  mealctl meal edit 3f2a... --remove 2 --food "Salad:1 cup"`,
	Args: cobra.ExactArgs(1),
	RunE: runMealEdit,
}

var mealRmCmd = &cobra.Command{
	Use:   "rm <meal-id>",
	Short: "Delete a meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connectClients()
		if err != nil {
			return err
		}
		if _, err := c.meals.DeleteMeal(cmd.Context(), connect.NewRequest(&api.DeleteMealRequest{Id: args[0]})); err != nil {
			return err
		}
		printOK(cmd.OutOrStdout(), "deleted meal %s", args[0])
		return nil
	},
}

var mealDayCmd = &cobra.Command{
	Use:   "day [YYYY-MM-DD]",
	Short: "Show one day's meals grouped by category",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connectClients()
		if err != nil {
			return err
		}
		req := &api.GetDayRequest{}
		if len(args) == 1 {
			req.Date = args[0]
		}
		res, err := c.meals.GetDay(cmd.Context(), connect.NewRequest(req))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderDay(res.Msg))
		return nil
	},
}

var mealCalendarCmd = &cobra.Command{
	Use:   "calendar [YYYY-MM-DD]",
	Short: "Show meal counts per day ending at a date (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connectClients()
		if err != nil {
			return err
		}

		end := time.Now()
		if len(args) == 1 {
			if end, err = time.ParseInLocation(dateLayout, args[0], time.Local); err != nil {
				return fmt.Errorf("invalid date %q, want YYYY-MM-DD", args[0])
			}
		}
		endOfDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, 1)
		start := endOfDay.AddDate(0, 0, -calendarDays)

		res, err := c.meals.ListMeals(cmd.Context(), connect.NewRequest(&api.ListMealsRequest{
			Start: start.UnixMilli(),
			End:   endOfDay.UnixMilli() - 1,
		}))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderCalendar(res.Msg.Meals, time.Local))
		return nil
	},
}

func init() {
	mealLogCmd.Flags().StringVarP(&mealCategory, "category", "c", "", "Breakfast, Lunch, Dinner, Snack 1 or Snack 2")
	mealLogCmd.Flags().StringVarP(&mealImage, "image", "i", "", "photo of the meal")
	mealLogCmd.Flags().StringArrayVarP(&mealFoods, "food", "f", nil, `food as "name:quantity[:notes]" (repeatable)`)
	mealLogCmd.Flags().StringVar(&mealAt, "at", "", `when the meal was eaten, "YYYY-MM-DD[ HH:MM]" (default now)`)
	mealLogCmd.Flags().BoolVar(&mealNoAnalyze, "no-analyze", false, "attach the photo without AI analysis")
	_ = mealLogCmd.MarkFlagRequired("category")

	mealEditCmd.Flags().StringVarP(&mealImage, "image", "i", "", "replace the photo")
	mealEditCmd.Flags().BoolVar(&mealClearImage, "clear-image", false, "remove the photo")
	mealEditCmd.Flags().StringArrayVarP(&mealFoods, "food", "f", nil, `append a food "name:quantity[:notes]" (repeatable)`)
	mealEditCmd.Flags().IntSliceVar(&mealRemoveFoods, "remove", nil, "remove foods by 1-based position")

	mealCalendarCmd.Flags().IntVar(&calendarDays, "days", 31, "number of days to show")

	mealCmd.AddCommand(mealLogCmd, mealEditCmd, mealRmCmd, mealDayCmd, mealCalendarCmd)
}

func runMealLog(cmd *cobra.Command, args []string) error {
	cat := models.Category(mealCategory)
	if !category.IsKnown(cat) {
		return fmt.Errorf("unknown category %q", mealCategory)
	}
	foods, err := parseFoods(mealFoods)
	if err != nil {
		return err
	}
	c, err := connectClients()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	modal := editor.NewModal(cat)
	if mealAt != "" {
		at, err := parseMealTime(mealAt, time.Now())
		if err != nil {
			return err
		}
		if err := modal.SetTime(at); err != nil {
			return err
		}
	}
	if mealImage == "" {
		if err := modal.SkipImage(); err != nil {
			return err
		}
	} else {
		dataURL, err := loadImage(mealImage)
		if err != nil {
			return err
		}
		if err := modal.AttachImage(dataURL); err != nil {
			return err
		}
		if mealNoAnalyze {
			err = modal.ApplyExtraction(nil, nil)
		} else {
			err = modal.ApplyExtraction(analyze(ctx, c.meals, dataURL))
		}
		if err != nil {
			printWarn(cmd.ErrOrStderr(), "image analysis failed, saving the foods you entered: %v", err)
		}
	}

	appendFoods(modal.Draft(), foods)

	meal, err := modal.Save(ctx, mealSaver{client: c.meals})
	if err != nil {
		return err
	}
	printOK(cmd.OutOrStdout(), "logged %s", meal.Name)
	fmt.Fprint(cmd.OutOrStdout(), renderMeal(apiMeal(meal)))
	return nil
}

const mealTimeLayout = dateLayout + " 15:04"

// parseMealTime reads "YYYY-MM-DD HH:MM", or a bare date that takes the
// time of day from now.
func parseMealTime(value string, now time.Time) (time.Time, error) {
	if t, err := time.ParseInLocation(mealTimeLayout, value, now.Location()); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation(dateLayout, value, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, want YYYY-MM-DD or YYYY-MM-DD HH:MM", value)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), now.Second(), 0, now.Location()), nil
}

func runMealEdit(cmd *cobra.Command, args []string) error {
	foods, err := parseFoods(mealFoods)
	if err != nil {
		return err
	}
	c, err := connectClients()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	res, err := c.meals.GetMeal(ctx, connect.NewRequest(&api.GetMealRequest{Id: args[0]}))
	if err != nil {
		return err
	}

	meal := mealFromAPI(res.Msg.Meal)
	switch {
	case mealClearImage:
		meal.Image = ""
	case mealImage != "":
		if meal.Image, err = loadImage(mealImage); err != nil {
			return err
		}
	}

	modal := editor.EditExisting(meal)
	draft := modal.Draft()
	if err := removeFoods(draft, mealRemoveFoods); err != nil {
		return err
	}
	appendFoods(draft, foods)

	saved, err := modal.Save(ctx, mealSaver{client: c.meals})
	if err != nil {
		return err
	}
	printOK(cmd.OutOrStdout(), "updated %s", saved.Name)
	fmt.Fprint(cmd.OutOrStdout(), renderMeal(apiMeal(saved)))
	return nil
}

// analyze asks the server for the foods in a photo. The returned pair feeds
// Modal.ApplyExtraction directly.
func analyze(ctx context.Context, client apiconnect.MealServiceClient, dataURL string) ([]models.FoodItem, error) {
	res, err := client.AnalyzeImage(ctx, connect.NewRequest(&api.AnalyzeImageRequest{Image: dataURL}))
	if err != nil {
		return nil, err
	}
	return foodsFromAPI(res.Msg.Foods), nil
}

// loadImage reads a photo and normalizes it locally so uploads stay small.
func loadImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	img, err := imaging.Normalize(data)
	if err != nil {
		return "", err
	}
	return img.DataURL(), nil
}

// parseFoods reads "name:quantity[:notes]" values.
func parseFoods(values []string) ([]models.FoodItem, error) {
	foods := make([]models.FoodItem, 0, len(values))
	for _, v := range values {
		parts := strings.SplitN(v, ":", 3)
		f := models.FoodItem{Name: strings.TrimSpace(parts[0]), Quantity: extractor.DefaultQuantity}
		if f.Name == "" {
			return nil, fmt.Errorf("food %q has no name", v)
		}
		if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
			f.Quantity = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			f.Notes = strings.TrimSpace(parts[2])
		}
		foods = append(foods, f)
	}
	return foods, nil
}

func appendFoods(d *editor.Draft, foods []models.FoodItem) {
	for _, f := range foods {
		i := d.Append()
		d.Update(i, models.FoodFieldName, f.Name)
		d.Update(i, models.FoodFieldQuantity, f.Quantity)
		d.Update(i, models.FoodFieldNotes, f.Notes)
	}
}

// removeFoods removes 1-based positions, highest first so earlier indexes
// stay valid.
func removeFoods(d *editor.Draft, positions []int) error {
	for _, p := range positions {
		if p < 1 || p > d.Len() {
			return fmt.Errorf("no food at position %d", p)
		}
	}
	idx := slices.Clone(positions)
	slices.Sort(idx)
	idx = slices.Compact(idx)
	for i := len(idx) - 1; i >= 0; i-- {
		d.Remove(idx[i] - 1)
	}
	return nil
}

// mealSaver adapts the meal client to editor.Saver.
type mealSaver struct {
	client apiconnect.MealServiceClient
}

func (s mealSaver) CreateMeal(ctx context.Context, meal models.Meal) (*models.Meal, error) {
	res, err := s.client.CreateMeal(ctx, connect.NewRequest(&api.CreateMealRequest{
		Name:      meal.Name,
		Foods:     foodsToAPI(meal.Foods),
		Image:     meal.Image,
		Timestamp: meal.Timestamp,
		Category:  string(meal.Category),
	}))
	if err != nil {
		return nil, err
	}
	m := mealFromAPI(res.Msg.Meal)
	return &m, nil
}

func (s mealSaver) UpdateMeal(ctx context.Context, id string, patch models.MealPatch) (*models.Meal, error) {
	if patch.Empty() {
		return nil, errors.New("nothing to update")
	}
	res, err := s.client.UpdateMeal(ctx, connect.NewRequest(&api.UpdateMealRequest{
		Id:          id,
		Name:        patch.Name,
		Foods:       foodsToAPI(patch.Foods),
		UpdateFoods: patch.SetFoods,
		Image:       patch.Image,
	}))
	if err != nil {
		return nil, err
	}
	m := mealFromAPI(res.Msg.Meal)
	return &m, nil
}

func foodsToAPI(in []models.FoodItem) []*api.FoodItem {
	out := make([]*api.FoodItem, len(in))
	for i, f := range in {
		out[i] = &api.FoodItem{Name: f.Name, Quantity: f.Quantity, Notes: f.Notes}
	}
	return out
}

func foodsFromAPI(in []*api.FoodItem) []models.FoodItem {
	out := make([]models.FoodItem, 0, len(in))
	for _, f := range in {
		if f != nil {
			out = append(out, models.FoodItem{Name: f.Name, Quantity: f.Quantity, Notes: f.Notes})
		}
	}
	return out
}

func mealFromAPI(m *api.Meal) models.Meal {
	return models.Meal{
		ID:        m.Id,
		Name:      m.Name,
		Foods:     foodsFromAPI(m.Foods),
		Image:     m.Image,
		Timestamp: m.Timestamp,
		Category:  models.Category(m.Category),
	}
}

func apiMeal(m *models.Meal) *api.Meal {
	return &api.Meal{
		Id:        m.ID,
		Name:      m.Name,
		Foods:     foodsToAPI(m.Foods),
		Image:     m.Image,
		Timestamp: m.Timestamp,
		Category:  string(m.Category),
	}
}
