package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/mealbook/internal/assistant"
	"github.com/mmynk/mealbook/internal/auth"
	"github.com/mmynk/mealbook/internal/extractor"
	"github.com/mmynk/mealbook/internal/imaging"
	"github.com/mmynk/mealbook/internal/middleware"
	"github.com/mmynk/mealbook/internal/models"
	"github.com/mmynk/mealbook/internal/storage/sqlite"
	"github.com/mmynk/mealbook/pkg/api"
	"github.com/mmynk/mealbook/pkg/api/apiconnect"
)

const (
	testUserPassword  = "user-pass"
	testAdminPassword = "admin-pass"
)

// fakeExtractor returns canned foods or an error.
type fakeExtractor struct {
	foods []models.FoodItem
	err   error
	calls int
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) ([]models.FoodItem, error) {
	f.calls++
	return f.foods, f.err
}

// fakeAssistant records the settings it was given.
type fakeAssistant struct {
	settings models.UserSettings
	history  []models.ChatMessage
	err      error
}

func (f *fakeAssistant) StartRecipe(_ context.Context, mt assistant.MealType, s models.UserSettings, _ []string) (*assistant.Recipe, error) {
	f.settings = s
	if f.err != nil {
		return nil, f.err
	}
	return &assistant.Recipe{Content: "# " + string(mt) + " Bowl", Name: string(mt) + " Bowl"}, nil
}

func (f *fakeAssistant) Reply(_ context.Context, _ assistant.MealType, history []models.ChatMessage, message string) (string, error) {
	f.history = history
	if f.err != nil {
		return "", f.err
	}
	return "re: " + message, nil
}

type counter struct{ n float64 }

func (c *counter) Add(v float64) { c.n += v }

type testEnv struct {
	access    apiconnect.AccessServiceClient
	meals     apiconnect.MealServiceClient
	weights   apiconnect.WeightServiceClient
	settings  apiconnect.SettingsServiceClient
	assistant apiconnect.AssistantServiceClient

	extractor    *fakeExtractor
	chef         *fakeAssistant
	unclassified *counter
	store        *sqlite.SQLiteStore

	basicToken string
	fullToken  string
}

// setupTestServer creates a test server with every service behind the
// access interceptor.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	adminHash, _ := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	userHash, _ := bcrypt.GenerateFromPassword([]byte(testUserPassword), bcrypt.MinCost)
	gate, err := auth.NewPasswordGate(string(userHash), string(adminHash))
	if err != nil {
		t.Fatalf("failed to create gate: %v", err)
	}
	jwtManager := auth.NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)

	env := &testEnv{
		extractor:    &fakeExtractor{},
		chef:         &fakeAssistant{},
		unclassified: &counter{},
		store:        store,
	}

	interceptors := connect.WithInterceptors(
		middleware.RequireAccess(jwtManager, middleware.DefaultPolicy()),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAccessServiceHandler(NewAccessService(gate, jwtManager), interceptors))
	mux.Handle(apiconnect.NewMealServiceHandler(
		NewMealService(store, env.extractor, imaging.NewNormalizer(1<<20), time.UTC,
			WithUnclassifiedCounter(env.unclassified)),
		interceptors,
	))
	mux.Handle(apiconnect.NewWeightServiceHandler(NewWeightService(store, time.UTC), interceptors))
	mux.Handle(apiconnect.NewSettingsServiceHandler(NewSettingsService(store), interceptors))
	mux.Handle(apiconnect.NewAssistantServiceHandler(NewAssistantService(env.chef, store), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	env.access = apiconnect.NewAccessServiceClient(http.DefaultClient, server.URL)
	env.meals = apiconnect.NewMealServiceClient(http.DefaultClient, server.URL)
	env.weights = apiconnect.NewWeightServiceClient(http.DefaultClient, server.URL)
	env.settings = apiconnect.NewSettingsServiceClient(http.DefaultClient, server.URL)
	env.assistant = apiconnect.NewAssistantServiceClient(http.DefaultClient, server.URL)

	env.basicToken, _, _ = jwtManager.Generate(models.AccessBasic)
	env.fullToken, _, _ = jwtManager.Generate(models.AccessFull)
	return env
}

// withToken wraps msg in a request carrying a Bearer token.
func withToken[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("expected code %v, got %v (%v)", want, got, err)
	}
}

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return imaging.EncodeDataURL("image/png", buf.Bytes())
}

func TestLogin(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		password  string
		wantLevel string
		wantCode  connect.Code
	}{
		{testUserPassword, "basic", 0},
		{testAdminPassword, "full", 0},
		{"nope", "", connect.CodeUnauthenticated},
		{"", "", connect.CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			resp, err := env.access.Login(ctx, connect.NewRequest(&api.LoginRequest{Password: tt.password}))
			if tt.wantCode != 0 {
				assertCode(t, err, tt.wantCode)
				return
			}
			if err != nil {
				t.Fatalf("Login failed: %v", err)
			}
			if resp.Msg.Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", resp.Msg.Level, tt.wantLevel)
			}
			if resp.Msg.Token == "" {
				t.Error("expected token")
			}
			if resp.Header().Get("Set-Cookie") == "" {
				t.Error("expected access cookie")
			}
		})
	}
}

func TestAccessRules(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	_, err := env.meals.GetDay(ctx, connect.NewRequest(&api.GetDayRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = env.meals.GetDay(ctx, withToken(env.basicToken, &api.GetDayRequest{}))
	if err != nil {
		t.Errorf("basic token should reach meals: %v", err)
	}

	_, err = env.weights.ListEntries(ctx, withToken(env.basicToken, &api.ListEntriesRequest{}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = env.settings.GetSettings(ctx, withToken(env.basicToken, &api.GetSettingsRequest{}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = env.weights.ListEntries(ctx, withToken(env.fullToken, &api.ListEntriesRequest{}))
	if err != nil {
		t.Errorf("full token should reach weights: %v", err)
	}

	_, err = env.weights.ListEntries(ctx, withToken("forged", &api.ListEntriesRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestMealLifecycle(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	tok := env.basicToken

	noon := time.Date(2024, 5, 10, 12, 30, 0, 0, time.UTC)

	created, err := env.meals.CreateMeal(ctx, withToken(tok, &api.CreateMealRequest{
		Foods:     []*api.FoodItem{{Name: "Rice", Quantity: "1 cup"}},
		Image:     pngDataURL(t, 1200, 600),
		Timestamp: noon.UnixMilli(),
		Category:  "Lunch",
	}))
	if err != nil {
		t.Fatalf("CreateMeal failed: %v", err)
	}
	meal := created.Msg.Meal
	if meal.Id == "" {
		t.Fatal("expected meal id")
	}
	if meal.Name != "Lunch - 12:30 PM" {
		t.Errorf("Name = %q, want generated name", meal.Name)
	}
	mediaType, _, err := imaging.ParseDataURL(meal.Image)
	if err != nil || mediaType != imaging.MediaType {
		t.Errorf("stored image should be a normalized JPEG, got %q (%v)", mediaType, err)
	}

	updated, err := env.meals.UpdateMeal(ctx, withToken(tok, &api.UpdateMealRequest{
		Id:          meal.Id,
		Foods:       []*api.FoodItem{{Name: "Rice", Quantity: "2 cups"}, {Name: "Beans", Quantity: "1 cup"}},
		UpdateFoods: true,
	}))
	if err != nil {
		t.Fatalf("UpdateMeal failed: %v", err)
	}
	if len(updated.Msg.Meal.Foods) != 2 || updated.Msg.Meal.Image != meal.Image || updated.Msg.Meal.Name != meal.Name {
		t.Errorf("UpdateMeal changed wrong fields: %+v", updated.Msg.Meal)
	}

	day, err := env.meals.GetDay(ctx, withToken(tok, &api.GetDayRequest{Date: "2024-05-10"}))
	if err != nil {
		t.Fatalf("GetDay failed: %v", err)
	}
	if len(day.Msg.Groups) != 5 || day.Msg.Groups[1].Category != "Lunch" || len(day.Msg.Groups[1].Meals) != 1 {
		t.Errorf("GetDay groups = %+v", day.Msg.Groups)
	}

	got, err := env.meals.GetMeal(ctx, withToken(tok, &api.GetMealRequest{Id: meal.Id}))
	if err != nil {
		t.Fatalf("GetMeal failed: %v", err)
	}
	if got.Msg.Meal.Category != "Lunch" || len(got.Msg.Meal.Foods) != 2 {
		t.Errorf("GetMeal = %+v", got.Msg.Meal)
	}

	if _, err := env.meals.DeleteMeal(ctx, withToken(tok, &api.DeleteMealRequest{Id: meal.Id})); err != nil {
		t.Fatalf("DeleteMeal failed: %v", err)
	}
	_, err = env.meals.DeleteMeal(ctx, withToken(tok, &api.DeleteMealRequest{Id: meal.Id}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = env.meals.UpdateMeal(ctx, withToken(tok, &api.UpdateMealRequest{Id: meal.Id, Name: new(string)}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = env.meals.GetMeal(ctx, withToken(tok, &api.GetMealRequest{Id: meal.Id}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestCreateMeal_Validation(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	_, err := env.meals.CreateMeal(ctx, withToken(env.basicToken, &api.CreateMealRequest{Category: "Brunch"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = env.meals.CreateMeal(ctx, withToken(env.basicToken, &api.CreateMealRequest{
		Category: "Dinner",
		Image:    "data:image/png;base64,bm9wZQ==",
	}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestGetDay_Unclassified(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	ts := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC).UnixMilli()
	if err := env.store.CreateMeal(ctx, &models.Meal{Timestamp: ts, Category: "Unknown"}); err != nil {
		t.Fatalf("CreateMeal failed: %v", err)
	}
	if err := env.store.CreateMeal(ctx, &models.Meal{Timestamp: ts, Category: models.CategoryBreakfast}); err != nil {
		t.Fatalf("CreateMeal failed: %v", err)
	}

	resp, err := env.meals.GetDay(ctx, withToken(env.basicToken, &api.GetDayRequest{Date: "2024-05-10"}))
	if err != nil {
		t.Fatalf("GetDay failed: %v", err)
	}
	total := 0
	for _, g := range resp.Msg.Groups {
		total += len(g.Meals)
	}
	if total != 1 {
		t.Errorf("expected 1 grouped meal, got %d", total)
	}
	if resp.Msg.Unclassified != 1 || env.unclassified.n != 1 {
		t.Errorf("Unclassified = %d, counter = %v", resp.Msg.Unclassified, env.unclassified.n)
	}

	_, err = env.meals.GetDay(ctx, withToken(env.basicToken, &api.GetDayRequest{Date: "10/05/2024"}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestListMeals(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	for _, ts := range []int64{3000, 1000, 2000} {
		if _, err := env.meals.CreateMeal(ctx, withToken(env.basicToken, &api.CreateMealRequest{Timestamp: ts, Category: "Dinner"})); err != nil {
			t.Fatalf("CreateMeal failed: %v", err)
		}
	}

	resp, err := env.meals.ListMeals(ctx, withToken(env.basicToken, &api.ListMealsRequest{Start: 1000, End: 2000}))
	if err != nil {
		t.Fatalf("ListMeals failed: %v", err)
	}
	if len(resp.Msg.Meals) != 2 || resp.Msg.Meals[0].Timestamp != 1000 {
		t.Errorf("ListMeals = %+v", resp.Msg.Meals)
	}

	_, err = env.meals.ListMeals(ctx, withToken(env.basicToken, &api.ListMealsRequest{Start: 5, End: 1}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestAnalyzeImage(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	env.extractor.foods = []models.FoodItem{{Name: "Toast", Quantity: "2 slices"}}
	resp, err := env.meals.AnalyzeImage(ctx, withToken(env.basicToken, &api.AnalyzeImageRequest{Image: pngDataURL(t, 1600, 900)}))
	if err != nil {
		t.Fatalf("AnalyzeImage failed: %v", err)
	}
	if resp.Msg.Width != 800 || resp.Msg.Height != 450 {
		t.Errorf("normalized size = %dx%d, want 800x450", resp.Msg.Width, resp.Msg.Height)
	}
	if len(resp.Msg.Foods) != 1 || resp.Msg.Foods[0].Name != "Toast" {
		t.Errorf("Foods = %+v", resp.Msg.Foods)
	}

	env.extractor.err = extractor.ErrExtraction
	_, err = env.meals.AnalyzeImage(ctx, withToken(env.basicToken, &api.AnalyzeImageRequest{Image: pngDataURL(t, 10, 10)}))
	assertCode(t, err, connect.CodeUnavailable)

	calls := env.extractor.calls
	_, err = env.meals.AnalyzeImage(ctx, withToken(env.basicToken, &api.AnalyzeImageRequest{Image: "data:image/png;base64,!!"}))
	assertCode(t, err, connect.CodeInvalidArgument)
	if env.extractor.calls != calls {
		t.Error("extractor must not run for undecodable images")
	}
}

func TestWeightService(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	tok := env.fullToken

	now := time.Now()
	for i, w := range []string{"70", "69.4", "68"} {
		_, err := env.weights.AddEntry(ctx, withToken(tok, &api.AddEntryRequest{
			Date:   now.AddDate(0, 0, i-3).UnixMilli(),
			Weight: w,
		}))
		if err != nil {
			t.Fatalf("AddEntry failed: %v", err)
		}
	}

	_, err := env.weights.AddEntry(ctx, withToken(tok, &api.AddEntryRequest{Weight: "heavy"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	list, err := env.weights.ListEntries(ctx, withToken(tok, &api.ListEntriesRequest{}))
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(list.Msg.Entries) != 3 || list.Msg.Entries[0].Weight != 68 {
		t.Errorf("expected newest first, got %+v", list.Msg.Entries)
	}

	progress, err := env.weights.GetProgress(ctx, withToken(tok, &api.GetProgressRequest{Range: "week"}))
	if err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}
	if progress.Msg.Progress == nil || progress.Msg.Progress.Summary != "2.0 lost" {
		t.Errorf("Progress = %+v", progress.Msg.Progress)
	}
	if len(progress.Msg.Points) != 3 {
		t.Errorf("expected 3 chart points, got %d", len(progress.Msg.Points))
	}

	if _, err := env.weights.DeleteEntry(ctx, withToken(tok, &api.DeleteEntryRequest{Id: list.Msg.Entries[0].Id})); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	_, err = env.weights.DeleteEntry(ctx, withToken(tok, &api.DeleteEntryRequest{Id: list.Msg.Entries[0].Id}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestSettingsService(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	tok := env.fullToken

	got, err := env.settings.GetSettings(ctx, withToken(tok, &api.GetSettingsRequest{}))
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got.Msg.Settings.MealsPerDay != "3" || got.Msg.Settings.DietaryPreferences != "none" {
		t.Errorf("expected defaults, got %+v", got.Msg.Settings)
	}

	s := got.Msg.Settings
	s.ProteinPerMeal, s.FatPerMeal, s.CarbsPerMeal = "40", "20", "50"
	saved, err := env.settings.SaveSettings(ctx, withToken(tok, &api.SaveSettingsRequest{Settings: s}))
	if err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	// 3 meals: protein 120g, fat 60g, carbs 150g -> 480 + 540 + 600
	if saved.Msg.Targets.Calories != 1620 {
		t.Errorf("Calories = %v, want 1620", saved.Msg.Targets.Calories)
	}

	again, _ := env.settings.GetSettings(ctx, withToken(tok, &api.GetSettingsRequest{}))
	if *again.Msg.Settings != *s {
		t.Errorf("settings did not round-trip: %+v", again.Msg.Settings)
	}

	s.ProteinPerMeal = "lots"
	_, err = env.settings.SaveSettings(ctx, withToken(tok, &api.SaveSettingsRequest{Settings: s}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestAssistantService(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	tok := env.fullToken

	plan := &api.Settings{MealsPerDay: "3", ProteinPerMeal: "35", DietaryPreferences: "vegan", MeasurementUnit: "metric"}
	if _, err := env.settings.SaveSettings(ctx, withToken(tok, &api.SaveSettingsRequest{Settings: plan})); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	start, err := env.assistant.StartRecipe(ctx, withToken(tok, &api.StartRecipeRequest{MealType: "lunch"}))
	if err != nil {
		t.Fatalf("StartRecipe failed: %v", err)
	}
	if start.Msg.RecipeName != "Lunch Bowl" {
		t.Errorf("RecipeName = %q", start.Msg.RecipeName)
	}
	if env.chef.settings.ProteinPerMeal != "35" {
		t.Errorf("assistant got settings %+v", env.chef.settings)
	}

	reply, err := env.assistant.SendMessage(ctx, withToken(tok, &api.SendMessageRequest{
		MealType: "Lunch",
		History:  []*api.ChatMessage{{Role: "assistant", Content: start.Msg.Content}},
		Message:  "more spice",
	}))
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if reply.Msg.Reply != "re: more spice" || len(env.chef.history) != 1 {
		t.Errorf("Reply = %q, history = %+v", reply.Msg.Reply, env.chef.history)
	}

	_, err = env.assistant.SendMessage(ctx, withToken(tok, &api.SendMessageRequest{
		MealType: "Lunch",
		History:  []*api.ChatMessage{{Role: "system", Content: "x"}},
		Message:  "hi",
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = env.assistant.StartRecipe(ctx, withToken(tok, &api.StartRecipeRequest{MealType: "brunch"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	env.chef.err = errors.Join(assistant.ErrCompletion, errors.New("model down"))
	_, err = env.assistant.StartRecipe(ctx, withToken(tok, &api.StartRecipeRequest{MealType: "Dinner"}))
	assertCode(t, err, connect.CodeUnavailable)
}
