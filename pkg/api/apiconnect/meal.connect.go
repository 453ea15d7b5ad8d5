package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mealbook/pkg/api"
)

const (
	MealServiceAnalyzeImageProcedure = "/mealbook.v1.MealService/AnalyzeImage"
	MealServiceCreateMealProcedure   = "/mealbook.v1.MealService/CreateMeal"
	MealServiceUpdateMealProcedure   = "/mealbook.v1.MealService/UpdateMeal"
	MealServiceGetMealProcedure      = "/mealbook.v1.MealService/GetMeal"
	MealServiceDeleteMealProcedure   = "/mealbook.v1.MealService/DeleteMeal"
	MealServiceListMealsProcedure    = "/mealbook.v1.MealService/ListMeals"
	MealServiceGetDayProcedure       = "/mealbook.v1.MealService/GetDay"
)

// MealServiceHandler is implemented by the server.
type MealServiceHandler interface {
	AnalyzeImage(context.Context, *connect.Request[api.AnalyzeImageRequest]) (*connect.Response[api.AnalyzeImageResponse], error)
	CreateMeal(context.Context, *connect.Request[api.CreateMealRequest]) (*connect.Response[api.CreateMealResponse], error)
	UpdateMeal(context.Context, *connect.Request[api.UpdateMealRequest]) (*connect.Response[api.UpdateMealResponse], error)
	GetMeal(context.Context, *connect.Request[api.GetMealRequest]) (*connect.Response[api.GetMealResponse], error)
	DeleteMeal(context.Context, *connect.Request[api.DeleteMealRequest]) (*connect.Response[api.DeleteMealResponse], error)
	ListMeals(context.Context, *connect.Request[api.ListMealsRequest]) (*connect.Response[api.ListMealsResponse], error)
	GetDay(context.Context, *connect.Request[api.GetDayRequest]) (*connect.Response[api.GetDayResponse], error)
}

// NewMealServiceHandler builds an HTTP handler from the service implementation.
func NewMealServiceHandler(svc MealServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return ServicePath(MealServiceName), route(map[string]http.Handler{
		MealServiceAnalyzeImageProcedure: connect.NewUnaryHandler(MealServiceAnalyzeImageProcedure, svc.AnalyzeImage, opts...),
		MealServiceCreateMealProcedure:   connect.NewUnaryHandler(MealServiceCreateMealProcedure, svc.CreateMeal, opts...),
		MealServiceUpdateMealProcedure:   connect.NewUnaryHandler(MealServiceUpdateMealProcedure, svc.UpdateMeal, opts...),
		MealServiceGetMealProcedure:      connect.NewUnaryHandler(MealServiceGetMealProcedure, svc.GetMeal, opts...),
		MealServiceDeleteMealProcedure:   connect.NewUnaryHandler(MealServiceDeleteMealProcedure, svc.DeleteMeal, opts...),
		MealServiceListMealsProcedure:    connect.NewUnaryHandler(MealServiceListMealsProcedure, svc.ListMeals, opts...),
		MealServiceGetDayProcedure:       connect.NewUnaryHandler(MealServiceGetDayProcedure, svc.GetDay, opts...),
	})
}

// MealServiceClient is a client for the mealbook.v1.MealService service.
type MealServiceClient interface {
	AnalyzeImage(context.Context, *connect.Request[api.AnalyzeImageRequest]) (*connect.Response[api.AnalyzeImageResponse], error)
	CreateMeal(context.Context, *connect.Request[api.CreateMealRequest]) (*connect.Response[api.CreateMealResponse], error)
	UpdateMeal(context.Context, *connect.Request[api.UpdateMealRequest]) (*connect.Response[api.UpdateMealResponse], error)
	GetMeal(context.Context, *connect.Request[api.GetMealRequest]) (*connect.Response[api.GetMealResponse], error)
	DeleteMeal(context.Context, *connect.Request[api.DeleteMealRequest]) (*connect.Response[api.DeleteMealResponse], error)
	ListMeals(context.Context, *connect.Request[api.ListMealsRequest]) (*connect.Response[api.ListMealsResponse], error)
	GetDay(context.Context, *connect.Request[api.GetDayRequest]) (*connect.Response[api.GetDayResponse], error)
}

// NewMealServiceClient constructs a client for the server at baseURL.
func NewMealServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) MealServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &mealServiceClient{
		analyzeImage: connect.NewClient[api.AnalyzeImageRequest, api.AnalyzeImageResponse](httpClient, baseURL+MealServiceAnalyzeImageProcedure, opts...),
		createMeal:   connect.NewClient[api.CreateMealRequest, api.CreateMealResponse](httpClient, baseURL+MealServiceCreateMealProcedure, opts...),
		updateMeal:   connect.NewClient[api.UpdateMealRequest, api.UpdateMealResponse](httpClient, baseURL+MealServiceUpdateMealProcedure, opts...),
		getMeal:      connect.NewClient[api.GetMealRequest, api.GetMealResponse](httpClient, baseURL+MealServiceGetMealProcedure, opts...),
		deleteMeal:   connect.NewClient[api.DeleteMealRequest, api.DeleteMealResponse](httpClient, baseURL+MealServiceDeleteMealProcedure, opts...),
		listMeals:    connect.NewClient[api.ListMealsRequest, api.ListMealsResponse](httpClient, baseURL+MealServiceListMealsProcedure, opts...),
		getDay:       connect.NewClient[api.GetDayRequest, api.GetDayResponse](httpClient, baseURL+MealServiceGetDayProcedure, opts...),
	}
}

type mealServiceClient struct {
	analyzeImage *connect.Client[api.AnalyzeImageRequest, api.AnalyzeImageResponse]
	createMeal   *connect.Client[api.CreateMealRequest, api.CreateMealResponse]
	updateMeal   *connect.Client[api.UpdateMealRequest, api.UpdateMealResponse]
	getMeal      *connect.Client[api.GetMealRequest, api.GetMealResponse]
	deleteMeal   *connect.Client[api.DeleteMealRequest, api.DeleteMealResponse]
	listMeals    *connect.Client[api.ListMealsRequest, api.ListMealsResponse]
	getDay       *connect.Client[api.GetDayRequest, api.GetDayResponse]
}

func (c *mealServiceClient) AnalyzeImage(ctx context.Context, req *connect.Request[api.AnalyzeImageRequest]) (*connect.Response[api.AnalyzeImageResponse], error) {
	return c.analyzeImage.CallUnary(ctx, req)
}

func (c *mealServiceClient) CreateMeal(ctx context.Context, req *connect.Request[api.CreateMealRequest]) (*connect.Response[api.CreateMealResponse], error) {
	return c.createMeal.CallUnary(ctx, req)
}

func (c *mealServiceClient) UpdateMeal(ctx context.Context, req *connect.Request[api.UpdateMealRequest]) (*connect.Response[api.UpdateMealResponse], error) {
	return c.updateMeal.CallUnary(ctx, req)
}

func (c *mealServiceClient) DeleteMeal(ctx context.Context, req *connect.Request[api.DeleteMealRequest]) (*connect.Response[api.DeleteMealResponse], error) {
	return c.deleteMeal.CallUnary(ctx, req)
}

func (c *mealServiceClient) ListMeals(ctx context.Context, req *connect.Request[api.ListMealsRequest]) (*connect.Response[api.ListMealsResponse], error) {
	return c.listMeals.CallUnary(ctx, req)
}

func (c *mealServiceClient) GetDay(ctx context.Context, req *connect.Request[api.GetDayRequest]) (*connect.Response[api.GetDayResponse], error) {
	return c.getDay.CallUnary(ctx, req)
}

func (c *mealServiceClient) GetMeal(ctx context.Context, req *connect.Request[api.GetMealRequest]) (*connect.Response[api.GetMealResponse], error) {
	return c.getMeal.CallUnary(ctx, req)
}
