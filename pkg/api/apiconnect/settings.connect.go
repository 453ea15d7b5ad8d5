package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mealbook/pkg/api"
)

const (
	SettingsServiceGetSettingsProcedure  = "/mealbook.v1.SettingsService/GetSettings"
	SettingsServiceSaveSettingsProcedure = "/mealbook.v1.SettingsService/SaveSettings"
)

// SettingsServiceHandler is implemented by the server.
type SettingsServiceHandler interface {
	GetSettings(context.Context, *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.GetSettingsResponse], error)
	SaveSettings(context.Context, *connect.Request[api.SaveSettingsRequest]) (*connect.Response[api.SaveSettingsResponse], error)
}

// NewSettingsServiceHandler builds an HTTP handler from the service implementation.
func NewSettingsServiceHandler(svc SettingsServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return ServicePath(SettingsServiceName), route(map[string]http.Handler{
		SettingsServiceGetSettingsProcedure:  connect.NewUnaryHandler(SettingsServiceGetSettingsProcedure, svc.GetSettings, opts...),
		SettingsServiceSaveSettingsProcedure: connect.NewUnaryHandler(SettingsServiceSaveSettingsProcedure, svc.SaveSettings, opts...),
	})
}

// SettingsServiceClient is a client for the mealbook.v1.SettingsService service.
type SettingsServiceClient interface {
	GetSettings(context.Context, *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.GetSettingsResponse], error)
	SaveSettings(context.Context, *connect.Request[api.SaveSettingsRequest]) (*connect.Response[api.SaveSettingsResponse], error)
}

// NewSettingsServiceClient constructs a client for the server at baseURL.
func NewSettingsServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettingsServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &settingsServiceClient{
		getSettings:  connect.NewClient[api.GetSettingsRequest, api.GetSettingsResponse](httpClient, baseURL+SettingsServiceGetSettingsProcedure, opts...),
		saveSettings: connect.NewClient[api.SaveSettingsRequest, api.SaveSettingsResponse](httpClient, baseURL+SettingsServiceSaveSettingsProcedure, opts...),
	}
}

type settingsServiceClient struct {
	getSettings  *connect.Client[api.GetSettingsRequest, api.GetSettingsResponse]
	saveSettings *connect.Client[api.SaveSettingsRequest, api.SaveSettingsResponse]
}

func (c *settingsServiceClient) GetSettings(ctx context.Context, req *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.GetSettingsResponse], error) {
	return c.getSettings.CallUnary(ctx, req)
}

func (c *settingsServiceClient) SaveSettings(ctx context.Context, req *connect.Request[api.SaveSettingsRequest]) (*connect.Response[api.SaveSettingsResponse], error) {
	return c.saveSettings.CallUnary(ctx, req)
}
