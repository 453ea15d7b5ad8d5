package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mealbook/pkg/api"
)

const (
	WeightServiceAddEntryProcedure    = "/mealbook.v1.WeightService/AddEntry"
	WeightServiceDeleteEntryProcedure = "/mealbook.v1.WeightService/DeleteEntry"
	WeightServiceListEntriesProcedure = "/mealbook.v1.WeightService/ListEntries"
	WeightServiceGetProgressProcedure = "/mealbook.v1.WeightService/GetProgress"
)

// WeightServiceHandler is implemented by the server.
type WeightServiceHandler interface {
	AddEntry(context.Context, *connect.Request[api.AddEntryRequest]) (*connect.Response[api.AddEntryResponse], error)
	DeleteEntry(context.Context, *connect.Request[api.DeleteEntryRequest]) (*connect.Response[api.DeleteEntryResponse], error)
	ListEntries(context.Context, *connect.Request[api.ListEntriesRequest]) (*connect.Response[api.ListEntriesResponse], error)
	GetProgress(context.Context, *connect.Request[api.GetProgressRequest]) (*connect.Response[api.GetProgressResponse], error)
}

// NewWeightServiceHandler builds an HTTP handler from the service implementation.
func NewWeightServiceHandler(svc WeightServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return ServicePath(WeightServiceName), route(map[string]http.Handler{
		WeightServiceAddEntryProcedure:    connect.NewUnaryHandler(WeightServiceAddEntryProcedure, svc.AddEntry, opts...),
		WeightServiceDeleteEntryProcedure: connect.NewUnaryHandler(WeightServiceDeleteEntryProcedure, svc.DeleteEntry, opts...),
		WeightServiceListEntriesProcedure: connect.NewUnaryHandler(WeightServiceListEntriesProcedure, svc.ListEntries, opts...),
		WeightServiceGetProgressProcedure: connect.NewUnaryHandler(WeightServiceGetProgressProcedure, svc.GetProgress, opts...),
	})
}

// WeightServiceClient is a client for the mealbook.v1.WeightService service.
type WeightServiceClient interface {
	AddEntry(context.Context, *connect.Request[api.AddEntryRequest]) (*connect.Response[api.AddEntryResponse], error)
	DeleteEntry(context.Context, *connect.Request[api.DeleteEntryRequest]) (*connect.Response[api.DeleteEntryResponse], error)
	ListEntries(context.Context, *connect.Request[api.ListEntriesRequest]) (*connect.Response[api.ListEntriesResponse], error)
	GetProgress(context.Context, *connect.Request[api.GetProgressRequest]) (*connect.Response[api.GetProgressResponse], error)
}

// NewWeightServiceClient constructs a client for the server at baseURL.
func NewWeightServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) WeightServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &weightServiceClient{
		addEntry:    connect.NewClient[api.AddEntryRequest, api.AddEntryResponse](httpClient, baseURL+WeightServiceAddEntryProcedure, opts...),
		deleteEntry: connect.NewClient[api.DeleteEntryRequest, api.DeleteEntryResponse](httpClient, baseURL+WeightServiceDeleteEntryProcedure, opts...),
		listEntries: connect.NewClient[api.ListEntriesRequest, api.ListEntriesResponse](httpClient, baseURL+WeightServiceListEntriesProcedure, opts...),
		getProgress: connect.NewClient[api.GetProgressRequest, api.GetProgressResponse](httpClient, baseURL+WeightServiceGetProgressProcedure, opts...),
	}
}

type weightServiceClient struct {
	addEntry    *connect.Client[api.AddEntryRequest, api.AddEntryResponse]
	deleteEntry *connect.Client[api.DeleteEntryRequest, api.DeleteEntryResponse]
	listEntries *connect.Client[api.ListEntriesRequest, api.ListEntriesResponse]
	getProgress *connect.Client[api.GetProgressRequest, api.GetProgressResponse]
}

func (c *weightServiceClient) AddEntry(ctx context.Context, req *connect.Request[api.AddEntryRequest]) (*connect.Response[api.AddEntryResponse], error) {
	return c.addEntry.CallUnary(ctx, req)
}

func (c *weightServiceClient) DeleteEntry(ctx context.Context, req *connect.Request[api.DeleteEntryRequest]) (*connect.Response[api.DeleteEntryResponse], error) {
	return c.deleteEntry.CallUnary(ctx, req)
}

func (c *weightServiceClient) ListEntries(ctx context.Context, req *connect.Request[api.ListEntriesRequest]) (*connect.Response[api.ListEntriesResponse], error) {
	return c.listEntries.CallUnary(ctx, req)
}

func (c *weightServiceClient) GetProgress(ctx context.Context, req *connect.Request[api.GetProgressRequest]) (*connect.Response[api.GetProgressResponse], error) {
	return c.getProgress.CallUnary(ctx, req)
}
