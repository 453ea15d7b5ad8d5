package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mealbook/pkg/api"
)

const (
	AssistantServiceStartRecipeProcedure = "/mealbook.v1.AssistantService/StartRecipe"
	AssistantServiceSendMessageProcedure = "/mealbook.v1.AssistantService/SendMessage"
)

// AssistantServiceHandler is implemented by the server.
type AssistantServiceHandler interface {
	StartRecipe(context.Context, *connect.Request[api.StartRecipeRequest]) (*connect.Response[api.StartRecipeResponse], error)
	SendMessage(context.Context, *connect.Request[api.SendMessageRequest]) (*connect.Response[api.SendMessageResponse], error)
}

// NewAssistantServiceHandler builds an HTTP handler from the service implementation.
func NewAssistantServiceHandler(svc AssistantServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return ServicePath(AssistantServiceName), route(map[string]http.Handler{
		AssistantServiceStartRecipeProcedure: connect.NewUnaryHandler(AssistantServiceStartRecipeProcedure, svc.StartRecipe, opts...),
		AssistantServiceSendMessageProcedure: connect.NewUnaryHandler(AssistantServiceSendMessageProcedure, svc.SendMessage, opts...),
	})
}

// AssistantServiceClient is a client for the mealbook.v1.AssistantService service.
type AssistantServiceClient interface {
	StartRecipe(context.Context, *connect.Request[api.StartRecipeRequest]) (*connect.Response[api.StartRecipeResponse], error)
	SendMessage(context.Context, *connect.Request[api.SendMessageRequest]) (*connect.Response[api.SendMessageResponse], error)
}

// NewAssistantServiceClient constructs a client for the server at baseURL.
func NewAssistantServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AssistantServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &assistantServiceClient{
		startRecipe: connect.NewClient[api.StartRecipeRequest, api.StartRecipeResponse](httpClient, baseURL+AssistantServiceStartRecipeProcedure, opts...),
		sendMessage: connect.NewClient[api.SendMessageRequest, api.SendMessageResponse](httpClient, baseURL+AssistantServiceSendMessageProcedure, opts...),
	}
}

type assistantServiceClient struct {
	startRecipe *connect.Client[api.StartRecipeRequest, api.StartRecipeResponse]
	sendMessage *connect.Client[api.SendMessageRequest, api.SendMessageResponse]
}

func (c *assistantServiceClient) StartRecipe(ctx context.Context, req *connect.Request[api.StartRecipeRequest]) (*connect.Response[api.StartRecipeResponse], error) {
	return c.startRecipe.CallUnary(ctx, req)
}

func (c *assistantServiceClient) SendMessage(ctx context.Context, req *connect.Request[api.SendMessageRequest]) (*connect.Response[api.SendMessageResponse], error) {
	return c.sendMessage.CallUnary(ctx, req)
}
