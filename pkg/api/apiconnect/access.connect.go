package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mealbook/pkg/api"
)

const (
	AccessServiceLoginProcedure = "/mealbook.v1.AccessService/Login"
)

// AccessServiceHandler is implemented by the server.
type AccessServiceHandler interface {
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
}

// NewAccessServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewAccessServiceHandler(svc AccessServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return ServicePath(AccessServiceName), route(map[string]http.Handler{
		AccessServiceLoginProcedure: connect.NewUnaryHandler(AccessServiceLoginProcedure, svc.Login, opts...),
	})
}

// AccessServiceClient is a client for the mealbook.v1.AccessService service.
type AccessServiceClient interface {
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
}

// NewAccessServiceClient constructs a client. baseURL is the server root,
// e.g. http://localhost:8080.
func NewAccessServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AccessServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &accessServiceClient{
		login: connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AccessServiceLoginProcedure, opts...),
	}
}

type accessServiceClient struct {
	login *connect.Client[api.LoginRequest, api.LoginResponse]
}

func (c *accessServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}
