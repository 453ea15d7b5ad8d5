// Package apiconnect binds the api messages to Connect handlers and clients
// for the mealbook.v1 services.
package apiconnect

import (
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mealbook/pkg/api"
)

// PackageName prefixes every service name.
const PackageName = "mealbook.v1"

const (
	AccessServiceName    = "mealbook.v1.AccessService"
	MealServiceName      = "mealbook.v1.MealService"
	WeightServiceName    = "mealbook.v1.WeightService"
	SettingsServiceName  = "mealbook.v1.SettingsService"
	AssistantServiceName = "mealbook.v1.AssistantService"
)

// ServicePath returns the mux pattern for a service, e.g. "/mealbook.v1.MealService/".
func ServicePath(service string) string {
	return "/" + service + "/"
}

// ServiceOf returns the service name of a procedure such as
// "/mealbook.v1.MealService/GetDay".
func ServiceOf(procedure string) string {
	service, _, _ := strings.Cut(strings.TrimPrefix(procedure, "/"), "/")
	return service
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec())}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec())}, opts...)
}

// route serves the handler registered for the request path.
func route(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}
