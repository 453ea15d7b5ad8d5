// Package api defines the request and response messages of the mealbook.v1
// RPC services. Messages travel as JSON through the Connect protocol using
// Codec; field names follow the lowerCamelCase convention of protobuf JSON.
package api
