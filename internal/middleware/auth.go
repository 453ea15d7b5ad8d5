package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mealbook/internal/auth"
	"github.com/mmynk/mealbook/internal/models"
	"github.com/mmynk/mealbook/pkg/api/apiconnect"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// AccessLevelKey is the context key for the caller's access level.
const AccessLevelKey contextKey = "access_level"

// AccessCookie carries the session token for browser requests.
const AccessCookie = "accessLevel"

// GetAccessLevel extracts the access level from the context.
// Returns models.AccessNone if not found.
func GetAccessLevel(ctx context.Context) models.AccessLevel {
	level, _ := ctx.Value(AccessLevelKey).(models.AccessLevel)
	return level
}

// WithAccessLevel returns a context carrying level.
func WithAccessLevel(ctx context.Context, level models.AccessLevel) context.Context {
	return context.WithValue(ctx, AccessLevelKey, level)
}

// AccessPolicy maps services to the level their procedures require.
type AccessPolicy struct {
	// Default applies to services not listed in Services.
	Default  models.AccessLevel
	Services map[string]models.AccessLevel
}

// DefaultPolicy opens Login to everyone, meals to basic and everything else
// to full access.
func DefaultPolicy() AccessPolicy {
	return AccessPolicy{
		Default: models.AccessFull,
		Services: map[string]models.AccessLevel{
			apiconnect.AccessServiceName: models.AccessNone,
			apiconnect.MealServiceName:   models.AccessBasic,
		},
	}
}

// Required returns the level needed to call procedure.
func (p AccessPolicy) Required(procedure string) models.AccessLevel {
	if level, ok := p.Services[apiconnect.ServiceOf(procedure)]; ok {
		return level
	}
	return p.Default
}

// TokenFromHeader returns the session token from a Bearer Authorization
// header or, failing that, from the access cookie.
func TokenFromHeader(h http.Header) (string, error) {
	if authHeader := h.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", auth.ErrInvalidToken
		}
		return parts[1], nil
	}

	req := http.Request{Header: h}
	if c, err := req.Cookie(AccessCookie); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", auth.ErrMissingToken
}

// RequireAccess returns an interceptor that validates the session token and
// checks its level against policy. Procedures that require no access run
// without a token; a valid token is still recorded in the context.
func RequireAccess(jwtManager *auth.JWTManager, policy AccessPolicy) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			required := policy.Required(req.Spec().Procedure)

			token, err := TokenFromHeader(req.Header())
			if err != nil {
				if required == models.AccessNone {
					return next(ctx, req)
				}
				slog.Warn("RPC denied", "procedure", req.Spec().Procedure, "error", err)
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			claims, err := jwtManager.Validate(token)
			if err != nil {
				if required == models.AccessNone {
					return next(ctx, req)
				}
				slog.Warn("RPC denied", "procedure", req.Spec().Procedure, "error", err)
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			if !claims.Level.Allows(required) {
				slog.Warn("RPC denied", "procedure", req.Spec().Procedure, "access", claims.Level)
				return nil, connect.NewError(connect.CodePermissionDenied,
					errPermission(claims.Level, required))
			}

			return next(WithAccessLevel(ctx, claims.Level), req)
		}
	}
}

func errPermission(have, want models.AccessLevel) error {
	return fmt.Errorf("access level %q cannot call a %q procedure", have, want)
}
