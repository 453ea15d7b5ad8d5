package service

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/mealbook/internal/auth"
	"github.com/mmynk/mealbook/internal/middleware"
	"github.com/mmynk/mealbook/pkg/api"
)

// AccessService implements the AccessService RPC interface.
type AccessService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAccessService creates the password login service.
func NewAccessService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AccessService {
	return &AccessService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// Login exchanges a shared password for a session token. The token is also
// set as the access cookie so page requests can be gated.
func (s *AccessService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	slog.Info("Login request received")

	if req.Msg.Password == "" {
		return nil, invalidArgument("password is required")
	}

	level, err := s.authenticator.Authenticate(ctx, req.Msg.Password)
	if err != nil {
		slog.Warn("Login failed", "error", err)
		return nil, toConnectError(err)
	}

	token, expires, err := s.jwtManager.Generate(level)
	if err != nil {
		slog.Error("Failed to generate token", "level", level, "error", err)
		return nil, toConnectError(err)
	}

	res := connect.NewResponse(&api.LoginResponse{
		Token:     token,
		Level:     string(level),
		ExpiresAt: expires.UnixMilli(),
	})
	cookie := &http.Cookie{
		Name:     middleware.AccessCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	res.Header().Add("Set-Cookie", cookie.String())

	slog.Info("Login succeeded", "level", level)
	return res, nil
}
