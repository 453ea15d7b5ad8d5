package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/mealbook/internal/auth"
	"github.com/mmynk/mealbook/internal/models"
	"github.com/mmynk/mealbook/pkg/api/apiconnect"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestPageGate(t *testing.T) {
	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	basicToken, _, _ := jwtManager.Generate(models.AccessBasic)
	fullToken, _, _ := jwtManager.Generate(models.AccessFull)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	gate := PageGate(jwtManager, next)

	tests := []struct {
		name     string
		path     string
		token    string
		wantCode int
		wantLoc  string
	}{
		{"root is open", "/", "", http.StatusOK, ""},
		{"assets are open", "/app.js", "", http.StatusOK, ""},
		{"no session redirects home", "/dashboard", "", http.StatusFound, "/"},
		{"bad session redirects home", "/dashboard", "garbage", http.StatusFound, "/"},
		{"basic opens dashboard", "/dashboard", basicToken, http.StatusOK, ""},
		{"basic opens calendar", "/calendar", basicToken, http.StatusOK, ""},
		{"basic cannot open settings", "/settings", basicToken, http.StatusFound, "/dashboard"},
		{"basic cannot open progress", "/progress", basicToken, http.StatusFound, "/dashboard"},
		{"full opens settings", "/settings", fullToken, http.StatusOK, ""},
		{"full opens help", "/help", fullToken, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: AccessCookie, Value: tt.token})
			}
			rec := httptest.NewRecorder()
			gate.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if loc := rec.Header().Get("Location"); loc != tt.wantLoc {
				t.Errorf("Location = %q, want %q", loc, tt.wantLoc)
			}
		})
	}
}

func TestAccessPolicy(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		procedure string
		want      models.AccessLevel
	}{
		{apiconnect.AccessServiceLoginProcedure, models.AccessNone},
		{apiconnect.MealServiceGetDayProcedure, models.AccessBasic},
		{apiconnect.MealServiceAnalyzeImageProcedure, models.AccessBasic},
		{apiconnect.WeightServiceAddEntryProcedure, models.AccessFull},
		{apiconnect.SettingsServiceGetSettingsProcedure, models.AccessFull},
		{apiconnect.AssistantServiceStartRecipeProcedure, models.AccessFull},
	}
	for _, tt := range tests {
		if got := policy.Required(tt.procedure); got != tt.want {
			t.Errorf("Required(%s) = %q, want %q", tt.procedure, got, tt.want)
		}
	}
}

func TestTokenFromHeader(t *testing.T) {
	h := http.Header{}
	if _, err := TokenFromHeader(h); !errors.Is(err, auth.ErrMissingToken) {
		t.Errorf("Expected ErrMissingToken, got %v", err)
	}

	h.Set("Authorization", "Bearer abc")
	if tok, err := TokenFromHeader(h); err != nil || tok != "abc" {
		t.Errorf("TokenFromHeader = %q, %v", tok, err)
	}

	h.Set("Authorization", "Basic abc")
	if _, err := TokenFromHeader(h); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}

	cookieOnly := http.Header{}
	cookieOnly.Set("Cookie", AccessCookie+"=xyz")
	if tok, err := TokenFromHeader(cookieOnly); err != nil || tok != "xyz" {
		t.Errorf("TokenFromHeader(cookie) = %q, %v", tok, err)
	}
}

func TestAccessLevelAllows(t *testing.T) {
	if !models.AccessFull.Allows(models.AccessBasic) {
		t.Error("full should allow basic")
	}
	if models.AccessBasic.Allows(models.AccessFull) {
		t.Error("basic should not allow full")
	}
	if models.AccessNone.Allows(models.AccessBasic) {
		t.Error("none should not allow basic")
	}
}

func TestRequireLevel(t *testing.T) {
	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	basicToken, _, _ := jwtManager.Generate(models.AccessBasic)
	fullToken, _, _ := jwtManager.Generate(models.AccessFull)

	var seen models.AccessLevel
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetAccessLevel(r.Context())
	})
	guard := RequireLevel(jwtManager, models.AccessFull, next)

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"basic token", "Bearer " + basicToken, http.StatusForbidden},
		{"full token", "Bearer " + fullToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			guard.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}

	if seen != models.AccessFull {
		t.Errorf("handler saw level %q, want full", seen)
	}
}

func TestLevelForCode(t *testing.T) {
	tests := []struct {
		code connect.Code
		want slog.Level
	}{
		{connect.CodeInvalidArgument, slog.LevelWarn},
		{connect.CodeNotFound, slog.LevelWarn},
		{connect.CodePermissionDenied, slog.LevelWarn},
		{connect.CodeUnavailable, slog.LevelError},
		{connect.CodeInternal, slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			if got := levelForCode(tt.code); got != tt.want {
				t.Errorf("levelForCode(%v) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
