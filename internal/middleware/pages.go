package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/mmynk/mealbook/internal/auth"
	"github.com/mmynk/mealbook/internal/models"
)

// basicPages are the only pages open to basic access.
var basicPages = []string{"/dashboard", "/calendar"}

// PageGate redirects page requests according to the access level in the
// session cookie. "/" and asset paths (anything containing a dot) are always
// served. Without a valid session every other page redirects to "/"; basic
// sessions may only open the dashboard and calendar and are sent to the
// dashboard otherwise.
func PageGate(jwtManager *auth.JWTManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" || strings.Contains(path, ".") {
			next.ServeHTTP(w, r)
			return
		}

		level := pageLevel(jwtManager, r)
		switch {
		case level == models.AccessNone:
			http.Redirect(w, r, "/", http.StatusFound)
		case level == models.AccessBasic && !slices.Contains(basicPages, path):
			http.Redirect(w, r, "/dashboard", http.StatusFound)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func pageLevel(jwtManager *auth.JWTManager, r *http.Request) models.AccessLevel {
	token, err := TokenFromHeader(r.Header)
	if err != nil {
		return models.AccessNone
	}
	claims, err := jwtManager.Validate(token)
	if err != nil {
		slog.Debug("Page request with invalid session", "path", r.URL.Path, "error", err)
		return models.AccessNone
	}
	return claims.Level
}

// RequireLevel guards a plain HTTP handler. Requests without a session get
// 401, sessions below level get 403.
func RequireLevel(jwtManager *auth.JWTManager, level models.AccessLevel, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		have := pageLevel(jwtManager, r)
		switch {
		case have == models.AccessNone:
			http.Error(w, "unauthenticated", http.StatusUnauthorized)
		case !have.Allows(level):
			http.Error(w, errPermission(have, level).Error(), http.StatusForbidden)
		default:
			next.ServeHTTP(w, r.WithContext(WithAccessLevel(r.Context(), have)))
		}
	})
}
