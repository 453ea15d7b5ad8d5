package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/mealbook/internal/models"
)

func TestPasswordGate(t *testing.T) {
	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin-secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash: %v", err)
	}

	gate, err := NewPasswordGate("user-secret", string(adminHash))
	if err != nil {
		t.Fatalf("NewPasswordGate failed: %v", err)
	}

	tests := []struct {
		secret string
		want   models.AccessLevel
	}{
		{"user-secret", models.AccessBasic},
		{"admin-secret", models.AccessFull},
		{"wrong", models.AccessNone},
		{"", models.AccessNone},
		{string(adminHash), models.AccessNone},
	}

	for _, tt := range tests {
		t.Run(tt.secret, func(t *testing.T) {
			if got := gate.Level(tt.secret); got != tt.want {
				t.Errorf("Level(%q) = %q, want %q", tt.secret, got, tt.want)
			}
		})
	}

	if _, err := gate.Authenticate(context.Background(), "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
	level, err := gate.Authenticate(context.Background(), "admin-secret")
	if err != nil || level != models.AccessFull {
		t.Errorf("Authenticate(admin) = %q, %v", level, err)
	}
}

func TestNewPasswordGate_Errors(t *testing.T) {
	if _, err := NewPasswordGate("", "admin"); !errors.Is(err, ErrMissingPassword) {
		t.Errorf("Expected ErrMissingPassword, got %v", err)
	}
	if _, err := NewPasswordGate("user", "$2a$10$short"); err == nil {
		t.Error("Expected error for malformed bcrypt hash")
	}
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)

	t.Run("round trip keeps level", func(t *testing.T) {
		token, expires, err := m.Generate(models.AccessBasic)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if time.Until(expires) <= 0 {
			t.Errorf("Expiry %v is not in the future", expires)
		}

		claims, err := m.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.Level != models.AccessBasic {
			t.Errorf("Level = %q, want basic", claims.Level)
		}
	})

	t.Run("no token for AccessNone", func(t *testing.T) {
		if _, _, err := m.Generate(models.AccessNone); err == nil {
			t.Error("Expected error")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _, _ := m.Generate(models.AccessFull)
		other := NewJWTManager("another-secret-another-secret!!", time.Hour)
		if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		token, _, _ := m.Generate(models.AccessFull)
		later := NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		if _, err := later.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})
}
