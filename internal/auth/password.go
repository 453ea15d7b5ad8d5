package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/mealbook/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid password")
	ErrMissingPassword    = errors.New("password must not be empty")
)

// Ensure PasswordGate implements Authenticator
var _ Authenticator = (*PasswordGate)(nil)

// PasswordGate grants an access level from one of two shared passwords.
// It is a convenience gate, not a security boundary.
type PasswordGate struct {
	userHash  []byte
	adminHash []byte
}

// NewPasswordGate creates a gate for the user (basic) and admin (full)
// passwords. Each may be given as plaintext or as a bcrypt hash.
func NewPasswordGate(userPassword, adminPassword string) (*PasswordGate, error) {
	userHash, err := hashOf(userPassword)
	if err != nil {
		return nil, fmt.Errorf("user password: %w", err)
	}
	adminHash, err := hashOf(adminPassword)
	if err != nil {
		return nil, fmt.Errorf("admin password: %w", err)
	}
	return &PasswordGate{userHash: userHash, adminHash: adminHash}, nil
}

// Level returns the level granted by secret, or models.AccessNone.
func (g *PasswordGate) Level(secret string) models.AccessLevel {
	if secret == "" {
		return models.AccessNone
	}
	if bcrypt.CompareHashAndPassword(g.adminHash, []byte(secret)) == nil {
		return models.AccessFull
	}
	if bcrypt.CompareHashAndPassword(g.userHash, []byte(secret)) == nil {
		return models.AccessBasic
	}
	return models.AccessNone
}

// Authenticate implements Authenticator.
func (g *PasswordGate) Authenticate(_ context.Context, credential string) (models.AccessLevel, error) {
	level := g.Level(credential)
	if level == models.AccessNone {
		return models.AccessNone, ErrInvalidCredentials
	}
	return level, nil
}

// hashOf returns value unchanged when it already is a bcrypt hash and
// hashes it otherwise.
func hashOf(value string) ([]byte, error) {
	if value == "" {
		return nil, ErrMissingPassword
	}
	if isBcryptHash(value) {
		if _, err := bcrypt.Cost([]byte(value)); err != nil {
			return nil, fmt.Errorf("invalid bcrypt hash: %w", err)
		}
		return []byte(value), nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(value), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func isBcryptHash(s string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
