// Package main implements mealctl, a command-line client for the mealbook
// Connect API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/mealbook/pkg/api/apiconnect"
	"github.com/mmynk/mealbook/pkg/logging"
)

var (
	// serverURL is the base URL of the mealbook server
	serverURL string
	// tokenFlag overrides the saved session token
	tokenFlag string
	verbose   bool
)

const tokenEnv = "MEALBOOK_TOKEN"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mealctl",
	Short: "Command-line client for the mealbook server",
	Long: `mealctl logs meals, tracks weight, edits settings and chats with the
recipe assistant through the mealbook API.

Run "mealctl login" first; the session token is saved in your config
directory. MEALBOOK_TOKEN or --token override it.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logging.Setup(level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "mealbook server URL")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "session token (default: saved login)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(loginCmd, mealCmd, weightCmd, settingsCmd, recipeCmd)
}

// clients bundles the service clients of one server.
type clients struct {
	access    apiconnect.AccessServiceClient
	meals     apiconnect.MealServiceClient
	weights   apiconnect.WeightServiceClient
	settings  apiconnect.SettingsServiceClient
	assistant apiconnect.AssistantServiceClient
}

func newClients(baseURL, token string) *clients {
	httpClient := &http.Client{Timeout: 2 * time.Minute}
	opts := []connect.ClientOption{}
	if token != "" {
		opts = append(opts, connect.WithInterceptors(bearerToken(token)))
	}
	return &clients{
		access:    apiconnect.NewAccessServiceClient(httpClient, baseURL, opts...),
		meals:     apiconnect.NewMealServiceClient(httpClient, baseURL, opts...),
		weights:   apiconnect.NewWeightServiceClient(httpClient, baseURL, opts...),
		settings:  apiconnect.NewSettingsServiceClient(httpClient, baseURL, opts...),
		assistant: apiconnect.NewAssistantServiceClient(httpClient, baseURL, opts...),
	}
}

// bearerToken sets the Authorization header on every outgoing request.
func bearerToken(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient {
				req.Header().Set("Authorization", "Bearer "+token)
			}
			return next(ctx, req)
		}
	}
}

// connectClients builds clients authenticated with the current session.
func connectClients() (*clients, error) {
	token, err := sessionToken()
	if err != nil {
		return nil, err
	}
	return newClients(serverURL, token), nil
}

func sessionToken() (string, error) {
	if tokenFlag != "" {
		return tokenFlag, nil
	}
	if t := os.Getenv(tokenEnv); t != "" {
		return t, nil
	}
	path, err := tokenPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", errors.New(`not logged in, run "mealctl login"`)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func tokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "mealbook", "token"), nil
}

func saveToken(token string) (string, error) {
	path, err := tokenPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("failed to save token: %w", err)
	}
	return path, nil
}
