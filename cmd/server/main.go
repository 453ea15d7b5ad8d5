package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/mealbook/internal/ai"
	"github.com/mmynk/mealbook/internal/assistant"
	"github.com/mmynk/mealbook/internal/auth"
	"github.com/mmynk/mealbook/internal/config"
	"github.com/mmynk/mealbook/internal/extractor"
	"github.com/mmynk/mealbook/internal/imaging"
	"github.com/mmynk/mealbook/internal/mcptools"
	"github.com/mmynk/mealbook/internal/middleware"
	"github.com/mmynk/mealbook/internal/models"
	"github.com/mmynk/mealbook/internal/service"
	"github.com/mmynk/mealbook/internal/storage/sqlite"
	"github.com/mmynk/mealbook/pkg/api/apiconnect"
	"github.com/mmynk/mealbook/pkg/logging"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mealbook",
	Short: "Meal logging and nutrition tracking server",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Connect API and frontend server",
	Long: `Start the mealbook server.

Configuration is read from .env, the optional YAML file given with --config
and MEALBOOK_* environment variables, in increasing order of precedence.

Examples:
  mealbook serve
  mealbook serve --config mealbook.yaml
  MEALBOOK_SERVER_PORT=9000 mealbook serve`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		logging.Setup(cfg.Log.Level)
		return run(cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
}

func run(cfg *config.Config) error {
	store, err := sqlite.New(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Storage.DBPath)

	completer, err := newCompleter(cfg.AI)
	if err != nil {
		return err
	}

	gate, err := auth.NewPasswordGate(cfg.Access.UserPassword, cfg.Access.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to initialize access gate: %w", err)
	}
	jwtManager := auth.NewJWTManager(cfg.Access.TokenSecret, cfg.Access.TokenTTL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	interceptors := connect.WithInterceptors(
		metrics.Interceptor(),
		middleware.RequireAccess(jwtManager, middleware.DefaultPolicy()),
		middleware.LoggingInterceptor(),
	)

	loc := cfg.App.Location()
	meals := service.NewMealService(
		store,
		extractor.New(completer, cfg.AI.Model),
		imaging.NewNormalizer(cfg.AI.MaxImageBytes),
		loc,
		service.WithUnclassifiedCounter(metrics.Unclassified),
	)

	mux := http.NewServeMux()

	// Register Connect services
	mux.Handle(apiconnect.NewAccessServiceHandler(service.NewAccessService(gate, jwtManager), interceptors))
	mux.Handle(apiconnect.NewMealServiceHandler(meals, interceptors))
	mux.Handle(apiconnect.NewWeightServiceHandler(service.NewWeightService(store, loc), interceptors))
	mux.Handle(apiconnect.NewSettingsServiceHandler(service.NewSettingsService(store), interceptors))
	mux.Handle(apiconnect.NewAssistantServiceHandler(
		service.NewAssistantService(assistant.New(completer, cfg.AI.Model), store),
		interceptors,
	))

	mux.Handle("/mcp", middleware.RequireLevel(jwtManager, models.AccessFull, mcptools.NewServer(meals, loc)))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	staticDir, err := filepath.Abs(cfg.Server.StaticPath)
	if err != nil {
		return fmt.Errorf("failed to resolve static path: %w", err)
	}
	slog.Info("Serving static files", "path", staticDir)
	mux.Handle("/", middleware.PageGate(jwtManager, staticHandler(staticDir)))

	// Add logging and CORS middleware
	loggedHandler := loggingMiddleware(corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(loggedHandler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("Connect server starting",
		"address", addr,
		"url", fmt.Sprintf("http://localhost%s", addr),
		"ai_enabled", cfg.AI.Enabled(),
		"time_zone", loc.String(),
	)
	server := &http.Server{
		Addr:              addr,
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// newCompleter returns the OpenAI client, or a completer that always fails
// when no API key is configured so that manual meal entry keeps working.
func newCompleter(cfg config.AIConfig) (ai.Completer, error) {
	if !cfg.Enabled() {
		slog.Warn("AI API key not set, image analysis and recipes are disabled")
		return ai.Disabled{}, nil
	}
	client, err := ai.New(ai.Config{
		BaseURL:       cfg.BaseURL,
		APIKey:        cfg.APIKey,
		Model:         cfg.Model,
		Timeout:       cfg.Timeout,
		RatePerSecond: cfg.RatePerSecond,
		Burst:         cfg.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI client: %w", err)
	}
	slog.Info("AI client initialized", "model", cfg.Model, "base_url", cfg.BaseURL)
	return client, nil
}

// staticHandler serves the frontend. Unknown paths get index.html so the
// client-side router can render them.
func staticHandler(staticDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/"+apiconnect.PackageName+".") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			if html := filePath + ".html"; fileExists(html) {
				http.ServeFile(w, r, html)
				return
			}
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	})
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
