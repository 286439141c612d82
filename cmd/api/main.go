package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"newsfeed/internal/config"
	"newsfeed/internal/infra/newsapi"
	"newsfeed/internal/observability/logging"
	"newsfeed/internal/observability/tracing"
	pkgconfig "newsfeed/internal/pkg/config"
	"newsfeed/internal/resilience/circuitbreaker"
	"newsfeed/pkg/security/csp"

	feedUC "newsfeed/internal/usecase/feed"

	hhttp "newsfeed/internal/handler/http"
	hfeed "newsfeed/internal/handler/http/feed"
	"newsfeed/internal/handler/http/middleware"
	"newsfeed/internal/handler/http/requestid"

	_ "newsfeed/docs" // swagger docs
)

// @title           NewsApp Remote API
// @version         1.0
// @description     トップニュースを取得し検索可能なカードグリッドとして返すリモートフラグメント
// @description     ホストシェルは /NewsApp を埋め込み、/NewsApp/manifest.json でモジュール情報を取得します。

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:3006
// @BasePath  /

const (
	// maxRequestBody bounds request bodies; only the search form posts one.
	maxRequestBody = 64 << 10
	shutdownGrace  = 10 * time.Second
)

func main() {
	// .env は任意。存在しない場合は環境変数のみを使う
	envErr := godotenv.Load()

	logger := initLogger()
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn("failed to load .env file", slog.Any("error", envErr))
	}

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	components, err := setupServer(logger)
	if err != nil {
		logger.Error("failed to start", slog.Any("error", err))
		os.Exit(1)
	}

	if err := runServer(logger, components); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}

	if err := tp.Shutdown(context.Background()); err != nil {
		logger.Error("tracer provider shutdown failed", slog.Any("error", err))
	}
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Config   *config.AppConfig
	Handler  http.Handler
	Registry *feedUC.Registry
	Ready    *hhttp.ReadyHandler
}

// setupServer loads configuration and builds the handler with all routes and middleware.
func setupServer(logger *slog.Logger) (*ServerComponents, error) {
	configMetrics := pkgconfig.NewConfigMetrics("newsfeed")
	var warnings []string

	appCfg, w, err := config.LoadAppConfig()
	warnings = append(warnings, w...)
	if err != nil {
		return nil, fmt.Errorf("load app config: %w", err)
	}

	apiCfg, w, err := newsapi.LoadConfigFromEnv()
	warnings = append(warnings, w...)
	if err != nil {
		return nil, fmt.Errorf("load headlines client config: %w", err)
	}

	corsCfg, w, err := middleware.LoadCORSConfig(logger)
	warnings = append(warnings, w...)
	if err != nil {
		return nil, fmt.Errorf("load CORS config: %w", err)
	}

	manifest, err := config.LoadRemoteManifest(appCfg.RemoteConfigPath, appCfg.RemotePublicPath)
	if err != nil {
		return nil, fmt.Errorf("load remote manifest: %w", err)
	}

	for _, warning := range warnings {
		logger.Warn("configuration fallback applied", slog.String("warning", warning))
	}
	configMetrics.RecordWarnings(warnings)
	configMetrics.RecordLoadTimestamp()

	if len(appCfg.SessionSecret) == 0 {
		logger.Warn("SESSION_SECRET is not set; sessions will not survive a restart")
	}
	store, err := hfeed.NewCookieStore(appCfg.SessionSecret, strings.HasPrefix(manifest.PublicPath, "https://"))
	if err != nil {
		return nil, err
	}

	var fetcher feedUC.HeadlinesFetcher = newsapi.NewClient(apiCfg, nil)
	var breaker hhttp.BreakerState
	if appCfg.CircuitBreakerEnabled {
		guarded := circuitbreaker.NewFetcher(fetcher, circuitbreaker.HeadlinesConfig())
		fetcher, breaker = guarded, guarded.Breaker()
	}

	registry := feedUC.NewRegistry(func() *feedUC.NewsFeed {
		return feedUC.New(fetcher, feedUC.Options{
			Country:             appCfg.Country,
			PlaceholderImageURL: appCfg.PlaceholderImageURL,
			Logger:              logger,
		})
	}, appCfg.MountTTL, logger)

	ready := &hhttp.ReadyHandler{}
	router := setupRoutes(appCfg, apiCfg, manifest, registry, breaker, store, ready, logger)
	handler := applyMiddleware(logger, router, appCfg, corsCfg)

	logger.Info("news feed configured",
		slog.String("endpoint", apiCfg.BaseURL),
		slog.String("country", appCfg.Country),
		slog.Duration("mount_ttl", appCfg.MountTTL),
		slog.String("public_path", manifest.PublicPath))

	return &ServerComponents{
		Config:   appCfg,
		Handler:  handler,
		Registry: registry,
		Ready:    ready,
	}, nil
}

// setupRoutes registers the fragment and operational routes.
func setupRoutes(
	appCfg *config.AppConfig,
	apiCfg newsapi.Config,
	manifest *config.RemoteManifest,
	registry *feedUC.Registry,
	breaker hhttp.BreakerState,
	store *sessions.CookieStore,
	ready *hhttp.ReadyHandler,
	logger *slog.Logger,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(hhttp.MetricsMiddleware)

	// ヘルスチェック
	r.Handle("/health", &hhttp.HealthHandler{
		Version:           appCfg.Version,
		HeadlinesEndpoint: apiCfg.BaseURL,
		Mounts:            registry,
		Breaker:           breaker,
		CSPEnabled:        appCfg.CSPEnabled,
		CSPReportOnly:     appCfg.CSPReportOnly,
	}).Methods(http.MethodGet)
	r.Handle("/ready", ready).Methods(http.MethodGet)
	r.Handle("/live", &hhttp.LiveHandler{}).Methods(http.MethodGet)
	r.Handle("/metrics", hhttp.MetricsHandler()).Methods(http.MethodGet)

	// Swagger UI
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	hfeed.NewHandler(registry, store, manifest, logger).Register(r)
	return r
}

// applyMiddleware wraps the handler with middleware chain.
// Middleware order: CORS → Request ID → Recovery → Logging → Tracing → CSP → Input Validation
func applyMiddleware(logger *slog.Logger, handler http.Handler, appCfg *config.AppConfig, corsCfg *middleware.CORSConfig) http.Handler {
	origins := corsCfg.Validator.AllowedOrigins()
	logger.Info("CORS enabled",
		slog.Any("allowed_origins", origins),
		slog.Any("allowed_methods", corsCfg.AllowedMethods),
		slog.Int("max_age", corsCfg.MaxAge))

	cspMiddleware := func(next http.Handler) http.Handler { return next }
	if appCfg.CSPEnabled {
		cspMW := middleware.NewCSPMiddleware(middleware.CSPMiddlewareConfig{
			Enabled:       true,
			DefaultPolicy: csp.StrictPolicy(),
			ExactPolicies: map[string]*csp.CSPBuilder{
				"/": csp.ShellPolicy(),
			},
			PathPolicies: map[string]*csp.CSPBuilder{
				"/NewsApp":               csp.FragmentPolicy(origins...),
				"/NewsApp/manifest.json": csp.StrictPolicy(),
				"/NewsApp/state":         csp.StrictPolicy(),
				"/swagger/":              csp.SwaggerUIPolicy(),
			},
			ReportOnly: appCfg.CSPReportOnly,
		})
		cspMiddleware = cspMW.Middleware()
		logger.Info("CSP enabled", slog.Bool("report_only", appCfg.CSPReportOnly))
	} else {
		logger.Warn("CSP is disabled")
	}

	// 内側から外側の順に適用する
	chain := handler
	chain = hhttp.InputValidation(maxRequestBody)(chain)
	chain = cspMiddleware(chain)
	chain = tracing.Middleware(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = requestid.Middleware(chain)
	chain = middleware.CORS(*corsCfg)(chain)
	return chain
}

// runServer serves until SIGINT or SIGTERM, then drains: readiness fails first,
// in-flight requests finish, and every mounted feed is disposed.
func runServer(logger *slog.Logger, components *ServerComponents) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              components.Config.HTTPAddr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("version", components.Config.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		components.Ready.SetDraining()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
		if err := components.Registry.Close(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("registry close: %w", err))
		}
		logger.Info("server stopped")
		return errors.Join(errs...)
	})

	return g.Wait()
}
