package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/awarehq/aware-api/internal/config"
	"github.com/awarehq/aware-api/internal/database"
	"github.com/awarehq/aware-api/internal/handlers"
	"github.com/awarehq/aware-api/internal/logger"
	"github.com/awarehq/aware-api/internal/middleware"
	"github.com/awarehq/aware-api/internal/queue"
	"github.com/awarehq/aware-api/internal/services/auth"
	"github.com/awarehq/aware-api/internal/services/goals"
	"github.com/awarehq/aware-api/internal/services/platforms"
	"github.com/awarehq/aware-api/internal/services/session"
	"github.com/awarehq/aware-api/internal/telemetry"
)

// Overridden at build time with -ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	var tracerProvider interface{ Shutdown(context.Context) error }
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "aware-api", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	redisLimiter, err := middleware.NewRedisRateLimiter(cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
	}
	defer func() {
		if err := redisLimiter.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_redis")

	jobQueue := connectQueue(cfg.RabbitMQURL, zapLogger)
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
		}
	}()

	repos := database.NewRepositories(db)

	sessions, err := session.NewManager(cfg.SessionSecret, cfg.SessionIssuer, session.DefaultTTL)
	if err != nil {
		zapLogger.Fatal("failed_to_create_session_manager", zap.Error(err))
	}

	authService := auth.NewService(repos.Users, zapLogger)
	goalService := goals.NewService(repos.Goals, zapLogger)
	registry := platforms.NewRegistry([]platforms.ProviderConfig{
		{
			Name:         "screentime",
			ClientID:     cfg.ScreenTimeClientID,
			ClientSecret: cfg.ScreenTimeClientSecret,
			AuthURL:      "https://auth.screentime.example.com/oauth/authorize",
			TokenURL:     "https://auth.screentime.example.com/oauth/token",
			Scopes:       []string{"usage.read"},
		},
		{
			Name:         "digitalsync",
			ClientID:     cfg.DigitalSyncClientID,
			ClientSecret: cfg.DigitalSyncClientSecret,
			AuthURL:      "https://digitalsync.example.com/oauth/authorize",
			TokenURL:     "https://digitalsync.example.com/oauth/token",
			Scopes:       []string{"devices.read", "usage.read"},
		},
	}, cfg.BaseURL, zapLogger)

	secureCookies := cfg.EnableHSTS

	authHandler := handlers.NewAuthHandler(authService, sessions, secureCookies, zapLogger)
	goalHandler := handlers.NewGoalHandler(goalService, zapLogger)
	usageHandler := handlers.NewUsageHandler(repos.Usage, jobQueue, zapLogger)
	privacyHandler := handlers.NewPrivacyHandler(repos.Privacy, zapLogger)
	adsHandler := handlers.NewAdsHandler(repos.AdPredictions, zapLogger)
	recommendationHandler := handlers.NewRecommendationHandler(repos.Recommendations, zapLogger)
	dashboardHandler := handlers.NewDashboardHandler(repos.Usage, repos.Privacy, goalService, zapLogger)
	integrationsHandler := handlers.NewIntegrationsHandler(registry, cfg.FrontendURL, secureCookies, zapLogger)
	healthChecker := handlers.NewHealthChecker(db, redisLimiter, jobQueue)

	r := mux.NewRouter()

	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware("aware-api"))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(cfg.FrontendURL))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Audit(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	authRate, err := redisLimiter.RateLimit(middleware.DefaultAuthRate)
	if err != nil {
		zapLogger.Fatal("failed_to_create_auth_rate_limiter", zap.Error(err))
	}
	apiRate, err := redisLimiter.RateLimit(middleware.DefaultAPIRate)
	if err != nil {
		zapLogger.Fatal("failed_to_create_api_rate_limiter", zap.Error(err))
	}

	// Public routes
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", handlers.VersionEndpoint(version, commit)).Methods("GET")

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	authMW := middleware.Auth(sessions, repos.Users, zapLogger)

	// Credential endpoints get the tight limit; brute force is the threat.
	publicAuthRouter := apiRouter.PathPrefix("/auth").Subrouter()
	publicAuthRouter.Use(authRate)
	authHandler.RegisterPublicRoutes(publicAuthRouter)

	protectedAuthRouter := apiRouter.PathPrefix("/auth").Subrouter()
	protectedAuthRouter.Use(authMW, apiRate)
	authHandler.RegisterProtectedRoutes(protectedAuthRouter)

	protected := func(prefix string) *mux.Router {
		sub := apiRouter.PathPrefix(prefix).Subrouter()
		sub.Use(authMW, apiRate)
		return sub
	}

	dashboardHandler.RegisterRoutes(protected("/dashboard"))
	usageHandler.RegisterRoutes(protected("/usage"))
	adsHandler.RegisterRoutes(protected("/ads"))
	privacyHandler.RegisterRoutes(protected("/privacy"))
	goalHandler.RegisterRoutes(protected("/goals"))
	recommendationHandler.RegisterRoutes(protected("/recommendations"))
	integrationsHandler.RegisterRoutes(protected("/integrations"))

	// Preflight requests: CORS middleware sets the headers, this just ends
	// the request.
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	gcCtx, gcCancel := context.WithCancel(context.Background())
	defer gcCancel()

	// DLQ garbage collection: hourly sweep, 24h retention.
	if dlqPurger, ok := jobQueue.(queue.DLQPurger); ok {
		dlqGC := queue.NewGarbageCollector(dlqPurger, 1*time.Hour, 24*time.Hour, zapLogger)
		go func() {
			if err := dlqGC.Start(gcCtx); err != nil && err != context.Canceled {
				zapLogger.Error("dlq_garbage_collector_stopped_with_error", zap.Error(err))
			}
		}()
		zapLogger.Info("started_dlq_garbage_collector")
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	gcCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// connectQueue dials RabbitMQ with exponential backoff; broker startup
// often lags the API in compose environments.
func connectQueue(amqpURL string, zapLogger *zap.Logger) queue.JobQueue {
	const maxRetries = 10
	const initialDelay = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		jobQueue, err := queue.NewRabbitMQQueue(amqpURL)
		if err == nil {
			zapLogger.Info("connected_to_rabbitmq")
			return jobQueue
		}

		lastErr = err
		delay := initialDelay * time.Duration(1<<uint(attempt))
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}
		zapLogger.Warn("failed_to_connect_to_rabbitmq_retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
			zap.Duration("retry_delay", delay),
		)
		time.Sleep(delay)
	}

	zapLogger.Fatal("failed_to_connect_to_rabbitmq_after_retries",
		zap.Int("max_retries", maxRetries),
		zap.Error(lastErr),
	)
	return nil
}
