package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/johnquangdev/meeting-actions/docs"
	"github.com/johnquangdev/meeting-actions/internal/adapter/handler"
	"github.com/johnquangdev/meeting-actions/internal/adapter/repository"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/linear"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/msgraph"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/oauth"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/paystack"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/slack"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/stripe"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/zoom"
	httpmw "github.com/johnquangdev/meeting-actions/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/ratelimit"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-actions/internal/usecase/auth"
	"github.com/johnquangdev/meeting-actions/internal/usecase/billing"
	"github.com/johnquangdev/meeting-actions/internal/usecase/integration"
	"github.com/johnquangdev/meeting-actions/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-actions/internal/usecase/pipeline"
	"github.com/johnquangdev/meeting-actions/internal/usecase/workspace"
	pkgai "github.com/johnquangdev/meeting-actions/pkg/ai"
	"github.com/johnquangdev/meeting-actions/pkg/config"
	"github.com/johnquangdev/meeting-actions/pkg/httpclient"
	"github.com/johnquangdev/meeting-actions/pkg/jwt"
	pkgvalidator "github.com/johnquangdev/meeting-actions/pkg/validator"
)

// @title           MeetingActions API
// @version         1.0
// @description     Turns Zoom and Teams meeting transcripts into summaries and tracked action items, with Slack and Linear forwarding.

// @contact.name   API Support
// @contact.email  support@meetingactions.app

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const sessionPurgeInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("🔧 Initializing dependencies...", zap.String("environment", cfg.Server.Environment))

	// Database
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		logger.Fatal("❌ Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			logger.Fatal("❌ Failed to apply migrations", zap.Error(err))
		}
	} else {
		logger.Info("🔄 Skipping migrations; run cmd/migrate to manage the schema")
	}

	// Redis is optional; without it state and rate limits live in process
	var redisClient *redis.Client
	var store oauth.Store
	if cfg.Redis.Enabled {
		addr := cfg.GetRedisAddr()
		redisClient, err = cache.NewRedisClient(ctx, addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("❌ Failed to connect to Redis", zap.String("addr", addr), zap.Error(err))
		}
		defer redisClient.Close()
		store = cache.NewRedisStore(redisClient)
		logger.Info("✅ Redis connected", zap.String("addr", addr))
	} else {
		mem := cache.NewMemoryStore()
		defer mem.Close()
		store = mem
		logger.Warn("⚠️ Redis disabled, using the in-memory store (single instance only)")
	}

	limiter := newLimiter(cfg.RateLimit, redisClient)
	if c, ok := limiter.(io.Closer); ok {
		defer c.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	actionRepo := repository.NewActionRepository(db)
	integrationRepo := repository.NewIntegrationRepository(db)
	usageRepo := repository.NewUsageRepository(db)

	// Outbound clients
	httpClient := httpclient.New(logger, httpclient.DefaultOptions())
	stateManager := oauth.NewStateManager(store)
	graphClient := msgraph.NewClient(httpClient)
	m := metrics.New()

	// Auth
	jwtManager := jwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)
	var google auth.IdentityProvider
	if cfg.OAuth.Google.Configured() {
		google = oauth.NewGoogleProvider(cfg.OAuth.Google, httpClient)
	} else {
		logger.Warn("⚠️ Google sign-in is not configured")
	}
	oauthService := auth.NewOAuthService(userRepo, sessionRepo, workspaceRepo, google, stateManager, jwtManager, logger.Named("auth"))

	// Services
	providers := oauth.NewProviders(cfg.OAuth, httpClient)
	integrationService := integration.NewService(
		providers,
		stateManager,
		integrationRepo,
		workspaceRepo,
		integration.Clients{
			Slack:  slack.NewClient(httpClient),
			Linear: linear.NewClient(httpClient),
			Zoom:   zoom.NewClient(httpClient),
			Graph:  graphClient,
		},
		cfg.Server.AppURL,
		logger.Named("integration"),
	)
	logger.Info("🔌 Integrations configured", zap.Int("providers", len(providers)))

	deps := pipeline.Deps{
		Meetings:     meetingRepo,
		Actions:      actionRepo,
		Integrations: integrationService,
		LLM:          pkgai.NewLLMClient(cfg.OpenAI, logger.Named("llm")),
		Metrics:      m,
		AppURL:       cfg.Server.AppURL,
	}
	if transcriber := pkgai.NewTranscriber(cfg.AssemblyAI, logger.Named("transcriber")); transcriber.Configured() {
		deps.Transcriber = transcriber
	}
	var archive *storage.MinIOClient
	if cfg.Storage.Enabled {
		archive, err = storage.NewMinIOClient(ctx, cfg.Storage)
		if err != nil {
			logger.Fatal("❌ Failed to initialize transcript storage", zap.Error(err))
		}
		deps.Archive = archive
		logger.Info("📦 Transcript archive enabled", zap.String("bucket", cfg.Storage.BucketName))
	}
	worker := pipeline.New(cfg.Pipeline, deps, logger.Named("pipeline"))

	workspaceService := workspace.NewService(workspaceRepo, meetingRepo, usageRepo, integrationRepo, logger.Named("workspace"))
	meetingService := meeting.NewService(workspaceRepo, meetingRepo, actionRepo, worker, integrationService, logger.Named("meeting"))
	if archive != nil {
		meetingService.WithTranscriptLinks(archive)
	}
	billingService := billing.NewService(
		workspaceRepo,
		userRepo,
		stripe.NewClient(cfg.Stripe, nil, ""),
		paystack.NewClient(cfg.Paystack, httpClient),
		cfg.Server.AppURL,
		logger.Named("billing"),
	)

	// HTTP
	e := echo.New()
	e.HideBanner = true
	e.Validator = pkgvalidator.New()
	e.HTTPErrorHandler = handler.ErrorHandler(logger)

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human} | ${id}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	router := handler.NewRouter(
		cfg,
		handler.Handlers{
			Auth:        handler.NewAuth(oauthService, logger),
			Workspace:   handler.NewWorkspaceHandler(workspaceService, logger),
			Meeting:     handler.NewMeetingHandler(meetingService, logger),
			Integration: handler.NewIntegrationHandler(integrationService, logger),
			Billing:     handler.NewBillingHandler(billingService, m, logger),
			Zoom:        handler.NewZoomWebhook(cfg.Webhooks.ZoomSecretToken, meetingService, integrationService, m, logger),
			Teams: handler.NewTeamsWebhook(
				cfg.Webhooks.TeamsClientState,
				meetingService,
				integrationService,
				workspaceService,
				graphClient,
				m,
				logger,
			),
		},
		handler.Middlewares{
			Auth:      httpmw.EchoAuth(oauthService),
			RateLimit: httpmw.RateLimit(limiter, logger),
			Members:   workspaceRepo,
		},
		m.Handler(),
		database.Pinger(db),
		logger,
	)
	router.Setup(e)

	// Workers outlive the signal context so Stop can drain in-flight meetings
	if err := worker.Start(context.Background()); err != nil {
		logger.Fatal("❌ Failed to start pipeline", zap.Error(err))
	}
	go purgeSessions(ctx, oauthService, logger)

	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("🚀 Starting server", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("❌ Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
	}
	if err := worker.Stop(); err != nil {
		logger.Error("❌ Pipeline did not stop cleanly", zap.Error(err))
	}

	logger.Info("✅ Server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// newLimiter picks the rate limit backend. Validate guarantees a Redis client
// for the redis backend.
func newLimiter(cfg config.RateLimitConfig, client *redis.Client) ratelimit.Limiter {
	rl := ratelimit.Config{MaxRequests: cfg.MaxRequests, Window: cfg.Window}
	if cfg.Backend == "redis" {
		return ratelimit.NewRedisLimiter(client, rl)
	}
	return ratelimit.NewMemoryLimiter(rl)
}

type sessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

func purgeSessions(ctx context.Context, svc sessionPurger, logger *zap.Logger) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.PurgeExpiredSessions(ctx); err != nil {
				logger.Warn("⚠️ Failed to purge expired sessions", zap.Error(err))
			}
		}
	}
}
