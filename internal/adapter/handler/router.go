package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-actions/pkg/config"
)

// Handlers groups every HTTP handler the router mounts. Nil handlers get
// 501 placeholder routes.
type Handlers struct {
	Auth        *Auth
	Workspace   *Workspace
	Meeting     *Meeting
	Integration *Integration
	Billing     *Billing
	Zoom        *ZoomWebhook
	Teams       *TeamsWebhook
}

// Middlewares are the shared route guards
type Middlewares struct {
	Auth      echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
	Members   middleware.MembershipFinder
}

// Router holds all handlers
type Router struct {
	cfg      *config.Config
	handlers Handlers
	mw       Middlewares
	metrics  http.Handler
	ping     func(ctx context.Context) error
	logger   *zap.Logger
}

// NewRouter creates a new router with all handlers. metrics and ping may be nil.
func NewRouter(cfg *config.Config, handlers Handlers, mw Middlewares, metrics http.Handler, ping func(ctx context.Context) error, logger *zap.Logger) *Router {
	if mw.RateLimit == nil {
		mw.RateLimit = passthrough
	}
	return &Router{
		cfg:      cfg,
		handlers: handlers,
		mw:       mw,
		metrics:  metrics,
		ping:     ping,
		logger:   logger,
	}
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	if rt.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(rt.metrics))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	rt.setupAuthRoutes(v1)
	rt.setupWebhookRoutes(v1)
	rt.setupPublicCallbackRoutes(v1)
	rt.setupWorkspaceRoutes(v1)
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth", rt.mw.RateLimit)
	h := rt.handlers.Auth

	if h == nil {
		authGroup.Any("/*", rt.notImplemented)
		return
	}
	authGroup.GET("/google/login", h.GoogleLogin)
	authGroup.GET("/google/callback", h.GoogleCallback)
	authGroup.POST("/refresh", h.RefreshToken)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/me", h.Me, rt.mw.Auth)
}

// setupWebhookRoutes configures inbound provider webhooks. They are signed by
// the provider and are not rate limited.
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	hooks := g.Group("/webhooks")

	if h := rt.handlers.Zoom; h != nil {
		hooks.GET("/zoom", h.Status)
		hooks.POST("/zoom", h.Handle)
	}
	if h := rt.handlers.Teams; h != nil {
		hooks.GET("/teams", h.Validate)
		hooks.POST("/teams", h.Handle)
	}
	if h := rt.handlers.Billing; h != nil {
		hooks.POST("/stripe", h.StripeWebhook)
		hooks.POST("/paystack", h.PaystackWebhook)
	}
}

// setupPublicCallbackRoutes configures browser redirects coming back from providers
func (rt *Router) setupPublicCallbackRoutes(g *echo.Group) {
	if h := rt.handlers.Integration; h != nil {
		g.GET("/integrations/:type/callback", h.Callback, rt.mw.RateLimit)
	}
	if h := rt.handlers.Billing; h != nil {
		g.GET("/billing/paystack/callback", h.PaystackCallback, rt.mw.RateLimit)
	}
}

// setupWorkspaceRoutes configures everything scoped to a workspace
func (rt *Router) setupWorkspaceRoutes(g *echo.Group) {
	if rt.mw.Auth == nil {
		g.Any("/workspaces*", rt.notImplemented)
		return
	}
	workspaces := g.Group("/workspaces", rt.mw.Auth, rt.mw.RateLimit)

	if h := rt.handlers.Workspace; h != nil {
		workspaces.GET("", h.ListWorkspaces)
		workspaces.POST("", h.CreateWorkspace)
	}

	member := middleware.RequireWorkspaceRole(rt.mw.Members)
	manager := middleware.RequireWorkspaceRole(rt.mw.Members, entities.RoleOwner, entities.RoleAdmin)
	ws := workspaces.Group("/:workspace_id", member)

	if h := rt.handlers.Workspace; h != nil {
		ws.GET("", h.GetWorkspace)
		ws.GET("/usage", h.GetUsage)
	}

	if h := rt.handlers.Meeting; h != nil {
		ws.POST("/meetings", h.CreateMeeting)
		ws.GET("/meetings", h.ListMeetings)
		ws.GET("/meetings/:meeting_id", h.GetMeeting)
		ws.GET("/meetings/:meeting_id/transcript", h.GetTranscript)
		ws.POST("/meetings/:meeting_id/reprocess", h.ReprocessMeeting)
		ws.GET("/actions", h.ListActions)
		ws.PATCH("/actions/:action_id", h.UpdateAction)
		ws.POST("/actions/:action_id/linear", h.ExportAction)
		ws.GET("/analytics", h.GetAnalytics)
	}

	if h := rt.handlers.Integration; h != nil {
		integrations := workspaces.Group("/:workspace_id/integrations")
		integrations.GET("", h.ListIntegrations, member)
		integrations.GET("/slack/channels", h.ListSlackChannels, member)
		integrations.GET("/linear/teams", h.ListLinearTeams, member)
		integrations.GET("/:type/connect", h.Connect, manager)
		integrations.PATCH("/:type/settings", h.UpdateSettings, manager)
		integrations.DELETE("/:type", h.Disconnect, manager)
	}

	if h := rt.handlers.Billing; h != nil {
		billing := workspaces.Group("/:workspace_id/billing", manager)
		billing.POST("/stripe/checkout", h.StripeCheckout)
		billing.POST("/stripe/portal", h.StripePortal)
		billing.POST("/paystack/checkout", h.PaystackCheckout)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":  "This endpoint is not yet implemented",
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	env := ""
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	body := map[string]interface{}{
		"status":      "ok",
		"environment": env,
		"time":        time.Now().UTC().Format(time.RFC3339),
	}
	if rt.ping == nil {
		return c.JSON(http.StatusOK, body)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := rt.ping(ctx); err != nil {
		if rt.logger != nil {
			rt.logger.Warn("⚠️ Health check: database unreachable", zap.Error(err))
		}
		body["status"] = "degraded"
		body["database"] = "down"
		return c.JSON(http.StatusServiceUnavailable, body)
	}
	body["database"] = "up"
	return c.JSON(http.StatusOK, body)
}
