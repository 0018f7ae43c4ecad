package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/codetutor/tutor-api/docs"
	"github.com/codetutor/tutor-api/internal/api/handler"
	"github.com/codetutor/tutor-api/internal/api/middleware"
	"github.com/codetutor/tutor-api/internal/core/ports"
)

// Deps are the services the router mounts. OAuthProvider may be nil, in
// which case the federated login routes are not registered.
type Deps struct {
	Accounts ports.AccountService
	Progress ports.ProgressService
	Arcade   ports.ArcadeService
	Chat     ports.ChatService

	OAuthProvider ports.IdentityProvider
	OAuthStates   ports.StateStore
	FrontendURL   string

	Readiness   map[string]handler.Pinger
	CORSOrigins []string

	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 "tutor",
		Subsystem:                 "http",
		Registerer:                registerer,
		DoNotUseRequestPathFor404: true,
	}))

	requireAccount := middleware.RequireAccount(deps.Accounts)
	optionalAccount := middleware.OptionalAccount(deps.Accounts)

	// --- Health checks (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Accounts)
	e.POST("/register", authHandler.Register)
	e.POST("/token", authHandler.Token)

	if deps.OAuthProvider != nil {
		oauthHandler := handler.NewOAuthHandler(deps.OAuthProvider, deps.OAuthStates, deps.Accounts, deps.FrontendURL, deps.Log)
		oauth := e.Group("/auth/" + deps.OAuthProvider.Name())
		oauth.GET("/login", oauthHandler.Login)
		oauth.GET("/callback", oauthHandler.Callback)
	}

	// --- Account routes ---
	accountHandler := handler.NewAccountHandler(deps.Accounts)
	e.GET("/users/me", accountHandler.Me, requireAccount)
	e.PATCH("/users/me", accountHandler.UpdateMe, requireAccount)
	e.POST("/vault", accountHandler.Vault, requireAccount)

	// --- Progress sync ---
	progressHandler := handler.NewProgressHandler(deps.Progress, deps.Log)
	sync := e.Group("/sync", requireAccount)
	sync.POST("/push", progressHandler.Push)
	sync.GET("/pull", progressHandler.Pull)

	// --- Arcade ---
	arcadeHandler := handler.NewArcadeHandler(deps.Arcade)
	arcade := e.Group("/arcade", requireAccount)
	arcade.POST("/scores", arcadeHandler.RecordScore)
	arcade.GET("/scores", arcadeHandler.ListScores)

	// --- AI chat proxy ---
	chatHandler := handler.NewChatHandler(deps.Chat)
	e.POST("/api/ai/chat", chatHandler.Chat, optionalAccount)

	return e
}
