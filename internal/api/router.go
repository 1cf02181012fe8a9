package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/kuroneko-hornet/homeworks/docs"
	"github.com/kuroneko-hornet/homeworks/internal/api/handler"
	"github.com/kuroneko-hornet/homeworks/internal/api/middleware"
	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
	"github.com/kuroneko-hornet/homeworks/internal/core/ports"
	"github.com/kuroneko-hornet/homeworks/internal/core/session"
)

// Deps carries everything the routes need; main wires it.
type Deps struct {
	Auth     ports.AuthService
	Profiles ports.ProfileService
	Taxonomy ports.TaxonomyService
	History  ports.HistoryService
	Sessions *session.Manager
	Events   handler.EventSubscriber

	Palette  domain.Palette
	Location *time.Location

	// Readiness lists the dependencies checked by /health/ready.
	Readiness map[string]handler.Pinger
	// OriginPatterns are the hosts allowed to open the websocket feed.
	OriginPatterns []string

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("homeworks"))

	// --- Health probes and ops (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)                      // liveness  – is the process alive?
	e.GET("/health/ready", handler.NewReadinessHandler(d.Readiness).Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Profiles, d.Sessions)
	profileHandler := handler.NewProfileHandler(d.Profiles, d.Sessions)
	categoryHandler := handler.NewCategoryHandler(d.Taxonomy)
	historyHandler := handler.NewHistoryHandler(d.History, d.Palette, d.Location)
	sessionHandler := handler.NewSessionHandler(d.Sessions, d.Log)
	feedHandler := handler.NewFeedHandler(d.Events, d.Auth, d.OriginPatterns, d.Log)

	authMiddleware := middleware.Auth(d.Auth)
	profileGate := middleware.RequireProfile(d.Profiles)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)

	v1 := e.Group("/v1", authMiddleware)

	// Reachable before registration so first-time users can set a name.
	v1.GET("/profile", profileHandler.Get)
	v1.PUT("/profile", profileHandler.Put)
	v1.GET("/feed", feedHandler.Stream)

	app := v1.Group("", profileGate)

	app.GET("/categories", categoryHandler.List)
	app.POST("/categories", categoryHandler.Create)
	app.PUT("/categories/:id", categoryHandler.Update)
	app.DELETE("/categories/:id", categoryHandler.Delete)

	app.GET("/history", historyHandler.List)
	app.POST("/history", historyHandler.Create)
	app.DELETE("/history/:id", historyHandler.Delete)

	app.GET("/session", sessionHandler.Get)
	app.POST("/session/reload", sessionHandler.Reload)
	app.POST("/session/window/prev", sessionHandler.Prev)
	app.POST("/session/window/next", sessionHandler.Next)
	app.POST("/session/window/today", sessionHandler.Today)
	app.POST("/session/selection/main", sessionHandler.ChooseMain)
	app.POST("/session/selection/sub", sessionHandler.ChooseSub)
	app.POST("/session/selection/back", sessionHandler.Back)
	app.POST("/session/selection/reselect", sessionHandler.Reselect)
	app.POST("/session/selection/confirm", sessionHandler.Confirm)

	return e
}

// requestLogger writes one access log line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
