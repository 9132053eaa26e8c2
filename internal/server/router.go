package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"lastleaf-be/internal/controllers"
	"lastleaf-be/internal/middleware"
	"lastleaf-be/internal/service"
)

// RateLimits configures the general and the stricter auth limiter.
type RateLimits struct {
	RPS       float64
	Burst     int
	AuthRPS   float64
	AuthBurst int
}

// Deps is everything the router needs to serve the API.
type Deps struct {
	Auth     service.AuthService
	OAuth    service.OAuthService
	Sessions service.SessionService
	Diaries  service.DiaryService
	Users    service.UserService

	DB    controllers.Pinger
	Cache controllers.Pinger // nil when Redis is disabled

	Cookies    controllers.CookieConfig
	AppURL     string
	RateLimits RateLimits
	Log        *zap.Logger
}

// NewRouter wires controllers and middleware. ctx bounds the lifetime of the
// rate limiters' background cleanup.
func NewRouter(ctx context.Context, d Deps) *gin.Engine {
	authController := controllers.NewAuthController(d.Auth, d.Cookies, d.Log)
	oauthController := controllers.NewOAuthController(d.OAuth, d.Cookies, d.AppURL, d.Log)
	diaryController := controllers.NewDiaryController(d.Diaries, d.Log)
	userController := controllers.NewUserController(d.Users, d.Sessions, d.Cookies, d.Log)
	healthController := controllers.NewHealthController(d.DB, d.Cache, d.Log)

	generalRateLimiter := middleware.NewRateLimiter(ctx, rate.Limit(d.RateLimits.RPS), d.RateLimits.Burst)
	authRateLimiter := middleware.NewRateLimiter(ctx, rate.Limit(d.RateLimits.AuthRPS), d.RateLimits.AuthBurst)

	router := gin.New()
	router.Use(middleware.Recovery(d.Log), middleware.RequestLogger(d.Log))

	// Health check endpoint (no rate limiting)
	router.GET("/health", healthController.Live)

	api := router.Group("/api")
	api.GET("/health/ready", healthController.Ready)
	api.Use(generalRateLimiter.LimitMiddleware())
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authRateLimiter.LimitMiddleware(), authController.Signup)
			auth.POST("/login", authRateLimiter.LimitMiddleware(), authController.Login)
			auth.POST("/logout", authController.Logout)
			auth.GET("/google", oauthController.Start)
			auth.GET("/google/callback", oauthController.Callback)
		}

		// Protected routes - require a session cookie
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(d.Sessions))
		{
			protected.GET("/diary", diaryController.List)
			protected.POST("/diary", diaryController.Create)
			protected.GET("/diary/:id", diaryController.Get)
			protected.PUT("/diary/:id", diaryController.Update)

			protected.GET("/user/profile", userController.GetProfile)
			protected.PUT("/user/profile", userController.UpdateProfile)
			protected.GET("/user/preferences", userController.GetPreferences)
			protected.PUT("/user/preferences", userController.UpdatePreferences)
			protected.GET("/user/contacts", userController.GetContacts)
			protected.PUT("/user/contacts", userController.ReplaceContacts)
			protected.DELETE("/user", userController.DeleteAccount)
		}
	}

	return router
}

// NewHTTPServer wraps the router with the server timeouts used in production.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
