package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lastleaf-be/internal/cache"
	"lastleaf-be/internal/config"
	"lastleaf-be/internal/controllers"
	"lastleaf-be/internal/database"
	"lastleaf-be/internal/inactivity"
	"lastleaf-be/internal/jwt"
	"lastleaf-be/internal/logger"
	"lastleaf-be/internal/repository"
	"lastleaf-be/internal/server"
	"lastleaf-be/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logg, err := logger.New(logger.Config{Development: cfg.IsDevelopment()})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logg.Sync() //nolint:errcheck

	if err := run(cfg, logg); err != nil {
		logg.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.NewConnection(ctx, cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		return err
	}
	logg.Info("database ready")

	// Redis is optional; without it logout cannot revoke tokens early
	var cacheClient cache.Cache
	var cachePinger controllers.Pinger
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logg.Warn("failed to connect to Redis, continuing without session revocation", zap.Error(err))
			cacheClient = nil
		} else {
			defer cacheClient.Close()
			cachePinger = controllers.PingFunc(cacheClient.Ping)
			logg.Info("connected to Redis")
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	diaryRepo := repository.NewDiaryRepository(db)
	contactRepo := repository.NewContactRepository(db)

	// Initialize services
	jwtService := jwt.NewJWTService(cfg.JWTSecret, cfg.TokenTTL())
	sessions := service.NewSessionService(jwtService, cacheClient, logg)
	authService := service.NewAuthService(userRepo, sessions, logg)
	oauthService := service.NewOAuthService(service.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	}, userRepo, sessions, logg)
	diaryService := service.NewDiaryService(diaryRepo, userRepo, logg)
	userService := service.NewUserService(userRepo, contactRepo, logg)

	if cfg.InactivitySweepInterval > 0 {
		var notifier inactivity.Notifier = inactivity.NewLogNotifier(logg)
		if len(cfg.KafkaBrokers) > 0 {
			kafkaNotifier := inactivity.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaAlertTopic)
			defer kafkaNotifier.Close()
			notifier = kafkaNotifier
		}
		sweeper := inactivity.NewSweeper(userRepo, contactRepo, notifier, logg)
		go sweeper.Run(ctx, cfg.InactivitySweepInterval)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := server.NewRouter(ctx, server.Deps{
		Auth:     authService,
		OAuth:    oauthService,
		Sessions: sessions,
		Diaries:  diaryService,
		Users:    userService,
		DB:       db,
		Cache:    cachePinger,
		Cookies: controllers.CookieConfig{
			Secure: cfg.CookieSecure,
			MaxAge: cfg.CookieMaxAgeSec,
		},
		AppURL: cfg.AppURL,
		RateLimits: server.RateLimits{
			RPS:       cfg.RateLimitRPS,
			Burst:     cfg.RateLimitBurst,
			AuthRPS:   cfg.RateLimitAuthRPS,
			AuthBurst: cfg.RateLimitAuthBurst,
		},
		Log: logg,
	})

	srv := server.NewHTTPServer(":"+cfg.Port, router)

	errCh := make(chan error, 1)
	go func() {
		logg.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
