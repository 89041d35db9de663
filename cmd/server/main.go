package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/friendsnet/backend/internal/cache"
	"github.com/friendsnet/backend/internal/config"
	"github.com/friendsnet/backend/internal/database"
	"github.com/friendsnet/backend/internal/feed"
	"github.com/friendsnet/backend/internal/handlers"
	"github.com/friendsnet/backend/internal/logger"
	"github.com/friendsnet/backend/internal/middleware"
	"github.com/friendsnet/backend/internal/repository"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := config.Load()

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	if cfg.JWTSecret == "" {
		logger.Log.Fatal("JWT_SECRET environment variable is required")
	}

	if err := database.Initialize(cfg.MongoURI, cfg.MongoDB); err != nil {
		logger.Log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.Close(ctx); err != nil {
			logger.Log.Warn("MongoDB close failed", zap.Error(err))
		}
	}()

	if err := database.EnsureIndexes(context.Background()); err != nil {
		logger.Log.Fatal("Failed to ensure indexes", zap.Error(err))
	}

	// Redis is optional: without it the trending-tag cache is disabled and
	// every feed build recomputes trending tags.
	var tagCache feed.TagCache
	redisClient, err := cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
	if err != nil {
		logger.Log.Warn("Redis unavailable, trending-tag cache disabled", zap.Error(err))
	} else {
		tagCache = redisClient
		defer redisClient.Close()
	}

	postRepo := repository.NewPostRepository(database.Posts())
	userRepo := repository.NewUserRepository(database.Users())

	feedSvc := feed.NewService(postRepo, tagCache, feed.Options{
		PageSizeMax:      cfg.PageSizeMax,
		TrendingMinUses:  cfg.TrendingMinUses,
		TrendingTopTags:  cfg.TrendingTopTags,
		RetrieverTimeout: cfg.RetrieverTimeout,
		TrendingCacheTTL: cfg.TrendingCacheTTL,
	})

	h := handlers.NewHandlers(postRepo, userRepo, feedSvc, cfg)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // Configure properly for production
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "friendsnet-backend",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h.RegisterRoutes(r, middleware.AuthMiddleware(cfg.JWTSecret, userRepo))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("friendsnet backend starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}
