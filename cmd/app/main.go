package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "community-forum-backend/docs"
	"community-forum-backend/internal/common/config"
	"community-forum-backend/internal/common/logger"
	"community-forum-backend/internal/common/middleware"
	gatinghttp "community-forum-backend/internal/features/gating/delivery/http"
	"community-forum-backend/internal/features/gating/orchestrator"
	"community-forum-backend/internal/features/gating/registry"
	postgresrepo "community-forum-backend/internal/features/gating/repository/postgres"
	redisrepo "community-forum-backend/internal/features/gating/repository/redis"
	"community-forum-backend/internal/features/gating/service"
	"community-forum-backend/internal/features/gating/verifiers"
	"community-forum-backend/internal/platform/postgres"
	"community-forum-backend/internal/platform/redis"
)

// @title           Community Forum Gating API
// @version         1.0
// @description     Gating and verification engine for community forum boards and posts. All endpoints require the host-forwarded member context.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey HostAuth
// @in header
// @name X-User-Id
// @description Member id forwarded by the host application gateway

// @tag.name locks
// @tag.description Lock management - reusable sets of gating requirements

// @tag.name verification
// @tag.description Verification - live checks and cached pre-verification lookups

// @tag.name gating
// @tag.description Gating metadata - registered category types
func main() {
	cfg := config.Load()

	logger.Init("community-forum-backend", cfg.Debug)
	logger.Info().Bool("debug", cfg.Debug).Msg("Starting gating engine")

	postgresClient, err := postgres.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer postgresClient.Close()

	redisClient, err := redis.Open(context.Background(), cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	db := postgresClient.GetDB()
	lockRepository := postgresrepo.NewLockRepository(db)
	preVerificationStore := postgresrepo.NewPreVerificationRepository(db)
	gatingSources := postgresrepo.NewGatingSourceRepository(db)
	preVerificationCache := redisrepo.NewPreVerificationCache(redisClient)

	reg := registry.New()
	reg.MustRegister(verifiers.NewEthereumVerifier(cfg.Ethereum.RPCURLs, cfg.Ethereum.ENSRegistry))
	reg.MustRegister(verifiers.NewEFPVerifier(verifiers.NewEFPClient(cfg.Efp.APIBase)))
	reg.MustRegister(verifiers.NewUniversalProfileVerifier(cfg.Lukso.RPCURLs, cfg.Lukso.FollowerRegistry))
	reg.MustRegister(verifiers.NewTONVerifier(verifiers.NewTonAPIClient(cfg.Ton.APIBase, cfg.Ton.APIToken)))
	reg.MustRegister(verifiers.NewCommunityRoleVerifier(verifiers.NewCommunityClient(cfg.Community.APIBase, cfg.Community.APIToken)))
	logger.Info().Int("categories", len(reg.List())).Msg("Verifier registry initialized")

	orch := orchestrator.New(reg, cfg.Verification.ProviderTimeout, cfg.Verification.MaxConcurrentChecks)

	lockSvc := service.NewLockService(lockRepository, preVerificationStore, preVerificationCache, reg, cfg.Verification.InvalidateOnEdit)
	accessSvc := service.NewAccessService(lockRepository, preVerificationStore, preVerificationCache, gatingSources, orch, cfg.Verification.CacheTTL)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept", "X-User-Id", "X-Community-Id", "X-User-Roles"}
	router.Use(cors.New(corsConfig))

	handler := gatinghttp.NewGatingHandler(lockSvc, accessSvc)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.HostAuth())
	handler.RegisterRoutes(v1)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "community-forum-backend",
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := postgresClient.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unready", "error": "postgres unavailable"})
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unready", "error": "redis unavailable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ready", "timestamp": time.Now().UTC()})
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}
