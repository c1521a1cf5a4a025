package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"canchas_backend/internal/cache"
	"canchas_backend/internal/config"
	"canchas_backend/internal/database"
	"canchas_backend/internal/events"
	"canchas_backend/internal/handlers"
	"canchas_backend/internal/repositories"
	"canchas_backend/internal/router"
	"canchas_backend/internal/services"
	"canchas_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		utils.InitLogger("info", "console")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	utils.InitLogger(cfg.Log.Level, cfg.Log.Format)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid time zone")
	}
	clock := services.SystemClock(loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Store
	var repos repositories.Set
	var db *sql.DB
	switch cfg.Store.Driver {
	case config.StoreMemory:
		repos = repositories.NewMemorySet(repositories.NewMemoryStore())
		utils.LogInfo("Using in-memory store; data is lost on restart")
	default:
		db, err = database.Open(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer db.Close()
		repos = repositories.NewPostgresSet(db)
	}

	tokens, err := utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid JWT configuration")
	}

	// Optional Redis: revenue cache and rate limiting
	var rdb *redis.Client
	var revenueCache cache.RevenueCache = cache.NopRevenueCache{}
	if cfg.Redis.Addr != "" {
		rdb, err = cache.NewRedisClient(cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TLS:      cfg.Redis.TLS,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable; revenue cache and rate limiting disabled")
		} else {
			defer rdb.Close()
			revenueCache = cache.NewRedisRevenueCache(rdb, cfg.Redis.Prefix, cfg.Redis.CacheTTL)
		}
	}
	if _, nop := revenueCache.(cache.NopRevenueCache); nop && cfg.Store.Driver == config.StoreMemory {
		// A memory store is single-process, so a process-local cache stays coherent.
		revenueCache = cache.NewMemoryRevenueCache()
	}

	// Optional RabbitMQ: reservation events
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Rabbit.URL != "" {
		amqpPublisher, pubErr := events.NewAMQPPublisher(cfg.Rabbit.URL, cfg.Rabbit.Exchange)
		if pubErr != nil {
			log.Warn().Err(pubErr).Msg("RabbitMQ unavailable; reservation events disabled")
		} else {
			publisher = amqpPublisher
		}
	}
	defer publisher.Close()

	if cfg.Bootstrap.AdminEmail != "" && cfg.Bootstrap.AdminPassword != "" {
		bootstrap := services.NewAuthService(repos.Auth, tokens)
		err := bootstrap.EnsureAdministrator(ctx, services.RegisterAdministratorRequest{
			Email:     cfg.Bootstrap.AdminEmail,
			Password:  cfg.Bootstrap.AdminPassword,
			FirstName: cfg.Bootstrap.AdminFirstName,
			LastName:  cfg.Bootstrap.AdminLastName,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure bootstrap administrator")
		}
	}

	if err := handlers.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("Failed to register validators")
	}

	gin.SetMode(cfg.GinMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), utils.GinLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", utils.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{utils.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.Setup(engine, router.Dependencies{
		Repos:        repos,
		Tokens:       tokens,
		Publisher:    publisher,
		RevenueCache: revenueCache,
		Redis:        rdb,
		RateLimit:    cfg.Limit,
		Clock:        clock,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{
			"port":      cfg.Port,
			"store":     cfg.Store.Driver,
			"time_zone": loc.String(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server forced to shutdown")
	}
}
