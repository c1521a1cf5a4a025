package router

import (
	"canchas_backend/internal/cache"
	"canchas_backend/internal/config"
	"canchas_backend/internal/events"
	"canchas_backend/internal/handlers"
	"canchas_backend/internal/middleware"
	"canchas_backend/internal/repositories"
	"canchas_backend/internal/services"
	"canchas_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Dependencies are the collaborators the routes are built from.
// Publisher, RevenueCache and Redis may be nil.
type Dependencies struct {
	Repos        repositories.Set
	Tokens       *utils.TokenManager
	Publisher    events.Publisher
	RevenueCache cache.RevenueCache
	Redis        *redis.Client
	RateLimit    config.RateLimitConfig
	Clock        services.Clock
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Dependencies) {
	repos := deps.Repos

	// Initialize Services
	authService := services.NewAuthService(repos.Auth, deps.Tokens)
	sportService := services.NewSportService(repos.Sports)
	courtService := services.NewCourtService(repos.Courts, repos.Sports, deps.RevenueCache)
	clientService := services.NewClientService(repos.Clients, deps.Clock)
	reservationService := services.NewReservationService(repos.Reservations, repos.Courts, repos.Clients,
		deps.Publisher, deps.RevenueCache, deps.Clock)
	reportService := services.NewReportService(repos.Reservations, deps.RevenueCache, deps.Clock)
	equipmentService := services.NewEquipmentService(repos.Equipment, repos.Courts)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	courtHandler := handlers.NewCourtHandler(sportService, courtService)
	clientHandler := handlers.NewClientHandler(clientService)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	reportHandler := handlers.NewReportHandler(reportService, deps.Clock)
	equipmentHandler := handlers.NewEquipmentHandler(equipmentService)

	apiV1 := engine.Group("/api/v1")

	limiter := middleware.RateLimit(deps.RateLimit, deps.Redis)

	SetupPublicAuthRoutes(apiV1.Group("/auth", limiter), authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(deps.Tokens), limiter)
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupSportRoutes(authenticated, courtHandler)
		SetupCourtRoutes(authenticated, courtHandler)
		SetupEquipmentRoutes(authenticated, equipmentHandler)
		SetupClientRoutes(authenticated, clientHandler)
		SetupReservationRoutes(authenticated, reservationHandler, reportHandler)
		SetupReportRoutes(authenticated, reportHandler)
	}
}

// SetupPublicAuthRoutes registers the routes reachable without a token.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.Login)
}

func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.GetCurrentUser)
	group.POST("/administrators", middleware.RoleAuthMiddleware(utils.RoleAdmin), authHandler.RegisterAdministrator)
}
