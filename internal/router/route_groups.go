package router

import (
	"canchas_backend/internal/handlers"
	"canchas_backend/internal/middleware"
	"canchas_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SetupSportRoutes sets up the sport catalog routes.
func SetupSportRoutes(authenticatedGroup *gin.RouterGroup, courtHandler *handlers.CourtHandler) {
	sportRoutes := authenticatedGroup.Group("/sports")
	sportRoutes.Use(middleware.RoleAuthMiddleware(utils.RoleAdmin))
	{
		sportRoutes.POST("", courtHandler.CreateSport)
		sportRoutes.GET("", courtHandler.GetSports)
		sportRoutes.GET("/:id", courtHandler.GetSportByID)
		sportRoutes.PUT("/:id", courtHandler.UpdateSport)
		sportRoutes.DELETE("/:id", courtHandler.DeleteSport)
	}
}

// SetupCourtRoutes sets up the court catalog routes.
func SetupCourtRoutes(authenticatedGroup *gin.RouterGroup, courtHandler *handlers.CourtHandler) {
	courtRoutes := authenticatedGroup.Group("/courts")
	courtRoutes.Use(middleware.RoleAuthMiddleware(utils.RoleAdmin))
	{
		courtRoutes.POST("", courtHandler.CreateCourt)
		courtRoutes.GET("", courtHandler.GetCourts)
		courtRoutes.GET("/:id", courtHandler.GetCourtByID)
		courtRoutes.PUT("/:id", courtHandler.UpdateCourt)
		courtRoutes.DELETE("/:id", courtHandler.DeleteCourt)
	}
}

// SetupEquipmentRoutes sets up the equipment stock routes and the per-court assignments.
func SetupEquipmentRoutes(authenticatedGroup *gin.RouterGroup, equipmentHandler *handlers.EquipmentHandler) {
	equipmentRoutes := authenticatedGroup.Group("/equipment")
	equipmentRoutes.Use(middleware.RoleAuthMiddleware(utils.RoleAdmin))
	{
		equipmentRoutes.POST("", equipmentHandler.CreateEquipment)
		equipmentRoutes.GET("", equipmentHandler.GetEquipment)
		equipmentRoutes.GET("/:id", equipmentHandler.GetEquipmentByID)
		equipmentRoutes.PUT("/:id/name", equipmentHandler.RenameEquipment)
		equipmentRoutes.PUT("/:id/stock/add", equipmentHandler.AddStock)
		equipmentRoutes.PUT("/:id/stock/remove", equipmentHandler.RemoveStock)
		equipmentRoutes.DELETE("/:id", equipmentHandler.DeleteEquipment)
	}

	assignmentRoutes := authenticatedGroup.Group("/court-equipment")
	assignmentRoutes.Use(middleware.RoleAuthMiddleware(utils.RoleAdmin))
	{
		assignmentRoutes.POST("", equipmentHandler.AssignToCourt)
		assignmentRoutes.GET("", equipmentHandler.GetAssignments)
		assignmentRoutes.GET("/:id", equipmentHandler.GetAssignmentByID)
		assignmentRoutes.PUT("/:id/quantity/add", equipmentHandler.IncreaseAssignment)
		assignmentRoutes.PUT("/:id/quantity/remove", equipmentHandler.DecreaseAssignment)
		assignmentRoutes.DELETE("/:id", equipmentHandler.DeleteAssignment)
	}
}

// SetupClientRoutes sets up the client routes.
func SetupClientRoutes(authenticatedGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clientRoutes := authenticatedGroup.Group("/clients")
	clientRoutes.Use(middleware.RoleAuthMiddleware(utils.RoleAdmin))
	{
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/by-dni/:dni", clientHandler.GetClientByDNI)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.PUT("/:id", clientHandler.UpdateClient)
		clientRoutes.DELETE("/:id", clientHandler.DeleteClient)
	}
}

// SetupReservationRoutes sets up the reservation routes, including the calendar listings.
func SetupReservationRoutes(authenticatedGroup *gin.RouterGroup, reservationHandler *handlers.ReservationHandler, reportHandler *handlers.ReportHandler) {
	reservationRoutes := authenticatedGroup.Group("/reservations")
	reservationRoutes.Use(middleware.RoleAuthMiddleware(utils.RoleAdmin))
	{
		reservationRoutes.POST("", reservationHandler.CreateReservation)
		reservationRoutes.GET("", reservationHandler.GetReservations)
		reservationRoutes.GET("/by-day", reportHandler.ListByDay())
		reservationRoutes.GET("/by-week", reportHandler.ListByWeek())
		reservationRoutes.GET("/by-month", reportHandler.ListByMonth())
		reservationRoutes.GET("/by-year", reportHandler.ListByYear)
		reservationRoutes.GET("/search", reportHandler.SearchByClient)
		reservationRoutes.GET("/:id", reservationHandler.GetReservationByID)
		reservationRoutes.PUT("/:id", reservationHandler.UpdateReservation)
		reservationRoutes.DELETE("/:id", reservationHandler.DeleteReservation)
	}
}

// SetupReportRoutes sets up the revenue report routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports/revenue")
	reportRoutes.Use(middleware.RoleAuthMiddleware(utils.RoleAdmin))
	{
		reportRoutes.GET("/day", reportHandler.RevenueForDay())
		reportRoutes.GET("/week", reportHandler.RevenueForWeek())
		reportRoutes.GET("/month", reportHandler.RevenueForMonth())
		reportRoutes.GET("/year", reportHandler.RevenueForYear)
	}
}
