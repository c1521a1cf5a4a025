package handlers

import (
	"net/http"

	"canchas_backend/internal/models"
	"canchas_backend/internal/services"
	"canchas_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReservationHandler holds the reservation scheduler.
type ReservationHandler struct {
	reservationService services.ReservationService
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(rs services.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: rs}
}

type listReservationsQuery struct {
	ClientID *int64 `form:"client_id" binding:"omitempty,gt=0"`
	CourtID  *int64 `form:"court_id" binding:"omitempty,gt=0"`
	DateFrom string `form:"date_from" binding:"omitempty,isodate"`
	DateTo   string `form:"date_to" binding:"omitempty,isodate"`
}

// CreateReservation books a court and answers with the confirmation summary.
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req services.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateReservation")
		return
	}

	confirmation, err := h.reservationService.CreateReservation(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateReservation")
		return
	}
	utils.LogInfo("Reservation created", map[string]interface{}{
		"reservation_id": confirmation.Reservation.ID,
		"court_id":       req.CourtID,
		"client_id":      req.ClientID,
	})
	c.JSON(http.StatusCreated, confirmation)
}

// GetReservations lists reservations, optionally filtered by client, court and date range.
func (h *ReservationHandler) GetReservations(c *gin.Context) {
	var q listReservationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err, "GetReservations")
		return
	}

	filters := models.ReservationFilters{ClientID: q.ClientID, CourtID: q.CourtID}
	if q.DateFrom != "" {
		from, err := services.ParseDate(q.DateFrom)
		if err != nil {
			respondServiceError(c, err, "GetReservations")
			return
		}
		filters.DateFrom = &from
	}
	if q.DateTo != "" {
		to, err := services.ParseDate(q.DateTo)
		if err != nil {
			respondServiceError(c, err, "GetReservations")
			return
		}
		filters.DateTo = &to
	}

	reservations, err := h.reservationService.GetReservations(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err, "GetReservations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reservations, "total": len(reservations)})
}

func (h *ReservationHandler) GetReservationByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reservation, err := h.reservationService.GetReservationByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "GetReservationByID "+utils.Int64ToStr(id))
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// UpdateReservation replaces the client, court, date and time of a reservation.
func (h *ReservationHandler) UpdateReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "UpdateReservation")
		return
	}

	message, err := h.reservationService.UpdateReservation(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateReservation "+utils.Int64ToStr(id))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.reservationService.DeleteReservation(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "DeleteReservation "+utils.Int64ToStr(id))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation deleted successfully"})
}
