package handlers

import (
	"net/http"

	"canchas_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// CourtHandler serves the sport and court catalogs.
type CourtHandler struct {
	sportService services.SportService
	courtService services.CourtService
}

// NewCourtHandler creates a new CourtHandler.
func NewCourtHandler(ss services.SportService, cs services.CourtService) *CourtHandler {
	return &CourtHandler{sportService: ss, courtService: cs}
}

// --- Sports ---

func (h *CourtHandler) CreateSport(c *gin.Context) {
	var req services.SportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateSport")
		return
	}
	sport, err := h.sportService.CreateSport(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateSport")
		return
	}
	c.JSON(http.StatusCreated, sport)
}

func (h *CourtHandler) GetSports(c *gin.Context) {
	sports, err := h.sportService.GetSports(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetSports")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sports, "total": len(sports)})
}

func (h *CourtHandler) GetSportByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	sport, err := h.sportService.GetSportByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "GetSportByID")
		return
	}
	c.JSON(http.StatusOK, sport)
}

func (h *CourtHandler) UpdateSport(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.SportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "UpdateSport")
		return
	}
	sport, err := h.sportService.UpdateSport(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateSport")
		return
	}
	c.JSON(http.StatusOK, sport)
}

func (h *CourtHandler) DeleteSport(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.sportService.DeleteSport(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "DeleteSport")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sport deleted successfully"})
}

// --- Courts ---

func (h *CourtHandler) CreateCourt(c *gin.Context) {
	var req services.CourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateCourt")
		return
	}
	court, err := h.courtService.CreateCourt(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateCourt")
		return
	}
	c.JSON(http.StatusCreated, court)
}

func (h *CourtHandler) GetCourts(c *gin.Context) {
	courts, err := h.courtService.GetCourts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetCourts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": courts, "total": len(courts)})
}

func (h *CourtHandler) GetCourtByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	court, err := h.courtService.GetCourtByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "GetCourtByID")
		return
	}
	c.JSON(http.StatusOK, court)
}

func (h *CourtHandler) UpdateCourt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "UpdateCourt")
		return
	}
	court, err := h.courtService.UpdateCourt(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateCourt")
		return
	}
	c.JSON(http.StatusOK, court)
}

func (h *CourtHandler) DeleteCourt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.courtService.DeleteCourt(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "DeleteCourt")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Court deleted successfully"})
}
