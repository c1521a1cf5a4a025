package handlers

import (
	"context"
	"net/http"
	"time"

	"canchas_backend/internal/models"
	"canchas_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves calendar listings and revenue totals.
type ReportHandler struct {
	reportService services.ReportService
	now           services.Clock
}

// NewReportHandler creates a new ReportHandler. now supplies the default reference date.
func NewReportHandler(rs services.ReportService, now services.Clock) *ReportHandler {
	if now == nil {
		now = services.SystemClock(time.Local)
	}
	return &ReportHandler{reportService: rs, now: now}
}

type listFunc func(ctx context.Context, ref time.Time) ([]models.Reservation, error)
type revenueFunc func(ctx context.Context, ref time.Time) (*models.RevenueReport, error)

// bindParams reads ?date= and ?year=, defaulting to today and the current year.
func (h *ReportHandler) bindParams(c *gin.Context, op string) (time.Time, int, bool) {
	var params models.ReportRequestParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, op)
		return time.Time{}, 0, false
	}
	now := h.now()
	ref := models.DateOf(now)
	if params.Date != "" {
		parsed, err := services.ParseDate(params.Date)
		if err != nil {
			respondServiceError(c, err, op)
			return time.Time{}, 0, false
		}
		ref = parsed
	}
	year := now.Year()
	if params.Year != nil {
		year = *params.Year
	}
	return ref, year, true
}

func (h *ReportHandler) list(fn listFunc, op string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, _, ok := h.bindParams(c, op)
		if !ok {
			return
		}
		reservations, err := fn(c.Request.Context(), ref)
		if err != nil {
			respondServiceError(c, err, op)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": reservations, "total": len(reservations)})
	}
}

func (h *ReportHandler) revenue(fn revenueFunc, op string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, _, ok := h.bindParams(c, op)
		if !ok {
			return
		}
		report, err := fn(c.Request.Context(), ref)
		if err != nil {
			respondServiceError(c, err, op)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func (h *ReportHandler) ListByDay() gin.HandlerFunc {
	return h.list(h.reportService.ListByDay, "ListByDay")
}

func (h *ReportHandler) ListByWeek() gin.HandlerFunc {
	return h.list(h.reportService.ListByWeek, "ListByWeek")
}

func (h *ReportHandler) ListByMonth() gin.HandlerFunc {
	return h.list(h.reportService.ListByMonth, "ListByMonth")
}

func (h *ReportHandler) ListByYear(c *gin.Context) {
	_, year, ok := h.bindParams(c, "ListByYear")
	if !ok {
		return
	}
	reservations, err := h.reportService.ListByYear(c.Request.Context(), year)
	if err != nil {
		respondServiceError(c, err, "ListByYear")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reservations, "total": len(reservations)})
}

// SearchByClient lists reservations whose client name or DNI matches ?criterion=.
func (h *ReportHandler) SearchByClient(c *gin.Context) {
	reservations, err := h.reportService.ListByClientSearch(c.Request.Context(), c.Query("criterion"))
	if err != nil {
		respondServiceError(c, err, "SearchByClient")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reservations, "total": len(reservations)})
}

func (h *ReportHandler) RevenueForDay() gin.HandlerFunc {
	return h.revenue(h.reportService.RevenueForDay, "RevenueForDay")
}

func (h *ReportHandler) RevenueForWeek() gin.HandlerFunc {
	return h.revenue(h.reportService.RevenueForWeek, "RevenueForWeek")
}

func (h *ReportHandler) RevenueForMonth() gin.HandlerFunc {
	return h.revenue(h.reportService.RevenueForMonth, "RevenueForMonth")
}

func (h *ReportHandler) RevenueForYear(c *gin.Context) {
	_, year, ok := h.bindParams(c, "RevenueForYear")
	if !ok {
		return
	}
	report, err := h.reportService.RevenueForYear(c.Request.Context(), year)
	if err != nil {
		respondServiceError(c, err, "RevenueForYear")
		return
	}
	c.JSON(http.StatusOK, report)
}
