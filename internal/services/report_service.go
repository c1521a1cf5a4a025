package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"canchas_backend/internal/cache"
	"canchas_backend/internal/models"
	"canchas_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// ReportService answers occupancy listings and revenue totals over calendar windows.
// Every listed reservation has Client and Court populated.
type ReportService interface {
	ListByDay(ctx context.Context, ref time.Time) ([]models.Reservation, error)
	ListByWeek(ctx context.Context, ref time.Time) ([]models.Reservation, error)
	ListByMonth(ctx context.Context, ref time.Time) ([]models.Reservation, error)
	ListByYear(ctx context.Context, year int) ([]models.Reservation, error)
	ListByClientSearch(ctx context.Context, criterion string) ([]models.Reservation, error)

	RevenueForDay(ctx context.Context, ref time.Time) (*models.RevenueReport, error)
	RevenueForWeek(ctx context.Context, ref time.Time) (*models.RevenueReport, error)
	RevenueForMonth(ctx context.Context, ref time.Time) (*models.RevenueReport, error)
	RevenueForYear(ctx context.Context, year int) (*models.RevenueReport, error)
}

type reportService struct {
	reservationRepo repositories.ReservationRepository
	revenueCache    cache.RevenueCache
	now             Clock
}

// NewReportService creates a new instance of ReportService. revenueCache may be nil.
func NewReportService(rr repositories.ReservationRepository, revenueCache cache.RevenueCache, now Clock) ReportService {
	if revenueCache == nil {
		revenueCache = cache.NopRevenueCache{}
	}
	if now == nil {
		now = SystemClock(time.Local)
	}
	return &reportService{reservationRepo: rr, revenueCache: revenueCache, now: now}
}

func (s *reportService) listBetween(ctx context.Context, from, to time.Time) ([]models.Reservation, error) {
	reservations, err := s.reservationRepo.GetReservations(ctx, models.ReservationFilters{DateFrom: &from, DateTo: &to})
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations from %s to %s: %w",
			from.Format(models.DateLayout), to.Format(models.DateLayout), err)
	}
	return reservations, nil
}

func (s *reportService) ListByDay(ctx context.Context, ref time.Time) ([]models.Reservation, error) {
	from, to := DayBounds(ref)
	return s.listBetween(ctx, from, to)
}

func (s *reportService) ListByWeek(ctx context.Context, ref time.Time) ([]models.Reservation, error) {
	from, to := WeekBounds(ref)
	return s.listBetween(ctx, from, to)
}

func (s *reportService) ListByMonth(ctx context.Context, ref time.Time) ([]models.Reservation, error) {
	from, to := MonthBounds(ref)
	return s.listBetween(ctx, from, to)
}

func (s *reportService) ListByYear(ctx context.Context, year int) ([]models.Reservation, error) {
	if year < 1 {
		return nil, fmt.Errorf("%w: year must be positive", ErrValidation)
	}
	from, to := YearBounds(year)
	return s.listBetween(ctx, from, to)
}

// ListByClientSearch matches the criterion against client first and last names,
// and against the DNI when the criterion is an integer. A blank criterion matches nothing.
func (s *reportService) ListByClientSearch(ctx context.Context, criterion string) ([]models.Reservation, error) {
	criterion = strings.TrimSpace(criterion)
	if criterion == "" {
		return []models.Reservation{}, nil
	}

	filters := models.ReservationFilters{ClientTerm: &criterion}
	if dni, err := strconv.ParseInt(criterion, 10, 64); err == nil {
		filters.ClientDNI = &dni
	}
	reservations, err := s.reservationRepo.GetReservations(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search reservations by client: %w", err)
	}
	return reservations, nil
}

func (s *reportService) RevenueForDay(ctx context.Context, ref time.Time) (*models.RevenueReport, error) {
	from, to := DayBounds(ref)
	return s.revenue(ctx, models.PeriodDay, from, to)
}

func (s *reportService) RevenueForWeek(ctx context.Context, ref time.Time) (*models.RevenueReport, error) {
	from, to := WeekBounds(ref)
	return s.revenue(ctx, models.PeriodWeek, from, to)
}

func (s *reportService) RevenueForMonth(ctx context.Context, ref time.Time) (*models.RevenueReport, error) {
	from, to := MonthBounds(ref)
	return s.revenue(ctx, models.PeriodMonth, from, to)
}

func (s *reportService) RevenueForYear(ctx context.Context, year int) (*models.RevenueReport, error) {
	if year < 1 {
		return nil, fmt.Errorf("%w: year must be positive", ErrValidation)
	}
	if current := s.now().Year(); year > current {
		return nil, fmt.Errorf("%w: %d is after %d", ErrFutureYear, year, current)
	}
	from, to := YearBounds(year)
	return s.revenue(ctx, models.PeriodYear, from, to)
}

// revenue sums court prices (not per-player prices) of the reservations in [from, to].
func (s *reportService) revenue(ctx context.Context, period string, from, to time.Time) (*models.RevenueReport, error) {
	report := &models.RevenueReport{
		Period: period,
		From:   from.Format(models.DateLayout),
		To:     to.Format(models.DateLayout),
	}
	key := period + ":" + report.From + ":" + report.To
	total, entry, ok := s.revenueCache.Get(ctx, key)
	if ok {
		report.Total = total
		return report, nil
	}

	reservations, err := s.listBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	report.Total = SumCourtPrices(reservations)
	// entry is pinned to the version seen before listing; a write that commits
	// meanwhile retires it.
	s.revenueCache.Set(ctx, entry, report.Total)
	return report, nil
}

// SumCourtPrices adds up the court price of every reservation. An empty slice sums to zero.
func SumCourtPrices(reservations []models.Reservation) decimal.Decimal {
	total := decimal.Zero
	for _, r := range reservations {
		if r.Court != nil {
			total = total.Add(r.Court.Price)
		}
	}
	return total
}
