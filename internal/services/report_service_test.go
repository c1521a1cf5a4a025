package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"canchas_backend/internal/models"
	"canchas_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRevenueForMonth(t *testing.T) {
	env := newTestEnv(t)
	secondCourt := env.addCourt(t, "Cancha 2", "80", &env.sport.ID)
	env.book(t, env.client.ID, env.court.ID, "2025-05-10", "18:00")
	env.book(t, env.client.ID, secondCourt.ID, "2025-05-31", "21:00")
	env.book(t, env.client.ID, env.court.ID, "2025-06-01", "10:00")

	report, err := env.reports.RevenueForMonth(env.ctx, day("2025-05-20"))
	if err != nil {
		t.Fatalf("RevenueForMonth: %v", err)
	}
	if !report.Total.Equal(decimal.NewFromInt(180)) {
		t.Errorf("May total = %s, want 180", report.Total)
	}
	if report.From != "2025-05-01" || report.To != "2025-05-31" || report.Period != models.PeriodMonth {
		t.Errorf("report window = %+v", report)
	}

	empty, err := env.reports.RevenueForMonth(env.ctx, day("2025-07-15"))
	if err != nil {
		t.Fatalf("RevenueForMonth (July): %v", err)
	}
	if !empty.Total.IsZero() {
		t.Errorf("July total = %s, want 0", empty.Total)
	}
}

func TestRevenueCacheInvalidatedByWrites(t *testing.T) {
	env := newTestEnv(t)
	env.book(t, env.client.ID, env.court.ID, "2025-05-10", "18:00")

	first, err := env.reports.RevenueForWeek(env.ctx, day("2025-05-09"))
	if err != nil {
		t.Fatalf("RevenueForWeek: %v", err)
	}
	if !first.Total.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("week total = %s, want 100", first.Total)
	}

	other := env.addClient(t, "Maria", "Lopez", 28999111)
	second := env.book(t, other.ID, env.court.ID, "2025-05-11", "18:00")

	after, err := env.reports.RevenueForWeek(env.ctx, day("2025-05-09"))
	if err != nil {
		t.Fatalf("RevenueForWeek after booking: %v", err)
	}
	if !after.Total.Equal(decimal.NewFromInt(200)) {
		t.Errorf("week total after booking = %s, want 200", after.Total)
	}

	if err := env.reservations.DeleteReservation(env.ctx, second.Reservation.ID); err != nil {
		t.Fatalf("DeleteReservation: %v", err)
	}
	afterDelete, err := env.reports.RevenueForWeek(env.ctx, day("2025-05-09"))
	if err != nil {
		t.Fatalf("RevenueForWeek after delete: %v", err)
	}
	if !afterDelete.Total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("week total after delete = %s, want 100", afterDelete.Total)
	}
}

func TestRevenueForYear(t *testing.T) {
	env := newTestEnv(t)
	env.book(t, env.client.ID, env.court.ID, "2025-12-31", "23:00")

	report, err := env.reports.RevenueForYear(env.ctx, 2025)
	if err != nil {
		t.Fatalf("RevenueForYear: %v", err)
	}
	if !report.Total.Equal(decimal.NewFromInt(100)) || report.From != "2025-01-01" || report.To != "2025-12-31" {
		t.Errorf("2025 report = %+v", report)
	}

	if _, err := env.reports.RevenueForYear(env.ctx, 2026); !errors.Is(err, ErrFutureYear) {
		t.Errorf("2026 error = %v, want ErrFutureYear", err)
	}
	if _, err := env.reports.RevenueForYear(env.ctx, 0); !errors.Is(err, ErrValidation) {
		t.Errorf("year 0 error = %v, want ErrValidation", err)
	}

	past, err := env.reports.RevenueForYear(env.ctx, 2019)
	if err != nil {
		t.Fatalf("RevenueForYear(2019): %v", err)
	}
	if !past.Total.IsZero() {
		t.Errorf("2019 total = %s, want 0", past.Total)
	}
}

func TestListByPeriod(t *testing.T) {
	env := newTestEnv(t)
	env.book(t, env.client.ID, env.court.ID, "2025-05-11", "18:00") // Sunday
	env.book(t, env.client.ID, env.court.ID, "2025-05-12", "18:00") // Monday
	env.book(t, env.client.ID, env.court.ID, "2025-05-18", "09:00") // Sunday
	env.book(t, env.client.ID, env.court.ID, "2025-05-19", "18:00") // next Monday

	tests := []struct {
		name string
		list func() ([]models.Reservation, error)
		want []string
	}{
		{"day", func() ([]models.Reservation, error) { return env.reports.ListByDay(env.ctx, day("2025-05-12")) },
			[]string{"2025-05-12"}},
		{"week from wednesday", func() ([]models.Reservation, error) { return env.reports.ListByWeek(env.ctx, day("2025-05-14")) },
			[]string{"2025-05-12", "2025-05-18"}},
		{"week from sunday", func() ([]models.Reservation, error) { return env.reports.ListByWeek(env.ctx, day("2025-05-11")) },
			[]string{"2025-05-11"}},
		{"month", func() ([]models.Reservation, error) { return env.reports.ListByMonth(env.ctx, day("2025-05-01")) },
			[]string{"2025-05-11", "2025-05-12", "2025-05-18", "2025-05-19"}},
		{"year", func() ([]models.Reservation, error) { return env.reports.ListByYear(env.ctx, 2024) },
			nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.list()
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d reservations, want %d", len(got), len(tt.want))
			}
			for i, r := range got {
				if d := r.Date.Format(models.DateLayout); d != tt.want[i] {
					t.Errorf("reservation %d on %s, want %s", i, d, tt.want[i])
				}
				if r.Client == nil || r.Court == nil {
					t.Errorf("reservation %d not hydrated", r.ID)
				}
			}
		})
	}
}

func TestListByClientSearch(t *testing.T) {
	env := newTestEnv(t)
	ana := env.addClient(t, "Ana", "Gomez", 42)
	env.book(t, ana.ID, env.court.ID, "2025-05-10", "10:00")
	env.book(t, env.client.ID, env.court.ID, "2025-05-10", "11:00")

	tests := []struct {
		criterion string
		want      int
	}{
		{"42", 1},
		{"gom", 1},
		{"PEREZ", 1},
		{"e", 2},
		{"   ", 0},
		{"", 0},
		{"nobody", 0},
	}
	for _, tt := range tests {
		got, err := env.reports.ListByClientSearch(env.ctx, tt.criterion)
		if err != nil {
			t.Fatalf("ListByClientSearch(%q): %v", tt.criterion, err)
		}
		if got == nil {
			t.Errorf("ListByClientSearch(%q) returned nil, want an empty list", tt.criterion)
		}
		if len(got) != tt.want {
			t.Errorf("ListByClientSearch(%q) = %d reservations, want %d", tt.criterion, len(got), tt.want)
		}
	}
}

func TestSumCourtPrices(t *testing.T) {
	reservations := []models.Reservation{
		{Court: &models.Court{Price: decimal.RequireFromString("100.50")}},
		{Court: &models.Court{Price: decimal.RequireFromString("80.25")}},
	}
	if got := SumCourtPrices(reservations); !got.Equal(decimal.RequireFromString("180.75")) {
		t.Errorf("SumCourtPrices = %s, want 180.75", got)
	}
	if got := SumCourtPrices(nil); !got.IsZero() {
		t.Errorf("SumCourtPrices(nil) = %s, want 0", got)
	}
}

func TestRevenueCacheInvalidatedByCourtPriceChange(t *testing.T) {
	env := newTestEnv(t)
	env.book(t, env.client.ID, env.court.ID, "2025-05-10", "18:00")

	before, err := env.reports.RevenueForMonth(env.ctx, day("2025-05-10"))
	if err != nil {
		t.Fatalf("RevenueForMonth: %v", err)
	}
	if !before.Total.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("May total = %s, want 100", before.Total)
	}

	courts := NewCourtService(env.store, env.store, env.revenue)
	if _, err := courts.UpdateCourt(env.ctx, env.court.ID, CourtRequest{
		Name: "Cancha 1", Price: decimal.RequireFromString("300"), SportID: &env.sport.ID,
	}); err != nil {
		t.Fatalf("UpdateCourt: %v", err)
	}

	after, err := env.reports.RevenueForMonth(env.ctx, day("2025-05-10"))
	if err != nil {
		t.Fatalf("RevenueForMonth after price change: %v", err)
	}
	if !after.Total.Equal(decimal.NewFromInt(300)) {
		t.Errorf("May total after price change = %s, want 300", after.Total)
	}
}

// bookingDuringList commits a booking right after the first listing is read,
// before the report has stored its total.
type bookingDuringList struct {
	repositories.ReservationRepository
	once   sync.Once
	commit func()
}

func (r *bookingDuringList) GetReservations(ctx context.Context, filters models.ReservationFilters) ([]models.Reservation, error) {
	list, err := r.ReservationRepository.GetReservations(ctx, filters)
	r.once.Do(r.commit)
	return list, err
}

func TestRevenueCacheKeepsBookingCommittedWhileSumming(t *testing.T) {
	env := newTestEnv(t)
	repo := &bookingDuringList{
		ReservationRepository: env.store,
		commit: func() {
			env.book(t, env.client.ID, env.court.ID, "2025-05-10", "18:00")
		},
	}
	reports := NewReportService(repo, env.revenue, fixedClock(testNow))

	first, err := reports.RevenueForMonth(env.ctx, day("2025-05-10"))
	if err != nil {
		t.Fatalf("RevenueForMonth: %v", err)
	}
	if !first.Total.IsZero() {
		t.Fatalf("first total = %s, want 0 (listed before the booking)", first.Total)
	}

	second, err := reports.RevenueForMonth(env.ctx, day("2025-05-10"))
	if err != nil {
		t.Fatalf("RevenueForMonth again: %v", err)
	}
	if !second.Total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("second total = %s, want 100", second.Total)
	}
}
