package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"canchas_backend/internal/cache"
	"canchas_backend/internal/config"
	"canchas_backend/internal/events"
	"canchas_backend/internal/events/eventstest"
	"canchas_backend/internal/handlers"
	"canchas_backend/internal/repositories"
	"canchas_backend/internal/services"
	"canchas_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	adminEmail    = "admin@canchas.test"
	adminPassword = "cancha-secreta"
)

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func newTestAPI(t *testing.T) (*apiClient, *eventstest.Recorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := handlers.RegisterValidators(); err != nil {
		t.Fatalf("RegisterValidators: %v", err)
	}

	tokens, err := utils.NewTokenManager("router-test-secret-value", time.Hour, "canchas-test")
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	repos := repositories.NewMemorySet(repositories.NewMemoryStore())
	err = services.NewAuthService(repos.Auth, tokens).EnsureAdministrator(context.Background(), services.RegisterAdministratorRequest{
		Email: adminEmail, Password: adminPassword, FirstName: "Ada", LastName: "Admin",
	})
	if err != nil {
		t.Fatalf("EnsureAdministrator: %v", err)
	}

	recorder := &eventstest.Recorder{}
	now := time.Date(2025, time.May, 9, 15, 30, 0, 0, time.UTC)
	engine := gin.New()
	Setup(engine, Dependencies{
		Repos:        repos,
		Tokens:       tokens,
		Publisher:    recorder,
		RevenueCache: cache.NewMemoryRevenueCache(),
		RateLimit:    config.RateLimitConfig{Enabled: false},
		Clock:        func() time.Time { return now },
	})
	return &apiClient{t: t, engine: engine}, recorder
}

func (a *apiClient) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *apiClient) decode(w *httptest.ResponseRecorder, wantStatus int, into interface{}) {
	a.t.Helper()
	if w.Code != wantStatus {
		a.t.Fatalf("status = %d, want %d (body %s)", w.Code, wantStatus, w.Body.String())
	}
	if into != nil {
		if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
			a.t.Fatalf("decode %s: %v", w.Body.String(), err)
		}
	}
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (a *apiClient) login() {
	a.t.Helper()
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	a.decode(a.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": adminEmail, "password": adminPassword,
	}), http.StatusOK, &resp)
	if resp.AccessToken == "" || resp.TokenType != "Bearer" {
		a.t.Fatalf("login response = %+v", resp)
	}
	a.token = resp.AccessToken
}

type idBody struct {
	ID int64 `json:"id"`
}

func (a *apiClient) seedCatalog() (courtID, clientID int64) {
	a.t.Helper()
	var sport, court, client idBody
	a.decode(a.do(http.MethodPost, "/api/v1/sports", map[string]interface{}{
		"name": "Paddle", "players_per_match": 4,
	}), http.StatusCreated, &sport)
	a.decode(a.do(http.MethodPost, "/api/v1/courts", map[string]interface{}{
		"name": "Cancha 1", "price": "100.00", "sport_id": sport.ID,
	}), http.StatusCreated, &court)
	a.decode(a.do(http.MethodPost, "/api/v1/clients", map[string]interface{}{
		"first_name": "Juan", "last_name": "Perez", "dni": 30111222,
	}), http.StatusCreated, &client)
	return court.ID, client.ID
}

func TestLogin(t *testing.T) {
	api, _ := newTestAPI(t)

	var failed errorBody
	api.decode(api.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": adminEmail, "password": "wrong-password",
	}), http.StatusUnauthorized, &failed)
	if failed.Error.Code != utils.ErrCodeUnauthorized {
		t.Errorf("code = %q", failed.Error.Code)
	}

	api.decode(api.do(http.MethodGet, "/api/v1/reservations", nil), http.StatusUnauthorized, nil)

	api.login()
	var me struct {
		Email string `json:"email"`
	}
	api.decode(api.do(http.MethodGet, "/api/v1/auth/me", nil), http.StatusOK, &me)
	if me.Email != adminEmail {
		t.Errorf("me = %+v", me)
	}
}

func TestReservationLifecycle(t *testing.T) {
	api, recorder := newTestAPI(t)
	api.login()
	courtID, clientID := api.seedCatalog()

	booking := map[string]interface{}{
		"client_id": clientID, "court_id": courtID, "date": "2025-05-10", "time": "18:00",
	}
	var confirmation struct {
		Reservation    idBody          `json:"reservation"`
		PricePerPlayer decimal.Decimal `json:"price_per_player"`
		Message        string          `json:"message"`
	}
	api.decode(api.do(http.MethodPost, "/api/v1/reservations", booking), http.StatusCreated, &confirmation)
	if !confirmation.PricePerPlayer.Equal(decimal.NewFromInt(25)) {
		t.Errorf("price_per_player = %s, want 25", confirmation.PricePerPlayer)
	}
	if !bytes.Contains([]byte(confirmation.Message), []byte("$25.00")) {
		t.Errorf("message = %q", confirmation.Message)
	}

	var conflict errorBody
	api.decode(api.do(http.MethodPost, "/api/v1/reservations", booking), http.StatusConflict, &conflict)
	if conflict.Error.Code != utils.ErrCodeSlotAlreadyBooked {
		t.Errorf("conflict code = %q", conflict.Error.Code)
	}

	var past errorBody
	api.decode(api.do(http.MethodPost, "/api/v1/reservations", map[string]interface{}{
		"client_id": clientID, "court_id": courtID, "date": "2025-05-01", "time": "18:00",
	}), http.StatusBadRequest, &past)
	if past.Error.Code != utils.ErrCodePastDate {
		t.Errorf("past date code = %q", past.Error.Code)
	}

	var badTime errorBody
	api.decode(api.do(http.MethodPost, "/api/v1/reservations", map[string]interface{}{
		"client_id": clientID, "court_id": courtID, "date": "2025-05-10", "time": "7pm",
	}), http.StatusBadRequest, &badTime)
	if badTime.Error.Code != utils.ErrCodeInvalidTimeFormat {
		t.Errorf("bad time code = %q", badTime.Error.Code)
	}

	api.decode(api.do(http.MethodPost, "/api/v1/reservations", map[string]interface{}{
		"client_id": clientID, "court_id": courtID, "date": "10/05/2025", "time": "18:00",
	}), http.StatusBadRequest, nil)

	var week struct {
		Total int `json:"total"`
	}
	api.decode(api.do(http.MethodGet, "/api/v1/reservations/by-week?date=2025-05-07", nil), http.StatusOK, &week)
	if week.Total != 1 {
		t.Errorf("by-week total = %d, want 1", week.Total)
	}

	var search struct {
		Total int `json:"total"`
	}
	api.decode(api.do(http.MethodGet, "/api/v1/reservations/search?criterion=30111222", nil), http.StatusOK, &search)
	if search.Total != 1 {
		t.Errorf("search total = %d, want 1", search.Total)
	}

	var revenue struct {
		Total decimal.Decimal `json:"total"`
		From  string          `json:"from"`
	}
	api.decode(api.do(http.MethodGet, "/api/v1/reports/revenue/month", nil), http.StatusOK, &revenue)
	if !revenue.Total.Equal(decimal.NewFromInt(100)) || revenue.From != "2025-05-01" {
		t.Errorf("month revenue = %+v", revenue)
	}

	var future errorBody
	api.decode(api.do(http.MethodGet, "/api/v1/reports/revenue/year?year=2026", nil), http.StatusBadRequest, &future)
	if future.Error.Code != utils.ErrCodeFutureYear {
		t.Errorf("future year code = %q", future.Error.Code)
	}

	path := fmt.Sprintf("/api/v1/reservations/%d", confirmation.Reservation.ID)
	var updated struct {
		Message string `json:"message"`
	}
	booking["time"] = "19:00"
	api.decode(api.do(http.MethodPut, path, booking), http.StatusOK, &updated)
	if updated.Message != services.ReservationUpdatedMessage {
		t.Errorf("update message = %q", updated.Message)
	}

	api.decode(api.do(http.MethodDelete, path, nil), http.StatusOK, nil)
	var missing errorBody
	api.decode(api.do(http.MethodDelete, path, nil), http.StatusNotFound, &missing)
	if missing.Error.Code != utils.ErrCodeNotFound {
		t.Errorf("missing code = %q", missing.Error.Code)
	}

	got := recorder.Events()
	if len(got) != 3 || got[0].Type != events.ReservationCreated || got[1].Type != events.ReservationUpdated || got[2].Type != events.ReservationDeleted {
		t.Errorf("events = %+v", got)
	}
}

func TestCatalogConflicts(t *testing.T) {
	api, _ := newTestAPI(t)
	api.login()
	courtID, clientID := api.seedCatalog()

	api.decode(api.do(http.MethodPost, "/api/v1/clients", map[string]interface{}{
		"first_name": "Otro", "last_name": "Perez", "dni": 30111222,
	}), http.StatusConflict, nil)

	api.decode(api.do(http.MethodPost, "/api/v1/reservations", map[string]interface{}{
		"client_id": clientID, "court_id": courtID, "date": "2025-05-10", "time": "18:00",
	}), http.StatusCreated, nil)

	api.decode(api.do(http.MethodDelete, fmt.Sprintf("/api/v1/courts/%d", courtID), nil), http.StatusConflict, nil)
	api.decode(api.do(http.MethodGet, "/api/v1/clients/by-dni/30111222", nil), http.StatusOK, nil)
	api.decode(api.do(http.MethodGet, "/api/v1/clients/abc", nil), http.StatusBadRequest, nil)
}

func TestCourtEquipmentRoutes(t *testing.T) {
	api, _ := newTestAPI(t)
	api.login()
	courtID, _ := api.seedCatalog()

	var balls struct {
		ID    int64 `json:"id"`
		Stock int   `json:"stock"`
	}
	api.decode(api.do(http.MethodPost, "/api/v1/equipment", map[string]interface{}{
		"name": "Pelotas", "stock": 3,
	}), http.StatusCreated, &balls)
	api.decode(api.do(http.MethodPut, fmt.Sprintf("/api/v1/equipment/%d/stock/add", balls.ID), map[string]interface{}{
		"quantity": 2,
	}), http.StatusOK, &balls)
	if balls.Stock != 5 {
		t.Fatalf("stock = %d, want 5", balls.Stock)
	}
	api.decode(api.do(http.MethodPut, fmt.Sprintf("/api/v1/equipment/%d/stock/add", balls.ID), map[string]interface{}{
		"quantity": 0,
	}), http.StatusBadRequest, nil)

	var assignment struct {
		ID        int64 `json:"id"`
		Quantity  int   `json:"quantity"`
		Equipment struct {
			Stock int `json:"stock"`
		} `json:"equipment"`
	}
	api.decode(api.do(http.MethodPost, "/api/v1/court-equipment", map[string]interface{}{
		"court_id": courtID, "equipment_id": balls.ID, "quantity": 4,
	}), http.StatusCreated, &assignment)
	if assignment.Quantity != 4 || assignment.Equipment.Stock != 1 {
		t.Fatalf("assignment = %+v", assignment)
	}

	var errResp errorBody
	api.decode(api.do(http.MethodPut, fmt.Sprintf("/api/v1/court-equipment/%d/quantity/add", assignment.ID), map[string]interface{}{
		"quantity": 2,
	}), http.StatusConflict, &errResp)
	if errResp.Error.Code != utils.ErrCodeInsufficientStock {
		t.Errorf("code = %q", errResp.Error.Code)
	}

	var list struct {
		Total int `json:"total"`
	}
	api.decode(api.do(http.MethodGet, fmt.Sprintf("/api/v1/court-equipment?court_id=%d", courtID), nil), http.StatusOK, &list)
	if list.Total != 1 {
		t.Errorf("assignments of court = %d, want 1", list.Total)
	}
	api.decode(api.do(http.MethodGet, "/api/v1/court-equipment?court_id=x", nil), http.StatusBadRequest, nil)

	api.decode(api.do(http.MethodDelete, fmt.Sprintf("/api/v1/equipment/%d", balls.ID), nil), http.StatusConflict, nil)
	api.decode(api.do(http.MethodDelete, fmt.Sprintf("/api/v1/court-equipment/%d", assignment.ID), nil), http.StatusOK, nil)
	api.decode(api.do(http.MethodGet, fmt.Sprintf("/api/v1/equipment/%d", balls.ID), nil), http.StatusOK, &balls)
	if balls.Stock != 5 {
		t.Errorf("stock after unassigning = %d, want 5", balls.Stock)
	}
}
