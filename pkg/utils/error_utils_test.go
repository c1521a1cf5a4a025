package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRespondValidationFailed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondValidationFailed(c, "court_id must be a positive integer")

	if w.Code != http.StatusBadRequest || !c.IsAborted() {
		t.Fatalf("status = %d, aborted = %v", w.Code, c.IsAborted())
	}
	var body struct {
		Error APIError `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %s: %v", w.Body, err)
	}
	if body.Error.Code != ErrCodeValidationFailed || body.Error.Details != "court_id must be a positive integer" {
		t.Errorf("error body = %+v", body.Error)
	}
	if strings.Contains(w.Body.String(), "StatusCode") {
		t.Errorf("status code leaked into body: %s", w.Body)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	var err error = NewAPIError(http.StatusConflict, ErrCodeSlotAlreadyBooked, "slot taken", "")
	if err.Error() != "SLOT_ALREADY_BOOKED: slot taken" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestValidators(t *testing.T) {
	if !IsBlank(" \t") || IsBlank(" a ") {
		t.Error("IsBlank")
	}
	for email, want := range map[string]bool{
		" Admin@Canchas.Club ": true,
		"a@b.c":                false,
		"no-at.example.com":    false,
	} {
		if got := IsValidEmail(email); got != want {
			t.Errorf("IsValidEmail(%q) = %v", email, got)
		}
	}
	if !IsAcceptablePassword("contraseña", 10) {
		t.Error("multi-byte password counted in bytes")
	}
	if IsAcceptablePassword("short", 8) || IsAcceptablePassword(strings.Repeat("x", 73), 8) {
		t.Error("out-of-range password accepted")
	}
}
