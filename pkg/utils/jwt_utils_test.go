package utils

import (
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123"

func TestTokenRoundTrip(t *testing.T) {
	m, err := NewTokenManager(testSecret, time.Hour, "canchas-test")
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	token, err := m.GenerateAccessToken(7, "admin@canchas.test", RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "admin@canchas.test" || claims.Role != RoleAdmin || claims.Subject != "7" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokenRejections(t *testing.T) {
	m, _ := NewTokenManager(testSecret, time.Hour, "canchas-test")
	token, _ := m.GenerateAccessToken(1, "a@b.test", RoleAdmin)

	other, _ := NewTokenManager("another-secret-of-16+", time.Hour, "canchas-test")
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token accepted with a different secret")
	}

	foreign, _ := NewTokenManager(testSecret, time.Hour, "someone-else")
	if _, err := foreign.ValidateToken(token); err == nil {
		t.Error("token accepted with a different issuer")
	}

	later := *m
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := later.ValidateToken(token); err == nil {
		t.Error("expired token accepted")
	}

	if _, err := m.ValidateToken("not-a-jwt"); err == nil {
		t.Error("garbage accepted")
	}
}

func TestNewTokenManager(t *testing.T) {
	if _, err := NewTokenManager("short", time.Hour, "x"); err == nil {
		t.Error("short secret accepted")
	}
	m, err := NewTokenManager(testSecret, 0, "x")
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	if m.TTL() != DefaultAccessTokenTTL {
		t.Errorf("TTL = %v, want %v", m.TTL(), DefaultAccessTokenTTL)
	}
}
