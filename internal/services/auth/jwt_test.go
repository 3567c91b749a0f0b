package auth

import (
	"testing"
	"time"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	token, err := svc.GenerateToken(" owner@example.com ")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	email, err := svc.ParseEmail(token)
	if err != nil {
		t.Fatalf("ParseEmail failed: %v", err)
	}
	if email != "owner@example.com" {
		t.Errorf("expected owner@example.com, got %q", email)
	}
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	token, err := svc.GenerateToken("owner@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := NewJWTService("other", time.Hour).ParseEmail(token); err == nil {
		t.Error("expected wrong secret to be rejected")
	}

	expired := NewJWTService("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := expired.ParseEmail(token); err == nil {
		t.Error("expected expired token to be rejected")
	}

	if _, err := svc.GenerateToken("   "); err == nil {
		t.Error("expected empty email to be rejected")
	}
}
