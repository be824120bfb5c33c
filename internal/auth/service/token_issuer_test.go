package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avolkov/bloglist/internal/common/clock"
)

func TestIssueToken_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 0, clock.NewMockClock(testTime))

	token, err := issuer.IssueToken(storedUser())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	claims, err := issuer.ParseToken(token)
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}
	if claims.UserID != "user-1" || claims.Username != "alice" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestIssueToken_ZeroTTLOmitsExpiry(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 0, clock.NewMockClock(testTime))

	token, err := issuer.IssueToken(storedUser())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("expected token to parse, got %v", err)
	}

	mapClaims := parsed.Claims.(jwt.MapClaims)
	if _, hasExp := mapClaims["exp"]; hasExp {
		t.Error("zero ttl must omit the exp claim")
	}
	if iat, _ := mapClaims["iat"].(float64); int64(iat) != testTime.Unix() {
		t.Errorf("expected iat from the injected clock, got %v", mapClaims["iat"])
	}
}

func TestIssueToken_PositiveTTLSetsExpiry(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour, clock.NewMockClock(testTime))

	token, err := issuer.IssueToken(storedUser())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("expected token to parse, got %v", err)
	}

	mapClaims := parsed.Claims.(jwt.MapClaims)
	exp, ok := mapClaims["exp"].(float64)
	if !ok {
		t.Fatal("expected an exp claim")
	}
	if int64(exp) != testTime.Add(time.Hour).Unix() {
		t.Errorf("unexpected exp: %v", exp)
	}
}

func TestParseToken_RejectsOtherSecret(t *testing.T) {
	token, err := NewTokenIssuer(testSecret, 0, clock.NewMockClock(testTime)).IssueToken(storedUser())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	other := NewTokenIssuer("another-secret-value-of-32-bytes", 0, clock.NewMockClock(testTime))
	if _, err := other.ParseToken(token); err == nil {
		t.Fatal("expected verification failure with a different secret")
	}
}
