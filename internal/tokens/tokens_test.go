package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/codocs/codocs/internal/config"
	"github.com/codocs/codocs/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateCollabToken_ValidAndClaims(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-32-bytes-should-be-long-enough"

	u := &models.User{Sub: "user-123", Name: "Test User", Email: "test@example.com"}
	tokenStr, err := GenerateCollabToken(cfg, u, "doc_abc", 2*time.Minute)
	if err != nil {
		t.Fatalf("GenerateCollabToken error: %v", err)
	}

	parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if !parsed.Valid {
		t.Fatalf("token should be valid")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("claims type assertion failed")
	}
	if claims["sub"] != u.Sub {
		t.Fatalf("unexpected sub claim: got=%v want=%v", claims["sub"], u.Sub)
	}
	if claims["doc"] != "doc_abc" {
		t.Fatalf("unexpected doc claim: got=%v", claims["doc"])
	}
	if claims["name"] != "Test User" {
		t.Fatalf("unexpected name claim: got=%v", claims["name"])
	}
}

func TestGenerateCollabToken_NameFallsBackToEmailLocalPart(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "another-secret-32-bytes-longgggg"
	u := &models.User{Sub: "u2", Email: "alice@example.com"}
	tokenStr, err := GenerateCollabToken(cfg, u, "d1", time.Minute)
	if err != nil {
		t.Fatalf("GenerateCollabToken error: %v", err)
	}
	parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) { return []byte(cfg.JWT.Secret), nil })
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["name"] != "alice" {
		t.Fatalf("expected display name fallback, got %v", claims["name"])
	}
}

func TestGenerateCollabToken_Expiry(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "expiry-secret-32-bytes-xxxxxxxxxx"
	u := &models.User{Sub: "u3", Name: "X", Email: "x@x"}
	tokenStr, err := GenerateCollabToken(cfg, u, "d2", 1*time.Second)
	if err != nil {
		t.Fatalf("GenerateCollabToken error: %v", err)
	}
	time.Sleep(2 * time.Second)
	_, err = jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) { return []byte(cfg.JWT.Secret), nil })
	if err == nil {
		t.Fatalf("expected token parse to fail after expiry")
	}
}

func TestGenerateCollabToken_TamperedPayload(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "tamper-test-secret-32-bytes-xxxxxxx"
	u := &models.User{Sub: "user-t", Name: "Tamper", Email: "t@example.com"}
	tokenStr, err := GenerateCollabToken(cfg, u, "doc-t", 5*time.Minute)
	if err != nil {
		t.Fatalf("GenerateCollabToken error: %v", err)
	}
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token parts")
	}
	payloadBytes, _ := jwt.NewParser().DecodeSegment(parts[1])
	payloadStr := strings.Replace(string(payloadBytes), "doc-t", "doc-other", 1)
	parts[1] = (&jwt.Token{}).EncodeSegment([]byte(payloadStr))
	tampered := strings.Join(parts, ".")
	_, err = jwt.Parse(tampered, func(token *jwt.Token) (interface{}, error) { return []byte(cfg.JWT.Secret), nil })
	if err == nil {
		t.Fatalf("expected signature verification to fail for tampered token")
	}
}
