package util

import (
	"bitbybit_backend/internal/model"
	"testing"
	"time"
)

func TestGenerateAndParseJWT(t *testing.T) {
	user := &model.User{
		Email:        "s@example.com",
		Role:         model.Student,
		TokenVersion: 3,
	}
	user.ID = 42

	token, err := GenerateJWT(user, "secret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseJWT(token, "secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Role != model.Student || claims.Email != "s@example.com" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.TokenVersion != 3 {
		t.Errorf("token_version = %d, want 3", claims.TokenVersion)
	}
}

func TestParseJWTRejectsBadInput(t *testing.T) {
	user := &model.User{Email: "s@example.com"}
	user.ID = 1

	token, err := GenerateJWT(user, "secret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseJWT(token, "other-secret"); err == nil {
		t.Error("token accepted with wrong secret")
	}
	if _, err := ParseJWT("not.a.token", "secret"); err == nil {
		t.Error("malformed token accepted")
	}

	expired, err := GenerateJWT(user, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("generate expired: %v", err)
	}
	if _, err := ParseJWT(expired, "secret"); err == nil {
		t.Error("expired token accepted")
	}
}
