package util

import (
	"learnsphere_backend/internal/model"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{
		Name:  "张三",
		Email: "zhangsan@example.com",
		Role:  model.Student,
	}
	user.ID = 42

	secret := "0123456789abcdef0123456789abcdef"

	token, err := GenerateJWT(user, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, secret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != model.Student {
		t.Errorf("Role = %q, want %q", claims.Role, model.Student)
	}
	if claims.Email != user.Email {
		t.Errorf("Email = %q, want %q", claims.Email, user.Email)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	user := &model.User{Role: model.Teacher}
	user.ID = 1

	token, err := GenerateJWT(user, "0123456789abcdef0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "wrong-secret-wrong-secret-wrong!"); err == nil {
		t.Fatal("expected error for wrong secret, got nil")
	}
}

func TestParseJWTExpired(t *testing.T) {
	user := &model.User{Role: model.Student}
	user.ID = 7

	token, err := GenerateJWT(user, "0123456789abcdef0123456789abcdef", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "0123456789abcdef0123456789abcdef"); err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
}
