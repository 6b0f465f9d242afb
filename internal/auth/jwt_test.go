package auth

import (
	"testing"

	"pos-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestGenerateTokenRoundTrip(t *testing.T) {
	user := &models.User{
		ID:       42,
		Username: "kofi",
		Role:     models.RoleManager,
	}

	tokenStr, err := GenerateToken(testSecret, user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if !token.Valid {
		t.Fatal("token should be valid")
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "kofi" {
		t.Errorf("Username = %q, want kofi", claims.Username)
	}
	if claims.Role != models.RoleManager {
		t.Errorf("Role = %q, want manager", claims.Role)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		t.Error("token should expire after issue time")
	}
}

func TestGenerateTokenWrongSecret(t *testing.T) {
	user := &models.User{ID: 1, Username: "ama", Role: models.RoleCashier}

	tokenStr, err := GenerateToken(testSecret, user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	_, err = jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret-wrong-secret-wrong!"), nil
	})
	if err == nil {
		t.Error("token signed with a different secret must fail verification")
	}
}
