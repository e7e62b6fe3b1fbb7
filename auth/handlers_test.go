package auth

import (
	"testing"

	"agriconnect/middleware"
	"agriconnect/models"
)

func TestRegistrationInputValidate(t *testing.T) {
	base := registrationInput{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret123",
		Role:     models.RoleBuyer,
	}

	if msg := base.validate(); msg != "" {
		t.Errorf("valid buyer input rejected: %s", msg)
	}

	missing := base
	missing.Email = ""
	if missing.validate() == "" {
		t.Error("missing email should be rejected")
	}

	badRole := base
	badRole.Role = "admin"
	if badRole.validate() == "" {
		t.Error("self-registering as admin should be rejected")
	}

	farmer := base
	farmer.Role = models.RoleFarmer
	if farmer.validate() == "" {
		t.Error("farmer without farm name and location should be rejected")
	}

	farmer.FarmName = "Green Acres"
	farmer.Location = "Nakuru"
	if msg := farmer.validate(); msg != "" {
		t.Errorf("valid farmer input rejected: %s", msg)
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	user := models.User{
		UserID: "u12345",
		Name:   "Asha",
		Role:   models.RoleFarmer,
	}

	token, err := GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := middleware.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != user.UserID || claims.Role != user.Role || claims.Name != user.Name {
		t.Errorf("claims mismatch: %+v", claims)
	}

	if _, err := middleware.ValidateJWT("Bearer " + token); err != nil {
		t.Errorf("ValidateJWT with bearer prefix: %v", err)
	}
	if _, err := middleware.ValidateJWT(token); err == nil {
		t.Error("header without Bearer prefix should be rejected")
	}
}

func TestHashTokenStable(t *testing.T) {
	a := hashToken("tok-1")
	if a != hashToken("tok-1") {
		t.Error("hash must be deterministic")
	}
	if a == hashToken("tok-2") {
		t.Error("different tokens should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestGenerateRefreshToken(t *testing.T) {
	a, err := generateRefreshToken()
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 64 {
		t.Errorf("refresh token length = %d, want 64", len(a))
	}
	b, _ := generateRefreshToken()
	if a == b {
		t.Error("refresh tokens must be unique")
	}
}
