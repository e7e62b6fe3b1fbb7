package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agriconnect/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
)

func signedToken(t *testing.T, userID string) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		Role:   "buyer",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func withSession(t *testing.T, fn func(string) (string, error)) {
	t.Helper()
	orig := fetchSessionToken
	fetchSessionToken = fn
	t.Cleanup(func() { fetchSessionToken = orig })
}

func TestAuthenticateAcceptsActiveSession(t *testing.T) {
	token := signedToken(t, "u1")
	withSession(t, func(string) (string, error) { return token, nil })

	called := false
	h := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
		if id, _ := RequesterID(r); id != "u1" {
			t.Errorf("requester id = %q", id)
		}
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	h(w, r, nil)

	if !called || w.Code != http.StatusOK {
		t.Fatalf("called=%v code=%d", called, w.Code)
	}
}

func TestAuthenticateRejectsLoggedOutToken(t *testing.T) {
	token := signedToken(t, "u1")
	withSession(t, func(string) (string, error) { return "", redis.Nil })

	h := Authenticate(func(http.ResponseWriter, *http.Request, httprouter.Params) {
		t.Error("handler reached with a logged-out token")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	h(w, r, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", w.Code)
	}
}

func TestAuthenticateRejectsSupersededToken(t *testing.T) {
	old := signedToken(t, "u1")
	withSession(t, func(string) (string, error) { return "a-newer-login", nil })

	h := Authenticate(func(http.ResponseWriter, *http.Request, httprouter.Params) {
		t.Error("handler reached with a superseded token")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+old)
	h(w, r, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", w.Code)
	}
}

func TestSessionActiveSurvivesCacheOutage(t *testing.T) {
	withSession(t, func(string) (string, error) { return "", errors.New("connection refused") })

	if !SessionActive("u1", "whatever") {
		t.Fatal("cache outage must not lock out valid tokens")
	}
}
