package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"agriconnect/globals"
	"agriconnect/rdx"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
)

// JWT claims
type Claims struct {
	Name   string `json:"name"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if websocket.IsWebSocketUpgrade(r) {
			// WebSocket requests carry the token as a query param,
			// validated in the chat handler.
			next(w, r, ps)
			return
		}

		claims, err := ValidateJWT(r.Header.Get("Authorization"))
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !SessionActive(claims.UserID, raw) {
			http.Error(w, "Session expired", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, globals.RoleKey, claims.Role)
		next(w, r.WithContext(ctx), ps)
	}
}

// fetchSessionToken is swapped out in tests.
var fetchSessionToken = func(userID string) (string, error) {
	return rdx.RdxHget("tokki", userID)
}

// SessionActive reports whether token is the one stored for the user
// at login. Logout deletes the stored entry, which invalidates the
// token before its JWT expiry. An unreachable cache counts as active.
func SessionActive(userID, token string) bool {
	cached, err := fetchSessionToken(userID)
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Printf("session cache for %s: %v", userID, err)
		return true
	}
	return cached == token
}

// ValidateJWT parses a "Bearer ..." header value and returns its claims.
func ValidateJWT(header string) (*Claims, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, fmt.Errorf("invalid token format")
	}
	return ParseToken(strings.TrimPrefix(header, "Bearer "))
}

// ParseToken validates a raw token string.
func ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("unauthorized: token invalid")
	}
	return claims, nil
}

// RequesterID pulls the authenticated user id out of the request context.
func RequesterID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(globals.UserIDKey).(string)
	return id, ok && id != ""
}

// RequesterRole pulls the authenticated role out of the request context.
func RequesterRole(r *http.Request) string {
	role, _ := r.Context().Value(globals.RoleKey).(string)
	return role
}
