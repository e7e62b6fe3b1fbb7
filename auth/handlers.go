package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"agriconnect/db"
	"agriconnect/globals"
	"agriconnect/middleware"
	"agriconnect/models"
	"agriconnect/rdx"
	"agriconnect/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 12 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

type registrationInput struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	FarmName       string `json:"farmName"`
	Location       string `json:"location"`
	Specialization string `json:"specialization"`
	PhoneNumber    string `json:"phoneNumber"`
	Bio            string `json:"bio"`
}

func (in *registrationInput) validate() string {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return "Name, email and password are required"
	}
	if in.Role != models.RoleFarmer && in.Role != models.RoleBuyer {
		return "Role must be farmer or buyer"
	}
	// farmName and location are mandatory for farmers only
	if in.Role == models.RoleFarmer && (in.FarmName == "" || in.Location == "") {
		return "Farm name and location are required for farmers"
	}
	return ""
}

func registerHandler(w http.ResponseWriter, r *http.Request) {
	var input registrationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if msg := input.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	err := db.UserCollection.FindOne(context.TODO(), bson.M{"email": email}).Err()
	if err == nil {
		utils.RespondWithError(w, http.StatusConflict, "User already exists")
		return
	} else if err != mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password for %s: %v", email, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not process password")
		return
	}

	now := time.Now()
	user := models.User{
		UserID:         utils.NewID("u"),
		Name:           input.Name,
		Email:          email,
		Password:       string(hashedPassword),
		Role:           input.Role,
		FarmName:       input.FarmName,
		Location:       input.Location,
		Specialization: input.Specialization,
		PhoneNumber:    input.PhoneNumber,
		Bio:            input.Bio,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := rdx.RdxSet(fmt.Sprintf("users:%s", user.UserID), user.Name); err != nil {
		log.Printf("Failed to cache username: %v", err)
	}

	if _, err := db.UserCollection.InsertOne(context.TODO(), user); err != nil {
		// The unique index on email catches two registrations racing
		// past the lookup above.
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "User already exists")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"userid": user.UserID,
		"name":   user.Name,
		"email":  user.Email,
		"role":   user.Role,
	})
}

func loginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var storedUser models.User
	err := db.UserCollection.FindOne(context.TODO(), bson.M{"email": strings.ToLower(input.Email)}).Decode(&storedUser)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedUser.Password), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tokenString, err := GenerateAccessToken(storedUser)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate refresh token")
		return
	}

	_, err = db.UserCollection.UpdateOne(
		context.TODO(),
		bson.M{"userid": storedUser.UserID},
		bson.M{"$set": bson.M{
			"refreshtoken":  hashToken(refreshToken),
			"refreshexpiry": time.Now().Add(refreshTokenTTL),
			"last_login":    time.Now(),
		}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store refresh token")
		return
	}

	if err := rdx.RdxHset("tokki", storedUser.UserID, tokenString); err != nil {
		log.Printf("Redis token storage failed: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"token":        tokenString,
		"refreshToken": refreshToken,
		"userid":       storedUser.UserID,
		"name":         storedUser.Name,
		"role":         storedUser.Role,
		"isVerified":   storedUser.IsVerified,
	})
}

func logoutHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	if _, err := rdx.RdxHdel("tokki", claims.UserID); err != nil {
		log.Printf("Error removing token from Redis: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Logged out"})
}

func refreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserID       string `json:"userid"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.UserID == "" || input.RefreshToken == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var storedUser models.User
	err := db.UserCollection.FindOne(context.TODO(), bson.M{"userid": input.UserID}).Decode(&storedUser)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	if storedUser.RefreshToken != hashToken(input.RefreshToken) || time.Now().After(storedUser.RefreshExpiry) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	tokenString, err := GenerateAccessToken(storedUser)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to refresh token")
		return
	}

	if err := rdx.RdxHset("tokki", storedUser.UserID, tokenString); err != nil {
		log.Printf("Error updating token in Redis: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"token": tokenString})
}

// GenerateAccessToken signs a short-lived JWT for a user.
func GenerateAccessToken(user models.User) (string, error) {
	claims := &middleware.Claims{
		Name:   user.Name,
		UserID: user.UserID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

func generateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
