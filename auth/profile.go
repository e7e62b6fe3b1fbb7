package auth

import (
	"context"
	"log"
	"net/http"
	"time"

	"agriconnect/db"
	"agriconnect/filemgr"
	"agriconnect/middleware"
	"agriconnect/models"
	"agriconnect/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// GET /api/users/profile
func GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// PUT /api/users/profile (multipart, optional picture)
func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	for field, key := range map[string]string{
		"name":           "name",
		"farmName":       "farmName",
		"location":       "location",
		"specialization": "specialization",
		"phoneNumber":    "phoneNumber",
		"bio":            "bio",
	} {
		if v := r.FormValue(field); v != "" {
			set[key] = v
		}
	}

	if r.MultipartForm != nil && len(r.MultipartForm.File["profilePicture"]) > 0 {
		name, err := filemgr.SaveFormFile(r.MultipartForm, "profilePicture", filemgr.EntityProfile, filemgr.KindImage)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		set["profilePicture"] = name
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.UserCollection.UpdateOne(ctx, bson.M{"userid": userID}, bson.M{"$set": set})
	if err != nil {
		log.Printf("update profile %s: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	var user models.User
	_ = db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user)
	utils.RespondWithJSON(w, http.StatusOK, user)
}
