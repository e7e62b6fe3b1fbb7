package verification

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"agriconnect/db"
	"agriconnect/filemgr"
	"agriconnect/middleware"
	"agriconnect/models"
	"agriconnect/notifications"
	"agriconnect/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// POST /api/users/verification (farmer only)
func SubmitVerification(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if middleware.RequesterRole(r) != models.RoleFarmer {
		utils.RespondWithError(w, http.StatusForbidden, "Only farmers can request verification")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	docType := r.FormValue("documentType")
	if !utils.ContainsString(models.DocumentTypes, docType) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid document type")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pending, err := db.VerificationCollection.CountDocuments(ctx,
		bson.M{"farmer": userID, "status": models.VerificationPending})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to submit verification")
		return
	}
	if pending > 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "A verification request is already pending")
		return
	}

	docs, err := filemgr.SaveFormFiles(r.MultipartForm, "documents", filemgr.EntityVerification, filemgr.KindDocument, 3)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(docs) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "At least one document is required")
		return
	}

	v := models.Verification{
		VerificationID: utils.NewID("v"),
		Farmer:         userID,
		DocumentType:   docType,
		DocumentImages: docs,
		Status:         models.VerificationPending,
		SubmittedAt:    time.Now(),
	}

	if _, err := db.VerificationCollection.InsertOne(ctx, v); err != nil {
		log.Printf("submit verification: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to submit verification")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, v)
}

// GET /api/users/verification
func GetVerificationStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	var v models.Verification
	if err := db.VerificationCollection.FindOne(ctx, bson.M{"farmer": userID}, opts).Decode(&v); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "No verification request found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, v)
}

// PUT /api/admin/users/:id/review
func ReviewVerification(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reviewerID, ok := middleware.RequesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if middleware.RequesterRole(r) != models.RoleAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "Only admins can review verifications")
		return
	}

	var input struct {
		Status      string `json:"status"`
		ReviewNotes string `json:"reviewNotes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Status != models.VerificationApproved && input.Status != models.VerificationRejected {
		utils.RespondWithError(w, http.StatusBadRequest, "Status must be approved or rejected")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	farmerID := ps.ByName("id")
	now := time.Now()

	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "submittedAt", Value: -1}}).
		SetReturnDocument(options.After)
	var v models.Verification
	err := db.VerificationCollection.FindOneAndUpdate(ctx,
		bson.M{"farmer": farmerID, "status": models.VerificationPending},
		bson.M{"$set": bson.M{
			"status":      input.Status,
			"reviewedBy":  reviewerID,
			"reviewNotes": input.ReviewNotes,
			"reviewedAt":  now,
		}}, opts).Decode(&v)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "No pending verification for this farmer")
		return
	}

	if input.Status == models.VerificationApproved {
		_, err := db.UserCollection.UpdateOne(ctx,
			bson.M{"userid": farmerID},
			bson.M{"$set": bson.M{"isVerified": true, "verifiedAt": now, "updatedAt": now}})
		if err != nil {
			log.Printf("mark user %s verified: %v", farmerID, err)
		}
	}

	title, message := "Verification rejected", "Your verification request was rejected."
	if input.Status == models.VerificationApproved {
		title, message = "Verification approved", "Congratulations, your farm is now verified."
	}
	notifications.Emit(ctx, models.Notification{
		User:      farmerID,
		Type:      models.NotifyVerification,
		Title:     title,
		Message:   message,
		RelatedID: v.VerificationID,
	})

	utils.RespondWithJSON(w, http.StatusOK, v)
}
