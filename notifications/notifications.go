package notifications

import (
	"context"
	"log"
	"net/http"
	"time"

	"agriconnect/db"
	"agriconnect/middleware"
	"agriconnect/models"
	"agriconnect/rdx"
	"agriconnect/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Emit records a notification for a user. Failures are logged and
// swallowed; a notification must never fail the request that
// produced it.
func Emit(ctx context.Context, n models.Notification) {
	n.NotificationID = utils.NewID("n")
	n.CreatedAt = time.Now()

	if _, err := db.NotificationCollection.InsertOne(ctx, n); err != nil {
		log.Printf("notification insert failed: %v", err)
		return
	}

	if err := rdx.IncrUnread(n.User); err != nil {
		log.Printf("notification counter failed: %v", err)
	}

	publish(n)
}

// GET /api/users/notifications
func GetNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(50)
	list, err := utils.FindAndDecode[models.Notification](ctx, db.NotificationCollection, bson.M{"user": userID}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

// PUT /api/users/notifications/:id/read
func MarkNotificationRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.NotificationCollection.UpdateOne(ctx,
		bson.M{"notificationid": ps.ByName("id"), "user": userID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update notification")
		return
	}
	if res.ModifiedCount > 0 {
		if err := rdx.DecrUnread(userID); err != nil {
			log.Printf("notification counter failed: %v", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Notification marked as read"})
}
