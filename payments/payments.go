package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"agriconnect/db"
	"agriconnect/middleware"
	"agriconnect/models"
	"agriconnect/notifications"
	"agriconnect/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// POST /api/payments/create-intent
//
// Card processing is mocked: the intent id doubles as the idempotency
// handle a real gateway would return.
func CreateIntent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		OrderID string `json:"orderId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.OrderID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "orderId is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": input.OrderID}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.Buyer != userID {
		utils.RespondWithError(w, http.StatusForbidden, "You can only pay for your own orders")
		return
	}
	if order.PaymentStatus == models.PaymentPaid {
		utils.RespondWithError(w, http.StatusBadRequest, "Order is already paid")
		return
	}

	intentID := "pi_" + utils.GenerateRandomString(24)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"paymentIntentId": intentID,
		"clientSecret":    fmt.Sprintf("%s_secret_%s", intentID, utils.GenerateRandomString(16)),
		"amount":          order.TotalPrice,
		"currency":        "usd",
		"orderId":         order.OrderID,
	})
}

// POST /api/payments/webhook
func Webhook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var event struct {
		Type    string `json:"type"`
		OrderID string `json:"orderId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil || event.OrderID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	var status string
	switch event.Type {
	case "payment_intent.succeeded":
		status = models.PaymentPaid
	case "payment_intent.failed":
		status = models.PaymentFailed
	default:
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"received": true})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	set := bson.M{"paymentStatus": status, "updatedAt": time.Now()}
	if status == models.PaymentPaid {
		set["paidAt"] = time.Now()
	}

	var order models.Order
	err := db.OrderCollection.FindOneAndUpdate(ctx,
		bson.M{"orderid": event.OrderID},
		bson.M{"$set": set}).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	if status == models.PaymentPaid {
		notifications.Emit(ctx, models.Notification{
			User:      order.Farmer,
			Type:      models.NotifyOrder,
			Title:     "Payment received",
			Message:   fmt.Sprintf("Payment of %.2f received for order %s", order.TotalPrice, order.OrderID),
			RelatedID: order.OrderID,
		})
	}

	log.Printf("payment webhook %s for order %s", event.Type, event.OrderID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"received": true})
}
