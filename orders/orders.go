package orders

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
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type createOrderInput struct {
	ProductID       string `json:"productId"`
	Quantity        int    `json:"quantity"`
	DeliveryAddress string `json:"deliveryAddress"`
	PaymentMethod   string `json:"paymentMethod"`
	CustomerNotes   string `json:"customerNotes"`
}

// POST /api/orders
func CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	buyerID, ok := middleware.RequesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input createOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Quantity <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Quantity must be a positive integer")
		return
	}
	if input.DeliveryAddress == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Delivery address is required")
		return
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = "cash"
	}
	if !utils.ContainsString(models.PaymentMethods, input.PaymentMethod) {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown payment method")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	now := time.Now()

	// Stock check, decrement and the availability flip happen as one
	// conditional write. Two buyers racing for the last units cannot
	// both match the $gte filter, and {quantity: 0, isAvailable: true}
	// is never stored.
	filter, update := reserveStock(input.ProductID, input.Quantity, now)
	var product models.Product
	err := db.ProductCollection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&product)
	if err == mongo.ErrNoDocuments {
		count, cerr := db.ProductCollection.CountDocuments(ctx, bson.M{"productid": input.ProductID})
		if cerr == nil && count == 0 {
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		utils.RespondWithError(w, http.StatusBadRequest, "Insufficient quantity available")
		return
	} else if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reserve stock")
		return
	}

	order := models.Order{
		OrderID:         utils.NewID("o"),
		Buyer:           buyerID,
		Farmer:          product.Farmer,
		Product:         product.ProductID,
		Quantity:        input.Quantity,
		TotalPrice:      product.Price * float64(input.Quantity),
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentPending,
		PaymentMethod:   input.PaymentMethod,
		DeliveryAddress: input.DeliveryAddress,
		CustomerNotes:   input.CustomerNotes,
		OrderTimeline:   []models.TimelineEntry{NewTimelineEntry(models.OrderPending, now)},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
		// Undo the reservation so stock is not lost.
		rollbackStock(product.ProductID, input.Quantity, product.IsAvailable)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	notifications.Emit(context.Background(), models.Notification{
		User:      product.Farmer,
		Type:      models.NotifyOrder,
		Title:     "New Order Received",
		Message:   fmt.Sprintf("You have a new order for %d %s of %s", input.Quantity, product.Unit, product.Name),
		RelatedID: order.OrderID,
	})

	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// reserveStock builds the conditional single-document update that
// takes quantity for an order. The filter rejects oversells; the
// pipeline recomputes isAvailable from the remaining quantity in the
// same write, anded with the prior flag so a listing the farmer
// disabled stays disabled.
func reserveStock(productID string, quantity int, now time.Time) (bson.M, mongo.Pipeline) {
	remaining := bson.M{"$subtract": bson.A{"$quantity", quantity}}
	filter := bson.M{"productid": productID, "quantity": bson.M{"$gte": quantity}}
	update := mongo.Pipeline{{{Key: "$set", Value: bson.M{
		"quantity":    remaining,
		"isAvailable": bson.M{"$and": bson.A{"$isAvailable", bson.M{"$gt": bson.A{remaining, 0}}}},
		"updatedAt":   now,
	}}}}
	return filter, update
}

// rollbackUpdate returns reserved quantity and restores the
// availability flag to its pre-reservation value.
func rollbackUpdate(quantity int, wasAvailable bool) bson.M {
	return bson.M{
		"$inc": bson.M{"quantity": quantity},
		"$set": bson.M{"isAvailable": wasAvailable},
	}
}

func rollbackStock(productID string, quantity int, wasAvailable bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": productID},
		rollbackUpdate(quantity, wasAvailable),
	)
	if err != nil {
		log.Printf("stock rollback failed for %s: %v", productID, err)
	}
}

// GET /api/orders
func GetOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filter := bson.M{}
	switch middleware.RequesterRole(r) {
	case models.RoleFarmer:
		filter["farmer"] = userID
	case models.RoleBuyer:
		filter["buyer"] = userID
	case models.RoleAdmin:
		// admins see everything
	default:
		utils.RespondWithJSON(w, http.StatusOK, []models.Order{})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	orders, err := utils.FindAndDecode[models.Order](ctx, db.OrderCollection, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	if err := resolveOrderRefs(ctx, orders); err != nil {
		log.Printf("order ref resolution failed: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// resolveOrderRefs attaches buyer/farmer/product display info in two
// batched queries instead of per-order lookups.
func resolveOrderRefs(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	userIDs := make([]string, 0, len(orders)*2)
	productIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		userIDs = append(userIDs, o.Buyer, o.Farmer)
		productIDs = append(productIDs, o.Product)
	}

	users, err := utils.FindAndDecode[models.UserSummary](ctx, db.UserCollection, bson.M{"userid": bson.M{"$in": userIDs}})
	if err != nil {
		return err
	}
	products, err := utils.FindAndDecode[models.ProductSummary](ctx, db.ProductCollection, bson.M{"productid": bson.M{"$in": productIDs}})
	if err != nil {
		return err
	}

	userByID := make(map[string]models.UserSummary, len(users))
	for _, u := range users {
		userByID[u.UserID] = u
	}
	productByID := make(map[string]models.ProductSummary, len(products))
	for _, p := range products {
		productByID[p.ProductID] = p
	}

	for i := range orders {
		if u, ok := userByID[orders[i].Buyer]; ok {
			buyer := u
			orders[i].BuyerInfo = &buyer
		}
		if u, ok := userByID[orders[i].Farmer]; ok {
			farmer := u
			orders[i].FarmerInfo = &farmer
		}
		if p, ok := productByID[orders[i].Product]; ok {
			prod := p
			orders[i].ProductInfo = &prod
		}
	}
	return nil
}

// PUT /api/orders/:id/status
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	newStatus := models.OrderStatus(input.Status)
	if !ValidStatus(newStatus) {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown order status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": ps.ByName("id")}).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	// Only the farmer the order was placed with may move it.
	if order.Farmer != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized to update this order")
		return
	}

	// Saving the same status again is a no-op: no timeline entry.
	if newStatus == order.Status {
		utils.RespondWithJSON(w, http.StatusOK, order)
		return
	}

	if !CanTransition(order.Status, newStatus) {
		utils.RespondWithError(w, http.StatusBadRequest,
			fmt.Sprintf("Cannot change order status from %s to %s", order.Status, newStatus))
		return
	}

	now := time.Now()
	entry := NewTimelineEntry(newStatus, now)

	// Guard on the previous status so a concurrent transition cannot
	// double-append.
	res, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderid": order.OrderID, "status": order.Status},
		bson.M{
			"$set":  bson.M{"status": newStatus, "updatedAt": now},
			"$push": bson.M{"orderTimeline": entry},
		},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	if res.ModifiedCount == 0 {
		utils.RespondWithError(w, http.StatusConflict, "Order was updated concurrently")
		return
	}

	order.Status = newStatus
	order.UpdatedAt = now
	order.OrderTimeline = append(order.OrderTimeline, entry)

	var product models.ProductSummary
	productName := order.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": order.Product}).Decode(&product); err == nil {
		productName = product.Name
	}

	notifications.Emit(context.Background(), models.Notification{
		User:      order.Buyer,
		Type:      models.NotifyOrder,
		Title:     "Order Status Updated",
		Message:   fmt.Sprintf("Your order for %s has been %s", productName, newStatus),
		RelatedID: order.OrderID,
	})

	utils.RespondWithJSON(w, http.StatusOK, order)
}
