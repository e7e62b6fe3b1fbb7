package reviews

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"agriconnect/db"
	"agriconnect/filemgr"
	"agriconnect/middleware"
	"agriconnect/models"
	"agriconnect/notifications"
	"agriconnect/products"
	"agriconnect/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// POST /api/reviews (buyer, delivered orders only)
func CreateReview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	orderID := r.FormValue("orderId")
	rating, err := strconv.Atoi(r.FormValue("rating"))
	if err != nil || rating < 1 || rating > 5 {
		utils.RespondWithError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.Buyer != userID {
		utils.RespondWithError(w, http.StatusForbidden, "You can only review your own orders")
		return
	}
	if order.Status != models.OrderDelivered {
		utils.RespondWithError(w, http.StatusBadRequest, "You can only review delivered orders")
		return
	}

	count, err := db.ReviewCollection.CountDocuments(ctx, bson.M{"order": orderID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create review")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "This order has already been reviewed")
		return
	}

	review := models.Review{
		ReviewID:      utils.NewID("r"),
		Order:         orderID,
		Product:       order.Product,
		Farmer:        order.Farmer,
		Buyer:         userID,
		Rating:        rating,
		Comment:       r.FormValue("comment"),
		IsRecommended: r.FormValue("isRecommended") != "false",
		Images:        []string{},
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if r.MultipartForm != nil {
		images, err := filemgr.SaveFormFiles(r.MultipartForm, "images", filemgr.EntityReview, filemgr.KindImage, 3)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if len(images) > 0 {
			review.Images = images
		}
	}

	if _, err := db.ReviewCollection.InsertOne(ctx, review); err != nil {
		// The unique index on order catches two submissions racing
		// past the count above.
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusBadRequest, "This order has already been reviewed")
			return
		}
		log.Printf("create review: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create review")
		return
	}

	if err := products.RecomputeRating(ctx, order.Product); err != nil {
		log.Printf("recompute rating %s: %v", order.Product, err)
	}

	notifications.Emit(ctx, models.Notification{
		User:      order.Farmer,
		Type:      models.NotifyOrder,
		Title:     "New review",
		Message:   "A buyer left a review on one of your products",
		RelatedID: review.ReviewID,
	})

	utils.RespondWithJSON(w, http.StatusCreated, review)
}

// GET /api/reviews/product/:productId
func GetProductReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{"product": ps.ByName("productId")}
	skip, limit := utils.ParsePagination(r, 10, 50)

	total, err := db.ReviewCollection.CountDocuments(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).SetLimit(limit)
	list, err := utils.FindAndDecode[models.Review](ctx, db.ReviewCollection, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}

	resolveBuyers(ctx, list)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"reviews":      list,
		"totalReviews": total,
		"currentPage":  utils.Page(skip, limit),
		"totalPages":   utils.TotalPages(total, limit),
	})
}

// PUT /api/reviews/:id/helpful
func MarkHelpful(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, ok := middleware.RequesterID(r); !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ReviewCollection.UpdateOne(ctx,
		bson.M{"reviewid": ps.ByName("id")},
		bson.M{"$inc": bson.M{"helpfulVotes": 1}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update review")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Marked as helpful"})
}

func resolveBuyers(ctx context.Context, list []models.Review) {
	if len(list) == 0 {
		return
	}
	ids := make([]string, 0, len(list))
	for _, rv := range list {
		ids = append(ids, rv.Buyer)
	}
	users, err := utils.FindAndDecode[models.UserSummary](ctx, db.UserCollection, bson.M{"userid": bson.M{"$in": ids}})
	if err != nil {
		log.Printf("resolve buyers: %v", err)
		return
	}
	byID := make(map[string]models.UserSummary, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}
	for i := range list {
		if u, ok := byID[list[i].Buyer]; ok {
			info := u
			list[i].BuyerInfo = &info
		}
	}
}
