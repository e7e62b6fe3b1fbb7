package products

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"time"

	"agriconnect/db"
	"agriconnect/middleware"
	"agriconnect/models"
	"agriconnect/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// POST /api/products/:id/ratings
func AddRating(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Rating < 1 || input.Rating > 5 {
		utils.RespondWithError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	productID := ps.ByName("id")

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	for _, rt := range product.Ratings {
		if rt.UserID == userID {
			utils.RespondWithError(w, http.StatusBadRequest, "You have already rated this product")
			return
		}
	}

	entry := models.ProductRating{UserID: userID, Rating: input.Rating, Comment: input.Comment}
	_, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": productID},
		bson.M{"$push": bson.M{"ratings": entry}, "$set": bson.M{"updatedAt": time.Now()}})
	if err != nil {
		log.Printf("rate product %s: %v", productID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to rate product")
		return
	}

	if err := RecomputeRating(ctx, productID); err != nil {
		log.Printf("recompute rating %s: %v", productID, err)
	}

	_ = db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product)
	utils.RespondWithJSON(w, http.StatusOK, product)
}

// RecomputeRating recalculates a product's average rating from its
// reviews and embedded quick ratings, rounded to one decimal.
func RecomputeRating(ctx context.Context, productID string) error {
	reviews, err := utils.FindAndDecode[models.Review](ctx, db.ReviewCollection, bson.M{"product": productID})
	if err != nil {
		return err
	}

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product); err != nil {
		return err
	}

	values := make([]int, 0, len(reviews)+len(product.Ratings))
	for _, rv := range reviews {
		values = append(values, rv.Rating)
	}
	for _, rt := range product.Ratings {
		values = append(values, rt.Rating)
	}

	_, err = db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": productID},
		bson.M{"$set": bson.M{"averageRating": roundedMean(values), "reviewCount": len(values)}})
	if err == nil {
		invalidateCache(productID)
	}
	return err
}

// roundedMean averages rating values to one decimal place. An empty
// set yields 0.
func roundedMean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return math.Round(float64(sum)/float64(len(values))*10) / 10
}
