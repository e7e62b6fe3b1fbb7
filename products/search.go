package products

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"agriconnect/db"
	"agriconnect/models"
	"agriconnect/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var sortableFields = []string{"price", "createdAt", "averageRating", "name"}

// SearchFilter builds the mongo filter for a product search request.
func SearchFilter(q map[string]string) bson.M {
	filter := bson.M{"isAvailable": true}

	if s := q["search"]; s != "" {
		re := primitive.Regex{Pattern: s, Options: "i"}
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": re}},
			{"description": bson.M{"$regex": re}},
		}
	}
	if c := q["category"]; c != "" {
		filter["category"] = c
	}
	if f := q["farmer"]; f != "" {
		filter["farmer"] = f
	}
	if qu := q["quality"]; qu != "" {
		filter["quality"] = qu
	}

	price := bson.M{}
	if min, err := strconv.ParseFloat(q["minPrice"], 64); err == nil {
		price["$gte"] = min
	}
	if max, err := strconv.ParseFloat(q["maxPrice"], 64); err == nil {
		price["$lte"] = max
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	return filter
}

// GET /api/products/search
func SearchProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := r.URL.Query()
	params := map[string]string{
		"search":   q.Get("search"),
		"category": q.Get("category"),
		"farmer":   q.Get("farmer"),
		"quality":  q.Get("quality"),
		"minPrice": q.Get("minPrice"),
		"maxPrice": q.Get("maxPrice"),
	}
	filter := SearchFilter(params)

	skip, limit := utils.ParsePagination(r, 12, 50)
	sort := utils.ParseSort(q.Get("sortBy"), q.Get("sortOrder"), sortableFields,
		bson.D{{Key: "createdAt", Value: -1}})

	total, err := db.ProductCollection.CountDocuments(ctx, filter)
	if err != nil {
		log.Printf("count products: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to search products")
		return
	}

	opts := options.Find().SetSort(sort).SetSkip(skip).SetLimit(limit)
	list, err := utils.FindAndDecode[models.Product](ctx, db.ProductCollection, filter, opts)
	if err != nil {
		log.Printf("search products: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to search products")
		return
	}

	resolveFarmers(ctx, list)

	page := utils.Page(skip, limit)
	pages := utils.TotalPages(total, limit)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"products": list,
		"pagination": utils.M{
			"currentPage":   page,
			"totalPages":    pages,
			"totalProducts": total,
			"hasNext":       page < pages,
			"hasPrev":       page > 1,
		},
	})
}
