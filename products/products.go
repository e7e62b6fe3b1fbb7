package products

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"agriconnect/db"
	"agriconnect/filemgr"
	"agriconnect/middleware"
	"agriconnect/models"
	"agriconnect/rdx"
	"agriconnect/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GET /api/products
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := r.URL.Query()
	filter := bson.M{"isAvailable": true}
	if c := q.Get("category"); c != "" {
		filter["category"] = c
	}
	if f := q.Get("farmer"); f != "" {
		filter["farmer"] = f
	}
	if s := q.Get("search"); s != "" {
		filter["name"] = bson.M{"$regex": primitive.Regex{Pattern: s, Options: "i"}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	list, err := utils.FindAndDecode[models.Product](ctx, db.ProductCollection, filter, opts)
	if err != nil {
		log.Printf("list products: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	resolveFarmers(ctx, list)
	utils.RespondWithJSON(w, http.StatusOK, list)
}

const productCacheTTL = time.Minute

func productCacheKey(productID string) string {
	return "product:" + productID
}

// invalidateCache drops the cached detail view after a write. Stock
// taken by orders is only as stale as the TTL.
func invalidateCache(productID string) {
	if err := rdx.RdxDel(productCacheKey(productID)); err != nil {
		log.Printf("invalidate product cache %s: %v", productID, err)
	}
}

// GET /api/products/:id
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	key := productCacheKey(ps.ByName("id"))
	if cached, err := rdx.RdxGet(key); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(cached))
		return
	}

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": ps.ByName("id")}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	list := []models.Product{product}
	resolveFarmers(ctx, list)

	if data, err := json.Marshal(list[0]); err == nil {
		if err := rdx.SetWithExpiry(key, string(data), productCacheTTL); err != nil {
			log.Printf("cache product %s: %v", product.ProductID, err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, list[0])
}

// POST /api/products (farmer only)
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if middleware.RequesterRole(r) != models.RoleFarmer {
		utils.RespondWithError(w, http.StatusForbidden, "Only farmers can create products")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil || price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Price must be a positive number")
		return
	}
	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil || quantity < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Quantity must be a non-negative number")
		return
	}

	product := models.Product{
		ProductID:   utils.NewID("p"),
		Farmer:      userID,
		Name:        r.FormValue("name"),
		Category:    r.FormValue("category"),
		Price:       price,
		Quantity:    quantity,
		Unit:        r.FormValue("unit"),
		Description: r.FormValue("description"),
		Quality:     r.FormValue("quality"),
		IsAvailable: quantity > 0,
		Images:      []string{},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if product.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Product name is required")
		return
	}
	if !utils.ContainsString(models.ProductCategories, product.Category) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid category")
		return
	}
	if product.Quality == "" {
		product.Quality = "standard"
	}
	if !utils.ContainsString(models.ProductQualities, product.Quality) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid quality")
		return
	}

	if r.MultipartForm != nil {
		images, err := filemgr.SaveFormFiles(r.MultipartForm, "images", filemgr.EntityProduct, filemgr.KindImage, 5)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if len(images) > 0 {
			product.Images = images
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.ProductCollection.InsertOne(ctx, product); err != nil {
		log.Printf("create product: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// PUT /api/products/:id (owner only)
func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": ps.ByName("id")}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if product.Farmer != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized to update this product")
		return
	}

	var input struct {
		Name        *string  `json:"name"`
		Category    *string  `json:"category"`
		Price       *float64 `json:"price"`
		Quantity    *int     `json:"quantity"`
		Unit        *string  `json:"unit"`
		Description *string  `json:"description"`
		Quality     *string  `json:"quality"`
		IsAvailable *bool    `json:"isAvailable"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Category != nil {
		if !utils.ContainsString(models.ProductCategories, *input.Category) {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid category")
			return
		}
		set["category"] = *input.Category
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Price must be a positive number")
			return
		}
		set["price"] = *input.Price
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Quantity must be a non-negative number")
			return
		}
		set["quantity"] = *input.Quantity
		set["isAvailable"] = *input.Quantity > 0
	}
	if input.Unit != nil {
		set["unit"] = *input.Unit
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Quality != nil {
		if !utils.ContainsString(models.ProductQualities, *input.Quality) {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid quality")
			return
		}
		set["quality"] = *input.Quality
	}
	// Explicit availability toggle only applies when quantity is untouched;
	// a product with stock zero stays unavailable.
	if input.IsAvailable != nil && input.Quantity == nil {
		set["isAvailable"] = *input.IsAvailable && product.Quantity > 0
	}

	if _, err := db.ProductCollection.UpdateOne(ctx, bson.M{"productid": product.ProductID}, bson.M{"$set": set}); err != nil {
		log.Printf("update product %s: %v", product.ProductID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	invalidateCache(product.ProductID)

	_ = db.ProductCollection.FindOne(ctx, bson.M{"productid": product.ProductID}).Decode(&product)
	utils.RespondWithJSON(w, http.StatusOK, product)
}

// DELETE /api/products/:id (owner only)
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": ps.ByName("id")}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if product.Farmer != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized to delete this product")
		return
	}

	if _, err := db.ProductCollection.DeleteOne(ctx, bson.M{"productid": product.ProductID}); err != nil {
		log.Printf("delete product %s: %v", product.ProductID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	invalidateCache(product.ProductID)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Product deleted"})
}

// GET /api/users/farmers/:farmerId/products
func GetFarmerProducts(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	list, err := utils.FindAndDecode[models.Product](ctx, db.ProductCollection, bson.M{"farmer": ps.ByName("farmerId")}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// resolveFarmers fills FarmerInfo on each product with one batched query.
func resolveFarmers(ctx context.Context, list []models.Product) {
	if len(list) == 0 {
		return
	}
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.Farmer)
	}
	users, err := utils.FindAndDecode[models.UserSummary](ctx, db.UserCollection, bson.M{"userid": bson.M{"$in": ids}})
	if err != nil {
		log.Printf("resolve farmers: %v", err)
		return
	}
	byID := make(map[string]models.UserSummary, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}
	for i := range list {
		if u, ok := byID[list[i].Farmer]; ok {
			info := u
			list[i].FarmerInfo = &info
		}
	}
}
