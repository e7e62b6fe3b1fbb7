package models

import "time"

var ProductCategories = []string{"crops", "livestock", "vegetables", "fruits", "cereals"}
var ProductQualities = []string{"premium", "standard", "economy"}

type ProductRating struct {
	UserID  string `json:"userid" bson:"userid"`
	Rating  int    `json:"rating" bson:"rating"`
	Comment string `json:"comment,omitempty" bson:"comment,omitempty"`
}

type Product struct {
	ProductID     string          `json:"productid" bson:"productid"`
	Farmer        string          `json:"farmer" bson:"farmer"`
	Name          string          `json:"name" bson:"name"`
	Category      string          `json:"category" bson:"category"`
	Price         float64         `json:"price" bson:"price"`
	Quantity      int             `json:"quantity" bson:"quantity"`
	Unit          string          `json:"unit" bson:"unit"`
	Description   string          `json:"description" bson:"description"`
	Quality       string          `json:"quality" bson:"quality"`
	Images        []string        `json:"images" bson:"images"`
	IsAvailable   bool            `json:"isAvailable" bson:"isAvailable"`
	Ratings       []ProductRating `json:"ratings,omitempty" bson:"ratings,omitempty"`
	AverageRating float64         `json:"averageRating" bson:"averageRating"`
	ReviewCount   int             `json:"reviewCount" bson:"reviewCount"`
	CreatedAt     time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt" bson:"updatedAt"`

	// Resolved for display, never persisted.
	FarmerInfo *UserSummary `json:"farmerInfo,omitempty" bson:"farmerInfo,omitempty"`
}
