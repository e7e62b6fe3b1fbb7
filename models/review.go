package models

import "time"

type Review struct {
	ReviewID      string    `json:"reviewid" bson:"reviewid"`
	Order         string    `json:"order" bson:"order"`
	Product       string    `json:"product" bson:"product"`
	Farmer        string    `json:"farmer" bson:"farmer"`
	Buyer         string    `json:"buyer" bson:"buyer"`
	Rating        int       `json:"rating" bson:"rating"`
	Comment       string    `json:"comment" bson:"comment"`
	Images        []string  `json:"images,omitempty" bson:"images,omitempty"`
	IsRecommended bool      `json:"isRecommended" bson:"isRecommended"`
	HelpfulVotes  int       `json:"helpfulVotes" bson:"helpfulVotes"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`

	BuyerInfo *UserSummary `json:"buyerInfo,omitempty" bson:"buyerInfo,omitempty"`
}
