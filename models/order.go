package models

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

var PaymentMethods = []string{"cash", "stripe", "paypal", "mobile_money"}

// TimelineEntry is an immutable record of a status the order reached.
type TimelineEntry struct {
	Status      OrderStatus `json:"status" bson:"status"`
	Description string      `json:"description" bson:"description"`
	Timestamp   time.Time   `json:"timestamp" bson:"timestamp"`
}

type Order struct {
	OrderID           string          `json:"orderid" bson:"orderid"`
	Buyer             string          `json:"buyer" bson:"buyer"`
	Farmer            string          `json:"farmer" bson:"farmer"`
	Product           string          `json:"product" bson:"product"`
	Quantity          int             `json:"quantity" bson:"quantity"`
	TotalPrice        float64         `json:"totalPrice" bson:"totalPrice"`
	Status            OrderStatus     `json:"status" bson:"status"`
	PaymentStatus     string          `json:"paymentStatus" bson:"paymentStatus"`
	PaymentMethod     string          `json:"paymentMethod" bson:"paymentMethod"`
	DeliveryAddress   string          `json:"deliveryAddress" bson:"deliveryAddress"`
	TrackingNumber    string          `json:"trackingNumber,omitempty" bson:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time      `json:"estimatedDelivery,omitempty" bson:"estimatedDelivery,omitempty"`
	CustomerNotes     string          `json:"customerNotes,omitempty" bson:"customerNotes,omitempty"`
	OrderTimeline     []TimelineEntry `json:"orderTimeline" bson:"orderTimeline"`
	PaidAt            *time.Time      `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt" bson:"updatedAt"`

	// Resolved for display, never persisted.
	BuyerInfo   *UserSummary    `json:"buyerInfo,omitempty" bson:"buyerInfo,omitempty"`
	FarmerInfo  *UserSummary    `json:"farmerInfo,omitempty" bson:"farmerInfo,omitempty"`
	ProductInfo *ProductSummary `json:"productInfo,omitempty" bson:"productInfo,omitempty"`
}

type ProductSummary struct {
	ProductID string   `json:"productid" bson:"productid"`
	Name      string   `json:"name" bson:"name"`
	Category  string   `json:"category" bson:"category"`
	Unit      string   `json:"unit,omitempty" bson:"unit,omitempty"`
	Images    []string `json:"images,omitempty" bson:"images,omitempty"`
}
