package models

import "time"

const (
	NotifyOrder        = "order"
	NotifyMessage      = "message"
	NotifyVerification = "verification"
)

type Notification struct {
	NotificationID string    `json:"notificationid" bson:"notificationid"`
	User           string    `json:"user" bson:"user"`
	Type           string    `json:"type" bson:"type"`
	Title          string    `json:"title" bson:"title"`
	Message        string    `json:"message" bson:"message"`
	RelatedID      string    `json:"relatedId,omitempty" bson:"relatedId,omitempty"`
	IsRead         bool      `json:"isRead" bson:"isRead"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}
