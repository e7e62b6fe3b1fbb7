package models

import "time"

type Message struct {
	MessageID      string    `json:"messageid" bson:"messageid"`
	ConversationID string    `json:"conversationId" bson:"conversationId"`
	Sender         string    `json:"sender" bson:"sender"`
	Receiver       string    `json:"receiver" bson:"receiver"`
	Content        string    `json:"content" bson:"content"`
	Read           bool      `json:"read" bson:"read"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`

	SenderInfo *UserSummary `json:"senderInfo,omitempty" bson:"senderInfo,omitempty"`
}

// Conversation is the read-side shape produced by the grouping
// aggregation over messages. It is never stored.
type Conversation struct {
	ConversationID string        `json:"conversationId" bson:"_id"`
	LastMessage    Message       `json:"lastMessage" bson:"lastMessage"`
	UnreadCount    int           `json:"unreadCount" bson:"unreadCount"`
	SenderInfo     []UserSummary `json:"senderInfo" bson:"senderInfo"`
	ReceiverInfo   []UserSummary `json:"receiverInfo" bson:"receiverInfo"`
}
