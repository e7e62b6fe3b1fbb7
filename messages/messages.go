package messages

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"agriconnect/chat"
	"agriconnect/db"
	"agriconnect/middleware"
	"agriconnect/models"
	"agriconnect/notifications"
	"agriconnect/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// POST /api/messages
func SendMessage(hub *chat.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		userID, ok := middleware.RequesterID(r)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var input struct {
			Receiver string `json:"receiver"`
			Content  string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if input.Receiver == "" || input.Content == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "Receiver and content are required")
			return
		}
		if input.Receiver == userID {
			utils.RespondWithError(w, http.StatusBadRequest, "Cannot message yourself")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if n, err := db.UserCollection.CountDocuments(ctx, bson.M{"userid": input.Receiver}); err != nil || n == 0 {
			utils.RespondWithError(w, http.StatusNotFound, "Receiver not found")
			return
		}

		msg := models.Message{
			MessageID:      utils.NewID("m"),
			ConversationID: utils.ConversationID(userID, input.Receiver),
			Sender:         userID,
			Receiver:       input.Receiver,
			Content:        input.Content,
			CreatedAt:      time.Now(),
		}
		if _, err := db.MessagesCollection.InsertOne(ctx, msg); err != nil {
			log.Printf("send message: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send message")
			return
		}

		notifications.Emit(ctx, models.Notification{
			User:      input.Receiver,
			Type:      models.NotifyMessage,
			Title:     "New message",
			Message:   "You have a new message",
			RelatedID: msg.ConversationID,
		})

		chat.BroadcastMessage(hub, msg)

		utils.RespondWithJSON(w, http.StatusCreated, msg)
	}
}

// GET /api/messages/conversations
func GetConversations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"$or": []bson.M{{"sender": userID}, {"receiver": userID}}}},
		{"$sort": bson.M{"createdAt": -1}},
		{"$group": bson.M{
			"_id":         "$conversationId",
			"lastMessage": bson.M{"$first": "$$ROOT"},
			"unreadCount": bson.M{"$sum": bson.M{"$cond": []interface{}{
				bson.M{"$and": []bson.M{
					{"$eq": []interface{}{"$receiver", userID}},
					{"$eq": []interface{}{"$read", false}},
				}},
				1,
				0,
			}}},
		}},
		{"$sort": bson.M{"lastMessage.createdAt": -1}},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "lastMessage.sender",
			"foreignField": "userid",
			"as":           "senderInfo",
		}},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "lastMessage.receiver",
			"foreignField": "userid",
			"as":           "receiverInfo",
		}},
	}

	cursor, err := db.MessagesCollection.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("conversations aggregate: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch conversations")
		return
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err := cursor.All(ctx, &conversations); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode conversations")
		return
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}

	utils.RespondWithJSON(w, http.StatusOK, conversations)
}

// GET /api/messages/conversations/:id
func GetMessages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	conversationID := ps.ByName("id")
	if !utils.ContainsString(strings.Split(conversationID, "_"), userID) {
		utils.RespondWithError(w, http.StatusForbidden, "Not a participant of this conversation")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	list, err := utils.FindAndDecode[models.Message](ctx, db.MessagesCollection,
		bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}

	// Reading a conversation clears the caller's unread state.
	_, err = db.MessagesCollection.UpdateMany(ctx,
		bson.M{"conversationId": conversationID, "receiver": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		log.Printf("mark conversation %s read: %v", conversationID, err)
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}
