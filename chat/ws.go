package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"agriconnect/db"
	"agriconnect/middleware"
	"agriconnect/models"
	"agriconnect/notifications"
	"agriconnect/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// inboundFrame is what clients send us.
type inboundFrame struct {
	Action         string `json:"action"` // "join_conversation", "send_message"
	ConversationID string `json:"conversationId,omitempty"`
	Receiver       string `json:"receiver,omitempty"`
	Content        string `json:"content,omitempty"`
}

// outboundFrame is what we broadcast to the room.
type outboundFrame struct {
	Action  string         `json:"action"` // "receive_message"
	Message models.Message `json:"message"`
}

// GET /ws/chat?token=...
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		token := r.URL.Query().Get("token")
		claims, err := middleware.ParseToken(token)
		if err != nil || !middleware.SessionActive(claims.UserID, token) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}

		client := &Client{
			Conn:   conn,
			Send:   make(chan []byte, 256),
			UserID: claims.UserID,
		}

		hub.register <- client
		go writePump(client)
		go readPump(client, hub)
	}
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

func readPump(c *Client, hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		var in inboundFrame
		if err := json.Unmarshal(raw, &in); err != nil {
			log.Println("invalid frame:", err)
			continue
		}

		switch in.Action {
		case "join_conversation":
			if !isParticipant(in.ConversationID, c.UserID) {
				log.Printf("join refused: %s not in %s", c.UserID, in.ConversationID)
				continue
			}
			hub.join <- joinMsg{Client: c, Room: in.ConversationID}
			go replayHistory(c, in.ConversationID)

		case "send_message":
			if in.Receiver == "" || in.Content == "" {
				continue
			}
			msg, err := persistMessage(c.UserID, in.Receiver, in.Content)
			if err != nil {
				log.Println("persist message:", err)
				continue
			}
			BroadcastMessage(hub, msg)

		default:
			log.Println("unknown action:", in.Action)
		}
	}
}

// BroadcastMessage relays a stored message to its conversation room
// as a receive_message frame. Best effort.
func BroadcastMessage(hub *Hub, msg models.Message) {
	data, err := json.Marshal(outboundFrame{Action: "receive_message", Message: msg})
	if err != nil {
		return
	}
	hub.Broadcast(msg.ConversationID, data)
}

func isParticipant(conversationID, userID string) bool {
	for _, p := range strings.Split(conversationID, "_") {
		if p == userID {
			return true
		}
	}
	return false
}

func persistMessage(sender, receiver, content string) (models.Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg := models.Message{
		MessageID:      utils.NewID("m"),
		ConversationID: utils.ConversationID(sender, receiver),
		Sender:         sender,
		Receiver:       receiver,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	if _, err := db.MessagesCollection.InsertOne(ctx, msg); err != nil {
		return models.Message{}, err
	}

	notifications.Emit(ctx, models.Notification{
		User:      receiver,
		Type:      models.NotifyMessage,
		Title:     "New message",
		Message:   "You have a new message",
		RelatedID: msg.ConversationID,
	})

	return msg, nil
}

// replayHistory sends the last 30 messages of a conversation to a
// freshly joined client, oldest first.
func replayHistory(c *Client, conversationID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(30)
	history, err := utils.FindAndDecode[models.Message](ctx, db.MessagesCollection,
		bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		log.Println("history:", err)
		return
	}

	for i := len(history) - 1; i >= 0; i-- {
		data, err := json.Marshal(outboundFrame{Action: "receive_message", Message: history[i]})
		if err != nil {
			continue
		}
		select {
		case c.Send <- data:
		default:
			return
		}
	}
}
