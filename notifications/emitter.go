package notifications

import (
	"context"
	"encoding/json"
	"log"

	"agriconnect/models"
	"agriconnect/rdx"
)

const eventsChannel = "notification-events"

// publish pushes the notification onto the Redis pub/sub channel so
// out-of-process consumers (email, push) can pick it up.
func publish(n models.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		log.Printf("notification marshal failed: %v", err)
		return
	}
	if err := rdx.Conn.Publish(context.Background(), eventsChannel, data).Err(); err != nil {
		log.Printf("notification publish failed: %v", err)
	}
}

// StartWorker drains the notification channel. Currently it only
// logs deliveries; it is the hook point for an email sender.
func StartWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, eventsChannel)
	ch := sub.Channel()

	log.Println("[NotificationWorker] Listening for notification events...")

	for msg := range ch {
		var n models.Notification
		if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
			log.Printf("[NotificationWorker] Failed to parse event: %v", err)
			continue
		}
		log.Printf("[NotificationWorker] %s -> %s: %s", n.Type, n.User, n.Title)
	}
}
