package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection         *mongo.Collection
	ProductCollection      *mongo.Collection
	OrderCollection        *mongo.Collection
	ReviewCollection       *mongo.Collection
	VerificationCollection *mongo.Collection
	NotificationCollection *mongo.Collection
	MessagesCollection     *mongo.Collection
	Client                 *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("agriconnect")
	UserCollection = database.Collection("users")
	ProductCollection = database.Collection("products")
	OrderCollection = database.Collection("orders")
	ReviewCollection = database.Collection("reviews")
	VerificationCollection = database.Collection("verifications")
	NotificationCollection = database.Collection("notifications")
	MessagesCollection = database.Collection("messages")
}

func uniqueIndex(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
}

// EnsureIndexes creates the unique indexes the handlers rely on for
// duplicate detection: one account per email, one review per order.
// Safe to call on every start.
func EnsureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, ix := range []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{UserCollection, uniqueIndex("email")},
		{ReviewCollection, uniqueIndex("order")},
	} {
		if _, err := ix.coll.Indexes().CreateOne(ctx, ix.model); err != nil {
			log.Printf("create index on %s: %v", ix.coll.Name(), err)
		}
	}
}
