// database/db.go - Database Connection (MongoDB)
package database

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// QueryTimeout bounds every store call so a connectivity failure surfaces
// instead of hanging the request.
const QueryTimeout = 5 * time.Second

var (
	client *mongo.Client
	db     *mongo.Database
)

// InitDB initializes the database connection
func InitDB() {
	uri := os.Getenv("MONGODB_URL")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := getEnvOrDefault("DATABASE_NAME", "ravencode_achievements_db")

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	var err error
	client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	db = client.Database(dbName)

	log.Println("✅ MongoDB connected successfully")

	if err := EnsureIndexes(db); err != nil {
		// Index creation is non-fatal: queries still work, just slower, and
		// the unique guards are rechecked at the service layer.
		log.Printf("Warning: index initialization failed: %v", err)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetDB returns the database instance
func GetDB() *mongo.Database {
	if db == nil {
		log.Fatal("Database not initialized. Call InitDB() first.")
	}
	return db
}

// CloseDB closes the database connection
func CloseDB() error {
	if client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		return err
	}

	log.Println("Database connection closed")
	return nil
}
