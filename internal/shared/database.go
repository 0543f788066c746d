// ============================================================================
// internal/shared/database.go
// MongoDB connection, index bootstrap, and helper utilities
// ============================================================================

package shared

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names used across the services
const (
	ColUsers         = "users"
	ColSessions      = "sessions"
	ColMaterials     = "study_materials"
	ColBookmarks     = "bookmarks"
	ColEnrollments   = "enrollments"
	ColNotifications = "notifications"
	ColReports       = "reports"
)

// MongoConfig holds MongoDB connection configuration
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
	MinPoolSize    uint64
	MaxIdleTime    time.Duration
}

// ConnectMongoDB establishes connection to MongoDB Atlas/Local with proper configuration
func ConnectMongoDB(config *MongoConfig) (*mongo.Client, *mongo.Database, error) {
	if config == nil {
		return nil, nil, fmt.Errorf("mongo config cannot be nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.ConnectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(config.URI).
		SetMaxPoolSize(config.MaxPoolSize).
		SetMinPoolSize(config.MinPoolSize).
		SetMaxConnIdleTime(config.MaxIdleTime).
		SetServerSelectionTimeout(10 * time.Second).
		SetConnectTimeout(config.ConnectTimeout).
		SetSocketTimeout(30 * time.Second).
		SetHeartbeatInterval(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Printf("Successfully connected to MongoDB (Database: %s)", config.Database)

	db := client.Database(config.Database)
	return client, db, nil
}

// DisconnectMongoDB gracefully closes MongoDB connection
func DisconnectMongoDB(client *mongo.Client) error {
	if client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}

	log.Println("Successfully disconnected from MongoDB")
	return nil
}

// EnsureIndexes creates the indexes the services rely on.
// The unique compound indexes back the one-bookmark-per-(user, material) and
// one-enrollment-per-(user, program) constraints; everything else is for the
// default list sort orders.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		ColBookmarks: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "material_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_user_material"),
			},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		ColEnrollments: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "program_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_user_program"),
			},
		},
		ColNotifications: {
			{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "expires_at", Value: 1}}},
		},
		ColReports: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "priority", Value: 1}}},
			{Keys: bson.D{{Key: "target_type", Value: 1}, {Key: "target_id", Value: 1}}},
		},
		ColSessions: {
			{Keys: bson.D{{Key: "token", Value: 1}}},
		},
	}

	for col, models := range indexes {
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", col, err)
		}
	}

	log.Println("MongoDB indexes ensured")
	return nil
}

// IsDuplicateKeyError reports whether err is a unique-index violation
func IsDuplicateKeyError(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// ============================================================================
// Pagination Helpers
// ============================================================================

// DefaultPageSize is the page size applied when a caller does not specify one
const DefaultPageSize = 50

// MaxPageSize caps a caller-supplied page size
const MaxPageSize = 200

// BuildFindOptions builds find options with the default sort (created_at
// descending) and the shared pagination rules applied.
func BuildFindOptions(page, limit int64) *options.FindOptions {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
}
