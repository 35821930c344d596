package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/user-admin/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

const (
	collectionOperators = "admins"
	collectionProfiles  = "users"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureIndexes creates the unique indexes the repositories rely on. rfc and
// curp are only unique among profiles that carry them.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := db.Collection(collectionOperators).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_1"),
	})
	if err != nil {
		return fmt.Errorf("operator indexes: %w", err)
	}

	_, err = db.Collection(collectionProfiles).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_1"),
		},
		{
			Keys: bson.D{{Key: "rfc", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("rfc_1").
				SetPartialFilterExpression(bson.M{"rfc": bson.M{"$exists": true}}),
		},
		{
			Keys: bson.D{{Key: "curp", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("curp_1").
				SetPartialFilterExpression(bson.M{"curp": bson.M{"$exists": true}}),
		},
	})
	if err != nil {
		return fmt.Errorf("profile indexes: %w", err)
	}
	return nil
}

// duplicateKey converts a driver duplicate key error into a
// *domain.DuplicateKeyError naming the violated field.
func duplicateKey(err error, fields ...string) error {
	msg := err.Error()
	for _, f := range fields {
		if strings.Contains(msg, f+"_1") {
			return &domain.DuplicateKeyError{Field: f}
		}
	}
	return &domain.DuplicateKeyError{}
}

// objectID parses a hex id. Malformed ids cannot exist, so they read as missing.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrNotFound
	}
	return oid, nil
}

func page(offset, limit int) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
}
