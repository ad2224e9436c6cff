package database

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/convoisukraine/convoysbackend/config"
)

// Connect opens a client against the configured deployment and verifies the
// connection with a ping.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}
	log.Printf("%s connected", cfg.DBName)
	return client, nil
}

// Collections bundles the handles the stores work against.
type Collections struct {
	Users    *mongo.Collection
	Convoys  *mongo.Collection
	Collects *mongo.Collection
}

func OpenCollections(client *mongo.Client, cfg *config.Config) *Collections {
	db := client.Database(cfg.DBName)
	return &Collections{
		Users:    db.Collection("users"),
		Convoys:  db.Collection("convoys"),
		Collects: db.Collection("collects"),
	}
}

// EnsureIndexes creates the indexes the queries rely on. The unique email
// index is the only thing preventing two concurrent signups with the same
// address; the 2dsphere indexes back the $near proximity filters.
func EnsureIndexes(ctx context.Context, cols *Collections) error {
	_, err := cols.Users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "forgotPasswordResetToken", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	_, err = cols.Convoys.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "pickupGeometry", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "dropoffGeometry", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "driver", Value: 1}}},
		{Keys: bson.D{{Key: "pickupNameSearch", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("convoys indexes: %w", err)
	}

	_, err = cols.Collects.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "pickupGeometry", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "convoy", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("collects indexes: %w", err)
	}
	return nil
}
