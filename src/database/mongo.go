package database

import (
	"context"
	"fmt"

	"tracker/src/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupMongo connects and returns the transaction items collection.
func SetupMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Collection, error) {
	mongoCfg := cfg.Databases.Mongo

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoCfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	collection := client.Database(mongoCfg.Database).Collection(mongoCfg.Collection)
	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "category", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to create index: %w", err)
	}
	return client, collection, nil
}
