package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoBlob struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	ExpiresAt time.Time `bson:"expires_at"`
}

type MongoDBBlobStore struct {
	collection *mongo.Collection
}

// CreateMongoDBBlobStore also ensures a TTL index so the server drops ended sessions.
func CreateMongoDBBlobStore(ctx context.Context, db *mongo.Database) (BlobStore, error) {
	collection := db.Collection("session_blobs")

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		log.Error().Err(err).Str("component", "CreateMongoDBBlobStore").Msg("")
		return nil, err
	}

	return &MongoDBBlobStore{collection: collection}, nil
}

func (r *MongoDBBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data mongoBlob
	filter := bson.M{"_id": key, "expires_at": bson.M{"$gt": time.Now()}}

	err := r.collection.FindOne(ctx, filter).Decode(&data)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		log.Error().Err(err).Str("component", "MongoDBBlobStore.Get").Msg("")
		return nil, err
	}

	return data.Value, nil
}

func (r *MongoDBBlobStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	filter := bson.M{"_id": key}
	update := bson.M{
		"$set": bson.M{"value": value, "expires_at": time.Now().Add(ttl)},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		log.Error().Err(err).Str("component", "MongoDBBlobStore.Set").Msg("")
		return err
	}

	return nil
}
