package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionSessionBlobs = "session_blobs"

// SessionBridge mirrors session blobs into a collection keyed by blob key.
// Documents expire ttl after their last write.
type SessionBridge struct {
	col *mongo.Collection
	ttl time.Duration
}

func NewSessionBridge(db *mongo.Database, ttl time.Duration) *SessionBridge {
	return &SessionBridge{col: db.Collection(collectionSessionBlobs), ttl: ttl}
}

type mongoSessionBlob struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (b *SessionBridge) Read(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoSessionBlob
	if err := b.col.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read session blob: %w", err)
	}
	return doc.Value, true, nil
}

func (b *SessionBridge) Write(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := b.col.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"value": value, "updated_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("write session blob: %w", err)
	}
	return nil
}

func (b *SessionBridge) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := b.col.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete session blob: %w", err)
	}
	return nil
}

// EnsureIndexes installs the TTL index that expires abandoned sessions.
func (b *SessionBridge) EnsureIndexes(ctx context.Context) error {
	if b.ttl <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := b.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(b.ttl / time.Second)),
	})
	return err
}
