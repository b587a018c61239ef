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

const (
	sessionCollection = "portal_sessions"
	defaultSessionTTL = 7 * 24 * time.Hour
	opTimeout         = 5 * time.Second
)

// SessionStorage keeps each browser session in one document keyed by the
// session id. A TTL index on updated_at expires idle sessions.
type SessionStorage struct {
	coll *mongo.Collection
	ttl  time.Duration
}

type sessionDoc struct {
	ID        string            `bson:"_id"`
	Values    map[string]string `bson:"values"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

func NewSessionStorage(db *mongo.Database, ttl time.Duration) *SessionStorage {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStorage{coll: db.Collection(sessionCollection), ttl: ttl}
}

// EnsureIndexes creates the expiry index on the sessions collection.
func (s *SessionStorage) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(s.ttl / time.Second)),
	})
	if err != nil {
		return fmt.Errorf("ensure session indexes: %w", err)
	}
	return nil
}

func (s *SessionStorage) Get(ctx context.Context, sid, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc sessionDoc
	opts := options.FindOne().SetProjection(bson.M{"values." + key: 1})
	err := s.coll.FindOne(ctx, bson.M{"_id": sid}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get %s: %w", key, err)
	}
	v, ok := doc.Values[key]
	return v, ok, nil
}

func (s *SessionStorage) Set(ctx context.Context, sid, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"values." + key: value,
		"updated_at":    time.Now().UTC(),
	}}
	if _, err := s.coll.UpdateByID(ctx, sid, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("session set %s: %w", key, err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, sid string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	unset := bson.M{}
	for _, k := range keys {
		unset["values."+k] = ""
	}
	if _, err := s.coll.UpdateByID(ctx, sid, bson.M{"$unset": unset}); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStorage) Clear(ctx context.Context, sid string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": sid}); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

func (s *SessionStorage) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}
