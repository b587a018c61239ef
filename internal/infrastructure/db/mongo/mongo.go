package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baticonnect/portal/internal/pkg/config"
)

const (
	appName        = "portal"
	connectTimeout = 10 * time.Second
)

// Open connects to MongoDB, checks the server with a ping and returns the
// session storage with its indexes in place. closeFn disconnects the client.
func Open(ctx context.Context, cfg config.MongoConfig, ttl time.Duration) (storage *SessionStorage, closeFn func(), err error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("session store: mongo connect: %w", err)
	}
	disconnect := func() { _ = client.Disconnect(context.Background()) }

	if err := client.Ping(connectCtx, nil); err != nil {
		disconnect()
		return nil, nil, fmt.Errorf("session store: mongo ping %s: %w", cfg.Database, err)
	}

	storage = NewSessionStorage(client.Database(cfg.Database), ttl)
	if err := storage.EnsureIndexes(ctx); err != nil {
		disconnect()
		return nil, nil, err
	}
	return storage, disconnect, nil
}

func clientOptions(cfg config.MongoConfig) *options.ClientOptions {
	return options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(connectTimeout)
}
