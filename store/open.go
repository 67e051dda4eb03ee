package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Options selects and configures a store backend for the operator tooling.
type Options struct {
	Backend  string // "file" or "mongo"
	DataDir  string // file backend: directory holding the JSON collections
	Strict   bool
	MongoURI string
	MongoDB  string
}

// Open builds the configured store. The returned cleanup function releases
// the underlying connection and is safe to call even for the file backend.
func Open(ctx context.Context, opts Options, log zerolog.Logger) (Store, func(), error) {
	switch opts.Backend {
	case "", "file":
		return NewFileStore(opts.DataDir, opts.Strict, log), func() {}, nil
	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(opts.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("store: connect to MongoDB: %w", err)
		}
		if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
			return nil, nil, fmt.Errorf("store: ping MongoDB: %w", err)
		}
		cleanup := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to disconnect from MongoDB")
			}
		}
		return NewMongoStore(client.Database(opts.MongoDB), opts.Strict, log), cleanup, nil
	default:
		return nil, nil, fmt.Errorf("store: unknown backend %q", opts.Backend)
	}
}
