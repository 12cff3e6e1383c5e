// Package mongo dials the document database backend.
package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultDatabase is used when no database name is configured.
const DefaultDatabase = "aquahaven"

// Connect dials uri and pings the primary within timeout. The returned cleanup disconnects the client.
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*mongo.Database, func(), error) {
	if strings.TrimSpace(uri) == "" {
		return nil, func() {}, fmt.Errorf("mongo URI is empty")
	}
	if strings.TrimSpace(database) == "" {
		database = DefaultDatabase
	}
	opts := options.Client().ApplyURI(uri)
	if timeout > 0 {
		opts.SetServerSelectionTimeout(timeout).SetConnectTimeout(timeout)
	}
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, func() {}, err
	}
	disconnect := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
	pingCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnect()
		return nil, func() {}, fmt.Errorf("mongo ping: %w", err)
	}
	return client.Database(database), disconnect, nil
}
