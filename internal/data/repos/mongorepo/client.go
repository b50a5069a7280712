package mongorepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

const DefaultDatabase = "eduhub_db"

type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Connect dials the server and pings the primary before returning.
func Connect(ctx context.Context, cfg Config, log *logger.Logger) (*mongo.Client, *mongo.Database, error) {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, nil, fmt.Errorf("mongo store: empty URI")
	}
	name := strings.TrimSpace(cfg.Database)
	if name == "" {
		name = DefaultDatabase
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	if log != nil {
		log.Info("mongo store connected", "database", name)
	}
	return client, client.Database(name), nil
}
