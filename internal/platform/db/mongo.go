package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jpbalagtas/kusinakit/internal/config"
)

// NewMongo creates and validates a MongoDB client. The connection URI
// comes from MONGO_URI so credentials stay out of the config file.
func NewMongo(signalCtx context.Context, cfg *config.MongoOptions) (*mongo.Client, error) {
	slog.Info("Connecting to mongodb...")

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	connectCtx, cancel := context.WithTimeout(signalCtx, cfg.ConnectTimeout.Duration)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(signalCtx, cfg.PingTimeout.Duration)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	slog.Info("Connected to mongodb.", "db", cfg.Database)

	return client, nil
}
