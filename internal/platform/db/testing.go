package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ferdiebergado/gopherkit/env"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jpbalagtas/kusinakit/internal/config"
)

// Paths are relative to the calling test's directory, two levels below
// the project root.
const projRoot = "../../"

func loadTestConfig(t *testing.T) *config.Options {
	t.Helper()

	if err := env.Load(projRoot + ".env.testing"); err != nil {
		t.Fatalf("failed to load environment file: %v", err)
	}

	cfg, err := config.New(projRoot + "config.json")
	if err != nil {
		t.Fatalf("failed to load config file: %v", err)
	}

	return cfg
}

// SetupPostgres connects to the test database and closes the connection
// when the test finishes.
func SetupPostgres(t *testing.T) *sql.DB {
	t.Helper()

	cfg := loadTestConfig(t)

	conn, err := NewPostgres(context.Background(), cfg.DB)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Logf("failed to close database connection: %v", err)
		}
	})

	return conn
}

// SetupMongo connects to the test mongodb instance and disconnects the
// client when the test finishes.
func SetupMongo(t *testing.T) *mongo.Database {
	t.Helper()

	cfg := loadTestConfig(t)

	client, err := NewMongo(context.Background(), cfg.Mongo)
	if err != nil {
		t.Fatalf("failed to connect to mongodb: %v", err)
	}

	t.Cleanup(func() {
		if err := client.Disconnect(context.Background()); err != nil {
			t.Logf("failed to disconnect mongodb client: %v", err)
		}
	})

	return client.Database(cfg.Mongo.Database)
}
