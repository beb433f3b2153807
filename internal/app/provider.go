package app

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jpbalagtas/kusinakit/internal/config"
	"github.com/jpbalagtas/kusinakit/internal/health"
	"github.com/jpbalagtas/kusinakit/internal/platform/db"
	"github.com/jpbalagtas/kusinakit/internal/platform/router"
	"github.com/jpbalagtas/kusinakit/internal/platform/validation"
	"github.com/jpbalagtas/kusinakit/internal/store"
)

type Providers struct {
	Router    router.Router
	Validator validation.Validator
}

func setupProviders() *Providers {
	return &Providers{
		Router:    router.NewGoexpressRouter(),
		Validator: validation.NewGoPlaygroundValidator(),
	}
}

// Stores bundles the persistence adapters selected by configuration.
// Ping checks the record store backend; Close releases every opened
// connection.
type Stores struct {
	Records store.RecordStore
	Files   store.FileStore
	Ping    health.Pinger
	Close   func()
}

func setupStores(signalCtx context.Context, opts *config.Options) (*Stores, error) {
	stores := &Stores{Close: func() {}}

	var mongoDB *mongo.Database
	needsMongo := opts.Store.Records == "mongo" || opts.Store.Files == "gridfs"
	if needsMongo {
		client, err := db.NewMongo(signalCtx, opts.Mongo)
		if err != nil {
			return nil, err
		}
		mongoDB = client.Database(opts.Mongo.Database)
		stores.Close = func() {
			client.Disconnect(context.Background()) //nolint:errcheck //Shutting down anyway.
		}
		stores.Ping = func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}
	}

	switch opts.Store.Records {
	case "mongo":
		stores.Records = store.NewMongoRecordStore(mongoDB)
	case "postgres":
		dbConn, err := db.NewPostgres(signalCtx, opts.DB)
		if err != nil {
			stores.Close()
			return nil, err
		}

		records := store.NewPostgresRecordStore(dbConn)
		if err := records.EnsureCollection(signalCtx, opts.Store.Collection); err != nil {
			dbConn.Close()
			stores.Close()
			return nil, err
		}

		stores.Records = records
		// A gridfs file store may already have registered the mongo
		// pinger; readiness must cover both backends.
		stores.Ping = chainPings(dbConn.PingContext, stores.Ping)
		closeMongo := stores.Close
		stores.Close = func() {
			dbConn.Close()
			closeMongo()
		}
	default:
		stores.Close()
		return nil, fmt.Errorf("unknown record store driver: %q", opts.Store.Records)
	}

	switch opts.Store.Files {
	case "gridfs":
		files, err := store.NewGridFSFileStore(mongoDB, opts.Store.Bucket)
		if err != nil {
			stores.Close()
			return nil, err
		}
		stores.Files = files
	case "disk":
		files, err := store.NewDiskFileStore(opts.Store.FilesDir)
		if err != nil {
			stores.Close()
			return nil, err
		}
		stores.Files = files
	default:
		stores.Close()
		return nil, fmt.Errorf("unknown file store driver: %q", opts.Store.Files)
	}

	return stores, nil
}

// chainPings folds several pingers into one that fails on the first
// unhealthy backend. Nil entries are skipped.
func chainPings(pings ...health.Pinger) health.Pinger {
	return func(ctx context.Context) error {
		for _, ping := range pings {
			if ping == nil {
				continue
			}
			if err := ping(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}
