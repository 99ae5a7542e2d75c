// Package database contains the logic for establishing
// connections to the MongoDB database.
//
// It handles:
//   - creating the mongo client (the driver keeps its own connection pool)
//   - wiring command logging for local development
//   - optional New Relic instrumentation (nrmongo)
//   - creating the indexes the listing queries rely on
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/eventhub/internal/config"
	loggerConfig "github.com/deppfellow/eventhub/internal/logger"
	"github.com/newrelic/go-agent/v3/integrations/nrmongo"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Database wraps the mongo client and the application database handle.
type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
	log    *zerolog.Logger
}

// New connects to MongoDB and pings the primary.
//
// In the "local" environment every command is logged through zerolog.
// When New Relic is enabled the command monitor is wrapped by nrmongo so
// each command becomes a datastore segment.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.Database.URI).
		SetAppName(config.ServiceName).
		SetConnectTimeout(cfg.Database.ConnectTimeout)

	var monitor *event.CommandMonitor
	if cfg.Primary.Env == "local" {
		monitor = NewCommandLogger(logger, cfg.Observability.Logging.SlowQueryThreshold)
	}

	if loggerService != nil && loggerService.GetApplication() != nil {
		monitor = nrmongo.NewCommandMonitor(monitor)
	}

	if monitor != nil {
		clientOpts.SetMonitor(monitor)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	database := &Database{
		Client: client,
		DB:     client.Database(cfg.Database.Name),
		log:    logger,
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.Database.PingTimeout)
	defer pingCancel()
	if err = database.Ping(pingCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("database", cfg.Database.Name).Msg("connected to the database")

	return database, nil
}

// Ping checks that the primary is reachable.
func (db *Database) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, readpref.Primary())
}

// Collection returns a handle to the named collection.
func (db *Database) Collection(name string) *mongo.Collection {
	return db.DB.Collection(name)
}

// Close disconnects the client, waiting for in-flight operations until ctx ends.
func (db *Database) Close(ctx context.Context) error {
	db.log.Info().Msg("closing database connection pool")
	return db.Client.Disconnect(ctx)
}

// NewCommandLogger returns a command monitor that logs every mongo command.
// Commands slower than slowThreshold are logged at warn level.
func NewCommandLogger(logger *zerolog.Logger, slowThreshold time.Duration) *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(_ context.Context, evt *event.CommandStartedEvent) {
			logger.Debug().
				Str("command", evt.CommandName).
				Str("database", evt.DatabaseName).
				Int64("request_id", evt.RequestID).
				Str("statement", evt.Command.String()).
				Msg("mongo command started")
		},
		Succeeded: func(_ context.Context, evt *event.CommandSucceededEvent) {
			e := logger.Debug()
			if slowThreshold > 0 && evt.Duration >= slowThreshold {
				e = logger.Warn().Bool("slow", true)
			}
			e.Str("command", evt.CommandName).
				Int64("request_id", evt.RequestID).
				Dur("duration", evt.Duration).
				Msg("mongo command succeeded")
		},
		Failed: func(_ context.Context, evt *event.CommandFailedEvent) {
			logger.Error().
				Str("command", evt.CommandName).
				Int64("request_id", evt.RequestID).
				Dur("duration", evt.Duration).
				Str("failure", evt.Failure).
				Msg("mongo command failed")
		},
	}
}
