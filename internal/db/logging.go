package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/charmbracelet/log"
)

// LoggingQueries wraps Queries to add debug logging around query execution
type LoggingQueries struct {
	*Queries
}

// NewLoggingQueries creates a new LoggingQueries instance
func NewLoggingQueries(db DBTX) *LoggingQueries {
	return &LoggingQueries{
		Queries: New(db),
	}
}

// WithTx creates a new LoggingQueries with a transaction
func (lq *LoggingQueries) WithTx(tx *sql.Tx) *LoggingQueries {
	return &LoggingQueries{
		Queries: lq.Queries.WithTx(tx),
	}
}

// Helper function to log query execution
func (lq *LoggingQueries) logQuery(queryName string, start time.Time, err error, args ...interface{}) {
	duration := time.Since(start)

	if err != nil {
		log.Debug("Database query failed",
			"query", queryName,
			"duration", duration,
			"error", err,
			"args", args,
		)
	} else {
		log.Debug("Database query executed",
			"query", queryName,
			"duration", duration,
			"args", args,
		)
	}
}

// CreateMap with logging
func (lq *LoggingQueries) CreateMap(ctx context.Context, arg CreateMapParams) error {
	start := time.Now()
	err := lq.Queries.CreateMap(ctx, arg)
	lq.logQuery("CreateMap", start, err, "map_id", arg.MapID, "seed", arg.Seed)
	return err
}

// GetMap with logging
func (lq *LoggingQueries) GetMap(ctx context.Context, mapID string) (Map, error) {
	start := time.Now()
	m, err := lq.Queries.GetMap(ctx, mapID)
	lq.logQuery("GetMap", start, err, "map_id", mapID)
	return m, err
}

// GetMapImage with logging
func (lq *LoggingQueries) GetMapImage(ctx context.Context, mapID string) ([]byte, error) {
	start := time.Now()
	image, err := lq.Queries.GetMapImage(ctx, mapID)
	lq.logQuery("GetMapImage", start, err, "map_id", mapID)
	return image, err
}

// ListMaps with logging
func (lq *LoggingQueries) ListMaps(ctx context.Context) ([]Map, error) {
	start := time.Now()
	maps, err := lq.Queries.ListMaps(ctx)
	lq.logQuery("ListMaps", start, err, "count", len(maps))
	return maps, err
}

// DeleteMapsBefore with logging
func (lq *LoggingQueries) DeleteMapsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	start := time.Now()
	deleted, err := lq.Queries.DeleteMapsBefore(ctx, cutoff)
	lq.logQuery("DeleteMapsBefore", start, err, "cutoff", cutoff, "deleted", deleted)
	return deleted, err
}
