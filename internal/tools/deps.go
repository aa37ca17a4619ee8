// Package tools provides MCP tool handlers and registration.
package tools

import (
	"errors"
	"log/slog"

	"github.com/raphaelgruber/dbmcp-go/internal/kvstore"
	"github.com/raphaelgruber/dbmcp-go/internal/metrics"
	"github.com/raphaelgruber/dbmcp-go/internal/sqlstore"
)

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture.
type Dependencies struct {
	SQL     *sqlstore.Store
	KV      *kvstore.Store
	Metrics *metrics.Collector
	Logger  *slog.Logger
}

// NewDependencies creates empty stores sharing logger.
func NewDependencies(logger *slog.Logger) *Dependencies {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dependencies{
		SQL:     sqlstore.New(logger.With("store", "sql")),
		KV:      kvstore.New(logger.With("store", "redis")),
		Metrics: metrics.NewCollector(),
		Logger:  logger,
	}
}

// Close releases both stores.
func (d *Dependencies) Close() error {
	return errors.Join(d.SQL.Close(), d.KV.Close())
}
