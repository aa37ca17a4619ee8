// Package sqlstore implements the relational tools: connection setup, table
// listing, table structure introspection and raw SQL execution over
// database/sql.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/raphaelgruber/dbmcp-go/internal/db"
	"github.com/raphaelgruber/dbmcp-go/internal/response"
)

// Store owns the relational connection manager. All methods are safe for
// concurrent use and return *response.Error values on failure.
type Store struct {
	mgr    *db.Manager[*Pool]
	logger *slog.Logger
}

// New creates an uninitialized store.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		mgr:    db.NewManager[*Pool]("sql", logger),
		logger: logger,
	}
}

// Init opens a pool for c, verifies it with a live round-trip and commits it.
// A failed Init keeps the previously committed pool.
func (s *Store) Init(ctx context.Context, c Credentials) error {
	target := db.MaskDSN(c.URL)
	err := s.mgr.Init(ctx, target,
		func(context.Context) (*Pool, error) { return Open(c) },
		probe,
	)
	if err != nil {
		return response.Fail(response.DBConnectionError, err)
	}
	return nil
}

// Ready reports whether a pool has been committed.
func (s *Store) Ready() bool {
	return s.mgr.Ready()
}

// Close releases the current pool.
func (s *Store) Close() error {
	return s.mgr.Close()
}

func probe(ctx context.Context, p *Pool) error {
	conn, err := p.DB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() { _ = conn.Close() }()
	return conn.PingContext(ctx)
}

// session borrows one connection from the current pool. The pool stays open
// until release runs, even if Init replaces it. The returned release function
// must be deferred by the caller.
func (s *Store) session(ctx context.Context, onFail response.Code) (*sql.Conn, Dialect, func(), error) {
	pool, done, err := s.mgr.Acquire()
	if err != nil {
		return nil, Dialect{}, nil, response.Fail(response.DBConnectionError, err)
	}
	conn, err := pool.DB.Conn(ctx)
	if err != nil {
		done()
		s.logger.Error("acquire connection failed", "dialect", pool.Dialect.Name, "error", err)
		return nil, Dialect{}, nil, response.Fail(onFail, err)
	}
	release := func() {
		if err := conn.Close(); err != nil {
			s.logger.Warn("release connection", "error", err)
		}
		done()
	}
	return conn, pool.Dialect, release, nil
}
