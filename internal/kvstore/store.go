// Package kvstore implements the Redis tools: connection setup, key listing,
// key inspection, free-text command execution and typed string helpers.
package kvstore

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/raphaelgruber/dbmcp-go/internal/db"
	"github.com/raphaelgruber/dbmcp-go/internal/response"
)

// Pool settings applied to every client.
const (
	poolSize     = 10
	maxIdleConns = 5
	minIdleConns = 1
	dialTimeout  = 2 * time.Second
)

// previewLimit caps the elements returned for lists and sorted sets.
const previewLimit = 10

// Address identifies a Redis server.
type Address struct {
	Host     string
	Port     int
	Password string
}

func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Store owns the Redis connection manager. All methods are safe for
// concurrent use and return *response.Error values on failure.
type Store struct {
	mgr    *db.Manager[*redis.Client]
	logger *slog.Logger
}

// New creates an uninitialized store.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		mgr:    db.NewManager[*redis.Client]("redis", logger),
		logger: logger,
	}
}

// Init creates a client for addr, verifies it with PING and commits it. A
// failed Init keeps the previously committed client.
func (s *Store) Init(ctx context.Context, addr Address) error {
	open := func(context.Context) (*redis.Client, error) {
		return redis.NewClient(&redis.Options{
			Addr:         addr.String(),
			Password:     addr.Password,
			PoolSize:     poolSize,
			MaxIdleConns: maxIdleConns,
			MinIdleConns: minIdleConns,
			DialTimeout:  dialTimeout,
		}), nil
	}
	if err := s.mgr.Init(ctx, addr.String(), open, probe); err != nil {
		return response.Fail(response.DBConnectionError, err)
	}
	return nil
}

// Ready reports whether a client has been committed.
func (s *Store) Ready() bool {
	return s.mgr.Ready()
}

// Close releases the current client.
func (s *Store) Close() error {
	return s.mgr.Close()
}

func probe(ctx context.Context, c *redis.Client) error {
	conn := c.Conn()
	defer func() { _ = conn.Close() }()
	return conn.Ping(ctx).Err()
}

// session borrows a dedicated connection from the pool. The client stays open
// until release runs, even if Init replaces it. The returned release function
// must be deferred by the caller.
func (s *Store) session() (*redis.Conn, func(), error) {
	client, done, err := s.mgr.Acquire()
	if err != nil {
		return nil, nil, response.Fail(response.DBConnectionError, err)
	}
	conn := client.Conn()
	release := func() {
		if err := conn.Close(); err != nil {
			s.logger.Warn("release connection", "error", err)
		}
		done()
	}
	return conn, release, nil
}

// exists wraps EXISTS, mapping backend failures to onFail.
func (s *Store) exists(ctx context.Context, conn *redis.Conn, key string, onFail response.Code) error {
	n, err := conn.Exists(ctx, key).Result()
	if err != nil {
		s.logger.Error("exists failed", "key", key, "error", err)
		return response.Fail(onFail, err)
	}
	if n == 0 {
		return response.Fail(response.TableNotFound, fmt.Errorf("key %q does not exist", key))
	}
	return nil
}
