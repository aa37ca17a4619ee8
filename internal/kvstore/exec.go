package kvstore

import (
	"context"
	"time"

	"github.com/raphaelgruber/dbmcp-go/internal/response"
)

// CommandResult is returned by Execute.
type CommandResult struct {
	Command string `json:"command"`
	Result  any    `json:"result"`
}

// SetResult is returned by SetString.
type SetResult struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Result string `json:"result"`
	Expire *int   `json:"expire,omitempty"`
}

// GetResult is returned by GetString.
type GetResult struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	TTL   int64  `json:"ttl"`
}

// DeleteResult is returned by Delete.
type DeleteResult struct {
	Key     string `json:"key"`
	Deleted int64  `json:"deleted"`
}

// Execute parses line and runs it on a borrowed connection. Parse errors,
// unknown verbs and backend errors all map to SQLExecutionError.
func (s *Store) Execute(ctx context.Context, line string) (*CommandResult, error) {
	conn, release, err := s.session()
	if err != nil {
		return nil, err
	}
	defer release()

	cmd, err := ParseCommand(line)
	if err != nil {
		s.logger.Warn("rejected command", "error", err)
		return nil, response.Fail(response.SQLExecutionError, err)
	}

	result, err := Run(ctx, conn, cmd)
	if err != nil {
		s.logger.Error("command failed", "verb", cmd.Verb, "error", err)
		return nil, response.Fail(response.SQLExecutionError, err)
	}
	return &CommandResult{Command: line, Result: result}, nil
}

// SetString stores value under key, with an expiry when expireSeconds is
// positive.
func (s *Store) SetString(ctx context.Context, key, value string, expireSeconds *int) (*SetResult, error) {
	conn, release, err := s.session()
	if err != nil {
		return nil, err
	}
	defer release()

	var ttl time.Duration
	if expireSeconds != nil && *expireSeconds > 0 {
		ttl = time.Duration(*expireSeconds) * time.Second
	}

	status, err := conn.Set(ctx, key, value, ttl).Result()
	if err != nil {
		s.logger.Error("set failed", "key", key, "error", err)
		return nil, response.Fail(response.SQLExecutionError, err)
	}

	res := &SetResult{Key: key, Value: value, Result: status}
	if ttl > 0 {
		res.Expire = expireSeconds
	}
	return res, nil
}

// GetString returns the string value and remaining ttl of key.
func (s *Store) GetString(ctx context.Context, key string) (*GetResult, error) {
	conn, release, err := s.session()
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.exists(ctx, conn, key, response.SQLExecutionError); err != nil {
		return nil, err
	}

	value, err := conn.Get(ctx, key).Result()
	if err != nil {
		s.logger.Error("get failed", "key", key, "error", err)
		return nil, response.Fail(response.SQLExecutionError, err)
	}
	ttl, err := conn.TTL(ctx, key).Result()
	if err != nil {
		s.logger.Error("ttl failed", "key", key, "error", err)
		return nil, response.Fail(response.SQLExecutionError, err)
	}
	return &GetResult{Key: key, Value: value, TTL: ttlSeconds(ttl)}, nil
}

// Delete removes key, reporting TableNotFound when it does not exist.
func (s *Store) Delete(ctx context.Context, key string) (*DeleteResult, error) {
	conn, release, err := s.session()
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.exists(ctx, conn, key, response.SQLExecutionError); err != nil {
		return nil, err
	}

	n, err := conn.Del(ctx, key).Result()
	if err != nil {
		s.logger.Error("delete failed", "key", key, "error", err)
		return nil, response.Fail(response.SQLExecutionError, err)
	}
	return &DeleteResult{Key: key, Deleted: n}, nil
}
