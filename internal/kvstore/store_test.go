package kvstore

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/dbmcp-go/internal/response"
)

func addressOf(t *testing.T, mr *miniredis.Miniredis, password string) Address {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return Address{Host: mr.Host(), Port: port, Password: password}
}

// newTestStore returns a store connected to a fresh in-process Redis.
func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := New(nil)
	require.NoError(t, s.Init(context.Background(), addressOf(t, mr, "")))
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func run(t *testing.T, s *Store, line string) any {
	t.Helper()
	res, err := s.Execute(context.Background(), line)
	require.NoError(t, err, line)
	assert.Equal(t, line, res.Command)
	return res.Result
}

func TestStoreUninitialized(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	calls := map[string]func() error{
		"ListKeys":  func() error { _, err := s.ListKeys(ctx); return err },
		"KeyInfo":   func() error { _, err := s.KeyInfo(ctx, "k"); return err },
		"Execute":   func() error { _, err := s.Execute(ctx, "GET k"); return err },
		"SetString": func() error { _, err := s.SetString(ctx, "k", "v", nil); return err },
		"GetString": func() error { _, err := s.GetString(ctx, "k"); return err },
		"Delete":    func() error { _, err := s.Delete(ctx, "k"); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, response.DBConnectionError, response.CodeOf(call()))
		})
	}
}

func TestStoreInitWithPassword(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")
	s := New(nil)
	t.Cleanup(func() { _ = s.Close() })

	err := s.Init(context.Background(), addressOf(t, mr, "wrong"))
	assert.Equal(t, response.DBConnectionError, response.CodeOf(err))
	assert.False(t, s.Ready())

	require.NoError(t, s.Init(context.Background(), addressOf(t, mr, "s3cret")))
	assert.True(t, s.Ready())
}

func TestStoreInitFailureKeepsPreviousClient(t *testing.T) {
	s, _ := newTestStore(t)
	run(t, s, "SET a 1")

	err := s.Init(context.Background(), Address{Host: "127.0.0.1", Port: 1})
	assert.Equal(t, response.DBConnectionError, response.CodeOf(err))

	got, err := s.GetString(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "1", got.Value)
}

func TestStoreReinitKeepsBorrowedSessionUsable(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)
	old, err := s.mgr.Get()
	require.NoError(t, err)

	conn, release, err := s.session()
	require.NoError(t, err)

	require.NoError(t, s.Init(ctx, addressOf(t, mr, "")))

	require.NoError(t, conn.Ping(ctx).Err(), "in-flight session must finish on the client it started with")
	require.NoError(t, conn.Set(ctx, "during", "reinit", 0).Err())

	release()
	assert.ErrorIs(t, old.Ping(ctx).Err(), redis.ErrClosed, "replaced client closes once its sessions are released")

	got, err := s.GetString(ctx, "during")
	require.NoError(t, err)
	assert.Equal(t, "reinit", got.Value)
}

func TestListKeys(t *testing.T) {
	s, _ := newTestStore(t)

	for range 2 {
		_, err := s.ListKeys(context.Background())
		assert.Equal(t, response.NoTablesFound, response.CodeOf(err))
	}

	run(t, s, "SET a 1")
	run(t, s, "RPUSH b x")

	list, err := s.ListKeys(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, list.Keys)
	assert.Equal(t, 2, list.Count)
}

func TestKeyInfo(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		run(t, s, fmt.Sprintf("RPUSH list e%d", i))
		run(t, s, fmt.Sprintf("ZADD zset %d m%d", i, i))
	}
	run(t, s, "SET str hello")
	run(t, s, "SADD set a b c")
	run(t, s, "HSET hash f1 v1 f2 v2")

	t.Run("string", func(t *testing.T) {
		info, err := s.KeyInfo(ctx, "str")
		require.NoError(t, err)
		assert.Equal(t, "string", info.Type)
		assert.Equal(t, int64(-1), info.TTL)
		require.NotNil(t, info.Value)
		assert.Equal(t, "hello", *info.Value)
	})

	t.Run("list preview is capped", func(t *testing.T) {
		info, err := s.KeyInfo(ctx, "list")
		require.NoError(t, err)
		assert.Equal(t, "list", info.Type)
		require.NotNil(t, info.Length)
		assert.Equal(t, int64(12), *info.Length)
		assert.Len(t, info.Values, 10)
		assert.Equal(t, "e0", info.Values[0])
	})

	t.Run("set", func(t *testing.T) {
		info, err := s.KeyInfo(ctx, "set")
		require.NoError(t, err)
		assert.Equal(t, "set", info.Type)
		assert.Equal(t, int64(3), *info.Size)
		assert.ElementsMatch(t, []string{"a", "b", "c"}, info.Members)
	})

	t.Run("sorted set preview is capped", func(t *testing.T) {
		info, err := s.KeyInfo(ctx, "zset")
		require.NoError(t, err)
		assert.Equal(t, "zset", info.Type)
		assert.Equal(t, int64(12), *info.Size)
		assert.Equal(t, []string{"m0", "m1", "m2", "m3", "m4", "m5", "m6", "m7", "m8", "m9"}, info.Members)
	})

	t.Run("hash", func(t *testing.T) {
		info, err := s.KeyInfo(ctx, "hash")
		require.NoError(t, err)
		assert.Equal(t, "hash", info.Type)
		assert.Equal(t, int64(2), *info.Size)
		assert.Equal(t, map[string]string{"f1": "v1", "f2": "v2"}, info.Fields)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := s.KeyInfo(ctx, "nope")
		assert.Equal(t, response.TableNotFound, response.CodeOf(err))
	})
}

func TestExecuteSetWithExpiry(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Equal(t, "OK", run(t, s, "SET k v EX 10"))

	ttl, ok := run(t, s, "TTL k").(int64)
	require.True(t, ok)
	assert.Greater(t, ttl, int64(0))
	assert.LessOrEqual(t, ttl, int64(10))

	info, err := s.KeyInfo(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "string", info.Type)
	assert.Equal(t, "v", *info.Value)
}

func TestExecuteCommands(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Nil(t, run(t, s, "GET missing"))
	assert.Equal(t, "OK", run(t, s, "set a 1"))
	assert.Nil(t, run(t, s, "SET a 2 NX"), "NX on an existing key is a nil reply")
	assert.Equal(t, "1", run(t, s, "get a"))
	assert.Equal(t, "OK", run(t, s, "SET a 3 XX PX 5000"))
	assert.Equal(t, int64(-2), run(t, s, "TTL b"), "missing keys report -2")

	assert.Equal(t, int64(3), run(t, s, "RPUSH l x y z"))
	assert.Equal(t, int64(4), run(t, s, "LPUSH l w"))
	assert.Equal(t, []string{"w", "x"}, run(t, s, "LRANGE l 0 1"))

	assert.Equal(t, int64(1), run(t, s, "HSET h f v"))
	assert.Equal(t, int64(2), run(t, s, "HSET h g 1 i 2"))
	assert.Equal(t, "v", run(t, s, "HGET h f"))
	assert.Nil(t, run(t, s, "HGET h nope"))
	assert.Equal(t, map[string]string{"f": "v", "g": "1", "i": "2"}, run(t, s, "HGETALL h"))

	assert.Equal(t, int64(2), run(t, s, "SADD s a b"))
	assert.ElementsMatch(t, []string{"a", "b"}, run(t, s, "SMEMBERS s"))

	assert.Equal(t, int64(2), run(t, s, "ZADD z 2 two 1 one"))
	assert.Equal(t, []string{"one", "two"}, run(t, s, "ZRANGE z 0 -1"))

	assert.Equal(t, int64(1), run(t, s, "EXPIRE a 100"))
	assert.Equal(t, int64(0), run(t, s, "EXPIRE missing 100"))

	assert.ElementsMatch(t, []string{"h"}, run(t, s, "KEYS h*"))
	assert.Equal(t, int64(2), run(t, s, "DEL a s missing"))
}

func TestExecuteFailures(t *testing.T) {
	s, _ := newTestStore(t)
	run(t, s, "SET str v")

	for _, line := range []string{
		"FOOBAR x",
		"",
		"   ",
		"GET",
		"EXPIRE str soon",
		"LRANGE l a b",
		"ZADD z high member",
		"SET k v EX 0",
		"SET k v EX 10 PX 100",
		"SET k v NX XX",
		"LPUSH str x",
	} {
		t.Run(line, func(t *testing.T) {
			_, err := s.Execute(context.Background(), line)
			assert.Equal(t, response.SQLExecutionError, response.CodeOf(err))
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	set, err := s.SetString(ctx, "a", "1", nil)
	require.NoError(t, err)
	assert.Equal(t, &SetResult{Key: "a", Value: "1", Result: "OK"}, set)

	got, err := s.GetString(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, &GetResult{Key: "a", Value: "1", TTL: -1}, got)
}

func TestSetStringWithExpiry(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()
	expire := 30

	set, err := s.SetString(ctx, "a", "1", &expire)
	require.NoError(t, err)
	require.NotNil(t, set.Expire)
	assert.Equal(t, 30, *set.Expire)

	got, err := s.GetString(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(30), got.TTL)

	zero := 0
	set, err = s.SetString(ctx, "b", "2", &zero)
	require.NoError(t, err)
	assert.Nil(t, set.Expire)
	assert.Zero(t, mr.TTL("b"))
}

func TestGetStringMissing(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.GetString(context.Background(), "nope")
	assert.Equal(t, response.TableNotFound, response.CodeOf(err))
}

func TestGetStringWrongType(t *testing.T) {
	s, _ := newTestStore(t)
	run(t, s, "RPUSH l x")

	_, err := s.GetString(context.Background(), "l")
	assert.Equal(t, response.SQLExecutionError, response.CodeOf(err))
}

func TestDelete(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	_, err := s.Delete(ctx, "nope")
	assert.Equal(t, response.TableNotFound, response.CodeOf(err))

	run(t, s, "SET k v")
	res, err := s.Delete(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, &DeleteResult{Key: "k", Deleted: 1}, res)
	assert.False(t, mr.Exists("k"))
}
