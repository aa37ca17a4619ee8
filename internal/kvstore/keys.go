package kvstore

import (
	"context"
	"fmt"

	"github.com/raphaelgruber/dbmcp-go/internal/response"
)

// KeyList is the result of ListKeys.
type KeyList struct {
	Keys  []string `json:"keys"`
	Count int      `json:"count"`
}

// KeyInfo describes one key. Only the fields of the key's type are set.
type KeyInfo struct {
	Key     string            `json:"key"`
	Type    string            `json:"type"`
	TTL     int64             `json:"ttl"`
	Value   *string           `json:"value,omitempty"`
	Length  *int64            `json:"length,omitempty"`
	Values  []string          `json:"values,omitempty"`
	Size    *int64            `json:"size,omitempty"`
	Members []string          `json:"members,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ListKeys returns every key (KEYS *). This is a full keyspace scan.
func (s *Store) ListKeys(ctx context.Context) (*KeyList, error) {
	conn, release, err := s.session()
	if err != nil {
		return nil, err
	}
	defer release()

	keys, err := conn.Keys(ctx, "*").Result()
	if err != nil {
		s.logger.Error("list keys failed", "error", err)
		return nil, response.Fail(response.TableNamesQueryError, err)
	}
	if len(keys) == 0 {
		return nil, response.Fail(response.NoTablesFound, nil)
	}
	return &KeyList{Keys: keys, Count: len(keys)}, nil
}

// KeyInfo reports type, ttl and a type specific payload for key.
func (s *Store) KeyInfo(ctx context.Context, key string) (*KeyInfo, error) {
	conn, release, err := s.session()
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.exists(ctx, conn, key, response.TableQueryError); err != nil {
		return nil, err
	}

	info, err := func() (*KeyInfo, error) {
		typ, err := conn.Type(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("type: %w", err)
		}
		ttl, err := conn.TTL(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("ttl: %w", err)
		}
		info := &KeyInfo{Key: key, Type: typ, TTL: ttlSeconds(ttl)}

		switch typ {
		case "string":
			v, err := conn.Get(ctx, key).Result()
			if err != nil {
				return nil, fmt.Errorf("get: %w", err)
			}
			info.Value = &v
		case "list":
			n, err := conn.LLen(ctx, key).Result()
			if err != nil {
				return nil, fmt.Errorf("llen: %w", err)
			}
			info.Length = &n
			if info.Values, err = conn.LRange(ctx, key, 0, previewLimit-1).Result(); err != nil {
				return nil, fmt.Errorf("lrange: %w", err)
			}
		case "set":
			n, err := conn.SCard(ctx, key).Result()
			if err != nil {
				return nil, fmt.Errorf("scard: %w", err)
			}
			info.Size = &n
			if info.Members, err = conn.SMembers(ctx, key).Result(); err != nil {
				return nil, fmt.Errorf("smembers: %w", err)
			}
		case "zset":
			n, err := conn.ZCard(ctx, key).Result()
			if err != nil {
				return nil, fmt.Errorf("zcard: %w", err)
			}
			info.Size = &n
			if info.Members, err = conn.ZRange(ctx, key, 0, previewLimit-1).Result(); err != nil {
				return nil, fmt.Errorf("zrange: %w", err)
			}
		case "hash":
			n, err := conn.HLen(ctx, key).Result()
			if err != nil {
				return nil, fmt.Errorf("hlen: %w", err)
			}
			info.Size = &n
			if info.Fields, err = conn.HGetAll(ctx, key).Result(); err != nil {
				return nil, fmt.Errorf("hgetall: %w", err)
			}
		}
		return info, nil
	}()
	if err != nil {
		s.logger.Error("key info failed", "key", key, "error", err)
		return nil, response.Fail(response.TableQueryError, err)
	}
	return info, nil
}
