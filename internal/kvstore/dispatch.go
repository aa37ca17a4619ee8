package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type handler struct {
	minArgs int
	run     func(ctx context.Context, c redis.Cmdable, args []string) (any, error)
}

// dispatch maps every supported verb to its executor. Operands beyond those a
// verb consumes are ignored.
var dispatch = map[Verb]handler{
	VerbGet: {1, func(ctx context.Context, c redis.Cmdable, a []string) (any, error) {
		return nilable(c.Get(ctx, a[0]).Result())
	}},
	VerbSet: {2, runSet},
	VerbDel: {1, func(ctx context.Context, c redis.Cmdable, a []string) (any, error) {
		return c.Del(ctx, a...).Result()
	}},
	VerbKeys: {1, func(ctx context.Context, c redis.Cmdable, a []string) (any, error) {
		return c.Keys(ctx, a[0]).Result()
	}},
	VerbTTL: {1, func(ctx context.Context, c redis.Cmdable, a []string) (any, error) {
		d, err := c.TTL(ctx, a[0]).Result()
		if err != nil {
			return nil, err
		}
		return ttlSeconds(d), nil
	}},
	VerbExpire: {2, func(ctx context.Context, c redis.Cmdable, a []string) (any, error) {
		secs, err := parseInt(a[1])
		if err != nil {
			return nil, err
		}
		ok, err := c.Expire(ctx, a[0], time.Duration(secs)*time.Second).Result()
		if err != nil {
			return nil, err
		}
		return boolInt(ok), nil
	}},
	VerbLPush: {2, func(ctx context.Context, c redis.Cmdable, a []string) (any, error) {
		return c.LPush(ctx, a[0], toAny(a[1:])...).Result()
	}},
	VerbRPush: {2, func(ctx context.Context, c redis.Cmdable, a []string) (any, error) {
		return c.RPush(ctx, a[0], toAny(a[1:])...).Result()
	}},
	VerbLRange: {3, func(ctx context.Context, c redis.Cmdable, a []string) (any, error) {
		start, stop, err := parseRange(a[1], a[2])
		if err != nil {
			return nil, err
		}
		return c.LRange(ctx, a[0], start, stop).Result()
	}},
	VerbHSet: {3, func(ctx context.Context, c redis.Cmdable, a []string) (any, error) {
		return c.HSet(ctx, a[0], hashPairs(a[1:])...).Result()
	}},
	VerbHGet: {2, func(ctx context.Context, c redis.Cmdable, a []string) (any, error) {
		return nilable(c.HGet(ctx, a[0], a[1]).Result())
	}},
	VerbHGetAll: {1, func(ctx context.Context, c redis.Cmdable, a []string) (any, error) {
		return c.HGetAll(ctx, a[0]).Result()
	}},
	VerbSAdd: {2, func(ctx context.Context, c redis.Cmdable, a []string) (any, error) {
		return c.SAdd(ctx, a[0], toAny(a[1:])...).Result()
	}},
	VerbSMembers: {1, func(ctx context.Context, c redis.Cmdable, a []string) (any, error) {
		return c.SMembers(ctx, a[0]).Result()
	}},
	VerbZAdd: {3, func(ctx context.Context, c redis.Cmdable, a []string) (any, error) {
		members, err := scoreMembers(a[1:])
		if err != nil {
			return nil, err
		}
		return c.ZAdd(ctx, a[0], members...).Result()
	}},
	VerbZRange: {3, func(ctx context.Context, c redis.Cmdable, a []string) (any, error) {
		start, stop, err := parseRange(a[1], a[2])
		if err != nil {
			return nil, err
		}
		return c.ZRange(ctx, a[0], start, stop).Result()
	}},
}

// Run executes cmd against c.
func Run(ctx context.Context, c redis.Cmdable, cmd Command) (any, error) {
	h, ok := dispatch[cmd.Verb]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVerb, cmd.Verb)
	}
	return h.run(ctx, c, cmd.Args)
}

// SetOptions are the trailing modifiers accepted by SET.
func SetOptions(mods []string) (redis.SetArgs, error) {
	var args redis.SetArgs
	for i := 0; i < len(mods); i++ {
		switch strings.ToUpper(mods[i]) {
		case "EX", "PX":
			if i+1 >= len(mods) {
				continue
			}
			if args.TTL != 0 {
				return args, fmt.Errorf("%w: only one of EX or PX may be given", ErrInvalidArgument)
			}
			n, err := parseInt(mods[i+1])
			if err != nil {
				return args, err
			}
			if n <= 0 {
				return args, fmt.Errorf("%w: expire time must be positive", ErrInvalidArgument)
			}
			unit := time.Second
			if strings.EqualFold(mods[i], "PX") {
				unit = time.Millisecond
			}
			args.TTL = time.Duration(n) * unit
			i++
		case "NX", "XX":
			mode := strings.ToUpper(mods[i])
			if args.Mode != "" && args.Mode != mode {
				return args, fmt.Errorf("%w: NX and XX are mutually exclusive", ErrInvalidArgument)
			}
			args.Mode = mode
		}
	}
	return args, nil
}

func runSet(ctx context.Context, c redis.Cmdable, a []string) (any, error) {
	opts, err := SetOptions(a[2:])
	if err != nil {
		return nil, err
	}
	return nilable(c.SetArgs(ctx, a[0], a[1], opts).Result())
}

// nilable turns a nil reply into a successful nil result.
func nilable(v string, err error) (any, error) {
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// hashPairs pairs field/value operands; a trailing field without value is dropped.
func hashPairs(ops []string) []any {
	out := make([]any, 0, len(ops))
	for i := 0; i+1 < len(ops); i += 2 {
		out = append(out, ops[i], ops[i+1])
	}
	return out
}

// scoreMembers reads score/member pairs; a trailing score without member is dropped.
func scoreMembers(ops []string) ([]redis.Z, error) {
	out := make([]redis.Z, 0, len(ops)/2)
	for i := 0; i+1 < len(ops); i += 2 {
		score, err := strconv.ParseFloat(ops[i], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: score %q", ErrInvalidArgument, ops[i])
		}
		out = append(out, redis.Z{Score: score, Member: ops[i+1]})
	}
	return out, nil
}

func parseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidArgument, s)
	}
	return n, nil
}

func parseRange(start, stop string) (int64, int64, error) {
	a, err := parseInt(start)
	if err != nil {
		return 0, 0, err
	}
	b, err := parseInt(stop)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// ttlSeconds converts a TTL reply to seconds, keeping the -1 (no expiry) and
// -2 (missing key) markers.
func ttlSeconds(d time.Duration) int64 {
	if d < 0 {
		return int64(d)
	}
	return int64(d / time.Second)
}
