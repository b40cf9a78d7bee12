package telemetry

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// RedisSink keeps a capped list of the most recent invocations for live
// tailing by operators. It is a best-effort secondary sink: the Postgres
// table remains the system of record.
type RedisSink struct {
	rdb        *redis.Client
	key        string
	maxEntries int64
}

const defaultLiveTailKey = "telemetry:invocations:recent"

func NewRedisSink(rdb *redis.Client, key string, maxEntries int64) *RedisSink {
	if key == "" {
		key = defaultLiveTailKey
	}
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &RedisSink{rdb: rdb, key: key, maxEntries: maxEntries}
}

var liveTailPushScript = redis.NewScript(`
-- KEYS[1] = list key
-- ARGV[1] = encoded record
-- ARGV[2] = max entries to retain
-- Push and trim in one round trip so the list never grows unbounded
-- between the two operations.
redis.call('LPUSH', KEYS[1], ARGV[1])
redis.call('LTRIM', KEYS[1], 0, tonumber(ARGV[2]) - 1)
return 1
`)

func (s *RedisSink) Insert(ctx context.Context, inv Invocation) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return err
	}
	return liveTailPushScript.Run(ctx, s.rdb, []string{s.key}, data, s.maxEntries).Err()
}
