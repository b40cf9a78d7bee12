package utils

import (
	"context"
	"testing"
)

func TestOpenRedis_RequiresAddr(t *testing.T) {
	if _, err := OpenRedis(context.Background(), RedisConfig{}); err == nil {
		t.Fatalf("expected error for missing addr")
	}
}

func TestRedisConfig_Defaults(t *testing.T) {
	c := RedisConfig{Addr: "localhost:6379"}.withDefaults()
	if c.DialTimeout <= 0 || c.PoolSize <= 0 || c.PingTimeout <= 0 {
		t.Fatalf("expected conservative defaults, got %+v", c)
	}
}
