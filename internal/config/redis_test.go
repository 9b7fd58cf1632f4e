package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisAddrPrecedence(t *testing.T) {
	// An explicit address wins over the host/port pair.
	assert.Equal(t, "cache.local:6380", redisAddr("cache.local:6380", "other", "6379"))
	assert.Equal(t, "other:6379", redisAddr("", "other", "6379"))
	assert.Equal(t, "localhost:6379", redisAddr("", "", ""))
	assert.Equal(t, "localhost:6379", redisAddr("", "host-only", ""))
}
