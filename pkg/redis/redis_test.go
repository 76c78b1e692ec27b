package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sepa/backend/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(context.Background(), &config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Close())
}

func TestNilClientIsDisabled(t *testing.T) {
	var client *Client
	assert.False(t, client.Enabled())
	assert.False(t, NewFromRedis(nil).Enabled())
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "sepa")

	allowed, remaining, err := limiter.Allow(context.Background(), DARTRateLimit)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, DARTRateLimit.Limit, remaining)

	assert.NoError(t, limiter.Wait(context.Background(), NaverRateLimit))
}

func TestCache_Disabled(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(disabledClient(t), "sepa")

	require.NoError(t, cache.Set(ctx, StatementKey("005930", 2024), map[string]int{"a": 1}, TTLStatements))

	var result map[string]int
	found, err := cache.Get(ctx, StatementKey("005930", 2024), &result)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, cache.Delete(ctx, StatementKey("005930", 2024)))
}

func TestCacheKeys(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"PriceKey", PriceKey("005930", "20250314"), "price:005930:20250314"},
		{"StatementKey", StatementKey("000660", 2024), "statement:000660:2024"},
		{"CompanyKey", CompanyKey("042700"), "company:042700"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}

	assert.Equal(t, "sepa:cache:company:042700", NewCache(nil, "sepa").key(CompanyKey("042700")))
}
