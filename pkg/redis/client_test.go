package redis

import (
	"context"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewClient(config.RedisConfig{Addr: mr.Addr(), PoolSize: 2})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestHSetWithTTL(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.HSetWithTTL(ctx, "invindex:doc:a.txt", map[string]any{
		"status": "ok",
		"terms":  16,
	}, time.Hour))

	fields, err := c.HGetAll(ctx, "invindex:doc:a.txt")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"status": "ok", "terms": "16"}, fields)
	assert.Equal(t, time.Hour, mr.TTL("invindex:doc:a.txt"))

	mr.FastForward(2 * time.Hour)
	fields, err = c.HGetAll(ctx, "invindex:doc:a.txt")
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestGetSet(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.Error(t, err)

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
	assert.Equal(t, time.Minute, mr.TTL("k"))
	assert.NoError(t, c.Ping(ctx))
}

func TestNewClientFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewClient(config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}
