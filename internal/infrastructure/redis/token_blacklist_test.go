package redis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/redis"
)

type keySet struct {
	keys map[string]bool
	err  error
	seen []string
}

func (k *keySet) Exists(_ context.Context, rawKey string) (bool, error) {
	k.seen = append(k.seen, rawKey)
	return k.keys[rawKey], k.err
}

func TestTokenBlacklist_IsBlacklisted(t *testing.T) {
	keys := &keySet{keys: map[string]bool{"token_blacklist:abc": true}}
	bl := redis.NewTokenBlacklist(keys, "token_blacklist")
	ctx := context.Background()

	revoked, err := bl.IsBlacklisted(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = bl.IsBlacklisted(ctx, "def")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = bl.IsBlacklisted(ctx, "")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Equal(t, []string{"token_blacklist:abc", "token_blacklist:def"}, keys.seen)
}

func TestTokenBlacklist_StoreError(t *testing.T) {
	down := errors.New("connection refused")
	bl := redis.NewTokenBlacklist(&keySet{err: down}, "token_blacklist")

	_, err := bl.IsBlacklisted(context.Background(), "abc")

	assert.ErrorIs(t, err, down)
}
