package helper_test

import (
	"context"
	"testing"
	"time"

	authModel "schoolku_backend/internals/features/users/auth/model"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/testutil"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBBlacklist(t *testing.T) {
	db := testutil.NewDB(t)
	bl := helperAuth.NewBlacklist(db, nil, testutil.Secret)
	ctx := context.Background()

	require.NoError(t, bl.Add(ctx, "tok-live", time.Now().Add(time.Hour)))
	require.NoError(t, bl.Add(ctx, "tok-live", time.Now().Add(2*time.Hour)), "re-adding updates the expiry")
	require.NoError(t, bl.Add(ctx, "tok-old", time.Now().Add(-time.Hour)))

	got, err := bl.Contains(ctx, "tok-live")
	require.NoError(t, err)
	assert.True(t, got)
	got, err = bl.Contains(ctx, "tok-old")
	require.NoError(t, err)
	assert.False(t, got, "expired entries no longer block")
	got, err = bl.Contains(ctx, "never-seen")
	require.NoError(t, err)
	assert.False(t, got)

	var rows []authModel.TokenBlacklist
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.NotContains(t, r.TokenHash, "tok-", "only the HMAC is stored")
	}

	n, err := helperAuth.PurgeExpired(ctx, db, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCachedBlacklistFallsBackToDB(t *testing.T) {
	db := testutil.NewDB(t)
	// nothing listens on port 1: every Redis call fails fast
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	bl := helperAuth.NewBlacklist(db, rdb, testutil.Secret)
	require.IsType(t, &helperAuth.CachedBlacklist{}, bl)
	ctx := context.Background()

	require.NoError(t, bl.Add(ctx, "tok-revoked", time.Now().Add(time.Hour)))
	var n int64
	require.NoError(t, db.Model(&authModel.TokenBlacklist{}).Count(&n).Error)
	assert.Equal(t, int64(1), n, "the row is written even with Redis configured")

	got, err := bl.Contains(ctx, "tok-revoked")
	require.NoError(t, err)
	assert.True(t, got)
	got, err = bl.Contains(ctx, "tok-other")
	require.NoError(t, err)
	assert.False(t, got)
}
