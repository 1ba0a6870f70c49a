package helper

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	authModel "schoolku_backend/internals/features/users/auth/model"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Blacklist stores revoked access tokens until they expire.
type Blacklist interface {
	Add(ctx context.Context, rawToken string, expiresAt time.Time) error
	Contains(ctx context.Context, rawToken string) (bool, error)
}

// NewBlacklist always persists to the database; with a Redis client, Redis is
// written through and read first.
func NewBlacklist(db *gorm.DB, rdb *redis.Client, secret string) Blacklist {
	store := &DBBlacklist{DB: db, Secret: secret}
	if rdb != nil {
		return &CachedBlacklist{Store: store, Cache: &RedisBlacklist{RDB: rdb, Secret: secret}}
	}
	return store
}

func hmacHex(msg, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(msg))
	return hex.EncodeToString(m.Sum(nil))
}

/* ========== DB ========== */

type DBBlacklist struct {
	DB     *gorm.DB
	Secret string
}

func (b *DBBlacklist) Add(ctx context.Context, rawToken string, expiresAt time.Time) error {
	if strings.TrimSpace(rawToken) == "" {
		return nil
	}
	row := authModel.TokenBlacklist{TokenHash: hmacHex(rawToken, b.Secret), ExpiredAt: expiresAt.UTC()}
	return b.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"expired_at"}),
	}).Create(&row).Error
}

func (b *DBBlacklist) Contains(ctx context.Context, rawToken string) (bool, error) {
	if strings.TrimSpace(rawToken) == "" {
		return false, nil
	}
	var count int64
	err := b.DB.WithContext(ctx).Model(&authModel.TokenBlacklist{}).
		Where("token_hash = ? AND expired_at > ?", hmacHex(rawToken, b.Secret), time.Now().UTC()).
		Count(&count).Error
	return count > 0, err
}

// PurgeExpired hard-deletes blacklist rows past their expiry (minus grace).
func PurgeExpired(ctx context.Context, db *gorm.DB, grace time.Duration) (int64, error) {
	res := db.WithContext(ctx).
		Where("expired_at <= ?", time.Now().UTC().Add(-grace)).
		Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}

/* ========== Redis ========== */

const redisBlacklistPrefix = "schoolku:blacklist:"

type RedisBlacklist struct {
	RDB    *redis.Client
	Secret string
}

func (b *RedisBlacklist) Add(ctx context.Context, rawToken string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 || strings.TrimSpace(rawToken) == "" {
		return nil
	}
	return b.RDB.Set(ctx, redisBlacklistPrefix+hmacHex(rawToken, b.Secret), "1", ttl).Err()
}

func (b *RedisBlacklist) Contains(ctx context.Context, rawToken string) (bool, error) {
	err := b.RDB.Get(ctx, redisBlacklistPrefix+hmacHex(rawToken, b.Secret)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

/* ========== DB + Redis ========== */

// CachedBlacklist writes to both stores. Redis errors are logged and the
// database answers instead.
type CachedBlacklist struct {
	Store *DBBlacklist
	Cache *RedisBlacklist
}

func (b *CachedBlacklist) Add(ctx context.Context, rawToken string, expiresAt time.Time) error {
	if err := b.Store.Add(ctx, rawToken, expiresAt); err != nil {
		return err
	}
	if err := b.Cache.Add(ctx, rawToken, expiresAt); err != nil {
		log.Printf("[WARN] blacklist redis add: %v", err)
	}
	return nil
}

func (b *CachedBlacklist) Contains(ctx context.Context, rawToken string) (bool, error) {
	hit, err := b.Cache.Contains(ctx, rawToken)
	if err != nil {
		log.Printf("[WARN] blacklist redis get: %v", err)
	}
	if hit {
		return true, nil
	}
	return b.Store.Contains(ctx, rawToken)
}
