package model

import (
	"time"
)

// TokenBlacklist holds revoked access tokens by SHA-256 hash until they expire.
type TokenBlacklist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TokenHash string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"-"`
	ExpiredAt time.Time `gorm:"index" json:"expiredAt"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (TokenBlacklist) TableName() string {
	return "token_blacklist"
}
