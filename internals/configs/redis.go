package configs

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RDB stays nil when REDIS_ADDR is unset or unreachable; callers fall back to the database.
var RDB *redis.Client

func InitRedis() {
	addr := GetEnv("REDIS_ADDR")
	if addr == "" {
		log.Println("⚠️ REDIS_ADDR non défini, liste noire des jetons en base uniquement")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: GetEnv("REDIS_PASSWORD"),
		DB:       GetEnvInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] redis ping %s: %v", addr, err)
		_ = client.Close()
		return
	}
	RDB = client
	log.Println("✅ Redis connecté")
}
