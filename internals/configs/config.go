package configs

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	AppEnv         string
	Port           string
	JWTSecret      string
	JWTTTL         time.Duration
	GoogleClientID string

	MidtransServerKey string
	MidtransUseProd   bool

	RollbarToken string

	UploadDir        string
	CorsAllowOrigins string
	RateLimitPerMin  int
	CookieSecure     bool

	TrashRetentionDays int
	TrashCronSchedule  string
	BlacklistTTLDays   int

	DBAutoMigrate bool
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Fichier .env introuvable, utilisation des variables système")
		} else {
			log.Println("✅ Fichier .env chargé")
		}
	}

	AppEnv = GetEnv("APP_ENV", "development")
	Port = GetEnv("PORT", "8080")
	JWTSecret = GetEnv("JWT_SECRET")
	JWTTTL = time.Duration(GetEnvInt("JWT_TTL_HOURS", 24)) * time.Hour
	GoogleClientID = GetEnv("GOOGLE_CLIENT_ID")

	MidtransServerKey = GetEnv("MIDTRANS_SERVER_KEY")
	MidtransUseProd = GetEnvBool("MIDTRANS_USE_PROD", false)

	RollbarToken = GetEnv("ROLLBAR_TOKEN")

	UploadDir = GetEnv("UPLOAD_DIR", "./uploads")
	CorsAllowOrigins = GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	RateLimitPerMin = GetEnvInt("RATE_LIMIT_PER_MINUTE", 300)
	CookieSecure = GetEnvBool("COOKIE_SECURE", AppEnv == "production")

	TrashRetentionDays = GetEnvInt("TRASH_RETENTION_DAYS", 30)
	TrashCronSchedule = GetEnv("CRON_TRASH_SCHEDULE", "@daily")
	BlacklistTTLDays = GetEnvInt("TOKEN_BLACKLIST_TTL_DAYS", 7)

	DBAutoMigrate = GetEnvBool("DB_AUTO_MIGRATE", true)

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET non défini !")
	} else {
		log.Println("✅ JWT_SECRET chargé.")
	}
	if GoogleClientID == "" {
		log.Println("⚠️ GOOGLE_CLIENT_ID non défini, connexion Google désactivée")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return strings.TrimSpace(value)
}

func GetEnvInt(key string, def int) int {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] %s=%q n'est pas un entier, valeur par défaut %d", key, v, def)
		return def
	}
	return n
}

func GetEnvBool(key string, def bool) bool {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// =======================
// GORM LOGGER
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

// NewGormLogger reads DB_LOG_LEVEL (silent|error|warn|info), default warn.
func NewGormLogger() *GormLogger {
	lvl := gormLogger.Warn
	switch strings.ToLower(GetEnv("DB_LOG_LEVEL")) {
	case "silent":
		lvl = gormLogger.Silent
	case "error":
		lvl = gormLogger.Error
	case "info":
		lvl = gormLogger.Info
	}
	return &GormLogger{SlowThreshold: 200 * time.Millisecond, LogLevel: lvl}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error && !strings.Contains(err.Error(), "record not found"):
		log.Printf("[ERROR] %s | %v | %s | rows:%d | %s", utils.FileWithLineNum(), err, elapsed, rows, sql)
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | rows:%d | %s", utils.FileWithLineNum(), elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | rows:%d | %s", utils.FileWithLineNum(), elapsed, rows, sql)
	}
}

func (l *GormLogger) String() string {
	return fmt.Sprintf("GormLogger(level=%d, slow=%s)", l.LogLevel, l.SlowThreshold)
}
