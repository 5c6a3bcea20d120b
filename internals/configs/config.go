package configs

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
)

var (
	JWTSecret string
	AppEnv    string
)

// =======================
// ENV LOADER
// =======================

func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file found, using system environment")
		}
	}

	JWTSecret = GetEnv("JWT_SECRET")
	AppEnv = GetEnv("APP_ENV", "development")

	if JWTSecret == "" {
		log.Println("JWT_SECRET is not set; auth middleware will reject every request")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// =======================
// GORM LOGGER CUSTOM
// =======================

type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() *GormLogger {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	clone := *l
	clone.LogLevel = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[GORM][info] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[GORM][warn] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[GORM][error] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error:
		log.Printf("[GORM][error] %v | %s | rows=%d | %s", err, elapsed, rows, sql)
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[GORM][slow>%s] %s | rows=%d | %s", l.SlowThreshold, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[GORM] %s | rows=%d | %s", elapsed, rows, sql)
	}
}
