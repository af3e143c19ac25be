package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env          string
	Port         int
	DBURL        string
	UploadDir    string
	AdminSecret  string
	CORSOrigins  []string
	RedisAddr    string
	OtelEndpoint string
}

func Load() Config {
	// a missing .env is fine, real env vars still apply
	_ = godotenv.Load()

	return Config{
		Env:          getEnv("APP_ENV", "dev"),
		Port:         getEnvInt("PORT", 8080),
		DBURL:        buildDBURL(),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		AdminSecret:  getEnv("ADMIN_SECRET", "true"),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "")),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		OtelEndpoint: getEnv("OTEL_ENDPOINT", ""),
	}
}

func buildDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "festreg")
	pass := getEnv("DB_PASSWORD", "festreg")
	name := getEnv("DB_NAME", "festreg")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)

		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}
