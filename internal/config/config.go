package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppHost  string
	HTTPPort string
	AppEnv   string
	LogLevel string

	// APIBaseURL — адрес REST бэкенда MediCloud, единственный обязательный параметр.
	APIBaseURL string

	// Redis для хранилища сессий. Если адрес пустой — сессии живут в памяти процесса.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// SessionTTL — серверный TTL записи сессии. Клиентского истечения нет:
	// просроченный токен проявляется как 401 от бэкенда.
	SessionTTL time.Duration

	CookieName   string
	CookieSecure bool

	// Kafka для best-effort аудита действий портала. Пустые значения — no-op.
	KafkaBrokers    []string
	KafkaTopicAudit string

	// CORSOrigins — origin'ы браузерных клиентов, через запятую.
	CORSOrigins []string
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg := &Config{
		AppHost:         getEnv("APP_HOST", "0.0.0.0"),
		HTTPPort:        firstEnv("APP_PORT", "HTTP_PORT", "8088"),
		AppEnv:          getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:3000"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         parseInt(getEnv("REDIS_DB", "0")),
		SessionTTL:      parseDuration(getEnv("SESSION_TTL", "12h")),
		CookieName:      getEnv("COOKIE_NAME", "medicloud_sid"),
		CookieSecure:    getEnv("COOKIE_SECURE", "false") == "true",
		KafkaBrokers:    splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopicAudit: getEnv("KAFKA_TOPIC_AUDIT", ""),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "")),
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return errors.New("config: API_BASE_URL is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	if c.AppEnv == "production" && !c.CookieSecure {
		return errors.New("config: in production COOKIE_SECURE must be true")
	}
	return nil
}

func (c *Config) Addr() string {
	return c.AppHost + ":" + c.HTTPPort
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 12 * time.Hour
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	for _, k := range keysAndDef[:len(keysAndDef)-1] {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
