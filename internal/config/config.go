package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/garrettladley/rrdash/internal/xslog"
)

type SessionBackend string

const (
	SessionBackendSQLite SessionBackend = "sqlite"
	SessionBackendRedis  SessionBackend = "redis"
	SessionBackendMemory SessionBackend = "memory"
)

type Config struct {
	APIURL      string        `env:"API_URL" envDefault:"http://localhost:8080"`
	WebURL      string        `env:"WEB_URL" envDefault:"http://localhost:5173"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	LogLevel    xslog.Level   `env:"LOG_LEVEL" envDefault:"info"`

	Session     Session
	Reports     Reports
	RulesFile   string `env:"RULES_FILE"`
	TelegramBot string `env:"TELEGRAM_BOT"`
}

type Session struct {
	Backend  SessionBackend `env:"SESSION_BACKEND" envDefault:"sqlite"`
	RedisURL string         `env:"REDIS_URL"`
}

// Reports selects where saved comparisons go. An empty DatabaseURL means
// the local sqlite database.
type Reports struct {
	DatabaseURL string `env:"DATABASE_URL"`
}

func Read() (Config, error) {
	return env.ParseAs[Config]()
}
