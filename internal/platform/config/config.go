package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server captures process-level configuration. Backends degrade gracefully:
// with no PostgresDSN the stores run in memory, with no RedisAddr login
// tickets are kept in memory, with no IssuerBaseURL a local fake issuer is
// used. That keeps `go run ./cmd/server` useful without infrastructure.
type Server struct {
	Addr          string        `env:"CARELINK_ADDR" envDefault:":8080"`
	LogLevel      string        `env:"CARELINK_LOG_LEVEL" envDefault:"info"`
	JWTSigningKey string        `env:"CARELINK_JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	PostgresDSN   string        `env:"CARELINK_POSTGRES_DSN"`
	RedisAddr     string        `env:"CARELINK_REDIS_ADDR"`
	RedisPassword string        `env:"CARELINK_REDIS_PASSWORD"`
	IssuerBaseURL string        `env:"CARELINK_ISSUER_URL"`
	IssuerAPIKey  string        `env:"CARELINK_ISSUER_API_KEY"`
	KafkaBrokers  []string      `env:"CARELINK_KAFKA_BROKERS"`
	AuditTopic    string        `env:"CARELINK_AUDIT_TOPIC"`
	TicketTTL     time.Duration `env:"CARELINK_LOGIN_TICKET_TTL" envDefault:"10m"`
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
