package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ruralpay/webbank/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Ledger    LedgerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database configuration. Driver is "postgres" or "sqlite";
// Path is only read for sqlite.
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	LockTTL  time.Duration
	LockWait time.Duration
}

type LedgerConfig struct {
	MaxOverdraft    int64
	InterestRate    string
	FreezeThreshold int
	DisputeWindow   int
	HistoryLimit    int
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	Argon2    Argon2Config
}

type Argon2Config struct {
	Time       uint32
	Memory     uint32
	Threads    uint8
	KeyLength  uint32
	SaltLength uint32
}

// RateLimitConfig disables rate limiting when RequestsPerSecond is zero.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// CORSConfig lists the browser origins allowed to call the API with
// credentials. An empty list allows no cross-origin callers.
type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

var envBindings = map[string]string{
	"server.port":             "PORT",
	"server.read_timeout":     "SERVER_READ_TIMEOUT",
	"server.write_timeout":    "SERVER_WRITE_TIMEOUT",
	"database.driver":         "DATABASE_DRIVER",
	"database.host":           "DATABASE_HOST",
	"database.port":           "DATABASE_PORT",
	"database.user":           "DATABASE_USER",
	"database.password":       "DATABASE_PASSWORD",
	"database.name":           "DATABASE_NAME",
	"database.ssl_mode":       "DATABASE_SSL_MODE",
	"database.path":           "DATABASE_PATH",
	"redis.host":              "REDIS_HOST",
	"redis.port":              "REDIS_PORT",
	"redis.password":          "REDIS_PASSWORD",
	"redis.db":                "REDIS_DB",
	"redis.lock_ttl":          "REDIS_LOCK_TTL",
	"redis.lock_wait":         "REDIS_LOCK_WAIT",
	"ledger.max_overdraft":    "LEDGER_MAX_OVERDRAFT",
	"ledger.interest_rate":    "LEDGER_INTEREST_RATE",
	"ledger.freeze_threshold": "LEDGER_FREEZE_THRESHOLD",
	"ledger.dispute_window":   "LEDGER_DISPUTE_WINDOW",
	"ledger.history_limit":    "LEDGER_HISTORY_LIMIT",
	"jwt.secret_key":          "JWT_SECRET_KEY",
	"jwt.expiry_hours":        "JWT_EXPIRY_HOURS",
	"argon2.time":             "ARGON2_TIME",
	"argon2.memory":           "ARGON2_MEMORY",
	"argon2.threads":          "ARGON2_THREADS",
	"argon2.key_length":       "ARGON2_KEY_LENGTH",
	"argon2.salt_length":      "ARGON2_SALT_LENGTH",
	"rate_limit.rps":          "RATE_LIMIT_RPS",
	"rate_limit.burst":        "RATE_LIMIT_BURST",
	"cors.allowed_origins":    "CORS_ALLOWED_ORIGINS",
	"log.level":               "LOG_LEVEL",
	"log.format":              "LOG_FORMAT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "webbank")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.path", "webbank.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Minute*5)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lock_ttl", 10*time.Second)
	v.SetDefault("redis.lock_wait", 5*time.Second)

	v.SetDefault("ledger.max_overdraft", ledger.DefaultMaxOverdraft)
	v.SetDefault("ledger.interest_rate", ledger.DefaultInterestRate.String())
	v.SetDefault("ledger.freeze_threshold", ledger.DefaultFreezeThreshold)
	v.SetDefault("ledger.dispute_window", ledger.DefaultDisputeWindow)
	v.SetDefault("ledger.history_limit", 10)

	v.SetDefault("jwt.expiry_hours", 24)
	v.SetDefault("argon2.time", 1)
	v.SetDefault("argon2.memory", 64*1024)
	v.SetDefault("argon2.threads", 4)
	v.SetDefault("argon2.key_length", 32)
	v.SetDefault("argon2.salt_length", 16)

	v.SetDefault("rate_limit.rps", 5)
	v.SetDefault("rate_limit.burst", 10)
	v.SetDefault("cors.allowed_origins", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads the optional env file at path, then lets environment variables
// override it. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		logrus.Infof("Config file not found, using defaults: %v", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetString("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Name:            v.GetString("database.name"),
			SSLMode:         v.GetString("database.ssl_mode"),
			Path:            v.GetString("database.path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetString("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			LockTTL:  v.GetDuration("redis.lock_ttl"),
			LockWait: v.GetDuration("redis.lock_wait"),
		},
		Ledger: LedgerConfig{
			MaxOverdraft:    v.GetInt64("ledger.max_overdraft"),
			InterestRate:    v.GetString("ledger.interest_rate"),
			FreezeThreshold: v.GetInt("ledger.freeze_threshold"),
			DisputeWindow:   v.GetInt("ledger.dispute_window"),
			HistoryLimit:    v.GetInt("ledger.history_limit"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("jwt.secret_key"),
			TokenTTL:  time.Duration(v.GetInt("jwt.expiry_hours")) * time.Hour,
			Argon2: Argon2Config{
				Time:       v.GetUint32("argon2.time"),
				Memory:     v.GetUint32("argon2.memory"),
				Threads:    uint8(v.GetUint("argon2.threads")),
				KeyLength:  v.GetUint32("argon2.key_length"),
				SaltLength: v.GetUint32("argon2.salt_length"),
			},
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("rate_limit.rps"),
			Burst:             v.GetInt("rate_limit.burst"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if _, err := cfg.Ledger.Rules(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Rules converts the ledger settings into engine rules.
func (c LedgerConfig) Rules() (ledger.Rules, error) {
	rate, err := decimal.NewFromString(c.InterestRate)
	if err != nil {
		return ledger.Rules{}, fmt.Errorf("invalid interest rate %q: %w", c.InterestRate, err)
	}
	if c.MaxOverdraft < 0 || c.FreezeThreshold < 1 || c.DisputeWindow < 1 {
		return ledger.Rules{}, fmt.Errorf("invalid ledger limits: %+v", c)
	}
	return ledger.Rules{
		MaxOverdraft:    c.MaxOverdraft,
		InterestRate:    rate,
		FreezeThreshold: c.FreezeThreshold,
		DisputeWindow:   c.DisputeWindow,
	}, nil
}

// splitList parses a comma-separated env value, dropping blanks.
func splitList(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// DSN builds the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}
